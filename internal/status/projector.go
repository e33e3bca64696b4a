package status

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	pkgexporter "github.com/goran-ethernal/ChainExporter/pkg/exporter"
	"github.com/goran-ethernal/ChainExporter/pkg/push"
)

const (
	triggerHead       = "head"
	triggerSubscriber = "subscriber"

	headBufferSize = 16
)

// Config is everything a Projector is built from.
type Config struct {
	Bindings      *contracts.Bindings
	Publisher     push.Publisher
	FounderTokens *big.Int

	// Stats is optional; when set every head is also recorded.
	Stats *StatsCollector
}

// Projector republishes the latest block and a status snapshot on every
// new head, and sends both to each new subscriber right after it connects.
type Projector struct {
	bindings      *contracts.Bindings
	reader        *reader
	publisher     push.Publisher
	founderTokens *big.Int
	stats         *StatsCollector
	log           *logger.Logger

	mu       sync.RWMutex
	lastHead *types.Header
}

// New creates a status projector for one session.
func New(cfg Config, log *logger.Logger) (*Projector, error) {
	if cfg.Bindings == nil {
		return nil, errors.New("contract bindings are required")
	}
	if cfg.Publisher == nil {
		return nil, errors.New("publisher is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	founder := cfg.FounderTokens
	if founder == nil {
		founder = new(big.Int)
	}

	return &Projector{
		bindings:      cfg.Bindings,
		reader:        &reader{bindings: cfg.Bindings, log: log},
		publisher:     cfg.Publisher,
		founderTokens: founder,
		stats:         cfg.Stats,
		log:           log,
	}, nil
}

// Run follows new heads and new subscribers until ctx is cancelled or the
// head subscription fails, in which case an error wrapping ErrLiveStream is
// returned.
func (p *Projector) Run(ctx context.Context) error {
	heads := make(chan *types.Header, headBufferSize)
	sub, err := p.bindings.Token.Client().SubscribeNewHead(ctx, heads)
	if err != nil {
		return fmt.Errorf("%w: subscribe new heads: %w", pkgexporter.ErrLiveStream, err)
	}
	defer sub.Unsubscribe()

	subscribers := p.publisher.Subscribers()

	p.log.Info("status projector started")

	for {
		select {
		case head := <-heads:
			p.OnHead(ctx, head)

		case s, ok := <-subscribers:
			if !ok {
				subscribers = nil
				continue
			}
			p.OnSubscriber(ctx, s)

		case err := <-sub.Err():
			if ctx.Err() != nil {
				return nil
			}
			if err == nil {
				err = errors.New("subscription closed")
			}
			p.log.Warnw("new head subscription failed", "error", err)
			return fmt.Errorf("%w: new heads: %w", pkgexporter.ErrLiveStream, err)

		case <-ctx.Done():
			return nil
		}
	}
}

// OnHead broadcasts LATEST_BLOCK followed by the refreshed status. A cycle
// whose required reads fail is logged and skipped.
func (p *Projector) OnHead(ctx context.Context, head *types.Header) {
	if head == nil || head.Number == nil {
		return
	}

	p.mu.Lock()
	p.lastHead = head
	p.mu.Unlock()

	HeadBlockSet(head.Number.Uint64())
	p.publisher.Broadcast(push.TopicLatestBlock, NewLatestBlock(head))

	r, err := p.reader.read(ctx)
	if err != nil {
		p.skipCycle(ctx, triggerHead, err)
		return
	}

	snap := project(r, p.founderTokens)
	p.publisher.Broadcast(push.TopicAuctionStatus, snap.Auction)
	p.publisher.Broadcast(push.TopicStatusUpdated, snap)
	StatusCycleInc(triggerHead, "ok")

	if p.stats != nil {
		if err := p.stats.Record(ctx, head.Number.Uint64(), head.Time, r); err != nil {
			p.log.Warnw("failed to record stats", "block", head.Number.Uint64(), "error", err)
		}
	}
}

// OnSubscriber sends the latest block and the current status to one subscriber.
func (p *Projector) OnSubscriber(ctx context.Context, s push.Subscriber) {
	head := p.LastHead()
	if head == nil {
		h, err := p.bindings.Token.Client().HeaderByNumber(ctx, nil)
		if err != nil {
			p.log.Warnw("failed to get latest block", "subscriber", s.ID, "error", err)
		} else {
			head = h
		}
	}

	if head != nil {
		p.send(s.ID, push.TopicLatestBlock, NewLatestBlock(head))
	}

	r, err := p.reader.read(ctx)
	if err != nil {
		p.skipCycle(ctx, triggerSubscriber, err)
		return
	}

	snap := project(r, p.founderTokens)
	p.send(s.ID, push.TopicAuctionStatus, snap.Auction)
	p.send(s.ID, push.TopicStatusUpdated, snap)
	StatusCycleInc(triggerSubscriber, "ok")
}

// Snapshot reads and projects the current status.
func (p *Projector) Snapshot(ctx context.Context) (*Snapshot, error) {
	r, err := p.reader.read(ctx)
	if err != nil {
		return nil, err
	}

	return project(r, p.founderTokens), nil
}

// LastHead returns the last head seen, nil before the first one.
func (p *Projector) LastHead() *types.Header {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.lastHead
}

func (p *Projector) send(subscriberID, topic string, payload any) {
	if err := p.publisher.SendTo(subscriberID, topic, payload); err != nil {
		if errors.Is(err, push.ErrUnknownSubscriber) {
			p.log.Debugw("subscriber left before status was sent", "subscriber", subscriberID)
			return
		}
		p.log.Warnw("failed to send status", "subscriber", subscriberID, "topic", topic, "error", err)
	}
}

func (p *Projector) skipCycle(ctx context.Context, trigger string, err error) {
	if ctx.Err() != nil {
		return
	}

	StatusCycleInc(trigger, "skipped")
	p.log.Warnw("could not fetch status, skipping", "trigger", trigger, "error", err)
}
