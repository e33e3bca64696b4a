package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	internalrpc "github.com/goran-ethernal/ChainExporter/internal/rpc"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/exporter"
	"github.com/goran-ethernal/ChainExporter/pkg/rpc"
)

// State is the connection manager state.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

const stateBufferSize = 16

// Dialer opens a new client connection to the node.
type Dialer func(ctx context.Context) (rpc.ChainClient, error)

// NewDialer returns a dialer for the configured WebSocket URL or IPC path.
func NewDialer(cfg config.ChainConfig) Dialer {
	return func(ctx context.Context) (rpc.ChainClient, error) {
		client, err := internalrpc.Dial(ctx, cfg.Endpoint(), cfg.Retry)
		if err != nil {
			return nil, err
		}

		return client, nil
	}
}

// Manager owns the node connection. Every successful connect publishes a brand
// new Session; when the connection is lost the session is ended and the manager
// retries at a fixed interval until a dial succeeds again.
type Manager struct {
	cfg       config.ChainConfig
	contracts config.ContractsConfig
	dialer    Dialer
	log       *logger.Logger

	state    atomic.Int32
	sessions chan *Session
	states   chan State

	mu      sync.RWMutex
	current *Session
	nextID  uint64
}

// New creates a new connection manager.
func New(
	cfg config.ChainConfig,
	contractsCfg config.ContractsConfig,
	dialer Dialer,
	log *logger.Logger,
) (*Manager, error) {
	if dialer == nil {
		return nil, errors.New("dialer is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	m := &Manager{
		cfg:       cfg,
		contracts: contractsCfg,
		dialer:    dialer,
		log:       log,
		sessions:  make(chan *Session, 1),
		states:    make(chan State, stateBufferSize),
	}
	ConnectionStateSet(Disconnected)

	return m, nil
}

// Sessions delivers a new session after every successful connect.
// The channel is closed when Run returns.
func (m *Manager) Sessions() <-chan *Session {
	return m.sessions
}

// States delivers state transitions. Slow readers miss intermediate
// transitions; State is always current.
func (m *Manager) States() <-chan State {
	return m.states
}

// State returns the current connection state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Bindings returns the contract bindings of the live session, or nil.
func (m *Manager) Bindings() *contracts.Bindings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil
	}

	return m.current.Bindings
}

// Run connects and keeps reconnecting until ctx is cancelled. Every redial,
// whether after a failed dial or an ended session, waits ReconnectInterval.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.states)
	defer close(m.sessions)

	for {
		session, err := m.connect(ctx)
		if err != nil {
			m.setState(Disconnected)
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case m.sessions <- session:
		case <-ctx.Done():
			m.endSession(session, ctx.Err())
			m.setState(Disconnected)
			return nil
		}

		cause := m.supervise(ctx, session)
		m.endSession(session, cause)

		if ctx.Err() != nil {
			m.setState(Disconnected)
			m.log.Info("connection manager stopped")
			return nil
		}

		ReconnectsInc()
		m.setState(Connecting)
		m.log.Warnw("connection lost, reconnecting",
			"session", session.ID,
			"error", cause,
			"retry_in", m.cfg.ReconnectInterval.Duration,
		)

		select {
		case <-ctx.Done():
			m.setState(Disconnected)
			m.log.Info("connection manager stopped")
			return nil
		case <-time.After(m.cfg.ReconnectInterval.Duration):
		}
	}
}

// connect dials until it succeeds. It only fails when ctx is done or the
// contract bindings cannot be built.
func (m *Manager) connect(ctx context.Context) (*Session, error) {
	m.setState(Connecting)

	endpoint := m.cfg.Endpoint()
	for attempt := 1; ; attempt++ {
		client, err := m.dial(ctx)
		if err == nil {
			bindings, err := contracts.NewBindings(client, m.contracts)
			if err != nil {
				client.Close()
				return nil, fmt.Errorf("failed to build contract bindings: %w", err)
			}

			m.mu.Lock()
			m.nextID++
			session := newSession(ctx, m.nextID, client, bindings)
			m.current = session
			m.mu.Unlock()

			SessionsStartedInc()
			m.setState(Connected)
			m.log.Infow("connected", "endpoint", endpoint, "session", session.ID, "attempts", attempt)

			return session, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		DialFailuresInc()
		m.log.Warnw("failed to connect",
			"endpoint", endpoint,
			"attempt", attempt,
			"error", err,
			"retry_in", m.cfg.ReconnectInterval.Duration,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.cfg.ReconnectInterval.Duration):
		}
	}
}

func (m *Manager) dial(ctx context.Context) (rpc.ChainClient, error) {
	if m.cfg.DialTimeout.Duration <= 0 {
		return m.dialer(ctx)
	}

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.DialTimeout.Duration)
	defer cancel()

	return m.dialer(dialCtx)
}

// supervise blocks until the session is reported lost, the liveness probe
// fails or ctx is done, and returns the cause.
func (m *Manager) supervise(ctx context.Context, session *Session) error {
	var probe <-chan time.Time
	if m.cfg.HealthCheckInterval.Duration > 0 {
		ticker := time.NewTicker(m.cfg.HealthCheckInterval.Duration)
		defer ticker.Stop()
		probe = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-session.lost:
			if errors.Is(err, exporter.ErrConnectionLost) {
				return err
			}
			return fmt.Errorf("%w: %w", exporter.ErrConnectionLost, err)

		case <-probe:
			if err := m.healthCheck(ctx, session); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("%w: health check failed: %w", exporter.ErrConnectionLost, err)
			}
		}
	}
}

func (m *Manager) healthCheck(ctx context.Context, session *Session) error {
	timeout := m.cfg.DialTimeout.Duration
	if timeout <= 0 {
		timeout = m.cfg.HealthCheckInterval.Duration
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	head, err := session.Client.BlockNumber(probeCtx)
	if err != nil {
		return err
	}

	m.log.Debugw("health check ok", "session", session.ID, "head", head)

	return nil
}

func (m *Manager) endSession(session *Session, cause error) {
	m.mu.Lock()
	if m.current == session {
		m.current = nil
	}
	m.mu.Unlock()

	session.end(cause)
}

func (m *Manager) setState(state State) {
	if State(m.state.Swap(int32(state))) == state {
		return
	}

	ConnectionStateSet(state)

	select {
	case m.states <- state:
	default:
		m.log.Debugw("state channel full, dropping transition", "state", state)
	}
}
