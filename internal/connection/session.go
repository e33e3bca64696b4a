package connection

import (
	"context"
	"sync"

	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/pkg/rpc"
)

// Session is the lifetime of one successful connection.
// Everything built for a session must stop when its context is done.
type Session struct {
	ID       uint64
	Client   rpc.ChainClient
	Bindings *contracts.Bindings

	ctx    context.Context
	cancel context.CancelCauseFunc

	lost     chan error
	lostOnce sync.Once
}

func newSession(parent context.Context, id uint64, client rpc.ChainClient, bindings *contracts.Bindings) *Session {
	ctx, cancel := context.WithCancelCause(parent)

	return &Session{
		ID:       id,
		Client:   client,
		Bindings: bindings,
		ctx:      ctx,
		cancel:   cancel,
		lost:     make(chan error, 1),
	}
}

// Context is cancelled when the session ends.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Err returns the reason the session ended, or nil while it is alive.
func (s *Session) Err() error {
	if s.ctx.Err() == nil {
		return nil
	}

	return context.Cause(s.ctx)
}

// Lost reports that the connection behind this session is unusable.
// Only the first report is kept.
func (s *Session) Lost(err error) {
	s.lostOnce.Do(func() {
		s.lost <- err
	})
}

func (s *Session) end(cause error) {
	s.cancel(cause)
	s.Client.Close()
}
