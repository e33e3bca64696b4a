package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/push"
	"github.com/gorilla/websocket"
)

// Compile-time check to ensure Hub implements push.Publisher interface.
var _ push.Publisher = (*Hub)(nil)

const (
	subscriberQueueSize = 16
	modeBroadcast       = "broadcast"
	modeDirect          = "direct"
)

// Hub serves the WebSocket push endpoint and fans messages out to every
// connected subscriber. A subscriber whose queue is full misses the message;
// it is never allowed to block the publisher.
type Hub struct {
	cfg      config.PushConfig
	log      *logger.Logger
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	clients     map[string]*client
	subscribers chan push.Subscriber
	closed      bool

	server *http.Server
}

// NewHub creates a new push hub.
func NewHub(cfg config.PushConfig, log *logger.Logger) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 1
	}

	return &Hub{
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:     make(map[string]*client),
		subscribers: make(chan push.Subscriber, subscriberQueueSize),
	}
}

// Subscribers implements push.Publisher. The channel is closed by Close.
func (h *Hub) Subscribers() <-chan push.Subscriber {
	return h.subscribers
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Broadcast implements push.Publisher.
func (h *Hub) Broadcast(topic string, payload any) {
	frame, err := encode(topic, payload)
	if err != nil {
		h.log.Errorw("failed to encode push message", "topic", topic, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(frame) {
			MessageDroppedInc(topic)
			h.log.Warnw("subscriber queue full, dropping message", "subscriber", c.id, "topic", topic)
		}
	}

	MessageSentInc(topic, modeBroadcast)
	h.log.Debugw("broadcast", "topic", topic, "subscribers", len(clients))
}

// SendTo implements push.Publisher.
func (h *Hub) SendTo(subscriberID, topic string, payload any) error {
	h.mu.RLock()
	c, ok := h.clients[subscriberID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", push.ErrUnknownSubscriber, subscriberID)
	}

	frame, err := encode(topic, payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", topic, err)
	}

	if !c.enqueue(frame) {
		MessageDroppedInc(topic)
		return fmt.Errorf("subscriber %s queue is full", subscriberID)
	}

	MessageSentInc(topic, modeDirect)

	return nil
}

// ServeHTTP upgrades the request to a WebSocket subscription.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{
		id:      uuid.NewString(),
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, h.cfg.SendBuffer),
		closing: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c.id] = c
	count := len(h.clients)

	sub := push.Subscriber{ID: c.id, ConnectedAt: time.Now().UTC()}
	select {
	case h.subscribers <- sub:
	default:
		h.log.Warnw("subscriber notifications full, new subscriber not announced", "subscriber", c.id)
	}
	h.mu.Unlock()

	SubscribersSet(count)
	h.log.Infow("subscriber connected", "subscriber", c.id, "remote", r.RemoteAddr, "subscribers", count)

	go c.writer(h.cfg.WriteTimeout.Duration)
	go c.reader()
}

// Handler returns the mux serving the push endpoint.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(h.cfg.Path, h)

	return mux
}

// Start binds the listen address and serves the push endpoint until Stop.
func (h *Hub) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", h.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", h.cfg.ListenAddress, err)
	}

	h.server = &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Errorw("push server error", "error", err)
		}
	}()

	h.log.Infow("push server started", "address", listener.Addr().String(), "path", h.cfg.Path)

	return nil
}

// Stop shuts the push server down and disconnects every subscriber.
func (h *Hub) Stop(ctx context.Context) error {
	var err error
	if h.server != nil {
		if shutdownErr := h.server.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("failed to shutdown push server: %w", shutdownErr)
		}
	}

	h.Close()

	return err
}

// Close disconnects every subscriber and closes the Subscribers channel.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true

	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	close(h.subscribers)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	count := len(h.clients)
	h.mu.Unlock()

	SubscribersSet(count)
	h.log.Infow("subscriber disconnected", "subscriber", id, "subscribers", count)
}

func encode(topic string, payload any) ([]byte, error) {
	return json.Marshal(push.Message{Event: topic, Data: payload})
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn

	send      chan []byte
	closing   chan struct{}
	closeOnce sync.Once
}

func (c *client) enqueue(frame []byte) bool {
	select {
	case <-c.closing:
		return true
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *client) writer(writeTimeout time.Duration) {
	defer c.close()

	for {
		select {
		case frame := <-c.send:
			if writeTimeout > 0 {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.hub.log.Debugw("write failed, closing subscriber", "subscriber", c.id, "error", err)
				return
			}

		case <-c.closing:
			return
		}
	}
}

// reader drains inbound frames; subscribers only listen, but reading is
// what surfaces a closed connection.
func (c *client) reader() {
	defer c.close()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closing)
		_ = c.conn.Close()
		c.hub.remove(c.id)
	})
}
