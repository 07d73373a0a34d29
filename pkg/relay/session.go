package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nbd-wtf/go-nostr"

	"github.com/tna-cash/treatsend/pkg/bus"
	"github.com/tna-cash/treatsend/pkg/logger"
)

// ErrNotConnected is returned by Publish when the session has no live
// relay connection.
var ErrNotConnected = errors.New("relay session is not connected")

// Publisher is the message-bus capability the transfer pipeline
// consumes: one endpoint, connect on demand, sequential publishes.
type Publisher interface {
	URL() string
	IsConnected() bool
	Connect(ctx context.Context) error
	Publish(ctx context.Context, event *nostr.Event) error
}

// Session owns the single relay connection for the lifetime of an app
// session. It is created once, passed explicitly to whoever needs to
// publish, and reconnected on demand by calling Connect again.
type Session struct {
	url    string
	events *bus.EventBus

	mu   sync.Mutex
	conn *nostr.Relay
}

func NewSession(url string, events *bus.EventBus) *Session {
	return &Session{url: url, events: events}
}

func (s *Session) URL() string {
	return s.url
}

// IsConnected reports whether the underlying relay connection is live.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && s.conn.IsConnected()
}

// Connect dials the relay. Calling Connect on a live session is a
// no-op; calling it after a drop establishes a fresh connection.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil && s.conn.IsConnected() {
		return nil
	}

	logger.InfoCF("relay", "Connecting to relay", map[string]interface{}{
		"url": s.url,
	})

	conn, err := nostr.RelayConnect(ctx, s.url)
	if err != nil {
		s.conn = nil
		s.emitStatus(false, err)
		return fmt.Errorf("failed to connect to relay %s: %w", s.url, err)
	}

	s.conn = conn
	s.emitStatus(true, nil)
	logger.InfoC("relay", "Relay connected")
	return nil
}

// Publish sends one signed event over the session connection. Each
// publish is attempted exactly once; there are no retries.
func (s *Session) Publish(ctx context.Context, event *nostr.Event) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil || !conn.IsConnected() {
		return ErrNotConnected
	}

	if err := conn.Publish(ctx, *event); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}

// Close tears down the connection. The session can be reused by
// calling Connect again.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.emitStatus(false, nil)
		logger.InfoC("relay", "Relay connection closed")
	}
}

func (s *Session) emitStatus(connected bool, err error) {
	status := bus.RelayStatus{URL: s.url, Connected: connected}
	if err != nil {
		status.Error = err.Error()
	}
	s.events.Publish(bus.Event{
		Type:  bus.EventRelayStatus,
		Relay: &status,
	})
}
