package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/riverwatch/riverwatch/internal/model"
)

// State is the connection state of a Manager.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// ErrRetriesExhausted is returned by Run once the maximum number of
// reconnect attempts has failed. The manager stays disconnected until it is
// externally restarted; this is a stated limitation, not a recoverable
// condition.
var ErrRetriesExhausted = errors.New("wsclient: reconnect attempts exhausted")

const dialTimeout = 10 * time.Second

// dialFunc opens a WebSocket connection. Abstracted so tests can inject an
// always-failing or in-memory dialer.
type dialFunc func(ctx context.Context, url string) (*websocket.Conn, error)

// Manager maintains one real-time connection to the server, parses inbound
// events and hands them to the handler, and reconnects with bounded linear
// backoff when the connection is lost: each delay is the base multiplied by
// the attempt count (1x, 2x, ... up to the attempt limit). A successful
// connection resets the counter.
type Manager struct {
	url         string
	base        time.Duration
	maxAttempts int
	handler     func(model.Event)

	dial dialFunc
	wait func(ctx context.Context, d time.Duration) bool // false if ctx expired

	mu       sync.Mutex
	state    State
	attempts int
	conn     *websocket.Conn
}

// New creates a Manager that connects to url and delivers every parsed
// event to handler. base is the backoff unit and maxAttempts the retry
// budget; handler may be nil to discard events.
func New(url string, base time.Duration, maxAttempts int, handler func(model.Event)) *Manager {
	if handler == nil {
		handler = func(model.Event) {}
	}
	return &Manager{
		url:         url,
		base:        base,
		maxAttempts: maxAttempts,
		handler:     handler,
		state:       StateDisconnected,
		dial:        defaultDial,
		wait:        defaultWait,
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempts returns the current reconnect-attempt counter.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Send writes one event to the server. It is a silent no-op unless the
// manager is currently connected.
func (m *Manager) Send(ev model.Event) {
	m.mu.Lock()
	conn := m.conn
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || conn == nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("wsclient: marshal outbound event", "type", ev.Type, "err", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Warn("wsclient: send failed", "err", err)
	}
}

// Run connects and serves the connection until ctx is cancelled or the
// retry budget is spent. It returns nil on cancellation and
// ErrRetriesExhausted after the final failed attempt.
func (m *Manager) Run(ctx context.Context) error {
	for {
		m.setState(StateConnecting)
		conn, err := m.dial(ctx, m.url)
		if err != nil {
			slog.Warn("wsclient: connect failed", "url", m.url, "err", err)
		} else {
			m.mu.Lock()
			m.conn = conn
			m.state = StateConnected
			m.attempts = 0
			m.mu.Unlock()
			slog.Info("wsclient: connected", "url", m.url)

			// Unblock the read loop if the context ends first.
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			err = m.readLoop(conn)
			stop()
			conn.Close()
			m.mu.Lock()
			m.conn = nil
			m.mu.Unlock()

			if ctx.Err() != nil {
				m.setState(StateDisconnected)
				return nil
			}
			slog.Warn("wsclient: connection lost", "url", m.url, "err", err)
		}

		m.setState(StateDisconnected)
		if ctx.Err() != nil {
			return nil
		}

		m.mu.Lock()
		if m.attempts >= m.maxAttempts {
			m.mu.Unlock()
			slog.Error("wsclient: giving up", "url", m.url, "attempts", m.maxAttempts)
			return ErrRetriesExhausted
		}
		m.attempts++
		attempt := m.attempts
		m.mu.Unlock()

		delay := time.Duration(attempt) * m.base
		slog.Info("wsclient: reconnecting",
			"attempt", attempt, "max_attempts", m.maxAttempts, "delay", delay)
		if !m.wait(ctx, delay) {
			return nil
		}
	}
}

// readLoop parses inbound frames until the connection drops. A frame that
// does not parse as an event envelope is logged and discarded; it never
// takes the manager down.
func (m *Manager) readLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env model.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
			slog.Warn("wsclient: discarding malformed event", "err", err, "bytes", len(data))
			continue
		}
		m.handler(model.Event{Type: env.Type, Data: env.Data})
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func defaultDial(ctx context.Context, url string) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	return conn, err
}

// defaultWait sleeps for d, returning false if ctx expires first.
func defaultWait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
