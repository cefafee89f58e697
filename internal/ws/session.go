package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 64

var errSessionStalled = errors.New("session send buffer full")

// SessionInfo is the identity and handshake metadata attached to a session.
type SessionInfo struct {
	ConnID      string
	UserID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// Session owns all writes to a single websocket connection. Events are
// queued on a buffered channel and written by one pump goroutine, so
// broadcasts from concurrent router calls never write the socket directly.
type Session struct {
	conn *websocket.Conn
	info SessionInfo
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewSession wraps an upgraded connection. The caller must start the write
// pump with Run.
func NewSession(conn *websocket.Conn, info SessionInfo) *Session {
	return &Session{
		conn: conn,
		info: info,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Info returns the session's handshake metadata.
func (s *Session) Info() SessionInfo {
	return s.info
}

// Send queues a payload for delivery. It never blocks: a full buffer means
// the recipient has stalled and the session is reported as failed so the
// caller can drop it without holding up other recipients.
func (s *Session) Send(payload []byte) error {
	select {
	case <-s.done:
		return websocket.ErrCloseSent
	case s.send <- payload:
		return nil
	default:
		return errSessionStalled
	}
}

// Run writes queued payloads until the session closes or a write fails.
func (s *Session) Run() {
	defer s.conn.Close()
	for {
		select {
		case <-s.done:
			_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case payload := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.Close()
				return
			}
		}
	}
}

// Close stops the pump and closes the underlying connection. Safe to call
// more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}
