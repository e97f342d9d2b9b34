package wsgen

import (
	"errors"
	"sync"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message types shared by gorilla/websocket and its fasthttp fork
const (
	TextMessage   = websocket.TextMessage
	BinaryMessage = websocket.BinaryMessage
	CloseMessage  = websocket.CloseMessage
)

const writeWait = 10 * time.Second

// ErrSessionClosed is returned when writing to a closed session
var ErrSessionClosed = errors.New("wsgen: session closed")

// MessageConn is the connection a session reads from and writes to.
// *websocket.Conn from gorilla/websocket and from fasthttp/websocket both satisfy it.
type MessageConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Session is one connected peer. Writes are serialized, so handlers may send
// from any goroutine.
type Session struct {
	id         string
	path       string
	remoteAddr string
	conn       MessageConn

	writeMu     sync.Mutex
	closed      bool
	closeStatus *CloseStatus

	attrMu sync.RWMutex
	attrs  map[string]any
}

// NewSession wraps conn in a session with a fresh id
func NewSession(path, remoteAddr string, conn MessageConn) *Session {
	return &Session{
		id:         uuid.New().String(),
		path:       path,
		remoteAddr: remoteAddr,
		conn:       conn,
		attrs:      make(map[string]any),
	}
}

// ID returns the unique session id
func (s *Session) ID() string { return s.id }

// Path returns the base path the session connected to
func (s *Session) Path() string { return s.path }

// RemoteAddr returns the peer address
func (s *Session) RemoteAddr() string { return s.remoteAddr }

// Get returns a session attribute
func (s *Session) Get(key string) (any, bool) {
	s.attrMu.RLock()
	defer s.attrMu.RUnlock()
	v, ok := s.attrs[key]
	return v, ok
}

// Set stores a session attribute
func (s *Session) Set(key string, value any) {
	s.attrMu.Lock()
	defer s.attrMu.Unlock()
	s.attrs[key] = value
}

// Delete removes a session attribute
func (s *Session) Delete(key string) {
	s.attrMu.Lock()
	defer s.attrMu.Unlock()
	delete(s.attrs, key)
}

// SendText writes one text frame
func (s *Session) SendText(text string) error {
	return s.write(TextMessage, []byte(text))
}

// SendJSON writes v as one JSON text frame
func (s *Session) SendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.write(TextMessage, data)
}

func (s *Session) write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return s.conn.WriteMessage(messageType, data)
}

// Close sends a close frame with status. Closing twice is a no-op, and so is
// closing a connection whose transport already sent its close frame.
func (s *Session) Close(status CloseStatus) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.closeStatus = &status

	msg := websocket.FormatCloseMessage(int(status.Code), status.Reason)
	err := s.conn.WriteControl(CloseMessage, msg, time.Now().Add(writeWait))
	if errors.Is(err, websocket.ErrCloseSent) || errors.Is(err, fastws.ErrCloseSent) {
		return nil
	}
	return err
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.closed
}

// localCloseStatus returns the status passed to Close, if any
func (s *Session) localCloseStatus() (CloseStatus, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closeStatus == nil {
		return CloseStatus{}, false
	}
	return *s.closeStatus, true
}
