// Package wsgen is the runtime generated dispatchers depend on: sessions,
// codecs, close statuses and the hosts that serve dispatchers over WebSocket.
package wsgen

import "fmt"

// Dispatcher routes the text messages of a session to controller handlers.
// Generated dispatchers implement it. A dispatcher is shared by every session
// on its path and may be called concurrently.
type Dispatcher interface {
	HandleText(session *Session, message []byte) error
	ConnectionClosed(session *Session, status CloseStatus)
}

// Registrar binds dispatchers to paths on a hosting server
type Registrar interface {
	Handle(path string, d Dispatcher)
}

// CloseCode is a WebSocket close code
type CloseCode int

// Close codes defined by RFC 6455, section 7.4.1
const (
	CloseNormalClosure           CloseCode = 1000
	CloseGoingAway               CloseCode = 1001
	CloseProtocolError           CloseCode = 1002
	CloseUnsupportedData         CloseCode = 1003
	CloseNoStatusReceived        CloseCode = 1005
	CloseAbnormalClosure         CloseCode = 1006
	CloseInvalidFramePayloadData CloseCode = 1007
	ClosePolicyViolation         CloseCode = 1008
	CloseMessageTooBig           CloseCode = 1009
	CloseMandatoryExtension      CloseCode = 1010
	CloseInternalServerErr       CloseCode = 1011
)

// CloseStatus is the code and reason a session ended with
type CloseStatus struct {
	Code   CloseCode
	Reason string
}

func (s CloseStatus) String() string {
	if s.Reason == "" {
		return fmt.Sprintf("%d", s.Code)
	}
	return fmt.Sprintf("%d (%s)", s.Code, s.Reason)
}
