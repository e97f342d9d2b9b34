package wsgen

import (
	"fmt"

	"go.uber.org/zap"
)

type readLimiter interface {
	SetReadLimit(limit int64)
}

// Serve runs the read loop of one session until the connection ends. Text
// frames go to the dispatcher and binary frames are dropped. ConnectionClosed
// runs exactly once with the peer's close status, the status the session was
// closed with, or 1006 when the connection dropped.
func Serve(session *Session, d Dispatcher, opts ...Option) {
	serve(session, d, newOptions(opts))
}

func serve(session *Session, d Dispatcher, o *options) {
	if rl, ok := session.conn.(readLimiter); ok && o.readLimit > 0 {
		rl.SetReadLimit(o.readLimit)
	}

	log := o.logger.With(zap.String("session", session.ID()), zap.String("path", session.Path()))
	log.Debug("session opened", zap.String("remote", session.RemoteAddr()))

	status := CloseStatus{Code: CloseAbnormalClosure}
	for {
		messageType, message, err := session.conn.ReadMessage()
		if err != nil {
			if peer, ok := o.closeDecoder(err); ok {
				status = peer
			} else if local, ok := session.localCloseStatus(); ok {
				status = local
			}
			break
		}
		if messageType != TextMessage {
			continue
		}
		if err := handle(session, d, message); err != nil {
			o.errorHandler(session, err)
		}
	}

	if err := session.conn.Close(); err != nil {
		log.Debug("connection close failed", zap.Error(err))
	}
	d.ConnectionClosed(session, status)
	log.Debug("session closed", zap.Stringer("status", status))
}

// handle turns a handler panic into an error so one bad message does not take the host down
func handle(session *Session, d Dispatcher, message []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wsgen: handler panic: %v", r)
		}
	}()
	return d.HandleText(session, message)
}
