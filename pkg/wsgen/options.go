package wsgen

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrorHandler receives the errors returned by a dispatcher
type ErrorHandler func(session *Session, err error)

// CloseErrorDecoder extracts the peer's close status from a read error
type CloseErrorDecoder func(err error) (CloseStatus, bool)

type options struct {
	logger       *zap.Logger
	errorHandler ErrorHandler
	closeDecoder CloseErrorDecoder
	readLimit    int64
	checkOrigin  func(r *http.Request) bool
	readBuffer   int
	writeBuffer  int
}

// Option configures how sessions are served
type Option func(*options)

// WithLogger sets the logger used by hosts and the default error handler
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithErrorHandler replaces the default error handler
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) { o.errorHandler = h }
}

// WithCloseErrorDecoder sets how read errors are turned into close statuses
func WithCloseErrorDecoder(d CloseErrorDecoder) Option {
	return func(o *options) { o.closeDecoder = d }
}

// WithReadLimit sets the maximum size of an incoming message in bytes
func WithReadLimit(limit int64) Option {
	return func(o *options) { o.readLimit = limit }
}

// WithCheckOrigin sets the origin check of the HTTP upgrade
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(o *options) { o.checkOrigin = check }
}

// WithBufferSizes sets the upgrader read and write buffer sizes
func WithBufferSizes(read, write int) Option {
	return func(o *options) {
		o.readBuffer = read
		o.writeBuffer = write
	}
}

// UpgradeConfig is the part of the options that applies to the HTTP upgrade.
// Registrars that bring their own upgrader read it through UpgradeSettings.
type UpgradeConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool // nil keeps the same-origin default
}

// UpgradeSettings resolves the upgrade configuration selected by opts
func UpgradeSettings(opts ...Option) UpgradeConfig {
	o := newOptions(opts)
	return UpgradeConfig{
		ReadBufferSize:  o.readBuffer,
		WriteBufferSize: o.writeBuffer,
		CheckOrigin:     o.checkOrigin,
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:       zap.NewNop(),
		closeDecoder: GorillaCloseStatus,
		readLimit:    512 * 1024,
		readBuffer:   1024,
		writeBuffer:  1024,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.errorHandler == nil {
		o.errorHandler = DefaultErrorHandler(o.logger)
	}
	return o
}

// DefaultErrorHandler logs err and closes the session with 1007 for decode
// errors, 1003 for rejected discriminator values and 1011 for everything else
func DefaultErrorHandler(logger *zap.Logger) ErrorHandler {
	return func(session *Session, err error) {
		var unmatched *UnmatchedError
		status := CloseStatus{Code: CloseInternalServerErr, Reason: "internal error"}
		switch {
		case errors.Is(err, ErrMalformedEnvelope):
			status = CloseStatus{Code: CloseInvalidFramePayloadData, Reason: "malformed message"}
		case errors.As(err, &unmatched):
			status = CloseStatus{Code: CloseUnsupportedData, Reason: "unknown " + unmatched.Key}
		}
		logger.Warn("dispatch failed",
			zap.String("session", session.ID()),
			zap.String("path", session.Path()),
			zap.Int("close_code", int(status.Code)),
			zap.Error(err),
		)
		if cerr := session.Close(status); cerr != nil {
			logger.Debug("close failed", zap.String("session", session.ID()), zap.Error(cerr))
		}
	}
}

// GorillaCloseStatus decodes close errors from gorilla/websocket connections.
// gorilla reports a connection lost without a close frame as a 1006 close
// error, which is not a status the peer sent.
func GorillaCloseStatus(err error) (CloseStatus, bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) && ce.Code != websocket.CloseAbnormalClosure {
		return CloseStatus{Code: CloseCode(ce.Code), Reason: ce.Text}, true
	}
	return CloseStatus{}, false
}
