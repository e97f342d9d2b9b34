package wsgen

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Endpoint is a net/http handler that upgrades requests to WebSocket and
// serves them with one dispatcher
type Endpoint struct {
	path       string
	dispatcher Dispatcher
	upgrader   websocket.Upgrader
	opts       *options
}

// NewEndpoint creates an endpoint serving d on path
func NewEndpoint(path string, d Dispatcher, opts ...Option) *Endpoint {
	o := newOptions(opts)
	return &Endpoint{
		path:       path,
		dispatcher: d,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  o.readBuffer,
			WriteBufferSize: o.writeBuffer,
			CheckOrigin:     o.checkOrigin,
		},
		opts: o,
	}
}

// ServeHTTP upgrades the request and blocks until the session ends
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := e.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an HTTP error
		e.opts.logger.Debug("upgrade failed", zap.String("path", e.path), zap.Error(err))
		return
	}
	serve(NewSession(e.path, r.RemoteAddr, conn), e.dispatcher, e.opts)
}

// ServeMux is a Registrar over http.ServeMux
type ServeMux struct {
	mux  *http.ServeMux
	opts []Option
}

// NewServeMux registers endpoints on mux, or on a new mux when mux is nil
func NewServeMux(mux *http.ServeMux, opts ...Option) *ServeMux {
	if mux == nil {
		mux = http.NewServeMux()
	}
	return &ServeMux{mux: mux, opts: opts}
}

// Handle binds d to path
func (m *ServeMux) Handle(path string, d Dispatcher) {
	m.mux.Handle(path, NewEndpoint(path, d, m.opts...))
}

// ServeHTTP dispatches to the registered endpoints
func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

var _ Registrar = (*ServeMux)(nil)
