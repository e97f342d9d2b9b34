// Package adapters registers generated dispatchers on third-party web frameworks.
package adapters

import (
	"github.com/labstack/echo/v4"

	"github.com/toyz/wsgen/pkg/wsgen"
)

// EchoRouter is satisfied by *echo.Echo and *echo.Group
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// EchoRegistrar binds dispatchers as GET routes on an Echo router
type EchoRegistrar struct {
	router     EchoRouter
	opts       []wsgen.Option
	middleware []echo.MiddlewareFunc
}

// NewEchoRegistrar creates a registrar for router
func NewEchoRegistrar(router EchoRouter, opts ...wsgen.Option) *EchoRegistrar {
	return &EchoRegistrar{router: router, opts: opts}
}

// Use adds middleware run before the upgrade of every route registered afterwards
func (r *EchoRegistrar) Use(m ...echo.MiddlewareFunc) {
	r.middleware = append(r.middleware, m...)
}

// Handle binds d to path
func (r *EchoRegistrar) Handle(path string, d wsgen.Dispatcher) {
	endpoint := wsgen.NewEndpoint(path, d, r.opts...)
	r.router.GET(path, echo.WrapHandler(endpoint), r.middleware...)
}

var _ wsgen.Registrar = (*EchoRegistrar)(nil)
