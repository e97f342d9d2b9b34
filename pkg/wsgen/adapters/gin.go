package adapters

import (
	"github.com/gin-gonic/gin"

	"github.com/toyz/wsgen/pkg/wsgen"
)

// GinRegistrar binds dispatchers as GET routes on a Gin engine or group
type GinRegistrar struct {
	routes gin.IRoutes
	opts   []wsgen.Option
}

// NewGinRegistrar creates a registrar for routes
func NewGinRegistrar(routes gin.IRoutes, opts ...wsgen.Option) *GinRegistrar {
	return &GinRegistrar{routes: routes, opts: opts}
}

// Handle binds d to path
func (r *GinRegistrar) Handle(path string, d wsgen.Dispatcher) {
	r.routes.GET(path, gin.WrapH(wsgen.NewEndpoint(path, d, r.opts...)))
}

var _ wsgen.Registrar = (*GinRegistrar)(nil)
