package generator

import "github.com/toyz/wsgen/internal/dispatch"

// CodeEmitter renders dispatch plans into Go source
type CodeEmitter interface {
	RenderDispatcher(plan *dispatch.Plan) ([]byte, error)
	RenderRegistry(reg *dispatch.RegistryPlan) ([]byte, error)
}
