package dispatch

import (
	"path"

	"github.com/toyz/wsgen/internal/models"
	"github.com/toyz/wsgen/internal/utils"
)

// RegistryPlan is the registry descriptor plus its output location
type RegistryPlan struct {
	Registry        models.RegistryDescriptor
	ConstructorName string
	FilePath        string
}

// RegistryFileName is the default file the registry is written to inside its package
const RegistryFileName = "wsgen_registry_gen.go"

var registryReserved = []string{"r", "registrar"}

// BuildRegistry binds every planned dispatcher to its base path. Bindings keep
// the order of plans.
func (b *Builder) BuildRegistry(pkg models.PackageRef, typeName string, plans []*Plan) *RegistryPlan {
	if typeName == "" {
		typeName = "DispatcherRegistry"
	}
	reg := &RegistryPlan{
		Registry: models.RegistryDescriptor{
			Package:  pkg,
			TypeName: typeName,
		},
		ConstructorName: "New" + typeName,
		FilePath:        path.Join(pkg.Dir, b.registryFile),
	}

	// names of dispatchers with the same type name in different packages
	// get the package name as a prefix
	typeCount := make(map[string]int, len(plans))
	for _, p := range plans {
		typeCount[p.DispatcherType]++
	}

	taken := make(map[string]bool, len(plans)+len(registryReserved))
	for _, name := range registryReserved {
		taken[name] = true
	}

	for _, p := range plans {
		base := p.DispatcherType
		if typeCount[base] > 1 {
			base = utils.UpperCamel(p.Controller.Package.Name) + base
		}
		reg.Registry.Bindings = append(reg.Registry.Bindings, models.RegistryBinding{
			BasePath:       p.Controller.BasePath,
			Dispatcher:     p.Controller.Package,
			DispatcherType: p.DispatcherType,
			FieldName:      uniqueName(utils.LowerCamel(base), taken),
		})
	}
	return reg
}
