package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/toyz/wsgen/internal/dispatch"
)

// RenderRegistry renders the registry artifact binding every dispatcher to its base path
func (e *Emitter) RenderRegistry(reg *dispatch.RegistryPlan) ([]byte, error) {
	desc := reg.Registry
	f := e.newFile(desc.Package)
	for _, b := range desc.Bindings {
		f.ImportName(b.Dispatcher.Path, b.Dispatcher.Name)
	}

	fields := make([]jen.Code, 0, len(desc.Bindings))
	params := make([]jen.Code, 0, len(desc.Bindings))
	values := jen.Dict{}
	registrations := make([]jen.Code, 0, len(desc.Bindings))

	for _, b := range desc.Bindings {
		dispatcherType := jen.Op("*").Qual(b.Dispatcher.Path, b.DispatcherType)
		fields = append(fields, jen.Id(b.FieldName).Add(dispatcherType.Clone()))
		params = append(params, jen.Id(b.FieldName).Add(dispatcherType))
		values[jen.Id(b.FieldName)] = jen.Id(b.FieldName)
		registrations = append(registrations,
			jen.Id("registrar").Dot("Handle").Call(jen.Lit(b.BasePath), jen.Id("r").Dot(b.FieldName)))
	}

	f.Commentf("%s holds one dispatcher per controller.", desc.TypeName)
	f.Type().Id(desc.TypeName).Struct(fields...)
	f.Line()

	f.Commentf("%s creates a registry from the given dispatchers.", reg.ConstructorName)
	f.Func().Id(reg.ConstructorName).Params(params...).Op("*").Id(desc.TypeName).Block(
		jen.Return(jen.Op("&").Id(desc.TypeName).Values(values)),
	)
	f.Line()

	f.Comment("RegisterDispatchers binds every dispatcher to its base path.")
	f.Func().Params(jen.Id("r").Op("*").Id(desc.TypeName)).Id("RegisterDispatchers").Params(
		jen.Id("registrar").Qual(e.runtimePkg, "Registrar"),
	).Block(registrations...)

	return e.render(f, reg.FilePath)
}
