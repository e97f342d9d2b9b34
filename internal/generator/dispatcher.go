package generator

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/toyz/wsgen/internal/dispatch"
	"github.com/toyz/wsgen/internal/models"
)

// RenderDispatcher renders the dispatcher artifact of one plan
func (e *Emitter) RenderDispatcher(plan *dispatch.Plan) ([]byte, error) {
	ctrl := plan.Controller
	f := e.newFile(ctrl.Package)

	for _, p := range plan.CtorParams {
		registerImports(f, p.Type)
	}
	for _, b := range plan.Branches {
		for _, step := range b.Decodes {
			registerImports(f, step.Type)
		}
	}

	f.Commentf("%s routes text messages received on %s to %s, selecting the handler by the %q field.",
		plan.DispatcherType, ctrl.BasePath, ctrl.Name, ctrl.DiscriminatorKey)
	f.Type().Id(plan.DispatcherType).Struct(
		jen.Id(plan.InstanceField).Add(e.instanceType(plan)),
		jen.Id(plan.CodecField).Qual(e.runtimePkg, "Codec"),
	)
	f.Line()

	e.renderConstructor(f, plan)
	f.Line()
	e.renderHandleText(f, plan)
	f.Line()
	e.renderConnectionClosed(f, plan)
	f.Line()

	f.Var().Id("_").Qual(e.runtimePkg, "Dispatcher").Op("=").Parens(jen.Op("*").Id(plan.DispatcherType)).Parens(jen.Nil())

	return e.render(f, plan.FilePath)
}

// instanceType is the type of the wrapped controller field
func (e *Emitter) instanceType(plan *dispatch.Plan) *jen.Statement {
	if ctor := plan.Controller.Constructor; ctor != nil && !ctor.ReturnsPointer {
		return jen.Id(plan.Controller.Name)
	}
	return jen.Op("*").Id(plan.Controller.Name)
}

func (e *Emitter) renderConstructor(f *jen.File, plan *dispatch.Plan) {
	ctor := plan.Controller.Constructor
	returnsError := ctor != nil && ctor.ReturnsError

	params := []jen.Code{jen.Id(plan.CodecField).Qual(e.runtimePkg, "Codec")}
	args := make([]jen.Code, 0, len(plan.CtorParams))
	for _, p := range plan.CtorParams {
		params = append(params, jen.Id(p.Name).Add(typeCode(p.Type)))
		if p.Variadic {
			args = append(args, jen.Id(p.Name).Op("..."))
		} else {
			args = append(args, jen.Id(p.Name))
		}
	}

	body := []jen.Code{
		jen.If(jen.Id(plan.CodecField).Op("==").Nil()).Block(
			jen.Id(plan.CodecField).Op("=").Qual(e.runtimePkg, "NewJSONCodec").Call(),
		),
	}

	var instance jen.Code
	switch {
	case ctor == nil:
		instance = jen.New(jen.Id(plan.Controller.Name))
	case returnsError:
		body = append(body,
			jen.List(jen.Id(plan.InstanceField), jen.Err()).Op(":=").Id(ctor.FuncName).Call(args...),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		)
		instance = jen.Id(plan.InstanceField)
	default:
		instance = jen.Id(ctor.FuncName).Call(args...)
	}

	value := jen.Op("&").Id(plan.DispatcherType).Values(jen.Dict{
		jen.Id(plan.InstanceField): instance,
		jen.Id(plan.CodecField):    jen.Id(plan.CodecField),
	})

	results := jen.Op("*").Id(plan.DispatcherType)
	if returnsError {
		results = jen.Parens(jen.List(jen.Op("*").Id(plan.DispatcherType), jen.Error()))
		body = append(body, jen.Return(value, jen.Nil()))
	} else {
		body = append(body, jen.Return(value))
	}

	f.Commentf("%s creates a dispatcher around a new %s. A nil codec selects JSON.", plan.ConstructorName, plan.Controller.Name)
	f.Func().Id(plan.ConstructorName).Params(params...).Add(results).Block(body...)
}

func (e *Emitter) renderHandleText(f *jen.File, plan *dispatch.Plan) {
	key := plan.Controller.DiscriminatorKey
	codec := jen.Id(dispatch.ReceiverName).Dot(plan.CodecField)

	cases := make([]jen.Code, 0, len(plan.Branches)+1)
	for _, b := range plan.Branches {
		cases = append(cases, jen.Case(jen.Lit(b.Value)).Block(e.branchBody(plan, b)...))
	}
	if plan.Unmatched == models.UnmatchedError {
		cases = append(cases, jen.Default().Block(
			jen.Return(jen.Op("&").Qual(e.runtimePkg, "UnmatchedError").Values(jen.Dict{
				jen.Id("Key"):   jen.Lit(key),
				jen.Id("Value"): jen.Id(dispatch.DiscriminatorName),
			})),
		))
	}

	body := []jen.Code{
		jen.List(jen.Id(dispatch.DocName), jen.Err()).Op(":=").Add(codec.Clone()).Dot("Parse").Call(jen.Id(dispatch.MessageName)),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.List(jen.Id(dispatch.DiscriminatorName), jen.Err()).Op(":=").Add(codec.Clone()).Dot("Field").Call(jen.Id(dispatch.DocName), jen.Lit(key)),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Line(),
		jen.Switch(jen.Id(dispatch.DiscriminatorName)).Block(cases...),
	}
	// A switch whose every clause returns is a terminating statement, and
	// vet flags anything after it as unreachable.
	if !switchTerminates(plan) {
		body = append(body, jen.Return(jen.Nil()))
	}

	f.Comment("HandleText decodes one text message and invokes the matching handler.")
	f.Func().Params(jen.Id(dispatch.ReceiverName).Op("*").Id(plan.DispatcherType)).Id("HandleText").Params(
		jen.Id(dispatch.SessionName).Op("*").Qual(e.runtimePkg, "Session"),
		jen.Id(dispatch.MessageName).Index().Byte(),
	).Error().Block(body...)
}

// switchTerminates reports whether the rendered switch has a default clause
// and every clause ends in a return
func switchTerminates(plan *dispatch.Plan) bool {
	if plan.Unmatched != models.UnmatchedError {
		return false
	}
	for _, b := range plan.Branches {
		if !b.ReturnsError {
			return false
		}
	}
	return true
}

func (e *Emitter) branchBody(plan *dispatch.Plan, b dispatch.Branch) []jen.Code {
	codec := jen.Id(dispatch.ReceiverName).Dot(plan.CodecField)
	var body []jen.Code

	for _, step := range b.Decodes {
		var target *jen.Statement
		if step.Pointer {
			body = append(body, jen.Id(step.Var).Op(":=").New(typeCode(*step.Type.Elem)))
			target = jen.Id(step.Var)
		} else {
			body = append(body, jen.Var().Id(step.Var).Add(typeCode(step.Type)))
			target = jen.Op("&").Id(step.Var)
		}
		body = append(body, jen.If(
			jen.Err().Op(":=").Add(codec.Clone()).Dot("Decode").Call(jen.Id(dispatch.MessageName), target),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())))
	}

	call := jen.Id(dispatch.ReceiverName).Dot(plan.InstanceField).Dot(b.MethodName).Call(callArgs(b.Args)...)
	if b.ReturnsError {
		return append(body, jen.Return(call))
	}
	return append(body, call)
}

func (e *Emitter) renderConnectionClosed(f *jen.File, plan *dispatch.Plan) {
	var body []jen.Code
	if plan.Close != nil {
		body = append(body,
			jen.Id(dispatch.ReceiverName).Dot(plan.InstanceField).Dot(plan.Close.MethodName).Call(callArgs(plan.Close.Args)...))
	}

	f.Comment("ConnectionClosed runs once when the session ends.")
	f.Func().Params(jen.Id(dispatch.ReceiverName).Op("*").Id(plan.DispatcherType)).Id("ConnectionClosed").Params(
		jen.Id(dispatch.SessionName).Op("*").Qual(e.runtimePkg, "Session"),
		jen.Id(dispatch.StatusName).Qual(e.runtimePkg, "CloseStatus"),
	).Block(body...)
}

func callArgs(args []dispatch.Arg) []jen.Code {
	codes := make([]jen.Code, 0, len(args))
	for _, a := range args {
		switch a.Kind {
		case dispatch.ArgSession:
			codes = append(codes, jen.Id(dispatch.SessionName))
		case dispatch.ArgStatus:
			codes = append(codes, jen.Id(dispatch.StatusName))
		case dispatch.ArgPayload:
			codes = append(codes, jen.Id(a.Var))
		default:
			panic(fmt.Sprintf("unknown argument kind %d", a.Kind))
		}
	}
	return codes
}
