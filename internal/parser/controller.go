package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/toyz/wsgen/internal/annotations"
	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/models"
)

// buildController assembles and validates the descriptor of one controller type
func (p *Parser) buildController(pkg SourcePackage, decl *markedDecl, decls *packageDecls, result *models.ExtractionResult) (*models.ControllerDescriptor, error) {
	markers := decl.find(annotations.ControllerAnnotation)
	marker := markers[0]
	if len(markers) > 1 {
		return nil, validationErr(decl.name, "", markers[1].Location, "more than one //wsgen::controller marker",
			"declare a separate type for each endpoint")
	}
	if decl.typeSpec.TypeParams != nil && len(decl.typeSpec.TypeParams.List) > 0 {
		return nil, validationErr(decl.name, "", marker.Location, "generic controller types are not supported",
			"mark a non-generic type that embeds or wraps the generic one")
	}

	ctrl := &models.ControllerDescriptor{
		Name:             decl.name,
		Type:             models.Named(pkg.Ref.Path, pkg.Ref.Name, decl.name),
		Package:          pkg.Ref,
		BasePath:         marker.GetString("Path"),
		DiscriminatorKey: marker.GetString("Key"),
		Location:         marker.Location,
	}
	if marker.HasParameter("Unmatched") {
		ctrl.Unmatched = models.UnmatchedPolicy(marker.GetString("Unmatched"))
	}

	seen := make(map[string]string)
	var closeCandidates []*markedDecl

	for _, method := range decls.methods[decl.name] {
		handlerMarkers := method.find(annotations.HandlerAnnotation)
		if len(handlerMarkers) > 1 {
			return nil, validationErr(decl.name, method.name, handlerMarkers[1].Location,
				fmt.Sprintf("method %s has more than one //wsgen::handler marker", method.name))
		}
		if len(handlerMarkers) == 1 {
			handler, err := p.buildHandler(decl.name, method, handlerMarkers[0])
			if err != nil {
				return nil, err
			}
			if prev, dup := seen[handler.DiscriminatorValue]; dup {
				return nil, validationErr(decl.name, handler.DiscriminatorValue, handler.Location,
					fmt.Sprintf("duplicate discriminator value %q on methods %s and %s", handler.DiscriminatorValue, prev, handler.MethodName),
					"give every handler of a controller its own discriminator value")
			}
			seen[handler.DiscriminatorValue] = handler.MethodName
			ctrl.Handlers = append(ctrl.Handlers, *handler)
		}

		if method.has(annotations.CloseAnnotation) {
			closeCandidates = append(closeCandidates, method)
		}
	}

	hook, err := p.selectCloseHook(decl.name, closeCandidates, result)
	if err != nil {
		return nil, err
	}
	ctrl.CloseHook = hook

	ctor, err := p.resolveConstructor(decl, decls, result)
	if err != nil {
		return nil, err
	}
	ctrl.Constructor = ctor

	return ctrl, nil
}

// buildHandler classifies the parameters of a handler method
func (p *Parser) buildHandler(controller string, method *markedDecl, marker *annotations.ParsedAnnotation) (*models.HandlerDescriptor, error) {
	fn := method.funcDecl
	if fn.Type.TypeParams != nil && len(fn.Type.TypeParams.List) > 0 {
		return nil, validationErr(controller, method.name, marker.Location, fmt.Sprintf("handler %s cannot be generic", method.name))
	}

	handler := &models.HandlerDescriptor{
		MethodName:         method.name,
		DiscriminatorValue: marker.GetString("Value"),
		Location:           marker.Location,
	}

	for _, decl := range method.scope.params(fn.Type.Params) {
		param := models.ParamDescriptor{Name: decl.Name, Type: decl.Type, Role: p.classify(decl.Type)}
		switch param.Role {
		case models.RoleUnsupported:
			_, reason := decl.Type.Decodable()
			return nil, validationErr(controller, method.name, marker.Location,
				fmt.Sprintf("handler %s parameter %s has unsupported type %s: %s", method.name, paramLabel(decl.Name), decl.Type, reason))
		case models.RolePayload:
			if decl.Type.Base().Equal(p.sessionType.Base()) {
				return nil, validationErr(controller, method.name, marker.Location,
					fmt.Sprintf("handler %s takes the session by value", method.name),
					fmt.Sprintf("declare the parameter as %s", p.sessionType))
			}
		}
		handler.Params = append(handler.Params, param)
	}

	if n := len(handler.PayloadParams()); n > 1 {
		return nil, validationErr(controller, method.name, marker.Location,
			fmt.Sprintf("handler %s declares %d payload parameters, at most one is allowed because the whole envelope is decoded once per payload", method.name, n),
			"merge the fields into one payload struct")
	}

	results := method.scope.fieldTypes(fn.Type.Results)
	switch {
	case len(results) == 0:
	case len(results) == 1 && isError(results[0]):
		handler.ReturnsError = true
	default:
		return nil, validationErr(controller, method.name, marker.Location,
			fmt.Sprintf("handler %s must return nothing or error", method.name),
			"send replies with session.SendJSON instead of returning them")
	}

	return handler, nil
}

// classify assigns a parameter role by exact type match against the session type
func (p *Parser) classify(ref models.TypeRef) models.ParamRole {
	if ref.Equal(p.sessionType) {
		return models.RoleSessionHandle
	}
	if ok, _ := ref.Decodable(); ok {
		return models.RolePayload
	}
	return models.RoleUnsupported
}

// selectCloseHook applies the first-match policy over close-marked methods
func (p *Parser) selectCloseHook(controller string, candidates []*markedDecl, result *models.ExtractionResult) (*models.CloseHookDescriptor, error) {
	var hook *models.CloseHookDescriptor
	var hookMethod string

	for _, method := range candidates {
		marker := method.find(annotations.CloseAnnotation)[0]
		params := method.scope.params(method.funcDecl.Type.Params)

		acceptsSession := false
		for _, param := range params {
			if param.Type.Equal(p.sessionType) {
				acceptsSession = true
			}
		}
		if !acceptsSession {
			warn(result, marker.Location, fmt.Sprintf("ignoring //wsgen::close on %s.%s: it does not accept %s", controller, method.name, p.sessionType))
			continue
		}

		if hook != nil {
			warn(result, marker.Location, fmt.Sprintf("%s has more than one close hook, using %s and ignoring %s", controller, hookMethod, method.name))
			continue
		}

		candidate := &models.CloseHookDescriptor{MethodName: method.name, AcceptsSessionHandle: true}
		for _, param := range params {
			switch {
			case param.Type.Equal(p.sessionType):
				candidate.Params = append(candidate.Params, models.ParamDescriptor{Name: param.Name, Type: param.Type, Role: models.RoleSessionHandle})
			case param.Type.Equal(p.statusType):
				candidate.AcceptsStatus = true
				candidate.Params = append(candidate.Params, models.ParamDescriptor{Name: param.Name, Type: param.Type, Role: models.RolePayload})
			default:
				return nil, validationErr(controller, method.name, marker.Location,
					fmt.Sprintf("close hook %s parameter %s must be %s or %s, got %s", method.name, paramLabel(param.Name), p.sessionType, p.statusType, param.Type))
			}
		}
		if method.funcDecl.Type.Results != nil && len(method.funcDecl.Type.Results.List) > 0 {
			return nil, validationErr(controller, method.name, marker.Location,
				fmt.Sprintf("close hook %s must not return values", method.name))
		}

		hook = candidate
		hookMethod = method.name
	}

	return hook, nil
}

// resolveConstructor finds the marked or conventional constructor of a controller
func (p *Parser) resolveConstructor(decl *markedDecl, decls *packageDecls, result *models.ExtractionResult) (*models.ConstructorDescriptor, error) {
	var marked []*markedDecl
	var conventional *markedDecl

	for _, fn := range decls.funcs {
		if fn.has(annotations.ConstructorAnnotation) && funcOwner(fn.funcDecl) == decl.name {
			marked = append(marked, fn)
		}
		if fn.name == constructorPrefix+decl.name {
			conventional = fn
		}
	}

	if len(marked) > 0 {
		for _, extra := range marked[1:] {
			warn(result, extra.loc, fmt.Sprintf("%s has more than one //wsgen::constructor, using %s and ignoring %s", decl.name, marked[0].name, extra.name))
		}
		ctor, reason := p.constructorShape(decl.name, marked[0])
		if ctor == nil {
			return nil, validationErr(decl.name, marked[0].name, marked[0].loc,
				fmt.Sprintf("malformed constructor %s: %s", marked[0].name, reason),
				fmt.Sprintf("return %s or *%s, optionally followed by error", decl.name, decl.name))
		}
		return ctor, nil
	}

	if conventional != nil {
		ctor, reason := p.constructorShape(decl.name, conventional)
		if ctor == nil {
			warn(result, conventional.loc, fmt.Sprintf("%s is not used as the constructor of %s: %s", conventional.name, decl.name, reason))
			return nil, nil
		}
		return ctor, nil
	}

	return nil, nil
}

// constructorShape accepts T, *T, (T, error) and (*T, error) results
func (p *Parser) constructorShape(controller string, fn *markedDecl) (*models.ConstructorDescriptor, string) {
	ft := fn.funcDecl.Type
	if ft.TypeParams != nil && len(ft.TypeParams.List) > 0 {
		return nil, "constructor cannot be generic"
	}

	results := fn.scope.fieldTypes(ft.Results)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Sprintf("must return %s or *%s, optionally with an error", controller, controller)
	}

	ctor := &models.ConstructorDescriptor{FuncName: fn.name}
	first := results[0]
	if first.Kind == models.PointerKind {
		ctor.ReturnsPointer = true
		first = *first.Elem
	}
	if first.Kind != models.NamedKind || first.PkgPath != fn.scope.pkg.Path || first.Name != controller {
		return nil, fmt.Sprintf("first result must be %s or *%s, got %s", controller, controller, results[0])
	}
	if len(results) == 2 {
		if !isError(results[1]) {
			return nil, fmt.Sprintf("second result must be error, got %s", results[1])
		}
		ctor.ReturnsError = true
	}

	for _, param := range fn.scope.params(ft.Params) {
		if ok, reason := renderable(param.Type); !ok {
			return nil, fmt.Sprintf("parameter %s: %s", paramLabel(param.Name), reason)
		}
		ctor.Params = append(ctor.Params, param)
	}

	return ctor, ""
}

// renderable reports whether a type can be written back out from its TypeRef
func renderable(ref models.TypeRef) (bool, string) {
	switch ref.Kind {
	case models.InvalidKind:
		return false, fmt.Sprintf("unsupported type expression %s", ref)
	case models.InterfaceKind:
		if !ref.Empty {
			return false, fmt.Sprintf("interface literal %s cannot be passed through, declare a named interface", ref)
		}
	case models.StructKind:
		if !ref.Empty {
			return false, fmt.Sprintf("struct literal %s cannot be passed through, declare a named type", ref)
		}
	}
	for _, child := range []*models.TypeRef{ref.Elem, ref.Key} {
		if child != nil {
			if ok, reason := renderable(*child); !ok {
				return ok, reason
			}
		}
	}
	for _, list := range [][]models.TypeRef{ref.Params, ref.Results} {
		for _, child := range list {
			if ok, reason := renderable(child); !ok {
				return ok, reason
			}
		}
	}
	return true, ""
}

func isError(ref models.TypeRef) bool {
	return ref.Kind == models.NamedKind && ref.PkgPath == "" && ref.Name == "error"
}

func paramLabel(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}

func validationErr(controller, subject string, loc annotations.SourceLocation, msg string, hints ...string) error {
	err := wserrors.NewValidationError(controller, subject, msg, sourceLocation(loc))
	for _, hint := range hints {
		err.WithSuggestion(hint)
	}
	return err
}

// markerErr attributes a malformed marker to the controller it belongs to
func markerErr(controller string, loc annotations.SourceLocation, cause error) error {
	err := wserrors.WrapValidationError(controller, sourceLocation(loc), cause)
	var hinted interface{ Suggestion() string }
	if errors.As(cause, &hinted) && hinted.Suggestion() != "" {
		err.WithSuggestion(hinted.Suggestion())
	}
	return err
}

func sourceLocation(loc annotations.SourceLocation) wserrors.SourceLocation {
	return wserrors.SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column}
}

// orphanMarkers warns about method markers whose receiver is not a controller
func orphanMarkers(decls *packageDecls, result *models.ExtractionResult) {
	controllers := make(map[string]bool, len(decls.controllers))
	for _, c := range decls.controllers {
		controllers[c.name] = true
	}
	for _, recv := range sortedKeys(decls.methods) {
		if controllers[recv] {
			continue
		}
		for _, method := range decls.methods[recv] {
			for _, m := range method.markers {
				warn(result, m.Location, fmt.Sprintf("//wsgen::%s on %s.%s has no effect: %s is not a controller", m.Type, recv, method.name, recv))
			}
		}
	}
}

func sortedKeys(m map[string][]*markedDecl) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
