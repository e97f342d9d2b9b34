package dispatch

import (
	"fmt"
	"path"
	"strconv"

	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/models"
	"github.com/toyz/wsgen/internal/utils"
)

// Names used inside generated method bodies; decoded variables never take them
const (
	ReceiverName      = "d"
	SessionName       = "session"
	MessageName       = "message"
	StatusName        = "status"
	DocName           = "doc"
	DiscriminatorName = "discriminator"
	ErrName           = "err"
	CodecName         = "codec"
)

var bodyNames = []string{ReceiverName, SessionName, MessageName, StatusName, DocName, DiscriminatorName, ErrName}

// Builder turns controller descriptors into dispatch plans
type Builder struct {
	dispatcherSuffix string
	fileSuffix       string
	runtimeName      string
	registryFile     string
	defaultUnmatched models.UnmatchedPolicy
}

// Option configures a Builder
type Option func(*Builder)

// WithDispatcherSuffix sets the suffix appended to controller names for dispatcher types
func WithDispatcherSuffix(suffix string) Option {
	return func(b *Builder) {
		if suffix != "" {
			b.dispatcherSuffix = suffix
		}
	}
}

// WithFileSuffix sets the suffix of generated dispatcher file names
func WithFileSuffix(suffix string) Option {
	return func(b *Builder) {
		if suffix != "" {
			b.fileSuffix = suffix
		}
	}
}

// WithDefaultUnmatched sets the policy for controllers that do not choose one
func WithDefaultUnmatched(policy models.UnmatchedPolicy) Option {
	return func(b *Builder) { b.defaultUnmatched = policy }
}

// WithRegistryFile sets the file name of the registry artifact
func WithRegistryFile(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.registryFile = name
		}
	}
}

// WithRuntimeName sets the package name generated code uses for the runtime
func WithRuntimeName(name string) Option {
	return func(b *Builder) { b.runtimeName = name }
}

// NewBuilder creates a dispatch-table builder
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		dispatcherSuffix: "Dispatcher",
		fileSuffix:       "_dispatcher_gen.go",
		runtimeName:      "wsgen",
		registryFile:     RegistryFileName,
		defaultUnmatched: models.UnmatchedIgnore,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the dispatch plan of one controller. Branches follow handler
// declaration order.
func (b *Builder) Build(ctrl models.ControllerDescriptor) (*Plan, error) {
	plan := &Plan{
		Controller:      ctrl,
		DispatcherType:  ctrl.Name + b.dispatcherSuffix,
		ConstructorName: "New" + ctrl.Name + b.dispatcherSuffix,
		CodecField:      CodecName,
		FilePath:        path.Join(ctrl.Package.Dir, utils.SnakeCase(ctrl.Name)+b.fileSuffix),
		Unmatched:       ctrl.Unmatched,
	}
	if plan.Unmatched == "" {
		plan.Unmatched = b.defaultUnmatched
	}

	plan.InstanceField = instanceName(ctrl.Name)

	seen := make(map[string]string, len(ctrl.Handlers))
	for _, h := range ctrl.Handlers {
		if prev, dup := seen[h.DiscriminatorValue]; dup {
			return nil, validationError(ctrl, h.DiscriminatorValue,
				fmt.Sprintf("duplicate discriminator value %q on methods %s and %s", h.DiscriminatorValue, prev, h.MethodName))
		}
		seen[h.DiscriminatorValue] = h.MethodName

		branch, err := b.buildBranch(ctrl, h)
		if err != nil {
			return nil, err
		}
		plan.Branches = append(plan.Branches, branch)
	}

	if ctrl.Constructor != nil {
		plan.CtorParams = b.ctorParams(ctrl.Constructor.Params, plan.InstanceField)
	}

	if hook := ctrl.CloseHook; hook != nil {
		call := &CloseCall{MethodName: hook.MethodName}
		for _, p := range hook.Params {
			if p.Role == models.RoleSessionHandle {
				call.Args = append(call.Args, Arg{Kind: ArgSession})
			} else {
				call.Args = append(call.Args, Arg{Kind: ArgStatus})
			}
		}
		plan.Close = call
	}

	return plan, nil
}

func (b *Builder) buildBranch(ctrl models.ControllerDescriptor, h models.HandlerDescriptor) (Branch, error) {
	branch := Branch{
		Value:        h.DiscriminatorValue,
		MethodName:   h.MethodName,
		ReturnsError: h.ReturnsError,
	}

	taken := make(map[string]bool)
	for _, name := range bodyNames {
		taken[name] = true
	}
	taken[b.runtimeName] = true

	payloads := 0
	for _, p := range h.Params {
		switch p.Role {
		case models.RoleSessionHandle:
			branch.Args = append(branch.Args, Arg{Kind: ArgSession})

		case models.RolePayload:
			payloads++
			if payloads > 1 {
				return Branch{}, validationError(ctrl, h.MethodName,
					fmt.Sprintf("handler %s declares more than one payload parameter", h.MethodName))
			}
			markPackages(p.Type, taken)
			name := uniqueName(PayloadVarName(h.DiscriminatorValue, p.Type), taken)
			branch.Decodes = append(branch.Decodes, DecodeStep{
				Var:     name,
				Type:    p.Type,
				Pointer: p.Type.Kind == models.PointerKind,
			})
			branch.Args = append(branch.Args, Arg{Kind: ArgPayload, Var: name})

		default:
			return Branch{}, validationError(ctrl, h.MethodName,
				fmt.Sprintf("handler %s has a parameter of unsupported type %s", h.MethodName, p.Type))
		}
	}

	return branch, nil
}

// PayloadVarName derives the decoded variable name from the discriminator
// value and the payload type name
func PayloadVarName(value string, ref models.TypeRef) string {
	prefix := utils.LowerCamel(value)
	if prefix == "" {
		prefix = "payload"
	}
	if r := prefix[0]; r >= '0' && r <= '9' {
		prefix = "v" + prefix
	}
	return prefix + utils.UpperCamel(typeWords(ref))
}

func typeWords(ref models.TypeRef) string {
	switch ref.Kind {
	case models.NamedKind:
		return ref.Name
	case models.PointerKind:
		return typeWords(*ref.Elem)
	case models.SliceKind:
		return typeWords(*ref.Elem) + "Slice"
	case models.ArrayKind:
		return typeWords(*ref.Elem) + "Array"
	case models.MapKind:
		return typeWords(*ref.Elem) + "Map"
	case models.InterfaceKind:
		return "Any"
	default:
		return "Payload"
	}
}

func instanceName(controller string) string {
	name := utils.LowerCamel(controller)
	if name == "" || name == CodecName || utils.IsReservedIdent(name) {
		name += "Controller"
	}
	return name
}

// ctorParams names constructor pass-through parameters, renaming blanks and
// names that clash with the dispatcher constructor's own identifiers or with
// packages its signature refers to
func (b *Builder) ctorParams(decls []models.ParamDecl, instance string) []CtorParam {
	taken := map[string]bool{CodecName: true, instance: true, ErrName: true, b.runtimeName: true}
	for _, decl := range decls {
		markPackages(decl.Type, taken)
	}
	params := make([]CtorParam, 0, len(decls))

	for i, decl := range decls {
		name := decl.Name
		if name == "" || name == "_" {
			name = "arg" + strconv.Itoa(i)
		}
		name = uniqueName(name, taken)

		param := CtorParam{Name: name, Type: decl.Type}
		if decl.Type.Kind == models.EllipsisKind {
			param.Variadic = true
		}
		params = append(params, param)
	}
	return params
}

func markPackages(ref models.TypeRef, taken map[string]bool) {
	if ref.PkgName != "" {
		taken[ref.PkgName] = true
	}
	if ref.Elem != nil {
		markPackages(*ref.Elem, taken)
	}
	if ref.Key != nil {
		markPackages(*ref.Key, taken)
	}
	for _, p := range ref.Params {
		markPackages(p, taken)
	}
	for _, r := range ref.Results {
		markPackages(r, taken)
	}
}

// uniqueName returns base, or base with the smallest numeric suffix that is
// not taken, and marks the result as taken
func uniqueName(base string, taken map[string]bool) string {
	name := base
	if utils.IsReservedIdent(name) {
		name += "Value"
	}
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}

func validationError(ctrl models.ControllerDescriptor, subject, msg string) error {
	return wserrors.NewValidationError(ctrl.Name, subject, msg, wserrors.SourceLocation{
		File:   ctrl.Location.File,
		Line:   ctrl.Location.Line,
		Column: ctrl.Location.Column,
	})
}
