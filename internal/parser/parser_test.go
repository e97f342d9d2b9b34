package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/models"
)

const userController = `package chat

import (
	"context"

	"github.com/toyz/wsgen/pkg/wsgen"
)

type LoginPayload struct {
	ID   string ` + "`json:\"id\"`" + `
	User string ` + "`json:\"user\"`" + `
}

type Store struct{}

// UserController handles user sessions.
//wsgen::controller -Path=/user -Key=id
type UserController struct {
	store *Store
}

func NewUserController(store *Store, ctx context.Context) *UserController {
	return &UserController{store: store}
}

//wsgen::handler login
func (c *UserController) HandleLogin(session *wsgen.Session, payload LoginPayload) {}

//wsgen::handler logout
func (c *UserController) HandleLogout(session *wsgen.Session) error { return nil }

//wsgen::close
func (c *UserController) OnClose(session *wsgen.Session, status wsgen.CloseStatus) {}

func (c *UserController) helper() {}
`

func TestParseSource_Controller(t *testing.T) {
	p := NewParser()
	result, err := p.ParseSource("user.go", userController)
	require.NoError(t, err)
	require.Empty(t, result.Skipped)
	require.Len(t, result.Controllers, 1)

	ctrl := result.Controllers[0]
	assert.Equal(t, "UserController", ctrl.Name)
	assert.Equal(t, "/user", ctrl.BasePath)
	assert.Equal(t, "id", ctrl.DiscriminatorKey)
	assert.Equal(t, models.PackageRef{Path: "example.com/chat", Name: "chat", Dir: "chat"}, ctrl.Package)
	assert.Equal(t, models.UnmatchedPolicy(""), ctrl.Unmatched)

	require.Len(t, ctrl.Handlers, 2)
	login := ctrl.Handlers[0]
	assert.Equal(t, "HandleLogin", login.MethodName)
	assert.Equal(t, "login", login.DiscriminatorValue)
	require.Len(t, login.Params, 2)
	assert.Equal(t, models.RoleSessionHandle, login.Params[0].Role)
	assert.Equal(t, models.RolePayload, login.Params[1].Role)
	assert.Equal(t, "LoginPayload", login.Params[1].Type.Name)
	assert.Equal(t, "example.com/chat", login.Params[1].Type.PkgPath)
	assert.False(t, login.ReturnsError)

	logout := ctrl.Handlers[1]
	assert.Equal(t, "logout", logout.DiscriminatorValue)
	assert.Empty(t, logout.PayloadParams())
	assert.True(t, logout.ReturnsError)

	require.NotNil(t, ctrl.CloseHook)
	assert.Equal(t, "OnClose", ctrl.CloseHook.MethodName)
	assert.True(t, ctrl.CloseHook.AcceptsSessionHandle)
	assert.True(t, ctrl.CloseHook.AcceptsStatus)

	require.NotNil(t, ctrl.Constructor)
	assert.Equal(t, "NewUserController", ctrl.Constructor.FuncName)
	assert.True(t, ctrl.Constructor.ReturnsPointer)
	assert.False(t, ctrl.Constructor.ReturnsError)
	require.Len(t, ctrl.Constructor.Params, 2)
	assert.Equal(t, "store", ctrl.Constructor.Params[0].Name)
	assert.Equal(t, "*Store", ctrl.Constructor.Params[0].Type.String())
	assert.Equal(t, "context", ctrl.Constructor.Params[1].Type.PkgPath)
	assert.Equal(t, "Context", ctrl.Constructor.Params[1].Type.Name)
}

func TestParseSource_ZeroHandlersIsValid(t *testing.T) {
	src := `package chat

//wsgen::controller /empty -Key=type
type Empty struct{}
`
	result, err := NewParser().ParseSource("empty.go", src)
	require.NoError(t, err)
	require.Len(t, result.Controllers, 1)
	assert.Empty(t, result.Controllers[0].Handlers)
	assert.Nil(t, result.Controllers[0].Constructor)
	assert.Nil(t, result.Controllers[0].CloseHook)
}

func TestParseSource_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{
			name: "duplicate discriminator",
			src: `package chat
import "github.com/toyz/wsgen/pkg/wsgen"
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::handler login
func (c *C) A(s *wsgen.Session) {}
//wsgen::handler login
func (c *C) B(s *wsgen.Session) {}
`,
			message: `duplicate discriminator value "login" on methods A and B`,
		},
		{
			name: "two payloads",
			src: `package chat
//wsgen::controller /user -Key=id
type C struct{}
type A struct{}
type B struct{}
//wsgen::handler both
func (c *C) Both(a A, b B) {}
`,
			message: "declares 2 payload parameters",
		},
		{
			name: "channel payload",
			src: `package chat
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::handler ch
func (c *C) Ch(ch chan string) {}
`,
			message: "channels cannot be decoded",
		},
		{
			name: "session by value",
			src: `package chat
import "github.com/toyz/wsgen/pkg/wsgen"
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::handler v
func (c *C) V(s wsgen.Session) {}
`,
			message: "takes the session by value",
		},
		{
			name: "bad handler results",
			src: `package chat
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::handler v
func (c *C) V() (string, error) { return "", nil }
`,
			message: "must return nothing or error",
		},
		{
			name: "marked constructor with wrong result",
			src: `package chat
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::constructor
func Build() (*C, bool) { return nil, false }
`,
			message: "second result must be error",
		},
		{
			name: "close hook with extra params",
			src: `package chat
import "github.com/toyz/wsgen/pkg/wsgen"
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::close
func (c *C) Closed(s *wsgen.Session, reason string) {}
`,
			message: "close hook Closed parameter reason",
		},
		{
			name: "generic controller",
			src: `package chat
//wsgen::controller /user -Key=id
type C[T any] struct{}
`,
			message: "generic controller types are not supported",
		},
		{
			name: "bad handler marker",
			src: `package chat
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::handler
func (c *C) V() {}
`,
			message: "parameter 'Value' validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewParser().ParseSource("c.go", tt.src)
			require.NoError(t, err)
			assert.Empty(t, result.Controllers)
			require.Len(t, result.Skipped, 1)
			assert.Equal(t, "C", result.Skipped[0].Name)
			assert.Contains(t, result.Skipped[0].Err.Error(), tt.message)
		})
	}
}

func TestParseSource_DuplicateDiscriminatorIsValidationError(t *testing.T) {
	src := `package chat
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::handler x
func (c *C) A() {}
//wsgen::handler x
func (c *C) B() {}
`
	result, err := NewParser().ParseSource("c.go", src)
	require.NoError(t, err)
	require.Len(t, result.Skipped, 1)

	var verr *wserrors.ValidationError
	require.ErrorAs(t, result.Skipped[0].Err, &verr)
	assert.Equal(t, "C", verr.Controller)
	assert.Equal(t, "x", verr.Subject)
	assert.Equal(t, 6, verr.Location().Line)
}

func TestParseSource_ValidationErrorsCarrySuggestions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		hint string
	}{
		{
			name: "handler result",
			src:  "package chat\n//wsgen::controller /c -Key=id\ntype C struct{}\n//wsgen::handler x\nfunc (c *C) V() string { return \"\" }\n",
			hint: "session.SendJSON",
		},
		{
			name: "two payloads",
			src:  "package chat\ntype A struct{}\ntype B struct{}\n//wsgen::controller /c -Key=id\ntype C struct{}\n//wsgen::handler x\nfunc (c *C) V(a A, b B) {}\n",
			hint: "one payload struct",
		},
		{
			name: "malformed marker",
			src:  "package chat\n//wsgen::controller /c -Key=id\ntype C struct{}\n//wsgen::handler -Nope=x\nfunc (c *C) V() {}\n",
			hint: "valid parameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewParser().ParseSource("c.go", tt.src)
			require.NoError(t, err)
			require.Len(t, result.Skipped, 1)

			var verr *wserrors.ValidationError
			require.ErrorAs(t, result.Skipped[0].Err, &verr)
			assert.Equal(t, "C", verr.Controller)
			require.NotEmpty(t, verr.Suggestions())
			assert.Contains(t, verr.Suggestions()[0], tt.hint)
		})
	}
}

func TestParseSource_InvalidControllerDoesNotStopOthers(t *testing.T) {
	src := `package chat
//wsgen::controller /bad -Key=id
type Bad struct{}
//wsgen::handler x
func (c *Bad) A() {}
//wsgen::handler x
func (c *Bad) B() {}

//wsgen::controller /good -Key=id
type Good struct{}
//wsgen::handler x
func (c *Good) A() {}
`
	result, err := NewParser().ParseSource("c.go", src)
	require.NoError(t, err)
	require.Len(t, result.Controllers, 1)
	assert.Equal(t, "Good", result.Controllers[0].Name)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "Bad", result.Skipped[0].Name)
}

func TestParseSource_CloseHookFirstMatchWins(t *testing.T) {
	src := `package chat
import "github.com/toyz/wsgen/pkg/wsgen"
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::close
func (c *C) NoSession() {}
//wsgen::close
func (c *C) First(s *wsgen.Session) {}
//wsgen::close
func (c *C) Second(s *wsgen.Session) {}
`
	result, err := NewParser().ParseSource("c.go", src)
	require.NoError(t, err)
	require.Len(t, result.Controllers, 1)

	hook := result.Controllers[0].CloseHook
	require.NotNil(t, hook)
	assert.Equal(t, "First", hook.MethodName)
	assert.False(t, hook.AcceptsStatus)

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0].Message, "ignoring //wsgen::close on C.NoSession")
	assert.Contains(t, result.Warnings[1].Message, "using First and ignoring Second")
}

func TestParseSource_ConstructorResolution(t *testing.T) {
	t.Run("marker wins over convention", func(t *testing.T) {
		src := `package chat
//wsgen::controller /user -Key=id
type C struct{}
func NewC() *C { return &C{} }
//wsgen::constructor
func BuildC(name string, opts ...string) (C, error) { return C{}, nil }
`
		result, err := NewParser().ParseSource("c.go", src)
		require.NoError(t, err)
		require.Len(t, result.Controllers, 1)

		ctor := result.Controllers[0].Constructor
		require.NotNil(t, ctor)
		assert.Equal(t, "BuildC", ctor.FuncName)
		assert.False(t, ctor.ReturnsPointer)
		assert.True(t, ctor.ReturnsError)
		require.Len(t, ctor.Params, 2)
		assert.Equal(t, models.EllipsisKind, ctor.Params[1].Type.Kind)
	})

	t.Run("malformed convention falls back with warning", func(t *testing.T) {
		src := `package chat
//wsgen::controller /user -Key=id
type C struct{}
func NewC() string { return "" }
`
		result, err := NewParser().ParseSource("c.go", src)
		require.NoError(t, err)
		require.Len(t, result.Controllers, 1)
		assert.Nil(t, result.Controllers[0].Constructor)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0].Message, "NewC is not used as the constructor")
	})

	t.Run("interface literal parameter is rejected", func(t *testing.T) {
		src := `package chat
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::constructor
func NewC(l interface{ Log(string) }) *C { return &C{} }
`
		result, err := NewParser().ParseSource("c.go", src)
		require.NoError(t, err)
		require.Len(t, result.Skipped, 1)
		assert.Contains(t, result.Skipped[0].Err.Error(), "interface literal")
	})
}

func TestParseSource_ImportAliases(t *testing.T) {
	src := `package chat
import (
	ws "github.com/toyz/wsgen/pkg/wsgen"
	"github.com/example/proto/v2"
	"gopkg.in/yaml.v3"
)
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::handler a
func (c *C) A(s *ws.Session, m *proto.Message) {}
//wsgen::handler b
func (c *C) B(n yaml.Node) {}
`
	result, err := NewParser().ParseSource("c.go", src)
	require.NoError(t, err)
	require.Len(t, result.Controllers, 1)

	a := result.Controllers[0].Handlers[0]
	assert.Equal(t, models.RoleSessionHandle, a.Params[0].Role)
	assert.Equal(t, "github.com/example/proto/v2", a.Params[1].Type.Base().PkgPath)

	b := result.Controllers[0].Handlers[1]
	assert.Equal(t, "gopkg.in/yaml.v3", b.Params[0].Type.PkgPath)
}

func TestParseSource_CustomSessionType(t *testing.T) {
	src := `package chat
import "example.com/transport"
//wsgen::controller /user -Key=id
type C struct{}
//wsgen::handler a
func (c *C) A(conn transport.Conn) {}
`
	session := models.Named("example.com/transport", "transport", "Conn")
	result, err := NewParser(WithSessionType(session)).ParseSource("c.go", src)
	require.NoError(t, err)
	require.Len(t, result.Controllers, 1)
	assert.Equal(t, models.RoleSessionHandle, result.Controllers[0].Handlers[0].Params[0].Role)
}

func TestParseSource_MarkerWarnings(t *testing.T) {
	src := `package chat
//wsgen::handler x
type NotAController struct{}
//wsgen::handler y
func (n *NotAController) Y() {}
`
	result, err := NewParser().ParseSource("c.go", src)
	require.NoError(t, err)
	assert.Empty(t, result.Controllers)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0].Message, "on type NotAController has no effect")
	assert.Contains(t, result.Warnings[1].Message, "NotAController is not a controller")
}

func TestParseSource_UnattributedMarkerErrors(t *testing.T) {
	src := `package chat
//wsgen::controller -Key=id
type C struct{}
`
	result, err := NewParser().ParseSource("c.go", src)
	require.NoError(t, err)
	assert.Empty(t, result.Controllers)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "Path")
}
