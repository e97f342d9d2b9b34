package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeRef_Equal(t *testing.T) {
	session := PointerTo(Named("github.com/toyz/wsgen/pkg/wsgen", "wsgen", "Session"))
	aliased := PointerTo(Named("github.com/toyz/wsgen/pkg/wsgen", "ws", "Session"))
	value := Named("github.com/toyz/wsgen/pkg/wsgen", "wsgen", "Session")
	other := PointerTo(Named("example.com/other", "wsgen", "Session"))

	assert.True(t, session.Equal(aliased), "package alias must not matter")
	assert.False(t, session.Equal(value))
	assert.False(t, session.Equal(other))
}

func TestTypeRef_String(t *testing.T) {
	elem := Named("", "", "string")
	key := Named("", "", "string")
	m := TypeRef{Kind: MapKind, Key: &key, Elem: &elem}
	assert.Equal(t, "map[string]string", m.String())

	payload := Named("example.com/app/chat", "chat", "Message")
	s := TypeRef{Kind: SliceKind, Elem: &payload}
	assert.Equal(t, "[]chat.Message", s.String())
	assert.Equal(t, "*chat.Message", PointerTo(payload).String())

	s.Expr = "[]Message"
	assert.Equal(t, "[]Message", s.String())
}

func TestTypeRef_Decodable(t *testing.T) {
	str := Named("", "", "string")
	payload := Named("example.com/app", "app", "LoginPayload")
	iface := TypeRef{Kind: InterfaceKind}
	emptyIface := TypeRef{Kind: InterfaceKind, Empty: true}
	sliceKey := TypeRef{Kind: SliceKind, Elem: &str}

	tests := []struct {
		name string
		ref  TypeRef
		ok   bool
	}{
		{"named", payload, true},
		{"pointer", PointerTo(payload), true},
		{"string", str, true},
		{"slice", TypeRef{Kind: SliceKind, Elem: &payload}, true},
		{"map", TypeRef{Kind: MapKind, Key: &str, Elem: &payload}, true},
		{"empty interface", emptyIface, true},
		{"error", Named("", "", "error"), false},
		{"interface with methods", iface, false},
		{"chan", TypeRef{Kind: ChanKind, Elem: &payload}, false},
		{"func", TypeRef{Kind: FuncKind}, false},
		{"anonymous struct", TypeRef{Kind: StructKind}, false},
		{"generic", TypeRef{Kind: GenericKind}, false},
		{"variadic", TypeRef{Kind: EllipsisKind, Elem: &payload}, false},
		{"slice map key", TypeRef{Kind: MapKind, Key: &sliceKey, Elem: &str}, false},
		{"pointer to chan", PointerTo(TypeRef{Kind: ChanKind, Elem: &str}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := tt.ref.Decodable()
			assert.Equal(t, tt.ok, ok)
			if !ok {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestParseUnmatchedPolicy(t *testing.T) {
	p, err := ParseUnmatchedPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, UnmatchedIgnore, p)

	p, err = ParseUnmatchedPolicy("error")
	assert.NoError(t, err)
	assert.Equal(t, UnmatchedError, p)

	_, err = ParseUnmatchedPolicy("drop")
	assert.Error(t, err)
}
