package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := map[string][]string{
		"UserController": {"User", "Controller"},
		"HTTPHandler":    {"HTTP", "Handler"},
		"user-login":     {"user", "login"},
		"user.login v2":  {"user", "login", "v2"},
		"loginV2":        {"login", "V2"},
		"!!!":            nil,
	}
	for in, want := range tests {
		assert.Equal(t, want, SplitWords(in), in)
	}
}

func TestCaseConversions(t *testing.T) {
	assert.Equal(t, "userController", LowerCamel("UserController"))
	assert.Equal(t, "httpHandler", LowerCamel("HTTPHandler"))
	assert.Equal(t, "userLogin", LowerCamel("user-login"))
	assert.Equal(t, "", LowerCamel("--"))

	assert.Equal(t, "LoginPayload", UpperCamel("LoginPayload"))
	assert.Equal(t, "Login", UpperCamel("login"))
	assert.Equal(t, "HTTPServer", UpperCamel("HTTPServer"))

	assert.Equal(t, "user_controller", SnakeCase("UserController"))
	assert.Equal(t, "http_handler", SnakeCase("HTTPHandler"))
}

func TestIsReservedIdent(t *testing.T) {
	assert.True(t, IsReservedIdent("func"))
	assert.True(t, IsReservedIdent("string"))
	assert.True(t, IsReservedIdent("new"))
	assert.False(t, IsReservedIdent("session"))
}
