package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/wsgen/internal/models"
)

func mustPackage(t *testing.T, path string, files map[string]string) SourcePackage {
	t.Helper()
	pkg, err := ParsePackageSource(models.PackageRef{Path: path}, files)
	require.NoError(t, err)
	return pkg
}

func TestExtract_DiscoveryOrderIsStable(t *testing.T) {
	chat := mustPackage(t, "example.com/app/chat", map[string]string{
		"z.go": "package chat\n//wsgen::controller /z -Key=id\ntype Z struct{}\n",
		"a.go": "package chat\n//wsgen::controller /a -Key=id\ntype A struct{}\n//wsgen::controller /b -Key=id\ntype B struct{}\n",
	})
	admin := mustPackage(t, "example.com/app/admin", map[string]string{
		"admin.go": "package admin\n//wsgen::controller /admin -Key=op\ntype Admin struct{}\n",
	})

	for i := 0; i < 5; i++ {
		result, err := NewParser().Extract([]SourcePackage{chat, admin})
		require.NoError(t, err)

		var names []string
		for _, c := range result.Controllers {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"Admin", "A", "B", "Z"}, names)
	}
}

func TestExtract_MethodsAcrossFiles(t *testing.T) {
	pkg := mustPackage(t, "example.com/app/chat", map[string]string{
		"controller.go": "package chat\n//wsgen::controller /chat -Key=type\ntype Chat struct{}\n",
		"handlers.go":   "package chat\n//wsgen::handler join\nfunc (c Chat) Join() {}\n//wsgen::handler leave\nfunc (c *Chat) Leave() {}\n",
	})

	result, err := NewParser().Extract([]SourcePackage{pkg})
	require.NoError(t, err)
	require.Len(t, result.Controllers, 1)
	require.Len(t, result.Controllers[0].Handlers, 2)
	assert.Equal(t, "Join", result.Controllers[0].Handlers[0].MethodName)
	assert.Equal(t, "Leave", result.Controllers[0].Handlers[1].MethodName)
}

func TestExtract_Anchor(t *testing.T) {
	app := mustPackage(t, "example.com/app", map[string]string{
		"wiring.go": "package app\n//wsgen::config\ntype Wiring struct{}\n",
	})
	web := mustPackage(t, "example.com/app/web", map[string]string{
		"web.go": "package web\n//wsgen::config\nfunc Setup() {}\n",
	})
	chat := mustPackage(t, "example.com/app/chat", map[string]string{
		"chat.go": "package chat\n//wsgen::controller /chat -Key=type\ntype Chat struct{}\n",
	})

	result, err := NewParser().Extract([]SourcePackage{web, chat, app})
	require.NoError(t, err)
	require.NotNil(t, result.Anchor)
	assert.Equal(t, "example.com/app", result.Anchor.Package.Path)
	assert.Equal(t, "Wiring", result.Anchor.Target)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "ignoring //wsgen::config on Setup")
}

func TestExtract_NoAnchor(t *testing.T) {
	chat := mustPackage(t, "example.com/app/chat", map[string]string{
		"chat.go": "package chat\n//wsgen::controller /chat -Key=type\ntype Chat struct{}\n",
	})

	result, err := NewParser().Extract([]SourcePackage{chat})
	require.NoError(t, err)
	assert.Nil(t, result.Anchor)
}

func TestExtract_DuplicateBasePath(t *testing.T) {
	a := mustPackage(t, "example.com/app/a", map[string]string{
		"a.go": "package a\n//wsgen::controller /same -Key=id\ntype A struct{}\n",
	})
	b := mustPackage(t, "example.com/app/b", map[string]string{
		"b.go": "package b\n//wsgen::controller /same -Key=id\ntype B struct{}\n",
	})

	result, err := NewParser().Extract([]SourcePackage{b, a})
	require.NoError(t, err)
	require.Len(t, result.Controllers, 1)
	assert.Equal(t, "A", result.Controllers[0].Name)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Err.Error(), `base path "/same" is already bound to example.com/app/a.A`)
}

func TestExtract_MissingFileSet(t *testing.T) {
	_, err := NewParser().Extract([]SourcePackage{{Ref: models.PackageRef{Path: "x"}}})
	assert.Error(t, err)
}

func TestGuessPackageName(t *testing.T) {
	tests := map[string]string{
		"github.com/google/uuid":                 "uuid",
		"github.com/go-playground/validator/v10": "validator",
		"gopkg.in/yaml.v3":                       "yaml",
		"github.com/mattn/go-sqlite3":            "sqlite3",
		"github.com/toyz/wsgen/pkg/wsgen":        "wsgen",
		"context":                                "context",
	}
	for path, want := range tests {
		assert.Equal(t, want, guessPackageName(path), path)
	}
}
