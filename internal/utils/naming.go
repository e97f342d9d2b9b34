package utils

import (
	"go/token"
	"strings"
	"unicode"
)

// SplitWords breaks an identifier or free text into words on case changes,
// digits boundaries and non-alphanumeric separators
func SplitWords(s string) []string {
	var words []string
	var current []rune
	runes := []rune(s)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}

// LowerCamel converts text to a lowerCamelCase identifier
func LowerCamel(s string) string {
	words := SplitWords(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lowerWord(w))
			continue
		}
		b.WriteString(upperFirst(strings.ToLower(w)))
	}
	return b.String()
}

// UpperCamel converts text to an UpperCamelCase identifier
func UpperCamel(s string) string {
	var b strings.Builder
	for _, w := range SplitWords(s) {
		if isAllUpper(w) {
			b.WriteString(w)
			continue
		}
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// SnakeCase converts an identifier to snake_case
func SnakeCase(s string) string {
	words := SplitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// IsReservedIdent reports whether name is a Go keyword or predeclared identifier
func IsReservedIdent(name string) bool {
	return token.IsKeyword(name) || predeclared[name]
}

var predeclared = map[string]bool{
	"any": true, "append": true, "bool": true, "byte": true, "cap": true, "clear": true,
	"close": true, "comparable": true, "complex": true, "complex64": true, "complex128": true,
	"copy": true, "delete": true, "error": true, "false": true, "float32": true, "float64": true,
	"imag": true, "int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"iota": true, "len": true, "make": true, "max": true, "min": true, "new": true, "nil": true,
	"panic": true, "print": true, "println": true, "real": true, "recover": true, "rune": true,
	"string": true, "true": true, "uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "uintptr": true,
}

// lowerWord lowercases a leading word, keeping acronyms readable (HTTP -> http, Login -> login)
func lowerWord(w string) string {
	if isAllUpper(w) {
		return strings.ToLower(w)
	}
	r := []rune(w)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(w string) string {
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func isAllUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
