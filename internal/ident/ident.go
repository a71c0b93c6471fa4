// Package ident implements identifier and namespace-name sanitisation.
// These rules turn arbitrary TypeScript source names into identifiers a
// target-language code generator can emit without escaping, using
// golang.org/x/text for case-folding plus iancoleman/strcase for
// camel/snake conversion.
package ident

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// reserved is the set of target-language reserved words a generated
// identifier must not collide with. It defaults to Go's 25 keywords;
// callers that know their concrete target language can replace it with
// SetReserved.
var reserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// SetReserved replaces the reserved-word table used by Raw's collision
// check.
func SetReserved(words []string) {
	reserved = make(map[string]bool, len(words))
	for _, w := range words {
		reserved[w] = true
	}
}

var lowerCaser = cases.Lower(language.Und)

// Raw turns s into a raw identifier: the first rune must satisfy
// XID_Start and not be '_', otherwise it is dropped; subsequent runes pass
// XID_Continue through and everything else becomes '_'. If the result
// collides with a reserved word it is suffixed with '_' until it doesn't.
func Raw(s string) string {
	var b strings.Builder
	first := true
	for _, r := range s {
		if first {
			first = false
			if isXIDStart(r) {
				b.WriteRune(r)
			}
			// A dropped leading rune means the identifier starts at the
			// next XID_Continue-eligible rune instead.
			continue
		}
		if isXIDContinue(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	for reserved[out] {
		out += "_"
	}
	if out == "" {
		out = "_"
	}
	return out
}

// isXIDStart approximates XID_Start: letters, explicitly excluding '_'
// (the first char must satisfy XID_Start and not be '_').
func isXIDStart(r rune) bool {
	return r != '_' && unicode.IsLetter(r)
}

func isXIDContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Namespace lower-cases s, strips a trailing ".d.ts" or ".ts", and applies
// Raw.
func Namespace(s string) string {
	s = lowerCaser.String(s)
	s = strings.TrimSuffix(s, ".d.ts")
	s = strings.TrimSuffix(s, ".ts")
	return Raw(s)
}

// CamelLeaf upper-camel-cases s (e.g. for a generated type name) and then
// applies Raw so the result is always a legal identifier.
func CamelLeaf(s string) string {
	return Raw(strcase.ToCamel(s))
}

// Snake lower-snake-cases s, folding word boundaries to '_', then applies
// Raw.
func Snake(s string) string {
	return Raw(strcase.ToSnake(s))
}
