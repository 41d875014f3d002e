// Package strings provides string helpers shared by the client and the stub
package strings

import (
	std "strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// foldMarks decomposes accented letters and strips the combining marks,
// so "señal" becomes "senal" before the character allowlist below
var foldMarks = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// SanitizeFilename strips any path components and reduces the name to
// letters, digits, dots, dashes, and underscores. Everything else maps to '_'.
// Empty and dot-only names collapse to "_"
func SanitizeFilename(name string) string {
	s := std.TrimSpace(name)
	// drop path components, tolerating both separators
	if i := std.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}
	var b std.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || std.Trim(out, ".") == "" {
		return "_"
	}
	return out
}

// Ext returns the lowercased extension of name including the dot, or ""
func Ext(name string) string {
	i := std.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return std.ToLower(name[i:])
}
