// Package normalize holds the canonical forms used for comparison and
// storage of user-entered text.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Email trims surrounding space and lowercases.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding space and collapses inner runs of whitespace.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold returns the comparison key for area and position names: lowercase,
// NFD-decomposed, with combining diacritical marks removed. "Véntas",
// "VENTAS" and "ventas" all fold to "ventas".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// FoldName is Fold applied to the Name form, so surrounding and repeated
// spaces do not defeat duplicate detection.
func FoldName(s string) string {
	return Fold(Name(s))
}
