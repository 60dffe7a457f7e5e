// Package textnorm folds export cell text so "Ｄｏｎｅ ", "done" and "DONE"
// compare equal. Fold drops control bytes and bad UTF-8, decomposes with NFKD,
// folds case, strips combining marks and zero width characters, narrows
// fullwidth forms, recomposes with NFC and squeezes whitespace.
package textnorm

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transformer chains are stateful so each fold borrows its own
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			// marks only exist apart from their base after decomposition
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF
			width.Fold,
			norm.NFC,
		)
	},
}

// Fold returns the folded form of s, safe for concurrent use
// Fold is idempotent
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	fs, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		fs = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(fs), " ")
}

// Equal reports whether a and b fold to the same text
func Equal(a, b string) bool { return Fold(a) == Fold(b) }

// Contains reports whether the folded haystack contains the folded needle
// an empty needle never matches
func Contains(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Fold(haystack), n)
}

// Split breaks a multi value cell (labels, tags) on commas, semicolons and pipes
// and returns the folded non empty parts in input order
func Split(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := Fold(p); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// sanitize drops NUL, ASCII and C1 controls other than whitespace, DEL and invalid bytes
func sanitize(s string) string {
	clean := true
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if bad(r, size) {
			clean = false
			break
		}
		i += size
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !bad(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func bad(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return true
	case r < 0x20:
		return r != '\n' && r != '\r' && r != '\t'
	case r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return false
}
