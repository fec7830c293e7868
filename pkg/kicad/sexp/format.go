// Package sexp holds the output-side S-expression helpers shared by the
// board, project, and schematic writers: number formatting and string
// quoting with KiCad's escaping rules.
package sexp

import (
	"fmt"
	"strings"
)

// FormatFloat renders a coordinate or size for KiCad output: fixed six
// decimal places with trailing zeros (and a bare trailing dot) trimmed.
// Negative zero collapses to "0".
func FormatFloat(val float64) string {
	s := fmt.Sprintf("%.6f", val)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// Quote wraps s in double quotes, escaping quotes and backslashes. Schematic
// files quote every string value.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteIfNeeded quotes s only when it is empty or contains a character that
// would break a bare token. Board files use this form.
func QuoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, ` ()"\`) {
		return Quote(s)
	}
	return s
}
