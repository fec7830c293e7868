package sexp

import "testing"

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.27, "1.27"},
		{-2.54, "-2.54"},
		{2.5, "2.5"},
		{200, "200"},
		{0.000001, "0.000001"},
		{-0.0000001, "0"}, // rounds to -0.000000
		{40.64, "40.64"},
		{1.0 / 3.0, "0.333333"},
	}
	for _, c := range cases {
		if got := FormatFloat(c.in); got != c.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestQuote(t *testing.T) {
	if got := Quote(`a "b" \c`); got != `"a \"b\" \\c"` {
		t.Errorf("Quote: got %s", got)
	}
	if got := Quote(""); got != `""` {
		t.Errorf("Quote empty: got %s", got)
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	cases := map[string]string{
		"F.Cu":    "F.Cu",
		"":        `""`,
		"has sp":  `"has sp"`,
		`par(en)`: `"par(en)"`,
		`q"q`:     `"q\"q"`,
	}
	for in, want := range cases {
		if got := QuoteIfNeeded(in); got != want {
			t.Errorf("QuoteIfNeeded(%q) = %s, want %s", in, got, want)
		}
	}
}
