package kicadsexp

import "testing"

func TestParseSimple(t *testing.T) {
	exprs, err := ParseString(`(symbol "Device:R" (pin_numbers hide))`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(exprs) != 1 {
		t.Fatalf("expected 1 expression, got %d", len(exprs))
	}

	list, ok := exprs[0].(*List)
	if !ok {
		t.Fatalf("expected list, got %T", exprs[0])
	}
	if list.Name() != "symbol" {
		t.Errorf("head = %q, want symbol", list.Name())
	}
	if list.Atom(1) != "Device:R" {
		t.Errorf("Atom(1) = %q, want Device:R", list.Atom(1))
	}
	if list.Find("pin_numbers") == nil {
		t.Errorf("Find(pin_numbers) returned nil")
	}
}

func TestStringRoundTrip(t *testing.T) {
	src := `(property "Value" "10k" (at 0 1.27 0))`
	exprs, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := exprs[0].String(); got != src {
		t.Errorf("round trip:\n got %s\nwant %s", got, src)
	}
}

func TestQuotedStringEscapes(t *testing.T) {
	exprs, err := ParseString(`(name "a \"b\" \\ c")`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	list := exprs[0].(*List)
	if got := list.Atom(1); got != `a "b" \ c` {
		t.Errorf("unescape: got %q", got)
	}
	want := `(name "a \"b\" \\ c")`
	if got := list.String(); got != want {
		t.Errorf("re-escape: got %s, want %s", got, want)
	}
}

func TestComments(t *testing.T) {
	exprs, err := ParseString("# header\n(a b) # trailing\n(c)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(exprs) != 2 {
		t.Fatalf("expected 2 expressions, got %d", len(exprs))
	}
}

func TestFindAll(t *testing.T) {
	exprs, err := ParseString(`(symbol (pin a) (pin b) (name c))`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	list := exprs[0].(*List)
	pins := list.FindAll("pin")
	if len(pins) != 2 {
		t.Fatalf("expected 2 pins, got %d", len(pins))
	}
}

func TestSetRename(t *testing.T) {
	exprs, _ := ParseString(`(symbol "R" (pin a))`)
	list := exprs[0].(*List)
	list.Set(1, Str("Device:R"))
	if got := list.String(); got != `(symbol "Device:R" (pin a))` {
		t.Errorf("rename: got %s", got)
	}
}
