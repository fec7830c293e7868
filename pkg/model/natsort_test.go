package model

import (
	"sort"
	"testing"
)

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"R2", "R10", true},
		{"R10", "R2", false},
		{"C9", "C10", true},
		{"C10", "C10", false},
		{"C10", "C10A", true},
		{"r2", "R10", true}, // case-insensitive letters
		{"U1", "C1", false},
		{"J01", "J1", false}, // equal values, equal length after zero trim
		{"J1", "J01", false},
		{"TP1", "TP2", true},
	}
	for _, c := range cases {
		if got := NaturalLess(c.a, c.b); got != c.want {
			t.Errorf("NaturalLess(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestSortComponents(t *testing.T) {
	comps := []ComponentInstance{
		{Refdes: "R10"}, {Refdes: "C1"}, {Refdes: "R2"}, {Refdes: "U1"},
	}
	SortComponents(comps)

	want := []string{"C1", "R2", "R10", "U1"}
	for i, w := range want {
		if comps[i].Refdes != w {
			t.Fatalf("position %d: got %s, want %s", i, comps[i].Refdes, w)
		}
	}
}

func TestSortedNetNames(t *testing.T) {
	p := NewPCB()
	p.AddNet("VCC")
	p.AddNet("GND")
	p.AddNet("NET1")

	names := p.SortedNetNames()
	if !sort.StringsAreSorted(names) {
		t.Fatalf("net names not sorted: %v", names)
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %v", names)
	}
}

func TestAddNetIdempotent(t *testing.T) {
	p := NewPCB()
	id1 := p.AddNet("GND")
	id2 := p.AddNet("GND")
	if id1 != id2 {
		t.Fatalf("AddNet not idempotent: %d vs %d", id1, id2)
	}
	if p.NetID("GND") != id1 {
		t.Fatalf("NetID lookup mismatch")
	}
	if p.NetID("missing") != 0 {
		t.Fatalf("unknown net should resolve to 0")
	}
}
