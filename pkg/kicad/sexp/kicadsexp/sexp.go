// Package kicadsexp is a small S-expression parser for KiCad files. It keeps
// the distinction between bare symbols and quoted strings, so a parsed tree
// can be printed back as text KiCad accepts. The schematic writer uses it to
// lift symbol definitions out of `.kicad_sym` libraries.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp is one node of a parsed expression tree: a Symbol, a Str, or a List.
type Sexp interface {
	// IsLeaf reports whether this is an atom (not a list).
	IsLeaf() bool

	// Head returns the first element of a list, or the atom itself.
	Head() Sexp

	// Tail returns the list after its first element, nil for atoms.
	Tail() Sexp

	// String renders the node as KiCad-compatible text.
	String() string
}

// Symbol is a bare atom (identifier or number).
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// Str is a quoted string atom. It prints with quotes and escapes, so
// round-tripping a library symbol keeps its strings intact.
type Str string

func (s Str) IsLeaf() bool { return true }
func (s Str) Head() Sexp   { return s }
func (s Str) Tail() Sexp   { return nil }

func (s Str) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range string(s) {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// List is a parenthesized sequence of nodes.
type List struct {
	elements []Sexp
}

// NewList builds a list from elements.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elements) }

// Get returns the element at index, nil when out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Set replaces the element at index; out-of-range indexes are ignored.
func (l *List) Set(index int, v Sexp) {
	if index >= 0 && index < len(l.elements) {
		l.elements[index] = v
	}
}

// Append adds elements to the end of the list.
func (l *List) Append(v ...Sexp) {
	l.elements = append(l.elements, v...)
}

// Name returns the head symbol of the list, "" when the head is not a Symbol.
func (l *List) Name() string {
	if sym, ok := l.Head().(Symbol); ok {
		return string(sym)
	}
	return ""
}

// Atom returns the text of an atom at index, unquoted for Str. It returns ""
// for lists and out-of-range indexes.
func (l *List) Atom(index int) string {
	switch v := l.Get(index).(type) {
	case Symbol:
		return string(v)
	case Str:
		return string(v)
	default:
		return ""
	}
}

// FindAll returns every direct child list whose head symbol equals name.
func (l *List) FindAll(name string) []*List {
	var out []*List
	for _, elem := range l.elements {
		if sub, ok := elem.(*List); ok && sub.Name() == name {
			out = append(out, sub)
		}
	}
	return out
}

// Find returns the first direct child list whose head symbol equals name,
// nil when absent.
func (l *List) Find(name string) *List {
	for _, elem := range l.elements {
		if sub, ok := elem.(*List); ok && sub.Name() == name {
			return sub
		}
	}
	return nil
}

// Parse reads all top-level expressions from r.
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString reads all top-level expressions from s.
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
