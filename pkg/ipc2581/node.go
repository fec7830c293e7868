package ipc2581

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// node is a generic XML element tree. IPC-2581 files mix well-known elements
// with vendor extensions, so the parser walks a DOM and picks what it knows
// instead of unmarshalling into fixed structs.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []node     `xml:",any"`
}

func (n *node) name() string { return n.XMLName.Local }

// child returns the first direct child with the given element name, nil when
// absent.
func (n *node) child(name string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

// children returns all direct children with the given element name.
func (n *node) children(name string) []*node {
	var out []*node
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == name {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// attr returns the attribute value, or def when missing/empty.
func (n *node) attr(name, def string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name && a.Value != "" {
			return a.Value
		}
	}
	return def
}

// floatAttr parses a numeric attribute, returning def when missing/invalid.
func (n *node) floatAttr(name string, def float64) float64 {
	s := n.attr(name, "")
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

// boolAttr parses a boolean attribute ("true"/"yes"/"1"), returning def when
// missing/invalid.
func (n *node) boolAttr(name string, def bool) bool {
	switch strings.ToLower(n.attr(name, "")) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	default:
		return def
	}
}
