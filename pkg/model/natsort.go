package model

import "sort"

// NaturalLess compares two reference designators so that embedded digit runs
// order numerically: R2 < R10, C9 < C10 < C11A. Letters compare
// case-insensitively.
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			// Compare the full digit runs as numbers.
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na, nb := trimZeros(a[si:i]), trimZeros(b[sj:j])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		la, lb := lower(ca), lower(cb)
		if la != lb {
			return la < lb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

// SortComponents orders instances by natural refdes order in place. Every
// deterministic traversal in the converter starts from this ordering.
func SortComponents(comps []ComponentInstance) {
	sort.SliceStable(comps, func(i, j int) bool {
		return NaturalLess(comps[i].Refdes, comps[j].Refdes)
	})
}

// SortedNetNames returns the model's net names in lexical order, skipping the
// unconnected net.
func (p *PCB) SortedNetNames() []string {
	names := make([]string, 0, len(p.Nets))
	for _, n := range p.Nets {
		if n.Name != "" {
			names = append(names, n.Name)
		}
	}
	sort.Strings(names)
	return names
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
