package schematic

import "math"

// computeWires draws the chain wiring: hub pin to each root, then down every
// branch. A junction marks the second and later take-offs from one pin.
func (w *Writer) computeWires() {
	w.wireSegments = nil
	w.junctions = nil

	for ti := range w.chainTrees {
		tree := &w.chainTrees[ti]
		hpx, hpy := w.pinPos(tree.HubInstIdx, tree.HubPin)

		for ri := range tree.Roots {
			root := &tree.Roots[ri]
			rpx, rpy := w.pinPos(root.InstIdx, root.InwardPin)

			w.routeWire(hpx, hpy, rpx, rpy)
			if len(tree.Roots) > 1 && ri > 0 {
				w.junctions = append(w.junctions, xy{hpx, hpy})
			}
			w.drawChainWires(root)
		}
	}
}

func (w *Writer) drawChainWires(node *chainNode) {
	if node.OutwardPin == "" || len(node.Branches) == 0 {
		return
	}
	opx, opy := w.pinPos(node.InstIdx, node.OutwardPin)

	for bi := range node.Branches {
		branch := &node.Branches[bi]
		bpx, bpy := w.pinPos(branch.InstIdx, branch.InwardPin)

		w.routeWire(opx, opy, bpx, bpy)
		if len(node.Branches) > 1 && bi > 0 {
			w.junctions = append(w.junctions, xy{opx, opy})
		}
		w.drawChainWires(branch)
	}
}

// routeWire connects two pins with a straight segment when they share an
// axis, or an L of two segments (horizontal leg first) when they don't.
func (w *Writer) routeWire(x1, y1, x2, y2 float64) {
	x1, y1 = snap(x1), snap(y1)
	x2, y2 = snap(x2), snap(y2)

	if math.Abs(y1-y2) < 0.01 || math.Abs(x1-x2) < 0.01 {
		w.wireSegments = append(w.wireSegments, wireSeg{x1, y1, x2, y2})
		return
	}
	w.wireSegments = append(w.wireSegments, wireSeg{x1, y1, x2, y1})
	w.wireSegments = append(w.wireSegments, wireSeg{x2, y1, x2, y2})
}

// chainWiredPins collects "refdes:pin" keys for every pin the chain wiring
// already connects, so the annotator skips labeling them.
func (w *Writer) chainWiredPins() map[string]bool {
	wired := make(map[string]bool)

	var mark func(node *chainNode)
	mark = func(node *chainNode) {
		for bi := range node.Branches {
			branch := &node.Branches[bi]
			if node.OutwardPin != "" {
				wired[w.instances[node.InstIdx].Refdes+":"+node.OutwardPin] = true
			}
			wired[w.instances[branch.InstIdx].Refdes+":"+branch.InwardPin] = true
			mark(branch)
		}
	}

	for ti := range w.chainTrees {
		tree := &w.chainTrees[ti]
		for ri := range tree.Roots {
			root := &tree.Roots[ri]
			wired[w.instances[tree.HubInstIdx].Refdes+":"+tree.HubPin] = true
			wired[w.instances[root.InstIdx].Refdes+":"+root.InwardPin] = true
			mark(root)
		}
	}
	return wired
}
