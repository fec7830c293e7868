package schematic

import (
	"math"
	"sort"

	"ipc2kicad/pkg/model"
)

const (
	pinLen   = 2.54
	pinPitch = 2.54
	grid     = 1.27 // KiCad schematic grid

	gridCellW  = 40.64 // column pitch of the fallback grid
	gridMargin = 10.16 // vertical margin per fallback cell

	chainSpacing  = 20.32 // spacing between chained components
	rowSpacing    = 25.4  // spacing between chain rows
	branchSpacing = 12.7  // spacing for vertical T-branches
)

// snap rounds a coordinate onto the schematic grid.
func snap(v float64) float64 {
	return math.Round(v/grid) * grid
}

// symbolInstance is one placed symbol on the sheet.
type symbolInstance struct {
	Refdes        string
	Value         string
	FootprintName string
	X, Y          float64
	Rotation      int // 0, 90, 180, 270
	Comp          *model.ComponentInstance
}

// pinRef names one pin of one instance.
type pinRef struct {
	InstIdx int
	Pin     string
}

// chainNode is one component in a series chain hanging off the hub.
type chainNode struct {
	InstIdx       int
	ConnectingNet string
	InwardPin     string // pin on the net toward the hub
	OutwardPin    string // opposite pin of a 2-pin component
	Branches      []chainNode
}

// chainTree groups the chains starting at one hub pin.
type chainTree struct {
	HubInstIdx int
	HubPin     string
	NetName    string
	Roots      []chainNode
}

type wireSeg struct {
	X1, Y1, X2, Y2 float64
}

type xy struct {
	X, Y float64
}

// layoutComponents builds the instance list, extracts chains around the most
// connected component, places them, and grid-places whatever is left.
func (w *Writer) layoutComponents(pcb *model.PCB) {
	w.instances = nil
	w.chainTrees = nil
	w.wireSegments = nil
	w.junctions = nil
	w.placed = make(map[int]bool)
	w.netComponents = nil

	for i := range pcb.Components {
		comp := &pcb.Components[i]
		if _, ok := w.symbolDefs[comp.FootprintRef]; !ok {
			continue
		}
		value := comp.Value
		if value == "" {
			value = comp.FootprintRef
		}
		w.instances = append(w.instances, &symbolInstance{
			Refdes:        comp.Refdes,
			Value:         value,
			FootprintName: comp.FootprintRef,
			Comp:          comp,
		})
	}

	sort.SliceStable(w.instances, func(a, b int) bool {
		return model.NaturalLess(w.instances[a].Refdes, w.instances[b].Refdes)
	})

	w.buildNetComponents()
	hubIdx := w.findHub()

	if hubIdx >= 0 {
		w.buildChainTrees(hubIdx)
		w.placeChains()
		w.computeWires()
		w.logger.Debug("chain layout",
			"placed", len(w.placed), "total", len(w.instances))
	}

	w.placeFallbackGrid()
}

// buildNetComponents indexes signal nets to the instance pins on them, in
// instance order with pins sorted by name, so chain extraction walks nets in
// a stable order.
func (w *Writer) buildNetComponents() {
	w.netComponents = make(map[string][]pinRef)
	for i, inst := range w.instances {
		for _, pin := range sortedPins(inst.Comp.PinNetMap) {
			net := inst.Comp.PinNetMap[pin]
			if net == "" || net == "No Net" || IsPowerNet(net) {
				continue
			}
			w.netComponents[net] = append(w.netComponents[net], pinRef{i, pin})
		}
	}
}

func sortedPins(pinNets map[string]string) []string {
	pins := make([]string, 0, len(pinNets))
	for p := range pinNets {
		pins = append(pins, p)
	}
	sort.Strings(pins)
	return pins
}

// findHub picks the instance touching the most distinct signal nets. Ties go
// to the lowest refdes in sort order.
func (w *Writer) findHub() int {
	scores := make([]int, len(w.instances))
	for _, refs := range w.netComponents {
		seen := make(map[int]bool)
		for _, r := range refs {
			if !seen[r.InstIdx] {
				seen[r.InstIdx] = true
				scores[r.InstIdx]++
			}
		}
	}
	bestIdx, bestScore := -1, 0
	for i, score := range scores {
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		w.logger.Debug("hub component",
			"refdes", w.instances[bestIdx].Refdes, "signal_nets", bestScore)
	}
	return bestIdx
}

// buildChainTrees grows one tree per hub pin with a signal net. The hub and
// every component pulled into a chain are marked placed before recursing so
// net cycles terminate.
func (w *Writer) buildChainTrees(hubIdx int) {
	w.chainTrees = nil
	w.placed = map[int]bool{hubIdx: true}

	hub := w.instances[hubIdx]
	hubSym := w.symbolDefs[hub.FootprintName]

	for _, pin := range hubSym.Pins {
		net := hub.Comp.PinNetMap[pin.Name]
		if net == "" || net == "No Net" || IsPowerNet(net) {
			continue
		}
		refs, ok := w.netComponents[net]
		if !ok {
			continue
		}

		tree := chainTree{HubInstIdx: hubIdx, HubPin: pin.Name, NetName: net}
		for _, r := range refs {
			if w.placed[r.InstIdx] {
				continue
			}
			w.placed[r.InstIdx] = true
			tree.Roots = append(tree.Roots, w.extendChain(r.InstIdx, net, r.Pin))
		}
		if len(tree.Roots) == 0 {
			continue
		}

		// Deepest chain first: it becomes the horizontal run, the rest
		// become downward T-branches.
		sort.SliceStable(tree.Roots, func(a, b int) bool {
			return chainDepth(&tree.Roots[a]) > chainDepth(&tree.Roots[b])
		})
		w.chainTrees = append(w.chainTrees, tree)
	}
}

func chainDepth(n *chainNode) int {
	d := 1
	for i := range n.Branches {
		if bd := 1 + chainDepth(&n.Branches[i]); bd > d {
			d = bd
		}
	}
	return d
}

// extendChain follows a 2-pin component's far pin onto the next net.
// Components with one pin or more than two pins end the chain.
func (w *Writer) extendChain(instIdx int, net, inwardPin string) chainNode {
	node := chainNode{InstIdx: instIdx, ConnectingNet: net, InwardPin: inwardPin}

	inst := w.instances[instIdx]
	sym := w.symbolDefs[inst.FootprintName]
	if len(sym.Pins) != 2 {
		return node
	}

	for _, pin := range sym.Pins {
		if pin.Name != inwardPin {
			node.OutwardPin = pin.Name
			break
		}
	}
	if node.OutwardPin == "" {
		return node
	}

	nextNet := inst.Comp.PinNetMap[node.OutwardPin]
	if nextNet == "" || nextNet == "No Net" || IsPowerNet(nextNet) {
		return node
	}
	for _, r := range w.netComponents[nextNet] {
		if w.placed[r.InstIdx] {
			continue
		}
		w.placed[r.InstIdx] = true
		node.Branches = append(node.Branches, w.extendChain(r.InstIdx, nextNet, r.Pin))
	}
	return node
}

// placeChains assigns row positions to the chain trees, centers the hub on
// them at the right edge, and places each tree extending leftward.
func (w *Writer) placeChains() {
	if len(w.chainTrees) == 0 {
		return
	}

	hubIdx := w.chainTrees[0].HubInstIdx
	hub := w.instances[hubIdx]

	rowY := make([]float64, len(w.chainTrees))
	currentY := snap(40.0)
	for ci := range w.chainTrees {
		rowY[ci] = snap(currentY)

		tree := &w.chainTrees[ci]
		maxBranchDepth, branchCount := 0, 0
		for ri := range tree.Roots {
			if d := chainDepth(&tree.Roots[ri]); d > maxBranchDepth {
				maxBranchDepth = d
			}
			branchCount += len(tree.Roots[ri].Branches)
		}

		var rowHeight float64
		if branchCount == 0 && len(tree.Roots) <= 1 {
			rowHeight = 15.24 // compact row for single-component chains
		} else {
			rowHeight = 12.7 + float64(maxBranchDepth)*branchSpacing +
				float64(max(0, len(tree.Roots)-1))*branchSpacing
		}
		currentY += rowHeight
	}

	hub.X = snap(200.0)
	hub.Y = snap((rowY[0] + rowY[len(rowY)-1]) / 2.0)
	hub.Rotation = 0
	w.logger.Debug("placed hub", "refdes", hub.Refdes, "x", hub.X, "y", hub.Y)

	for ci := range w.chainTrees {
		tree := &w.chainTrees[ci]
		hpx, _ := w.pinPos(hubIdx, tree.HubPin)

		chainY := rowY[ci]
		chainX := hpx - chainSpacing

		for ri := range tree.Roots {
			if ri == 0 {
				w.placeNodeHorizontal(&tree.Roots[ri], chainX, chainY, false)
			} else {
				// Extra roots branch downward so they stay inside this row.
				w.placeNodeVertical(&tree.Roots[ri], chainX, chainY+branchSpacing*float64(ri), true)
			}
		}
	}
}

// placeNodeHorizontal places a node on a horizontal run. The chain extends
// left from the hub, so the inward pin faces right unless the run was
// reversed.
func (w *Writer) placeNodeHorizontal(node *chainNode, x, y float64, facingRight bool) {
	inst := w.instances[node.InstIdx]

	desiredDir := dirRight
	if facingRight {
		desiredDir = dirLeft
	}
	inst.Rotation = w.rotationForPinFacing(node.InstIdx, node.InwardPin, desiredDir)
	inst.X = snap(x)
	inst.Y = snap(y)

	if node.OutwardPin == "" || len(node.Branches) == 0 {
		return
	}
	opx, opy := w.pinPos(node.InstIdx, node.OutwardPin)
	for bi := range node.Branches {
		if bi == 0 {
			nextX := opx - chainSpacing
			if facingRight {
				nextX = opx + chainSpacing
			}
			w.placeNodeHorizontal(&node.Branches[bi], nextX, opy, facingRight)
		} else {
			w.placeNodeVertical(&node.Branches[bi], opx, opy+branchSpacing*float64(bi), true)
		}
	}
}

// placeNodeVertical places a node on a vertical branch, inward pin facing
// the junction above (or below when the branch grows upward).
func (w *Writer) placeNodeVertical(node *chainNode, x, y float64, facingDown bool) {
	inst := w.instances[node.InstIdx]

	desiredDir := dirUp
	if !facingDown {
		desiredDir = dirDown
	}
	inst.Rotation = w.rotationForPinFacing(node.InstIdx, node.InwardPin, desiredDir)
	inst.X = snap(x)
	inst.Y = snap(y)

	if node.OutwardPin == "" || len(node.Branches) == 0 {
		return
	}
	opx, opy := w.pinPos(node.InstIdx, node.OutwardPin)
	for bi := range node.Branches {
		nextY := opy + branchSpacing
		if !facingDown {
			nextY = opy - branchSpacing
		}
		w.placeNodeVertical(&node.Branches[bi], opx, nextY, facingDown)
	}
}

// placeFallbackGrid puts every unchained component into grid columns below
// the chain layout, at most eight per column.
func (w *Writer) placeFallbackGrid() {
	gridX := snap(30.48)
	gridY := snap(30.48)
	if len(w.placed) > 0 {
		maxY := 0.0
		for idx := range w.placed {
			inst := w.instances[idx]
			sym := w.symbolDefs[inst.FootprintName]
			if bottom := inst.Y + sym.BodyHeight/2.0 + 10.0; bottom > maxY {
				maxY = bottom
			}
		}
		gridY = snap(maxY + rowSpacing)
	}

	colCount := 0
	const maxPerCol = 8

	for i, inst := range w.instances {
		if w.placed[i] {
			continue
		}
		sym := w.symbolDefs[inst.FootprintName]
		cellH := snap(sym.BodyHeight + gridMargin)

		if colCount >= maxPerCol {
			gridX += gridCellW
			if len(w.placed) == 0 {
				gridY = snap(30.48)
			} else {
				gridY = snap(gridY)
			}
			colCount = 0
		}

		inst.X = snap(gridX)
		inst.Y = snap(gridY + sym.BodyHeight/2.0)
		gridY += cellH
		colCount++
	}
}

// Pin facing directions on the sheet (Y grows downward).
const (
	dirLeft = iota
	dirRight
	dirUp
	dirDown
)

// rotatePin rotates a symbol-relative pin offset clockwise in Y-down
// coordinates.
func rotatePin(px, py float64, rotation int) (float64, float64) {
	switch rotation {
	case 90:
		return py, -px
	case 180:
		return -px, -py
	case 270:
		return -py, px
	}
	return px, py
}

// pinPos returns the sheet position of an instance pin. An unknown pin name
// resolves to the symbol origin.
func (w *Writer) pinPos(instIdx int, pinName string) (float64, float64) {
	inst := w.instances[instIdx]
	sym := w.symbolDefs[inst.FootprintName]
	var px, py float64
	if p, ok := sym.pin(pinName); ok {
		px, py = p.X, p.Y
	}
	rx, ry := rotatePin(px, py, inst.Rotation)
	return inst.X + rx, inst.Y + ry
}

// rotationForPinFacing picks the right-angle rotation that points the named
// pin in the wanted direction, 0 when none fits (pin not on an axis).
func (w *Writer) rotationForPinFacing(instIdx int, pinName string, direction int) int {
	inst := w.instances[instIdx]
	sym := w.symbolDefs[inst.FootprintName]
	var px, py float64
	if p, ok := sym.pin(pinName); ok {
		px, py = p.X, p.Y
	}
	for _, rot := range []int{0, 90, 180, 270} {
		rx, ry := rotatePin(px, py, rot)
		var match bool
		switch direction {
		case dirLeft:
			match = rx < -0.1 && math.Abs(ry) < 0.1
		case dirRight:
			match = rx > 0.1 && math.Abs(ry) < 0.1
		case dirUp:
			match = ry < -0.1 && math.Abs(rx) < 0.1
		case dirDown:
			match = ry > 0.1 && math.Abs(rx) < 0.1
		}
		if match {
			return rot
		}
	}
	return 0
}
