package schematic

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipc2kicad/pkg/kicad/sexp"
	"ipc2kicad/pkg/model"
)

func footprintWithPads(name string, padNames ...string) *model.Footprint {
	fp := &model.Footprint{Name: name, PadToPadtack: map[string]string{}}
	for i, pn := range padNames {
		fp.Pads = append(fp.Pads, model.PadDef{
			Name:   pn,
			Shape:  model.PadRect,
			Width:  0.5,
			Height: 0.5,
			Offset: model.Point{X: float64(i)},
		})
	}
	return fp
}

func addComponent(pcb *model.PCB, refdes, fpRef string, pinNets map[string]string) {
	pcb.Components = append(pcb.Components, model.ComponentInstance{
		Refdes:         refdes,
		FootprintRef:   fpRef,
		PinNetMap:      pinNets,
		PinRotationMap: map[string]float64{},
	})
}

// hubModel builds a small design around one 8-pin part: two series chains,
// one fan-out net with two loads, a floating pin, and ground/rail pins.
func hubModel() *model.PCB {
	pcb := model.NewPCB()
	pcb.FootprintDefs["SOIC8"] = footprintWithPads("SOIC8",
		"1", "2", "3", "4", "5", "6", "7", "8")
	pcb.FootprintDefs["R0402"] = footprintWithPads("R0402", "1", "2")

	addComponent(pcb, "U1", "SOIC8", map[string]string{
		"1": "NETA", "2": "NETB", "3": "", "4": "GND",
		"5": "NETD", "6": "No Net", "7": "", "8": "+3V3",
	})
	// Chain off pin 1: U1 -- R1 -- R2 -- GND.
	addComponent(pcb, "R1", "R0402", map[string]string{"1": "NETA", "2": "NETC"})
	addComponent(pcb, "R2", "R0402", map[string]string{"1": "NETC", "2": "GND"})
	// Fan-out off pin 2: two loads on the same net.
	addComponent(pcb, "R3", "R0402", map[string]string{"1": "NETB", "2": "+3V3"})
	addComponent(pcb, "R5", "R0402", map[string]string{"1": "NETB", "2": "GND"})
	// Single-component chain off pin 5.
	addComponent(pcb, "R4", "R0402", map[string]string{"1": "NETD", "2": "GND"})

	model.SortComponents(pcb.Components)
	return pcb
}

func TestChainLayoutAroundHub(t *testing.T) {
	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, hubModel()))

	// One tree per hub pin with reachable signal components.
	require.Len(t, w.chainTrees, 3)

	// U1 touches three signal nets, more than any resistor.
	hubIdx := w.chainTrees[0].HubInstIdx
	assert.Equal(t, "U1", w.instances[hubIdx].Refdes)
	assert.Equal(t, 0, w.instances[hubIdx].Rotation)
	assert.Equal(t, "NETA", w.chainTrees[0].NetName)
	assert.Equal(t, "NETB", w.chainTrees[1].NetName)
	assert.Equal(t, "NETD", w.chainTrees[2].NetName)

	// The NETA chain extends through R1 into R2.
	netaTree := w.chainTrees[0]
	require.Len(t, netaTree.Roots, 1)
	assert.Equal(t, "R1", w.instances[netaTree.Roots[0].InstIdx].Refdes)
	require.Len(t, netaTree.Roots[0].Branches, 1)
	assert.Equal(t, "R2", w.instances[netaTree.Roots[0].Branches[0].InstIdx].Refdes)

	// Every component landed in a chain, none in the fallback grid.
	assert.Len(t, w.placed, len(w.instances))

	out := buf.String()
	assert.Contains(t, out, "(kicad_sch")
	assert.Contains(t, out, `(paper "A4")`)
	assert.Contains(t, out, "(wire (pts")
}

func TestFanOutJunction(t *testing.T) {
	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, hubModel()))

	// NETB has two roots (R3, R5): the second take-off from the hub pin
	// gets a junction.
	netbTree := w.chainTrees[1]
	require.Len(t, netbTree.Roots, 2)
	require.Len(t, w.junctions, 1)

	hpx, hpy := w.pinPos(netbTree.HubInstIdx, netbTree.HubPin)
	assert.InDelta(t, hpx, w.junctions[0].X, 1e-9)
	assert.InDelta(t, hpy, w.junctions[0].Y, 1e-9)
	assert.Contains(t, buf.String(), "(junction (at")
}

// ringModel closes three resistors into a loop tapped by one hub pin, plus a
// decoupling cap that only touches power nets.
func ringModel() *model.PCB {
	pcb := model.NewPCB()
	pcb.FootprintDefs["SOT4"] = footprintWithPads("SOT4", "1", "2", "3", "4")
	pcb.FootprintDefs["R0402"] = footprintWithPads("R0402", "1", "2")
	pcb.FootprintDefs["CAP0603"] = footprintWithPads("CAP0603", "1", "2")

	addComponent(pcb, "U1", "SOT4", map[string]string{
		"1": "RING_A", "2": "NETX", "3": "NETY", "4": "GND",
	})
	addComponent(pcb, "R1", "R0402", map[string]string{"1": "RING_A", "2": "RING_B"})
	addComponent(pcb, "R2", "R0402", map[string]string{"1": "RING_B", "2": "RING_C"})
	addComponent(pcb, "R3", "R0402", map[string]string{"1": "RING_C", "2": "RING_A"})
	addComponent(pcb, "C1", "CAP0603", map[string]string{"1": "+5V", "2": "GND"})

	model.SortComponents(pcb.Components)
	return pcb
}

func TestRingTopologyPlacesEachComponentOnce(t *testing.T) {
	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, ringModel()))

	// RING_A..RING_C loop back through R1-R3 to the hub pin. Extraction
	// walks the loop once and stops where it started.
	require.Len(t, w.chainTrees, 1)
	tree := w.chainTrees[0]
	assert.Equal(t, "U1", w.instances[tree.HubInstIdx].Refdes)
	assert.Equal(t, "RING_A", tree.NetName)

	require.Len(t, tree.Roots, 1)
	var refdes []string
	var walk func(n *chainNode)
	walk = func(n *chainNode) {
		refdes = append(refdes, w.instances[n.InstIdx].Refdes)
		for i := range n.Branches {
			walk(&n.Branches[i])
		}
	}
	walk(&tree.Roots[0])
	assert.ElementsMatch(t, []string{"R1", "R2", "R3"}, refdes)

	// The loop closes onto already-placed components, so the last node has
	// nowhere left to extend.
	assert.Equal(t, 3, chainDepth(&tree.Roots[0]))

	// Hub plus the three ring resistors are chain-placed; the cap lands in
	// the fallback grid below them.
	assert.Len(t, w.placed, 4)
	var c1 *symbolInstance
	for _, inst := range w.instances {
		if inst.Refdes == "C1" {
			c1 = inst
		}
	}
	require.NotNil(t, c1)
	for idx := range w.placed {
		assert.Less(t, w.instances[idx].Y, c1.Y,
			"%s should sit above the grid", w.instances[idx].Refdes)
	}

	// Exactly one emitted symbol instance per component.
	assert.Equal(t, 5, strings.Count(buf.String(), "(lib_id "))
}

func TestGridSnappingAndRotations(t *testing.T) {
	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, hubModel()))

	for _, inst := range w.instances {
		xSteps := inst.X / grid
		ySteps := inst.Y / grid
		assert.InDelta(t, math.Round(xSteps), xSteps, 1e-6,
			"%s X=%v not on grid", inst.Refdes, inst.X)
		assert.InDelta(t, math.Round(ySteps), ySteps, 1e-6,
			"%s Y=%v not on grid", inst.Refdes, inst.Y)
		assert.Contains(t, []int{0, 90, 180, 270}, inst.Rotation, inst.Refdes)
	}
}

func TestNoConnectForFloatingPins(t *testing.T) {
	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, hubModel()))

	out := buf.String()
	// U1 pins 3 and 7 are unconnected, pin 6 carries the "No Net" marker.
	assert.Equal(t, 3, strings.Count(out, "(no_connect"))
}

func TestPowerPortsWithLibrarySymbols(t *testing.T) {
	w := New(Options{UseLibSymbols: true, SymbolDir: t.TempDir()})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, hubModel()))

	out := buf.String()
	assert.Contains(t, out, `(lib_id "power:GND")`)
	assert.Contains(t, out, `(lib_id "power:+3V3")`)
	assert.Contains(t, out, `"#PWR01"`)
	// Power refdes numbering is dense and starts at 1.
	assert.NotContains(t, out, `"#PWR00"`)

	// R2 sits on a horizontal run rotated 180, so its GND pin points left:
	// the stub extends further left and the ground port rotates to 90.
	r2gnd := sexp.SeededUUID("pwr_R2_2")
	var found bool
	for _, pp := range w.powerPorts {
		if pp.UUID == r2gnd {
			found = true
			assert.Equal(t, "power:GND", pp.LibID)
			assert.Equal(t, 90, pp.Angle)
		}
	}
	require.True(t, found, "no power port for R2 pin 2")
}

func TestPowerNetsGetLabelsWithoutLibrarySymbols(t *testing.T) {
	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, hubModel()))

	out := buf.String()
	assert.NotContains(t, out, "power:GND")
	assert.Contains(t, out, `(label "GND"`)
	assert.Contains(t, out, `(label "+3V3"`)
}

func TestLibrarySymbolMapping(t *testing.T) {
	dir := t.TempDir()
	deviceLib := `(kicad_symbol_lib (version 20241209)
  (symbol "R" (pin_numbers hide)
    (property "Reference" "R" (at 2.032 0 90))
    (symbol "R_0_1" (rectangle (start -1.016 -2.54) (end 1.016 2.54)))
    (symbol "R_1_1"
      (pin passive line (at 0 3.81 270) (length 1.27) (name "~") (number "1"))
      (pin passive line (at 0 -3.81 90) (length 1.27) (name "~") (number "2")))))
`
	powerLib := `(kicad_symbol_lib (version 20241209)
  (symbol "GND" (power)
    (property "Reference" "#PWR" (at 0 -6.35 0))
    (symbol "GND_0_1" (polyline (pts (xy 0 0) (xy 0 -1.27))))))
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Device.kicad_sym"), []byte(deviceLib), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "power.kicad_sym"), []byte(powerLib), 0o644))

	w := New(Options{UseLibSymbols: true, SymbolDir: dir})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, hubModel()))

	out := buf.String()
	// The outer symbol is renamed to its lib id; sub-symbols keep short names.
	assert.Contains(t, out, `(symbol "Device:R"`)
	assert.Contains(t, out, `(symbol "R_0_1"`)
	assert.Contains(t, out, `(lib_id "Device:R")`)
	assert.Contains(t, out, `(symbol "power:GND"`)
	// One embedded definition serves all resistor instances.
	assert.Equal(t, 1, strings.Count(out, `(symbol "Device:R"`))
}

func TestFallbackGridWithoutHub(t *testing.T) {
	pcb := model.NewPCB()
	pcb.FootprintDefs["CAP0603"] = footprintWithPads("CAP0603", "1", "2")
	addComponent(pcb, "C1", "CAP0603", map[string]string{"1": "+5V", "2": "GND"})
	addComponent(pcb, "C2", "CAP0603", map[string]string{"1": "+5V", "2": "GND"})
	addComponent(pcb, "C3", "CAP0603", map[string]string{"1": "", "2": ""})
	model.SortComponents(pcb.Components)

	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, pcb))

	// Only power nets: no hub, no chains, everything grid-placed.
	assert.Empty(t, w.chainTrees)
	assert.Empty(t, w.wireSegments)

	require.Len(t, w.instances, 3)
	assert.InDelta(t, snap(30.48), w.instances[0].X, 1e-9)
	for _, inst := range w.instances {
		assert.InDelta(t, snap(30.48), inst.X, 1e-9)
	}
	// Column stacks downward.
	assert.Less(t, w.instances[0].Y, w.instances[1].Y)
	assert.Less(t, w.instances[1].Y, w.instances[2].Y)
}

func TestComponentsWithoutPadsAreSkipped(t *testing.T) {
	pcb := hubModel()
	pcb.FootprintDefs["FIDUCIAL"] = footprintWithPads("FIDUCIAL")
	addComponent(pcb, "FID1", "FIDUCIAL", map[string]string{})
	model.SortComponents(pcb.Components)

	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, pcb))

	for _, inst := range w.instances {
		assert.NotEqual(t, "FID1", inst.Refdes)
	}
	assert.NotContains(t, buf.String(), "FID1")
}

func TestDeterministicOutput(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, New(Options{}).Write(&a, hubModel()))
	require.NoError(t, New(Options{}).Write(&b, hubModel()))
	assert.Equal(t, a.String(), b.String())

	// Seeded UUIDs, no randomness anywhere.
	assert.Contains(t, a.String(), New(Options{}).sheetUUID)
}

func TestSelectPaper(t *testing.T) {
	assert.Equal(t, "A4", selectPaper(1))
	assert.Equal(t, "A4", selectPaper(15))
	assert.Equal(t, "A3", selectPaper(16))
	assert.Equal(t, "A3", selectPaper(60))
	assert.Equal(t, "A2", selectPaper(61))
}

func TestRotationForPinFacing(t *testing.T) {
	pcb := hubModel()
	w := New(Options{})
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, pcb))

	// R1 heads the NETA chain: its inward pin must face the hub (right).
	root := w.chainTrees[0].Roots[0]
	px, _ := w.pinPos(root.InstIdx, root.InwardPin)
	inst := w.instances[root.InstIdx]
	assert.Greater(t, px, inst.X, "inward pin should sit right of the body")

	// R2 hangs off R1's outward pin, placed further from the hub.
	branch := root.Branches[0]
	assert.Less(t, w.instances[branch.InstIdx].X, inst.X)
}
