package schematic

import (
	"bufio"
	"fmt"
	"math"
	"sort"

	"ipc2kicad/pkg/kicad/sexp"
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// The schematic parser is stricter about quoting than the board parser, so
// every string is emitted quoted.
func sq(s string) string { return sexp.Quote(s) }

func f(v float64) string { return sexp.FormatFloat(v) }

func (w *Writer) writeHeader(b *bufio.Writer, paper string) {
	fmt.Fprint(b, "(kicad_sch\n")
	fmt.Fprint(b, "  (version 20250114)\n")
	fmt.Fprint(b, "  (generator \"ipc2kicad\")\n")
	fmt.Fprint(b, "  (generator_version \"1.0\")\n")
	fmt.Fprintf(b, "  (uuid %s)\n", sq(w.sheetUUID))
	fmt.Fprintf(b, "  (paper %s)\n", sq(paper))
}

func (w *Writer) writeLibSymbols(b *bufio.Writer) {
	fmt.Fprint(b, "  (lib_symbols\n")

	written := make(map[string]bool)
	for _, fpName := range w.symbolOrder {
		sym := w.symbolDefs[fpName]
		if sym.LibID != "" && sym.LibText != "" {
			// Library symbols are embedded once per lib id even when
			// several footprints map onto the same one.
			if !written[sym.LibID] {
				written[sym.LibID] = true
				fmt.Fprintf(b, "    %s\n", sym.LibText)
			}
			continue
		}
		w.writeAutoSymbol(b, fpName, sym)
	}

	for _, libID := range sortedKeys(w.powerSymbolDefs) {
		fmt.Fprintf(b, "    %s\n", w.powerSymbolDefs[libID])
	}

	fmt.Fprint(b, "  )\n")
}

// writeAutoSymbol emits a generated symbol: a rectangle body sub-symbol and
// a pin sub-symbol, KiCad's unit/style naming convention.
func (w *Writer) writeAutoSymbol(b *bufio.Writer, fpName string, sym *symbolDef) {
	fmt.Fprintf(b, "    (symbol %s\n", sq("ipc2581_auto:"+fpName))

	fmt.Fprintf(b, "      (property \"Reference\" %s (at 0 %s 0) (effects (font (size 1.27 1.27))))\n",
		sq(sym.RefPrefix), f(sym.BodyHeight/2.0+1.27))
	fmt.Fprintf(b, "      (property \"Value\" %s (at 0 %s 0) (effects (font (size 1.27 1.27))))\n",
		sq(fpName), f(-(sym.BodyHeight/2.0 + 1.27)))
	fmt.Fprintf(b, "      (property \"Footprint\" %s (at 0 0 0) (effects (font (size 1.27 1.27)) hide))\n",
		sq("ipc2581:"+fpName))

	hw, hh := sym.BodyWidth/2.0, sym.BodyHeight/2.0
	fmt.Fprintf(b, "      (symbol %s\n", sq(fpName+"_0_1"))
	fmt.Fprintf(b, "        (rectangle (start %s %s) (end %s %s)"+
		" (stroke (width 0.254) (type default)) (fill (type background)))\n",
		f(-hw), f(-hh), f(hw), f(hh))
	fmt.Fprint(b, "      )\n")

	// Pin coordinates are schematic-relative; the library is Y-up.
	fmt.Fprintf(b, "      (symbol %s\n", sq(fpName+"_1_1"))
	for _, pin := range sym.Pins {
		angle := 0
		if pin.Side == 1 {
			angle = 180
		}
		fmt.Fprintf(b, "        (pin %s line (at %s %s %d) (length %s)"+
			" (name %s (effects (font (size 1.27 1.27))))"+
			" (number %s (effects (font (size 1.27 1.27)))))\n",
			pin.Type, f(pin.X), f(-pin.Y), angle, f(pinLen),
			sq(pin.Name), sq(pin.Name))
	}
	fmt.Fprint(b, "      )\n")

	fmt.Fprint(b, "    )\n")
}

func (w *Writer) writeWiresAndLabels(b *bufio.Writer) {
	w.powerPorts = nil
	pwrIndex := 1

	for _, seg := range w.wireSegments {
		seed := "cwire_" + f(seg.X1) + "_" + f(seg.Y1) + "_" + f(seg.X2) + "_" + f(seg.Y2)
		fmt.Fprintf(b, "  (wire (pts (xy %s %s) (xy %s %s))\n",
			f(seg.X1), f(seg.Y1), f(seg.X2), f(seg.Y2))
		fmt.Fprint(b, "    (stroke (width 0) (type default))\n")
		fmt.Fprintf(b, "    (uuid %s))\n", sq(sexp.SeededUUID(seed)))
	}

	for _, jct := range w.junctions {
		seed := "jct_" + f(jct.X) + "_" + f(jct.Y)
		fmt.Fprintf(b, "  (junction (at %s %s) (diameter 0) (color 0 0 0 0)\n",
			f(jct.X), f(jct.Y))
		fmt.Fprintf(b, "    (uuid %s))\n", sq(sexp.SeededUUID(seed)))
	}

	chainWired := w.chainWiredPins()

	for i, inst := range w.instances {
		sym := w.symbolDefs[inst.FootprintName]

		for _, pin := range sym.Pins {
			pinKey := inst.Refdes + ":" + pin.Name

			net := inst.Comp.PinNetMap[pin.Name]
			if net == "" || net == "No Net" {
				px, py := w.pinPos(i, pin.Name)
				seed := "nc_" + inst.Refdes + "_" + pin.Name
				fmt.Fprintf(b, "  (no_connect (at %s %s) (uuid %s))\n",
					f(px), f(py), sq(sexp.SeededUUID(seed)))
				continue
			}

			px, py := w.pinPos(i, pin.Name)

			switch {
			case IsPowerNet(net) && w.opts.UseLibSymbols:
				wx, wy := stubEnd(px, py, inst.X, inst.Y)
				w.writeStub(b, inst.Refdes, pin.Name, px, py, wx, wy)

				symName := powerSymbolName(net)
				isGround := groundSymbol(symName)

				angle := 0
				sdx, sdy := wx-px, wy-py
				if math.Abs(sdx) > math.Abs(sdy) {
					if sdx < 0 {
						angle = pick(isGround, 90, 270)
					} else {
						angle = pick(isGround, 270, 90)
					}
				} else {
					if sdy < 0 {
						angle = pick(isGround, 180, 0)
					} else {
						angle = pick(isGround, 0, 180)
					}
				}

				w.powerPorts = append(w.powerPorts, powerPort{
					NetName: net,
					LibID:   "power:" + symName,
					Refdes:  fmt.Sprintf("#PWR%02d", pwrIndex),
					X:       wx,
					Y:       wy,
					Angle:   angle,
					UUID:    sexp.SeededUUID("pwr_" + inst.Refdes + "_" + pin.Name),
					PinUUID: sexp.SeededUUID("pwrpin_" + inst.Refdes + "_" + pin.Name),
				})
				pwrIndex++

			case chainWired[pinKey]:
				// Already connected by a chain wire.

			default:
				// Unplaced component or inter-chain connection: stub
				// plus a net label.
				wx, wy := stubEnd(px, py, inst.X, inst.Y)
				w.writeStub(b, inst.Refdes, pin.Name, px, py, wx, wy)

				labelAngle := 0
				dx, dy := px-inst.X, py-inst.Y
				if math.Abs(dx) > math.Abs(dy) {
					if dx < 0 {
						labelAngle = 180
					}
				} else {
					if dy > 0 {
						labelAngle = 270
					} else {
						labelAngle = 90
					}
				}

				seed := "label_" + inst.Refdes + "_" + pin.Name
				fmt.Fprintf(b, "  (label %s (at %s %s %d)\n",
					sq(net), f(wx), f(wy), labelAngle)
				fmt.Fprint(b, "    (effects (font (size 1.27 1.27)) (justify left))\n")
				fmt.Fprintf(b, "    (uuid %s))\n", sq(sexp.SeededUUID(seed)))
			}
		}
	}

	for _, pp := range w.powerPorts {
		fmt.Fprint(b, "  (symbol\n")
		fmt.Fprintf(b, "    (lib_id %s)\n", sq(pp.LibID))
		fmt.Fprintf(b, "    (at %s %s %d)\n", f(pp.X), f(pp.Y), pp.Angle)
		fmt.Fprintf(b, "    (uuid %s)\n", sq(pp.UUID))
		fmt.Fprintf(b, "    (property \"Reference\" %s (at 0 0 0) (effects (font (size 1.27 1.27)) hide))\n",
			sq(pp.Refdes))
		fmt.Fprintf(b, "    (property \"Value\" %s (at 0 0 0) (effects (font (size 1.27 1.27))))\n",
			sq(pp.NetName))
		fmt.Fprint(b, "    (property \"Footprint\" \"\" (at 0 0 0) (effects (font (size 1.27 1.27)) hide))\n")
		fmt.Fprintf(b, "    (pin \"1\" (uuid %s))\n", sq(pp.PinUUID))
		fmt.Fprint(b, "    (instances\n")
		fmt.Fprintf(b, "      (project %s\n", sq(w.opts.Project))
		fmt.Fprintf(b, "        (path %s\n", sq("/"+w.sheetUUID))
		fmt.Fprintf(b, "          (reference %s) (unit 1))))\n", sq(pp.Refdes))
		fmt.Fprint(b, "  )\n")
	}

	if len(w.powerPorts) > 0 {
		w.logger.Debug("placed power ports", "count", len(w.powerPorts))
	}
}

// stubEnd extends a short wire from a pin away from the component center,
// along the pin's dominant axis.
func stubEnd(px, py, cx, cy float64) (float64, float64) {
	dx, dy := px-cx, py-cy
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return px + pinPitch, py
		}
		return px - pinPitch, py
	}
	if dy > 0 {
		return px, py + pinPitch
	}
	return px, py - pinPitch
}

func (w *Writer) writeStub(b *bufio.Writer, refdes, pin string, px, py, wx, wy float64) {
	seed := "wire_" + refdes + "_" + pin
	fmt.Fprintf(b, "  (wire (pts (xy %s %s) (xy %s %s))\n", f(px), f(py), f(wx), f(wy))
	fmt.Fprint(b, "    (stroke (width 0) (type default))\n")
	fmt.Fprintf(b, "    (uuid %s))\n", sq(sexp.SeededUUID(seed)))
}

func (w *Writer) writeSymbolInstances(b *bufio.Writer) {
	for _, inst := range w.instances {
		sym := w.symbolDefs[inst.FootprintName]
		libID := sym.LibID
		if libID == "" {
			libID = "ipc2581_auto:" + inst.FootprintName
		}

		fmt.Fprint(b, "  (symbol\n")
		fmt.Fprintf(b, "    (lib_id %s)\n", sq(libID))
		fmt.Fprintf(b, "    (at %s %s %d)\n", f(inst.X), f(inst.Y), inst.Rotation)
		fmt.Fprintf(b, "    (uuid %s)\n", sq(sexp.SeededUUID("sym_"+inst.Refdes)))

		// Reference above, value below; swapped to the sides when the
		// symbol is rotated sideways.
		refDX, refDY := 0.0, -(sym.BodyHeight/2.0 + 2.54)
		valDX, valDY := 0.0, sym.BodyHeight/2.0+2.54
		if inst.Rotation == 90 || inst.Rotation == 270 {
			refDX, refDY = -(sym.BodyHeight/2.0 + 2.54), 0
			valDX, valDY = sym.BodyHeight/2.0+2.54, 0
		}
		fmt.Fprintf(b, "    (property \"Reference\" %s (at %s %s 0) (effects (font (size 1.27 1.27))))\n",
			sq(inst.Refdes), f(inst.X+refDX), f(inst.Y+refDY))
		fmt.Fprintf(b, "    (property \"Value\" %s (at %s %s 0) (effects (font (size 1.27 1.27))))\n",
			sq(inst.Value), f(inst.X+valDX), f(inst.Y+valDY))
		fmt.Fprintf(b, "    (property \"Footprint\" %s (at 0 0 0) (effects (font (size 1.27 1.27)) hide))\n",
			sq("ipc2581:"+inst.FootprintName))

		if inst.Comp.Description != "" {
			fmt.Fprintf(b, "    (property \"Description\" %s (at 0 0 0) (effects (font (size 1.27 1.27)) hide))\n",
				sq(inst.Comp.Description))
		}
		if inst.Comp.PartNumber != "" {
			fmt.Fprintf(b, "    (property \"Part_Number\" %s (at 0 0 0) (effects (font (size 1.27 1.27)) hide))\n",
				sq(inst.Comp.PartNumber))
		}

		for _, pin := range sym.Pins {
			fmt.Fprintf(b, "    (pin %s (uuid %s))\n",
				sq(pin.Name), sq(sexp.SeededUUID("pin_"+inst.Refdes+"_"+pin.Name)))
		}

		fmt.Fprint(b, "    (instances\n")
		fmt.Fprintf(b, "      (project %s\n", sq(w.opts.Project))
		fmt.Fprintf(b, "        (path %s\n", sq("/"+w.sheetUUID))
		fmt.Fprintf(b, "          (reference %s) (unit 1))))\n", sq(inst.Refdes))
		fmt.Fprint(b, "  )\n")
	}
}

func (w *Writer) writeSheetInstances(b *bufio.Writer) {
	fmt.Fprint(b, "  (sheet_instances\n")
	fmt.Fprint(b, "    (path \"/\" (page \"1\")))\n")
	fmt.Fprint(b, "  (embedded_fonts no)\n")
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
