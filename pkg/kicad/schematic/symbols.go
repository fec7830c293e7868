package schematic

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"ipc2kicad/pkg/model"
)

// pinDef is one pin of a schematic symbol, positioned relative to the symbol
// origin in schematic coordinates (Y grows downward).
type pinDef struct {
	Name string
	X, Y float64
	Side int    // 0=left, 1=right
	Type string // "passive", "unspecified"
}

// symbolDef is the schematic symbol derived from one footprint. It is either
// an auto-generated box-with-pins, or a symbol lifted from a KiCad library
// (LibID + LibText set).
type symbolDef struct {
	FootprintName string
	RefPrefix     string
	BodyWidth     float64
	BodyHeight    float64
	Pins          []pinDef

	LibID   string // e.g. "Device:R"; empty for auto-generated symbols
	LibText string // raw symbol s-expression, renamed to LibID
}

func (s *symbolDef) pin(name string) (pinDef, bool) {
	for _, p := range s.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return pinDef{}, false
}

// refPrefix extracts the alphabetic prefix of a refdes ("R12" -> "R").
func refPrefix(refdes string) string {
	i := 0
	for i < len(refdes) {
		c := refdes[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			i++
		} else {
			break
		}
	}
	if i == 0 {
		return "U"
	}
	return refdes[:i]
}

// mapToLibrarySymbol decides whether a footprint with the given dominant ref
// prefix and pin count maps onto a stock KiCad library symbol. It returns the
// lib id ("Device:R"), the library file name, and the symbol name inside that
// file; empty lib id means the footprint gets an auto-generated symbol.
func mapToLibrarySymbol(prefix string, pinCount int, fp *model.Footprint) (libID, libFile, symName string) {
	switch {
	case prefix == "R" && pinCount == 2:
		return "Device:R", "Device.kicad_sym", "R"
	case prefix == "C" && pinCount == 2:
		return "Device:C", "Device.kicad_sym", "C"
	case prefix == "L" && pinCount == 2:
		return "Device:L", "Device.kicad_sym", "L"
	case prefix == "D" && pinCount == 2:
		return "Device:D", "Device.kicad_sym", "D"
	case prefix == "TP" && pinCount == 1:
		return "Connector:TestPoint", "Connector.kicad_sym", "TestPoint"
	case prefix == "SW" && (pinCount == 2 || pinCount == 4):
		return "Switch:SW_Push", "Switch.kicad_sym", "SW_Push"
	}

	if (prefix == "J" || prefix == "P" || prefix == "CN") && pinCount >= 1 && pinCount <= 40 {
		// Only sequential numeric pads (1..N) match the generic connector.
		for i := 0; i < pinCount; i++ {
			n, err := strconv.Atoi(fp.Pads[i].Name)
			if err != nil || n != i+1 {
				return "", "", ""
			}
		}
		name := fmt.Sprintf("Conn_01x%02d_Pin", pinCount)
		return "Connector_Generic:" + name, "Connector_Generic.kicad_sym", name
	}

	return "", "", ""
}

// libraryPins returns the pin layout the writer assumes for a mapped library
// symbol, in schematic-relative coordinates, together with the body extents
// used for spacing and property placement.
func libraryPins(libID string, pinCount int) (w, h float64, pins []pinDef) {
	switch libID {
	case "Device:R", "Device:C", "Device:L":
		// Vertical 2-pin body; pin 1 on top.
		return 2.54, 7.62, []pinDef{
			{Name: "1", X: 0, Y: -3.81, Side: 0, Type: "passive"},
			{Name: "2", X: 0, Y: 3.81, Side: 0, Type: "passive"},
		}
	case "Device:D":
		return 7.62, 2.54, []pinDef{
			{Name: "1", X: -3.81, Y: 0, Side: 0, Type: "passive"},
			{Name: "2", X: 3.81, Y: 0, Side: 1, Type: "passive"},
		}
	case "Connector:TestPoint":
		return 2.54, 5.08, []pinDef{
			{Name: "1", X: 0, Y: 0, Side: 0, Type: "passive"},
		}
	case "Switch:SW_Push":
		return 10.16, 5.08, []pinDef{
			{Name: "1", X: -5.08, Y: 0, Side: 0, Type: "passive"},
			{Name: "2", X: 5.08, Y: 0, Side: 1, Type: "passive"},
		}
	}
	// Connector_Generic:Conn_01xNN_Pin — all pins on the left, 2.54mm pitch.
	h = float64(pinCount-1)*pinPitch + 2*pinPitch
	for i := 0; i < pinCount; i++ {
		pins = append(pins, pinDef{
			Name: strconv.Itoa(i + 1),
			X:    -5.08,
			Y:    -(float64(pinCount-1) * pinPitch / 2.0) + float64(i)*pinPitch,
			Side: 0,
			Type: "passive",
		})
	}
	return 5.08, h, pins
}

// buildSymbolDefs creates one symbol per footprint that has pads. Footprints
// without pads (fiducials, mounting holes) get no symbol, and their
// components are skipped during layout.
func (w *Writer) buildSymbolDefs(pcb *model.PCB) {
	w.symbolDefs = make(map[string]*symbolDef)
	w.symbolOrder = nil

	symDir := ""
	if w.opts.UseLibSymbols {
		symDir = w.opts.SymbolDir
		if symDir == "" {
			symDir = detectSymbolDir()
		}
		if symDir == "" {
			w.logger.Warn("kicad symbol directory not found, using auto-generated symbols")
		} else {
			w.logger.Debug("using kicad symbol libraries", "dir", symDir)
		}
	}
	w.symDir = symDir

	// Dominant ref prefix per footprint, ties broken alphabetically.
	prefixCounts := make(map[string]map[string]int)
	for i := range pcb.Components {
		c := &pcb.Components[i]
		m := prefixCounts[c.FootprintRef]
		if m == nil {
			m = make(map[string]int)
			prefixCounts[c.FootprintRef] = m
		}
		m[refPrefix(c.Refdes)]++
	}

	names := make([]string, 0, len(pcb.FootprintDefs))
	for name := range pcb.FootprintDefs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, fpName := range names {
		fp := pcb.FootprintDefs[fpName]
		if len(fp.Pads) == 0 {
			continue
		}

		sym := &symbolDef{FootprintName: fpName, RefPrefix: "U"}
		if counts := prefixCounts[fpName]; len(counts) > 0 {
			prefixes := make([]string, 0, len(counts))
			for p := range counts {
				prefixes = append(prefixes, p)
			}
			sort.Strings(prefixes)
			best := 0
			for _, p := range prefixes {
				if counts[p] > best {
					best = counts[p]
					sym.RefPrefix = p
				}
			}
		}

		n := len(fp.Pads)

		if symDir != "" {
			if libID, libFile, symName := mapToLibrarySymbol(sym.RefPrefix, n, fp); libID != "" {
				if text := w.loadLibrarySymbol(symDir+"/"+libFile, symName, libID); text != "" {
					sym.LibID = libID
					sym.LibText = text
					sym.BodyWidth, sym.BodyHeight, sym.Pins = libraryPins(libID, n)
					w.logger.Debug("mapped footprint to library symbol",
						"footprint", fpName, "lib_id", libID)
				}
			}
		}

		if sym.LibID == "" {
			buildAutoSymbol(sym, fp)
		}

		w.symbolDefs[fpName] = sym
		w.symbolOrder = append(w.symbolOrder, fpName)
	}
}

// buildAutoSymbol lays out a generic box symbol: pins split left/right,
// body sized to fit the pin rows and the footprint name.
func buildAutoSymbol(sym *symbolDef, fp *model.Footprint) {
	n := len(fp.Pads)
	pinType := "unspecified"
	if n == 2 {
		pinType = "passive"
	}

	leftN := (n + 1) / 2
	rightN := n - leftN

	bodyH := math.Max(float64(max(leftN, rightN))*pinPitch+pinPitch, 2*pinPitch)

	labelW := float64(len(fp.Name))*1.27 + 2.54
	bodyW := math.Ceil(math.Max(5.08, labelW)/pinPitch) * pinPitch

	sym.BodyWidth = bodyW
	sym.BodyHeight = bodyH

	halfW := bodyW / 2.0
	li, ri := 0, 0
	for i := 0; i < n; i++ {
		pin := pinDef{Name: fp.Pads[i].Name, Type: pinType}
		if i < leftN {
			// Library coordinates are Y-up; negate for schematic-relative.
			libY := -float64(leftN-1)*pinPitch/2.0 + float64(li)*pinPitch
			pin.Side = 0
			pin.X = -(halfW + pinLen)
			pin.Y = -libY
			li++
		} else {
			libY := -float64(rightN-1)*pinPitch/2.0 + float64(ri)*pinPitch
			pin.Side = 1
			pin.X = halfW + pinLen
			pin.Y = -libY
			ri++
		}
		sym.Pins = append(sym.Pins, pin)
	}
}
