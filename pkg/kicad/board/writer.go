// Package board writes the model as a .kicad_pcb file.
package board

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"ipc2kicad/pkg/kicad/sexp"
	"ipc2kicad/pkg/model"
)

// Version selects the KiCad file format generation.
type Version int

const (
	V7 Version = 7
	V8 Version = 8
)

// Options configures the board writer.
type Options struct {
	Version Version
	Logger  *log.Logger
}

// Writer emits a .kicad_pcb document.
type Writer struct {
	opts   Options
	logger *log.Logger
}

// New creates a board writer. The version defaults to V8.
func New(opts Options) *Writer {
	if opts.Version == 0 {
		opts.Version = V8
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Writer{opts: opts, logger: logger}
}

// WriteFile writes the board to a file path.
func (w *Writer) WriteFile(path string, pcb *model.PCB) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := w.Write(f, pcb); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write emits the board document to out.
func (w *Writer) Write(out io.Writer, pcb *model.PCB) error {
	b := bufio.NewWriter(out)

	fmt.Fprint(b, "(kicad_pcb ")
	w.writeHeader(b)
	fmt.Fprint(b, "\n")
	w.writeGeneral(b, pcb)
	w.writePaper(b)
	w.writeLayers(b, pcb)
	w.writeSetup(b, pcb)
	fmt.Fprint(b, "\n")
	w.writeNets(b, pcb)
	fmt.Fprint(b, "\n")
	w.writeFootprints(b, pcb)
	fmt.Fprint(b, "\n")
	w.writeOutline(b, pcb)
	fmt.Fprint(b, "\n")
	w.writeGraphics(b, pcb)
	fmt.Fprint(b, "\n")
	w.writeTraces(b, pcb)
	fmt.Fprint(b, "\n")
	w.writeVias(b, pcb)
	fmt.Fprint(b, "\n")
	w.writeZones(b, pcb)
	fmt.Fprint(b, "\n)\n")

	if err := b.Flush(); err != nil {
		return fmt.Errorf("write board: %w", err)
	}
	w.logger.Debug("board written",
		"footprints", len(pcb.Components), "traces", len(pcb.Traces))
	return nil
}

func (w *Writer) hasUUIDs() bool { return w.opts.Version >= V8 }

func (w *Writer) uuidFrom(seed string) string { return sexp.SeededUUID(seed) }

func (w *Writer) writeHeader(b *bufio.Writer) {
	if w.hasUUIDs() {
		fmt.Fprint(b, `(version 20240108) (generator "ipc2kicad") (generator_version "1.0")`)
	} else {
		fmt.Fprint(b, `(version 20221018) (generator "ipc2kicad")`)
	}
}

func (w *Writer) writeGeneral(b *bufio.Writer, pcb *model.PCB) {
	fmt.Fprint(b, "  (general\n")
	fmt.Fprintf(b, "    (thickness %s)\n", f(pcb.Stackup.BoardThickness))
	if w.hasUUIDs() {
		fmt.Fprint(b, "    (legacy_teardrops no)\n")
	}
	fmt.Fprint(b, "  )\n\n")
}

func (w *Writer) writePaper(b *bufio.Writer) {
	fmt.Fprint(b, "  (paper \"A4\")\n\n")
}

func (w *Writer) writeLayers(b *bufio.Writer, pcb *model.PCB) {
	fmt.Fprint(b, "  (layers\n")

	written := map[int]bool{0: true, 31: true}
	fmt.Fprint(b, "    (0 \"F.Cu\" signal)\n")
	for _, l := range pcb.Layers {
		if l.KicadID > 0 && l.KicadID < 31 && l.Type == "signal" && !written[l.KicadID] {
			written[l.KicadID] = true
			fmt.Fprintf(b, "    (%d %q signal)\n", l.KicadID, l.KicadName)
		}
	}
	fmt.Fprint(b, "    (31 \"B.Cu\" signal)\n")

	// Standard non-copper set.
	fmt.Fprint(b, `    (32 "B.Adhes" user "B.Adhesive")
    (33 "F.Adhes" user "F.Adhesive")
    (34 "B.Paste" user)
    (35 "F.Paste" user)
    (36 "B.SilkS" user "B.Silkscreen")
    (37 "F.SilkS" user "F.Silkscreen")
    (38 "B.Mask" user)
    (39 "F.Mask" user)
    (40 "Dwgs.User" user "User.Drawings")
    (41 "Cmts.User" user "User.Comments")
    (42 "Eco1.User" user "User.Eco1")
    (43 "Eco2.User" user "User.Eco2")
    (44 "Edge.Cuts" user)
    (45 "Margin" user)
    (46 "B.CrtYd" user "B.Courtyard")
    (47 "F.CrtYd" user "F.Courtyard")
    (48 "B.Fab" user)
    (49 "F.Fab" user)
`)
	fmt.Fprint(b, "  )\n\n")
}

func (w *Writer) writeSetup(b *bufio.Writer, pcb *model.PCB) {
	fmt.Fprint(b, "  (setup\n")
	if len(pcb.Stackup.Layers) > 0 {
		w.writeStackup(b, pcb)
	}
	fmt.Fprint(b, "    (pad_to_mask_clearance 0)\n")
	fmt.Fprint(b, `    (pcbplotparams
      (usegerberextensions false)
      (usegerberattributes true)
      (usegerberadvancedattributes true)
      (creategerberjobfile true)
      (dashed_line_dash_ratio 12.000000)
      (dashed_line_gap_ratio 3.000000)
      (svgprecision 4)
      (plotframeref false)
      (viasonmask false)
      (mode 1)
      (useauxorigin false)
      (hpglpennumber 1)
      (hpglpenspeed 20)
      (hpglpendiameter 15.000000)
      (pdf_front_fp_property_popups true)
      (pdf_back_fp_property_popups true)
      (dxfpolygonmode true)
      (dxfimperialunits true)
      (dxfusepcbnewfont true)
      (psnegative false)
      (psa4output false)
      (plotreference true)
      (plotvalue true)
      (plotfptext true)
      (plotinvisibletext false)
      (sketchpadsonfab false)
      (subtractmaskfromsilk false)
      (outputformat 1)
      (mirror false)
      (drillshape 1)
      (scaleselection 1)
      (outputdirectory "")
    )
`)
	fmt.Fprint(b, "  )\n\n")
}

func (w *Writer) writeStackup(b *bufio.Writer, pcb *model.PCB) {
	fmt.Fprint(b, "    (stackup\n")
	for _, sl := range pcb.Stackup.Layers {
		switch sl.Type {
		case "copper":
			name := "F.Cu"
			switch {
			case sl.KicadLayerID == 31:
				name = "B.Cu"
			case sl.KicadLayerID > 0:
				name = fmt.Sprintf("In%d.Cu", sl.KicadLayerID)
			}
			fmt.Fprintf(b, "      (layer %q\n        (type \"copper\")\n        (thickness %s)\n      )\n",
				name, f(sl.Thickness))
		case "dielectric":
			fmt.Fprintf(b, "      (layer \"dielectric\"\n        (type \"dielectric\")\n        (thickness %s)\n",
				f(sl.Thickness))
			if sl.Material != "" {
				fmt.Fprintf(b, "        (material %q)\n", sl.Material)
			}
			fmt.Fprintf(b, "        (epsilon_r %s)\n      )\n", f(sl.EpsilonR))
		case "soldermask":
			fmt.Fprintf(b, "      (layer %q\n        (type \"soldermask\")\n        (thickness %s)\n      )\n",
				sl.Name, f(sl.Thickness))
		case "silkscreen":
			fmt.Fprintf(b, "      (layer %q\n        (type \"silkscreen\")\n      )\n", sl.Name)
		}
	}
	fmt.Fprint(b, "      (copper_finish \"None\")\n")
	fmt.Fprint(b, "      (dielectric_constraints no)\n")
	fmt.Fprint(b, "    )\n")
}

func (w *Writer) writeNets(b *bufio.Writer, pcb *model.PCB) {
	for _, net := range pcb.Nets {
		fmt.Fprintf(b, "  (net %d %s)\n", net.ID, q(net.Name))
	}
}

func (w *Writer) writeFootprints(b *bufio.Writer, pcb *model.PCB) {
	for i := range pcb.Components {
		comp := &pcb.Components[i]
		fp := pcb.Footprint(comp.FootprintRef)
		if fp == nil {
			w.logger.Warn("footprint not found, skipping",
				"footprint", comp.FootprintRef, "refdes", comp.Refdes)
			continue
		}
		w.writeFootprint(b, pcb, comp, fp)
	}
}

func (w *Writer) writeFootprint(b *bufio.Writer, pcb *model.PCB,
	comp *model.ComponentInstance, fp *model.Footprint) {

	layer := "F.Cu"
	if comp.Mirror {
		layer = "B.Cu"
	}

	fmt.Fprintf(b, "  (footprint %s\n", q("ipc2581:"+fp.Name))
	fmt.Fprintf(b, "    (layer %q)\n", layer)
	if w.hasUUIDs() {
		fmt.Fprintf(b, "    (uuid %s)\n", w.uuidFrom("fp_"+comp.Refdes))
	}
	fmt.Fprintf(b, "    (at %s %s", f(comp.Position.X), f(comp.Position.Y))
	if comp.Rotation != 0 {
		fmt.Fprintf(b, " %s", f(comp.Rotation))
	}
	fmt.Fprint(b, ")\n")

	w.writeProperty(b, comp, "Reference", comp.Refdes, "ref_", "-2",
		side(comp.Mirror, "B.SilkS", "F.SilkS"), false, "1")
	value := comp.Value
	if value == "" {
		value = fp.Name
	}
	w.writeProperty(b, comp, "Value", value, "val_", "2",
		side(comp.Mirror, "B.Fab", "F.Fab"), false, "1")
	w.writeProperty(b, comp, "Footprint", "ipc2581:"+fp.Name, "fprop_", "0",
		side(comp.Mirror, "B.Fab", "F.Fab"), true, "1.27")

	for i, gi := range fp.Graphics {
		glayer := gi.Layer
		if comp.Mirror {
			switch glayer {
			case "F.SilkS":
				glayer = "B.SilkS"
			case "F.Fab":
				glayer = "B.Fab"
			case "F.CrtYd":
				glayer = "B.CrtYd"
			}
		}

		switch gi.Kind {
		case model.GraphicLine:
			fmt.Fprintf(b, "    (fp_line (start %s %s) (end %s %s) (stroke (width %s) (type solid)) (layer %q)",
				f(gi.Start.X), f(gi.Start.Y), f(gi.End.X), f(gi.End.Y), f(gi.Width), glayer)
			if w.hasUUIDs() {
				fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("fpline_%s_%d", comp.Refdes, i)))
			}
			fmt.Fprint(b, ")\n")
		case model.GraphicArc:
			fmt.Fprintf(b, "    (fp_arc (start %s %s) (mid %s %s) (end %s %s) (stroke (width %s) (type solid)) (layer %q)",
				f(gi.Start.X), f(gi.Start.Y), f(gi.Center.X), f(gi.Center.Y),
				f(gi.End.X), f(gi.End.Y), f(gi.Width), glayer)
			if w.hasUUIDs() {
				fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("fparc_%s_%d", comp.Refdes, i)))
			}
			fmt.Fprint(b, ")\n")
		}
	}

	for i := range fp.Pads {
		w.writePad(b, pcb, comp, &fp.Pads[i])
	}

	fmt.Fprint(b, "  )\n\n")
}

func (w *Writer) writeProperty(b *bufio.Writer, comp *model.ComponentInstance,
	key, value, seedPrefix, atY, layer string, hide bool, fontSize string) {

	fmt.Fprintf(b, "    (property %q %s\n", key, q(value))
	fmt.Fprintf(b, "      (at 0 %s 0)\n", atY)
	fmt.Fprintf(b, "      (layer %q)\n", layer)
	if hide {
		fmt.Fprint(b, "      (hide yes)\n")
	}
	if w.hasUUIDs() {
		fmt.Fprintf(b, "      (uuid %s)\n", w.uuidFrom(seedPrefix+comp.Refdes))
	}
	fmt.Fprintf(b, "      (effects (font (size %s %s) (thickness 0.15)))\n", fontSize, fontSize)
	fmt.Fprint(b, "    )\n")
}

func (w *Writer) writePad(b *bufio.Writer, pcb *model.PCB,
	comp *model.ComponentInstance, pad *model.PadDef) {

	typeStr := "smd"
	switch pad.Type {
	case model.PadThruHole:
		typeStr = "thru_hole"
	case model.PadNPTH:
		typeStr = "np_thru_hole"
	}

	shapeStr := "rect"
	switch pad.Shape {
	case model.PadCircle:
		shapeStr = "circle"
	case model.PadOval:
		shapeStr = "oval"
	case model.PadRoundRect:
		shapeStr = "roundrect"
	case model.PadTrapezoid:
		shapeStr = "trapezoid"
	case model.PadCustom:
		shapeStr = "custom"
	}

	fmt.Fprintf(b, "    (pad %s %s %s", q(pad.Name), typeStr, shapeStr)
	fmt.Fprintf(b, " (at %s %s", f(pad.Offset.X), f(pad.Offset.Y))
	if pad.Rotation != 0 {
		fmt.Fprintf(b, " %s", f(pad.Rotation))
	}
	fmt.Fprint(b, ")")
	fmt.Fprintf(b, " (size %s %s)", f(pad.Width), f(pad.Height))
	if pad.DrillDiameter > 0 {
		fmt.Fprintf(b, " (drill %s)", f(pad.DrillDiameter))
	}

	fmt.Fprint(b, " (layers")
	switch {
	case pad.Type == model.PadThruHole || pad.Type == model.PadNPTH:
		fmt.Fprint(b, ` "*.Cu" "*.Mask"`)
	case comp.Mirror:
		fmt.Fprint(b, ` "B.Cu" "B.Paste" "B.Mask"`)
	default:
		fmt.Fprint(b, ` "F.Cu" "F.Paste" "F.Mask"`)
	}
	fmt.Fprint(b, ")")

	if pad.Shape == model.PadRoundRect {
		fmt.Fprintf(b, " (roundrect_rratio %s)", f(pad.RoundRectRatio))
	}

	if netName := comp.PinNetMap[pad.Name]; netName != "" {
		fmt.Fprintf(b, " (net %d %s)", pcb.NetID(netName), q(netName))
	}

	if w.hasUUIDs() {
		fmt.Fprintf(b, " (uuid %s)", w.uuidFrom("pad_"+comp.Refdes+"_"+pad.Name))
	}

	if pad.Shape == model.PadCustom && len(pad.CustomShape) > 0 {
		fmt.Fprint(b, "\n      (primitives\n        (gr_poly (pts")
		for _, pt := range pad.CustomShape {
			fmt.Fprintf(b, " (xy %s %s)", f(pt.X), f(pt.Y))
		}
		fmt.Fprint(b, ") (width 0) (fill yes))\n      )")
	}

	fmt.Fprint(b, ")\n")
}

func (w *Writer) writeTraces(b *bufio.Writer, pcb *model.PCB) {
	for i, t := range pcb.Traces {
		fmt.Fprintf(b, "  (segment (start %s %s) (end %s %s) (width %s) (layer %q) (net %d)",
			f(t.Start.X), f(t.Start.Y), f(t.End.X), f(t.End.Y), f(t.Width), t.Layer, t.NetID)
		if w.hasUUIDs() {
			fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("seg_%d", i)))
		}
		fmt.Fprint(b, ")\n")
	}

	for i, a := range pcb.TraceArcs {
		fmt.Fprintf(b, "  (arc (start %s %s) (mid %s %s) (end %s %s) (width %s) (layer %q) (net %d)",
			f(a.Start.X), f(a.Start.Y), f(a.Mid.X), f(a.Mid.Y), f(a.End.X), f(a.End.Y),
			f(a.Width), a.Layer, a.NetID)
		if w.hasUUIDs() {
			fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("arc_%d", i)))
		}
		fmt.Fprint(b, ")\n")
	}
}

func (w *Writer) writeVias(b *bufio.Writer, pcb *model.PCB) {
	for i, v := range pcb.Vias {
		fmt.Fprintf(b, "  (via (at %s %s) (size %s) (drill %s) (layers %q %q) (net %d)",
			f(v.Position.X), f(v.Position.Y), f(v.Diameter), f(v.Drill),
			v.StartLayer, v.EndLayer, v.NetID)
		if w.hasUUIDs() {
			fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("via_%d", i)))
		}
		fmt.Fprint(b, ")\n")
	}
}

func (w *Writer) writeZones(b *bufio.Writer, pcb *model.PCB) {
	for i, z := range pcb.Zones {
		fmt.Fprintf(b, "  (zone (net %d) (net_name %s) (layer %q)", z.NetID, q(z.NetName), z.Layer)
		if w.hasUUIDs() {
			fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("zone_%d", i)))
		}
		fmt.Fprint(b, "\n")
		fmt.Fprint(b, "    (fill yes (thermal_gap 0.5) (thermal_bridge_width 0.5))\n")

		writePolygon := func(pts []model.Point) {
			fmt.Fprint(b, "    (polygon\n      (pts\n")
			for _, pt := range pts {
				fmt.Fprintf(b, "        (xy %s %s)\n", f(pt.X), f(pt.Y))
			}
			fmt.Fprint(b, "      )\n    )\n")
		}
		writePolygon(z.Outline)
		for _, hole := range z.Holes {
			writePolygon(hole)
		}

		fmt.Fprint(b, "  )\n\n")
	}
}

func (w *Writer) writeOutline(b *bufio.Writer, pcb *model.PCB) {
	for i, seg := range pcb.Outline {
		fmt.Fprintf(b, "  (gr_line (start %s %s) (end %s %s) (stroke (width %s) (type solid)) (layer \"Edge.Cuts\")",
			f(seg.Start.X), f(seg.Start.Y), f(seg.End.X), f(seg.End.Y), f(seg.Width))
		if w.hasUUIDs() {
			fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("outline_%d", i)))
		}
		fmt.Fprint(b, ")\n")
	}

	for i, arc := range pcb.OutlineArcs {
		fmt.Fprintf(b, "  (gr_arc (start %s %s) (mid %s %s) (end %s %s) (stroke (width %s) (type solid)) (layer \"Edge.Cuts\")",
			f(arc.Start.X), f(arc.Start.Y), f(arc.Mid.X), f(arc.Mid.Y),
			f(arc.End.X), f(arc.End.Y), f(arc.Width))
		if w.hasUUIDs() {
			fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("outarc_%d", i)))
		}
		fmt.Fprint(b, ")\n")
	}
}

func (w *Writer) writeGraphics(b *bufio.Writer, pcb *model.PCB) {
	for i, gi := range pcb.Graphics {
		switch gi.Kind {
		case model.GraphicLine:
			fmt.Fprintf(b, "  (gr_line (start %s %s) (end %s %s) (stroke (width %s) (type solid)) (layer %q)",
				f(gi.Start.X), f(gi.Start.Y), f(gi.End.X), f(gi.End.Y), f(gi.Width), gi.Layer)
			if w.hasUUIDs() {
				fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("grline_%d", i)))
			}
			fmt.Fprint(b, ")\n")

		case model.GraphicArc:
			// Arcs store their mid point in Center.
			fmt.Fprintf(b, "  (gr_arc (start %s %s) (mid %s %s) (end %s %s) (stroke (width %s) (type solid)) (layer %q)",
				f(gi.Start.X), f(gi.Start.Y), f(gi.Center.X), f(gi.Center.Y),
				f(gi.End.X), f(gi.End.Y), f(gi.Width), gi.Layer)
			if w.hasUUIDs() {
				fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("grarc_%d", i)))
			}
			fmt.Fprint(b, ")\n")

		case model.GraphicPolygon:
			fmt.Fprint(b, "  (gr_poly (pts")
			for _, pt := range gi.Points {
				fmt.Fprintf(b, " (xy %s %s)", f(pt.X), f(pt.Y))
			}
			fmt.Fprintf(b, ") (stroke (width %s) (type solid)) (fill %s) (layer %q)",
				f(gi.Width), yesNo(gi.Fill), gi.Layer)
			if w.hasUUIDs() {
				fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("grpoly_%d", i)))
			}
			fmt.Fprint(b, ")\n")

		case model.GraphicCircle:
			fmt.Fprintf(b, "  (gr_circle (center %s %s) (end %s %s) (stroke (width %s) (type solid)) (fill %s) (layer %q)",
				f(gi.Center.X), f(gi.Center.Y), f(gi.Center.X+gi.Radius), f(gi.Center.Y),
				f(gi.Width), yesNo(gi.Fill), gi.Layer)
			if w.hasUUIDs() {
				fmt.Fprintf(b, " (uuid %s)", w.uuidFrom(fmt.Sprintf("grcircle_%d", i)))
			}
			fmt.Fprint(b, ")\n")
		}
	}
}

func f(v float64) string { return sexp.FormatFloat(v) }

func q(s string) string { return sexp.QuoteIfNeeded(s) }

func side(mirror bool, back, front string) string {
	if mirror {
		return back
	}
	return front
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "none"
}
