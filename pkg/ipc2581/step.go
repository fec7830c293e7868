package ipc2581

import (
	"math"
	"strconv"
	"strings"

	"ipc2kicad/pkg/model"
)

// --- Profile (board outline) ---

func (p *Parser) parseProfile(step *node, pcb *model.PCB) {
	profile := step.child("Profile")
	if profile == nil {
		p.warn("no <Profile> found in step")
		return
	}

	for _, name := range []string{"Polygon", "Polyline"} {
		if poly := profile.child(name); poly != nil {
			p.parseContour(poly, &pcb.Outline, &pcb.OutlineArcs)
		}
	}
	for i := range pcb.Outline {
		pcb.Outline[i].Layer = "Edge.Cuts"
	}
	for i := range pcb.OutlineArcs {
		pcb.OutlineArcs[i].Layer = "Edge.Cuts"
	}

	if circle := profile.child("Circle"); circle != nil {
		center := p.point(circle, "centerX", "centerY")
		r := p.mm(circle.floatAttr("radius", 0))
		if r <= 0 {
			r = p.mm(circle.floatAttr("diameter", 0)) / 2.0
		}
		// Four quarter arcs make the circle.
		starts := []model.Point{
			{X: center.X + r, Y: center.Y},
			{X: center.X, Y: center.Y + r},
			{X: center.X - r, Y: center.Y},
			{X: center.X, Y: center.Y - r},
		}
		for _, s := range starts {
			pcb.OutlineArcs = append(pcb.OutlineArcs,
				model.ArcFromCenter(s, center, 90, 0.05, "Edge.Cuts"))
		}
	}

	p.logger.Debug("board outline",
		"segments", len(pcb.Outline), "arcs", len(pcb.OutlineArcs))
}

// parseContour walks PolyBegin/PolyStepSegment/PolyStepCurve/Line children,
// emitting thin outline segments and arcs in KiCad coordinates.
func (p *Parser) parseContour(contour *node, segs *[]model.Segment, arcs *[]model.Arc) {
	var last model.Point

	for i := range contour.Nodes {
		child := &contour.Nodes[i]
		switch child.name() {
		case "PolyBegin":
			last = p.point(child, "x", "y")

		case "PolyStepSegment":
			pt := p.point(child, "x", "y")
			*segs = append(*segs, model.Segment{Start: last, End: pt, Width: 0.05})
			last = pt

		case "PolyStepCurve":
			end := p.point(child, "x", "y")
			center := p.point(child, "centerX", "centerY")
			cw := child.boolAttr("clockwise", false)
			sweep := sweepAngle(last, end, center, cw)
			*arcs = append(*arcs,
				model.ArcFromCenter(last, center, model.RadToDeg(sweep), 0.05, ""))
			last = end

		case "Line":
			start := p.point(child, "startX", "startY")
			end := p.point(child, "endX", "endY")
			*segs = append(*segs, model.Segment{Start: start, End: end, Width: 0.05})
			last = end
		}
	}
}

// sweepAngle returns the signed sweep from start to end around center. The Y
// flip inverts the file's clockwise flag, so counter-clockwise in the file
// sweeps positive here.
func sweepAngle(start, end, center model.Point, clockwise bool) float64 {
	startAng := math.Atan2(start.Y-center.Y, start.X-center.X)
	endAng := math.Atan2(end.Y-center.Y, end.X-center.X)
	sweep := endAng - startAng
	if !clockwise {
		if sweep <= 0 {
			sweep += 2 * math.Pi
		}
	} else {
		if sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	}
	return sweep
}

// --- Packages (footprints) ---

func (p *Parser) parsePackages(step *node, pcb *model.PCB) {
	for _, pkg := range step.children("Package") {
		name := pkg.attr("name", "")
		if name == "" {
			continue
		}

		fp := &model.Footprint{
			Name:         name,
			PkgHeight:    p.mm(pkg.floatAttr("height", 0)),
			PadToPadtack: make(map[string]string),
		}

		padNum := 1
		for i := range pkg.Nodes {
			child := &pkg.Nodes[i]
			switch child.name() {
			case "Pin", "Pad":
				pad := model.PadDef{
					Name:     child.attr("number", strconv.Itoa(padNum)),
					Offset:   p.point(child, "x", "y"),
					Rotation: child.floatAttr("rotation", 0),
				}

				psRef := child.attr("padstackDefRef", "")
				if psRef == "" {
					psRef = child.attr("padRef", "")
				}

				if ps, ok := pcb.PadstackDefs[psRef]; psRef != "" && ok {
					if len(ps.Pads) > 0 {
						pad.Shape = ps.Pads[0].Shape
						pad.Width = ps.Pads[0].Width
						pad.Height = ps.Pads[0].Height
						pad.CustomShape = ps.Pads[0].CustomShape
						pad.RoundRectRatio = ps.Pads[0].RoundRectRatio
					}
					if ps.DrillDiameter > 0 {
						pad.DrillDiameter = ps.DrillDiameter
						pad.LayerSide = "ALL"
						pad.Type = model.PadThruHole
						if !ps.Plated {
							pad.Type = model.PadNPTH
						}
					} else {
						pad.Type = model.PadSMD
						pad.LayerSide = "TOP" // flipped per component
					}
					fp.PadToPadtack[pad.Name] = psRef
				} else {
					// No padstack reference, assume a small round SMD pad.
					pad.Shape = model.PadCircle
					pad.Width = p.mm(0.5)
					pad.Height = pad.Width
					pad.Type = model.PadSMD
					pad.LayerSide = "TOP"
				}

				fp.Pads = append(fp.Pads, pad)
				padNum++

			case "SilkScreen", "Outline", "Courtyard", "AssemblyDrawing":
				layer := "F.Fab"
				switch child.name() {
				case "SilkScreen":
					layer = "F.SilkS"
				case "Courtyard":
					layer = "F.CrtYd"
				}
				p.parsePackageGraphics(child, layer, fp)
			}
		}

		pcb.FootprintDefs[name] = fp
	}

	p.logger.Debug("package definitions", "count", len(pcb.FootprintDefs))
}

func (p *Parser) parsePackageGraphics(group *node, layer string, fp *model.Footprint) {
	for i := range group.Nodes {
		feat := &group.Nodes[i]
		switch feat.name() {
		case "Line":
			fp.Graphics = append(fp.Graphics, model.GraphicItem{
				Kind:  model.GraphicLine,
				Start: p.point(feat, "startX", "startY"),
				End:   p.point(feat, "endX", "endY"),
				Width: p.mm(feat.floatAttr("lineWidth", 0.1)),
				Layer: layer,
			})
		case "Arc":
			fp.Graphics = append(fp.Graphics, model.GraphicItem{
				Kind:   model.GraphicArc,
				Start:  p.point(feat, "startX", "startY"),
				End:    p.point(feat, "endX", "endY"),
				Center: p.point(feat, "centerX", "centerY"),
				Width:  p.mm(feat.floatAttr("lineWidth", 0.1)),
				Layer:  layer,
			})
		}
	}
}

// --- Components ---

func (p *Parser) parseComponents(step, root *node, pcb *model.PCB) {
	for _, comp := range step.children("Component") {
		ci := model.ComponentInstance{
			Refdes:         comp.attr("refDes", comp.attr("name", "")),
			FootprintRef:   comp.attr("packageRef", ""),
			Value:          comp.attr("value", ""),
			PinNetMap:      make(map[string]string),
			PinRotationMap: make(map[string]float64),
		}
		if ci.Refdes == "" {
			continue
		}

		xform := comp.child("Xform")
		if xform == nil {
			xform = comp.child("Location")
		}
		if xform != nil {
			ci.Position = p.point(xform, "x", "y")
			ci.Rotation = xform.floatAttr("rotation", 0)
			ci.Mirror = xform.boolAttr("mirror", false)
		}

		if layerRef := comp.attr("layerRef", ""); layerRef != "" {
			if pcb.KicadLayer(layerRef) == "B.Cu" {
				ci.Mirror = true
			}
		}

		// Inline pin nets (some exporters put them on the component).
		for _, pin := range comp.children("Pin") {
			pinName := pin.attr("number", "")
			netName := pin.attr("net", "")
			if pinName != "" && netName != "" {
				ci.PinNetMap[pinName] = netName
			}
		}

		pcb.Components = append(pcb.Components, ci)
	}

	// The authoritative pin-to-net map comes from LogicalNet/PinRef.
	for _, netNode := range root.children("LogicalNet") {
		netName := netNode.attr("name", "")
		for _, pinRef := range netNode.children("PinRef") {
			compRef := pinRef.attr("componentRef", "")
			pinNum := pinRef.attr("pin", "")
			if compRef == "" || pinNum == "" {
				continue
			}
			for i := range pcb.Components {
				if pcb.Components[i].Refdes == compRef {
					pcb.Components[i].PinNetMap[pinNum] = netName
					break
				}
			}
		}
	}

	p.logger.Debug("component instances", "count", len(pcb.Components))
}

// --- Layer features (routing, pours, graphics) ---

func (p *Parser) parseLayerFeatures(step *node, pcb *model.PCB) {
	for _, lf := range step.children("LayerFeature") {
		ipcLayer := lf.attr("layerRef", "")
		kicadLayer := pcb.KicadLayer(ipcLayer)
		if kicadLayer == "" {
			p.logger.Debug("skipping features on unmapped layer", "layer", ipcLayer)
			continue
		}
		copper := strings.Contains(kicadLayer, ".Cu")

		for _, setNode := range lf.children("Set") {
			netName := setNode.attr("net", "")
			netID := pcb.NetID(netName)
			if netID == 0 && netName != "" {
				netID = pcb.AddNet(netName)
			}

			for i := range setNode.Nodes {
				feat := &setNode.Nodes[i]
				switch feat.name() {
				case "Line":
					start := p.point(feat, "startX", "startY")
					end := p.point(feat, "endX", "endY")
					width := p.mm(feat.floatAttr("lineWidth", 0.25))
					if copper {
						pcb.Traces = append(pcb.Traces, model.TraceSegment{
							Start: start, End: end, Width: width,
							Layer: kicadLayer, NetID: netID,
						})
					} else {
						pcb.Graphics = append(pcb.Graphics, model.GraphicItem{
							Kind: model.GraphicLine,
							Start: start, End: end, Width: width,
							Layer: kicadLayer,
						})
					}

				case "Arc":
					start := p.point(feat, "startX", "startY")
					end := p.point(feat, "endX", "endY")
					center := p.point(feat, "centerX", "centerY")
					cw := feat.boolAttr("clockwise", false)
					width := p.mm(feat.floatAttr("lineWidth", 0.25))
					arc := model.ArcFromCenter(start, center,
						model.RadToDeg(sweepAngle(start, end, center, cw)),
						width, kicadLayer)
					if copper {
						pcb.TraceArcs = append(pcb.TraceArcs, model.TraceArc{
							Start: arc.Start, Mid: arc.Mid, End: arc.End,
							Width: width, Layer: kicadLayer, NetID: netID,
						})
					} else {
						pcb.Graphics = append(pcb.Graphics, model.GraphicItem{
							Kind:  model.GraphicArc,
							Start: arc.Start, Center: arc.Mid, End: arc.End,
							Width: width, Layer: kicadLayer,
						})
					}

				case "Pad", "PadRef":
					psRef := feat.attr("padstackDefRef", "")
					if psRef == "" {
						psRef = feat.attr("padRef", "")
					}
					pos := p.point(feat, "x", "y")
					if ps, ok := pcb.PadstackDefs[psRef]; psRef != "" && ok && ps.DrillDiameter > 0 {
						via := model.Via{
							Position:   pos,
							Drill:      ps.DrillDiameter,
							Diameter:   ps.DrillDiameter * 2.0,
							StartLayer: "F.Cu",
							EndLayer:   "B.Cu",
							NetID:      netID,
						}
						if len(ps.Pads) > 0 {
							via.Diameter = ps.Pads[0].Width
						}
						pcb.Vias = append(pcb.Vias, via)
					}

				case "Polygon", "Polyline", "Contour":
					pts := parsePolygon(feat)
					for j := range pts {
						pts[j] = model.FlipY(model.Point{X: p.mm(pts[j].X), Y: p.mm(pts[j].Y)})
					}
					if copper {
						if len(pts) > 0 {
							pcb.Zones = append(pcb.Zones, model.Zone{
								Layer:        kicadLayer,
								NetID:        netID,
								NetName:      netName,
								Outline:      pts,
								MinThickness: 0.25,
								Clearance:    0.5,
							})
						}
					} else {
						pcb.Graphics = append(pcb.Graphics, model.GraphicItem{
							Kind:   model.GraphicPolygon,
							Points: pts,
							Layer:  kicadLayer,
							Fill:   true,
						})
					}
				}
			}
		}
	}

	p.logger.Debug("layer features",
		"traces", len(pcb.Traces),
		"arcs", len(pcb.TraceArcs),
		"vias", len(pcb.Vias),
		"zones", len(pcb.Zones),
		"graphics", len(pcb.Graphics))
}
