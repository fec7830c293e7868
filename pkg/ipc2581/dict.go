package ipc2581

import "ipc2kicad/pkg/model"

// parseDictionaries collects padstack shape definitions from the Content
// section. Standard, user, and plain Dictionary variants all occur in the
// wild.
func (p *Parser) parseDictionaries(content *node, pcb *model.PCB) {
	for _, dict := range content.children("DictionaryStandard") {
		for _, entry := range dict.children("EntryStandard") {
			p.parseDictionaryEntry(entry, pcb)
		}
	}
	for _, dict := range content.children("DictionaryUser") {
		for _, entry := range dict.children("EntryUser") {
			p.parseDictionaryEntry(entry, pcb)
		}
	}
	for _, dict := range content.children("Dictionary") {
		for _, entry := range dict.children("Entry") {
			p.parseDictionaryEntry(entry, pcb)
		}
	}

	p.logger.Debug("padstack definitions", "count", len(pcb.PadstackDefs))
}

func (p *Parser) parseDictionaryEntry(entry *node, pcb *model.PCB) {
	id := entry.attr("id", "")
	if id == "" {
		return
	}

	ps := &model.PadStackDef{Name: id, Plated: true}

	for i := range entry.Nodes {
		feature := &entry.Nodes[i]
		switch feature.name() {
		case "Circle":
			d := p.mm(feature.floatAttr("diameter", 0))
			ps.Pads = append(ps.Pads, model.PadDef{
				Name:  id,
				Shape: model.PadCircle,
				Width: d, Height: d,
			})

		case "RectCenter":
			ps.Pads = append(ps.Pads, model.PadDef{
				Name:   id,
				Shape:  model.PadRect,
				Width:  p.mm(feature.floatAttr("width", 0)),
				Height: p.mm(feature.floatAttr("height", 0)),
			})

		case "RectRound":
			ps.Pads = append(ps.Pads, model.PadDef{
				Name:           id,
				Shape:          model.PadRoundRect,
				Width:          p.mm(feature.floatAttr("width", 0)),
				Height:         p.mm(feature.floatAttr("height", 0)),
				RoundRectRatio: 0.25,
			})

		case "Oval":
			ps.Pads = append(ps.Pads, model.PadDef{
				Name:   id,
				Shape:  model.PadOval,
				Width:  p.mm(feature.floatAttr("width", 0)),
				Height: p.mm(feature.floatAttr("height", 0)),
			})

		case "Contour", "Polygon":
			pad := model.PadDef{Name: id, Shape: model.PadCustom}
			for _, pt := range parsePolygon(feature) {
				pad.CustomShape = append(pad.CustomShape,
					model.Point{X: p.mm(pt.X), Y: p.mm(pt.Y)})
			}
			if len(pad.CustomShape) > 0 {
				minX, maxX := pad.CustomShape[0].X, pad.CustomShape[0].X
				minY, maxY := pad.CustomShape[0].Y, pad.CustomShape[0].Y
				for _, pt := range pad.CustomShape[1:] {
					minX, maxX = min(minX, pt.X), max(maxX, pt.X)
					minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
				}
				pad.Width = maxX - minX
				pad.Height = maxY - minY
			}
			ps.Pads = append(ps.Pads, pad)

		case "Drill", "DrillHole":
			ps.DrillDiameter = p.mm(feature.floatAttr("diameter", 0))
			ps.Plated = feature.boolAttr("plated", true)
		}
	}

	if len(ps.Pads) > 0 || ps.DrillDiameter > 0 {
		pcb.PadstackDefs[id] = ps
	}
}

// parsePolygon collects vertex points in raw file units; curves are
// approximated by their endpoints.
func parsePolygon(n *node) []model.Point {
	var pts []model.Point
	for i := range n.Nodes {
		child := &n.Nodes[i]
		switch child.name() {
		case "PolyBegin", "PolyStepSegment", "PolyStepCurve", "Point", "Vertex":
			pts = append(pts, model.Point{
				X: child.floatAttr("x", 0),
				Y: child.floatAttr("y", 0),
			})
		}
	}
	return pts
}
