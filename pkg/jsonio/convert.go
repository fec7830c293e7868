package jsonio

import "ipc2kicad/pkg/model"

func toDTO(pcb *model.PCB) *documentDTO {
	doc := &documentDTO{
		Footprints: make(map[string]footprintDTO, len(pcb.FootprintDefs)),
	}

	for _, s := range pcb.Outline {
		doc.Outline.Segments = append(doc.Outline.Segments, segmentDTO{
			Start: point(s.Start), End: point(s.End), Width: s.Width,
		})
	}
	for _, a := range pcb.OutlineArcs {
		doc.Outline.Arcs = append(doc.Outline.Arcs, arcDTO{
			Start: point(a.Start), Mid: point(a.Mid), End: point(a.End), Width: a.Width,
		})
	}

	for _, l := range pcb.Layers {
		doc.Layers = append(doc.Layers, layerDTO{
			KicadID: l.KicadID, KicadName: l.KicadName, Type: l.Type,
			IPCName: l.IPCName, IPCFunction: l.IPCFunction, IPCSide: l.IPCSide,
			CopperOrder: l.CopperOrder,
		})
	}

	for _, n := range pcb.Nets {
		doc.Nets = append(doc.Nets, netDTO{ID: n.ID, Name: n.Name})
	}

	doc.Stackup.BoardThickness = pcb.Stackup.BoardThickness
	for _, sl := range pcb.Stackup.Layers {
		doc.Stackup.Layers = append(doc.Stackup.Layers, stackupLayerDTO{
			Name: sl.Name, Type: sl.Type, Thickness: sl.Thickness,
			Material: sl.Material, EpsilonR: sl.EpsilonR, KicadLayerID: sl.KicadLayerID,
		})
	}

	for name, fp := range pcb.FootprintDefs {
		dto := footprintDTO{Name: fp.Name, Origin: point(fp.Origin)}
		for _, pad := range fp.Pads {
			dto.Pads = append(dto.Pads, padDTO{
				Name:           pad.Name,
				Shape:          padShapeNames[pad.Shape],
				Width:          pad.Width,
				Height:         pad.Height,
				DrillDiameter:  pad.DrillDiameter,
				Offset:         point(pad.Offset),
				RoundRectRatio: pad.RoundRectRatio,
				Type:           padTypeNames[pad.Type],
				LayerSide:      pad.LayerSide,
				Rotation:       pad.Rotation,
				CustomShape:    pts(pad.CustomShape),
			})
		}
		for _, gi := range fp.Graphics {
			dto.Graphics = append(dto.Graphics, toGraphicDTO(gi))
		}
		doc.Footprints[name] = dto
	}

	for _, c := range pcb.Components {
		doc.Components = append(doc.Components, componentDTO{
			Refdes:       c.Refdes,
			FootprintRef: c.FootprintRef,
			Value:        c.Value,
			Description:  c.Description,
			PartNumber:   c.PartNumber,
			Position:     point(c.Position),
			Rotation:     c.Rotation,
			Mirror:       c.Mirror,
			PinNetMap:    c.PinNetMap,
		})
	}

	for _, t := range pcb.Traces {
		doc.Traces = append(doc.Traces, traceDTO{
			Start: point(t.Start), End: point(t.End),
			Width: t.Width, Layer: t.Layer, NetID: t.NetID,
		})
	}
	for _, a := range pcb.TraceArcs {
		doc.TraceArcs = append(doc.TraceArcs, traceArcDTO{
			Start: point(a.Start), Mid: point(a.Mid), End: point(a.End),
			Width: a.Width, Layer: a.Layer, NetID: a.NetID,
		})
	}
	for _, v := range pcb.Vias {
		doc.Vias = append(doc.Vias, viaDTO{
			Position: point(v.Position), Diameter: v.Diameter, Drill: v.Drill,
			StartLayer: v.StartLayer, EndLayer: v.EndLayer, NetID: v.NetID,
		})
	}
	for _, z := range pcb.Zones {
		zdto := zoneDTO{
			Layer: z.Layer, NetID: z.NetID, NetName: z.NetName,
			MinThickness: z.MinThickness, Clearance: z.Clearance,
			Outline: pts(z.Outline),
		}
		for _, hole := range z.Holes {
			zdto.Holes = append(zdto.Holes, pts(hole))
		}
		doc.Zones = append(doc.Zones, zdto)
	}
	for _, gi := range pcb.Graphics {
		doc.Graphics = append(doc.Graphics, toGraphicDTO(gi))
	}

	return doc
}

func toGraphicDTO(gi model.GraphicItem) graphicDTO {
	return graphicDTO{
		Kind:          graphicKindNames[gi.Kind],
		Start:         point(gi.Start),
		End:           point(gi.End),
		Center:        point(gi.Center),
		Radius:        gi.Radius,
		Width:         gi.Width,
		Layer:         gi.Layer,
		Fill:          gi.Fill,
		SweepAngle:    gi.SweepAngle,
		Points:        pts(gi.Points),
		Text:          gi.Text,
		TextSize:      gi.TextSize,
		TextThickness: gi.TextThickness,
	}
}

func fromDTO(doc *documentDTO) *model.PCB {
	pcb := model.NewPCB()
	pcb.Nets = nil
	pcb.NetNameToID = make(map[string]int)

	for _, s := range doc.Outline.Segments {
		pcb.Outline = append(pcb.Outline, model.Segment{
			Start: model.Point(s.Start), End: model.Point(s.End),
			Width: s.Width, Layer: "Edge.Cuts",
		})
	}
	for _, a := range doc.Outline.Arcs {
		pcb.OutlineArcs = append(pcb.OutlineArcs, model.Arc{
			Start: model.Point(a.Start), Mid: model.Point(a.Mid), End: model.Point(a.End),
			Width: a.Width, Layer: "Edge.Cuts",
		})
	}

	for _, l := range doc.Layers {
		pcb.Layers = append(pcb.Layers, model.LayerDef{
			KicadID: l.KicadID, KicadName: l.KicadName, Type: l.Type,
			IPCName: l.IPCName, IPCFunction: l.IPCFunction, IPCSide: l.IPCSide,
			CopperOrder: l.CopperOrder,
		})
		if l.IPCName != "" && l.KicadName != "" {
			pcb.IPCLayerToKicad[l.IPCName] = l.KicadName
		}
	}

	for _, n := range doc.Nets {
		pcb.Nets = append(pcb.Nets, model.NetDef{ID: n.ID, Name: n.Name})
		pcb.NetNameToID[n.Name] = n.ID
	}

	pcb.Stackup.BoardThickness = doc.Stackup.BoardThickness
	for _, sl := range doc.Stackup.Layers {
		pcb.Stackup.Layers = append(pcb.Stackup.Layers, model.StackupLayer{
			Name: sl.Name, Type: sl.Type, Thickness: sl.Thickness,
			Material: sl.Material, EpsilonR: sl.EpsilonR, KicadLayerID: sl.KicadLayerID,
		})
	}

	for name, dto := range doc.Footprints {
		fp := &model.Footprint{
			Name:         dto.Name,
			Origin:       model.Point(dto.Origin),
			PadToPadtack: make(map[string]string),
		}
		for _, pad := range dto.Pads {
			fp.Pads = append(fp.Pads, model.PadDef{
				Name:           pad.Name,
				Shape:          padShapeValues[pad.Shape],
				Width:          pad.Width,
				Height:         pad.Height,
				DrillDiameter:  pad.DrillDiameter,
				Offset:         model.Point(pad.Offset),
				RoundRectRatio: pad.RoundRectRatio,
				Type:           padTypeValues[pad.Type],
				LayerSide:      pad.LayerSide,
				Rotation:       pad.Rotation,
				CustomShape:    unpts(pad.CustomShape),
			})
		}
		for _, gi := range dto.Graphics {
			fp.Graphics = append(fp.Graphics, fromGraphicDTO(gi))
		}
		pcb.FootprintDefs[name] = fp
	}

	for _, c := range doc.Components {
		pinNets := c.PinNetMap
		if pinNets == nil {
			pinNets = make(map[string]string)
		}
		pcb.Components = append(pcb.Components, model.ComponentInstance{
			Refdes:         c.Refdes,
			FootprintRef:   c.FootprintRef,
			Value:          c.Value,
			Description:    c.Description,
			PartNumber:     c.PartNumber,
			Position:       model.Point(c.Position),
			Rotation:       c.Rotation,
			Mirror:         c.Mirror,
			PinNetMap:      pinNets,
			PinRotationMap: make(map[string]float64),
		})
	}
	model.SortComponents(pcb.Components)

	for _, t := range doc.Traces {
		pcb.Traces = append(pcb.Traces, model.TraceSegment{
			Start: model.Point(t.Start), End: model.Point(t.End),
			Width: t.Width, Layer: t.Layer, NetID: t.NetID,
		})
	}
	for _, a := range doc.TraceArcs {
		pcb.TraceArcs = append(pcb.TraceArcs, model.TraceArc{
			Start: model.Point(a.Start), Mid: model.Point(a.Mid), End: model.Point(a.End),
			Width: a.Width, Layer: a.Layer, NetID: a.NetID,
		})
	}
	for _, v := range doc.Vias {
		pcb.Vias = append(pcb.Vias, model.Via{
			Position: model.Point(v.Position), Diameter: v.Diameter, Drill: v.Drill,
			StartLayer: v.StartLayer, EndLayer: v.EndLayer, NetID: v.NetID,
		})
	}
	for _, z := range doc.Zones {
		zone := model.Zone{
			Layer: z.Layer, NetID: z.NetID, NetName: z.NetName,
			MinThickness: z.MinThickness, Clearance: z.Clearance,
			Outline: unpts(z.Outline),
		}
		for _, hole := range z.Holes {
			zone.Holes = append(zone.Holes, unpts(hole))
		}
		pcb.Zones = append(pcb.Zones, zone)
	}
	for _, gi := range doc.Graphics {
		pcb.Graphics = append(pcb.Graphics, fromGraphicDTO(gi))
	}

	return pcb
}

func fromGraphicDTO(gi graphicDTO) model.GraphicItem {
	return model.GraphicItem{
		Kind:          graphicKindValues[gi.Kind],
		Start:         model.Point(gi.Start),
		End:           model.Point(gi.End),
		Center:        model.Point(gi.Center),
		Radius:        gi.Radius,
		Width:         gi.Width,
		Layer:         gi.Layer,
		Fill:          gi.Fill,
		SweepAngle:    gi.SweepAngle,
		Points:        unpts(gi.Points),
		Text:          gi.Text,
		TextSize:      gi.TextSize,
		TextThickness: gi.TextThickness,
	}
}
