package ipc2581

import (
	"strconv"
	"strings"

	"ipc2kicad/pkg/model"
)

func isCopperFunction(fn string) bool {
	switch fn {
	case "SIGNAL", "POWER_GROUND", "POWER", "GROUND", "MIXED":
		return true
	}
	return false
}

func (p *Parser) parseLayers(cadData *node, pcb *model.PCB) {
	for _, layerNode := range cadData.children("Layer") {
		pcb.Layers = append(pcb.Layers, model.LayerDef{
			IPCName:     layerNode.attr("name", ""),
			IPCFunction: layerNode.attr("layerFunction", ""),
			IPCSide:     layerNode.attr("side", ""),
			CopperOrder: -1,
		})
	}
	p.logger.Debug("layers found", "count", len(pcb.Layers))
}

// buildLayerMapping assigns KiCad layer names and IDs once all layers are
// known: copper layers order top to bottom, everything else maps by function
// and side.
func (p *Parser) buildLayerMapping(pcb *model.PCB) {
	copperCount := 0
	for i := range pcb.Layers {
		if isCopperFunction(strings.ToUpper(pcb.Layers[i].IPCFunction)) {
			pcb.Layers[i].CopperOrder = copperCount
			copperCount++
		}
	}

	for i := range pcb.Layers {
		l := &pcb.Layers[i]
		fn := strings.ToUpper(l.IPCFunction)
		side := strings.ToUpper(l.IPCSide)

		if side == "" && l.CopperOrder >= 0 {
			switch {
			case l.CopperOrder == 0:
				side = "TOP"
			case l.CopperOrder == copperCount-1:
				side = "BOTTOM"
			default:
				side = "INTERNAL"
			}
		}

		top := side == "TOP" || side == ""

		switch {
		case l.CopperOrder >= 0:
			l.Type = "signal"
			switch {
			case l.CopperOrder == 0:
				l.KicadName, l.KicadID = "F.Cu", 0
			case l.CopperOrder == copperCount-1:
				l.KicadName, l.KicadID = "B.Cu", 31
			default:
				l.KicadName = "In" + strconv.Itoa(l.CopperOrder) + ".Cu"
				l.KicadID = l.CopperOrder
			}

		case fn == "SOLDERMASK" || fn == "SOLDER_MASK":
			l.Type = "user"
			if top {
				l.KicadName, l.KicadID = "F.Mask", 39
			} else {
				l.KicadName, l.KicadID = "B.Mask", 38
			}

		case fn == "PASTEMASK" || fn == "SOLDER_PASTE" || fn == "SOLDERPASTE":
			l.Type = "user"
			if top {
				l.KicadName, l.KicadID = "F.Paste", 37
			} else {
				l.KicadName, l.KicadID = "B.Paste", 36
			}

		case fn == "SILKSCREEN" || fn == "SILK_SCREEN":
			l.Type = "user"
			if top {
				l.KicadName, l.KicadID = "F.SilkS", 37
			} else {
				l.KicadName, l.KicadID = "B.SilkS", 36
			}

		case fn == "ASSEMBLY" || fn == "ASSEMBLY_DRAWING":
			l.Type = "user"
			if top {
				l.KicadName, l.KicadID = "F.Fab", 49
			} else {
				l.KicadName, l.KicadID = "B.Fab", 48
			}

		case fn == "BOARD_OUTLINE" || fn == "ROUT" || fn == "ROUTE":
			l.Type = "user"
			l.KicadName, l.KicadID = "Edge.Cuts", 44

		case fn == "DRILL" || fn == "DRILL_FIGURE" || fn == "DRILL_DRAWING":
			// Drills are handled through padstacks, not as a drawing layer.
			l.Type = "user"
			l.KicadName = ""

		default:
			l.Type = "user"
			l.KicadName, l.KicadID = "Cmts.User", 46
		}

		if l.IPCName != "" && l.KicadName != "" {
			pcb.IPCLayerToKicad[l.IPCName] = l.KicadName
		}
	}

	p.logger.Debug("layer mapping built",
		"copper", copperCount, "mapped", len(pcb.IPCLayerToKicad))
}

func (p *Parser) parseStackup(cadData *node, pcb *model.PCB) {
	stackupNode := cadData.child("Stackup")
	if stackupNode == nil {
		for _, step := range cadData.children("Step") {
			if stackupNode = step.child("Stackup"); stackupNode != nil {
				break
			}
		}
	}
	if stackupNode == nil {
		pcb.Stackup.BoardThickness = 1.6
		p.logger.Debug("no stackup information, using defaults")
		return
	}

	totalThickness := 0.0
	for _, group := range stackupNode.children("StackupGroup") {
		for _, layerNode := range group.children("StackupLayer") {
			sl := model.StackupLayer{
				Name:         layerNode.attr("layerOrGroupRef", ""),
				Thickness:    p.mm(layerNode.floatAttr("thickness", 0)),
				Material:     layerNode.attr("material", ""),
				EpsilonR:     4.5,
				KicadLayerID: -1,
			}

			for _, ldef := range pcb.Layers {
				if ldef.IPCName != sl.Name {
					continue
				}
				fn := strings.ToUpper(ldef.IPCFunction)
				switch {
				case isCopperFunction(fn):
					sl.Type = "copper"
					sl.KicadLayerID = ldef.KicadID
				case fn == "SOLDERMASK" || fn == "SOLDER_MASK":
					sl.Type = "soldermask"
				case fn == "SILKSCREEN" || fn == "SILK_SCREEN":
					sl.Type = "silkscreen"
				default:
					sl.Type = "dielectric"
				}
				break
			}
			if sl.Type == "" {
				sl.Type = "dielectric"
			}

			if d := layerNode.child("Dielectric"); d != nil {
				sl.EpsilonR = d.floatAttr("epsilonR", 4.5)
				sl.Material = d.attr("material", sl.Material)
			}

			totalThickness += sl.Thickness
			pcb.Stackup.Layers = append(pcb.Stackup.Layers, sl)
		}
	}

	pcb.Stackup.BoardThickness = 1.6
	if totalThickness > 0 {
		pcb.Stackup.BoardThickness = totalThickness
	}

	p.logger.Debug("stackup",
		"layers", len(pcb.Stackup.Layers),
		"thickness_mm", pcb.Stackup.BoardThickness)
}
