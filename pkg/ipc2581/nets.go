package ipc2581

import "ipc2kicad/pkg/model"

// parseNets registers every net name before any feature references one.
// Net 0 is the unconnected net, seeded by model.NewPCB.
func (p *Parser) parseNets(root *node, pcb *model.PCB) {
	for _, netNode := range root.children("LogicalNet") {
		if name := netNode.attr("name", ""); name != "" {
			pcb.AddNet(name)
		}
	}

	// Some exporters only list nets inside the step's PhyNetGroup.
	if ecad := root.child("Ecad"); ecad != nil {
		if cadData := ecad.child("CadData"); cadData != nil {
			for _, step := range cadData.children("Step") {
				for _, png := range step.children("PhyNetGroup") {
					for _, pn := range png.children("PhyNet") {
						if name := pn.attr("name", ""); name != "" {
							pcb.AddNet(name)
						}
					}
				}
			}
		}
	}

	p.logger.Debug("nets found", "count", len(pcb.Nets)-1)
}
