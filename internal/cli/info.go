package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ipc2kicad/pkg/model"
)

var infoStep string

var infoCmd = &cobra.Command{
	Use:   "info <input.xml>",
	Short: "Show a summary of an IPC-2581 design",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringVar(&infoStep, "step", "", "step name to inspect (default: first step)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	pcb, err := parseInput(args[0], infoStep)
	if err != nil {
		return err
	}

	fmt.Printf("Design: %s\n", args[0])
	fmt.Printf("Layers: %d (%d copper)\n", len(pcb.Layers), countCopper(pcb.Layers))
	// Net 0 is the unconnected net.
	fmt.Printf("Nets: %d\n", len(pcb.Nets)-1)
	fmt.Printf("Footprints: %d\n", len(pcb.FootprintDefs))
	fmt.Printf("Components: %d\n", len(pcb.Components))
	fmt.Printf("Traces: %d segments, %d arcs\n", len(pcb.Traces), len(pcb.TraceArcs))
	fmt.Printf("Vias: %d\n", len(pcb.Vias))
	fmt.Printf("Zones: %d\n", len(pcb.Zones))
	fmt.Printf("Outline: %d segments, %d arcs\n", len(pcb.Outline), len(pcb.OutlineArcs))
	if pcb.Stackup.BoardThickness > 0 {
		fmt.Printf("Board thickness: %.3f mm\n", pcb.Stackup.BoardThickness)
	}
	return nil
}

func countCopper(layers []model.LayerDef) int {
	n := 0
	for _, l := range layers {
		if l.Type == "signal" {
			n++
		}
	}
	return n
}
