package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ipc2kicad/pkg/ipc2581"
	"ipc2kicad/pkg/kicad/board"
	"ipc2kicad/pkg/kicad/project"
	"ipc2kicad/pkg/kicad/schematic"
	"ipc2kicad/pkg/model"
)

var (
	convertOutput    string
	convertVersion   int
	convertStep      string
	convertListSteps bool
	convertLayers    bool
	convertProject   bool
	convertSchematic bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.xml>",
	Short: "Convert an IPC-2581 design to a KiCad board",
	Long: `Convert an IPC-2581 B file to a .kicad_pcb board file.

With --project a .kicad_pro file is written next to the board, and with
--schematic a .kicad_sch schematic is synthesized from the netlist.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output board file (default: input name with .kicad_pcb)")
	convertCmd.Flags().IntVar(&convertVersion, "kicad-version", 8, "KiCad format generation (7 or 8)")
	convertCmd.Flags().StringVar(&convertStep, "step", "", "step name to convert (default: first step)")
	convertCmd.Flags().BoolVar(&convertListSteps, "list-steps", false, "list step names and exit")
	convertCmd.Flags().BoolVar(&convertLayers, "list-layers", false, "print the layer mapping after conversion")
	convertCmd.Flags().BoolVar(&convertProject, "project", false, "also write a .kicad_pro project file")
	convertCmd.Flags().BoolVar(&convertSchematic, "schematic", false, "also synthesize a .kicad_sch schematic")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	if convertListSteps {
		steps, err := ipc2581.ListSteps(input)
		if err != nil {
			return err
		}
		for _, s := range steps {
			fmt.Println(s)
		}
		return nil
	}

	if !cmd.Flags().Changed("kicad-version") && profile.Convert.KicadVersion != 0 {
		convertVersion = profile.Convert.KicadVersion
	}
	if !cmd.Flags().Changed("step") && profile.Convert.Step != "" {
		convertStep = profile.Convert.Step
	}
	if convertVersion != 7 && convertVersion != 8 {
		return fmt.Errorf("unsupported KiCad version %d (want 7 or 8)", convertVersion)
	}

	pcb, err := parseInput(input, convertStep)
	if err != nil {
		return err
	}

	output := convertOutput
	if output == "" {
		output = replaceExt(input, ".kicad_pcb")
	}

	w := board.New(board.Options{Version: board.Version(convertVersion), Logger: logger})
	if err := w.WriteFile(output, pcb); err != nil {
		return err
	}
	logger.Info("wrote board", "path", output)

	base := strings.TrimSuffix(output, filepath.Ext(output))
	projectName := filepath.Base(base)

	if convertProject {
		proPath := base + ".kicad_pro"
		if err := project.Write(proPath, projectName, pcb); err != nil {
			return err
		}
		logger.Info("wrote project", "path", proPath)
	}

	if convertSchematic {
		schPath := base + ".kicad_sch"
		sw := schematic.New(schematicOptions(cmd, projectName))
		if err := sw.WriteFile(schPath, pcb); err != nil {
			return err
		}
		logger.Info("wrote schematic", "path", schPath)
	}

	if convertLayers {
		printLayers(pcb)
	}
	return nil
}

// parseInput converts an IPC-2581 file, picking the named step.
func parseInput(path, step string) (*model.PCB, error) {
	p := ipc2581.New(ipc2581.Options{StepName: step, Logger: logger})
	pcb, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	for _, warning := range p.Warnings() {
		logger.Warn(warning)
	}
	return pcb, nil
}

func printLayers(pcb *model.PCB) {
	fmt.Printf("%-24s %-12s %s\n", "IPC LAYER", "KICAD", "TYPE")
	for _, l := range pcb.Layers {
		fmt.Printf("%-24s %-12s %s\n", l.IPCName, l.KicadName, l.Type)
	}
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
