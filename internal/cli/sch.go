package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ipc2kicad/pkg/jsonio"
	"ipc2kicad/pkg/kicad/schematic"
	"ipc2kicad/pkg/model"
)

var (
	schOutput        string
	schStep          string
	schUseLibSymbols bool
	schSymbolDir     string
	schPaper         string
)

var schCmd = &cobra.Command{
	Use:   "sch <input.xml|input.json>",
	Short: "Synthesize a KiCad schematic from the netlist",
	Long: `Synthesize a .kicad_sch schematic from an IPC-2581 file or from a
previously exported JSON model.

The board format has no schematic, so the sheet is derived from
connectivity: series chains of 2-pin components are arranged around the
most connected part, the rest falls into a grid.`,
	Args: cobra.ExactArgs(1),
	RunE: runSch,
}

func init() {
	rootCmd.AddCommand(schCmd)
	schCmd.Flags().StringVarP(&schOutput, "output", "o", "", "output schematic file (default: input name with .kicad_sch)")
	schCmd.Flags().StringVar(&schStep, "step", "", "step name to convert (default: first step)")
	schCmd.Flags().BoolVar(&schUseLibSymbols, "use-lib-symbols", false, "map common parts onto stock KiCad library symbols")
	schCmd.Flags().StringVar(&schSymbolDir, "symbol-dir", "", "directory with .kicad_sym libraries (default: auto-detect)")
	schCmd.Flags().StringVar(&schPaper, "paper", "", "paper size (A4, A3, A2; default: by component count)")
}

func runSch(cmd *cobra.Command, args []string) error {
	input := args[0]

	var (
		pcb *model.PCB
		err error
	)
	if strings.EqualFold(filepath.Ext(input), ".json") {
		pcb, err = jsonio.ImportFile(input)
	} else {
		pcb, err = parseInput(input, schStep)
	}
	if err != nil {
		return err
	}

	output := schOutput
	if output == "" {
		output = replaceExt(input, ".kicad_sch")
	}
	projectName := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))

	w := schematic.New(schematicOptions(cmd, projectName))
	if err := w.WriteFile(output, pcb); err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}

// schematicOptions merges schematic flags with the profile; explicit flags
// win. Commands without these flags (convert --schematic) fall through to
// the profile values.
func schematicOptions(cmd *cobra.Command, projectName string) schematic.Options {
	useLib := schUseLibSymbols
	symDir := schSymbolDir
	paper := schPaper
	if !cmd.Flags().Changed("use-lib-symbols") && profile.Schematic.UseLibSymbols {
		useLib = true
	}
	if !cmd.Flags().Changed("symbol-dir") && profile.Schematic.SymbolDir != "" {
		symDir = profile.Schematic.SymbolDir
	}
	if !cmd.Flags().Changed("paper") && profile.Schematic.Paper != "" {
		paper = profile.Schematic.Paper
	}
	return schematic.Options{
		Paper:         paper,
		UseLibSymbols: useLib,
		SymbolDir:     symDir,
		Project:       projectName,
		Logger:        logger,
	}
}
