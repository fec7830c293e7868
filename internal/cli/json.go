package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ipc2kicad/pkg/jsonio"
	"ipc2kicad/pkg/kicad/board"
)

var (
	jsonExportOutput string
	jsonExportStep   string
	jsonImportOutput string
	jsonImportVer    int
)

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Model JSON export and import",
	Long: `Cache the converted model as JSON, or build KiCad outputs from a
cached model without re-parsing the XML.`,
}

var jsonExportCmd = &cobra.Command{
	Use:   "export <input.xml>",
	Short: "Export the converted model as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pcb, err := parseInput(args[0], jsonExportStep)
		if err != nil {
			return err
		}
		output := jsonExportOutput
		if output == "" {
			output = replaceExt(args[0], ".json")
		}
		if err := jsonio.ExportFile(output, pcb); err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	},
}

var jsonImportCmd = &cobra.Command{
	Use:   "import <model.json>",
	Short: "Write a KiCad board from a cached JSON model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pcb, err := jsonio.ImportFile(args[0])
		if err != nil {
			return err
		}
		if jsonImportVer != 7 && jsonImportVer != 8 {
			return fmt.Errorf("unsupported KiCad version %d (want 7 or 8)", jsonImportVer)
		}
		output := jsonImportOutput
		if output == "" {
			output = replaceExt(args[0], ".kicad_pcb")
		}
		w := board.New(board.Options{Version: board.Version(jsonImportVer), Logger: logger})
		if err := w.WriteFile(output, pcb); err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jsonCmd)
	jsonCmd.AddCommand(jsonExportCmd)
	jsonCmd.AddCommand(jsonImportCmd)

	jsonExportCmd.Flags().StringVarP(&jsonExportOutput, "output", "o", "", "output JSON file (default: input name with .json)")
	jsonExportCmd.Flags().StringVar(&jsonExportStep, "step", "", "step name to convert (default: first step)")
	jsonImportCmd.Flags().StringVarP(&jsonImportOutput, "output", "o", "", "output board file (default: input name with .kicad_pcb)")
	jsonImportCmd.Flags().IntVar(&jsonImportVer, "kicad-version", 8, "KiCad format generation (7 or 8)")
}
