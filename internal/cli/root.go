// Package cli implements the ipc2kicad command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger  *log.Logger
	profile Profile
)

var rootCmd = &cobra.Command{
	Use:   "ipc2kicad",
	Short: "IPC-2581 to KiCad converter",
	Long: `ipc2kicad converts IPC-2581 B design files into KiCad projects:
  - .kicad_pcb board files (KiCad 7 or 8 format)
  - .kicad_sch schematics synthesized from the netlist
  - .kicad_pro project files tying the two together

Examples:
  ipc2kicad convert board.xml                   # Write board.kicad_pcb
  ipc2kicad convert board.xml --project --schematic
  ipc2kicad sch board.xml --use-lib-symbols     # Schematic only
  ipc2kicad json export board.xml -o model.json
  ipc2kicad info board.xml                      # Design summary`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		if configPath != "" {
			p, err := LoadProfile(configPath)
			if err != nil {
				return err
			}
			profile = p
			logger.Debug("loaded profile", "path", configPath)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML profile with conversion presets")
}
