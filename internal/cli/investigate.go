package cli

import (
	"fmt"
	"os"

	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"
)

var investigateCmd = &cobra.Command{
	Use:   "investigate <file>",
	Short: "Raw s-expression diagnostics for a KiCad file",
	Long: `Parse a KiCad s-expression file (.kicad_pcb, .kicad_sch, .kicad_sym)
with a generic reader and report its structure. Useful for checking what a
foreign tool emitted, or what this one did.`,
	Args: cobra.ExactArgs(1),
	RunE: runInvestigate,
}

func init() {
	rootCmd.AddCommand(investigateCmd)
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	fmt.Printf("File: %s (%d bytes)\n", args[0], info.Size())

	exprs, err := sexp.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	fmt.Printf("Top-level expressions: %d\n", len(exprs))

	for i, s := range exprs {
		if i >= 5 {
			fmt.Printf("... %d more\n", len(exprs)-i)
			break
		}
		if s.IsLeaf() {
			fmt.Printf("  [%d] leaf: %v\n", i, s)
			continue
		}
		fmt.Printf("  [%d] list with %d leaves\n", i, s.LeafCount())
	}
	return nil
}
