// Package schematic synthesizes a .kicad_sch sheet from the board model.
// The board carries no schematic, so the layout is derived from the netlist:
// the most connected component becomes a hub, series chains of 2-pin parts
// are extracted from its nets and placed as rows with T-branches, and
// whatever remains falls into a grid. Power pins get power-port symbols or
// net labels instead of wires.
package schematic

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"ipc2kicad/pkg/kicad/sexp"
	"ipc2kicad/pkg/kicad/sexp/kicadsexp"
	"ipc2kicad/pkg/model"
)

// Options configures the schematic writer.
type Options struct {
	// Paper forces a sheet size ("A4", "A3", "A2"); empty selects by
	// component count.
	Paper string
	// UseLibSymbols maps common footprints onto stock KiCad library
	// symbols instead of auto-generated boxes.
	UseLibSymbols bool
	// SymbolDir points at the .kicad_sym libraries; empty probes the
	// standard install locations.
	SymbolDir string
	// Project is the project name recorded in symbol instance paths.
	Project string
	Logger  *log.Logger
}

// powerPort is a power-symbol instance placed at the end of a wire stub.
type powerPort struct {
	NetName string
	LibID   string
	Refdes  string // "#PWR01" style
	X, Y    float64
	Angle   int
	UUID    string
	PinUUID string
}

// Writer builds and emits one schematic sheet.
type Writer struct {
	opts      Options
	logger    *log.Logger
	sheetUUID string
	symDir    string

	symbolDefs  map[string]*symbolDef
	symbolOrder []string // footprint names, sorted
	instances   []*symbolInstance

	libCache        map[string]*kicadsexp.List
	powerSymbolDefs map[string]string // lib id -> symbol text

	chainTrees    []chainTree
	wireSegments  []wireSeg
	junctions     []xy
	placed        map[int]bool
	netComponents map[string][]pinRef
	powerPorts    []powerPort
}

// New creates a schematic writer.
func New(opts Options) *Writer {
	if opts.Project == "" {
		opts.Project = "ipc2kicad"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Writer{
		opts:            opts,
		logger:          logger,
		sheetUUID:       sexp.SeededUUID("schematic_sheet_root"),
		libCache:        make(map[string]*kicadsexp.List),
		powerSymbolDefs: make(map[string]string),
	}
}

// WriteFile writes the schematic to a file path.
func (w *Writer) WriteFile(path string, pcb *model.PCB) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := w.Write(f, pcb); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write synthesizes the schematic and emits it to out.
func (w *Writer) Write(out io.Writer, pcb *model.PCB) error {
	w.buildSymbolDefs(pcb)
	w.layoutComponents(pcb)
	w.loadPowerSymbols()

	paper := w.opts.Paper
	if paper == "" {
		paper = selectPaper(len(w.instances))
	}

	b := bufio.NewWriter(out)
	w.writeHeader(b, paper)
	w.writeLibSymbols(b)
	fmt.Fprint(b, "\n")
	w.writeWiresAndLabels(b)
	fmt.Fprint(b, "\n")
	w.writeSymbolInstances(b)
	fmt.Fprint(b, "\n")
	w.writeSheetInstances(b)
	fmt.Fprint(b, ")\n")

	if err := b.Flush(); err != nil {
		return fmt.Errorf("write schematic: %w", err)
	}
	w.logger.Info("wrote schematic",
		"symbols", len(w.instances), "footprints", len(w.symbolDefs))
	return nil
}

// loadPowerSymbols pulls the power-library symbol for every power net the
// design references, once per net, so lib_symbols can embed them.
func (w *Writer) loadPowerSymbols() {
	if !w.opts.UseLibSymbols || w.symDir == "" {
		return
	}
	seen := make(map[string]bool)
	for _, inst := range w.instances {
		for _, pin := range sortedPins(inst.Comp.PinNetMap) {
			net := inst.Comp.PinNetMap[pin]
			if net == "" || net == "No Net" || !IsPowerNet(net) {
				continue
			}
			if seen[net] {
				continue
			}
			seen[net] = true

			libID := "power:" + powerSymbolName(net)
			if _, ok := w.powerSymbolDefs[libID]; ok {
				continue
			}
			text := w.loadLibrarySymbol(w.symDir+"/power.kicad_sym", powerSymbolName(net), libID)
			if text != "" {
				w.powerSymbolDefs[libID] = text
				w.logger.Debug("loaded power symbol", "lib_id", libID)
			}
		}
	}
}

// selectPaper sizes the sheet by symbol count.
func selectPaper(count int) string {
	switch {
	case count <= 15:
		return "A4"
	case count <= 60:
		return "A3"
	default:
		return "A2"
	}
}
