// Package ipc2581 reads IPC-2581 B XML designs into the shared PCB model.
// Coordinates are converted to millimeters in the KiCad convention (Y down)
// at parse time.
package ipc2581

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"ipc2kicad/pkg/model"
)

// Options controls which step is converted and how chatty the parser is.
type Options struct {
	// StepName selects the Step element to convert; empty means the first.
	StepName string

	// Logger receives progress and skip diagnostics. Nil means silent.
	Logger *log.Logger
}

// Parser converts one IPC-2581 document into a model.PCB.
type Parser struct {
	opts      Options
	logger    *log.Logger
	unitScale float64 // multiplier to mm
	warnings  []string
}

// New creates a parser with the given options.
func New(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Parser{opts: opts, logger: logger, unitScale: 1.0}
}

// Warnings returns the recoverable oddities collected during the last parse.
func (p *Parser) Warnings() []string { return p.warnings }

// ParseFile reads and converts an IPC-2581 file.
func (p *Parser) ParseFile(path string) (*model.PCB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse converts an IPC-2581 document read from r.
func (p *Parser) Parse(r io.Reader) (*model.PCB, error) {
	var root node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse XML: %w", err)
	}
	if root.name() != "IPC-2581" {
		return nil, fmt.Errorf("not an IPC-2581 file: root element is <%s>", root.name())
	}

	p.logger.Debug("parsing IPC-2581 document", "revision", root.attr("revision", "unknown"))

	pcb := model.NewPCB()

	if content := root.child("Content"); content != nil {
		p.parseDictionaries(content, pcb)
	}

	p.parseNets(&root, pcb)

	ecad := root.child("Ecad")
	if ecad == nil {
		return nil, fmt.Errorf("no <Ecad> section found")
	}
	if header := ecad.child("CadHeader"); header != nil {
		p.parseUnits(header)
	}

	cadData := ecad.child("CadData")
	if cadData == nil {
		return nil, fmt.Errorf("no <CadData> section found")
	}

	p.parseLayers(cadData, pcb)
	p.parseStackup(cadData, pcb)
	p.buildLayerMapping(pcb)

	step := p.findStep(cadData)
	if step == nil {
		if p.opts.StepName != "" {
			return nil, fmt.Errorf("no <Step> named %q found", p.opts.StepName)
		}
		return nil, fmt.Errorf("no <Step> found")
	}
	p.logger.Debug("converting step", "name", step.attr("name", "unnamed"))

	p.parseProfile(step, pcb)
	p.parsePackages(step, pcb)
	p.parseComponents(step, &root, pcb)
	p.parseLayerFeatures(step, pcb)

	model.SortComponents(pcb.Components)

	p.logger.Info("parse complete",
		"components", len(pcb.Components),
		"traces", len(pcb.Traces),
		"vias", len(pcb.Vias),
		"nets", len(pcb.Nets))

	return pcb, nil
}

// ListSteps returns the step names present in an IPC-2581 file.
func ListSteps(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var root node
	if err := xml.NewDecoder(f).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse XML: %w", err)
	}

	var steps []string
	ecad := root.child("Ecad")
	if ecad == nil {
		return nil, nil
	}
	cadData := ecad.child("CadData")
	if cadData == nil {
		return nil, nil
	}
	for _, step := range cadData.children("Step") {
		steps = append(steps, step.attr("name", "unnamed"))
	}
	return steps, nil
}

func (p *Parser) findStep(cadData *node) *node {
	if p.opts.StepName == "" {
		return cadData.child("Step")
	}
	for _, s := range cadData.children("Step") {
		if s.attr("name", "") == p.opts.StepName {
			return s
		}
	}
	return nil
}

func (p *Parser) parseUnits(header *node) {
	units := strings.ToUpper(header.attr("units", "MM"))
	p.unitScale = unitToMM(units)
	p.logger.Debug("units", "mode", units, "scale", p.unitScale)
}

// unitToMM returns the multiplier converting the IPC unit mode to mm.
func unitToMM(unit string) float64 {
	switch unit {
	case "MM", "MILLIMETER":
		return 1.0
	case "INCH":
		return 25.4
	case "MIL", "THOU":
		return 0.0254
	case "MICRON":
		return 0.001
	default:
		return 1.0
	}
}

func (p *Parser) mm(v float64) float64 { return v * p.unitScale }

// point reads x/y attributes, scales to mm, and flips into KiCad coordinates.
func (p *Parser) point(n *node, xAttr, yAttr string) model.Point {
	return model.FlipY(model.Point{
		X: p.mm(n.floatAttr(xAttr, 0)),
		Y: p.mm(n.floatAttr(yAttr, 0)),
	})
}

func (p *Parser) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.warnings = append(p.warnings, msg)
	p.logger.Warn(msg)
}
