// Package jsonio serializes the PCB model to the JSON document consumed by
// the external viewer pipeline, and reads the same document back so later
// stages can run without re-parsing XML.
package jsonio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ipc2kicad/pkg/model"
)

// point marshals as a [x,y] array, the form the viewer expects.
type point model.Point

func (p point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *point) UnmarshalJSON(data []byte) error {
	var arr [2]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

func pts(in []model.Point) []point {
	out := make([]point, len(in))
	for i, p := range in {
		out[i] = point(p)
	}
	return out
}

func unpts(in []point) []model.Point {
	out := make([]model.Point, len(in))
	for i, p := range in {
		out[i] = model.Point(p)
	}
	return out
}

type segmentDTO struct {
	Start point   `json:"start"`
	End   point   `json:"end"`
	Width float64 `json:"width"`
}

type arcDTO struct {
	Start point   `json:"start"`
	Mid   point   `json:"mid"`
	End   point   `json:"end"`
	Width float64 `json:"width"`
}

type outlineDTO struct {
	Segments []segmentDTO `json:"segments"`
	Arcs     []arcDTO     `json:"arcs"`
}

type layerDTO struct {
	KicadID     int    `json:"kicad_id"`
	KicadName   string `json:"kicad_name"`
	Type        string `json:"type"`
	IPCName     string `json:"ipc_name"`
	IPCFunction string `json:"ipc_function"`
	IPCSide     string `json:"ipc_side"`
	CopperOrder int    `json:"copper_order"`
}

type netDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type stackupLayerDTO struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Thickness    float64 `json:"thickness"`
	Material     string  `json:"material"`
	EpsilonR     float64 `json:"epsilon_r"`
	KicadLayerID int     `json:"kicad_layer_id"`
}

type stackupDTO struct {
	BoardThickness float64           `json:"board_thickness"`
	Layers         []stackupLayerDTO `json:"layers"`
}

type padDTO struct {
	Name           string  `json:"name"`
	Shape          string  `json:"shape"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	DrillDiameter  float64 `json:"drill_diameter"`
	Offset         point   `json:"offset"`
	RoundRectRatio float64 `json:"roundrect_ratio"`
	Type           string  `json:"type"`
	LayerSide      string  `json:"layer_side"`
	Rotation       float64 `json:"rotation"`
	CustomShape    []point `json:"custom_shape,omitempty"`
}

type graphicDTO struct {
	Kind          string  `json:"kind"`
	Start         point   `json:"start"`
	End           point   `json:"end"`
	Center        point   `json:"center"`
	Radius        float64 `json:"radius"`
	Width         float64 `json:"width"`
	Layer         string  `json:"layer"`
	Fill          bool    `json:"fill"`
	SweepAngle    float64 `json:"sweep_angle"`
	Points        []point `json:"points,omitempty"`
	Text          string  `json:"text,omitempty"`
	TextSize      float64 `json:"text_size,omitempty"`
	TextThickness float64 `json:"text_thickness,omitempty"`
}

type footprintDTO struct {
	Name     string       `json:"name"`
	Origin   point        `json:"origin"`
	Pads     []padDTO     `json:"pads"`
	Graphics []graphicDTO `json:"graphics"`
}

type componentDTO struct {
	Refdes       string            `json:"refdes"`
	FootprintRef string            `json:"footprint_ref"`
	Value        string            `json:"value"`
	Description  string            `json:"description"`
	PartNumber   string            `json:"part_number"`
	Position     point             `json:"position"`
	Rotation     float64           `json:"rotation"`
	Mirror       bool              `json:"mirror"`
	PinNetMap    map[string]string `json:"pin_net_map"`
}

type traceDTO struct {
	Start point   `json:"start"`
	End   point   `json:"end"`
	Width float64 `json:"width"`
	Layer string  `json:"layer"`
	NetID int     `json:"net_id"`
}

type traceArcDTO struct {
	Start point   `json:"start"`
	Mid   point   `json:"mid"`
	End   point   `json:"end"`
	Width float64 `json:"width"`
	Layer string  `json:"layer"`
	NetID int     `json:"net_id"`
}

type viaDTO struct {
	Position   point   `json:"position"`
	Diameter   float64 `json:"diameter"`
	Drill      float64 `json:"drill"`
	StartLayer string  `json:"start_layer"`
	EndLayer   string  `json:"end_layer"`
	NetID      int     `json:"net_id"`
}

type zoneDTO struct {
	Layer        string    `json:"layer"`
	NetID        int       `json:"net_id"`
	NetName      string    `json:"net_name"`
	MinThickness float64   `json:"min_thickness"`
	Clearance    float64   `json:"clearance"`
	Outline      []point   `json:"outline"`
	Holes        [][]point `json:"holes,omitempty"`
}

type documentDTO struct {
	Outline    outlineDTO              `json:"outline"`
	Layers     []layerDTO              `json:"layers"`
	Nets       []netDTO                `json:"nets"`
	Stackup    stackupDTO              `json:"stackup"`
	Footprints map[string]footprintDTO `json:"footprints"`
	Components []componentDTO          `json:"components"`
	Traces     []traceDTO              `json:"traces"`
	TraceArcs  []traceArcDTO           `json:"trace_arcs"`
	Vias       []viaDTO                `json:"vias"`
	Zones      []zoneDTO               `json:"zones"`
	Graphics   []graphicDTO            `json:"graphics"`
}

var padShapeNames = map[model.PadShape]string{
	model.PadCircle:    "circle",
	model.PadRect:      "rect",
	model.PadOval:      "oval",
	model.PadRoundRect: "roundrect",
	model.PadTrapezoid: "trapezoid",
	model.PadCustom:    "custom",
}

var padTypeNames = map[model.PadType]string{
	model.PadSMD:      "smd",
	model.PadThruHole: "thru_hole",
	model.PadNPTH:     "npth",
}

var graphicKindNames = map[model.GraphicKind]string{
	model.GraphicLine:    "line",
	model.GraphicArc:     "arc",
	model.GraphicCircle:  "circle",
	model.GraphicRect:    "rect",
	model.GraphicPolygon: "polygon",
	model.GraphicText:    "text",
}

func reverse[K comparable, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

var (
	padShapeValues    = reverse(padShapeNames)
	padTypeValues     = reverse(padTypeNames)
	graphicKindValues = reverse(graphicKindNames)
)

// ExportFile writes the model as JSON to path.
func ExportFile(path string, pcb *model.PCB) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Export(f, pcb); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Export writes the model as JSON to out.
func Export(out io.Writer, pcb *model.PCB) error {
	doc := toDTO(pcb)
	enc := json.NewEncoder(out)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// ImportFile reads a previously exported JSON model.
func ImportFile(path string) (*model.PCB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Import(f)
}

// Import reads a previously exported JSON model from r.
func Import(r io.Reader) (*model.PCB, error) {
	var doc documentDTO
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return fromDTO(&doc), nil
}
