// Package model holds the in-memory PCB design model shared by the IPC-2581
// parser, the KiCad writers, and the schematic synthesizer.
//
// Coordinates are millimeters. The IPC-2581 parser converts into the KiCad
// convention (Y grows downward) at parse time, so everything downstream works
// in a single coordinate system.
package model

// PadShape enumerates pad geometries.
type PadShape int

const (
	PadCircle PadShape = iota
	PadRect
	PadOval
	PadRoundRect
	PadTrapezoid
	PadCustom
)

// PadType enumerates electrical pad kinds.
type PadType int

const (
	PadSMD PadType = iota
	PadThruHole
	PadNPTH
)

// PadDef describes one pad of a footprint.
type PadDef struct {
	Name             string // pad number/name ("1", "A1")
	Shape            PadShape
	Width            float64
	Height           float64
	DrillDiameter    float64 // 0 for SMD
	Offset           Point   // offset from footprint origin
	RoundRectRatio   float64
	CustomShape      []Point // polygon outline for PadCustom
	Type             PadType
	LayerSide        string // "TOP", "BOTTOM", or "ALL"
	Rotation         float64
	SolderMaskMargin float64
}

// PadStackDef is a dictionary padstack entry referenced by footprint pads.
type PadStackDef struct {
	Name          string
	Pads          []PadDef
	DrillDiameter float64
	Plated        bool
}

// GraphicKind enumerates drawable primitives.
type GraphicKind int

const (
	GraphicLine GraphicKind = iota
	GraphicArc
	GraphicCircle
	GraphicRect
	GraphicPolygon
	GraphicText
)

// GraphicItem is a silkscreen/fab/document drawing primitive, either on the
// board or inside a footprint.
type GraphicItem struct {
	Kind       GraphicKind
	Start      Point
	End        Point
	Center     Point
	Radius     float64
	Width      float64
	Layer      string
	Fill       bool
	Points     []Point
	SweepAngle float64 // degrees, for arcs

	Text          string
	TextSize      float64
	TextThickness float64
}

// Footprint is a package template shared by all instances referencing it.
type Footprint struct {
	Name         string
	Pads         []PadDef
	Graphics     []GraphicItem
	Origin       Point
	PadToPadtack map[string]string // pad name -> padstack name

	PkgHeight   float64 // component height in mm
	BodyOutline []Point // body polygon in IPC coords (Y up)
}

// ComponentInstance is one placed component.
type ComponentInstance struct {
	Refdes       string
	FootprintRef string
	Value        string
	Description  string
	PartNumber   string
	Position     Point
	Rotation     float64
	Mirror       bool // bottom side placement

	PinNetMap      map[string]string  // pad name -> net name
	PinRotationMap map[string]float64 // pad name -> local rotation
	Graphics       []GraphicItem      // per-instance, footprint-local coords
}

// TraceSegment is a straight copper track.
type TraceSegment struct {
	Start Point
	End   Point
	Width float64
	Layer string
	NetID int
}

// TraceArc is a curved copper track in start/mid/end form.
type TraceArc struct {
	Start Point
	Mid   Point
	End   Point
	Width float64
	Layer string
	NetID int
}

// Via is a plated through connection between copper layers.
type Via struct {
	Position   Point
	Diameter   float64
	Drill      float64
	StartLayer string
	EndLayer   string
	NetID      int
}

// ZoneFill enumerates zone fill styles.
type ZoneFill int

const (
	ZoneSolid ZoneFill = iota
	ZoneHatched
)

// Zone is a filled copper area.
type Zone struct {
	Layer        string
	NetID        int
	NetName      string
	Outline      []Point
	Holes        [][]Point
	MinThickness float64
	Clearance    float64
	FillType     ZoneFill
}

// DrillHole is a non-pad hole (tooling, mounting).
type DrillHole struct {
	Position Point
	Diameter float64
	Plated   bool
}

// LayerDef maps one IPC-2581 layer to its KiCad identity.
type LayerDef struct {
	KicadID     int
	KicadName   string
	Type        string // "signal", "user", "power"
	IPCName     string
	IPCFunction string // layerFunction attribute
	IPCSide     string // TOP, BOTTOM, INTERNAL, ALL
	CopperOrder int    // 0 = top copper, -1 = not copper
}

// NetDef is one electrical net. ID 0 is the unconnected net.
type NetDef struct {
	ID   int
	Name string
}

// StackupLayer is one physical layer of the board cross-section.
type StackupLayer struct {
	Name         string
	Type         string // "copper", "dielectric", "soldermask", ...
	Thickness    float64
	Material     string
	EpsilonR     float64
	KicadLayerID int // -1 for non-copper
}

// Stackup is the physical board build-up.
type Stackup struct {
	Layers         []StackupLayer
	BoardThickness float64
}

// PCB is the whole design: everything the parsers produce and the writers
// consume.
type PCB struct {
	Layers  []LayerDef
	Nets    []NetDef
	Stackup Stackup

	Outline     []Segment
	OutlineArcs []Arc

	FootprintDefs map[string]*Footprint
	Components    []ComponentInstance

	Traces    []TraceSegment
	TraceArcs []TraceArc
	Vias      []Via
	Zones     []Zone
	Drills    []DrillHole
	Graphics  []GraphicItem

	PadstackDefs map[string]*PadStackDef

	NetNameToID     map[string]int
	IPCLayerToKicad map[string]string
}

// NewPCB returns a model with its lookup maps initialized and the
// unconnected net registered as ID 0.
func NewPCB() *PCB {
	p := &PCB{
		FootprintDefs:   make(map[string]*Footprint),
		PadstackDefs:    make(map[string]*PadStackDef),
		NetNameToID:     make(map[string]int),
		IPCLayerToKicad: make(map[string]string),
	}
	p.Nets = append(p.Nets, NetDef{ID: 0, Name: ""})
	p.NetNameToID[""] = 0
	return p
}

// NetID resolves a net name to its ID, 0 when unknown.
func (p *PCB) NetID(name string) int {
	return p.NetNameToID[name]
}

// KicadLayer resolves an IPC layer name to its KiCad name, "" when unmapped.
func (p *PCB) KicadLayer(ipcName string) string {
	return p.IPCLayerToKicad[ipcName]
}

// AddNet registers a net name if new and returns its ID.
func (p *PCB) AddNet(name string) int {
	if id, ok := p.NetNameToID[name]; ok {
		return id
	}
	id := len(p.Nets)
	p.Nets = append(p.Nets, NetDef{ID: id, Name: name})
	p.NetNameToID[name] = id
	return id
}

// Footprint returns the template for an instance, nil when unknown.
func (p *PCB) Footprint(ref string) *Footprint {
	return p.FootprintDefs[ref]
}
