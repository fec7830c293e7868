package ipc2581

import (
	"math"
	"strings"
	"testing"

	"ipc2kicad/pkg/model"
)

const sampleDesign = `<?xml version="1.0" encoding="UTF-8"?>
<IPC-2581 revision="B">
  <Content>
    <DictionaryStandard>
      <EntryStandard id="PAD_RECT">
        <RectCenter width="1.0" height="0.6"/>
      </EntryStandard>
      <EntryStandard id="PAD_TH">
        <Circle diameter="1.8"/>
        <Drill diameter="1.0" plated="true"/>
      </EntryStandard>
    </DictionaryStandard>
  </Content>
  <LogicalNet name="GND">
    <PinRef componentRef="R1" pin="2"/>
    <PinRef componentRef="C1" pin="2"/>
  </LogicalNet>
  <LogicalNet name="NET1">
    <PinRef componentRef="R1" pin="1"/>
    <PinRef componentRef="C1" pin="1"/>
  </LogicalNet>
  <Ecad>
    <CadHeader units="MM"/>
    <CadData>
      <Layer name="TOP" layerFunction="SIGNAL" side="TOP"/>
      <Layer name="BOTTOM" layerFunction="SIGNAL" side="BOTTOM"/>
      <Layer name="SILK_TOP" layerFunction="SILKSCREEN" side="TOP"/>
      <Layer name="OUTLINE" layerFunction="BOARD_OUTLINE"/>
      <Step name="board">
        <Profile>
          <Polygon>
            <PolyBegin x="0" y="0"/>
            <PolyStepSegment x="20" y="0"/>
            <PolyStepSegment x="20" y="10"/>
            <PolyStepSegment x="0" y="10"/>
            <PolyStepSegment x="0" y="0"/>
          </Polygon>
        </Profile>
        <Package name="RES0402">
          <Pin number="1" x="-0.5" y="0" padstackDefRef="PAD_RECT"/>
          <Pin number="2" x="0.5" y="0" padstackDefRef="PAD_RECT"/>
        </Package>
        <Component refDes="R1" packageRef="RES0402" value="10k" layerRef="TOP">
          <Xform x="5" y="5" rotation="90"/>
        </Component>
        <Component refDes="C1" packageRef="RES0402" value="100n" layerRef="BOTTOM">
          <Xform x="10" y="5"/>
        </Component>
        <LayerFeature layerRef="TOP">
          <Set net="NET1">
            <Line startX="5" startY="5" endX="10" endY="5" lineWidth="0.25"/>
            <Pad padstackDefRef="PAD_TH" x="7" y="5"/>
          </Set>
        </LayerFeature>
      </Step>
    </CadData>
  </Ecad>
</IPC-2581>`

func parseSample(t *testing.T) *model.PCB {
	t.Helper()
	p := New(Options{})
	pcb, err := p.Parse(strings.NewReader(sampleDesign))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return pcb
}

func TestParseLayers(t *testing.T) {
	pcb := parseSample(t)

	if got := pcb.KicadLayer("TOP"); got != "F.Cu" {
		t.Errorf("TOP mapped to %q, want F.Cu", got)
	}
	if got := pcb.KicadLayer("BOTTOM"); got != "B.Cu" {
		t.Errorf("BOTTOM mapped to %q, want B.Cu", got)
	}
	if got := pcb.KicadLayer("SILK_TOP"); got != "F.SilkS" {
		t.Errorf("SILK_TOP mapped to %q, want F.SilkS", got)
	}
	if got := pcb.KicadLayer("OUTLINE"); got != "Edge.Cuts" {
		t.Errorf("OUTLINE mapped to %q, want Edge.Cuts", got)
	}
}

func TestParseNets(t *testing.T) {
	pcb := parseSample(t)

	if pcb.NetID("GND") == 0 {
		t.Errorf("GND should have a nonzero net id")
	}
	if pcb.NetID("NET1") == 0 {
		t.Errorf("NET1 should have a nonzero net id")
	}
	if pcb.NetID("") != 0 {
		t.Errorf("unconnected net must stay id 0")
	}
}

func TestParseComponents(t *testing.T) {
	pcb := parseSample(t)

	if len(pcb.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(pcb.Components))
	}

	// Components come out natural-sorted.
	r1 := pcb.Components[1]
	if r1.Refdes != "R1" {
		t.Fatalf("expected R1 second after sorting, got %s", r1.Refdes)
	}
	if r1.FootprintRef != "RES0402" || r1.Value != "10k" {
		t.Errorf("R1 footprint/value: %s/%s", r1.FootprintRef, r1.Value)
	}
	if r1.Rotation != 90 {
		t.Errorf("R1 rotation = %v, want 90", r1.Rotation)
	}
	// Y is negated into KiCad coordinates.
	if r1.Position.X != 5 || r1.Position.Y != -5 {
		t.Errorf("R1 position = %v", r1.Position)
	}
	if r1.PinNetMap["1"] != "NET1" || r1.PinNetMap["2"] != "GND" {
		t.Errorf("R1 pin nets: %v", r1.PinNetMap)
	}

	c1 := pcb.Components[0]
	if !c1.Mirror {
		t.Errorf("C1 on BOTTOM layer should be mirrored")
	}
}

func TestParsePackages(t *testing.T) {
	pcb := parseSample(t)

	fp := pcb.Footprint("RES0402")
	if fp == nil {
		t.Fatal("RES0402 footprint missing")
	}
	if len(fp.Pads) != 2 {
		t.Fatalf("expected 2 pads, got %d", len(fp.Pads))
	}
	pad := fp.Pads[0]
	if pad.Shape != model.PadRect || pad.Width != 1.0 || pad.Height != 0.6 {
		t.Errorf("pad 1 geometry: shape=%v w=%v h=%v", pad.Shape, pad.Width, pad.Height)
	}
	if pad.Offset.X != -0.5 {
		t.Errorf("pad 1 offset: %v", pad.Offset)
	}
}

func TestParseRouting(t *testing.T) {
	pcb := parseSample(t)

	if len(pcb.Traces) != 1 {
		t.Fatalf("expected 1 trace, got %d", len(pcb.Traces))
	}
	tr := pcb.Traces[0]
	if tr.Layer != "F.Cu" || tr.NetID != pcb.NetID("NET1") {
		t.Errorf("trace layer/net: %s/%d", tr.Layer, tr.NetID)
	}
	if tr.Start.Y != -5 || tr.End.Y != -5 {
		t.Errorf("trace Y not flipped: %v -> %v", tr.Start, tr.End)
	}

	if len(pcb.Vias) != 1 {
		t.Fatalf("expected 1 via, got %d", len(pcb.Vias))
	}
	via := pcb.Vias[0]
	if via.Drill != 1.0 || via.Diameter != 1.8 {
		t.Errorf("via drill/diameter: %v/%v", via.Drill, via.Diameter)
	}
}

func TestParseOutline(t *testing.T) {
	pcb := parseSample(t)

	if len(pcb.Outline) != 4 {
		t.Fatalf("expected 4 outline segments, got %d", len(pcb.Outline))
	}
	for _, seg := range pcb.Outline {
		if seg.Layer != "Edge.Cuts" {
			t.Errorf("outline segment on %q, want Edge.Cuts", seg.Layer)
		}
	}
}

func TestUnitScaling(t *testing.T) {
	inch := strings.Replace(sampleDesign, `units="MM"`, `units="INCH"`, 1)
	p := New(Options{})
	pcb, err := p.Parse(strings.NewReader(inch))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var r1 *model.ComponentInstance
	for i := range pcb.Components {
		if pcb.Components[i].Refdes == "R1" {
			r1 = &pcb.Components[i]
		}
	}
	if r1 == nil {
		t.Fatal("R1 missing")
	}
	if math.Abs(r1.Position.X-5*25.4) > 1e-9 {
		t.Errorf("inch scaling: X = %v, want %v", r1.Position.X, 5*25.4)
	}
}

func TestListStepsAndSelection(t *testing.T) {
	p := New(Options{StepName: "nosuch"})
	if _, err := p.Parse(strings.NewReader(sampleDesign)); err == nil {
		t.Errorf("expected error for unknown step name")
	}

	p = New(Options{StepName: "board"})
	if _, err := p.Parse(strings.NewReader(sampleDesign)); err != nil {
		t.Errorf("named step selection failed: %v", err)
	}
}
