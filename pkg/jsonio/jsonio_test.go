package jsonio

import (
	"bytes"
	"strings"
	"testing"

	"ipc2kicad/pkg/model"
)

func samplePCB() *model.PCB {
	pcb := model.NewPCB()
	pcb.AddNet("GND")
	pcb.AddNet("NET1")
	pcb.Layers = []model.LayerDef{
		{KicadID: 0, KicadName: "F.Cu", Type: "signal", IPCName: "TOP", CopperOrder: 0},
	}
	pcb.IPCLayerToKicad["TOP"] = "F.Cu"
	pcb.FootprintDefs["RES0402"] = &model.Footprint{
		Name: "RES0402",
		Pads: []model.PadDef{
			{Name: "1", Shape: model.PadRect, Width: 1, Height: 0.6, Offset: model.Point{X: -0.5}},
			{Name: "2", Shape: model.PadRect, Width: 1, Height: 0.6, Offset: model.Point{X: 0.5}},
		},
	}
	pcb.Components = []model.ComponentInstance{{
		Refdes:       "R1",
		FootprintRef: "RES0402",
		Value:        "10k",
		Position:     model.Point{X: 5, Y: -5},
		Rotation:     90,
		PinNetMap:    map[string]string{"1": "NET1", "2": "GND"},
	}}
	pcb.Traces = []model.TraceSegment{{
		Start: model.Point{X: 5, Y: -5}, End: model.Point{X: 10, Y: -5},
		Width: 0.25, Layer: "F.Cu", NetID: 2,
	}}
	return pcb
}

func TestExportImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, samplePCB()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// Points serialize as [x,y] arrays.
	if !strings.Contains(buf.String(), `"position":[5,-5]`) {
		t.Errorf("position not encoded as array: %s", buf.String())
	}

	pcb, err := Import(&buf)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if pcb.NetID("NET1") != 2 {
		t.Errorf("NET1 id = %d, want 2", pcb.NetID("NET1"))
	}
	if len(pcb.Components) != 1 || pcb.Components[0].Refdes != "R1" {
		t.Fatalf("components not restored: %+v", pcb.Components)
	}
	if pcb.Components[0].PinNetMap["2"] != "GND" {
		t.Errorf("pin net map not restored")
	}
	fp := pcb.Footprint("RES0402")
	if fp == nil || len(fp.Pads) != 2 {
		t.Fatalf("footprint not restored")
	}
	if fp.Pads[0].Shape != model.PadRect {
		t.Errorf("pad shape not restored: %v", fp.Pads[0].Shape)
	}
	if len(pcb.Traces) != 1 || pcb.Traces[0].Layer != "F.Cu" {
		t.Errorf("traces not restored")
	}
	if pcb.KicadLayer("TOP") != "F.Cu" {
		t.Errorf("layer lookup not rebuilt on import")
	}
}

func TestExportDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := Export(&a, samplePCB()); err != nil {
		t.Fatal(err)
	}
	if err := Export(&b, samplePCB()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Errorf("two exports of the same model differ")
	}
}
