package board

import (
	"bytes"
	"strings"
	"testing"

	"ipc2kicad/pkg/model"
)

func testPCB() *model.PCB {
	pcb := model.NewPCB()
	pcb.AddNet("GND")
	pcb.AddNet("NET1")
	pcb.Stackup.BoardThickness = 1.6

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
		Width: 0.25, Layer: "F.Cu", NetID: pcb.NetID("NET1"),
	}}
	pcb.Outline = []model.Segment{{End: model.Point{X: 20}, Width: 0.05, Layer: "Edge.Cuts"}}
	return pcb
}

func TestWriteBoard(t *testing.T) {
	var buf bytes.Buffer
	if err := New(Options{}).Write(&buf, testPCB()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"(kicad_pcb (version 20240108)",
		`(net 1 GND)`,
		`(net 2 NET1)`,
		`(footprint "ipc2581:RES0402"`,
		"(at 5 -5 90)",
		`(pad 1 smd rect (at -0.5 0) (size 1 0.6) (layers "F.Cu" "F.Paste" "F.Mask") (net 2 NET1)`,
		`(segment (start 5 -5) (end 10 -5) (width 0.25) (layer "F.Cu") (net 2)`,
		`(layer "Edge.Cuts")`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if !strings.HasSuffix(strings.TrimSpace(out), ")") {
		t.Errorf("document not closed")
	}
}

func TestWriteBoardDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	w := New(Options{})
	if err := w.Write(&a, testPCB()); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(&b, testPCB()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Errorf("two writes of the same model differ")
	}
}

func TestWriteBoardV7HasNoUUIDs(t *testing.T) {
	var buf bytes.Buffer
	if err := New(Options{Version: V7}).Write(&buf, testPCB()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "(version 20221018)") {
		t.Errorf("V7 header missing")
	}
	if strings.Contains(out, "(uuid ") {
		t.Errorf("V7 output should not contain uuids")
	}
}
