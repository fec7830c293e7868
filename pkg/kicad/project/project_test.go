package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ipc2kicad/pkg/model"
)

func TestWriteProject(t *testing.T) {
	pcb := model.NewPCB()
	pcb.AddNet("GND")
	pcb.AddNet("VCC")

	path := filepath.Join(t.TempDir(), "demo.kicad_pro")
	if err := Write(path, "demo", pcb); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	metaSection, ok := doc["meta"].(map[string]any)
	if !ok || metaSection["filename"] != "demo.kicad_pro" {
		t.Errorf("meta.filename wrong: %v", doc["meta"])
	}
	if _, ok := doc["sheets"].([]any); !ok {
		t.Errorf("sheets section missing")
	}

	ns, ok := doc["net_settings"].(map[string]any)
	if !ok {
		t.Fatalf("net_settings missing")
	}
	patterns, _ := ns["netclass_patterns"].([]any)
	if len(patterns) != 2 {
		t.Errorf("expected 2 netclass patterns, got %d", len(patterns))
	}
}
