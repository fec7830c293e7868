// Package project writes a minimal .kicad_pro file so KiCad opens the
// converted board and schematic as one project.
package project

import (
	"encoding/json"
	"fmt"
	"os"

	"ipc2kicad/pkg/kicad/sexp"
	"ipc2kicad/pkg/model"
)

type meta struct {
	Filename string `json:"filename"`
	Version  int    `json:"version"`
}

type boardSection struct {
	Viewports3D    []any          `json:"3dviewports"`
	DesignSettings map[string]any `json:"design_settings"`
	LayerPresets   []any          `json:"layer_presets"`
	Viewports      []any          `json:"viewports"`
}

type schematicSection struct {
	Drawing map[string]any `json:"drawing"`
	Meta    struct {
		Version int `json:"version"`
	} `json:"meta"`
}

type netClass struct {
	Name         string  `json:"name"`
	ClearanceMM  float64 `json:"clearance"`
	TrackWidthMM float64 `json:"track_width"`
	ViaDiameter  float64 `json:"via_diameter"`
	ViaDrill     float64 `json:"via_drill"`
}

type netClassPattern struct {
	NetClass string `json:"netclass"`
	Pattern  string `json:"pattern"`
}

type netSettings struct {
	Classes  []netClass        `json:"classes"`
	Patterns []netClassPattern `json:"netclass_patterns"`
	Meta     struct {
		Version int `json:"version"`
	} `json:"meta"`
}

type document struct {
	Meta          meta              `json:"meta"`
	Board         boardSection      `json:"board"`
	NetSettings   netSettings       `json:"net_settings"`
	Schematic     schematicSection  `json:"schematic"`
	Sheets        [][2]string       `json:"sheets"`
	TextVariables map[string]string `json:"text_variables"`
}

// Write emits the project file. projectName is the base name without
// extension; the root sheet UUID matches the one the schematic writer emits.
func Write(path, projectName string, pcb *model.PCB) error {
	doc := document{
		Meta: meta{Filename: projectName + ".kicad_pro", Version: 1},
		Board: boardSection{
			Viewports3D:    []any{},
			DesignSettings: map[string]any{},
			LayerPresets:   []any{},
			Viewports:      []any{},
		},
		NetSettings: netSettings{
			Classes: []netClass{{
				Name:         "Default",
				ClearanceMM:  0.2,
				TrackWidthMM: 0.25,
				ViaDiameter:  0.8,
				ViaDrill:     0.4,
			}},
		},
		Sheets: [][2]string{
			{sexp.SeededUUID("schematic_sheet_root"), ""},
		},
		TextVariables: map[string]string{},
	}
	doc.Schematic.Drawing = map[string]any{}
	doc.Schematic.Meta.Version = 1
	doc.NetSettings.Meta.Version = 4

	// Sorted so reruns produce identical files.
	doc.NetSettings.Patterns = []netClassPattern{}
	for _, name := range pcb.SortedNetNames() {
		doc.NetSettings.Patterns = append(doc.NetSettings.Patterns,
			netClassPattern{NetClass: "Default", Pattern: name})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
