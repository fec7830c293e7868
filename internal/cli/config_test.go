package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	content := `
[convert]
kicad_version = 7
step = "MAIN"

[schematic]
use_lib_symbols = true
paper = "A3"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.Convert.KicadVersion != 7 || p.Convert.Step != "MAIN" {
		t.Errorf("convert section wrong: %+v", p.Convert)
	}
	if !p.Schematic.UseLibSymbols || p.Schematic.Paper != "A3" {
		t.Errorf("schematic section wrong: %+v", p.Schematic)
	}
	if p.Schematic.SymbolDir != "" {
		t.Errorf("unset key should stay empty")
	}
}

func TestLoadProfileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte("[convert]\nkicad_verison = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestReplaceExt(t *testing.T) {
	if got := replaceExt("design.xml", ".kicad_pcb"); got != "design.kicad_pcb" {
		t.Errorf("replaceExt = %q", got)
	}
	if got := replaceExt("dir/design.cvg.xml", ".json"); got != "dir/design.cvg.json" {
		t.Errorf("replaceExt = %q", got)
	}
}
