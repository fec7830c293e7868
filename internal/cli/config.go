package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Profile carries conversion presets loaded from a --config TOML file.
// Explicit command-line flags always win over profile values.
type Profile struct {
	Convert   ConvertProfile   `toml:"convert"`
	Schematic SchematicProfile `toml:"schematic"`
}

// ConvertProfile presets board conversion options.
type ConvertProfile struct {
	KicadVersion int    `toml:"kicad_version"`
	Step         string `toml:"step"`
}

// SchematicProfile presets schematic synthesis options.
type SchematicProfile struct {
	UseLibSymbols bool   `toml:"use_lib_symbols"`
	SymbolDir     string `toml:"symbol_dir"`
	Paper         string `toml:"paper"`
}

// LoadProfile reads a profile file, rejecting unknown keys so typos in a
// profile do not silently lose settings.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Profile{}, fmt.Errorf("profile %s: unknown key %q", path, undecoded[0].String())
	}
	return p, nil
}
