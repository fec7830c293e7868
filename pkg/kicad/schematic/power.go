package schematic

import "strings"

// IsPowerNet reports whether a net name looks like a supply or ground rail.
// Power nets are excluded from chain routing and get power-port symbols
// (or net labels) instead of wires.
func IsPowerNet(name string) bool {
	if name == "" {
		return false
	}
	switch strings.ToUpper(name) {
	case "GND", "PGND", "AGND", "DGND", "VSS", "GNDD", "GNDA":
		return true
	case "VCC", "VDD", "VBUS":
		return true
	}
	// +NV rails: +5V, +3V3, +3.3V, +12V, +1V8, ...
	if name[0] == '+' && len(name) >= 2 {
		return true
	}
	return false
}

// powerSymbolName maps a power net name to the symbol name in KiCad's
// power library. Most rails use the net name directly.
func powerSymbolName(name string) string {
	switch strings.ToUpper(name) {
	case "GND", "PGND", "DGND", "GNDD", "VSS":
		return "GND"
	case "AGND", "GNDA":
		return "GNDA"
	case "VCC":
		return "VCC"
	case "VDD":
		return "VDD"
	case "VBUS":
		return "VBUS"
	}
	return name
}

// groundSymbol reports whether a power symbol name points downward (ground
// style) rather than upward (supply style). Used to orient power ports.
func groundSymbol(symName string) bool {
	switch strings.ToUpper(symName) {
	case "GND", "GNDA", "GNDD", "VSS":
		return true
	}
	return false
}
