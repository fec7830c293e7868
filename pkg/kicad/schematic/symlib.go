package schematic

import (
	"os"

	"ipc2kicad/pkg/kicad/sexp/kicadsexp"
)

var symbolDirCandidates = []string{
	"/Applications/KiCad/KiCad.app/Contents/SharedSupport/symbols",
	"/usr/share/kicad/symbols",
	"/usr/local/share/kicad/symbols",
}

// detectSymbolDir probes the stock KiCad install locations for the symbol
// libraries, returning "" when none is present.
func detectSymbolDir() string {
	for _, dir := range symbolDirCandidates {
		if _, err := os.Stat(dir + "/Device.kicad_sym"); err == nil {
			return dir
		}
	}
	return ""
}

// loadLibrarySymbol pulls the named top-level symbol out of a .kicad_sym
// library file and returns it as s-expression text with the outer symbol
// renamed to libID. KiCad requires lib_symbols entries to carry the full lib
// id ("Device:R") while sub-symbols keep their short names ("R_0_1").
// Parsed libraries are cached per file; a failed load caches nil so the file
// is not retried for every footprint.
func (w *Writer) loadLibrarySymbol(libFile, symName, libID string) string {
	root, ok := w.libCache[libFile]
	if !ok {
		root = parseSymbolLib(libFile)
		if root == nil {
			w.logger.Warn("cannot read symbol library", "file", libFile)
		}
		w.libCache[libFile] = root
	}
	if root == nil {
		return ""
	}

	for _, sub := range root.FindAll("symbol") {
		if sub.Atom(1) != symName {
			continue
		}
		sub.Set(1, kicadsexp.Str(libID))
		text := sub.String()
		sub.Set(1, kicadsexp.Str(symName)) // keep the cached tree pristine
		return text
	}

	w.logger.Warn("symbol not found in library", "symbol", symName, "file", libFile)
	return ""
}

func parseSymbolLib(path string) *kicadsexp.List {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	exprs, err := kicadsexp.Parse(f)
	if err != nil || len(exprs) == 0 {
		return nil
	}
	root, ok := exprs[0].(*kicadsexp.List)
	if !ok || root.Name() != "kicad_symbol_lib" {
		return nil
	}
	return root
}
