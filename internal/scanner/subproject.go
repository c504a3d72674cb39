package scanner

import (
	"os"
	"path/filepath"
)

// subProjectMarkers mirrors the config-discovery search order and is also
// how the scanner recognizes a sub-project boundary, following the same
// "look for marker files" idiom used for language/build project
// detection, generalized to mdt's own config file names.
var subProjectMarkers = []string{"mdt.toml", ".mdt.toml", filepath.Join(".config", "mdt.toml")}

// isSubProjectBoundary reports whether dir (which is not the scan root)
// carries its own mdt config file, making it a boundary the outer scan must
// not descend into.
func isSubProjectBoundary(dir string) bool {
	for _, marker := range subProjectMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
