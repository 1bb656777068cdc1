package atlaspack

import (
	"path/filepath"
	"strings"
)

// TrimName returns the index key for a sprite file: its base name without
// the final extension. Names without an extension are returned unchanged.
func TrimName(fileName string) string {
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	if ext == base {
		// ".png" style dotfile: keep it whole.
		return base
	}
	return strings.TrimSuffix(base, ext)
}
