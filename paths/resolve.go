package paths

import (
	"path/filepath"
	"strings"
)

// Resolve returns ref relative to the directory base. Absolute refs are only
// cleaned.
func Resolve(base, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(base, ref)
}

// OutputBase returns the path, without extension, that the files of the
// spritemap named smap are written to. An empty dir keeps smap where it is;
// otherwise only its base name is placed inside dir.
func OutputBase(smap, dir string) string {
	smap = strings.TrimSuffix(smap, filepath.Ext(smap))
	if dir == "" {
		return filepath.Clean(smap)
	}
	return filepath.Join(dir, filepath.Base(smap))
}
