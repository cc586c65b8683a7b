// Package paths locates configuration files and resolves the file names
// found in manifests.
package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// Find locates the passed file name and returns a path to it, or "" if it is
// not found anywhere.
//
// The working directory is tried first, then $HOME/.config/spritemapper, then
// the directory holding the running executable.
func Find(fileName string) string {
	for _, path := range possiblePaths(fileName) {
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

func possibleDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "spritemapper"))
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

func possiblePaths(fileName string) []string {
	dirs := possibleDirs()
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, fileName))
	}
	return paths
}
