// Package manifest reads spritemap manifests.
//
// A manifest is a JSON array of groups, each a two element array holding the
// spritemap name and the list of sprite files:
//
//	[["img/icons.png", ["img/a.png", "img/b.png"]]]
package manifest

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"badc0de.net/pkg/spritemapper/paths"
)

// Group is one spritemap and the sprites packed into it.
type Group struct {
	Name    string
	Sprites []string
}

func (g *Group) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return errors.Errorf("manifest: group has %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &g.Name); err != nil {
		return errors.Wrap(err, "manifest: group name")
	}
	if err := json.Unmarshal(raw[1], &g.Sprites); err != nil {
		return errors.Wrapf(err, "manifest: sprites of %q", g.Name)
	}
	return nil
}

// Parse reads a manifest from r. Relative names are resolved against base.
// A sprite listed twice in one group is only kept once.
func Parse(r io.Reader, base string) ([]Group, error) {
	var groups []Group
	if err := json.NewDecoder(r).Decode(&groups); err != nil {
		return nil, errors.Wrap(err, "manifest: decoding")
	}
	for i := range groups {
		g := &groups[i]
		if g.Name == "" {
			return nil, errors.Errorf("manifest: group %d has no name", i)
		}
		g.Name = paths.Resolve(base, g.Name)
		seen := make(map[string]bool, len(g.Sprites))
		sprites := g.Sprites[:0]
		for _, s := range g.Sprites {
			s = paths.Resolve(base, s)
			if seen[s] {
				continue
			}
			seen[s] = true
			sprites = append(sprites, s)
		}
		g.Sprites = sprites
	}
	return groups, nil
}

// Open parses the manifest file at path, resolving names against its
// directory. The path "-" reads standard input relative to the working
// directory.
func Open(path string) ([]Group, error) {
	if path == "-" {
		return Parse(os.Stdin, ".")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "manifest: opening")
	}
	defer f.Close()
	groups, err := Parse(f, filepath.Dir(path))
	return groups, errors.Wrap(err, path)
}
