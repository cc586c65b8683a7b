package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"badc0de.net/pkg/spritemapper/ttesting"
)

func TestParse(t *testing.T) {
	in := `[
		["icons.png", ["a.png", "sub/b.png", "a.png", "/abs/c.png"]],
		["/out/other.png", []]
	]`
	groups, err := Parse(strings.NewReader(in), "css")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ttesting.AssertEqualInt(t, "groups", len(groups), 2)

	g := groups[0]
	ttesting.AssertEqualString(t, "name", g.Name, "css/icons.png")
	ttesting.AssertEqualInt(t, "sprites", len(g.Sprites), 3)
	for i, want := range []string{"css/a.png", "css/sub/b.png", "/abs/c.png"} {
		ttesting.AssertEqualString(t, want, g.Sprites[i], want)
	}

	ttesting.AssertEqualString(t, "absolute name", groups[1].Name, "/out/other.png")
	ttesting.AssertEqualInt(t, "empty group", len(groups[1].Sprites), 0)
}

func TestParse_Invalid(t *testing.T) {
	for name, in := range map[string]string{
		"not json":    `{`,
		"object":      `{"a": 1}`,
		"short group": `[["a.png"]]`,
		"long group":  `[["a.png", [], 1]]`,
		"bad name":    `[[1, []]]`,
		"bad sprites": `[["a.png", "b.png"]]`,
		"empty name":  `[["", ["b.png"]]]`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(in), "."); err == nil {
				t.Errorf("Parse(%s) succeeded", in)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprites.json")
	if err := os.WriteFile(path, []byte(`[["map.png", ["x.png"]]]`), 0o644); err != nil {
		t.Fatal(err)
	}

	groups, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ttesting.AssertEqualInt(t, "groups", len(groups), 1)
	ttesting.AssertEqualString(t, "name", groups[0].Name, filepath.Join(dir, "map.png"))
	ttesting.AssertEqualString(t, "sprite", groups[0].Sprites[0], filepath.Join(dir, "x.png"))

	if _, err := Open(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Open(missing) succeeded")
	}
}
