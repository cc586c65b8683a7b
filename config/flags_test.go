package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestFlags_Overrides(t *testing.T) {
	path := writeFile(t, "[spritemapper]\nseed = 7\npalette = true\nanneal_steps = 100\n")

	cfg, err := parseFlags(t, "-conf", path).Load()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.True(t, cfg.Palette)
	assert.Equal(t, 100, cfg.AnnealSteps)
	assert.Equal(t, [2]int{1, 1}, cfg.Padding)

	cfg, err = parseFlags(t, "-conf", path, "-seed", "0", "-palette=false",
		"-padding", "3", "-anneal", "50", "-workers", "2", "-out_dir", "build", "-data_url").Load()
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.False(t, cfg.Palette)
	assert.Equal(t, [2]int{3, 3}, cfg.Padding)
	assert.Equal(t, 50, cfg.AnnealSteps)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.True(t, cfg.DataURL)
}

func TestFlags_ZeroPadding(t *testing.T) {
	cfg, err := parseFlags(t, "-conf", "", "-padding", "0").Load()
	require.NoError(t, err)
	assert.Equal(t, [2]int{0, 0}, cfg.Padding)
}

func TestFlags_Invalid(t *testing.T) {
	_, err := parseFlags(t, "-conf", writeFile(t, "[spritemapper]\nworkers = -1\n")).Load()
	assert.Error(t, err)
}
