// Package config holds the settings shared by the spritemapper tools.
//
// Settings are read from the [spritemapper] table of a TOML file:
//
//	[spritemapper]
//	padding = [1, 1]
//	anneal_steps = 9200
//	palette = true
package config

import (
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"badc0de.net/pkg/spritemapper/packing"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Padding     [2]int `toml:"padding"`
	AnnealSteps int    `toml:"anneal_steps"`
	Seed        int64  `toml:"seed"`

	// OutputDir receives the spritemap files. When empty, each spritemap is
	// written to the path named in its manifest.
	OutputDir string `toml:"output_dir"`

	Palette bool `toml:"palette"`
	DataURL bool `toml:"data_url"`

	// Workers is the number of groups built at once.
	Workers int `toml:"workers"`
}

type file struct {
	Spritemapper Config `toml:"spritemapper"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Padding:     [2]int{packing.DefaultPad.X, packing.DefaultPad.Y},
		AnnealSteps: packing.DefaultSteps,
		Workers:     runtime.NumCPU(),
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f := file{Spritemapper: *Default()}
	md, err := toml.DecodeFile(path, &f)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Wrapf(ErrInvalid, "%s: unknown keys %v", path, undecoded)
	}
	return &f.Spritemapper, nil
}

// Validate checks that cfg can be used for a build.
func (cfg *Config) Validate() error {
	switch {
	case cfg.AnnealSteps <= 0:
		return errors.Wrapf(ErrInvalid, "anneal_steps %d <= 0", cfg.AnnealSteps)
	case cfg.Padding[0] < 0 || cfg.Padding[1] < 0:
		return errors.Wrapf(ErrInvalid, "negative padding %v", cfg.Padding)
	case cfg.Workers < 1:
		return errors.Wrapf(ErrInvalid, "workers %d < 1", cfg.Workers)
	}
	return nil
}

func (cfg *Config) Pad() packing.Pad {
	return packing.Pad{X: cfg.Padding[0], Y: cfg.Padding[1]}
}

// PackOptions returns the packing options for cfg.
func (cfg *Config) PackOptions() packing.Options {
	opts := packing.DefaultOptions()
	opts.AnnealSteps = cfg.AnnealSteps
	opts.Seed = cfg.Seed
	return opts
}
