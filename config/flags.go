package config

import (
	"flag"

	"badc0de.net/pkg/spritemapper/paths"
)

// FileName is the config file looked up by paths.Find.
const FileName = "spritemapper.toml"

// Flags are command line overrides for a Config.
type Flags struct {
	fs *flag.FlagSet

	conf    string
	padding int
	anneal  int
	seed    int64
	outDir  string
	palette bool
	dataURL bool
	workers int
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	paths.SetupFilePathFlagSet(fs, FileName, "conf", &f.conf)
	fs.IntVar(&f.padding, "padding", -1, "padding right of and below every sprite, in pixels (negative: from config)")
	fs.IntVar(&f.anneal, "anneal", 0, "number of annealing steps (0: from config)")
	fs.Int64Var(&f.seed, "seed", 0, "seed for the annealing random source")
	fs.StringVar(&f.outDir, "out_dir", "", "directory to write spritemaps to")
	fs.BoolVar(&f.palette, "palette", false, "write paletted PNGs")
	fs.BoolVar(&f.dataURL, "data_url", false, "also write a .dataurl file for every spritemap")
	fs.IntVar(&f.workers, "workers", 0, "number of spritemaps built at once (0: from config)")
	return f
}

// Load reads the config file named by -conf and applies the other flags
// over it. The result is validated.
func (f *Flags) Load() (*Config, error) {
	cfg, err := Load(f.conf)
	if err != nil {
		return nil, err
	}
	if f.padding >= 0 {
		cfg.Padding = [2]int{f.padding, f.padding}
	}
	if f.anneal > 0 {
		cfg.AnnealSteps = f.anneal
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "seed":
			cfg.Seed = f.seed
		case "out_dir":
			cfg.OutputDir = f.outDir
		case "palette":
			cfg.Palette = f.palette
		case "data_url":
			cfg.DataURL = f.dataURL
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
