// Command spritemapper packs the sprites listed in manifests into
// spritemaps.
//
//	spritemapper [flags] manifest.json ...
//
// A manifest of "-" is read from standard input. Placements of every built
// spritemap are printed to standard output as name,x1,y1,x2,y2 lines.
package main

import (
	"flag"
	"fmt"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/spritemapper/builder"
	"badc0de.net/pkg/spritemapper/config"
	"badc0de.net/pkg/spritemapper/manifest"
	"badc0de.net/pkg/spritemapper/packing"
)

var (
	preview  = flag.Bool("preview", false, "print every spritemap on the terminal")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	nocolor  = flag.Bool("nocolor", false, "whether to print without color escapes")
	rasterm  = flag.Bool("rasterm", false, "whether to print with kitty, iterm or sixel graphics")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to shrink previews to the terminal size")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] manifest.json ... | -\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	cflags := config.RegisterFlags(flag.CommandLine)
	flag.Usage = usage
	flagutil.Parse()
	flag.Set("logtostderr", "true")
	defer glog.Flush()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := cflags.Load()
	if err != nil {
		glog.Exitf("loading config: %v", err)
	}

	var groups []manifest.Group
	for _, path := range flag.Args() {
		gs, err := manifest.Open(path)
		if err != nil {
			glog.Exitf("reading manifest: %v", err)
		}
		groups = append(groups, gs...)
	}

	results := builder.New(cfg).Build(groups)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		packing.PrintPackedSize(os.Stderr, r.Spritemap.Packed)
		if err := packing.DumpPlacements(os.Stdout, r.Spritemap.Packed); err != nil {
			glog.Exitf("writing placements: %v", err)
		}
		if *preview {
			out(r.Spritemap.Image.Image(), r.Spritemap.Base+".png")
		}
	}

	if n := builder.Failed(results); n > 0 {
		glog.Errorf("%d of %d spritemaps failed", n, len(results))
		glog.Flush()
		os.Exit(1)
	}
}
