// Command spritemapweb builds the spritemaps of the passed manifests and
// serves them over HTTP.
//
//	spritemapweb [flags] manifest.json ...
//
// Built maps are listed at /maps. Request traces are at /debug/requests.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/spritemapper/builder"
	"badc0de.net/pkg/spritemapper/config"
	"badc0de.net/pkg/spritemapper/manifest"
	"badc0de.net/pkg/spritemapper/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for spritemapweb")
	write         = flag.Bool("write", false, "also write spritemap files, as spritemapper would")
)

func main() {
	cflags := config.RegisterFlags(flag.CommandLine)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

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

	h := web.NewHandler(cfg.Palette)
	b := builder.New(cfg)
	b.Sink = func(sm *builder.Spritemap) error {
		if *write {
			if err := b.Write(sm); err != nil {
				return err
			}
		}
		_, err := h.Add(sm)
		return err
	}
	results := b.Build(groups)
	if n := builder.Failed(results); n > 0 {
		glog.Warningf("%d of %d spritemaps failed to build", n, len(results))
	}

	r := h.Router()
	r.Handle("/debug/requests", http.HandlerFunc(trace.Traces))

	glog.Infof("listening on %s", *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.LoggingHandler(os.Stderr, handlers.CompressHandler(r))))
}
