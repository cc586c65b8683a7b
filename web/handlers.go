// Package web serves built spritemaps over HTTP.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/spritemapper/builder"
)

// generation is part of every ETag; bump it if the way we encode changes.
const generation = 1

type entry struct {
	id      string
	sheet   builder.Sheet
	png     []byte
	dataURL []byte
}

// MapInfo is one item of the /maps listing.
type MapInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Sprites int    `json:"sprites"`
}

type Handler struct {
	palette bool

	mu    sync.RWMutex
	maps  map[string]*entry
	order []string
}

// NewHandler returns an empty handler. With palette set, spritemaps are
// served as paletted PNGs.
func NewHandler(palette bool) *Handler {
	return &Handler{
		palette: palette,
		maps:    make(map[string]*entry),
	}
}

// Add encodes sm and registers it under a new id.
func (h *Handler) Add(sm *builder.Spritemap) (string, error) {
	png, err := sm.PNG(h.palette)
	if err != nil {
		return "", err
	}
	u, err := builder.DataURL(png)
	if err != nil {
		return "", errors.Wrap(err, "encoding data url")
	}

	id := uuid.New().String()
	e := &entry{
		id:      id,
		sheet:   sm.Sheet(),
		png:     png,
		dataURL: u,
	}

	h.mu.Lock()
	h.maps[id] = e
	h.order = append(h.order, id)
	h.mu.Unlock()

	glog.Infof("serving %s as /map/%s.png", sm.Group.Name, id)
	return id, nil
}

func (h *Handler) lookup(id string) *entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.maps[id]
}

func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.maps", r.URL.Path)
	defer tr.Finish()

	h.mu.RLock()
	list := make([]MapInfo, 0, len(h.order))
	for _, id := range h.order {
		e := h.maps[id]
		list = append(list, MapInfo{
			ID:      id,
			Name:    e.sheet.Name,
			Width:   e.sheet.Width,
			Height:  e.sheet.Height,
			Sprites: len(e.sheet.Sprites),
		})
	}
	h.mu.RUnlock()
	tr.LazyPrintf("%d maps", len(list))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(list)
}

// mapHandler returns a handler that serves one representation of a map.
func (h *Handler) mapHandler(kind, mime string, body func(*entry) ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tr := trace.New("web.map."+kind, r.URL.Path)
		defer tr.Finish()

		id := mux.Vars(r)["id"]
		e := h.lookup(id)
		if e == nil {
			tr.LazyPrintf("unknown map %q", id)
			tr.SetError()
			http.NotFound(w, r)
			return
		}

		etag := fmt.Sprintf(`W/"spritemap:%d:%s:%s"`, generation, e.id, kind)
		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			tr.LazyPrintf("not modified")
			return
		}

		b, err := body(e)
		if err != nil {
			tr.LazyPrintf("%v", err)
			tr.SetError()
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", mime)
		w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		w.Write(b)
		tr.LazyPrintf("%d bytes", len(b))
	}
}

// Router returns a router serving every registered map.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	const id = "{id:[0-9a-f-]+}"
	r.HandleFunc("/maps", h.listHandler).Methods(http.MethodGet)
	r.HandleFunc("/map/"+id+".png", h.mapHandler("png", "image/png", func(e *entry) ([]byte, error) {
		return e.png, nil
	})).Methods(http.MethodGet)
	r.HandleFunc("/map/"+id+".json", h.mapHandler("json", "application/json", func(e *entry) ([]byte, error) {
		return json.Marshal(e.sheet)
	})).Methods(http.MethodGet)
	r.HandleFunc("/map/"+id+".dataurl", h.mapHandler("dataurl", "text/plain; charset=utf-8", func(e *entry) ([]byte, error) {
		return e.dataURL, nil
	})).Methods(http.MethodGet)
}
