package web

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"badc0de.net/pkg/spritemapper/builder"
	"badc0de.net/pkg/spritemapper/manifest"
	"badc0de.net/pkg/spritemapper/packing"
	"badc0de.net/pkg/spritemapper/sprite"
	"badc0de.net/pkg/spritemapper/stitch"
	"badc0de.net/pkg/spritemapper/ttesting"
)

func testSpritemap(t *testing.T) *builder.Spritemap {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, 6, 3))
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	boxes := []*packing.Box{
		packing.NewBox("a.png", sprite.NewSource(m), packing.DefaultPad),
		packing.NewBox("b.png", sprite.NewSource(m), packing.DefaultPad),
	}
	p, err := packing.Pack(boxes, packing.Options{AnnealSteps: 50})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	im, err := stitch.Stitch(p)
	if err != nil {
		t.Fatalf("Stitch: %v", err)
	}
	return &builder.Spritemap{
		Group:  manifest.Group{Name: "icons.png", Sprites: []string{"a.png", "b.png"}},
		Packed: p,
		Image:  im,
		Base:   "icons",
	}
}

func get(t *testing.T, h http.Handler, path string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	h := NewHandler(false)
	sm := testSpritemap(t)
	id, err := h.Add(sm)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	r := h.Router()

	rec := get(t, r, "/maps")
	ttesting.AssertEqualInt(t, "maps status", rec.Code, http.StatusOK)
	var list []MapInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding /maps: %v", err)
	}
	ttesting.AssertEqualInt(t, "maps", len(list), 1)
	ttesting.AssertEqualString(t, "id", list[0].ID, id)
	ttesting.AssertEqualString(t, "name", list[0].Name, "icons.png")
	ttesting.AssertEqualInt(t, "width", list[0].Width, sm.Packed.Size.X)
	ttesting.AssertEqualInt(t, "height", list[0].Height, sm.Packed.Size.Y)
	ttesting.AssertEqualInt(t, "sprites", list[0].Sprites, 2)

	rec = get(t, r, "/map/"+id+".png")
	ttesting.AssertEqualInt(t, "png status", rec.Code, http.StatusOK)
	ttesting.AssertEqualString(t, "png type", rec.Header().Get("Content-Type"), "image/png")
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	ttesting.AssertEqualInt(t, "png width", img.Bounds().Dx(), sm.Packed.Size.X)
	if got := color.NRGBAModel.Convert(img.At(0, 0)); got != (color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("pixel (0,0) = %v, want opaque white", got)
	}

	etag := rec.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Errorf("ETag %q is not weak", etag)
	}
	rec = get(t, r, "/map/"+id+".png", "If-None-Match", etag)
	ttesting.AssertEqualInt(t, "revalidate", rec.Code, http.StatusNotModified)
	ttesting.AssertEqualInt(t, "revalidate body", rec.Body.Len(), 0)

	rec = get(t, r, "/map/"+id+".json")
	ttesting.AssertEqualInt(t, "json status", rec.Code, http.StatusOK)
	var sheet builder.Sheet
	if err := json.Unmarshal(rec.Body.Bytes(), &sheet); err != nil {
		t.Fatalf("decoding sheet: %v", err)
	}
	ttesting.AssertEqualInt(t, "sheet sprites", len(sheet.Sprites), 2)
	if rec.Header().Get("ETag") == etag {
		t.Error("json and png share an ETag")
	}

	rec = get(t, r, "/map/"+id+".dataurl")
	ttesting.AssertEqualInt(t, "dataurl status", rec.Code, http.StatusOK)
	if !strings.HasPrefix(rec.Body.String(), "data:image/png;base64,") {
		t.Errorf("dataurl body %.40q", rec.Body.String())
	}
}

func TestHandler_NotFound(t *testing.T) {
	r := NewHandler(false).Router()
	for _, path := range []string{
		"/map/0f0f0f0f-0000-0000-0000-000000000000.png",
		"/map/abc.json",
		"/map/nothex!.png",
		"/nope",
	} {
		ttesting.AssertEqualInt(t, path, get(t, r, path).Code, http.StatusNotFound)
	}
}

func TestHandler_EmptyList(t *testing.T) {
	rec := get(t, NewHandler(true).Router(), "/maps")
	ttesting.AssertEqualString(t, "body", strings.TrimSpace(rec.Body.String()), "[]")
}
