package icons

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeIcon(t *testing.T, dir, id string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 0xFF, G: 0x41, B: 0x36, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, id+".png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStore_Path(t *testing.T) {
	s := New("icons")
	p, err := s.Path("hotel_3stars")
	if err != nil || p != filepath.Join("icons", "hotel_3stars.png") {
		t.Fatalf("Path = %q, %v", p, err)
	}

	for _, id := range []string{"", "../secret", "Bus", "bus.png", "a/b"} {
		if _, err := s.Path(id); !errors.Is(err, ErrInvalidIcon) {
			t.Errorf("Path(%q) should be invalid, got %v", id, err)
		}
	}
}

func TestStore_ServeHTTP(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, dir, "bus_1", 32, 37)
	s := New(dir)

	if !s.Exists("bus_1") || s.Exists("bus_9") {
		t.Fatalf("Exists mismatch")
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/icons/bus_1.png", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing etag")
	}

	req := httptest.NewRequest(http.MethodGet, "/icons/bus_1.png", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
	if rec.Header().Get("ETag") != etag {
		t.Fatalf("304 should repeat the etag, got %q", rec.Header().Get("ETag"))
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/icons/bus_1.png?size=16", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("resize failed: %d %s", rec.Code, rec.Body.String())
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dy() != 16 || b.Dx() != 13 {
		t.Fatalf("expected 13x16 after scale, got %v", b)
	}
	if rec.Header().Get("ETag") == etag {
		t.Fatalf("scaled icon must not share the source etag")
	}
}

func TestStore_ServeHTTPErrors(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, dir, "marker", 8, 8)
	s := New(dir)

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{"missing", "/icons/photo.png", http.StatusNotFound},
		{"extension", "/icons/marker.gif", http.StatusBadRequest},
		{"uppercase", "/icons/Marker.png", http.StatusBadRequest},
		{"size zero", "/icons/marker.png?size=0", http.StatusBadRequest},
		{"size text", "/icons/marker.png?size=big", http.StatusBadRequest},
		{"size too big", "/icons/marker.png?size=4096", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.code {
				t.Fatalf("%s: expected %d, got %d", tt.target, tt.code, rec.Code)
			}
		})
	}
}

func TestScale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 16))
	if b := scale(img, 32).Bounds(); b.Dx() != 32 || b.Dy() != 8 {
		t.Fatalf("unexpected bounds %v", b)
	}
}
