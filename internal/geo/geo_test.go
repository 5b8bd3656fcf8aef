package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestParse_KeepsInvalidMembersInPlace(t *testing.T) {
	body := []byte(`{
		"type": "FeatureCollection",
		"totalFeatures": 3,
		"features": [
			{"type": "Feature", "id": "A.1", "geometry": {"type": "Point", "coordinates": [16.37, 48.20]}, "properties": {"NAME": "One"}},
			{"type": "Feature", "id": "A.2", "geometry": {"type": "Blob", "coordinates": 7}, "properties": {}},
			{"type": "Feature", "id": 3, "geometry": {"type": "LineString", "coordinates": [[16.3, 48.2], [16.4, 48.3]]}, "properties": null}
		]
	}`)

	c, err := Parse(body)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	if c.Entries[0].Feature == nil || FeatureID(c.Entries[0].Feature) != "A.1" {
		t.Fatalf("unexpected first entry: %+v", c.Entries[0])
	}
	if c.Entries[1].Err == nil || c.Entries[1].Index != 1 {
		t.Fatalf("expected second entry to carry a decode error, got %+v", c.Entries[1])
	}
	if c.Entries[2].Feature == nil || FeatureID(c.Entries[2].Feature) != "3" {
		t.Fatalf("unexpected third entry: %+v", c.Entries[2])
	}
}

func TestParse_RejectsNonCollections(t *testing.T) {
	cases := map[string]string{
		"not json":      `<ExceptionReport/>`,
		"wrong type":    `{"type": "Feature", "features": []}`,
		"missing array": `{"type": "FeatureCollection"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(body)); err == nil {
				t.Fatalf("expected error for %q", body)
			}
		})
	}

	_, err := Parse([]byte(`{"type": "Topology", "features": []}`))
	if !errors.Is(err, ErrNotFeatureCollection) {
		t.Fatalf("expected ErrNotFeatureCollection, got %v", err)
	}
}

func TestString(t *testing.T) {
	props := geojson.Properties{
		"s":      "Ring",
		"n":      float64(3),
		"f":      2.5,
		"b":      true,
		"null":   nil,
		"obj":    map[string]interface{}{"x": 1},
		"arr":    []interface{}{1, 2},
		"spaces": "  ",
	}

	want := map[string]string{
		"s":       "Ring",
		"n":       "3",
		"f":       "2.5",
		"b":       "true",
		"null":    "",
		"obj":     "",
		"arr":     "",
		"missing": "",
		"spaces":  "  ",
	}
	for key, w := range want {
		if got := String(props, key); got != w {
			t.Errorf("String(%q) = %q, want %q", key, got, w)
		}
	}

	if Has(props, "null") || !Has(props, "s") {
		t.Fatalf("Has mismatch")
	}
}

func TestPixel(t *testing.T) {
	x, y := Pixel(orb.Point{0, 0}, 0)
	if math.Abs(x-128) > 1e-9 || math.Abs(y-128) > 1e-9 {
		t.Fatalf("origin at zoom 0 should be tile center, got %f,%f", x, y)
	}

	x1, _ := Pixel(orb.Point{16.37, 48.2}, 10)
	x2, _ := Pixel(orb.Point{16.37, 48.2}, 11)
	if math.Abs(x2-2*x1) > 1e-6 {
		t.Fatalf("pixel x should double per zoom level: %f vs %f", x1, x2)
	}

	_, yTop := Pixel(orb.Point{0, 89.9}, 0)
	if yTop < -1e-6 {
		t.Fatalf("latitude should be clamped, got y=%f", yTop)
	}
}
