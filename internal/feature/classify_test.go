package feature

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func newFeature(g orb.Geometry, props geojson.Properties) *geojson.Feature {
	f := geojson.NewFeature(g)
	f.Properties = props
	return f
}

func TestClassify_LineID(t *testing.T) {
	line := orb.LineString{{16.3, 48.2}, {16.4, 48.2}}
	tests := []struct {
		name  string
		props geojson.Properties
		want  string
	}{
		{name: "string id", props: geojson.Properties{KeyLineID: "3"}, want: "3"},
		{name: "numeric id", props: geojson.Properties{KeyLineID: float64(4)}, want: "4"},
		{name: "padded id", props: geojson.Properties{KeyLineID: " 2 "}, want: "2"},
		{name: "missing", props: geojson.Properties{}, want: UnknownLine},
		{name: "null", props: geojson.Properties{KeyLineID: nil}, want: UnknownLine},
		{name: "object", props: geojson.Properties{KeyLineID: map[string]interface{}{}}, want: UnknownLine},
		{name: "nil properties", props: nil, want: UnknownLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(0, newFeature(line, tt.props), TransitLine)
			if c.LineID != tt.want {
				t.Fatalf("LineID = %q, want %q", c.LineID, tt.want)
			}
			if c.Category != TransitLine {
				t.Fatalf("Category = %q", c.Category)
			}
		})
	}
}

func TestParseStars(t *testing.T) {
	tests := map[string]Stars{
		"0*":             Stars0,
		"1*":             Stars1,
		"2*":             Stars2,
		"3*":             Stars3,
		"4*":             Stars4,
		" 5* ":           Stars5,
		"":               Stars0,
		"6*":             Stars0,
		"3 Sterne":       Stars0,
		"Jugendherberge": Stars0,
	}
	for in, want := range tests {
		if got := ParseStars(in); got != want {
			t.Errorf("ParseStars(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassify_AccommodationFields(t *testing.T) {
	f := newFeature(orb.Point{16.37, 48.21}, geojson.Properties{
		KeyBusiness: "Hotel Am Dom",
		KeyRating:   "4*",
	})
	f.ID = "UNTERKUNFTOGD.7"

	c := Classify(5, f, Accommodation)
	if c.Name != "Hotel Am Dom" || c.Stars != Stars4 || c.ID != "UNTERKUNFTOGD.7" || c.Index != 5 {
		t.Fatalf("unexpected classification: %+v", c)
	}
	if len(c.Missing) != 1 || c.Missing[0] != KeyAddress {
		t.Fatalf("expected ADRESSE reported missing, got %v", c.Missing)
	}
	if c.Address != "" {
		t.Fatalf("missing address should read empty, got %q", c.Address)
	}
}

func TestClassify_NilFeature(t *testing.T) {
	c := Classify(2, nil, PedestrianZone)
	if c.Category != PedestrianZone || c.Index != 2 || c.Geometry != nil {
		t.Fatalf("unexpected classification: %+v", c)
	}
}

func TestCategory(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Fatalf("category %q should be valid", c)
		}
		parsed, err := ParseCategory(string(c))
		if err != nil || parsed != c {
			t.Fatalf("ParseCategory(%q) = %q, %v", c, parsed, err)
		}
	}
	if _, err := ParseCategory("tram_depot"); err == nil {
		t.Fatalf("expected error for unknown category")
	}

	var c Category
	if err := c.UnmarshalText([]byte("accommodation")); err != nil || c != Accommodation {
		t.Fatalf("UnmarshalText: %q, %v", c, err)
	}

	if !TransitLine.Family().Accepts("MultiLineString") || TransitLine.Family().Accepts("Point") {
		t.Fatalf("transit line family mismatch")
	}
	if !PedestrianZone.Family().Accepts("Polygon") || !TransitStop.Family().Accepts("Point") {
		t.Fatalf("family mismatch")
	}
}
