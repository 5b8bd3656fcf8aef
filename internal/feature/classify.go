package feature

import (
	"strings"

	"github.com/woozymasta/citymap/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// UnknownLine is the line identifier used when a record carries none.
const UnknownLine = "unknown"

// Stars is a normalized accommodation rating token.
type Stars string

// Rating tokens as published in KATEGORIE_TXT.
const (
	Stars0 Stars = "0*"
	Stars1 Stars = "1*"
	Stars2 Stars = "2*"
	Stars3 Stars = "3*"
	Stars4 Stars = "4*"
	Stars5 Stars = "5*"
)

var knownStars = map[string]Stars{
	"0*": Stars0,
	"1*": Stars1,
	"2*": Stars2,
	"3*": Stars3,
	"4*": Stars4,
	"5*": Stars5,
}

// Classified is a feature tagged with its category and the derived fields
// styling and popups need.
type Classified struct {
	Geometry   orb.Geometry
	Properties geojson.Properties
	Category   Category
	ID         string
	LineID     string
	Stars      Stars
	Name       string
	Address    string
	Missing    []string
	Index      int
}

// Attr reads an attribute as display text, "" when absent.
func (c Classified) Attr(key string) string {
	return geo.String(c.Properties, key)
}

// Classify tags a feature with the category it was fetched for. It never
// fails: absent fields read as empty and sub-classifications fall back to
// their defaults.
func Classify(index int, f *geojson.Feature, category Category) Classified {
	c := Classified{
		Index:    index,
		Category: category,
	}
	if f == nil {
		return c
	}

	c.ID = geo.FeatureID(f)
	c.Geometry = f.Geometry
	c.Properties = f.Properties

	switch category {
	case TransitStop:
		c.LineID = lineID(f.Properties)
		c.Name = c.Attr(KeyStationName)
	case TransitLine:
		c.LineID = lineID(f.Properties)
		c.Name = c.Attr(KeyLineName)
	case PedestrianZone:
		c.Address = c.Attr(KeyAddress)
	case PointOfInterest:
		c.Name = c.Attr(KeyName)
		c.Address = c.Attr(KeyAddress)
	case Accommodation:
		c.Name = c.Attr(KeyBusiness)
		c.Address = c.Attr(KeyAddress)
		c.Stars = ParseStars(c.Attr(KeyRating))
	}

	for _, key := range category.Schema().Required {
		if !geo.Has(f.Properties, key) {
			c.Missing = append(c.Missing, key)
		}
	}

	return c
}

// ParseStars maps a free-text rating to a star token. Anything outside
// "0*".."5*" is treated as unrated.
func ParseStars(text string) Stars {
	if s, ok := knownStars[strings.TrimSpace(text)]; ok {
		return s
	}
	return Stars0
}

func lineID(props geojson.Properties) string {
	id := strings.TrimSpace(geo.String(props, KeyLineID))
	if id == "" {
		return UnknownLine
	}
	return id
}
