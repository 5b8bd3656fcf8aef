// Package feature classifies raw geographic features into thematic categories
// and extracts the fields used for styling and popups.
package feature

import (
	"fmt"
)

// Category is the thematic classification of a feature source.
type Category string

// Known categories.
const (
	TransitStop     Category = "transit_stop"
	TransitLine     Category = "transit_line"
	PedestrianZone  Category = "pedestrian_zone"
	PointOfInterest Category = "point_of_interest"
	Accommodation   Category = "accommodation"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	TransitStop,
	TransitLine,
	PedestrianZone,
	PointOfInterest,
	Accommodation,
}

// Attribute keys used by the Vienna open-data WFS sources.
const (
	KeyLineID       = "LINE_ID"
	KeyLineName     = "LINE_NAME"
	KeyStationID    = "STAT_ID"
	KeyStationName  = "STAT_NAME"
	KeyFromName     = "FROM_NAME"
	KeyToName       = "TO_NAME"
	KeyAddress      = "ADRESSE"
	KeyPeriod       = "ZEITRAUM"
	KeyExceptions   = "AUSN_TEXT"
	KeyThumbnail    = "THUMBNAIL"
	KeyMoreInfo     = "WEITERE_INF"
	KeyName         = "NAME"
	KeyBusiness     = "BETRIEB"
	KeyBusinessType = "BETRIEBSART_TXT"
	KeyRating       = "KATEGORIE_TXT"
	KeyPhone        = "KONTAKT_TEL"
	KeyEmail        = "KONTAKT_EMAIL"
	KeyWebsite      = "WEBLINK1"
)

// Family is the kind of geometry a category renders.
type Family int

// Geometry families.
const (
	FamilyPoint Family = iota
	FamilyPath
	FamilyArea
)

func (f Family) String() string {
	switch f {
	case FamilyPoint:
		return "point"
	case FamilyPath:
		return "path"
	case FamilyArea:
		return "area"
	default:
		return "unknown"
	}
}

// Accepts reports whether a GeoJSON geometry type renders in this family.
func (f Family) Accepts(geometryType string) bool {
	for _, t := range familyGeometries[f] {
		if t == geometryType {
			return true
		}
	}
	return false
}

var familyGeometries = map[Family][]string{
	FamilyPoint: {"Point"},
	FamilyPath:  {"LineString", "MultiLineString"},
	FamilyArea:  {"Polygon", "MultiPolygon"},
}

// Schema lists the attribute keys a category's records are expected to carry.
// Required keys feed titles and identity fields; their absence is tolerated
// and only reported for diagnostics.
type Schema struct {
	Required []string
	Optional []string
	Family   Family
}

var schemas = map[Category]Schema{
	TransitStop: {
		Required: []string{KeyLineName, KeyStationName},
		Optional: []string{KeyLineID, KeyStationID},
		Family:   FamilyPoint,
	},
	TransitLine: {
		Required: []string{KeyLineName, KeyFromName, KeyToName},
		Optional: []string{KeyLineID},
		Family:   FamilyPath,
	},
	PedestrianZone: {
		Required: []string{KeyAddress},
		Optional: []string{KeyPeriod, KeyExceptions},
		Family:   FamilyArea,
	},
	PointOfInterest: {
		Required: []string{KeyName, KeyAddress},
		Optional: []string{KeyThumbnail, KeyMoreInfo},
		Family:   FamilyPoint,
	},
	Accommodation: {
		Required: []string{KeyBusiness, KeyAddress},
		Optional: []string{KeyBusinessType, KeyRating, KeyPhone, KeyEmail, KeyWebsite},
		Family:   FamilyPoint,
	},
}

// Schema returns the attribute schema of the category. Unknown categories
// get an empty point schema.
func (c Category) Schema() Schema {
	if s, ok := schemas[c]; ok {
		return s
	}
	return Schema{Family: FamilyPoint}
}

// Family returns the geometry family features of this category render as.
func (c Category) Family() Family {
	return c.Schema().Family
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := schemas[c]
	return ok
}

// ParseCategory converts a text identifier into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// UnmarshalText implements encoding.TextUnmarshaler for config decoding.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
