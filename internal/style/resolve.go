package style

import (
	"github.com/woozymasta/citymap/internal/feature"
)

// Icon ids referenced by marker styles.
const (
	IconBusStop  = "bus"
	IconPhoto    = "photo"
	IconFallback = "marker"
)

// NeutralLineColor is used for lines missing from LineColors.
const NeutralLineColor = "#111111"

// DefaultAccommodationIcon covers unrated and unrecognized ratings.
const DefaultAccommodationIcon = "hotel_0star"

// PedestrianZoneColor is the stroke and fill color of pedestrian zones.
const PedestrianZoneColor = "#F012BE"

// LineColors is the sightseeing line palette (https://clrs.cc/).
var LineColors = map[string]string{
	"1": "#FF4136", // red
	"2": "#FFDC00", // yellow
	"3": "#0074D9", // blue
	"4": "#2ECC40", // green
	"5": "#AAAAAA", // grey
	"6": "#FF851B", // orange
}

// AccommodationIcons maps every star token to one of six icon tiers.
var AccommodationIcons = map[feature.Stars]string{
	feature.Stars0: DefaultAccommodationIcon,
	feature.Stars1: "hotel_1star",
	feature.Stars2: "hotel_2stars",
	feature.Stars3: "hotel_3stars",
	feature.Stars4: "hotel_4stars",
	feature.Stars5: "hotel_5stars",
}

var (
	markerIconAnchor  = Offset{X: 16, Y: 37}
	markerPopupAnchor = Offset{X: 0, Y: -37}
)

var resolvers = map[feature.Category]Resolver{
	feature.TransitStop:     transitStop,
	feature.TransitLine:     transitLine,
	feature.PedestrianZone:  pedestrianZone,
	feature.PointOfInterest: pointOfInterest,
	feature.Accommodation:   accommodation,
}

// Resolve returns the style of a classified feature. It is total: every
// input, including unknown categories and unmatched keys, yields a visible
// style.
func Resolve(c feature.Classified) Style {
	if r, ok := resolvers[c.Category]; ok {
		return r(c)
	}
	return marker(IconFallback)
}

// LineColor returns the palette color of a line id, NeutralLineColor when
// the id is not in the palette.
func LineColor(lineID string) string {
	if color, ok := LineColors[lineID]; ok {
		return color
	}
	return NeutralLineColor
}

// AccommodationIcon returns the icon tier for a star token.
func AccommodationIcon(stars feature.Stars) string {
	if icon, ok := AccommodationIcons[stars]; ok {
		return icon
	}
	return DefaultAccommodationIcon
}

// StopIcon returns the per-line bus icon when the line is in the palette,
// the shared bus icon otherwise.
func StopIcon(lineID string) string {
	if _, ok := LineColors[lineID]; ok {
		return IconBusStop + "_" + lineID
	}
	return IconBusStop
}

func marker(icon string) Style {
	return Style{
		Kind: KindMarker,
		Marker: &Marker{
			Icon:        icon,
			IconAnchor:  markerIconAnchor,
			PopupAnchor: markerPopupAnchor,
		},
	}
}

func transitStop(c feature.Classified) Style {
	return marker(StopIcon(c.LineID))
}

func transitLine(c feature.Classified) Style {
	return Style{
		Kind: KindPath,
		Path: &Path{
			Color:     LineColor(c.LineID),
			Weight:    3,
			Opacity:   1,
			DashArray: []int{10, 4},
		},
	}
}

func pedestrianZone(feature.Classified) Style {
	return Style{
		Kind: KindPath,
		Path: &Path{
			Color:       PedestrianZoneColor,
			Weight:      1,
			Opacity:     0.4,
			Fill:        true,
			FillOpacity: 0.1,
		},
	}
}

func pointOfInterest(feature.Classified) Style {
	return marker(IconPhoto)
}

func accommodation(c feature.Classified) Style {
	return marker(AccommodationIcon(c.Stars))
}
