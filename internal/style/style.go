// Package style resolves classified features to visual descriptors.
package style

import (
	"github.com/woozymasta/citymap/internal/feature"
)

// Kind distinguishes marker styles from path styles.
type Kind string

// Style kinds.
const (
	KindMarker Kind = "marker"
	KindPath   Kind = "path"
)

// Offset is a pixel offset relative to an icon's top-left corner.
type Offset struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Marker describes an icon marker. Icon is a logical asset identifier.
type Marker struct {
	Icon        string `json:"icon" yaml:"icon"`
	IconAnchor  Offset `json:"icon_anchor" yaml:"icon_anchor"`
	PopupAnchor Offset `json:"popup_anchor" yaml:"popup_anchor"`
}

// Path describes stroke and fill of line and polygon geometries.
type Path struct {
	Color       string  `json:"color" yaml:"color"`
	DashArray   []int   `json:"dash_array,omitempty" yaml:"dash_array,omitempty"`
	Weight      float64 `json:"weight" yaml:"weight"`
	Opacity     float64 `json:"opacity" yaml:"opacity"`
	FillOpacity float64 `json:"fill_opacity,omitempty" yaml:"fill_opacity,omitempty"`
	Fill        bool    `json:"fill" yaml:"fill"`
}

// Style is a resolved visual descriptor. Exactly one of Marker and Path is set,
// matching Kind.
type Style struct {
	Marker *Marker `json:"marker,omitempty" yaml:"marker,omitempty"`
	Path   *Path   `json:"path,omitempty" yaml:"path,omitempty"`
	Kind   Kind    `json:"kind" yaml:"kind"`
}

// Icon returns the marker icon id, or "" for path styles.
func (s Style) Icon() string {
	if s.Marker == nil {
		return ""
	}
	return s.Marker.Icon
}

// Color returns the path stroke color, or "" for marker styles.
func (s Style) Color() string {
	if s.Path == nil {
		return ""
	}
	return s.Path.Color
}

// Resolver maps a classified feature to its style.
type Resolver func(feature.Classified) Style
