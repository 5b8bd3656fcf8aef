// Package layer builds renderable thematic layers from feature collections.
package layer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/woozymasta/citymap/internal/feature"
	"github.com/woozymasta/citymap/internal/popup"
	"github.com/woozymasta/citymap/internal/style"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ElementKind is the visual element type produced for a feature.
type ElementKind string

// Element kinds.
const (
	ElementMarker ElementKind = "marker"
	ElementPath   ElementKind = "path"
)

// Element is one positioned, styled, popup-bound visual element.
type Element struct {
	Geometry orb.Geometry  `json:"-"`
	Popup    popup.Content `json:"popup"`
	ID       string        `json:"id,omitempty"`
	Kind     ElementKind   `json:"kind"`
	Style    style.Style   `json:"style"`
	Position orb.Point     `json:"position"`
	Index    int           `json:"index"`
}

// MarshalJSON adds the GeoJSON geometry to the element.
func (e Element) MarshalJSON() ([]byte, error) {
	type plain Element
	return json.Marshal(struct {
		plain
		Geometry *geojson.Geometry `json:"geometry"`
	}{
		plain:    plain(e),
		Geometry: geojson.NewGeometry(e.Geometry),
	})
}

// Warning records a feature that was skipped while building a layer.
type Warning struct {
	ID       string           `json:"id,omitempty"`
	Category feature.Category `json:"category"`
	Geometry string           `json:"geometry,omitempty"`
	Reason   string           `json:"reason"`
	Index    int              `json:"index"`
}

func (w Warning) String() string {
	if w.ID != "" {
		return fmt.Sprintf("feature %d (%s): %s", w.Index, w.ID, w.Reason)
	}
	return fmt.Sprintf("feature %d: %s", w.Index, w.Reason)
}

// LegendEntry describes one line of a transit line layer.
type LegendEntry struct {
	LineID string `json:"line_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// Layer is a named group of rendered elements built from one collection.
type Layer struct {
	BuiltAt       time.Time        `json:"built_at"`
	Name          string           `json:"name"`
	Title         string           `json:"title"`
	Category      feature.Category `json:"category"`
	Source        string           `json:"source,omitempty"`
	Elements      []Element        `json:"elements"`
	Legend        []LegendEntry    `json:"legend,omitempty"`
	Warnings      []Warning        `json:"warnings,omitempty"`
	ClusterZoom   int              `json:"cluster_zoom,omitempty"`
	ClusterRadius float64          `json:"-"`
	Clustered     bool             `json:"clustered"`
}

// Markers returns the point elements of the layer.
func (l *Layer) Markers() []Element {
	markers := make([]Element, 0, len(l.Elements))
	for _, e := range l.Elements {
		if e.Kind == ElementMarker {
			markers = append(markers, e)
		}
	}
	return markers
}

// Element returns the element built from the source member at index.
func (l *Layer) Element(index int) (Element, bool) {
	i := sort.Search(len(l.Elements), func(i int) bool { return l.Elements[i].Index >= index })
	if i < len(l.Elements) && l.Elements[i].Index == index {
		return l.Elements[i], true
	}
	return Element{}, false
}

// Clusters groups the layer's markers for the given zoom level.
func (l *Layer) Clusters(zoom int) []Cluster {
	return ClusterMarkers(l.Markers(), zoom, ClusterOptions{
		Enabled:       l.Clustered,
		DisableAtZoom: l.ClusterZoom,
		Radius:        l.ClusterRadius,
	})
}

func buildLegend(names map[string]string) []LegendEntry {
	if len(names) == 0 {
		return nil
	}
	legend := make([]LegendEntry, 0, len(names))
	for id, name := range names {
		legend = append(legend, LegendEntry{
			LineID: id,
			Name:   name,
			Color:  style.LineColor(id),
		})
	}
	sort.Slice(legend, func(i, j int) bool {
		return lessLineID(legend[i].LineID, legend[j].LineID)
	})
	return legend
}

// lessLineID orders numeric ids numerically and places them before others.
func lessLineID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
