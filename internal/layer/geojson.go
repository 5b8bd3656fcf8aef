package layer

import (
	"github.com/paulmach/orb/geojson"
)

// GeoJSON exports the layer as a feature collection whose properties carry
// the resolved style and popup of each element.
func (l *Layer) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range l.Elements {
		f := geojson.NewFeature(e.Geometry)
		if e.ID != "" {
			f.ID = e.ID
		}
		f.Properties["layer"] = l.Name
		f.Properties["category"] = string(l.Category)
		f.Properties["index"] = e.Index
		f.Properties["kind"] = string(e.Kind)
		f.Properties["style"] = e.Style
		f.Properties["popup"] = e.Popup
		fc.Append(f)
	}
	return fc
}
