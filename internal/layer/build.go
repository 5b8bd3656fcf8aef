package layer

import (
	"time"

	"github.com/woozymasta/citymap/internal/feature"
	"github.com/woozymasta/citymap/internal/geo"
	"github.com/woozymasta/citymap/internal/popup"
	"github.com/woozymasta/citymap/internal/style"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Options configure how a collection becomes a layer.
type Options struct {
	Name          string
	Title         string
	Category      feature.Category
	ClusterZoom   int
	ClusterRadius float64
	Cluster       bool
}

// Classifier tags a raw feature with its category.
type Classifier func(index int, f *geojson.Feature, c feature.Category) feature.Classified

// Builder turns collections into layers. Zero-value fields use the default
// classifier, resolver and formatter.
type Builder struct {
	Classify Classifier
	Resolve  style.Resolver
	Format   popup.Formatter
	Now      func() time.Time
}

// Build builds a layer with the default pipeline.
func Build(c *geo.Collection, opts Options) *Layer {
	return (&Builder{}).Build(c, opts)
}

// Build classifies, styles and formats every member of the collection.
// Members that cannot be rendered for the category are skipped and recorded
// as warnings; they never abort the rest of the collection.
func (b *Builder) Build(c *geo.Collection, opts Options) *Layer {
	classify, resolve, format, now := b.Classify, b.Resolve, b.Format, b.Now
	if classify == nil {
		classify = feature.Classify
	}
	if resolve == nil {
		resolve = style.Resolve
	}
	if format == nil {
		format = popup.Format
	}
	if now == nil {
		now = time.Now
	}

	l := &Layer{
		Name:          opts.Name,
		Title:         opts.Title,
		Category:      opts.Category,
		Clustered:     opts.Cluster,
		ClusterZoom:   opts.ClusterZoom,
		ClusterRadius: opts.ClusterRadius,
		Elements:      []Element{},
		BuiltAt:       now(),
	}
	if c == nil {
		return l
	}
	l.Source = c.Source
	l.Elements = make([]Element, 0, c.Len())

	family := opts.Category.Family()
	lineNames := map[string]string{}

	for _, entry := range c.Entries {
		if entry.Err != nil {
			l.Warnings = append(l.Warnings, Warning{
				Index:    entry.Index,
				Category: opts.Category,
				Reason:   "undecodable feature: " + entry.Err.Error(),
			})
			continue
		}

		f := entry.Feature
		if f.Geometry == nil {
			l.Warnings = append(l.Warnings, Warning{
				Index:    entry.Index,
				ID:       geo.FeatureID(f),
				Category: opts.Category,
				Reason:   "missing geometry",
			})
			continue
		}

		geomType := f.Geometry.GeoJSONType()
		if !family.Accepts(geomType) {
			l.Warnings = append(l.Warnings, Warning{
				Index:    entry.Index,
				ID:       geo.FeatureID(f),
				Category: opts.Category,
				Geometry: geomType,
				Reason:   "geometry " + geomType + " does not render as " + family.String(),
			})
			continue
		}

		cf := classify(entry.Index, f, opts.Category)
		el := Element{
			Index:    entry.Index,
			ID:       cf.ID,
			Geometry: f.Geometry,
			Style:    resolve(cf),
			Popup:    format(cf),
		}
		if p, ok := f.Geometry.(orb.Point); ok {
			el.Kind = ElementMarker
			el.Position = p
		} else {
			el.Kind = ElementPath
			el.Position = f.Geometry.Bound().Center()
		}
		l.Elements = append(l.Elements, el)

		if opts.Category == feature.TransitLine {
			lineNames[cf.LineID] = cf.Name
		}
	}

	l.Legend = buildLegend(lineNames)
	return l
}
