package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/woozymasta/citymap/internal/config"
	"github.com/woozymasta/citymap/internal/layer"
	"github.com/woozymasta/citymap/internal/metrics"
	"github.com/woozymasta/citymap/internal/registry"

	"github.com/rs/zerolog/log"
)

// ErrUnknownSource is returned by Refresh for names missing from Sources.
var ErrUnknownSource = errors.New("unknown layer source")

// Result is the outcome of one layer's fetch, parse and build.
type Result struct {
	Err    error
	Layer  *layer.Layer
	Source config.Layer
}

// Pipeline runs fetch, parse and build for configured layer sources and
// inserts the built layers into the registry.
type Pipeline struct {
	Loader   Loader
	Builder  *layer.Builder
	Registry *registry.Registry
	Sources  []config.Layer

	ClusterRadius float64
}

// LoadAll runs every source concurrently and waits for all of them. Results
// are returned in source order. A failed source leaves its registry entry
// absent and does not affect the others.
func (p *Pipeline) LoadAll(ctx context.Context) []Result {
	results := make([]Result, len(p.Sources))

	var wg sync.WaitGroup
	for i, src := range p.Sources {
		wg.Add(1)
		go func(i int, src config.Layer) {
			defer wg.Done()
			results[i] = p.Run(ctx, src)
		}(i, src)
	}
	wg.Wait()

	return results
}

// Refresh re-runs the named source. On failure the registered layer, if any,
// stays as it was.
func (p *Pipeline) Refresh(ctx context.Context, name string) (Result, error) {
	for _, src := range p.Sources {
		if src.Name == name {
			res := p.Run(ctx, src)
			return res, res.Err
		}
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnknownSource, name)
}

// Run fetches, parses and builds one source and registers the layer.
func (p *Pipeline) Run(ctx context.Context, src config.Layer) Result {
	start := time.Now()
	res := Result{Source: src}

	coll, err := p.Loader.Load(ctx, src.Category, src.URL)
	if err != nil {
		metrics.FetchDuration.WithLabelValues(src.Name).Observe(time.Since(start).Seconds())
		res.Err = err
		metrics.FetchTotal.WithLabelValues(src.Name, resultLabel(err)).Inc()
		log.Error().
			Err(err).
			Str("layer", src.Name).
			Str("category", string(src.Category)).
			Msg("Failed to load layer")
		return res
	}

	builder := p.Builder
	if builder == nil {
		builder = &layer.Builder{}
	}
	l := builder.Build(coll, layer.Options{
		Name:          src.Name,
		Title:         src.Title,
		Category:      src.Category,
		Cluster:       src.Cluster,
		ClusterZoom:   src.ClusterZoom,
		ClusterRadius: p.ClusterRadius,
	})
	res.Layer = l
	metrics.FetchDuration.WithLabelValues(src.Name).Observe(time.Since(start).Seconds())

	for _, w := range l.Warnings {
		log.Warn().
			Str("layer", src.Name).
			Int("index", w.Index).
			Str("id", w.ID).
			Str("geometry", w.Geometry).
			Msg("Feature skipped: " + w.Reason)
	}

	metrics.FetchTotal.WithLabelValues(src.Name, "ok").Inc()
	metrics.FeaturesRendered.WithLabelValues(src.Name).Add(float64(len(l.Elements)))
	metrics.FeatureWarnings.WithLabelValues(src.Name).Add(float64(len(l.Warnings)))

	if p.Registry != nil {
		p.Registry.Register(src.Name, l, src.AttachedByDefault())
	}

	log.Info().
		Str("layer", src.Name).
		Str("category", string(src.Category)).
		Int("features", coll.Len()).
		Int("elements", len(l.Elements)).
		Int("warnings", len(l.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("Layer loaded")

	return res
}

func resultLabel(err error) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return "parse_error"
	}
	return "fetch_error"
}
