// Package metrics exposes prometheus collectors for layer loading and use.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citymap_fetch_total",
		Help: "Layer loads by result (ok, fetch_error, parse_error)",
	}, []string{"layer", "result"})
	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "citymap_fetch_duration_seconds",
		Help:    "Duration of fetch, parse and build per layer",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"layer"})
	FeaturesRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citymap_features_rendered_total",
		Help: "Features turned into visual elements",
	}, []string{"layer"})
	FeatureWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citymap_feature_warnings_total",
		Help: "Features skipped with a render warning",
	}, []string{"layer"})
	LayerToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citymap_layer_toggles_total",
		Help: "Layer toggles by resulting state",
	}, []string{"layer", "state"})
)

func init() {
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(FeaturesRendered)
	prometheus.MustRegister(FeatureWarnings)
	prometheus.MustRegister(LayerToggles)
}

// Handler returns the prometheus scrape handler.
func Handler() http.Handler { return promhttp.Handler() }
