package server

import (
	"context"
	"net/http"

	"github.com/woozymasta/citymap/internal/config"
	"github.com/woozymasta/citymap/internal/fetch"
	"github.com/woozymasta/citymap/internal/mapview"
	"github.com/woozymasta/citymap/internal/metrics"
	"github.com/woozymasta/citymap/internal/registry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Refresher re-runs the load pipeline of one configured layer.
type Refresher interface {
	Refresh(ctx context.Context, name string) (fetch.Result, error)
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Registry  *registry.Registry
	View      *mapview.View
	Refresher Refresher
	Icons     http.Handler
}

// NewServerContext wires the handlers to the composition root. Icons and
// refresher may be nil, which leaves their routes answering 404 and 501.
func NewServerContext(cfg *config.Config, reg *registry.Registry, view *mapview.View, refresher Refresher, icons http.Handler) *ServerContext {
	log.Info().
		Int("config_layers_count", len(cfg.Layers)).
		Float64("lat", cfg.Center.Lat).
		Float64("lng", cfg.Center.Lng).
		Int("zoom", cfg.Zoom).
		Msg("Initializing server context")

	return &ServerContext{
		Config:    cfg,
		Registry:  reg,
		View:      view,
		Refresher: refresher,
		Icons:     icons,
	}
}

// Routes builds the HTTP router.
func (s *ServerContext) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.HandleView)
		r.Get("/map", s.HandleMap)
		r.Get("/layers", s.HandleLayers)
		r.Route("/layers/{name}", func(r chi.Router) {
			r.Get("/", s.HandleLayer)
			r.Get("/geojson", s.HandleLayerGeoJSON)
			r.Get("/clusters", s.HandleClusters)
			r.Get("/elements/{index}/popup", s.HandlePopup)
			r.Post("/toggle", s.HandleToggle)
			r.Post("/refresh", s.HandleRefresh)
		})
	})

	if s.Icons != nil {
		r.Handle("/icons/{file}", s.Icons)
	}
	r.Handle("/metrics", metrics.Handler())

	return r
}
