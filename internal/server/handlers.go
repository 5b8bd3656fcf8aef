// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/woozymasta/citymap/internal/config"
	"github.com/woozymasta/citymap/internal/feature"
	"github.com/woozymasta/citymap/internal/fetch"
	"github.com/woozymasta/citymap/internal/layer"
	"github.com/woozymasta/citymap/internal/metrics"
	"github.com/woozymasta/citymap/internal/popup"
	"github.com/woozymasta/citymap/internal/registry"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MaxZoom is the highest zoom level accepted by the clusters endpoint.
const MaxZoom = 22

const etagCap = 64

type viewResponse struct {
	Center config.LatLng `json:"center"`
	Zoom   int           `json:"zoom"`
}

type layerSummary struct {
	BuiltAt   time.Time           `json:"built_at"`
	Name      string              `json:"name"`
	Title     string              `json:"title"`
	Category  feature.Category    `json:"category"`
	Legend    []layer.LegendEntry `json:"legend,omitempty"`
	Elements  int                 `json:"elements"`
	Warnings  int                 `json:"warnings"`
	Attached  bool                `json:"attached"`
	Clustered bool                `json:"clustered"`
}

type layerResponse struct {
	*layer.Layer
	Attached bool `json:"attached"`
}

type clustersResponse struct {
	Name     string          `json:"name"`
	Clusters []layer.Cluster `json:"clusters"`
	Zoom     int             `json:"zoom"`
}

type toggleResponse struct {
	Name     string `json:"name"`
	Attached bool   `json:"attached"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleView serves the initial map center and zoom.
func (s *ServerContext) HandleView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, viewResponse{Center: s.Config.Center, Zoom: s.Config.Zoom})
}

// HandleLayers lists every registered layer in presentation order.
func (s *ServerContext) HandleLayers(w http.ResponseWriter, r *http.Request) {
	entries := s.Registry.Entries()
	out := make([]layerSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, summarize(e))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// HandleMap lists the attached layers in stacking order.
func (s *ServerContext) HandleMap(w http.ResponseWriter, r *http.Request) {
	entries := s.Registry.Attached()
	out := make([]layerSummary, 0, len(entries))
	for _, e := range entries {
		if s.View != nil && !s.View.Has(e.Name) {
			log.Warn().Str("layer", e.Name).Msg("Attached layer missing from view")
			continue
		}
		out = append(out, summarize(e))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// HandleLayer serves the elements of one layer.
func (s *ServerContext) HandleLayer(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if s.notModified(w, r, e.Layer, "json") {
		return
	}
	s.writeJSON(w, http.StatusOK, layerResponse{Layer: e.Layer, Attached: e.Attached})
}

// HandleLayerGeoJSON serves the layer as a styled feature collection.
func (s *ServerContext) HandleLayerGeoJSON(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if s.notModified(w, r, e.Layer, "geojson") {
		return
	}

	data, err := e.Layer.GeoJSON().MarshalJSON()
	if err != nil {
		log.Error().Err(err).Str("layer", e.Name).Msg("Failed to encode layer geojson")
		s.writeError(w, http.StatusInternalServerError, "encode_failed", "failed to encode layer")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

// HandleClusters serves the marker clusters of a layer for ?zoom=N.
func (s *ServerContext) HandleClusters(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	zoom, err := strconv.Atoi(r.URL.Query().Get("zoom"))
	if err != nil || zoom < 0 || zoom > MaxZoom {
		s.writeError(w, http.StatusBadRequest, "invalid_zoom", "zoom must be an integer between 0 and "+strconv.Itoa(MaxZoom))
		return
	}

	s.writeJSON(w, http.StatusOK, clustersResponse{
		Name:     e.Name,
		Zoom:     zoom,
		Clusters: e.Layer.Clusters(zoom),
	})
}

// HandlePopup serves the popup HTML fragment of one element.
func (s *ServerContext) HandlePopup(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		s.writeError(w, http.StatusBadRequest, "invalid_index", "index must be a non-negative integer")
		return
	}

	el, found := e.Layer.Element(index)
	if !found {
		s.writeError(w, http.StatusNotFound, "not_found", "no element for feature "+strconv.Itoa(index))
		return
	}

	html, err := popup.RenderHTML(el.Popup)
	if err != nil {
		log.Error().Err(err).Str("layer", e.Name).Int("index", index).Msg("Failed to render popup")
		s.writeError(w, http.StatusInternalServerError, "render_failed", "failed to render popup")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// HandleToggle flips the attachment of a layer.
func (s *ServerContext) HandleToggle(w http.ResponseWriter, r *http.Request) {
	name := layerName(r)
	attached, err := s.Registry.Toggle(name)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}

	state := "detached"
	if attached {
		state = "attached"
	}
	metrics.LayerToggles.WithLabelValues(name, state).Inc()
	log.Info().Str("layer", name).Str("state", state).Msg("Layer toggled")

	s.writeJSON(w, http.StatusOK, toggleResponse{Name: name, Attached: attached})
}

// HandleRefresh refetches and rebuilds a configured layer. A failed refresh
// leaves the registered layer untouched.
func (s *ServerContext) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.Refresher == nil {
		s.writeError(w, http.StatusNotImplemented, "not_supported", "refresh is not available")
		return
	}

	name := layerName(r)
	_, err := s.Refresher.Refresh(r.Context(), name)
	switch {
	case errors.Is(err, fetch.ErrUnknownSource):
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusBadGateway, "refresh_failed", err.Error())
		return
	}

	e, ok := s.Registry.Get(name)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "refresh_failed", "layer not registered after refresh")
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(e))
}

func (s *ServerContext) lookup(w http.ResponseWriter, r *http.Request) (registry.Entry, bool) {
	name := layerName(r)
	e, ok := s.Registry.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "not_found", registry.ErrUnknownLayer.Error()+": "+name)
		return registry.Entry{}, false
	}
	return e, true
}

func (s *ServerContext) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, registry.ErrUnknownLayer) {
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	s.writeError(w, http.StatusInternalServerError, "internal", err.Error())
}

// notModified sets the layer ETag and answers 304 when the client has it.
// Layers are immutable once built, so the build time identifies the body.
func (s *ServerContext) notModified(w http.ResponseWriter, r *http.Request, l *layer.Layer, variant string) bool {
	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = append(buf, variant...)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, l.BuiltAt.UnixNano(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, int64(len(l.Elements)), 16)
	buf = append(buf, '"')
	etag := string(buf)

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (s *ServerContext) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func (s *ServerContext) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func layerName(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "name"))
}

func summarize(e registry.Entry) layerSummary {
	l := e.Layer
	return layerSummary{
		Name:      e.Name,
		Title:     l.Title,
		Category:  l.Category,
		Attached:  e.Attached,
		Clustered: l.Clustered,
		Elements:  len(l.Elements),
		Warnings:  len(l.Warnings),
		Legend:    l.Legend,
		BuiltAt:   l.BuiltAt,
	}
}
