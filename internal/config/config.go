// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/woozymasta/citymap/internal/feature"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Center        LatLng        `yaml:"center" json:"center"`
	IconsDir      string        `yaml:"icons_dir,omitempty" json:"icons_dir,omitempty"`
	Layers        []Layer       `yaml:"layers" json:"layers"`
	Zoom          int           `yaml:"zoom,omitempty" json:"zoom"`
	Timeout       time.Duration `yaml:"timeout,omitempty" json:"-"`
	ClusterRadius float64       `yaml:"cluster_radius,omitempty" json:"cluster_radius,omitempty"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes,omitempty" json:"max_body_bytes,omitempty"`
}

// LatLng is a geographic position.
type LatLng struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// Layer represents a single thematic layer source.
type Layer struct {
	// defaults to true when omitted
	Attached *bool `yaml:"attached,omitempty" json:"attached,omitempty"`

	Name        string           `yaml:"name" json:"name"`
	Title       string           `yaml:"title,omitempty" json:"title"`
	Category    feature.Category `yaml:"category" json:"category"`
	URL         string           `yaml:"url" json:"url"`
	ClusterZoom int              `yaml:"cluster_zoom,omitempty" json:"cluster_zoom,omitempty"`
	Cluster     bool             `yaml:"cluster,omitempty" json:"cluster"`
}

// AttachedByDefault reports whether the layer starts on the map.
func (l Layer) AttachedByDefault() bool {
	return l.Attached == nil || *l.Attached
}

// Load reads and parses the YAML configuration file from the specified path.
// Omitted settings keep their built-in defaults; an empty layer list keeps
// the built-in layer table.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	defaults := cfg.Layers
	cfg.Layers = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Layers) == 0 {
		cfg.Layers = defaults
	}

	for i := range cfg.Layers {
		if cfg.Layers[i].Title == "" {
			cfg.Layers[i].Title = cfg.Layers[i].Name
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the layer table for usable entries.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Layers))

	for i, l := range c.Layers {
		switch {
		case l.Name == "":
			errs = append(errs, fmt.Errorf("layer %d: name is required", i))
		case seen[l.Name]:
			errs = append(errs, fmt.Errorf("layer %q: duplicate name", l.Name))
		}
		seen[l.Name] = true

		if !l.Category.Valid() {
			errs = append(errs, fmt.Errorf("layer %q: unknown category %q", l.Name, l.Category))
		}
		if l.URL == "" {
			errs = append(errs, fmt.Errorf("layer %q: url is required", l.Name))
		}
		if l.ClusterZoom < 0 {
			errs = append(errs, fmt.Errorf("layer %q: cluster_zoom must not be negative", l.Name))
		}
	}

	if c.Zoom < 0 {
		errs = append(errs, errors.New("zoom must not be negative"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("max_body_bytes must not be negative"))
	}

	return errors.Join(errs...)
}

// Layer returns the layer configured under name.
func (c *Config) Layer(name string) (Layer, bool) {
	for _, l := range c.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// Names returns the configured layer names in order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Layers))
	for i, l := range c.Layers {
		names[i] = l.Name
	}
	return names
}
