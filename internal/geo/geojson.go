// Package geo handles geographic data structures and coordinate conversions.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

const featureCollectionType = "FeatureCollection"

// ErrNotFeatureCollection is returned by Parse when the body is valid JSON
// but does not describe a GeoJSON feature collection.
var ErrNotFeatureCollection = errors.New("not a feature collection")

// Collection is an ordered, immutable set of features fetched from one source.
type Collection struct {
	Source  string
	Entries []Entry
}

// Entry is one member of a collection. Exactly one of Feature and Err is set:
// members that fail to decode keep their position so callers can report them.
type Entry struct {
	Feature *geojson.Feature
	Err     error
	Index   int
}

type envelope struct {
	Type     string             `json:"type"`
	Features *[]json.RawMessage `json:"features"`
}

// Parse decodes a GeoJSON feature collection. The envelope must be valid;
// individual features are decoded independently and failures are recorded
// on their entry instead of failing the whole collection.
func Parse(data []byte) (*Collection, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if env.Type != featureCollectionType {
		return nil, fmt.Errorf("%w: type %q", ErrNotFeatureCollection, env.Type)
	}
	if env.Features == nil {
		return nil, fmt.Errorf("%w: features missing", ErrNotFeatureCollection)
	}

	raw := *env.Features
	c := &Collection{Entries: make([]Entry, 0, len(raw))}
	for i, msg := range raw {
		f, err := geojson.UnmarshalFeature(msg)
		if err != nil {
			c.Entries = append(c.Entries, Entry{Index: i, Err: err})
			continue
		}
		c.Entries = append(c.Entries, Entry{Index: i, Feature: f})
	}

	return c, nil
}

// Len returns the number of members, including undecodable ones.
func (c *Collection) Len() int {
	return len(c.Entries)
}

// FeatureID renders a feature identifier as text. GeoJSON allows string or
// numeric ids; a missing id yields an empty string.
func FeatureID(f *geojson.Feature) string {
	if f == nil || f.ID == nil {
		return ""
	}
	switch id := f.ID.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}
