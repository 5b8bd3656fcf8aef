// Package registry tracks the thematic layers of a map and which of them are
// part of the visible composition.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/woozymasta/citymap/internal/layer"
)

// ErrUnknownLayer is returned for names that were never registered.
var ErrUnknownLayer = errors.New("unknown layer")

// Composition is the visible group set of the map engine.
type Composition interface {
	Add(name string, l *layer.Layer)
	Remove(name string)
}

// Entry is a registered layer and its attachment state.
type Entry struct {
	Layer    *layer.Layer
	Name     string
	Attached bool
}

type entry struct {
	Entry
	seq int
}

// Registry holds named layers and keeps their attachment in sync with the
// composition. It is safe for concurrent use.
type Registry struct {
	view    Composition
	rank    map[string]int
	entries map[string]*entry
	mu      sync.RWMutex
	seq     int
}

// New creates a registry bound to view. Names listed in order are presented
// in that order regardless of when they register; other names follow in
// registration order.
func New(view Composition, order ...string) *Registry {
	if view == nil {
		view = nopComposition{}
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}
	return &Registry{
		view:    view,
		rank:    rank,
		entries: make(map[string]*entry),
	}
}

// Register adds a layer. Registering an existing name replaces its layer in
// place and keeps its attachment state; attachedByDefault applies only to
// new names.
func (r *Registry) Register(name string, l *layer.Layer, attachedByDefault bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok {
		e.Layer = l
		if e.Attached {
			r.view.Add(name, l)
		}
		return
	}

	e := &entry{Entry: Entry{Name: name, Layer: l, Attached: attachedByDefault}, seq: r.seq}
	r.seq++
	r.entries[name] = e
	if attachedByDefault {
		r.view.Add(name, l)
	}
}

// Toggle attaches a detached layer or detaches an attached one and returns
// the new state.
func (r *Registry) Toggle(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownLayer, name)
	}

	if e.Attached {
		r.view.Remove(name)
	} else {
		r.view.Add(name, e.Layer)
	}
	e.Attached = !e.Attached
	return e.Attached, nil
}

// IsAttached reports whether name is part of the composition. Unknown names
// are never attached.
func (r *Registry) IsAttached(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	return ok && e.Attached
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Entry{}, false
	}
	return e.Entry, true
}

// Entries returns all entries in presentation order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return r.less(sorted[i], sorted[j])
	})

	out := make([]Entry, len(sorted))
	for i, e := range sorted {
		out[i] = e.Entry
	}
	return out
}

// Attached returns the attached entries in stacking order.
func (r *Registry) Attached() []Entry {
	all := r.Entries()
	out := all[:0]
	for _, e := range all {
		if e.Attached {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of registered layers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) less(a, b *entry) bool {
	ra, okA := r.rank[a.Name]
	rb, okB := r.rank[b.Name]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	default:
		return a.seq < b.seq
	}
}

type nopComposition struct{}

func (nopComposition) Add(string, *layer.Layer) {}
func (nopComposition) Remove(string)             {}
