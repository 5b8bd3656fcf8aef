// Package mapview holds the visible composition of the map: the set of
// layer groups currently drawn.
package mapview

import (
	"sort"
	"sync"

	"github.com/woozymasta/citymap/internal/layer"
)

// View is an in-memory composition. Adding an existing name swaps its group.
type View struct {
	groups map[string]*layer.Layer
	mu     sync.RWMutex
}

// New creates an empty view.
func New() *View {
	return &View{groups: make(map[string]*layer.Layer)}
}

// Add puts a layer group into the composition.
func (v *View) Add(name string, l *layer.Layer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.groups[name] = l
}

// Remove takes a layer group out of the composition.
func (v *View) Remove(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.groups, name)
}

// Has reports whether name is in the composition.
func (v *View) Has(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.groups[name]
	return ok
}

// Layer returns the group drawn under name.
func (v *View) Layer(name string) (*layer.Layer, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	l, ok := v.groups[name]
	return l, ok
}

// Names returns the composed group names sorted alphabetically.
func (v *View) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.groups))
	for name := range v.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
