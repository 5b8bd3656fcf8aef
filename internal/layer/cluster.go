package layer

import (
	"math"

	"github.com/woozymasta/citymap/internal/geo"

	"github.com/paulmach/orb"
)

// DefaultClusterRadius is the maximum pixel distance between a cluster's
// seed marker and its members.
const DefaultClusterRadius = 80.0

// ClusterOptions control marker grouping.
type ClusterOptions struct {
	// Radius in screen pixels; DefaultClusterRadius when zero.
	Radius float64
	// DisableAtZoom turns clustering off at this zoom and above; zero keeps
	// clustering at every zoom.
	DisableAtZoom int
	Enabled       bool
}

// Cluster is a group of markers drawn as one representative marker.
// Members holds source indices of the grouped elements.
type Cluster struct {
	Members []int      `json:"members"`
	Bounds  [4]float64 `json:"bbox"`
	Center  orb.Point  `json:"center"`
	Count   int        `json:"count"`
}

type cellKey struct {
	x, y int
}

type seed struct {
	x, y float64
}

// ClusterMarkers groups markers in screen space at the given zoom. Markers are
// visited in order and join the earliest cluster whose seed lies within the
// radius; otherwise they seed a new cluster. The result depends only on the
// arguments, so it can be recomputed on every zoom change.
func ClusterMarkers(markers []Element, zoom int, opts ClusterOptions) []Cluster {
	if !opts.Enabled || (opts.DisableAtZoom > 0 && zoom >= opts.DisableAtZoom) {
		return singletons(markers)
	}

	radius := opts.Radius
	if radius <= 0 {
		radius = DefaultClusterRadius
	}

	clusters := make([]Cluster, 0, len(markers))
	seeds := make([]seed, 0, len(markers))
	grid := make(map[cellKey][]int)

	for _, m := range markers {
		x, y := geo.Pixel(m.Position, zoom)
		cell := cellKey{x: int(math.Floor(x / radius)), y: int(math.Floor(y / radius))}

		best := -1
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, ci := range grid[cellKey{x: cell.x + dx, y: cell.y + dy}] {
					if best >= 0 && ci > best {
						continue
					}
					if math.Hypot(seeds[ci].x-x, seeds[ci].y-y) <= radius {
						best = ci
					}
				}
			}
		}

		if best < 0 {
			best = len(clusters)
			clusters = append(clusters, Cluster{})
			seeds = append(seeds, seed{x: x, y: y})
			grid[cell] = append(grid[cell], best)
		}
		clusters[best].add(m)
	}

	for i := range clusters {
		clusters[i].finish()
	}
	return clusters
}

func singletons(markers []Element) []Cluster {
	clusters := make([]Cluster, len(markers))
	for i, m := range markers {
		clusters[i].add(m)
		clusters[i].finish()
	}
	return clusters
}

func (c *Cluster) add(m Element) {
	p := m.Position
	if c.Count == 0 {
		c.Bounds = [4]float64{p.Lon(), p.Lat(), p.Lon(), p.Lat()}
	} else {
		c.Bounds[0] = math.Min(c.Bounds[0], p.Lon())
		c.Bounds[1] = math.Min(c.Bounds[1], p.Lat())
		c.Bounds[2] = math.Max(c.Bounds[2], p.Lon())
		c.Bounds[3] = math.Max(c.Bounds[3], p.Lat())
	}
	// Center accumulates the coordinate sum until finish.
	c.Center[0] += p.Lon()
	c.Center[1] += p.Lat()
	c.Count++
	c.Members = append(c.Members, m.Index)
}

func (c *Cluster) finish() {
	if c.Count == 0 {
		return
	}
	c.Center[0] /= float64(c.Count)
	c.Center[1] /= float64(c.Count)
}
