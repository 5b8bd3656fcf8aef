package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// TileSize is the edge length in pixels of one Web Mercator tile.
const TileSize = 256

// MaxLat bounds the latitude range representable in Web Mercator.
const MaxLat = 85.05112878

// Pixel projects a WGS84 point (lon, lat) to global Web Mercator pixel
// coordinates at the given zoom level. It is used for screen-distance
// decisions only; stored geometries are never reprojected.
func Pixel(p orb.Point, zoom int) (x, y float64) {
	worldSize := float64(TileSize) * math.Exp2(float64(zoom))

	lat := p.Lat()
	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	x = (p.Lon() + 180.0) / 360.0 * worldSize

	latRad := lat * math.Pi / 180.0
	mercatorY := math.Log(math.Tan(latRad) + 1/math.Cos(latRad))
	y = (1 - mercatorY/math.Pi) / 2 * worldSize

	return x, y
}
