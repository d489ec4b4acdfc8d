package maptile

import (
	"fmt"
	"math"
)

// Zoom fixes the tile grid. At zoom 12 a tile spans ~0.088 degrees,
// roughly a city district, which keeps the key space small and cache
// hits frequent while panning.
const Zoom = 12

// Step is the tile edge length in degrees.
const Step = 360.0 / (1 << Zoom)

// Tile is one cell of the fixed geographic grid.
type Tile struct {
	X int // longitude index
	Y int // latitude index
}

// Key is the cache key for a tile.
func (t Tile) Key() string {
	return fmt.Sprintf("tile:%d:%d:%d", Zoom, t.X, t.Y)
}

// Bounds returns the tile's coordinate box [min, max).
func (t Tile) Bounds() (minLat, maxLat, minLng, maxLng float64) {
	minLat = float64(t.Y) * Step
	minLng = float64(t.X) * Step
	return minLat, minLat + Step, minLng, minLng + Step
}

// At returns the tile containing a coordinate.
func At(lat, lng float64) Tile {
	return Tile{
		X: int(math.Floor(lng / Step)),
		Y: int(math.Floor(lat / Step)),
	}
}

// Cover returns every tile intersecting the viewport box.
func Cover(minLat, maxLat, minLng, maxLng float64) []Tile {
	lo := At(minLat, minLng)
	hi := At(maxLat, maxLng)

	tiles := make([]Tile, 0, (hi.X-lo.X+1)*(hi.Y-lo.Y+1))
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			tiles = append(tiles, Tile{X: x, Y: y})
		}
	}
	return tiles
}
