package maptile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtAndBoundsRoundTrip(t *testing.T) {
	cases := []struct{ lat, lng float64 }{
		{33.7490, -84.3880},  // Atlanta
		{40.7128, -74.0060},  // New York
		{-33.8688, 151.2093}, // Sydney
		{0, 0},
		{-0.0001, -0.0001},
	}
	for _, c := range cases {
		tile := At(c.lat, c.lng)
		minLat, maxLat, minLng, maxLng := tile.Bounds()
		assert.GreaterOrEqual(t, c.lat, minLat)
		assert.Less(t, c.lat, maxLat)
		assert.GreaterOrEqual(t, c.lng, minLng)
		assert.Less(t, c.lng, maxLng)
	}
}

func TestKeyIsStable(t *testing.T) {
	tile := At(33.7490, -84.3880)
	assert.Equal(t, fmt.Sprintf("tile:%d:%d:%d", Zoom, tile.X, tile.Y), tile.Key())
	assert.Equal(t, tile, At(33.7490, -84.3880))
}

func TestCoverIncludesEdgeTiles(t *testing.T) {
	// a box straddling a tile boundary must include tiles on both sides
	minLat, maxLat, minLng, maxLng := 33.70, 33.80, -84.45, -84.30
	tiles := Cover(minLat, maxLat, minLng, maxLng)
	assert.NotEmpty(t, tiles)

	assert.Contains(t, tiles, At(minLat, minLng))
	assert.Contains(t, tiles, At(maxLat, maxLng))
	assert.Contains(t, tiles, At(minLat, maxLng))
	assert.Contains(t, tiles, At(maxLat, minLng))
}

func TestCoverSingleTile(t *testing.T) {
	tile := At(33.7490, -84.3880)
	minLat, maxLat, minLng, maxLng := tile.Bounds()
	// stay strictly inside the tile
	tiles := Cover(minLat+1e-6, maxLat-1e-6, minLng+1e-6, maxLng-1e-6)
	assert.Equal(t, []Tile{tile}, tiles)
}

func TestCoverCountGrowsWithBox(t *testing.T) {
	small := Cover(33.70, 33.75, -84.40, -84.35)
	big := Cover(33.60, 33.90, -84.60, -84.20)
	assert.Greater(t, len(big), len(small))
}
