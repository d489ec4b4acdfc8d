package maptile

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/property"
)

// MaxTiles caps how many tiles a single viewport may expand to. Anything
// wider bypasses the cache with one direct range query.
const MaxTiles = 64

type Handler struct {
	Repo  *property.Repository
	Cache *Cache
}

func NewHandler(db *gorm.DB, cache *Cache) *Handler {
	return &Handler{Repo: property.NewRepository(db), Cache: cache}
}

func toPins(properties []property.Property) []Pin {
	pins := make([]Pin, 0, len(properties))
	for _, p := range properties {
		pins = append(pins, Pin{
			ID:            p.ID,
			Name:          p.Name,
			Latitude:      p.Latitude,
			Longitude:     p.Longitude,
			PropertyType:  p.PropertyType,
			AvailableSqft: p.AvailableSqft,
			RentPSF:       p.RentPSF,
		})
	}
	return pins
}

// Viewport serves the map browser: pins for a bounding box, assembled from
// per-tile cache entries with DB fill on miss.
// GET /map/properties?minLat=&maxLat=&minLng=&maxLng=
func (h *Handler) Viewport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	parse := func(name string) (float64, bool) {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		return v, err == nil
	}
	minLat, ok1 := parse("minLat")
	maxLat, ok2 := parse("maxLat")
	minLng, ok3 := parse("minLng")
	maxLng, ok4 := parse("maxLng")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		http.Error(w, "minLat, maxLat, minLng and maxLng are required", http.StatusBadRequest)
		return
	}
	if minLat >= maxLat || minLng >= maxLng {
		http.Error(w, "bounds are inverted", http.StatusBadRequest)
		return
	}

	tiles := Cover(minLat, maxLat, minLng, maxLng)
	if len(tiles) > MaxTiles {
		// viewport too wide for the tile cache; single range query
		properties, err := h.Repo.FindInBounds(minLat, maxLat, minLng, maxLng)
		if err != nil {
			http.Error(w, "could not load properties", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(toPins(properties))
		return
	}

	result := make([]Pin, 0, 64)
	for _, tile := range tiles {
		pins, hit := h.Cache.Get(r.Context(), tile)
		if !hit {
			tMinLat, tMaxLat, tMinLng, tMaxLng := tile.Bounds()
			properties, err := h.Repo.FindInBounds(tMinLat, tMaxLat, tMinLng, tMaxLng)
			if err != nil {
				http.Error(w, "could not load properties", http.StatusInternalServerError)
				return
			}
			pins = toPins(properties)
			h.Cache.Set(r.Context(), tile, pins)
		}
		// tiles over-cover the viewport; clip each pin back to the box
		for _, p := range pins {
			if p.Latitude >= minLat && p.Latitude < maxLat &&
				p.Longitude >= minLng && p.Longitude < maxLng {
				result = append(result, p)
			}
		}
	}

	json.NewEncoder(w).Encode(result)
}
