package maptile

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultTTL bounds how stale a cached tile may get.
const DefaultTTL = 10 * time.Minute

// Pin is the map marker payload cached per tile.
type Pin struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	PropertyType  string  `json:"propertyType"`
	AvailableSqft float64 `json:"availableSqft"`
	RentPSF       float64 `json:"rentPsf"`
}

// Cache stores pin lists per tile in Redis with a TTL. A nil or unreachable
// Redis degrades to miss-everything; callers fall back to the database.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached pins for a tile and whether it was a hit.
func (c *Cache) Get(ctx context.Context, t Tile) ([]Pin, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, t.Key()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("tile cache read failed")
		}
		return nil, false
	}
	var pins []Pin
	if err := json.Unmarshal(raw, &pins); err != nil {
		// poisoned entry; drop it
		c.rdb.Del(ctx, t.Key())
		return nil, false
	}
	return pins, true
}

// Set stores a tile's pins. An empty tile is cached too, so repeat pans over
// empty countryside do not hit the database.
func (c *Cache) Set(ctx context.Context, t Tile, pins []Pin) {
	if c == nil || c.rdb == nil {
		return
	}
	if pins == nil {
		pins = []Pin{}
	}
	raw, err := json.Marshal(pins)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, t.Key(), raw, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("tile cache write failed")
	}
}

// InvalidateAt drops the tile covering a coordinate after a property write.
func (c *Cache) InvalidateAt(ctx context.Context, lat, lng float64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, At(lat, lng).Key()).Err(); err != nil {
		logrus.WithError(err).Warn("tile cache invalidate failed")
	}
}
