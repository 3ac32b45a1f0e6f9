// Package cache adds an optional Redis layer in front of forward
// geocoding. Cache failures are treated as misses: the cache can slow the
// flow down when Redis is sick, but never break it.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/geocoder"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "geocode:"

// normalize collapses whitespace so equivalent queries share a key.
func normalize(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

type GeocodeCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewGeocodeCache(redis *redis.Client, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{redis: redis, ttl: ttl}
}

func (c *GeocodeCache) Get(ctx context.Context, query string) (*geocoder.Location, bool) {
	data, err := c.redis.Get(ctx, keyPrefix+normalize(query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Geocode cache read failed", "error", err.Error())
		}
		return nil, false
	}
	var loc geocoder.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		slog.Warn("Geocode cache entry corrupt", "error", err.Error())
		return nil, false
	}
	return &loc, true
}

func (c *GeocodeCache) Put(ctx context.Context, query string, loc *geocoder.Location) {
	if loc == nil {
		return
	}
	data, err := json.Marshal(loc)
	if err != nil {
		slog.Warn("Geocode cache encode failed", "error", err.Error())
		return
	}
	if err := c.redis.Set(ctx, keyPrefix+normalize(query), data, c.ttl).Err(); err != nil {
		slog.Warn("Geocode cache write failed", "error", err.Error())
	}
}

// Geocoding matches the geocoder surface the planner and controllers use.
type Geocoding interface {
	Forward(ctx context.Context, address string) *geocoder.Location
	Reverse(ctx context.Context, lat, lng float64, mobile bool) string
	ReverseLookup(ctx context.Context, lat, lng float64, mobile bool) geocoder.Location
}

// Metrics is the slice of the metrics registry the cache reports to.
type Metrics interface {
	IncrementGeocodeCache(hit bool)
}

// CachedGeocoding decorates a geocoder with the cache. Reverse lookups are
// not cached: mobile short-circuits already, and desktop labels are cheap
// relative to their churn.
type CachedGeocoding struct {
	cache   *GeocodeCache
	next    Geocoding
	metrics Metrics
}

func NewCachedGeocoding(cache *GeocodeCache, next Geocoding, metrics Metrics) *CachedGeocoding {
	return &CachedGeocoding{cache: cache, next: next, metrics: metrics}
}

func (c *CachedGeocoding) Forward(ctx context.Context, address string) *geocoder.Location {
	loc, hit := c.cache.Get(ctx, address)
	if c.metrics != nil {
		c.metrics.IncrementGeocodeCache(hit)
	}
	if hit {
		return loc
	}
	loc = c.next.Forward(ctx, address)
	if loc != nil {
		c.cache.Put(ctx, address, loc)
	}
	return loc
}

func (c *CachedGeocoding) Reverse(ctx context.Context, lat, lng float64, mobile bool) string {
	return c.next.Reverse(ctx, lat, lng, mobile)
}

func (c *CachedGeocoding) ReverseLookup(ctx context.Context, lat, lng float64, mobile bool) geocoder.Location {
	return c.next.ReverseLookup(ctx, lat, lng, mobile)
}
