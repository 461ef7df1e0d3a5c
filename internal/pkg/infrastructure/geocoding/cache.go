package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/lukas-kratochvil/music-event-connect/pkg/scraped"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is the longest time LocationIQ allows results to be cached
const DefaultCacheTTL time.Duration = 48 * time.Hour

const (
	ResultHit      string = "hit"
	ResultMiss     string = "miss"
	ResultNotFound string = "not_found"
	ResultError    string = "error"
)

type CacheOption func(*cached)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *cached) {
		c.ttl = ttl
	}
}

func WithPrefix(prefix string) CacheOption {
	return func(c *cached) {
		c.prefix = prefix
	}
}

// WithObserver registers a callback receiving the result of every lookup
func WithObserver(observe func(result string)) CacheOption {
	return func(c *cached) {
		c.observe = observe
	}
}

type cached struct {
	next    Geocoder
	client  redis.UniversalClient
	ttl     time.Duration
	prefix  string
	observe func(string)
}

// Cached stores the results of next in Redis keyed by the venue address
func Cached(next Geocoder, client redis.UniversalClient, opts ...CacheOption) Geocoder {
	c := &cached{
		next:    next,
		client:  client,
		ttl:     DefaultCacheTTL,
		prefix:  "mec:geo:",
		observe: func(string) {},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func CacheKey(address scraped.Address) string {
	parts := []string{}
	for _, p := range []string{address.Street, address.Locality, address.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (c *cached) Search(ctx context.Context, name string, address scraped.Address) (Coordinates, error) {
	log := logging.GetFromContext(ctx)
	key := c.prefix + CacheKey(address)

	b, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		coords := Coordinates{}
		if err = json.Unmarshal(b, &coords); err == nil {
			c.observe(ResultHit)
			return coords, nil
		}
		log.Warn("dropping corrupt cache entry", "key", key, "err", err.Error())
	} else if err != redis.Nil {
		log.Warn("failed to read geocoding cache", "key", key, "err", err.Error())
	}

	coords, err := c.next.Search(ctx, name, address)
	if err != nil {
		if isNotFound(err) {
			c.observe(ResultNotFound)
		} else {
			c.observe(ResultError)
		}
		return Coordinates{}, err
	}

	c.observe(ResultMiss)

	b, err = json.Marshal(coords)
	if err != nil {
		return coords, fmt.Errorf("failed to marshal coordinates: %w", err)
	}

	if err = c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		log.Warn("failed to store geocoding result", "key", key, "err", err.Error())
	}

	return coords, nil
}
