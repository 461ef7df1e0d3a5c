// Package geocoding resolves venue coordinates with the LocationIQ structured
// search API. Lookups are rate limited to the free plan quotas and cached in
// Redis for the longest time the LocationIQ terms allow.
package geocoding

import (
	"context"
	"errors"

	mecerrors "github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/scraped"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Geocoder interface {
	Search(ctx context.Context, name string, address scraped.Address) (Coordinates, error)
}

// GeocoderFunc adapts a function to the Geocoder interface
type GeocoderFunc func(ctx context.Context, name string, address scraped.Address) (Coordinates, error)

func (f GeocoderFunc) Search(ctx context.Context, name string, address scraped.Address) (Coordinates, error) {
	return f(ctx, name, address)
}

func isNotFound(err error) bool {
	return errors.Is(err, mecerrors.ErrNotFound)
}
