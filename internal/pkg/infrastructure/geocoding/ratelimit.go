package geocoding

import (
	"context"
	"fmt"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/scraped"
	"golang.org/x/time/rate"
)

// Limit is a single quota of requests per interval
type Limit struct {
	Requests int
	Per      time.Duration
}

// FreePlanLimits are the quotas of the LocationIQ free plan
var FreePlanLimits = []Limit{
	{Requests: 2, Per: time.Second},
	{Requests: 60, Per: time.Minute},
	{Requests: 5000, Per: 24 * time.Hour},
}

type rateLimited struct {
	next     Geocoder
	limiters []*rate.Limiter
}

// RateLimited waits for every limit to allow a request before calling next
func RateLimited(next Geocoder, limits ...Limit) Geocoder {
	if len(limits) == 0 {
		limits = FreePlanLimits
	}

	rl := &rateLimited{next: next}
	for _, l := range limits {
		every := rate.Every(l.Per / time.Duration(l.Requests))
		rl.limiters = append(rl.limiters, rate.NewLimiter(every, l.Requests))
	}

	return rl
}

func (r *rateLimited) Search(ctx context.Context, name string, address scraped.Address) (Coordinates, error) {
	for _, l := range r.limiters {
		if err := l.Wait(ctx); err != nil {
			return Coordinates{}, fmt.Errorf("rate limiter: %s (%w)", err.Error(), errors.ErrRequest)
		}
	}

	return r.next.Search(ctx, name, address)
}
