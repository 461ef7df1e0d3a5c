package geocoding

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	mecerrors "github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/scraped"
	"github.com/matryer/is"
	"github.com/redis/go-redis/v9"
)

var Expects = testutils.Expects
var Returns = testutils.Returns

var o2arena = scraped.Address{
	Country:  "CZ",
	Locality: "Praha",
	Street:   "Českomoravská 2345/17a",
}

func TestSearchPicksPlaceWithMatchingName(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			expects.RequestMethod(http.MethodGet),
			expects.RequestPath("/search/structured"),
			expects.QueryParamEquals("key", "secret"),
			expects.QueryParamEquals("format", "json"),
			expects.QueryParamEquals("countrycodes", "cz"),
			expects.QueryParamEquals("city", "Praha"),
			expects.QueryParamEquals("street", "Českomoravská 2345/17a"),
		),
		Returns(
			response.Code(http.StatusOK),
			response.ContentType("application/json"),
			response.Body([]byte(searchResult)),
		),
	)
	defer s.Close()

	g := NewLocationIQ(s.URL(), "secret")
	coords, err := g.Search(context.Background(), "O2 arena", o2arena)

	is.NoErr(err)
	is.Equal(coords, Coordinates{Latitude: 50.1047, Longitude: 14.4933})
}

func TestSearchFallsBackToMostImportantPlace(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, expects.AnyInput()),
		Returns(
			response.Code(http.StatusOK),
			response.ContentType("application/json"),
			response.Body([]byte(searchResult)),
		),
	)
	defer s.Close()

	g := NewLocationIQ(s.URL(), "secret")
	coords, err := g.Search(context.Background(), "Lucerna", o2arena)

	is.NoErr(err)
	is.Equal(coords, Coordinates{Latitude: 50.1, Longitude: 14.49})
}

func TestSearchReturnsNotFound(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, expects.AnyInput()),
		Returns(
			response.Code(http.StatusNotFound),
			response.ContentType("application/json"),
			response.Body([]byte(`{"error":"Unable to geocode"}`)),
		),
	)
	defer s.Close()

	g := NewLocationIQ(s.URL(), "secret")
	_, err := g.Search(context.Background(), "O2 arena", o2arena)

	is.True(errors.Is(err, mecerrors.ErrNotFound))
}

func TestSearchReportsRateLimitAsRequestError(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, expects.AnyInput()),
		Returns(
			response.Code(http.StatusTooManyRequests),
			response.Body([]byte(`{"error":"Rate Limited Second"}`)),
		),
	)
	defer s.Close()

	g := NewLocationIQ(s.URL(), "secret")
	_, err := g.Search(context.Background(), "O2 arena", o2arena)

	is.True(errors.Is(err, mecerrors.ErrRequest))
}

func TestCachedSearchOnlyCallsNextOnce(t *testing.T) {
	is := is.New(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	calls := 0
	next := GeocoderFunc(func(ctx context.Context, name string, address scraped.Address) (Coordinates, error) {
		calls++
		return Coordinates{Latitude: 50.1047, Longitude: 14.4933}, nil
	})

	results := []string{}
	g := Cached(next, rdb, WithObserver(func(r string) { results = append(results, r) }))

	first, err := g.Search(context.Background(), "O2 arena", o2arena)
	is.NoErr(err)
	second, err := g.Search(context.Background(), "O2 arena", o2arena)
	is.NoErr(err)

	is.Equal(calls, 1)
	is.Equal(first, second)
	is.Equal(results, []string{ResultMiss, ResultHit})
	is.True(mr.Exists("mec:geo:Českomoravská 2345/17a, Praha, CZ"))
}

func TestCachedEntriesExpire(t *testing.T) {
	is := is.New(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	calls := 0
	next := GeocoderFunc(func(ctx context.Context, name string, address scraped.Address) (Coordinates, error) {
		calls++
		return Coordinates{Latitude: 1, Longitude: 2}, nil
	})

	g := Cached(next, rdb, WithTTL(time.Hour), WithPrefix("test:"))

	_, err := g.Search(context.Background(), "O2 arena", o2arena)
	is.NoErr(err)

	mr.FastForward(2 * time.Hour)

	_, err = g.Search(context.Background(), "O2 arena", o2arena)
	is.NoErr(err)

	is.Equal(calls, 2)
}

func TestCachedSearchDoesNotStoreFailures(t *testing.T) {
	is := is.New(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	next := GeocoderFunc(func(ctx context.Context, name string, address scraped.Address) (Coordinates, error) {
		return Coordinates{}, mecerrors.NewNotFoundError("nope")
	})

	results := []string{}
	g := Cached(next, rdb, WithObserver(func(r string) { results = append(results, r) }))

	_, err := g.Search(context.Background(), "O2 arena", o2arena)

	is.True(errors.Is(err, mecerrors.ErrNotFound))
	is.Equal(results, []string{ResultNotFound})
	is.Equal(len(mr.Keys()), 0)
}

func TestRateLimitedStopsOnCancelledContext(t *testing.T) {
	is := is.New(t)

	calls := 0
	next := GeocoderFunc(func(ctx context.Context, name string, address scraped.Address) (Coordinates, error) {
		calls++
		return Coordinates{}, nil
	})

	g := RateLimited(next, Limit{Requests: 1, Per: time.Hour})

	_, err := g.Search(context.Background(), "O2 arena", o2arena)
	is.NoErr(err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = g.Search(ctx, "O2 arena", o2arena)
	is.True(errors.Is(err, mecerrors.ErrRequest))
	is.Equal(calls, 1)
}

func TestCacheKeySkipsEmptyParts(t *testing.T) {
	is := is.New(t)
	is.Equal(CacheKey(scraped.Address{Country: "CZ", Locality: "Brno"}), "Brno, CZ")
}

const searchResult string = `[
	{
		"lat": "50.1",
		"lon": "14.49",
		"display_name": "Českomoravská, Libeň, Praha, Czechia",
		"importance": 0.6,
		"address": {"road": "Českomoravská", "city": "Praha"}
	},
	{
		"lat": "50.1047",
		"lon": "14.4933",
		"display_name": "O2 arena, Českomoravská, Libeň, Praha, Czechia",
		"importance": 0.4,
		"address": {"name": "O2 arena", "city": "Praha"}
	}
]`
