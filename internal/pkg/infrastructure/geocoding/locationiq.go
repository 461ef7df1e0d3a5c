package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/scraped"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultLocationIQURL string = "https://eu1.locationiq.com/v1"

var tracer = otel.Tracer("locationiq-client")

type LocationIQ struct {
	baseURL    string
	apiKey     string
	countries  string
	httpClient http.Client
}

func NewLocationIQ(baseURL, apiKey string) *LocationIQ {
	if baseURL == "" {
		baseURL = DefaultLocationIQURL
	}

	return &LocationIQ{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		countries: "cz",
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
	Address     *struct {
		Name string `json:"name"`
	} `json:"address,omitempty"`
}

func (p place) name() string {
	if p.Address == nil {
		return ""
	}
	return p.Address.Name
}

func (c *LocationIQ) Search(ctx context.Context, name string, address scraped.Address) (Coordinates, error) {
	var err error

	ctx, span := tracer.Start(ctx, "search-structured",
		trace.WithAttributes(attribute.String("venue", name)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("format", "json")
	params.Set("countrycodes", c.countries)
	params.Set("normalizeaddress", "1")
	params.Set("addressdetails", "1")
	params.Set("country", address.Country)
	params.Set("city", address.Locality)
	if address.Street != "" {
		params.Set("street", address.Street)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/structured?"+params.Encode(), nil)
	if err != nil {
		err = fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
		return Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
		return Coordinates{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
		return Coordinates{}, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		err = errors.NewNotFoundError(fmt.Sprintf("location of %s not found", name))
		return Coordinates{}, err
	case resp.StatusCode == http.StatusTooManyRequests:
		err = fmt.Errorf("request exceeded the rate limits of the account (%w)", errors.ErrRequest)
		return Coordinates{}, err
	case resp.StatusCode != http.StatusOK:
		err = fmt.Errorf("unexpected response code %d (%w)", resp.StatusCode, errors.ErrBadResponse)
		return Coordinates{}, err
	}

	places := []place{}
	if err = json.Unmarshal(body, &places); err != nil {
		err = fmt.Errorf("failed to unmarshal search result: %s (%w)", err.Error(), errors.ErrBadResponse)
		return Coordinates{}, err
	}

	if len(places) == 0 {
		err = errors.NewNotFoundError(fmt.Sprintf("location of %s not found", name))
		return Coordinates{}, err
	}

	best := bestMatch(places, name)

	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		err = fmt.Errorf("invalid latitude %q (%w)", best.Lat, errors.ErrBadResponse)
		return Coordinates{}, err
	}

	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		err = fmt.Errorf("invalid longitude %q (%w)", best.Lon, errors.ErrBadResponse)
		return Coordinates{}, err
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

// bestMatch prefers a place carrying the venue name, then falls back to the
// most important one
func bestMatch(places []place, name string) place {
	matchers := []func(p place) bool{
		func(p place) bool { return p.name() == name },
		func(p place) bool { return p.name() != "" && strings.Contains(p.name(), name) },
		func(p place) bool { return strings.Contains(p.DisplayName, name) },
	}

	for _, matches := range matchers {
		for _, p := range places {
			if matches(p) {
				return p
			}
		}
	}

	sorted := append([]place{}, places...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Importance > sorted[j].Importance
	})

	return sorted[0]
}
