package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/geocoding"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/lease"
	"github.com/lukas-kratochvil/music-event-connect/pkg/entities"
	mecerrors "github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/mapper"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/scraped"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql/memory"
	"github.com/matryer/is"
)

func TestHandleCreatesThenSkipsUnchangedEvent(t *testing.T) {
	is, f := testSetup(t)
	ctx := context.Background()

	is.NoErr(f.app.Handle(ctx, newJob(scrapedEvent)))
	is.NoErr(f.app.Handle(ctx, newJob(scrapedEvent)))

	is.Equal(f.notifier.created, []string{"tm-Z7r9jZ1A7b4kY"})
	is.Equal(len(f.notifier.updated), 0)
	is.Equal(f.recorder.outcomes, []string{"created", "unchanged"})
	is.Equal(len(f.store.Updates()), 1)
}

func TestHandleUpdatesChangedEvent(t *testing.T) {
	is, f := testSetup(t)
	ctx := context.Background()

	is.NoErr(f.app.Handle(ctx, newJob(scrapedEvent)))

	soldOut := strings.Replace(scrapedEvent, `"InStock"`, `"SoldOut"`, 1)
	is.NoErr(f.app.Handle(ctx, newJob(soldOut)))

	is.Equal(f.notifier.updated, []string{"tm-Z7r9jZ1A7b4kY"})

	stored, err := f.app.RetrieveMusicEvent(ctx, "ticketmaster", "tm-Z7r9jZ1A7b4kY")
	is.NoErr(err)
	is.Equal(stored.Ticket.Availability, entities.SoldOut)
}

func TestHandleGeocodesVenuesWithoutCoordinates(t *testing.T) {
	calls := 0
	g := geocoding.GeocoderFunc(func(ctx context.Context, name string, address scraped.Address) (geocoding.Coordinates, error) {
		calls++
		return geocoding.Coordinates{Latitude: 50.1047, Longitude: 14.4933}, nil
	})

	is, f := testSetup(t, WithGeocoder(g))
	ctx := context.Background()

	is.NoErr(f.app.Handle(ctx, newJob(scrapedEvent)))
	is.Equal(calls, 1)

	stored, err := f.app.RetrieveMusicEvent(ctx, "ticketmaster", "tm-Z7r9jZ1A7b4kY")
	is.NoErr(err)
	is.Equal(*stored.Venues[0].Latitude, 50.1047)
	is.Equal(*stored.Venues[0].Longitude, 14.4933)
}

func TestHandleStoresVenueThatCouldNotBeLocated(t *testing.T) {
	g := geocoding.GeocoderFunc(func(ctx context.Context, name string, address scraped.Address) (geocoding.Coordinates, error) {
		return geocoding.Coordinates{}, mecerrors.NewNotFoundError("no such place")
	})

	is, f := testSetup(t, WithGeocoder(g))
	ctx := context.Background()

	is.NoErr(f.app.Handle(ctx, newJob(scrapedEvent)))

	stored, err := f.app.RetrieveMusicEvent(ctx, "ticketmaster", "tm-Z7r9jZ1A7b4kY")
	is.NoErr(err)
	is.True(stored.Venues[0].Latitude == nil)
}

func TestHandleFailsWhenGeocoderIsUnavailable(t *testing.T) {
	g := geocoding.GeocoderFunc(func(ctx context.Context, name string, address scraped.Address) (geocoding.Coordinates, error) {
		return geocoding.Coordinates{}, mecerrors.ErrRequest
	})

	is, f := testSetup(t, WithGeocoder(g))
	j := newJob(scrapedEvent)

	err := f.app.Handle(context.Background(), j)

	is.True(errors.Is(err, mecerrors.ErrRequest))
	is.True(!mecerrors.IsTerminal(err))
	is.Equal(len(j.lines), 1)
	is.Equal(f.recorder.outcomes, []string{"failed"})
	is.Equal(len(f.store.Updates()), 0)
}

func TestHandleRejectsInvalidEvent(t *testing.T) {
	is, f := testSetup(t)
	j := newJob(strings.Replace(scrapedEvent, `"endDate": "2025-06-01T22:00:00Z"`, `"endDate": "2025-06-01T18:00:00Z"`, 1))

	err := f.app.Handle(context.Background(), j)

	is.True(errors.Is(err, mecerrors.ErrValidation))
	is.True(mecerrors.IsTerminal(err))
	is.Equal(len(j.lines), 1)
	is.Equal(f.recorder.outcomes, []string{"invalid"})
	is.Equal(len(f.store.Updates()), 0)
}

func TestHandleRejectsUnhandledSource(t *testing.T) {
	is, f := testSetup(t)

	body := strings.Replace(scrapedEvent, `"source": "ticketmaster"`, `"source": "eventim"`, 1)
	err := f.app.Handle(context.Background(), newJob(body))

	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	is, f := testSetup(t)

	err := f.app.Handle(context.Background(), newJob(`{"source":`))

	is.True(mecerrors.IsTerminal(err))
}

func TestHandleFailsWhileEventIsLeased(t *testing.T) {
	leases := lease.NewInMemoryManager()
	is, f := testSetup(t, WithLeases(leases, time.Minute))
	ctx := context.Background()

	held, err := leases.Acquire(ctx, "tm-Z7r9jZ1A7b4kY", time.Minute)
	is.NoErr(err)

	err = f.app.Handle(ctx, newJob(scrapedEvent))
	is.True(errors.Is(err, mecerrors.ErrLeaseConflict))
	is.True(!mecerrors.IsTerminal(err))

	is.NoErr(leases.Release(ctx, held))
	is.NoErr(f.app.Handle(ctx, newJob(scrapedEvent)))
}

func TestRetrieveUnknownEvent(t *testing.T) {
	is, f := testSetup(t)
	ctx := context.Background()

	_, err := f.app.RetrieveMusicEvent(ctx, "ticketmaster", "tm-nope")
	is.True(errors.Is(err, mecerrors.ErrNotFound))

	_, err = f.app.RetrieveMusicEvent(ctx, "eventim", "tm-nope")
	is.True(errors.Is(err, mecerrors.ErrNotFound))

	_, err = f.app.RetrieveMusicEvent(ctx, "ticketmaster", "nope")
	is.True(errors.Is(err, mecerrors.ErrNotFound))
}

type fixture struct {
	app      App
	store    *memory.Store
	notifier *notifierMock
	recorder *recorderMock
}

func testSetup(t *testing.T, opts ...Option) (*is.I, *fixture) {
	is := is.New(t)

	registry, err := entities.NewRegistry()
	is.NoErr(err)

	f := &fixture{
		store:    memory.New(),
		notifier: &notifierMock{},
		recorder: &recorderMock{},
	}

	events, err := mapper.New[*entities.MusicEvent](registry, f.store, entities.MusicEventType)
	is.NoErr(err)

	cfg := Config{Sources: []SourceConfig{{Name: "goout"}, {Name: "ticketmaster"}}}
	opts = append([]Option{WithNotifier(f.notifier), WithRecorder(f.recorder)}, opts...)

	f.app, err = New(cfg, events, opts...)
	is.NoErr(err)

	return is, f
}

type jobMock struct {
	body  []byte
	lines []string
}

func newJob(body string) *jobMock {
	return &jobMock{body: []byte(body)}
}

func (j *jobMock) ID() string      { return "job-1" }
func (j *jobMock) Body() []byte    { return j.body }
func (j *jobMock) Attempt() int    { return 1 }
func (j *jobMock) Log(line string) { j.lines = append(j.lines, line) }

type notifierMock struct {
	created []string
	updated []string
}

func (n *notifierMock) Start() error { return nil }
func (n *notifierMock) Stop() error  { return nil }

func (n *notifierMock) MusicEventCreated(ctx context.Context, id string, graph rdf.IRI) {
	n.created = append(n.created, id)
}

func (n *notifierMock) MusicEventUpdated(ctx context.Context, id string, graph rdf.IRI) {
	n.updated = append(n.updated, id)
}

type recorderMock struct {
	outcomes []string
}

func (r *recorderMock) JobDone(source, outcome string, duration time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

const scrapedEvent string = `{
	"source": "ticketmaster",
	"event": {
		"id": "Z7r9jZ1A7b4kY",
		"name": "The Killers - Imploding The Mirage Tour",
		"url": "https://www.ticketmaster.cz/event/Z7r9jZ1A7b4kY",
		"doorTime": "2025-06-01T18:00:00Z",
		"startDate": "2025-06-01T19:00:00Z",
		"endDate": "2025-06-01T22:00:00Z",
		"artists": [
			{
				"name": "The Killers",
				"genres": ["Rock", "Indie"],
				"sameAs": [],
				"webSites": ["https://www.thekillersmusic.com", "https://www.facebook.com/thekillers"],
				"images": []
			},
			{
				"name": "Ásgeir",
				"genres": ["folk"],
				"sameAs": [],
				"webSites": [],
				"images": ["https://images.example.org/asgeir.jpg"]
			}
		],
		"venues": [
			{
				"name": "O2 arena",
				"address": {"country": "cz", "locality": "Praha", "street": "Českomoravská 2345/17a"}
			}
		],
		"ticket": {"url": "https://www.ticketmaster.cz/event/Z7r9jZ1A7b4kY", "availability": "InStock"}
	}
}`
