// Package ingestion stores the music events published by the scrapers. Each
// job is mapped to a MusicEvent, validated and upserted into the named graph
// of its source while holding a write lease on the event identifier.
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/application/notifications"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/geocoding"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/lease"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/metrics"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/queue"
	"github.com/lukas-kratochvil/music-event-connect/pkg/entities"
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/mapper"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/scraped"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("music-event-connect/ingestion")

//go:generate moq -rm -out app_mock.go . App

type App interface {
	Handle(ctx context.Context, job queue.Job) error
	RetrieveMusicEvent(ctx context.Context, source, id string) (*entities.MusicEvent, error)
}

// EventStore is implemented by *mapper.Mapper[*entities.MusicEvent]
type EventStore interface {
	Upsert(ctx context.Context, e *entities.MusicEvent, graph rdf.IRI) (*entities.MusicEvent, mapper.Outcome, error)
	Get(ctx context.Context, id string, graph rdf.IRI) (*entities.MusicEvent, error)
}

type Recorder interface {
	JobDone(source, outcome string, duration time.Duration)
}

type Option func(*app)

func WithGeocoder(g geocoding.Geocoder) Option {
	return func(a *app) {
		a.geocoder = g
	}
}

func WithNotifier(n notifications.Notifier) Option {
	return func(a *app) {
		a.notifier = n
	}
}

func WithRecorder(r Recorder) Option {
	return func(a *app) {
		a.recorder = r
	}
}

func WithLeases(m lease.Manager, ttl time.Duration) Option {
	return func(a *app) {
		a.leases = m
		a.leaseTTL = ttl
	}
}

type app struct {
	events   EventStore
	graphs   map[string]rdf.IRI
	policy   entities.IDPolicy
	geocoder geocoding.Geocoder
	notifier notifications.Notifier
	recorder Recorder
	leases   lease.Manager
	leaseTTL time.Duration
}

func New(cfg Config, events EventStore, opts ...Option) (App, error) {
	graphs, err := cfg.Graphs()
	if err != nil {
		return nil, err
	}

	policy, err := entities.PolicyByName(cfg.IDPolicy)
	if err != nil {
		return nil, err
	}

	a := &app{
		events:   events,
		graphs:   graphs,
		policy:   policy,
		leases:   lease.NewInMemoryManager(),
		leaseTTL: cfg.Lease.TTL,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.leaseTTL <= 0 {
		a.leaseTTL = lease.DefaultTTL
	}

	return a, nil
}

func (a *app) Handle(ctx context.Context, job queue.Job) error {
	var err error
	start := time.Now()

	ctx, span := tracer.Start(ctx, "handle-job", trace.WithAttributes(attribute.String("job_id", job.ID())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	msg, err := scraped.Decode(job.Body())
	if err != nil {
		err = errors.NewMappingError("%s", err.Error())
		a.fail(ctx, job, "", "", "", err, start)
		return err
	}

	graph, ok := a.graphs[msg.Source]
	if !ok {
		err = errors.NewMappingError("events from source %q are not handled", msg.Source)
		a.fail(ctx, job, msg.Source, "", msg.Event.URL, err, start)
		return err
	}

	e, err := buildMusicEvent(ctx, a.policy, a.geocoder, msg)
	if err != nil {
		a.fail(ctx, job, msg.Source, "", msg.Event.URL, err, start)
		return err
	}

	span.SetAttributes(attribute.String("event_id", e.ID), attribute.String("graph", string(graph)))

	if err = entities.Validate(e); err != nil {
		a.fail(ctx, job, msg.Source, e.ID, e.URL, err, start)
		return err
	}

	var outcome mapper.Outcome

	err = lease.Do(ctx, a.leases, e.ID, a.leaseTTL, func(ctx context.Context) error {
		var upsertErr error
		_, outcome, upsertErr = a.events.Upsert(ctx, e, graph)
		return upsertErr
	})
	if err != nil {
		a.fail(ctx, job, msg.Source, e.ID, e.URL, err, start)
		return err
	}

	log.Info(fmt.Sprintf("entity %s", outcome), "event_id", e.ID, "graph", string(graph))

	if a.recorder != nil {
		a.recorder.JobDone(msg.Source, outcome.String(), time.Since(start))
	}

	if a.notifier != nil {
		switch outcome {
		case mapper.Created:
			a.notifier.MusicEventCreated(ctx, e.ID, graph)
		case mapper.Updated:
			a.notifier.MusicEventUpdated(ctx, e.ID, graph)
		}
	}

	return nil
}

func (a *app) fail(ctx context.Context, job queue.Job, source, eventID, url string, err error, start time.Time) {
	logging.GetFromContext(ctx).Error(
		"failed to process job",
		"job_id", job.ID(), "event_id", eventID, "url", url, "err", err.Error(),
	)

	job.Log(err.Error())

	if a.recorder != nil {
		outcome := metrics.OutcomeFailed
		if errors.IsTerminal(err) {
			outcome = metrics.OutcomeInvalid
		}
		a.recorder.JobDone(source, outcome, time.Since(start))
	}
}

func (a *app) RetrieveMusicEvent(ctx context.Context, source, id string) (*entities.MusicEvent, error) {
	graph, ok := a.graphs[source]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("unknown event source %s", source))
	}

	if !entities.IsMusicEventID(id) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("%s is not a music event id", id))
	}

	return a.events.Get(ctx, id, graph)
}
