package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

const (
	MusicEventCreated string = "MusicEventCreated"
	MusicEventUpdated string = "MusicEventUpdated"
)

type Notifier interface {
	Start() error
	Stop() error

	MusicEventCreated(ctx context.Context, id string, graph rdf.IRI)
	MusicEventUpdated(ctx context.Context, id string, graph rdf.IRI)
}

type Notification struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Graph     string    `json:"graph"`
	Timestamp time.Time `json:"timestamp"`
}

var tracer = otel.Tracer("music-event-connect/notifier")

type action func()

type notifier struct {
	started  bool
	endpoint string

	queue chan action
}

func NewNotifier(ctx context.Context, endpoint string) (Notifier, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("notifier endpoint must not be empty")
	}

	return &notifier{
		endpoint: endpoint,
		queue:    make(chan action, 32),
	}, nil
}

func (n *notifier) Start() error {
	if n.started {
		return fmt.Errorf("already started")
	}

	n.started = true

	go n.run()

	return nil
}

func (n *notifier) Stop() error {
	if n.started {
		resultChan := make(chan bool)

		n.queue <- func() {
			// close the queue to signal the worker that we are going out of business
			close(n.queue)
			resultChan <- true
		}

		<-resultChan
		n.started = false
	}
	return nil
}

func (n *notifier) MusicEventCreated(ctx context.Context, id string, graph rdf.IRI) {
	n.enqueue(ctx, Notification{Type: MusicEventCreated, ID: id, Graph: string(graph), Timestamp: time.Now().UTC()})
}

func (n *notifier) MusicEventUpdated(ctx context.Context, id string, graph rdf.IRI) {
	n.enqueue(ctx, Notification{Type: MusicEventUpdated, ID: id, Graph: string(graph), Timestamp: time.Now().UTC()})
}

func (n *notifier) enqueue(ctx context.Context, notification Notification) {
	if !n.started {
		return
	}

	var err error

	logger := logging.GetFromContext(ctx)

	ctx, span := tracer.Start(
		tracing.ExtractHeaders(context.Background(), tracing.InjectHeaders(ctx)),
		"post",
	)

	n.queue <- func() {
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		err = postNotification(ctx, notification, n.endpoint)
		if err != nil {
			logger.Error("failed to post notification", "event_id", notification.ID, "err", err.Error())
		}
	}
}

func postNotification(ctx context.Context, notification Notification, endpoint string) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshalling error (%w)", err)
	}

	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("unable to create new request (%w)", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request (%w)", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification rejected with status code %d", resp.StatusCode)
	}

	return nil
}

func (n *notifier) run() {
	// repeat until the queue is closed
	for action := range n.queue {
		if action == nil {
			return
		}

		action()
	}
}
