// Package api serves the stored music events over HTTP
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/application/ingestion"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/presentation/api/problems"
	"github.com/lukas-kratochvil/music-event-connect/pkg/entities"
	mecerrors "github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("music-event-connect/api")

func RegisterHandlers(ctx context.Context, r chi.Router, app ingestion.App, metrics http.Handler) {
	r.Get("/health", NewHealthHandler())

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/events/{source}/{eventId}", NewRetrieveMusicEventHandler(app))
	})

	logging.GetFromContext(ctx).Info("registered api handlers")
}

func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func NewRetrieveMusicEventHandler(app ingestion.App) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		source := chi.URLParam(r, "source")
		eventID, _ := url.PathUnescape(chi.URLParam(r, "eventId"))

		ctx, span := tracer.Start(r.Context(), "retrieve-music-event",
			trace.WithAttributes(
				attribute.String("source", source),
				attribute.String("event_id", eventID),
			),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		if !entities.IsMusicEventID(eventID) {
			err = fmt.Errorf("%s is not a music event id", eventID)
			problems.NewBadRequestData(err.Error(), traceID).WriteResponse(w)
			return
		}

		event, err := app.RetrieveMusicEvent(ctx, source, eventID)
		if err != nil {
			log.Error("failed to retrieve music event", "event_id", eventID, "err", err.Error())
			problemFor(err, traceID).WriteResponse(w)
			return
		}

		body, err := json.Marshal(event)
		if err != nil {
			log.Error("failed to marshal music event", "event_id", eventID, "err", err.Error())
			problems.NewInternalError(err.Error(), traceID).WriteResponse(w)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})
}

func problemFor(err error, traceID string) problems.ProblemDetails {
	switch {
	case errors.Is(err, mecerrors.ErrNotFound):
		return problems.NewNotFound(err.Error(), traceID)
	case errors.Is(err, mecerrors.ErrRequest), errors.Is(err, mecerrors.ErrBadResponse):
		return problems.NewBadGateway(err.Error(), traceID)
	}
	return problems.NewInternalError(err.Error(), traceID)
}
