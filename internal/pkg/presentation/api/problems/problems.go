package problems

import (
	"encoding/json"
	"net/http"
)

// ProblemDetails stores details about a certain problem according to RFC7807
// See https://tools.ietf.org/html/rfc7807
type ProblemDetails interface {
	ContentType() string
	Type() string
	Title() string
	Detail() string
	MarshalJSON() ([]byte, error)
	WriteResponse(w http.ResponseWriter)
}

type problem struct {
	typ     string
	title   string
	detail  string
	traceID string
	code    int
}

const (
	// ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
	ProblemReportContentType string = "application/problem+json"

	typeBase string = "https://music-event-connect.cz/problems/"
)

func NewBadRequestData(detail, traceID string) ProblemDetails {
	return &problem{
		typ:     typeBase + "BadRequestData",
		title:   "Bad Request Data",
		detail:  detail,
		traceID: traceID,
		code:    http.StatusBadRequest,
	}
}

func NewNotFound(detail, traceID string) ProblemDetails {
	return &problem{
		typ:     typeBase + "ResourceNotFound",
		title:   "Not Found",
		detail:  detail,
		traceID: traceID,
		code:    http.StatusNotFound,
	}
}

// NewBadGateway reports a failing triple store
func NewBadGateway(detail, traceID string) ProblemDetails {
	return &problem{
		typ:     typeBase + "TripleStoreError",
		title:   "Bad Gateway",
		detail:  detail,
		traceID: traceID,
		code:    http.StatusBadGateway,
	}
}

func NewInternalError(detail, traceID string) ProblemDetails {
	return &problem{
		typ:     typeBase + "InternalError",
		title:   "Internal Error",
		detail:  detail,
		traceID: traceID,
		code:    http.StatusInternalServerError,
	}
}

func (p *problem) ContentType() string {
	return ProblemReportContentType
}

func (p *problem) Type() string {
	return p.typ
}

func (p *problem) Title() string {
	return p.title
}

func (p *problem) Detail() string {
	return p.detail
}

func (p *problem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Title   string `json:"title"`
		Detail  string `json:"detail"`
		TraceID string `json:"traceId,omitempty"`
	}{
		Type:    p.typ,
		Title:   p.title,
		Detail:  p.detail,
		TraceID: p.traceID,
	})
}

// WriteResponse writes the contents of this instance to a http.ResponseWriter
func (p *problem) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", p.ContentType())
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.code)

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}
