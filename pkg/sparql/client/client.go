// Package client talks to a triple store over the SPARQL 1.1 Protocol
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/icholy/digest"
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	contentTypeForm          string = "application/x-www-form-urlencoded"
	contentTypeNTriples      string = "application/n-triples"
	contentTypeSPARQLResults string = "application/sparql-results+json"

	TraceAttributeGraph string = "sparql-graph"
)

var tracer = otel.Tracer("triple-store-client")

type Client struct {
	queryURL  string
	updateURL string
	username  string
	password  string
	debug     bool

	httpClient http.Client
}

func Debug(enabled bool) func(*Client) {
	return func(c *Client) {
		c.debug = enabled
	}
}

// DigestAuth makes the client answer HTTP digest challenges with the given
// credentials, as required by the update endpoint of Virtuoso and others.
func DigestAuth(username, password string) func(*Client) {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// UpdateURL sets a separate endpoint for updates. By default queries and
// updates are sent to the same endpoint.
func UpdateURL(endpoint string) func(*Client) {
	return func(c *Client) {
		c.updateURL = endpoint
	}
}

func New(queryURL string, options ...func(*Client)) *Client {
	c := &Client{
		queryURL:  queryURL,
		updateURL: queryURL,
	}

	for _, option := range options {
		option(c)
	}

	var transport http.RoundTripper = http.DefaultTransport
	if c.username != "" {
		transport = &digest.Transport{
			Username:  c.username,
			Password:  c.password,
			Transport: transport,
		}
	}

	c.httpClient = http.Client{
		Transport: otelhttp.NewTransport(transport),
	}

	return c
}

type askResult struct {
	Boolean *bool `json:"boolean"`
}

func (c *Client) Ask(ctx context.Context, q *sparql.AskQuery) (bool, error) {
	var err error

	ctx, span := tracer.Start(ctx, "ask",
		trace.WithAttributes(attribute.String(TraceAttributeGraph, string(q.Graph()))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	resp, body, err := c.post(ctx, c.queryURL, "query", q.String(), contentTypeSPARQLResults)
	if err != nil {
		return false, err
	}

	if resp.StatusCode != http.StatusOK {
		err = unexpectedResponse(resp, body)
		return false, err
	}

	result := askResult{}
	err = json.Unmarshal(body, &result)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal ask result: %s (%w)", err.Error(), errors.ErrBadResponse)
		return false, err
	}

	if result.Boolean == nil {
		err = fmt.Errorf("ask result carries no boolean (%w)", errors.ErrBadResponse)
		return false, err
	}

	return *result.Boolean, nil
}

func (c *Client) Construct(ctx context.Context, q *sparql.ConstructQuery) ([]rdf.Triple, error) {
	var err error

	ctx, span := tracer.Start(ctx, "construct",
		trace.WithAttributes(attribute.String(TraceAttributeGraph, string(q.Graph()))),
		trace.WithAttributes(attribute.String("sparql-subject", string(q.Subject))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	resp, body, err := c.post(ctx, c.queryURL, "query", q.String(), contentTypeNTriples)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		err = unexpectedResponse(resp, body)
		return nil, err
	}

	triples, err := rdf.DecodeNTriples(bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("%s (%w)", err.Error(), errors.ErrBadResponse)
		return nil, err
	}

	return triples, nil
}

func (c *Client) Update(ctx context.Context, u sparql.Update) error {
	var err error

	ctx, span := tracer.Start(ctx, "update",
		trace.WithAttributes(attribute.String(TraceAttributeGraph, string(u.Graph()))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	resp, body, err := c.post(ctx, c.updateURL, "update", u.String(), "")
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		err = unexpectedResponse(resp, body)
		return err
	}

	return nil
}

func (c *Client) post(ctx context.Context, endpoint, param, text, accept string) (*http.Response, []byte, error) {
	form := url.Values{}
	form.Set(param, text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	req.Header.Set("Content-Type", contentTypeForm)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		logging.GetFromContext(ctx).Error("request failed", "request", string(reqbytes), "response", string(respbytes), "body", string(respBody))
	}

	return resp, respBody, nil
}

func unexpectedResponse(resp *http.Response, body []byte) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		return fmt.Errorf("triple store rejected the request with %d: %s (%w)", resp.StatusCode, detail, errors.ErrRequest)
	}

	return fmt.Errorf("unexpected response code %d: %s (%w)", resp.StatusCode, detail, errors.ErrBadResponse)
}
