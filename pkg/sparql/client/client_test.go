package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	mecerrors "github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql"

	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var method = expects.RequestMethod
var path = expects.RequestPath
var bodyContaining = expects.RequestBodyContaining

const graph rdf.IRI = "http://music-event-connect.cz/events/goout"
const subject rdf.IRI = ontology.MEC + "go-12345"

func TestAskReturnsBoolean(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			path("/sparql"),
			bodyContaining("query=ASK"),
		),
		Returns(
			response.ContentType("application/sparql-results+json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`{"head":{},"boolean":true}`)),
		),
	)
	defer s.Close()

	c := New(s.URL() + "/sparql")

	q, _ := sparql.Ask([]rdf.Triple{rdf.NewTriple(subject, ontology.RDFType, ontology.SchemaMusicEvent)}, graph)
	found, err := c.Ask(context.Background(), q)

	is.NoErr(err)
	is.True(found)
}

func TestAskWithoutBooleanIsBadResponse(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, expects.AnyInput()),
		Returns(
			response.Code(http.StatusOK),
			response.Body([]byte(`{"head":{}}`)),
		),
	)
	defer s.Close()

	c := New(s.URL())

	q, _ := sparql.Ask([]rdf.Triple{rdf.NewTriple(subject, ontology.RDFType, ontology.SchemaMusicEvent)}, graph)
	_, err := c.Ask(context.Background(), q)

	is.True(errors.Is(err, mecerrors.ErrBadResponse))
}

func TestConstructDecodesNTriples(t *testing.T) {
	is := is.New(t)

	body := "<" + string(subject) + "> <" + string(ontology.RDFType) + "> <" + string(ontology.SchemaMusicEvent) + "> .\n" +
		"<" + string(subject) + "> <" + string(ontology.SchemaName) + "> \"Koncert\" .\n"

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			bodyContaining("query=CONSTRUCT"),
		),
		Returns(
			response.ContentType("application/n-triples"),
			response.Code(http.StatusOK),
			response.Body([]byte(body)),
		),
	)
	defer s.Close()

	c := New(s.URL())

	q, _ := sparql.ConstructEntity(subject, graph)
	triples, err := c.Construct(context.Background(), q)

	is.NoErr(err)
	is.Equal(len(triples), 2)
	is.Equal(triples[1].Object, rdf.NewLiteral("Koncert"))
}

func TestUpdateGoesToUpdateEndpoint(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			path("/update"),
			bodyContaining("update=INSERT+DATA"),
		),
		Returns(
			response.Code(http.StatusNoContent),
		),
	)
	defer s.Close()

	c := New(s.URL()+"/query", UpdateURL(s.URL()+"/update"))

	u, _ := sparql.Insert([]rdf.Triple{rdf.NewTriple(subject, ontology.RDFType, ontology.SchemaMusicEvent)}, graph)
	err := c.Update(context.Background(), u)

	is.NoErr(err)
	is.Equal(s.RequestCount(), 1)
}

func TestRejectedUpdateIsRequestError(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, expects.AnyInput()),
		Returns(
			response.Code(http.StatusBadRequest),
			response.Body([]byte("SP030: SPARQL compiler, line 1: syntax error")),
		),
	)
	defer s.Close()

	c := New(s.URL())

	u, _ := sparql.Insert([]rdf.Triple{rdf.NewTriple(subject, ontology.RDFType, ontology.SchemaMusicEvent)}, graph)
	err := c.Update(context.Background(), u)

	is.True(errors.Is(err, mecerrors.ErrRequest))
}

func TestServerErrorIsBadResponse(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, expects.AnyInput()),
		Returns(
			response.Code(http.StatusInternalServerError),
		),
	)
	defer s.Close()

	c := New(s.URL())

	q, _ := sparql.ConstructEntity(subject, graph)
	_, err := c.Construct(context.Background(), q)

	is.True(errors.Is(err, mecerrors.ErrBadResponse))
}
