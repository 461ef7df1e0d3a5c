package sparql

import (
	"errors"
	"strings"
	"testing"

	mecerrors "github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
	"github.com/matryer/is"
)

const subject rdf.IRI = "http://music-event-connect.cz/entity/tm-123"
const graph rdf.IRI = "http://music-event-connect.cz/events/ticketmaster"

func TestAskWithGraph(t *testing.T) {
	is := is.New(t)

	q, err := Ask([]rdf.Triple{
		rdf.NewTriple(subject, ontology.RDFType, ontology.SchemaMusicEvent),
	}, graph)
	is.NoErr(err)

	text := q.String()
	is.True(strings.HasPrefix(text, "ASK {"))
	is.True(strings.Contains(text, "GRAPH <"+string(graph)+"> {"))
	is.True(strings.Contains(text, "<"+string(subject)+"> <"+string(ontology.RDFType)+"> <"+string(ontology.SchemaMusicEvent)+"> ."))
	is.Equal(q.Graph(), graph)
	is.Equal(len(q.Triples), 1)
}

func TestAskWithoutGraph(t *testing.T) {
	is := is.New(t)

	q, err := Ask([]rdf.Triple{
		rdf.NewTriple(subject, ontology.RDFType, ontology.SchemaMusicEvent),
	}, "")
	is.NoErr(err)
	is.True(!strings.Contains(q.String(), "GRAPH"))
}

func TestAskRejectsInvalidIRI(t *testing.T) {
	is := is.New(t)

	_, err := Ask([]rdf.Triple{
		rdf.NewTriple("not an iri", ontology.RDFType, ontology.SchemaMusicEvent),
	}, graph)
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestConstructEntityReachesThreeLevels(t *testing.T) {
	is := is.New(t)

	q, err := ConstructEntity(subject, graph)
	is.NoErr(err)

	text := q.String()
	is.True(strings.HasPrefix(text, "CONSTRUCT {"))
	is.Equal(strings.Count(text, "OPTIONAL"), 2)
	is.True(strings.Contains(text, "?o2 ?p3 ?o3 ."))
	is.True(strings.Contains(text, "GRAPH <"+string(graph)+">"))
	is.Equal(q.Depth, ConstructDepth)
}

func TestConstructEntityNeedsSubject(t *testing.T) {
	is := is.New(t)

	_, err := ConstructEntity("", graph)
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestInsertOfNothingIsNil(t *testing.T) {
	is := is.New(t)

	u, err := Insert(nil, graph)
	is.NoErr(err)
	is.True(u == nil)
}

func TestInsertData(t *testing.T) {
	is := is.New(t)

	start := rdf.NewTypedLiteral("2025-06-01T19:00:00.000Z", ontology.XSDDateTime)

	u, err := Insert([]rdf.Triple{
		rdf.NewTriple(subject, ontology.RDFType, ontology.SchemaMusicEvent),
		rdf.NewTriple(subject, ontology.SchemaStartDate, start),
	}, graph)
	is.NoErr(err)

	text := u.String()
	is.True(strings.HasPrefix(text, "INSERT DATA {"))
	is.True(strings.Contains(text, `"2025-06-01T19:00:00.000Z"^^<`+string(ontology.XSDDateTime)+`>`))
}

func TestDeleteInsertIsScopedWithWith(t *testing.T) {
	is := is.New(t)

	ticket := rdf.IRI("http://music-event-connect.cz/entity/ticket-1")

	u, err := DeleteInsert(
		[]rdf.Triple{rdf.NewTriple(ticket, ontology.SchemaAvailability, ontology.SchemaInStock)},
		[]rdf.Triple{rdf.NewTriple(ticket, ontology.SchemaAvailability, ontology.SchemaSoldOut)},
		graph,
	)
	is.NoErr(err)

	text := u.String()
	is.True(strings.HasPrefix(text, "WITH <"+string(graph)+">\nDELETE {"))
	is.True(strings.Contains(text, "<"+string(ontology.SchemaInStock)+">"))
	is.True(strings.Contains(text, "INSERT {"))
	is.True(strings.HasSuffix(text, "WHERE {}"))
	is.Equal(len(u.Delete), 1)
	is.Equal(len(u.Insert), 1)
}
