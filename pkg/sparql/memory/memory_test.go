package memory

import (
	"context"
	"testing"

	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql"
	"github.com/matryer/is"
)

const graph rdf.IRI = "http://music-event-connect.cz/events/goout"

func TestInsertThenAsk(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()

	triples := []rdf.Triple{
		rdf.NewTriple(ontology.MEC+"e1", ontology.RDFType, ontology.SchemaMusicEvent),
		rdf.NewTriple(ontology.MEC+"e1", ontology.SchemaIdentifier, rdf.NewLiteral("e1")),
	}

	ask, _ := sparql.Ask(triples, graph)

	found, err := s.Ask(ctx, ask)
	is.NoErr(err)
	is.True(!found)

	insert, _ := sparql.Insert(triples, graph)
	is.NoErr(s.Update(ctx, insert))

	found, err = s.Ask(ctx, ask)
	is.NoErr(err)
	is.True(found)

	other, _ := sparql.Ask(triples, "")
	found, _ = s.Ask(ctx, other)
	is.True(!found) // graphs are separate
}

func TestConstructStopsAtThirdLevel(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()

	chain := []rdf.IRI{ontology.MEC + "a", ontology.MEC + "b", ontology.MEC + "c", ontology.MEC + "d"}
	triples := []rdf.Triple{}
	for i := 0; i < len(chain)-1; i++ {
		triples = append(triples, rdf.NewTriple(chain[i], ontology.SchemaLocation, chain[i+1]))
	}
	triples = append(triples, rdf.NewTriple(chain[3], ontology.SchemaName, rdf.NewLiteral("too deep")))

	insert, _ := sparql.Insert(triples, graph)
	is.NoErr(s.Update(ctx, insert))

	q, _ := sparql.ConstructEntity(chain[0], graph)
	result, err := s.Construct(ctx, q)
	is.NoErr(err)
	is.Equal(len(result), 3)
}

func TestDeleteInsert(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := New()

	ticket := rdf.IRI(ontology.MEC + "t1")
	inStock := rdf.NewTriple(ticket, ontology.SchemaAvailability, ontology.SchemaInStock)
	soldOut := rdf.NewTriple(ticket, ontology.SchemaAvailability, ontology.SchemaSoldOut)

	insert, _ := sparql.Insert([]rdf.Triple{inStock}, graph)
	is.NoErr(s.Update(ctx, insert))

	update, _ := sparql.DeleteInsert([]rdf.Triple{inStock}, []rdf.Triple{soldOut}, graph)
	is.NoErr(s.Update(ctx, update))

	is.Equal(s.Triples(graph), []rdf.Triple{soldOut})
	is.Equal(len(s.Updates()), 2)
}
