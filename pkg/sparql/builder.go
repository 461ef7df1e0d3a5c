// Package sparql builds the SPARQL 1.1 queries and updates issued by the
// mapper. Builders are pure: they only render text and keep the triples they
// were built from so that stores can inspect them.
package sparql

import (
	"strings"

	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
)

// Operation is any query or update that can be rendered as SPARQL text
type Operation interface {
	String() string
	Graph() rdf.IRI
}

// Update is implemented by operations that modify the store
type Update interface {
	Operation
	update()
}

type AskQuery struct {
	Triples []rdf.Triple
	graph   rdf.IRI
	text    string
}

func (q *AskQuery) String() string { return q.text }
func (q *AskQuery) Graph() rdf.IRI { return q.graph }

type ConstructQuery struct {
	Subject rdf.IRI
	Depth   int
	graph   rdf.IRI
	text    string
}

func (q *ConstructQuery) String() string { return q.text }
func (q *ConstructQuery) Graph() rdf.IRI { return q.graph }

type InsertData struct {
	Triples []rdf.Triple
	graph   rdf.IRI
	text    string
}

func (u *InsertData) String() string { return u.text }
func (u *InsertData) Graph() rdf.IRI { return u.graph }
func (u *InsertData) update()        {}

type DeleteInsertData struct {
	Delete []rdf.Triple
	Insert []rdf.Triple
	graph  rdf.IRI
	text   string
}

func (u *DeleteInsertData) String() string { return u.text }
func (u *DeleteInsertData) Graph() rdf.IRI { return u.graph }
func (u *DeleteInsertData) update()        {}

// Ask builds a query that is true when every triple is present in graph, or in
// the default graph when graph is empty. The triples are matched exactly, no
// variables are involved.
func Ask(triples []rdf.Triple, graph rdf.IRI) (*AskQuery, error) {
	block, err := triplesBlock(triples, "  ")
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("ASK {\n")
	writeGraphScoped(&b, graph, block)
	b.WriteString("}")

	return &AskQuery{Triples: triples, graph: graph, text: b.String()}, nil
}

// ConstructDepth is how many levels below the root the entity query reaches,
// enough for event -> venue -> address and event -> artist -> account.
const ConstructDepth = 3

// ConstructEntity builds a query returning the triples of subject, of the
// resources it links to and of the resources those link to, each deeper level
// optional.
func ConstructEntity(subject rdf.IRI, graph rdf.IRI) (*ConstructQuery, error) {
	if subject == "" {
		return nil, errors.NewMappingError("cannot construct an entity without subject")
	}

	s := "<" + string(subject) + ">"

	var b strings.Builder
	b.WriteString("CONSTRUCT {\n")
	b.WriteString("  " + s + " ?p1 ?o1 .\n")
	b.WriteString("  ?o1 ?p2 ?o2 .\n")
	b.WriteString("  ?o2 ?p3 ?o3 .\n")
	b.WriteString("}\nWHERE {\n")

	pattern := "  " + s + " ?p1 ?o1 .\n" +
		"  OPTIONAL {\n" +
		"    ?o1 ?p2 ?o2 .\n" +
		"    OPTIONAL {\n" +
		"      ?o2 ?p3 ?o3 .\n" +
		"    }\n" +
		"  }\n"

	writeGraphScoped(&b, graph, pattern)
	b.WriteString("}")

	return &ConstructQuery{Subject: subject, Depth: ConstructDepth, graph: graph, text: b.String()}, nil
}

// Insert builds an INSERT DATA update. It returns nil when there is nothing to
// insert, which callers should treat as a successful no-op.
func Insert(triples []rdf.Triple, graph rdf.IRI) (*InsertData, error) {
	if len(triples) == 0 {
		return nil, nil
	}

	block, err := triplesBlock(triples, "  ")
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("INSERT DATA {\n")
	writeGraphScoped(&b, graph, block)
	b.WriteString("}")

	return &InsertData{Triples: triples, graph: graph, text: b.String()}, nil
}

// DeleteInsert builds a single DELETE/INSERT update scoped to graph with WITH.
func DeleteInsert(deleteTriples, insertTriples []rdf.Triple, graph rdf.IRI) (*DeleteInsertData, error) {
	del, err := triplesBlock(deleteTriples, "  ")
	if err != nil {
		return nil, err
	}

	ins, err := triplesBlock(insertTriples, "  ")
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if graph != "" {
		b.WriteString("WITH <" + string(graph) + ">\n")
	}
	b.WriteString("DELETE {\n" + del + "}\n")
	b.WriteString("INSERT {\n" + ins + "}\n")
	b.WriteString("WHERE {}")

	return &DeleteInsertData{Delete: deleteTriples, Insert: insertTriples, graph: graph, text: b.String()}, nil
}

func triplesBlock(triples []rdf.Triple, indent string) (string, error) {
	var b strings.Builder
	for _, t := range triples {
		line, err := t.NTriple()
		if err != nil {
			return "", errors.NewMappingError("%s", err.Error())
		}
		b.WriteString(indent + line + "\n")
	}
	return b.String(), nil
}

func writeGraphScoped(b *strings.Builder, graph rdf.IRI, block string) {
	if graph == "" {
		b.WriteString(block)
		return
	}

	b.WriteString("  GRAPH <" + string(graph) + "> {\n")
	for _, line := range strings.SplitAfter(block, "\n") {
		if line != "" {
			b.WriteString("  " + line)
		}
	}
	b.WriteString("  }\n")
}
