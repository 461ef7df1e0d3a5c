// Package memory provides a triple store kept in process memory. It evaluates
// the operations built by package sparql directly from their triples instead
// of parsing SPARQL text, and records every update it applies.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql"
)

type Store struct {
	mu      sync.RWMutex
	graphs  map[rdf.IRI]map[string]rdf.Triple
	updates []sparql.Update
	queries int
}

func New() *Store {
	return &Store{
		graphs: make(map[rdf.IRI]map[string]rdf.Triple),
	}
}

func (s *Store) Ask(ctx context.Context, q *sparql.AskQuery) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries++

	g := s.graphs[q.Graph()]
	for _, t := range q.Triples {
		if _, ok := g[t.Key()]; !ok {
			return false, nil
		}
	}

	return len(q.Triples) > 0, nil
}

// Construct returns the triples of q.Subject and of every resource reachable
// from it through fewer than q.Depth links.
func (s *Store) Construct(ctx context.Context, q *sparql.ConstructQuery) ([]rdf.Triple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries++

	g := s.graphs[q.Graph()]
	if len(g) == 0 {
		return nil, nil
	}

	bySubject := map[rdf.IRI][]rdf.Triple{}
	for _, t := range g {
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	result := []rdf.Triple{}
	seen := map[rdf.IRI]bool{q.Subject: true}
	frontier := []rdf.IRI{q.Subject}

	for level := 0; level < q.Depth && len(frontier) > 0; level++ {
		next := []rdf.IRI{}

		for _, subject := range frontier {
			for _, t := range bySubject[subject] {
				result = append(result, t)

				if o, ok := t.Object.(rdf.IRI); ok && !seen[o] {
					seen[o] = true
					next = append(next, o)
				}
			}
		}

		frontier = next
	}

	sortTriples(result)

	return result, nil
}

func (s *Store) Update(ctx context.Context, u sparql.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.graphs[u.Graph()]
	if !ok {
		g = make(map[string]rdf.Triple)
		s.graphs[u.Graph()] = g
	}

	switch op := u.(type) {
	case *sparql.InsertData:
		for _, t := range op.Triples {
			g[t.Key()] = t
		}
	case *sparql.DeleteInsertData:
		for _, t := range op.Delete {
			delete(g, t.Key())
		}
		for _, t := range op.Insert {
			g[t.Key()] = t
		}
	default:
		return fmt.Errorf("unsupported update %T", u)
	}

	s.updates = append(s.updates, u)

	return nil
}

// Updates returns the updates applied so far, oldest first
func (s *Store) Updates() []sparql.Update {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]sparql.Update{}, s.updates...)
}

func (s *Store) QueryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queries
}

// Triples returns the content of graph in a stable order
func (s *Store) Triples(graph rdf.IRI) []rdf.Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]rdf.Triple, 0, len(s.graphs[graph]))
	for _, t := range s.graphs[graph] {
		result = append(result, t)
	}
	sortTriples(result)

	return result
}

func sortTriples(triples []rdf.Triple) {
	sort.Slice(triples, func(i, j int) bool {
		return triples[i].Key() < triples[j].Key()
	})
}
