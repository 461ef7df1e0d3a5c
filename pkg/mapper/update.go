package mapper

import (
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/mapping"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql"
)

// rekey tells how a subject of the incoming tree is written when it stands in
// for an already stored subject
type rekey struct {
	subject    rdf.IRI
	identifier rdf.IRI
	fromID     string
	toID       string
}

// plan computes the update turning stored into incoming, nil if the two
// serialize to the same triples.
func (m *Mapper[E]) plan(stored, incoming E, graph rdf.IRI) (*sparql.DeleteInsertData, error) {
	oldTriples, err := m.serializer.Serialize(stored)
	if err != nil {
		return nil, err
	}

	newTriples, err := m.serializer.Serialize(incoming)
	if err != nil {
		return nil, err
	}

	root, err := m.registry.SubjectIRI(incoming)
	if err != nil {
		return nil, err
	}

	if !m.sharedSubjects {
		remap := map[rdf.IRI]rekey{}
		if err = m.pair(stored, incoming, remap); err != nil {
			return nil, err
		}
		newTriples = rewrite(newTriples, remap)
	}

	oldBySubject, subjects := groupBySubject(oldTriples, nil)
	newBySubject, subjects := groupBySubject(newTriples, subjects)

	var del, ins []rdf.Triple

	for _, s := range subjects {
		before, after := oldBySubject[s], newBySubject[s]

		if sameTriples(before, after) {
			continue
		}

		if len(after) == 0 && m.sharedSubjects && s != root {
			continue
		}

		del = append(del, before...)
		ins = append(ins, after...)
	}

	if len(del) == 0 && len(ins) == 0 {
		return nil, nil
	}

	return sparql.DeleteInsert(del, ins, graph)
}

// pair walks both trees side by side and records which incoming subjects
// correspond to stored ones. Single nested entities correspond by position,
// lists by the natural key of their type.
func (m *Mapper[E]) pair(stored, incoming mapping.Entity, remap map[rdf.IRI]rekey) error {
	t, err := m.registry.TypeOf(incoming)
	if err != nil {
		return err
	}

	from, err := m.registry.SubjectIRI(incoming)
	if err != nil {
		return err
	}

	to, err := m.registry.SubjectIRI(stored)
	if err != nil {
		return err
	}

	if _, seen := remap[from]; seen {
		return nil
	}

	remap[from] = rekey{
		subject:    to,
		identifier: t.Identifier,
		fromID:     incoming.EntityID(),
		toID:       stored.EntityID(),
	}

	for _, f := range t.Fields {
		class, ok := f.Encoding.(mapping.Class)
		if !ok {
			continue
		}

		nested, err := m.registry.Lookup(class.Type)
		if err != nil {
			return err
		}

		storedValues, err := f.Values(stored)
		if err != nil {
			return err
		}

		incomingValues, err := f.Values(incoming)
		if err != nil {
			return err
		}

		if !f.Many {
			if len(storedValues) == 1 && len(incomingValues) == 1 {
				if err := m.pair(storedValues[0].(mapping.Entity), incomingValues[0].(mapping.Entity), remap); err != nil {
					return err
				}
			}
			continue
		}

		if nested.Key == nil {
			continue
		}

		used := make([]bool, len(storedValues))

		for _, iv := range incomingValues {
			ie := iv.(mapping.Entity)
			key := nested.Key(ie)

			for i, sv := range storedValues {
				se := sv.(mapping.Entity)
				if used[i] || nested.Key(se) != key {
					continue
				}

				used[i] = true
				if err := m.pair(se, ie, remap); err != nil {
					return err
				}
				break
			}
		}
	}

	return nil
}

func rewrite(triples []rdf.Triple, remap map[rdf.IRI]rekey) []rdf.Triple {
	result := make([]rdf.Triple, 0, len(triples))

	for _, t := range triples {
		r, ok := remap[t.Subject]
		if ok {
			if t.Predicate == r.identifier && r.identifier != "" {
				if lit, isLiteral := t.Object.(rdf.Literal); isLiteral && lit.Value == r.fromID {
					t.Object = rdf.NewLiteral(r.toID)
				}
			}
			t.Subject = r.subject
		}

		if o, isIRI := t.Object.(rdf.IRI); isIRI {
			if r, ok := remap[o]; ok {
				t.Object = r.subject
			}
		}

		result = append(result, t)
	}

	return result
}

// groupBySubject groups triples by subject, dropping duplicates, and appends
// subjects not seen before to order
func groupBySubject(triples []rdf.Triple, order []rdf.IRI) (map[rdf.IRI][]rdf.Triple, []rdf.IRI) {
	known := make(map[rdf.IRI]bool, len(order))
	for _, s := range order {
		known[s] = true
	}

	grouped := map[rdf.IRI][]rdf.Triple{}
	seen := map[string]bool{}

	for _, t := range triples {
		k := t.Key()
		if seen[k] {
			continue
		}
		seen[k] = true

		grouped[t.Subject] = append(grouped[t.Subject], t)

		if !known[t.Subject] {
			known[t.Subject] = true
			order = append(order, t.Subject)
		}
	}

	return grouped, order
}

func sameTriples(a, b []rdf.Triple) bool {
	if len(a) != len(b) {
		return false
	}

	keys := make(map[string]bool, len(a))
	for _, t := range a {
		keys[t.Key()] = true
	}

	for _, t := range b {
		if !keys[t.Key()] {
			return false
		}
	}

	return true
}
