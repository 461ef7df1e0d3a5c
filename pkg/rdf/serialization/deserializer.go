package serialization

import (
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/mapping"
)

type Deserializer struct {
	registry *mapping.Registry
}

func NewDeserializer(registry *mapping.Registry) *Deserializer {
	return &Deserializer{registry: registry}
}

// Deserialize rebuilds the entity of type typeName found at subject. The
// triples are expected to be bounded by the query that fetched them; nested
// entities whose triples are missing come back with only their id set.
func (d *Deserializer) Deserialize(typeName string, subject rdf.IRI, triples []rdf.Triple) (mapping.Entity, error) {
	bySubject := make(map[rdf.IRI][]rdf.Triple)
	for _, t := range triples {
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	return d.deserializeEntity(typeName, subject, bySubject, map[rdf.IRI]bool{})
}

func (d *Deserializer) deserializeEntity(typeName string, subject rdf.IRI, bySubject map[rdf.IRI][]rdf.Triple, visiting map[rdf.IRI]bool) (mapping.Entity, error) {
	t, err := d.registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	id, err := t.ID(subject)
	if err != nil {
		return nil, err
	}

	if visiting[subject] {
		return nil, errors.NewMappingError("cycle detected at %s", subject)
	}
	visiting[subject] = true
	defer delete(visiting, subject)

	e := t.New()
	e.SetEntityID(id)

	statements := bySubject[subject]

	for _, f := range t.Fields {
		var values []any

		for _, st := range statements {
			if st.Predicate != f.Predicate {
				continue
			}

			v, err := d.deserializeValue(t, f, st.Object, bySubject, visiting)
			if err != nil {
				return nil, err
			}

			values = append(values, v)

			if !f.Many {
				break
			}
		}

		if err := f.Assign(e, values); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func (d *Deserializer) deserializeValue(t *mapping.Type, f mapping.Field, object rdf.Term, bySubject map[rdf.IRI][]rdf.Triple, visiting map[rdf.IRI]bool) (any, error) {
	class, isClass := f.Encoding.(mapping.Class)
	if !isClass {
		return decodeValue(t.Name+"."+f.Name, f.Encoding, object)
	}

	nestedSubject, ok := object.(rdf.IRI)
	if !ok {
		return nil, errors.NewMappingError("class field %s.%s points to literal %q", t.Name, f.Name, object.String())
	}

	return d.deserializeEntity(class.Type, nestedSubject, bySubject, visiting)
}
