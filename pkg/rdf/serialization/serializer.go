// Package serialization converts entity trees to RDF triples and back, guided
// by the declarations held in a mapping.Registry.
package serialization

import (
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/mapping"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
)

type Serializer struct {
	registry *mapping.Registry
}

func NewSerializer(registry *mapping.Registry) *Serializer {
	return &Serializer{registry: registry}
}

// Serialize returns the triples describing e and every entity nested in it.
// The first triple is always the rdf:type of e.
func (s *Serializer) Serialize(e mapping.Entity) ([]rdf.Triple, error) {
	triples := make([]rdf.Triple, 0, 32)
	return s.serializeEntity(e, triples)
}

func (s *Serializer) SubjectIRI(e mapping.Entity) (rdf.IRI, error) {
	return s.registry.SubjectIRI(e)
}

func (s *Serializer) serializeEntity(e mapping.Entity, triples []rdf.Triple) ([]rdf.Triple, error) {
	t, err := s.registry.TypeOf(e)
	if err != nil {
		return nil, err
	}

	subject, err := s.registry.SubjectIRI(e)
	if err != nil {
		return nil, err
	}

	triples = append(triples, rdf.NewTriple(subject, ontology.RDFType, t.Class))

	if t.Identifier != "" {
		triples = append(triples, rdf.NewTriple(subject, t.Identifier, rdf.NewLiteral(e.EntityID())))
	}

	for _, f := range t.Fields {
		values, err := f.Values(e)
		if err != nil {
			return nil, err
		}

		for _, v := range values {
			triples, err = s.serializeValue(subject, t, f, v, triples)
			if err != nil {
				return nil, err
			}
		}
	}

	return triples, nil
}

func (s *Serializer) serializeValue(subject rdf.IRI, t *mapping.Type, f mapping.Field, v any, triples []rdf.Triple) ([]rdf.Triple, error) {
	class, isClass := f.Encoding.(mapping.Class)
	if !isClass {
		object, err := encodeValue(t.Name+"."+f.Name, f.Encoding, v)
		if err != nil {
			return nil, err
		}
		return append(triples, rdf.NewTriple(subject, f.Predicate, object)), nil
	}

	nested, ok := v.(mapping.Entity)
	if !ok {
		return nil, errors.NewMappingError("class field %s.%s holds a %T, not an entity", t.Name, f.Name, v)
	}

	if nested.EntityType() != class.Type {
		return nil, errors.NewMappingError("class field %s.%s holds a %s, expected %s", t.Name, f.Name, nested.EntityType(), class.Type)
	}

	if nested.EntityID() == "" {
		return nil, errors.NewMappingError("%s in field %s.%s has no identifier", class.Type, t.Name, f.Name)
	}

	object, err := s.registry.SubjectIRI(nested)
	if err != nil {
		return nil, err
	}

	triples = append(triples, rdf.NewTriple(subject, f.Predicate, object))

	return s.serializeEntity(nested, triples)
}
