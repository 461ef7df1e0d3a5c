// Package mapping describes how entity types are mapped to RDF. Every type is
// declared once as a Type with an ordered list of Fields and collected into a
// Registry that is read-only after construction.
package mapping

import (
	"sort"
	"strings"

	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
)

// Entity is a node of a persisted entity tree
type Entity interface {
	EntityType() string
	EntityID() string
	SetEntityID(id string)
}

type Type struct {
	Name   string
	Class  rdf.IRI
	Prefix string
	// Identifier, when set, is the predicate used to store the entity id as a
	// plain literal next to the subject IRI.
	Identifier rdf.IRI
	New        func() Entity
	// Key returns the natural key of an entity, used to pair up list elements
	// of two versions of the same aggregate. Optional.
	Key    func(Entity) string
	Fields []Field
}

func (t *Type) SubjectIRI(id string) rdf.IRI {
	return rdf.IRI(t.Prefix + id)
}

// ID recovers the entity id from a subject IRI minted by SubjectIRI
func (t *Type) ID(subject rdf.IRI) (string, error) {
	id, found := strings.CutPrefix(string(subject), t.Prefix)
	if !found || id == "" {
		return "", errors.NewMappingError("subject %s is not a %s (expected prefix %s)", subject, t.Name, t.Prefix)
	}
	return id, nil
}

func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

type Registry struct {
	types map[string]*Type
}

// NewRegistry checks the type declarations for consistency and returns a
// registry holding them.
func NewRegistry(types ...Type) (*Registry, error) {
	r := &Registry{
		types: make(map[string]*Type, len(types)),
	}

	for i := range types {
		t := types[i]

		if t.Name == "" {
			return nil, errors.NewMappingError("type #%d has no name", i)
		}
		if _, exists := r.types[t.Name]; exists {
			return nil, errors.NewMappingError("type %s is declared more than once", t.Name)
		}
		if t.Class == "" || t.Prefix == "" {
			return nil, errors.NewMappingError("type %s needs both a class and a subject prefix", t.Name)
		}
		if t.New == nil {
			return nil, errors.NewMappingError("type %s has no constructor", t.Name)
		}
		if got := t.New().EntityType(); got != t.Name {
			return nil, errors.NewMappingError("constructor of type %s returns a %s", t.Name, got)
		}

		r.types[t.Name] = &t
	}

	for _, t := range r.types {
		if err := r.checkFields(t); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) checkFields(t *Type) error {
	seen := map[rdf.IRI]string{}

	for _, f := range t.Fields {
		if f.get == nil || f.set == nil {
			return errors.NewMappingError("field %s.%s has no accessors", t.Name, f.Name)
		}
		if f.Predicate == "" {
			return errors.NewMappingError("field %s.%s has no predicate", t.Name, f.Name)
		}
		if other, dup := seen[f.Predicate]; dup {
			return errors.NewMappingError("fields %s.%s and %s.%s share predicate %s", t.Name, other, t.Name, f.Name, f.Predicate)
		}
		seen[f.Predicate] = f.Name

		switch enc := f.Encoding.(type) {
		case Plain, URL, Language:
		case Datatype:
			if enc.IRI == "" {
				return errors.NewMappingError("field %s.%s has an empty datatype", t.Name, f.Name)
			}
		case Class:
			if _, ok := r.types[enc.Type]; !ok {
				return errors.NewMappingError("field %s.%s refers to unknown type %s", t.Name, f.Name, enc.Type)
			}
		case Enum:
			if len(enc.Values) == 0 {
				return errors.NewMappingError("field %s.%s has an empty enum mapping", t.Name, f.Name)
			}
		default:
			return errors.NewMappingError("field %s.%s has unsupported encoding %T", t.Name, f.Name, f.Encoding)
		}
	}

	if t.Identifier != "" {
		if _, dup := seen[t.Identifier]; dup {
			return errors.NewMappingError("identifier predicate of %s is also used by a field", t.Name)
		}
	}

	return nil
}

func (r *Registry) Lookup(name string) (*Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, errors.NewMappingError("no mapping registered for type %q", name)
	}
	return t, nil
}

func (r *Registry) TypeOf(e Entity) (*Type, error) {
	if e == nil {
		return nil, errors.NewMappingError("nil entity")
	}
	return r.Lookup(e.EntityType())
}

// SubjectIRI returns the subject IRI of e, failing for entities without id
func (r *Registry) SubjectIRI(e Entity) (rdf.IRI, error) {
	t, err := r.TypeOf(e)
	if err != nil {
		return "", err
	}
	if e.EntityID() == "" {
		return "", errors.NewMappingError("%s entity has no identifier", t.Name)
	}
	return t.SubjectIRI(e.EntityID()), nil
}

func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
