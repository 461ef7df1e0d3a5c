// Package mapper persists entity trees in a triple store. It decides between
// creating, leaving alone and updating an entity so that a store only ever
// sees a write when the logical state of an entity changes.
package mapper

import (
	"context"
	"fmt"

	"github.com/lukas-kratochvil/music-event-connect/pkg/differ"
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/mapping"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/serialization"
	"github.com/lukas-kratochvil/music-event-connect/pkg/sparql"
)

//go:generate moq -rm -out ../test/store_mock.go . Store

type Store interface {
	Ask(ctx context.Context, q *sparql.AskQuery) (bool, error)
	Construct(ctx context.Context, q *sparql.ConstructQuery) ([]rdf.Triple, error)
	Update(ctx context.Context, u sparql.Update) error
}

type Outcome int

const (
	Created Outcome = iota
	Unchanged
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Unchanged:
		return "unchanged"
	case Updated:
		return "updated"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Mapper reads and writes entities of a single root type E.
//
// A Mapper keeps no state between calls, but Upsert is a read followed by a
// write: callers must not run two calls for the same identifier concurrently.
type Mapper[E mapping.Entity] struct {
	registry     *mapping.Registry
	store        Store
	root         *mapping.Type
	serializer   *serialization.Serializer
	deserializer *serialization.Deserializer
	differ       *differ.Differ

	sharedSubjects bool
}

type Option func(*options)

type options struct {
	differ         *differ.Differ
	sharedSubjects bool
}

func WithDiffer(d *differ.Differ) Option {
	return func(o *options) {
		o.differ = d
	}
}

// WithSharedSubjects declares that nested subjects may be referenced by more
// than one root entity, as happens with content addressed identifiers. Updates
// then leave subjects that are no longer referenced in place and never move
// incoming nested entities onto the stored subjects.
func WithSharedSubjects() Option {
	return func(o *options) {
		o.sharedSubjects = true
	}
}

func New[E mapping.Entity](registry *mapping.Registry, store Store, typeName string, opts ...Option) (*Mapper[E], error) {
	root, err := registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	if _, ok := root.New().(E); !ok {
		return nil, errors.NewMappingError("type %s is not constructed as %T", typeName, *new(E))
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.differ == nil {
		o.differ = differ.New(registry)
	}

	return &Mapper[E]{
		registry:       registry,
		store:          store,
		root:           root,
		serializer:     serialization.NewSerializer(registry),
		deserializer:   serialization.NewDeserializer(registry),
		differ:         o.differ,
		sharedSubjects: o.sharedSubjects,
	}, nil
}

// Exists asks whether an entity with id is stored in graph
func (m *Mapper[E]) Exists(ctx context.Context, id string, graph rdf.IRI) (bool, error) {
	if id == "" {
		return false, errors.NewMappingError("%s entity has no identifier", m.root.Name)
	}

	subject := m.root.SubjectIRI(id)
	skeleton := []rdf.Triple{rdf.NewTriple(subject, ontology.RDFType, m.root.Class)}
	if m.root.Identifier != "" {
		skeleton = append(skeleton, rdf.NewTriple(subject, m.root.Identifier, rdf.NewLiteral(id)))
	}

	q, err := sparql.Ask(skeleton, graph)
	if err != nil {
		return false, err
	}

	return m.store.Ask(ctx, q)
}

// Create inserts every triple of e without checking for an existing entity
func (m *Mapper[E]) Create(ctx context.Context, e E, graph rdf.IRI) error {
	triples, err := m.serializer.Serialize(e)
	if err != nil {
		return err
	}

	u, err := sparql.Insert(triples, graph)
	if err != nil || u == nil {
		return err
	}

	return m.store.Update(ctx, u)
}

// Get fetches the entity with id from graph, failing with errors.ErrNotFound
// when the store knows nothing about it.
func (m *Mapper[E]) Get(ctx context.Context, id string, graph rdf.IRI) (E, error) {
	var zero E

	subject := m.root.SubjectIRI(id)

	q, err := sparql.ConstructEntity(subject, graph)
	if err != nil {
		return zero, err
	}

	triples, err := m.store.Construct(ctx, q)
	if err != nil {
		return zero, err
	}

	if len(triples) == 0 {
		return zero, errors.NewNotFoundError(fmt.Sprintf("no %s with id %s in graph %s", m.root.Name, id, graph))
	}

	e, err := m.deserializer.Deserialize(m.root.Name, subject, triples)
	if err != nil {
		return zero, err
	}

	return e.(E), nil
}

// Update replaces stored with incoming in a single DELETE/INSERT. Only the
// subjects whose triples changed are rewritten. It reports whether a write was
// issued.
func (m *Mapper[E]) Update(ctx context.Context, stored, incoming E, graph rdf.IRI) (bool, error) {
	u, err := m.plan(stored, incoming, graph)
	if err != nil || u == nil {
		return false, err
	}

	if err = m.store.Update(ctx, u); err != nil {
		return false, err
	}

	return true, nil
}

// Upsert creates e if it is absent, returns the stored version when it does
// not differ from e and otherwise updates it and returns the entity as it was
// written, nested identifiers included.
func (m *Mapper[E]) Upsert(ctx context.Context, e E, graph rdf.IRI) (E, Outcome, error) {
	exists, err := m.Exists(ctx, e.EntityID(), graph)
	if err != nil {
		return e, Created, err
	}

	if !exists {
		if err = m.Create(ctx, e, graph); err != nil {
			return e, Created, err
		}
		return e, Created, nil
	}

	stored, err := m.Get(ctx, e.EntityID(), graph)
	if err != nil {
		return e, Unchanged, err
	}

	same, err := m.differ.Same(stored, e)
	if err != nil {
		return e, Unchanged, err
	}

	if same {
		return stored, Unchanged, nil
	}

	written, err := m.Update(ctx, stored, e, graph)
	if err != nil {
		return e, Updated, err
	}

	if !written {
		return stored, Unchanged, nil
	}

	updated, err := m.Get(ctx, e.EntityID(), graph)
	if err != nil {
		return e, Updated, err
	}

	return updated, Updated, nil
}
