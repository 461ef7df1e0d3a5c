package mapping

import (
	"errors"
	"testing"

	mecerrors "github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/matryer/is"
)

const prefix = "http://music-event-connect.cz/entity/"

type band struct {
	id      string
	name    string
	members []string
	venue   *stage
}

func (b *band) EntityType() string    { return "Band" }
func (b *band) EntityID() string      { return b.id }
func (b *band) SetEntityID(id string) { b.id = id }

type stage struct {
	id   string
	name string
}

func (s *stage) EntityType() string    { return "Stage" }
func (s *stage) EntityID() string      { return s.id }
func (s *stage) SetEntityID(id string) { s.id = id }

func bandType(fields ...Field) Type {
	return Type{
		Name:   "Band",
		Class:  "http://schema.org/MusicGroup",
		Prefix: prefix,
		New:    func() Entity { return &band{} },
		Fields: fields,
	}
}

func stageType() Type {
	return Type{
		Name:   "Stage",
		Class:  "http://schema.org/Place",
		Prefix: prefix,
		New:    func() Entity { return &stage{} },
		Fields: []Field{
			Scalar("name", "http://schema.org/name", Plain{}, func(s *stage) *string { return &s.name }),
		},
	}
}

func TestNewRegistry(t *testing.T) {
	is := is.New(t)

	r, err := NewRegistry(
		bandType(
			Scalar("name", "http://schema.org/name", Plain{}, func(b *band) *string { return &b.name }),
			List("members", "http://schema.org/member", Plain{}, func(b *band) *[]string { return &b.members }),
			Nested[*band, stage]("venue", "http://schema.org/location", "Stage", func(b *band) **stage { return &b.venue }),
		),
		stageType(),
	)
	is.NoErr(err)
	is.Equal(r.Types(), []string{"Band", "Stage"})

	bt, err := r.Lookup("Band")
	is.NoErr(err)

	f, ok := bt.Field("members")
	is.True(ok)
	is.True(f.Many)
}

func TestRegistryRejectsDuplicateTypes(t *testing.T) {
	is := is.New(t)

	_, err := NewRegistry(stageType(), stageType())
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestRegistryRejectsUnknownClassType(t *testing.T) {
	is := is.New(t)

	_, err := NewRegistry(
		bandType(
			Nested[*band, stage]("venue", "http://schema.org/location", "Stage", func(b *band) **stage { return &b.venue }),
		),
	)
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestRegistryRejectsSharedPredicates(t *testing.T) {
	is := is.New(t)

	_, err := NewRegistry(
		bandType(
			Scalar("name", "http://schema.org/name", Plain{}, func(b *band) *string { return &b.name }),
			List("members", "http://schema.org/name", Plain{}, func(b *band) *[]string { return &b.members }),
		),
	)
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestRegistryRejectsMissingPrefix(t *testing.T) {
	is := is.New(t)

	st := stageType()
	st.Prefix = ""

	_, err := NewRegistry(st)
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestLookupOfUnknownType(t *testing.T) {
	is := is.New(t)

	r, _ := NewRegistry(stageType())

	_, err := r.Lookup("Festival")
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestSubjectIRIAndID(t *testing.T) {
	is := is.New(t)

	r, _ := NewRegistry(stageType())
	st, _ := r.Lookup("Stage")

	subject, err := r.SubjectIRI(&stage{id: "s1"})
	is.NoErr(err)
	is.Equal(subject, rdf.IRI(prefix+"s1"))

	id, err := st.ID(subject)
	is.NoErr(err)
	is.Equal(id, "s1")

	_, err = st.ID("http://example.org/s1")
	is.True(errors.Is(err, mecerrors.ErrMapping))

	_, err = r.SubjectIRI(&stage{})
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestFieldAccessors(t *testing.T) {
	is := is.New(t)

	name := Scalar("name", "http://schema.org/name", Plain{}, func(b *band) *string { return &b.name })
	venue := Nested[*band, stage]("venue", "http://schema.org/location", "Stage", func(b *band) **stage { return &b.venue })

	b := &band{}

	values, err := name.Values(b)
	is.NoErr(err)
	is.Equal(len(values), 0) // zero value is absent

	is.NoErr(name.Assign(b, []any{"Mňága a Žďorp"}))
	is.Equal(b.name, "Mňága a Žďorp")

	err = name.Assign(b, []any{42})
	is.True(errors.Is(err, mecerrors.ErrMapping))

	s := &stage{id: "s1"}
	is.NoErr(venue.Assign(b, []any{Entity(s)}))
	is.Equal(b.venue, s)

	_, err = name.Values(&stage{})
	is.True(errors.Is(err, mecerrors.ErrMapping))
}

func TestEnum(t *testing.T) {
	is := is.New(t)

	e := Enum{Values: map[string]rdf.IRI{"InStock": "http://schema.org/InStock"}}

	iri, ok := e.IRI("InStock")
	is.True(ok)
	is.Equal(iri, rdf.IRI("http://schema.org/InStock"))

	key, ok := e.Key("http://schema.org/InStock")
	is.True(ok)
	is.Equal(key, "InStock")

	_, ok = e.IRI("SoldOut")
	is.True(!ok)
}
