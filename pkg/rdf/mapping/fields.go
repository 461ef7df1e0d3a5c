package mapping

import (
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
)

// Field maps one attribute of an entity to a predicate. Values and Assign
// move the attribute in and out of the untyped form used by the serializers:
// strings, time.Time, float64, int64, bool and Entity values.
type Field struct {
	Name      string
	Predicate rdf.IRI
	Encoding  Encoding
	Many      bool

	get func(Entity) ([]any, error)
	set func(Entity, []any) error
}

// Values returns the present values of the field, nil when it is absent
func (f Field) Values(e Entity) ([]any, error) {
	return f.get(e)
}

func (f Field) Assign(e Entity, values []any) error {
	return f.set(e, values)
}

type entityPtr[T any] interface {
	*T
	Entity
}

func cast[E Entity](e Entity, field string) (E, error) {
	typed, ok := e.(E)
	if !ok {
		var zero E
		return zero, errors.NewMappingError("field %s cannot be used with %T", field, e)
	}
	return typed, nil
}

func mismatch(field string, v any) error {
	return errors.NewMappingError("field %s cannot hold a value of type %T", field, v)
}

// Scalar maps a single valued field. The zero value of V is treated as absent.
func Scalar[E Entity, V comparable](name string, predicate rdf.IRI, enc Encoding, field func(E) *V) Field {
	return Field{
		Name:      name,
		Predicate: predicate,
		Encoding:  enc,
		get: func(e Entity) ([]any, error) {
			typed, err := cast[E](e, name)
			if err != nil {
				return nil, err
			}

			var zero V
			if v := *field(typed); v != zero {
				return []any{v}, nil
			}
			return nil, nil
		},
		set: func(e Entity, values []any) error {
			typed, err := cast[E](e, name)
			if err != nil || len(values) == 0 {
				return err
			}

			v, ok := values[0].(V)
			if !ok {
				return mismatch(name, values[0])
			}
			*field(typed) = v
			return nil
		},
	}
}

// Optional maps a single valued field held by pointer, nil being absent
func Optional[E Entity, V any](name string, predicate rdf.IRI, enc Encoding, field func(E) **V) Field {
	return Field{
		Name:      name,
		Predicate: predicate,
		Encoding:  enc,
		get: func(e Entity) ([]any, error) {
			typed, err := cast[E](e, name)
			if err != nil {
				return nil, err
			}

			if p := *field(typed); p != nil {
				return []any{*p}, nil
			}
			return nil, nil
		},
		set: func(e Entity, values []any) error {
			typed, err := cast[E](e, name)
			if err != nil || len(values) == 0 {
				return err
			}

			v, ok := values[0].(V)
			if !ok {
				return mismatch(name, values[0])
			}
			*field(typed) = &v
			return nil
		},
	}
}

// List maps a multi valued field
func List[E Entity, V any](name string, predicate rdf.IRI, enc Encoding, field func(E) *[]V) Field {
	return Field{
		Name:      name,
		Predicate: predicate,
		Encoding:  enc,
		Many:      true,
		get: func(e Entity) ([]any, error) {
			typed, err := cast[E](e, name)
			if err != nil {
				return nil, err
			}

			items := *field(typed)
			if len(items) == 0 {
				return nil, nil
			}

			values := make([]any, 0, len(items))
			for _, item := range items {
				values = append(values, item)
			}
			return values, nil
		},
		set: func(e Entity, values []any) error {
			typed, err := cast[E](e, name)
			if err != nil || len(values) == 0 {
				return err
			}

			items := make([]V, 0, len(values))
			for _, value := range values {
				v, ok := value.(V)
				if !ok {
					return mismatch(name, value)
				}
				items = append(items, v)
			}
			*field(typed) = items
			return nil
		},
	}
}

// EnumOf maps a single valued field of a string based enum type
func EnumOf[E Entity, V ~string](name string, predicate rdf.IRI, enc Enum, field func(E) *V) Field {
	return Field{
		Name:      name,
		Predicate: predicate,
		Encoding:  enc,
		get: func(e Entity) ([]any, error) {
			typed, err := cast[E](e, name)
			if err != nil {
				return nil, err
			}

			if v := *field(typed); v != "" {
				return []any{string(v)}, nil
			}
			return nil, nil
		},
		set: func(e Entity, values []any) error {
			typed, err := cast[E](e, name)
			if err != nil || len(values) == 0 {
				return err
			}

			key, ok := values[0].(string)
			if !ok {
				return mismatch(name, values[0])
			}
			*field(typed) = V(key)
			return nil
		},
	}
}

// Nested maps a field holding a single entity of type typeName
func Nested[E Entity, T any, P entityPtr[T]](name string, predicate rdf.IRI, typeName string, field func(E) *P) Field {
	return Field{
		Name:      name,
		Predicate: predicate,
		Encoding:  Class{Type: typeName},
		get: func(e Entity) ([]any, error) {
			typed, err := cast[E](e, name)
			if err != nil {
				return nil, err
			}

			if p := *field(typed); (*T)(p) != nil {
				return []any{Entity(p)}, nil
			}
			return nil, nil
		},
		set: func(e Entity, values []any) error {
			typed, err := cast[E](e, name)
			if err != nil || len(values) == 0 {
				return err
			}

			p, ok := values[0].(P)
			if !ok {
				return mismatch(name, values[0])
			}
			*field(typed) = p
			return nil
		},
	}
}

// NestedList maps a field holding any number of entities of type typeName
func NestedList[E Entity, T any, P entityPtr[T]](name string, predicate rdf.IRI, typeName string, field func(E) *[]P) Field {
	return Field{
		Name:      name,
		Predicate: predicate,
		Encoding:  Class{Type: typeName},
		Many:      true,
		get: func(e Entity) ([]any, error) {
			typed, err := cast[E](e, name)
			if err != nil {
				return nil, err
			}

			items := *field(typed)
			values := make([]any, 0, len(items))
			for _, p := range items {
				if (*T)(p) != nil {
					values = append(values, Entity(p))
				}
			}
			if len(values) == 0 {
				return nil, nil
			}
			return values, nil
		},
		set: func(e Entity, values []any) error {
			typed, err := cast[E](e, name)
			if err != nil || len(values) == 0 {
				return err
			}

			items := make([]P, 0, len(values))
			for _, value := range values {
				p, ok := value.(P)
				if !ok {
					return mismatch(name, value)
				}
				items = append(items, p)
			}
			*field(typed) = items
			return nil
		},
	}
}
