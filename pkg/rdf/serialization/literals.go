package serialization

import (
	"strconv"
	"strings"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/mapping"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
)

// TimeLayout is ISO-8601 in UTC with millisecond precision
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

func lexicalForm(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case time.Time:
		return x.UTC().Format(TimeLayout), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	return "", errors.NewMappingError("no literal form for values of type %T", v)
}

// encodeValue turns a non-entity field value into the RDF object dictated by enc
func encodeValue(field string, enc mapping.Encoding, v any) (rdf.Term, error) {
	switch e := enc.(type) {
	case mapping.Enum:
		key, ok := v.(string)
		if !ok {
			return nil, errors.NewMappingError("enum field %s holds a %T", field, v)
		}
		iri, ok := e.IRI(key)
		if !ok {
			return nil, errors.NewMappingError("no mapping for '%s' enum value on field %s", key, field)
		}
		return iri, nil

	case mapping.URL:
		s, ok := v.(string)
		if !ok {
			return nil, errors.NewMappingError("url field %s holds a %T", field, v)
		}
		return rdf.IRI(s), nil

	case mapping.Class:
		return nil, errors.NewMappingError("class field %s holds a %T, not an entity", field, v)
	}

	lexical, err := lexicalForm(v)
	if err != nil {
		return nil, err
	}

	switch e := enc.(type) {
	case mapping.Datatype:
		return rdf.NewTypedLiteral(lexical, e.IRI), nil
	case mapping.Language:
		return rdf.NewLangLiteral(lexical, e.Tag), nil
	case mapping.Plain:
		return rdf.NewLiteral(lexical), nil
	}

	return nil, errors.NewMappingError("field %s has unsupported encoding %T", field, enc)
}

// decodeValue is the inverse of encodeValue
func decodeValue(field string, enc mapping.Encoding, term rdf.Term) (any, error) {
	switch e := enc.(type) {
	case mapping.Enum:
		iri, ok := term.(rdf.IRI)
		if !ok {
			return nil, errors.NewMappingError("enum field %s holds literal %q", field, term.String())
		}
		key, ok := e.Key(iri)
		if !ok {
			return nil, errors.NewMappingError("no enum value of field %s is mapped to %s", field, iri)
		}
		return key, nil

	case mapping.URL:
		return term.String(), nil

	case mapping.Datatype:
		lit, ok := term.(rdf.Literal)
		if !ok {
			return term.String(), nil
		}
		return decodeTyped(field, lit)
	}

	return term.String(), nil
}

func decodeTyped(field string, lit rdf.Literal) (any, error) {
	value := strings.TrimSpace(lit.Value)

	switch lit.Datatype {
	case ontology.XSDDateTime, ontology.XSDDate:
		t, err := parseTime(value)
		if err != nil {
			return nil, errors.NewMappingError("field %s: invalid %s %q", field, lit.Datatype, lit.Value)
		}
		return t, nil

	case ontology.XSDDecimal, ontology.XSDDouble, ontology.XSDFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.NewMappingError("field %s: invalid %s %q", field, lit.Datatype, lit.Value)
		}
		return f, nil

	case ontology.XSDInteger, ontology.XSDInt, ontology.XSDLong:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errors.NewMappingError("field %s: invalid %s %q", field, lit.Datatype, lit.Value)
		}
		return i, nil

	case ontology.XSDBoolean:
		return value == "true" || value == "1", nil
	}

	return lit.Value, nil
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.NewMappingError("unsupported time format")
}
