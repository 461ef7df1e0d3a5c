package mapping

import "github.com/lukas-kratochvil/music-event-connect/pkg/rdf"

// Encoding decides how the values of a field are written as RDF objects. The
// set of encodings is closed; Plain, Datatype, Language, URL, Class and Enum
// are the only implementations.
type Encoding interface {
	encoding()
}

// Plain values are written as literals without datatype or language tag
type Plain struct{}

// Datatype values are written as literals typed with IRI
type Datatype struct {
	IRI rdf.IRI
}

// Language values are written as literals tagged with Tag
type Language struct {
	Tag string
}

// URL values are written as IRI references
type URL struct{}

// Class values are entities of the named Type. A field using this encoding
// links its subject to the nested entity's subject IRI.
type Class struct {
	Type string
}

// Enum values are keys that are written as the IRI they are mapped to
type Enum struct {
	Values map[string]rdf.IRI
}

func (Plain) encoding()    {}
func (Datatype) encoding() {}
func (Language) encoding() {}
func (URL) encoding()      {}
func (Class) encoding()    {}
func (Enum) encoding()     {}

func (e Enum) IRI(key string) (rdf.IRI, bool) {
	iri, ok := e.Values[key]
	return iri, ok
}

func (e Enum) Key(iri rdf.IRI) (string, bool) {
	for k, v := range e.Values {
		if v == iri {
			return k, true
		}
	}
	return "", false
}
