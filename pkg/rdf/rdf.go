// Package rdf holds the small term model shared by the mapping, serialization
// and sparql packages, and reads and writes it as N-Triples.
package rdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	knakk "github.com/knakk/rdf"
)

const xsdString IRI = "http://www.w3.org/2001/XMLSchema#string"

type TermKind int

const (
	KindIRI TermKind = iota
	KindLiteral
)

type Term interface {
	Kind() TermKind
	// String returns the IRI or the lexical form of a literal
	String() string
}

type IRI string

func (IRI) Kind() TermKind   { return KindIRI }
func (i IRI) String() string { return string(i) }

// Literal is a plain, datatyped or language tagged literal. A plain literal has
// neither Datatype nor Lang set.
type Literal struct {
	Value    string
	Datatype IRI
	Lang     string
}

func (Literal) Kind() TermKind   { return KindLiteral }
func (l Literal) String() string { return l.Value }

func NewLiteral(value string) Literal {
	return Literal{Value: value}
}

func NewTypedLiteral(value string, datatype IRI) Literal {
	if datatype == xsdString {
		datatype = ""
	}
	return Literal{Value: value, Datatype: datatype}
}

func NewLangLiteral(value, lang string) Literal {
	return Literal{Value: value, Lang: strings.ToLower(lang)}
}

type Triple struct {
	Subject   IRI
	Predicate IRI
	Object    Term
}

func NewTriple(subject, predicate IRI, object Term) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}

// Key returns a canonical form of the triple that can be used for set
// membership. Two triples have the same key if and only if they are equal.
func (t Triple) Key() string {
	var b strings.Builder
	b.WriteString(string(t.Subject))
	b.WriteByte(' ')
	b.WriteString(string(t.Predicate))
	b.WriteByte(' ')

	switch o := t.Object.(type) {
	case IRI:
		b.WriteString("<" + string(o) + ">")
	case Literal:
		b.WriteString(strconv.Quote(o.Value))
		if o.Lang != "" {
			b.WriteString("@" + o.Lang)
		} else if o.Datatype != "" {
			b.WriteString("^^" + string(o.Datatype))
		}
	}

	return b.String()
}

// NTriple renders the triple as a single N-Triples statement, without the
// trailing line break.
func (t Triple) NTriple() (string, error) {
	kt, err := toKnakk(t)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(kt.Serialize(knakk.NTriples)), nil
}

func EncodeNTriples(w io.Writer, triples []Triple) error {
	for _, t := range triples {
		line, err := t.NTriple()
		if err != nil {
			return err
		}
		if _, err = io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// DecodeNTriples reads every statement from r. Statements involving blank
// nodes cannot be expressed by the term model and are skipped.
func DecodeNTriples(r io.Reader) ([]Triple, error) {
	decoded, err := knakk.NewTripleDecoder(r, knakk.NTriples).DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode n-triples: %w", err)
	}

	triples := make([]Triple, 0, len(decoded))

	for _, kt := range decoded {
		subject, ok := kt.Subj.(knakk.IRI)
		if !ok {
			continue
		}

		predicate, ok := kt.Pred.(knakk.IRI)
		if !ok {
			continue
		}

		var object Term

		switch o := kt.Obj.(type) {
		case knakk.IRI:
			object = IRI(o.String())
		case knakk.Literal:
			if o.Lang() != "" {
				object = NewLangLiteral(o.String(), o.Lang())
			} else {
				object = NewTypedLiteral(o.String(), IRI(o.DataType.String()))
			}
		default:
			continue
		}

		triples = append(triples, NewTriple(IRI(subject.String()), IRI(predicate.String()), object))
	}

	return triples, nil
}

func toKnakk(t Triple) (knakk.Triple, error) {
	subject, err := knakk.NewIRI(string(t.Subject))
	if err != nil {
		return knakk.Triple{}, fmt.Errorf("invalid subject %q: %w", t.Subject, err)
	}

	predicate, err := knakk.NewIRI(string(t.Predicate))
	if err != nil {
		return knakk.Triple{}, fmt.Errorf("invalid predicate %q: %w", t.Predicate, err)
	}

	var object knakk.Object

	switch o := t.Object.(type) {
	case IRI:
		object, err = knakk.NewIRI(string(o))
	case Literal:
		object, err = toKnakkLiteral(o)
	default:
		err = fmt.Errorf("unsupported object term %T", t.Object)
	}

	if err != nil {
		return knakk.Triple{}, fmt.Errorf("invalid object in %s: %w", t.Key(), err)
	}

	return knakk.Triple{Subj: subject, Pred: predicate, Obj: object}, nil
}

func toKnakkLiteral(l Literal) (knakk.Literal, error) {
	if l.Lang != "" {
		return knakk.NewLangLiteral(l.Value, l.Lang)
	}

	datatype := l.Datatype
	if datatype == "" {
		datatype = xsdString
	}

	dt, err := knakk.NewIRI(string(datatype))
	if err != nil {
		return knakk.Literal{}, err
	}

	return knakk.NewTypedLiteral(l.Value, dt), nil
}
