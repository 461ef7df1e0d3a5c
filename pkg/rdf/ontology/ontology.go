// Package ontology lists the closed vocabulary subset the entities are mapped to.
package ontology

import "github.com/lukas-kratochvil/music-event-connect/pkg/rdf"

const (
	FOAF   = "https://xmlns.com/foaf/spec/"
	MEC    = "http://music-event-connect.cz/entity/"
	RDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	Schema = "http://schema.org/"
	XSD    = "http://www.w3.org/2001/XMLSchema#"
)

const RDFType rdf.IRI = RDF + "type"

const (
	XSDString   rdf.IRI = XSD + "string"
	XSDAnyURI   rdf.IRI = XSD + "anyURI"
	XSDBoolean  rdf.IRI = XSD + "boolean"
	XSDDate     rdf.IRI = XSD + "date"
	XSDDateTime rdf.IRI = XSD + "dateTime"
	XSDDecimal  rdf.IRI = XSD + "decimal"
	XSDDouble   rdf.IRI = XSD + "double"
	XSDFloat    rdf.IRI = XSD + "float"
	XSDInteger  rdf.IRI = XSD + "integer"
	XSDInt      rdf.IRI = XSD + "int"
	XSDLong     rdf.IRI = XSD + "long"
)

// schema.org classes
const (
	SchemaMusicEvent    rdf.IRI = Schema + "MusicEvent"
	SchemaMusicGroup    rdf.IRI = Schema + "MusicGroup"
	SchemaOffer         rdf.IRI = Schema + "Offer"
	SchemaPlace         rdf.IRI = Schema + "Place"
	SchemaPostalAddress rdf.IRI = Schema + "PostalAddress"
)

// schema.org properties
const (
	SchemaIdentifier rdf.IRI = Schema + "identifier"
	SchemaImage      rdf.IRI = Schema + "image"
	SchemaName       rdf.IRI = Schema + "name"
	SchemaSameAs     rdf.IRI = Schema + "sameAs"
	SchemaURL        rdf.IRI = Schema + "url"

	SchemaPerformer rdf.IRI = Schema + "performer"
	SchemaLocation  rdf.IRI = Schema + "location"
	SchemaDoorTime  rdf.IRI = Schema + "doorTime"
	SchemaStartDate rdf.IRI = Schema + "startDate"
	SchemaEndDate   rdf.IRI = Schema + "endDate"
	SchemaOffers    rdf.IRI = Schema + "offers"

	SchemaGenre rdf.IRI = Schema + "genre"

	SchemaAvailability rdf.IRI = Schema + "availability"

	SchemaAddress   rdf.IRI = Schema + "address"
	SchemaLatitude  rdf.IRI = Schema + "latitude"
	SchemaLongitude rdf.IRI = Schema + "longitude"

	SchemaAddressCountry  rdf.IRI = Schema + "addressCountry"
	SchemaAddressLocality rdf.IRI = Schema + "addressLocality"
	SchemaStreetAddress   rdf.IRI = Schema + "streetAddress"
)

// schema.org ItemAvailability members
const (
	SchemaInStock rdf.IRI = Schema + "InStock"
	SchemaSoldOut rdf.IRI = Schema + "SoldOut"
)

const (
	FOAFOnlineAccount rdf.IRI = FOAF + "OnlineAccount"

	FOAFAccount                rdf.IRI = FOAF + "account"
	FOAFAccountName            rdf.IRI = FOAF + "accountName"
	FOAFAccountServiceHomepage rdf.IRI = FOAF + "accountServiceHomepage"
)
