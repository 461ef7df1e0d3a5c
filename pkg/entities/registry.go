package entities

import (
	"strconv"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/mapping"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
)

var (
	plain     = mapping.Plain{}
	reference = mapping.URL{}
	anyURI    = mapping.Datatype{IRI: ontology.XSDAnyURI}
	dateTime  = mapping.Datatype{IRI: ontology.XSDDateTime}
	decimal   = mapping.Datatype{IRI: ontology.XSDDecimal}
	english   = mapping.Language{Tag: "en"}
)

var ItemAvailability = mapping.Enum{
	Values: map[string]rdf.IRI{
		string(InStock): ontology.SchemaInStock,
		string(SoldOut): ontology.SchemaSoldOut,
	},
}

// Types returns the mapping declarations of every entity in the MusicEvent
// aggregate.
func Types() []mapping.Type {
	return []mapping.Type{
		{
			Name:       MusicEventType,
			Class:      ontology.SchemaMusicEvent,
			Prefix:     ontology.MEC,
			Identifier: ontology.SchemaIdentifier,
			New:        func() mapping.Entity { return &MusicEvent{} },
			Fields: []mapping.Field{
				mapping.Scalar("name", ontology.SchemaName, plain, func(e *MusicEvent) *string { return &e.Name }),
				mapping.Scalar("url", ontology.SchemaURL, anyURI, func(e *MusicEvent) *string { return &e.URL }),
				mapping.NestedList[*MusicEvent, Artist]("artists", ontology.SchemaPerformer, ArtistType, func(e *MusicEvent) *[]*Artist { return &e.Artists }),
				mapping.NestedList[*MusicEvent, Venue]("venues", ontology.SchemaLocation, VenueType, func(e *MusicEvent) *[]*Venue { return &e.Venues }),
				mapping.Optional("doorTime", ontology.SchemaDoorTime, dateTime, func(e *MusicEvent) **time.Time { return &e.DoorTime }),
				mapping.Scalar("startDate", ontology.SchemaStartDate, dateTime, func(e *MusicEvent) *time.Time { return &e.StartDate }),
				mapping.Optional("endDate", ontology.SchemaEndDate, dateTime, func(e *MusicEvent) **time.Time { return &e.EndDate }),
				mapping.Nested[*MusicEvent, Ticket]("ticket", ontology.SchemaOffers, TicketType, func(e *MusicEvent) **Ticket { return &e.Ticket }),
			},
		},
		{
			Name:       ArtistType,
			Class:      ontology.SchemaMusicGroup,
			Prefix:     ontology.MEC,
			Identifier: ontology.SchemaIdentifier,
			New:        func() mapping.Entity { return &Artist{} },
			Key:        func(e mapping.Entity) string { return e.(*Artist).Name },
			Fields: []mapping.Field{
				mapping.Scalar("name", ontology.SchemaName, plain, func(a *Artist) *string { return &a.Name }),
				mapping.List("genres", ontology.SchemaGenre, english, func(a *Artist) *[]string { return &a.Genres }),
				mapping.List("sameAs", ontology.SchemaSameAs, reference, func(a *Artist) *[]string { return &a.SameAs }),
				mapping.NestedList[*Artist, OnlineAccount]("accounts", ontology.FOAFAccount, OnlineAccountType, func(a *Artist) *[]*OnlineAccount { return &a.Accounts }),
				mapping.List("images", ontology.SchemaImage, reference, func(a *Artist) *[]string { return &a.Images }),
				mapping.List("url", ontology.SchemaURL, reference, func(a *Artist) *[]string { return &a.URL }),
			},
		},
		{
			Name:       OnlineAccountType,
			Class:      ontology.FOAFOnlineAccount,
			Prefix:     ontology.MEC,
			Identifier: ontology.SchemaIdentifier,
			New:        func() mapping.Entity { return &OnlineAccount{} },
			Key:        func(e mapping.Entity) string { return e.(*OnlineAccount).URL },
			Fields: []mapping.Field{
				mapping.Scalar("url", ontology.SchemaURL, reference, func(a *OnlineAccount) *string { return &a.URL }),
				mapping.Scalar("accountName", ontology.FOAFAccountName, plain, func(a *OnlineAccount) *string { return &a.AccountName }),
				mapping.Scalar("accountServiceHomepage", ontology.FOAFAccountServiceHomepage, reference, func(a *OnlineAccount) *string { return &a.AccountServiceHomepage }),
			},
		},
		{
			Name:       VenueType,
			Class:      ontology.SchemaPlace,
			Prefix:     ontology.MEC,
			Identifier: ontology.SchemaIdentifier,
			New:        func() mapping.Entity { return &Venue{} },
			Key:        func(e mapping.Entity) string { return e.(*Venue).Name },
			Fields: []mapping.Field{
				mapping.Scalar("name", ontology.SchemaName, plain, func(v *Venue) *string { return &v.Name }),
				mapping.Optional("latitude", ontology.SchemaLatitude, decimal, func(v *Venue) **float64 { return &v.Latitude }),
				mapping.Optional("longitude", ontology.SchemaLongitude, decimal, func(v *Venue) **float64 { return &v.Longitude }),
				mapping.Nested[*Venue, Address]("address", ontology.SchemaAddress, AddressType, func(v *Venue) **Address { return &v.Address }),
			},
		},
		{
			Name:       AddressType,
			Class:      ontology.SchemaPostalAddress,
			Prefix:     ontology.MEC,
			Identifier: ontology.SchemaIdentifier,
			New:        func() mapping.Entity { return &Address{} },
			Fields: []mapping.Field{
				mapping.Scalar("addressCountry", ontology.SchemaAddressCountry, plain, func(a *Address) *string { return &a.Country }),
				mapping.Scalar("addressLocality", ontology.SchemaAddressLocality, plain, func(a *Address) *string { return &a.Locality }),
				mapping.Scalar("streetAddress", ontology.SchemaStreetAddress, plain, func(a *Address) *string { return &a.Street }),
			},
		},
		{
			Name:       TicketType,
			Class:      ontology.SchemaOffer,
			Prefix:     ontology.MEC,
			Identifier: ontology.SchemaIdentifier,
			New:        func() mapping.Entity { return &Ticket{} },
			Fields: []mapping.Field{
				mapping.Scalar("url", ontology.SchemaURL, anyURI, func(t *Ticket) *string { return &t.URL }),
				mapping.EnumOf("availability", ontology.SchemaAvailability, ItemAvailability, func(t *Ticket) *Availability { return &t.Availability }),
			},
		},
	}
}

// NewRegistry returns the registry of the MusicEvent aggregate
func NewRegistry() (*mapping.Registry, error) {
	return mapping.NewRegistry(Types()...)
}

func formatCoordinate(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
