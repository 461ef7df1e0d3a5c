package entities

import "time"

const (
	MusicEventType    = "MusicEvent"
	ArtistType        = "Artist"
	OnlineAccountType = "OnlineAccount"
	VenueType         = "Venue"
	AddressType       = "Address"
	TicketType        = "Ticket"
)

type Availability string

const (
	InStock Availability = "InStock"
	SoldOut Availability = "SoldOut"
)

type MusicEvent struct {
	ID        string     `json:"id" validate:"required,music_event_id"`
	Name      string     `json:"name" validate:"required"`
	URL       string     `json:"url" validate:"required,url,iri"`
	Artists   []*Artist  `json:"artists" validate:"dive,required"`
	Venues    []*Venue   `json:"venues" validate:"min=1,dive,required"`
	DoorTime  *time.Time `json:"doorTime,omitempty"`
	StartDate time.Time  `json:"startDate" validate:"required"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Ticket    *Ticket    `json:"ticket" validate:"required"`
}

func (e *MusicEvent) EntityType() string    { return MusicEventType }
func (e *MusicEvent) EntityID() string      { return e.ID }
func (e *MusicEvent) SetEntityID(id string) { e.ID = id }

type Artist struct {
	ID       string           `json:"id" validate:"required"`
	Name     string           `json:"name" validate:"required"`
	Genres   []string         `json:"genres" validate:"dive,required"`
	SameAs   []string         `json:"sameAs" validate:"dive,url,iri"`
	Accounts []*OnlineAccount `json:"accounts" validate:"dive,required"`
	Images   []string         `json:"images" validate:"dive,url,iri"`
	URL      []string         `json:"url" validate:"dive,url,iri"`
}

func (a *Artist) EntityType() string    { return ArtistType }
func (a *Artist) EntityID() string      { return a.ID }
func (a *Artist) SetEntityID(id string) { a.ID = id }

type OnlineAccount struct {
	ID                     string `json:"id" validate:"required"`
	URL                    string `json:"url" validate:"required,url,iri"`
	AccountName            string `json:"accountName" validate:"required"`
	AccountServiceHomepage string `json:"accountServiceHomepage" validate:"required,url,iri"`
}

func (a *OnlineAccount) EntityType() string    { return OnlineAccountType }
func (a *OnlineAccount) EntityID() string      { return a.ID }
func (a *OnlineAccount) SetEntityID(id string) { a.ID = id }

type Venue struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Address   *Address `json:"address" validate:"required"`
}

func (v *Venue) EntityType() string    { return VenueType }
func (v *Venue) EntityID() string      { return v.ID }
func (v *Venue) SetEntityID(id string) { v.ID = id }

type Address struct {
	ID       string `json:"id" validate:"required"`
	Country  string `json:"addressCountry" validate:"required,len=2,alpha"`
	Locality string `json:"addressLocality" validate:"required"`
	Street   string `json:"streetAddress,omitempty"`
}

func (a *Address) EntityType() string    { return AddressType }
func (a *Address) EntityID() string      { return a.ID }
func (a *Address) SetEntityID(id string) { a.ID = id }

type Ticket struct {
	ID           string       `json:"id" validate:"required"`
	URL          string       `json:"url" validate:"required,url,iri"`
	Availability Availability `json:"availability" validate:"required,oneof=InStock SoldOut"`
}

func (t *Ticket) EntityType() string    { return TicketType }
func (t *Ticket) EntityID() string      { return t.ID }
func (t *Ticket) SetEntityID(id string) { t.ID = id }
