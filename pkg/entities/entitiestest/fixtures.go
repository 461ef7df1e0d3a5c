// Package entitiestest builds sample entities for tests
package entitiestest

import (
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/entities"
)

func ptr[T any](v T) *T {
	return &v
}

// MusicEvent returns a valid event with two artists, one venue with address
// and a ticket. Nested identifiers are minted by policy.
func MusicEvent(policy entities.IDPolicy) *entities.MusicEvent {
	start := time.Date(2025, time.June, 1, 19, 0, 0, 0, time.UTC)

	account, _ := entities.NewOnlineAccount(policy, "https://www.facebook.com/thekillers")

	first := &entities.Artist{
		ID:       policy.NewID(entities.ArtistType, "The Killers"),
		Name:     "The Killers",
		Genres:   []string{"rock", "indie"},
		SameAs:   []string{"https://www.thekillersmusic.com"},
		Accounts: []*entities.OnlineAccount{account},
		URL:      []string{"https://www.thekillersmusic.com"},
	}

	second := &entities.Artist{
		ID:     policy.NewID(entities.ArtistType, "Ásgeir"),
		Name:   "Ásgeir",
		Genres: []string{"folk"},
		Images: []string{"https://images.example.org/asgeir.jpg"},
	}

	address := entities.NewAddress(policy, "cz", "Praha", "Českomoravská 2345/17a")
	venue := entities.NewVenue(policy, "O2 arena", ptr(50.1047), ptr(14.4933), address)

	return &entities.MusicEvent{
		ID:        "tm-Z7r9jZ1A7b4kY",
		Name:      "The Killers - Imploding The Mirage Tour",
		URL:       "https://www.ticketmaster.cz/event/Z7r9jZ1A7b4kY",
		Artists:   []*entities.Artist{first, second},
		Venues:    []*entities.Venue{venue},
		DoorTime:  ptr(start.Add(-time.Hour)),
		StartDate: start,
		EndDate:   ptr(start.Add(3 * time.Hour)),
		Ticket:    entities.NewTicket(policy, "https://www.ticketmaster.cz/event/Z7r9jZ1A7b4kY", entities.InStock),
	}
}

// Copy returns a deep copy of e that shares no pointers with it
func Copy(e *entities.MusicEvent) *entities.MusicEvent {
	c := *e

	c.Artists = make([]*entities.Artist, 0, len(e.Artists))
	for _, a := range e.Artists {
		ac := *a
		ac.Genres = append([]string(nil), a.Genres...)
		ac.SameAs = append([]string(nil), a.SameAs...)
		ac.Images = append([]string(nil), a.Images...)
		ac.URL = append([]string(nil), a.URL...)
		ac.Accounts = make([]*entities.OnlineAccount, 0, len(a.Accounts))
		for _, acc := range a.Accounts {
			accc := *acc
			ac.Accounts = append(ac.Accounts, &accc)
		}
		c.Artists = append(c.Artists, &ac)
	}

	c.Venues = make([]*entities.Venue, 0, len(e.Venues))
	for _, v := range e.Venues {
		vc := *v
		if v.Address != nil {
			addr := *v.Address
			vc.Address = &addr
		}
		c.Venues = append(c.Venues, &vc)
	}

	if e.Ticket != nil {
		t := *e.Ticket
		c.Ticket = &t
	}

	return &c
}
