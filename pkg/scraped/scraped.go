// Package scraped holds the music event records published by the scrapers to
// the event queue.
package scraped

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is the payload of one queue job
type Message struct {
	Source string `json:"source"`
	Event  Event  `json:"event"`
}

type Event struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	DoorTime  *time.Time `json:"doorTime,omitempty"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Artists   []Artist   `json:"artists"`
	Venues    []Venue    `json:"venues"`
	Ticket    Ticket     `json:"ticket"`
}

type Artist struct {
	Name     string   `json:"name"`
	Genres   []string `json:"genres"`
	SameAs   []string `json:"sameAs"`
	WebSites []string `json:"webSites"`
	Images   []string `json:"images"`
}

type Venue struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   Address  `json:"address"`
}

// HasCoordinates reports whether both coordinates are known
func (v Venue) HasCoordinates() bool {
	return v.Latitude != nil && v.Longitude != nil
}

type Address struct {
	Country  string `json:"country"`
	Locality string `json:"locality"`
	Street   string `json:"street,omitempty"`
}

type Ticket struct {
	URL          string `json:"url"`
	Availability string `json:"availability"`
}

func Decode(body []byte) (*Message, error) {
	m := &Message{}
	if err := json.Unmarshal(body, m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scraped event: %w", err)
	}
	if m.Source == "" {
		return nil, fmt.Errorf("scraped event has no source")
	}
	return m, nil
}
