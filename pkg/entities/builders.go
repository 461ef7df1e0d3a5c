package entities

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

func NewAddress(policy IDPolicy, country, locality, street string) *Address {
	return &Address{
		ID:       policy.NewID(AddressType, country, locality, street),
		Country:  strings.ToUpper(country),
		Locality: locality,
		Street:   street,
	}
}

func NewVenue(policy IDPolicy, name string, latitude, longitude *float64, address *Address) *Venue {
	return &Venue{
		ID:        policy.NewID(VenueType, name, formatCoordinate(latitude), formatCoordinate(longitude)),
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		Address:   address,
	}
}

func NewTicket(policy IDPolicy, ticketURL string, availability Availability) *Ticket {
	return &Ticket{
		ID:           policy.NewID(TicketType, ticketURL),
		URL:          ticketURL,
		Availability: availability,
	}
}

// NewOnlineAccount derives the account name from the last path segment of
// accountURL and the service homepage from its origin.
func NewOnlineAccount(policy IDPolicy, accountURL string) (*OnlineAccount, error) {
	u, err := url.Parse(accountURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid online account url %q", accountURL)
	}

	segments := pathSegments(u)
	if len(segments) == 0 {
		return nil, fmt.Errorf("online account url %q has no account name", accountURL)
	}

	return &OnlineAccount{
		ID:                     policy.NewID(OnlineAccountType, accountURL),
		URL:                    accountURL,
		AccountName:            segments[len(segments)-1],
		AccountServiceHomepage: u.Scheme + "://" + u.Host,
	}, nil
}

// NewArtist lower-cases and de-duplicates genres and sorts webSites into
// homepages (no path) and online accounts.
func NewArtist(policy IDPolicy, name string, genres, sameAs, webSites, images []string) (*Artist, error) {
	a := &Artist{
		ID:     policy.NewID(ArtistType, name),
		Name:   name,
		Genres: NormalizeGenres(genres),
		SameAs: unique(sameAs),
		Images: unique(images),
	}

	for _, site := range unique(webSites) {
		u, err := url.Parse(site)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid web site %q of artist %s", site, name)
		}

		if len(pathSegments(u)) == 0 {
			a.URL = append(a.URL, site)
			if !slices.Contains(a.SameAs, site) {
				a.SameAs = append(a.SameAs, site)
			}
			continue
		}

		account, err := NewOnlineAccount(policy, site)
		if err != nil {
			return nil, err
		}
		a.Accounts = append(a.Accounts, account)
	}

	return a, nil
}

func NormalizeGenres(genres []string) []string {
	normalized := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" && !slices.Contains(normalized, g) {
			normalized = append(normalized, g)
		}
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

func pathSegments(u *url.URL) []string {
	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func unique(values []string) []string {
	var result []string
	for _, v := range values {
		if v != "" && !slices.Contains(result, v) {
			result = append(result, v)
		}
	}
	return result
}
