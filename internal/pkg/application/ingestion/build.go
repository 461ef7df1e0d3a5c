package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/lukas-kratochvil/music-event-connect/internal/pkg/infrastructure/geocoding"
	"github.com/lukas-kratochvil/music-event-connect/pkg/entities"
	mecerrors "github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/lukas-kratochvil/music-event-connect/pkg/scraped"
)

// buildMusicEvent turns a scraped record into a MusicEvent aggregate. Venues
// without coordinates are geocoded.
func buildMusicEvent(ctx context.Context, policy entities.IDPolicy, geocoder geocoding.Geocoder, msg *scraped.Message) (*entities.MusicEvent, error) {
	src := msg.Event

	id, err := entities.MusicEventID(msg.Source, src.ID)
	if err != nil {
		return nil, mecerrors.NewMappingError("%s", err.Error())
	}

	e := &entities.MusicEvent{
		ID:        id,
		Name:      src.Name,
		URL:       src.URL,
		DoorTime:  src.DoorTime,
		StartDate: src.StartDate,
		EndDate:   src.EndDate,
		Ticket:    entities.NewTicket(policy, src.Ticket.URL, entities.Availability(src.Ticket.Availability)),
	}

	for _, a := range src.Artists {
		artist, err := entities.NewArtist(policy, a.Name, a.Genres, a.SameAs, a.WebSites, a.Images)
		if err != nil {
			return nil, mecerrors.NewMappingError("%s", err.Error())
		}
		e.Artists = append(e.Artists, artist)
	}

	for _, v := range src.Venues {
		latitude, longitude := v.Latitude, v.Longitude

		if !v.HasCoordinates() && geocoder != nil {
			coords, err := geocoder.Search(ctx, v.Name, v.Address)
			if err != nil {
				if !errors.Is(err, mecerrors.ErrNotFound) {
					return nil, fmt.Errorf("failed to geocode venue %s: %w", v.Name, err)
				}
				logging.GetFromContext(ctx).Warn("venue location not found", "venue", v.Name, "err", err.Error())
			} else {
				latitude, longitude = &coords.Latitude, &coords.Longitude
			}
		}

		address := entities.NewAddress(policy, v.Address.Country, v.Address.Locality, v.Address.Street)
		e.Venues = append(e.Venues, entities.NewVenue(policy, v.Name, latitude, longitude, address))
	}

	return e, nil
}
