package ontology

import (
	"fmt"

	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
)

const (
	SourceGoOut        = "goout"
	SourceTicketmaster = "ticketmaster"
	SourceTicketportal = "ticketportal"
)

const (
	EventsGraphBase         = "http://music-event-connect.cz/events/"
	LinksGraph      rdf.IRI = "http://music-event-connect.cz/links"
)

var Sources = []string{SourceGoOut, SourceTicketmaster, SourceTicketportal}

// EventsGraph returns the named graph holding the events scraped from source
func EventsGraph(source string) (rdf.IRI, error) {
	for _, s := range Sources {
		if s == source {
			return rdf.IRI(EventsGraphBase + source), nil
		}
	}
	return "", fmt.Errorf("unknown event source %q", source)
}
