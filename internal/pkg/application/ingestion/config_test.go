package ingestion

import (
	"bytes"
	"testing"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/matryer/is"
)

func TestLoadConfig(t *testing.T) {
	is, config := setupConfigTest(t, configData)

	is.Equal(config.IDPolicy, "content-addressed")
	is.Equal(config.Locale, "cs")
	is.Equal(config.TripleStore.QueryEndpoint, "http://graphdb:7200/repositories/mec")
	is.Equal(config.TripleStore.UpdateEndpoint, "http://graphdb:7200/repositories/mec/statements")
	is.Equal(config.Queue.Name, "music-events")
	is.Equal(config.Queue.RetryDelay, 15*time.Second)
	is.Equal(config.Lease.TTL, time.Minute)
	is.Equal(config.Geocoding.CacheTTL, 48*time.Hour)
}

func TestLoadSourceGraphs(t *testing.T) {
	is, config := setupConfigTest(t, configData)

	graphs, err := config.Graphs()
	is.NoErr(err)

	is.Equal(len(graphs), 2)
	is.Equal(graphs["goout"], rdf.IRI("http://music-event-connect.cz/events/goout"))
	is.Equal(graphs["ticketmaster"], rdf.IRI("http://example.org/tm"))
}

func TestAllSourcesAreEnabledByDefault(t *testing.T) {
	is, config := setupConfigTest(t, "idPolicy: isolated\n")

	graphs, err := config.Graphs()
	is.NoErr(err)
	is.Equal(len(graphs), 3)
}

func TestUnknownSourceIsRejected(t *testing.T) {
	is, config := setupConfigTest(t, "sources:\n  - name: eventim\n")

	_, err := config.Graphs()
	is.True(err != nil)
}

func setupConfigTest(t *testing.T, data string) (*is.I, *Config) {
	is := is.New(t)
	buf := bytes.NewBufferString(data)

	cfg, err := LoadConfiguration(buf)
	is.NoErr(err)

	return is, cfg
}

const configData string = `
idPolicy: content-addressed
locale: cs
tripleStore:
  queryEndpoint: http://graphdb:7200/repositories/mec
  updateEndpoint: http://graphdb:7200/repositories/mec/statements
queue:
  name: music-events
  retryDelay: 15s
lease:
  ttl: 1m
geocoding:
  cacheTTL: 48h
sources:
  - name: goout
  - name: ticketmaster
    graph: http://example.org/tm
`
