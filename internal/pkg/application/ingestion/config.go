package ingestion

import (
	"fmt"
	"io"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/entities"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
	yaml "gopkg.in/yaml.v2"
)

type TripleStoreConfig struct {
	QueryEndpoint  string `yaml:"queryEndpoint"`
	UpdateEndpoint string `yaml:"updateEndpoint"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	Debug          bool   `yaml:"debug"`
}

type QueueConfig struct {
	URL        string        `yaml:"url"`
	Name       string        `yaml:"name"`
	RetryDelay time.Duration `yaml:"retryDelay"`
	MaxRetries int           `yaml:"maxRetries"`
}

type LeaseConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	RedisURL string        `yaml:"redisUrl"`
}

type GeocodingConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"apiKey"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// SourceConfig enables a scraper source. Graph overrides the default named
// graph of the source.
type SourceConfig struct {
	Name  string `yaml:"name"`
	Graph string `yaml:"graph"`
}

type Config struct {
	IDPolicy    string            `yaml:"idPolicy"`
	Locale      string            `yaml:"locale"`
	TripleStore TripleStoreConfig `yaml:"tripleStore"`
	Queue       QueueConfig       `yaml:"queue"`
	Lease       LeaseConfig       `yaml:"lease"`
	Geocoding   GeocodingConfig   `yaml:"geocoding"`
	Sources     []SourceConfig    `yaml:"sources"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return nil, err
	}

	if len(cfg.Sources) == 0 {
		for _, s := range ontology.Sources {
			cfg.Sources = append(cfg.Sources, SourceConfig{Name: s})
		}
	}

	return cfg, nil
}

// Graphs maps every enabled source to the named graph its events are stored in
func (cfg *Config) Graphs() (map[string]rdf.IRI, error) {
	graphs := map[string]rdf.IRI{}

	for _, src := range cfg.Sources {
		if _, err := entities.MusicEventID(src.Name, "_"); err != nil {
			return nil, err
		}

		if src.Graph != "" {
			graphs[src.Name] = rdf.IRI(src.Graph)
			continue
		}

		g, err := ontology.EventsGraph(src.Name)
		if err != nil {
			return nil, err
		}
		graphs[src.Name] = g
	}

	if len(graphs) == 0 {
		return nil, fmt.Errorf("no event sources configured")
	}

	return graphs, nil
}
