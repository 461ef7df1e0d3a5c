package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/lukas-kratochvil/music-event-connect/pkg/rdf/ontology"
)

// IDPolicy mints identifiers for the entities nested in a MusicEvent
type IDPolicy interface {
	NewID(typeName string, naturalKey ...string) string
}

const (
	PolicyIsolated         = "isolated"
	PolicyContentAddressed = "content-addressed"
)

// Isolated gives every nested entity a fresh UUIDv7, so no two events ever
// share an artist, venue or address subject.
func Isolated() IDPolicy { return isolated{} }

// ContentAddressed derives identifiers from the type and natural key, so equal
// nested entities of different events resolve to the same subject.
func ContentAddressed() IDPolicy { return contentAddressed{} }

func PolicyByName(name string) (IDPolicy, error) {
	switch name {
	case "", PolicyIsolated:
		return Isolated(), nil
	case PolicyContentAddressed:
		return ContentAddressed(), nil
	}
	return nil, fmt.Errorf("unknown id policy %q", name)
}

type isolated struct{}

func (isolated) NewID(string, ...string) string {
	return uuid.Must(uuid.NewV7()).String()
}

type contentAddressed struct{}

func (contentAddressed) NewID(typeName string, naturalKey ...string) string {
	h := sha256.New()
	h.Write([]byte(typeName))
	for _, k := range naturalKey {
		h.Write([]byte{0x1f})
		h.Write([]byte(k))
	}
	return hex.EncodeToString(h.Sum(nil))
}

const musicEventIDDelimiter = "-"

var musicEventIDPrefixes = map[string]string{
	ontology.SourceGoOut:        "go",
	ontology.SourceTicketmaster: "tm",
	ontology.SourceTicketportal: "tp",
}

// MusicEventID builds the identifier of an event scraped from source
func MusicEventID(source, localID string) (string, error) {
	prefix, ok := musicEventIDPrefixes[source]
	if !ok {
		return "", fmt.Errorf("unknown event source %q", source)
	}
	if localID == "" {
		return "", fmt.Errorf("empty event id from %s", source)
	}
	return prefix + musicEventIDDelimiter + strings.ReplaceAll(url.QueryEscape(localID), "+", "%20"), nil
}

// IsMusicEventID reports whether id has a known source prefix followed by a
// non-empty source local part. The local part may itself contain the delimiter.
func IsMusicEventID(id string) bool {
	prefix, local, found := strings.Cut(id, musicEventIDDelimiter)
	if !found || local == "" {
		return false
	}
	for _, p := range musicEventIDPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}
