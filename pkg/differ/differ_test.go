package differ

import (
	"strings"
	"testing"
	"time"

	"github.com/lukas-kratochvil/music-event-connect/pkg/entities"
	"github.com/lukas-kratochvil/music-event-connect/pkg/entities/entitiestest"
	"github.com/matryer/is"
)

func testSetup(t *testing.T) (*is.I, *Differ) {
	is := is.New(t)

	registry, err := entities.NewRegistry()
	is.NoErr(err)

	return is, New(registry)
}

func TestSameIsReflexive(t *testing.T) {
	is, d := testSetup(t)

	e := entitiestest.MusicEvent(entities.Isolated())

	same, err := d.Same(e, e)
	is.NoErr(err)
	is.True(same)
}

func TestIdentifiersAreIgnored(t *testing.T) {
	is, d := testSetup(t)

	a := entitiestest.MusicEvent(entities.Isolated())
	b := entitiestest.MusicEvent(entities.Isolated())
	is.True(a.Ticket.ID != b.Ticket.ID)

	same, err := d.Same(a, b)
	is.NoErr(err)
	is.True(same)
}

func TestOrderOfListsIsIgnored(t *testing.T) {
	is, d := testSetup(t)

	a := entitiestest.MusicEvent(entities.Isolated())
	b := entitiestest.Copy(a)
	b.Artists[0], b.Artists[1] = b.Artists[1], b.Artists[0]
	b.Artists[1].Genres = []string{"indie", "rock"}

	same, err := d.Same(a, b)
	is.NoErr(err)
	is.True(same)
}

func TestEmptyValuesAreIgnored(t *testing.T) {
	is, d := testSetup(t)

	a := entitiestest.MusicEvent(entities.Isolated())
	b := entitiestest.Copy(a)
	b.Artists[1].SameAs = []string{}
	a.Artists[1].SameAs = nil

	same, err := d.Same(a, b)
	is.NoErr(err)
	is.True(same)
}

func TestTimesAreComparedAsInstants(t *testing.T) {
	is, d := testSetup(t)

	a := entitiestest.MusicEvent(entities.Isolated())
	b := entitiestest.Copy(a)

	b.StartDate = a.StartDate.In(time.FixedZone("CEST", 2*60*60))

	same, err := d.Same(a, b)
	is.NoErr(err)
	is.True(same)
}

func TestChangedAvailabilityIsReported(t *testing.T) {
	is, d := testSetup(t)

	a := entitiestest.MusicEvent(entities.Isolated())
	b := entitiestest.Copy(a)
	b.Ticket.Availability = entities.SoldOut

	diff, err := d.Diff(a, b)
	is.NoErr(err)
	is.True(strings.Contains(diff, "SoldOut"))

	same, _ := d.Same(a, b)
	is.True(!same)
}

func TestNormalizeSortsWithCollation(t *testing.T) {
	is, d := testSetup(t)

	a := entitiestest.MusicEvent(entities.Isolated())
	a.Artists[0].Genres = []string{"šraml", "rock", "swing", "čardáš"}

	tree, err := d.Normalize(a)
	is.NoErr(err)

	artists := tree["artists"].([]any)
	is.Equal(artists[0].(map[string]any)["name"], "Ásgeir")

	killers := artists[1].(map[string]any)
	is.Equal(killers["genres"], []any{"čardáš", "rock", "swing", "šraml"})
	_, hasID := killers["id"]
	is.True(!hasID)
}
