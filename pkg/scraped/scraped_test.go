package scraped

import (
	"testing"

	"github.com/matryer/is"
)

const message string = `{
	"source": "goout",
	"event": {
		"id": "szdxq",
		"name": "Mňága a Žďorp",
		"url": "https://goout.net/cs/mnaga-a-zdorp/szdxq/",
		"startDate": "2025-03-14T19:00:00.000Z",
		"artists": [{"name": "Mňága a Žďorp", "genres": ["Rock"], "sameAs": [], "webSites": ["https://www.mnagaazdorp.cz"]}],
		"venues": [{"name": "Lucerna Music Bar", "address": {"country": "CZ", "locality": "Praha", "street": "Vodičkova 36"}}],
		"ticket": {"url": "https://goout.net/cs/listky/szdxq/", "availability": "InStock"}
	}
}`

func TestDecode(t *testing.T) {
	is := is.New(t)

	m, err := Decode([]byte(message))
	is.NoErr(err)

	is.Equal(m.Source, "goout")
	is.Equal(m.Event.StartDate.Hour(), 19)
	is.True(m.Event.DoorTime == nil)
	is.True(!m.Event.Venues[0].HasCoordinates())
	is.Equal(m.Event.Artists[0].WebSites[0], "https://www.mnagaazdorp.cz")
}

func TestDecodeRequiresSource(t *testing.T) {
	is := is.New(t)

	_, err := Decode([]byte(`{"event": {}}`))
	is.True(err != nil)

	_, err = Decode([]byte(`not json`))
	is.True(err != nil)
}
