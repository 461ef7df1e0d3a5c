package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestJobDone(t *testing.T) {
	is := is.New(t)

	m := New()
	m.JobDone("goout", "created", 120*time.Millisecond)
	m.JobDone("goout", "created", 80*time.Millisecond)
	m.JobDone("goout", OutcomeFailed, time.Second)

	is.Equal(testutil.ToFloat64(m.jobsTotal.WithLabelValues("goout", "created")), float64(2))
	is.Equal(testutil.ToFloat64(m.jobsTotal.WithLabelValues("goout", OutcomeFailed)), float64(1))
}

func TestHandlerExposesMetrics(t *testing.T) {
	is := is.New(t)

	m := New()
	m.Geocoded("hit")

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	is.NoErr(err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	is.True(strings.Contains(string(body), `mec_geocoding_lookups_total{result="hit"} 1`))
}
