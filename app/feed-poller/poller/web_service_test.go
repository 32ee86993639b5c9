package poller

import (
	"encoding/json"
	"github.com/matryer/is"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newWebServicePoller() *Poller {
	p := MakePoller(log.New(io.Discard, "", 0), nil, Config{Interval: 20 * time.Second}, nil,
		NewCollector(20*time.Second), nil)
	return p
}

func TestWebService_default(t *testing.T) {
	is := is.New(t)
	srv := createServer(log.New(io.Discard, "", 0), newWebServicePoller(), ":0")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	is.Equal(rec.Code, http.StatusOK)
	is.Equal(rec.Header().Get("Application-Status"), "OK")
}

func TestWebService_status(t *testing.T) {
	is := is.New(t)
	p := newWebServicePoller()
	p.status.record(1614898800, time.Unix(1614898800, 0), false, http.StatusUnauthorized, nil, nil)
	srv := createServer(log.New(io.Discard, "", 0), p, ":0")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	is.Equal(rec.Code, http.StatusOK)
	is.Equal(rec.Header().Get("Content-Type"), "application/json")

	var status PollStatus
	is.NoErr(json.Unmarshal(rec.Body.Bytes(), &status))
	is.Equal(status.Epoch, int64(1614898800))
	is.Equal(status.StatusCode, http.StatusUnauthorized)
	is.Equal(status.ConsecutiveFailures, 1)
	is.Equal(status.TotalPolls, 1)
}

func TestWebService_metrics(t *testing.T) {
	is := is.New(t)
	p := newWebServicePoller()
	p.metrics.Polls.WithLabelValues(outcomeRejected).Inc()
	srv := createServer(log.New(io.Discard, "", 0), p, ":0")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	is.Equal(rec.Code, http.StatusOK)
	body := rec.Body.String()
	is.True(strings.Contains(body, `feed_poller_polls_total{outcome="rejected"} 1`))
	is.True(strings.Contains(body, "feed_poller_interval_seconds 20"))
}

func TestWebService_withoutMetrics(t *testing.T) {
	is := is.New(t)
	p := MakePoller(log.New(io.Discard, "", 0), nil, Config{Interval: 20 * time.Second}, nil, nil, nil)
	srv := createServer(log.New(io.Discard, "", 0), p, ":0")

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	is.Equal(rec.Code, http.StatusNotFound)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	is.Equal(rec.Code, http.StatusOK)
}
