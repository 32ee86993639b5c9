package poller

import (
	"github.com/OpenTransitTools/feedarchive/foundation/httpclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

// poll outcome label values
const (
	outcomeCaptured       = "captured"
	outcomeRejected       = "rejected"
	outcomeTransportError = "transport_error"
	outcomeWriteError     = "write_error"
)

// Collector holds the poller's prometheus metrics in its own registry
type Collector struct {
	reg *prometheus.Registry

	Polls           *prometheus.CounterVec // outcome label: captured|rejected|transport_error|write_error
	PollDuration    prometheus.Histogram
	SnapshotBytes   prometheus.Counter
	LastCaptureTime prometheus.Gauge
	Restarts        *prometheus.CounterVec // kind label: immediate|backoff
	Interval        prometheus.Gauge       // seconds
}

// NewCollector creates and registers the poller metrics
func NewCollector(interval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_poller_polls_total",
			Help: "Feed requests by outcome.",
		}, []string{"outcome"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feed_poller_poll_duration_seconds",
			Help:    "Duration of feed requests including writing the snapshot.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		SnapshotBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_poller_snapshot_bytes_total",
			Help: "Bytes written to snapshot files.",
		}),
		LastCaptureTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_poller_last_capture_timestamp_seconds",
			Help: "Epoch seconds of the most recent captured snapshot.",
		}),
		Restarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_poller_restarts_total",
			Help: "Poll loop restarts after a failure.",
		}, []string{"kind"}),
		Interval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_poller_interval_seconds",
			Help: "Configured poll interval in seconds.",
		}),
	}

	reg.MustRegister(c.Polls, c.PollDuration, c.SnapshotBytes, c.LastCaptureTime, c.Restarts, c.Interval)
	c.Interval.Set(interval.Seconds())
	return c
}

// Handler serves the registry in the prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// observePoll records one poll, a nil Collector records nothing
func (c *Collector) observePoll(ok bool, err error, took time.Duration, result *httpclient.DownloadedFile) {
	if c == nil {
		return
	}
	c.PollDuration.Observe(took.Seconds())
	switch {
	case ok && err == nil:
		c.Polls.WithLabelValues(outcomeCaptured).Inc()
		c.SnapshotBytes.Add(float64(result.Size))
		c.LastCaptureTime.Set(float64(result.DownloadedAt.Unix()))
	case err != nil && isTransportError(err):
		c.Polls.WithLabelValues(outcomeTransportError).Inc()
	case err != nil:
		c.Polls.WithLabelValues(outcomeWriteError).Inc()
	default:
		c.Polls.WithLabelValues(outcomeRejected).Inc()
	}
}

// countRestart records a poll loop restart, a nil Collector records nothing
func (c *Collector) countRestart(kind string) {
	if c == nil {
		return
	}
	c.Restarts.WithLabelValues(kind).Inc()
}
