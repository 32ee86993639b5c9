// Package poller captures the realtime combined feed to disk at a fixed cadence
package poller

import (
	"context"
	"errors"
	"github.com/OpenTransitTools/feedarchive/business/data/realtime"
	"github.com/OpenTransitTools/feedarchive/foundation/events"
	"github.com/OpenTransitTools/feedarchive/foundation/httpclient"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Config holds poller settings
type Config struct {
	// URL of the realtime combined feed
	URL string
	// DataDir receives snapshot files
	DataDir string
	// Interval is the target time between the start of consecutive polls
	Interval time.Duration
}

// SnapshotCaptured is published after each successful poll
type SnapshotCaptured struct {
	Epoch int64  `json:"epoch"`
	Path  string `json:"path"`
	Size  int64  `json:"size"`
}

// eventPublisher announces captured snapshots
type eventPublisher interface {
	Publish(subject string, v interface{})
}

// Poller requests the feed and saves successful responses as snapshots
type Poller struct {
	log     *log.Logger
	client  *httpclient.Client
	cfg     Config
	pollLog *PollLog
	metrics *Collector
	status  *pollStatus
	events  eventPublisher
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// MakePoller creates a Poller. metrics and publisher may be nil
func MakePoller(log *log.Logger,
	client *httpclient.Client,
	cfg Config,
	pollLog *PollLog,
	metrics *Collector,
	publisher eventPublisher) *Poller {
	return &Poller{
		log:     log,
		client:  client,
		cfg:     cfg,
		pollLog: pollLog,
		metrics: metrics,
		status:  &pollStatus{},
		events:  publisher,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Poll requests the feed once. returns true when the response was saved as a snapshot,
// false when the server answered with anything other than 200. Transport failures and
// failures writing the snapshot or poll log are returned as errors
func (p *Poller) Poll(ctx context.Context) (bool, error) {
	return p.pollAt(ctx, p.now())
}

func (p *Poller) pollAt(ctx context.Context, start time.Time) (bool, error) {
	epoch := start.Round(time.Second).Unix()
	path := filepath.Join(p.cfg.DataDir, realtime.SnapshotFileName(epoch))

	result, err := p.client.DownloadRemoteFile(ctx, path, p.cfg.URL)
	ok := err == nil && result.Success()
	p.log.Printf("Request at %d gave %s", epoch, formatOutcome(ok))

	statusCode := 0
	if result != nil {
		statusCode = result.StatusCode
		if !ok {
			p.log.Printf("feed answered with status %d, no snapshot written", statusCode)
		}
	}
	if logErr := p.pollLog.Record(epoch, ok); logErr != nil && err == nil {
		err = logErr
	}

	p.metrics.observePoll(ok, err, time.Since(start), result)
	p.status.record(epoch, start, ok, statusCode, err, result)

	if ok {
		if p.events != nil {
			p.events.Publish(events.SnapshotCapturedSubject, SnapshotCaptured{
				Epoch: epoch,
				Path:  result.LocalFilePath,
				Size:  result.Size,
			})
		}
	}
	return ok, err
}

// Run polls every Interval until ctx is cancelled, returning nil, or until a poll fails with an error,
// which is returned. A poll taking longer than Interval is followed immediately by the next one
func (p *Poller) Run(ctx context.Context) error {
	if err := os.MkdirAll(p.cfg.DataDir, 0755); err != nil {
		return err
	}
	for {
		// mark the time we start working
		start := p.now()

		_, err := p.pollAt(ctx, start)
		if ctx.Err() != nil {
			p.log.Printf("Exiting on shutdown signal")
			return nil
		}
		if err != nil {
			return err
		}

		// attempt to poll every interval by subtracting the time the poll took
		workTook := p.now().Sub(start)
		if err = p.sleep(ctx, nextSleep(p.cfg.Interval, workTook)); err != nil {
			p.log.Printf("Exiting on shutdown signal")
			return nil
		}
	}
}

// nextSleep returns how long to wait before the next poll, zero when the work took longer than interval
func nextSleep(interval time.Duration, workTook time.Duration) time.Duration {
	if workTook >= interval {
		return 0
	}
	return interval - workTook
}

// sleepContext waits for d or until ctx is done, returning ctx.Err() in the latter case
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func formatOutcome(ok bool) string {
	if ok {
		return "True"
	}
	return "False"
}

// isTransportError reports whether err came from the network rather than the local file system
func isTransportError(err error) bool {
	var transportErr *httpclient.TransportError
	return errors.As(err, &transportErr)
}
