package poller

import (
	"github.com/OpenTransitTools/feedarchive/foundation/httpclient"
	"sync"
	"time"
)

// PollStatus describes the most recent poll
type PollStatus struct {
	Epoch               int64     `json:"epoch"`
	PolledAt            time.Time `json:"polled_at"`
	Success             bool      `json:"success"`
	StatusCode          int       `json:"status_code,omitempty"`
	Error               string    `json:"error,omitempty"`
	SnapshotPath        string    `json:"snapshot_path,omitempty"`
	LastSuccessEpoch    int64     `json:"last_success_epoch,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	TotalPolls          int       `json:"total_polls"`
}

// pollStatus is shared between the poll loop and the web service
type pollStatus struct {
	mu      sync.RWMutex
	current PollStatus
}

func (s *pollStatus) record(epoch int64,
	polledAt time.Time,
	ok bool,
	statusCode int,
	err error,
	result *httpclient.DownloadedFile) {

	s.mu.Lock()
	defer s.mu.Unlock()
	next := PollStatus{
		Epoch:               epoch,
		PolledAt:            polledAt,
		Success:             ok,
		StatusCode:          statusCode,
		LastSuccessEpoch:    s.current.LastSuccessEpoch,
		ConsecutiveFailures: s.current.ConsecutiveFailures + 1,
		TotalPolls:          s.current.TotalPolls + 1,
	}
	if err != nil {
		next.Error = err.Error()
	}
	if ok {
		next.SnapshotPath = result.LocalFilePath
		next.LastSuccessEpoch = epoch
		next.ConsecutiveFailures = 0
	}
	s.current = next
}

func (s *pollStatus) get() PollStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
