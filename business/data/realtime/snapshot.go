// Package realtime reads raw realtime feed snapshots and flattens them into vehicle and trip update rows
package realtime

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	snapshotPrefix = "realtime_combined_feed_"
	snapshotSuffix = ".json"
	// partialSuffix marks a snapshot whose download never completed
	partialSuffix = ".tmp"
)

// Snapshot is one raw feed response saved by the poller
type Snapshot struct {
	Path string
	// FileTime is the epoch seconds embedded in the file name, as written
	FileTime   string
	CapturedAt time.Time
}

// SnapshotFileName returns the file name a snapshot captured at epochSeconds is saved under
func SnapshotFileName(epochSeconds int64) string {
	return snapshotPrefix + strconv.FormatInt(epochSeconds, 10) + snapshotSuffix
}

// ParseSnapshotPath extracts the capture time from a snapshot path.
// returns false if the file name does not follow the snapshot naming pattern
func ParseSnapshotPath(path string) (Snapshot, bool) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
		return Snapshot{}, false
	}
	fileTime := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotSuffix)
	epoch, err := strconv.ParseInt(fileTime, 10, 64)
	if err != nil {
		return Snapshot{}, false
	}
	return Snapshot{
		Path:       path,
		FileTime:   fileTime,
		CapturedAt: time.Unix(epoch, 0),
	}, true
}

// ListSnapshots returns every snapshot in dir ordered by capture time, files not matching the
// snapshot naming pattern are ignored
func ListSnapshots(dir string) ([]Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list snapshot directory %s: %w", dir, err)
	}
	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		snapshot, ok := ParseSnapshotPath(filepath.Join(dir, entry.Name()))
		if ok {
			snapshots = append(snapshots, snapshot)
		}
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].CapturedAt.Equal(snapshots[j].CapturedAt) {
			return snapshots[i].Path < snapshots[j].Path
		}
		return snapshots[i].CapturedAt.Before(snapshots[j].CapturedAt)
	})
	return snapshots, nil
}

// StartOfDay returns midnight of the calendar date of day, in day's location
func StartOfDay(day time.Time) time.Time {
	year, month, date := day.Date()
	return time.Date(year, month, date, 0, 0, 0, 0, day.Location())
}

// InDay reports whether capturedAt falls in the window belonging to day:
// strictly after midnight of day, up to and including midnight of the next calendar day.
// The window is 23 or 25 hours long on daylight saving changeover days
func InDay(day time.Time, capturedAt time.Time) bool {
	start := StartOfDay(day)
	end := start.AddDate(0, 0, 1)
	return capturedAt.After(start) && !capturedAt.After(end)
}

// FilesForDay lists the snapshots in dir captured within day's window, see InDay.
// An empty result is not an error
func FilesForDay(dir string, day time.Time) ([]Snapshot, error) {
	snapshots, err := ListSnapshots(dir)
	if err != nil {
		return nil, err
	}
	var results []Snapshot
	for _, snapshot := range snapshots {
		if InDay(day, snapshot.CapturedAt) {
			results = append(results, snapshot)
		}
	}
	return results, nil
}

// PartialSnapshots lists interrupted snapshot downloads in dir captured no later than the end of
// day's window. They are never complete snapshots and nothing else removes them
func PartialSnapshots(dir string, day time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list snapshot directory %s: %w", dir, err)
	}
	end := StartOfDay(day).AddDate(0, 0, 1)
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), partialSuffix) {
			continue
		}
		snapshot, ok := ParseSnapshotPath(strings.TrimSuffix(entry.Name(), partialSuffix))
		if ok && !snapshot.CapturedAt.After(end) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
