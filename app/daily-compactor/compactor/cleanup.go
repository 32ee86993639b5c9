package compactor

import (
	"errors"
	"github.com/OpenTransitTools/feedarchive/business/data/realtime"
	"io/fs"
	"os"
	"time"
)

// removeIfPresent deletes path, a file that is already gone is not an error
func removeIfPresent(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// cleanUp removes consumed snapshots, interrupted downloads up to the end of day and the local
// dataset files. failures are logged and skipped
func (c *Compactor) cleanUp(day time.Time, consumed []realtime.Snapshot, localFiles ...string) {
	removed := 0
	for _, snapshot := range consumed {
		if err := removeIfPresent(snapshot.Path); err != nil {
			c.log.Printf("unable to remove snapshot %s: %v", snapshot.Path, err)
			continue
		}
		removed++
	}
	for _, path := range localFiles {
		if err := removeIfPresent(path); err != nil {
			c.log.Printf("unable to remove %s: %v", path, err)
		}
	}
	c.log.Printf("removed %d of %d consumed snapshots", removed, len(consumed))

	partials, err := realtime.PartialSnapshots(c.cfg.DataDir, day)
	if err != nil {
		c.log.Printf("unable to list interrupted downloads: %v", err)
		return
	}
	for _, path := range partials {
		if err := removeIfPresent(path); err != nil {
			c.log.Printf("unable to remove interrupted download %s: %v", path, err)
		}
	}
	if len(partials) > 0 {
		c.log.Printf("removed %d interrupted downloads", len(partials))
	}
}
