// Package compactor turns a day of raw realtime snapshots into deduplicated vehicle and trip update
// datasets, uploads them to the object store and removes the consumed files
package compactor

import (
	"context"
	"errors"
	"fmt"
	"github.com/OpenTransitTools/feedarchive/business/data/dataset"
	"github.com/OpenTransitTools/feedarchive/business/data/realtime"
	"github.com/OpenTransitTools/feedarchive/foundation/events"
	"github.com/OpenTransitTools/feedarchive/foundation/objectstore"
	"github.com/google/uuid"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Config holds the locations the compactor works with
type Config struct {
	// DataDir holds raw snapshots written by the poller
	DataDir string
	// ProcessedDir receives the local dataset files before upload
	ProcessedDir string
	// ProgressEvery logs progress after this many snapshots, zero disables progress logging
	ProgressEvery int
}

// SummaryLedger keeps a record of completed compaction runs
type SummaryLedger interface {
	RecordSummary(summary *dataset.Summary) error
}

// eventPublisher announces completed datasets
type eventPublisher interface {
	Publish(subject string, v interface{})
}

// Compactor runs daily compactions
type Compactor struct {
	log      *log.Logger
	cfg      Config
	store    objectstore.Store
	calendar *dataset.ServiceDayCalendar
	ledger   SummaryLedger
	events   eventPublisher
	now      func() time.Time
	newRunId func() string
}

// MakeCompactor creates a Compactor uploading to store. ledger and publisher may be nil
func MakeCompactor(log *log.Logger,
	cfg Config,
	store objectstore.Store,
	ledger SummaryLedger,
	publisher eventPublisher) *Compactor {
	return &Compactor{
		log:      log,
		cfg:      cfg,
		store:    store,
		calendar: dataset.MakeServiceDayCalendar(),
		ledger:   ledger,
		events:   publisher,
		now:      time.Now,
		newRunId: uuid.NewString,
	}
}

// Compact builds, uploads and cleans up the datasets for the calendar date of day.
// Cleanup only happens after both files were uploaded, on any error raw snapshots and local
// dataset files are left in place so the run can be repeated
func (c *Compactor) Compact(ctx context.Context, day time.Time) (*dataset.Summary, error) {
	day = realtime.StartOfDay(day)
	summary := dataset.MakeSummary(c.newRunId(), day, c.calendar)

	snapshots, err := realtime.FilesForDay(c.cfg.DataDir, day)
	if err != nil {
		return nil, err
	}
	summary.SnapshotCount = len(snapshots)
	c.log.Printf("compacting %d snapshots for %s (%s)", len(snapshots), dataset.FormatDate(day), summary.DayKind)

	if err = os.MkdirAll(c.cfg.ProcessedDir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create processed directory %s: %w", c.cfg.ProcessedDir, err)
	}
	vehiclesPath := filepath.Join(c.cfg.ProcessedDir, dataset.VehiclesFileName(day))
	tripUpdatesPath := filepath.Join(c.cfg.ProcessedDir, dataset.TripUpdatesFileName(day))

	consumed, err := c.writeTables(ctx, snapshots, vehiclesPath, tripUpdatesPath, summary)
	if err != nil {
		return nil, err
	}

	c.log.Printf("kept %d of %d vehicle rows and %d of %d trip update rows",
		summary.VehicleRowsKept, summary.VehicleRows, summary.TripUpdateRowsKept, summary.TripUpdateRows)

	if err = c.upload(ctx, summary, vehiclesPath, tripUpdatesPath); err != nil {
		return summary, err
	}

	c.cleanUp(day, consumed, vehiclesPath, tripUpdatesPath)
	c.report(summary)
	return summary, nil
}

// writeTables extracts every snapshot in order and appends its rows to the two dataset files,
// skipping any row whose id was already written for the day.
// Snapshots that can not be extracted are skipped and left out of the returned consumed list
func (c *Compactor) writeTables(ctx context.Context,
	snapshots []realtime.Snapshot,
	vehiclesPath string,
	tripUpdatesPath string,
	summary *dataset.Summary) (consumed []realtime.Snapshot, err error) {

	vehicles, err := createTable(vehiclesPath, realtime.IdColumn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := vehicles.close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	tripUpdates, err := createTable(tripUpdatesPath, realtime.IdColumn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := tripUpdates.close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for i, snapshot := range snapshots {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		extraction, extractErr := realtime.Extract(snapshot)
		if extractErr != nil {
			var extractionErr *realtime.ExtractionError
			if !errors.As(extractErr, &extractionErr) {
				return nil, extractErr
			}
			c.log.Printf("skipping snapshot, it will be left in place. error: %v", extractErr)
			summary.SkippedSnapshotCount++
			continue
		}
		for _, row := range extraction.Vehicles {
			if err = vehicles.write(row.Record()); err != nil {
				return nil, err
			}
		}
		for _, row := range extraction.TripUpdates {
			if err = tripUpdates.write(row.Record()); err != nil {
				return nil, err
			}
		}
		summary.UnrecognizedEntities += extraction.Unrecognized + extraction.Invalid
		consumed = append(consumed, snapshot)

		if c.cfg.ProgressEvery > 0 && (i+1)%c.cfg.ProgressEvery == 0 {
			c.log.Printf("processed %d/%d snapshots", i+1, len(snapshots))
		}
	}
	summary.VehicleRows = vehicles.rows
	summary.VehicleRowsKept = vehicles.kept
	summary.TripUpdateRows = tripUpdates.rows
	summary.TripUpdateRowsKept = tripUpdates.kept
	if summary.UnrecognizedEntities > 0 {
		c.log.Printf("skipped %d entities that were neither vehicles nor trip updates", summary.UnrecognizedEntities)
	}
	return consumed, nil
}

// report records summary in the ledger and announces it, failures are logged only
func (c *Compactor) report(summary *dataset.Summary) {
	c.log.Printf("completed %v", summary)
	if c.ledger != nil {
		if err := c.ledger.RecordSummary(summary); err != nil {
			c.log.Printf("failed to record %v in ledger, error:%v", summary, err)
		}
	}
	if c.events != nil {
		c.events.Publish(events.DatasetPublishedSubject, summary)
	}
}
