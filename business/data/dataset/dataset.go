// Package dataset describes the daily datasets produced from realtime snapshots and keeps a ledger of them
package dataset

import (
	"fmt"
	"time"
)

// dateLayout formats dates in dataset file names
const dateLayout = "2006-01-02"

// FormatDate renders day as used in dataset file names, YYYY-MM-DD
func FormatDate(day time.Time) string {
	return day.Format(dateLayout)
}

// VehiclesFileName returns the dataset file name holding vehicle positions for day
func VehiclesFileName(day time.Time) string {
	return fmt.Sprintf("vehicles_%s.csv", FormatDate(day))
}

// TripUpdatesFileName returns the dataset file name holding trip updates for day
func TripUpdatesFileName(day time.Time) string {
	return fmt.Sprintf("trip_updates_%s.csv", FormatDate(day))
}

// Summary describes one daily compaction run
type Summary struct {
	RunId                string         `db:"run_id" json:"run_id"`
	ServiceDate          time.Time      `db:"service_date" json:"service_date"`
	DayKind              ServiceDayKind `db:"day_kind" json:"day_kind"`
	HolidayName          *string        `db:"holiday_name" json:"holiday_name"`
	SnapshotCount        int            `db:"snapshot_count" json:"snapshot_count"`
	SkippedSnapshotCount int            `db:"skipped_snapshot_count" json:"skipped_snapshot_count"`
	UnrecognizedEntities int            `db:"unrecognized_entities" json:"unrecognized_entities"`
	VehicleRows          int            `db:"vehicle_rows" json:"vehicle_rows"`
	VehicleRowsKept      int            `db:"vehicle_rows_kept" json:"vehicle_rows_kept"`
	TripUpdateRows       int            `db:"trip_update_rows" json:"trip_update_rows"`
	TripUpdateRowsKept   int            `db:"trip_update_rows_kept" json:"trip_update_rows_kept"`
	Bucket               string         `db:"bucket" json:"bucket"`
	VehiclesObjectKey    string         `db:"vehicles_object_key" json:"vehicles_object_key"`
	TripUpdatesObjectKey string         `db:"trip_updates_object_key" json:"trip_updates_object_key"`
	UploadedAt           *time.Time     `db:"uploaded_at" json:"uploaded_at"`
}

// MakeSummary creates a Summary for serviceDate, classified with calendar
func MakeSummary(runId string, serviceDate time.Time, calendar *ServiceDayCalendar) *Summary {
	kind, holidayName := calendar.Classify(serviceDate)
	summary := Summary{
		RunId:       runId,
		ServiceDate: serviceDate,
		DayKind:     kind,
	}
	if len(holidayName) > 0 {
		summary.HolidayName = &holidayName
	}
	return &summary
}

// String implements Stringer for Summary
func (s *Summary) String() string {
	return fmt.Sprintf("Summary{date:%s, kind:%s, snapshots:%d, skipped:%d, vehicles:%d/%d, trip_updates:%d/%d}",
		FormatDate(s.ServiceDate), s.DayKind, s.SnapshotCount, s.SkippedSnapshotCount,
		s.VehicleRowsKept, s.VehicleRows, s.TripUpdateRowsKept, s.TripUpdateRows)
}
