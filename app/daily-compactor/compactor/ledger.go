package compactor

import (
	"github.com/OpenTransitTools/feedarchive/business/data/dataset"
	"github.com/jmoiron/sqlx"
)

// DBLedger records compaction summaries in the daily_dataset table
type DBLedger struct {
	db *sqlx.DB
}

// MakeDBLedger creates a DBLedger using db
func MakeDBLedger(db *sqlx.DB) *DBLedger {
	return &DBLedger{db: db}
}

// RecordSummary saves summary, replacing any earlier entry for the same date
func (l *DBLedger) RecordSummary(summary *dataset.Summary) error {
	return dataset.RecordSummary(l.db, summary)
}

// PreviousRun returns the recorded summary for serviceDate, or nil if the date was never compacted
func (l *DBLedger) PreviousRun(serviceDate string) (*dataset.Summary, error) {
	summary, err := dataset.GetSummary(l.db, serviceDate)
	if err != nil && dataset.IsNotFound(err) {
		return nil, nil
	}
	return summary, err
}
