package dataset

import (
	"database/sql"
	_ "embed"
	"errors"
	"github.com/jmoiron/sqlx"
)

// RecordSummary saves summary to the daily_dataset table, replacing any earlier run for the same service date
func RecordSummary(db *sqlx.DB, summary *Summary) error {
	statementString := "insert into daily_dataset " +
		"(run_id, " +
		"service_date, " +
		"day_kind, " +
		"holiday_name, " +
		"snapshot_count, " +
		"skipped_snapshot_count, " +
		"unrecognized_entities, " +
		"vehicle_rows, " +
		"vehicle_rows_kept, " +
		"trip_update_rows, " +
		"trip_update_rows_kept, " +
		"bucket, " +
		"vehicles_object_key, " +
		"trip_updates_object_key, " +
		"uploaded_at) " +
		"values (:run_id, " +
		":service_date, " +
		":day_kind, " +
		":holiday_name, " +
		":snapshot_count, " +
		":skipped_snapshot_count, " +
		":unrecognized_entities, " +
		":vehicle_rows, " +
		":vehicle_rows_kept, " +
		":trip_update_rows, " +
		":trip_update_rows_kept, " +
		":bucket, " +
		":vehicles_object_key, " +
		":trip_updates_object_key, " +
		":uploaded_at) " +
		"on conflict (service_date) do update set " +
		"run_id = excluded.run_id, " +
		"day_kind = excluded.day_kind, " +
		"holiday_name = excluded.holiday_name, " +
		"snapshot_count = excluded.snapshot_count, " +
		"skipped_snapshot_count = excluded.skipped_snapshot_count, " +
		"unrecognized_entities = excluded.unrecognized_entities, " +
		"vehicle_rows = excluded.vehicle_rows, " +
		"vehicle_rows_kept = excluded.vehicle_rows_kept, " +
		"trip_update_rows = excluded.trip_update_rows, " +
		"trip_update_rows_kept = excluded.trip_update_rows_kept, " +
		"bucket = excluded.bucket, " +
		"vehicles_object_key = excluded.vehicles_object_key, " +
		"trip_updates_object_key = excluded.trip_updates_object_key, " +
		"uploaded_at = excluded.uploaded_at"
	statementString = db.Rebind(statementString)
	_, err := db.NamedExec(statementString, summary)
	return err
}

// GetSummary loads the ledger entry for serviceDate
func GetSummary(db *sqlx.DB, serviceDate string) (*Summary, error) {
	statementString := db.Rebind("select * from daily_dataset where service_date = ?")
	var summary Summary
	err := db.Get(&summary, statementString, serviceDate)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// IsNotFound reports whether err came from looking up a service date with no ledger entry
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

//go:embed schema.sql
var schema string

// EnsureSchema creates the daily_dataset table when it does not exist
func EnsureSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
