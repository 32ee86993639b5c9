package compactor

import (
	"encoding/csv"
	"fmt"
	"os"
)

// table appends records to a headerless csv file, keeping only the first record for each key
type table struct {
	path    string
	file    *os.File
	writer  *csv.Writer
	deduper *deduper
	// rows counts every record offered, kept the records written
	rows int
	kept int
}

// createTable creates or truncates the file at path. Records are keyed by keyColumn
func createTable(path string, keyColumn int) (*table, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create dataset file %s: %w", path, err)
	}
	return &table{
		path:    path,
		file:    file,
		writer:  csv.NewWriter(file),
		deduper: newDeduper(keyColumn),
	}, nil
}

// write appends record unless a record with the same key was already written
func (t *table) write(record []string) error {
	t.rows++
	if !t.deduper.keep(record) {
		return nil
	}
	if err := t.writer.Write(record); err != nil {
		return fmt.Errorf("unable to write to %s: %w", t.path, err)
	}
	t.kept++
	return nil
}

func (t *table) close() error {
	t.writer.Flush()
	if err := t.writer.Error(); err != nil {
		_ = t.file.Close()
		return fmt.Errorf("unable to flush %s: %w", t.path, err)
	}
	return t.file.Close()
}

// deduper remembers the key column of records it has accepted
type deduper struct {
	keyColumn int
	seen      map[string]struct{}
}

func newDeduper(keyColumn int) *deduper {
	return &deduper{
		keyColumn: keyColumn,
		seen:      make(map[string]struct{}),
	}
}

// keep reports whether record is the first one seen with its key
func (d *deduper) keep(record []string) bool {
	key := ""
	if d.keyColumn < len(record) {
		key = record[d.keyColumn]
	}
	if _, present := d.seen[key]; present {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}
