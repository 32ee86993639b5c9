package realtime

import (
	"errors"
	"fmt"
	"github.com/tidwall/gjson"
	"os"
)

var (
	// ErrInvalidJSON is returned for a snapshot whose body is not valid json
	ErrInvalidJSON = errors.New("snapshot is not valid json")
	// ErrMissingEnvelope is returned for a snapshot without a response.entity list
	ErrMissingEnvelope = errors.New("snapshot has no response.entity list")
)

// ExtractionError is returned when a snapshot can not be flattened into rows
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("unable to extract rows from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extraction holds the rows flattened from one snapshot, in entity order
type Extraction struct {
	Vehicles    []VehicleRow
	TripUpdates []TripUpdateRow
	// Unrecognized counts objects that were neither vehicles nor trip updates
	Unrecognized int
	// Invalid counts entries that were not json objects
	Invalid int
}

// Extract reads snapshot and flattens its entities
func Extract(snapshot Snapshot) (*Extraction, error) {
	data, err := os.ReadFile(snapshot.Path)
	if err != nil {
		return nil, &ExtractionError{Path: snapshot.Path, Err: err}
	}
	result, err := ExtractBytes(snapshot.FileTime, data)
	if err != nil {
		var extractionErr *ExtractionError
		if errors.As(err, &extractionErr) {
			extractionErr.Path = snapshot.Path
		}
		return nil, err
	}
	return result, nil
}

// ExtractBytes flattens the entities of a snapshot body. Every row is stamped with fileTime.
func ExtractBytes(fileTime string, data []byte) (*Extraction, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ExtractionError{Err: ErrInvalidJSON}
	}
	entities := gjson.GetBytes(data, "response.entity")
	if !entities.IsArray() {
		return nil, &ExtractionError{Err: ErrMissingEnvelope}
	}

	result := Extraction{}
	entities.ForEach(func(_, value gjson.Result) bool {
		entity := decodeEntity(value)
		switch entity.Kind {
		case EntityVehicle:
			result.Vehicles = append(result.Vehicles, entity.vehicleRow(fileTime))
		case EntityTripUpdate:
			result.TripUpdates = append(result.TripUpdates, entity.tripUpdateRow(fileTime))
		case EntityUnrecognized:
			result.Unrecognized++
		default:
			result.Invalid++
		}
		return true
	})
	return &result, nil
}
