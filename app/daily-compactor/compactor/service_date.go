package compactor

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUsage is returned when the service date arguments are missing or malformed
var ErrUsage = errors.New("expected arguments: <year> <month> <day>")

// ParseServiceDate builds midnight of the date named by year, month and day in loc.
// Dates that do not exist, such as February 30, are rejected
func ParseServiceDate(args []string, loc *time.Location) (time.Time, error) {
	if len(args) != 3 {
		return time.Time{}, ErrUsage
	}
	var parts [3]int
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not a number", ErrUsage, arg)
		}
		parts[i] = n
	}
	year, month, day := parts[0], parts[1], parts[2]
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %d-%d-%d is not a valid date", ErrUsage, year, month, day)
	}
	return date, nil
}
