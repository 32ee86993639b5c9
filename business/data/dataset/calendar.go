package dataset

import (
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/nz"
	"time"
)

// ServiceDayKind classifies a service date the way transit timetables do
type ServiceDayKind string

const (
	Weekday  ServiceDayKind = "weekday"
	Saturday ServiceDayKind = "saturday"
	Sunday   ServiceDayKind = "sunday"
	// Holiday is a public holiday, usually run on a sunday timetable
	Holiday ServiceDayKind = "holiday"
)

// ServiceDayCalendar holds the public holidays observed by the transit agency
type ServiceDayCalendar struct {
	calendar *cal.BusinessCalendar
}

// MakeServiceDayCalendar builds a ServiceDayCalendar observing New Zealand public holidays
func MakeServiceDayCalendar() *ServiceDayCalendar {
	calendar := cal.NewBusinessCalendar()
	calendar.AddHoliday(nz.Holidays...)
	return &ServiceDayCalendar{calendar: calendar}
}

// Classify returns the kind of service day at falls on, and the holiday name when it is a holiday
func (s *ServiceDayCalendar) Classify(at time.Time) (ServiceDayKind, string) {
	_, observed, holiday := s.calendar.IsHoliday(at)
	if observed && holiday != nil {
		return Holiday, holiday.Name
	}
	switch at.Weekday() {
	case time.Saturday:
		return Saturday, ""
	case time.Sunday:
		return Sunday, ""
	}
	return Weekday, ""
}
