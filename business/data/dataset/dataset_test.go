package dataset

import (
	"github.com/matryer/is"
	"testing"
	"time"
)

func TestFileNames(t *testing.T) {
	is := is.New(t)
	day := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	is.Equal(VehiclesFileName(day), "vehicles_2021-03-04.csv")
	is.Equal(TripUpdatesFileName(day), "trip_updates_2021-03-04.csv")
	is.Equal(FormatDate(time.Date(2020, 12, 31, 23, 0, 0, 0, time.UTC)), "2020-12-31")
}

func TestServiceDayCalendar_Classify(t *testing.T) {
	calendar := MakeServiceDayCalendar()
	tests := []struct {
		name        string
		day         time.Time
		want        ServiceDayKind
		wantHoliday bool
	}{
		{name: "thursday", day: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), want: Weekday},
		{name: "saturday", day: time.Date(2021, 3, 6, 0, 0, 0, 0, time.UTC), want: Saturday},
		{name: "sunday", day: time.Date(2021, 3, 7, 0, 0, 0, 0, time.UTC), want: Sunday},
		{name: "christmas on a friday", day: time.Date(2020, 12, 25, 0, 0, 0, 0, time.UTC), want: Holiday, wantHoliday: true},
		{name: "anzac day on a thursday", day: time.Date(2019, 4, 25, 0, 0, 0, 0, time.UTC), want: Holiday, wantHoliday: true},
		{name: "new years day on a friday", day: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), want: Holiday, wantHoliday: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got, holidayName := calendar.Classify(tt.day)
			is.Equal(got, tt.want)
			is.Equal(len(holidayName) > 0, tt.wantHoliday)
		})
	}
}

func TestMakeSummary(t *testing.T) {
	is := is.New(t)
	calendar := MakeServiceDayCalendar()

	summary := MakeSummary("run-1", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), calendar)
	is.Equal(summary.RunId, "run-1")
	is.Equal(summary.DayKind, Weekday)
	is.True(summary.HolidayName == nil)

	summary = MakeSummary("run-2", time.Date(2020, 12, 25, 0, 0, 0, 0, time.UTC), calendar)
	is.Equal(summary.DayKind, Holiday)
	is.True(summary.HolidayName != nil)
}
