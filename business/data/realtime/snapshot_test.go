package realtime

import (
	"github.com/matryer/is"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
	_ "time/tzdata"
)

func touchSnapshot(t *testing.T, dir string, at time.Time) string {
	path := filepath.Join(dir, SnapshotFileName(at.Unix()))
	if err := os.WriteFile(path, []byte(`{"response":{"entity":[]}}`), 0644); err != nil {
		t.Fatalf("unable to write snapshot: %v", err)
	}
	return path
}

func TestParseSnapshotPath(t *testing.T) {
	tests := []struct {
		path     string
		wantOk   bool
		wantTime string
	}{
		{path: "data/realtime_combined_feed_1614812400.json", wantOk: true, wantTime: "1614812400"},
		{path: "realtime_combined_feed_7.json", wantOk: true, wantTime: "7"},
		{path: "data/log.log"},
		{path: "data/realtime_combined_feed_1614812400.json.tmp"},
		{path: "data/realtime_combined_feed_abc.json"},
		{path: "data/other_feed_1614812400.json"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			is := is.New(t)
			got, ok := ParseSnapshotPath(tt.path)
			is.Equal(ok, tt.wantOk)
			if tt.wantOk {
				is.Equal(got.FileTime, tt.wantTime)
				is.Equal(strconv.FormatInt(got.CapturedAt.Unix(), 10), tt.wantTime)
				is.Equal(got.Path, tt.path)
			}
		})
	}
}

func TestInDay(t *testing.T) {
	location := time.FixedZone("NZDT", 13*60*60)
	day := time.Date(2021, 3, 4, 0, 0, 0, 0, location)
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "exactly midnight of day excluded", at: day, want: false},
		{name: "one second after midnight", at: day.Add(time.Second), want: true},
		{name: "23:00", at: day.Add(23 * time.Hour), want: true},
		{name: "23:59", at: day.Add(23*time.Hour + 59*time.Minute), want: true},
		{name: "exactly midnight of next day included", at: day.Add(24 * time.Hour), want: true},
		{name: "00:01 next day excluded", at: day.Add(24*time.Hour + time.Minute), want: false},
		{name: "previous evening", at: day.Add(-time.Hour), want: false},
		{name: "same instant in utc", at: day.Add(time.Hour).UTC(), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(InDay(day, tt.at), tt.want)
		})
	}
}

func TestInDay_daylightSavingChangeover(t *testing.T) {
	auckland, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		day  time.Time
		at   time.Time
		want bool
	}{
		{
			name: "last hour of 25 hour day belongs to it",
			day:  time.Date(2021, 4, 4, 0, 0, 0, 0, auckland),
			at:   time.Date(2021, 4, 4, 23, 30, 0, 0, auckland),
			want: true,
		},
		{
			name: "last hour of 25 hour day not in next day",
			day:  time.Date(2021, 4, 5, 0, 0, 0, 0, auckland),
			at:   time.Date(2021, 4, 4, 23, 30, 0, 0, auckland),
			want: false,
		},
		{
			name: "midnight ending 25 hour day included",
			day:  time.Date(2021, 4, 4, 0, 0, 0, 0, auckland),
			at:   time.Date(2021, 4, 5, 0, 0, 0, 0, auckland),
			want: true,
		},
		{
			name: "first hour after 23 hour day not in it",
			day:  time.Date(2021, 9, 26, 0, 0, 0, 0, auckland),
			at:   time.Date(2021, 9, 27, 0, 30, 0, 0, auckland),
			want: false,
		},
		{
			name: "first hour after 23 hour day in next day",
			day:  time.Date(2021, 9, 27, 0, 0, 0, 0, auckland),
			at:   time.Date(2021, 9, 27, 0, 30, 0, 0, auckland),
			want: true,
		},
		{
			name: "last minute of 23 hour day",
			day:  time.Date(2021, 9, 26, 0, 0, 0, 0, auckland),
			at:   time.Date(2021, 9, 26, 23, 59, 0, 0, auckland),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(InDay(tt.day, tt.at), tt.want)
		})
	}
}

func TestInDay_timeOfDayIgnored(t *testing.T) {
	is := is.New(t)
	day := time.Date(2021, 3, 4, 15, 30, 0, 0, time.UTC)
	is.True(InDay(day, time.Date(2021, 3, 4, 1, 0, 0, 0, time.UTC)))
	is.True(!InDay(day, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)))
}

func TestFilesForDay(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	day := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)

	touchSnapshot(t, dir, day)
	at2359 := touchSnapshot(t, dir, day.Add(23*time.Hour+59*time.Minute))
	at2300 := touchSnapshot(t, dir, day.Add(23*time.Hour))
	atNextMidnight := touchSnapshot(t, dir, day.Add(24*time.Hour))
	touchSnapshot(t, dir, day.Add(24*time.Hour+time.Minute))
	is.NoErr(os.WriteFile(filepath.Join(dir, "log.log"), []byte("1,True\n"), 0644))
	is.NoErr(os.Mkdir(filepath.Join(dir, "realtime_combined_feed_1.json"), 0755))

	got, err := FilesForDay(dir, day)
	is.NoErr(err)
	var paths []string
	for _, snapshot := range got {
		paths = append(paths, snapshot.Path)
	}
	// ordered by capture time, midnight of day excluded
	is.Equal(paths, []string{at2300, at2359, atNextMidnight})
}

func TestFilesForDay_empty(t *testing.T) {
	is := is.New(t)
	got, err := FilesForDay(t.TempDir(), time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC))
	is.NoErr(err)
	is.Equal(len(got), 0)
}

func TestFilesForDay_missingDirectory(t *testing.T) {
	is := is.New(t)
	_, err := FilesForDay(filepath.Join(t.TempDir(), "absent"), time.Now())
	is.True(err != nil)
}

func TestPartialSnapshots(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	day := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	partial := func(at time.Time) string {
		path := filepath.Join(dir, SnapshotFileName(at.Unix())+".tmp")
		is.NoErr(os.WriteFile(path, []byte(`{"respo`), 0644))
		return path
	}

	earlier := partial(day.Add(-48 * time.Hour))
	sameDay := partial(day.Add(23 * time.Hour))
	atNextMidnight := partial(day.Add(24 * time.Hour))
	partial(day.Add(24*time.Hour + time.Second))
	touchSnapshot(t, dir, day.Add(time.Hour))
	is.NoErr(os.WriteFile(filepath.Join(dir, "log.log.tmp"), nil, 0644))

	got, err := PartialSnapshots(dir, day)
	is.NoErr(err)
	is.Equal(got, []string{earlier, sameDay, atNextMidnight})

	_, err = PartialSnapshots(filepath.Join(dir, "missing"), day)
	is.True(err != nil)
}
