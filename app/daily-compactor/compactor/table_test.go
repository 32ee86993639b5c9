package compactor

import (
	"github.com/matryer/is"
	"os"
	"path/filepath"
	"testing"
)

func TestDeduper(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    []bool
	}{
		{
			name:    "distinct keys",
			records: [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}},
			want:    []bool{true, true, true},
		},
		{
			name:    "later duplicate dropped",
			records: [][]string{{"1", "a"}, {"2", "b"}, {"3", "a"}},
			want:    []bool{true, true, false},
		},
		{
			name:    "empty keys collapse",
			records: [][]string{{"1", ""}, {"2", ""}},
			want:    []bool{true, false},
		},
		{
			name:    "short record keyed as empty",
			records: [][]string{{"1"}, {"2", ""}},
			want:    []bool{true, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			d := newDeduper(1)
			for i, record := range tt.records {
				is.Equal(d.keep(record), tt.want[i])
			}
		})
	}
}

func TestTable_writeKeepsFirstPerKey(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "vehicles.csv")
	table, err := createTable(path, 1)
	is.NoErr(err)
	for _, record := range [][]string{
		{"100", "v1", "first"},
		{"100", "v2", "x, with comma"},
		{"120", "v1", "second"},
		{"120", "v3", ""},
		{"120", "a\r\nb", "carriage return kept"},
	} {
		is.NoErr(table.write(record))
	}
	is.NoErr(table.close())
	is.Equal(table.rows, 5)
	is.Equal(table.kept, 4)

	data, err := os.ReadFile(path)
	is.NoErr(err)
	is.Equal(string(data), "100,v1,first\n100,v2,\"x, with comma\"\n120,v3,\n120,\"a\r\nb\",carriage return kept\n")
}

func TestRemoveIfPresent(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "gone.json")
	is.NoErr(os.WriteFile(path, []byte("{}"), 0644))
	is.NoErr(removeIfPresent(path))
	is.NoErr(removeIfPresent(path))
}
