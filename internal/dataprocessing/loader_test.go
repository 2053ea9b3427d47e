package dataprocessing

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadCSV(t *testing.T) {
	loader := NewLoader(slog.Default())

	input := "Make,Model,Model Year\nTesla,Model 3,2021\nNissan,Leaf,2019\n"
	table, err := loader.LoadCSV(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"Make", "Model", "Model Year"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Tesla", table.Cell(0, 0))
	assert.Equal(t, "2019", table.Cell(1, 2))
}

func TestLoader_LoadCSVStripsBOM(t *testing.T) {
	loader := NewLoader(slog.Default())

	input := "\xEF\xBB\xBFMake,Model,Model Year\nTesla,Model 3,2021\n"
	table, err := loader.LoadCSV(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, "Make", table.Header[0])
}

func TestLoader_LoadCSVRaggedRows(t *testing.T) {
	loader := NewLoader(slog.Default())

	input := "Make,Model,Model Year,County\nTesla,Model 3,2021,King\nNissan,Leaf,2019\n"
	table, err := loader.LoadCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "", table.Cell(1, 3))
}

func TestLoader_LoadCSVEmptyInput(t *testing.T) {
	loader := NewLoader(slog.Default())

	_, err := loader.LoadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestLoader_LoadCSVHeaderOnly(t *testing.T) {
	loader := NewLoader(slog.Default())

	table, err := loader.LoadCSV(strings.NewReader("Make,Model,Model Year\n"))
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestLoader_LoadCSVFile(t *testing.T) {
	loader := NewLoader(slog.Default())

	path := filepath.Join(t.TempDir(), "vehicles.csv")
	content := "Make,Model,Model Year\nTesla,Model 3,2021\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := loader.LoadCSVFile(path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestLoader_LoadCSVFileMissing(t *testing.T) {
	loader := NewLoader(slog.Default())

	_, err := loader.LoadCSVFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestLoader_LoadFileDispatch(t *testing.T) {
	loader := NewLoader(slog.Default())

	path := filepath.Join(t.TempDir(), "vehicles.csv")
	require.NoError(t, os.WriteFile(path, []byte("Make,Model,Model Year\nTesla,Model 3,2021\n"), 0644))

	table, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{
			name: "header on first row",
			rows: [][]string{{"Make", "Model", "Model Year"}},
			want: 0,
		},
		{
			name: "title rows above header",
			rows: [][]string{
				{"Electric Vehicle Population"},
				{""},
				{"Make", "Model", "Model Year"},
			},
			want: 2,
		},
		{
			name: "no header present",
			rows: [][]string{{"just"}, {"values"}},
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findHeaderRow(tt.rows))
		})
	}
}
