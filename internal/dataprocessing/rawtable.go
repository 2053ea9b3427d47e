package dataprocessing

// RawTable is the column-oriented intermediate form produced by the Loader
// and consumed by the Normalizer. Header names are kept verbatim from the
// source; rows may be ragged (shorter than the header) and cells are raw
// strings.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the index of the named column, or -1 when absent.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column is present.
func (t *RawTable) HasColumn(name string) bool {
	return t.ColumnIndex(name) != -1
}

// Rename changes a column's header in place. It is a no-op when the source
// column is absent.
func (t *RawTable) Rename(from, to string) {
	if i := t.ColumnIndex(from); i != -1 {
		t.Header[i] = to
	}
}

// AddColumn appends a new column filled with the given value for every row.
func (t *RawTable) AddColumn(name, fill string) {
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], fill)
	}
}

// Cell returns the value at (row, col), or "" when the row is shorter than
// the header.
func (t *RawTable) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Column returns all values of the column at the given index, substituting
// "" for ragged rows.
func (t *RawTable) Column(col int) []string {
	values := make([]string, len(t.Rows))
	for i := range t.Rows {
		values[i] = t.Cell(i, col)
	}
	return values
}
