package types

import (
	"math"
	"time"
)

// FeatureRow maps a feature name to its value for one bar.
type FeatureRow map[string]float64

// Valid reports whether every value of the row is defined.
func (r FeatureRow) Valid() bool {
	for _, v := range r {
		if math.IsNaN(v) {
			return false
		}
	}

	return true
}

// FeatureTable is the composer output: one row per kept bar, columns in contract order.
type FeatureTable struct {
	// Columns is the ordered feature name list the rows are laid out in.
	Columns []string
	// Rows holds one value vector per kept bar.
	Rows [][]float64
	// Index is the position of each row's bar in the input series.
	Index []int
	// Timestamps is the bar time of each row.
	Timestamps []time.Time
	// Labels is set for training tables only.
	Labels []int
	// RowIDs is set for inference tables only.
	RowIDs []int64
}

// Len returns the number of rows.
func (t *FeatureTable) Len() int {
	return len(t.Rows)
}

// Row returns row i as a name keyed mapping.
func (t *FeatureTable) Row(i int) FeatureRow {
	row := make(FeatureRow, len(t.Columns))
	for j, name := range t.Columns {
		row[name] = t.Rows[i][j]
	}

	return row
}

// Column returns a copy of the named column.
func (t *FeatureTable) Column(name string) ([]float64, bool) {
	for j, c := range t.Columns {
		if c != name {
			continue
		}

		out := make([]float64, len(t.Rows))
		for i, row := range t.Rows {
			out[i] = row[j]
		}

		return out, true
	}

	return nil, false
}
