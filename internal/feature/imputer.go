package feature

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnMeans returns for each column the mean of its defined values across rows,
// or None when the column has no defined value at all.
func ColumnMeans(rows [][]float64, width int) []optional.Option[float64] {
	means := make([]optional.Option[float64], width)
	values := make([]float64, 0, len(rows))

	for j := 0; j < width; j++ {
		values = values[:0]

		for _, row := range rows {
			if !math.IsNaN(row[j]) {
				values = append(values, row[j])
			}
		}

		if len(values) == 0 {
			means[j] = optional.None[float64]()

			continue
		}

		means[j] = optional.Some(stat.Mean(values, nil))
	}

	return means
}

// RowComplete reports whether a row has no undefined value.
func RowComplete(row []float64) bool {
	return !floats.HasNaN(row)
}

// ImputeRow returns a copy of row with undefined values replaced by the column means
// and the number of values filled. A row needing a column without a mean is an
// ImputationFailure and is returned unchanged.
func ImputeRow(row []float64, means []optional.Option[float64], columns []string) ([]float64, int, error) {
	var unavailable []string

	for j, v := range row {
		if math.IsNaN(v) && means[j].IsNone() {
			unavailable = append(unavailable, columns[j])
		}
	}

	if len(unavailable) > 0 {
		return row, 0, errors.Newf(errors.ErrCodeImputationFailure, "no defined values to impute %v", unavailable)
	}

	out := make([]float64, len(row))
	filled := 0

	for j, v := range row {
		if math.IsNaN(v) {
			out[j] = means[j].Unwrap()
			filled++

			continue
		}

		out[j] = v
	}

	return out, filled, nil
}
