package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
)

// Column names of an input file.
const (
	ColumnTimestamp = "timestamp"
	ColumnOpen      = "open"
	ColumnHigh      = "high"
	ColumnLow       = "low"
	ColumnClose     = "close"
	ColumnVolume    = "volume"
	ColumnTarget    = "target"
	ColumnRowID     = "row_id"
)

// RequiredColumns must be present in every input file.
var RequiredColumns = []string{ColumnTimestamp, ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

// TimeFilter restricts loading to bars with start <= timestamp <= end.
type TimeFilter struct {
	Start optional.Option[time.Time]
	End   optional.Option[time.Time]
}

// NoFilter loads every bar.
func NoFilter() TimeFilter {
	return TimeFilter{
		Start: optional.None[time.Time](),
		End:   optional.None[time.Time](),
	}
}

// BarSource loads a validated dataset from a CSV or Parquet file.
type BarSource interface {
	// Load reads the file at path. Bars keep file order and are validated; target and
	// row_id are loaded when the file has them.
	Load(ctx context.Context, path string, filter TimeFilter) (types.Dataset, error)
	// Close releases any resources held by the source.
	Close() error
}
