package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// Indicator interface defines methods that any technical indicator must implement.
// Compute is a pure function of the series: it never looks at bars after position i
// when producing the value at i.
type Indicator interface {
	// Name returns the kind of the indicator
	Name() types.IndicatorType
	// Columns returns the feature names of the streams Compute produces, in order
	Columns() []string
	// Warmup returns the first position at which every stream can be defined
	Warmup() int
	// Config configures the indicator parameters
	Config(params ...any) error
	// Compute returns one stream per column, each as long as the series
	Compute(series types.BarSeries) ([]Stream, error)
}
