package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// Lag exposes the previous bar's raw open, high, low, close and volume.
type Lag struct{}

// NewLag creates a new lag feature set.
func NewLag() Indicator {
	return &Lag{}
}

// Name returns the name of the indicator.
func (l *Lag) Name() types.IndicatorType {
	return types.IndicatorTypeLag
}

// Columns implements Indicator.
func (l *Lag) Columns() []string {
	return []string{"prev_open", "prev_high", "prev_low", "prev_close", "prev_volume"}
}

// Warmup implements Indicator.
func (l *Lag) Warmup() int {
	return 1
}

// Config implements Indicator. Lag takes no parameters.
func (l *Lag) Config(params ...any) error {
	return expectParams(params, 0, "none")
}

// Compute implements Indicator.
func (l *Lag) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{
		Shift(series.Opens(), 1),
		Shift(series.Highs(), 1),
		Shift(series.Lows(), 1),
		Shift(series.Closes(), 1),
		Shift(series.Volumes(), 1),
	}, nil
}

// Shift returns values delayed by n positions; the first n positions are undefined.
func Shift(values []float64, n int) Stream {
	out := NewStream(len(values))
	for i := n; i < len(values); i++ {
		out[i] = values[i-n]
	}

	return out
}
