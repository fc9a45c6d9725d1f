package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// OBV represents the On-Balance Volume indicator.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() Indicator {
	return &OBV{}
}

// Name returns the name of the indicator.
func (o *OBV) Name() types.IndicatorType {
	return types.IndicatorTypeOBV
}

// Columns implements Indicator.
func (o *OBV) Columns() []string {
	return []string{"obv"}
}

// Warmup implements Indicator.
func (o *OBV) Warmup() int {
	return 0
}

// Config implements Indicator. OBV takes no parameters.
func (o *OBV) Config(params ...any) error {
	return expectParams(params, 0, "none")
}

// Compute implements Indicator.
func (o *OBV) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateOBV(series.Closes(), series.Volumes())}, nil
}

// CalculateOBV starts at 0 and adds the bar volume on a higher close, subtracts it on a
// lower close and carries the total on an unchanged close.
func CalculateOBV(closes, volumes []float64) Stream {
	out := NewStream(len(closes))
	if len(closes) == 0 {
		return out
	}

	total := 0.0
	out[0] = total

	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			total += volumes[i]
		case closes[i] < closes[i-1]:
			total -= volumes[i]
		}

		out[i] = total
	}

	return out
}
