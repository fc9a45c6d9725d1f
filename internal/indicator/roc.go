package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// ROC represents the Rate of Change indicator.
type ROC struct {
	period int
}

// NewROC creates a new ROC indicator with default configuration.
func NewROC() Indicator {
	return &ROC{
		period: 10, // Default period
	}
}

// Name returns the name of the indicator.
func (r *ROC) Name() types.IndicatorType {
	return types.IndicatorTypeROC
}

// Columns implements Indicator.
func (r *ROC) Columns() []string {
	return []string{"roc"}
}

// Warmup implements Indicator.
func (r *ROC) Warmup() int {
	return r.period
}

// Config configures the ROC indicator. Expected parameters: period (int).
func (r *ROC) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

// Compute implements Indicator.
func (r *ROC) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateROC(series.Closes(), r.period)}, nil
}

// CalculateROC returns 100·(close[i] − close[i−period])/close[i−period].
func CalculateROC(closes []float64, period int) Stream {
	out := NewStream(len(closes))
	if period <= 0 {
		return out
	}

	for i := period; i < len(closes); i++ {
		out[i] = 100 * div(closes[i]-closes[i-period], closes[i-period])
	}

	return out
}
