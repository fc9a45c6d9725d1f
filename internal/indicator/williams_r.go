package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// WilliamsR represents the Williams %R oscillator.
type WilliamsR struct {
	period int
}

// NewWilliamsR creates a new Williams %R indicator with default configuration.
func NewWilliamsR() Indicator {
	return &WilliamsR{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (w *WilliamsR) Name() types.IndicatorType {
	return types.IndicatorTypeWilliamsR
}

// Columns implements Indicator.
func (w *WilliamsR) Columns() []string {
	return []string{"williams_r"}
}

// Warmup implements Indicator.
func (w *WilliamsR) Warmup() int {
	return w.period - 1
}

// Config configures the indicator. Expected parameters: period (int).
func (w *WilliamsR) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	w.period = period

	return nil
}

// Compute implements Indicator.
func (w *WilliamsR) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateWilliamsR(series.Highs(), series.Lows(), series.Closes(), w.period)}, nil
}

// CalculateWilliamsR returns −100·(HH − close)/(HH − LL), in [−100, 0].
// A flat window is undefined.
func CalculateWilliamsR(highs, lows, closes []float64, period int) Stream {
	out := NewStream(len(closes))
	hh := rollingMax(highs, period)
	ll := rollingMin(lows, period)

	for i, c := range closes {
		if !hh.Defined(i) {
			continue
		}

		out[i] = -100 * div(hh[i]-c, hh[i]-ll[i])
	}

	return out
}
