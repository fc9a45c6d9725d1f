package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// StochasticOscillator computes the fast %K line.
type StochasticOscillator struct {
	period int
}

// NewStochasticOscillator creates a new %K indicator with default configuration.
func NewStochasticOscillator() Indicator {
	return &StochasticOscillator{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (s *StochasticOscillator) Name() types.IndicatorType {
	return types.IndicatorTypeStochasticOscillator
}

// Columns implements Indicator.
func (s *StochasticOscillator) Columns() []string {
	return []string{"stoch_k"}
}

// Warmup implements Indicator.
func (s *StochasticOscillator) Warmup() int {
	return s.period - 1
}

// Config configures the indicator. Expected parameters: period (int).
func (s *StochasticOscillator) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	s.period = period

	return nil
}

// Compute implements Indicator.
func (s *StochasticOscillator) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateStochasticK(series.Highs(), series.Lows(), series.Closes(), s.period)}, nil
}

// CalculateStochasticK returns 100·(close − LL)/(HH − LL) over the trailing window.
// A flat window (HH == LL) is undefined.
func CalculateStochasticK(highs, lows, closes []float64, period int) Stream {
	out := NewStream(len(closes))
	hh := rollingMax(highs, period)
	ll := rollingMin(lows, period)

	for i, c := range closes {
		if !hh.Defined(i) {
			continue
		}

		out[i] = 100 * div(c-ll[i], hh[i]-ll[i])
	}

	return out
}
