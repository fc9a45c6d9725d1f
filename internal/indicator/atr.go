package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-features/internal/types"
)

// ATR represents the Average True Range indicator.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	return &ATR{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Columns implements Indicator.
func (a *ATR) Columns() []string {
	return []string{"atr"}
}

// Warmup implements Indicator.
func (a *ATR) Warmup() int {
	return a.period - 1
}

// Config configures the ATR indicator. Expected parameters: period (int).
func (a *ATR) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	a.period = period

	return nil
}

// Compute implements Indicator.
func (a *ATR) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateATR(series.Highs(), series.Lows(), series.Closes(), a.period)}, nil
}

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|). The first bar has
// no previous close and uses high-low.
func TrueRange(highs, lows, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		tr[i] = highs[i] - lows[i]
		if i == 0 {
			continue
		}

		prevClose := closes[i-1]
		tr[i] = math.Max(
			math.Max(tr[i], math.Abs(highs[i]-prevClose)),
			math.Abs(lows[i]-prevClose),
		)
	}

	return tr
}

// CalculateATR seeds with the mean of the first period true ranges and applies
// Wilder's smoothing afterwards.
func CalculateATR(highs, lows, closes []float64, period int) Stream {
	out := NewStream(len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}

	tr := TrueRange(highs, lows, closes)

	atr := 0.0
	for i := 0; i < period; i++ {
		atr += tr[i]
	}

	atr /= float64(period)
	out[period-1] = atr

	for i := period; i < len(tr); i++ {
		atr = wilderStep(atr, tr[i], period)
		out[i] = atr
	}

	return out
}
