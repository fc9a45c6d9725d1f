package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Columns implements Indicator.
func (r *RSI) Columns() []string {
	return []string{"rsi"}
}

// Warmup implements Indicator. The first value needs period price changes.
func (r *RSI) Warmup() int {
	return r.period
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
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
func (r *RSI) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateRSI(series.Closes(), r.period)}, nil
}

// CalculateRSI computes Wilder's RSI. The averages are seeded with the simple mean of
// the first period gains and losses, then smoothed as (prev*(period-1)+x)/period.
// A window with losses but no gains is 0, gains but no losses is 100, and a window
// with neither is undefined.
func CalculateRSI(closes []float64, period int) Stream {
	out := NewStream(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	avgGain := 0.0
	avgLoss := 0.0

	for i := 1; i <= period; i++ {
		gain, loss := priceChange(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		gain, loss := priceChange(closes[i] - closes[i-1])
		avgGain = wilderStep(avgGain, gain, period)
		avgLoss = wilderStep(avgLoss, loss, period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func priceChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}

	return 0, -change
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return Undefined()
		}

		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
