package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// BollingerBands implements the Indicator interface for Bollinger Bands.
type BollingerBands struct {
	period int     // Number of periods for moving average
	stdDev float64 // Number of standard deviations
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period: 20,  // Default period
		stdDev: 2.0, // Default standard deviation
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Columns implements Indicator.
func (bb *BollingerBands) Columns() []string {
	return []string{"bb_mid", "bb_upper", "bb_lower"}
}

// Warmup implements Indicator.
func (bb *BollingerBands) Warmup() int {
	return bb.period - 1
}

// Config configures the Bollinger Bands indicator. Expected parameters: period (int), stdDev (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if err := expectParams(params, 2, "period (int), stdDev (float64)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	stdDev, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDev parameter, expected float64")
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "stdDev must be a positive number, got %f", stdDev)
	}

	bb.period = period
	bb.stdDev = stdDev

	return nil
}

// Compute implements Indicator.
func (bb *BollingerBands) Compute(series types.BarSeries) ([]Stream, error) {
	mid, upper, lower := CalculateBollingerBands(series.Closes(), bb.period, bb.stdDev)

	return []Stream{mid, upper, lower}, nil
}

// CalculateBollingerBands returns mid = SMA(period) and mid ± k·σ where σ is the
// population standard deviation of the same window.
func CalculateBollingerBands(closes []float64, period int, k float64) (mid, upper, lower Stream) {
	mid, std := rollingMoments(closes, period)
	upper = NewStream(len(closes))
	lower = NewStream(len(closes))

	for i := range closes {
		if !mid.Defined(i) {
			continue
		}

		upper[i] = mid[i] + k*std[i]
		lower[i] = mid[i] - k*std[i]
	}

	return mid, upper, lower
}
