package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// CCI represents the Commodity Channel Index.
type CCI struct {
	period   int
	constant float64
}

// NewCCI creates a new CCI indicator with default configuration.
func NewCCI() Indicator {
	return &CCI{
		period:   20,    // Default period
		constant: 0.015, // Lambert's constant
	}
}

// Name returns the name of the indicator.
func (c *CCI) Name() types.IndicatorType {
	return types.IndicatorTypeCCI
}

// Columns implements Indicator.
func (c *CCI) Columns() []string {
	return []string{"cci"}
}

// Warmup implements Indicator.
func (c *CCI) Warmup() int {
	return c.period - 1
}

// Config configures the indicator. Expected parameters: period (int), constant (float64).
func (c *CCI) Config(params ...any) error {
	if err := expectParams(params, 2, "period (int), constant (float64)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	constant, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for constant parameter, expected float64")
	}

	if constant <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "constant must be a positive number, got %f", constant)
	}

	c.period = period
	c.constant = constant

	return nil
}

// Compute implements Indicator.
func (c *CCI) Compute(series types.BarSeries) ([]Stream, error) {
	tp := TypicalPrice(series.Highs(), series.Lows(), series.Closes())

	return []Stream{CalculateCCI(tp, c.period, c.constant)}, nil
}

// TypicalPrice returns (high+low+close)/3 for every bar.
func TypicalPrice(highs, lows, closes []float64) []float64 {
	tp := make([]float64, len(closes))
	for i := range closes {
		tp[i] = (highs[i] + lows[i] + closes[i]) / 3
	}

	return tp
}

// flatTolerance is the relative deviation below which a window is treated as flat.
const flatTolerance = 1e-12

// CalculateCCI returns (tp − SMA(tp))/(constant·MAD(tp)) where MAD is the mean absolute
// deviation of the window around its own mean. A deviation at rounding level
// relative to the mean counts as zero and leaves the value undefined.
// The deviation has to revisit the window for every position since it is taken
// around the current mean.
func CalculateCCI(tp []float64, period int, constant float64) Stream {
	out := NewStream(len(tp))
	mean := rollingMean(tp, period)

	for i := range tp {
		if !mean.Defined(i) {
			continue
		}

		mad := 0.0
		for j := i - period + 1; j <= i; j++ {
			mad += math.Abs(tp[j] - mean[i])
		}

		mad /= float64(period)
		if mad <= flatTolerance*math.Abs(mean[i]) {
			continue
		}

		out[i] = div(tp[i]-mean[i], constant*mad)
	}

	return out
}
