package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-features/internal/types"
)

// EMA indicator implements Exponential Moving Average calculation over close prices.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with the given span.
func NewEMA(period int) Indicator {
	return &EMA{
		period: period,
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Columns implements Indicator.
func (e *EMA) Columns() []string {
	return []string{fmt.Sprintf("ema_%d", e.period)}
}

// Warmup implements Indicator. The EMA is seeded with the first value, so it is
// defined from the first bar.
func (e *EMA) Warmup() int {
	return 0
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	e.period = period

	return nil
}

// Compute implements Indicator.
func (e *EMA) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateEMA(series.Closes(), e.period)}, nil
}

// CalculateEMA computes EMA = value*alpha + prev*(1-alpha) with alpha = 2/(span+1),
// seeded with the first defined value (pandas ewm with adjust=False). Undefined
// inputs after the seed carry the previous average forward.
func CalculateEMA(values []float64, span int) Stream {
	out := NewStream(len(values))
	if span <= 0 {
		return out
	}

	alpha := emaAlpha(span)
	seeded := false
	prev := 0.0

	for i, v := range values {
		switch {
		case IsUndefined(v):
			if !seeded {
				continue
			}
		case !seeded:
			prev = v
			seeded = true
		default:
			prev = emaStep(prev, v, alpha)
		}

		out[i] = prev
	}

	return out
}
