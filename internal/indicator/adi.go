package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// ADI represents the Accumulation/Distribution Index.
type ADI struct{}

// NewADI creates a new ADI indicator.
func NewADI() Indicator {
	return &ADI{}
}

// Name returns the name of the indicator.
func (a *ADI) Name() types.IndicatorType {
	return types.IndicatorTypeADI
}

// Columns implements Indicator.
func (a *ADI) Columns() []string {
	return []string{"adi"}
}

// Warmup implements Indicator.
func (a *ADI) Warmup() int {
	return 0
}

// Config implements Indicator. ADI takes no parameters.
func (a *ADI) Config(params ...any) error {
	return expectParams(params, 0, "none")
}

// Compute implements Indicator.
func (a *ADI) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateADI(series.Highs(), series.Lows(), series.Closes(), series.Volumes())}, nil
}

// MoneyFlowMultiplier returns ((close−low) − (high−close))/(high−low), or Undefined
// for a bar with no range.
func MoneyFlowMultiplier(high, low, close float64) float64 {
	return div((close-low)-(high-close), high-low)
}

// CalculateADI accumulates multiplier·volume. A bar with no range moves no money and
// adds nothing, so one flat bar does not void the rest of the running total.
func CalculateADI(highs, lows, closes, volumes []float64) Stream {
	out := NewStream(len(closes))
	total := 0.0

	for i := range closes {
		mfm := MoneyFlowMultiplier(highs[i], lows[i], closes[i])
		if !IsUndefined(mfm) {
			total += mfm * volumes[i]
		}

		out[i] = total
	}

	return out
}
