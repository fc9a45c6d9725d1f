package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
)

// Pivot is the classic floor-trader pivot point of the current bar.
type Pivot struct{}

// NewPivot creates a new pivot indicator.
func NewPivot() Indicator {
	return &Pivot{}
}

// Name returns the name of the indicator.
func (p *Pivot) Name() types.IndicatorType {
	return types.IndicatorTypePivot
}

// Columns implements Indicator.
func (p *Pivot) Columns() []string {
	return []string{"pivot"}
}

// Warmup implements Indicator.
func (p *Pivot) Warmup() int {
	return 0
}

// Config implements Indicator. Pivot takes no parameters.
func (p *Pivot) Config(params ...any) error {
	return expectParams(params, 0, "none")
}

// Compute implements Indicator.
func (p *Pivot) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{Stream(TypicalPrice(series.Highs(), series.Lows(), series.Closes()))}, nil
}
