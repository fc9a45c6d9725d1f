package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-features/internal/types"
)

// SMA indicator implements Simple Moving Average calculation over close prices.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator with the given period.
func NewSMA(period int) Indicator {
	return &SMA{
		period: period,
	}
}

// Name returns the name of the indicator.
func (m *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Columns implements Indicator.
func (m *SMA) Columns() []string {
	return []string{fmt.Sprintf("sma_%d", m.period)}
}

// Warmup implements Indicator.
func (m *SMA) Warmup() int {
	return m.period - 1
}

// Config configures the SMA indicator. Expected parameters: period (int).
func (m *SMA) Config(params ...any) error {
	if err := expectParams(params, 1, "period (int)"); err != nil {
		return err
	}

	period, err := periodParam(params, 0, "period")
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

// Compute implements Indicator.
func (m *SMA) Compute(series types.BarSeries) ([]Stream, error) {
	return []Stream{CalculateSMA(series.Closes(), m.period)}, nil
}

// CalculateSMA returns the trailing arithmetic mean over period values.
func CalculateSMA(values []float64, period int) Stream {
	return rollingMean(values, period)
}
