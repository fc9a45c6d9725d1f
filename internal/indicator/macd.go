package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// MACD represents the Moving Average Convergence Divergence indicator.
// The line, signal and histogram come out of one pass.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12, // Default fast period
		slowPeriod:   26, // Default slow period
		signalPeriod: 9,  // Default signal period
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Columns implements Indicator.
func (m *MACD) Columns() []string {
	return []string{"macd", "macd_signal", "macd_diff"}
}

// Warmup implements Indicator. Every average is seeded with its first input.
func (m *MACD) Warmup() int {
	return 0
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if err := expectParams(params, 3, "fastPeriod (int), slowPeriod (int), signalPeriod (int)"); err != nil {
		return err
	}

	fastPeriod, err := periodParam(params, 0, "fastPeriod")
	if err != nil {
		return err
	}

	slowPeriod, err := periodParam(params, 1, "slowPeriod")
	if err != nil {
		return err
	}

	signalPeriod, err := periodParam(params, 2, "signalPeriod")
	if err != nil {
		return err
	}

	if fastPeriod >= slowPeriod {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "fastPeriod (%d) must be smaller than slowPeriod (%d)", fastPeriod, slowPeriod)
	}

	m.fastPeriod = fastPeriod
	m.slowPeriod = slowPeriod
	m.signalPeriod = signalPeriod

	return nil
}

// Compute implements Indicator.
func (m *MACD) Compute(series types.BarSeries) ([]Stream, error) {
	line, signal, diff := CalculateMACD(series.Closes(), m.fastPeriod, m.slowPeriod, m.signalPeriod)

	return []Stream{line, signal, diff}, nil
}

// CalculateMACD returns MACD = EMA(fast) - EMA(slow), signal = EMA(signalPeriod) of
// MACD and diff = MACD - signal. The three averages advance together in one loop.
func CalculateMACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (line, signal, diff Stream) {
	n := len(closes)
	line = NewStream(n)
	signal = NewStream(n)
	diff = NewStream(n)

	if n == 0 || fastPeriod <= 0 || slowPeriod <= 0 || signalPeriod <= 0 {
		return line, signal, diff
	}

	fastAlpha := emaAlpha(fastPeriod)
	slowAlpha := emaAlpha(slowPeriod)
	signalAlpha := emaAlpha(signalPeriod)

	fast := closes[0]
	slow := closes[0]
	sig := fast - slow

	for i, c := range closes {
		if i > 0 {
			fast = emaStep(fast, c, fastAlpha)
			slow = emaStep(slow, c, slowAlpha)
			sig = emaStep(sig, fast-slow, signalAlpha)
		}

		line[i] = fast - slow
		signal[i] = sig
		diff[i] = line[i] - sig
	}

	return line, signal, diff
}
