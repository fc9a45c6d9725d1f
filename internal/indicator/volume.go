package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// Volume produces the short and long volume averages and the relative volume
// (current volume over the long average).
type Volume struct {
	shortPeriod int
	longPeriod  int
}

// NewVolume creates a new volume indicator with default configuration.
func NewVolume() Indicator {
	return &Volume{
		shortPeriod: 10, // Default short period
		longPeriod:  30, // Default long period
	}
}

// Name returns the name of the indicator.
func (v *Volume) Name() types.IndicatorType {
	return types.IndicatorTypeVolume
}

// Columns implements Indicator.
func (v *Volume) Columns() []string {
	return []string{
		fmt.Sprintf("vol_sma_%d", v.shortPeriod),
		fmt.Sprintf("vol_sma_%d", v.longPeriod),
		"rel_vol",
	}
}

// Warmup implements Indicator.
func (v *Volume) Warmup() int {
	return v.longPeriod - 1
}

// Config configures the indicator. Expected parameters: shortPeriod (int), longPeriod (int).
func (v *Volume) Config(params ...any) error {
	if err := expectParams(params, 2, "shortPeriod (int), longPeriod (int)"); err != nil {
		return err
	}

	shortPeriod, err := periodParam(params, 0, "shortPeriod")
	if err != nil {
		return err
	}

	longPeriod, err := periodParam(params, 1, "longPeriod")
	if err != nil {
		return err
	}

	if shortPeriod >= longPeriod {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "shortPeriod (%d) must be smaller than longPeriod (%d)", shortPeriod, longPeriod)
	}

	v.shortPeriod = shortPeriod
	v.longPeriod = longPeriod

	return nil
}

// Compute implements Indicator.
func (v *Volume) Compute(series types.BarSeries) ([]Stream, error) {
	volumes := series.Volumes()
	short := rollingMean(volumes, v.shortPeriod)
	long := rollingMean(volumes, v.longPeriod)

	return []Stream{short, long, CalculateRelativeVolume(volumes, long)}, nil
}

// CalculateRelativeVolume divides each volume by its average. A zero average is undefined.
func CalculateRelativeVolume(volumes []float64, average Stream) Stream {
	out := NewStream(len(volumes))
	for i, vol := range volumes {
		if !average.Defined(i) {
			continue
		}

		out[i] = div(vol, average[i])
	}

	return out
}
