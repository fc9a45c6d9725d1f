package types

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

var validate = validator.New()

// Bar is one OHLCV record of a one-minute series.
type Bar struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Open      float64   `yaml:"open" json:"open" validate:"gt=0"`
	High      float64   `yaml:"high" json:"high" validate:"gt=0"`
	Low       float64   `yaml:"low" json:"low" validate:"gt=0"`
	Close     float64   `yaml:"close" json:"close" validate:"gt=0"`
	Volume    float64   `yaml:"volume" json:"volume" validate:"gte=0"`
}

// Validate checks that every value is finite, prices are positive, volume is not
// negative and the high/low range brackets open and close.
func (b Bar) Validate() error {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeMalformedBar, "non-finite value in bar at %s", b.Timestamp.UTC().Format(time.RFC3339))
		}
	}

	if err := validate.Struct(b); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedBar, "invalid bar", err)
	}

	if b.High < b.Low {
		return errors.Newf(errors.ErrCodeMalformedBar, "high %f below low %f", b.High, b.Low)
	}

	if b.Open > b.High || b.Open < b.Low || b.Close > b.High || b.Close < b.Low {
		return errors.Newf(errors.ErrCodeMalformedBar, "open %f or close %f outside range [%f, %f]", b.Open, b.Close, b.Low, b.High)
	}

	return nil
}

// BarSeries is an ordered, gap-free sequence of bars. It is never mutated after loading.
type BarSeries []Bar

// Len returns the number of bars.
func (s BarSeries) Len() int {
	return len(s)
}

// Opens returns the open prices.
func (s BarSeries) Opens() []float64 {
	return s.field(func(b Bar) float64 { return b.Open })
}

// Highs returns the high prices.
func (s BarSeries) Highs() []float64 {
	return s.field(func(b Bar) float64 { return b.High })
}

// Lows returns the low prices.
func (s BarSeries) Lows() []float64 {
	return s.field(func(b Bar) float64 { return b.Low })
}

// Closes returns the close prices.
func (s BarSeries) Closes() []float64 {
	return s.field(func(b Bar) float64 { return b.Close })
}

// Volumes returns the volumes.
func (s BarSeries) Volumes() []float64 {
	return s.field(func(b Bar) float64 { return b.Volume })
}

// BarInterval is the sampling interval every series is expected to keep.
const BarInterval = time.Minute

// Validate checks every bar and that timestamps advance by exactly BarInterval,
// so the series is ordered and gap-free. The first offending bar fails the whole series.
func (s BarSeries) Validate() error {
	for i, b := range s {
		if err := b.Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeMalformedBar, err, "bar %d", i)
		}

		if i > 0 && !b.Timestamp.After(s[i-1].Timestamp) {
			return errors.Newf(errors.ErrCodeMalformedBar, "bar %d: timestamp %s is not after %s",
				i, b.Timestamp.UTC().Format(time.RFC3339), s[i-1].Timestamp.UTC().Format(time.RFC3339))
		}

		if i > 0 && b.Timestamp.Sub(s[i-1].Timestamp) != BarInterval {
			return errors.Newf(errors.ErrCodeMalformedBar, "bar %d: gap of %s after %s, expected %s",
				i, b.Timestamp.Sub(s[i-1].Timestamp), s[i-1].Timestamp.UTC().Format(time.RFC3339), BarInterval)
		}
	}

	return nil
}

func (s BarSeries) field(get func(Bar) float64) []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = get(b)
	}

	return out
}

// Dataset is a loaded input file: the bars plus the optional per-bar columns
// that only exist for training (labels) or inference (row ids).
type Dataset struct {
	Bars   BarSeries
	Labels optional.Option[[]int]
	RowIDs optional.Option[[]int64]
}
