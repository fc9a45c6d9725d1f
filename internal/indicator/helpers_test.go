package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/stretchr/testify/suite"
)

const tolerance = 1e-6

// referenceSeries is a ten-bar fixture with hand-checked indicator values.
func referenceSeries() types.BarSeries {
	highs := []float64{10.5, 11.0, 11.2, 10.9, 11.6, 12.0, 11.8, 12.4, 12.9, 12.6}
	lows := []float64{9.8, 10.2, 10.6, 10.1, 10.8, 11.3, 11.1, 11.7, 12.1, 11.9}
	closes := []float64{10.2, 10.8, 10.9, 10.4, 11.5, 11.7, 11.4, 12.3, 12.5, 12.0}
	volumes := []float64{1000, 1200, 900, 1500, 1300, 1100, 1000, 1700, 1600, 1400}

	series := make(types.BarSeries, len(closes))
	start := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	for i := range closes {
		series[i] = types.Bar{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      closes[i],
			High:      highs[i],
			Low:       lows[i],
			Close:     closes[i],
			Volume:    volumes[i],
		}
	}

	return series
}

// seriesFromCloses builds bars whose open, high and low equal the close.
func seriesFromCloses(closes []float64) types.BarSeries {
	series := make(types.BarSeries, len(closes))
	start := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	for i, c := range closes {
		series[i] = types.Bar{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}

	return series
}

// flatPrice is a constant level used by the flat-series cases. Most have no exact
// binary representation.
type flatPrice struct {
	name  string
	price float64
}

var flatPrices = []flatPrice{
	{name: "100.37", price: 100.37},
	{name: "0.1", price: 0.1},
	{name: "123.45", price: 123.45},
	{name: "100", price: 100},
}

// flatBars is long enough for every default window to slide many times.
const flatBars = 200

// constantCloses repeats price count times.
func constantCloses(count int, price float64) []float64 {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = price
	}

	return closes
}

// assertStream compares a stream with expected values; NaN in expected means undefined.
func assertStream(s *suite.Suite, expected []float64, actual Stream) {
	s.Require().Len(actual, len(expected))

	for i, want := range expected {
		if math.IsNaN(want) {
			s.True(IsUndefined(actual[i]), "expected undefined at index %d, got %f", i, actual[i])

			continue
		}

		s.InDelta(want, actual[i], tolerance, "index %d", i)
	}
}

// nan is shorthand for an undefined expectation.
var nan = math.NaN()
