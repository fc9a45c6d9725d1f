package indicator

import "math"

// Rolling helpers. All run in a single pass over finite inputs and write Undefined
// until the window is full.

// rollingMean returns the trailing arithmetic mean over period values.
func rollingMean(values []float64, period int) Stream {
	mean, _ := rollingMoments(values, period)

	return mean
}

// rollingMoments returns the trailing mean and population standard deviation.
// Sums are kept relative to an anchor value and rebuilt from scratch every period
// steps, so rounding error cannot accumulate along the series and the variance is
// taken over small deviations. A window whose max equals its min has exactly its
// value as mean and zero deviation.
func rollingMoments(values []float64, period int) (mean, std Stream) {
	mean = NewStream(len(values))
	std = NewStream(len(values))

	if period <= 0 {
		return mean, std
	}

	hi := rollingMax(values, period)
	lo := rollingMin(values, period)

	var anchor, sum, sumSq float64

	for i, v := range values {
		if i%period == 0 {
			anchor = v
			sum, sumSq = 0, 0

			for j := max(0, i-period+1); j <= i; j++ {
				d := values[j] - anchor
				sum += d
				sumSq += d * d
			}
		} else {
			d := v - anchor
			sum += d
			sumSq += d * d

			if i >= period {
				old := values[i-period] - anchor
				sum -= old
				sumSq -= old * old
			}
		}

		if i < period-1 {
			continue
		}

		if hi[i] == lo[i] {
			mean[i] = v
			std[i] = 0

			continue
		}

		m := sum / float64(period)

		variance := sumSq/float64(period) - m*m
		if variance < 0 {
			variance = 0
		}

		mean[i] = anchor + m
		std[i] = math.Sqrt(variance)
	}

	return mean, std
}

// rollingExtreme returns the trailing max (or min) over period values using a
// monotonic deque of indices.
func rollingExtreme(values []float64, period int, max bool) Stream {
	out := NewStream(len(values))
	if period <= 0 {
		return out
	}

	better := func(a, b float64) bool {
		if max {
			return a >= b
		}

		return a <= b
	}

	deque := make([]int, 0, period)

	for i, v := range values {
		for len(deque) > 0 && better(v, values[deque[len(deque)-1]]) {
			deque = deque[:len(deque)-1]
		}

		deque = append(deque, i)

		if deque[0] <= i-period {
			deque = deque[1:]
		}

		if i >= period-1 {
			out[i] = values[deque[0]]
		}
	}

	return out
}

// rollingMax returns the trailing maximum.
func rollingMax(values []float64, period int) Stream {
	return rollingExtreme(values, period, true)
}

// rollingMin returns the trailing minimum.
func rollingMin(values []float64, period int) Stream {
	return rollingExtreme(values, period, false)
}

// emaStep applies one exponential smoothing step with factor alpha. An unchanged
// value leaves prev untouched.
func emaStep(prev, value, alpha float64) float64 {
	return prev + alpha*(value-prev)
}

// emaAlpha returns the smoothing factor 2/(span+1).
func emaAlpha(span int) float64 {
	return 2.0 / float64(span+1)
}

// wilderStep applies one step of Wilder's smoothing over period.
func wilderStep(prev, value float64, period int) float64 {
	return prev + (value-prev)/float64(period)
}
