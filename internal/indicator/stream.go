package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Stream is one indicator output aligned index-for-index with the bar series.
// Positions without enough history, or whose formula divides by zero, hold Undefined.
type Stream []float64

// Undefined returns the marker stored for a value that cannot be computed.
func Undefined() float64 {
	return math.NaN()
}

// IsUndefined reports whether v is the undefined marker.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// NewStream returns a stream of length n with every position undefined.
func NewStream(n int) Stream {
	s := make(Stream, n)
	for i := range s {
		s[i] = Undefined()
	}

	return s
}

// Defined reports whether position i holds a value.
func (s Stream) Defined(i int) bool {
	return i >= 0 && i < len(s) && !IsUndefined(s[i])
}

// At returns the value at position i, or None when it is undefined.
func (s Stream) At(i int) optional.Option[float64] {
	if !s.Defined(i) {
		return optional.None[float64]()
	}

	return optional.Some(s[i])
}

// FirstDefined returns the first defined position, or -1.
func (s Stream) FirstDefined() int {
	for i, v := range s {
		if !IsUndefined(v) {
			return i
		}
	}

	return -1
}

// HasInf reports whether any position holds an infinity.
func (s Stream) HasInf() bool {
	for _, v := range s {
		if math.IsInf(v, 0) {
			return true
		}
	}

	return false
}

// div returns num/den, or Undefined when den is zero or the quotient is not finite.
func div(num, den float64) float64 {
	if den == 0 || IsUndefined(num) || IsUndefined(den) {
		return Undefined()
	}

	q := num / den
	if math.IsInf(q, 0) || math.IsNaN(q) {
		return Undefined()
	}

	return q
}
