package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
)

// DataGenerator generates realistic OHLCV bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// StartTime is the timestamp of the first bar
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.002 = 0.2% per bar)
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:      time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          10000,
		InitialPrice:   100.0,
		Volatility:     0.002, // 0.2% per bar
		Trend:          0.0,   // neutral
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a bar series based on the configuration.
// Prices follow a geometric Brownian motion; high and low always bracket open and close.
func (g *DataGenerator) Generate(config GeneratorConfig) types.BarSeries {
	bars := make(types.BarSeries, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a standard normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count) // Distribute trend across bars

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99 // Prevent negative prices
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Timestamp: currentTime,
			Open:      roundToDecimals(open, 4),
			High:      roundToDecimals(high, 4),
			Low:       roundToDecimals(low, 4),
			Close:     roundToDecimals(close, 4),
			Volume:    roundToDecimals(volume, 2),
		}

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return bars
}

// GenerateDataset generates bars labelled with the next bar's direction (1 when the
// next close is higher) and sequential row ids. The last bar is labelled 0.
func (g *DataGenerator) GenerateDataset(config GeneratorConfig) types.Dataset {
	bars := g.Generate(config)
	labels := make([]int, len(bars))
	rowIDs := make([]int64, len(bars))

	for i := range bars {
		rowIDs[i] = int64(i)
		if i+1 < len(bars) && bars[i+1].Close > bars[i].Close {
			labels[i] = 1
		}
	}

	return types.Dataset{
		Bars:   bars,
		Labels: optional.Some(labels),
		RowIDs: optional.Some(rowIDs),
	}
}

// ConstantSeries returns count one-minute bars with identical OHLC and volume.
func ConstantSeries(count int, price, volume float64) types.BarSeries {
	bars := make(types.BarSeries, count)
	start := DefaultConfig().StartTime

	for i := range bars {
		bars[i] = types.Bar{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    volume,
		}
	}

	return bars
}

// LinearSeries returns count one-minute bars whose close rises by step each bar,
// with high and low one unit either side and a constant volume.
func LinearSeries(count int, start, step, volume float64) types.BarSeries {
	bars := make(types.BarSeries, count)
	startTime := DefaultConfig().StartTime

	for i := range bars {
		close := start + step*float64(i)
		bars[i] = types.Bar{
			Timestamp: startTime.Add(time.Duration(i) * time.Minute),
			Open:      close,
			High:      close + 1,
			Low:       close - 1,
			Close:     close,
			Volume:    volume,
		}
	}

	return bars
}

// Generate10K is a convenience function to generate 10,000 bars
// with default settings for benchmarking.
func Generate10K() types.BarSeries {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 10000

	return gen.Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
