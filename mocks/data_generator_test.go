package mocks

import (
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	bars := gen.Generate(config)

	if len(bars) != 100 {
		t.Errorf("expected 100 bars, got %d", len(bars))
	}

	// Verify bars are in chronological order
	for i := 1; i < len(bars); i++ {
		if !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			t.Errorf("bars not in chronological order at index %d", i)
		}
	}

	// Verify OHLC values are positive
	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f",
				i, b.Open, b.High, b.Low, b.Close)
		}
	}

	// Verify the range brackets open and close
	for i, b := range bars {
		if b.High < b.Low || b.Open > b.High || b.Open < b.Low || b.Close > b.High || b.Close < b.Low {
			t.Errorf("range does not bracket open/close at index %d: O=%f H=%f L=%f C=%f",
				i, b.Open, b.High, b.Low, b.Close)
		}
	}

	// Verify time intervals
	expectedInterval := config.Interval
	for i := 1; i < len(bars); i++ {
		actualInterval := bars[i].Timestamp.Sub(bars[i-1].Timestamp)
		if actualInterval != expectedInterval {
			t.Errorf("unexpected interval at index %d: expected %v, got %v",
				i, expectedInterval, actualInterval)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	// Same seed should produce same results
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(42)

	config := DefaultConfig()
	config.Count = 10

	bars1 := gen1.Generate(config)
	bars2 := gen2.Generate(config)

	for i := range bars1 {
		if bars1[i].Close != bars2[i].Close {
			t.Errorf("bars not reproducible at index %d: got %f and %f",
				i, bars1[i].Close, bars2[i].Close)
		}
	}
}

func TestDataGenerator_Different_Seeds(t *testing.T) {
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(123)

	config := DefaultConfig()
	config.Count = 10

	bars1 := gen1.Generate(config)
	bars2 := gen2.Generate(config)

	// Different seeds should produce different results
	sameCount := 0
	for i := range bars1 {
		if bars1[i].Close == bars2[i].Close {
			sameCount++
		}
	}

	if sameCount == len(bars1) {
		t.Error("different seeds produced identical bars")
	}
}

func TestDataGenerator_GenerateDataset(t *testing.T) {
	gen := NewDataGenerator(7)
	config := DefaultConfig()
	config.Count = 50

	dataset := gen.GenerateDataset(config)

	labels := dataset.Labels.Unwrap()
	rowIDs := dataset.RowIDs.Unwrap()

	if len(labels) != 50 || len(rowIDs) != 50 {
		t.Fatalf("expected 50 labels and row ids, got %d and %d", len(labels), len(rowIDs))
	}

	for i := 0; i < len(labels)-1; i++ {
		up := dataset.Bars[i+1].Close > dataset.Bars[i].Close
		if (labels[i] == 1) != up {
			t.Errorf("label at index %d does not match next close direction", i)
		}

		if rowIDs[i] != int64(i) {
			t.Errorf("expected row id %d, got %d", i, rowIDs[i])
		}
	}

	if labels[len(labels)-1] != 0 {
		t.Error("expected last label to be 0")
	}
}

func TestConstantAndLinearSeries(t *testing.T) {
	constant := ConstantSeries(5, 100, 1000)
	for i, b := range constant {
		if b.Open != 100 || b.High != 100 || b.Low != 100 || b.Close != 100 || b.Volume != 1000 {
			t.Errorf("unexpected constant bar at index %d: %+v", i, b)
		}
	}

	linear := LinearSeries(5, 100, 1, 1000)
	for i, b := range linear {
		if b.Close != 100+float64(i) {
			t.Errorf("unexpected close at index %d: %f", i, b.Close)
		}

		if b.High-b.Low != 2 {
			t.Errorf("unexpected range at index %d", i)
		}
	}
}

func TestGenerate10K(t *testing.T) {
	bars := Generate10K()

	if len(bars) != 10000 {
		t.Errorf("expected 10000 bars, got %d", len(bars))
	}

	// Verify chronological order
	for i := 1; i < 100; i++ { // Check first 100 for speed
		if !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			t.Errorf("bars not in chronological order at index %d", i)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Count != 10000 {
		t.Errorf("expected default count 10000, got %d", config.Count)
	}

	if config.Interval != time.Minute {
		t.Errorf("expected default interval 1m, got %v", config.Interval)
	}

	if config.InitialPrice != 100.0 {
		t.Errorf("expected default initial price 100.0, got %f", config.InitialPrice)
	}
}
