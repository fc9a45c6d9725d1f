package indicator

// DefaultIndicators returns the indicator set behind the default feature contract,
// in contract order.
func DefaultIndicators() []Indicator {
	return []Indicator{
		NewRSI(),
		NewSMA(10),
		NewSMA(30),
		NewEMA(10),
		NewEMA(30),
		NewBollingerBands(),
		NewMACD(),
		NewPivot(),
		NewROC(),
		NewOBV(),
		NewStochasticOscillator(),
		NewATR(),
		NewWilliamsR(),
		NewADI(),
		NewCCI(),
		NewVolume(),
		NewLag(),
	}
}

// NewDefaultRegistry returns a registry holding DefaultIndicators.
func NewDefaultRegistry() (IndicatorRegistry, error) {
	registry := NewIndicatorRegistry()
	for _, indicator := range DefaultIndicators() {
		if err := registry.RegisterIndicator(indicator); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
