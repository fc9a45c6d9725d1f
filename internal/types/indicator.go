package types

type IndicatorType string

const (
	IndicatorTypeRSI                  IndicatorType = "rsi"
	IndicatorTypeSMA                  IndicatorType = "sma"
	IndicatorTypeEMA                  IndicatorType = "ema"
	IndicatorTypeBollingerBands       IndicatorType = "bollinger_bands"
	IndicatorTypeMACD                 IndicatorType = "macd"
	IndicatorTypePivot                IndicatorType = "pivot"
	IndicatorTypeROC                  IndicatorType = "roc"
	IndicatorTypeOBV                  IndicatorType = "obv"
	IndicatorTypeStochasticOscillator IndicatorType = "stochastic_oscillator"
	IndicatorTypeATR                  IndicatorType = "atr"
	IndicatorTypeWilliamsR            IndicatorType = "williams_r"
	IndicatorTypeADI                  IndicatorType = "adi"
	IndicatorTypeCCI                  IndicatorType = "cci"
	IndicatorTypeVolume               IndicatorType = "volume"
	IndicatorTypeLag                  IndicatorType = "lag"
)
