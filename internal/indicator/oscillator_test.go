package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/mocks"
	"github.com/stretchr/testify/suite"
)

type OscillatorTestSuite struct {
	suite.Suite
}

func TestOscillatorSuite(t *testing.T) {
	suite.Run(t, new(OscillatorTestSuite))
}

func (suite *OscillatorTestSuite) TestDefaults() {
	stoch := NewStochasticOscillator()
	suite.Equal(types.IndicatorTypeStochasticOscillator, stoch.Name())
	suite.Equal([]string{"stoch_k"}, stoch.Columns())
	suite.Equal(13, stoch.Warmup())

	wr := NewWilliamsR()
	suite.Equal(types.IndicatorTypeWilliamsR, wr.Name())
	suite.Equal([]string{"williams_r"}, wr.Columns())
	suite.Equal(13, wr.Warmup())

	cci := NewCCI()
	suite.Equal(types.IndicatorTypeCCI, cci.Name())
	suite.Equal([]string{"cci"}, cci.Columns())
	suite.Equal(19, cci.Warmup())

	roc := NewROC()
	suite.Equal(types.IndicatorTypeROC, roc.Name())
	suite.Equal([]string{"roc"}, roc.Columns())
	suite.Equal(10, roc.Warmup())
}

func (suite *OscillatorTestSuite) TestStochasticReferenceValues() {
	stoch := NewStochasticOscillator()
	suite.Require().NoError(stoch.Config(3))

	streams, err := stoch.Compute(referenceSeries())
	suite.Require().NoError(err)

	assertStream(&suite.Suite, []float64{
		nan, nan, 78.571428571, 27.272727273, 93.333333333, 84.210526316, 50, 92.307692308, 77.777777778, 25,
	}, streams[0])
}

func (suite *OscillatorTestSuite) TestWilliamsRReferenceValues() {
	wr := NewWilliamsR()
	suite.Require().NoError(wr.Config(3))

	streams, err := wr.Compute(referenceSeries())
	suite.Require().NoError(err)

	assertStream(&suite.Suite, []float64{
		nan, nan, -21.428571429, -72.727272727, -6.666666667, -15.789473684, -50, -7.692307692, -22.222222222, -75,
	}, streams[0])
}

func (suite *OscillatorTestSuite) TestStochasticAndWilliamsAreComplementary() {
	bars := mocks.NewDataGenerator(21).Generate(func() mocks.GeneratorConfig {
		config := mocks.DefaultConfig()
		config.Count = 200

		return config
	}())

	k := CalculateStochasticK(bars.Highs(), bars.Lows(), bars.Closes(), 14)
	r := CalculateWilliamsR(bars.Highs(), bars.Lows(), bars.Closes(), 14)

	for i := range k {
		if !k.Defined(i) {
			suite.False(r.Defined(i))

			continue
		}

		suite.GreaterOrEqual(k[i], 0.0)
		suite.LessOrEqual(k[i], 100.0)
		suite.InDelta(k[i]-100, r[i], 1e-9)
	}
}

func (suite *OscillatorTestSuite) TestFlatRangeIsUndefined() {
	bars := mocks.ConstantSeries(20, 100, 1000)

	k := CalculateStochasticK(bars.Highs(), bars.Lows(), bars.Closes(), 14)
	r := CalculateWilliamsR(bars.Highs(), bars.Lows(), bars.Closes(), 14)

	suite.Equal(-1, k.FirstDefined())
	suite.Equal(-1, r.FirstDefined())
}

func (suite *OscillatorTestSuite) TestCCIReferenceValues() {
	cci := NewCCI()
	suite.Require().NoError(cci.Config(3, 0.015))

	streams, err := cci.Compute(referenceSeries())
	suite.Require().NoError(err)

	assertStream(&suite.Suite, []float64{
		nan, nan, 78.378378378, -95, 97.368421053, 77.049180328, -16.666666667, 100, 81.132075472, -42.857142857,
	}, streams[0])
}

func (suite *OscillatorTestSuite) TestCCIConfig() {
	cci := NewCCI()

	err := cci.Config(20, 1)
	suite.Error(err)
	suite.Contains(err.Error(), "invalid type for constant")

	err = cci.Config(20, 0.0)
	suite.Error(err)
	suite.Contains(err.Error(), "constant must be a positive number")
}

func (suite *OscillatorTestSuite) TestCCIConstantSeriesIsUndefined() {
	for _, tt := range flatPrices {
		suite.Run(tt.name, func() {
			streams, err := NewCCI().Compute(seriesFromCloses(constantCloses(flatBars, tt.price)))
			suite.Require().NoError(err)
			suite.Equal(-1, streams[0].FirstDefined())
		})
	}
}

func (suite *OscillatorTestSuite) TestCCIRoundingLevelDeviationIsUndefined() {
	tp := constantCloses(flatBars, 100.37)
	for i := 1; i < len(tp); i += 2 {
		tp[i] = math.Nextafter(tp[i], math.Inf(1))
	}

	suite.Equal(-1, CalculateCCI(tp, 20, 0.015).FirstDefined())
}

func (suite *OscillatorTestSuite) TestROCReferenceValues() {
	roc := NewROC()
	suite.Require().NoError(roc.Config(2))

	streams, err := roc.Compute(referenceSeries())
	suite.Require().NoError(err)

	assertStream(&suite.Suite, []float64{
		nan, nan, 6.862745098, -3.703703704, 5.504587156, 12.5, -0.869565217, 5.128205128, 9.649122807, -2.43902439,
	}, streams[0])
}

func (suite *OscillatorTestSuite) TestROCFirstDefinedAtPeriod() {
	out := CalculateROC(mocks.LinearSeries(30, 100, 1, 1000).Closes(), 10)

	suite.Equal(10, out.FirstDefined())
	suite.InDelta(10.0, out[10], tolerance)
}
