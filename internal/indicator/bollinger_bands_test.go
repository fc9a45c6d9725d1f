package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/mocks"
	"github.com/stretchr/testify/suite"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestNewBollingerBands() {
	bb := NewBollingerBands()
	suite.NotNil(bb)

	bbImpl := bb.(*BollingerBands)
	suite.Equal(20, bbImpl.period)
	suite.Equal(2.0, bbImpl.stdDev)
	suite.Equal(types.IndicatorTypeBollingerBands, bb.Name())
	suite.Equal([]string{"bb_mid", "bb_upper", "bb_lower"}, bb.Columns())
	suite.Equal(19, bb.Warmup())
}

func (suite *BollingerBandsTestSuite) TestConfig() {
	bb := NewBollingerBands()

	suite.NoError(bb.Config(10, 1.5))
	suite.Equal(9, bb.Warmup())

	err := bb.Config(10, 2)
	suite.Error(err)
	suite.Contains(err.Error(), "invalid type for stdDev")

	err = bb.Config(10, -1.0)
	suite.Error(err)
	suite.Contains(err.Error(), "stdDev must be a positive number")

	err = bb.Config(10)
	suite.Error(err)
	suite.Contains(err.Error(), "expects 2 parameter")
}

func (suite *BollingerBandsTestSuite) TestReferenceValues() {
	bb := NewBollingerBands()
	suite.Require().NoError(bb.Config(3, 2.0))

	streams, err := bb.Compute(referenceSeries())
	suite.Require().NoError(err)
	suite.Require().Len(streams, 3)

	assertStream(&suite.Suite, []float64{
		nan, nan, 10.633333333, 10.7, 10.933333333, 11.2, 11.533333333, 11.8, 12.066666667, 12.266666667,
	}, streams[0])

	suite.InDelta(11.251574566, streams[1][2], tolerance)
	suite.InDelta(10.015092100, streams[2][2], tolerance)
	suite.InDelta(12.677627600, streams[1][9], tolerance)
	suite.InDelta(11.855705733, streams[2][9], tolerance)
}

func (suite *BollingerBandsTestSuite) TestBandsAreSymmetric() {
	bars := mocks.NewDataGenerator(11).Generate(func() mocks.GeneratorConfig {
		config := mocks.DefaultConfig()
		config.Count = 200

		return config
	}())

	mid, upper, lower := CalculateBollingerBands(bars.Closes(), 20, 2)
	suite.Equal(19, mid.FirstDefined())

	for i := 19; i < len(mid); i++ {
		suite.GreaterOrEqual(upper[i], mid[i])
		suite.LessOrEqual(lower[i], mid[i])
		suite.InDelta(upper[i]-mid[i], mid[i]-lower[i], 1e-9)
	}
}

func (suite *BollingerBandsTestSuite) TestConstantSeriesCollapses() {
	for _, tt := range flatPrices {
		suite.Run(tt.name, func() {
			mid, upper, lower := CalculateBollingerBands(constantCloses(flatBars, tt.price), 20, 2)
			suite.Equal(19, mid.FirstDefined())

			for i := 19; i < flatBars; i++ {
				suite.Equal(tt.price, mid[i], "mid at %d", i)
				suite.Equal(tt.price, upper[i], "upper at %d", i)
				suite.Equal(tt.price, lower[i], "lower at %d", i)
			}
		})
	}
}

func (suite *BollingerBandsTestSuite) TestFlatStretchAfterTrendCollapses() {
	closes := append(mocks.LinearSeries(100, 50.13, 0.37, 1000).Closes(), constantCloses(100, 88.81)...)

	mid, upper, lower := CalculateBollingerBands(closes, 20, 2)
	for i := 119; i < len(closes); i++ {
		suite.Equal(88.81, mid[i], "mid at %d", i)
		suite.Equal(88.81, upper[i], "upper at %d", i)
		suite.Equal(88.81, lower[i], "lower at %d", i)
	}
}
