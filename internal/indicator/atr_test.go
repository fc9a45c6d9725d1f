package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/stretchr/testify/suite"
)

type ATRTestSuite struct {
	suite.Suite
}

func TestATRSuite(t *testing.T) {
	suite.Run(t, new(ATRTestSuite))
}

func (suite *ATRTestSuite) TestNewATR() {
	atr := NewATR()
	suite.NotNil(atr)

	atrImpl := atr.(*ATR)
	suite.Equal(14, atrImpl.period)
	suite.Equal(types.IndicatorTypeATR, atr.Name())
	suite.Equal([]string{"atr"}, atr.Columns())
	suite.Equal(13, atr.Warmup())
}

func (suite *ATRTestSuite) TestConfig() {
	atr := NewATR()

	suite.NoError(atr.Config(3))
	suite.Equal(2, atr.Warmup())

	suite.Error(atr.Config())
	suite.Error(atr.Config("3"))
	suite.Error(atr.Config(0))
}

func (suite *ATRTestSuite) TestTrueRange() {
	series := referenceSeries()
	tr := TrueRange(series.Highs(), series.Lows(), series.Closes())

	expected := []float64{0.7, 0.8, 0.6, 0.8, 1.2, 0.7, 0.7, 1.0, 0.8, 0.7}
	for i, want := range expected {
		suite.InDelta(want, tr[i], tolerance, "index %d", i)
	}
}

func (suite *ATRTestSuite) TestReferenceValues() {
	atr := NewATR()
	suite.Require().NoError(atr.Config(3))

	streams, err := atr.Compute(referenceSeries())
	suite.Require().NoError(err)

	assertStream(&suite.Suite, []float64{
		nan, nan, 0.7, 0.733333333, 0.888888889, 0.825925926, 0.783950617, 0.855967078, 0.837311385, 0.791540924,
	}, streams[0])
}

func (suite *ATRTestSuite) TestShortSeries() {
	out := CalculateATR([]float64{2, 3}, []float64{1, 2}, []float64{1.5, 2.5}, 14)
	suite.Equal(-1, out.FirstDefined())
}
