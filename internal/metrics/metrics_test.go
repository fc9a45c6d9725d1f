package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
	metrics *Metrics
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.metrics = NewMetrics()
}

func (suite *MetricsTestSuite) TestObserveRows() {
	suite.metrics.ObserveRows("train", types.RowCounts{Bars: 40, Kept: 11, Dropped: 29})
	suite.metrics.ObserveRows("train", types.RowCounts{Bars: 10, Kept: 1, Dropped: 9})

	suite.Equal(50.0, testutil.ToFloat64(suite.metrics.BarsTotal.WithLabelValues("train")))
	suite.Equal(12.0, testutil.ToFloat64(suite.metrics.RowsTotal.WithLabelValues("train", OutcomeKept)))
	suite.Equal(38.0, testutil.ToFloat64(suite.metrics.RowsTotal.WithLabelValues("train", OutcomeDropped)))
	suite.Equal(0.0, testutil.ToFloat64(suite.metrics.RowsTotal.WithLabelValues("train", OutcomeSkipped)))
}

func (suite *MetricsTestSuite) TestObserveRun() {
	suite.metrics.ObserveRun("predict", nil)
	suite.metrics.ObserveRun("predict", errors.New("boom"))
	suite.metrics.ObserveRun("predict", nil)

	suite.Equal(2.0, testutil.ToFloat64(suite.metrics.RunsTotal.WithLabelValues("predict", "ok")))
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.RunsTotal.WithLabelValues("predict", "failed")))
}

func (suite *MetricsTestSuite) TestObserveDurations() {
	suite.metrics.ObserveIndicator("rsi", 2*time.Millisecond)
	suite.metrics.ObserveStage("load", time.Second)

	suite.Equal(1, testutil.CollectAndCount(suite.metrics.IndicatorDuration))
	suite.Equal(1, testutil.CollectAndCount(suite.metrics.StageDuration))
}

func (suite *MetricsTestSuite) TestWriteToTextfile() {
	suite.metrics.ObserveRows("predict", types.RowCounts{Bars: 5, Kept: 5, Imputed: 2})

	path := filepath.Join(suite.T().TempDir(), "features.prom")
	suite.Require().NoError(suite.metrics.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(data), `features_rows_total{mode="predict",outcome="imputed"} 2`)
	suite.Contains(string(data), `features_bars_total{mode="predict"} 5`)
}

func (suite *MetricsTestSuite) TestNilMetricsIsNoop() {
	var m *Metrics

	suite.NotPanics(func() {
		m.ObserveRows("train", types.RowCounts{Bars: 1})
		m.ObserveIndicator("rsi", time.Millisecond)
		m.ObserveStage("load", time.Millisecond)
		m.ObserveRun("train", nil)
	})
	suite.Nil(m.Registry())
	suite.NoError(m.WriteToTextfile(filepath.Join(suite.T().TempDir(), "x.prom")))
}
