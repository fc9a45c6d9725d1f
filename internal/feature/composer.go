package feature

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-features/internal/indicator"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/metrics"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Composer turns a bar series into a contract-ordered feature table.
type Composer struct {
	registry indicator.IndicatorRegistry
	contract Contract
	logger   *logger.Logger
	metrics  *metrics.Metrics
	parallel bool
}

// Result is the output of one Compose call.
type Result struct {
	Table  *types.FeatureTable
	Counts types.RowCounts
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logger.Logger) ComposerOption {
	return func(c *Composer) {
		c.logger = l
	}
}

// WithMetrics records indicator timings on m.
func WithMetrics(m *metrics.Metrics) ComposerOption {
	return func(c *Composer) {
		c.metrics = m
	}
}

// WithParallelIndicators computes indicators concurrently. Every indicator writes
// its own result slot, so the output is identical to the sequential path.
func WithParallelIndicators(parallel bool) ComposerOption {
	return func(c *Composer) {
		c.parallel = parallel
	}
}

// NewComposer creates a composer. The registry must produce exactly the contract
// columns in contract order.
func NewComposer(registry indicator.IndicatorRegistry, contract Contract, opts ...ComposerOption) (*Composer, error) {
	if err := contract.ValidateColumns(registry.Columns()); err != nil {
		return nil, errors.NewPipelineError(errors.StageSchemaCheck, err)
	}

	c := &Composer{
		registry: registry,
		contract: contract,
		logger:   logger.NewNopLogger(),
		metrics:  nil,
		parallel: false,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewDefaultComposer creates a composer over the default indicators and contract.
func NewDefaultComposer(opts ...ComposerOption) (*Composer, error) {
	registry, err := indicator.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}

	return NewComposer(registry, DefaultContract(), opts...)
}

// Contract returns the contract the composer produces.
func (c *Composer) Contract() Contract {
	return c.contract
}

// Warmup returns the number of leading bars that can never form a complete row.
func (c *Composer) Warmup() int {
	return indicator.MaxWarmup(c.registry.ListIndicators())
}

// Streams computes every indicator once and returns one stream per contract column.
func (c *Composer) Streams(ctx context.Context, series types.BarSeries) ([]indicator.Stream, error) {
	indicators := c.registry.ListIndicators()
	results := make([][]indicator.Stream, len(indicators))

	compute := func(i int) error {
		ind := indicators[i]
		start := time.Now()

		streams, err := ind.Compute(series)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "failed to compute %s", ind.Name())
		}

		if err := checkStreams(ind, streams, series.Len()); err != nil {
			return err
		}

		elapsed := time.Since(start)
		c.metrics.ObserveIndicator(string(ind.Name()), elapsed)
		c.logger.Debug("Computed indicator",
			zap.String("indicator", string(ind.Name())),
			zap.Strings("columns", ind.Columns()),
			zap.Duration("elapsed", elapsed),
		)

		results[i] = streams

		return nil
	}

	if c.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range indicators {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				return compute(i)
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range indicators {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if err := compute(i); err != nil {
				return nil, err
			}
		}
	}

	columns := make([]indicator.Stream, 0, c.contract.Width())
	for _, streams := range results {
		columns = append(columns, streams...)
	}

	return columns, nil
}

// Compose builds the feature table for a dataset and applies the row policy.
// A series shorter than the warm-up is not an error: it is logged and produces
// no complete rows.
func (c *Composer) Compose(ctx context.Context, dataset types.Dataset, policy RowPolicy) (*Result, error) {
	series := dataset.Bars
	n := series.Len()

	if _, err := ParseRowPolicy(string(policy)); err != nil {
		return nil, err
	}

	if err := checkDatasetColumns(dataset); err != nil {
		return nil, err
	}

	if warmup := c.Warmup(); n <= warmup {
		c.logger.Warn("Series shorter than indicator warm-up, no complete rows possible",
			zap.Error(errors.NewInsufficientHistoryError(warmup+1, n)),
		)
	}

	streams, err := c.Streams(ctx, series)
	if err != nil {
		return nil, errors.NewPipelineError(errors.StageIndicatorComputation, err)
	}

	candidates := assemble(streams, n)

	table := &types.FeatureTable{
		Columns:    append([]string(nil), c.contract.Names...),
		Rows:       make([][]float64, 0, n),
		Index:      make([]int, 0, n),
		Timestamps: make([]time.Time, 0, n),
	}

	hasLabels := dataset.Labels.IsSome()
	labels := dataset.Labels.Unwrap()

	if hasLabels {
		table.Labels = make([]int, 0, n)
	}

	hasRowIDs := dataset.RowIDs.IsSome()
	rowIDs := dataset.RowIDs.Unwrap()

	if hasRowIDs {
		table.RowIDs = make([]int64, 0, n)
	}

	keep := func(i int, row []float64) {
		table.Rows = append(table.Rows, row)
		table.Index = append(table.Index, i)
		table.Timestamps = append(table.Timestamps, series[i].Timestamp)

		if hasLabels {
			table.Labels = append(table.Labels, labels[i])
		}

		if hasRowIDs {
			table.RowIDs = append(table.RowIDs, rowIDs[i])
		}
	}

	counts := types.RowCounts{Bars: n}

	switch policy {
	case RowPolicyDropIncomplete:
		for i, row := range candidates {
			if !RowComplete(row) {
				counts.Dropped++

				continue
			}

			keep(i, row)
		}
	case RowPolicyImputeColumnMean:
		means := ColumnMeans(candidates, c.contract.Width())

		for i, row := range candidates {
			if RowComplete(row) {
				keep(i, row)

				continue
			}

			imputed, filled, err := ImputeRow(row, means, c.contract.Names)
			if err != nil {
				counts.Skipped++

				c.logger.Debug("Skipping row",
					zap.Int("index", i),
					zap.Time("timestamp", series[i].Timestamp),
					zap.Error(err),
				)

				continue
			}

			if filled > 0 {
				counts.Imputed++
			}

			keep(i, imputed)
		}
	}

	counts.Kept = table.Len()

	if err := c.contract.ValidateTable(table); err != nil {
		return nil, errors.NewPipelineError(errors.StageSchemaCheck, err)
	}

	if counts.Skipped > 0 {
		c.logger.Warn("Rows skipped, imputation impossible",
			zap.Int("skipped", counts.Skipped),
			zap.Int("bars", n),
		)
	}

	c.logger.Info("Composed feature table",
		zap.String("policy", string(policy)),
		zap.Int("bars", counts.Bars),
		zap.Int("kept", counts.Kept),
		zap.Int("dropped", counts.Dropped),
		zap.Int("imputed", counts.Imputed),
		zap.Int("skipped", counts.Skipped),
	)

	return &Result{Table: table, Counts: counts}, nil
}

// assemble lays the streams out as rows in column order.
func assemble(streams []indicator.Stream, n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, len(streams))
		for j, stream := range streams {
			row[j] = stream[i]
		}

		rows[i] = row
	}

	return rows
}

func checkStreams(ind indicator.Indicator, streams []indicator.Stream, n int) error {
	if len(streams) != len(ind.Columns()) {
		return errors.Newf(errors.ErrCodeStreamLengthMismatch,
			"%s returned %d streams for %d columns", ind.Name(), len(streams), len(ind.Columns()))
	}

	for j, stream := range streams {
		if len(stream) != n {
			return errors.Newf(errors.ErrCodeStreamLengthMismatch,
				"%s column %s has %d values for %d bars", ind.Name(), ind.Columns()[j], len(stream), n)
		}

		if stream.HasInf() {
			return errors.Newf(errors.ErrCodeIndicatorCalculation,
				"%s column %s produced an infinite value", ind.Name(), ind.Columns()[j])
		}
	}

	return nil
}

func checkDatasetColumns(dataset types.Dataset) error {
	n := dataset.Bars.Len()

	if dataset.Labels.IsSome() && len(dataset.Labels.Unwrap()) != n {
		return errors.Newf(errors.ErrCodeInvalidLabel, "dataset has %d bars but %d labels", n, len(dataset.Labels.Unwrap()))
	}

	if dataset.RowIDs.IsSome() && len(dataset.RowIDs.Unwrap()) != n {
		return errors.Newf(errors.ErrCodeFeatureTableMismatch, "dataset has %d bars but %d row ids", n, len(dataset.RowIDs.Unwrap()))
	}

	return nil
}
