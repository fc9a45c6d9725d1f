// Package pipeline wires the bar source, the feature composer, the classifier and
// the output writer into train and predict runs.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-features/internal/classifier"
	"github.com/rxtech-lab/argo-features/internal/datasource"
	"github.com/rxtech-lab/argo-features/internal/feature"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/metrics"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/internal/writer"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"go.uber.org/zap"
)

// Run modes, used in statistics and metric labels.
const (
	ModeTrain   = "train"
	ModePredict = "predict"
)

// Pipeline runs training and inference with one classifier. Predict must use the
// model fitted by Train on the same Pipeline.
type Pipeline struct {
	config     Config
	runID      string
	logger     *logger.Logger
	metrics    *metrics.Metrics
	source     datasource.BarSource
	writer     *writer.Writer
	composer   *feature.Composer
	classifier classifier.Classifier
	stats      []types.RunStats
}

// TrainResult is the outcome of Train.
type TrainResult struct {
	Table *types.FeatureTable
	Stats types.RunStats
}

// PredictResult is the outcome of Predict. Skipped bars have no prediction.
type PredictResult struct {
	RowIDs      []int64
	Predictions []int
	Stats       types.RunStats
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBarSource replaces the DuckDB bar source.
func WithBarSource(source datasource.BarSource) Option {
	return func(p *Pipeline) {
		p.source = source
	}
}

// WithClassifier replaces the classifier named in the configuration.
func WithClassifier(c classifier.Classifier) Option {
	return func(p *Pipeline) {
		p.classifier = c
	}
}

// WithMetrics records on m instead of a private metrics set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New validates the configuration and builds a pipeline.
func New(config Config, log *logger.Logger, opts ...Option) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	p := &Pipeline{
		config: config,
		runID:  runID,
		logger: &logger.Logger{Logger: log.With(zap.String("run_id", runID))},
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.metrics == nil {
		p.metrics = metrics.NewMetrics()
	}

	if p.classifier == nil {
		c, err := classifier.New(config.Model, config.ClassifierParams())
		if err != nil {
			return nil, err
		}

		p.classifier = c
	}

	composer, err := feature.NewDefaultComposer(
		feature.WithLogger(p.logger),
		feature.WithMetrics(p.metrics),
		feature.WithParallelIndicators(config.ParallelIndicators),
	)
	if err != nil {
		return nil, err
	}

	p.composer = composer

	if p.source == nil {
		source, err := datasource.NewDuckDBBarSource(p.logger)
		if err != nil {
			return nil, err
		}

		p.source = source
	}

	w, err := writer.NewWriter(p.logger, writer.WithProgress(config.Progress))
	if err != nil {
		p.source.Close()

		return nil, err
	}

	p.writer = w

	return p, nil
}

// RunID returns the identifier attached to every log line and statistic of this pipeline.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Metrics returns the metrics the pipeline records on.
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// Stats returns the statistics of every finished run so far.
func (p *Pipeline) Stats() []types.RunStats {
	return append([]types.RunStats(nil), p.stats...)
}

// Train loads the training file, builds complete feature rows and fits the classifier.
// Warm-up rows are dropped together with their labels.
func (p *Pipeline) Train(ctx context.Context) (result *TrainResult, err error) {
	defer func() { p.metrics.ObserveRun(ModeTrain, err) }()

	if p.config.TrainDataPath == "" {
		return nil, errors.New(errors.ErrCodePipelineConfigError, "train_data_path is not set")
	}

	dataset, err := p.load(ctx, p.config.TrainDataPath)
	if err != nil {
		return nil, err
	}

	if dataset.Labels.IsNone() {
		return nil, errors.NewPipelineError(errors.StageLoad,
			errors.Newf(errors.ErrCodeMissingColumn, "%s has no %s column", p.config.TrainDataPath, datasource.ColumnTarget))
	}

	composed, err := p.compose(ctx, dataset, feature.RowPolicyDropIncomplete)
	if err != nil {
		return nil, err
	}

	p.metrics.ObserveRows(ModeTrain, composed.Counts)

	table := composed.Table
	if table.Len() == 0 {
		return nil, errors.NewPipelineError(errors.StageClassifier,
			errors.Newf(errors.ErrCodeEmptyTrainingSet, "no complete feature rows in %d bars, at least %d needed",
				composed.Counts.Bars, p.composer.Warmup()+1))
	}

	start := time.Now()

	if err := p.classifier.Fit(table, table.Labels); err != nil {
		return nil, errors.NewPipelineError(errors.StageClassifier, err)
	}

	fitted, err := p.classifier.Predict(table)
	if err != nil {
		return nil, errors.NewPipelineError(errors.StageClassifier, err)
	}

	p.metrics.ObserveStage(string(errors.StageClassifier), time.Since(start))

	if p.config.FeaturesExportPath.IsSome() {
		if err := p.export(ctx, p.config.FeaturesExportPath.Unwrap(), table); err != nil {
			return nil, err
		}
	}

	correct := 0
	for i, label := range table.Labels {
		if i < len(fitted) && fitted[i] == label {
			correct++
		}
	}

	stats := p.newStats(ModeTrain, p.config.TrainDataPath, composed.Counts)
	stats.Accuracy = types.Ratio(correct, table.Len())
	stats.PositiveRate = types.Ratio(countPositive(table.Labels), table.Len())
	p.stats = append(p.stats, stats)

	p.logger.Info("Training finished",
		zap.String("model", string(p.classifier.Name())),
		zap.Int("rows", table.Len()),
		zap.Int("dropped", composed.Counts.Dropped),
		zap.String("accuracy", stats.Accuracy.String()),
	)

	return &TrainResult{Table: table, Stats: stats}, nil
}

// Predict loads the test file, imputes incomplete rows with batch column means and
// writes one prediction per surviving bar. Rows that cannot be imputed are skipped
// and counted in the result.
func (p *Pipeline) Predict(ctx context.Context) (result *PredictResult, err error) {
	defer func() { p.metrics.ObserveRun(ModePredict, err) }()

	if p.config.TestDataPath == "" {
		return nil, errors.New(errors.ErrCodePipelineConfigError, "test_data_path is not set")
	}

	if p.config.OutputPath == "" {
		return nil, errors.New(errors.ErrCodePipelineConfigError, "output_path is not set")
	}

	dataset, err := p.load(ctx, p.config.TestDataPath)
	if err != nil {
		return nil, err
	}

	if dataset.RowIDs.IsNone() {
		return nil, errors.NewPipelineError(errors.StageLoad,
			errors.Newf(errors.ErrCodeMissingColumn, "%s has no %s column", p.config.TestDataPath, datasource.ColumnRowID))
	}

	composed, err := p.compose(ctx, dataset, feature.RowPolicyImputeColumnMean)
	if err != nil {
		return nil, err
	}

	p.metrics.ObserveRows(ModePredict, composed.Counts)

	table := composed.Table
	predictions := []int{}

	if table.Len() > 0 {
		start := time.Now()

		predictions, err = p.classifier.Predict(table)
		if err != nil {
			return nil, errors.NewPipelineError(errors.StageClassifier, err)
		}

		p.metrics.ObserveStage(string(errors.StageClassifier), time.Since(start))

		if len(predictions) != table.Len() {
			return nil, errors.NewPipelineError(errors.StageClassifier,
				errors.Newf(errors.ErrCodeFeatureTableMismatch, "%d predictions for %d rows", len(predictions), table.Len()))
		}
	}

	start := time.Now()

	if err := p.writer.WritePredictions(ctx, p.config.OutputPath, table.RowIDs, predictions); err != nil {
		return nil, errors.NewPipelineError(errors.StageWrite, err)
	}

	p.metrics.ObserveStage(string(errors.StageWrite), time.Since(start))

	stats := p.newStats(ModePredict, p.config.TestDataPath, composed.Counts)
	stats.PositiveRate = types.Ratio(countPositive(predictions), len(predictions))
	p.stats = append(p.stats, stats)

	if composed.Counts.Skipped > 0 {
		p.logger.Warn("Bars without prediction",
			zap.Int("skipped", composed.Counts.Skipped),
			zap.Int("bars", composed.Counts.Bars),
		)
	}

	p.logger.Info("Prediction finished",
		zap.String("model", string(p.classifier.Name())),
		zap.String("output", p.config.OutputPath),
		zap.Int("rows", len(predictions)),
		zap.Int("imputed", composed.Counts.Imputed),
		zap.Int("skipped", composed.Counts.Skipped),
	)

	return &PredictResult{
		RowIDs:      table.RowIDs,
		Predictions: predictions,
		Stats:       stats,
	}, nil
}

// Run trains, predicts and writes the configured reports.
func (p *Pipeline) Run(ctx context.Context) ([]types.RunStats, error) {
	if _, err := p.Train(ctx); err != nil {
		return nil, err
	}

	if _, err := p.Predict(ctx); err != nil {
		return nil, err
	}

	if err := p.Finish(); err != nil {
		return nil, err
	}

	return p.Stats(), nil
}

// Finish writes the statistics and metrics files named in the configuration.
func (p *Pipeline) Finish() error {
	if p.config.StatsPath.IsSome() {
		path := p.config.StatsPath.Unwrap()
		if err := types.WriteRunStats(path, p.stats); err != nil {
			return errors.NewPipelineError(errors.StageWrite, errors.Wrap(errors.ErrCodeWriteFailed, "failed to write run stats", err))
		}

		p.logger.Info("Wrote run stats", zap.String("path", path))
	}

	if p.config.MetricsPath.IsSome() {
		path := p.config.MetricsPath.Unwrap()
		if err := p.metrics.WriteToTextfile(path); err != nil {
			return errors.NewPipelineError(errors.StageWrite, errors.Wrap(errors.ErrCodeWriteFailed, "failed to write metrics", err))
		}

		p.logger.Info("Wrote metrics", zap.String("path", path))
	}

	return nil
}

// Export composes the training file with the training policy and writes the
// feature table with its contract sidecar, without fitting anything.
func (p *Pipeline) Export(ctx context.Context, path string) (*feature.Result, error) {
	if p.config.TrainDataPath == "" {
		return nil, errors.New(errors.ErrCodePipelineConfigError, "train_data_path is not set")
	}

	dataset, err := p.load(ctx, p.config.TrainDataPath)
	if err != nil {
		return nil, err
	}

	composed, err := p.compose(ctx, dataset, feature.RowPolicyDropIncomplete)
	if err != nil {
		return nil, err
	}

	if err := p.export(ctx, path, composed.Table); err != nil {
		return nil, err
	}

	return composed, nil
}

// Inspect checks an exported feature file against the current contract: the
// sidecar version must share the major version and the file columns must match
// the contract order.
func (p *Pipeline) Inspect(ctx context.Context, path string) (feature.Contract, error) {
	sidecar, err := feature.ReadContract(feature.SidecarPath(path))
	if err != nil {
		return feature.Contract{}, err
	}

	current := p.composer.Contract()
	if err := current.CompatibleWith(sidecar); err != nil {
		return sidecar, errors.NewPipelineError(errors.StageSchemaCheck, err)
	}

	columns, err := p.writer.ReadFeatureColumns(ctx, path)
	if err != nil {
		return sidecar, err
	}

	if err := current.ValidateColumns(columns); err != nil {
		return sidecar, errors.NewPipelineError(errors.StageSchemaCheck, err)
	}

	return sidecar, nil
}

// Close releases the bar source and the writer.
func (p *Pipeline) Close() error {
	sourceErr := p.source.Close()
	writerErr := p.writer.Close()

	if sourceErr != nil {
		return sourceErr
	}

	return writerErr
}

func (p *Pipeline) load(ctx context.Context, path string) (types.Dataset, error) {
	start := time.Now()

	dataset, err := p.source.Load(ctx, path, p.config.TimeFilter())
	if err != nil {
		return types.Dataset{}, withStage(errors.StageLoad, err)
	}

	p.metrics.ObserveStage(string(errors.StageLoad), time.Since(start))

	if err := dataset.Bars.Validate(); err != nil {
		return types.Dataset{}, errors.NewPipelineError(errors.StageBarValidation, err)
	}

	return dataset, nil
}

func (p *Pipeline) compose(ctx context.Context, dataset types.Dataset, policy feature.RowPolicy) (*feature.Result, error) {
	start := time.Now()

	composed, err := p.composer.Compose(ctx, dataset, policy)
	if err != nil {
		return nil, withStage(errors.StageSchemaCheck, err)
	}

	p.metrics.ObserveStage("compose", time.Since(start))

	return composed, nil
}

func (p *Pipeline) export(ctx context.Context, path string, table *types.FeatureTable) error {
	start := time.Now()

	if err := p.writer.WriteFeatures(ctx, path, table, p.composer.Contract()); err != nil {
		return errors.NewPipelineError(errors.StageWrite, err)
	}

	p.metrics.ObserveStage(string(errors.StageWrite), time.Since(start))

	return nil
}

func (p *Pipeline) newStats(mode, path string, counts types.RowCounts) types.RunStats {
	return types.RunStats{
		ID:              p.runID,
		Timestamp:       time.Now(),
		Mode:            mode,
		Model:           string(p.classifier.Name()),
		ContractVersion: p.composer.Contract().Version,
		DataPath:        path,
		Rows:            counts,
	}
}

// withStage attaches stage to err unless an inner step already named one.
func withStage(stage errors.Stage, err error) error {
	if _, ok := errors.GetStage(err); ok {
		return err
	}

	return errors.NewPipelineError(stage, err)
}

func countPositive(classes []int) int {
	n := 0
	for _, c := range classes {
		if c == 1 {
			n++
		}
	}

	return n
}
