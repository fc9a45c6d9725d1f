package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/pipeline"
	"github.com/rxtech-lab/argo-features/internal/version"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	schemaName       = "feature-pipeline-config.json"
	sampleConfigName = "feature-pipeline-config.yaml"
)

const sampleConfig = `train_data_path: data/train.csv
test_data_path: data/test.csv
output_path: out/predictions.csv
model: logistic_regression
learning_rate: 0.1
epochs: 200
parallel_indicators: false
progress: false
log_level: info
# features_export_path: out/features.parquet
# metrics_path: out/metrics.prom
# stats_path: out/stats.yaml
# start_time: 2024-01-01T00:00:00Z
# end_time: 2024-12-31T23:59:00Z
`

// openPipeline loads the configuration named by --config and builds a pipeline
// logging at the configured level, or at --log-level when it is set. --progress
// overrides the configured progress bar.
func openPipeline(cmd *cli.Command) (*pipeline.Pipeline, *logger.Logger, error) {
	config, err := pipeline.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}

	if level := cmd.String("log-level"); level != "" {
		config.LogLevel = level
	}

	if cmd.IsSet("progress") {
		config.Progress = cmd.Bool("progress")
	}

	l, err := logger.NewLoggerWithLevel(config.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.New(config, l)
	if err != nil {
		return nil, nil, err
	}

	return p, l, nil
}

func trainAction(ctx context.Context, cmd *cli.Command) error {
	p, l, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck
	defer p.Close()

	result, err := p.Train(ctx)
	if err != nil {
		return err
	}

	if err := p.Finish(); err != nil {
		return err
	}

	fmt.Printf("trained %s on %d rows (%d warm-up rows dropped), in-sample accuracy %s\n",
		result.Stats.Model, result.Stats.Rows.Kept, result.Stats.Rows.Dropped, result.Stats.Accuracy)

	return nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	p, l, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck
	defer p.Close()

	stats, err := p.Run(ctx)
	if err != nil {
		return err
	}

	for _, s := range stats {
		fmt.Printf("%s: %d bars, %d rows kept, %d dropped, %d imputed, %d skipped\n",
			s.Mode, s.Rows.Bars, s.Rows.Kept, s.Rows.Dropped, s.Rows.Imputed, s.Rows.Skipped)
	}

	return nil
}

func exportAction(ctx context.Context, cmd *cli.Command) error {
	p, l, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck
	defer p.Close()

	output := cmd.String("output")

	result, err := p.Export(ctx, output)
	if err != nil {
		return err
	}

	fmt.Printf("exported %d rows x %d features to %s\n", result.Table.Len(), len(result.Table.Columns), output)

	return nil
}

func inspectAction(ctx context.Context, cmd *cli.Command) error {
	l, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck

	p, err := pipeline.New(pipeline.EmptyConfig(), l)
	if err != nil {
		return err
	}
	defer p.Close()

	path := cmd.String("path")

	contract, err := p.Inspect(ctx, path)
	if err != nil {
		l.Error("Feature file does not match the current contract", zap.String("path", path), zap.Error(err))

		return err
	}

	fmt.Printf("%s matches contract %s (%d features)\n", path, contract.Version, len(contract.Names))

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	config := pipeline.EmptyConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	dir := cmd.String("dir")
	schemaPath := filepath.Join(dir, schemaName)
	sampleConfigPath := filepath.Join(dir, sampleConfigName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	// write sample config to file if doesn't exist
	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		content := "# yaml-language-server: $schema=" + schemaName + "\n" + sampleConfig
		if err := os.WriteFile(sampleConfigPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write sample config to file: %w", err)
		}

		log.Printf("Sample config successfully generated at %s", sampleConfigPath)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "Path to the pipeline configuration `FILE`",
		Required: true,
	}
	logLevelFlag := &cli.StringFlag{
		Name:  "log-level",
		Usage: "Override the configured log level (debug, info, warn, error)",
	}
	progressFlag := &cli.BoolFlag{
		Name:  "progress",
		Usage: "Show a progress bar while rows are staged for writing",
	}

	cmd := &cli.Command{
		Name:    "features",
		Usage:   "Build OHLCV feature tables and run a direction classifier on them",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:   "train",
				Usage:  "Fit the configured model on the training file and report in-sample statistics",
				Flags:  []cli.Flag{configFlag, logLevelFlag, progressFlag},
				Action: trainAction,
			},
			{
				Name:    "run",
				Aliases: []string{"predict"},
				Usage:   "Fit on the training file, then write predictions for the test file with the same model",
				Flags:   []cli.Flag{configFlag, logLevelFlag, progressFlag},
				Action:  runAction,
			},
			{
				Name:  "export",
				Usage: "Write the training feature table as Parquet with its contract sidecar",
				Flags: []cli.Flag{
					configFlag,
					logLevelFlag,
					progressFlag,
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Parquet `FILE` to write",
						Required: true,
					},
				},
				Action: exportAction,
			},
			{
				Name:  "inspect",
				Usage: "Check an exported feature file against the current feature contract",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "path",
						Aliases:  []string{"p"},
						Usage:    "Exported Parquet `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
						Value: "warn",
					},
				},
				Action: inspectAction,
			},
			{
				Name:  "schema",
				Usage: "Write the configuration JSON schema and a sample configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output `DIR`",
						Value:   "./config",
					},
				},
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
