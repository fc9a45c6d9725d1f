package pipeline

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/classifier"
	"github.com/rxtech-lab/argo-features/internal/datasource"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes one feature pipeline run.
type Config struct {
	TrainDataPath      string                     `yaml:"train_data_path" json:"train_data_path" jsonschema:"title=Train Data Path,description=CSV or Parquet file with OHLCV bars and a target column"`
	TestDataPath       string                     `yaml:"test_data_path" json:"test_data_path" jsonschema:"title=Test Data Path,description=CSV or Parquet file with OHLCV bars and a row_id column"`
	OutputPath         string                     `yaml:"output_path" json:"output_path" jsonschema:"title=Output Path,description=Predictions CSV written as row_id and target"`
	Model              classifier.Model           `yaml:"model" json:"model" validate:"required,oneof=logistic_regression majority" jsonschema:"title=Model,description=Classifier fitted on the training features and used for prediction"`
	LearningRate       float64                    `yaml:"learning_rate" json:"learning_rate" validate:"gt=0" jsonschema:"title=Learning Rate,description=Gradient descent step size,default=0.1"`
	Epochs             int                        `yaml:"epochs" json:"epochs" validate:"gt=0" jsonschema:"title=Epochs,description=Gradient descent passes over the training set,minimum=1,default=200"`
	ParallelIndicators bool                       `yaml:"parallel_indicators" json:"parallel_indicators" jsonschema:"title=Parallel Indicators,description=Compute indicators concurrently"`
	Progress           bool                       `yaml:"progress" json:"progress" jsonschema:"title=Progress,description=Show a progress bar while rows are staged for writing"`
	LogLevel           string                     `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	FeaturesExportPath optional.Option[string]    `yaml:"features_export_path" json:"features_export_path" jsonschema:"title=Features Export Path,description=Optional Parquet file for the training feature table"`
	MetricsPath        optional.Option[string]    `yaml:"metrics_path" json:"metrics_path" jsonschema:"title=Metrics Path,description=Optional Prometheus textfile written at the end of a run"`
	StatsPath          optional.Option[string]    `yaml:"stats_path" json:"stats_path" jsonschema:"title=Stats Path,description=Optional YAML file with run statistics"`
	StartTime          optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional first bar time to load"`
	EndTime            optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional last bar time to load"`
}

// UnmarshalYAML implements custom unmarshaling for Config. Unset fields keep the
// EmptyConfig defaults.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	defaults := EmptyConfig()

	type rawConfig struct {
		TrainDataPath      string           `yaml:"train_data_path"`
		TestDataPath       string           `yaml:"test_data_path"`
		OutputPath         string           `yaml:"output_path"`
		Model              classifier.Model `yaml:"model"`
		LearningRate       float64          `yaml:"learning_rate"`
		Epochs             int              `yaml:"epochs"`
		ParallelIndicators bool             `yaml:"parallel_indicators"`
		Progress           bool             `yaml:"progress"`
		LogLevel           string           `yaml:"log_level"`
		FeaturesExportPath *string          `yaml:"features_export_path"`
		MetricsPath        *string          `yaml:"metrics_path"`
		StatsPath          *string          `yaml:"stats_path"`
		StartTime          *time.Time       `yaml:"start_time"`
		EndTime            *time.Time       `yaml:"end_time"`
	}

	config := rawConfig{
		Model:        defaults.Model,
		LearningRate: defaults.LearningRate,
		Epochs:       defaults.Epochs,
		LogLevel:     defaults.LogLevel,
	}
	if err := unmarshal(&config); err != nil {
		return err
	}

	*c = defaults
	c.TrainDataPath = config.TrainDataPath
	c.TestDataPath = config.TestDataPath
	c.OutputPath = config.OutputPath
	c.Model = config.Model
	c.LearningRate = config.LearningRate
	c.Epochs = config.Epochs
	c.ParallelIndicators = config.ParallelIndicators
	c.Progress = config.Progress
	c.LogLevel = config.LogLevel

	if config.FeaturesExportPath != nil {
		c.FeaturesExportPath = optional.Some(*config.FeaturesExportPath)
	}
	if config.MetricsPath != nil {
		c.MetricsPath = optional.Some(*config.MetricsPath)
	}
	if config.StatsPath != nil {
		c.StatsPath = optional.Some(*config.StatsPath)
	}
	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}
	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the field constraints and that the time window is not inverted.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_time is before start_time")
	}

	return nil
}

// TimeFilter returns the bar filter described by start_time and end_time.
func (c Config) TimeFilter() datasource.TimeFilter {
	return datasource.TimeFilter{
		Start: c.StartTime,
		End:   c.EndTime,
	}
}

// ClassifierParams returns the hyperparameters handed to the classifier.
func (c Config) ClassifierParams() classifier.Params {
	return classifier.Params{
		LearningRate: c.LearningRate,
		Epochs:       c.Epochs,
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read config %s", path)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch {
			case t.String() == "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case t.String() == "optional.Option[string]":
				return &jsonschema.Schema{
					Type: "string",
				}
			case strings.Contains(t.String(), "classifier.Model"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: classifier.AllModels,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "feature-pipeline-config"
	schema.Description = "Configuration schema for the OHLCV feature pipeline"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// TestConfig returns a configuration reading train and test files from dir.
func TestConfig(trainPath, testPath, outputPath string) Config {
	config := EmptyConfig()
	config.TrainDataPath = trainPath
	config.TestDataPath = testPath
	config.OutputPath = outputPath

	return config
}

// EmptyConfig returns a Config with default values and no paths.
func EmptyConfig() Config {
	params := classifier.DefaultParams()

	return Config{
		TrainDataPath:      "",
		TestDataPath:       "",
		OutputPath:         "",
		Model:              classifier.ModelLogisticRegression,
		LearningRate:       params.LearningRate,
		Epochs:             params.Epochs,
		ParallelIndicators: false,
		Progress:           false,
		LogLevel:           "info",
		FeaturesExportPath: optional.None[string](),
		MetricsPath:        optional.None[string](),
		StatsPath:          optional.None[string](),
		StartTime:          optional.None[time.Time](),
		EndTime:            optional.None[time.Time](),
	}
}
