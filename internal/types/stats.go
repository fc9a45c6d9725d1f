package types

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RowCounts counts what the composer did with each bar.
type RowCounts struct {
	// Bars read from the input.
	Bars int `yaml:"bars" json:"bars"`
	// Rows kept in the feature table.
	Kept int `yaml:"kept" json:"kept"`
	// Warm-up rows dropped by the training policy.
	Dropped int `yaml:"dropped" json:"dropped"`
	// Rows that had at least one value filled by the inference policy.
	Imputed int `yaml:"imputed" json:"imputed"`
	// Rows excluded because imputation was impossible.
	Skipped int `yaml:"skipped" json:"skipped"`
}

// RunStats summarises one train or predict run.
type RunStats struct {
	// ID is the unique identifier for this run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Mode is either train or predict.
	Mode string `yaml:"mode" json:"mode"`
	// Model is the classifier used.
	Model string `yaml:"model" json:"model"`
	// ContractVersion is the feature contract version the table was built with.
	ContractVersion string `yaml:"contract_version" json:"contract_version"`
	// DataPath is the input file.
	DataPath string `yaml:"data_path" json:"data_path"`
	// Rows holds the composer counts.
	Rows RowCounts `yaml:"rows" json:"rows"`
	// Accuracy is the in-sample accuracy for training runs.
	Accuracy decimal.Decimal `yaml:"accuracy" json:"accuracy"`
	// PositiveRate is the share of class 1 in the labels (train) or predictions (predict).
	PositiveRate decimal.Decimal `yaml:"positive_rate" json:"positive_rate"`
}

// Ratio returns num/den rounded to four places, zero when den is zero.
func Ratio(num, den int) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(int64(num)).Div(decimal.NewFromInt(int64(den))).Round(4)
}

// WriteRunStats writes the run statistics as YAML.
func WriteRunStats(path string, stats []RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}
