// Package classifier holds the binary classifiers a feature table is handed to.
// Model choice is outside the scope of the feature pipeline, so only thin
// baselines live here; anything satisfying Classifier can be plugged in.
package classifier

import (
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// Classifier is trained on a contract-ordered feature table and predicts one
// class per row. The columns seen by Fit must be the columns seen by Predict.
type Classifier interface {
	// Name returns the model name used in configuration.
	Name() Model
	// Fit trains the model. labels[i] is the class of table row i.
	Fit(table *types.FeatureTable, labels []int) error
	// Predict returns one class per table row.
	Predict(table *types.FeatureTable) ([]int, error)
}

// Model names a classifier implementation.
type Model string

const (
	ModelLogisticRegression Model = "logistic_regression"
	ModelMajority           Model = "majority"
)

// AllModels lists the configurable models.
var AllModels = []any{
	ModelLogisticRegression,
	ModelMajority,
}

// Params are the hyperparameters a classifier may use.
type Params struct {
	LearningRate float64
	Epochs       int
}

// DefaultParams returns the parameters used when the configuration sets none.
func DefaultParams() Params {
	return Params{
		LearningRate: 0.1,
		Epochs:       200,
	}
}

// New returns a fresh, unfitted classifier for model.
func New(model Model, params Params) (Classifier, error) {
	switch model {
	case ModelLogisticRegression:
		return NewLogisticRegression(params)
	case ModelMajority:
		return NewMajority(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeModelNotFound, "unknown model '%s'", model)
	}
}

// checkTrainingSet validates the shared preconditions of Fit.
func checkTrainingSet(table *types.FeatureTable, labels []int) error {
	if table == nil || table.Len() == 0 {
		return errors.New(errors.ErrCodeEmptyTrainingSet, "training set has no rows")
	}

	if len(labels) != table.Len() {
		return errors.Newf(errors.ErrCodeFeatureTableMismatch, "%d labels for %d rows", len(labels), table.Len())
	}

	for i, label := range labels {
		if label != 0 && label != 1 {
			return errors.Newf(errors.ErrCodeInvalidLabel, "label %d of row %d is not 0 or 1", label, i)
		}
	}

	return nil
}

// checkColumns rejects a prediction table laid out differently from the training table.
func checkColumns(fitted, columns []string) error {
	if len(fitted) != len(columns) {
		return errors.Newf(errors.ErrCodeSchemaMismatch, "model was fitted on %d columns, got %d", len(fitted), len(columns))
	}

	for i := range fitted {
		if fitted[i] != columns[i] {
			return errors.Newf(errors.ErrCodeSchemaMismatch, "column %d is %s, model was fitted on %s", i, columns[i], fitted[i])
		}
	}

	return nil
}
