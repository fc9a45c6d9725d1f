package classifier

import (
	"math"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LogisticRegression is a batch gradient descent logistic regression over
// standardized features.
type LogisticRegression struct {
	learningRate float64
	epochs       int

	columns []string
	mean    []float64
	scale   []float64
	weights []float64
	bias    float64
	fitted  bool
}

// NewLogisticRegression creates an unfitted model.
func NewLogisticRegression(params Params) (*LogisticRegression, error) {
	if params.LearningRate <= 0 || math.IsNaN(params.LearningRate) || math.IsInf(params.LearningRate, 0) {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "learning rate must be positive, got %f", params.LearningRate)
	}

	if params.Epochs <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "epochs must be positive, got %d", params.Epochs)
	}

	return &LogisticRegression{
		learningRate: params.LearningRate,
		epochs:       params.Epochs,
	}, nil
}

// Name implements Classifier.
func (m *LogisticRegression) Name() Model {
	return ModelLogisticRegression
}

// Weights returns a copy of the fitted weights in column order.
func (m *LogisticRegression) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

// Fit implements Classifier.
func (m *LogisticRegression) Fit(table *types.FeatureTable, labels []int) error {
	if err := checkTrainingSet(table, labels); err != nil {
		return err
	}

	width := len(table.Columns)
	for i, row := range table.Rows {
		if len(row) != width {
			return errors.Newf(errors.ErrCodeSchemaMismatch, "row %d has %d values for %d columns", i, len(row), width)
		}

		if floats.HasNaN(row) {
			return errors.Newf(errors.ErrCodeModelFitFailed, "row %d has undefined values", i)
		}
	}

	m.mean = make([]float64, width)
	m.scale = make([]float64, width)

	column := make([]float64, table.Len())
	for j := 0; j < width; j++ {
		for i, row := range table.Rows {
			column[i] = row[j]
		}

		mean, std := stat.PopMeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}

		m.mean[j] = mean
		m.scale[j] = std
	}

	x := make([][]float64, table.Len())
	for i, row := range table.Rows {
		x[i] = m.standardize(row)
	}

	m.weights = make([]float64, width)
	m.bias = 0

	n := float64(len(x))
	grad := make([]float64, width)

	for epoch := 0; epoch < m.epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}

		gradBias := 0.0

		for i, xi := range x {
			residual := sigmoid(floats.Dot(m.weights, xi)+m.bias) - float64(labels[i])
			floats.AddScaled(grad, residual, xi)
			gradBias += residual
		}

		floats.AddScaled(m.weights, -m.learningRate/n, grad)
		m.bias -= m.learningRate * gradBias / n
	}

	if floats.HasNaN(m.weights) || math.IsNaN(m.bias) {
		return errors.New(errors.ErrCodeModelFitFailed, "gradient descent diverged")
	}

	m.columns = append([]string(nil), table.Columns...)
	m.fitted = true

	return nil
}

// Predict implements Classifier.
func (m *LogisticRegression) Predict(table *types.FeatureTable) ([]int, error) {
	probabilities, err := m.PredictProbability(table)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(probabilities))
	for i, p := range probabilities {
		if p >= 0.5 {
			out[i] = 1
		}
	}

	return out, nil
}

// PredictProbability returns the class 1 probability of every row.
func (m *LogisticRegression) PredictProbability(table *types.FeatureTable) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New(errors.ErrCodeModelNotFitted, "logistic regression is not fitted")
	}

	if err := checkColumns(m.columns, table.Columns); err != nil {
		return nil, err
	}

	out := make([]float64, table.Len())
	for i, row := range table.Rows {
		if len(row) != len(m.columns) {
			return nil, errors.Newf(errors.ErrCodeSchemaMismatch, "row %d has %d values for %d columns", i, len(row), len(m.columns))
		}

		out[i] = sigmoid(floats.Dot(m.weights, m.standardize(row)) + m.bias)
	}

	return out, nil
}

func (m *LogisticRegression) standardize(row []float64) []float64 {
	out := make([]float64, len(row))
	floats.SubTo(out, row, m.mean)
	floats.Div(out, m.scale)

	return out
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
