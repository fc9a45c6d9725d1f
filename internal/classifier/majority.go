package classifier

import (
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// Majority always predicts the most frequent training class. Ties go to class 0.
type Majority struct {
	columns []string
	class   int
	fitted  bool
}

// NewMajority creates an unfitted majority-class baseline.
func NewMajority() *Majority {
	return &Majority{}
}

// Name implements Classifier.
func (m *Majority) Name() Model {
	return ModelMajority
}

// Fit implements Classifier.
func (m *Majority) Fit(table *types.FeatureTable, labels []int) error {
	if err := checkTrainingSet(table, labels); err != nil {
		return err
	}

	positives := 0
	for _, label := range labels {
		positives += label
	}

	m.class = 0
	if positives*2 > len(labels) {
		m.class = 1
	}

	m.columns = append([]string(nil), table.Columns...)
	m.fitted = true

	return nil
}

// Predict implements Classifier.
func (m *Majority) Predict(table *types.FeatureTable) ([]int, error) {
	if !m.fitted {
		return nil, errors.New(errors.ErrCodeModelNotFitted, "majority model is not fitted")
	}

	if err := checkColumns(m.columns, table.Columns); err != nil {
		return nil, err
	}

	out := make([]int, table.Len())
	for i := range out {
		out[i] = m.class
	}

	return out, nil
}
