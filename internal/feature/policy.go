package feature

import (
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// RowPolicy decides what happens to a candidate row with undefined values.
type RowPolicy string

const (
	// RowPolicyDropIncomplete removes incomplete rows together with their labels.
	// Used for training.
	RowPolicyDropIncomplete RowPolicy = "drop_incomplete"
	// RowPolicyImputeColumnMean fills undefined values with the mean of the defined
	// values of the same column in the batch. Used for inference, so every bar that
	// can be scored gets a prediction.
	RowPolicyImputeColumnMean RowPolicy = "impute_column_mean"
)

// ParseRowPolicy validates a policy name.
func ParseRowPolicy(name string) (RowPolicy, error) {
	switch RowPolicy(name) {
	case RowPolicyDropIncomplete, RowPolicyImputeColumnMean:
		return RowPolicy(name), nil
	default:
		return "", errors.Newf(errors.ErrCodeUnknownRowPolicy, "unknown row policy %q", name)
	}
}
