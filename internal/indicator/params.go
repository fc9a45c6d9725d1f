package indicator

import (
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// periodParam reads a positive int parameter. Float values are truncated so that
// periods decoded from YAML or JSON are accepted.
func periodParam(params []any, idx int, name string) (int, error) {
	if idx >= len(params) {
		return 0, errors.Newf(errors.ErrCodeMissingParameter, "missing %s parameter", name)
	}

	period, ok := params[idx].(int)
	if !ok {
		periodFloat, ok := params[idx].(float64)
		if !ok {
			return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int", name)
		}

		period = int(periodFloat)
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return period, nil
}

// expectParams checks the parameter count.
func expectParams(params []any, want int, usage string) error {
	if len(params) != want {
		return errors.Newf(errors.ErrCodeMissingParameter, "Config expects %d parameter(s): %s", want, usage)
	}

	return nil
}
