package indicator

import (
	"sync"

	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// IndicatorRegistry manages the indicators a composer computes.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(column string) (Indicator, error)
	ListIndicators() []Indicator
	Columns() []string
	RemoveIndicator(column string) error
}

// IndicatorRegistryV1 keeps indicators in registration order and indexes them by
// every column they produce, so two indicators can never claim the same feature name.
type IndicatorRegistryV1 struct {
	indicators []Indicator
	byColumn   map[string]Indicator
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates a new indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: nil,
		byColumn:   make(map[string]Indicator),
		mu:         sync.RWMutex{},
	}
}

// RegisterIndicator adds an indicator to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, column := range indicator.Columns() {
		if _, exists := r.byColumn[column]; exists {
			return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "RegisterIndicator: column %s already registered", column)
		}
	}

	for _, column := range indicator.Columns() {
		r.byColumn[column] = indicator
	}

	r.indicators = append(r.indicators, indicator)

	return nil
}

// GetIndicator retrieves the indicator producing the given column.
func (r *IndicatorRegistryV1) GetIndicator(column string) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.byColumn[column]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "GetIndicator: no indicator produces column %s", column)
	}

	return indicator, nil
}

// ListIndicators returns the registered indicators in registration order.
func (r *IndicatorRegistryV1) ListIndicators() []Indicator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Indicator, len(r.indicators))
	copy(out, r.indicators)

	return out
}

// Columns returns every produced column in registration order.
func (r *IndicatorRegistryV1) Columns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var columns []string
	for _, indicator := range r.indicators {
		columns = append(columns, indicator.Columns()...)
	}

	return columns
}

// RemoveIndicator removes the indicator producing the given column.
func (r *IndicatorRegistryV1) RemoveIndicator(column string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	indicator, exists := r.byColumn[column]
	if !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "RemoveIndicator: no indicator produces column %s", column)
	}

	for _, c := range indicator.Columns() {
		delete(r.byColumn, c)
	}

	for i, registered := range r.indicators {
		if registered == indicator {
			r.indicators = append(r.indicators[:i], r.indicators[i+1:]...)

			break
		}
	}

	return nil
}

// MaxWarmup returns the largest warm-up over the indicators, i.e. the first position
// at which a row can be fully defined.
func MaxWarmup(indicators []Indicator) int {
	maxWarmup := 0
	for _, indicator := range indicators {
		if w := indicator.Warmup(); w > maxWarmup {
			maxWarmup = w
		}
	}

	return maxWarmup
}
