package feature

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/internal/version"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ContractVersion is the version of the default feature contract. Bump the major
// version whenever a name is added, removed, renamed or reordered.
const ContractVersion = "1.0.0"

var defaultNames = []string{
	"rsi",
	"sma_10",
	"sma_30",
	"ema_10",
	"ema_30",
	"bb_mid",
	"bb_upper",
	"bb_lower",
	"macd",
	"macd_signal",
	"macd_diff",
	"pivot",
	"roc",
	"obv",
	"stoch_k",
	"atr",
	"williams_r",
	"adi",
	"cci",
	"vol_sma_10",
	"vol_sma_30",
	"rel_vol",
	"prev_open",
	"prev_high",
	"prev_low",
	"prev_close",
	"prev_volume",
}

// Contract is the ordered list of feature names shared by training and inference.
// The classifier receives columns in exactly this order.
type Contract struct {
	Version string   `yaml:"version" json:"version"`
	Names   []string `yaml:"names" json:"names"`
}

// DefaultContract returns the contract produced by the default indicator set.
func DefaultContract() Contract {
	return Contract{
		Version: ContractVersion,
		Names:   slices.Clone(defaultNames),
	}
}

// NewContract creates a contract, rejecting an invalid version, an empty name list
// or duplicate names.
func NewContract(contractVersion string, names []string) (Contract, error) {
	if _, err := semver.NewVersion(contractVersion); err != nil {
		return Contract{}, errors.Wrapf(errors.ErrCodeContractVersion, err, "invalid contract version '%s'", contractVersion)
	}

	if len(names) == 0 {
		return Contract{}, errors.New(errors.ErrCodeSchemaMismatch, "contract has no feature names")
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return Contract{}, errors.Newf(errors.ErrCodeSchemaMismatch, "duplicate feature name %s", name)
		}

		seen[name] = struct{}{}
	}

	return Contract{Version: contractVersion, Names: slices.Clone(names)}, nil
}

// Width returns the number of features.
func (c Contract) Width() int {
	return len(c.Names)
}

// Validate checks that a row carries exactly the contract names.
func (c Contract) Validate(row types.FeatureRow) error {
	var missing []string

	for _, name := range c.Names {
		if _, ok := row[name]; !ok {
			missing = append(missing, name)
		}
	}

	var extra []string

	for name := range row {
		if !slices.Contains(c.Names, name) {
			extra = append(extra, name)
		}
	}

	slices.Sort(extra)

	return mismatch(missing, extra)
}

// ValidateColumns checks that columns equal the contract names, in order.
func (c Contract) ValidateColumns(columns []string) error {
	if slices.Equal(columns, c.Names) {
		return nil
	}

	var missing []string

	for _, name := range c.Names {
		if !slices.Contains(columns, name) {
			missing = append(missing, name)
		}
	}

	var extra []string

	for _, name := range columns {
		if !slices.Contains(c.Names, name) {
			extra = append(extra, name)
		}
	}

	if err := mismatch(missing, extra); err != nil {
		return err
	}

	for i := range c.Names {
		if i >= len(columns) || columns[i] != c.Names[i] {
			got := "<none>"
			if i < len(columns) {
				got = columns[i]
			}

			return errors.Newf(errors.ErrCodeSchemaMismatch, "column %d is %s, contract expects %s", i, got, c.Names[i])
		}
	}

	return errors.Newf(errors.ErrCodeSchemaMismatch, "expected %d columns, got %d", len(c.Names), len(columns))
}

// ValidateTable checks a feature table's columns and the shape of every row.
func (c Contract) ValidateTable(table *types.FeatureTable) error {
	if err := c.ValidateColumns(table.Columns); err != nil {
		return err
	}

	for i, row := range table.Rows {
		if len(row) != len(c.Names) {
			return errors.Newf(errors.ErrCodeSchemaMismatch, "row %d has %d values, contract expects %d", i, len(row), len(c.Names))
		}
	}

	if len(table.Index) != table.Len() || len(table.Timestamps) != table.Len() {
		return errors.Newf(errors.ErrCodeFeatureTableMismatch,
			"table has %d rows but %d indices and %d timestamps", table.Len(), len(table.Index), len(table.Timestamps))
	}

	if table.Labels != nil && len(table.Labels) != table.Len() {
		return errors.Newf(errors.ErrCodeFeatureTableMismatch, "table has %d rows but %d labels", table.Len(), len(table.Labels))
	}

	if table.RowIDs != nil && len(table.RowIDs) != table.Len() {
		return errors.Newf(errors.ErrCodeFeatureTableMismatch, "table has %d rows but %d row ids", table.Len(), len(table.RowIDs))
	}

	return nil
}

// CompatibleWith checks that data produced under other can be consumed under c:
// the major versions must match and the names must be identical.
func (c Contract) CompatibleWith(other Contract) error {
	if err := version.CheckCompatibility(c.Version, other.Version); err != nil {
		return errors.Wrap(errors.ErrCodeContractVersion, "incompatible contract version", err)
	}

	return c.ValidateColumns(other.Names)
}

// WriteContract writes the contract as YAML.
func WriteContract(path string, contract Contract) error {
	data, err := yaml.Marshal(contract)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to marshal contract", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write contract to %s", path)
	}

	return nil
}

// ReadContract reads a contract written by WriteContract.
func ReadContract(path string) (Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Contract{}, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read contract from %s", path)
	}

	var contract Contract
	if err := yaml.Unmarshal(data, &contract); err != nil {
		return Contract{}, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to parse contract %s", path)
	}

	return contract, nil
}

// SidecarPath returns the contract file stored next to an exported feature file.
func SidecarPath(featurePath string) string {
	return featurePath + ".contract.yaml"
}

func mismatch(missing, extra []string) error {
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %s", strings.Join(missing, ", ")))
	}

	if len(extra) > 0 {
		parts = append(parts, fmt.Sprintf("undeclared %s", strings.Join(extra, ", ")))
	}

	return errors.New(errors.ErrCodeSchemaMismatch, strings.Join(parts, "; "))
}
