package feature

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ContractTestSuite struct {
	suite.Suite
	contract Contract
}

func TestContractSuite(t *testing.T) {
	suite.Run(t, new(ContractTestSuite))
}

func (suite *ContractTestSuite) SetupTest() {
	suite.contract = DefaultContract()
}

func (suite *ContractTestSuite) fullRow() types.FeatureRow {
	row := make(types.FeatureRow, suite.contract.Width())
	for i, name := range suite.contract.Names {
		row[name] = float64(i)
	}

	return row
}

func (suite *ContractTestSuite) TestDefaultContract() {
	suite.Equal(ContractVersion, suite.contract.Version)
	suite.Equal(27, suite.contract.Width())
	suite.Equal("rsi", suite.contract.Names[0])
	suite.Equal("prev_volume", suite.contract.Names[26])

	// callers cannot mutate the shared name list
	suite.contract.Names[0] = "changed"
	suite.Equal("rsi", DefaultContract().Names[0])
}

func (suite *ContractTestSuite) TestNewContract() {
	_, err := NewContract("1.2.0", []string{"a", "b"})
	suite.NoError(err)

	_, err = NewContract("not-a-version", []string{"a"})
	suite.True(errors.HasCode(err, errors.ErrCodeContractVersion))

	_, err = NewContract("1.0.0", nil)
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaMismatch))

	_, err = NewContract("1.0.0", []string{"a", "a"})
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaMismatch))
}

func (suite *ContractTestSuite) TestValidateRow() {
	suite.NoError(suite.contract.Validate(suite.fullRow()))
}

func (suite *ContractTestSuite) TestValidateMissingName() {
	row := suite.fullRow()
	delete(row, "atr")

	err := suite.contract.Validate(row)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaMismatch))
	suite.Contains(err.Error(), "missing atr")
}

func (suite *ContractTestSuite) TestValidateExtraName() {
	row := suite.fullRow()
	row["future_close"] = 1

	err := suite.contract.Validate(row)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaMismatch))
	suite.Contains(err.Error(), "undeclared future_close")
}

func (suite *ContractTestSuite) TestValidateColumns() {
	testCases := []struct {
		name    string
		columns func() []string
		message string
	}{
		{
			name: "reordered",
			columns: func() []string {
				c := DefaultContract().Names
				c[0], c[1] = c[1], c[0]

				return c
			},
			message: "column 0 is sma_10, contract expects rsi",
		},
		{
			name:    "missing",
			columns: func() []string { return DefaultContract().Names[1:] },
			message: "missing rsi",
		},
		{
			name:    "extra",
			columns: func() []string { return append(DefaultContract().Names, "x") },
			message: "undeclared x",
		},
		{
			name:    "duplicate",
			columns: func() []string { return append(DefaultContract().Names, "rsi") },
			message: "expected 27 columns, got 28",
		},
	}

	suite.NoError(suite.contract.ValidateColumns(DefaultContract().Names))

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := suite.contract.ValidateColumns(tc.columns())
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeSchemaMismatch))
			suite.Contains(err.Error(), tc.message)
		})
	}
}

func (suite *ContractTestSuite) TestValidateTable() {
	row := make([]float64, suite.contract.Width())
	table := &types.FeatureTable{
		Columns:    DefaultContract().Names,
		Rows:       [][]float64{row},
		Index:      []int{0},
		Timestamps: []time.Time{time.Unix(0, 0)},
	}
	suite.NoError(suite.contract.ValidateTable(table))

	table.Rows = append(table.Rows, row[:3])
	table.Index = append(table.Index, 1)
	table.Timestamps = append(table.Timestamps, time.Unix(60, 0))

	err := suite.contract.ValidateTable(table)
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaMismatch))

	table.Rows[1] = row
	table.Labels = []int{1}

	err = suite.contract.ValidateTable(table)
	suite.True(errors.HasCode(err, errors.ErrCodeFeatureTableMismatch))
}

func (suite *ContractTestSuite) TestCompatibleWith() {
	patch := Contract{Version: "1.0.3", Names: DefaultContract().Names}
	suite.NoError(suite.contract.CompatibleWith(patch))

	major := Contract{Version: "2.0.0", Names: DefaultContract().Names}
	err := suite.contract.CompatibleWith(major)
	suite.True(errors.HasCode(err, errors.ErrCodeContractVersion))
	suite.Contains(err.Error(), "major version mismatch")

	drifted := Contract{Version: "1.1.0", Names: DefaultContract().Names[:26]}
	err = suite.contract.CompatibleWith(drifted)
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaMismatch))

	invalid := Contract{Version: "x", Names: DefaultContract().Names}
	suite.True(errors.HasCode(suite.contract.CompatibleWith(invalid), errors.ErrCodeContractVersion))
}

func (suite *ContractTestSuite) TestWriteAndReadContract() {
	path := SidecarPath(filepath.Join(suite.T().TempDir(), "features.parquet"))
	suite.Contains(path, "features.parquet.contract.yaml")

	suite.Require().NoError(WriteContract(path, suite.contract))

	loaded, err := ReadContract(path)
	suite.Require().NoError(err)
	suite.Equal(suite.contract, loaded)

	_, err = ReadContract(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeReadFailed))
}

func (suite *ContractTestSuite) TestParseRowPolicy() {
	policy, err := ParseRowPolicy("drop_incomplete")
	suite.NoError(err)
	suite.Equal(RowPolicyDropIncomplete, policy)

	policy, err = ParseRowPolicy("impute_column_mean")
	suite.NoError(err)
	suite.Equal(RowPolicyImputeColumnMean, policy)

	_, err = ParseRowPolicy("zero_fill")
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownRowPolicy))
}
