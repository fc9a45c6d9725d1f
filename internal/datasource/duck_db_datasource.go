package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"go.uber.org/zap"
)

const inputView = "input_bars"

// DuckDBBarSource reads bars through an in-process DuckDB database.
type DuckDBBarSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBBarSource opens an in-memory DuckDB database.
func NewDuckDBBarSource(logger *logger.Logger) (*DuckDBBarSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBBarSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Load implements BarSource.
func (d *DuckDBBarSource) Load(ctx context.Context, path string, filter TimeFilter) (types.Dataset, error) {
	d.logger.Debug("Loading bars", zap.String("path", path))

	if err := d.initialize(ctx, path); err != nil {
		return types.Dataset{}, err
	}

	columns, err := d.describe(ctx)
	if err != nil {
		return types.Dataset{}, err
	}

	for _, required := range RequiredColumns {
		if !slices.Contains(columns, required) {
			return types.Dataset{}, errors.Newf(errors.ErrCodeMissingColumn, "input %s has no %s column", path, required)
		}
	}

	hasTarget := slices.Contains(columns, ColumnTarget)
	hasRowID := slices.Contains(columns, ColumnRowID)

	query, args, err := d.buildSelectQuery(filter, hasTarget, hasRowID)
	if err != nil {
		return types.Dataset{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return types.Dataset{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	var (
		bars   types.BarSeries
		labels []int
		rowIDs []int64
	)

	for rows.Next() {
		var (
			timestamp                      sql.NullInt64
			open, high, low, close, volume sql.NullFloat64
			target, rowID                  sql.NullInt64
		)

		dest := []any{&timestamp, &open, &high, &low, &close, &volume}
		if hasTarget {
			dest = append(dest, &target)
		}

		if hasRowID {
			dest = append(dest, &rowID)
		}

		if err := rows.Scan(dest...); err != nil {
			return types.Dataset{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan row %d of %s", len(bars), path)
		}

		if !timestamp.Valid || !open.Valid || !high.Valid || !low.Valid || !close.Valid || !volume.Valid {
			return types.Dataset{}, errors.Newf(errors.ErrCodeMalformedBar, "row %d of %s has an empty value", len(bars), path)
		}

		bars = append(bars, types.Bar{
			Timestamp: time.Unix(timestamp.Int64, 0).UTC(),
			Open:      open.Float64,
			High:      high.Float64,
			Low:       low.Float64,
			Close:     close.Float64,
			Volume:    volume.Float64,
		})

		if hasTarget {
			if !target.Valid || (target.Int64 != 0 && target.Int64 != 1) {
				return types.Dataset{}, errors.Newf(errors.ErrCodeInvalidLabel, "row %d of %s has target %d, expected 0 or 1", len(bars)-1, path, target.Int64)
			}

			labels = append(labels, int(target.Int64))
		}

		if hasRowID {
			if !rowID.Valid {
				return types.Dataset{}, errors.Newf(errors.ErrCodeMalformedBar, "row %d of %s has no row_id", len(bars)-1, path)
			}

			rowIDs = append(rowIDs, rowID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return types.Dataset{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}

	if err := bars.Validate(); err != nil {
		return types.Dataset{}, errors.NewPipelineError(errors.StageBarValidation, err)
	}

	dataset := types.Dataset{
		Bars:   bars,
		Labels: optional.None[[]int](),
		RowIDs: optional.None[[]int64](),
	}

	if hasTarget {
		dataset.Labels = optional.Some(labels)
	}

	if hasRowID {
		dataset.RowIDs = optional.Some(rowIDs)
	}

	d.logger.Info("Loaded bars",
		zap.String("path", path),
		zap.Int("bars", bars.Len()),
		zap.Bool("labels", hasTarget),
		zap.Bool("row_ids", hasRowID),
	)

	return dataset, nil
}

// Close implements BarSource.
func (d *DuckDBBarSource) Close() error {
	return d.db.Close()
}

// initialize (re)creates the input view over the file. Squirrel has no CREATE VIEW,
// so the statement is raw SQL.
func (d *DuckDBBarSource) initialize(ctx context.Context, path string) error {
	reader, err := readerFor(path)
	if err != nil {
		return err
	}

	if _, err := d.db.ExecContext(ctx, fmt.Sprintf("DROP VIEW IF EXISTS %s;", inputView)); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	query := fmt.Sprintf(`
		CREATE VIEW %s AS
		SELECT * FROM %s('%s');
	`, inputView, reader, escapeLiteral(path))

	if _, err := d.db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open %s", path)
	}

	return nil
}

// describe returns the lower-cased column names of the input view.
func (d *DuckDBBarSource) describe(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("DESCRIBE %s;", inputView))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe input", err)
	}
	defer rows.Close()

	resultColumns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe input", err)
	}

	var names []string

	for rows.Next() {
		values := make([]any, len(resultColumns))
		pointers := make([]any, len(resultColumns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan input description", err)
		}

		// column_name is the first column of DESCRIBE
		names = append(names, strings.ToLower(fmt.Sprint(values[0])))
	}

	return names, rows.Err()
}

func (d *DuckDBBarSource) buildSelectQuery(filter TimeFilter, hasTarget, hasRowID bool) (string, []any, error) {
	columns := []string{
		`CAST("timestamp" AS BIGINT)`,
		"CAST(open AS DOUBLE)",
		"CAST(high AS DOUBLE)",
		"CAST(low AS DOUBLE)",
		`CAST("close" AS DOUBLE)`,
		"CAST(volume AS DOUBLE)",
	}

	if hasTarget {
		columns = append(columns, "CAST(target AS BIGINT)")
	}

	if hasRowID {
		columns = append(columns, "CAST(row_id AS BIGINT)")
	}

	conditions := squirrel.And{}

	if filter.Start.IsSome() {
		conditions = append(conditions, squirrel.GtOrEq{`"timestamp"`: filter.Start.Unwrap().Unix()})
	}

	if filter.End.IsSome() {
		conditions = append(conditions, squirrel.LtOrEq{`"timestamp"`: filter.End.Unwrap().Unix()})
	}

	builder := d.sq.Select(columns...).From(inputView)
	if len(conditions) > 0 {
		builder = builder.Where(conditions)
	}

	return builder.ToSql()
}

func readerFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "read_csv_auto", nil
	case ".parquet":
		return "read_parquet", nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported input format %q, expected .csv or .parquet", filepath.Ext(path))
	}
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
