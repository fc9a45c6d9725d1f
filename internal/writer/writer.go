package writer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-features/internal/feature"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Metadata columns written in front of the feature columns of an export.
const (
	ColumnBarIndex  = "bar_index"
	ColumnTimestamp = "timestamp"
	ColumnRowID     = "row_id"
	ColumnTarget    = "target"
)

const insertBatchSize = 500

// Writer stages rows in an in-memory DuckDB database and copies them out as CSV or Parquet.
type Writer struct {
	db       *sql.DB
	logger   *logger.Logger
	sq       squirrel.StatementBuilderType
	progress bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithProgress shows a progress bar while rows are staged.
func WithProgress(enabled bool) Option {
	return func(w *Writer) {
		w.progress = enabled
	}
}

// NewWriter creates a writer backed by an in-memory DuckDB database.
func NewWriter(logger *logger.Logger, opts ...Option) (*Writer, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeWriteFailed, "failed to connect to database", err)
	}

	w := &Writer{
		db:       db,
		logger:   logger,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		progress: false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Close closes the staging database.
func (w *Writer) Close() error {
	return w.db.Close()
}

// WritePredictions writes a row_id,target CSV, one line per prediction, in input order.
func (w *Writer) WritePredictions(ctx context.Context, path string, rowIDs []int64, predictions []int) error {
	if len(rowIDs) != len(predictions) {
		return errors.Newf(errors.ErrCodeFeatureTableMismatch, "%d row ids for %d predictions", len(rowIDs), len(predictions))
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	_, err := w.db.ExecContext(ctx, `
		DROP TABLE IF EXISTS predictions;
		CREATE TABLE predictions (
			seq BIGINT,
			row_id BIGINT,
			target INTEGER
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create predictions table", err)
	}

	rows := make([][]any, len(rowIDs))
	for i := range rowIDs {
		rows[i] = []any{i, rowIDs[i], predictions[i]}
	}

	if err := w.insert(ctx, "predictions", []string{"seq", "row_id", "target"}, rows, "Staging predictions"); err != nil {
		return err
	}

	// Squirrel has no COPY, so the export is raw SQL
	_, err = w.db.ExecContext(ctx, fmt.Sprintf(
		`COPY (SELECT row_id, target FROM predictions ORDER BY seq) TO '%s' (FORMAT CSV, HEADER)`, escapeLiteral(path)))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write predictions to %s", path)
	}

	w.logger.Info("Wrote predictions", zap.String("path", path), zap.Int("rows", len(rowIDs)))

	return nil
}

// WriteFeatures exports a feature table as Parquet and writes the contract it was
// built with to the sidecar file next to it.
func (w *Writer) WriteFeatures(ctx context.Context, path string, table *types.FeatureTable, contract feature.Contract) error {
	if err := contract.ValidateTable(table); err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	definitions := []string{
		"seq BIGINT",
		quote(ColumnBarIndex) + " BIGINT",
		quote(ColumnTimestamp) + " TIMESTAMP",
	}
	columns := []string{"seq", quote(ColumnBarIndex), quote(ColumnTimestamp)}

	if table.RowIDs != nil {
		definitions = append(definitions, quote(ColumnRowID)+" BIGINT")
		columns = append(columns, quote(ColumnRowID))
	}

	if table.Labels != nil {
		definitions = append(definitions, quote(ColumnTarget)+" INTEGER")
		columns = append(columns, quote(ColumnTarget))
	}

	for _, name := range table.Columns {
		definitions = append(definitions, quote(name)+" DOUBLE")
		columns = append(columns, quote(name))
	}

	_, err := w.db.ExecContext(ctx, fmt.Sprintf(`
		DROP TABLE IF EXISTS features;
		CREATE TABLE features (%s);
	`, strings.Join(definitions, ", ")))
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create features table", err)
	}

	rows := make([][]any, table.Len())
	for i := range table.Rows {
		row := []any{i, table.Index[i], table.Timestamps[i]}

		if table.RowIDs != nil {
			row = append(row, table.RowIDs[i])
		}

		if table.Labels != nil {
			row = append(row, table.Labels[i])
		}

		for _, v := range table.Rows[i] {
			row = append(row, v)
		}

		rows[i] = row
	}

	if err := w.insert(ctx, "features", columns, rows, "Staging features"); err != nil {
		return err
	}

	_, err = w.db.ExecContext(ctx, fmt.Sprintf(
		`COPY (SELECT * EXCLUDE (seq) FROM features ORDER BY seq) TO '%s' (FORMAT PARQUET)`, escapeLiteral(path)))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write features to %s", path)
	}

	if err := feature.WriteContract(feature.SidecarPath(path), contract); err != nil {
		return err
	}

	w.logger.Info("Exported features",
		zap.String("path", path),
		zap.String("contract", feature.SidecarPath(path)),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)),
	)

	return nil
}

// ReadFeatureColumns returns the feature column names of an exported Parquet file,
// in file order, without the metadata columns.
func (w *Writer) ReadFeatureColumns(ctx context.Context, path string) ([]string, error) {
	rows, err := w.db.QueryContext(ctx, fmt.Sprintf(`DESCRIBE SELECT * FROM read_parquet('%s')`, escapeLiteral(path)))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	resultColumns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read %s", path)
	}

	var names []string

	for rows.Next() {
		values := make([]any, len(resultColumns))
		pointers := make([]any, len(resultColumns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to describe %s", path)
		}

		name := fmt.Sprint(values[0])
		switch name {
		case ColumnBarIndex, ColumnTimestamp, ColumnRowID, ColumnTarget:
			continue
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

// insert stages rows in batches inside one transaction.
func (w *Writer) insert(ctx context.Context, table string, columns []string, rows [][]any, description string) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var bar *progressbar.ProgressBar
	if w.progress {
		bar = progressbar.Default(int64(len(rows)))
		bar.Describe(description)
	}

	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))

		builder := w.sq.Insert(table).Columns(columns...)
		for _, row := range rows[start:end] {
			builder = builder.Values(row...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to build insert into %s", table)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to insert into %s", table)
		}

		if bar != nil {
			_ = bar.Add(end - start)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to commit %s", table)
	}

	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create directory for %s", path)
	}

	return nil
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
