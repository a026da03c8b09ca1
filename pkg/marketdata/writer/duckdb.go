package writer

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/market-pulse/internal/types"
)

const tableName = "market_data"

// DuckDBWriter stages rows in an in-memory DuckDB table keyed by date and exports them as parquet.
// Rows already in the output file are kept unless a new row for the same date replaces them.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	kind       types.DataKind
	columns    []string
	outputPath string
}

// NewDuckDBWriter creates a new DuckDBWriter for one data kind.
func NewDuckDBWriter(outputPath string, kind types.DataKind) MarketDataWriter {
	return &DuckDBWriter{
		db:         nil,
		tx:         nil,
		stmt:       nil,
		kind:       kind,
		columns:    nil,
		outputPath: outputPath,
	}
}

// GetOutputPath returns the parquet file path.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}

// Initialize opens an in-memory database, creates the table, merges the existing output
// file when present, begins a transaction and prepares the upsert statement.
func (w *DuckDBWriter) Initialize() (err error) {
	w.columns, err = Columns(w.kind)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	w.db, err = sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	if _, err = w.db.Exec(w.createTableSQL()); err != nil {
		w.db.Close()

		return fmt.Errorf("failed to create table: %w", err)
	}

	if _, statErr := os.Stat(w.outputPath); statErr == nil {
		if err = w.loadExisting(); err != nil {
			w.db.Close()

			return fmt.Errorf("failed to load existing cache %s: %w", w.outputPath, err)
		}
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query, _, err := w.upsert().ToSql()
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return fmt.Errorf("failed to build insert statement: %w", err)
	}

	w.stmt, err = w.tx.Prepare(query)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	return nil
}

func (w *DuckDBWriter) createTableSQL() string {
	definitions := []string{"id TEXT", "date DATE PRIMARY KEY"}
	for _, column := range w.columns {
		definitions = append(definitions, column+" DOUBLE")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(definitions, ", "))
}

func (w *DuckDBWriter) allColumns() []string {
	return append([]string{"id", "date"}, w.columns...)
}

func (w *DuckDBWriter) loadExisting() error {
	query, args, err := sq.Insert(tableName).
		Columns(w.allColumns()...).
		Select(sq.Select(w.allColumns()...).From(fmt.Sprintf("read_parquet('%s')", quotePath(w.outputPath)))).
		Suffix("ON CONFLICT (date) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}

	_, err = w.db.Exec(query, args...)

	return err
}

func (w *DuckDBWriter) upsert() sq.InsertBuilder {
	assignments := []string{"id = excluded.id"}
	for _, column := range w.columns {
		assignments = append(assignments, fmt.Sprintf("%s = excluded.%s", column, column))
	}

	return sq.Insert(tableName).
		Columns(w.allColumns()...).
		Values(make([]any, len(w.columns)+2)...).
		Suffix("ON CONFLICT (date) DO UPDATE SET " + strings.Join(assignments, ", "))
}

// Write upserts one row using the prepared statement within the transaction.
func (w *DuckDBWriter) Write(record Record) error {
	if w.stmt == nil {
		return fmt.Errorf("writer not initialized or statement is nil")
	}

	if len(record.Values) != len(w.columns) {
		return fmt.Errorf("%s record has %d values, want %d", w.kind, len(record.Values), len(w.columns))
	}

	args := make([]any, 0, len(record.Values)+2)
	args = append(args, uuid.New().String(), record.Date.UTC())

	for _, value := range record.Values {
		args = append(args, value)
	}

	if _, err := w.stmt.Exec(args...); err != nil {
		return fmt.Errorf("failed to insert data: %w", err)
	}

	return nil
}

// Finalize commits the transaction and exports the rows, ordered by date, to a temporary
// parquet file that then replaces the output path.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", fmt.Errorf("writer not initialized or transaction is nil")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.tx = nil

	tempPath := fmt.Sprintf("%s.%s.tmp", w.outputPath, uuid.New().String())

	_, err = w.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM %s ORDER BY date ASC) TO '%s' (FORMAT PARQUET)`, tableName, quotePath(tempPath)))
	if err != nil {
		os.Remove(tempPath)

		return "", fmt.Errorf("failed to export to Parquet: %w", err)
	}

	if err = os.Rename(tempPath, w.outputPath); err != nil {
		os.Remove(tempPath)

		return "", fmt.Errorf("failed to replace %s: %w", w.outputPath, err)
	}

	return w.outputPath, nil
}

// Close releases the statement, rolls back an unfinished transaction and closes the database.
func (w *DuckDBWriter) Close() error {
	var closeErrors []error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close statement: %w", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to rollback transaction: %w", err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close db connection: %w", err))
		}

		w.db = nil
	}

	return errors.Join(closeErrors...)
}

var _ MarketDataWriter = (*DuckDBWriter)(nil)

// quotePath escapes a path for use inside a single-quoted SQL string literal.
func quotePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
