package provider

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/market-pulse/internal/normalize"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

const (
	// CSVExtension is the extension of hand-maintained cache files.
	CSVExtension = ".csv"
	// ParquetExtension is the extension of cache files written by the cache command.
	ParquetExtension = ".parquet"
	// BreadthFileName is the base name of the breadth cache file.
	BreadthFileName = "breadth"
)

// CacheFileName returns the base name, without extension, of the cache file for a kind and symbol.
// Price files are named after the upper-cased symbol, volatility files drop the index caret
// so ^VIX maps to VIX, and breadth always uses a single file.
func CacheFileName(kind types.DataKind, symbol string) string {
	switch kind {
	case types.DataKindBreadth:
		return BreadthFileName
	case types.DataKindVolatility:
		return strings.ToUpper(strings.TrimPrefix(symbol, "^"))
	default:
		return strings.ToUpper(symbol)
	}
}

// LocalFile reads a cache file from the data directory.
// A CSV file takes precedence over a parquet file of the same name.
type LocalFile[T any] struct {
	dataDir   string
	kind      types.DataKind
	normalize func(normalize.Table) (series.Series[T], error)
}

// NewLocalPriceProvider creates a local price provider reading <SYMBOL>.csv or <SYMBOL>.parquet.
func NewLocalPriceProvider(dataDir string) *LocalFile[types.PriceBar] {
	return &LocalFile[types.PriceBar]{dataDir: dataDir, kind: types.DataKindPrice, normalize: normalize.Price}
}

// NewLocalVolatilityProvider creates a local volatility provider reading VIX.csv or VIX.parquet.
func NewLocalVolatilityProvider(dataDir string) *LocalFile[float64] {
	return &LocalFile[float64]{dataDir: dataDir, kind: types.DataKindVolatility, normalize: normalize.Volatility}
}

// NewLocalBreadthProvider creates a local breadth provider reading breadth.csv or breadth.parquet.
func NewLocalBreadthProvider(dataDir string) *LocalFile[types.BreadthBar] {
	return &LocalFile[types.BreadthBar]{dataDir: dataDir, kind: types.DataKindBreadth, normalize: normalize.Breadth}
}

// Name returns the provider name.
func (p *LocalFile[T]) Name() string {
	return string(ProviderLocal)
}

// FetchDaily reads and normalizes the cache file for symbol.
func (p *LocalFile[T]) FetchDaily(ctx context.Context, symbol string) (series.Series[T], error) {
	base := filepath.Join(p.dataDir, CacheFileName(p.kind, symbol))

	csvPath := base + CSVExtension
	if fileExists(csvPath) {
		table, err := readCSVFile(csvPath)
		if err != nil {
			return series.Series[T]{}, err
		}

		return p.finish(table, csvPath)
	}

	parquetPath := base + ParquetExtension
	if fileExists(parquetPath) {
		table, err := readParquetFile(ctx, parquetPath)
		if err != nil {
			return series.Series[T]{}, err
		}

		return p.finish(table, parquetPath)
	}

	return series.Series[T]{}, errors.Newf(errors.ErrCodeNotFound, "missing local file: %s", csvPath)
}

func (p *LocalFile[T]) finish(table normalize.Table, path string) (series.Series[T], error) {
	result, err := p.normalize(table)
	if err != nil {
		return series.Series[T]{}, err
	}

	if result.IsEmpty() {
		return series.Series[T]{}, errors.Newf(errors.ErrCodeEmptyResult, "no rows in %s", path)
	}

	return result, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

func readCSVFile(path string) (normalize.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return normalize.Table{}, errors.Wrapf(errors.ErrCodeNotFound, err, "failed to open %s", path)
	}
	defer file.Close()

	return normalize.ReadCSV(file)
}

// readParquetFile loads every column of a parquet file through an in-memory DuckDB.
func readParquetFile(ctx context.Context, path string) (normalize.Table, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return normalize.Table{}, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}
	defer db.Close()

	query, args, err := sq.Select("*").
		From(fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(path, "'", "''"))).
		ToSql()
	if err != nil {
		return normalize.Table{}, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return normalize.Table{}, errors.Wrapf(errors.ErrCodeSchema, err, "failed to read %s", path)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return normalize.Table{}, errors.Wrapf(errors.ErrCodeSchema, err, "failed to read columns of %s", path)
	}

	table := normalize.Table{Columns: columns, Rows: nil}

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return normalize.Table{}, errors.Wrapf(errors.ErrCodeSchema, err, "failed to scan %s", path)
		}

		row := make([]string, len(values))
		for i, value := range values {
			row[i] = cellString(value)
		}

		table.Rows = append(table.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return normalize.Table{}, errors.Wrapf(errors.ErrCodeSchema, err, "failed to iterate %s", path)
	}

	return table, nil
}

// cellString renders a scanned DuckDB value the way it would appear in a CSV cell.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.UTC().Format(series.DateLayout)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case []byte:
		return string(v)
	case interface{ Float64() float64 }:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
