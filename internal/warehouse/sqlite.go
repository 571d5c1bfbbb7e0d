//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/smartsales/salescube/internal/logging"
	"github.com/smartsales/salescube/internal/schema"
)

// Schema SQL for the embedded warehouse. Dates are stored in their
// canonical text form.
const sqliteSchemaSQL = `
CREATE TABLE customers (
    customer_id INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    region      TEXT,
    join_date   TEXT,
    status      TEXT,
    points      INTEGER
);

CREATE TABLE products (
    product_id   INTEGER PRIMARY KEY,
    product_name TEXT NOT NULL,
    category     TEXT,
    unit_price   REAL,
    stock        INTEGER,
    supplier     TEXT
);

CREATE TABLE sales (
    transaction_id      INTEGER PRIMARY KEY,
    sale_date           TEXT,
    customer_id         INTEGER NOT NULL REFERENCES customers (customer_id),
    product_id          INTEGER NOT NULL REFERENCES products (product_id),
    store_id            INTEGER,
    campaign_id         INTEGER,
    sale_amount         REAL,
    discount_percentage REAL,
    payment_method      TEXT
);

CREATE INDEX idx_sales_customer ON sales (customer_id);
CREATE INDEX idx_sales_product ON sales (product_id);
CREATE INDEX idx_sales_store ON sales (store_id);
`

const sqliteDropSQL = `
DROP TABLE IF EXISTS sales;
DROP TABLE IF EXISTS products;
DROP TABLE IF EXISTS customers;
`

// SQLiteStore is the default embedded warehouse, backed by a single
// database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the warehouse database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create warehouse dir: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse %s: %w", path, err)
	}
	// Serialize access through one connection; the batch pipeline has no
	// need for write concurrency and this keeps the swap isolated.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open warehouse %s: %w", path, err)
	}

	logging.Debug().Str("path", path).Msg("Opened sqlite warehouse")
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// ReadTable returns the named table's rows in primary-key order.
func (s *SQLiteStore) ReadTable(ctx context.Context, name string) (*schema.Table, error) {
	spec, err := schema.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(spec.ColumnNames(), ", "), spec.Name, spec.PrimaryKey)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", name, err)
	}
	defer rows.Close()

	tbl := schema.NewTable(name, spec.ColumnNames())
	targets, extract := newScanRow(spec)
	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", name, err)
		}
		tbl.Append(extract())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", name, err)
	}

	return tbl, nil
}

// ReplaceAll atomically replaces all three tables inside one transaction.
// SQLite DDL participates in transactions, so a failure at any point rolls
// the store back to its prior state.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, tables map[string]*schema.Table) error {
	if err := checkTables(tables); err != nil {
		return &WriteError{Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sqliteDropSQL); err != nil {
		return &WriteError{Err: fmt.Errorf("dropping old tables: %w", err)}
	}
	if _, err := tx.ExecContext(ctx, sqliteSchemaSQL); err != nil {
		return &WriteError{Err: fmt.Errorf("creating tables: %w", err)}
	}

	for _, name := range tableOrder {
		spec, _ := schema.Get(name)
		if err := sqliteInsert(ctx, tx, spec, tables[name]); err != nil {
			return &WriteError{Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Err: err}
	}

	logging.Info().
		Str("path", s.path).
		Int("customers", tables[schema.TableCustomers].Len()).
		Int("products", tables[schema.TableProducts].Len()).
		Int("sales", tables[schema.TableSales].Len()).
		Msg("Warehouse replaced")

	return nil
}

func sqliteInsert(ctx context.Context, tx *sql.Tx, spec *schema.TableSpec, tbl *schema.Table) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(spec.Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		spec.Name, strings.Join(spec.ColumnNames(), ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", spec.Name, err)
	}
	defer stmt.Close()

	for i, row := range tbl.Rows {
		if _, err := stmt.ExecContext(ctx, insertArgs(spec, row)...); err != nil {
			return fmt.Errorf("inserting %s row %d: %w", spec.Name, i, err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
