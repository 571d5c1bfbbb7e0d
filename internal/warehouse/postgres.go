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
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartsales/salescube/internal/logging"
	"github.com/smartsales/salescube/internal/schema"
)

const postgresSchemaSQL = `
CREATE TABLE customers (
    customer_id BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    region      TEXT,
    join_date   TEXT,
    status      TEXT,
    points      BIGINT
);

CREATE TABLE products (
    product_id   BIGINT PRIMARY KEY,
    product_name TEXT NOT NULL,
    category     TEXT,
    unit_price   DOUBLE PRECISION,
    stock        BIGINT,
    supplier     TEXT
);

CREATE TABLE sales (
    transaction_id      BIGINT PRIMARY KEY,
    sale_date           TEXT,
    customer_id         BIGINT NOT NULL REFERENCES customers (customer_id),
    product_id          BIGINT NOT NULL REFERENCES products (product_id),
    store_id            BIGINT,
    campaign_id         BIGINT,
    sale_amount         DOUBLE PRECISION,
    discount_percentage DOUBLE PRECISION,
    payment_method      TEXT
);

CREATE INDEX idx_sales_customer ON sales (customer_id);
CREATE INDEX idx_sales_product ON sales (product_id);
CREATE INDEX idx_sales_store ON sales (store_id);
`

const postgresDropSQL = `
DROP TABLE IF EXISTS sales;
DROP TABLE IF EXISTS products;
DROP TABLE IF EXISTS customers;
`

// PostgresStore is a warehouse backed by a shared PostgreSQL database,
// for deployments where BI tools read the star schema over the network.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the warehouse database.
func OpenPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	// Batch pipeline: a small pool is plenty.
	config.MaxConns = 4
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Debug().
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Msg("Connected to postgres warehouse")

	return &PostgresStore{pool: pool}, nil
}

// ReadTable returns the named table's rows in primary-key order.
func (s *PostgresStore) ReadTable(ctx context.Context, name string) (*schema.Table, error) {
	spec, err := schema.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(spec.ColumnNames(), ", "), spec.Name, spec.PrimaryKey)

	rows, err := s.pool.Query(ctx, query)
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

// ReplaceAll rebuilds all three tables in one transaction. PostgreSQL DDL
// is transactional, so readers see either the old or the new table set.
func (s *PostgresStore) ReplaceAll(ctx context.Context, tables map[string]*schema.Table) error {
	if err := checkTables(tables); err != nil {
		return &WriteError{Err: err}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &WriteError{Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, postgresDropSQL); err != nil {
		return &WriteError{Err: fmt.Errorf("dropping old tables: %w", err)}
	}
	if _, err := tx.Exec(ctx, postgresSchemaSQL); err != nil {
		return &WriteError{Err: fmt.Errorf("creating tables: %w", err)}
	}

	for _, name := range tableOrder {
		spec, _ := schema.Get(name)
		tbl := tables[name]

		src := make([][]any, len(tbl.Rows))
		for i, row := range tbl.Rows {
			src[i] = insertArgs(spec, row)
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{spec.Name}, spec.ColumnNames(), pgx.CopyFromRows(src))
		if err != nil {
			return &WriteError{Err: fmt.Errorf("copying into %s: %w", spec.Name, err)}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &WriteError{Err: err}
	}

	logging.Info().
		Int("customers", tables[schema.TableCustomers].Len()).
		Int("products", tables[schema.TableProducts].Len()).
		Int("sales", tables[schema.TableSales].Len()).
		Msg("Warehouse replaced")

	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
