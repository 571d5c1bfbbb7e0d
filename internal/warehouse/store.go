//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse persists the star schema: the sales fact table and the
// customer and product dimensions. Implementations enforce primary-key
// uniqueness and the fact foreign keys at write time, and replace the
// whole table set atomically.
package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartsales/salescube/internal/schema"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownTable is returned when a read names a table outside the star
// schema.
var ErrUnknownTable = errors.New("unknown warehouse table")

// WriteError wraps a failure of the atomic table swap. When it is
// returned, the prior store state has been preserved.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("warehouse write failed, prior state preserved: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// tableOrder is the load order: dimensions first, so the fact table's
// foreign keys resolve at insert time.
var tableOrder = []string{schema.TableCustomers, schema.TableProducts, schema.TableSales}

// Store is the persisted warehouse. ReplaceAll is atomic with respect to
// concurrent readers: a reader observes either the fully old or fully new
// table set, never a mix.
type Store interface {
	// ReadTable returns the named table's rows in primary-key order.
	ReadTable(ctx context.Context, name string) (*schema.Table, error)

	// ReplaceAll atomically replaces the entire table set. All three
	// star-schema tables must be present in the mapping.
	ReplaceAll(ctx context.Context, tables map[string]*schema.Table) error

	// Close releases any held resources.
	Close() error
}

// Open creates a store for the given driver. The dsn is a file path for
// sqlite and a connection string for postgres.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown warehouse driver: %s", driver)
	}
}

// checkTables verifies that a ReplaceAll mapping covers the full schema.
func checkTables(tables map[string]*schema.Table) error {
	for _, name := range tableOrder {
		if tables[name] == nil {
			return fmt.Errorf("replace requires table %q", name)
		}
	}
	if len(tables) != len(tableOrder) {
		for name := range tables {
			if _, err := schema.Get(name); err != nil {
				return fmt.Errorf("%w: %s", ErrUnknownTable, name)
			}
		}
	}
	return nil
}
