//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/smartsales/salescube/internal/schema"
	"github.com/smartsales/salescube/internal/testutil"
	"github.com/smartsales/salescube/internal/warehouse"
)

func openPostgresStore(t *testing.T) *warehouse.PostgresStore {
	t.Helper()
	baseConn := testutil.SkipIfNoPostgres(t)
	connStr, cleanup := testutil.CreateTestDB(t, baseConn)
	t.Cleanup(cleanup)

	store, err := warehouse.OpenPostgres(context.Background(), connStr)
	if err != nil {
		t.Fatalf("OpenPostgres failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresReplaceAndRead(t *testing.T) {
	ctx := context.Background()
	store := openPostgresStore(t)

	if err := store.ReplaceAll(ctx, fixtureTables()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := store.ReadTable(ctx, schema.TableCustomers)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Expected 2 customers, got %d", got.Len())
	}
	if got.Rows[0]["customer_id"] != int64(1001) {
		t.Errorf("Rows not in primary-key order: %v", got.Rows[0])
	}
}

func TestPostgresFailedSwapPreservesState(t *testing.T) {
	ctx := context.Background()
	store := openPostgresStore(t)

	if err := store.ReplaceAll(ctx, fixtureTables()); err != nil {
		t.Fatalf("Initial load failed: %v", err)
	}
	before := readAll(t, store)

	bad := fixtureTables()
	bad[schema.TableSales].Append(schema.Row{
		"transaction_id": int64(3), "sale_date": "2024-05-03",
		"customer_id": int64(9999), "product_id": int64(2001),
		"store_id": int64(403), "campaign_id": int64(0),
		"sale_amount": 5.0, "discount_percentage": float64(0), "payment_method": "cash",
	})

	err := store.ReplaceAll(ctx, bad)
	var werr *warehouse.WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("Expected *WriteError for orphan foreign key, got %v", err)
	}

	after := readAll(t, store)
	if !reflect.DeepEqual(before, after) {
		t.Error("Failed swap left the store in a mixed state")
	}
}
