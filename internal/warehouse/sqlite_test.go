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
	"path/filepath"
	"reflect"
	"testing"

	"github.com/smartsales/salescube/internal/schema"
	"github.com/smartsales/salescube/internal/warehouse"
)

func customersFixture() *schema.Table {
	tbl := schema.NewTable(schema.TableCustomers, schema.Customers.ColumnNames())
	tbl.Append(schema.Row{
		"customer_id": int64(1001), "name": "Alice", "region": "east",
		"join_date": "2024-01-15", "status": "active", "points": int64(120),
	})
	tbl.Append(schema.Row{
		"customer_id": int64(1002), "name": "Bob", "region": "west",
		"join_date": "2024-02-20", "status": "inactive", "points": int64(40),
	})
	return tbl
}

func productsFixture() *schema.Table {
	tbl := schema.NewTable(schema.TableProducts, schema.Products.ColumnNames())
	tbl.Append(schema.Row{
		"product_id": int64(2001), "product_name": "hammer", "category": "tools",
		"unit_price": 9.99, "stock": int64(50), "supplier": "acme",
	})
	return tbl
}

func salesFixture() *schema.Table {
	tbl := schema.NewTable(schema.TableSales, schema.Sales.ColumnNames())
	tbl.Append(schema.Row{
		"transaction_id": int64(1), "sale_date": "2024-05-01",
		"customer_id": int64(1001), "product_id": int64(2001),
		"store_id": int64(403), "campaign_id": int64(0),
		"sale_amount": 19.98, "discount_percentage": float64(0), "payment_method": "cash",
	})
	tbl.Append(schema.Row{
		"transaction_id": int64(2), "sale_date": "2024-05-02",
		"customer_id": int64(1002), "product_id": int64(2001),
		"store_id": int64(404), "campaign_id": int64(7),
		"sale_amount": 9.99, "discount_percentage": float64(10), "payment_method": "debit",
	})
	return tbl
}

func fixtureTables() map[string]*schema.Table {
	return map[string]*schema.Table{
		schema.TableCustomers: customersFixture(),
		schema.TableProducts:  productsFixture(),
		schema.TableSales:     salesFixture(),
	}
}

func openTestStore(t *testing.T) *warehouse.SQLiteStore {
	t.Helper()
	store, err := warehouse.OpenSQLite(filepath.Join(t.TempDir(), "warehouse", "smart_sales.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteReplaceAndRead(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.ReplaceAll(ctx, fixtureTables()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := store.ReadTable(ctx, schema.TableSales)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Expected 2 sales rows, got %d", got.Len())
	}
	if got.Rows[0]["transaction_id"] != int64(1) || got.Rows[1]["transaction_id"] != int64(2) {
		t.Errorf("Rows not in primary-key order: %v", got.Rows)
	}
	if got.Rows[1]["payment_method"] != "debit" {
		t.Errorf("Value round trip failed: %v", got.Rows[1]["payment_method"])
	}
	if got.Rows[1]["sale_amount"] != 9.99 {
		t.Errorf("Float round trip failed: %v", got.Rows[1]["sale_amount"])
	}
}

func TestSQLiteIdempotentReload(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.ReplaceAll(ctx, fixtureTables()); err != nil {
		t.Fatalf("First ReplaceAll failed: %v", err)
	}
	first := readAll(t, store)

	if err := store.ReplaceAll(ctx, fixtureTables()); err != nil {
		t.Fatalf("Second ReplaceAll failed: %v", err)
	}
	second := readAll(t, store)

	if !reflect.DeepEqual(first, second) {
		t.Error("Reloading identical input changed the store contents")
	}
}

func readAll(t *testing.T, store warehouse.Store) map[string]*schema.Table {
	t.Helper()
	out := make(map[string]*schema.Table)
	for _, name := range []string{schema.TableCustomers, schema.TableProducts, schema.TableSales} {
		tbl, err := store.ReadTable(context.Background(), name)
		if err != nil {
			t.Fatalf("ReadTable(%s) failed: %v", name, err)
		}
		out[name] = tbl
	}
	return out
}

func TestSQLiteRejectsForeignKeyViolation(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

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
	if err == nil {
		t.Fatal("Expected write error for orphan foreign key")
	}
	var werr *warehouse.WriteError
	if !errors.As(err, &werr) {
		t.Errorf("Expected *WriteError, got %T", err)
	}

	// Prior state must be fully preserved.
	after := readAll(t, store)
	if !reflect.DeepEqual(before, after) {
		t.Error("Failed swap left the store in a mixed state")
	}
}

func TestSQLiteRejectsDuplicatePrimaryKey(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	bad := fixtureTables()
	dup := bad[schema.TableCustomers].Rows[0].Clone()
	dup["name"] = "Alice Again"
	bad[schema.TableCustomers].Append(dup)

	if err := store.ReplaceAll(ctx, bad); err == nil {
		t.Fatal("Expected write error for duplicate primary key")
	}
}

func TestSQLiteReplaceRequiresAllTables(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	partial := fixtureTables()
	delete(partial, schema.TableProducts)

	if err := store.ReplaceAll(ctx, partial); err == nil {
		t.Fatal("Expected error for partial table set")
	}
}

func TestSQLiteReadUnknownTable(t *testing.T) {
	store := openTestStore(t)

	_, err := store.ReadTable(context.Background(), "stores")
	if !errors.Is(err, warehouse.ErrUnknownTable) {
		t.Errorf("Expected ErrUnknownTable, got %v", err)
	}
}

func TestOpenDriverSelection(t *testing.T) {
	ctx := context.Background()

	store, err := warehouse.Open(ctx, warehouse.DriverSQLite, filepath.Join(t.TempDir(), "w.db"))
	if err != nil {
		t.Fatalf("Open sqlite failed: %v", err)
	}
	store.Close()

	if _, err := warehouse.Open(ctx, "oracle", ""); err == nil {
		t.Error("Expected error for unknown driver")
	}
}
