//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package loader_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/smartsales/salescube/internal/loader"
	"github.com/smartsales/salescube/internal/schema"
	"github.com/smartsales/salescube/internal/warehouse"
)

func newStore(t *testing.T) warehouse.Store {
	t.Helper()
	store, err := warehouse.OpenSQLite(filepath.Join(t.TempDir(), "smart_sales.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func customer(id int64, name string) schema.Row {
	return schema.Row{
		"customer_id": id, "name": name, "region": "east",
		"join_date": "2024-01-01", "status": "active", "points": int64(0),
	}
}

func product(id int64, name string) schema.Row {
	return schema.Row{
		"product_id": id, "product_name": name, "category": "tools",
		"unit_price": 9.99, "stock": int64(10), "supplier": "acme",
	}
}

func sale(txID, custID, prodID int64, amount float64) schema.Row {
	return schema.Row{
		"transaction_id": txID, "sale_date": "2024-05-01",
		"customer_id": custID, "product_id": prodID,
		"store_id": int64(403), "campaign_id": int64(0),
		"sale_amount": amount, "discount_percentage": float64(0),
		"payment_method": "cash",
	}
}

func tableOf(spec *schema.TableSpec, rows ...schema.Row) *schema.Table {
	tbl := schema.NewTable(spec.Name, spec.ColumnNames())
	for _, r := range rows {
		tbl.Append(r)
	}
	return tbl
}

func TestLoadRejectsOrphanSales(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	customers := tableOf(schema.Customers, customer(1, "Alice"), customer(2, "Bob"))
	products := tableOf(schema.Products, product(10, "hammer"))
	sales := tableOf(schema.Sales,
		sale(100, 1, 10, 5.0),
		sale(101, 999, 10, 6.0), // unknown customer
		sale(102, 2, 888, 7.0),  // unknown product
		sale(103, 2, 10, 8.0),
	)

	result, err := loader.Load(ctx, store, customers, products, sales)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.SalesInserted != 2 {
		t.Errorf("SalesInserted = %d, want 2", result.SalesInserted)
	}
	if result.RejectedCount(schema.TableSales) != 2 {
		t.Fatalf("Expected 2 rejected sales, got %d", result.RejectedCount(schema.TableSales))
	}

	reasons := map[string]int{}
	for _, rej := range result.RowsRejected[schema.TableSales] {
		reasons[rej.Reason]++
	}
	if reasons[loader.ReasonUnknownCustomer] != 1 || reasons[loader.ReasonUnknownProduct] != 1 {
		t.Errorf("Unexpected rejection reasons: %v", reasons)
	}

	// Rejected rows must never appear in the store.
	stored, err := store.ReadTable(ctx, schema.TableSales)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	for _, row := range stored.Rows {
		if row["transaction_id"] == int64(101) || row["transaction_id"] == int64(102) {
			t.Errorf("Orphan sale row persisted: %v", row)
		}
	}
}

func TestLoadDeduplicatesDimensions(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	customers := tableOf(schema.Customers,
		customer(1005, "First Occurrence"),
		customer(1005, "Second Occurrence"),
		customer(1006, "Bob"),
	)
	products := tableOf(schema.Products, product(10, "hammer"))
	sales := tableOf(schema.Sales, sale(100, 1005, 10, 5.0))

	result, err := loader.Load(ctx, store, customers, products, sales)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.CustomersInserted != 2 {
		t.Errorf("CustomersInserted = %d, want 2", result.CustomersInserted)
	}
	if result.DuplicatesDropped[schema.TableCustomers] != 1 {
		t.Errorf("DuplicatesDropped = %d, want 1", result.DuplicatesDropped[schema.TableCustomers])
	}

	stored, _ := store.ReadTable(ctx, schema.TableCustomers)
	for _, row := range stored.Rows {
		if row["customer_id"] == int64(1005) && row["name"] != "First Occurrence" {
			t.Errorf("Keep-first policy violated: %v", row["name"])
		}
	}
}

func TestLoadIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	load := func() *loader.Result {
		customers := tableOf(schema.Customers, customer(1, "Alice"))
		products := tableOf(schema.Products, product(10, "hammer"))
		sales := tableOf(schema.Sales, sale(100, 1, 10, 5.0))
		result, err := loader.Load(ctx, store, customers, products, sales)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		return result
	}

	first := load()
	firstTables := map[string]*schema.Table{}
	for _, name := range []string{schema.TableCustomers, schema.TableProducts, schema.TableSales} {
		tbl, _ := store.ReadTable(ctx, name)
		firstTables[name] = tbl
	}

	second := load()
	for _, name := range []string{schema.TableCustomers, schema.TableProducts, schema.TableSales} {
		tbl, _ := store.ReadTable(ctx, name)
		if !reflect.DeepEqual(firstTables[name], tbl) {
			t.Errorf("Reload changed table %s", name)
		}
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Reload produced a different result report")
	}
}

func TestLoadReportsZeroCountsOnCleanRun(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	result, err := loader.Load(ctx, store,
		tableOf(schema.Customers, customer(1, "Alice")),
		tableOf(schema.Products, product(10, "hammer")),
		tableOf(schema.Sales, sale(100, 1, 10, 5.0)),
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.RejectedCount(schema.TableSales) != 0 {
		t.Error("Clean run should report zero rejections")
	}
	if result.DuplicatesDropped[schema.TableCustomers] != 0 {
		t.Error("Clean run should report zero duplicates")
	}
}
