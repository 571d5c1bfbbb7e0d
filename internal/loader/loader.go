//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package loader writes cleaned tables into the warehouse, enforcing the
// cross-table constraints a single-table cleaner cannot check.
package loader

import (
	"context"
	"fmt"

	"github.com/smartsales/salescube/internal/logging"
	"github.com/smartsales/salescube/internal/schema"
	"github.com/smartsales/salescube/internal/warehouse"
)

// Rejection reasons for fact rows.
const (
	ReasonUnknownCustomer = "unknown_customer"
	ReasonUnknownProduct  = "unknown_product"
)

// RejectedRow records a row the loader excluded and why.
type RejectedRow struct {
	Row    schema.Row
	Reason string
}

// Result is the loader's audit report. It is complete even on a fully
// successful run, so silent data loss is never possible.
type Result struct {
	CustomersInserted int
	ProductsInserted  int
	SalesInserted     int

	// RowsRejected holds rows excluded per table, keyed by table name.
	RowsRejected map[string][]RejectedRow

	// DuplicatesDropped counts duplicate primary keys dropped per table.
	DuplicatesDropped map[string]int
}

// Load replaces the warehouse contents with the given cleaned tables.
// Dimensions load first; every sale row's foreign keys are resolved
// against the loaded dimensions and unresolvable rows are collected, not
// inserted. The swap is atomic: on a store write failure the prior
// warehouse state is preserved and the error propagates.
func Load(ctx context.Context, store warehouse.Store, customers, products, sales *schema.Table) (*Result, error) {
	result := &Result{
		RowsRejected:      make(map[string][]RejectedRow),
		DuplicatesDropped: make(map[string]int),
	}

	// Dimension dedup is normally the cleaner's job; re-checking here
	// keeps the store's uniqueness invariant independent of the caller.
	customers, dropped := dedupe(customers, schema.Customers.PrimaryKey)
	result.DuplicatesDropped[schema.TableCustomers] = dropped

	products, dropped = dedupe(products, schema.Products.PrimaryKey)
	result.DuplicatesDropped[schema.TableProducts] = dropped

	sales, dropped = dedupe(sales, schema.Sales.PrimaryKey)
	result.DuplicatesDropped[schema.TableSales] = dropped

	customerIDs := keySet(customers, schema.Customers.PrimaryKey)
	productIDs := keySet(products, schema.Products.PrimaryKey)

	facts := schema.NewTable(schema.TableSales, sales.Columns)
	for _, row := range sales.Rows {
		if !customerIDs[keyOf(row["customer_id"])] {
			result.RowsRejected[schema.TableSales] = append(
				result.RowsRejected[schema.TableSales],
				RejectedRow{Row: row, Reason: ReasonUnknownCustomer})
			continue
		}
		if !productIDs[keyOf(row["product_id"])] {
			result.RowsRejected[schema.TableSales] = append(
				result.RowsRejected[schema.TableSales],
				RejectedRow{Row: row, Reason: ReasonUnknownProduct})
			continue
		}
		facts.Append(row)
	}

	err := store.ReplaceAll(ctx, map[string]*schema.Table{
		schema.TableCustomers: customers,
		schema.TableProducts:  products,
		schema.TableSales:     facts,
	})
	if err != nil {
		return nil, fmt.Errorf("loading warehouse: %w", err)
	}

	result.CustomersInserted = customers.Len()
	result.ProductsInserted = products.Len()
	result.SalesInserted = facts.Len()

	logging.Info().
		Int("customers", result.CustomersInserted).
		Int("products", result.ProductsInserted).
		Int("sales", result.SalesInserted).
		Int("sales_rejected", len(result.RowsRejected[schema.TableSales])).
		Msg("Load complete")

	return result, nil
}

// RejectedCount returns the number of rejected rows for a table.
func (r *Result) RejectedCount(table string) int {
	return len(r.RowsRejected[table])
}

// dedupe drops duplicate primary keys, keeping the first occurrence in
// input order.
func dedupe(tbl *schema.Table, pk string) (*schema.Table, int) {
	out := schema.NewTable(tbl.Name, tbl.Columns)
	seen := make(map[string]bool, tbl.Len())
	dropped := 0
	for _, row := range tbl.Rows {
		key := keyOf(row[pk])
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		out.Append(row)
	}
	return out, dropped
}

// keySet collects the primary-key values of a dimension table.
func keySet(tbl *schema.Table, pk string) map[string]bool {
	set := make(map[string]bool, tbl.Len())
	for _, row := range tbl.Rows {
		set[keyOf(row[pk])] = true
	}
	return set
}

func keyOf(v any) string {
	return fmt.Sprintf("%v", v)
}
