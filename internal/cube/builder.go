//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cube

import (
	"context"
	"fmt"
	"time"

	"github.com/smartsales/salescube/internal/logging"
	"github.com/smartsales/salescube/internal/schema"
	"github.com/smartsales/salescube/internal/warehouse"
)

// Calendar dimensions derived from sale_date at build time.
const (
	DimDayOfWeek = "day_of_week"
	DimMonth     = "month"
	DimYear      = "year"
)

// Build reads the warehouse and produces a cube grouped by the given
// dimensions. Dimensions may name any sales column, any customer or
// product attribute, or a derived calendar attribute. Sales rows join the
// dimensions on their keys; the loader already excluded unresolvable
// rows, so the inner join drops nothing.
func Build(ctx context.Context, store warehouse.Store, dims []string, measures []Measure) (*Cube, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("cube requires at least one dimension")
	}

	sales, err := store.ReadTable(ctx, schema.TableSales)
	if err != nil {
		return nil, fmt.Errorf("building cube: %w", err)
	}
	customers, err := store.ReadTable(ctx, schema.TableCustomers)
	if err != nil {
		return nil, fmt.Errorf("building cube: %w", err)
	}
	products, err := store.ReadTable(ctx, schema.TableProducts)
	if err != nil {
		return nil, fmt.Errorf("building cube: %w", err)
	}

	for _, d := range dims {
		if !dimensionKnown(d) {
			return nil, &QueryError{Op: "build", Dimension: d}
		}
	}
	for _, m := range measures {
		if _, err := ParseMeasure(string(m)); err != nil {
			return nil, fmt.Errorf("building cube: %w", err)
		}
	}

	customerByID := indexByKey(customers, schema.Customers.PrimaryKey)
	productByID := indexByKey(products, schema.Products.PrimaryKey)

	c := newCube(dims, measures)
	key := make([]any, len(dims))
	for _, sale := range sales.Rows {
		cust, ok := customerByID[dimString(sale["customer_id"])]
		if !ok {
			return nil, fmt.Errorf("building cube: sale %v references missing customer %v",
				sale["transaction_id"], sale["customer_id"])
		}
		prod, ok := productByID[dimString(sale["product_id"])]
		if !ok {
			return nil, fmt.Errorf("building cube: sale %v references missing product %v",
				sale["transaction_id"], sale["product_id"])
		}

		for i, d := range dims {
			v, err := dimensionValue(d, sale, cust, prod)
			if err != nil {
				return nil, err
			}
			key[i] = v
		}

		amount, _ := sale["sale_amount"].(float64)
		txID, _ := sale["transaction_id"].(int64)
		c.add(key, amount, txID)
	}

	logging.Debug().
		Strs("dimensions", dims).
		Int("cells", c.Len()).
		Int("facts", sales.Len()).
		Msg("Cube built")

	return c, nil
}

// dimensionKnown reports whether a name resolves to a fact column, a
// dimension attribute, or a derived calendar attribute.
func dimensionKnown(name string) bool {
	switch name {
	case DimDayOfWeek, DimMonth, DimYear:
		return true
	}
	if _, ok := schema.Sales.Column(name); ok {
		return true
	}
	if _, ok := schema.Customers.Column(name); ok {
		return true
	}
	if _, ok := schema.Products.Column(name); ok {
		return true
	}
	return false
}

// dimensionValue resolves a dimension name for one joined fact row. Fact
// columns win over dimension attributes so a group-by on customer_id uses
// the fact's own key.
func dimensionValue(name string, sale, cust, prod schema.Row) (any, error) {
	switch name {
	case DimDayOfWeek, DimMonth, DimYear:
		dateStr, _ := sale["sale_date"].(string)
		t, err := time.Parse(schema.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("sale %v has non-canonical sale_date %q",
				sale["transaction_id"], dateStr)
		}
		switch name {
		case DimDayOfWeek:
			return t.Weekday().String(), nil
		case DimMonth:
			return int64(t.Month()), nil
		default:
			return int64(t.Year()), nil
		}
	}

	if v, ok := sale[name]; ok {
		return v, nil
	}
	if v, ok := cust[name]; ok {
		return v, nil
	}
	if v, ok := prod[name]; ok {
		return v, nil
	}
	return nil, &QueryError{Op: "build", Dimension: name}
}

// indexByKey builds a primary-key lookup for a dimension table.
func indexByKey(tbl *schema.Table, pk string) map[string]schema.Row {
	idx := make(map[string]schema.Row, tbl.Len())
	for _, row := range tbl.Rows {
		idx[dimString(row[pk])] = row
	}
	return idx
}
