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
	"sort"
	"strconv"
	"strings"

	"github.com/smartsales/salescube/internal/schema"
)

// measureColumn maps a measure to its flat-table column name.
func measureColumn(m Measure) string {
	switch m {
	case MeasureSum:
		return "sale_amount_sum"
	case MeasureMean:
		return "sale_amount_mean"
	case MeasureCount:
		return "transaction_id_count"
	case MeasureTransactionIDs:
		return "transaction_ids"
	default:
		return string(m)
	}
}

// Flatten renders the cube as a flat table of (dimension columns...,
// measure columns...), sorted by dimension tuple so repeated exports of
// the same cube are identical.
func (c *Cube) Flatten() *schema.Table {
	columns := append([]string(nil), c.Dimensions...)
	for _, m := range c.Measures {
		columns = append(columns, measureColumn(m))
	}

	tbl := schema.NewTable("cube", columns)
	cells := c.Cells()
	sort.SliceStable(cells, func(i, j int) bool {
		return lessKey(cells[i].Key, cells[j].Key)
	})

	for _, cell := range cells {
		row := make(schema.Row, len(columns))
		for i, d := range c.Dimensions {
			row[d] = cell.Key[i]
		}
		for _, m := range c.Measures {
			if m == MeasureTransactionIDs {
				row[measureColumn(m)] = joinIDs(cell.TransactionIDs)
				continue
			}
			row[measureColumn(m)] = cell.Value(m)
		}
		tbl.Append(row)
	}
	return tbl
}

// lessKey orders dimension tuples value by value, numerically where both
// sides are numeric.
func lessKey(a, b []any) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if cmp := compareValues(a[i], b[i]); cmp != 0 {
			return cmp < 0
		}
	}
	return len(a) < len(b)
}

func compareValues(a, b any) int {
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(dimString(a), dimString(b))
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ";")
}
