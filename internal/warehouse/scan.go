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
	"database/sql"

	"github.com/smartsales/salescube/internal/schema"
)

// newScanRow builds scan targets typed per the table spec, plus an extract
// function that turns a scanned record into a row with canonical value
// types (int64, float64, string, nil).
func newScanRow(spec *schema.TableSpec) ([]any, func() schema.Row) {
	ints := make([]sql.NullInt64, len(spec.Columns))
	floats := make([]sql.NullFloat64, len(spec.Columns))
	strs := make([]sql.NullString, len(spec.Columns))

	targets := make([]any, len(spec.Columns))
	for i, col := range spec.Columns {
		switch col.Type {
		case schema.TypeInt:
			targets[i] = &ints[i]
		case schema.TypeFloat:
			targets[i] = &floats[i]
		default:
			targets[i] = &strs[i]
		}
	}

	extract := func() schema.Row {
		row := make(schema.Row, len(spec.Columns))
		for i, col := range spec.Columns {
			switch col.Type {
			case schema.TypeInt:
				if ints[i].Valid {
					row[col.Name] = ints[i].Int64
				} else {
					row[col.Name] = nil
				}
			case schema.TypeFloat:
				if floats[i].Valid {
					row[col.Name] = floats[i].Float64
				} else {
					row[col.Name] = nil
				}
			default:
				if strs[i].Valid {
					row[col.Name] = strs[i].String
				} else {
					row[col.Name] = nil
				}
			}
		}
		return row
	}

	return targets, extract
}

// insertArgs renders a row's values in spec column order for binding.
func insertArgs(spec *schema.TableSpec, row schema.Row) []any {
	args := make([]any, len(spec.Columns))
	for i, col := range spec.Columns {
		args[i] = row[col.Name]
	}
	return args
}
