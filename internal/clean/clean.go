//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package clean normalizes and validates one raw table at a time against
// its schema spec. Cleaning is purely functional: the only outputs are the
// cleaned table and the report.
package clean

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smartsales/salescube/internal/schema"
)

// Accepted input layouts for date columns. Output is always
// schema.DateFormat regardless of which layout matched.
var dateLayouts = []string{
	schema.DateFormat,
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Clean validates and normalizes a raw table against its spec. Rows that
// fail a required/type/enum/date check, or a range check on a reject-policy
// column, are excluded and recorded. Duplicate primary keys keep the first
// occurrence in input order.
func Clean(tbl *schema.Table, spec *schema.TableSpec) (*schema.Table, *Report) {
	report := NewReport(spec.Name, tbl.Len())
	out := schema.NewTable(spec.Name, spec.ColumnNames())

	seen := make(map[string]bool, tbl.Len())
	for i, raw := range tbl.Rows {
		row, rej := cleanRow(raw, spec, i, report)
		if rej != nil {
			report.Rejections = append(report.Rejections, *rej)
			continue
		}

		key := keyString(row[spec.PrimaryKey])
		if seen[key] {
			report.DuplicatesDropped++
			continue
		}
		seen[key] = true
		out.Append(row)
	}

	report.RowsOut = out.Len()
	return out, report
}

// cleanRow cleans a single row. It returns the cleaned row, or a rejection
// describing the first failing column.
func cleanRow(raw schema.Row, spec *schema.TableSpec, index int, report *Report) (schema.Row, *Rejection) {
	row := make(schema.Row, len(spec.Columns))

	for i := range spec.Columns {
		col := &spec.Columns[i]
		text, present := cellText(raw, col.Name)

		if !present {
			if col.Required {
				return nil, &Rejection{Row: index, Column: col.Name, Reason: ReasonMissingRequired}
			}
			if col.Default != nil {
				row[col.Name] = col.Default
				report.Coerced(col.Name)
			} else {
				row[col.Name] = nil
			}
			continue
		}

		value, rej := coerce(text, col, index)
		if rej != nil {
			return nil, rej
		}

		value, clamped, rej := checkRange(value, col, index, text)
		if rej != nil {
			return nil, rej
		}
		if clamped {
			report.Coerced(col.Name)
		}

		row[col.Name] = value
	}

	return row, nil
}

// coerce converts trimmed text into the column's typed value.
func coerce(text string, col *schema.ColumnSpec, index int) (any, *Rejection) {
	switch col.Type {
	case schema.TypeString:
		return text, nil

	case schema.TypeEnum:
		v := strings.ToLower(text)
		for _, allowed := range col.Enum {
			if v == allowed {
				return v, nil
			}
		}
		return nil, &Rejection{Row: index, Column: col.Name, Reason: ReasonInvalidEnum, Value: text}

	case schema.TypeInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, &Rejection{Row: index, Column: col.Name, Reason: ReasonBadType, Value: text}
		}
		return n, nil

	case schema.TypeFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &Rejection{Row: index, Column: col.Name, Reason: ReasonBadType, Value: text}
		}
		return f, nil

	case schema.TypeDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t.Format(schema.DateFormat), nil
			}
		}
		return nil, &Rejection{Row: index, Column: col.Name, Reason: ReasonBadDate, Value: text}

	default:
		return nil, &Rejection{Row: index, Column: col.Name, Reason: ReasonBadType, Value: text}
	}
}

// checkRange applies the column's bounds. Clamp-policy columns are pulled
// to the nearest bound; reject-policy columns fail the row.
func checkRange(value any, col *schema.ColumnSpec, index int, text string) (any, bool, *Rejection) {
	if col.Min == nil && col.Max == nil {
		return value, false, nil
	}

	var f float64
	switch v := value.(type) {
	case int64:
		f = float64(v)
	case float64:
		f = v
	default:
		return value, false, nil
	}

	low := col.Min != nil && f < *col.Min
	high := col.Max != nil && f > *col.Max
	if !low && !high {
		return value, false, nil
	}

	if col.OnOutOfRange == schema.PolicyClamp {
		bound := *col.Min
		if high {
			bound = *col.Max
		}
		if _, isInt := value.(int64); isInt {
			return int64(bound), true, nil
		}
		return bound, true, nil
	}

	return nil, false, &Rejection{Row: index, Column: col.Name, Reason: ReasonOutOfRange, Value: text}
}

// cellText extracts the trimmed text of a cell. Blank cells count as
// missing.
func cellText(raw schema.Row, name string) (string, bool) {
	v, ok := raw[name]
	if !ok || v == nil {
		return "", false
	}

	var text string
	switch x := v.(type) {
	case string:
		text = strings.TrimSpace(x)
	default:
		text = fmt.Sprintf("%v", x)
	}

	if text == "" {
		return "", false
	}
	return text, true
}

// keyString renders a primary-key value for duplicate detection.
func keyString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
