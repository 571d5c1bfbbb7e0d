//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package schema defines the tabular data model and the per-table column
// specifications used by the cleaning, loading and cubing stages.
package schema

import "fmt"

// DateFormat is the canonical calendar form for all date columns.
const DateFormat = "2006-01-02"

// ColumnType identifies the logical type of a column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeDate   ColumnType = "date"
	TypeEnum   ColumnType = "enum"
)

// RangePolicy controls what happens to a numeric value outside its declared
// bounds: clamp it to the nearest bound, or reject the whole row.
type RangePolicy string

const (
	PolicyClamp  RangePolicy = "clamp"
	PolicyReject RangePolicy = "reject"
)

// ColumnSpec describes a single column: its type, whether it is required,
// its default for missing optional values, and its validation rules.
type ColumnSpec struct {
	// Name is the canonical snake_case column name.
	Name string

	// Aliases are alternate header spellings accepted in raw input files
	// (e.g. the CamelCase headers exported by upstream systems).
	Aliases []string

	// Type is the logical column type.
	Type ColumnType

	// Required rejects rows where this column is missing or blank.
	Required bool

	// Default is substituted for missing optional values.
	Default any

	// Enum lists the valid canonical values for TypeEnum columns.
	// Raw values are trimmed and lower-cased before matching.
	Enum []string

	// Min and Max bound numeric columns; nil means unbounded.
	Min *float64
	Max *float64

	// OnOutOfRange selects the range policy; defaults to reject.
	OnOutOfRange RangePolicy
}

// TableSpec describes one table: its columns and primary key.
type TableSpec struct {
	Name       string
	PrimaryKey string
	Columns    []ColumnSpec
}

// Column returns the spec for the named column.
func (s *TableSpec) Column(name string) (*ColumnSpec, bool) {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the canonical column names in declaration order.
func (s *TableSpec) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Resolve maps a raw header to its canonical column name, consulting
// aliases. Returns false if the header matches no declared column.
func (s *TableSpec) Resolve(header string) (string, bool) {
	for _, c := range s.Columns {
		if c.Name == header {
			return c.Name, true
		}
		for _, a := range c.Aliases {
			if a == header {
				return c.Name, true
			}
		}
	}
	return "", false
}

// Row is a single record keyed by canonical column name. Raw rows hold
// strings; cleaned rows hold typed values (string, int64, float64).
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered collection of rows with a fixed column order.
// Column order is part of the warehouse compatibility surface, so it is
// carried explicitly rather than derived from map iteration.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(name string, columns []string) *Table {
	return &Table{Name: name, Columns: append([]string(nil), columns...)}
}

// Append adds a row to the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Int returns the int64 value of the named column in the given row.
func (t *Table) Int(row Row, column string) (int64, error) {
	v, ok := row[column]
	if !ok {
		return 0, fmt.Errorf("column %q not present in table %s", column, t.Name)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("column %q in table %s is %T, not int64", column, t.Name, v)
	}
	return n, nil
}

// FloatPtr is a convenience for building bounded column specs.
func FloatPtr(f float64) *float64 {
	return &f
}
