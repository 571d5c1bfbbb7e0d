//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cube builds multidimensional aggregates over the warehouse star
// schema and answers slice, dice, drill-down and roll-up queries on them.
package cube

import (
	"fmt"
	"strconv"
	"strings"
)

// Measure identifies an aggregate computed per cell, always over
// sale_amount except for the transaction-id collector.
type Measure string

const (
	MeasureSum            Measure = "sum"
	MeasureMean           Measure = "mean"
	MeasureCount          Measure = "count"
	MeasureTransactionIDs Measure = "transaction_ids"
)

// AllMeasures lists every supported measure.
var AllMeasures = []Measure{MeasureSum, MeasureMean, MeasureCount, MeasureTransactionIDs}

// ParseMeasure converts a measure name to a Measure.
func ParseMeasure(s string) (Measure, error) {
	for _, m := range AllMeasures {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown measure: %s", s)
}

// QueryError reports a query referencing a dimension or measure the cube
// does not carry. No partial result accompanies it.
type QueryError struct {
	Op        string
	Dimension string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: dimension %q not present in cube", e.Op, e.Dimension)
}

// Cell holds the aggregates for one dimension-key tuple. Sum and Count
// are always carried, whatever measures were requested, so means can be
// recomputed exactly after a roll-up.
type Cell struct {
	// Key holds the dimension values, aligned with the cube's
	// Dimensions order.
	Key []any

	Sum   float64
	Count int64

	// TransactionIDs lists contributing transactions in insertion order
	// from the underlying fact rows.
	TransactionIDs []int64
}

// Mean returns sum/count, the exact group mean.
func (c *Cell) Mean() float64 {
	if c.Count == 0 {
		return 0
	}
	return c.Sum / float64(c.Count)
}

// Value returns the cell's value for the given measure.
func (c *Cell) Value(m Measure) any {
	switch m {
	case MeasureSum:
		return c.Sum
	case MeasureMean:
		return c.Mean()
	case MeasureCount:
		return c.Count
	case MeasureTransactionIDs:
		return append([]int64(nil), c.TransactionIDs...)
	default:
		return nil
	}
}

// Cube is an immutable mapping from dimension-key tuples to cells. For a
// fixed store state and build parameters the cell set and values are
// exactly reproducible.
type Cube struct {
	// Dimensions is the ordered list of group-by columns.
	Dimensions []string

	// Measures is the ordered list of requested measures.
	Measures []Measure

	cells map[string]*Cell
	order []string
}

func newCube(dims []string, measures []Measure) *Cube {
	return &Cube{
		Dimensions: append([]string(nil), dims...),
		Measures:   append([]Measure(nil), measures...),
		cells:      make(map[string]*Cell),
	}
}

// Len returns the number of cells.
func (c *Cube) Len() int {
	return len(c.cells)
}

// Cells returns all cells in first-seen order.
func (c *Cube) Cells() []*Cell {
	out := make([]*Cell, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.cells[k])
	}
	return out
}

// Cell looks up the cell for the given dimension values, in Dimensions
// order.
func (c *Cube) Cell(values ...any) (*Cell, bool) {
	cell, ok := c.cells[encodeKey(values)]
	return cell, ok
}

// dimIndex returns the position of a dimension, or -1.
func (c *Cube) dimIndex(name string) int {
	for i, d := range c.Dimensions {
		if d == name {
			return i
		}
	}
	return -1
}

// add accumulates one fact row into the cell for key.
func (c *Cube) add(key []any, amount float64, txID int64) {
	enc := encodeKey(key)
	cell, ok := c.cells[enc]
	if !ok {
		cell = &Cell{Key: append([]any(nil), key...)}
		c.cells[enc] = cell
		c.order = append(c.order, enc)
	}
	cell.Sum += amount
	cell.Count++
	cell.TransactionIDs = append(cell.TransactionIDs, txID)
}

// merge folds an existing cell into the cell for key, preserving exact
// sums and counts so means stay correct.
func (c *Cube) merge(key []any, src *Cell) {
	enc := encodeKey(key)
	cell, ok := c.cells[enc]
	if !ok {
		cell = &Cell{Key: append([]any(nil), key...)}
		c.cells[enc] = cell
		c.order = append(c.order, enc)
	}
	cell.Sum += src.Sum
	cell.Count += src.Count
	cell.TransactionIDs = append(cell.TransactionIDs, src.TransactionIDs...)
}

// encodeKey renders a dimension tuple as a map key. Unit separator keeps
// composite values unambiguous.
func encodeKey(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = dimString(v)
	}
	return strings.Join(parts, "\x1f")
}

// dimString renders a single dimension value canonically.
func dimString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// sameDim reports whether a cell value matches a queried value, comparing
// canonically so int(403) matches int64(403).
func sameDim(a, b any) bool {
	return dimString(a) == dimString(b)
}
