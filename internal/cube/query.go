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

	"github.com/smartsales/salescube/internal/warehouse"
)

// Predicate tests one dimension value during a dice.
type Predicate func(any) bool

// In builds a membership predicate.
func In(values ...any) Predicate {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[dimString(v)] = true
	}
	return func(v any) bool {
		return set[dimString(v)]
	}
}

// Range builds an inclusive numeric range predicate. Non-numeric values
// never match.
func Range(min, max float64) Predicate {
	return func(v any) bool {
		var f float64
		switch x := v.(type) {
		case int64:
			f = float64(x)
		case int:
			f = float64(x)
		case float64:
			f = x
		default:
			return false
		}
		return f >= min && f <= max
	}
}

// Slice fixes the given dimension values and returns a sub-cube over the
// remaining dimensions. The input cube is not modified.
func (c *Cube) Slice(fixed map[string]any) (*Cube, error) {
	for name := range fixed {
		if c.dimIndex(name) < 0 {
			return nil, &QueryError{Op: "slice", Dimension: name}
		}
	}

	var keep []string
	var keepIdx []int
	for i, d := range c.Dimensions {
		if _, isFixed := fixed[d]; !isFixed {
			keep = append(keep, d)
			keepIdx = append(keepIdx, i)
		}
	}

	out := newCube(keep, c.Measures)
	for _, enc := range c.order {
		cell := c.cells[enc]
		if !cellMatchesFixed(c, cell, fixed) {
			continue
		}
		key := make([]any, len(keepIdx))
		for j, i := range keepIdx {
			key[j] = cell.Key[i]
		}
		// Fixed dimensions pin a single value each, so projected keys
		// stay unique; merge is a plain copy here.
		out.merge(key, cell)
	}
	return out, nil
}

// Dice retains cells whose values satisfy every per-dimension predicate.
// Unlike Slice the dimensionality is preserved.
func (c *Cube) Dice(preds map[string]Predicate) (*Cube, error) {
	for name := range preds {
		if c.dimIndex(name) < 0 {
			return nil, &QueryError{Op: "dice", Dimension: name}
		}
	}

	out := newCube(c.Dimensions, c.Measures)
	for _, enc := range c.order {
		cell := c.cells[enc]
		match := true
		for name, pred := range preds {
			if !pred(cell.Key[c.dimIndex(name)]) {
				match = false
				break
			}
		}
		if match {
			out.merge(cell.Key, cell)
		}
	}
	return out, nil
}

// RollUp drops one dimension and re-aggregates over the cells that agree
// on the remaining dimensions. Sums and counts add; means are recomputed
// from the rolled-up sum and count, never averaged across children.
func (c *Cube) RollUp(drop string) (*Cube, error) {
	di := c.dimIndex(drop)
	if di < 0 {
		return nil, &QueryError{Op: "roll_up", Dimension: drop}
	}

	keep := make([]string, 0, len(c.Dimensions)-1)
	for _, d := range c.Dimensions {
		if d != drop {
			keep = append(keep, d)
		}
	}

	out := newCube(keep, c.Measures)
	for _, enc := range c.order {
		cell := c.cells[enc]
		key := make([]any, 0, len(keep))
		for i, v := range cell.Key {
			if i != di {
				key = append(key, v)
			}
		}
		out.merge(key, cell)
	}
	return out, nil
}

// DrillDown re-aggregates at a finer granularity by rebuilding from the
// warehouse with the extra dimensions appended. Detail comes from the
// source rows, never from interpolation.
func DrillDown(ctx context.Context, store warehouse.Store, c *Cube, extra ...string) (*Cube, error) {
	if len(extra) == 0 {
		return nil, fmt.Errorf("drill_down requires at least one extra dimension")
	}

	dims := append([]string(nil), c.Dimensions...)
	for _, d := range extra {
		if c.dimIndex(d) >= 0 {
			return nil, fmt.Errorf("drill_down: dimension %q already present in cube", d)
		}
		dims = append(dims, d)
	}

	return Build(ctx, store, dims, c.Measures)
}

func cellMatchesFixed(c *Cube, cell *Cell, fixed map[string]any) bool {
	for name, want := range fixed {
		if !sameDim(cell.Key[c.dimIndex(name)], want) {
			return false
		}
	}
	return true
}
