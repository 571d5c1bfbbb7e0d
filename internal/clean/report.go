//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package clean

// RejectReason classifies why a row was excluded during cleaning.
type RejectReason string

const (
	ReasonMissingRequired RejectReason = "missing_required"
	ReasonBadType         RejectReason = "bad_type"
	ReasonBadDate         RejectReason = "unparseable_date"
	ReasonInvalidEnum     RejectReason = "invalid_enum"
	ReasonOutOfRange      RejectReason = "out_of_range"
)

// Rejection records a single excluded row and the first check it failed.
type Rejection struct {
	// Row is the zero-based index of the row in the raw input.
	Row int

	// Column is the column that failed.
	Column string

	// Reason classifies the failure.
	Reason RejectReason

	// Value is the offending raw text, empty for missing values.
	Value string
}

// Report enumerates everything the cleaner dropped or altered, so data
// quality can be audited without re-parsing logs. A fully clean input
// produces a report with zero counts, never a missing one.
type Report struct {
	Table             string
	RowsIn            int
	RowsOut           int
	Rejections        []Rejection
	Coercions         map[string]int
	DuplicatesDropped int
}

// NewReport creates an empty report for a table.
func NewReport(table string, rowsIn int) *Report {
	return &Report{
		Table:     table,
		RowsIn:    rowsIn,
		Coercions: make(map[string]int),
	}
}

// Coerced counts a defaulted or clamped value in the named column.
func (r *Report) Coerced(column string) {
	r.Coercions[column]++
}

// RejectedCount returns the number of rows excluded by validation.
func (r *Report) RejectedCount() int {
	return len(r.Rejections)
}

// RejectedFor returns how many rows were excluded for the given reason.
func (r *Report) RejectedFor(reason RejectReason) int {
	n := 0
	for _, rej := range r.Rejections {
		if rej.Reason == reason {
			n++
		}
	}
	return n
}
