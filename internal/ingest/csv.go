//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package ingest reads raw delimited files into tables and writes tables
// back out for downstream consumers.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/smartsales/salescube/internal/logging"
	"github.com/smartsales/salescube/internal/schema"
)

// ReadFile reads a delimited text file into a raw table. Headers are
// resolved against the spec (aliases included); an unknown header or an
// inconsistent field count is an error, not a silent skip.
func ReadFile(path string, spec *schema.TableSpec) (*schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	tbl, err := Read(f, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logging.Debug().
		Str("path", path).
		Str("table", spec.Name).
		Int("rows", tbl.Len()).
		Msg("Read raw file")

	return tbl, nil
}

// Read reads delimited text from r into a raw table. All cell values are
// strings; type coercion is the cleaner's job.
func Read(r io.Reader, spec *schema.TableSpec) (*schema.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table %s: empty input", spec.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("table %s: reading header: %w", spec.Name, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		name, ok := spec.Resolve(h)
		if !ok {
			return nil, fmt.Errorf("table %s: unknown column %q", spec.Name, h)
		}
		columns[i] = name
	}

	tbl := schema.NewTable(spec.Name, columns)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Includes csv.ErrFieldCount when a record has the wrong
			// number of fields.
			return nil, fmt.Errorf("table %s: line %d: %w", spec.Name, line, err)
		}
		row := make(schema.Row, len(columns))
		for i, cell := range record {
			row[columns[i]] = cell
		}
		tbl.Append(row)
	}

	return tbl, nil
}

// WriteFile writes a table as a delimited text file, header first.
func WriteFile(path string, tbl *schema.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, tbl); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	logging.Debug().
		Str("path", path).
		Str("table", tbl.Name).
		Int("rows", tbl.Len()).
		Msg("Wrote file")

	return nil
}

// Write writes a table as delimited text to w.
func Write(w io.Writer, tbl *schema.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(tbl.Columns); err != nil {
		return err
	}

	record := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, col := range tbl.Columns {
			record[i] = FormatValue(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders a cell value in its canonical text form. The
// rendering is deterministic so repeated exports of the same table are
// byte-for-byte identical.
func FormatValue(v any) string {
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
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
