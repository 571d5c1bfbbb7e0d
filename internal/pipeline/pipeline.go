//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the full refresh: read raw files, clean each
// table, load the warehouse.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/smartsales/salescube/internal/clean"
	"github.com/smartsales/salescube/internal/ingest"
	"github.com/smartsales/salescube/internal/loader"
	"github.com/smartsales/salescube/internal/logging"
	"github.com/smartsales/salescube/internal/schema"
	"github.com/smartsales/salescube/internal/warehouse"
)

// Options locates the raw input files. Empty per-table paths default to
// <Dir>/<table>.csv.
type Options struct {
	Dir string

	CustomersFile string
	ProductsFile  string
	SalesFile     string
}

func (o Options) path(explicit, table string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(o.Dir, table+".csv")
}

// Report combines the per-table cleaning reports with the load result.
type Report struct {
	// Cleaning holds one report per table, keyed by table name.
	Cleaning map[string]*clean.Report

	Load *loader.Result

	Elapsed time.Duration
}

// TotalRejected sums cleaner and loader rejections across all tables.
func (r *Report) TotalRejected() int {
	n := 0
	for _, cr := range r.Cleaning {
		n += cr.RejectedCount()
	}
	for table := range r.Load.RowsRejected {
		n += r.Load.RejectedCount(table)
	}
	return n
}

// Run executes one full refresh against the store. Tables clean
// independently, so the three cleaners run concurrently; the load waits
// for all of them since fact keys resolve against cleaned dimensions.
func Run(ctx context.Context, store warehouse.Store, opts Options) (*Report, error) {
	start := time.Now()

	type job struct {
		spec *schema.TableSpec
		path string
	}
	jobs := []job{
		{schema.Customers, opts.path(opts.CustomersFile, schema.TableCustomers)},
		{schema.Products, opts.path(opts.ProductsFile, schema.TableProducts)},
		{schema.Sales, opts.path(opts.SalesFile, schema.TableSales)},
	}

	raw := make([]*schema.Table, len(jobs))
	for i, j := range jobs {
		tbl, err := ingest.ReadFile(j.path, j.spec)
		if err != nil {
			return nil, err
		}
		raw[i] = tbl
	}

	cleaned := make([]*schema.Table, len(jobs))
	reports := make([]*clean.Report, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cleaned[i], reports[i] = clean.Clean(raw[i], jobs[i].spec)
		}(i)
	}
	wg.Wait()

	report := &Report{Cleaning: make(map[string]*clean.Report, len(jobs))}
	for i, j := range jobs {
		cr := reports[i]
		report.Cleaning[j.spec.Name] = cr
		logging.Info().
			Str("table", j.spec.Name).
			Int("rows_in", cr.RowsIn).
			Int("rows_out", cr.RowsOut).
			Int("rejected", cr.RejectedCount()).
			Int("duplicates", cr.DuplicatesDropped).
			Msg("Table cleaned")
	}

	result, err := loader.Load(ctx, store, cleaned[0], cleaned[1], cleaned[2])
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	report.Load = result
	report.Elapsed = time.Since(start)

	logging.Info().
		Dur("elapsed", report.Elapsed).
		Int("rejected_total", report.TotalRejected()).
		Msg("Pipeline complete")

	return report, nil
}
