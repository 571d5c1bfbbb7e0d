//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartsales/salescube/internal/pipeline"
	"github.com/smartsales/salescube/internal/schema"
	"github.com/smartsales/salescube/internal/warehouse"
)

var (
	loadDir           string
	loadCustomersFile string
	loadProductsFile  string
	loadSalesFile     string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Clean raw files and load the warehouse",
	Long: `Read raw CSV files, clean each table against its policy, and
atomically replace the warehouse contents. Sales rows whose customer or
product is unknown after cleaning are excluded and reported, never
silently dropped.

The refresh is idempotent: loading the same inputs twice leaves the
warehouse in the same state.

Example:
  salescube load --dir data
  salescube load --dir data --dsn warehouse.db
  salescube load --sales-file exports/facts.csv --dir data`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadDir, "dir", "",
		"directory containing customers.csv, products.csv and sales.csv")
	loadCmd.Flags().StringVar(&loadCustomersFile, "customers-file", "",
		"explicit path to the raw customers file")
	loadCmd.Flags().StringVar(&loadProductsFile, "products-file", "",
		"explicit path to the raw products file")
	loadCmd.Flags().StringVar(&loadSalesFile, "sales-file", "",
		"explicit path to the raw sales file")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loadDir != "" {
		cfg.Load.Dir = loadDir
	}

	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := warehouse.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("opening warehouse: %w", err)
	}
	defer store.Close()

	report, err := pipeline.Run(ctx, store, pipeline.Options{
		Dir:           cfg.Load.Dir,
		CustomersFile: loadCustomersFile,
		ProductsFile:  loadProductsFile,
		SalesFile:     loadSalesFile,
	})
	if err != nil {
		return err
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report *pipeline.Report) {
	cmd.Println("Load summary:")
	for _, name := range []string{schema.TableCustomers, schema.TableProducts, schema.TableSales} {
		cr := report.Cleaning[name]
		if cr == nil {
			continue
		}
		cmd.Printf("  %-10s %d in, %d cleaned, %d rejected, %d duplicates dropped\n",
			name, cr.RowsIn, cr.RowsOut, cr.RejectedCount(), cr.DuplicatesDropped)
	}
	cmd.Printf("  inserted: %d customers, %d products, %d sales\n",
		report.Load.CustomersInserted,
		report.Load.ProductsInserted,
		report.Load.SalesInserted)
	if n := report.Load.RejectedCount(schema.TableSales); n > 0 {
		cmd.Printf("  excluded: %d sales with unknown customer or product\n", n)
	}
	cmd.Printf("  elapsed: %s\n", report.Elapsed.Round(time.Millisecond))
}
