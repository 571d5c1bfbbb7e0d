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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartsales/salescube/internal/datagen"
	"github.com/smartsales/salescube/internal/logging"
)

var (
	genDir       string
	genCustomers int
	genProducts  int
	genSales     int
	genSeed      uint64
	genClean     bool
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate raw input files for the pipeline",
	Long: `Generate customers.csv, products.csv and sales.csv in the legacy
export format: CamelCase headers with a realistic share of quality
problems (duplicate keys, orphan references, bad dates, out-of-range
values, blank fields) for the cleaner to handle.

Example:
  salescube gen --dir data --sales 10000 --seed 42
  salescube gen --dir data --clean`,
	RunE: runGen,
}

func init() {
	genCmd.Flags().StringVar(&genDir, "dir", "",
		"output directory for raw CSV files")
	genCmd.Flags().IntVar(&genCustomers, "customers", 0,
		"number of customer rows")
	genCmd.Flags().IntVar(&genProducts, "products", 0,
		"number of product rows")
	genCmd.Flags().IntVar(&genSales, "sales", 0,
		"number of sales rows")
	genCmd.Flags().Uint64Var(&genSeed, "seed", 0,
		"random seed for reproducible output (0 = random)")
	genCmd.Flags().BoolVar(&genClean, "clean", false,
		"generate defect-free data")
}

func runGen(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if genDir != "" {
		cfg.Gen.Dir = genDir
	}
	if genCustomers > 0 {
		cfg.Gen.Customers = genCustomers
	}
	if genProducts > 0 {
		cfg.Gen.Products = genProducts
	}
	if genSales > 0 {
		cfg.Gen.Sales = genSales
	}
	if genSeed != 0 {
		cfg.Gen.Seed = genSeed
	}
	if genClean {
		cfg.Gen.Clean = true
	}

	if err := cfg.ValidateGen(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Gen.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	gcfg := datagen.Config{
		Customers: cfg.Gen.Customers,
		Products:  cfg.Gen.Products,
		Sales:     cfg.Gen.Sales,
		Seed:      cfg.Gen.Seed,
	}
	if !cfg.Gen.Clean {
		gcfg.Dirt = datagen.DefaultDirt()
	}
	if err := gcfg.Validate(); err != nil {
		return err
	}

	logging.Info().
		Str("dir", cfg.Gen.Dir).
		Int("customers", gcfg.Customers).
		Int("products", gcfg.Products).
		Int("sales", gcfg.Sales).
		Uint64("seed", gcfg.Seed).
		Bool("clean", cfg.Gen.Clean).
		Msg("Generating raw data")

	return datagen.NewGenerator(gcfg).WriteFiles(cfg.Gen.Dir)
}
