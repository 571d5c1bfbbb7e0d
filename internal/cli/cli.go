//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for salescube.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smartsales/salescube/internal/config"
	"github.com/smartsales/salescube/internal/logging"
	"github.com/smartsales/salescube/internal/schema"
	"github.com/smartsales/salescube/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	driver   string
	dsn      string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "salescube",
		Short: "Clean, load and analyze tabular sales data",
		Long: `salescube is a CLI tool that takes raw customer, product and sales
exports, cleans them against per-table policies, loads them into a star
schema warehouse, and builds multidimensional cubes for analysis.

The pipeline is a full-batch refresh: every load atomically replaces the
warehouse contents, so re-running over the same inputs always produces
the same warehouse state.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./salescube.yaml)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "",
		"warehouse backend (sqlite, postgres)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "",
		"warehouse location: file path for sqlite, connection string for postgres")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(cubeCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if driver != "" {
		cfg.Driver = driver
	}
	if dsn != "" {
		cfg.DSN = dsn
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List warehouse tables and their cleaning policies",
	Long: `List every table the pipeline knows, with the column types,
requirements and range policies the cleaner applies to each.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range schema.List() {
			spec, err := schema.Get(name)
			if err != nil {
				continue
			}
			cmd.Printf("%s (primary key: %s)\n", spec.Name, spec.PrimaryKey)
			for _, col := range spec.Columns {
				cmd.Printf("  %-22s %s%s\n", col.Name, col.Type, columnNotes(col))
			}
			cmd.Println()
		}
	},
}

func columnNotes(col schema.ColumnSpec) string {
	var notes []string
	if col.Required {
		notes = append(notes, "required")
	}
	if col.Default != nil {
		notes = append(notes, fmt.Sprintf("default=%v", col.Default))
	}
	if len(col.Enum) > 0 {
		notes = append(notes, "values: "+strings.Join(col.Enum, "|"))
	}
	if col.Min != nil || col.Max != nil {
		bound := "range: "
		if col.Min != nil {
			bound += fmt.Sprintf("%v", *col.Min)
		}
		bound += ".."
		if col.Max != nil {
			bound += fmt.Sprintf("%v", *col.Max)
		}
		notes = append(notes, bound+" on overflow: "+string(col.OnOutOfRange))
	}
	if len(notes) == 0 {
		return ""
	}
	return " (" + strings.Join(notes, ", ") + ")"
}
