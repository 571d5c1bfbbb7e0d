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
	"strings"

	"github.com/spf13/cobra"

	"github.com/smartsales/salescube/internal/cube"
	"github.com/smartsales/salescube/internal/ingest"
	"github.com/smartsales/salescube/internal/warehouse"
)

var (
	cubeDimensions []string
	cubeMeasures   []string
	cubeSliceArgs  []string
	cubeRollUp     string
	cubeOutput     string
)

var cubeCmd = &cobra.Command{
	Use:   "cube",
	Short: "Build a cube over the warehouse and export it",
	Long: `Group the loaded sales facts by one or more dimensions and compute
sum, mean, count and the contributing transaction ids per group.
Dimensions may name any sales column, any customer or product attribute,
or a derived calendar attribute (day_of_week, month, year).

The cube can be reduced before export: --slice fixes dimension values,
--roll-up drops a dimension and re-aggregates.

Example:
  salescube cube --dimensions store_id,product_id
  salescube cube --dimensions store_id,product_id --slice store_id=403
  salescube cube --dimensions region,category --roll-up category --output cube.csv`,
	RunE: runCube,
}

func init() {
	cubeCmd.Flags().StringSliceVar(&cubeDimensions, "dimensions", nil,
		"group-by columns (comma separated)")
	cubeCmd.Flags().StringSliceVar(&cubeMeasures, "measures", nil,
		"measures to export: sum, mean, count, transaction_ids (default all)")
	cubeCmd.Flags().StringSliceVar(&cubeSliceArgs, "slice", nil,
		"fix a dimension value, as dim=value (repeatable)")
	cubeCmd.Flags().StringVar(&cubeRollUp, "roll-up", "",
		"drop this dimension and re-aggregate")
	cubeCmd.Flags().StringVar(&cubeOutput, "output", "",
		"CSV output path (default: stdout)")
}

func runCube(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if len(cubeDimensions) > 0 {
		cfg.Cube.Dimensions = cubeDimensions
	}
	if len(cubeMeasures) > 0 {
		cfg.Cube.Measures = cubeMeasures
	}
	if cubeOutput != "" {
		cfg.Cube.Output = cubeOutput
	}

	if err := cfg.ValidateCube(); err != nil {
		return err
	}

	measures := cube.AllMeasures
	if len(cfg.Cube.Measures) > 0 {
		measures = make([]cube.Measure, 0, len(cfg.Cube.Measures))
		for _, s := range cfg.Cube.Measures {
			m, err := cube.ParseMeasure(s)
			if err != nil {
				return err
			}
			measures = append(measures, m)
		}
	}

	fixed, err := parseSliceArgs(cubeSliceArgs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := warehouse.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("opening warehouse: %w", err)
	}
	defer store.Close()

	c, err := cube.Build(ctx, store, cfg.Cube.Dimensions, measures)
	if err != nil {
		return err
	}

	if len(fixed) > 0 {
		if c, err = c.Slice(fixed); err != nil {
			return err
		}
	}
	if cubeRollUp != "" {
		if c, err = c.RollUp(cubeRollUp); err != nil {
			return err
		}
	}

	flat := c.Flatten()
	if cfg.Cube.Output != "" {
		if err := ingest.WriteFile(cfg.Cube.Output, flat); err != nil {
			return err
		}
		cmd.Printf("Wrote %d cells to %s\n", flat.Len(), cfg.Cube.Output)
		return nil
	}
	return ingest.Write(cmd.OutOrStdout(), flat)
}

// parseSliceArgs turns dim=value pairs into a fixed-value map. Values stay
// strings; cell matching is canonical, so "403" matches the integer 403.
func parseSliceArgs(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	fixed := make(map[string]any, len(args))
	for _, arg := range args {
		dim, value, ok := strings.Cut(arg, "=")
		if !ok || dim == "" {
			return nil, fmt.Errorf("invalid slice argument %q, expected dim=value", arg)
		}
		fixed[dim] = value
	}
	return fixed, nil
}
