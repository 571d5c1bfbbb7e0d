//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package main is the entry point for salescube.
package main

import (
	"fmt"
	"os"

	"github.com/smartsales/salescube/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
