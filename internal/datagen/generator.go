//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/smartsales/salescube/internal/ingest"
	"github.com/smartsales/salescube/internal/logging"
	"github.com/smartsales/salescube/internal/schema"
)

// DirtConfig sets the probability of each defect class injected into the
// generated files. A rate of 0 disables that defect; rates apply per row.
type DirtConfig struct {
	// DuplicateRate re-emits an earlier row's primary key with fresh
	// attribute values.
	DuplicateRate float64

	// OrphanRate points a sales row at a customer or product that does
	// not exist.
	OrphanRate float64

	// BadDateRate replaces a date with an unparseable value.
	BadDateRate float64

	// OutOfRangeRate emits negative amounts, negative points, or
	// discounts above 100.
	OutOfRangeRate float64

	// BlankRate blanks out an optional or required field.
	BlankRate float64
}

// DefaultDirt returns the defect mix used for demo datasets.
func DefaultDirt() DirtConfig {
	return DirtConfig{
		DuplicateRate:  0.02,
		OrphanRate:     0.02,
		BadDateRate:    0.02,
		OutOfRangeRate: 0.02,
		BlankRate:      0.03,
	}
}

// Config controls dataset shape and reproducibility.
type Config struct {
	Customers int
	Products  int
	Sales     int

	// Seed fixes the random stream. Zero seeds from the clock.
	Seed uint64

	Dirt DirtConfig
}

// DefaultConfig returns a small demo dataset configuration.
func DefaultConfig() Config {
	return Config{
		Customers: 200,
		Products:  100,
		Sales:     1000,
		Dirt:      DefaultDirt(),
	}
}

// Validate checks the configuration for a generation run.
func (c Config) Validate() error {
	if c.Customers <= 0 || c.Products <= 0 || c.Sales <= 0 {
		return fmt.Errorf("row counts must be positive (customers=%d products=%d sales=%d)",
			c.Customers, c.Products, c.Sales)
	}
	return nil
}

// Generator produces raw input tables in the legacy export format:
// CamelCase headers, every cell a string, defects mixed in per DirtConfig.
type Generator struct {
	cfg   Config
	faker *Faker
}

// NewGenerator creates a generator for the given configuration.
func NewGenerator(cfg Config) *Generator {
	f := NewFaker()
	if cfg.Seed != 0 {
		f = NewFakerWithSeed(cfg.Seed)
	}
	return &Generator{cfg: cfg, faker: f}
}

// Value pools. Enum pools deliberately include casing and whitespace
// variants the cleaner normalizes.
var (
	regions        = []string{"north", "south", "east", "west", "central"}
	statuses       = []string{"active", "ACTIVE", " inactive", "Suspended", "active "}
	paymentMethods = []string{"cash", "Credit", "DEBIT", "PayPal", " cash"}
	suppliers      = []string{"Acme Supply", "Northwind", "Globex", "Initech"}
	badDates       = []string{"2024-13-40", "not-a-date", "31/31/2024", ""}
	dateLayouts    = []string{"2006-01-02", "2006/01/02", "01/02/2006"}
)

const progressInterval = 100000

// Generate produces the three raw tables.
func (g *Generator) Generate() (customers, products, sales *schema.Table) {
	customers = g.generateCustomers()
	products = g.generateProducts()
	sales = g.generateSales()
	return customers, products, sales
}

// WriteFiles generates the dataset and writes customers.csv, products.csv
// and sales.csv under dir.
func (g *Generator) WriteFiles(dir string) error {
	customers, products, sales := g.Generate()
	for _, t := range []*schema.Table{customers, products, sales} {
		path := filepath.Join(dir, t.Name+".csv")
		if err := ingest.WriteFile(path, t); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logging.Info().
			Str("table", t.Name).
			Str("path", path).
			Int("rows", t.Len()).
			Msg("Raw file written")
	}
	return nil
}

func (g *Generator) generateCustomers() *schema.Table {
	tbl := schema.NewTable(schema.TableCustomers,
		[]string{"CustomerID", "Name", "Region", "JoinDate", "Status", "Points"})
	progress := NewProgressReporter(schema.TableCustomers, int64(g.cfg.Customers), progressInterval)

	for i := 1; i <= g.cfg.Customers; i++ {
		id := int64(i)
		if i > 1 && g.faker.Chance(g.cfg.Dirt.DuplicateRate) {
			id = g.faker.Int64(1, int64(i-1))
		}

		points := strconv.FormatInt(g.faker.Int64(0, 5000), 10)
		if g.faker.Chance(g.cfg.Dirt.OutOfRangeRate) {
			points = strconv.FormatInt(g.faker.Int64(-500, -1), 10)
		}

		name := g.faker.Name()
		if g.faker.Chance(g.cfg.Dirt.BlankRate) {
			name = ""
		}
		region := Choose(g.faker, regions)
		if g.faker.Chance(g.cfg.Dirt.BlankRate) {
			region = ""
		}
		status := ChooseWeighted(g.faker, statuses, []int{60, 10, 10, 10, 10})
		if g.faker.Chance(g.cfg.Dirt.BlankRate) {
			status = ""
		}

		tbl.Append(schema.Row{
			"CustomerID": strconv.FormatInt(id, 10),
			"Name":       name,
			"Region":     region,
			"JoinDate":   g.rawDate(),
			"Status":     status,
			"Points":     points,
		})
		progress.Update(1)
	}
	progress.Done()
	return tbl
}

func (g *Generator) generateProducts() *schema.Table {
	tbl := schema.NewTable(schema.TableProducts,
		[]string{"ProductID", "ProductName", "Category", "UnitPrice", "StockQuantity", "Supplier"})
	progress := NewProgressReporter(schema.TableProducts, int64(g.cfg.Products), progressInterval)

	for i := 1; i <= g.cfg.Products; i++ {
		id := int64(i)
		if i > 1 && g.faker.Chance(g.cfg.Dirt.DuplicateRate) {
			id = g.faker.Int64(1, int64(i-1))
		}

		price := strconv.FormatFloat(g.faker.Price(1, 500), 'f', 2, 64)
		if g.faker.Chance(g.cfg.Dirt.OutOfRangeRate) {
			price = strconv.FormatFloat(-g.faker.Price(1, 100), 'f', 2, 64)
		}
		category := g.faker.ProductCategory()
		if g.faker.Chance(g.cfg.Dirt.BlankRate) {
			category = ""
		}

		tbl.Append(schema.Row{
			"ProductID":     strconv.FormatInt(id, 10),
			"ProductName":   g.faker.ProductName(),
			"Category":      category,
			"UnitPrice":     price,
			"StockQuantity": strconv.FormatInt(g.faker.Int64(0, 1000), 10),
			"Supplier":      Choose(g.faker, suppliers),
		})
		progress.Update(1)
	}
	progress.Done()
	return tbl
}

func (g *Generator) generateSales() *schema.Table {
	tbl := schema.NewTable(schema.TableSales,
		[]string{"TransactionID", "SaleDate", "CustomerID", "ProductID", "StoreID",
			"CampaignID", "SaleAmount", "DiscountPercentage", "PaymentMethod"})
	progress := NewProgressReporter(schema.TableSales, int64(g.cfg.Sales), progressInterval)

	for i := 1; i <= g.cfg.Sales; i++ {
		id := int64(i)
		if i > 1 && g.faker.Chance(g.cfg.Dirt.DuplicateRate) {
			id = g.faker.Int64(1, int64(i-1))
		}

		custID := g.faker.Int64(1, int64(g.cfg.Customers))
		prodID := g.faker.Int64(1, int64(g.cfg.Products))
		if g.faker.Chance(g.cfg.Dirt.OrphanRate) {
			if g.faker.Bool() {
				custID = int64(g.cfg.Customers) + g.faker.Int64(1, 1000)
			} else {
				prodID = int64(g.cfg.Products) + g.faker.Int64(1, 1000)
			}
		}

		amount := strconv.FormatFloat(g.faker.Price(1, 2000), 'f', 2, 64)
		if g.faker.Chance(g.cfg.Dirt.OutOfRangeRate) {
			amount = strconv.FormatFloat(-g.faker.Price(1, 500), 'f', 2, 64)
		}
		discount := strconv.FormatFloat(g.faker.Float64(0, 60), 'f', 1, 64)
		if g.faker.Chance(g.cfg.Dirt.OutOfRangeRate) {
			discount = strconv.FormatFloat(g.faker.Float64(101, 200), 'f', 1, 64)
		}
		payment := ChooseWeighted(g.faker, paymentMethods, []int{40, 25, 15, 15, 5})
		if g.faker.Chance(g.cfg.Dirt.BlankRate) {
			payment = ""
		}

		tbl.Append(schema.Row{
			"TransactionID":      strconv.FormatInt(id, 10),
			"SaleDate":           g.rawDate(),
			"CustomerID":         strconv.FormatInt(custID, 10),
			"ProductID":          strconv.FormatInt(prodID, 10),
			"StoreID":            strconv.FormatInt(g.faker.Int64(400, 410), 10),
			"CampaignID":         strconv.FormatInt(g.faker.Int64(0, 20), 10),
			"SaleAmount":         amount,
			"DiscountPercentage": discount,
			"PaymentMethod":      payment,
		})
		progress.Update(1)
	}
	progress.Done()
	return tbl
}

// rawDate renders a date in one of the layouts seen in legacy exports,
// or an unparseable value at the configured rate.
func (g *Generator) rawDate() string {
	if g.faker.Chance(g.cfg.Dirt.BadDateRate) {
		return Choose(g.faker, badDates)
	}
	d := g.faker.DateRange(
		time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	return d.Format(Choose(g.faker, dateLayouts))
}

// ProgressReporter tracks and reports data generation progress.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rowsGenerated int64) {
	oldRow := p.currentRow
	p.currentRow += rowsGenerated

	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Debug().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}
