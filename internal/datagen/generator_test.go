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
	"path/filepath"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/smartsales/salescube/internal/ingest"
	"github.com/smartsales/salescube/internal/schema"
)

func TestGenerateCounts(t *testing.T) {
	cfg := Config{Customers: 20, Products: 10, Sales: 50, Seed: 1}
	customers, products, sales := NewGenerator(cfg).Generate()

	if customers.Len() != 20 {
		t.Errorf("customers = %d rows, want 20", customers.Len())
	}
	if products.Len() != 10 {
		t.Errorf("products = %d rows, want 10", products.Len())
	}
	if sales.Len() != 50 {
		t.Errorf("sales = %d rows, want 50", sales.Len())
	}
}

func TestGenerateReproducible(t *testing.T) {
	cfg := Config{Customers: 30, Products: 15, Sales: 100, Seed: 42, Dirt: DefaultDirt()}

	c1, p1, s1 := NewGenerator(cfg).Generate()
	c2, p2, s2 := NewGenerator(cfg).Generate()

	for _, pair := range []struct {
		name string
		a, b *schema.Table
	}{
		{"customers", c1, c2},
		{"products", p1, p2},
		{"sales", s1, s2},
	} {
		if !reflect.DeepEqual(pair.a.Rows, pair.b.Rows) {
			t.Errorf("%s: same seed produced different rows", pair.name)
		}
	}
}

func TestGenerateDifferentSeeds(t *testing.T) {
	cfg := Config{Customers: 30, Products: 15, Sales: 100}

	cfg.Seed = 1
	c1, _, _ := NewGenerator(cfg).Generate()
	cfg.Seed = 2
	c2, _, _ := NewGenerator(cfg).Generate()

	if reflect.DeepEqual(c1.Rows, c2.Rows) {
		t.Error("Different seeds produced identical customer rows")
	}
}

// With all dirt rates at zero, every generated row must survive header
// resolution and basic parsing.
func TestGenerateCleanWhenDirtDisabled(t *testing.T) {
	cfg := Config{Customers: 50, Products: 20, Sales: 200, Seed: 7}
	customers, products, sales := NewGenerator(cfg).Generate()

	seen := make(map[string]bool)
	for i, row := range customers.Rows {
		id, _ := row["CustomerID"].(string)
		if seen[id] {
			t.Fatalf("Row %d: duplicate CustomerID %s with dirt disabled", i, id)
		}
		seen[id] = true
		if row["Name"] == "" {
			t.Fatalf("Row %d: blank Name with dirt disabled", i)
		}
	}

	for i, row := range products.Rows {
		price, _ := row["UnitPrice"].(string)
		v, err := strconv.ParseFloat(price, 64)
		if err != nil || v < 0 {
			t.Fatalf("Row %d: bad UnitPrice %q with dirt disabled", i, price)
		}
	}

	for i, row := range sales.Rows {
		cid, _ := strconv.ParseInt(row["CustomerID"].(string), 10, 64)
		if cid < 1 || cid > int64(cfg.Customers) {
			t.Fatalf("Row %d: orphan CustomerID %d with dirt disabled", i, cid)
		}
		pid, _ := strconv.ParseInt(row["ProductID"].(string), 10, 64)
		if pid < 1 || pid > int64(cfg.Products) {
			t.Fatalf("Row %d: orphan ProductID %d with dirt disabled", i, pid)
		}
	}
}

func TestRawDateLayouts(t *testing.T) {
	cfg := Config{Customers: 1, Products: 1, Sales: 1, Seed: 3}
	g := NewGenerator(cfg)

	for i := 0; i < 100; i++ {
		raw := g.rawDate()
		parsed := false
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, raw); err == nil {
				parsed = true
				break
			}
		}
		if !parsed {
			t.Errorf("rawDate() = %q does not match any known layout", raw)
		}
	}
}

// Generated files must read back through the ingest layer, which resolves
// the CamelCase headers to warehouse column names.
func TestWriteFilesReadableByIngest(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Customers: 25, Products: 10, Sales: 60, Seed: 9, Dirt: DefaultDirt()}

	if err := NewGenerator(cfg).WriteFiles(dir); err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}

	tests := []struct {
		file string
		spec *schema.TableSpec
		rows int
	}{
		{"customers.csv", schema.Customers, 25},
		{"products.csv", schema.Products, 10},
		{"sales.csv", schema.Sales, 60},
	}
	for _, tt := range tests {
		tbl, err := ingest.ReadFile(filepath.Join(dir, tt.file), tt.spec)
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", tt.file, err)
		}
		if tbl.Len() != tt.rows {
			t.Errorf("%s: %d rows, want %d", tt.file, tbl.Len(), tt.rows)
		}
		for _, col := range tbl.Columns {
			if _, ok := tt.spec.Column(col); !ok {
				t.Errorf("%s: unresolved column %q after ingest", tt.file, col)
			}
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}

	cfg.Sales = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero sales count")
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(11)
	items := []string{"a", "b", "c"}
	weights := []int{1, 1, 98}

	counts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		counts[ChooseWeighted(f, items, weights)]++
	}
	if counts["c"] < 800 {
		t.Errorf("Heavily weighted item chosen %d/1000 times", counts["c"])
	}
	if counts["a"]+counts["b"]+counts["c"] != 1000 {
		t.Errorf("Choices outside item set: %v", counts)
	}
}
