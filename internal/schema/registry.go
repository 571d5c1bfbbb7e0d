//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package schema

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]*TableSpec)
	mu       sync.RWMutex
)

// Register adds a table spec to the registry.
func Register(spec *TableSpec) {
	mu.Lock()
	defer mu.Unlock()
	registry[spec.Name] = spec
}

// Get retrieves a table spec by name.
func Get(name string) (*TableSpec, error) {
	mu.RLock()
	defer mu.RUnlock()

	spec, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", name)
	}
	return spec, nil
}

// List returns all registered table names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
