//-------------------------------------------------------------------------
//
// SalesCube Warehouse Toolkit
//
// Copyright (c) 2025 - 2026, SmartSales Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package schema

// Warehouse table names. These are a compatibility surface for downstream
// BI consumers and must not change shape between reloads.
const (
	TableCustomers = "customers"
	TableProducts  = "products"
	TableSales     = "sales"
)

// Customers is the customer dimension spec.
var Customers = &TableSpec{
	Name:       TableCustomers,
	PrimaryKey: "customer_id",
	Columns: []ColumnSpec{
		{Name: "customer_id", Aliases: []string{"CustomerID"}, Type: TypeInt, Required: true},
		{Name: "name", Aliases: []string{"Name"}, Type: TypeString, Required: true},
		{Name: "region", Aliases: []string{"Region"}, Type: TypeString, Default: "unknown"},
		{Name: "join_date", Aliases: []string{"JoinDate"}, Type: TypeDate, Required: true},
		{
			Name:    "status",
			Aliases: []string{"Status"},
			Type:    TypeEnum,
			Enum:    []string{"active", "inactive", "suspended"},
			Default: "active",
		},
		{
			Name:         "points",
			Aliases:      []string{"Points"},
			Type:         TypeInt,
			Default:      int64(0),
			Min:          FloatPtr(0),
			OnOutOfRange: PolicyClamp,
		},
	},
}

// Products is the product dimension spec.
var Products = &TableSpec{
	Name:       TableProducts,
	PrimaryKey: "product_id",
	Columns: []ColumnSpec{
		{Name: "product_id", Aliases: []string{"ProductID"}, Type: TypeInt, Required: true},
		{Name: "product_name", Aliases: []string{"ProductName"}, Type: TypeString, Required: true},
		{Name: "category", Aliases: []string{"Category"}, Type: TypeString, Default: "uncategorized"},
		{
			Name:         "unit_price",
			Aliases:      []string{"UnitPrice"},
			Type:         TypeFloat,
			Required:     true,
			Min:          FloatPtr(0),
			OnOutOfRange: PolicyReject,
		},
		{
			Name:         "stock",
			Aliases:      []string{"Stock", "StockQuantity"},
			Type:         TypeInt,
			Default:      int64(0),
			Min:          FloatPtr(0),
			OnOutOfRange: PolicyReject,
		},
		{Name: "supplier", Aliases: []string{"Supplier"}, Type: TypeString, Default: "unknown"},
	},
}

// Sales is the fact table spec. The customer_id and product_id foreign keys
// are declared here as plain columns; cross-table resolution is the
// loader's job, not the cleaner's.
var Sales = &TableSpec{
	Name:       TableSales,
	PrimaryKey: "transaction_id",
	Columns: []ColumnSpec{
		{Name: "transaction_id", Aliases: []string{"TransactionID"}, Type: TypeInt, Required: true},
		{Name: "sale_date", Aliases: []string{"SaleDate"}, Type: TypeDate, Required: true},
		{Name: "customer_id", Aliases: []string{"CustomerID"}, Type: TypeInt, Required: true},
		{Name: "product_id", Aliases: []string{"ProductID"}, Type: TypeInt, Required: true},
		{Name: "store_id", Aliases: []string{"StoreID"}, Type: TypeInt, Required: true},
		{Name: "campaign_id", Aliases: []string{"CampaignID"}, Type: TypeInt, Default: int64(0)},
		{
			Name:         "sale_amount",
			Aliases:      []string{"SaleAmount"},
			Type:         TypeFloat,
			Required:     true,
			Min:          FloatPtr(0),
			OnOutOfRange: PolicyReject,
		},
		{
			Name:         "discount_percentage",
			Aliases:      []string{"DiscountPercentage"},
			Type:         TypeFloat,
			Default:      float64(0),
			Min:          FloatPtr(0),
			Max:          FloatPtr(100),
			OnOutOfRange: PolicyClamp,
		},
		{
			Name:    "payment_method",
			Aliases: []string{"PaymentMethod"},
			Type:    TypeEnum,
			Enum:    []string{"cash", "credit", "debit", "paypal"},
			Default: "cash",
		},
	},
}

func init() {
	Register(Customers)
	Register(Products)
	Register(Sales)
}
