package models

import "time"

// Product statuses.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Demographic sub-categories.
const (
	SubCategoryMen   = "Men"
	SubCategoryWomen = "Women"
	SubCategoryKids  = "Kids"
)

// Product represents a jewelry item in the catalog. Weight is in grams,
// CurrentRate is the price per gram for the item's purity.
type Product struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name" binding:"required"`
	Category      string    `json:"category" db:"category" binding:"required"`
	SubCategory   *string   `json:"sub_category,omitempty" db:"sub_category"` // Men/Women/Kids
	SKU           string    `json:"sku" db:"sku" binding:"required"`
	Barcode       *string   `json:"barcode,omitempty" db:"barcode"`
	Weight        float64   `json:"weight" db:"weight" binding:"required,gt=0"`
	Purity        string    `json:"purity" db:"purity" binding:"required"` // e.g. "22K"
	MakingCharge  float64   `json:"making_charge" db:"making_charge"`
	CurrentRate   float64   `json:"current_rate" db:"current_rate" binding:"required,gt=0"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	MinStockLevel int       `json:"min_stock_level" db:"min_stock_level"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ProductFilters defines the available filters for querying products.
type ProductFilters struct {
	Search   *string `form:"search"` // matches name, sku, barcode
	Category *string `form:"category"`
	Status   *string `form:"status"`
}

// ProductUpdate is the allow-list of updatable product fields. Arbitrary
// JSON keys outside this set are ignored rather than turned into column
// assignments.
type ProductUpdate struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	SubCategory   *string  `json:"sub_category"`
	SKU           *string  `json:"sku"`
	Barcode       *string  `json:"barcode"`
	Weight        *float64 `json:"weight"`
	Purity        *string  `json:"purity"`
	MakingCharge  *float64 `json:"making_charge"`
	CurrentRate   *float64 `json:"current_rate"`
	StockQuantity *int     `json:"stock_quantity"`
	MinStockLevel *int     `json:"min_stock_level"`
	Status        *string  `json:"status"`
}

// ProductReferences counts the rows in dependent tables that point at a
// product. A product with bill or invoice references can only be deleted
// with cascade requested.
type ProductReferences struct {
	BillItems         int64 `json:"bill_items"`
	InvoiceItems      int64 `json:"invoice_items"`
	StockTransactions int64 `json:"stock_transactions"`
}

// Blocking reports whether the references forbid a plain (non-cascade) delete.
func (r ProductReferences) Blocking() bool {
	return r.BillItems > 0 || r.InvoiceItems > 0
}

// InventoryItem is a product row enriched with a stock status label for the
// inventory view.
type InventoryItem struct {
	Product
	StockStatus string `json:"stock_status"` // In Stock / Low Stock / Out of Stock
}
