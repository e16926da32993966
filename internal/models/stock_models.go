package models

import "time"

// Stock transaction directions.
const (
	StockDirectionIn  = "in"
	StockDirectionOut = "out"
)

// Stock transaction reference types.
const (
	StockReferenceBill    = "bill"
	StockReferenceInvoice = "invoice"
)

// StockTransaction is an audit row recording a single stock delta and the
// sale that caused it. Exactly one row is written per stock-affecting
// document line item.
type StockTransaction struct {
	ID            int64     `json:"id" db:"id"`
	ProductID     *int64    `json:"product_id,omitempty" db:"product_id"`
	Direction     string    `json:"direction" db:"direction"` // in | out
	Quantity      int       `json:"quantity" db:"quantity"`
	PreviousStock int       `json:"previous_stock" db:"previous_stock"`
	NewStock      int       `json:"new_stock" db:"new_stock"`
	Reason        *string   `json:"reason,omitempty" db:"reason"`
	ReferenceType *string   `json:"reference_type,omitempty" db:"reference_type"`
	ReferenceID   *int64    `json:"reference_id,omitempty" db:"reference_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	ProductName *string `json:"product_name,omitempty"` // joined for display
}

// StockTransactionFilters defines the available filters for the audit trail.
type StockTransactionFilters struct {
	ProductID *int64  `form:"product_id"`
	Direction *string `form:"direction"`
}
