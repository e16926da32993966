package models

import "time"

// Payment methods.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodUPI          = "upi"
	PaymentMethodBankTransfer = "bank_transfer"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// ExchangeDetails carries the old-material trade-in fields of a gold
// exchange bill. Exchange bills live in the bills table and are
// distinguished by their EXCH- number prefix.
type ExchangeDetails struct {
	MaterialType string  `json:"material_type" db:"exchange_material_type"`
	OldWeight    float64 `json:"old_weight" db:"exchange_old_weight"`
	OldPurity    string  `json:"old_purity" db:"exchange_old_purity"`
	OldRate      float64 `json:"old_rate" db:"exchange_old_rate"`
	OldValue     float64 `json:"old_value" db:"exchange_old_value"`
	Difference   float64 `json:"difference" db:"exchange_difference"`
}

// BillingDocument is the shared header shape of bills and invoices.
// Customer name/phone/address are denormalized snapshots kept even if the
// customer row is later deleted; CustomerID is a weak, nullable reference.
type BillingDocument struct {
	ID                 int64            `json:"id" db:"id"`
	Number             string           `json:"number" db:"doc_number"`
	CustomerID         *int64           `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName       string           `json:"customer_name" db:"customer_name"`
	CustomerPhone      *string          `json:"customer_phone,omitempty" db:"customer_phone"`
	CustomerAddress    *string          `json:"customer_address,omitempty" db:"customer_address"`
	Subtotal           float64          `json:"subtotal" db:"subtotal"`
	TaxPercentage      float64          `json:"tax_percentage" db:"tax_percentage"`
	TaxAmount          float64          `json:"tax_amount" db:"tax_amount"`
	DiscountPercentage float64          `json:"discount_percentage" db:"discount_percentage"`
	DiscountAmount     float64          `json:"discount_amount" db:"discount_amount"`
	TotalAmount        float64          `json:"total_amount" db:"total_amount"`
	PaymentMethod      string           `json:"payment_method" db:"payment_method"`
	PaymentStatus      string           `json:"payment_status" db:"payment_status"`
	AmountPaid         float64          `json:"amount_paid" db:"amount_paid"`
	Exchange           *ExchangeDetails `json:"exchange,omitempty"` // bills only
	Items              []DocumentItem   `json:"items,omitempty"`
	Customer           *Customer        `json:"customer,omitempty"` // joined for display
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// DocumentItem is one line entry of a bill or invoice. ProductID is a weak
// reference nulled on product delete; ProductName is a snapshot taken at
// sale time.
type DocumentItem struct {
	ID            int64     `json:"id" db:"id"`
	DocumentID    int64     `json:"-" db:"document_id"`
	ProductID     *int64    `json:"product_id,omitempty" db:"product_id"`
	ProductName   string    `json:"product_name" db:"product_name"`
	Weight        float64   `json:"weight" db:"weight"`
	Rate          float64   `json:"rate" db:"rate"`
	MakingCharge  float64   `json:"making_charge" db:"making_charge"`
	WastageCharge float64   `json:"wastage_charge" db:"wastage_charge"`
	Quantity      int       `json:"quantity" db:"quantity"`
	Total         float64   `json:"total" db:"total"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// PaymentUpdate is the allow-list of fields a payment PATCH may touch.
type PaymentUpdate struct {
	PaymentStatus *string  `json:"payment_status"`
	AmountPaid    *float64 `json:"amount_paid"`
	PaymentMethod *string  `json:"payment_method"`
}

// DocumentFilters defines the available filters for querying bills and invoices.
type DocumentFilters struct {
	Search        *string `form:"search"` // matches number, customer_name
	PaymentStatus *string `form:"payment_status"`
	CustomerID    *int64  `form:"customer_id"`
	StartDate     *string `form:"start_date"` // YYYY-MM-DD, inclusive
	EndDate       *string `form:"end_date"`   // YYYY-MM-DD, inclusive
}

// ValidPaymentMethod reports whether the value is one of the accepted
// payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether the value is one of the accepted
// payment statuses.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}
