package models

import "time"

// Customer types.
const (
	CustomerTypeIndividual = "individual"
	CustomerTypeBusiness   = "business"
)

// Customer represents a retail or business customer.
type Customer struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Phone        string    `json:"phone" db:"phone" binding:"required"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Address      *string   `json:"address,omitempty" db:"address"`
	City         *string   `json:"city,omitempty" db:"city"`
	State        *string   `json:"state,omitempty" db:"state"`
	Pincode      *string   `json:"pincode,omitempty" db:"pincode"`
	GSTNumber    *string   `json:"gst_number,omitempty" db:"gst_number"`
	CustomerType string    `json:"customer_type" db:"customer_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerUpdate is the allow-list of updatable customer fields.
type CustomerUpdate struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Pincode      *string `json:"pincode"`
	GSTNumber    *string `json:"gst_number"`
	CustomerType *string `json:"customer_type"`
}

// CustomerFilters defines the available filters for querying customers.
type CustomerFilters struct {
	Search       *string `form:"search"` // matches name, phone, email
	CustomerType *string `form:"customer_type"`
}
