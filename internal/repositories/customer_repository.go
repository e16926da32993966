package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gold_billing_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	CreateCustomer(executor SQLExecutor, customer *models.Customer) (int64, error)
	GetCustomerByID(id int64) (*models.Customer, error)
	GetCustomers(filters models.CustomerFilters) ([]models.Customer, int, error) // customers, total count, error
	UpdateCustomer(executor SQLExecutor, id int64, upd *models.CustomerUpdate) error
	DeleteCustomer(executor SQLExecutor, id int64) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, phone, email, address, city, state, pincode, gst_number, customer_type, created_at, updated_at`

func (r *customerRepository) CreateCustomer(executor SQLExecutor, customer *models.Customer) (int64, error) {
	query := `INSERT INTO customers
	            (name, phone, email, address, city, state, pincode, gst_number, customer_type, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	currentTime := time.Now()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = currentTime
	}
	if customer.UpdatedAt.IsZero() {
		customer.UpdatedAt = currentTime
	}
	if customer.CustomerType == "" {
		customer.CustomerType = models.CustomerTypeIndividual
	}

	err := executor.QueryRow(query,
		customer.Name, customer.Phone, customer.Email, customer.Address, customer.City,
		customer.State, customer.Pincode, customer.GSTNumber, customer.CustomerType,
		customer.CreatedAt, customer.UpdatedAt,
	).Scan(&customer.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return customer.ID, nil
}

func (r *customerRepository) GetCustomerByID(id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&customer.ID, &customer.Name, &customer.Phone, &customer.Email, &customer.Address,
		&customer.City, &customer.State, &customer.Pincode, &customer.GSTNumber,
		&customer.CustomerType, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by ID %d: %v", ErrDatabaseError, id, err)
	}
	return customer, nil
}

func (r *customerRepository) GetCustomers(filters models.CustomerFilters) ([]models.Customer, int, error) {
	customers := []models.Customer{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + customerColumns + `, COUNT(*) OVER() AS total_count FROM customers`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) ILIKE $%d OR LOWER(phone) ILIKE $%d OR LOWER(COALESCE(email, '')) ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	if filters.CustomerType != nil && *filters.CustomerType != "" {
		conditions = append(conditions, fmt.Sprintf("customer_type = $%d", argCount))
		args = append(args, *filters.CustomerType)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.City, &c.State,
			&c.Pincode, &c.GSTNumber, &c.CustomerType, &c.CreatedAt, &c.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customer rows: %v", ErrDatabaseError, err)
	}
	return customers, totalCount, nil
}

// UpdateCustomer applies a partial update from the allow-listed CustomerUpdate struct.
func (r *customerRepository) UpdateCustomer(executor SQLExecutor, id int64, upd *models.CustomerUpdate) error {
	var assignments []string
	var args []interface{}
	argCount := 1

	setField := func(column string, value interface{}) {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if upd.Name != nil {
		setField("name", *upd.Name)
	}
	if upd.Phone != nil {
		setField("phone", *upd.Phone)
	}
	if upd.Email != nil {
		setField("email", *upd.Email)
	}
	if upd.Address != nil {
		setField("address", *upd.Address)
	}
	if upd.City != nil {
		setField("city", *upd.City)
	}
	if upd.State != nil {
		setField("state", *upd.State)
	}
	if upd.Pincode != nil {
		setField("pincode", *upd.Pincode)
	}
	if upd.GSTNumber != nil {
		setField("gst_number", *upd.GSTNumber)
	}
	if upd.CustomerType != nil {
		setField("customer_type", *upd.CustomerType)
	}

	if len(assignments) == 0 {
		return nil
	}
	setField("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d", strings.Join(assignments, ", "), argCount)
	args = append(args, id)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating customer ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating customer ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) DeleteCustomer(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: customer ID %d is referenced by other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting customer ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting customer ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
