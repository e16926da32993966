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

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(id int64) (*models.Product, error)
	GetProducts(filters models.ProductFilters) ([]models.Product, int, error) // products, total count, error
	UpdateProduct(executor SQLExecutor, id int64, upd *models.ProductUpdate) error
	DeleteProduct(executor SQLExecutor, id int64) error
	CountReferences(id int64) (models.ProductReferences, error)

	// DeductStock atomically decrements stock_quantity, refusing to go
	// negative. Returns the previous and new stock levels.
	DeductStock(executor SQLExecutor, productID int64, quantity int) (int, int, error)
	// RestoreStock adds quantity back, e.g. when a bill is deleted.
	RestoreStock(executor SQLExecutor, productID int64, quantity int) (int, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, category, sub_category, sku, barcode, weight, purity,
	 making_charge, current_rate, stock_quantity, min_stock_level, status, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Category, &p.SubCategory, &p.SKU, &p.Barcode, &p.Weight, &p.Purity,
		&p.MakingCharge, &p.CurrentRate, &p.StockQuantity, &p.MinStockLevel, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products
	            (name, category, sub_category, sku, barcode, weight, purity, making_charge,
	             current_rate, stock_quantity, min_stock_level, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`

	currentTime := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = currentTime
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = currentTime
	}
	if product.Status == "" {
		product.Status = models.ProductStatusActive
	}

	err := executor.QueryRow(query,
		product.Name, product.Category, product.SubCategory, product.SKU, product.Barcode,
		product.Weight, product.Purity, product.MakingCharge, product.CurrentRate,
		product.StockQuantity, product.MinStockLevel, product.Status,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: product sku '%s' already exists (constraint: %s)", ErrDuplicateKey, product.SKU, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *productRepository) GetProductByID(id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := scanProduct(r.db.QueryRow(query, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) GetProducts(filters models.ProductFilters) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + productColumns + `, COUNT(*) OVER() AS total_count FROM products`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) ILIKE $%d OR LOWER(sku) ILIKE $%d OR LOWER(COALESCE(barcode, '')) ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.SubCategory, &p.SKU, &p.Barcode, &p.Weight, &p.Purity,
			&p.MakingCharge, &p.CurrentRate, &p.StockQuantity, &p.MinStockLevel, &p.Status,
			&p.CreatedAt, &p.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

// UpdateProduct applies a partial update. Only fields present in the
// allow-listed ProductUpdate struct become column assignments.
func (r *productRepository) UpdateProduct(executor SQLExecutor, id int64, upd *models.ProductUpdate) error {
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
	if upd.Category != nil {
		setField("category", *upd.Category)
	}
	if upd.SubCategory != nil {
		setField("sub_category", *upd.SubCategory)
	}
	if upd.SKU != nil {
		setField("sku", *upd.SKU)
	}
	if upd.Barcode != nil {
		setField("barcode", *upd.Barcode)
	}
	if upd.Weight != nil {
		setField("weight", *upd.Weight)
	}
	if upd.Purity != nil {
		setField("purity", *upd.Purity)
	}
	if upd.MakingCharge != nil {
		setField("making_charge", *upd.MakingCharge)
	}
	if upd.CurrentRate != nil {
		setField("current_rate", *upd.CurrentRate)
	}
	if upd.StockQuantity != nil {
		setField("stock_quantity", *upd.StockQuantity)
	}
	if upd.MinStockLevel != nil {
		setField("min_stock_level", *upd.MinStockLevel)
	}
	if upd.Status != nil {
		setField("status", *upd.Status)
	}

	if len(assignments) == 0 {
		return nil
	}
	setField("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(assignments, ", "), argCount)
	args = append(args, id)

	result, err := executor.Exec(query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating product ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountReferences inspects the three dependent tables so the service can
// decide whether a delete needs cascade.
func (r *productRepository) CountReferences(id int64) (models.ProductReferences, error) {
	var refs models.ProductReferences
	query := `SELECT
	            (SELECT COUNT(*) FROM bill_items WHERE product_id = $1),
	            (SELECT COUNT(*) FROM invoice_items WHERE product_id = $1),
	            (SELECT COUNT(*) FROM stock_transactions WHERE product_id = $1)`
	err := r.db.QueryRow(query, id).Scan(&refs.BillItems, &refs.InvoiceItems, &refs.StockTransactions)
	if err != nil {
		return refs, fmt.Errorf("%w: counting references for product ID %d: %v", ErrDatabaseError, id, err)
	}
	return refs, nil
}

func (r *productRepository) DeductStock(executor SQLExecutor, productID int64, quantity int) (int, int, error) {
	// The WHERE clause re-checks sufficiency atomically; the stock level can
	// never go negative even under concurrent sales.
	query := `UPDATE products
	          SET stock_quantity = stock_quantity - $1, updated_at = $2
	          WHERE id = $3 AND stock_quantity >= $1
	          RETURNING stock_quantity`

	var newStock int
	err := executor.QueryRow(query, quantity, time.Now(), productID).Scan(&newStock)
	if err == nil {
		return newStock + quantity, newStock, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: deducting stock for product ID %d: %v", ErrDatabaseError, productID, err)
	}

	// No row matched: either the product is missing or the stock is too low.
	var current int
	err = executor.QueryRow(`SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("%w: checking stock for product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return current, current, fmt.Errorf("%w: product ID %d has %d, requested %d", ErrInsufficientStock, productID, current, quantity)
}

func (r *productRepository) RestoreStock(executor SQLExecutor, productID int64, quantity int) (int, int, error) {
	query := `UPDATE products
	          SET stock_quantity = stock_quantity + $1, updated_at = $2
	          WHERE id = $3
	          RETURNING stock_quantity`

	var newStock int
	err := executor.QueryRow(query, quantity, time.Now(), productID).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, fmt.Errorf("%w: restoring stock for product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return newStock - quantity, newStock, nil
}
