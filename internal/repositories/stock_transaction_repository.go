package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gold_billing_backend/internal/models"
)

// StockTransactionRepository defines the interface for the stock audit trail.
type StockTransactionRepository interface {
	CreateTransaction(executor SQLExecutor, txn *models.StockTransaction) (int64, error)
	GetTransactions(filters models.StockTransactionFilters) ([]models.StockTransaction, int, error)
}

type stockTransactionRepository struct {
	db *sql.DB
}

// NewStockTransactionRepository creates a new instance of StockTransactionRepository.
func NewStockTransactionRepository(db *sql.DB) StockTransactionRepository {
	return &stockTransactionRepository{db: db}
}

func (r *stockTransactionRepository) CreateTransaction(executor SQLExecutor, txn *models.StockTransaction) (int64, error) {
	query := `INSERT INTO stock_transactions
	          (product_id, direction, quantity, previous_stock, new_stock, reason, reference_type, reference_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		txn.ProductID, txn.Direction, txn.Quantity, txn.PreviousStock, txn.NewStock,
		txn.Reason, txn.ReferenceType, txn.ReferenceID, txn.CreatedAt,
	).Scan(&txn.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating stock transaction: %v", ErrDatabaseError, err)
	}
	return txn.ID, nil
}

func (r *stockTransactionRepository) GetTransactions(filters models.StockTransactionFilters) ([]models.StockTransaction, int, error) {
	transactions := []models.StockTransaction{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    st.id, st.product_id, st.direction, st.quantity, st.previous_stock, st.new_stock,
	    st.reason, st.reference_type, st.reference_id, st.created_at,
	    p.name AS product_name,
	    COUNT(*) OVER() AS total_count
	  FROM stock_transactions st
	  LEFT JOIN products p ON st.product_id = p.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("st.product_id = $%d", argCount))
		args = append(args, *filters.ProductID)
		argCount++
	}
	if filters.Direction != nil && *filters.Direction != "" {
		conditions = append(conditions, fmt.Sprintf("st.direction = $%d", argCount))
		args = append(args, *filters.Direction)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY st.created_at DESC, st.id DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying stock transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var txn models.StockTransaction
		var productName sql.NullString

		if err := rows.Scan(
			&txn.ID, &txn.ProductID, &txn.Direction, &txn.Quantity, &txn.PreviousStock, &txn.NewStock,
			&txn.Reason, &txn.ReferenceType, &txn.ReferenceID, &txn.CreatedAt,
			&productName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock transaction: %v", ErrDatabaseError, err)
		}
		if productName.Valid {
			name := productName.String
			txn.ProductName = &name
		}
		transactions = append(transactions, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock transaction rows: %v", ErrDatabaseError, err)
	}
	return transactions, totalCount, nil
}
