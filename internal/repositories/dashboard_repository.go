package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"gold_billing_backend/internal/models"
)

// DashboardRepository runs the read-only aggregation queries behind the
// dashboard endpoint. Rows with negative totals are treated as malformed
// and excluded from every sum.
type DashboardRepository interface {
	SumSales(start, end *time.Time) (float64, error)
	CountDocuments() (billCount int, invoiceCount int, err error)
	CountLowStock() (int, error)
	CountPendingPayments() (int, error)
	SalesBuckets(truncUnit string, start, end time.Time) ([]models.SalesBucket, error)
	CategoryMix() ([]models.CategoryShare, error)
}

type dashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a new instance of DashboardRepository.
func NewDashboardRepository(db *sql.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// allSales unions bills and invoices into one stream of (total_amount, created_at).
const allSales = `(SELECT total_amount, created_at FROM bills
	 UNION ALL
	 SELECT total_amount, created_at FROM invoices) s`

func (r *dashboardRepository) SumSales(start, end *time.Time) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM ` + allSales + ` WHERE total_amount >= 0`
	var args []interface{}
	argCount := 1

	if start != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argCount)
		args = append(args, *start)
		argCount++
	}
	if end != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argCount)
		args = append(args, *end)
	}

	if err := r.db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing sales: %v", ErrDatabaseError, err)
	}
	return total, nil
}

func (r *dashboardRepository) CountDocuments() (int, int, error) {
	var billCount, invoiceCount int
	query := `SELECT (SELECT COUNT(*) FROM bills), (SELECT COUNT(*) FROM invoices)`
	if err := r.db.QueryRow(query).Scan(&billCount, &invoiceCount); err != nil {
		return 0, 0, fmt.Errorf("%w: counting documents: %v", ErrDatabaseError, err)
	}
	return billCount, invoiceCount, nil
}

func (r *dashboardRepository) CountLowStock() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products
	          WHERE status = 'active' AND stock_quantity <= min_stock_level`
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting low stock products: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *dashboardRepository) CountPendingPayments() (int, error) {
	var count int
	query := `SELECT (SELECT COUNT(*) FROM bills WHERE payment_status IN ('pending', 'partial'))
	               + (SELECT COUNT(*) FROM invoices WHERE payment_status IN ('pending', 'partial'))`
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting pending payments: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// SalesBuckets groups sales into date_trunc buckets for charting. truncUnit
// must come from the service's allow-list of PostgreSQL trunc units.
func (r *dashboardRepository) SalesBuckets(truncUnit string, start, end time.Time) ([]models.SalesBucket, error) {
	buckets := []models.SalesBucket{}
	query := `SELECT date_trunc($1, created_at) AS bucket, COALESCE(SUM(total_amount), 0), COUNT(*)
	          FROM ` + allSales + `
	          WHERE total_amount >= 0 AND created_at BETWEEN $2 AND $3
	          GROUP BY bucket
	          ORDER BY bucket`

	rows, err := r.db.Query(query, truncUnit, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales buckets: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucketStart time.Time
		var bucket models.SalesBucket
		if err := rows.Scan(&bucketStart, &bucket.TotalSales, &bucket.Count); err != nil {
			return nil, fmt.Errorf("%w: scanning sales bucket: %v", ErrDatabaseError, err)
		}
		bucket.Label = bucketStart.Format(time.RFC3339)
		buckets = append(buckets, bucket)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales bucket rows: %v", ErrDatabaseError, err)
	}
	return buckets, nil
}

func (r *dashboardRepository) CategoryMix() ([]models.CategoryShare, error) {
	shares := []models.CategoryShare{}
	query := `SELECT category, COUNT(*)
	          FROM products WHERE status = 'active'
	          GROUP BY category ORDER BY COUNT(*) DESC, category`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying category mix: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var share models.CategoryShare
		if err := rows.Scan(&share.Category, &share.Count); err != nil {
			return nil, fmt.Errorf("%w: scanning category share: %v", ErrDatabaseError, err)
		}
		total += share.Count
		shares = append(shares, share)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category share rows: %v", ErrDatabaseError, err)
	}

	for i := range shares {
		if total > 0 {
			shares[i].Percentage = float64(shares[i].Count) * 100 / float64(total)
		}
	}
	return shares, nil
}
