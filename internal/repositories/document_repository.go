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

// DocumentRepository defines the shared database operations for bills and
// invoices. The two tables have the same header shape; bills additionally
// carry the exchange columns.
type DocumentRepository interface {
	CreateDocument(executor SQLExecutor, doc *models.BillingDocument) (int64, error)
	CreateItem(executor SQLExecutor, item *models.DocumentItem) (int64, error)
	GetDocumentByID(id int64) (*models.BillingDocument, error) // joins customer for display
	GetItemsByDocumentID(docID int64) ([]models.DocumentItem, error)
	GetDocuments(filters models.DocumentFilters) ([]models.BillingDocument, int, error)
	UpdatePayment(executor SQLExecutor, id int64, upd *models.PaymentUpdate) error
	DeleteItemsByDocumentID(executor SQLExecutor, docID int64) (int64, error)
	DeleteDocument(executor SQLExecutor, id int64) error
	CountByCustomer(customerID int64) (int64, error)
}

type documentRepository struct {
	db           *sql.DB
	table        string // bills or invoices
	itemTable    string // bill_items or invoice_items
	withExchange bool   // bills carry old-material trade-in columns
}

// NewBillRepository creates a DocumentRepository backed by the bills tables.
func NewBillRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{db: db, table: "bills", itemTable: "bill_items", withExchange: true}
}

// NewInvoiceRepository creates a DocumentRepository backed by the invoices tables.
func NewInvoiceRepository(db *sql.DB) DocumentRepository {
	return &documentRepository{db: db, table: "invoices", itemTable: "invoice_items"}
}

const documentColumns = `id, doc_number, customer_id, customer_name, customer_phone, customer_address,
	 subtotal, tax_percentage, tax_amount, discount_percentage, discount_amount, total_amount,
	 payment_method, payment_status, amount_paid, created_at, updated_at`

const exchangeColumns = `exchange_material_type, exchange_old_weight, exchange_old_purity,
	 exchange_old_rate, exchange_old_value, exchange_difference`

func (r *documentRepository) CreateDocument(executor SQLExecutor, doc *models.BillingDocument) (int64, error) {
	currentTime := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = currentTime
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = currentTime
	}

	columns := []string{
		"doc_number", "customer_id", "customer_name", "customer_phone", "customer_address",
		"subtotal", "tax_percentage", "tax_amount", "discount_percentage", "discount_amount",
		"total_amount", "payment_method", "payment_status", "amount_paid", "created_at", "updated_at",
	}
	args := []interface{}{
		doc.Number, doc.CustomerID, doc.CustomerName, doc.CustomerPhone, doc.CustomerAddress,
		doc.Subtotal, doc.TaxPercentage, doc.TaxAmount, doc.DiscountPercentage, doc.DiscountAmount,
		doc.TotalAmount, doc.PaymentMethod, doc.PaymentStatus, doc.AmountPaid, doc.CreatedAt, doc.UpdatedAt,
	}

	if r.withExchange && doc.Exchange != nil {
		columns = append(columns,
			"exchange_material_type", "exchange_old_weight", "exchange_old_purity",
			"exchange_old_rate", "exchange_old_value", "exchange_difference",
		)
		args = append(args,
			doc.Exchange.MaterialType, doc.Exchange.OldWeight, doc.Exchange.OldPurity,
			doc.Exchange.OldRate, doc.Exchange.OldValue, doc.Exchange.Difference,
		)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		r.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	err := executor.QueryRow(query, args...).Scan(&doc.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return 0, fmt.Errorf("%w: document number '%s' already exists (constraint: %s)", ErrDuplicateKey, doc.Number, pqErr.Constraint)
			case "foreign_key_violation":
				return 0, fmt.Errorf("%w: creating %s record (constraint: %s): %v", ErrDatabaseError, r.table, pqErr.Constraint, err)
			}
		}
		return 0, fmt.Errorf("%w: creating %s record: %v", ErrDatabaseError, r.table, err)
	}
	return doc.ID, nil
}

func (r *documentRepository) CreateItem(executor SQLExecutor, item *models.DocumentItem) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s
	            (document_id, product_id, product_name, weight, rate, making_charge, wastage_charge, quantity, total, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`, r.itemTable)

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		item.DocumentID, item.ProductID, item.ProductName, item.Weight, item.Rate,
		item.MakingCharge, item.WastageCharge, item.Quantity, item.Total, item.CreatedAt,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating %s row (constraint: %s): %v", ErrDatabaseError, r.itemTable, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating %s row: %v", ErrDatabaseError, r.itemTable, err)
	}
	return item.ID, nil
}

func (r *documentRepository) headerColumns(alias string) string {
	cols := documentColumns
	if r.withExchange {
		cols += ", " + exchangeColumns
	}
	if alias == "" {
		return cols
	}
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func (r *documentRepository) scanDocument(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*models.BillingDocument, error) {
	doc := &models.BillingDocument{}

	dest := []interface{}{
		&doc.ID, &doc.Number, &doc.CustomerID, &doc.CustomerName, &doc.CustomerPhone, &doc.CustomerAddress,
		&doc.Subtotal, &doc.TaxPercentage, &doc.TaxAmount, &doc.DiscountPercentage, &doc.DiscountAmount,
		&doc.TotalAmount, &doc.PaymentMethod, &doc.PaymentStatus, &doc.AmountPaid, &doc.CreatedAt, &doc.UpdatedAt,
	}

	var exMaterial, exPurity sql.NullString
	var exWeight, exRate, exValue, exDiff sql.NullFloat64
	if r.withExchange {
		dest = append(dest, &exMaterial, &exWeight, &exPurity, &exRate, &exValue, &exDiff)
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if r.withExchange && exMaterial.Valid {
		doc.Exchange = &models.ExchangeDetails{
			MaterialType: exMaterial.String,
			OldWeight:    exWeight.Float64,
			OldPurity:    exPurity.String,
			OldRate:      exRate.Float64,
			OldValue:     exValue.Float64,
			Difference:   exDiff.Float64,
		}
	}
	return doc, nil
}

func (r *documentRepository) GetDocumentByID(id int64) (*models.BillingDocument, error) {
	query := fmt.Sprintf(`SELECT %s,
	            c.id, c.name, c.phone, c.email, c.address, c.city, c.state, c.pincode, c.gst_number, c.customer_type
	          FROM %s d
	          LEFT JOIN customers c ON d.customer_id = c.id
	          WHERE d.id = $1`, r.headerColumns("d"), r.table)

	var custID sql.NullInt64
	var custName, custPhone, custEmail, custAddress, custCity, custState, custPincode, custGST, custType sql.NullString

	doc, err := r.scanDocument(r.db.QueryRow(query, id),
		&custID, &custName, &custPhone, &custEmail, &custAddress, &custCity, &custState, &custPincode, &custGST, &custType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting %s by ID %d: %v", ErrDatabaseError, r.table, id, err)
	}

	if custID.Valid {
		customer := &models.Customer{ID: custID.Int64}
		if custName.Valid {
			customer.Name = custName.String
		}
		if custPhone.Valid {
			customer.Phone = custPhone.String
		}
		if custEmail.Valid {
			email := custEmail.String
			customer.Email = &email
		}
		if custAddress.Valid {
			address := custAddress.String
			customer.Address = &address
		}
		if custCity.Valid {
			city := custCity.String
			customer.City = &city
		}
		if custState.Valid {
			state := custState.String
			customer.State = &state
		}
		if custPincode.Valid {
			pincode := custPincode.String
			customer.Pincode = &pincode
		}
		if custGST.Valid {
			gst := custGST.String
			customer.GSTNumber = &gst
		}
		if custType.Valid {
			customer.CustomerType = custType.String
		}
		doc.Customer = customer
	}
	return doc, nil
}

func (r *documentRepository) GetItemsByDocumentID(docID int64) ([]models.DocumentItem, error) {
	items := []models.DocumentItem{}
	query := fmt.Sprintf(`SELECT id, document_id, product_id, product_name, weight, rate,
	            making_charge, wastage_charge, quantity, total, created_at
	          FROM %s
	          WHERE document_id = $1
	          ORDER BY id`, r.itemTable)

	rows, err := r.db.Query(query, docID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s for document ID %d: %v", ErrDatabaseError, r.itemTable, docID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.DocumentItem
		if err := rows.Scan(
			&item.ID, &item.DocumentID, &item.ProductID, &item.ProductName, &item.Weight,
			&item.Rate, &item.MakingCharge, &item.WastageCharge, &item.Quantity, &item.Total, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning %s row for document ID %d: %v", ErrDatabaseError, r.itemTable, docID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s rows for document ID %d: %v", ErrDatabaseError, r.itemTable, docID, err)
	}
	return items, nil
}

func (r *documentRepository) GetDocuments(filters models.DocumentFilters) ([]models.BillingDocument, int, error) {
	docs := []models.BillingDocument{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("SELECT %s, COUNT(*) OVER() AS total_count FROM %s d", r.headerColumns("d"), r.table))

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(d.doc_number) ILIKE $%d OR LOWER(d.customer_name) ILIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	if filters.PaymentStatus != nil && *filters.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("d.payment_status = $%d", argCount))
		args = append(args, *filters.PaymentStatus)
		argCount++
	}
	if filters.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("d.customer_id = $%d", argCount))
		args = append(args, *filters.CustomerID)
		argCount++
	}
	if filters.StartDate != nil && *filters.StartDate != "" {
		startOfDay, err := time.Parse("2006-01-02", *filters.StartDate)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", *filters.StartDate)
		}
		conditions = append(conditions, fmt.Sprintf("d.created_at >= $%d", argCount))
		args = append(args, startOfDay)
		argCount++
	}
	if filters.EndDate != nil && *filters.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", *filters.EndDate)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid end_date %q: expected YYYY-MM-DD", *filters.EndDate)
		}
		endOfDay := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		conditions = append(conditions, fmt.Sprintf("d.created_at <= $%d", argCount))
		args = append(args, endOfDay)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY d.created_at DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying %s: %v", ErrDatabaseError, r.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		doc, err := r.scanDocument(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning %s row: %v", ErrDatabaseError, r.table, err)
		}
		docs = append(docs, *doc)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating %s rows: %v", ErrDatabaseError, r.table, err)
	}
	return docs, totalCount, nil
}

// UpdatePayment applies a partial update limited to the payment fields.
func (r *documentRepository) UpdatePayment(executor SQLExecutor, id int64, upd *models.PaymentUpdate) error {
	var assignments []string
	var args []interface{}
	argCount := 1

	setField := func(column string, value interface{}) {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if upd.PaymentStatus != nil {
		setField("payment_status", *upd.PaymentStatus)
	}
	if upd.AmountPaid != nil {
		setField("amount_paid", *upd.AmountPaid)
	}
	if upd.PaymentMethod != nil {
		setField("payment_method", *upd.PaymentMethod)
	}

	if len(assignments) == 0 {
		return nil
	}
	setField("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", r.table, strings.Join(assignments, ", "), argCount)
	args = append(args, id)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating payment for %s ID %d: %v", ErrDatabaseError, r.table, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for payment update on %s ID %d: %v", ErrDatabaseError, r.table, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepository) DeleteItemsByDocumentID(executor SQLExecutor, docID int64) (int64, error) {
	result, err := executor.Exec(fmt.Sprintf("DELETE FROM %s WHERE document_id = $1", r.itemTable), docID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting %s rows for document ID %d: %v", ErrDatabaseError, r.itemTable, docID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting %s rows for document ID %d: %v", ErrDatabaseError, r.itemTable, docID, err)
	}
	return rowsAffected, nil
}

func (r *documentRepository) DeleteDocument(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table), id)
	if err != nil {
		return fmt.Errorf("%w: deleting %s ID %d: %v", ErrDatabaseError, r.table, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting %s ID %d: %v", ErrDatabaseError, r.table, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepository) CountByCustomer(customerID int64) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE customer_id = $1", r.table)
	if err := r.db.QueryRow(query, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting %s for customer ID %d: %v", ErrDatabaseError, r.table, customerID, err)
	}
	return count, nil
}
