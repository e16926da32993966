package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"
	"gold_billing_backend/pkg/pricing"
	"gold_billing_backend/pkg/utils"
)

// Custom errors for billing flows.
var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrProductNotFound   = errors.New("product not found or not available")
	ErrInsufficientStock = errors.New("insufficient stock for item")
	ErrTotalsMismatch    = errors.New("submitted totals do not match computed totals")
)

// Document number prefixes.
const (
	PrefixBill     = "BILL"
	PrefixInvoice  = "INV"
	PrefixExchange = "EXCH"
)

const maxDocNumberAttempts = 3

// --- Data Transfer Objects (DTOs) ---

// CreateDocumentItemRequest is one line item of a bill or invoice submission.
// Total is the client-computed line total; the service verifies it against
// the shared pricing formulas before accepting the document.
type CreateDocumentItemRequest struct {
	ProductID     *int64  `json:"product_id"`
	ProductName   string  `json:"product_name" binding:"required"`
	Weight        float64 `json:"weight"`
	Rate          float64 `json:"rate"`
	MakingCharge  float64 `json:"making_charge"`
	WastageCharge float64 `json:"wastage_charge"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	Total         float64 `json:"total"`
}

// ExchangeRequest carries the old-material fields of a gold exchange bill.
type ExchangeRequest struct {
	MaterialType string  `json:"material_type" binding:"required"`
	OldWeight    float64 `json:"old_weight"`
	OldPurity    string  `json:"old_purity"`
	OldRate      float64 `json:"old_rate"`
	OldValue     float64 `json:"old_value"`
	Difference   float64 `json:"difference"`
}

// CreateDocumentRequest is used for creating a bill or invoice with its items.
type CreateDocumentRequest struct {
	CustomerID         *int64                      `json:"customer_id"`
	CustomerName       string                      `json:"customer_name" binding:"required"`
	CustomerPhone      *string                     `json:"customer_phone"`
	CustomerAddress    *string                     `json:"customer_address"`
	Subtotal           float64                     `json:"subtotal"`
	TaxPercentage      float64                     `json:"tax_percentage"`
	TaxAmount          float64                     `json:"tax_amount"`
	DiscountPercentage float64                     `json:"discount_percentage"`
	DiscountAmount     float64                     `json:"discount_amount"`
	TotalAmount        float64                     `json:"total_amount"`
	PaymentMethod      string                      `json:"payment_method"`
	PaymentStatus      string                      `json:"payment_status"`
	AmountPaid         float64                     `json:"amount_paid"`
	Exchange           *ExchangeRequest            `json:"exchange"`
	Items              []CreateDocumentItemRequest `json:"items" binding:"required,dive"`
}

// UpdatePaymentRequest is used for partial payment updates on an existing document.
type UpdatePaymentRequest struct {
	PaymentStatus *string  `json:"payment_status"`
	AmountPaid    *float64 `json:"amount_paid"`
	PaymentMethod *string  `json:"payment_method"`
}

// --- BillingService Interface ---

// BillingService owns the one atomic unit of the system: document creation,
// including stock deduction and its audit trail.
type BillingService interface {
	CreateDocument(req CreateDocumentRequest) (*models.BillingDocument, error)
	GetDocuments(filters models.DocumentFilters) ([]models.BillingDocument, int, error)
	GetDocumentByID(docID int64) (*models.BillingDocument, error)
	UpdatePayment(docID int64, req UpdatePaymentRequest) (*models.BillingDocument, error)
	DeleteDocument(docID int64) error
}

// billingConfig captures how the two document families differ.
type billingConfig struct {
	prefix          string
	exchangePrefix  string // empty when the document type has no exchange variant
	referenceType   string
	docLabel        string // for error messages and audit reasons
	requireCustomer bool   // invoices enforce a mandatory customer link
	restockOnDelete bool
}

type billingService struct {
	docRepo     repositories.DocumentRepository
	productRepo repositories.ProductRepository
	stockRepo   repositories.StockTransactionRepository
	db          *sql.DB // For managing transactions
	cfg         billingConfig
}

// NewBillService creates the BillingService handling bills and exchange bills.
func NewBillService(
	docRepo repositories.DocumentRepository,
	productRepo repositories.ProductRepository,
	stockRepo repositories.StockTransactionRepository,
	db *sql.DB,
) BillingService {
	return &billingService{
		docRepo:     docRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		db:          db,
		cfg: billingConfig{
			prefix:          PrefixBill,
			exchangePrefix:  PrefixExchange,
			referenceType:   models.StockReferenceBill,
			docLabel:        "bill",
			restockOnDelete: true,
		},
	}
}

// NewInvoiceService creates the BillingService handling invoices.
func NewInvoiceService(
	docRepo repositories.DocumentRepository,
	productRepo repositories.ProductRepository,
	stockRepo repositories.StockTransactionRepository,
	db *sql.DB,
) BillingService {
	return &billingService{
		docRepo:     docRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		db:          db,
		cfg: billingConfig{
			prefix:          PrefixInvoice,
			referenceType:   models.StockReferenceInvoice,
			docLabel:        "invoice",
			requireCustomer: true,
		},
	}
}

// --- Method Implementations ---

func (s *billingService) validateCreate(req *CreateDocumentRequest) error {
	if utils.IsEmpty(req.CustomerName) {
		return fmt.Errorf("%w: customer_name is required", ErrValidation)
	}
	if s.cfg.requireCustomer && req.CustomerID == nil {
		return fmt.Errorf("%w: customer_id is required for an %s", ErrValidation, s.cfg.docLabel)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for item %d must be positive", ErrValidation, i+1)
		}
		if utils.IsEmpty(item.ProductName) {
			return fmt.Errorf("%w: product_name for item %d is required", ErrValidation, i+1)
		}
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodCash
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: invalid payment_method %q", ErrValidation, req.PaymentMethod)
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = models.PaymentStatusPending
	}
	if !models.ValidPaymentStatus(req.PaymentStatus) {
		return fmt.Errorf("%w: invalid payment_status %q", ErrValidation, req.PaymentStatus)
	}
	if req.Exchange != nil && s.cfg.exchangePrefix == "" {
		return fmt.Errorf("%w: an %s cannot carry exchange details", ErrValidation, s.cfg.docLabel)
	}
	return nil
}

// verifyTotals cross-checks the client-computed amounts against the shared
// pricing formulas. Stored values remain exactly as supplied; the check only
// rejects documents whose numbers disagree beyond a paisa.
func (s *billingService) verifyTotals(req *CreateDocumentRequest) error {
	lines := make([]pricing.LineItem, 0, len(req.Items))
	for i, item := range req.Items {
		line := pricing.LineItem{
			Weight:        item.Weight,
			Rate:          item.Rate,
			MakingCharge:  item.MakingCharge,
			WastageCharge: item.WastageCharge,
			Quantity:      item.Quantity,
		}
		if !pricing.WithinTolerance(item.Total, pricing.ItemTotal(line)) {
			return fmt.Errorf("%w: item %d total %.2f, computed %.2f",
				ErrTotalsMismatch, i+1, item.Total, pricing.ItemTotal(line))
		}
		lines = append(lines, line)
	}

	totals := pricing.Compute(lines, req.DiscountPercentage, req.DiscountAmount, req.TaxPercentage)
	if !pricing.WithinTolerance(req.Subtotal, totals.Subtotal) {
		return fmt.Errorf("%w: subtotal %.2f, computed %.2f", ErrTotalsMismatch, req.Subtotal, totals.Subtotal)
	}
	if !pricing.WithinTolerance(req.TaxAmount, totals.TaxAmount) {
		return fmt.Errorf("%w: tax_amount %.2f, computed %.2f", ErrTotalsMismatch, req.TaxAmount, totals.TaxAmount)
	}
	if !pricing.WithinTolerance(req.TotalAmount, totals.TotalAmount) {
		return fmt.Errorf("%w: total_amount %.2f, computed %.2f", ErrTotalsMismatch, req.TotalAmount, totals.TotalAmount)
	}
	return nil
}

func (s *billingService) CreateDocument(req CreateDocumentRequest) (*models.BillingDocument, error) {
	if err := s.validateCreate(&req); err != nil {
		return nil, err
	}
	if err := s.verifyTotals(&req); err != nil {
		return nil, err
	}

	prefix := s.cfg.prefix
	if req.Exchange != nil {
		prefix = s.cfg.exchangePrefix
	}

	// The millisecond-derived number can collide under concurrent
	// submissions; the unique constraint catches that and we retry the whole
	// transaction with a fresh suffix.
	var docID int64
	number := documentNumber(prefix, time.Now())
	for attempt := 0; ; attempt++ {
		id, err := s.createDocumentTx(&req, number)
		if err == nil {
			docID = id
			break
		}
		if errors.Is(err, repositories.ErrDuplicateKey) && attempt < maxDocNumberAttempts-1 {
			number = collisionRetryNumber(prefix, time.Now())
			continue
		}
		return nil, err
	}

	return s.GetDocumentByID(docID)
}

// createDocumentTx runs one all-or-nothing creation attempt: header, items,
// stock decrements and audit rows inside a single transaction.
func (s *billingService) createDocumentTx(req *CreateDocumentRequest, number string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	doc := models.BillingDocument{
		Number:             number,
		CustomerID:         req.CustomerID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		CustomerAddress:    req.CustomerAddress,
		Subtotal:           req.Subtotal,
		TaxPercentage:      req.TaxPercentage,
		TaxAmount:          req.TaxAmount,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		TotalAmount:        req.TotalAmount,
		PaymentMethod:      req.PaymentMethod,
		PaymentStatus:      req.PaymentStatus,
		AmountPaid:         req.AmountPaid,
	}
	if req.Exchange != nil {
		doc.Exchange = &models.ExchangeDetails{
			MaterialType: req.Exchange.MaterialType,
			OldWeight:    req.Exchange.OldWeight,
			OldPurity:    req.Exchange.OldPurity,
			OldRate:      req.Exchange.OldRate,
			OldValue:     req.Exchange.OldValue,
			Difference:   req.Exchange.Difference,
		}
	}

	docID, err := s.docRepo.CreateDocument(tx, &doc)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s record: %w", s.cfg.docLabel, err)
	}

	for _, itemReq := range req.Items {
		item := models.DocumentItem{
			DocumentID:    docID,
			ProductID:     itemReq.ProductID,
			ProductName:   itemReq.ProductName,
			Weight:        itemReq.Weight,
			Rate:          itemReq.Rate,
			MakingCharge:  itemReq.MakingCharge,
			WastageCharge: itemReq.WastageCharge,
			Quantity:      itemReq.Quantity,
			Total:         itemReq.Total,
		}
		if _, err := s.docRepo.CreateItem(tx, &item); err != nil {
			return 0, fmt.Errorf("failed to create %s item (product: %s): %w", s.cfg.docLabel, itemReq.ProductName, err)
		}

		// Free-form lines without a product reference never touch stock.
		if itemReq.ProductID == nil {
			continue
		}

		previousStock, newStock, err := s.productRepo.DeductStock(tx, *itemReq.ProductID, itemReq.Quantity)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return 0, fmt.Errorf("%w: product ID %d", ErrProductNotFound, *itemReq.ProductID)
			}
			if errors.Is(err, repositories.ErrInsufficientStock) {
				return 0, fmt.Errorf("%w: %s (product ID %d). Requested: %d, Available: %d",
					ErrInsufficientStock, itemReq.ProductName, *itemReq.ProductID, itemReq.Quantity, previousStock)
			}
			return 0, fmt.Errorf("failed to deduct stock for product ID %d: %w", *itemReq.ProductID, err)
		}

		txn := models.StockTransaction{
			ProductID:     itemReq.ProductID,
			Direction:     models.StockDirectionOut,
			Quantity:      itemReq.Quantity,
			PreviousStock: previousStock,
			NewStock:      newStock,
			Reason:        models.NewNullString(fmt.Sprintf("Sale %s", number)),
			ReferenceType: models.NewNullString(s.cfg.referenceType),
			ReferenceID:   &docID,
		}
		if _, err := s.stockRepo.CreateTransaction(tx, &txn); err != nil {
			return 0, fmt.Errorf("failed to record stock transaction for product ID %d: %w", *itemReq.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit %s transaction: %w", s.cfg.docLabel, err)
	}
	return docID, nil
}

func (s *billingService) GetDocuments(filters models.DocumentFilters) ([]models.BillingDocument, int, error) {
	if filters.StartDate != nil && *filters.StartDate != "" {
		if _, perr := time.Parse("2006-01-02", *filters.StartDate); perr != nil {
			return nil, 0, fmt.Errorf("%w: invalid start_date %q", ErrValidation, *filters.StartDate)
		}
	}
	if filters.EndDate != nil && *filters.EndDate != "" {
		if _, perr := time.Parse("2006-01-02", *filters.EndDate); perr != nil {
			return nil, 0, fmt.Errorf("%w: invalid end_date %q", ErrValidation, *filters.EndDate)
		}
	}

	docs, totalCount, err := s.docRepo.GetDocuments(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get %ss: %w", s.cfg.docLabel, err)
	}
	return docs, totalCount, nil
}

func (s *billingService) GetDocumentByID(docID int64) (*models.BillingDocument, error) {
	doc, err := s.docRepo.GetDocumentByID(docID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get %s by ID: %w", s.cfg.docLabel, err)
	}

	items, err := s.docRepo.GetItemsByDocumentID(docID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for %s ID %d: %w", s.cfg.docLabel, docID, err)
	}
	doc.Items = items
	return doc, nil
}

func (s *billingService) UpdatePayment(docID int64, req UpdatePaymentRequest) (*models.BillingDocument, error) {
	if req.PaymentStatus != nil && !models.ValidPaymentStatus(*req.PaymentStatus) {
		return nil, fmt.Errorf("%w: invalid payment_status %q", ErrValidation, *req.PaymentStatus)
	}
	if req.PaymentMethod != nil && !models.ValidPaymentMethod(*req.PaymentMethod) {
		return nil, fmt.Errorf("%w: invalid payment_method %q", ErrValidation, *req.PaymentMethod)
	}
	if req.AmountPaid != nil && *req.AmountPaid < 0 {
		return nil, fmt.Errorf("%w: amount_paid cannot be negative", ErrValidation)
	}

	upd := models.PaymentUpdate{
		PaymentStatus: req.PaymentStatus,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.docRepo.UpdatePayment(s.db, docID, &upd); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to update payment for %s ID %d: %w", s.cfg.docLabel, docID, err)
	}
	return s.GetDocumentByID(docID)
}

func (s *billingService) DeleteDocument(docID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	doc, err := s.docRepo.GetDocumentByID(docID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to fetch %s for deletion: %w", s.cfg.docLabel, err)
	}

	if s.cfg.restockOnDelete {
		items, err := s.docRepo.GetItemsByDocumentID(docID)
		if err != nil {
			return fmt.Errorf("failed to fetch items for stock return on delete: %w", err)
		}
		for _, item := range items {
			if item.ProductID == nil {
				continue
			}
			previousStock, newStock, err := s.productRepo.RestoreStock(tx, *item.ProductID, item.Quantity)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					// Product was cascade-deleted after the sale; nothing to restock.
					continue
				}
				return fmt.Errorf("failed to return stock for product ID %d on delete: %w", *item.ProductID, err)
			}
			txn := models.StockTransaction{
				ProductID:     item.ProductID,
				Direction:     models.StockDirectionIn,
				Quantity:      item.Quantity,
				PreviousStock: previousStock,
				NewStock:      newStock,
				Reason:        models.NewNullString(fmt.Sprintf("%s %s deleted", s.cfg.docLabel, doc.Number)),
				ReferenceType: models.NewNullString(s.cfg.referenceType),
				ReferenceID:   &docID,
			}
			if _, err := s.stockRepo.CreateTransaction(tx, &txn); err != nil {
				return fmt.Errorf("failed to record stock return for product ID %d: %w", *item.ProductID, err)
			}
		}
	}

	if _, err := s.docRepo.DeleteItemsByDocumentID(tx, docID); err != nil {
		return fmt.Errorf("failed to delete %s items: %w", s.cfg.docLabel, err)
	}
	if err := s.docRepo.DeleteDocument(tx, docID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete %s: %w", s.cfg.docLabel, err)
	}

	return tx.Commit()
}
