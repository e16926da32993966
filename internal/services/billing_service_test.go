package services

import (
	"errors"
	"testing"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

// --- Fakes ---

type fakeDocumentRepo struct {
	docs          map[int64]*models.BillingDocument
	items         map[int64][]models.DocumentItem
	nextID        int64
	createErrs    []error // popped per CreateDocument call
	customerCount int64
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[int64]*models.BillingDocument{}, items: map[int64][]models.DocumentItem{}}
}

func (f *fakeDocumentRepo) CreateDocument(_ repositories.SQLExecutor, doc *models.BillingDocument) (int64, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	f.nextID++
	doc.ID = f.nextID
	stored := *doc
	f.docs[doc.ID] = &stored
	return doc.ID, nil
}

func (f *fakeDocumentRepo) CreateItem(_ repositories.SQLExecutor, item *models.DocumentItem) (int64, error) {
	item.ID = int64(len(f.items[item.DocumentID]) + 1)
	f.items[item.DocumentID] = append(f.items[item.DocumentID], *item)
	return item.ID, nil
}

func (f *fakeDocumentRepo) GetDocumentByID(id int64) (*models.BillingDocument, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocumentRepo) GetItemsByDocumentID(docID int64) ([]models.DocumentItem, error) {
	return f.items[docID], nil
}

func (f *fakeDocumentRepo) GetDocuments(_ models.DocumentFilters) ([]models.BillingDocument, int, error) {
	out := []models.BillingDocument{}
	for _, d := range f.docs {
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (f *fakeDocumentRepo) UpdatePayment(_ repositories.SQLExecutor, id int64, upd *models.PaymentUpdate) error {
	doc, ok := f.docs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if upd.PaymentStatus != nil {
		doc.PaymentStatus = *upd.PaymentStatus
	}
	if upd.AmountPaid != nil {
		doc.AmountPaid = *upd.AmountPaid
	}
	if upd.PaymentMethod != nil {
		doc.PaymentMethod = *upd.PaymentMethod
	}
	return nil
}

func (f *fakeDocumentRepo) DeleteItemsByDocumentID(_ repositories.SQLExecutor, docID int64) (int64, error) {
	n := int64(len(f.items[docID]))
	delete(f.items, docID)
	return n, nil
}

func (f *fakeDocumentRepo) DeleteDocument(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.docs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocumentRepo) CountByCustomer(_ int64) (int64, error) {
	return f.customerCount, nil
}

type fakeProductRepo struct {
	stock map[int64]int
}

func (f *fakeProductRepo) CreateProduct(_ repositories.SQLExecutor, _ *models.Product) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeProductRepo) GetProductByID(id int64) (*models.Product, error) {
	qty, ok := f.stock[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.Product{ID: id, StockQuantity: qty}, nil
}

func (f *fakeProductRepo) GetProducts(_ models.ProductFilters) ([]models.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) UpdateProduct(_ repositories.SQLExecutor, _ int64, _ *models.ProductUpdate) error {
	return nil
}

func (f *fakeProductRepo) DeleteProduct(_ repositories.SQLExecutor, _ int64) error {
	return nil
}

func (f *fakeProductRepo) CountReferences(_ int64) (models.ProductReferences, error) {
	return models.ProductReferences{}, nil
}

func (f *fakeProductRepo) DeductStock(_ repositories.SQLExecutor, productID int64, quantity int) (int, int, error) {
	current, ok := f.stock[productID]
	if !ok {
		return 0, 0, repositories.ErrNotFound
	}
	if current < quantity {
		return current, current, repositories.ErrInsufficientStock
	}
	f.stock[productID] = current - quantity
	return current, current - quantity, nil
}

func (f *fakeProductRepo) RestoreStock(_ repositories.SQLExecutor, productID int64, quantity int) (int, int, error) {
	current, ok := f.stock[productID]
	if !ok {
		return 0, 0, repositories.ErrNotFound
	}
	f.stock[productID] = current + quantity
	return current, current + quantity, nil
}

type fakeStockRepo struct {
	transactions []models.StockTransaction
}

func (f *fakeStockRepo) CreateTransaction(_ repositories.SQLExecutor, txn *models.StockTransaction) (int64, error) {
	txn.ID = int64(len(f.transactions) + 1)
	f.transactions = append(f.transactions, *txn)
	return txn.ID, nil
}

func (f *fakeStockRepo) GetTransactions(_ models.StockTransactionFilters) ([]models.StockTransaction, int, error) {
	return f.transactions, len(f.transactions), nil
}

// --- Helpers ---

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func validBillRequest(productID int64) CreateDocumentRequest {
	return CreateDocumentRequest{
		CustomerName: "Asha Devi",
		Subtotal:     60750,
		TotalAmount:  60750,
		Items: []CreateDocumentItemRequest{
			{
				ProductID:    int64Ptr(productID),
				ProductName:  "Gold Chain 22K",
				Weight:       10,
				Rate:         6000,
				MakingCharge: 500,
				WastageCharge: 250,
				Quantity:     1,
				Total:        60750,
			},
		},
	}
}

// --- Tests ---

func TestCreateDocumentDeductsStockAndAudits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	docRepo := newFakeDocumentRepo()
	productRepo := &fakeProductRepo{stock: map[int64]int{7: 5}}
	stockRepo := &fakeStockRepo{}
	svc := NewBillService(docRepo, productRepo, stockRepo, db)

	req := validBillRequest(7)
	req.Items[0].Quantity = 2
	req.Subtotal = 121500
	req.TotalAmount = 121500
	req.Items[0].Total = 121500

	doc, err := svc.CreateDocument(req)
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if doc.Number == "" || doc.Number[:5] != "BILL-" {
		t.Errorf("document number = %q, want BILL- prefix", doc.Number)
	}
	if got := productRepo.stock[7]; got != 3 {
		t.Errorf("stock after sale = %d, want 3", got)
	}
	if len(stockRepo.transactions) != 1 {
		t.Fatalf("stock transactions = %d, want 1", len(stockRepo.transactions))
	}
	txn := stockRepo.transactions[0]
	if txn.Direction != models.StockDirectionOut || txn.PreviousStock != 5 || txn.NewStock != 3 {
		t.Errorf("audit row = %+v, want out 5->3", txn)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestCreateDocumentInsufficientStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	docRepo := newFakeDocumentRepo()
	productRepo := &fakeProductRepo{stock: map[int64]int{7: 1}}
	stockRepo := &fakeStockRepo{}
	svc := NewBillService(docRepo, productRepo, stockRepo, db)

	req := validBillRequest(7)
	req.Items[0].Quantity = 3
	req.Subtotal = 182250
	req.TotalAmount = 182250
	req.Items[0].Total = 182250

	_, err = svc.CreateDocument(req)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("CreateDocument error = %v, want ErrInsufficientStock", err)
	}
	if got := productRepo.stock[7]; got != 1 {
		t.Errorf("stock after refused sale = %d, want 1", got)
	}
	if len(stockRepo.transactions) != 0 {
		t.Errorf("stock transactions = %d, want 0", len(stockRepo.transactions))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestCreateDocumentRejectsTotalsDrift(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	// No Begin expected: the document is rejected before any transaction.

	svc := NewBillService(newFakeDocumentRepo(), &fakeProductRepo{stock: map[int64]int{}}, &fakeStockRepo{}, db)

	req := validBillRequest(7)
	req.TotalAmount = 59999

	_, err = svc.CreateDocument(req)
	if !errors.Is(err, ErrTotalsMismatch) {
		t.Fatalf("CreateDocument error = %v, want ErrTotalsMismatch", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestCreateDocumentRetriesOnDuplicateNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	docRepo := newFakeDocumentRepo()
	docRepo.createErrs = []error{repositories.ErrDuplicateKey}
	productRepo := &fakeProductRepo{stock: map[int64]int{7: 5}}
	svc := NewBillService(docRepo, productRepo, &fakeStockRepo{}, db)

	doc, err := svc.CreateDocument(validBillRequest(7))
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if doc.ID == 0 {
		t.Error("expected a stored document after retry")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestCreateInvoiceRequiresCustomer(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	svc := NewInvoiceService(newFakeDocumentRepo(), &fakeProductRepo{stock: map[int64]int{}}, &fakeStockRepo{}, db)

	_, err = svc.CreateDocument(validBillRequest(7))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateDocument error = %v, want ErrValidation", err)
	}
}

func TestCreateInvoiceRejectsExchange(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	svc := NewInvoiceService(newFakeDocumentRepo(), &fakeProductRepo{stock: map[int64]int{}}, &fakeStockRepo{}, db)

	req := validBillRequest(7)
	req.CustomerID = int64Ptr(1)
	req.Exchange = &ExchangeRequest{MaterialType: "gold", OldWeight: 5}

	_, err = svc.CreateDocument(req)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateDocument error = %v, want ErrValidation", err)
	}
}

func TestCreateExchangeBillUsesExchangePrefix(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	docRepo := newFakeDocumentRepo()
	svc := NewBillService(docRepo, &fakeProductRepo{stock: map[int64]int{7: 5}}, &fakeStockRepo{}, db)

	req := validBillRequest(7)
	req.Exchange = &ExchangeRequest{MaterialType: "gold", OldWeight: 8, OldPurity: "22K", OldRate: 5800, OldValue: 46400, Difference: 14350}

	doc, err := svc.CreateDocument(req)
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if doc.Number[:5] != "EXCH-" {
		t.Errorf("document number = %q, want EXCH- prefix", doc.Number)
	}
	if doc.Exchange == nil || doc.Exchange.MaterialType != "gold" {
		t.Errorf("exchange details = %+v, want material gold", doc.Exchange)
	}
}

func TestUpdatePaymentValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	svc := NewBillService(newFakeDocumentRepo(), &fakeProductRepo{stock: map[int64]int{}}, &fakeStockRepo{}, db)

	badStatus := "settled"
	if _, err := svc.UpdatePayment(1, UpdatePaymentRequest{PaymentStatus: &badStatus}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad status error = %v, want ErrValidation", err)
	}

	negative := -5.0
	if _, err := svc.UpdatePayment(1, UpdatePaymentRequest{AmountPaid: &negative}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative amount error = %v, want ErrValidation", err)
	}
}

func TestDeleteBillRestocks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	docRepo := newFakeDocumentRepo()
	productRepo := &fakeProductRepo{stock: map[int64]int{7: 5}}
	stockRepo := &fakeStockRepo{}
	svc := NewBillService(docRepo, productRepo, stockRepo, db)

	doc, err := svc.CreateDocument(validBillRequest(7))
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if got := productRepo.stock[7]; got != 4 {
		t.Fatalf("stock after sale = %d, want 4", got)
	}

	if err := svc.DeleteDocument(doc.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if got := productRepo.stock[7]; got != 5 {
		t.Errorf("stock after delete = %d, want 5", got)
	}
	last := stockRepo.transactions[len(stockRepo.transactions)-1]
	if last.Direction != models.StockDirectionIn {
		t.Errorf("last audit direction = %q, want in", last.Direction)
	}
	if _, err := svc.GetDocumentByID(doc.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("GetDocumentByID after delete = %v, want ErrDocumentNotFound", err)
	}
}

func TestGetDocumentsRejectsMalformedDates(t *testing.T) {
	svc := NewBillService(newFakeDocumentRepo(), &fakeProductRepo{stock: map[int64]int{}}, &fakeStockRepo{}, nil)

	tests := []struct {
		name    string
		filters models.DocumentFilters
		wantErr bool
	}{
		{"bad start_date", models.DocumentFilters{StartDate: strPtr("01-08-2026")}, true},
		{"bad end_date", models.DocumentFilters{EndDate: strPtr("not-a-date")}, true},
		{"valid range", models.DocumentFilters{StartDate: strPtr("2026-08-01"), EndDate: strPtr("2026-08-31")}, false},
		{"no dates", models.DocumentFilters{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.GetDocuments(tt.filters)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("err = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("GetDocuments: %v", err)
			}
		})
	}
}
