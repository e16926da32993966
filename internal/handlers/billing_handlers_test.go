package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type stubBillingService struct {
	doc  *models.BillingDocument
	docs []models.BillingDocument
	err  error
}

func (s *stubBillingService) CreateDocument(_ services.CreateDocumentRequest) (*models.BillingDocument, error) {
	return s.doc, s.err
}

func (s *stubBillingService) GetDocuments(_ models.DocumentFilters) ([]models.BillingDocument, int, error) {
	return s.docs, len(s.docs), s.err
}

func (s *stubBillingService) GetDocumentByID(_ int64) (*models.BillingDocument, error) {
	return s.doc, s.err
}

func (s *stubBillingService) UpdatePayment(_ int64, _ services.UpdatePaymentRequest) (*models.BillingDocument, error) {
	return s.doc, s.err
}

func (s *stubBillingService) DeleteDocument(_ int64) error {
	return s.err
}

func billTestRouter(svc services.BillingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewBillHandler(svc)
	engine.POST("/api/bills", h.CreateDocument)
	engine.GET("/api/bills/:id", h.GetDocumentByID)
	engine.PATCH("/api/bills/:id/payment", h.UpdatePayment)
	engine.DELETE("/api/bills/:id", h.DeleteDocument)
	return engine
}

const createBillBody = `{
	"customer_name": "Asha Devi",
	"subtotal": 60750,
	"total_amount": 60750,
	"items": [
		{"product_id": 7, "product_name": "Gold Chain 22K", "weight": 10, "rate": 6000,
		 "making_charge": 500, "wastage_charge": 250, "quantity": 1, "total": 60750}
	]
}`

func TestCreateBillReturns201(t *testing.T) {
	svc := &stubBillingService{doc: &models.BillingDocument{ID: 1, Number: "BILL-2026-123456"}}
	engine := billTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bills", strings.NewReader(createBillBody))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool                   `json:"success"`
		Data    models.BillingDocument `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.Data.Number != "BILL-2026-123456" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCreateBillMissingItemsRejectedByBinding(t *testing.T) {
	engine := billTestRouter(&stubBillingService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bills", strings.NewReader(`{"customer_name":"Asha Devi"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateBillStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"totals mismatch", services.ErrTotalsMismatch, http.StatusBadRequest},
		{"unknown product", services.ErrProductNotFound, http.StatusBadRequest},
		{"insufficient stock", services.ErrInsufficientStock, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := billTestRouter(&stubBillingService{err: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/bills", strings.NewReader(createBillBody))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestUpdatePaymentNotFound(t *testing.T) {
	engine := billTestRouter(&stubBillingService{err: services.ErrDocumentNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/bills/5/payment", strings.NewReader(`{"payment_status":"paid"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteBillMessage(t *testing.T) {
	engine := billTestRouter(&stubBillingService{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/bills/5", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["success"] != true || resp["message"] == "" {
		t.Errorf("response = %v", resp)
	}
}
