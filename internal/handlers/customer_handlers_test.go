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

type stubCustomerService struct {
	customer  *models.Customer
	customers []models.Customer
	err       error
}

func (s *stubCustomerService) CreateCustomer(_ models.Customer) (*models.Customer, error) {
	return s.customer, s.err
}

func (s *stubCustomerService) GetCustomerByID(_ int64) (*models.Customer, error) {
	return s.customer, s.err
}

func (s *stubCustomerService) GetCustomers(_ models.CustomerFilters) ([]models.Customer, int, error) {
	return s.customers, len(s.customers), s.err
}

func (s *stubCustomerService) UpdateCustomer(_ int64, _ models.CustomerUpdate) (*models.Customer, error) {
	return s.customer, s.err
}

func (s *stubCustomerService) DeleteCustomer(_ int64) error {
	return s.err
}

func customerTestRouter(svc services.CustomerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewCustomerHandler(svc)
	engine.DELETE("/api/customers/:id", h.DeleteCustomer)
	return engine
}

func TestDeleteCustomerBlockedByInvoices(t *testing.T) {
	svc := &stubCustomerService{err: &services.CustomerReferencedError{Invoices: 1}}
	engine := customerTestRouter(svc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/customers/5", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success      bool   `json:"success"`
		Error        string `json:"error"`
		InvoiceCount int64  `json:"invoice_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success || resp.InvoiceCount != 1 {
		t.Errorf("response = %+v", resp)
	}
	if !strings.Contains(resp.Error, "1 invoice(s)") {
		t.Errorf("error = %q, want invoice count in the message", resp.Error)
	}
}

func TestDeleteCustomerNotFound(t *testing.T) {
	svc := &stubCustomerService{err: services.ErrCustomerNotFound}
	engine := customerTestRouter(svc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/customers/99", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
