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

type stubProductService struct {
	product   *models.Product
	products  []models.Product
	inventory []models.InventoryItem
	err       error
	cascade   bool // records the last cascade flag
}

func (s *stubProductService) CreateProduct(p models.Product) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) GetProductByID(id int64) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) GetProducts(_ models.ProductFilters) ([]models.Product, int, error) {
	return s.products, len(s.products), s.err
}

func (s *stubProductService) UpdateProduct(_ int64, _ models.ProductUpdate) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) DeleteProduct(_ int64, cascade bool) error {
	s.cascade = cascade
	return s.err
}

func (s *stubProductService) GetInventory(_ models.ProductFilters) ([]models.InventoryItem, int, error) {
	return s.inventory, len(s.inventory), s.err
}

func productTestRouter(svc services.ProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewProductHandler(svc)
	engine.POST("/api/products", h.CreateProduct)
	engine.GET("/api/products", h.GetProducts)
	engine.GET("/api/products/:id", h.GetProductByID)
	engine.DELETE("/api/products/:id", h.DeleteProduct)
	return engine
}

func TestCreateProductEnvelope(t *testing.T) {
	svc := &stubProductService{product: &models.Product{ID: 1, Name: "Gold Chain 22K", SKU: "CHN-001"}}
	engine := productTestRouter(svc)

	body := `{"name":"Gold Chain 22K","category":"Chains","sku":"CHN-001","weight":10,"purity":"22K","current_rate":6000}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool           `json:"success"`
		Data    models.Product `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.Data.ID != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestGetProductsListEnvelope(t *testing.T) {
	svc := &stubProductService{products: []models.Product{{ID: 1}, {ID: 2}}}
	engine := productTestRouter(svc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?search=chain", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Success bool             `json:"success"`
		Data    []models.Product `json:"data"`
		Count   int              `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.Count != 2 || len(resp.Data) != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	svc := &stubProductService{err: services.ErrProductNotFound}
	engine := productTestRouter(svc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/99", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["success"] != false {
		t.Errorf("success = %v, want false", resp["success"])
	}
}

func TestGetProductByIDBadID(t *testing.T) {
	engine := productTestRouter(&stubProductService{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteProductBlockedCarriesCounts(t *testing.T) {
	svc := &stubProductService{err: &services.ProductReferencedError{
		References: models.ProductReferences{BillItems: 2, InvoiceItems: 1},
	}}
	engine := productTestRouter(svc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/products/7", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success    bool                     `json:"success"`
		Error      string                   `json:"error"`
		References models.ProductReferences `json:"references"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success || resp.References.BillItems != 2 || resp.References.InvoiceItems != 1 {
		t.Errorf("response = %+v", resp)
	}
	if !strings.Contains(resp.Error, "2 bill item(s)") || !strings.Contains(resp.Error, "1 invoice item(s)") {
		t.Errorf("error = %q, want reference counts in the message", resp.Error)
	}
}

func TestDeleteProductPassesCascadeFlag(t *testing.T) {
	svc := &stubProductService{}
	engine := productTestRouter(svc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/products/7?cascade=true", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !svc.cascade {
		t.Error("cascade flag not passed through")
	}
}
