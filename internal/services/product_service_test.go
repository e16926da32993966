package services

import (
	"errors"
	"testing"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"
)

// fakeCatalogRepo backs the product service tests with an in-memory catalog.
type fakeCatalogRepo struct {
	fakeProductRepo
	products map[int64]*models.Product
	refs     models.ProductReferences
	nextID   int64
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{products: map[int64]*models.Product{}}
}

func (f *fakeCatalogRepo) CreateProduct(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	for _, p := range f.products {
		if p.SKU == product.SKU {
			return 0, repositories.ErrDuplicateKey
		}
	}
	f.nextID++
	product.ID = f.nextID
	stored := *product
	f.products[product.ID] = &stored
	return product.ID, nil
}

func (f *fakeCatalogRepo) GetProductByID(id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeCatalogRepo) GetProducts(_ models.ProductFilters) ([]models.Product, int, error) {
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeCatalogRepo) UpdateProduct(_ repositories.SQLExecutor, id int64, upd *models.ProductUpdate) error {
	p, ok := f.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.CurrentRate != nil {
		p.CurrentRate = *upd.CurrentRate
	}
	if upd.StockQuantity != nil {
		p.StockQuantity = *upd.StockQuantity
	}
	return nil
}

func (f *fakeCatalogRepo) DeleteProduct(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogRepo) CountReferences(id int64) (models.ProductReferences, error) {
	if _, ok := f.products[id]; !ok {
		return models.ProductReferences{}, repositories.ErrNotFound
	}
	return f.refs, nil
}

func validProduct() models.Product {
	return models.Product{
		Name:        "Gold Chain 22K",
		Category:    "Chains",
		SKU:         "CHN-001",
		Weight:      10,
		Purity:      "22K",
		CurrentRate: 6000,
	}
}

func TestCreateProductDefaultsAndValidation(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewProductService(repo, nil)

	created, err := svc.CreateProduct(validProduct())
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.Status != models.ProductStatusActive {
		t.Errorf("status = %q, want active default", created.Status)
	}

	tests := []struct {
		name   string
		mutate func(*models.Product)
	}{
		{"missing name", func(p *models.Product) { p.Name = "" }},
		{"zero weight", func(p *models.Product) { p.Weight = 0 }},
		{"zero rate", func(p *models.Product) { p.CurrentRate = 0 }},
		{"negative stock", func(p *models.Product) { p.StockQuantity = -1 }},
		{"unknown status", func(p *models.Product) { p.Status = "archived" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			p.SKU = "CHN-" + tt.name
			tt.mutate(&p)
			if _, err := svc.CreateProduct(p); !errors.Is(err, ErrValidation) {
				t.Errorf("CreateProduct error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewProductService(repo, nil)

	if _, err := svc.CreateProduct(validProduct()); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if _, err := svc.CreateProduct(validProduct()); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate SKU error = %v, want ErrValidation", err)
	}
}

func TestDeleteProductReferenceGuard(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewProductService(repo, nil)

	created, err := svc.CreateProduct(validProduct())
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	repo.refs = models.ProductReferences{BillItems: 2, InvoiceItems: 1, StockTransactions: 3}

	err = svc.DeleteProduct(created.ID, false)
	var refErr *ProductReferencedError
	if !errors.As(err, &refErr) {
		t.Fatalf("DeleteProduct error = %v, want ProductReferencedError", err)
	}
	if refErr.References.BillItems != 2 || refErr.References.InvoiceItems != 1 {
		t.Errorf("reference counts = %+v", refErr.References)
	}

	if err := svc.DeleteProduct(created.ID, true); err != nil {
		t.Fatalf("DeleteProduct with cascade: %v", err)
	}
	if err := svc.DeleteProduct(created.ID, true); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("second delete error = %v, want ErrProductNotFound", err)
	}
}

func TestDeleteProductAuditOnlyReferencesDoNotBlock(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewProductService(repo, nil)

	created, err := svc.CreateProduct(validProduct())
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	repo.refs = models.ProductReferences{StockTransactions: 5}

	if err := svc.DeleteProduct(created.ID, false); err != nil {
		t.Errorf("DeleteProduct with only audit references: %v", err)
	}
}

func TestGetInventoryStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minLevel int
		want     string
	}{
		{"out of stock", 0, 2, StockStatusOut},
		{"at threshold is low", 2, 2, StockStatusLow},
		{"below threshold is low", 1, 2, StockStatusLow},
		{"above threshold", 3, 2, StockStatusIn},
		{"zero threshold in stock", 5, 0, StockStatusIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stockStatus(tt.quantity, tt.minLevel); got != tt.want {
				t.Errorf("stockStatus(%d, %d) = %q, want %q", tt.quantity, tt.minLevel, got, tt.want)
			}
		})
	}
}
