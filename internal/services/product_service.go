package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"
	"gold_billing_backend/pkg/utils"
)

var ErrProductInUse = errors.New("product is referenced by billing documents")

// ProductReferencedError carries the dependent-row counts so the handler can
// return them alongside the refusal.
type ProductReferencedError struct {
	References models.ProductReferences
}

func (e *ProductReferencedError) Error() string {
	return fmt.Sprintf("product is referenced by %d bill item(s) and %d invoice item(s)",
		e.References.BillItems, e.References.InvoiceItems)
}

func (e *ProductReferencedError) Unwrap() error { return ErrProductInUse }

// Stock status labels for the inventory view.
const (
	StockStatusIn  = "In Stock"
	StockStatusLow = "Low Stock"
	StockStatusOut = "Out of Stock"
)

type ProductService interface {
	CreateProduct(product models.Product) (*models.Product, error)
	GetProductByID(id int64) (*models.Product, error)
	GetProducts(filters models.ProductFilters) ([]models.Product, int, error)
	UpdateProduct(id int64, upd models.ProductUpdate) (*models.Product, error)
	DeleteProduct(id int64, cascade bool) error
	GetInventory(filters models.ProductFilters) ([]models.InventoryItem, int, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	db          *sql.DB
}

func NewProductService(productRepo repositories.ProductRepository, db *sql.DB) ProductService {
	return &productService{productRepo: productRepo, db: db}
}

func (s *productService) CreateProduct(product models.Product) (*models.Product, error) {
	if utils.IsEmpty(product.Name) || utils.IsEmpty(product.Category) || utils.IsEmpty(product.SKU) {
		return nil, fmt.Errorf("%w: name, category and sku are required", ErrValidation)
	}
	if product.Weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrValidation)
	}
	if product.CurrentRate <= 0 {
		return nil, fmt.Errorf("%w: current_rate must be positive", ErrValidation)
	}
	if product.StockQuantity < 0 || product.MinStockLevel < 0 {
		return nil, fmt.Errorf("%w: stock quantities cannot be negative", ErrValidation)
	}
	if product.Status == "" {
		product.Status = models.ProductStatusActive
	}
	if product.Status != models.ProductStatusActive && product.Status != models.ProductStatusInactive {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, product.Status)
	}

	id, err := s.productRepo.CreateProduct(s.db, &product)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: a product with SKU %q already exists", ErrValidation, product.SKU)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return s.productRepo.GetProductByID(id)
}

func (s *productService) GetProductByID(id int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) GetProducts(filters models.ProductFilters) ([]models.Product, int, error) {
	products, totalCount, err := s.productRepo.GetProducts(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, totalCount, nil
}

func (s *productService) UpdateProduct(id int64, upd models.ProductUpdate) (*models.Product, error) {
	if upd.Weight != nil && *upd.Weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrValidation)
	}
	if upd.CurrentRate != nil && *upd.CurrentRate <= 0 {
		return nil, fmt.Errorf("%w: current_rate must be positive", ErrValidation)
	}
	if upd.StockQuantity != nil && *upd.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock_quantity cannot be negative", ErrValidation)
	}
	if upd.Status != nil && *upd.Status != models.ProductStatusActive && *upd.Status != models.ProductStatusInactive {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *upd.Status)
	}

	if err := s.productRepo.UpdateProduct(s.db, id, &upd); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: a product with this SKU already exists", ErrValidation)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.productRepo.GetProductByID(id)
}

// DeleteProduct refuses to remove a product that billing documents reference
// unless cascade is requested. With cascade, item and audit rows keep their
// snapshots and only the foreign keys null out.
func (s *productService) DeleteProduct(id int64, cascade bool) error {
	refs, err := s.productRepo.CountReferences(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to count product references: %w", err)
	}
	if refs.Blocking() && !cascade {
		return &ProductReferencedError{References: refs}
	}

	if err := s.productRepo.DeleteProduct(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *productService) GetInventory(filters models.ProductFilters) ([]models.InventoryItem, int, error) {
	products, totalCount, err := s.productRepo.GetProducts(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get inventory: %w", err)
	}

	items := make([]models.InventoryItem, 0, len(products))
	for _, p := range products {
		items = append(items, models.InventoryItem{
			Product:     p,
			StockStatus: stockStatus(p.StockQuantity, p.MinStockLevel),
		})
	}
	return items, totalCount, nil
}

func stockStatus(quantity, minLevel int) string {
	switch {
	case quantity <= 0:
		return StockStatusOut
	case quantity <= minLevel:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
