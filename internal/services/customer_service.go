package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"
	"gold_billing_backend/pkg/utils"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerInUse    = errors.New("customer is referenced by invoices")
)

// CustomerReferencedError carries the invoice count blocking the delete.
type CustomerReferencedError struct {
	Invoices int64
}

func (e *CustomerReferencedError) Error() string {
	return fmt.Sprintf("customer is referenced by %d invoice(s)", e.Invoices)
}

func (e *CustomerReferencedError) Unwrap() error { return ErrCustomerInUse }

type CustomerService interface {
	CreateCustomer(customer models.Customer) (*models.Customer, error)
	GetCustomerByID(id int64) (*models.Customer, error)
	GetCustomers(filters models.CustomerFilters) ([]models.Customer, int, error)
	UpdateCustomer(id int64, upd models.CustomerUpdate) (*models.Customer, error)
	DeleteCustomer(id int64) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	invoiceRepo  repositories.DocumentRepository
	db           *sql.DB
}

func NewCustomerService(customerRepo repositories.CustomerRepository, invoiceRepo repositories.DocumentRepository, db *sql.DB) CustomerService {
	return &customerService{customerRepo: customerRepo, invoiceRepo: invoiceRepo, db: db}
}

func validCustomerType(t string) bool {
	return t == models.CustomerTypeIndividual || t == models.CustomerTypeBusiness
}

func (s *customerService) CreateCustomer(customer models.Customer) (*models.Customer, error) {
	if utils.IsEmpty(customer.Name) || utils.IsEmpty(customer.Phone) {
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}
	if customer.CustomerType == "" {
		customer.CustomerType = models.CustomerTypeIndividual
	}
	if !validCustomerType(customer.CustomerType) {
		return nil, fmt.Errorf("%w: invalid customer_type %q", ErrValidation, customer.CustomerType)
	}

	id, err := s.customerRepo.CreateCustomer(s.db, &customer)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return s.customerRepo.GetCustomerByID(id)
}

func (s *customerService) GetCustomerByID(id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomers(filters models.CustomerFilters) ([]models.Customer, int, error) {
	customers, totalCount, err := s.customerRepo.GetCustomers(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, totalCount, nil
}

func (s *customerService) UpdateCustomer(id int64, upd models.CustomerUpdate) (*models.Customer, error) {
	if upd.Name != nil && utils.IsEmpty(*upd.Name) {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if upd.Phone != nil && utils.IsEmpty(*upd.Phone) {
		return nil, fmt.Errorf("%w: phone cannot be empty", ErrValidation)
	}
	if upd.CustomerType != nil && !validCustomerType(*upd.CustomerType) {
		return nil, fmt.Errorf("%w: invalid customer_type %q", ErrValidation, *upd.CustomerType)
	}

	if err := s.customerRepo.UpdateCustomer(s.db, id, &upd); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return s.customerRepo.GetCustomerByID(id)
}

// DeleteCustomer refuses when invoices still reference the customer. Bills
// keep their denormalized name and only null out the foreign key.
func (s *customerService) DeleteCustomer(id int64) error {
	invoiceCount, err := s.invoiceRepo.CountByCustomer(id)
	if err != nil {
		return fmt.Errorf("failed to count customer invoices: %w", err)
	}
	if invoiceCount > 0 {
		return &CustomerReferencedError{Invoices: invoiceCount}
	}

	if err := s.customerRepo.DeleteCustomer(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
