package partner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fincontrol/backend/internal/domain/partner"
	"github.com/fincontrol/backend/internal/domain/shared"
)

// PartnerService provides customer and supplier CRUD so ledger rows have
// something to reference
type PartnerService struct {
	customerRepo partner.CustomerRepository
	supplierRepo partner.SupplierRepository
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(customerRepo partner.CustomerRepository, supplierRepo partner.SupplierRepository) *PartnerService {
	return &PartnerService{
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
	}
}

// PartnerResponse represents a customer or supplier in API responses
type PartnerResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartnerRequest represents a request to create or update a customer or
// supplier
type PartnerRequest struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
}

// PartnerListFilter defines filtering options for partner list queries
type PartnerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (f PartnerListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	filter.Search = f.Search
	return filter
}

// CreateCustomer creates a new customer
func (s *PartnerService) CreateCustomer(ctx context.Context, tenantID uuid.UUID, req PartnerRequest) (*PartnerResponse, error) {
	customer, err := partner.NewCustomer(tenantID, req.Name, req.Document, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customerResponse(customer), nil
}

// GetCustomerByID gets a customer by ID
func (s *PartnerService) GetCustomerByID(ctx context.Context, tenantID, id uuid.UUID) (*PartnerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return customerResponse(customer), nil
}

// ListCustomers lists customers with filtering
func (s *PartnerService) ListCustomers(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]PartnerResponse, error) {
	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, err
	}
	responses := make([]PartnerResponse, len(customers))
	for i := range customers {
		responses[i] = *customerResponse(&customers[i])
	}
	return responses, nil
}

// UpdateCustomer updates a customer
func (s *PartnerService) UpdateCustomer(ctx context.Context, tenantID, id uuid.UUID, req PartnerRequest) (*PartnerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	if err := customer.Update(req.Name, req.Document, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customerResponse(customer), nil
}

// DeleteCustomer deletes a customer
func (s *PartnerService) DeleteCustomer(ctx context.Context, tenantID, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return s.customerRepo.DeleteForTenant(ctx, tenantID, id)
}

// CreateSupplier creates a new supplier
func (s *PartnerService) CreateSupplier(ctx context.Context, tenantID uuid.UUID, req PartnerRequest) (*PartnerResponse, error) {
	supplier, err := partner.NewSupplier(tenantID, req.Name, req.Document, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierResponse(supplier), nil
}

// GetSupplierByID gets a supplier by ID
func (s *PartnerService) GetSupplierByID(ctx context.Context, tenantID, id uuid.UUID) (*PartnerResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Supplier not found")
	}
	return supplierResponse(supplier), nil
}

// ListSuppliers lists suppliers with filtering
func (s *PartnerService) ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]PartnerResponse, error) {
	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, err
	}
	responses := make([]PartnerResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = *supplierResponse(&suppliers[i])
	}
	return responses, nil
}

// UpdateSupplier updates a supplier
func (s *PartnerService) UpdateSupplier(ctx context.Context, tenantID, id uuid.UUID, req PartnerRequest) (*PartnerResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Supplier not found")
	}
	if err := supplier.Update(req.Name, req.Document, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierResponse(supplier), nil
}

// DeleteSupplier deletes a supplier
func (s *PartnerService) DeleteSupplier(ctx context.Context, tenantID, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return shared.NewDomainError("NOT_FOUND", "Supplier not found")
	}
	return s.supplierRepo.DeleteForTenant(ctx, tenantID, id)
}

func customerResponse(c *partner.Customer) *PartnerResponse {
	return &PartnerResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Name:      c.Name,
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func supplierResponse(s *partner.Supplier) *PartnerResponse {
	return &PartnerResponse{
		ID:        s.ID,
		TenantID:  s.TenantID,
		Name:      s.Name,
		Document:  s.Document,
		Email:     s.Email,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
