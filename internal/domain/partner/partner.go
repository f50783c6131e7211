package partner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/fincontrol/backend/internal/domain/shared"
)

// Customer is a tenant-scoped buyer referenced by sale transactions
type Customer struct {
	shared.TenantAggregateRoot
	Name     string
	Document string
	Email    string
	Phone    string
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, name, document, email, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "customer name cannot be empty")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Document:            document,
		Email:               email,
		Phone:               phone,
	}, nil
}

// Update replaces the customer's contact details
func (c *Customer) Update(name, document, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "customer name cannot be empty")
	}
	c.Name = name
	c.Document = document
	c.Email = email
	c.Phone = phone
	return nil
}

// Supplier is a tenant-scoped vendor referenced by purchase transactions
type Supplier struct {
	shared.TenantAggregateRoot
	Name     string
	Document string
	Email    string
	Phone    string
}

// NewSupplier creates a new supplier
func NewSupplier(tenantID uuid.UUID, name, document, email, phone string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "supplier name cannot be empty")
	}
	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Document:            document,
		Email:               email,
		Phone:               phone,
	}, nil
}

// Update replaces the supplier's contact details
func (s *Supplier) Update(name, document, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "supplier name cannot be empty")
	}
	s.Name = name
	s.Document = document
	s.Email = email
	s.Phone = phone
	return nil
}
