package port

import (
	"context"

	"github.com/google/uuid"

	"invoicedesk/internal/domain"
)

// InvoiceRepository defines the contract for saved document persistence.
// All query methods include tenantID to enforce tenant isolation at the data layer.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	Update(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error
	// NextNumber returns the next free document number for kind, e.g. "INV-000042".
	NextNumber(ctx context.Context, tenantID uuid.UUID, kind domain.DocumentKind) (string, error)
}

// CompanyProfileRepository defines the contract for reading seller profiles.
type CompanyProfileRepository interface {
	GetByID(ctx context.Context, tenantID, profileID uuid.UUID) (*domain.CompanyProfile, error)
	GetDefault(ctx context.Context, tenantID uuid.UUID) (*domain.CompanyProfile, error)
}

// LeadRepository defines the contract for reading the lead directory.
type LeadRepository interface {
	GetByID(ctx context.Context, tenantID, leadID uuid.UUID) (*domain.Lead, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Lead, int, error)
}
