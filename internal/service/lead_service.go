package service

import (
	"context"

	"github.com/google/uuid"

	"invoicedesk/internal/address"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/port"
)

// LeadView is a lead with its free-text address split into parts.
type LeadView struct {
	domain.Lead
	Address domain.Address `json:"address"`
}

// LeadService defines the lead directory contract.
type LeadService interface {
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]LeadView, int, error)
}

type leadService struct {
	leadRepo port.LeadRepository
}

// NewLeadService creates a new LeadService implementation.
func NewLeadService(leadRepo port.LeadRepository) LeadService {
	return &leadService{leadRepo: leadRepo}
}

func (s *leadService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]LeadView, int, error) {
	leads, total, err := s.leadRepo.ListByTenant(ctx, tenantID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	views := make([]LeadView, len(leads))
	for i := range leads {
		views[i] = LeadView{Lead: leads[i], Address: address.Parse(leads[i].RawAddress)}
	}
	return views, total, nil
}
