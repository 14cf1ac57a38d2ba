package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/port"
)

type leadRepo struct {
	db *sqlx.DB
}

// NewLeadRepo creates a new PostgreSQL-backed LeadRepository.
func NewLeadRepo(db *sqlx.DB) port.LeadRepository {
	return &leadRepo{db: db}
}

func (r *leadRepo) GetByID(ctx context.Context, tenantID, leadID uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.GetContext(ctx, &lead,
		"SELECT * FROM leads WHERE id = $1 AND tenant_id = $2", leadID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("leadRepo.GetByID: %w", err)
	}
	return &lead, nil
}

func (r *leadRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Lead, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM leads WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("leadRepo.ListByTenant count: %w", err)
	}

	var leads []domain.Lead
	err = r.db.SelectContext(ctx, &leads,
		"SELECT * FROM leads WHERE tenant_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3",
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("leadRepo.ListByTenant: %w", err)
	}
	return leads, total, nil
}
