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

type companyProfileRepo struct {
	db *sqlx.DB
}

// NewCompanyProfileRepo creates a new PostgreSQL-backed CompanyProfileRepository.
func NewCompanyProfileRepo(db *sqlx.DB) port.CompanyProfileRepository {
	return &companyProfileRepo{db: db}
}

func (r *companyProfileRepo) GetByID(ctx context.Context, tenantID, profileID uuid.UUID) (*domain.CompanyProfile, error) {
	var p domain.CompanyProfile
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM company_profiles WHERE id = $1 AND tenant_id = $2", profileID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("companyProfileRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *companyProfileRepo) GetDefault(ctx context.Context, tenantID uuid.UUID) (*domain.CompanyProfile, error) {
	var p domain.CompanyProfile
	err := r.db.GetContext(ctx, &p,
		`SELECT * FROM company_profiles WHERE tenant_id = $1
		ORDER BY is_default DESC, created_at ASC LIMIT 1`, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("companyProfileRepo.GetDefault: %w", err)
	}
	return &p, nil
}
