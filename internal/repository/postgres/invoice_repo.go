package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func isDuplicateNumber(err error) bool {
	return strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "uq_invoices_tenant_number")
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (
		id, tenant_id, kind, number, status, buyer_name, snapshot,
		subtotal, tax_total, grand_total, balance,
		created_by, submitted_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11,
		$12, $13, $14, $15
	)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.TenantID, inv.Kind, inv.Number, inv.Status, inv.BuyerName, inv.Snapshot,
		inv.Subtotal, inv.TaxTotal, inv.GrandTotal, inv.Balance,
		inv.CreatedBy, inv.SubmittedAt, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if isDuplicateNumber(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()

	query := `UPDATE invoices SET
		number = $1, status = $2, buyer_name = $3, snapshot = $4,
		subtotal = $5, tax_total = $6, grand_total = $7, balance = $8,
		submitted_at = $9, updated_at = $10
		WHERE id = $11 AND tenant_id = $12`

	result, err := r.db.ExecContext(ctx, query,
		inv.Number, inv.Status, inv.BuyerName, inv.Snapshot,
		inv.Subtotal, inv.TaxTotal, inv.GrandTotal, inv.Balance,
		inv.SubmittedAt, inv.UpdatedAt,
		inv.ID, inv.TenantID)
	if err != nil {
		if isDuplicateNumber(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT * FROM invoices WHERE id = $1 AND tenant_id = $2", invoiceID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByTenant count: %w", err)
	}

	var invoices []domain.Invoice
	err = r.db.SelectContext(ctx, &invoices,
		"SELECT * FROM invoices WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByTenant: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM invoices WHERE id = $1 AND tenant_id = $2", invoiceID, tenantID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// NextNumber bumps the per-tenant counter for kind in a single statement, so
// concurrent saves never receive the same number.
func (r *invoiceRepo) NextNumber(ctx context.Context, tenantID uuid.UUID, kind domain.DocumentKind) (string, error) {
	query := `INSERT INTO document_counters (tenant_id, kind, value) VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, kind) DO UPDATE SET value = document_counters.value + 1
		RETURNING value`

	var n int64
	if err := r.db.GetContext(ctx, &n, query, tenantID, kind); err != nil {
		return "", fmt.Errorf("invoiceRepo.NextNumber: %w", err)
	}
	return FormatNumber(kind, n), nil
}

// FormatNumber renders the n-th document number of kind, e.g. "QUO-000012".
func FormatNumber(kind domain.DocumentKind, n int64) string {
	return fmt.Sprintf("%s-%06d", kind.NumberPrefix(), n)
}
