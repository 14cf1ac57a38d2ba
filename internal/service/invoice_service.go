package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"invoicedesk/internal/config"
	"invoicedesk/internal/csvexport"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
	"invoicedesk/internal/port"
	"invoicedesk/internal/xlsxexport"
)

// exportBatchSize is the page size used when streaming exports.
const exportBatchSize = 200

// InvoiceService defines the contract for saved invoices.
type InvoiceService interface {
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error)
	Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error
	ExportCSV(ctx context.Context, tenantID uuid.UUID, w io.Writer) error
	ExportXLSX(ctx context.Context, tenantID, invoiceID uuid.UUID, w io.Writer) (*domain.Invoice, error)
}

type invoiceService struct {
	invoiceRepo port.InvoiceRepository
	storage     port.ObjectStorage
	s3Cfg       *config.S3Config
}

// NewInvoiceService creates a new InvoiceService implementation. storage may be nil.
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		storage:     storage,
		s3Cfg:       s3Cfg,
	}
}

func (s *invoiceService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *invoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
}

func (s *invoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	log.Printf("invoiceService.Delete: deleting invoice %s for tenant %s", invoiceID, tenantID)
	if err := s.invoiceRepo.Delete(ctx, tenantID, invoiceID); err != nil {
		return err
	}

	// A published PDF may or may not exist; removal is best-effort.
	if s.storage != nil && s.s3Cfg.Enabled() {
		key := pdfKey(tenantID, invoiceID)
		if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, key); err != nil {
			log.Printf("invoiceService.Delete: failed to delete %s from S3: %v", key, err)
		}
	}
	return nil
}

// ExportCSV writes every saved invoice of the tenant to w as CSV, preceded
// by a UTF-8 BOM.
func (s *invoiceService) ExportCSV(ctx context.Context, tenantID uuid.UUID, w io.Writer) error {
	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	offset := 0
	for {
		batch, total, err := s.invoiceRepo.ListByTenant(ctx, tenantID, offset, exportBatchSize)
		if err != nil {
			return fmt.Errorf("listing invoices at offset %d: %w", offset, err)
		}
		if err := cw.WriteInvoices(batch); err != nil {
			return fmt.Errorf("writing CSV rows: %w", err)
		}
		offset += len(batch)
		if len(batch) == 0 || offset >= total {
			break
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes one saved invoice to w as an XLSX workbook and returns
// the invoice record for naming the download.
func (s *invoiceService) ExportXLSX(ctx context.Context, tenantID, invoiceID uuid.UUID, w io.Writer) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	var snap editor.Snapshot
	if err := json.Unmarshal(inv.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot of invoice %s: %w", inv.ID, err)
	}
	if err := xlsxexport.Write(w, inv.Number, &snap); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return inv, nil
}
