package service

import (
	"time"

	"invoicedesk/internal/config"
	"invoicedesk/internal/port"
)

// NewEditorServiceWithClock exposes the clock seam to external tests.
func NewEditorServiceWithClock(
	invoiceRepo port.InvoiceRepository,
	profileRepo port.CompanyProfileRepository,
	leadRepo port.LeadRepository,
	notifier port.SubmissionNotifier,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
	cfg *config.EditorConfig,
	now func() time.Time,
) EditorService {
	return newEditorService(invoiceRepo, profileRepo, leadRepo, notifier, storage, s3Cfg, cfg, now)
}
