package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"invoicedesk/internal/address"
	"invoicedesk/internal/config"
	"invoicedesk/internal/csvexport"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
	"invoicedesk/internal/money"
	"invoicedesk/internal/pdfexport"
	"invoicedesk/internal/port"
)

const (
	warnProfileUnavailable = "company profile unavailable; using defaults"
	warnLeadUnavailable    = "lead directory unavailable; bill-to left unchanged"
)

// OpenSessionInput is the DTO for opening an editing session. With InvoiceID
// set the saved invoice is reopened and Kind and CompanyID are ignored.
type OpenSessionInput struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Kind      domain.DocumentKind
	CompanyID *uuid.UUID
	InvoiceID *uuid.UUID
}

// JurisdictionInput carries the jurisdictions to change. Nil fields are left alone.
type JurisdictionInput struct {
	Seller *string `json:"seller"`
	Buyer  *string `json:"buyer"`
}

// SessionView is what every session operation returns to the caller.
type SessionView struct {
	ID        uuid.UUID        `json:"id"`
	InvoiceID *uuid.UUID       `json:"invoice_id,omitempty"`
	Status    string           `json:"status,omitempty"`
	Warnings  []string         `json:"warnings,omitempty"`
	Snapshot  *editor.Snapshot `json:"snapshot"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// PDFFile is a rendered document ready to stream.
type PDFFile struct {
	Filename string
	Content  []byte
}

// EditorService defines the editing session contract.
type EditorService interface {
	Open(ctx context.Context, input OpenSessionInput) (*SessionView, error)
	Get(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error)
	Close(ctx context.Context, tenantID, sessionID uuid.UUID) error
	EnterEdit(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error)
	ExitEdit(ctx context.Context, tenantID, sessionID uuid.UUID, discard bool) (*SessionView, error)
	UpdateHeader(ctx context.Context, tenantID, sessionID uuid.UUID, header domain.Header) (*SessionView, error)
	SetJurisdiction(ctx context.Context, tenantID, sessionID uuid.UUID, input JurisdictionInput) (*SessionView, error)
	AddLine(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error)
	RemoveLine(ctx context.Context, tenantID, sessionID uuid.UUID, index int) (*SessionView, error)
	UpdateLine(ctx context.Context, tenantID, sessionID uuid.UUID, index int, field, value string) (*SessionView, error)
	SetLineAmount(ctx context.Context, tenantID, sessionID uuid.UUID, index int, value string) (*SessionView, error)
	SetOverride(ctx context.Context, tenantID, sessionID uuid.UUID, key, value string) (*SessionView, error)
	SetLabel(ctx context.Context, tenantID, sessionID uuid.UUID, key, value string) (*SessionView, error)
	SetReceivedAmount(ctx context.Context, tenantID, sessionID uuid.UUID, value string) (*SessionView, error)
	SelectLead(ctx context.Context, tenantID, sessionID, leadID uuid.UUID) (*SessionView, error)
	Save(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error)
	Submit(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error)
	RenderPDF(ctx context.Context, tenantID, sessionID uuid.UUID) (*PDFFile, error)
	PublishPDF(ctx context.Context, tenantID, sessionID uuid.UUID) (string, error)
}

type editorService struct {
	invoiceRepo port.InvoiceRepository
	profileRepo port.CompanyProfileRepository
	leadRepo    port.LeadRepository
	notifier    port.SubmissionNotifier
	storage     port.ObjectStorage
	s3Cfg       *config.S3Config
	cfg         *config.EditorConfig
	sessions    *sessionRegistry
	now         func() time.Time
}

// NewEditorService creates a new EditorService implementation. storage may be
// nil, in which case PublishPDF reports domain.ErrStorageNotConfigured.
func NewEditorService(
	invoiceRepo port.InvoiceRepository,
	profileRepo port.CompanyProfileRepository,
	leadRepo port.LeadRepository,
	notifier port.SubmissionNotifier,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
	cfg *config.EditorConfig,
) EditorService {
	return newEditorService(invoiceRepo, profileRepo, leadRepo, notifier, storage, s3Cfg, cfg, time.Now)
}

func newEditorService(
	invoiceRepo port.InvoiceRepository,
	profileRepo port.CompanyProfileRepository,
	leadRepo port.LeadRepository,
	notifier port.SubmissionNotifier,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
	cfg *config.EditorConfig,
	now func() time.Time,
) *editorService {
	return &editorService{
		invoiceRepo: invoiceRepo,
		profileRepo: profileRepo,
		leadRepo:    leadRepo,
		notifier:    notifier,
		storage:     storage,
		s3Cfg:       s3Cfg,
		cfg:         cfg,
		sessions:    newSessionRegistry(cfg.SessionTTL, now),
		now:         now,
	}
}

func (s *editorService) Open(ctx context.Context, input OpenSessionInput) (*SessionView, error) {
	entry := &sessionEntry{
		id:       uuid.New(),
		tenantID: input.TenantID,
		userID:   input.UserID,
	}

	if input.InvoiceID != nil {
		inv, err := s.invoiceRepo.GetByID(ctx, input.TenantID, *input.InvoiceID)
		if err != nil {
			return nil, err
		}
		var snap editor.Snapshot
		if err := json.Unmarshal(inv.Snapshot, &snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot of invoice %s: %w", inv.ID, err)
		}
		entry.session = editor.NewSession(snap.Document(), s.cfg.DefaultTaxRate)
		entry.invoice = inv
	} else {
		if !input.Kind.Valid() {
			return nil, domain.ErrInvalidDocumentKind
		}
		header, warnings := s.defaultHeader(ctx, input.TenantID, input.CompanyID)
		entry.warnings = warnings
		entry.session = editor.NewSession(domain.Document{Kind: input.Kind, Header: header}, s.cfg.DefaultTaxRate)
		if err := entry.session.EnterEdit(); err != nil {
			return nil, err
		}
	}

	s.sessions.put(entry)
	log.Printf("editorService.Open: session %s opened for tenant %s by user %s", entry.id, entry.tenantID, entry.userID)
	return s.view(entry), nil
}

// defaultHeader seeds a new document from the company profile. A failed
// lookup falls back to configured defaults and is reported as a warning.
func (s *editorService) defaultHeader(ctx context.Context, tenantID uuid.UUID, companyID *uuid.UUID) (domain.Header, []string) {
	header := domain.Header{
		Date:               s.now().Format("2006-01-02"),
		Company:            domain.Party{Name: s.cfg.DefaultCompanyName},
		SellerJurisdiction: s.cfg.DefaultSellerJurisdiction,
		Signatory:          s.cfg.DefaultCompanyName,
	}

	var profile *domain.CompanyProfile
	var err error
	if companyID != nil {
		profile, err = s.profileRepo.GetByID(ctx, tenantID, *companyID)
	} else {
		profile, err = s.profileRepo.GetDefault(ctx, tenantID)
	}
	if err != nil {
		log.Printf("editorService.defaultHeader: profile lookup failed for tenant %s: %v", tenantID, err)
		return header, []string{warnProfileUnavailable}
	}

	header.Company = domain.Party{
		Name:    profile.Name,
		Phone:   profile.Phone,
		Email:   profile.Email,
		GSTIN:   profile.GSTIN,
		Address: address.Parse(strings.Join([]string{profile.AddressLine1, profile.AddressLine2}, "\n")),
	}
	header.LogoURL = profile.LogoURL
	header.SealURL = profile.SealURL
	header.Signatory = profile.Name
	if profile.Jurisdiction != "" {
		header.SellerJurisdiction = profile.Jurisdiction
	}
	return header, nil
}

func (s *editorService) Get(_ context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(*editor.Session) error { return nil })
}

func (s *editorService) Close(_ context.Context, tenantID, sessionID uuid.UUID) error {
	if err := s.sessions.remove(tenantID, sessionID); err != nil {
		return err
	}
	log.Printf("editorService.Close: session %s closed", sessionID)
	return nil
}

func (s *editorService) EnterEdit(_ context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		return sess.EnterEdit()
	})
}

func (s *editorService) ExitEdit(_ context.Context, tenantID, sessionID uuid.UUID, discard bool) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		return sess.ExitEdit(discard)
	})
}

func (s *editorService) UpdateHeader(_ context.Context, tenantID, sessionID uuid.UUID, header domain.Header) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		// The number is assigned on save and cannot be edited.
		header.Number = sess.Document().Header.Number
		return sess.SetHeader(header)
	})
}

func (s *editorService) SetJurisdiction(_ context.Context, tenantID, sessionID uuid.UUID, input JurisdictionInput) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		if input.Seller != nil {
			if err := sess.SetSellerJurisdiction(*input.Seller); err != nil {
				return err
			}
		}
		if input.Buyer != nil {
			return sess.SetBuyerJurisdiction(*input.Buyer)
		}
		return nil
	})
}

func (s *editorService) AddLine(_ context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		_, err := sess.AddLine()
		return err
	})
}

func (s *editorService) RemoveLine(_ context.Context, tenantID, sessionID uuid.UUID, index int) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		return sess.RemoveLine(index)
	})
}

func (s *editorService) UpdateLine(_ context.Context, tenantID, sessionID uuid.UUID, index int, field, value string) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		return sess.SetLineField(index, editor.LineField(field), value)
	})
}

func (s *editorService) SetLineAmount(_ context.Context, tenantID, sessionID uuid.UUID, index int, value string) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		return sess.SetLineAmount(index, value)
	})
}

func (s *editorService) SetOverride(_ context.Context, tenantID, sessionID uuid.UUID, key, value string) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		return sess.SetOverride(key, value)
	})
}

func (s *editorService) SetLabel(_ context.Context, tenantID, sessionID uuid.UUID, key, value string) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		return sess.SetLabel(key, value)
	})
}

func (s *editorService) SetReceivedAmount(_ context.Context, tenantID, sessionID uuid.UUID, value string) (*SessionView, error) {
	return s.mutate(tenantID, sessionID, func(sess *editor.Session) error {
		return sess.SetReceivedAmount(value)
	})
}

func (s *editorService) SelectLead(ctx context.Context, tenantID, sessionID, leadID uuid.UUID) (*SessionView, error) {
	entry, err := s.sessions.get(tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.Mode() != domain.EditorModeEdit {
		return nil, domain.ErrNotEditing
	}

	lead, err := s.leadRepo.GetByID(ctx, tenantID, leadID)
	if errors.Is(err, domain.ErrLeadNotFound) {
		return nil, err
	}
	if err != nil {
		log.Printf("editorService.SelectLead: lead lookup failed for session %s: %v", sessionID, err)
		return s.view(entry, warnLeadUnavailable), nil
	}

	if err := entry.session.ApplyLead(lead, address.Parse(lead.RawAddress)); err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

func (s *editorService) Save(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error) {
	entry, err := s.sessions.get(tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.session.Validate(); err != nil {
		return nil, err
	}
	status := domain.InvoiceStatusDraft
	if entry.invoice != nil {
		status = entry.invoice.Status
	}
	if err := s.persist(ctx, entry, status); err != nil {
		return nil, err
	}
	if _, err := entry.session.Save(); err != nil {
		return nil, err
	}

	log.Printf("editorService.Save: session %s saved as invoice %s (%s)", sessionID, entry.invoice.ID, entry.invoice.Number)
	return s.view(entry), nil
}

func (s *editorService) Submit(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionView, error) {
	entry, err := s.sessions.get(tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.session.Validate(); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, entry, domain.InvoiceStatusSubmitted); err != nil {
		return nil, err
	}
	snap, err := entry.session.Submit()
	if err != nil {
		return nil, err
	}

	log.Printf("editorService.Submit: invoice %s (%s) submitted", entry.invoice.ID, entry.invoice.Number)
	s.notifySubmitted(ctx, snap)
	return s.view(entry), nil
}

// persist writes the session's snapshot to the repository, creating the
// invoice and assigning its number on first save.
func (s *editorService) persist(ctx context.Context, entry *sessionEntry, status domain.InvoiceStatus) error {
	sess := entry.session
	if sess.Document().Header.Number == "" {
		number, err := s.invoiceRepo.NextNumber(ctx, entry.tenantID, sess.Document().Kind)
		if err != nil {
			return fmt.Errorf("assigning document number: %w", err)
		}
		sess.SetNumber(number)
	}

	snap := sess.Snapshot()
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	inv := &domain.Invoice{
		TenantID:  entry.tenantID,
		Kind:      snap.Kind,
		CreatedBy: entry.userID,
	}
	if entry.invoice != nil {
		copied := *entry.invoice
		inv = &copied
	}
	inv.Number = snap.Header.Number
	inv.Status = status
	inv.BuyerName = snap.BuyerName()
	inv.Snapshot = raw
	inv.Subtotal = snap.Totals.Subtotal
	inv.TaxTotal = snap.Totals.TaxTotal()
	inv.GrandTotal = snap.Totals.GrandTotal
	inv.Balance = snap.Totals.Balance
	if status == domain.InvoiceStatusSubmitted && inv.SubmittedAt == nil {
		now := s.now()
		inv.SubmittedAt = &now
	}

	if entry.invoice == nil {
		err = s.invoiceRepo.Create(ctx, inv)
	} else {
		err = s.invoiceRepo.Update(ctx, inv)
	}
	if err != nil {
		log.Printf("editorService.persist: failed to store invoice %s: %v", inv.Number, err)
		if entry.invoice == nil {
			sess.SetNumber("")
		}
		return fmt.Errorf("storing invoice: %w", err)
	}
	entry.invoice = inv
	return nil
}

// notifySubmitted tells the buyer about a submitted document. Failures are
// logged only, since the document is already stored.
func (s *editorService) notifySubmitted(ctx context.Context, snap *editor.Snapshot) {
	bill := snap.Header.BillTo
	if bill.Email == "" {
		log.Printf("editorService.notifySubmitted: no buyer email on %s, skipping notification", snap.Header.Number)
		return
	}
	notice := port.SubmissionNotice{
		ToEmail:     bill.Email,
		ToName:      bill.Name,
		CompanyName: snap.Header.Company.Name,
		Kind:        string(snap.Kind),
		Number:      snap.Header.Number,
		GrandTotal:  money.FormatIndian(snap.Totals.GrandTotal),
		Balance:     money.FormatIndian(snap.Totals.Balance),
	}
	if err := s.notifier.NotifySubmitted(ctx, notice); err != nil {
		log.Printf("editorService.notifySubmitted: failed to notify %s about %s: %v", bill.Email, snap.Header.Number, err)
	}
}

func (s *editorService) RenderPDF(_ context.Context, tenantID, sessionID uuid.UUID) (*PDFFile, error) {
	entry, err := s.sessions.get(tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.render(entry)
}

func (s *editorService) PublishPDF(ctx context.Context, tenantID, sessionID uuid.UUID) (string, error) {
	if s.storage == nil || !s.s3Cfg.Enabled() {
		return "", domain.ErrStorageNotConfigured
	}
	entry, err := s.sessions.get(tenantID, sessionID)
	if err != nil {
		return "", err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	file, err := s.render(entry)
	if err != nil {
		return "", err
	}
	documentID := entry.id
	if entry.invoice != nil {
		documentID = entry.invoice.ID
	}
	key := pdfKey(tenantID, documentID)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(file.Content),
		ContentType: "application/pdf",
	})
	if err != nil {
		log.Printf("editorService.PublishPDF: upload failed for %s: %v", key, err)
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, key, s.s3Cfg.PresignExpiry)
}

func (s *editorService) render(entry *sessionEntry) (*PDFFile, error) {
	snap := entry.session.Snapshot()
	var buf bytes.Buffer
	if err := pdfexport.Render(&buf, snap.Header.Number, snap); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	name := snap.Header.Number
	if name == "" {
		name = "draft_" + string(snap.Kind)
	}
	return &PDFFile{
		Filename: csvexport.BuildFilename(name, "pdf", s.now()),
		Content:  buf.Bytes(),
	}, nil
}

// mutate runs fn against the session while holding its lock and returns the
// resulting view.
func (s *editorService) mutate(tenantID, sessionID uuid.UUID, fn func(*editor.Session) error) (*SessionView, error) {
	entry, err := s.sessions.get(tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry.session); err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

func (s *editorService) view(entry *sessionEntry, extra ...string) *SessionView {
	v := &SessionView{
		ID:        entry.id,
		Snapshot:  entry.session.Snapshot(),
		ExpiresAt: s.sessions.expiresAt(entry),
	}
	if len(entry.warnings) > 0 || len(extra) > 0 {
		v.Warnings = append(append([]string{}, entry.warnings...), extra...)
	}
	if entry.invoice != nil {
		id := entry.invoice.ID
		v.InvoiceID = &id
		v.Status = string(entry.invoice.Status)
	}
	return v
}

// pdfKey builds the object key of a document's exported PDF.
func pdfKey(tenantID, documentID uuid.UUID) string {
	return fmt.Sprintf("tenants/%s/documents/%s.pdf", tenantID, documentID)
}
