package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/config"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
	"invoicedesk/internal/port"
	"invoicedesk/internal/service"
	"invoicedesk/mocks"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

type editorFixture struct {
	svc         service.EditorService
	invoiceRepo *mocks.MockInvoiceRepo
	profileRepo *mocks.MockCompanyProfileRepo
	leadRepo    *mocks.MockLeadRepo
	notifier    *mocks.MockSubmissionNotifier
	storage     *mocks.MockObjectStorage
	clock       *fakeClock
	tenantID    uuid.UUID
	userID      uuid.UUID
}

func newEditorFixture(withStorage bool) *editorFixture {
	f := &editorFixture{
		invoiceRepo: new(mocks.MockInvoiceRepo),
		profileRepo: new(mocks.MockCompanyProfileRepo),
		leadRepo:    new(mocks.MockLeadRepo),
		notifier:    new(mocks.MockSubmissionNotifier),
		storage:     new(mocks.MockObjectStorage),
		clock:       &fakeClock{t: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)},
		tenantID:    uuid.New(),
		userID:      uuid.New(),
	}
	s3Cfg := &config.S3Config{}
	var storage port.ObjectStorage
	if withStorage {
		s3Cfg = &config.S3Config{Bucket: "pdfs", PresignExpiry: 600}
		storage = f.storage
	}
	cfg := &config.EditorConfig{
		SessionTTL:                30 * time.Minute,
		DefaultTaxRate:            18,
		DefaultSellerJurisdiction: "Karnataka",
		DefaultCompanyName:        "Fallback Co",
	}
	f.svc = service.NewEditorServiceWithClock(
		f.invoiceRepo, f.profileRepo, f.leadRepo, f.notifier, storage, s3Cfg, cfg, f.clock.Now,
	)
	return f
}

func (f *editorFixture) openInvoice(t *testing.T) *service.SessionView {
	t.Helper()
	f.profileRepo.On("GetDefault", mock.Anything, f.tenantID).Return(&domain.CompanyProfile{
		TenantID:     f.tenantID,
		Name:         "Acme Traders",
		AddressLine1: "Plot 4, Industrial Area",
		AddressLine2: "Nashik, Maharashtra",
		Jurisdiction: "Maharashtra",
		Email:        "accounts@acme.example",
	}, nil).Maybe()
	view, err := f.svc.Open(context.Background(), service.OpenSessionInput{
		TenantID: f.tenantID,
		UserID:   f.userID,
		Kind:     domain.DocumentKindInvoice,
	})
	require.NoError(t, err)
	return view
}

func TestEditorService_Open_SeedsFromDefaultProfile(t *testing.T) {
	f := newEditorFixture(false)

	view := f.openInvoice(t)

	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Empty(t, view.Warnings)
	assert.Nil(t, view.InvoiceID)
	assert.Equal(t, domain.EditorModeEdit, view.Snapshot.Mode)
	assert.Equal(t, "Acme Traders", view.Snapshot.Header.Company.Name)
	assert.Equal(t, "Maharashtra", view.Snapshot.Header.Company.Address.State)
	assert.Equal(t, "Maharashtra", view.Snapshot.Header.SellerJurisdiction)
	assert.Equal(t, "2024-04-01", view.Snapshot.Header.Date)
	assert.Len(t, view.Snapshot.LineItems, 1)
	assert.Equal(t, 18.0, view.Snapshot.LineItems[0].TaxRatePercent)
	assert.Equal(t, f.clock.t.Add(30*time.Minute), view.ExpiresAt)
	f.profileRepo.AssertExpectations(t)
}

func TestEditorService_Open_ProfileFailureFallsBack(t *testing.T) {
	f := newEditorFixture(false)
	companyID := uuid.New()
	f.profileRepo.On("GetByID", mock.Anything, f.tenantID, companyID).Return(nil, errors.New("connection refused"))

	view, err := f.svc.Open(context.Background(), service.OpenSessionInput{
		TenantID:  f.tenantID,
		UserID:    f.userID,
		Kind:      domain.DocumentKindQuotation,
		CompanyID: &companyID,
	})

	require.NoError(t, err)
	require.Len(t, view.Warnings, 1)
	assert.Contains(t, view.Warnings[0], "company profile unavailable")
	assert.Equal(t, "Fallback Co", view.Snapshot.Header.Company.Name)
	assert.Equal(t, "Karnataka", view.Snapshot.Header.SellerJurisdiction)
	assert.Equal(t, domain.DocumentKindQuotation, view.Snapshot.Kind)
}

func TestEditorService_Open_InvalidKind(t *testing.T) {
	f := newEditorFixture(false)

	_, err := f.svc.Open(context.Background(), service.OpenSessionInput{
		TenantID: f.tenantID,
		Kind:     domain.DocumentKind("receipt"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidDocumentKind)
	f.profileRepo.AssertNotCalled(t, "GetDefault", mock.Anything, mock.Anything)
}

func TestEditorService_MutationsRecompute(t *testing.T) {
	f := newEditorFixture(false)
	ctx := context.Background()
	view := f.openInvoice(t)

	buyer := "Maharashtra"
	_, err := f.svc.SetJurisdiction(ctx, f.tenantID, view.ID, service.JurisdictionInput{Buyer: &buyer})
	require.NoError(t, err)
	_, err = f.svc.UpdateLine(ctx, f.tenantID, view.ID, 0, "quantity", "2")
	require.NoError(t, err)
	view, err = f.svc.UpdateLine(ctx, f.tenantID, view.ID, 0, "rate", "100")
	require.NoError(t, err)

	line := view.Snapshot.LineItems[0]
	assert.InDelta(t, 236.0, line.Amount, 0.001)
	assert.InDelta(t, 18.0, line.CGSTAmount, 0.001)
	assert.InDelta(t, 18.0, line.SGSTAmount, 0.001)
	assert.InDelta(t, 0.0, line.IGSTAmount, 0.001)
	assert.InDelta(t, 236.0, view.Snapshot.Totals.GrandTotal, 0.001)

	seller := "Karnataka"
	view, err = f.svc.SetJurisdiction(ctx, f.tenantID, view.ID, service.JurisdictionInput{Seller: &seller})
	require.NoError(t, err)
	assert.InDelta(t, 36.0, view.Snapshot.LineItems[0].IGSTAmount, 0.001)

	view, err = f.svc.SetOverride(ctx, f.tenantID, view.ID, "grand_total", "250")
	require.NoError(t, err)
	assert.InDelta(t, 250.0, view.Snapshot.Totals.GrandTotal, 0.001)

	view, err = f.svc.SetReceivedAmount(ctx, f.tenantID, view.ID, "50")
	require.NoError(t, err)
	assert.InDelta(t, 200.0, view.Snapshot.Totals.Balance, 0.001)
}

func TestEditorService_UpdateHeaderKeepsNumber(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	h := view.Snapshot.Header
	h.Number = "HACKED-1"
	h.Notes = "Thanks for your business"
	view, err := f.svc.UpdateHeader(context.Background(), f.tenantID, view.ID, h)

	require.NoError(t, err)
	assert.Empty(t, view.Snapshot.Header.Number)
	assert.Equal(t, "Thanks for your business", view.Snapshot.Header.Notes)
}

func TestEditorService_RemoveLastLine(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	_, err := f.svc.RemoveLine(context.Background(), f.tenantID, view.ID, 0)

	assert.ErrorIs(t, err, domain.ErrLastLineItem)
}

func TestEditorService_OtherTenantCannotSeeSession(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	_, err := f.svc.Get(context.Background(), uuid.New(), view.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	err = f.svc.Close(context.Background(), uuid.New(), view.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEditorService_SessionExpires(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	f.clock.t = f.clock.t.Add(20 * time.Minute)
	_, err := f.svc.Get(context.Background(), f.tenantID, view.ID)
	require.NoError(t, err)

	// Access refreshed the idle timer.
	f.clock.t = f.clock.t.Add(20 * time.Minute)
	_, err = f.svc.Get(context.Background(), f.tenantID, view.ID)
	require.NoError(t, err)

	f.clock.t = f.clock.t.Add(31 * time.Minute)
	_, err = f.svc.Get(context.Background(), f.tenantID, view.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEditorService_Close(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	require.NoError(t, f.svc.Close(context.Background(), f.tenantID, view.ID))

	_, err := f.svc.Get(context.Background(), f.tenantID, view.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEditorService_Save_CreatesThenUpdates(t *testing.T) {
	f := newEditorFixture(false)
	ctx := context.Background()
	view := f.openInvoice(t)
	invoiceID := uuid.New()

	f.invoiceRepo.On("NextNumber", mock.Anything, f.tenantID, domain.DocumentKindInvoice).Return("INV-000007", nil).Once()
	f.invoiceRepo.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Number == "INV-000007" &&
			inv.Status == domain.InvoiceStatusDraft &&
			inv.TenantID == f.tenantID &&
			inv.CreatedBy == f.userID
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Invoice).ID = invoiceID
	}).Return(nil).Once()

	view, err := f.svc.Save(ctx, f.tenantID, view.ID)
	require.NoError(t, err)
	require.NotNil(t, view.InvoiceID)
	assert.Equal(t, invoiceID, *view.InvoiceID)
	assert.Equal(t, "draft", view.Status)
	assert.Equal(t, "INV-000007", view.Snapshot.Header.Number)

	f.invoiceRepo.On("Update", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		var snap editor.Snapshot
		if err := json.Unmarshal(inv.Snapshot, &snap); err != nil {
			return false
		}
		return inv.ID == invoiceID && inv.Number == "INV-000007" && snap.ReceivedAmount == 10
	})).Return(nil).Once()

	_, err = f.svc.SetReceivedAmount(ctx, f.tenantID, view.ID, "10")
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, f.tenantID, view.ID)
	require.NoError(t, err)

	f.invoiceRepo.AssertExpectations(t)
}

func TestEditorService_Save_ValidationBlocks(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	h := view.Snapshot.Header
	h.BillTo.GSTIN = "not-a-gstin"
	_, err := f.svc.UpdateHeader(context.Background(), f.tenantID, view.ID, h)
	require.NoError(t, err)

	_, err = f.svc.Save(context.Background(), f.tenantID, view.ID)

	var vErr *editor.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "header.bill_to.gstin", vErr.Fields[0].Field)
	f.invoiceRepo.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything, mock.Anything)
	f.invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEditorService_Save_StoreFailureReleasesNumber(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	f.invoiceRepo.On("NextNumber", mock.Anything, f.tenantID, domain.DocumentKindInvoice).Return("INV-000008", nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(domain.ErrDuplicateNumber)

	_, err := f.svc.Save(context.Background(), f.tenantID, view.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)

	view, err = f.svc.Get(context.Background(), f.tenantID, view.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Snapshot.Header.Number)
	assert.Nil(t, view.InvoiceID)
}

func TestEditorService_Submit_PersistsAndNotifies(t *testing.T) {
	f := newEditorFixture(false)
	ctx := context.Background()
	view := f.openInvoice(t)

	h := view.Snapshot.Header
	h.BillTo = domain.Party{Name: "Globex", Email: "ap@globex.example"}
	_, err := f.svc.UpdateHeader(ctx, f.tenantID, view.ID, h)
	require.NoError(t, err)
	_, err = f.svc.UpdateLine(ctx, f.tenantID, view.ID, 0, "rate", "1000")
	require.NoError(t, err)

	f.invoiceRepo.On("NextNumber", mock.Anything, f.tenantID, domain.DocumentKindInvoice).Return("INV-000009", nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Status == domain.InvoiceStatusSubmitted && inv.SubmittedAt != nil && inv.BuyerName == "Globex"
	})).Return(nil)
	f.notifier.On("NotifySubmitted", mock.Anything, mock.MatchedBy(func(n port.SubmissionNotice) bool {
		return n.ToEmail == "ap@globex.example" &&
			n.Number == "INV-000009" &&
			n.CompanyName == "Acme Traders" &&
			n.GrandTotal == "1,180.00"
	})).Return(errors.New("ses throttled"))

	view, err = f.svc.Submit(ctx, f.tenantID, view.ID)

	require.NoError(t, err)
	assert.Equal(t, "submitted", view.Status)
	assert.Equal(t, domain.EditorModeEdit, view.Snapshot.Mode)
	f.invoiceRepo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestEditorService_Submit_NoBuyerEmailSkipsNotice(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	f.invoiceRepo.On("NextNumber", mock.Anything, f.tenantID, domain.DocumentKindInvoice).Return("INV-000010", nil)
	f.invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Invoice")).Return(nil)

	_, err := f.svc.Submit(context.Background(), f.tenantID, view.ID)

	require.NoError(t, err)
	f.notifier.AssertNotCalled(t, "NotifySubmitted", mock.Anything, mock.Anything)
}

func TestEditorService_Open_ReopensSavedInvoice(t *testing.T) {
	f := newEditorFixture(false)
	ctx := context.Background()
	invoiceID := uuid.New()

	doc := domain.Document{
		Kind: domain.DocumentKindInvoice,
		Header: domain.Header{
			Number:             "INV-000003",
			SellerJurisdiction: "Maharashtra",
			BuyerJurisdiction:  "Maharashtra",
		},
		LineItems:      []domain.LineItem{{Description: "Consulting", Quantity: 1, Rate: 500, TaxRatePercent: 18}},
		ReceivedAmount: 90,
	}
	raw, err := json.Marshal(editor.NewSession(doc, 18).Snapshot())
	require.NoError(t, err)
	saved := &domain.Invoice{
		ID:       invoiceID,
		TenantID: f.tenantID,
		Kind:     domain.DocumentKindInvoice,
		Number:   "INV-000003",
		Status:   domain.InvoiceStatusSubmitted,
		Snapshot: raw,
	}
	f.invoiceRepo.On("GetByID", mock.Anything, f.tenantID, invoiceID).Return(saved, nil)

	view, err := f.svc.Open(ctx, service.OpenSessionInput{TenantID: f.tenantID, UserID: f.userID, InvoiceID: &invoiceID})
	require.NoError(t, err)

	assert.Equal(t, domain.EditorModeView, view.Snapshot.Mode)
	assert.Equal(t, invoiceID, *view.InvoiceID)
	assert.InDelta(t, 590.0, view.Snapshot.Totals.GrandTotal, 0.001)
	assert.InDelta(t, 500.0, view.Snapshot.Totals.Balance, 0.001)

	_, err = f.svc.UpdateLine(ctx, f.tenantID, view.ID, 0, "rate", "600")
	assert.ErrorIs(t, err, domain.ErrNotEditing)

	f.invoiceRepo.On("Update", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.ID == invoiceID && inv.Status == domain.InvoiceStatusSubmitted
	})).Return(nil)
	_, err = f.svc.Save(ctx, f.tenantID, view.ID)
	require.NoError(t, err)
	f.invoiceRepo.AssertNotCalled(t, "NextNumber", mock.Anything, mock.Anything, mock.Anything)
	f.invoiceRepo.AssertExpectations(t)
}

func TestEditorService_SelectLead(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)
	leadID := uuid.New()

	f.leadRepo.On("GetByID", mock.Anything, f.tenantID, leadID).Return(&domain.Lead{
		ID:           leadID,
		Name:         "Globex",
		ContactPhone: "+91 98765 43210",
		Email:        "ap@globex.example",
		RawAddress:   "Plot 12, MIDC\nBhosari\nPune, Maharashtra\nIndia - 411026",
	}, nil)

	view, err := f.svc.SelectLead(context.Background(), f.tenantID, view.ID, leadID)

	require.NoError(t, err)
	h := view.Snapshot.Header
	assert.Equal(t, "Globex", h.BillTo.Name)
	assert.Equal(t, "Pune", h.BillTo.Address.City)
	assert.Equal(t, "411026", h.BillTo.Address.PostalCode)
	assert.Equal(t, "Globex", h.ShipTo.Name)
	assert.Equal(t, "Maharashtra", h.BuyerJurisdiction)
	assert.Equal(t, "intrastate", string(view.Snapshot.SupplyType))
}

func TestEditorService_SelectLead_Failures(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)
	missing, broken := uuid.New(), uuid.New()

	f.leadRepo.On("GetByID", mock.Anything, f.tenantID, missing).Return(nil, domain.ErrLeadNotFound)
	f.leadRepo.On("GetByID", mock.Anything, f.tenantID, broken).Return(nil, errors.New("timeout"))

	_, err := f.svc.SelectLead(context.Background(), f.tenantID, view.ID, missing)
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)

	got, err := f.svc.SelectLead(context.Background(), f.tenantID, view.ID, broken)
	require.NoError(t, err)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "lead directory unavailable")
	assert.Empty(t, got.Snapshot.Header.BillTo.Name)
}

func TestEditorService_RenderPDF(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	file, err := f.svc.RenderPDF(context.Background(), f.tenantID, view.ID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
	assert.Equal(t, "draft_invoice_2024-04-01.pdf", file.Filename)
}

func TestEditorService_PublishPDF_NoStorage(t *testing.T) {
	f := newEditorFixture(false)
	view := f.openInvoice(t)

	_, err := f.svc.PublishPDF(context.Background(), f.tenantID, view.ID)

	assert.ErrorIs(t, err, domain.ErrStorageNotConfigured)
}

func TestEditorService_PublishPDF(t *testing.T) {
	f := newEditorFixture(true)
	view := f.openInvoice(t)
	wantKey := "tenants/" + f.tenantID.String() + "/documents/" + view.ID.String() + ".pdf"

	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "pdfs" && in.Key == wantKey && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "s3://pdfs/" + wantKey}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "pdfs", wantKey, int64(600)).Return("https://signed.example/doc.pdf", nil)

	url, err := f.svc.PublishPDF(context.Background(), f.tenantID, view.ID)

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/doc.pdf", url)
	f.storage.AssertExpectations(t)
}

func TestEditorService_PublishPDF_UploadFails(t *testing.T) {
	f := newEditorFixture(true)
	view := f.openInvoice(t)

	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).Return(nil, errors.New("access denied"))

	_, err := f.svc.PublishPDF(context.Background(), f.tenantID, view.ID)

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
