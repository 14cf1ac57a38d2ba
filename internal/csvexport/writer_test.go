package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, len(columns))
	assert.Equal(t, "Number", row[0])
	assert.Equal(t, "Created At", row[len(row)-1])
}

func savedSnapshot(t *testing.T) json.RawMessage {
	t.Helper()
	s := editor.NewSession(domain.Document{
		Kind: domain.DocumentKindInvoice,
		Header: domain.Header{
			Date:               "2025-01-15",
			DueDate:            "2025-02-15",
			BillTo:             domain.Party{Name: "Buyer Inc", GSTIN: "07FGHIJ5678K2Z3"},
			SellerJurisdiction: "Karnataka",
			BuyerJurisdiction:  "Delhi",
		},
		LineItems: []domain.LineItem{
			{Description: "Item A", Quantity: 1, Rate: 1000, TaxRatePercent: 18},
			{Description: "Item B", Quantity: 2, Rate: 500, TaxRatePercent: 18},
		},
	}, 18)
	require.NoError(t, s.EnterEdit())
	require.NoError(t, s.SetReceivedAmount("360"))
	snap, err := s.Save()
	require.NoError(t, err)
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	return data
}

func TestWriteInvoices_WithSnapshot(t *testing.T) {
	submittedAt := time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	inv := domain.Invoice{
		ID:          uuid.New(),
		Kind:        domain.DocumentKindInvoice,
		Number:      "INV-000001",
		Status:      domain.InvoiceStatusSubmitted,
		BuyerName:   "Buyer Inc",
		Snapshot:    savedSnapshot(t),
		Subtotal:    2000,
		TaxTotal:    360,
		GrandTotal:  2360,
		Balance:     2000,
		SubmittedAt: &submittedAt,
		CreatedAt:   createdAt,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteInvoices([]domain.Invoice{inv}))
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", row[0])
	assert.Equal(t, "invoice", row[1])
	assert.Equal(t, "submitted", row[2])
	assert.Equal(t, "2025-01-15", row[3])
	assert.Equal(t, "07FGHIJ5678K2Z3", row[6])
	assert.Equal(t, "interstate", row[9])
	assert.Equal(t, "2000.00", row[10])
	assert.Equal(t, "0.00", row[11])
	assert.Equal(t, "360.00", row[13])
	assert.Equal(t, "2360.00", row[14])
	assert.Equal(t, "360.00", row[15])
	assert.Equal(t, "2000.00", row[16])
	assert.Equal(t, "2", row[17])
	assert.Equal(t, "2025-01-16T09:00:00Z", row[18])
	assert.Equal(t, "2025-01-15T08:00:00Z", row[19])
}

func TestWriteInvoices_BadSnapshot(t *testing.T) {
	inv := domain.Invoice{
		Number:     "QUO-000002",
		Kind:       domain.DocumentKindQuotation,
		Status:     domain.InvoiceStatusDraft,
		Snapshot:   json.RawMessage(`{not json`),
		GrandTotal: 10,
	}

	row := invoiceToRow(&inv)

	assert.Equal(t, "QUO-000002", row[0])
	assert.Equal(t, "10.00", row[14])
	assert.Empty(t, row[3])
	assert.Empty(t, row[17])
	assert.Empty(t, row[18])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Acme_Traders_Q1", SanitizeFilename("Acme Traders / Q1"))
	assert.Equal(t, "a_b", SanitizeFilename("__a!!b__"))
	assert.Len(t, SanitizeFilename(string(bytes.Repeat([]byte("x"), 150))), 100)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "invoices_2025-03-01.csv", BuildFilename("invoices", "csv", now))
	assert.Equal(t, "export_2025-03-01.xlsx", BuildFilename("!!!", "xlsx", now))
}
