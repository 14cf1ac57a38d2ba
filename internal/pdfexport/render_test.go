package pdfexport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/editor"
	"invoicedesk/internal/pdfexport"
)

func session(t *testing.T, kind domain.DocumentKind) *editor.Session {
	t.Helper()
	s := editor.NewSession(domain.Document{
		Kind: kind,
		Header: domain.Header{
			Date:               "2025-04-01",
			Company:            domain.Party{Name: "Acme Traders", GSTIN: "23ABCDE1234F1Z5"},
			BillTo:             domain.Party{Name: "Globex", Address: domain.Address{City: "Pune", State: "Maharashtra"}},
			SellerJurisdiction: "Madhya Pradesh",
			BuyerJurisdiction:  "Maharashtra",
			Bank:               domain.BankDetails{AccountNumber: "001122", IFSCCode: "HDFC0001234"},
			Terms:              "Payment within 15 days.",
			Signatory:          "Authorised Signatory",
		},
		LineItems: []domain.LineItem{
			{Description: "Café chairs", Quantity: 4, Rate: 2500, TaxRatePercent: 18},
		},
	}, 18)
	require.NoError(t, s.EnterEdit())
	return s
}

func TestRender_Invoice(t *testing.T) {
	s := session(t, domain.DocumentKindInvoice)
	require.NoError(t, s.SetReceivedAmount("1000"))

	var buf bytes.Buffer
	require.NoError(t, pdfexport.Render(&buf, "INV-000001", s.Snapshot()))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(bytes.TrimSpace(out[len(out)-16:])), "%%EOF")
}

func TestRender_QuotationWithOverrides(t *testing.T) {
	s := session(t, domain.DocumentKindQuotation)
	require.NoError(t, s.SetLineAmount(0, "11800"))
	require.NoError(t, s.SetOverride("grand_total", "11000"))
	_, err := s.AddLine()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pdfexport.Render(&buf, "QUO-000004", s.Snapshot()))
	assert.Greater(t, buf.Len(), 500)
}
