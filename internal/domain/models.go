package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Address is a postal address split into its parts.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// Party is a company or customer named on a document.
type Party struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
	GSTIN   string  `json:"gstin"`
	Address Address `json:"address"`
}

// BankDetails holds the payee's bank account shown on the document.
type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	IFSCCode      string `json:"ifsc_code"`
	Branch        string `json:"branch"`
}

// Header holds every non-line-item field of a document.
// SellerJurisdiction and BuyerJurisdiction are shared by all line items.
type Header struct {
	Number             string      `json:"number"`
	Date               string      `json:"date"`
	DueDate            string      `json:"due_date"`
	Company            Party       `json:"company"`
	LogoURL            string      `json:"logo_url"`
	SealURL            string      `json:"seal_url"`
	BillTo             Party       `json:"bill_to"`
	ShipTo             Party       `json:"ship_to"`
	SellerJurisdiction string      `json:"seller_jurisdiction"`
	BuyerJurisdiction  string      `json:"buyer_jurisdiction"`
	Bank               BankDetails `json:"bank"`
	Terms              string      `json:"terms"`
	Notes              string      `json:"notes"`
	Signatory          string      `json:"signatory"`
}

// LineItem is one billable row. TaxAmount, the split amounts and Amount are derived.
type LineItem struct {
	Description    string  `json:"description"`
	HSNSAC         string  `json:"hsn_sac"`
	Quantity       float64 `json:"quantity"`
	Rate           float64 `json:"rate"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
	TaxAmount      float64 `json:"tax_amount"`
	CGSTAmount     float64 `json:"cgst_amount"`
	SGSTAmount     float64 `json:"sgst_amount"`
	IGSTAmount     float64 `json:"igst_amount"`
	Amount         float64 `json:"amount"`
}

// NewLineItem returns a line item with editor defaults.
func NewLineItem(defaultTaxRate float64) LineItem {
	return LineItem{Quantity: 1, TaxRatePercent: defaultTaxRate}
}

// BaseAmount returns quantity times rate, before tax.
func (l LineItem) BaseAmount() float64 {
	return l.Quantity * l.Rate
}

// Document is the editable invoice or quotation.
type Document struct {
	Kind           DocumentKind `json:"kind"`
	Header         Header       `json:"header"`
	LineItems      []LineItem   `json:"line_items"`
	ReceivedAmount float64      `json:"received_amount"`
}

// Clone returns a copy of d that shares no line item storage with d.
func (d Document) Clone() Document {
	out := d
	out.LineItems = make([]LineItem, len(d.LineItems))
	copy(out.LineItems, d.LineItems)
	return out
}

// Invoice is a saved document snapshot.
type Invoice struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	TenantID    uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Kind        DocumentKind    `db:"kind" json:"kind"`
	Number      string          `db:"number" json:"number"`
	Status      InvoiceStatus   `db:"status" json:"status"`
	BuyerName   string          `db:"buyer_name" json:"buyer_name"`
	Snapshot    json.RawMessage `db:"snapshot" json:"snapshot"`
	Subtotal    float64         `db:"subtotal" json:"subtotal"`
	TaxTotal    float64         `db:"tax_total" json:"tax_total"`
	GrandTotal  float64         `db:"grand_total" json:"grand_total"`
	Balance     float64         `db:"balance" json:"balance"`
	CreatedBy   uuid.UUID       `db:"created_by" json:"created_by"`
	SubmittedAt *time.Time      `db:"submitted_at" json:"submitted_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// CompanyProfile is the seller organization used to seed new documents.
type CompanyProfile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name         string    `db:"name" json:"name"`
	AddressLine1 string    `db:"address_line1" json:"address_line1"`
	AddressLine2 string    `db:"address_line2" json:"address_line2"`
	Phone        string    `db:"phone" json:"phone"`
	Jurisdiction string    `db:"jurisdiction" json:"jurisdiction"`
	LogoURL      string    `db:"logo_url" json:"logo_url"`
	SealURL      string    `db:"seal_url" json:"seal_url"`
	Email        string    `db:"email" json:"email"`
	GSTIN        string    `db:"gstin" json:"gstin"`
	IsDefault    bool      `db:"is_default" json:"is_default"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Lead is a customer record from the lead directory.
type Lead struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name         string    `db:"name" json:"name"`
	ContactPhone string    `db:"contact_phone" json:"contact_phone"`
	Email        string    `db:"email" json:"email"`
	RawAddress   string    `db:"raw_address" json:"raw_address"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
