package domain

// DocumentKind distinguishes the business documents the editor produces.
type DocumentKind string

const (
	DocumentKindInvoice   DocumentKind = "invoice"
	DocumentKindQuotation DocumentKind = "quotation"
)

// NumberPrefix returns the prefix used when numbering saved documents of this kind.
func (k DocumentKind) NumberPrefix() string {
	if k == DocumentKindQuotation {
		return "QUO"
	}
	return "INV"
}

// Valid reports whether k is a known document kind.
func (k DocumentKind) Valid() bool {
	return k == DocumentKindInvoice || k == DocumentKindQuotation
}

// InvoiceStatus represents the lifecycle of a saved document.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSubmitted InvoiceStatus = "submitted"
)

// EditorMode is the state of an editing session.
type EditorMode string

const (
	EditorModeView EditorMode = "view"
	EditorModeEdit EditorMode = "edit"
)

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)
