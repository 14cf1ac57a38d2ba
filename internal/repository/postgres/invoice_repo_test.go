package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/repository/postgres"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-000001", postgres.FormatNumber(domain.DocumentKindInvoice, 1))
	assert.Equal(t, "QUO-000042", postgres.FormatNumber(domain.DocumentKindQuotation, 42))
	assert.Equal(t, "INV-1234567", postgres.FormatNumber(domain.DocumentKindInvoice, 1234567))
}
