package noop_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/email/noop"
	"invoicedesk/internal/port"
)

func TestNoopNotifier_LogsNotice(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	err := noop.NewNoopNotifier().NotifySubmitted(context.Background(), port.SubmissionNotice{
		ToEmail: "ap@globex.in", ToName: "Globex", Kind: "invoice",
		Number: "INV-000007", GrandTotal: "29,500.00", Balance: "0.00",
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "INV-000007")
	assert.Contains(t, buf.String(), "ap@globex.in")
}
