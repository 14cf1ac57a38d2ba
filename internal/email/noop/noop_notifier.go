package noop

import (
	"context"
	"log"

	"invoicedesk/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a SubmissionNotifier that only logs the notice.
func NewNoopNotifier() port.SubmissionNotifier {
	return &noopNotifier{}
}

func (n *noopNotifier) NotifySubmitted(_ context.Context, notice port.SubmissionNotice) error {
	log.Printf("[NOOP EMAIL] %s %s submitted to %s (%s): grand total %s, balance %s",
		notice.Kind, notice.Number, notice.ToName, notice.ToEmail, notice.GrandTotal, notice.Balance)
	return nil
}
