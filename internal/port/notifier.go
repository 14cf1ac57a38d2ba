package port

import "context"

// SubmissionNotice summarises a submitted document for its recipient.
type SubmissionNotice struct {
	ToEmail     string
	ToName      string
	CompanyName string
	Kind        string
	Number      string
	GrandTotal  string
	Balance     string
}

// SubmissionNotifier delivers a notice when a document is submitted.
type SubmissionNotifier interface {
	NotifySubmitted(ctx context.Context, notice SubmissionNotice) error
}
