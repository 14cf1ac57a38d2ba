package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"invoicedesk/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESNotifier creates a SubmissionNotifier that mails the buyer through SES.
func NewSESNotifier(region, fromAddress, fromName string) (port.SubmissionNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesNotifier{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesNotifier) NotifySubmitted(ctx context.Context, notice port.SubmissionNotice) error {
	if notice.ToEmail == "" {
		return fmt.Errorf("SES SendEmail: no recipient for %s %s", notice.Kind, notice.Number)
	}

	subject := Subject(notice)
	htmlBody := BuildSubmissionHTML(notice)
	textBody := BuildSubmissionText(notice)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{notice.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// Subject returns the mail subject for a notice.
func Subject(n port.SubmissionNotice) string {
	return fmt.Sprintf("%s %s from %s", kindTitle(n.Kind), n.Number, n.CompanyName)
}

// BuildSubmissionText renders the plain-text body.
func BuildSubmissionText(n port.SubmissionNotice) string {
	return fmt.Sprintf("Hi %s,\n\n%s has issued %s %s.\n\nGrand total: INR %s\nBalance due: INR %s\n\n%s",
		n.ToName, n.CompanyName, kindTitle(n.Kind), n.Number, n.GrandTotal, n.Balance, n.CompanyName)
}

// BuildSubmissionHTML renders the HTML body. Every field is escaped.
func BuildSubmissionHTML(n port.SubmissionNotice) string {
	e := html.EscapeString
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s %s</h2>
  <p>Hi %s,</p>
  <p>%s has issued the document below.</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0;">Grand total</td><td><strong>INR %s</strong></td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Balance due</td><td><strong>INR %s</strong></td></tr>
  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`, e(kindTitle(n.Kind)), e(n.Number), e(n.ToName), e(n.CompanyName), e(n.GrandTotal), e(n.Balance), e(n.CompanyName))
}

func kindTitle(kind string) string {
	if kind == "quotation" {
		return "Quotation"
	}
	return "Invoice"
}
