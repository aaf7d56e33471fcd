// Package email delivers transactional email for payment reminders.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	appinvoicing "github.com/factura/backend/internal/application/invoicing"
	infraconfig "github.com/factura/backend/internal/infrastructure/config"
)

// Ensure SESSender implements the application port
var _ appinvoicing.EmailSender = (*SESSender)(nil)

// SESSender delivers payment reminders through AWS SES (SDK v2).
type SESSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	logger      *zap.Logger
}

// NewSESSender creates an SES-backed reminder sender using the default AWS
// credential chain (env, shared config, instance role).
func NewSESSender(cfg *infraconfig.EmailConfig, logger *zap.Logger) (*SESSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("email configuration is required")
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("email from address is required")
	}

	region := cfg.Region
	if region == "" {
		region = "eu-central-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SESSender{
		client:      sesv2.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		logger:      logger,
	}, nil
}

// SendReminder delivers one payment reminder email
func (s *SESSender) SendReminder(ctx context.Context, email appinvoicing.ReminderEmail) error {
	if email.To == "" {
		return fmt.Errorf("reminder has no recipient")
	}

	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	subject, textBody := RenderReminder(email)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{email.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if email.ReplyTo != "" {
		input.ReplyToAddresses = []string{email.ReplyTo}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	s.logger.Info("reminder email sent",
		zap.String("invoice_number", email.InvoiceNumber),
		zap.String("message_id", messageID),
	)
	return nil
}

// RenderReminder builds the subject and plain-text body for a reminder
func RenderReminder(email appinvoicing.ReminderEmail) (subject, body string) {
	subject = fmt.Sprintf("Payment reminder: invoice %s from %s", email.InvoiceNumber, email.TenantName)

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", email.ClientName)
	fmt.Fprintf(&b, "This is a friendly reminder that invoice %s for %s %s was due on %s.\n\n",
		email.InvoiceNumber,
		email.Total.StringFixed(2),
		email.Currency,
		email.DueDate.Format("2 January 2006"),
	)
	fmt.Fprintf(&b, "If you have already paid, please disregard this message.\n\n")
	fmt.Fprintf(&b, "Kind regards,\n%s\n", email.TenantName)
	return subject, b.String()
}
