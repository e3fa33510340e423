// Package email provides outbound email delivery for notifications.
package email

import "context"

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	FileName string
	Content  []byte
}

// Sender delivers the application's notification emails.
type Sender interface {
	// SendAssignmentNoticeEmail tells an agent a work item landed on their desk.
	SendAssignmentNoticeEmail(ctx context.Context, toEmail, agentName, workItemType, customerName, detailURL string) error
	// SendBookingConfirmationEmail confirms a booking to the customer, with
	// the reference rendered as a QR code attachment.
	SendBookingConfirmationEmail(ctx context.Context, toEmail, customerName, reference, packageName string, attachments ...Attachment) error
	// SendLeadReceivedEmail acknowledges a website inquiry to the customer.
	SendLeadReceivedEmail(ctx context.Context, toEmail, customerName string) error
}

// NoopSender is used when SMTP is not configured; sends are dropped.
type NoopSender struct{}

func (NoopSender) SendAssignmentNoticeEmail(ctx context.Context, toEmail, agentName, workItemType, customerName, detailURL string) error {
	return nil
}

func (NoopSender) SendBookingConfirmationEmail(ctx context.Context, toEmail, customerName, reference, packageName string, attachments ...Attachment) error {
	return nil
}

func (NoopSender) SendLeadReceivedEmail(ctx context.Context, toEmail, customerName string) error {
	return nil
}

var _ Sender = NoopSender{}
