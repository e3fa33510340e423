package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"tripdesk_backend/platform/config"
)

// SMTPSender implements the Sender interface using a direct SMTP
// connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendAssignmentNoticeEmail(ctx context.Context, toEmail, agentName, workItemType, customerName, detailURL string) error {
	subject := fmt.Sprintf(subjectAssignmentNoticeFmt, workItemType)
	content, err := renderEmailTemplate("assignment_notice.html", assignmentNoticeEmailData{
		baseEmailData: baseEmailData{
			Title:    subject,
			Heading:  "New work item assigned",
			CTALabel: "Open in TripDesk",
			CTAURL:   detailURL,
		},
		AgentName:    agentName,
		WorkItemType: workItemType,
		CustomerName: customerName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendBookingConfirmationEmail(ctx context.Context, toEmail, customerName, reference, packageName string, attachments ...Attachment) error {
	content, err := renderEmailTemplate("booking_confirmation.html", bookingConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectBookingConfirmation,
			Heading: "Booking confirmed",
		},
		CustomerName: customerName,
		Reference:    reference,
		PackageName:  packageName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectBookingConfirmation, content, attachments...)
}

func (s *SMTPSender) SendLeadReceivedEmail(ctx context.Context, toEmail, customerName string) error {
	content, err := renderEmailTemplate("lead_received.html", leadReceivedEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectLeadReceived,
			Heading: "Thanks for your inquiry",
		},
		CustomerName: customerName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectLeadReceived, content)
}
