// Package email renders and delivers the contact form notification and the
// auto-reply sent back to the submitter.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/pkg/logger"
)

// SubmittedAtLayout is how submission times appear in emails.
const SubmittedAtLayout = "2006-01-02 15:04:05 UTC"

// Transport delivers a rendered message.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

// NotificationData holds the fields shown in contact emails
type NotificationData struct {
	Name               string
	Email              string
	Subject            string
	Message            string
	Phone              string
	Company            string
	SubmittedAt        string
	HasAttachment      bool
	AttachmentFilename string
}

// Mailer sends contact form emails through a Transport
type Mailer struct {
	transport Transport
	metrics   *Metrics
	templates *templates
	from      mail.Address
	toEmail   string
}

// NewTransport picks the delivery backend from EMAIL_PROVIDER.
func NewTransport(cfg *config.Config) Transport {
	if cfg.EmailProvider == "resend" {
		return NewResendTransport(cfg.ResendAPIKey)
	}
	return NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
}

func NewMailer(cfg *config.Config, transport Transport, metrics *Metrics) (*Mailer, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Mailer{
		transport: transport,
		metrics:   metrics,
		templates: tmpl,
		from:      mail.Address{Name: cfg.SMTPFromName, Address: cfg.SMTPFromEmail},
		toEmail:   cfg.ContactEmailTo,
	}, nil
}

// IsConfigured reports whether both sender and operator addresses are set
func (m *Mailer) IsConfigured() bool {
	return m.from.Address != "" && m.toEmail != ""
}

// SendContactNotification emails the operator about a new submission.
// The attachment is optional.
func (m *Mailer) SendContactNotification(ctx context.Context, data NotificationData, attachment *Attachment) error {
	if m.toEmail == "" {
		return errors.New("operator address (CONTACT_EMAIL_TO) not configured")
	}

	var htmlBody, textBody bytes.Buffer
	if err := m.templates.notificationHTML.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}
	if err := m.templates.notificationText.Execute(&textBody, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	return m.send(ctx, KindNotification, &Message{
		From:       m.from,
		To:         []string{m.toEmail},
		ReplyTo:    data.Email,
		Subject:    fmt.Sprintf("New Contact Form Submission: %s", data.Subject),
		Text:       textBody.String(),
		HTML:       htmlBody.String(),
		Attachment: attachment,
	})
}

// SendAutoReply acknowledges the submission to the submitter.
func (m *Mailer) SendAutoReply(ctx context.Context, data NotificationData) error {
	view := struct {
		NotificationData
		SignatureName string
	}{data, m.from.Name}

	var htmlBody, textBody bytes.Buffer
	if err := m.templates.autoReplyHTML.Execute(&htmlBody, view); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}
	if err := m.templates.autoReplyText.Execute(&textBody, view); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	return m.send(ctx, KindAutoReply, &Message{
		From:    m.from,
		To:      []string{data.Email},
		Subject: fmt.Sprintf("Thank you for contacting me - %s", data.Subject),
		Text:    textBody.String(),
		HTML:    htmlBody.String(),
	})
}

func (m *Mailer) send(ctx context.Context, kind string, msg *Message) error {
	start := time.Now()
	err := m.transport.Send(ctx, msg)
	m.metrics.observe(kind, start, err)

	if err != nil {
		logger.Log.Errorw("Failed to send email",
			"kind", kind,
			"transport", m.transport.Name(),
			"to", logger.MaskEmail(msg.To[0]),
			"error", err)
		return err
	}

	logger.Log.Infow("Email sent successfully",
		"kind", kind,
		"transport", m.transport.Name(),
		"to", logger.MaskEmail(msg.To[0]))
	return nil
}
