package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// resendSender is the part of resend.EmailsSvc the transport needs.
type resendSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendTransport delivers messages through the Resend HTTP API.
type ResendTransport struct {
	emails resendSender
}

func NewResendTransport(apiKey string) *ResendTransport {
	client := resend.NewClient(apiKey)
	return &ResendTransport{emails: client.Emails}
}

func (t *ResendTransport) Name() string { return "resend" }

func (t *ResendTransport) Send(ctx context.Context, msg *Message) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", sanitizeHeader(msg.From.Name), sanitizeHeader(msg.From.Address)),
		To:      sanitizeList(msg.To),
		Subject: sanitizeHeader(msg.Subject),
		ReplyTo: sanitizeHeader(msg.ReplyTo),
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if msg.Attachment != nil {
		params.Attachments = []*resend.Attachment{{
			Filename: msg.Attachment.Filename,
			Content:  msg.Attachment.Content,
		}}
	}

	if _, err := t.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}
