package contact

import (
	"context"
	"fmt"

	"github.com/resendlabs/resend-go"
)

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	to     string
}

// NewResendSender returns a sender mailing to from "fromName <from>".
func NewResendSender(apiKey, from, fromName, to string) (*ResendSender, error) {
	if apiKey == "" || from == "" || to == "" {
		return nil, fmt.Errorf("resend sender: %w", ErrNotConfigured)
	}
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, from)
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from, to: to}, nil
}

// Send implements Sender.
func (r *ResendSender) Send(ctx context.Context, form Form) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, text, html := compose(form)

	_, err := r.client.Emails.Send(&resend.SendEmailRequest{
		From:    r.from,
		To:      []string{r.to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}
