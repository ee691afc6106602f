// Package contact delivers the portfolio's contact form by email.
package contact

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Messages shown next to the form.
const (
	SuccessMessage = "Thank you for your message! I'll get back to you soon."
	ErrorMessage   = "Sorry, there was an error sending your message. Please try again later."
)

// ErrNotConfigured is returned by senders missing credentials.
var ErrNotConfigured = errors.New("contact: mail delivery not configured")

// Form is a contact form submission.
type Form struct {
	FullName string `form:"fullName" json:"fullName" binding:"required,max=100"`
	Email    string `form:"email" json:"email" binding:"required,email,max=254"`
	Message  string `form:"message" json:"message" binding:"required,max=5000"`
}

// Sender delivers a submission.
type Sender interface {
	Send(ctx context.Context, form Form) error
}

// Service forwards submissions to a Sender and logs the outcome.
type Service struct {
	sender Sender
	log    *zap.Logger
}

// NewService returns a Service delivering through sender.
func NewService(sender Sender, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{sender: sender, log: log}
}

// Submit sends form. Failures are logged and returned; the caller shows
// ErrorMessage and keeps the form filled in.
func (s *Service) Submit(ctx context.Context, form Form) error {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)

	if err := s.sender.Send(ctx, form); err != nil {
		s.log.Error("failed to send contact email", zap.Error(err))
		return err
	}
	s.log.Info("contact email sent", zap.Int("message_length", len(form.Message)))
	return nil
}

// FieldErrors turns binding errors into per-field messages keyed by form
// field name. Errors that are not validation errors map to "form".
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Please check the form and try again."
		return out
	}
	for _, fe := range verrs {
		name := formFieldName(fe.Field())
		switch fe.Tag() {
		case "required":
			out[name] = "This field is required."
		case "email":
			out[name] = "Please enter a valid email address."
		case "max":
			out[name] = fmt.Sprintf("Please keep this under %s characters.", fe.Param())
		default:
			out[name] = "This value is not valid."
		}
	}
	return out
}

func formFieldName(structField string) string {
	switch structField {
	case "FullName":
		return "fullName"
	case "Email":
		return "email"
	case "Message":
		return "message"
	}
	return strings.ToLower(structField)
}

// compose renders the notification email.
func compose(form Form) (subject, text, htmlBody string) {
	subject = fmt.Sprintf("Portfolio Contact: %s", form.FullName)

	text = fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, form.FullName, form.Email, form.Message)

	htmlBody = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>New contact form submission</h2>
	<p><strong>Name:</strong> %s</p>
	<p><strong>Email:</strong> %s</p>
	<p style="white-space: pre-wrap;">%s</p>
</div>`, html.EscapeString(form.FullName), html.EscapeString(form.Email), html.EscapeString(form.Message))

	return subject, text, htmlBody
}
