package assistant

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// ApologyResponse replaces a failed model reply.
const ApologyResponse = "Sorry, I'm having trouble answering right now. " +
	"Please use the contact form to reach Bhuvan directly."

// ErrEmptyCompletion is returned by a Completer when the model replied
// without any text.
var ErrEmptyCompletion = errors.New("assistant: empty completion")

// Responder produces the assistant's reply to one visitor message.
// It always returns a displayable string.
type Responder interface {
	Respond(ctx context.Context, message string) string
}

// KeywordResponder answers from canned responses.
type KeywordResponder struct {
	Selector *Selector
}

// Respond implements Responder.
func (k KeywordResponder) Respond(_ context.Context, message string) string {
	return k.Selector.Select(message)
}

// Completer sends one system prompt and one user message to a hosted
// model and returns its text.
type Completer interface {
	Complete(ctx context.Context, system, message string) (string, error)
}

// ModelResponder forwards messages verbatim to a hosted model.
type ModelResponder struct {
	completer Completer
	system    string
	log       *zap.Logger
}

// NewModelResponder returns a ModelResponder sending system with every
// message.
func NewModelResponder(completer Completer, system string, log *zap.Logger) *ModelResponder {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModelResponder{completer: completer, system: system, log: log}
}

// Respond returns the model's reply, or ApologyResponse if the call fails.
func (m *ModelResponder) Respond(ctx context.Context, message string) string {
	text, err := m.completer.Complete(ctx, m.system, message)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyCompletion
	}
	if err != nil {
		m.log.Error("chat completion failed", zap.Error(err))
		return ApologyResponse
	}
	return strings.TrimSpace(text)
}
