package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubCompleter struct {
	text   string
	err    error
	system string
	msg    string
}

func (s *stubCompleter) Complete(_ context.Context, system, message string) (string, error) {
	s.system, s.msg = system, message
	return s.text, s.err
}

func TestKeywordResponder(t *testing.T) {
	r := KeywordResponder{Selector: DefaultSelector()}
	assert.Equal(t, EducationResponse, r.Respond(context.Background(), "Education?"))
}

func TestModelResponderPassesThrough(t *testing.T) {
	stub := &stubCompleter{text: "  He knows Go too.  "}
	r := NewModelResponder(stub, "be nice", zaptest.NewLogger(t))

	got := r.Respond(context.Background(), "Does he know Go?")

	assert.Equal(t, "He knows Go too.", got)
	assert.Equal(t, "be nice", stub.system)
	assert.Equal(t, "Does he know Go?", stub.msg)
}

func TestModelResponderApologizesOnFailure(t *testing.T) {
	for name, stub := range map[string]*stubCompleter{
		"error": {err: errors.New("connection refused")},
		"empty": {text: " \n"},
	} {
		t.Run(name, func(t *testing.T) {
			r := NewModelResponder(stub, "sys", zaptest.NewLogger(t))
			assert.Equal(t, ApologyResponse, r.Respond(context.Background(), "hi"))
		})
	}
}

func TestOpenAICompleter(t *testing.T) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "He builds with React and Node."}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter("sk-test", srv.URL+"/v1", "", 256)
	got, err := c.Complete(context.Background(), "system prompt", "What stack?")

	require.NoError(t, err)
	assert.Equal(t, "He builds with React and Node.", got)
	assert.Equal(t, "gpt-4o-mini", body.Model)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "system prompt", body.Messages[0].Content)
	assert.Equal(t, "user", body.Messages[1].Role)
	assert.Equal(t, "What stack?", body.Messages[1].Content)
}

func TestOpenAICompleterDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer srv.Close()

	r := NewModelResponder(NewOpenAICompleter("sk-test", srv.URL+"/v1", "gpt-4o-mini", 0), "sys", zaptest.NewLogger(t))

	assert.Equal(t, ApologyResponse, r.Respond(context.Background(), "hello"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnthropicCompleter(t *testing.T) {
	var body struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "Hello there."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 5, "output_tokens": 3}
		}`))
	}))
	defer srv.Close()

	c := NewAnthropicCompleter("key", srv.URL, "", 0)
	got, err := c.Complete(context.Background(), "be brief", "hi")

	require.NoError(t, err)
	assert.Equal(t, "Hello there.", got)
	assert.Equal(t, "claude-3-5-haiku-latest", body.Model)
	assert.Equal(t, 512, body.MaxTokens)
	require.Len(t, body.System, 1)
	assert.Equal(t, "be brief", body.System[0].Text)
}
