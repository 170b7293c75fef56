package agent

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var testRequest = CompletionRequest{
	SystemInstruction: "protocol",
	Entries: []Entry{
		{Role: RoleUser, Content: `{"type":"user","user":"What is the weather in Dhaka?"}`},
		{Role: RoleUser, Content: `{"type":"observation","observation":"33°C"}`},
	},
}

func TestGeminiCompleter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		req := gjson.ParseBytes(body)
		assert.Equal(t, "protocol", req.Get("systemInstruction.parts.0.text").String())
		assert.Equal(t, "application/json", req.Get("generationConfig.responseMimeType").String())
		assert.Equal(t, int64(2), req.Get("contents.#").Int())
		assert.Equal(t, "user", req.Get("contents.1.role").String())
		assert.Equal(t, `{"type":"observation","observation":"33°C"}`, req.Get("contents.1.parts.0.text").String())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"type\":\"output\","},{"text":"\"output\":\"33°C\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	g, err := NewGeminiCompleter(context.Background(), CompleterOptions{
		APIKey:     "testkey",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, g.Model())

	reply, err := g.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"output","output":"33°C"}`, reply)
}

func TestGeminiCompleter_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	g, err := NewGeminiCompleter(context.Background(), CompleterOptions{
		APIKey:     "testkey",
		BaseURL:    server.URL,
		Model:      "gemini-2.5-pro",
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", g.Model())

	_, err = g.Complete(context.Background(), testRequest)
	assert.True(t, errors.Is(err, ErrEmptyResponse))

	_, err = NewGeminiCompleter(context.Background(), CompleterOptions{})
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestOpenAICompleter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer testkey", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		req := gjson.ParseBytes(body)
		assert.Equal(t, "gpt-4o-mini", req.Get("model").String())
		assert.Equal(t, "json_object", req.Get("response_format.type").String())
		assert.InDelta(t, 0.2, req.Get("temperature").Float(), 0.0001)
		assert.Equal(t, int64(3), req.Get("messages.#").Int())
		assert.Equal(t, "system", req.Get("messages.0.role").String())
		assert.Equal(t, "protocol", req.Get("messages.0.content").String())
		assert.Equal(t, "user", req.Get("messages.2.role").String())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"type\":\"plan\",\"plan\":\"p\"}"}}]}`))
	}))
	defer server.Close()

	temp := float32(0.2)
	o, err := NewOpenAICompleter(CompleterOptions{
		APIKey:      "testkey",
		BaseURL:     server.URL + "/",
		Temperature: &temp,
		HTTPClient:  server.Client(),
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, o.Model())

	reply, err := o.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"plan","plan":"p"}`, reply)

	_, err = NewOpenAICompleter(CompleterOptions{})
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestNewCompleter(t *testing.T) {
	ctx := context.Background()

	c, err := NewCompleter(ctx, &AgentConfig{Provider: "Gemini", GeminiAPIKey: "k", Model: "gemini-2.5-flash"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiCompleter{}, c)

	c, err = NewCompleter(ctx, &AgentConfig{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAICompleter{}, c)

	_, err = NewCompleter(ctx, &AgentConfig{Provider: "llama", APIKey: "k"})
	assert.EqualError(t, err, `unsupported provider "llama"`)
}
