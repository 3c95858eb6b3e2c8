package advisors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-core-poc/server/internal/agent/model"
	errx "github.com/nash-core-poc/server/internal/core/error"
)

func prompt() []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage("be a skeptic"),
		schema.UserMessage("Question: 22 nm silicon"),
	}
}

func TestNew_MissingCredentialIsUnavailable(t *testing.T) {
	t.Parallel()

	for _, provider := range []string{"", "gemini", "Anthropic"} {
		adv, err := New(context.Background(), model.AdvisorConfig{Provider: provider, Model: "m"})
		require.NoError(t, err, provider)

		_, err = adv.Decide(context.Background(), prompt())
		require.Error(t, err)
		assert.ErrorIs(t, err, errx.ErrAdvisorUnavailable)
		assert.Equal(t, errx.KindAdvisoryUnavailable, errx.KindOf(err))
		assert.Equal(t, "m", adv.ModelName())
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), model.AdvisorConfig{Provider: "oracle"})
	assert.Error(t, err)
}

type fakeChatModel struct {
	reply *schema.Message
	err   error
	got   []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.got = input
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestChatModelAdvisor(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: schema.AssistantMessage(`{"action":"answer","text":"ok"}`, nil)}
	adv := NewChatModelAdvisor(fake, "gemini-2.5-flash")

	out, err := adv.Decide(context.Background(), prompt())
	require.NoError(t, err)
	assert.Equal(t, `{"action":"answer","text":"ok"}`, out.Content)
	assert.Len(t, fake.got, 2)
	assert.Equal(t, "gemini-2.5-flash", adv.ModelName())

	fake.err = errors.New("quota exceeded")
	_, err = adv.Decide(context.Background(), prompt())
	assert.ErrorIs(t, err, errx.ErrAdvisorUnavailable)

	fake.err, fake.reply = nil, nil
	_, err = adv.Decide(context.Background(), prompt())
	assert.ErrorIs(t, err, errx.ErrAdvisorUnavailable)
}

func TestAnthropicAdvisor(t *testing.T) {
	t.Parallel()

	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "{\"action\":\"answer\",\"text\":\"DISCREPANCY DETECTED\"}"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 120, "output_tokens": 30}
		}`)
	}))
	t.Cleanup(srv.Close)

	adv := NewAnthropic(model.AdvisorConfig{
		Model:           "claude-haiku-4-5",
		MaxTokens:       512,
		Temperature:     0.1,
		AnthropicAPIKey: "test-key",
	}, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	out, err := adv.Decide(context.Background(), prompt())
	require.NoError(t, err)
	assert.Equal(t, `{"action":"answer","text":"DISCREPANCY DETECTED"}`, out.Content)
	require.NotNil(t, out.ResponseMeta)
	assert.Equal(t, 120, out.ResponseMeta.Usage.PromptTokens)
	assert.Equal(t, 30, out.ResponseMeta.Usage.CompletionTokens)

	assert.Equal(t, "claude-haiku-4-5", body["model"])
	assert.EqualValues(t, 512, body["max_tokens"])
	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 1)
}

func TestAnthropicAdvisor_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	t.Cleanup(srv.Close)

	adv := NewAnthropic(model.AdvisorConfig{Model: "claude-haiku-4-5", MaxTokens: 64, AnthropicAPIKey: "bad"},
		option.WithBaseURL(srv.URL), option.WithMaxRetries(0))

	_, err := adv.Decide(context.Background(), prompt())
	assert.ErrorIs(t, err, errx.ErrAdvisorUnavailable)
}
