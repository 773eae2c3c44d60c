package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-cookbook/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroq(t *testing.T, handler http.HandlerFunc) *groqClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewGroqClient(&config.Config{GroqAPIKey: "test-key"}, "", 0.8).(*groqClient)
	c.endpoint = server.URL
	return c
}

func TestGroqClient(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, config.DefaultGroqModel, body["model"])
			assert.Equal(t, 0.8, body["temperature"])

			w.Write([]byte(`{
				"choices": [{"message": {"content": "{\"recipes\": []}"}}],
				"usage": {"prompt_tokens": 12, "completion_tokens": 30, "total_tokens": 42}
			}`))
		})

		resp, err := c.GenerateContent(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, `{"recipes": []}`, resp.Content)
		assert.Equal(t, 12, resp.Usage.PromptTokens)
		assert.Equal(t, 30, resp.Usage.CompletionTokens)
		assert.Equal(t, config.DefaultGroqModel, resp.Usage.Model)
	})

	t.Run("StatusError", func(t *testing.T) {
		c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`rate limited`))
		})

		_, err := c.GenerateContent(context.Background(), "hi")
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	})

	t.Run("NoChoices", func(t *testing.T) {
		c := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		})
		_, err := c.GenerateContent(context.Background(), "hi")
		assert.EqualError(t, err, "no content generated")
	})
}

func TestNewTextGenerator(t *testing.T) {
	ctx := context.Background()

	gen, err := NewTextGenerator(ctx, &config.Config{GenerationProvider: config.ProviderGemini})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = NewTextGenerator(ctx, &config.Config{GenerationProvider: config.ProviderGroq})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = NewTextGenerator(ctx, &config.Config{GenerationProvider: config.ProviderGroq, GroqAPIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, gen)
	assert.NoError(t, Close(gen))

	_, err = NewTextGenerator(ctx, &config.Config{GenerationProvider: "other"})
	assert.Error(t, err)
}
