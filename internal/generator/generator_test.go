package generator

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"ai-cookbook/internal/llm"
	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockTextGenerator struct {
	content    string
	err        error
	lastPrompt string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.content,
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 400, Model: "mock"},
	}, nil
}

const twoRecipes = `{"recipes": [
	{"id": "r1", "name": "Veggie Curry", "ingredients": [{"name": "Chickpeas", "quantity": "400", "unit": "g"}], "instructions": ["Simmer."]},
	{"id": "r2", "name": "Lentil Soup", "ingredients": [{"name": "Lentils", "quantity": "200", "unit": "g"}], "instructions": ["Boil."]}
]}`

func testRequest() Request {
	p := profile.New(profile.AuthIdentity{UID: "u1", DisplayName: "Ana"})
	p.DietaryRequirements = []profile.DietaryRequirement{profile.DietVegetarian}
	p.DislikedRecipes = []recipe.Recipe{{ID: "x", Name: "Liver Pate"}}
	return Request{Profile: *p, NumPeople: 3, Budget: "$40", Count: 2, Focus: FocusMeal}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock := &MockTextGenerator{content: twoRecipes}
		res, err := New(mock).Generate(ctx, testRequest())
		require.NoError(t, err)

		require.Len(t, res.Recipes, 2)
		assert.Equal(t, "Veggie Curry", res.Recipes[0].Name)
		assert.Equal(t, agentName, res.Meta.AgentName)
		assert.Equal(t, 400, res.Meta.Usage.CompletionTokens)

		assert.Contains(t, mock.lastPrompt, "Vegetarian")
		assert.Contains(t, mock.lastPrompt, "Liver Pate")
		assert.Contains(t, mock.lastPrompt, "$40")
		assert.Contains(t, mock.lastPrompt, "3 people")
		assert.Contains(t, mock.lastPrompt, "general MEAL recipes")
	})

	t.Run("DessertPrompt", func(t *testing.T) {
		mock := &MockTextGenerator{content: twoRecipes}
		req := testRequest()
		req.Focus = FocusDessert
		req.Budget = ""
		_, err := New(mock).Generate(ctx, req)
		require.NoError(t, err)
		assert.Contains(t, mock.lastPrompt, "DESSERT recipes")
		assert.Contains(t, mock.lastPrompt, "aim for general affordability")
		assert.False(t, strings.Contains(mock.lastPrompt, "<no value>"))
	})

	t.Run("MissingCredential", func(t *testing.T) {
		_, err := New(nil).Generate(ctx, testRequest())
		assert.ErrorIs(t, err, ErrMissingCredential)

		var typedNil *MockTextGenerator
		_, err = New(typedNil).Generate(ctx, testRequest())
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("MalformedBatch", func(t *testing.T) {
		mock := &MockTextGenerator{content: `[{"name": "No steps", "ingredients": []}]`}
		res, err := New(mock).Generate(ctx, testRequest())
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Empty(t, res.Recipes)
		assert.Equal(t, agentName, res.Meta.AgentName)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		mock := &MockTextGenerator{content: `[]`}
		_, err := New(mock).Generate(ctx, testRequest())
		assert.ErrorIs(t, err, ErrNoRecipes)
	})

	errorCases := []struct {
		name string
		err  error
		want error
	}{
		{"InvalidKeyMessage", errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key."), ErrInvalidCredential},
		{"Unauthorized", &llm.StatusError{Provider: "groq", StatusCode: http.StatusUnauthorized}, ErrInvalidCredential},
		{"ResourceExhausted", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), ErrQuotaExhausted},
		{"QuotaMessage", errors.New("You exceeded your current Quota"), ErrQuotaExhausted},
		{"TooManyRequests", &llm.StatusError{Provider: "groq", StatusCode: http.StatusTooManyRequests}, ErrQuotaExhausted},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(&MockTextGenerator{err: tc.err}).Generate(ctx, testRequest())
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("TransientFailure", func(t *testing.T) {
		_, err := New(&MockTextGenerator{err: errors.New("connection reset")}).Generate(ctx, testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.Equal(t, "Failed to generate recipes. failed to generate recipes: connection reset", UserMessage(err))
	})

	t.Run("Canceled", func(t *testing.T) {
		_, err := New(&MockTextGenerator{err: context.Canceled}).Generate(ctx, testRequest())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(ErrMissingCredential), "not configured")
	assert.Contains(t, UserMessage(errors.Join(ErrQuotaExhausted)), "quota")
	assert.Contains(t, UserMessage(ErrInvalidCredential), "Invalid API Key")
	assert.Contains(t, UserMessage(ErrNoRecipes), "No recipes")
}
