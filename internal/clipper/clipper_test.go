package clipper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-cookbook/internal/generator"
	"ai-cookbook/internal/llm"
	"ai-cookbook/internal/shared"
)

type MockTextGenerator struct {
	Response    string
	ShouldError bool
	LastPrompt  string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.LastPrompt = prompt
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.Response, Usage: shared.TokenUsage{PromptTokens: 10, CompletionTokens: 5}}, nil
}

const dirtyPage = `
<html>
	<head>
		<meta property="og:image" content="https://img.test/pie.jpg">
		<script>alert('bad');</script>
	</head>
	<body>
		<h1>Tasty Recipe</h1>
		<div class="ads">Buy stuff!</div>
		<p>Mix flour and water.</p>
		<script>more_bad_stuff()</script>
		<footer>Copyright 2024</footer>
	</body>
</html>`

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFetchPage(t *testing.T) {
	ts := servePage(t, dirtyPage)
	c := NewClipper(&MockTextGenerator{})

	p, err := c.fetchPage(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, noise := range []string{"alert('bad')", "Buy stuff!", "Copyright 2024"} {
		if strings.Contains(p.text, noise) {
			t.Errorf("Expected %q to be removed", noise)
		}
	}
	if !strings.Contains(p.text, "Tasty Recipe Mix flour and water.") {
		t.Errorf("Expected collapsed body text, got %q", p.text)
	}
	if p.image != "https://img.test/pie.jpg" {
		t.Errorf("Expected og:image, got %q", p.image)
	}
}

func TestFetchPage_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	if _, err := NewClipper(nil).fetchPage(context.Background(), ts.URL); err == nil {
		t.Error("Expected error for 404 page")
	}
}

func TestImportURL_Success(t *testing.T) {
	ts := servePage(t, dirtyPage)
	mockAI := &MockTextGenerator{Response: "```json\n" + `{"name": "Mock Pie", "ingredients": [{"name": "Apple", "quantity": 3}], "instructions": ["Bake"]}` + "\n```"}
	c := NewClipper(mockAI)

	r, meta, err := c.ImportURL(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("ImportURL failed: %v", err)
	}

	if r.Name != "Mock Pie" {
		t.Errorf("Expected name 'Mock Pie', got '%s'", r.Name)
	}
	if !strings.HasPrefix(r.ID, "imported-") {
		t.Errorf("Expected imported id, got %q", r.ID)
	}
	if r.Ingredients[0].Quantity != "3" {
		t.Errorf("Expected quantity 3, got %q", r.Ingredients[0].Quantity)
	}
	if r.ImageURL != "https://img.test/pie.jpg" {
		t.Errorf("Expected page image, got %q", r.ImageURL)
	}
	if !strings.Contains(r.Notes, ts.URL) {
		t.Errorf("Expected source URL in notes, got %q", r.Notes)
	}
	if meta.AgentName != agentName || meta.Usage.PromptTokens != 10 {
		t.Errorf("Unexpected meta %+v", meta)
	}
	if !strings.Contains(mockAI.LastPrompt, "Mix flour and water.") {
		t.Error("Expected page text in prompt")
	}
}

func TestImportURL_Failures(t *testing.T) {
	ts := servePage(t, "<html><body>Nothing here</body></html>")

	t.Run("NoCredential", func(t *testing.T) {
		_, _, err := NewClipper(nil).ImportURL(context.Background(), ts.URL)
		if !errors.Is(err, generator.ErrMissingCredential) {
			t.Errorf("Expected ErrMissingCredential, got %v", err)
		}
	})

	t.Run("NotARecipe", func(t *testing.T) {
		_, _, err := NewClipper(&MockTextGenerator{Response: `{"name": ""}`}).ImportURL(context.Background(), ts.URL)
		if !errors.Is(err, ErrNoRecipe) {
			t.Errorf("Expected ErrNoRecipe, got %v", err)
		}
	})

	t.Run("AIError", func(t *testing.T) {
		_, _, err := NewClipper(&MockTextGenerator{ShouldError: true}).ImportURL(context.Background(), ts.URL)
		if err == nil {
			t.Error("Expected error")
		}
	})

	t.Run("MalformedResponse", func(t *testing.T) {
		_, _, err := NewClipper(&MockTextGenerator{Response: `{"name": "Soup"}`}).ImportURL(context.Background(), ts.URL)
		if err == nil || errors.Is(err, ErrNoRecipe) {
			t.Errorf("Expected parse error, got %v", err)
		}
	})
}
