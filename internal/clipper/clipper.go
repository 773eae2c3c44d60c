package clipper

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-cookbook/internal/generator"
	"ai-cookbook/internal/llm"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

//go:embed clipper_prompt.md
var clipperPrompt string

const agentName = "RecipeClipper"

// maxPageChars caps the page text sent to the model.
const maxPageChars = 20000

// ErrNoRecipe is returned when the page does not contain a recognisable recipe.
var ErrNoRecipe = errors.New("no recipe found on page")

// Clipper imports recipes from web pages.
type Clipper struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance. textGen may be nil, in which
// case imports fail with generator.ErrMissingCredential.
func NewClipper(textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ImportURL fetches url, extracts a recipe from it and returns it ready to
// be added to a library. The source link is kept in the recipe notes.
func (c *Clipper) ImportURL(ctx context.Context, url string) (recipe.Recipe, shared.AgentMeta, error) {
	meta := shared.AgentMeta{AgentName: agentName}
	if c.textGen == nil {
		return recipe.Recipe{}, meta, generator.ErrMissingCredential
	}

	page, err := c.fetchPage(ctx, url)
	if err != nil {
		return recipe.Recipe{}, meta, fmt.Errorf("failed to fetch content: %w", err)
	}

	start := time.Now()
	resp, err := c.textGen.GenerateContent(ctx, fmt.Sprintf(clipperPrompt, page.text))
	meta.Latency = time.Since(start)
	if err != nil {
		return recipe.Recipe{}, meta, fmt.Errorf("ai extraction failed: %w", err)
	}
	meta.Usage = resp.Usage

	r, err := recipe.ParseOne(resp.Content)
	if err != nil {
		if errors.Is(err, recipe.ErrMalformedBatch) && strings.Contains(err.Error(), "missing name") {
			return recipe.Recipe{}, meta, ErrNoRecipe
		}
		return recipe.Recipe{}, meta, fmt.Errorf("failed to parse AI response: %w", err)
	}

	r.ID = "imported-" + r.ID
	if r.ImageURL == "" {
		r.ImageURL = page.image
	}
	r.Notes = strings.TrimSpace(r.Notes + "\nImported from: " + url)
	return r, meta, nil
}

type page struct {
	text  string
	image string
}

func (c *Clipper) fetchPage(ctx context.Context, url string) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return page{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return page{}, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return page{}, err
	}

	image, _ := doc.Find(`meta[property="og:image"]`).Attr("content")

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, noscript, .ads, #ads, .comments").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > maxPageChars {
		text = text[:maxPageChars]
	}
	return page{text: text, image: image}, nil
}
