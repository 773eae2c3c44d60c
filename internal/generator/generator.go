package generator

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"text/template"
	"time"

	"ai-cookbook/internal/llm"
	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/shared"
)

//go:embed generator_prompt.md
var generatorPrompt string

const agentName = "RecipeGenerator"

// Focus selects the kind of recipes a batch should contain.
type Focus string

const (
	FocusMeal    Focus = "Meal"
	FocusDessert Focus = "Dessert"
)

var (
	// ErrMissingCredential means no API key is configured for the provider.
	ErrMissingCredential = errors.New("generation API key is not configured")
	ErrInvalidCredential = errors.New("generation API key was rejected")
	ErrQuotaExhausted    = errors.New("generation quota exhausted")
	ErrMalformedResponse = errors.New("malformed generation response")
	ErrNoRecipes         = errors.New("no recipes generated")
)

// Request carries everything a batch is generated from.
type Request struct {
	Profile   profile.UserProfile
	NumPeople int
	Budget    string
	Count     int
	Focus     Focus
}

type Result struct {
	Recipes []recipe.Recipe
	Meta    shared.AgentMeta
}

// Generator produces recipe batches through a TextGenerator.
type Generator struct {
	textGen llm.TextGenerator
}

// New returns a Generator. textGen may be nil when no credential is
// configured; Generate then fails with ErrMissingCredential.
func New(textGen llm.TextGenerator) *Generator {
	return &Generator{textGen: textGen}
}

// Generate asks the provider for a batch and validates it. Any failure
// rejects the whole batch.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if g == nil || isNil(g.textGen) {
		return Result{}, ErrMissingCredential
	}

	start := time.Now()
	prompt, err := buildPrompt(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	resp, err := g.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return Result{}, classify(err)
	}

	meta := shared.AgentMeta{
		AgentName: agentName,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	recipes, err := recipe.ParseBatch(resp.Content)
	if err != nil {
		return Result{Meta: meta}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(recipes) == 0 {
		return Result{Meta: meta}, ErrNoRecipes
	}

	return Result{Recipes: recipes, Meta: meta}, nil
}

// classify maps provider errors onto the sentinel errors above.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var se *llm.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key not valid"), strings.Contains(msg, "API_KEY_INVALID"):
		return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"), strings.Contains(strings.ToLower(msg), "quota"):
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	}
	return fmt.Errorf("failed to generate recipes: %w", err)
}

// UserMessage turns a generation error into text fit for the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "Recipe generation is not configured. Please set an API key and try again."
	case errors.Is(err, ErrInvalidCredential):
		return "Invalid API Key. Please check your API key."
	case errors.Is(err, ErrQuotaExhausted):
		return "Recipe generation quota likely exceeded. Please try again later."
	case errors.Is(err, ErrMalformedResponse):
		return "Failed to parse recipes from the AI response. Please try again."
	case errors.Is(err, ErrNoRecipes):
		return "No recipes were generated. Try adjusting your preferences."
	}
	return "Failed to generate recipes. " + err.Error()
}

type promptData struct {
	Profile     profile.UserProfile
	NumPeople   int
	Budget      string
	Count       int
	Dessert     bool
	Kind        string
	Disliked    string
	CuisineList string
}

func buildPrompt(req Request) (string, error) {
	tmpl, err := template.New("Generator").Funcs(template.FuncMap{"join": joinOr}).Parse(generatorPrompt)
	if err != nil {
		return "", err
	}

	data := promptData{
		Profile:   req.Profile,
		NumPeople: req.NumPeople,
		Budget:    req.Budget,
		Count:     req.Count,
		Dessert:   req.Focus == FocusDessert,
		Kind:      "meal",
		Disliked:  "None specified",
	}
	if data.Dessert {
		data.Kind = "dessert"
	}

	if len(req.Profile.DislikedRecipes) > 0 {
		names := make([]string, 0, len(req.Profile.DislikedRecipes))
		for _, r := range req.Profile.DislikedRecipes {
			names = append(names, r.Name)
		}
		data.Disliked = strings.Join(names, ", ")
	}

	cuisines := make([]string, 0, len(recipe.Cuisines))
	for _, c := range recipe.Cuisines {
		cuisines = append(cuisines, string(c))
	}
	data.CuisineList = strings.Join(cuisines, ", ")

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// joinOr joins any slice of string-like values, or returns def when empty.
func joinOr(items any, def string) string {
	v := reflect.ValueOf(items)
	if v.Kind() != reflect.Slice || v.Len() == 0 {
		return def
	}
	parts := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		parts = append(parts, fmt.Sprint(v.Index(i).Interface()))
	}
	return strings.Join(parts, ", ")
}

func isNil(gen llm.TextGenerator) bool {
	if gen == nil {
		return true
	}
	v := reflect.ValueOf(gen)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
