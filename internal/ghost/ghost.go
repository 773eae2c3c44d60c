package ghost

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-cookbook/internal/config"
	"ai-cookbook/internal/recipe"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidAdminKey means GHOST_ADMIN_API_KEY is not in id:secret form.
var ErrInvalidAdminKey = errors.New("invalid admin key format: expected id:secret")

// Post is a post as returned by the Ghost Admin API.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// Draft is a post to be created. Tags are created on the blog when missing.
type Draft struct {
	Title        string
	HTML         string
	Tags         []string
	FeatureImage string
	Publish      bool
}

// DraftFromRecipe renders r as an unpublished post tagged with its cuisine.
func DraftFromRecipe(r recipe.Recipe) Draft {
	d := Draft{
		Title:        r.Name,
		HTML:         RecipeHTML(r),
		Tags:         []string{"Recipe"},
		FeatureImage: r.ImageURL,
	}
	if r.CuisineType != "" {
		d.Tags = append(d.Tags, string(r.CuisineType))
	}
	return d
}

// Client publishes posts to a Ghost blog.
type Client interface {
	CreatePost(ctx context.Context, d Draft) (*Post, error)
}

type tag struct {
	Name string `json:"name"`
}

type postInput struct {
	Title        string `json:"title"`
	HTML         string `json:"html"`
	Status       string `json:"status"`
	Tags         []tag  `json:"tags,omitempty"`
	FeatureImage string `json:"feature_image,omitempty"`
}

type postsEnvelope[T any] struct {
	Posts []T `json:"posts"`
}

type errorsEnvelope struct {
	Errors []struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"errors"`
}

type ghostClient struct {
	httpClient *http.Client
	baseURL    string
	adminKey   string
}

// NewClient creates a new Ghost Admin API client.
func NewClient(cfg *config.Config) Client {
	return &ghostClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.GhostURL, "/"),
		adminKey:   cfg.GhostAdminKey,
	}
}

// CreatePost creates a post from HTML using the Ghost Admin API.
func (c *ghostClient) CreatePost(ctx context.Context, d Draft) (*Post, error) {
	token, err := c.createAdminToken(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token: %w", err)
	}

	in := postInput{Title: d.Title, HTML: d.HTML, Status: "draft", FeatureImage: d.FeatureImage}
	if d.Publish {
		in.Status = "published"
	}
	for _, name := range d.Tags {
		in.Tags = append(in.Tags, tag{Name: name})
	}

	body, err := json.Marshal(postsEnvelope[postInput]{Posts: []postInput{in}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ghost/api/v3/admin/posts/?source=html", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var e errorsEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if len(e.Errors) > 0 {
			return nil, fmt.Errorf("admin api error: status %d: %s", resp.StatusCode, e.Errors[0].Message)
		}
		return nil, fmt.Errorf("admin api error: status %d", resp.StatusCode)
	}

	var created postsEnvelope[Post]
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(created.Posts) == 0 {
		return nil, fmt.Errorf("no post returned from api")
	}
	return &created.Posts[0], nil
}

// createAdminToken signs a five minute admin token with the key's secret.
func (c *ghostClient) createAdminToken(now time.Time) (string, error) {
	id, hexSecret, ok := strings.Cut(c.adminKey, ":")
	if !ok || id == "" {
		return "", ErrInvalidAdminKey
	}
	secret, err := hex.DecodeString(hexSecret)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		Audience:  jwt.ClaimStrings{"/v3/admin/"},
	})
	token.Header["kid"] = id
	return token.SignedString(secret)
}
