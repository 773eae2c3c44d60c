package ghost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-cookbook/internal/config"
	"ai-cookbook/internal/recipe"

	"github.com/golang-jwt/jwt/v5"
)

const adminKey = "abc123:0a1b2c3d4e5f"

func TestCreatePost(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Ghost ") {
				t.Errorf("Expected Ghost authorization, got %q", auth)
			}
			token, _, err := jwt.NewParser().ParseUnverified(strings.TrimPrefix(auth, "Ghost "), jwt.MapClaims{})
			if err != nil {
				t.Errorf("Expected a JWT, got %v", err)
				return
			}
			if token.Header["kid"] != "abc123" {
				t.Errorf("Expected kid abc123, got %v", token.Header["kid"])
			}

			var body postsEnvelope[postInput]
			json.NewDecoder(r.Body).Decode(&body)
			if len(body.Posts) != 1 || body.Posts[0].Title != "Pie" {
				t.Errorf("Unexpected request body %+v", body)
				return
			}
			in := body.Posts[0]
			if in.Status != "published" || len(in.Tags) != 2 || in.Tags[1].Name != "French" || in.FeatureImage != "https://img.test/pie.jpg" {
				t.Errorf("Unexpected post input %+v", in)
			}

			w.WriteHeader(http.StatusCreated)
			fmt.Fprintln(w, `{"posts": [{"id": "p1", "title": "Pie", "status": "published", "url": "https://blog.test/pie/"}]}`)
		}))
		defer server.Close()

		client := NewClient(&config.Config{GhostURL: server.URL + "/", GhostAdminKey: adminKey})
		post, err := client.CreatePost(context.Background(), Draft{
			Title:        "Pie",
			HTML:         "<p>pie</p>",
			Tags:         []string{"Recipe", "French"},
			FeatureImage: "https://img.test/pie.jpg",
			Publish:      true,
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if post.ID != "p1" || post.URL != "https://blog.test/pie/" {
			t.Errorf("Unexpected post %+v", post)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"errors": [{"message": "bad token"}]}`)
		}))
		defer server.Close()

		client := NewClient(&config.Config{GhostURL: server.URL, GhostAdminKey: adminKey})
		_, err := client.CreatePost(context.Background(), Draft{Title: "Pie"})
		if err == nil || !strings.Contains(err.Error(), "bad token") {
			t.Fatalf("Expected the api error message, got %v", err)
		}
	})

	t.Run("BadKey", func(t *testing.T) {
		client := NewClient(&config.Config{GhostURL: "http://unused", GhostAdminKey: "no-secret"})
		if _, err := client.CreatePost(context.Background(), Draft{Title: "Pie"}); !errors.Is(err, ErrInvalidAdminKey) {
			t.Fatalf("Expected ErrInvalidAdminKey, got %v", err)
		}
	})
}

func TestRecipeHTML(t *testing.T) {
	html := RecipeHTML(recipe.Recipe{
		Name:         "Fish & Chips",
		Description:  "Crispy <b>classic</b>",
		Servings:     2,
		PrepTime:     "10 mins",
		CookTime:     "20 mins",
		Ingredients:  []recipe.Ingredient{{Name: "Cod", Quantity: "2", Unit: "fillets"}, {Name: "Salt"}},
		Instructions: []string{"Batter", "Fry"},
	})

	for _, want := range []string{
		"<p>Crispy &lt;b&gt;classic&lt;/b&gt;</p>",
		"<strong>Serves:</strong> 2",
		"<li>2 fillets Cod</li>",
		"<li>Salt</li>",
		"<ol><li>Batter</li><li>Fry</li></ol>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected HTML to contain %q", want)
		}
	}
}

func TestDraftFromRecipe(t *testing.T) {
	d := DraftFromRecipe(recipe.Recipe{Name: "Tarte", CuisineType: recipe.CuisineFrench, ImageURL: "https://img.test/t.jpg"})
	if d.Publish {
		t.Error("Expected an unpublished draft")
	}
	if d.Title != "Tarte" || d.FeatureImage != "https://img.test/t.jpg" {
		t.Errorf("Unexpected draft %+v", d)
	}
	if len(d.Tags) != 2 || d.Tags[0] != "Recipe" || d.Tags[1] != "French" {
		t.Errorf("Unexpected tags %v", d.Tags)
	}

	plain := DraftFromRecipe(recipe.Recipe{Name: "Toast"})
	if len(plain.Tags) != 1 {
		t.Errorf("Expected only the Recipe tag, got %v", plain.Tags)
	}
}
