package ghost

import (
	"fmt"
	"html"
	"strings"

	"ai-cookbook/internal/recipe"
)

// RecipeHTML renders a library recipe as the body of a blog post. The
// image is sent separately as the feature image.
func RecipeHTML(r recipe.Recipe) string {
	var sb strings.Builder

	if r.Description != "" {
		fmt.Fprintf(&sb, "<p>%s</p>", html.EscapeString(r.Description))
	}
	fmt.Fprintf(&sb, "<p><strong>Serves:</strong> %d | <strong>Prep:</strong> %s | <strong>Cook:</strong> %s</p>",
		r.Servings, html.EscapeString(r.PrepTime), html.EscapeString(r.CookTime))

	sb.WriteString("<h2>Ingredients</h2><ul>")
	for _, ing := range r.Ingredients {
		line := strings.TrimSpace(strings.Join([]string{ing.Quantity, ing.Unit, ing.Name}, " "))
		fmt.Fprintf(&sb, "<li>%s</li>", html.EscapeString(line))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h2>Instructions</h2><ol>")
	for _, step := range r.Instructions {
		fmt.Fprintf(&sb, "<li>%s</li>", html.EscapeString(step))
	}
	sb.WriteString("</ol>")

	if len(r.EquipmentNeeded) > 0 {
		fmt.Fprintf(&sb, "<p><strong>Equipment:</strong> %s</p>", html.EscapeString(strings.Join(r.EquipmentNeeded, ", ")))
	}
	if r.Notes != "" {
		fmt.Fprintf(&sb, "<hr><p><i>%s</i></p>", html.EscapeString(r.Notes))
	}
	return sb.String()
}
