package telegram

import (
	"fmt"
	"strings"

	"ai-cookbook/internal/metrics"
	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// formatRecipeCard renders a review candidate. pos is zero based.
func formatRecipeCard(r recipe.Recipe, pos, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽 *%s* (%d/%d)\n", esc(r.Name), pos+1, total)
	if r.CuisineType != "" {
		fmt.Fprintf(&sb, "_%s_\n", esc(string(r.CuisineType)))
	}
	fmt.Fprintf(&sb, "\n%s\n\n", esc(r.Description))
	fmt.Fprintf(&sb, "👥 %d | ⏱ Prep %s | 🔥 Cook %s\n\n", r.Servings, esc(r.PrepTime), esc(r.CookTime))

	sb.WriteString("*Ingredients*\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&sb, "• %s\n", esc(ingredientLine(ing)))
	}

	sb.WriteString("\n*Instructions*\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, esc(step))
	}
	if len(r.EquipmentNeeded) > 0 {
		fmt.Fprintf(&sb, "\n🔧 %s\n", esc(strings.Join(r.EquipmentNeeded, ", ")))
	}
	return sb.String()
}

func ingredientLine(ing recipe.Ingredient) string {
	return strings.TrimSpace(strings.Join([]string{ing.Quantity, ing.Unit, ing.Name}, " "))
}

func formatRecipeList(title string, recipes []recipe.Recipe, empty string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", title)
	if len(recipes) == 0 {
		fmt.Fprintf(&sb, "_%s_\n", empty)
		return sb.String()
	}
	for _, r := range recipes {
		star := ""
		if r.IsFavorite {
			star = " ⭐"
		}
		fmt.Fprintf(&sb, "• *%s*%s\n  `%s`\n", esc(r.Name), star, r.ID)
	}
	return sb.String()
}

func formatLists(st shopping.State) string {
	var sb strings.Builder
	sb.WriteString("🗂 *Shopping Lists*\n\n")
	if len(st.Lists) == 0 {
		sb.WriteString("_No lists yet. Create one with /newlist <name>_\n")
		return sb.String()
	}
	for i, l := range st.Lists {
		marker := ""
		if l.ID == st.ActiveID {
			marker = " ✅"
		}
		fmt.Fprintf(&sb, "%d. %s %s (%d items)%s\n", i+1, l.Icon, esc(l.Name), len(l.Items), marker)
	}
	return sb.String()
}

// formatShoppingList renders a list grouped by category in canonical order.
func formatShoppingList(list shopping.ShoppingList) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s*\n", list.Icon, esc(list.Name))
	groups := shopping.GroupByCategory(list)
	if len(groups) == 0 {
		sb.WriteString("\n_This list is empty. Add items with /add <item>, <qty>_\n")
		return sb.String()
	}
	for _, g := range groups {
		fmt.Fprintf(&sb, "\n*%s*\n", esc(g.Category))
		for _, it := range g.Items {
			fmt.Fprintf(&sb, "• %s: %s", esc(it.Name), esc(it.Quantity))
			if it.Recipe != "" {
				fmt.Fprintf(&sb, " (for %s)", esc(it.Recipe))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatProfile(p *profile.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("👤 *Your Profile*\n\n")
	fmt.Fprintf(&sb, "• Name: %s\n", esc(p.Name))
	fmt.Fprintf(&sb, "• Diet: %s\n", esc(joinOrNone(p.DietaryRequirements)))
	fmt.Fprintf(&sb, "• Allergies: %s\n", esc(joinOrNone(p.Allergies)))
	fmt.Fprintf(&sb, "• Cuisines: %s\n", esc(joinOrNone(p.CuisinePreferences)))
	fmt.Fprintf(&sb, "• Avoid: %s\n", esc(joinOrNone(p.DislikedCuisines)))
	fmt.Fprintf(&sb, "• Skill: %s\n", esc(string(p.SkillLevel)))
	fmt.Fprintf(&sb, "• Equipment: %s\n", esc(joinOrNone(p.KitchenEquipment)))
	if p.FamilyName != "" {
		fmt.Fprintf(&sb, "• Family: %s\n", esc(p.FamilyName))
	}
	return sb.String()
}

func joinOrNone[T ~string](items []T) string {
	if len(items) == 0 {
		return "None"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ", ")
}

func formatUsageReport(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %s (Alloc) / %s (Sys)\n", health.Alloc, health.Sys)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", health.DataDiskSize)
	return sb.String()
}

const helpText = `📖 *Commands*

*Recipes*
/generate <people> <budget> - new meal ideas (both optional)
/desserts <people> <budget> - new dessert ideas
/library <search> - browse saved recipes
/favorites - favourite recipes
/fav <id> - toggle favourite
/delete <id> - remove from library
/disliked - rejected recipes
/undislike <id> - forget a rejection
/import <url> - clip a recipe from the web
/publish <id> - post a recipe to the blog

*Shopping*
/lists - all lists
/newlist <name> - create and use a list
/use <n> - switch list
/rename <n> <name> - rename a list
/droplist <n> - delete a list
/list - show the active list
/add <item>, <qty> - add an item
/clear - empty the active list
/shop <id> - add a recipe's ingredients
/plan <id> <id> ... - set weekly picks
/planshop - add weekly picks to the list

*Account*
/profile key=value; ... - show or edit your profile
/invite - family invite code
/logout - sign out and delete your data`
