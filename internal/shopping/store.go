package shopping

import (
	"errors"
	"strings"
	"time"

	"ai-cookbook/internal/recipe"

	"github.com/google/uuid"
)

// ErrNoActiveList is returned when items are pushed with no list selected.
var ErrNoActiveList = errors.New("no active shopping list selected")

var now = time.Now

func newListID() string { return "list-" + uuid.NewString() }
func newItemID() string { return "item-" + uuid.NewString() }

// Find returns the list with the given id.
func (s State) Find(id string) (ShoppingList, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Lists[i], true
	}
	return ShoppingList{}, false
}

// Active returns the list the active pointer references.
func (s State) Active() (ShoppingList, bool) {
	if s.ActiveID == "" {
		return ShoppingList{}, false
	}
	return s.Find(s.ActiveID)
}

// EnsureDefault creates the default list when the collection is empty and
// repairs an active pointer that does not resolve to a list.
func (s State) EnsureDefault() State {
	if len(s.Lists) == 0 {
		s.Lists = []ShoppingList{{
			ID:        "default-" + uuid.NewString(),
			Name:      DefaultListName,
			Items:     []PantryItem{},
			CreatedAt: now(),
			Icon:      DefaultListIcon,
		}}
		s.ActiveID = s.Lists[0].ID
		return s
	}
	if _, ok := s.Active(); !ok {
		s.ActiveID = s.Lists[0].ID
	}
	return s
}

// CreateList appends a new list and makes it active. An empty name falls
// back to UntitledList and an empty icon to NewListIcon.
func (s State) CreateList(name, icon string) (State, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = UntitledList
	}
	if icon == "" {
		icon = NewListIcon
	}

	list := ShoppingList{
		ID:        newListID(),
		Name:      name,
		Items:     []PantryItem{},
		CreatedAt: now(),
		Icon:      icon,
	}

	lists := make([]ShoppingList, 0, len(s.Lists)+1)
	lists = append(lists, s.Lists...)
	lists = append(lists, list)
	return State{Lists: lists, ActiveID: list.ID}, list.ID
}

// SetActiveList points the active pointer at id. Unknown ids are ignored.
func (s State) SetActiveList(id string) State {
	if s.indexOf(id) < 0 {
		return s
	}
	s.ActiveID = id
	return s
}

// RenameList ignores unknown ids and names that trim to empty.
func (s State) RenameList(id, name string) State {
	name = strings.TrimSpace(name)
	i := s.indexOf(id)
	if i < 0 || name == "" {
		return s
	}
	return s.withList(i, func(l *ShoppingList) { l.Name = name })
}

// DeleteList removes the list. Confirmation is the caller's job. When the
// active list goes, the pointer moves to the earliest remaining list, or is
// cleared if none remain.
func (s State) DeleteList(id string) State {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}

	lists := make([]ShoppingList, 0, len(s.Lists)-1)
	lists = append(lists, s.Lists[:i]...)
	lists = append(lists, s.Lists[i+1:]...)

	next := State{Lists: lists, ActiveID: s.ActiveID}
	if s.ActiveID == id {
		next.ActiveID = ""
		if len(lists) > 0 {
			next.ActiveID = lists[0].ID
		}
	}
	return next
}

// ReplaceItems swaps a list's items wholesale.
func (s State) ReplaceItems(listID string, items []PantryItem) State {
	i := s.indexOf(listID)
	if i < 0 {
		return s
	}
	replaced := make([]PantryItem, len(items))
	copy(replaced, items)
	return s.withList(i, func(l *ShoppingList) { l.Items = replaced })
}

// MergeItems appends each candidate whose name does not already appear in
// the list, compared case-insensitively. The first occurrence wins, so an
// existing item keeps its quantity and category. Appended items get an id
// and, when they have none, a category.
func (s State) MergeItems(listID string, items []PantryItem) State {
	i := s.indexOf(listID)
	if i < 0 {
		return s
	}

	merged := make([]PantryItem, len(s.Lists[i].Items), len(s.Lists[i].Items)+len(items))
	copy(merged, s.Lists[i].Items)

	for _, item := range items {
		if containsName(merged, item.Name) {
			continue
		}
		if item.ID == "" {
			item.ID = newItemID()
		}
		if item.Category == "" {
			item.Category = Classify(item.Name)
		}
		merged = append(merged, item)
	}
	return s.withList(i, func(l *ShoppingList) { l.Items = merged })
}

// MergeIntoActive merges items into the active list.
func (s State) MergeIntoActive(items []PantryItem) (State, error) {
	active, ok := s.Active()
	if !ok {
		return s, ErrNoActiveList
	}
	return s.MergeItems(active.ID, items), nil
}

// AddItem merges one manually entered item. Quantity defaults to DefaultQuantity.
func (s State) AddItem(listID, name, quantity string) State {
	name = strings.TrimSpace(name)
	if name == "" {
		return s
	}
	quantity = strings.TrimSpace(quantity)
	if quantity == "" {
		quantity = DefaultQuantity
	}
	return s.MergeItems(listID, []PantryItem{{Name: name, Quantity: quantity}})
}

// RemoveItems drops the items with the given ids, e.g. the checked-off ones.
func (s State) RemoveItems(listID string, ids []string) State {
	i := s.indexOf(listID)
	if i < 0 || len(ids) == 0 {
		return s
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := make([]PantryItem, 0, len(s.Lists[i].Items))
	for _, item := range s.Lists[i].Items {
		if _, ok := drop[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	return s.withList(i, func(l *ShoppingList) { l.Items = kept })
}

// ClearItems empties a list.
func (s State) ClearItems(listID string) State {
	return s.ReplaceItems(listID, nil)
}

// GroupByCategory buckets a list's items in canonical category order.
// Categories outside the fixed set follow in first-seen order; empty
// buckets are omitted.
func GroupByCategory(list ShoppingList) []CategoryGroup {
	buckets := make(map[string][]PantryItem)
	var extra []string
	for _, item := range list.Items {
		cat := item.Category
		if cat == "" {
			cat = CategoryOther
		}
		if _, seen := buckets[cat]; !seen && !IsCategory(cat) {
			extra = append(extra, cat)
		}
		buckets[cat] = append(buckets[cat], item)
	}

	var groups []CategoryGroup
	for _, cat := range append(append([]string{}, Categories...), extra...) {
		if items := buckets[cat]; len(items) > 0 {
			groups = append(groups, CategoryGroup{Category: cat, Items: items})
		}
	}
	return groups
}

// ItemsFromRecipe turns a recipe's ingredients into classified pantry items.
func ItemsFromRecipe(r recipe.Recipe) []PantryItem {
	items := make([]PantryItem, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		items = append(items, PantryItem{
			Name:     ing.Name,
			Quantity: strings.TrimSpace(ing.Quantity + " " + ing.Unit),
			Category: Classify(ing.Name),
		})
	}
	return items
}

// ItemsFromPlan turns a weekly plan into classified pantry items tagged
// with the name of the recipe they came from.
func ItemsFromPlan(recipes []recipe.Recipe) []PantryItem {
	var items []PantryItem
	for _, r := range recipes {
		for _, item := range ItemsFromRecipe(r) {
			item.Recipe = r.Name
			items = append(items, item)
		}
	}
	return items
}

func (s State) indexOf(id string) int {
	for i, l := range s.Lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// withList returns a copy of s where list i has been passed through fn.
func (s State) withList(i int, fn func(*ShoppingList)) State {
	lists := make([]ShoppingList, len(s.Lists))
	copy(lists, s.Lists)
	l := lists[i]
	fn(&l)
	lists[i] = l
	return State{Lists: lists, ActiveID: s.ActiveID}
}

func containsName(items []PantryItem, name string) bool {
	name = strings.TrimSpace(name)
	for _, it := range items {
		if strings.EqualFold(strings.TrimSpace(it.Name), name) {
			return true
		}
	}
	return false
}
