package shopping

import "time"

const (
	DefaultListName = "Home Grocery"
	DefaultListIcon = "🏠"
	UntitledList    = "Untitled List"
	NewListIcon     = "🛒"
	DefaultQuantity = "1 item"
)

// PantryItem is one line of a shopping list.
type PantryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
	// Recipe names the planned recipe the item was added for, if any.
	Recipe string `json:"recipe,omitempty"`
}

// ShoppingList is a named, ordered collection of items.
type ShoppingList struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Items     []PantryItem `json:"items"`
	CreatedAt time.Time    `json:"createdAt"`
	Icon      string       `json:"icon,omitempty"`
}

// CategoryGroup is a display bucket produced by GroupByCategory.
type CategoryGroup struct {
	Category string
	Items    []PantryItem
}

// State is the whole list collection plus the active-list pointer.
// Lists are kept in creation order. Methods never modify the receiver;
// they return the next state.
type State struct {
	Lists    []ShoppingList `json:"lists"`
	ActiveID string         `json:"activeId"`
}
