package session

import (
	"context"

	"ai-cookbook/internal/shopping"
)

// updateLists runs a shopping operation in the main app and persists the result.
func (s *Session) updateLists(ctx context.Context, op func(shopping.State) shopping.State) error {
	if err := s.requireMain(); err != nil {
		return err
	}
	return s.commitLists(ctx, op(s.lists))
}

// CreateList adds a list, makes it active and returns its id.
func (s *Session) CreateList(ctx context.Context, name, icon string) (string, error) {
	if err := s.requireMain(); err != nil {
		return "", err
	}
	next, id := s.lists.CreateList(name, icon)
	if err := s.commitLists(ctx, next); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Session) SetActiveList(ctx context.Context, id string) error {
	return s.updateLists(ctx, func(st shopping.State) shopping.State { return st.SetActiveList(id) })
}

func (s *Session) RenameList(ctx context.Context, id, name string) error {
	return s.updateLists(ctx, func(st shopping.State) shopping.State { return st.RenameList(id, name) })
}

// DeleteList removes a list; callers confirm with the user first. Deleting
// the last list recreates the default one, so the collection is only ever
// empty after logout.
func (s *Session) DeleteList(ctx context.Context, id string) error {
	return s.updateLists(ctx, func(st shopping.State) shopping.State { return st.DeleteList(id).EnsureDefault() })
}

func (s *Session) ReplaceItems(ctx context.Context, listID string, items []shopping.PantryItem) error {
	return s.updateLists(ctx, func(st shopping.State) shopping.State { return st.ReplaceItems(listID, items) })
}

func (s *Session) MergeItems(ctx context.Context, listID string, items []shopping.PantryItem) error {
	return s.updateLists(ctx, func(st shopping.State) shopping.State { return st.MergeItems(listID, items) })
}

func (s *Session) AddItem(ctx context.Context, listID, name, quantity string) error {
	return s.updateLists(ctx, func(st shopping.State) shopping.State { return st.AddItem(listID, name, quantity) })
}

func (s *Session) RemoveItems(ctx context.Context, listID string, ids []string) error {
	return s.updateLists(ctx, func(st shopping.State) shopping.State { return st.RemoveItems(listID, ids) })
}

func (s *Session) ClearItems(ctx context.Context, listID string) error {
	return s.updateLists(ctx, func(st shopping.State) shopping.State { return st.ClearItems(listID) })
}

// MergeIntoActive merges items into the active list. It returns
// shopping.ErrNoActiveList when no list is selected.
func (s *Session) MergeIntoActive(ctx context.Context, items []shopping.PantryItem) error {
	if err := s.requireMain(); err != nil {
		return err
	}
	next, err := s.lists.MergeIntoActive(items)
	if err != nil {
		return err
	}
	return s.commitLists(ctx, next)
}

// AddRecipeToActiveList pushes a library recipe's ingredients into the
// active list. Unknown recipe ids are ignored.
func (s *Session) AddRecipeToActiveList(ctx context.Context, recipeID string) error {
	if err := s.requireMain(); err != nil {
		return err
	}
	r, ok := s.profile.Recipe(recipeID)
	if !ok {
		return nil
	}
	return s.MergeIntoActive(ctx, shopping.ItemsFromRecipe(r))
}

// AddWeeklyPlanToActiveList pushes every planned recipe's ingredients into
// the active list, grouped under the recipe's name.
func (s *Session) AddWeeklyPlanToActiveList(ctx context.Context) error {
	if err := s.requireMain(); err != nil {
		return err
	}
	items := shopping.ItemsFromPlan(s.profile.WeeklyPlanRecipes())
	if len(items) == 0 {
		return nil
	}
	return s.MergeIntoActive(ctx, items)
}
