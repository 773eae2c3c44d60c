package session

import (
	"context"
	"log"

	"ai-cookbook/internal/family"
	"ai-cookbook/internal/generator"
	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/review"
)

// RecipeSource produces recipe batches.
type RecipeSource interface {
	Generate(ctx context.Context, req generator.Request) (generator.Result, error)
}

func (s *Session) updateProfile(ctx context.Context, op func(profile.State) profile.State) error {
	if err := s.requireMain(); err != nil {
		return err
	}
	return s.commitProfile(ctx, op(s.profile))
}

func (s *Session) AddOrUpdateRecipe(ctx context.Context, r recipe.Recipe) error {
	return s.updateProfile(ctx, func(st profile.State) profile.State { return st.AddOrUpdateRecipe(r) })
}

func (s *Session) ToggleFavorite(ctx context.Context, id string) error {
	return s.updateProfile(ctx, func(st profile.State) profile.State { return st.ToggleFavorite(id) })
}

// DeleteRecipe removes a library recipe together with its dislike and
// weekly-plan references. Callers confirm with the user first.
func (s *Session) DeleteRecipe(ctx context.Context, id string) error {
	return s.updateProfile(ctx, func(st profile.State) profile.State { return st.DeleteRecipe(id) })
}

func (s *Session) DislikeRecipe(ctx context.Context, r recipe.Recipe) error {
	return s.updateProfile(ctx, func(st profile.State) profile.State { return st.DislikeRecipe(r) })
}

func (s *Session) UndislikeRecipe(ctx context.Context, id string) error {
	return s.updateProfile(ctx, func(st profile.State) profile.State { return st.UndislikeRecipe(id) })
}

func (s *Session) SetWeeklyPlan(ctx context.Context, ids []string) error {
	return s.updateProfile(ctx, func(st profile.State) profile.State { return st.SetWeeklyPlan(ids) })
}

// SetGenerationPreferences stores party size and budget. numPeople must
// already be validated.
func (s *Session) SetGenerationPreferences(ctx context.Context, numPeople int, budget string) error {
	return s.updateProfile(ctx, func(st profile.State) profile.State {
		return st.SetGenerationPreferences(numPeople, budget)
	})
}

// Generate remembers the parameters, requests a batch from src and loads
// it into the focus queue. On failure the queue is emptied and keeps the
// error for display; the error is also returned.
func (s *Session) Generate(ctx context.Context, src RecipeSource, focus generator.Focus, numPeople int, budget string, count int) (generator.Result, error) {
	if err := s.SetGenerationPreferences(ctx, numPeople, budget); err != nil {
		return generator.Result{}, err
	}

	res, err := src.Generate(ctx, generator.Request{
		Profile:   *s.profile.Profile,
		NumPeople: numPeople,
		Budget:    budget,
		Count:     count,
		Focus:     focus,
	})
	if err != nil {
		log.Printf("Session %s: %s generation failed: %v", s.namespace, focus, err)
		s.queues[focus] = s.queues[focus].Fail(err)
		return res, err
	}

	s.queues[focus] = s.queues[focus].Begin(res.Recipes)
	return res, nil
}

// sink routes review decisions into the session with a fixed context.
type sink struct {
	ctx context.Context
	s   *Session
}

func (k sink) AddOrUpdateRecipe(r recipe.Recipe) error { return k.s.AddOrUpdateRecipe(k.ctx, r) }
func (k sink) DislikeRecipe(r recipe.Recipe) error     { return k.s.DislikeRecipe(k.ctx, r) }

// Accept saves the current candidate of the focus queue as a favourite.
// It returns the decided recipe, or false when the queue has none.
func (s *Session) Accept(ctx context.Context, focus generator.Focus) (recipe.Recipe, bool, error) {
	r, ok, err := s.decide(ctx, focus, review.Queue.Accept)
	if ok {
		r.IsFavorite = true
	}
	return r, ok, err
}

// Reject adds the current candidate of the focus queue to the dislikes.
func (s *Session) Reject(ctx context.Context, focus generator.Focus) (recipe.Recipe, bool, error) {
	return s.decide(ctx, focus, review.Queue.Reject)
}

func (s *Session) decide(ctx context.Context, focus generator.Focus, op func(review.Queue, review.Sink) (review.Queue, error)) (recipe.Recipe, bool, error) {
	if err := s.requireMain(); err != nil {
		return recipe.Recipe{}, false, err
	}
	q := s.queues[focus]
	current, ok := q.Current()
	if !ok {
		return recipe.Recipe{}, false, nil
	}
	next, err := op(q, sink{ctx: ctx, s: s})
	if err != nil {
		return recipe.Recipe{}, false, err
	}
	s.queues[focus] = next
	return current, true, nil
}

// ResetQueue discards the focus queue, e.g. to start over.
func (s *Session) ResetQueue(focus generator.Focus) {
	s.queues[focus] = s.queues[focus].Reset()
}

// SetFamily attaches the profile to fam from within the main app, e.g.
// when the user creates a family to invite others.
func (s *Session) SetFamily(ctx context.Context, fam family.Family) error {
	return s.updateProfile(ctx, func(st profile.State) profile.State { return st.JoinFamily(fam.ID, fam.Name) })
}
