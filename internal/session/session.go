package session

import (
	"context"
	"fmt"
	"log"

	"ai-cookbook/internal/family"
	"ai-cookbook/internal/generator"
	"ai-cookbook/internal/profile"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/review"
	"ai-cookbook/internal/shopping"
	"ai-cookbook/internal/storage"
)

// Session is the state of one signed-in client: the stage machine, the
// profile and library, the shopping lists and one review queue per focus.
// Every mutation is written to the store before it becomes visible. A
// Session is not safe for concurrent use.
type Session struct {
	store     storage.Store
	namespace string

	profile profile.State
	lists   shopping.State
	stage   Stage
	tab     Tab
	queues  map[generator.Focus]review.Queue
}

// Open loads the session stored under namespace. Missing keys start from
// their defaults: stage Auth, tab Home, no profile and one default list.
func Open(ctx context.Context, store storage.Store, namespace string) (*Session, error) {
	s := &Session{
		store:     store,
		namespace: namespace,
		stage:     StageAuth,
		tab:       TabHome,
		queues:    make(map[generator.Focus]review.Queue),
	}

	var (
		prof     *profile.UserProfile
		library  []recipe.Recipe
		lists    []shopping.ShoppingList
		activeID string
	)
	targets := []struct {
		key string
		v   any
	}{
		{storage.KeyProfile, &prof},
		{storage.KeyRecipes, &library},
		{storage.KeyLists, &lists},
		{storage.KeyActiveListID, &activeID},
		{storage.KeyStage, &s.stage},
		{storage.KeyTab, &s.tab},
	}
	for _, t := range targets {
		if _, err := store.Load(ctx, namespace, t.key, t.v); err != nil {
			return nil, fmt.Errorf("failed to load session %s: %w", namespace, err)
		}
	}

	s.profile = profile.State{Profile: prof, Library: library}
	s.lists = shopping.State{Lists: lists, ActiveID: activeID}
	if !validStage(s.stage) {
		log.Printf("Session %s: unknown stored stage %q, starting at %s", namespace, s.stage, StageAuth)
		s.stage = StageAuth
		if err := s.save(ctx, storage.KeyStage, s.stage); err != nil {
			return nil, err
		}
	}
	if !validTab(s.tab) {
		s.tab = TabHome
	}

	if ensured := s.lists.EnsureDefault(); len(ensured.Lists) != len(s.lists.Lists) || ensured.ActiveID != s.lists.ActiveID {
		if err := s.commitLists(ctx, ensured); err != nil {
			return nil, err
		}
	}
	if guarded := s.Stage(); guarded != s.stage {
		log.Printf("Session %s: redirecting stage %s to %s", namespace, s.stage, guarded)
		if err := s.setStage(ctx, guarded); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) Namespace() string { return s.namespace }

// Stage returns the current stage. A main-app stage without a completed
// profile is reported as onboarding.
func (s *Session) Stage() Stage {
	if s.stage == StageMainApp && (s.profile.Profile == nil || !s.profile.Profile.SetupComplete) {
		return StageOnboarding
	}
	return s.stage
}

func (s *Session) Tab() Tab { return s.tab }

// Profile returns a copy of the profile, or nil when signed out.
func (s *Session) Profile() *profile.UserProfile {
	if s.profile.Profile == nil {
		return nil
	}
	p := *s.profile.Profile
	return &p
}

// ProfileState exposes the profile and library snapshot for read-only use.
func (s *Session) ProfileState() profile.State { return s.profile }

// Library returns the saved recipes in library order.
func (s *Session) Library() []recipe.Recipe { return s.profile.Library }

// Lists returns the shopping list snapshot.
func (s *Session) Lists() shopping.State { return s.lists }

// Queue returns the review queue for focus.
func (s *Session) Queue(focus generator.Focus) review.Queue { return s.queues[focus] }

func (s *Session) save(ctx context.Context, key string, v any) error {
	if err := s.store.Save(ctx, s.namespace, key, v); err != nil {
		log.Printf("Session %s: failed to persist %s: %v", s.namespace, key, err)
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (s *Session) setStage(ctx context.Context, stage Stage) error {
	if err := s.save(ctx, storage.KeyStage, stage); err != nil {
		return err
	}
	s.stage = stage
	return nil
}

func (s *Session) setTab(ctx context.Context, tab Tab) error {
	if err := s.save(ctx, storage.KeyTab, tab); err != nil {
		return err
	}
	s.tab = tab
	return nil
}

// commitProfile persists next and makes it current.
func (s *Session) commitProfile(ctx context.Context, next profile.State) error {
	if err := s.save(ctx, storage.KeyProfile, next.Profile); err != nil {
		return err
	}
	if err := s.save(ctx, storage.KeyRecipes, next.Library); err != nil {
		return err
	}
	s.profile = next
	return nil
}

// commitLists persists next and makes it current.
func (s *Session) commitLists(ctx context.Context, next shopping.State) error {
	if err := s.save(ctx, storage.KeyLists, next.Lists); err != nil {
		return err
	}
	if err := s.save(ctx, storage.KeyActiveListID, next.ActiveID); err != nil {
		return err
	}
	s.lists = next
	return nil
}

func (s *Session) requireMain() error {
	if s.Stage() != StageMainApp {
		return ErrStageNotReady
	}
	return nil
}

// Login applies an authenticated identity. A stored profile for the same
// identity resumes where it left off; otherwise a default profile is created.
func (s *Session) Login(ctx context.Context, user profile.AuthIdentity) error {
	if s.Stage() != StageAuth {
		return ErrInvalidTransition
	}

	next := s.profile
	stage := StageInitialChoice
	if next.Profile.BelongsTo(user) {
		switch {
		case next.Profile.SetupComplete:
			stage = StageMainApp
		case next.Profile.InitialChoiceMade:
			stage = StageOnboarding
		}
	} else {
		next.Profile = profile.New(user)
	}

	if err := s.commitProfile(ctx, next); err != nil {
		return err
	}
	if err := s.commitLists(ctx, s.lists.EnsureDefault()); err != nil {
		return err
	}
	if err := s.setTab(ctx, TabHome); err != nil {
		return err
	}
	return s.setStage(ctx, stage)
}

// ChooseCreate moves from the initial choice to profile onboarding.
func (s *Session) ChooseCreate(ctx context.Context) error {
	return s.choose(ctx, StageOnboarding)
}

// ChooseJoin moves from the initial choice to joining a family.
func (s *Session) ChooseJoin(ctx context.Context) error {
	return s.choose(ctx, StageJoinFamily)
}

func (s *Session) choose(ctx context.Context, to Stage) error {
	if s.Stage() != StageInitialChoice {
		return ErrInvalidTransition
	}
	if err := s.commitProfile(ctx, s.profile.MarkInitialChoice()); err != nil {
		return err
	}
	return s.setStage(ctx, to)
}

// BackToChoice leaves the join screen without joining.
func (s *Session) BackToChoice(ctx context.Context) error {
	if s.Stage() != StageJoinFamily {
		return ErrInvalidTransition
	}
	return s.setStage(ctx, StageInitialChoice)
}

// JoinFamily attaches the profile to fam and enters the main app.
func (s *Session) JoinFamily(ctx context.Context, fam family.Family) error {
	if s.Stage() != StageJoinFamily {
		return ErrInvalidTransition
	}
	if err := s.commitProfile(ctx, s.profile.JoinFamily(fam.ID, fam.Name)); err != nil {
		return err
	}
	if err := s.setTab(ctx, TabHome); err != nil {
		return err
	}
	return s.setStage(ctx, StageMainApp)
}

// SaveProfile completes onboarding, or applies an edit from the main app.
func (s *Session) SaveProfile(ctx context.Context, patch profile.Patch) error {
	if st := s.Stage(); st != StageOnboarding && st != StageMainApp {
		return ErrInvalidTransition
	}
	if err := s.commitProfile(ctx, s.profile.SaveProfile(patch)); err != nil {
		return err
	}
	if err := s.setTab(ctx, TabHome); err != nil {
		return err
	}
	return s.setStage(ctx, StageMainApp)
}

// Logout drops the profile, the library and every shopping list, and
// returns to Auth. It is the only operation that deletes stored data.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx, s.namespace); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.profile = profile.State{}
	s.lists = shopping.State{}
	s.queues = make(map[generator.Focus]review.Queue)
	s.stage = StageAuth
	s.tab = TabHome

	if err := s.save(ctx, storage.KeyStage, s.stage); err != nil {
		return err
	}
	return s.save(ctx, storage.KeyTab, s.tab)
}

// SetTab switches the main-app section.
func (s *Session) SetTab(ctx context.Context, tab Tab) error {
	if err := s.requireMain(); err != nil {
		return err
	}
	if !validTab(tab) {
		return fmt.Errorf("unknown tab %q", tab)
	}
	return s.setTab(ctx, tab)
}
