package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ai-cookbook/internal/clipper"
	"ai-cookbook/internal/config"
	"ai-cookbook/internal/family"
	"ai-cookbook/internal/generator"
	"ai-cookbook/internal/ghost"
	"ai-cookbook/internal/llm"
	"ai-cookbook/internal/metrics"
	"ai-cookbook/internal/recipe"
	"ai-cookbook/internal/session"
	"ai-cookbook/internal/shared"
	"ai-cookbook/internal/storage"
)

// InviteTTL is how long a family invite code stays valid.
const InviteTTL = 7 * 24 * time.Hour

var (
	// ErrRecipeNotFound is returned when an id is not in the library.
	ErrRecipeNotFound = errors.New("recipe not found in library")
	// ErrPublishingDisabled is returned when no Ghost blog is configured.
	ErrPublishingDisabled = errors.New("publishing is not configured")
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	store        storage.Store
	generator    *generator.Generator
	clipper      *clipper.Clipper
	ghostClient  ghost.Client
	metricsStore *metrics.Store
}

// NewApp creates and initializes a new App instance. textGen, ghostClient
// and metricsStore may be nil; the features that need them then report
// an error or are skipped.
func NewApp(
	cfg *config.Config,
	store storage.Store,
	textGen llm.TextGenerator,
	ghostClient ghost.Client,
	metricsStore *metrics.Store,
) *App {
	return &App{
		cfg:          cfg,
		store:        store,
		generator:    generator.New(textGen),
		clipper:      clipper.NewClipper(textGen),
		ghostClient:  ghostClient,
		metricsStore: metricsStore,
	}
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Metrics returns the metrics store, or nil.
func (a *App) Metrics() *metrics.Store { return a.metricsStore }

// OpenSession loads the session stored under namespace.
func (a *App) OpenSession(ctx context.Context, namespace string) (*session.Session, error) {
	return session.Open(ctx, a.store, namespace)
}

// Generate fills the focus review queue of sess with a fresh batch.
func (a *App) Generate(ctx context.Context, sess *session.Session, focus generator.Focus, numPeople int, budget string) (generator.Result, error) {
	start := time.Now()
	res, err := sess.Generate(ctx, a.generator, focus, numPeople, budget, a.cfg.RecipesPerBatch)
	if errors.Is(err, session.ErrStageNotReady) {
		return res, err
	}

	metrics.ObserveGeneration(string(focus), time.Since(start).Seconds(), err)
	a.record(ctx, res.Meta)
	return res, err
}

// Accept saves the current candidate of the focus queue.
func (a *App) Accept(ctx context.Context, sess *session.Session, focus generator.Focus) (recipe.Recipe, bool, error) {
	r, ok, err := sess.Accept(ctx, focus)
	if ok && err == nil {
		metrics.ObserveDecision("accept")
	}
	return r, ok, err
}

// Reject dislikes the current candidate of the focus queue.
func (a *App) Reject(ctx context.Context, sess *session.Session, focus generator.Focus) (recipe.Recipe, bool, error) {
	r, ok, err := sess.Reject(ctx, focus)
	if ok && err == nil {
		metrics.ObserveDecision("reject")
	}
	return r, ok, err
}

// ImportRecipe clips the recipe at url into the library of sess.
func (a *App) ImportRecipe(ctx context.Context, sess *session.Session, url string) (recipe.Recipe, error) {
	r, meta, err := a.clipper.ImportURL(ctx, url)
	a.record(ctx, meta)
	if err != nil {
		return recipe.Recipe{}, err
	}
	if err := sess.AddOrUpdateRecipe(ctx, r); err != nil {
		return recipe.Recipe{}, err
	}
	log.Printf("Session %s: imported '%s' from %s", sess.Namespace(), r.Name, url)
	return r, nil
}

// PublishRecipe posts a library recipe to the configured Ghost blog as a draft.
func (a *App) PublishRecipe(ctx context.Context, sess *session.Session, id string) (*ghost.Post, error) {
	if a.ghostClient == nil {
		return nil, ErrPublishingDisabled
	}
	r, ok := sess.ProfileState().Recipe(id)
	if !ok {
		return nil, ErrRecipeNotFound
	}

	post, err := a.ghostClient.CreatePost(ctx, ghost.DraftFromRecipe(r))
	if err != nil {
		return nil, fmt.Errorf("failed to publish recipe: %w", err)
	}
	return post, nil
}

// Invite returns a signed invite code for the family of sess, creating a
// family first when the profile has none.
func (a *App) Invite(ctx context.Context, sess *session.Session) (string, error) {
	p := sess.Profile()
	if p == nil {
		return "", session.ErrStageNotReady
	}

	fam := family.Family{ID: p.FamilyID, Name: p.FamilyName}
	if fam.ID == "" {
		fam = family.NewFamily(p.Name + "'s family")
		if err := sess.SetFamily(ctx, fam); err != nil {
			return "", err
		}
	}
	return family.NewInvite(a.cfg.FamilyInviteSecret, fam, InviteTTL)
}

// RedeemInvite joins sess to the family named by code.
func (a *App) RedeemInvite(ctx context.Context, sess *session.Session, code string) (family.Family, error) {
	fam, err := family.Redeem(a.cfg.FamilyInviteSecret, code)
	if err != nil {
		return family.Family{}, err
	}
	return fam, sess.JoinFamily(ctx, fam)
}

func (a *App) record(ctx context.Context, meta shared.AgentMeta) {
	if a.metricsStore == nil {
		return
	}
	if err := a.metricsStore.RecordMeta(ctx, meta); err != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, err)
	}
}
