package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-cookbook/internal/database"
	"ai-cookbook/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Now().UTC()
	require.NoError(t, s.Record(ctx, ExecutionMetric{AgentName: "RecipeGenerator", Model: "m", PromptTokens: 10, CompletionTokens: 20, Timestamp: now}))
	require.NoError(t, s.Record(ctx, ExecutionMetric{AgentName: "RecipeGenerator", Model: "m", PromptTokens: 5, CompletionTokens: 5, Timestamp: now}))
	require.NoError(t, s.Record(ctx, ExecutionMetric{AgentName: "RecipeClipper", Model: "m", PromptTokens: 1, CompletionTokens: 1, Timestamp: now.AddDate(0, 0, -40)}))

	t.Run("DailyUsage", func(t *testing.T) {
		usage, err := s.GetDailyUsage(ctx, 7)
		require.NoError(t, err)
		require.Len(t, usage, 1)
		assert.Equal(t, now.Format("2006-01-02"), usage[0].Date)
		assert.Equal(t, 15, usage[0].TotalPrompt)
		assert.Equal(t, 25, usage[0].TotalCompletion)
		assert.Equal(t, 2, usage[0].TotalExecution)
	})

	t.Run("RecordMetaSkipsEmptyUsage", func(t *testing.T) {
		require.NoError(t, s.RecordMeta(ctx, shared.AgentMeta{AgentName: "RecipeGenerator"}))
		usage, err := s.GetDailyUsage(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 2, usage[0].TotalExecution)
	})

	t.Run("Cleanup", func(t *testing.T) {
		n, err := s.Cleanup(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = s.Cleanup(ctx, 30)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestMapUsage(t *testing.T) {
	m := MapUsage("RecipeGenerator", shared.TokenUsage{PromptTokens: 3, CompletionTokens: 4, Model: "gemini"}, 1500*time.Millisecond)
	assert.Equal(t, "gemini", m.Model)
	assert.Equal(t, int64(1500), m.LatencyMS)
	assert.False(t, m.Timestamp.IsZero())
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), make([]byte, 2048), 0644))

	h := GetSysHealth(dir)
	assert.Equal(t, "2.0 kB", h.DataDiskSize)
	assert.Positive(t, h.Goroutines)
	assert.NotEmpty(t, h.Alloc)
}

func TestHandler(t *testing.T) {
	ObserveGeneration("Meal", 0.5, nil)
	ObserveGeneration("Dessert", 0.1, errors.New("quota"))
	ObserveDecision("accept")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`cookbook_generations_total{focus="Meal",outcome="ok"}`,
		`cookbook_generations_total{focus="Dessert",outcome="error"}`,
		`cookbook_review_decisions_total{decision="accept"}`,
	} {
		assert.True(t, strings.Contains(body, want), want)
	}
}
