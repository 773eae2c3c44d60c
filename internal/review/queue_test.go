package review

import (
	"errors"
	"fmt"
	"testing"

	"ai-cookbook/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSink struct {
	saved    []recipe.Recipe
	disliked []recipe.Recipe
	err      error
}

func (m *mockSink) AddOrUpdateRecipe(r recipe.Recipe) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r)
	return nil
}

func (m *mockSink) DislikeRecipe(r recipe.Recipe) error {
	if m.err != nil {
		return m.err
	}
	m.disliked = append(m.disliked, r)
	return nil
}

func batchOf(n int) []recipe.Recipe {
	batch := make([]recipe.Recipe, n)
	for i := range batch {
		batch[i] = recipe.Recipe{ID: fmt.Sprintf("r%d", i+1), Name: fmt.Sprintf("Recipe %d", i+1)}
	}
	return batch
}

func TestQueue(t *testing.T) {
	t.Run("RejectFourAcceptLast", func(t *testing.T) {
		sink := &mockSink{}
		q := Queue{}.Begin(batchOf(5))

		var err error
		for i := 0; i < 4; i++ {
			q, err = q.Reject(sink)
			require.NoError(t, err)
		}
		q, err = q.Accept(sink)
		require.NoError(t, err)

		require.Len(t, sink.saved, 1)
		assert.Equal(t, "r5", sink.saved[0].ID)
		assert.True(t, sink.saved[0].IsFavorite)
		assert.Len(t, sink.disliked, 4)
		assert.True(t, q.Exhausted())
	})

	t.Run("ExhaustionAfterNDecisions", func(t *testing.T) {
		for n := 1; n <= 7; n++ {
			sink := &mockSink{}
			q := Queue{}.Begin(batchOf(n))
			for i := 0; i < n; i++ {
				pos, total := q.Position()
				assert.Equal(t, i, pos)
				assert.Equal(t, n, total)
				cur, ok := q.Current()
				require.True(t, ok)
				assert.Equal(t, fmt.Sprintf("r%d", i+1), cur.ID)
				if i%2 == 0 {
					q, _ = q.Accept(sink)
				} else {
					q, _ = q.Reject(sink)
				}
			}
			_, ok := q.Current()
			assert.False(t, ok)
			assert.True(t, q.Exhausted())
		}
	})

	t.Run("DecisionOnExhaustedQueueIsNoop", func(t *testing.T) {
		sink := &mockSink{}
		q := Queue{}.Begin(batchOf(1))
		q, _ = q.Accept(sink)
		q, err := q.Reject(sink)
		require.NoError(t, err)
		assert.Empty(t, sink.disliked)
		pos, _ := q.Position()
		assert.Equal(t, 1, pos)
	})

	t.Run("SinkErrorKeepsCursor", func(t *testing.T) {
		sink := &mockSink{err: errors.New("disk full")}
		q := Queue{}.Begin(batchOf(2))
		q, err := q.Accept(sink)
		require.Error(t, err)
		pos, _ := q.Position()
		assert.Equal(t, 0, pos)
	})

	t.Run("EmptyBatchIsError", func(t *testing.T) {
		q := Queue{}.Begin(nil)
		assert.ErrorIs(t, q.Err(), ErrEmptyBatch)
		assert.False(t, q.Exhausted())
		_, ok := q.Current()
		assert.False(t, ok)
	})

	t.Run("FailEmptiesQueue", func(t *testing.T) {
		q := Queue{}.Begin(batchOf(3)).Fail(errors.New("quota"))
		_, total := q.Position()
		assert.Zero(t, total)
		assert.EqualError(t, q.Err(), "quota")
	})

	t.Run("NewBatchRewinds", func(t *testing.T) {
		sink := &mockSink{}
		q := Queue{}.Begin(batchOf(3))
		q, _ = q.Accept(sink)
		q = q.Begin(batchOf(2))
		pos, total := q.Position()
		assert.Equal(t, 0, pos)
		assert.Equal(t, 2, total)
		assert.NoError(t, q.Err())
	})

	t.Run("BeginCopiesBatch", func(t *testing.T) {
		batch := batchOf(1)
		q := Queue{}.Begin(batch)
		batch[0].Name = "changed"
		cur, _ := q.Current()
		assert.Equal(t, "Recipe 1", cur.Name)
	})
}
