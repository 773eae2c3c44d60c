package review

import (
	"errors"

	"ai-cookbook/internal/recipe"
)

// ErrEmptyBatch is recorded when a generation yields no candidates.
var ErrEmptyBatch = errors.New("no recipes were generated")

// Sink receives the outcome of each review decision.
type Sink interface {
	AddOrUpdateRecipe(r recipe.Recipe) error
	DislikeRecipe(r recipe.Recipe) error
}

// Queue walks a generated batch one candidate at a time, in generation
// order. The zero value is an empty queue.
type Queue struct {
	batch  []recipe.Recipe
	cursor int
	err    error
}

// Begin replaces the queue with a fresh batch and rewinds the cursor.
// An empty batch leaves the queue in an error state.
func (q Queue) Begin(batch []recipe.Recipe) Queue {
	if len(batch) == 0 {
		return q.Fail(ErrEmptyBatch)
	}
	return Queue{batch: append([]recipe.Recipe{}, batch...)}
}

// Fail empties the queue and records err for display.
func (q Queue) Fail(err error) Queue {
	return Queue{err: err}
}

// Reset empties the queue and clears any error.
func (q Queue) Reset() Queue {
	return Queue{}
}

// Err is the error from the last failed generation, if any.
func (q Queue) Err() error {
	return q.err
}

// Current returns the candidate under the cursor.
func (q Queue) Current() (recipe.Recipe, bool) {
	if q.cursor >= len(q.batch) {
		return recipe.Recipe{}, false
	}
	return q.batch[q.cursor], true
}

// Exhausted reports whether a batch was loaded and every candidate decided.
func (q Queue) Exhausted() bool {
	return len(q.batch) > 0 && q.cursor >= len(q.batch)
}

// Position returns the cursor and the batch size.
func (q Queue) Position() (int, int) {
	return q.cursor, len(q.batch)
}

// Accept saves the current candidate as a favourite and advances.
func (q Queue) Accept(sink Sink) (Queue, error) {
	r, ok := q.Current()
	if !ok {
		return q, nil
	}
	r.IsFavorite = true
	if err := sink.AddOrUpdateRecipe(r); err != nil {
		return q, err
	}
	q.cursor++
	return q, nil
}

// Reject adds the current candidate to the dislike set and advances.
func (q Queue) Reject(sink Sink) (Queue, error) {
	r, ok := q.Current()
	if !ok {
		return q, nil
	}
	if err := sink.DislikeRecipe(r); err != nil {
		return q, err
	}
	q.cursor++
	return q, nil
}
