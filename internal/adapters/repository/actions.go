package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pitchmark/pitchmark/internal/domain/model"
	"github.com/pitchmark/pitchmark/pkg/metrics"
)

// ActionStore holds per-report action sets ordered by ActionNumber.
// The renumbering invariant is enforced here: after any insert, delete
// or reorder, numbers are contiguous 1..N matching the new order.
type ActionStore struct {
	mu      sync.RWMutex
	reports map[string][]model.PerformanceAction
	total   int
}

// NewActionStore creates an empty action store.
func NewActionStore() *ActionStore {
	return &ActionStore{reports: make(map[string][]model.PerformanceAction)}
}

// NewReport registers an empty report and returns its id.
func (s *ActionStore) NewReport(_ context.Context) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[id] = nil
	return id
}

// Append adds an action at the end of a report's sequence.
func (s *ActionStore) Append(ctx context.Context, reportID string, a model.PerformanceAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.reports[reportID]
	if !ok {
		return fmt.Errorf("append action: %w", ErrReportNotFound)
	}
	s.reports[reportID] = renumber(append(seq, a))
	s.total++
	metrics.UpdateTrackedActions(s.total)
	return nil
}

// InsertAt inserts an action at a 1-based position, shifting later
// actions down and renumbering the whole sequence.
func (s *ActionStore) InsertAt(ctx context.Context, reportID string, pos int, a model.PerformanceAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.reports[reportID]
	if !ok {
		return fmt.Errorf("insert action: %w", ErrReportNotFound)
	}
	if pos < 1 || pos > len(seq)+1 {
		return fmt.Errorf("insert at %d of %d: %w", pos, len(seq), ErrInvalidPosition)
	}

	seq = append(seq, model.PerformanceAction{})
	copy(seq[pos:], seq[pos-1:])
	seq[pos-1] = a
	s.reports[reportID] = renumber(seq)
	s.total++
	metrics.UpdateTrackedActions(s.total)
	return nil
}

// Remove deletes the action with the given number and closes the gap.
func (s *ActionStore) Remove(ctx context.Context, reportID string, actionNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.reports[reportID]
	if !ok {
		return fmt.Errorf("remove action: %w", ErrReportNotFound)
	}
	if actionNumber < 1 || actionNumber > len(seq) {
		return fmt.Errorf("remove action %d: %w", actionNumber, ErrActionNotFound)
	}

	s.reports[reportID] = renumber(append(seq[:actionNumber-1], seq[actionNumber:]...))
	s.total--
	metrics.UpdateTrackedActions(s.total)
	return nil
}

// Move relocates an action from one 1-based position to another,
// preserving the relative order of everything else.
func (s *ActionStore) Move(ctx context.Context, reportID string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.reports[reportID]
	if !ok {
		return fmt.Errorf("move action: %w", ErrReportNotFound)
	}
	if from < 1 || from > len(seq) || to < 1 || to > len(seq) {
		return fmt.Errorf("move %d -> %d of %d: %w", from, to, len(seq), ErrInvalidPosition)
	}
	if from == to {
		return nil
	}

	moved := seq[from-1]
	rest := append(seq[:from-1:from-1], seq[from:]...)
	rest = append(rest, model.PerformanceAction{})
	copy(rest[to:], rest[to-1:])
	rest[to-1] = moved
	s.reports[reportID] = renumber(rest)
	return nil
}

// Update replaces the action with the given number in place. Field
// edits do not renumber; identity and order are untouched.
func (s *ActionStore) Update(ctx context.Context, reportID string, a model.PerformanceAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.reports[reportID]
	if !ok {
		return fmt.Errorf("update action: %w", ErrReportNotFound)
	}
	if a.ActionNumber < 1 || a.ActionNumber > len(seq) {
		return fmt.Errorf("update action %d: %w", a.ActionNumber, ErrActionNotFound)
	}
	seq[a.ActionNumber-1] = a
	return nil
}

// List returns a copy of a report's actions ordered by ActionNumber.
func (s *ActionStore) List(_ context.Context, reportID string) ([]model.PerformanceAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.reports[reportID]
	if !ok {
		return nil, fmt.Errorf("list actions: %w", ErrReportNotFound)
	}
	out := make([]model.PerformanceAction, len(seq))
	copy(out, seq)
	return out, nil
}

// Len returns the number of actions in a report, or 0 if unknown.
func (s *ActionStore) Len(reportID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports[reportID])
}

// renumber reassigns contiguous 1..N action numbers in slice order.
// Field values and relative order are preserved.
func renumber(seq []model.PerformanceAction) []model.PerformanceAction {
	for i := range seq {
		seq[i].ActionNumber = i + 1
	}
	return seq
}
