// Package quizstore persists graded retention-test attempts so a learner can
// look back at earlier scores. Two implementations are provided: an
// in-process [MemoryStore] used when no database is configured, and a
// PostgreSQL-backed [PostgresStore].
package quizstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AbhiramValmeekam/adam-project/internal/study"
)

// ErrNotFound is returned by Get when no attempt has the requested ID.
var ErrNotFound = errors.New("quizstore: attempt not found")

// Attempt is one graded submission of a retention test.
type Attempt struct {
	ID         uuid.UUID     `json:"id"`
	SessionID  string        `json:"sessionId"`
	TestTitle  string        `json:"testTitle"`
	Score      int           `json:"score"`
	Total      int           `json:"total"`
	Percentage int           `json:"percentage"`
	Result     *study.Result `json:"result,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// NewAttempt builds an unsaved attempt from a graded result.
func NewAttempt(sessionID string, res *study.Result) *Attempt {
	return &Attempt{
		SessionID:  sessionID,
		TestTitle:  res.TestTitle,
		Score:      res.Score,
		Total:      res.Total,
		Percentage: res.Percentage,
		Result:     res,
	}
}

// Store records and lists attempts. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save assigns a.ID and a.CreatedAt when unset and persists a.
	Save(ctx context.Context, a *Attempt) error

	// Get returns the attempt with the given ID or [ErrNotFound].
	Get(ctx context.Context, id uuid.UUID) (*Attempt, error)

	// List returns the attempts of a session, newest first. An empty
	// sessionID lists every attempt.
	List(ctx context.Context, sessionID string) ([]Attempt, error)
}

// MemoryStore is an in-process [Store]. Attempts are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	attempts []Attempt
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Save implements [Store].
func (s *MemoryStore) Save(_ context.Context, a *Attempt) error {
	if a == nil {
		return fmt.Errorf("quizstore: save: nil attempt")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.attempts {
		if existing.ID == a.ID {
			return fmt.Errorf("quizstore: attempt %s already exists", a.ID)
		}
	}
	s.attempts = append(s.attempts, *a)
	return nil
}

// Get implements [Store].
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attempts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// List implements [Store].
func (s *MemoryStore) List(_ context.Context, sessionID string) ([]Attempt, error) {
	s.mu.RLock()
	out := make([]Attempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		if sessionID == "" || a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Attempt) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}
