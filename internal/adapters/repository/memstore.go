package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/roster"
	"github.com/mergington/activities/pkg/metrics"
)

// InMemoryStore is a Store backed by a map guarded by a RWMutex.
// Precondition checks and the mutation they guard run under one write lock,
// so concurrent sign-ups of the same email cannot both succeed.
type InMemoryStore struct {
	mu              sync.RWMutex
	activities      model.Directory
	enforceCapacity bool
}

// NewInMemoryStore creates a store seeded with a deep copy of seed.
// Each call yields an isolated store.
func NewInMemoryStore(seed model.Directory, opts ...Option) (*InMemoryStore, error) {
	if seed == nil {
		return nil, ErrNilSeed
	}
	s := &InMemoryStore{activities: seed.Clone()}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateDirectoryTotals(len(s.activities), s.activities.ParticipantCount())
	for name, a := range s.activities {
		metrics.UpdateRosterSize(name, len(a.Participants))
	}
	return s, nil
}

// List returns a deep copy of every activity.
func (s *InMemoryStore) List(_ context.Context) model.Directory {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activities.Clone()
}

// Get returns a copy of one activity.
func (s *InMemoryStore) Get(_ context.Context, name string) (model.Activity, error) {
	defer observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[name]
	if !ok {
		return model.Activity{}, roster.NewError(roster.ErrActivityNotFound, name, "")
	}
	return a.Clone(), nil
}

// Enroll appends email at the end of the roster.
func (s *InMemoryStore) Enroll(_ context.Context, name, email string) (model.Activity, error) {
	defer observeUpdate(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return model.Activity{}, roster.NewError(roster.ErrActivityNotFound, name, email)
	}
	if a.Has(email) {
		return model.Activity{}, roster.NewError(roster.ErrAlreadyEnrolled, name, email)
	}
	if s.enforceCapacity && a.Full() {
		return model.Activity{}, roster.NewError(roster.ErrActivityFull, name, email)
	}

	// Copy before appending so clones handed out earlier never observe the write.
	participants := make([]string, len(a.Participants), len(a.Participants)+1)
	copy(participants, a.Participants)
	a.Participants = append(participants, email)
	s.activities[name] = a
	return a.Clone(), nil
}

// Unregister removes the single occurrence of email from the roster.
func (s *InMemoryStore) Unregister(_ context.Context, name, email string) (model.Activity, error) {
	defer observeUpdate(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return model.Activity{}, roster.NewError(roster.ErrActivityNotFound, name, email)
	}
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return model.Activity{}, roster.NewError(roster.ErrNotEnrolled, name, email)
	}

	a.Participants = slices.Delete(slices.Clone(a.Participants), i, i+1)
	s.activities[name] = a
	return a.Clone(), nil
}

// Count returns the number of activities and total roster entries.
func (s *InMemoryStore) Count(_ context.Context) (activities, participants int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities), s.activities.ParticipantCount()
}

func observeQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}

func observeUpdate(start time.Time) {
	metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
}
