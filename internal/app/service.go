// Package service provides the activity directory service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	changequeue "github.com/mergington/activities/internal/adapters/mq/queue"
	workerpool "github.com/mergington/activities/internal/adapters/mq/worker"
	"github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/roster"
	"github.com/mergington/activities/internal/domain/seed"
	"github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
)

// ErrEmptyEmail is returned when a roster operation is attempted without an email.
var ErrEmptyEmail = errors.New("email must not be empty")

// Service owns the activity directory and the roster change pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	changes    *changequeue.InMemoryQueue
	workerPool *workerpool.Pool
	recorder   workerpool.Recorder

	// Configuration
	seed            model.Directory
	enforceCapacity bool
	workerCount     int
	queueSize       int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects the directory store. When set, WithSeed and
// WithCapacityEnforcement are ignored.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSeed replaces the built-in activity catalogue.
func WithSeed(dir model.Directory) Option {
	return func(s *Service) {
		if dir != nil {
			s.seed = dir
		}
	}
}

// WithCapacityEnforcement rejects sign-ups to full activities.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceCapacity = enabled
	}
}

// WithWorkerCount sets the number of roster change workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the roster change queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRecorder replaces the consumer of roster changes.
func WithRecorder(r workerpool.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New constructs a Service with a freshly seeded store.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		if s.seed == nil {
			s.seed = seed.Default()
		}
		store, err := repository.NewInMemoryStore(s.seed, repository.WithCapacityEnforcement(s.enforceCapacity))
		if err != nil {
			return nil, fmt.Errorf("service: build store: %w", err)
		}
		s.store = store
	}
	if s.recorder == nil {
		s.recorder = workerpool.NewMetricsRecorder(s.logger, s.store)
	}
	return s, nil
}

// Start launches the roster change pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.changes = changequeue.NewInMemoryQueue(changequeue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.changes, s.recorder)
	s.workerPool.Start(ctx)

	activities, participants := s.store.Count(ctx)
	metrics.UpdateDirectoryTotals(activities, participants)

	s.started = true
	s.logger.Info(ctx, "activity directory service started",
		logger.Int("activities", activities),
		logger.Int("participants", participants),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("enforceCapacity", s.enforceCapacity),
	)
	return nil
}

// Stop drains the roster change pipeline.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "roster change workers did not stop cleanly", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "activity directory service stopped")
}

// Activities returns a snapshot of the whole directory.
func (s *Service) Activities(ctx context.Context) model.Directory {
	return s.store.List(ctx)
}

// SignUp enrolls email in the named activity.
func (s *Service) SignUp(ctx context.Context, activity, email string) (model.Activity, error) {
	return s.mutate(ctx, model.ActionSignUp, activity, email, s.store.Enroll)
}

// Unregister removes email from the named activity.
func (s *Service) Unregister(ctx context.Context, activity, email string) (model.Activity, error) {
	return s.mutate(ctx, model.ActionUnregister, activity, email, s.store.Unregister)
}

type rosterOp func(ctx context.Context, activity, email string) (model.Activity, error)

func (s *Service) mutate(ctx context.Context, action model.RosterAction, activity, email string, op rosterOp) (model.Activity, error) {
	if email == "" {
		return model.Activity{}, ErrEmptyEmail
	}

	a, err := op(ctx, activity, email)
	if err != nil {
		label := activity
		if roster.IsNotFound(err) {
			label = metrics.UnknownActivityLabel
		}
		metrics.RecordRosterOperation(label, string(action), roster.Code(err))
		s.logger.Info(ctx, "roster operation rejected",
			logger.String("action", string(action)),
			logger.String("activity", activity),
			logger.String("email", email),
			logger.String("reason", roster.Code(err)),
		)
		return model.Activity{}, fmt.Errorf("service.%s: %w", action, err)
	}

	metrics.RecordRosterOperation(activity, string(action), "ok")
	s.logger.Info(ctx, "roster updated",
		logger.String("action", string(action)),
		logger.String("activity", activity),
		logger.String("email", email),
		logger.Int("participants", len(a.Participants)),
	)
	s.publish(ctx, model.RosterChange{
		ID:           uuid.NewString(),
		Activity:     activity,
		Email:        email,
		Action:       action,
		Participants: len(a.Participants),
		At:           time.Now().UTC(),
	})
	return a, nil
}

// publish hands a change to the pipeline. A full or stopped pipeline drops it;
// the roster mutation itself has already succeeded.
func (s *Service) publish(ctx context.Context, c model.RosterChange) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return
	}
	if !s.changes.Enqueue(ctx, c) {
		s.logger.Warn(ctx, "roster change dropped",
			logger.String("change_id", c.ID),
			logger.String("activity", c.Activity),
		)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	activities, participants := s.store.Count(ctx)
	metrics.UpdateDirectoryTotals(activities, participants)

	stats := map[string]interface{}{
		"started":         s.started,
		"activities":      activities,
		"participants":    participants,
		"enforceCapacity": s.enforceCapacity,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
	}
	if s.started {
		stats["queueLength"] = s.changes.Len(ctx)
	}
	return stats
}
