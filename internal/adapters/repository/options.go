package repository

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithCapacityEnforcement makes Enroll reject sign-ups once an activity
// holds max_participants entries. Off by default.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *InMemoryStore) {
		s.enforceCapacity = enabled
	}
}
