package workflow

import (
	"sync"

	"laborctl/internal/models"
)

// entityState is the local copy of one entity plus the flag that keeps a
// second action from starting while one is in flight.
type entityState[T any] struct {
	mu         sync.Mutex
	current    *T
	submitting bool
	closed     bool
	version    uint64
	lastErr    error
}

func (s *entityState[T]) snapshot() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if s.current == nil {
		return zero, false
	}
	return *s.current, true
}

func (s *entityState[T]) isSubmitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *entityState[T]) lastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// begin claims the in-flight slot. check runs under the lock against the
// last known entity; if it fails nothing is claimed.
func (s *entityState[T]) begin(check func(current T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.closed {
		return zero, models.ErrSessionClosed
	}
	if s.submitting {
		return zero, models.ErrActionInFlight
	}
	if s.current == nil {
		return zero, models.ErrNotFound
	}
	if check != nil {
		if err := check(*s.current); err != nil {
			return zero, err
		}
	}
	s.submitting = true
	s.lastErr = nil
	return *s.current, nil
}

// finish releases the slot. On success the entity is replaced by updated as
// a whole. A session closed while the call was in flight discards the result.
func (s *entityState[T]) finish(updated *T, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	if s.closed {
		return models.ErrSessionClosed
	}
	if err != nil {
		s.lastErr = err
		return err
	}
	if updated != nil {
		s.current = updated
		s.version++
	}
	return nil
}

// replace installs a freshly fetched entity unless something else replaced
// it since the fetch started.
func (s *entityState[T]) replace(fetched *T, seenVersion uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.version != seenVersion {
		return false
	}
	s.current = fetched
	s.version++
	s.lastErr = nil
	return true
}

func (s *entityState[T]) currentVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *entityState[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *entityState[T]) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
