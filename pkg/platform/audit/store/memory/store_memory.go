package memory

import (
	"context"
	"sync"

	audit "caseline/pkg/platform/audit"
)

// InMemoryStore keeps archived events in memory. The default for tests and
// single-node development; production points the worker at Postgres.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	byCase map[string][]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byCase: make(map[string][]int)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCase[event.CaseID] = append(s.byCase[event.CaseID], len(s.events))
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByCase(_ context.Context, caseID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idxs := s.byCase[caseID]
	out := make([]audit.Event, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.events[i])
	}
	return out, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := len(s.events) - limit
	if limit <= 0 || start < 0 {
		start = 0
	}
	return append([]audit.Event{}, s.events[start:]...), nil
}

// Clear drops all events. Test helper.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.byCase = make(map[string][]int)
}
