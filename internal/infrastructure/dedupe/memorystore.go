package dedupe

import (
	"context"
	"sync"
	"time"

	"payhook/internal/shared/biztime"
	"payhook/internal/shared/goroutine"
	"payhook/internal/shared/logger"
)

const purgeInterval = 10 * time.Minute

// MemoryStore is a process-local dedupe store. It only dampens redeliveries
// hitting the same instance; multi-instance deployments need the Redis store.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	stop chan struct{}
	once sync.Once
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		seen: make(map[string]time.Time),
		stop: make(chan struct{}),
	}
	goroutine.SafeGo(logger.NewLogger(), "dedupe-memory-purge", s.purgeLoop)
	return s
}

// Remember records the event id if it has not been seen within its retention
// window. The check and the insert happen under one lock, so concurrent
// deliveries of the same id resolve to exactly one first=true.
func (s *MemoryStore) Remember(_ context.Context, eventID string, retention time.Duration) (bool, error) {
	now := biztime.NowUTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.seen[eventID]; ok && expiry.After(now) {
		return false, nil
	}
	s.seen[eventID] = now.Add(retention)
	return true, nil
}

// Forget releases an event id so a provider retry can be processed again.
func (s *MemoryStore) Forget(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, eventID)
	return nil
}

// Close stops the background purge loop.
func (s *MemoryStore) Close() {
	s.once.Do(func() {
		close(s.stop)
	})
}

func (s *MemoryStore) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) purgeExpired() {
	now := biztime.NowUTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, expiry := range s.seen {
		if !expiry.After(now) {
			delete(s.seen, id)
		}
	}
}
