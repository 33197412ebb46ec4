// Package cache stores serialized avatar replies for a short time so repeated
// questions skip the model round-trip. [MemoryStore] keeps entries in process;
// [RedisStore] shares them between replicas.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a cached reply stays valid.
const DefaultTTL = 5 * time.Minute

// DefaultSweepInterval is how often [MemoryStore] drops expired entries.
const DefaultSweepInterval = time.Minute

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a byte cache with a fixed TTL per store. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the value for key or [ErrMiss].
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for the store's TTL.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases background resources.
	Close() error
}

// Key builds the cache key for a question asked in a language. Questions that
// differ only in case or surrounding whitespace share a key.
func Key(question, language string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return q
	}
	return lang + ":" + q
}

// ---- memory ----

type entry struct {
	value   []byte
	expires time.Time
}

// MemoryOption configures a [MemoryStore].
type MemoryOption func(*MemoryStore)

// WithSweepInterval overrides [DefaultSweepInterval].
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.sweep = d
		}
	}
}

// MemoryStore is an in-process [Store]. A janitor goroutine removes expired
// entries until Close is called.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	sweep   time.Duration
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore starts a [MemoryStore]. A non-positive ttl selects
// [DefaultTTL].
func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		sweep:   DefaultSweepInterval,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.wg.Add(1)
	go s.janitor()
	return s
}

// Get implements [Store].
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, key)
		return nil, ErrMiss
	}
	return e.value, nil
}

// Set implements [Store].
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.entries[key] = entry{value: v, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included until the
// next sweep.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the janitor. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) janitor() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *MemoryStore) removeExpired() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
}
