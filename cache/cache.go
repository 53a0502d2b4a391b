package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// Store is a TTL cache for serialized analysis results. Get returns
// (nil, nil) on a miss so callers can distinguish "not cached" from a
// storage failure.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store with a size cap and a background
// janitor that evicts expired entries.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	done       chan struct{}
	closeOnce  sync.Once
}

// NewMemoryStore creates a memory store capped at maxEntries. A cap of
// zero or less means unbounded.
func NewMemoryStore(maxEntries int) *MemoryStore {
	s := &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		done:       make(chan struct{}),
	}
	go s.janitor(5 * time.Minute)
	return s
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evict()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) evict() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
}

// evictLocked drops expired entries, then the oldest entries while over
// the cap. Caller must hold the write lock.
func (s *MemoryStore) evictLocked() {
	now := time.Now()

	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}

	if s.maxEntries <= 0 || len(s.entries) <= s.maxEntries {
		return
	}

	type keyed struct {
		key       string
		expiresAt time.Time
	}
	ordered := make([]keyed, 0, len(s.entries))
	for key, entry := range s.entries {
		ordered = append(ordered, keyed{key, entry.expiresAt})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].expiresAt.Before(ordered[j].expiresAt)
	})
	for i := 0; i < len(ordered)-s.maxEntries; i++ {
		delete(s.entries, ordered[i].key)
	}
}

// Get returns the cached payload for key, or nil if absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, nil
	}
	return entry.data, nil
}

// Set stores data under key for ttl.
func (s *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}

	if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		s.evictLocked()
	}
	return nil
}

// Delete removes key from the store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len reports the number of entries currently held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// PostgresStore persists cache entries in an analysis_cache table so
// results survive restarts and can be shared between instances.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to databaseURL and ensures the cache table
// exists.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS analysis_cache (
		cache_key  TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Get returns the cached payload for key, or nil if absent or expired.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
	SELECT data FROM analysis_cache
	WHERE cache_key = $1 AND expires_at > NOW()`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set upserts data under key for ttl.
func (s *PostgresStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	query := `
	INSERT INTO analysis_cache (cache_key, data, created_at, expires_at)
	VALUES ($1, $2, NOW(), $3)
	ON CONFLICT (cache_key)
	DO UPDATE SET data = $2, created_at = NOW(), expires_at = $3`

	_, err := s.db.ExecContext(ctx, query, key, data, time.Now().Add(ttl))
	return err
}

// Delete removes key from the store.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE cache_key = $1`, key)
	return err
}

// CleanExpired removes rows whose TTL has lapsed and reports how many
// were deleted.
func (s *PostgresStore) CleanExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
