
package crawler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("speech-scraper/internal/crawler")

var errCacheMiss = errors.New("cache miss")

// Store is the backing storage of a Cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type cachedResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Cache stores successful responses keyed by method and exact URL.
type Cache struct {
	store Store
}

func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

func cacheKey(method, rawURL string) string {
	return method + " " + rawURL
}

func (c *Cache) get(ctx context.Context, method, rawURL string) (cachedResponse, error) {
	ctx, span := tracer.Start(ctx, "cache.get")
	defer span.End()

	key := cacheKey(method, rawURL)
	span.SetAttributes(attribute.String("cache_key", key))

	serialized, ok, err := c.store.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cache store")
		return cachedResponse{}, err
	}
	if !ok {
		return cachedResponse{}, errCacheMiss
	}

	var cached cachedResponse
	if err := gob.NewDecoder(bytes.NewReader(serialized)).Decode(&cached); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached response")
		return cachedResponse{}, err
	}
	span.SetAttributes(attribute.Int("contentlength", len(cached.Body)))
	return cached, nil
}

func (c *Cache) set(ctx context.Context, method, rawURL string, res cachedResponse) error {
	ctx, span := tracer.Start(ctx, "cache.set")
	defer span.End()

	key := cacheKey(method, rawURL)
	span.SetAttributes(attribute.String("cache_key", key))

	serialized := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(serialized).Encode(res); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize response")
		return err
	}
	if err := c.store.Set(ctx, key, serialized.Bytes()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache store")
		return err
	}
	return nil
}

// MemoryStore keeps entries for the lifetime of the process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string][]byte{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

const sqliteSchema = `create table if not exists responses (
	key text primary key,
	value blob not null,
	created_at integer not null
)`

// SQLiteStore persists entries in a sqlite database file so repeated runs
// are served locally.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per-connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "select value from responses where key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		"insert or replace into responses (key, value, created_at) values (?, ?, ?)",
		key, value, time.Now().Unix(),
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
