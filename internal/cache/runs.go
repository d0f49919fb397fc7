package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Jose-Ibz/VIM/internal/config"
	"github.com/Jose-Ibz/VIM/internal/domain"
)

const (
	runKeyPrefix  = "run:"
	defaultRunTTL = time.Hour
)

// RunStore keeps completed run results so the download endpoints can serve
// a run's artifacts after the computation pass finished.
type RunStore interface {
	Save(ctx context.Context, result *domain.RunResult) error
	Get(ctx context.Context, id string) (*domain.RunResult, bool, error)
}

// NewRunStore selects the redis-backed store when caching is enabled and
// the in-memory store otherwise. The redis store lets several service
// instances share run results.
func NewRunStore(cfg config.CacheConfig) (RunStore, error) {
	ttl := time.Duration(cfg.RunTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultRunTTL
	}

	if !cfg.Enabled {
		return NewMemoryRunStore(ttl), nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisRunStore{client: client, ttl: ttl}, nil
}

type redisRunStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *redisRunStore) Save(ctx context.Context, result *domain.RunResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode run result: %w", err)
	}
	if err := s.client.Set(ctx, runKeyPrefix+result.Summary.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisRunStore) Get(ctx context.Context, id string) (*domain.RunResult, bool, error) {
	payload, err := s.client.Get(ctx, runKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.RunResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode run result: %w", err)
	}
	return &result, true, nil
}

type memoryEntry struct {
	result    *domain.RunResult
	expiresAt time.Time
}

// MemoryRunStore is the single-instance store used when redis is disabled.
type MemoryRunStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemoryRunStore builds an in-memory run store with the given TTL.
func NewMemoryRunStore(ttl time.Duration) *MemoryRunStore {
	if ttl <= 0 {
		ttl = defaultRunTTL
	}
	return &MemoryRunStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryRunStore) Save(ctx context.Context, result *domain.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, entry := range s.entries {
		if entry.expiresAt.Before(now) {
			delete(s.entries, id)
		}
	}

	s.entries[result.Summary.ID] = memoryEntry{
		result:    result,
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

func (s *MemoryRunStore) Get(ctx context.Context, id string) (*domain.RunResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || entry.expiresAt.Before(time.Now()) {
		return nil, false, nil
	}
	return entry.result, true, nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
