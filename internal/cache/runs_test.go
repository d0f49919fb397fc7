package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jose-Ibz/VIM/internal/config"
	"github.com/Jose-Ibz/VIM/internal/domain"
)

func sampleResult(id string) *domain.RunResult {
	return &domain.RunResult{
		Summary: domain.RunSummary{ID: id, ItemCount: 2, NormalCount: 1},
	}
}

func TestMemoryRunStore(t *testing.T) {
	store := NewMemoryRunStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleResult("run-1")))

	got, found, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2, got.Summary.ItemCount)

	_, found, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryRunStoreExpiry(t *testing.T) {
	store := NewMemoryRunStore(time.Nanosecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleResult("run-1")))
	time.Sleep(time.Millisecond)

	_, found, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestNewRunStoreDisabledCache(t *testing.T) {
	store, err := NewRunStore(config.CacheConfig{Enabled: false, RunTTLSeconds: 60})
	require.NoError(t, err)
	require.IsType(t, &MemoryRunStore{}, store)
}
