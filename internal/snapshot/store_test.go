package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Jose-Ibz/VIM/internal/domain"
)

func sampleRecords() []domain.ItemRecord {
	return []domain.ItemRecord{{
		PartNo:          "A-1",
		Description:     "Widget",
		Family:          3,
		StockBalance:    5,
		EffectiveStock:  5,
		UnitPrice:       decimal.NewFromInt(50),
		SalesUnits:      map[string]float64{"Sales Current Period": 10},
		MonthlyForecast: 10,
		Sales12mUnits:   10,
		Sales12mValue:   decimal.NewFromInt(500),
	}}
}

func TestStoreWritesOncePerMonth(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)
	asOf := time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)

	path, written, err := store.Write(context.Background(), asOf, sampleRecords(), []string{"Sales Current Period"})
	require.NoError(t, err)
	require.True(t, written)
	require.Equal(t, filepath.Join(dir, "2025-01.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "A-1;Widget")

	// a second run in the same month leaves the existing file alone
	path2, written, err := store.Write(context.Background(), asOf.AddDate(0, 0, -3), sampleRecords(), nil)
	require.NoError(t, err)
	require.False(t, written)
	require.Equal(t, path, path2)
}

func TestStoreSeparatesMonths(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	_, written, err := store.Write(context.Background(), time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), sampleRecords(), nil)
	require.NoError(t, err)
	require.True(t, written)

	_, written, err = store.Write(context.Background(), time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), sampleRecords(), nil)
	require.NoError(t, err)
	require.True(t, written)
}

func TestIsMonthEnd(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2025-01-31", true},
		{"2025-01-30", false},
		{"2025-02-28", true},
		{"2024-02-28", false},
		{"2024-02-29", true},
		{"2025-12-31", true},
	}
	for _, tc := range cases {
		asOf, err := time.Parse("2006-01-02", tc.date)
		require.NoError(t, err)
		require.Equal(t, tc.want, IsMonthEnd(asOf), tc.date)
	}
}
