package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jose-Ibz/VIM/internal/config"
)

func TestInCampaignBoundaries(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		date string
		want bool
	}{
		{"2025-09-15", false},
		{"2025-09-16", true},
		{"2025-10-01", true},
		{"2025-11-22", true},
		{"2025-11-23", false},
		{"2025-03-10", false},
	}
	for _, tc := range cases {
		asOf, err := time.Parse("2006-01-02", tc.date)
		require.NoError(t, err)
		require.Equal(t, tc.want, policy.InCampaign(asOf), tc.date)
	}
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := config.PolicyConfig{
		PriceLimit:          1500,
		NormalCoverMonths:   2,
		CampaignFamily:      11,
		CampaignCoverMonths: 9,
		CampaignStart:       "09-16",
		CampaignEnd:         "11-22",
		ExceptionFamilies:   []int{17, 18, 21, 42},
		StockBasis:          "effective",
	}

	policy, err := PolicyFromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultPolicy(), policy)
}

func TestPolicyFromConfigRejectsBadInput(t *testing.T) {
	base := config.PolicyConfig{
		CampaignStart: "09-16",
		CampaignEnd:   "11-22",
		StockBasis:    "effective",
	}

	bad := base
	bad.CampaignStart = "16-09"
	_, err := PolicyFromConfig(bad)
	require.Error(t, err)

	bad = base
	bad.StockBasis = "warehouse"
	_, err = PolicyFromConfig(bad)
	require.ErrorContains(t, err, "stock basis")
}

func TestStockBasisSelection(t *testing.T) {
	item := testItem(50, 10, 0, 20, 3)
	item.StockBalance = 2
	item.OnOrder = 3
	item.BackOrderCustomer = 4
	item.EffectiveStock = 9

	effective := DefaultPolicy()
	require.Equal(t, 9.0, effective.stockOf(item))

	onHand := DefaultPolicy()
	onHand.StockBasis = StockBasisOnHand
	require.Equal(t, 2.0, onHand.stockOf(item))

	// the basis changes the order quantity: 20 - stock
	require.Equal(t, 11, NewCoveragePolicy(effective).Suggest(item))
	require.Equal(t, 18, NewCoveragePolicy(onHand).Suggest(item))
}
