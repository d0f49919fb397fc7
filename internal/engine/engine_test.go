package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Jose-Ibz/VIM/internal/domain"
	"github.com/Jose-Ibz/VIM/internal/ingest"
)

func testItem(price float64, forecast float64, effectiveStock float64, sales12m int, family int) domain.ItemRecord {
	return domain.ItemRecord{
		PartNo:          "TEST-1",
		Family:          family,
		StockBalance:    effectiveStock,
		EffectiveStock:  effectiveStock,
		UnitPrice:       decimal.NewFromFloat(price),
		MonthlyForecast: forecast,
		Sales12mUnits:   sales12m,
	}
}

func TestSuggestNormalOrder(t *testing.T) {
	eng := New(DefaultPolicy(), nil)
	item := testItem(50, 10, 5, 20, 3)

	s := eng.Suggest([]domain.ItemRecord{item}, false)[0]

	require.Equal(t, 15, s.NormalQty)
	require.Equal(t, 0, s.CampaignQty)
	require.Equal(t, 0, s.ExceptionQty)
	require.Equal(t, 15, s.ChosenQty)
	require.Equal(t, "750", s.OrderValue.String())
}

func TestSuggestCampaignOrder(t *testing.T) {
	eng := New(DefaultPolicy(), nil)
	item := testItem(50, 10, 5, 20, 11)

	s := eng.Suggest([]domain.ItemRecord{item}, true)[0]

	// 10 * 9 months - 5 in stock
	require.Equal(t, 85, s.CampaignQty)
	require.Equal(t, 15, s.NormalQty)
	require.Equal(t, 85, s.ChosenQty)
	require.Equal(t, "4250", s.OrderValue.String())
}

func TestSuggestCampaignZeroOutsideWindow(t *testing.T) {
	eng := New(DefaultPolicy(), nil)
	item := testItem(50, 10, 5, 20, 11)

	s := eng.Suggest([]domain.ItemRecord{item}, false)[0]

	require.Equal(t, 0, s.CampaignQty)
	require.Equal(t, 15, s.ChosenQty)
}

func TestSuggestExceptionByPrice(t *testing.T) {
	eng := New(DefaultPolicy(), nil)
	item := testItem(2000, 4, 50, 20, 3)

	s := eng.Suggest([]domain.ItemRecord{item}, false)[0]

	require.Equal(t, 0, s.NormalQty)
	require.Equal(t, 8, s.ExceptionQty)
	require.Equal(t, 0, s.ChosenQty)
}

func TestSuggestExceptionByFamily(t *testing.T) {
	eng := New(DefaultPolicy(), nil)
	item := testItem(50, 4, 0, 20, 17)

	s := eng.Suggest([]domain.ItemRecord{item}, false)[0]

	require.Equal(t, 0, s.NormalQty, "exception families never get a normal order")
	require.Equal(t, 8, s.ExceptionQty)
}

func TestSuggestLowSalesGetsNothing(t *testing.T) {
	eng := New(DefaultPolicy(), nil)
	item := testItem(50, 10, 0, 1, 11)

	s := eng.Suggest([]domain.ItemRecord{item}, true)[0]

	require.Zero(t, s.NormalQty)
	require.Zero(t, s.CampaignQty)
	require.Zero(t, s.ExceptionQty)
}

func TestSuggestStockCoversDemand(t *testing.T) {
	eng := New(DefaultPolicy(), nil)
	item := testItem(50, 10, 25, 20, 3)

	s := eng.Suggest([]domain.ItemRecord{item}, false)[0]

	require.Zero(t, s.NormalQty)
}

func TestRunAssemblesReports(t *testing.T) {
	ds := &ingest.Dataset{
		Columns: []string{
			ingest.ColPartNo, ingest.ColDescription, ingest.ColFamily,
			ingest.ColStockBalance, ingest.ColOnOrder, ingest.ColBackOrder,
			ingest.ColRepurchasePrice, "Sales Current Period", ingest.ColAmount,
		},
		Rows: []ingest.Row{
			{
				ingest.ColPartNo:          "A-1",
				ingest.ColDescription:     "Widget",
				ingest.ColFamily:          "3",
				ingest.ColStockBalance:    "5",
				ingest.ColOnOrder:         "0",
				ingest.ColBackOrder:       "0",
				ingest.ColRepurchasePrice: "50",
				"Sales Current Period":    "10",
				ingest.ColAmount:          "500",
			},
			{
				ingest.ColPartNo:          "B-2",
				ingest.ColDescription:     "Costly",
				ingest.ColFamily:          "3",
				ingest.ColStockBalance:    "50",
				ingest.ColOnOrder:         "0",
				ingest.ColBackOrder:       "0",
				ingest.ColRepurchasePrice: "2000",
				"Sales Current Period":    "4",
				ingest.ColAmount:          "8000",
			},
		},
		Encoding: "UTF-8",
	}

	eng := New(DefaultPolicy(), nil)
	result, err := eng.Run(context.Background(), ds, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.False(t, result.CampaignActive)
	require.Len(t, result.Records, 2)

	require.Len(t, result.Reports.Normal, 1)
	require.Equal(t, "A-1", result.Reports.Normal[0].PartNo)
	require.Equal(t, 15, result.Reports.Normal[0].SuggestedQty)

	require.Len(t, result.Reports.ImportLines, 1)
	require.Equal(t, domain.ImportLine{PartNo: "A-1", Qty: 15}, result.Reports.ImportLines[0])

	require.Len(t, result.Reports.Exception, 1)
	require.Equal(t, "B-2", result.Reports.Exception[0].PartNo)
	require.Equal(t, 8, result.Reports.Exception[0].SuggestedQty)

	require.Empty(t, result.Reports.Campaign)
}

func TestRunCampaignWindowActive(t *testing.T) {
	ds := &ingest.Dataset{
		Columns: []string{
			ingest.ColPartNo, ingest.ColDescription, ingest.ColFamily,
			ingest.ColStockBalance, ingest.ColOnOrder, ingest.ColBackOrder,
			ingest.ColRepurchasePrice, "Sales Current Period",
		},
		Rows: []ingest.Row{
			{
				ingest.ColPartNo:          "C-3",
				ingest.ColDescription:     "Seasonal",
				ingest.ColFamily:          "11",
				ingest.ColStockBalance:    "5",
				ingest.ColOnOrder:         "0",
				ingest.ColBackOrder:       "0",
				ingest.ColRepurchasePrice: "50",
				"Sales Current Period":    "10",
			},
		},
	}

	eng := New(DefaultPolicy(), nil)
	result, err := eng.Run(context.Background(), ds, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.True(t, result.CampaignActive)
	require.Len(t, result.Reports.Campaign, 1)
	require.Equal(t, 85, result.Reports.Campaign[0].SuggestedQty)
	// the normal table carries the chosen quantity, which campaign raised
	require.Len(t, result.Reports.Normal, 1)
	require.Equal(t, 85, result.Reports.Normal[0].SuggestedQty)
	require.Equal(t, domain.ImportLine{PartNo: "C-3", Qty: 85}, result.Reports.ImportLines[0])
}
