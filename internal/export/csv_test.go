package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Jose-Ibz/VIM/internal/domain"
)

func TestWriteImportCSV(t *testing.T) {
	var buf bytes.Buffer
	lines := []domain.ImportLine{
		{PartNo: "A-1", Qty: 15},
		{PartNo: "B-2", Qty: 3},
	}

	require.NoError(t, WriteImportCSV(&buf, lines))
	require.Equal(t, "A-1;15\nB-2;3\n", buf.String())
}

func TestWriteImportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteImportCSV(&buf, nil))
	require.Empty(t, buf.String())
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	records := []domain.ItemRecord{{
		PartNo:            "A-1",
		Description:       "Widget",
		Family:            3,
		StockBalance:      5,
		OnOrder:           1,
		BackOrderCustomer: 0,
		EffectiveStock:    6,
		UnitPrice:         decimal.NewFromFloat(12.35),
		SalesUnits:        map[string]float64{"Sales Current Period": 10},
		MonthlyForecast:   10,
		Sales12mUnits:     10,
		Sales12mValue:     decimal.NewFromInt(500),
	}}

	require.NoError(t, WriteRecordsCSV(&buf, records, []string{"Sales Current Period"}))

	reader := csv.NewReader(&buf)
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	require.Equal(t, "Part no", header[0])
	require.Equal(t, "Sales Current Period", header[8])
	require.Equal(t, "Sales 12m value", header[len(header)-1])

	row := rows[1]
	require.Equal(t, []string{
		"A-1", "Widget", "3", "5", "1", "0", "6", "12.35", "10", "10.0", "10", "500",
	}, row)
}
