package engine

import (
	"math"

	"github.com/Jose-Ibz/VIM/internal/domain"
)

// SeasonalColumns are the sales-period columns the forecast averages over:
// the current period plus the -3, -6, -9 and -12 month offsets. Columns the
// export does not carry are excluded from the average rather than counted
// as zero, so the denominator shrinks with the available history.
var SeasonalColumns = []string{
	"Sales Current Period",
	"Sales P-3",
	"Sales P-6",
	"Sales P-9",
	"Sales P-12",
}

// Forecast fills the monthly demand estimate and trailing 12-month unit
// sales on every record. With zero seasonal columns available the forecast
// is defined as 0 rather than propagating an undefined value downstream.
func Forecast(records []domain.ItemRecord, availableColumns []string) []domain.ItemRecord {
	seasonal := make([]string, 0, len(SeasonalColumns))
	for _, col := range SeasonalColumns {
		if contains(availableColumns, col) {
			seasonal = append(seasonal, col)
		}
	}

	for i := range records {
		records[i].MonthlyForecast = monthlyForecast(records[i].SalesUnits, seasonal)
		records[i].Sales12mUnits = trailingUnits(records[i].SalesUnits)
	}

	return records
}

func monthlyForecast(sales map[string]float64, seasonal []string) float64 {
	if len(seasonal) == 0 {
		return 0
	}
	sum := 0.0
	for _, col := range seasonal {
		sum += sales[col]
	}
	mean := sum / float64(len(seasonal))
	return math.Round(mean*10) / 10
}

// trailingUnits sums every sales-period column, truncated to an integer.
func trailingUnits(sales map[string]float64) int {
	sum := 0.0
	for _, units := range sales {
		sum += units
	}
	return int(sum)
}

func contains(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
