package engine

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Jose-Ibz/VIM/internal/domain"
	"github.com/Jose-Ibz/VIM/internal/ingest"
)

// familySentinel is assigned when the family code cannot be parsed. Real
// family codes start at 1, so the sentinel never collides with one.
const familySentinel = 0

// Normalize coerces raw rows into the canonical numeric schema. It is a pure
// transform: every parse failure falls back to a zero default and quantity
// fields are clamped so effective stock and unit price are never negative.
func Normalize(ds *ingest.Dataset) []domain.ItemRecord {
	salesCols := ds.SalesColumns()
	records := make([]domain.ItemRecord, 0, len(ds.Rows))

	for _, row := range ds.Rows {
		stockBalance := parseQuantity(row[ingest.ColStockBalance])
		onOrder := parseQuantity(row[ingest.ColOnOrder])
		backOrder := parseQuantity(row[ingest.ColBackOrder])

		sales := make(map[string]float64, len(salesCols))
		for _, col := range salesCols {
			sales[col] = parseQuantity(row[col])
		}

		records = append(records, domain.ItemRecord{
			PartNo:            row[ingest.ColPartNo],
			Description:       row[ingest.ColDescription],
			Family:            parseFamily(row[ingest.ColFamily]),
			StockBalance:      stockBalance,
			OnOrder:           onOrder,
			BackOrderCustomer: backOrder,
			EffectiveStock:    stockBalance + onOrder + backOrder,
			UnitPrice:         parsePrice(row[ingest.ColRepurchasePrice]),
			SalesUnits:        sales,
			Sales12mValue:     parseAmount(row[ingest.ColAmount]),
		})
	}

	return records
}

// parseNumber parses a numeric cell, tolerating surrounding whitespace.
// Unparseable or empty cells yield 0, including comma-bearing values whose
// intended magnitude is ambiguous.
func parseNumber(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseQuantity parses a stock or sales quantity, clamped to non-negative.
func parseQuantity(value string) float64 {
	f := parseNumber(value)
	if f < 0 {
		return 0
	}
	return f
}

// parseFamily coerces the family classification to an integer, falling back
// to the sentinel when the cell is unparseable.
func parseFamily(value string) int {
	v := strings.TrimSpace(value)
	if v == "" {
		return familySentinel
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return familySentinel
	}
	return int(f)
}

// parsePrice derives the unit price from the repurchase price cell, rounded
// to two decimals and never negative.
func parsePrice(value string) decimal.Decimal {
	f := parseNumber(value)
	if f < 0 {
		f = 0
	}
	return decimal.NewFromFloat(f).Round(2)
}

// parseAmount parses the trailing sales value cell, defaulting to 0 when the
// column is absent or the cell unparseable.
func parseAmount(value string) decimal.Decimal {
	return decimal.NewFromFloat(parseNumber(value))
}
