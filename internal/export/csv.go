package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Jose-Ibz/VIM/internal/domain"
)

// WriteImportCSV writes the minimal reorder-import file: item id and
// suggested quantity, semicolon-delimited, no header.
func WriteImportCSV(w io.Writer, lines []domain.ImportLine) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	for _, line := range lines {
		record := []string{line.PartNo, strconv.Itoa(line.Qty)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write import row for %s: %w", line.PartNo, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRecordsCSV writes the normalized dataset as a semicolon-delimited
// table, used for the monthly snapshot. Sales-period columns keep the
// source header order.
func WriteRecordsCSV(w io.Writer, records []domain.ItemRecord, salesColumns []string) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	header := []string{
		"Part no", "Description", "Family", "Stock balance", "On Order",
		"Back Order Customer", "Effective stock", "Unit price",
	}
	header = append(header, salesColumns...)
	header = append(header, "Monthly forecast", "Sales 12m units", "Sales 12m value")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	for _, r := range records {
		record := []string{
			r.PartNo,
			r.Description,
			strconv.Itoa(r.Family),
			formatFloat(r.StockBalance),
			formatFloat(r.OnOrder),
			formatFloat(r.BackOrderCustomer),
			formatFloat(r.EffectiveStock),
			r.UnitPrice.String(),
		}
		for _, col := range salesColumns {
			record = append(record, formatFloat(r.SalesUnits[col]))
		}
		record = append(record,
			strconv.FormatFloat(r.MonthlyForecast, 'f', 1, 64),
			strconv.Itoa(r.Sales12mUnits),
			r.Sales12mValue.String(),
		)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write snapshot row for %s: %w", r.PartNo, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
