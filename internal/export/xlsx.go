package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Jose-Ibz/VIM/internal/domain"
)

var orderHeader = []interface{}{
	"item_id", "description", "family", "stock_balance", "on_order",
	"back_order", "effective_stock", "monthly_forecast", "sales_12m_units",
	"unit_price", "suggested_qty", "order_value",
}

// WriteOrderXLSX writes one order table as a single-sheet workbook.
func WriteOrderXLSX(w io.Writer, sheetName string, lines []domain.OrderLine) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := truncateSheetName(sheetName)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
	}

	if err := writeOrderSheet(f, sheet, lines); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteKPIXLSX writes the KPI report workbook with its three sheets:
// KPI summary, stock health segmentation and observations.
func WriteKPIXLSX(w io.Writer, kpi domain.KPISummary, health []domain.HealthSegment, anomalies []domain.Anomaly) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "KPI"); err != nil {
		return fmt.Errorf("failed to name KPI sheet: %w", err)
	}

	kpiRows := [][]interface{}{
		{"metric_name", "value"},
		{"rotation_index", kpi.RotationIndex},
		{"total_sales_value", kpi.TotalSalesValue.InexactFloat64()},
		{"total_stock_value", kpi.TotalStockValue.InexactFloat64()},
		{"service_index", kpi.ServiceIndex},
	}
	if err := writeRows(f, "KPI", kpiRows); err != nil {
		return err
	}

	if _, err := f.NewSheet("StockHealth"); err != nil {
		return fmt.Errorf("failed to add StockHealth sheet: %w", err)
	}
	healthRows := [][]interface{}{
		{"segment_label", "item_count", "stock_value", "percent_of_total"},
	}
	for _, seg := range health {
		healthRows = append(healthRows, []interface{}{
			seg.Label, seg.ItemCount,
			seg.StockValue.InexactFloat64(),
			seg.PercentOfTotal.InexactFloat64(),
		})
	}
	if err := writeRows(f, "StockHealth", healthRows); err != nil {
		return err
	}

	if _, err := f.NewSheet("Observations"); err != nil {
		return fmt.Errorf("failed to add Observations sheet: %w", err)
	}
	anomalyRows := [][]interface{}{
		{"item_id", "description", "family", "reason", "sales_12m_units", "sales_12m_value", "effective_stock"},
	}
	for _, a := range anomalies {
		anomalyRows = append(anomalyRows, []interface{}{
			a.PartNo, a.Description, a.Family, a.Reason,
			a.Sales12mUnits, a.Sales12mValue.InexactFloat64(), a.EffectiveStock,
		})
	}
	if err := writeRows(f, "Observations", anomalyRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeOrderSheet(f *excelize.File, sheet string, lines []domain.OrderLine) error {
	rows := make([][]interface{}, 0, len(lines)+1)
	rows = append(rows, orderHeader)
	for _, l := range lines {
		rows = append(rows, []interface{}{
			l.PartNo, l.Description, l.Family, l.StockBalance, l.OnOrder,
			l.BackOrder, l.EffectiveStock, l.MonthlyForecast, l.Sales12mUnits,
			l.UnitPrice.InexactFloat64(), l.SuggestedQty, l.OrderValue.InexactFloat64(),
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// truncateSheetName enforces the xlsx 31-character sheet name limit
// without splitting a multibyte rune.
func truncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) > 31 {
		return string(runes[:31])
	}
	return name
}
