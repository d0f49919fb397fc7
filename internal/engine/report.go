package engine

import (
	"github.com/Jose-Ibz/VIM/internal/domain"
)

// Assemble arranges the computed outputs into the named report tables. It
// filters rows but performs no further computation: order tables keep only
// items whose tier fired, the anomaly table only flagged items.
func Assemble(records []domain.ItemRecord, suggestions []Suggestion, kpi KPIResult) domain.ReportSet {
	reports := domain.ReportSet{
		Normal:      make([]domain.OrderLine, 0),
		Campaign:    make([]domain.OrderLine, 0),
		Exception:   make([]domain.OrderLine, 0),
		ImportLines: make([]domain.ImportLine, 0),
		KPI:         kpi.Summary,
		Health:      kpi.Health,
		Anomalies:   kpi.Anomalies,
	}

	for i, item := range records {
		s := suggestions[i]

		if s.NormalQty > 0 {
			reports.Normal = append(reports.Normal, orderLine(item, s.ChosenQty))
			reports.ImportLines = append(reports.ImportLines, domain.ImportLine{
				PartNo: item.PartNo,
				Qty:    s.ChosenQty,
			})
		}
		if s.CampaignQty > 0 {
			reports.Campaign = append(reports.Campaign, orderLine(item, s.ChosenQty))
		}
		if s.ExceptionQty > 0 {
			reports.Exception = append(reports.Exception, orderLine(item, s.ExceptionQty))
		}
	}

	return reports
}

func orderLine(item domain.ItemRecord, qty int) domain.OrderLine {
	return domain.OrderLine{
		PartNo:          item.PartNo,
		Description:     item.Description,
		Family:          item.Family,
		StockBalance:    item.StockBalance,
		OnOrder:         item.OnOrder,
		BackOrder:       item.BackOrderCustomer,
		EffectiveStock:  item.EffectiveStock,
		MonthlyForecast: item.MonthlyForecast,
		Sales12mUnits:   item.Sales12mUnits,
		UnitPrice:       item.UnitPrice,
		SuggestedQty:    qty,
		OrderValue:      orderValue(item.UnitPrice, qty),
	}
}
