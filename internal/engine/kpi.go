package engine

import (
	"github.com/shopspring/decimal"

	"github.com/Jose-Ibz/VIM/internal/domain"
)

const (
	// SegmentLive labels items with positive trailing sales value.
	SegmentLive = "Live"
	// SegmentDead labels items without any trailing sales value.
	SegmentDead = "Dead"

	anomalyReason = "Low sales value and high stock"
)

var (
	anomalySalesFloor = decimal.NewFromInt(100)
	percentFactor     = decimal.NewFromInt(100)
)

// KPIResult bundles the aggregate indicators computed off the normalized
// dataset, independent of any order tier.
type KPIResult struct {
	Summary   domain.KPISummary
	Health    []domain.HealthSegment
	Anomalies []domain.Anomaly
}

// AggregateKPIs computes portfolio rotation, service level, the live/dead
// stock segmentation and the anomaly rows.
func AggregateKPIs(records []domain.ItemRecord) KPIResult {
	totalSales := decimal.Zero
	totalStock := decimal.Zero
	withStock := 0

	live := domain.HealthSegment{Label: SegmentLive}
	dead := domain.HealthSegment{Label: SegmentDead}
	anomalies := make([]domain.Anomaly, 0)

	for _, item := range records {
		stockValue := decimal.NewFromFloat(item.StockBalance).Mul(item.UnitPrice)
		totalSales = totalSales.Add(item.Sales12mValue)
		totalStock = totalStock.Add(stockValue)

		if item.EffectiveStock > 0 {
			withStock++
		}

		if item.Sales12mValue.IsPositive() {
			live.ItemCount++
			live.StockValue = live.StockValue.Add(stockValue)
		} else {
			dead.ItemCount++
			dead.StockValue = dead.StockValue.Add(stockValue)
		}

		if item.Sales12mValue.LessThan(anomalySalesFloor) && item.EffectiveStock > 10 {
			anomalies = append(anomalies, domain.Anomaly{
				PartNo:         item.PartNo,
				Description:    item.Description,
				Family:         item.Family,
				Reason:         anomalyReason,
				Sales12mUnits:  item.Sales12mUnits,
				Sales12mValue:  item.Sales12mValue,
				EffectiveStock: item.EffectiveStock,
			})
		}
	}

	rotation := 0.0
	if !totalStock.IsZero() {
		rotation = totalSales.Div(totalStock).InexactFloat64()
	}

	service := 0.0
	if len(records) > 0 {
		service = float64(withStock) / float64(len(records)) * 100
	}

	live.PercentOfTotal = percentOf(live.StockValue, totalStock)
	dead.PercentOfTotal = percentOf(dead.StockValue, totalStock)

	return KPIResult{
		Summary: domain.KPISummary{
			TotalSalesValue: totalSales,
			TotalStockValue: totalStock,
			RotationIndex:   rotation,
			ServiceIndex:    service,
		},
		Health:    []domain.HealthSegment{live, dead},
		Anomalies: anomalies,
	}
}

// percentOf returns part/total as a percentage rounded to two decimals,
// with 0 as the defined result when the total is zero.
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(percentFactor).Div(total).Round(2)
}
