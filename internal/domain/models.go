package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRecord is one normalized inventory row, keyed by part number.
type ItemRecord struct {
	PartNo            string             `json:"part_no"`
	Description       string             `json:"description"`
	Family            int                `json:"family"`
	StockBalance      float64            `json:"stock_balance"`
	OnOrder           float64            `json:"on_order"`
	BackOrderCustomer float64            `json:"back_order_customer"`
	EffectiveStock    float64            `json:"effective_stock"`
	UnitPrice         decimal.Decimal    `json:"unit_price"`
	SalesUnits        map[string]float64 `json:"sales_units"`
	MonthlyForecast   float64            `json:"monthly_forecast"`
	Sales12mUnits     int                `json:"sales_12m_units"`
	Sales12mValue     decimal.Decimal    `json:"sales_12m_value"`
}

// OrderLine is one row of an order table, shared by all three tiers.
type OrderLine struct {
	PartNo          string          `json:"part_no"`
	Description     string          `json:"description"`
	Family          int             `json:"family"`
	StockBalance    float64         `json:"stock_balance"`
	OnOrder         float64         `json:"on_order"`
	BackOrder       float64         `json:"back_order"`
	EffectiveStock  float64         `json:"effective_stock"`
	MonthlyForecast float64         `json:"monthly_forecast"`
	Sales12mUnits   int             `json:"sales_12m_units"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SuggestedQty    int             `json:"suggested_qty"`
	OrderValue      decimal.Decimal `json:"order_value"`
}

// ImportLine is one row of the two-column reorder-import file.
type ImportLine struct {
	PartNo string `json:"part_no"`
	Qty    int    `json:"qty"`
}

// KPISummary holds the portfolio-level indicators.
type KPISummary struct {
	TotalSalesValue decimal.Decimal `json:"total_sales_value"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	RotationIndex   float64         `json:"rotation_index"`
	ServiceIndex    float64         `json:"service_index"`
}

// HealthSegment is one row of the live/dead stock segmentation.
type HealthSegment struct {
	Label          string          `json:"label"`
	ItemCount      int             `json:"item_count"`
	StockValue     decimal.Decimal `json:"stock_value"`
	PercentOfTotal decimal.Decimal `json:"percent_of_total"`
}

// Anomaly is a flagged low-value, over-stocked item.
type Anomaly struct {
	PartNo         string          `json:"part_no"`
	Description    string          `json:"description"`
	Family         int             `json:"family"`
	Reason         string          `json:"reason"`
	Sales12mUnits  int             `json:"sales_12m_units"`
	Sales12mValue  decimal.Decimal `json:"sales_12m_value"`
	EffectiveStock float64         `json:"effective_stock"`
}

// ReportSet is everything one computation pass produces.
type ReportSet struct {
	Normal      []OrderLine     `json:"normal"`
	Campaign    []OrderLine     `json:"campaign"`
	Exception   []OrderLine     `json:"exception"`
	ImportLines []ImportLine    `json:"import_lines"`
	KPI         KPISummary      `json:"kpi"`
	Health      []HealthSegment `json:"health"`
	Anomalies   []Anomaly       `json:"anomalies"`
}

// RunSummary describes a completed run for API consumers.
type RunSummary struct {
	ID             string     `json:"id"`
	ProcessedAt    time.Time  `json:"processed_at"`
	Encoding       string     `json:"encoding"`
	ItemCount      int        `json:"item_count"`
	NormalCount    int        `json:"normal_count"`
	CampaignCount  int        `json:"campaign_count"`
	ExceptionCount int        `json:"exception_count"`
	AnomalyCount   int        `json:"anomaly_count"`
	CampaignActive bool       `json:"campaign_active"`
	SnapshotPath   string     `json:"snapshot_path,omitempty"`
	KPI            KPISummary `json:"kpi"`
}

// RunResult is the stored outcome of a run, served back by the download
// endpoints until it expires from the run store.
type RunResult struct {
	Summary RunSummary `json:"summary"`
	Reports ReportSet  `json:"reports"`
}
