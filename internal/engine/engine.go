package engine

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Jose-Ibz/VIM/internal/domain"
	"github.com/Jose-Ibz/VIM/internal/ingest"
)

// Suggestion holds the per-item outcome of the three order tiers. The
// chosen quantity is the larger of the normal and campaign tiers; the
// exception tier is reported standalone and never merged into it.
type Suggestion struct {
	NormalQty    int
	CampaignQty  int
	ExceptionQty int
	ChosenQty    int
	OrderValue   decimal.Decimal
}

// Engine runs one full computation pass: normalize, forecast, order tiers
// and KPIs, then report assembly. It is safe to run multiple engines with
// different policies side by side.
type Engine struct {
	policy  Policy
	reorder ReorderPolicy
}

// New builds an engine with the given policy. A nil reorder policy selects
// the fixed-coverage rule.
func New(policy Policy, reorder ReorderPolicy) *Engine {
	if reorder == nil {
		reorder = NewCoveragePolicy(policy)
	}
	return &Engine{policy: policy, reorder: reorder}
}

// Result is the complete outcome of one pass over an uploaded dataset.
type Result struct {
	Records        []domain.ItemRecord
	Reports        domain.ReportSet
	CampaignActive bool
}

// Run executes the pipeline on a cleaned dataset. The campaign window is
// evaluated against asOf. The order tiers and the KPI aggregation both read
// only the normalized records, so they run in parallel.
func (e *Engine) Run(ctx context.Context, ds *ingest.Dataset, asOf time.Time) (*Result, error) {
	records := Forecast(Normalize(ds), ds.Columns)
	inCampaign := e.policy.InCampaign(asOf)

	var (
		suggestions []Suggestion
		kpi         KPIResult
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		suggestions = e.Suggest(records, inCampaign)
		return nil
	})
	g.Go(func() error {
		kpi = AggregateKPIs(records)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Records:        records,
		Reports:        Assemble(records, suggestions, kpi),
		CampaignActive: inCampaign,
	}, nil
}

// Suggest evaluates the order tiers for every record. Tiers are independent
// and non-exclusive; campaign quantities are zero outside the window.
func (e *Engine) Suggest(records []domain.ItemRecord, inCampaign bool) []Suggestion {
	suggestions := make([]Suggestion, len(records))
	for i, item := range records {
		s := Suggestion{
			NormalQty:    e.reorder.Suggest(item),
			ExceptionQty: e.exceptionQty(item),
		}
		if inCampaign {
			s.CampaignQty = e.campaignQty(item)
		}
		s.ChosenQty = s.NormalQty
		if s.CampaignQty > s.ChosenQty {
			s.ChosenQty = s.CampaignQty
		}
		s.OrderValue = orderValue(item.UnitPrice, s.ChosenQty)
		suggestions[i] = s
	}
	return suggestions
}

// campaignQty sizes the seasonal surge order for the campaign family. The
// target is rounded after subtracting stock, keeping fractional forecasts
// from over-ordering across a long coverage horizon.
func (e *Engine) campaignQty(item domain.ItemRecord) int {
	if item.Family != e.policy.CampaignFamily {
		return 0
	}
	if item.Sales12mUnits < minTrailingUnits || item.MonthlyForecast <= 0 {
		return 0
	}
	qty := item.MonthlyForecast*e.policy.CampaignCoverMonths - e.policy.stockOf(item)
	if qty <= 0 {
		return 0
	}
	return int(math.Round(qty))
}

// exceptionQty sizes the standalone order for high-value or exempt-family
// items: always a full coverage buffer, regardless of current holdings.
func (e *Engine) exceptionQty(item domain.ItemRecord) int {
	if item.UnitPrice.InexactFloat64() <= e.policy.PriceLimit && !e.policy.isException(item) {
		return 0
	}
	if item.Sales12mUnits < minTrailingUnits || item.MonthlyForecast <= 0 {
		return 0
	}
	return int(math.Round(item.MonthlyForecast * e.policy.NormalCoverMonths))
}

// orderValue computes the monetary value of an order, rounded to cents.
func orderValue(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
