package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Jose-Ibz/VIM/internal/domain"
)

// minTrailingUnits is the minimum trailing 12-month unit sales an item
// needs before any order tier fires.
const minTrailingUnits = 2

// ReorderPolicy is the pluggable rule filling the normal-order slot. The
// campaign and exception tiers are evaluated by the engine regardless of
// which implementation is selected.
type ReorderPolicy interface {
	Name() string
	Suggest(item domain.ItemRecord) int
}

// CoveragePolicy is the fixed coverage rule: order up to NormalCoverMonths
// of forecasted demand for items under the price limit and outside the
// exception families.
type CoveragePolicy struct {
	policy Policy
}

// NewCoveragePolicy builds the fixed-coverage reorder policy.
func NewCoveragePolicy(policy Policy) *CoveragePolicy {
	return &CoveragePolicy{policy: policy}
}

func (c *CoveragePolicy) Name() string { return "coverage" }

func (c *CoveragePolicy) Suggest(item domain.ItemRecord) int {
	if item.UnitPrice.InexactFloat64() > c.policy.PriceLimit {
		return 0
	}
	if item.Sales12mUnits < minTrailingUnits || item.MonthlyForecast <= 0 {
		return 0
	}
	if c.policy.isException(item) {
		return 0
	}

	target := math.Round(item.MonthlyForecast * c.policy.NormalCoverMonths)
	qty := target - c.policy.stockOf(item)
	if qty <= 0 {
		return 0
	}
	return int(math.Round(qty))
}

// ReorderRule maps a forecast range and price ceiling to a safety stock and
// an economic order quantity.
type ReorderRule struct {
	ForecastMin float64
	ForecastMax float64
	PriceMax    float64
	SafetyStock int
	EOQ         int
}

// ReorderPointPolicy replaces the fixed-coverage rule with a table lookup:
// an order for the matched EOQ triggers when the on-hand balance drops
// below the matched safety stock. Items without a matching rule fall back
// to forecast-derived values when the forecast is positive.
type ReorderPointPolicy struct {
	rules []ReorderRule
}

// NewReorderPointPolicy builds the lookup policy from an already-loaded
// rule table.
func NewReorderPointPolicy(rules []ReorderRule) *ReorderPointPolicy {
	return &ReorderPointPolicy{rules: rules}
}

// LoadReorderPointPolicy reads the SS/EOQ table from a semicolon-delimited
// rules file. Any malformed row is fatal: a half-loaded table would make
// order quantities silently wrong.
func LoadReorderPointPolicy(path string) (*ReorderPointPolicy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer f.Close()

	rules, err := readReorderRules(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return NewReorderPointPolicy(rules), nil
}

func (r *ReorderPointPolicy) Name() string { return "reorder_point" }

func (r *ReorderPointPolicy) Suggest(item domain.ItemRecord) int {
	ss, eoq := r.lookup(item)
	if eoq <= 0 {
		return 0
	}
	if item.StockBalance >= float64(ss) {
		return 0
	}
	return eoq
}

// lookup finds the first rule containing the item's forecast whose price
// ceiling covers the unit price. Unmatched items with positive forecast get
// the derived fallback of half a month safety stock and one and a half
// months order quantity, floored at one unit.
func (r *ReorderPointPolicy) lookup(item domain.ItemRecord) (safetyStock, eoq int) {
	forecast := item.MonthlyForecast
	price := item.UnitPrice.InexactFloat64()

	for _, rule := range r.rules {
		if forecast >= rule.ForecastMin && forecast < rule.ForecastMax && price <= rule.PriceMax {
			return rule.SafetyStock, rule.EOQ
		}
	}

	if forecast > 0 {
		ss := int(math.Max(1, math.Round(forecast*0.5)))
		fallback := int(math.Max(1, math.Round(forecast*1.5)))
		return ss, fallback
	}
	return 0, 0
}

// readReorderRules parses the rules table. Expected header:
// forecast_min;forecast_max;price_max;safety_stock;eoq
func readReorderRules(r io.Reader) ([]ReorderRule, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read rules header: %w", err)
	}
	if len(header) < 5 {
		return nil, fmt.Errorf("rules header has %d columns, want 5", len(header))
	}

	rules := make([]ReorderRule, 0, 16)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("rules line %d: %w", line, err)
		}

		rule, err := parseReorderRule(record)
		if err != nil {
			return nil, fmt.Errorf("rules line %d: %w", line, err)
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return nil, fmt.Errorf("rules table is empty")
	}
	return rules, nil
}

func parseReorderRule(record []string) (ReorderRule, error) {
	if len(record) < 5 {
		return ReorderRule{}, fmt.Errorf("got %d columns, want 5", len(record))
	}

	fields := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return ReorderRule{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		fields[i] = v
	}

	return ReorderRule{
		ForecastMin: fields[0],
		ForecastMax: fields[1],
		PriceMax:    fields[2],
		SafetyStock: int(fields[3]),
		EOQ:         int(fields[4]),
	}, nil
}
