package engine

import (
	"fmt"
	"time"

	"github.com/Jose-Ibz/VIM/internal/config"
	"github.com/Jose-Ibz/VIM/internal/domain"
)

// StockBasis selects which stock figure the order rules subtract.
type StockBasis string

const (
	// StockBasisEffective uses balance + on-order + customer back-orders.
	StockBasisEffective StockBasis = "effective"
	// StockBasisOnHand uses the raw stock balance only.
	StockBasisOnHand StockBasis = "on_hand_only"
)

// MonthDay is a recurring calendar date, used for the campaign window.
type MonthDay struct {
	Month time.Month
	Day   int
}

// Policy is the immutable rule set an Engine is constructed with. Separate
// engines may run different policies concurrently; nothing here is global.
type Policy struct {
	PriceLimit          float64
	NormalCoverMonths   float64
	CampaignFamily      int
	CampaignCoverMonths float64
	CampaignStart       MonthDay
	CampaignEnd         MonthDay
	ExceptionFamilies   map[int]bool
	StockBasis          StockBasis
}

// DefaultPolicy returns the production rule set: 1500 price limit, 2-month
// normal coverage, family 11 campaign from 16-Sep to 22-Nov at 9 months
// coverage, and the four exempt families.
func DefaultPolicy() Policy {
	return Policy{
		PriceLimit:          1500,
		NormalCoverMonths:   2,
		CampaignFamily:      11,
		CampaignCoverMonths: 9,
		CampaignStart:       MonthDay{Month: time.September, Day: 16},
		CampaignEnd:         MonthDay{Month: time.November, Day: 22},
		ExceptionFamilies:   map[int]bool{17: true, 18: true, 21: true, 42: true},
		StockBasis:          StockBasisEffective,
	}
}

// PolicyFromConfig builds an engine policy from the loaded configuration.
func PolicyFromConfig(cfg config.PolicyConfig) (Policy, error) {
	start, err := parseMonthDay(cfg.CampaignStart)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid campaign start: %w", err)
	}
	end, err := parseMonthDay(cfg.CampaignEnd)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid campaign end: %w", err)
	}

	basis := StockBasis(cfg.StockBasis)
	switch basis {
	case StockBasisEffective, StockBasisOnHand:
	default:
		return Policy{}, fmt.Errorf("unknown stock basis %q", cfg.StockBasis)
	}

	families := make(map[int]bool, len(cfg.ExceptionFamilies))
	for _, f := range cfg.ExceptionFamilies {
		families[f] = true
	}

	return Policy{
		PriceLimit:          cfg.PriceLimit,
		NormalCoverMonths:   cfg.NormalCoverMonths,
		CampaignFamily:      cfg.CampaignFamily,
		CampaignCoverMonths: cfg.CampaignCoverMonths,
		CampaignStart:       start,
		CampaignEnd:         end,
		ExceptionFamilies:   families,
		StockBasis:          basis,
	}, nil
}

// InCampaign reports whether the date falls within the annual campaign
// window, boundaries included.
func (p Policy) InCampaign(asOf time.Time) bool {
	year := asOf.Year()
	start := time.Date(year, p.CampaignStart.Month, p.CampaignStart.Day, 0, 0, 0, 0, asOf.Location())
	end := time.Date(year, p.CampaignEnd.Month, p.CampaignEnd.Day, 23, 59, 59, 0, asOf.Location())
	return !asOf.Before(start) && !asOf.After(end)
}

// stockOf returns the stock figure the configured basis selects.
func (p Policy) stockOf(item domain.ItemRecord) float64 {
	if p.StockBasis == StockBasisOnHand {
		return item.StockBalance
	}
	return item.EffectiveStock
}

func (p Policy) isException(item domain.ItemRecord) bool {
	return p.ExceptionFamilies[item.Family]
}

func parseMonthDay(value string) (MonthDay, error) {
	t, err := time.Parse("01-02", value)
	if err != nil {
		return MonthDay{}, err
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}
