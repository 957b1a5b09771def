// internal/ranking/multipliers.go
package ranking

import (
	"math"
	"time"
)

// timeDecay walks the configured age buckets. Products without a creation
// date get Defaults.MissingAgeDecay.
func (e *Engine) timeDecay(createdAt *time.Time, now time.Time) float64 {
	if createdAt == nil || createdAt.IsZero() {
		return e.config.Defaults.MissingAgeDecay
	}

	ageDays := now.Sub(*createdAt).Hours() / 24
	for _, b := range e.config.TimeDecay {
		if b.MaxAgeDays <= 0 || ageDays <= b.MaxAgeDays {
			return b.Factor
		}
	}
	return e.config.TimeDecay[len(e.config.TimeDecay)-1].Factor
}

func (e *Engine) seasonalBoost(categorySlug string, now time.Time) float64 {
	rule, ok := e.config.Seasonal[categorySlug]
	if !ok {
		return 1.0
	}

	month := int(now.Month())
	for _, m := range rule.Months {
		if m == month {
			return rule.InSeason
		}
	}
	if rule.OffSeason > 0 {
		return rule.OffSeason
	}
	return 1.0
}

// personalizationBoost combines category affinity, price proximity and brand familiarity.
func (e *Engine) personalizationBoost(p Product, user *UserProfile) float64 {
	if user == nil {
		return 1.0
	}
	cfg := e.config.Personalization
	boost := 1.0

	totalViews := 0
	for _, n := range user.ViewedCategories {
		totalViews += n
	}
	if totalViews > 0 && p.CategorySlug != "" {
		preference := float64(user.ViewedCategories[p.CategorySlug]) / float64(totalViews)
		boost *= 1 + preference*cfg.CategoryWeight
	}

	if user.AvgPriceRange > 0 && p.Price > 0 {
		distance := math.Abs(p.Price-user.AvgPriceRange) / user.AvgPriceRange
		boost *= math.Max(cfg.PriceFloor, cfg.PriceCeiling-distance)
	}

	if p.Brand != "" && user.ViewedBrands[p.Brand] > 0 {
		boost *= cfg.BrandBoost
	}

	return boost
}
