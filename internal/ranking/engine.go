// internal/ranking/engine.go
package ranking

import (
	"fmt"
	"math"
	"time"
	"unicode/utf16"

	"product-ranking/internal/common/logger"
)

// Engine scores products. It holds no mutable state of its own; user
// profiles live behind the injected ProfileStore.
type Engine struct {
	config Config
	store  ProfileStore
	logger logger.Logger
	now    func() time.Time
}

// NewEngine validates cfg and builds an Engine. store may be nil, in which
// case personalization is disabled and profile updates fail with ErrNoProfileStore.
func NewEngine(cfg Config, store ProfileStore, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking config: %w", err)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{
		config: cfg,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "ranking-engine"}),
		now:    time.Now,
	}, nil
}

func (e *Engine) Config() Config {
	return e.config
}

// MarketContext returns a ScoreContext populated with the configured market averages.
func (e *Engine) MarketContext(contextType string, user *UserProfile) ScoreContext {
	return ScoreContext{
		Market: e.config.Market,
		User:   user,
		Type:   contextType,
		Now:    e.now(),
	}
}

// CalculateProductScore computes the 0-100 ranking score of p.
func (e *Engine) CalculateProductScore(p Product, sc ScoreContext) ScoreResult {
	if sc.Now.IsZero() {
		sc.Now = e.now()
	}
	if sc.Type == "" {
		sc.Type = ContextGeneral
	}
	market := e.marketOrDefault(sc.Market)

	breakdown := Breakdown{
		Sales:      e.salesScore(p, market),
		Engagement: e.engagementScore(p, market),
		Inventory:  e.inventoryScore(p),
		Seller:     e.sellerScore(p),
		Content:    e.contentScore(p),
		Admin:      e.adminScore(p),
	}

	w := e.config.Weights
	base := breakdown.Sales.Score*w.Sales +
		breakdown.Engagement.Score*w.Engagement +
		breakdown.Inventory.Score*w.Inventory +
		breakdown.Seller.Score*w.Seller +
		breakdown.Content.Score*w.Content +
		breakdown.Admin.Score*w.Admin

	multipliers := Multipliers{
		TimeDecay:       e.timeDecay(p.CreatedAt, sc.Now),
		Seasonal:        e.seasonalBoost(p.CategorySlug, sc.Now),
		Personalization: e.personalizationBoost(p, sc.User),
	}

	score := base * multipliers.TimeDecay * multipliers.Seasonal * multipliers.Personalization * 100
	score = math.Round(clamp(score, 0, 100)*100) / 100

	return ScoreResult{
		ProductID:   p.ID,
		Score:       score,
		Breakdown:   breakdown,
		Multipliers: multipliers,
		Metadata: Metadata{
			CalculatedAt:     sc.Now,
			AlgorithmVersion: AlgorithmVersion,
			ContextType:      sc.Type,
		},
	}
}

func (e *Engine) marketOrDefault(m MarketAverages) MarketAverages {
	if m.AvgRevenue <= 0 {
		m.AvgRevenue = e.config.Market.AvgRevenue
	}
	if m.AvgOrderValue <= 0 {
		m.AvgOrderValue = e.config.Market.AvgOrderValue
	}
	if m.AvgViews <= 0 {
		m.AvgViews = e.config.Market.AvgViews
	}
	return m
}

func (e *Engine) salesScore(p Product, market MarketAverages) SalesScore {
	a := p.Analytics
	ref := e.config.References

	weeklyAverage := float64(a.SalesLast30Days) / ref.WeeksPerMonth
	velocityRatio := float64(a.SalesLast7Days) / math.Max(weeklyAverage, 1)

	revenue := a.RevenueLast30Days
	if revenue <= 0 {
		revenue = p.Price * float64(a.SalesLast30Days)
	}
	aov := revenue / floorOne(float64(a.SalesLast30Days))

	s := SalesScore{
		Velocity:   capOne(velocityRatio / ref.VelocityCeiling),
		Conversion: capOne(ratio(a.SalesLast30Days, a.ViewsLast30Days)),
		Revenue:    capOne(revenue / market.AvgRevenue),
		AOV:        capOne(aov / market.AvgOrderValue),
	}
	w := e.config.Sales
	s.Score = s.Velocity*w.Velocity + s.Conversion*w.Conversion + s.Revenue*w.Revenue + s.AOV*w.AOV
	return s
}

func (e *Engine) engagementScore(p Product, market MarketAverages) EngagementScore {
	a := p.Analytics
	ref := e.config.References

	s := EngagementScore{
		Views:    capOne(float64(a.ViewsLast30Days) / market.AvgViews),
		Wishlist: capOne(ratio(a.WishlistLast30Days, a.ViewsLast30Days)),
		Cart:     capOne(ratio(a.CartAddsLast30Days, a.ViewsLast30Days)),
		Social:   math.Min(float64(max(a.SocialShares, 0)), ref.SocialShareCap) / ref.SocialShareCap,
		CTR:      capOne(ratio(a.Clicks, a.Impressions)),
	}
	w := e.config.Engagement
	s.Score = s.Views*w.Views + s.Wishlist*w.Wishlist + s.Cart*w.Cart + s.Social*w.Social + s.CTR*w.CTR
	return s
}

func (e *Engine) inventoryScore(p Product) InventoryScore {
	a := p.Analytics
	ref := e.config.References

	shippingDays := p.ShippingDays
	if shippingDays <= 0 {
		shippingDays = e.config.Defaults.ShippingDays
	}
	stock := float64(max(p.StockQuantity, 0))
	turnover := float64(a.SalesLast30Days) / floorOne(stock)

	s := InventoryScore{
		Stock:    capOne(stock / ref.OptimalStock),
		Shipping: clamp(1-shippingDays/ref.MaxShippingDays, 0, 1),
		Returns:  clamp(1-a.ReturnRate, 0, 1),
		Turnover: capOne(turnover / ref.MonthlyTurnover),
	}
	w := e.config.Inventory
	s.Score = s.Stock*w.Stock + s.Shipping*w.Shipping + s.Returns*w.Returns + s.Turnover*w.Turnover
	return s
}

func (e *Engine) sellerScore(p Product) SellerScore {
	ref := e.config.References
	d := e.config.Defaults

	rating, response, fulfillment := d.SellerRating, d.ResponseHours, d.FulfillmentHours
	if p.Seller != nil {
		if p.Seller.Rating > 0 {
			rating = p.Seller.Rating
		}
		if p.Seller.AvgResponseHours > 0 {
			response = p.Seller.AvgResponseHours
		}
		if p.Seller.AvgFulfillmentHours > 0 {
			fulfillment = p.Seller.AvgFulfillmentHours
		}
	}

	s := SellerScore{
		Rating:      normalizeRating(rating),
		Response:    clamp(1-response/ref.MaxResponseHours, 0, 1),
		Fulfillment: clamp(1-fulfillment/ref.MaxFulfillmentHours, 0, 1),
	}
	w := e.config.Seller
	s.Score = s.Rating*w.Rating + s.Response*w.Response + s.Fulfillment*w.Fulfillment
	return s
}

func (e *Engine) contentScore(p Product) ContentScore {
	ref := e.config.References

	rating := p.AvgRating
	if rating <= 0 {
		rating = e.config.Defaults.ReviewRating
	}
	descLen := float64(len(utf16.Encode([]rune(p.Description))))

	s := ContentScore{
		Images:      math.Min(float64(len(p.Images)), ref.ImageTarget) / ref.ImageTarget,
		Description: math.Min(descLen, ref.DescriptionTarget) / ref.DescriptionTarget,
		Reviews:     normalizeRating(rating),
	}
	w := e.config.Content
	s.Score = s.Images*w.Images + s.Description*w.Description + s.Reviews*w.Reviews
	return s
}

func (e *Engine) adminScore(p Product) AdminScore {
	maxPriority := 0.0
	for _, c := range p.Campaigns {
		if c.Priority > maxPriority {
			maxPriority = c.Priority
		}
	}

	s := AdminScore{
		Boost:    clamp(p.AdminBoost, 0, 1),
		Campaign: clamp(maxPriority/e.config.References.MaxCampaignPriority, 0, 1),
	}
	w := e.config.Admin
	s.Score = s.Boost*w.Boost + s.Campaign*w.Campaign
	return s
}

// normalizeRating maps a 1-5 star rating onto 0-1.
func normalizeRating(r float64) float64 {
	return clamp((r-1)/4, 0, 1)
}

// ratio divides with the denominator floored at 1.
func ratio(num, den int) float64 {
	return float64(max(num, 0)) / floorOne(float64(den))
}

func floorOne(v float64) float64 {
	return math.Max(v, 1)
}

func capOne(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
