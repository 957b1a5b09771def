// internal/ranking/config.go
package ranking

import (
	"fmt"
	"math"
)

const AlgorithmVersion = "2.1.0"

// Config holds every tunable of the scorer. It is loaded from the ranking
// section of the service configuration and validated before use.
type Config struct {
	Weights         CategoryWeights         `mapstructure:"weights" json:"weights"`
	Sales           SalesWeights            `mapstructure:"sales" json:"sales"`
	Engagement      EngagementWeights       `mapstructure:"engagement" json:"engagement"`
	Inventory       InventoryWeights        `mapstructure:"inventory" json:"inventory"`
	Seller          SellerWeights           `mapstructure:"seller" json:"seller"`
	Content         ContentWeights          `mapstructure:"content" json:"content"`
	Admin           AdminWeights            `mapstructure:"admin" json:"admin"`
	Trending        TrendingWeights         `mapstructure:"trending" json:"trending"`
	Market          MarketAverages          `mapstructure:"market" json:"market"`
	References      References              `mapstructure:"references" json:"references"`
	Defaults        Defaults                `mapstructure:"defaults" json:"defaults"`
	TimeDecay       []DecayBucket           `mapstructure:"time_decay" json:"timeDecay"`
	Seasonal        map[string]SeasonalRule `mapstructure:"seasonal" json:"seasonal"`
	Personalization PersonalizationConfig   `mapstructure:"personalization" json:"personalization"`
}

// CategoryWeights is the top-level allocation across the six factor groups.
type CategoryWeights struct {
	Sales      float64 `mapstructure:"sales" json:"sales"`
	Engagement float64 `mapstructure:"engagement" json:"engagement"`
	Inventory  float64 `mapstructure:"inventory" json:"inventory"`
	Seller     float64 `mapstructure:"seller" json:"seller"`
	Content    float64 `mapstructure:"content" json:"content"`
	Admin      float64 `mapstructure:"admin" json:"admin"`
}

func (w CategoryWeights) sum() float64 {
	return w.Sales + w.Engagement + w.Inventory + w.Seller + w.Content + w.Admin
}

type SalesWeights struct {
	Velocity   float64 `mapstructure:"velocity" json:"velocity"`
	Conversion float64 `mapstructure:"conversion" json:"conversion"`
	Revenue    float64 `mapstructure:"revenue" json:"revenue"`
	AOV        float64 `mapstructure:"aov" json:"aov"`
}

type EngagementWeights struct {
	Views    float64 `mapstructure:"views" json:"views"`
	Wishlist float64 `mapstructure:"wishlist" json:"wishlist"`
	Cart     float64 `mapstructure:"cart" json:"cart"`
	Social   float64 `mapstructure:"social" json:"social"`
	CTR      float64 `mapstructure:"ctr" json:"ctr"`
}

type InventoryWeights struct {
	Stock    float64 `mapstructure:"stock" json:"stock"`
	Shipping float64 `mapstructure:"shipping" json:"shipping"`
	Returns  float64 `mapstructure:"returns" json:"returns"`
	Turnover float64 `mapstructure:"turnover" json:"turnover"`
}

type SellerWeights struct {
	Rating      float64 `mapstructure:"rating" json:"rating"`
	Response    float64 `mapstructure:"response" json:"response"`
	Fulfillment float64 `mapstructure:"fulfillment" json:"fulfillment"`
}

type ContentWeights struct {
	Images      float64 `mapstructure:"images" json:"images"`
	Description float64 `mapstructure:"description" json:"description"`
	Reviews     float64 `mapstructure:"reviews" json:"reviews"`
}

type AdminWeights struct {
	Boost    float64 `mapstructure:"boost" json:"boost"`
	Campaign float64 `mapstructure:"campaign" json:"campaign"`
}

type TrendingWeights struct {
	Views    float64 `mapstructure:"views" json:"views"`
	Sales    float64 `mapstructure:"sales" json:"sales"`
	Wishlist float64 `mapstructure:"wishlist" json:"wishlist"`
}

// MarketAverages are the reference values the recommendation lists score against.
type MarketAverages struct {
	AvgRevenue    float64 `mapstructure:"avg_revenue" json:"avgRevenue"`
	AvgOrderValue float64 `mapstructure:"avg_order_value" json:"avgOrderValue"`
	AvgViews      float64 `mapstructure:"avg_views" json:"avgViews"`
}

// References are the normalization constants of the individual sub-signals.
type References struct {
	WeeksPerMonth       float64 `mapstructure:"weeks_per_month" json:"weeksPerMonth"`
	VelocityCeiling     float64 `mapstructure:"velocity_ceiling" json:"velocityCeiling"`
	OptimalStock        float64 `mapstructure:"optimal_stock" json:"optimalStock"`
	MaxShippingDays     float64 `mapstructure:"max_shipping_days" json:"maxShippingDays"`
	MonthlyTurnover     float64 `mapstructure:"monthly_turnover" json:"monthlyTurnover"`
	SocialShareCap      float64 `mapstructure:"social_share_cap" json:"socialShareCap"`
	MaxResponseHours    float64 `mapstructure:"max_response_hours" json:"maxResponseHours"`
	MaxFulfillmentHours float64 `mapstructure:"max_fulfillment_hours" json:"maxFulfillmentHours"`
	ImageTarget         float64 `mapstructure:"image_target" json:"imageTarget"`
	DescriptionTarget   float64 `mapstructure:"description_target" json:"descriptionTarget"`
	MaxCampaignPriority float64 `mapstructure:"max_campaign_priority" json:"maxCampaignPriority"`
}

// Defaults stand in for signals a product record does not carry.
type Defaults struct {
	ShippingDays     float64 `mapstructure:"shipping_days" json:"shippingDays"`
	ResponseHours    float64 `mapstructure:"response_hours" json:"responseHours"`
	FulfillmentHours float64 `mapstructure:"fulfillment_hours" json:"fulfillmentHours"`
	SellerRating     float64 `mapstructure:"seller_rating" json:"sellerRating"`
	ReviewRating     float64 `mapstructure:"review_rating" json:"reviewRating"`
	MissingAgeDecay  float64 `mapstructure:"missing_age_decay" json:"missingAgeDecay"`
}

// DecayBucket applies Factor to products no older than MaxAgeDays.
// A bucket with MaxAgeDays <= 0 matches every remaining age.
type DecayBucket struct {
	MaxAgeDays float64 `mapstructure:"max_age_days" json:"maxAgeDays"`
	Factor     float64 `mapstructure:"factor" json:"factor"`
}

// SeasonalRule boosts a category during its months. OffSeason of zero means 1.0.
type SeasonalRule struct {
	Months    []int   `mapstructure:"months" json:"months"`
	InSeason  float64 `mapstructure:"in_season" json:"inSeason"`
	OffSeason float64 `mapstructure:"off_season" json:"offSeason"`
}

type PersonalizationConfig struct {
	CategoryWeight float64 `mapstructure:"category_weight" json:"categoryWeight"`
	PriceCeiling   float64 `mapstructure:"price_ceiling" json:"priceCeiling"`
	PriceFloor     float64 `mapstructure:"price_floor" json:"priceFloor"`
	BrandBoost     float64 `mapstructure:"brand_boost" json:"brandBoost"`
}

// DefaultConfig returns the production weight tables.
func DefaultConfig() Config {
	return Config{
		Weights: CategoryWeights{
			Sales:      0.40,
			Engagement: 0.25,
			Inventory:  0.15,
			Seller:     0.10,
			Content:    0.05,
			Admin:      0.05,
		},
		Sales:      SalesWeights{Velocity: 0.4, Conversion: 0.3, Revenue: 0.2, AOV: 0.1},
		Engagement: EngagementWeights{Views: 0.3, Wishlist: 0.25, Cart: 0.25, Social: 0.1, CTR: 0.1},
		Inventory:  InventoryWeights{Stock: 0.4, Shipping: 0.3, Returns: 0.2, Turnover: 0.1},
		Seller:     SellerWeights{Rating: 0.5, Response: 0.25, Fulfillment: 0.25},
		Content:    ContentWeights{Images: 0.4, Description: 0.4, Reviews: 0.2},
		Admin:      AdminWeights{Boost: 0.6, Campaign: 0.4},
		Trending:   TrendingWeights{Views: 0.4, Sales: 0.4, Wishlist: 0.2},
		Market: MarketAverages{
			AvgRevenue:    10000,
			AvgOrderValue: 250,
			AvgViews:      1000,
		},
		References: References{
			WeeksPerMonth:       4.3,
			VelocityCeiling:     2.0,
			OptimalStock:        50,
			MaxShippingDays:     7,
			MonthlyTurnover:     1.0,
			SocialShareCap:      10,
			MaxResponseHours:    24,
			MaxFulfillmentHours: 48,
			ImageTarget:         5,
			DescriptionTarget:   500,
			MaxCampaignPriority: 10,
		},
		Defaults: Defaults{
			ShippingDays:     3,
			ResponseHours:    12,
			FulfillmentHours: 24,
			SellerRating:     3,
			ReviewRating:     3,
			MissingAgeDecay:  0.7,
		},
		TimeDecay: []DecayBucket{
			{MaxAgeDays: 1, Factor: 1.0},
			{MaxAgeDays: 7, Factor: 0.9},
			{MaxAgeDays: 30, Factor: 0.7},
			{MaxAgeDays: 90, Factor: 0.4},
			{MaxAgeDays: 0, Factor: 0.2},
		},
		Seasonal: map[string]SeasonalRule{
			"winter-clothing": {Months: []int{12, 1, 2}, InSeason: 1.3, OffSeason: 0.8},
			"summer-clothing": {Months: []int{6, 7, 8}, InSeason: 1.3, OffSeason: 0.8},
			"swimwear":        {Months: []int{5, 6, 7, 8}, InSeason: 1.4, OffSeason: 0.7},
			"garden":          {Months: []int{3, 4, 5, 6}, InSeason: 1.2},
			"school-supplies": {Months: []int{8, 9}, InSeason: 1.4},
			"toys":            {Months: []int{11, 12}, InSeason: 1.5},
		},
		Personalization: PersonalizationConfig{
			CategoryWeight: 0.3,
			PriceCeiling:   1.1,
			PriceFloor:     0.5,
			BrandBoost:     1.1,
		},
	}
}

const weightTolerance = 1e-6

// Validate checks that every blend sums to one and that the tables are usable.
func (c Config) Validate() error {
	blends := map[string]float64{
		"weights":    c.Weights.sum(),
		"sales":      c.Sales.Velocity + c.Sales.Conversion + c.Sales.Revenue + c.Sales.AOV,
		"engagement": c.Engagement.Views + c.Engagement.Wishlist + c.Engagement.Cart + c.Engagement.Social + c.Engagement.CTR,
		"inventory":  c.Inventory.Stock + c.Inventory.Shipping + c.Inventory.Returns + c.Inventory.Turnover,
		"seller":     c.Seller.Rating + c.Seller.Response + c.Seller.Fulfillment,
		"content":    c.Content.Images + c.Content.Description + c.Content.Reviews,
		"admin":      c.Admin.Boost + c.Admin.Campaign,
		"trending":   c.Trending.Views + c.Trending.Sales + c.Trending.Wishlist,
	}
	for name, total := range blends {
		if math.Abs(total-1.0) > weightTolerance {
			return fmt.Errorf("ranking.%s must sum to 1.0, got %.4f", name, total)
		}
	}

	if c.Market.AvgRevenue <= 0 || c.Market.AvgOrderValue <= 0 || c.Market.AvgViews <= 0 {
		return fmt.Errorf("ranking.market averages must be positive")
	}

	r := c.References
	for name, v := range map[string]float64{
		"weeks_per_month":       r.WeeksPerMonth,
		"velocity_ceiling":      r.VelocityCeiling,
		"optimal_stock":         r.OptimalStock,
		"max_shipping_days":     r.MaxShippingDays,
		"monthly_turnover":      r.MonthlyTurnover,
		"social_share_cap":      r.SocialShareCap,
		"max_response_hours":    r.MaxResponseHours,
		"max_fulfillment_hours": r.MaxFulfillmentHours,
		"image_target":          r.ImageTarget,
		"description_target":    r.DescriptionTarget,
		"max_campaign_priority": r.MaxCampaignPriority,
	} {
		if v <= 0 {
			return fmt.Errorf("ranking.references.%s must be positive", name)
		}
	}

	if len(c.TimeDecay) == 0 {
		return fmt.Errorf("ranking.time_decay requires at least one bucket")
	}
	last := 0.0
	for i, b := range c.TimeDecay {
		if b.MaxAgeDays <= 0 && i != len(c.TimeDecay)-1 {
			return fmt.Errorf("ranking.time_decay[%d]: open-ended bucket must be last", i)
		}
		if b.MaxAgeDays > 0 && b.MaxAgeDays <= last {
			return fmt.Errorf("ranking.time_decay[%d]: max_age_days must increase", i)
		}
		if b.Factor < 0 {
			return fmt.Errorf("ranking.time_decay[%d]: factor must not be negative", i)
		}
		last = b.MaxAgeDays
	}

	for slug, rule := range c.Seasonal {
		for _, m := range rule.Months {
			if m < 1 || m > 12 {
				return fmt.Errorf("ranking.seasonal.%s: month %d out of range", slug, m)
			}
		}
		if rule.InSeason <= 0 {
			return fmt.Errorf("ranking.seasonal.%s: in_season must be positive", slug)
		}
	}

	if c.Personalization.PriceFloor < 0 || c.Personalization.PriceFloor > c.Personalization.PriceCeiling {
		return fmt.Errorf("ranking.personalization: price_floor must be between 0 and price_ceiling")
	}

	return nil
}
