// internal/ranking/models.go
package ranking

import "time"

// Product is the snapshot the scorer reads. Zero values mean "absent".
type Product struct {
	ID              string     `json:"id"`
	Name            string     `json:"name,omitempty"`
	Price           float64    `json:"price"`
	StockQuantity   int        `json:"stock_quantity"`
	CategorySlug    string     `json:"category_slug,omitempty"`
	SubcategorySlug string     `json:"subcategory_slug,omitempty"`
	Brand           string     `json:"brand,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	Analytics       Analytics  `json:"analytics"`
	Seller          *Seller    `json:"seller,omitempty"`
	Images          []string   `json:"images,omitempty"`
	Description     string     `json:"description,omitempty"`
	AvgRating       float64    `json:"avg_rating,omitempty"`
	ShippingDays    float64    `json:"shipping_days,omitempty"`
	Campaigns       []Campaign `json:"campaigns,omitempty"`
	AdminBoost      float64    `json:"admin_boost,omitempty"`
}

// Analytics holds rolling window counters.
type Analytics struct {
	ViewsLast7Days        int     `json:"views_last_7_days"`
	ViewsPrevious7Days    int     `json:"views_previous_7_days"`
	ViewsLast30Days       int     `json:"views_last_30_days"`
	SalesLast7Days        int     `json:"sales_last_7_days"`
	SalesPrevious7Days    int     `json:"sales_previous_7_days"`
	SalesLast30Days       int     `json:"sales_last_30_days"`
	WishlistLast7Days     int     `json:"wishlist_adds_last_7_days"`
	WishlistPrevious7Days int     `json:"wishlist_adds_previous_7_days"`
	WishlistLast30Days    int     `json:"wishlist_adds_last_30_days"`
	CartAddsLast30Days    int     `json:"cart_adds_last_30_days"`
	SocialShares          int     `json:"social_shares"`
	Impressions           int     `json:"impressions"`
	Clicks                int     `json:"clicks"`
	RevenueLast30Days     float64 `json:"revenue_last_30_days"`
	ReturnRate            float64 `json:"return_rate"`
}

type Seller struct {
	ID                  string  `json:"id,omitempty"`
	Rating              float64 `json:"rating"`
	AvgResponseHours    float64 `json:"avg_response_hours"`
	AvgFulfillmentHours float64 `json:"avg_fulfillment_hours"`
}

type Campaign struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Priority float64 `json:"priority"`
}

// UserProfile is the behavioral profile built by UpdateUserProfile.
type UserProfile struct {
	UserID           string         `json:"userId"`
	ViewedCategories map[string]int `json:"viewedCategories"`
	ViewedBrands     map[string]int `json:"viewedBrands"`
	PurchaseHistory  []Purchase     `json:"purchaseHistory"`
	AvgPriceRange    float64        `json:"avgPriceRange"`
	LastActivity     time.Time      `json:"lastActivity"`
}

type Purchase struct {
	ProductID   string    `json:"productId,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	PurchasedAt time.Time `json:"purchasedAt"`
}

// NewUserProfile returns an empty profile with initialized maps.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:           userID,
		ViewedCategories: make(map[string]int),
		ViewedBrands:     make(map[string]int),
		PurchaseHistory:  []Purchase{},
	}
}

const (
	BehaviorView     = "view"
	BehaviorPurchase = "purchase"
)

// Behavior is a single user interaction fed into UpdateUserProfile.
type Behavior struct {
	Type      string    `json:"type"`
	ProductID string    `json:"productId,omitempty"`
	Category  string    `json:"category,omitempty"`
	Brand     string    `json:"brand,omitempty"`
	Price     float64   `json:"price,omitempty"`
	At        time.Time `json:"at,omitempty"`
}

const (
	ContextGeneral      = "general"
	ContextPersonalized = "personalized"
	ContextCategory     = "category"
)

// ScoreContext carries the market references and the optional user for one scoring call.
type ScoreContext struct {
	Market MarketAverages
	User   *UserProfile
	Type   string
	Now    time.Time
}

type ScoreResult struct {
	ProductID   string      `json:"productId"`
	Score       float64     `json:"score"`
	Breakdown   Breakdown   `json:"breakdown"`
	Multipliers Multipliers `json:"multipliers"`
	Metadata    Metadata    `json:"metadata"`
}

type Breakdown struct {
	Sales      SalesScore      `json:"sales"`
	Engagement EngagementScore `json:"engagement"`
	Inventory  InventoryScore  `json:"inventory"`
	Seller     SellerScore     `json:"seller"`
	Content    ContentScore    `json:"content"`
	Admin      AdminScore      `json:"admin"`
}

type SalesScore struct {
	Score      float64 `json:"score"`
	Velocity   float64 `json:"velocity"`
	Conversion float64 `json:"conversion"`
	Revenue    float64 `json:"revenue"`
	AOV        float64 `json:"aov"`
}

type EngagementScore struct {
	Score    float64 `json:"score"`
	Views    float64 `json:"views"`
	Wishlist float64 `json:"wishlist"`
	Cart     float64 `json:"cart"`
	Social   float64 `json:"social"`
	CTR      float64 `json:"ctr"`
}

type InventoryScore struct {
	Score    float64 `json:"score"`
	Stock    float64 `json:"stock"`
	Shipping float64 `json:"shipping"`
	Returns  float64 `json:"returns"`
	Turnover float64 `json:"turnover"`
}

type SellerScore struct {
	Score       float64 `json:"score"`
	Rating      float64 `json:"rating"`
	Response    float64 `json:"response"`
	Fulfillment float64 `json:"fulfillment"`
}

type ContentScore struct {
	Score       float64 `json:"score"`
	Images      float64 `json:"images"`
	Description float64 `json:"description"`
	Reviews     float64 `json:"reviews"`
}

type AdminScore struct {
	Score    float64 `json:"score"`
	Boost    float64 `json:"boost"`
	Campaign float64 `json:"campaign"`
}

type Multipliers struct {
	TimeDecay       float64 `json:"timeDecay"`
	Seasonal        float64 `json:"seasonal"`
	Personalization float64 `json:"personalization"`
}

type Metadata struct {
	CalculatedAt     time.Time `json:"calculatedAt"`
	AlgorithmVersion string    `json:"algorithmVersion"`
	ContextType      string    `json:"contextType"`
}

// ScoredProduct pairs a product with its score for ranked lists.
type ScoredProduct struct {
	Product Product     `json:"product"`
	Result  ScoreResult `json:"result"`
}

// TrendingProduct pairs a product with its trending score.
type TrendingProduct struct {
	Product       Product `json:"product"`
	TrendingScore float64 `json:"trendingScore"`
	ViewVelocity  float64 `json:"viewVelocity"`
	SalesVelocity float64 `json:"salesVelocity"`
	WishVelocity  float64 `json:"wishlistVelocity"`
}
