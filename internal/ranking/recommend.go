// internal/ranking/recommend.go
package ranking

import (
	"context"
	"sort"
)

// GetTrendingProducts ranks products by short-window velocity growth and
// returns the top limit (all of them when limit <= 0).
func (e *Engine) GetTrendingProducts(products []Product, limit int) []TrendingProduct {
	w := e.config.Trending
	trending := make([]TrendingProduct, 0, len(products))

	for _, p := range products {
		a := p.Analytics
		tp := TrendingProduct{
			Product:       p,
			ViewVelocity:  ratio(a.ViewsLast7Days, a.ViewsPrevious7Days),
			SalesVelocity: ratio(a.SalesLast7Days, a.SalesPrevious7Days),
			WishVelocity:  ratio(a.WishlistLast7Days, a.WishlistPrevious7Days),
		}
		tp.TrendingScore = tp.ViewVelocity*w.Views + tp.SalesVelocity*w.Sales + tp.WishVelocity*w.Wishlist
		trending = append(trending, tp)
	}

	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].TrendingScore > trending[j].TrendingScore
	})

	if limit > 0 && len(trending) > limit {
		trending = trending[:limit]
	}
	return trending
}

// GetPersonalizedRecommendations scores products for userID against the
// market averages. Users without a stored profile get unpersonalized scores.
func (e *Engine) GetPersonalizedRecommendations(ctx context.Context, userID string, products []Product, limit int) []ScoredProduct {
	return e.RankForProfile(products, e.UserProfile(ctx, userID), limit)
}

// RankForProfile scores products against an already loaded profile. A nil
// user ranks without personalization.
func (e *Engine) RankForProfile(products []Product, user *UserProfile, limit int) []ScoredProduct {
	return e.rank(products, e.MarketContext(ContextPersonalized, user), limit)
}

// GetCategoryRecommendations filters products by category and, when given,
// subcategory slug before ranking them.
func (e *Engine) GetCategoryRecommendations(products []Product, categorySlug, subcategorySlug string, limit int) []ScoredProduct {
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if categorySlug != "" && p.CategorySlug != categorySlug {
			continue
		}
		if subcategorySlug != "" && p.SubcategorySlug != subcategorySlug {
			continue
		}
		filtered = append(filtered, p)
	}
	return e.rank(filtered, e.MarketContext(ContextCategory, nil), limit)
}

func (e *Engine) rank(products []Product, sc ScoreContext, limit int) []ScoredProduct {
	scored := make([]ScoredProduct, 0, len(products))
	for _, p := range products {
		scored = append(scored, ScoredProduct{
			Product: p,
			Result:  e.CalculateProductScore(p, sc),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Result.Score > scored[j].Result.Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
