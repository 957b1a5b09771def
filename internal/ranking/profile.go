// internal/ranking/profile.go
package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrProfileNotFound = errors.New("user profile not found")
	ErrUnknownBehavior = errors.New("unknown behavior type")
	ErrNoProfileStore  = errors.New("no profile store configured")
	ErrEmptyUserID     = errors.New("user id is required")
)

// ProfileStore persists user profiles. Update must apply fn atomically with
// respect to other updates of the same user; fn receives an empty profile
// when none exists yet.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*UserProfile, error)
	Update(ctx context.Context, userID string, fn func(*UserProfile) error) (*UserProfile, error)
}

// UserProfile returns the stored profile of userID, or nil when there is none
// or the store cannot be reached.
func (e *Engine) UserProfile(ctx context.Context, userID string) *UserProfile {
	if e.store == nil || userID == "" {
		return nil
	}
	profile, err := e.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			e.logger.Warn("failed to fetch user profile", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
		return nil
	}
	return profile
}

// UpdateUserProfile folds one behavior into the user's profile.
func (e *Engine) UpdateUserProfile(ctx context.Context, userID string, b Behavior) (*UserProfile, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if b.Type != BehaviorView && b.Type != BehaviorPurchase {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBehavior, b.Type)
	}
	if e.store == nil {
		return nil, ErrNoProfileStore
	}

	at := b.At
	if at.IsZero() {
		at = e.now()
	}

	profile, err := e.store.Update(ctx, userID, func(p *UserProfile) error {
		applyBehavior(p, b, at)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", userID, err)
	}

	e.logger.Debug("user profile updated", map[string]interface{}{
		"userId":        userID,
		"behavior":      b.Type,
		"avgPriceRange": profile.AvgPriceRange,
	})
	return profile, nil
}

func applyBehavior(p *UserProfile, b Behavior, at time.Time) {
	if p.ViewedCategories == nil {
		p.ViewedCategories = make(map[string]int)
	}
	if p.ViewedBrands == nil {
		p.ViewedBrands = make(map[string]int)
	}

	switch b.Type {
	case BehaviorView:
		if b.Category != "" {
			p.ViewedCategories[b.Category]++
		}
		if b.Brand != "" {
			p.ViewedBrands[b.Brand]++
		}
	case BehaviorPurchase:
		p.PurchaseHistory = append(p.PurchaseHistory, Purchase{
			ProductID:   b.ProductID,
			Price:       b.Price,
			Category:    b.Category,
			PurchasedAt: at,
		})
		total := 0.0
		for _, purchase := range p.PurchaseHistory {
			total += purchase.Price
		}
		p.AvgPriceRange = total / float64(len(p.PurchaseHistory))
	}

	p.LastActivity = at
}
