// internal/profile/memory.go
package profile

import (
	"context"
	"sync"

	"product-ranking/internal/ranking"
)

// MemoryStore keeps profiles in process memory. Returned profiles are copies.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*ranking.UserProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*ranking.UserProfile)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*ranking.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ranking.ErrProfileNotFound
	}
	return clone(p), nil
}

func (s *MemoryStore) Update(ctx context.Context, userID string, fn func(*ranking.UserProfile) error) (*ranking.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if ok {
		p = clone(p)
	} else {
		p = ranking.NewUserProfile(userID)
	}
	if err := fn(p); err != nil {
		return nil, err
	}

	s.profiles[userID] = p
	return clone(p), nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func clone(p *ranking.UserProfile) *ranking.UserProfile {
	out := *p
	out.ViewedCategories = make(map[string]int, len(p.ViewedCategories))
	for k, v := range p.ViewedCategories {
		out.ViewedCategories[k] = v
	}
	out.ViewedBrands = make(map[string]int, len(p.ViewedBrands))
	for k, v := range p.ViewedBrands {
		out.ViewedBrands[k] = v
	}
	out.PurchaseHistory = append([]ranking.Purchase(nil), p.PurchaseHistory...)
	return &out
}
