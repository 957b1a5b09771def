// internal/profile/redis.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"product-ranking/internal/common/logger"
	"product-ranking/internal/ranking"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix  = "user_profile"
	DefaultTTL        = 30 * 24 * time.Hour
	DefaultMaxRetries = 5
)

// ErrUpdateConflict is returned when optimistic updates keep losing the race.
var ErrUpdateConflict = errors.New("profile update conflict: retries exhausted")

type RedisConfig struct {
	KeyPrefix  string        `mapstructure:"key_prefix"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// RedisStore stores each profile as JSON under <prefix>:<userID>.
type RedisStore struct {
	client redis.UniversalClient
	config RedisConfig
	logger logger.Logger
}

func NewRedisStore(client redis.UniversalClient, cfg RedisConfig, log logger.Logger) *RedisStore {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RedisStore{
		client: client,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "profile-store"}),
	}
}

func (s *RedisStore) key(userID string) string {
	return fmt.Sprintf("%s:%s", s.config.KeyPrefix, userID)
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*ranking.UserProfile, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ranking.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get profile: %w", err)
	}
	return decode(userID, raw)
}

// Update reads, mutates and writes the profile inside WATCH/MULTI, retrying
// when another writer touched the key in between.
func (s *RedisStore) Update(ctx context.Context, userID string, fn func(*ranking.UserProfile) error) (*ranking.UserProfile, error) {
	key := s.key(userID)
	var result *ranking.UserProfile

	txf := func(tx *redis.Tx) error {
		var p *ranking.UserProfile
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			p = ranking.NewUserProfile(userID)
		case err != nil:
			return fmt.Errorf("redis get profile: %w", err)
		default:
			if p, err = decode(userID, raw); err != nil {
				return err
			}
		}

		if err := fn(p); err != nil {
			return err
		}

		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.config.TTL)
			return nil
		})
		if err != nil {
			return err
		}
		result = p
		return nil
	}

	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		s.logger.Debug("profile update conflict, retrying", map[string]interface{}{
			"userId":  userID,
			"attempt": attempt,
		})
	}
	return nil, ErrUpdateConflict
}

func decode(userID string, raw []byte) (*ranking.UserProfile, error) {
	p := ranking.NewUserProfile(userID)
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	if p.ViewedCategories == nil {
		p.ViewedCategories = make(map[string]int)
	}
	if p.ViewedBrands == nil {
		p.ViewedBrands = make(map[string]int)
	}
	return p, nil
}
