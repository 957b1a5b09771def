// internal/workers/ranking/get-trending-products/config.go
package gettrendingproducts

import (
	"time"

	"product-ranking/internal/common/config"
	"product-ranking/internal/workers/ranking/shared"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig(w config.WorkerConfig) *Config {
	timeout := config.GetDuration(w.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		Timeout:      timeout,
		DefaultLimit: shared.DefaultLimit,
		MaxLimit:     shared.MaxLimit,
	}
}
