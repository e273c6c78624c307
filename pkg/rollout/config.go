package rollout

import (
	"errors"
	"time"

	"github.com/togglekit/togglekit/pkg/cache"
	"github.com/togglekit/togglekit/pkg/toggle"
)

// Default engine settings, applied when a value is left unset.
const (
	// DefaultCacheCapacity is the default decision cache size.
	DefaultCacheCapacity = 10_000

	// DefaultCacheTTL is the default lifetime of cached decisions.
	DefaultCacheTTL = 60 * time.Second
)

// Config carries the tunable engine settings. Load it from the environment
// with the config package, or start from DefaultConfig.
type Config struct {
	// CacheCapacity bounds the number of cached decisions.
	CacheCapacity int `env:"TOGGLEKIT_CACHE_CAPACITY" envDefault:"10000"`

	// CacheTTL bounds the lifetime of cached decisions, and therefore how
	// long a stale decision can outlive a definition refresh.
	CacheTTL time.Duration `env:"TOGGLEKIT_CACHE_TTL" envDefault:"60s"`

	// HashSeed perturbs variant assignment. Zero is the canonical setting;
	// all processes must share the seed value for assignments to agree.
	HashSeed uint64 `env:"TOGGLEKIT_HASH_SEED" envDefault:"0"`
}

// DefaultConfig returns the default engine settings.
func DefaultConfig() Config {
	return Config{
		CacheCapacity: DefaultCacheCapacity,
		CacheTTL:      DefaultCacheTTL,
	}
}

// Validate checks the configuration, reporting every problem at once.
// Misconfiguration surfaces here, at construction time, never during
// Evaluate.
func (c Config) Validate() error {
	var errs []error
	if c.CacheCapacity <= 0 {
		errs = append(errs, errors.New("cache capacity must be positive"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("cache TTL must be positive"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// NewDecisionCache builds a decision cache suitable for the engine.
func NewDecisionCache(capacity int, ttl time.Duration) *cache.TTLCache[Key, toggle.Decision] {
	return cache.NewTTLCache[Key, toggle.Decision](capacity, ttl)
}
