package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.Mutex
	loaded = make(map[reflect.Type]any)

	dotenvOnce sync.Once
)

// Load populates cfg from the process environment using `env` struct tags.
// The first call reads an optional .env file from the working directory; a
// missing file is not an error, the process environment still applies.
//
// Each config type is parsed once per process. Later calls for the same type
// receive the cached value, so every component sees the same configuration
// regardless of load order. A failed parse is not cached and may be retried.
//
// Example:
//
//	type Config struct {
//		CacheTTL time.Duration `env:"TOGGLEKIT_CACHE_TTL" envDefault:"60s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	loaded[key] = *cfg
	return nil
}

// MustLoad works like Load but panics when loading fails. Use it for
// configuration the process cannot start without.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("load configuration: %v", err))
	}
}
