// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for tag-based parsing and
// github.com/joho/godotenv for an optional .env file, behind a single
// generic entry point:
//
//	var cfg rollout.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Each configuration type is parsed once per process and cached, so
// repeated loads are cheap and every caller observes the same values.
// MustLoad panics on failure for configuration the process cannot run
// without.
//
// Errors are reported through the sentinels ErrNilPointer and
// ErrParsingConfig; the underlying parser error is joined in for detail
// and remains reachable with errors.Is and errors.As.
package config
