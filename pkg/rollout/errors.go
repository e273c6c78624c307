package rollout

import "errors"

// Predefined errors for the rollout package.
var (
	// ErrNilStore indicates the engine was constructed without a toggle store.
	ErrNilStore = errors.New("toggle store is nil")

	// ErrNilCache indicates the engine was constructed without a decision cache.
	ErrNilCache = errors.New("decision cache is nil")

	// ErrInvalidConfig indicates the engine configuration failed validation.
	ErrInvalidConfig = errors.New("invalid engine configuration")
)
