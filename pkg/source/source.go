package source

import (
	"context"

	"github.com/togglekit/togglekit/pkg/toggle"
)

// Handler receives complete replacement toggle sets from a definition source.
// It is implemented by the rollout engine; a source never talks to the store
// directly, so local-definition merging and batch validation always apply.
type Handler interface {
	// OnToggleDefinitionsUpdated applies defs as the new active toggle set.
	// A malformed batch is rejected wholesale and reported via the error.
	OnToggleDefinitionsUpdated(ctx context.Context, defs []toggle.Toggle) error
}

// FetchFunc retrieves the current toggle definitions from wherever the
// application keeps them. The transport is entirely the caller's concern:
// an HTTP fetch, a database query, or a call into another service all fit.
type FetchFunc func(ctx context.Context) ([]toggle.Toggle, error)
