package rollout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/togglekit/togglekit/pkg/selector"
	"github.com/togglekit/togglekit/pkg/toggle"
)

// Evaluator is the narrow capability application code should depend on.
// Accepting an Evaluator instead of the concrete Engine keeps call sites
// decoupled from construction and refresh wiring.
type Evaluator interface {
	// Evaluate determines the toggle decision for an assignment key.
	Evaluate(ctx context.Context, toggleName, key string) toggle.Decision
}

// ToggleStore is the engine's view of the definition snapshot store.
type ToggleStore interface {
	// Get returns the named toggle from the current snapshot, reporting
	// absence via the boolean.
	Get(ctx context.Context, name string) (toggle.Toggle, bool)

	// ReplaceAll atomically swaps the entire toggle set, rejecting malformed
	// batches wholesale.
	ReplaceAll(ctx context.Context, defs []toggle.Toggle) error
}

// DecisionCache is the engine's view of the decision cache.
type DecisionCache interface {
	Get(key Key) (toggle.Decision, bool)
	SetWithTTL(key Key, d toggle.Decision, ttl time.Duration)
	Len() int
}

// Key identifies one cached decision: a toggle evaluated for one assignment key.
type Key struct {
	ToggleName    string
	AssignmentKey string
}

// Engine evaluates toggles with deterministic variant assignment, decision
// caching, and graceful fallbacks. Evaluate never returns an error: unknown,
// inactive, and variant-less toggles all yield fallback decisions instead.
type Engine struct {
	store    ToggleStore
	cache    DecisionCache
	selector *selector.Selector
	ttl      time.Duration
	local    []toggle.Toggle
	policy   toggle.MergePolicy
	log      *slog.Logger
	metrics  *Metrics
}

// Engine satisfies Evaluator.
var _ Evaluator = (*Engine)(nil)

// EngineOption is a function that configures an Engine.
type EngineOption func(*Engine)

// WithTTL sets the lifetime of cached decisions.
func WithTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		e.ttl = ttl
	}
}

// WithSelector replaces the variant selector, e.g. to apply a hash seed.
func WithSelector(s *selector.Selector) EngineOption {
	return func(e *Engine) {
		e.selector = s
	}
}

// WithLogger sets the logger used for refresh and evaluation events.
func WithLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

// WithMetrics attaches Prometheus collectors to the engine. Without it the
// engine records nothing.
func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLocalDefinitions registers static toggle defaults that every refresh is
// merged against. An empty policy defaults to toggle.MergeKeepDefined, so
// code-owned variant definitions win collisions with remote ones.
func WithLocalDefinitions(defs []toggle.Toggle, policy toggle.MergePolicy) EngineOption {
	return func(e *Engine) {
		e.local = defs
		e.policy = policy
	}
}

// New creates an Engine with explicit dependencies. The store and cache are
// required; everything else has working defaults (60s decision TTL, unseeded
// selector, slog.Default()).
func New(store ToggleStore, cache DecisionCache, opts ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cache == nil {
		return nil, ErrNilCache
	}

	e := &Engine{
		store:    store,
		cache:    cache,
		selector: selector.New(),
		ttl:      DefaultCacheTTL,
		policy:   toggle.MergeKeepDefined,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.ttl <= 0 {
		return nil, errors.Join(ErrInvalidConfig,
			errors.New("decision TTL must be positive"))
	}
	if e.policy == "" {
		e.policy = toggle.MergeKeepDefined
	}
	if e.policy != toggle.MergeKeepDefined && e.policy != toggle.MergeOverride {
		return nil, errors.Join(toggle.ErrInvalidMergePolicy,
			fmt.Errorf("unknown merge policy %q", e.policy))
	}
	if len(e.local) > 0 {
		if err := toggle.ValidateSet(e.local); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// NewFromConfig builds an Engine whose cache and selector are derived from
// cfg. Options are applied after the derived settings, so callers can still
// override any of them.
func NewFromConfig(store ToggleStore, cfg Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	derived := []EngineOption{
		WithTTL(cfg.CacheTTL),
		WithSelector(selector.New(selector.WithSeed(cfg.HashSeed))),
	}
	return New(store, NewDecisionCache(cfg.CacheCapacity, cfg.CacheTTL), append(derived, opts...)...)
}

// Evaluate determines the decision for one toggle and one assignment key.
// Cached decisions are returned as-is; otherwise the toggle is resolved from
// the store and the decision, fallback or not, is cached for the configured
// TTL before being returned. The call never fails and never blocks on I/O.
func (e *Engine) Evaluate(ctx context.Context, toggleName, key string) toggle.Decision {
	ck := Key{ToggleName: toggleName, AssignmentKey: key}
	if d, ok := e.cache.Get(ck); ok {
		if e.metrics != nil {
			e.metrics.recordCacheHit()
			e.metrics.recordDecision(d.Source)
		}
		return d
	}

	d := e.resolve(ctx, toggleName, key)
	e.cache.SetWithTTL(ck, d, e.ttl)

	if e.metrics != nil {
		e.metrics.recordCacheMiss()
		e.metrics.recordDecision(d.Source)
		e.metrics.setCacheSize(e.cache.Len())
	}
	e.log.DebugContext(ctx, "toggle evaluated",
		slog.String("toggle", toggleName),
		slog.String("variant", d.VariantName),
		slog.String("source", string(d.Source)))
	return d
}

func (e *Engine) resolve(ctx context.Context, toggleName, key string) toggle.Decision {
	t, ok := e.store.Get(ctx, toggleName)
	if !ok {
		return toggle.Decision{ToggleName: toggleName, Source: toggle.SourceFallbackMissing}
	}
	if !t.Active {
		return toggle.Decision{ToggleName: toggleName, Source: toggle.SourceFallbackInactive}
	}

	v, ok := e.selector.Select(t, key)
	if !ok {
		return toggle.Decision{ToggleName: toggleName, Source: toggle.SourceFallbackNoVariants}
	}

	return toggle.Decision{
		ToggleName:  toggleName,
		Enabled:     true,
		VariantName: v.Name,
		Payload:     v.Payload,
		Source:      toggle.SourceResolved,
	}
}

// OnToggleDefinitionsUpdated replaces the active toggle set with defs,
// merging registered local definitions in first under the configured policy.
// A malformed batch is rejected wholesale and reported back to the updater.
// Cached decisions are deliberately left alone; they age out within one TTL
// window, which bounds how long stale decisions can be served.
func (e *Engine) OnToggleDefinitionsUpdated(ctx context.Context, defs []toggle.Toggle) error {
	if len(e.local) > 0 {
		merged, err := toggle.MergeSets(e.local, defs, e.policy)
		if err != nil {
			if e.metrics != nil {
				e.metrics.recordRefreshFailure()
			}
			return err
		}
		defs = merged
	}

	if err := e.store.ReplaceAll(ctx, defs); err != nil {
		if e.metrics != nil {
			e.metrics.recordRefreshFailure()
		}
		e.log.ErrorContext(ctx, "toggle refresh rejected",
			slog.Int("toggles", len(defs)),
			slog.String("error", err.Error()))
		return err
	}

	if e.metrics != nil {
		e.metrics.recordRefresh(len(defs))
	}
	e.log.InfoContext(ctx, "toggle set refreshed", slog.Int("toggles", len(defs)))
	return nil
}
