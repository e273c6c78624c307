// Package rollout evaluates feature toggles locally, combining a snapshot
// store, a deterministic variant selector, and a TTL-bounded decision cache
// behind one never-failing Evaluate call.
//
// # Evaluation
//
// Evaluate returns a Decision for a toggle name and an assignment key. The
// cache is consulted first; on a miss the toggle is resolved from the store
// and the resulting decision is cached for the configured TTL. Fallback
// decisions are cached exactly like resolved ones, so a flood of lookups for
// a missing toggle costs one store read per TTL window, not one per call.
//
// Evaluate has no error return. A toggle that is unknown, switched off, or
// variant-less produces a disabled Decision whose Source says why, and
// callers ship their built-in default behavior:
//
//	d := engine.Evaluate(ctx, "checkout-redesign", session.UserID)
//	if d.Enabled && d.VariantName == "blue" {
//		theme = parseTheme(d.Payload)
//	}
//
// # Construction
//
// Dependencies are explicit; there is no package-level engine. Hosts build
// one during startup wiring and hand the Evaluator interface to the code
// that needs it:
//
//	st := store.New()
//	engine, err := rollout.New(st, rollout.NewDecisionCache(10_000, time.Minute))
//
// or derive the cache and selector from configuration:
//
//	var cfg rollout.Config
//	config.MustLoad(&cfg)
//	engine, err := rollout.NewFromConfig(st, cfg)
//
// # Refreshing Definitions
//
// OnToggleDefinitionsUpdated accepts a complete replacement toggle set from
// whatever source the host wires up (see the source package). Definitions
// registered via WithLocalDefinitions are merged into every refresh under
// the configured policy before the set is applied. The decision cache is not
// invalidated on refresh: cached decisions age out within one TTL window,
// which is the engine's explicit staleness bound.
//
// # Observability
//
// WithMetrics attaches Prometheus collectors for decisions by source, cache
// hit rates, and refresh outcomes. Without it, nothing is recorded and the
// hot path carries no metrics overhead.
package rollout
