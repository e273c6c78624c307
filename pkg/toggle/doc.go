// Package toggle defines the data model shared by every part of the rollout
// engine: toggle definitions, weighted variants, and the decisions produced
// when a toggle is evaluated for an assignment key.
//
// # Model
//
// A Toggle is a named switch with an Active bit and an ordered list of
// weighted Variants. Variant order matters: it fixes the bucket layout used
// for deterministic assignment, so two definitions with the same variants in
// a different order are different toggles as far as assignment is concerned.
//
// A Decision records the outcome of one evaluation. Its Source field tells
// the caller whether the decision was resolved from a live toggle or is a
// fallback:
//
//	d := engine.Evaluate(ctx, "checkout-redesign", userID)
//	switch d.Source {
//	case toggle.SourceResolved:
//		// d.VariantName and d.Payload are populated
//	case toggle.SourceFallbackMissing:
//		// the toggle is not part of the active set
//	}
//
// Decisions are plain values. Every component hands out independent copies,
// so callers may keep or mutate them freely.
//
// # Batch Validation
//
// Definition batches are validated before they replace the active set.
// ValidateSet collects every problem in the batch into a single
// ValidationError rather than stopping at the first one:
//
//	if err := toggle.ValidateSet(defs); err != nil {
//		var vErr *toggle.ValidationError
//		if errors.As(err, &vErr) {
//			for _, fe := range vErr.Errors {
//				log.Println(fe.Field, fe.Message)
//			}
//		}
//	}
//
// The returned error wraps ErrInvalidToggleSet for errors.Is checks.
//
// # Merging Remote and Local Definitions
//
// Applications often register static variant defaults in code and refresh
// the live set from a remote source. MergeSets combines the two once per
// refresh; the MergePolicy decides which side wins when both define a
// variant of the same name. MergeKeepDefined (local wins) is the safe
// default because it keeps code-owned payloads authoritative.
package toggle
