package toggle

import "time"

// Toggle represents a feature toggle with its weighted variants.
// Variant order is significant: it fixes the bucket layout used for
// deterministic assignment and decides ties between equal weights.
type Toggle struct {
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	Variants    []Variant `json:"variants,omitempty"`
	LastUpdated time.Time `json:"last_updated,omitzero"`
}

// Variant is one weighted arm of a toggle. Weight is a relative share, not a
// percentage; weights across a toggle need not sum to any particular total.
// Payload is an opaque configuration string handed back verbatim on selection.
type Variant struct {
	Name    string `json:"name"`
	Weight  int    `json:"weight"`
	Payload string `json:"payload,omitempty"`
}

// Clone returns a deep copy of the toggle, including its variant slice.
// Mutating the copy never affects the original.
func (t Toggle) Clone() Toggle {
	out := t
	if t.Variants != nil {
		out.Variants = make([]Variant, len(t.Variants))
		copy(out.Variants, t.Variants)
	}
	return out
}

// Source explains how a Decision was produced.
type Source string

// Decision sources. The values are stable and safe to use as log fields and
// metric labels.
const (
	// SourceResolved marks a decision backed by an active toggle with a
	// selected variant.
	SourceResolved Source = "resolved"

	// SourceFallbackMissing marks a decision for a toggle that is not part of
	// the active set.
	SourceFallbackMissing Source = "fallback-missing"

	// SourceFallbackInactive marks a decision for a toggle that exists but is
	// switched off.
	SourceFallbackInactive Source = "fallback-inactive"

	// SourceFallbackNoVariants marks a decision for an active toggle that
	// defines no variants to choose from.
	SourceFallbackNoVariants Source = "fallback-no-variants"
)

// Decision is the outcome of evaluating a toggle for one assignment key.
// It is a plain value: callers receive independent copies, and mutating a
// returned Decision never affects cached or stored state.
type Decision struct {
	ToggleName  string `json:"toggle_name"`
	Enabled     bool   `json:"enabled"`
	VariantName string `json:"variant_name,omitempty"`
	Payload     string `json:"payload,omitempty"`
	Source      Source `json:"source"`
}
