package toggle

import (
	"errors"
	"fmt"
)

// MergePolicy controls how remotely fetched variant definitions combine with
// locally defined defaults when both describe the same toggle.
type MergePolicy string

const (
	// MergeKeepDefined keeps the local variant when a remote variant shares
	// its name. Remote-only variants are appended after the local ones, so
	// local definitions also fix the front of the bucket order.
	MergeKeepDefined MergePolicy = "keep-defined"

	// MergeOverride lets the remote variant replace the local one on a name
	// collision. Local-only variants are appended after the remote ones.
	MergeOverride MergePolicy = "override"
)

// MergeSets combines locally defined toggles with a remotely fetched set.
// The remote set drives membership and the Active bit; variants of toggles
// present in both sets are merged per policy. Local toggles absent from the
// remote set are appended unchanged, so static defaults survive a remote
// source that does not know about them. Inputs are never mutated.
func MergeSets(defined, incoming []Toggle, policy MergePolicy) ([]Toggle, error) {
	localByName := make(map[string]Toggle, len(defined))
	for _, d := range defined {
		if _, ok := localByName[d.Name]; !ok {
			localByName[d.Name] = d
		}
	}

	out := make([]Toggle, 0, len(incoming)+len(defined))
	merged := make(map[string]struct{}, len(defined))

	for _, in := range incoming {
		local, ok := localByName[in.Name]
		if !ok {
			out = append(out, in.Clone())
			continue
		}

		variants, err := MergeVariants(local.Variants, in.Variants, policy)
		if err != nil {
			return nil, err
		}
		t := in.Clone()
		t.Variants = variants
		out = append(out, t)
		merged[in.Name] = struct{}{}
	}

	for _, d := range defined {
		if _, ok := merged[d.Name]; !ok {
			out = append(out, d.Clone())
			merged[d.Name] = struct{}{}
		}
	}

	return out, nil
}

// MergeVariants combines a locally defined variant list with a remote one.
// The winning side of each name collision is decided by policy; the winning
// side also comes first in the result, which matters because variant order
// fixes bucket assignment. Inputs are never mutated.
func MergeVariants(defined, incoming []Variant, policy MergePolicy) ([]Variant, error) {
	switch policy {
	case MergeKeepDefined:
		return appendMissing(defined, incoming), nil
	case MergeOverride:
		return appendMissing(incoming, defined), nil
	default:
		return nil, errors.Join(ErrInvalidMergePolicy,
			fmt.Errorf("unknown merge policy %q", policy))
	}
}

// appendMissing returns base followed by the extra variants whose names do
// not already appear in base.
func appendMissing(base, extra []Variant) []Variant {
	out := make([]Variant, 0, len(base)+len(extra))
	out = append(out, base...)

	names := make(map[string]struct{}, len(base))
	for _, v := range base {
		names[v.Name] = struct{}{}
	}
	for _, v := range extra {
		if _, ok := names[v.Name]; !ok {
			out = append(out, v)
			names[v.Name] = struct{}{}
		}
	}
	return out
}
