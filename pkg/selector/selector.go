package selector

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/togglekit/togglekit/pkg/toggle"
)

// Selector deterministically assigns one of a toggle's weighted variants to
// an assignment key. It holds no mutable state, so a single instance is safe
// for unbounded concurrent use.
type Selector struct {
	seed uint64
}

// Option is a function that configures a Selector.
type Option func(*Selector)

// WithSeed mixes a fixed seed into the assignment hash. All processes using
// the same seed produce identical assignments. A zero seed leaves the hash
// untouched and is the canonical production setting.
func WithSeed(seed uint64) Option {
	return func(s *Selector) {
		s.seed = seed
	}
}

// New creates a Selector.
func New(opts ...Option) *Selector {
	s := &Selector{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select picks the variant for the given key, or reports false when the
// toggle defines no variants. The same toggle name, variant list, and key
// always map to the same variant, across processes and restarts.
//
// Each variant owns a half-open bucket of hash values proportional to its
// weight, laid out in variant order; a boundary value belongs to the later
// bucket, never to both. When every weight is zero, all variants count as
// weight one, so selection is uniform. A zero-weight variant next to any
// positive weight owns an empty bucket and is never selected.
func (s *Selector) Select(t toggle.Toggle, key string) (toggle.Variant, bool) {
	if len(t.Variants) == 0 {
		return toggle.Variant{}, false
	}

	total := 0
	for _, v := range t.Variants {
		total += v.Weight
	}

	uniform := total == 0
	if uniform {
		total = len(t.Variants)
	}

	bucket := int(s.hash(t.Name, key) % uint64(total))

	cumulative := 0
	for _, v := range t.Variants {
		weight := v.Weight
		if uniform {
			weight = 1
		}
		cumulative += weight
		if bucket < cumulative {
			return v, true
		}
	}

	// Unreachable: bucket < total and the walk accumulates exactly total.
	return t.Variants[len(t.Variants)-1], true
}

// hash folds the seed, toggle name, and key into one stable 64-bit value.
// FNV-1a depends only on the input bytes, never on process or platform
// state, so assignments survive restarts. The toggle name is mixed in so a
// key's bucket in one toggle does not correlate with its bucket in another.
func (s *Selector) hash(toggleName, key string) uint64 {
	h := fnv.New64a()
	if s.seed != 0 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], s.seed)
		h.Write(buf[:])
	}
	h.Write([]byte(toggleName))
	h.Write([]byte{':'})
	h.Write([]byte(key))
	return h.Sum64()
}
