package selector_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togglekit/togglekit/pkg/selector"
	"github.com/togglekit/togglekit/pkg/toggle"
)

func weightedToggle(name string, weights map[string]int, order ...string) toggle.Toggle {
	variants := make([]toggle.Variant, 0, len(order))
	for _, variantName := range order {
		variants = append(variants, toggle.Variant{Name: variantName, Weight: weights[variantName]})
	}
	return toggle.Toggle{Name: name, Active: true, Variants: variants}
}

func TestSelector_Deterministic(t *testing.T) {
	t.Parallel()

	tog := weightedToggle("checkout-redesign", map[string]int{"control": 70, "blue": 30}, "control", "blue")

	t.Run("repeated calls agree", func(t *testing.T) {
		t.Parallel()

		s := selector.New()
		first, ok := s.Select(tog, "user-42")
		require.True(t, ok)

		for range 100 {
			v, ok := s.Select(tog, "user-42")
			require.True(t, ok)
			assert.Equal(t, first.Name, v.Name)
		}
	})

	t.Run("independent selectors agree", func(t *testing.T) {
		t.Parallel()

		a := selector.New()
		b := selector.New()

		for i := range 500 {
			key := fmt.Sprintf("user-%d", i)
			va, okA := a.Select(tog, key)
			vb, okB := b.Select(tog, key)
			require.True(t, okA)
			require.True(t, okB)
			assert.Equal(t, va.Name, vb.Name, "key %s diverged", key)
		}
	})

	t.Run("assignment does not leak across toggles", func(t *testing.T) {
		t.Parallel()

		s := selector.New()
		other := weightedToggle("search-ranking", map[string]int{"control": 70, "blue": 30}, "control", "blue")

		diverged := false
		for i := range 1000 {
			key := fmt.Sprintf("user-%d", i)
			va, _ := s.Select(tog, key)
			vb, _ := s.Select(other, key)
			if va.Name != vb.Name {
				diverged = true
				break
			}
		}
		assert.True(t, diverged, "distinct toggle names should bucket keys differently")
	})
}

// Concrete key-to-variant pins for the hash layout. The other determinism
// tests compare selectors within one process, so a layout change that shifts
// every assignment at once keeps them green; these pairs fail instead. A
// mismatch means live users change variants on deploy: fix the layout, never
// the table.
func TestSelector_PinnedAssignments(t *testing.T) {
	t.Parallel()

	weights := map[string]int{"control": 50, "treatment": 30, "holdout": 20}
	checkout := weightedToggle("checkout-flow", weights, "control", "treatment", "holdout")

	t.Run("unseeded", func(t *testing.T) {
		t.Parallel()

		s := selector.New()
		for _, tc := range []struct {
			key  string
			want string
		}{
			{"user-1", "holdout"},
			{"user-2", "holdout"},
			{"user-3", "control"},
			{"user-42", "holdout"},
			{"session-abc", "treatment"},
			{"anon", "control"},
		} {
			v, ok := s.Select(checkout, tc.key)
			require.True(t, ok)
			assert.Equal(t, tc.want, v.Name, "key %s", tc.key)
		}
	})

	t.Run("seeded", func(t *testing.T) {
		t.Parallel()

		s := selector.New(selector.WithSeed(2026))
		for _, tc := range []struct {
			key  string
			want string
		}{
			{"user-1", "treatment"},
			{"user-2", "control"},
			{"user-3", "holdout"},
			{"user-42", "control"},
			{"session-abc", "holdout"},
			{"anon", "control"},
		} {
			v, ok := s.Select(checkout, tc.key)
			require.True(t, ok)
			assert.Equal(t, tc.want, v.Name, "key %s", tc.key)
		}
	})

	t.Run("same keys under another toggle", func(t *testing.T) {
		t.Parallel()

		s := selector.New()
		ranking := weightedToggle("search-ranking", weights, "control", "treatment", "holdout")
		for _, tc := range []struct {
			key  string
			want string
		}{
			{"user-1", "control"},
			{"user-2", "treatment"},
			{"user-3", "holdout"},
			{"user-42", "holdout"},
			{"session-abc", "treatment"},
			{"anon", "holdout"},
		} {
			v, ok := s.Select(ranking, tc.key)
			require.True(t, ok)
			assert.Equal(t, tc.want, v.Name, "key %s", tc.key)
		}
	})
}

func TestSelector_Select(t *testing.T) {
	t.Parallel()

	s := selector.New()

	t.Run("no variants", func(t *testing.T) {
		t.Parallel()

		v, ok := s.Select(toggle.Toggle{Name: "bare", Active: true}, "user-1")
		assert.False(t, ok)
		assert.Empty(t, v.Name)
	})

	t.Run("single variant always wins", func(t *testing.T) {
		t.Parallel()

		tog := weightedToggle("single", map[string]int{"only": 3}, "only")
		for i := range 50 {
			v, ok := s.Select(tog, fmt.Sprintf("user-%d", i))
			require.True(t, ok)
			assert.Equal(t, "only", v.Name)
		}
	})

	t.Run("zero-weight variant is never selected", func(t *testing.T) {
		t.Parallel()

		tog := weightedToggle("lopsided", map[string]int{"dead": 0, "live": 5}, "dead", "live")
		for i := range 200 {
			v, ok := s.Select(tog, fmt.Sprintf("user-%d", i))
			require.True(t, ok)
			assert.Equal(t, "live", v.Name)
		}
	})

	t.Run("payload rides along", func(t *testing.T) {
		t.Parallel()

		tog := toggle.Toggle{
			Name:   "promo",
			Active: true,
			Variants: []toggle.Variant{
				{Name: "blue", Weight: 1, Payload: `{"discount":10}`},
			},
		}
		v, ok := s.Select(tog, "user-7")
		require.True(t, ok)
		assert.Equal(t, `{"discount":10}`, v.Payload)
	})
}

func TestSelector_Distribution(t *testing.T) {
	t.Parallel()

	const keys = 10_000
	s := selector.New()

	t.Run("even split", func(t *testing.T) {
		t.Parallel()

		tog := weightedToggle("even", map[string]int{"red": 1, "blue": 1}, "red", "blue")

		counts := map[string]int{}
		for i := range keys {
			v, ok := s.Select(tog, fmt.Sprintf("user-%d", i))
			require.True(t, ok)
			counts[v.Name]++
		}

		assert.InDelta(t, 0.50, float64(counts["red"])/keys, 0.05)
		assert.InDelta(t, 0.50, float64(counts["blue"])/keys, 0.05)
	})

	t.Run("weighted split", func(t *testing.T) {
		t.Parallel()

		tog := weightedToggle("rollout", map[string]int{"control": 70, "blue": 30}, "control", "blue")

		counts := map[string]int{}
		for i := range keys {
			v, ok := s.Select(tog, fmt.Sprintf("user-%d", i))
			require.True(t, ok)
			counts[v.Name]++
		}

		assert.InDelta(t, 0.70, float64(counts["control"])/keys, 0.05)
		assert.InDelta(t, 0.30, float64(counts["blue"])/keys, 0.05)
	})

	t.Run("all-zero weights select uniformly", func(t *testing.T) {
		t.Parallel()

		tog := weightedToggle("uniform",
			map[string]int{"a": 0, "b": 0, "c": 0, "d": 0}, "a", "b", "c", "d")

		counts := map[string]int{}
		for i := range keys {
			v, ok := s.Select(tog, fmt.Sprintf("user-%d", i))
			require.True(t, ok)
			counts[v.Name]++
		}

		for _, name := range []string{"a", "b", "c", "d"} {
			assert.InDelta(t, 0.25, float64(counts[name])/keys, 0.05, "variant %s", name)
		}
	})
}

func TestSelector_Seed(t *testing.T) {
	t.Parallel()

	tog := weightedToggle("seeded", map[string]int{"control": 50, "blue": 50}, "control", "blue")

	t.Run("same seed agrees", func(t *testing.T) {
		t.Parallel()

		a := selector.New(selector.WithSeed(1234))
		b := selector.New(selector.WithSeed(1234))

		for i := range 500 {
			key := fmt.Sprintf("user-%d", i)
			va, _ := a.Select(tog, key)
			vb, _ := b.Select(tog, key)
			assert.Equal(t, va.Name, vb.Name)
		}
	})

	t.Run("different seeds reshuffle", func(t *testing.T) {
		t.Parallel()

		unseeded := selector.New()
		seeded := selector.New(selector.WithSeed(1234))

		diverged := false
		for i := range 1000 {
			key := fmt.Sprintf("user-%d", i)
			va, _ := unseeded.Select(tog, key)
			vb, _ := seeded.Select(tog, key)
			if va.Name != vb.Name {
				diverged = true
				break
			}
		}
		assert.True(t, diverged, "seeding should move at least some keys")
	})
}

func BenchmarkSelector_Select(b *testing.B) {
	s := selector.New()
	tog := weightedToggle("bench", map[string]int{"a": 60, "b": 30, "c": 10}, "a", "b", "c")

	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = fmt.Sprintf("user-%d", i)
	}

	b.ResetTimer()
	for i := range b.N {
		s.Select(tog, keys[i%len(keys)])
	}
}
