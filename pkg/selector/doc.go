// Package selector implements deterministic weighted variant assignment.
//
// Assignment is a pure function of the toggle name, the variant list, and
// the assignment key: the key is hashed with FNV-1a into a bucket space
// sized by the total variant weight, and the bucket picks the variant. No
// randomness and no per-call state are involved, so a user keeps their
// variant across calls, processes, and restarts for as long as the variant
// definition stays the same.
//
// The optional seed perturbs every assignment at once. It exists for tests
// and for deliberately reshuffling an experiment's population; production
// deployments normally leave it at zero.
package selector
