package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/togglekit/togglekit/pkg/toggle"
)

const (
	togglesTable = "toggles"
	idIndex      = "id"
)

// Store holds the active toggle set in an in-memory MVCC database.
// A replace commits a complete new snapshot in one transaction: readers in
// flight keep the root they started with, readers never block the writer,
// and nobody ever observes a half-applied batch.
type Store struct {
	db  *memdb.MemDB
	log *slog.Logger
	now func() time.Time

	mu          sync.RWMutex // guards lastRefresh and serializes ReplaceAll
	lastRefresh time.Time
}

// Option is a function that configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for refresh events.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithTimeSource replaces the wall clock used to stamp refreshes.
// Tests use it to make timestamps deterministic.
func WithTimeSource(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		// The schema is a package constant; failing to build it is a bug.
		panic(fmt.Sprintf("build toggle store schema: %v", err))
	}

	s := &Store{
		db:  db,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			togglesTable: {
				Name: togglesTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Name"},
					},
				},
			},
		},
	}
}

// Get returns the toggle with the given name from the current snapshot.
// A missing toggle is an expected condition, reported via the boolean rather
// than an error. The returned toggle is an independent copy.
func (s *Store) Get(_ context.Context, name string) (toggle.Toggle, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(togglesTable, idIndex, name)
	if err != nil || raw == nil {
		return toggle.Toggle{}, false
	}

	t, ok := raw.(toggle.Toggle)
	if !ok {
		return toggle.Toggle{}, false
	}
	return t.Clone(), true
}

// All returns every toggle in the current snapshot, sorted by name.
// The returned toggles are independent copies.
func (s *Store) All(_ context.Context) []toggle.Toggle {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(togglesTable, idIndex)
	if err != nil {
		return nil
	}

	var out []toggle.Toggle
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(toggle.Toggle).Clone())
	}
	return out
}

// Len reports the number of toggles in the current snapshot.
func (s *Store) Len() int {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(togglesTable, idIndex)
	if err != nil {
		return 0
	}

	n := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n++
	}
	return n
}

// LastRefresh reports when the last successful ReplaceAll committed.
// The zero time means the store has never been refreshed.
func (s *Store) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// ReplaceAll atomically swaps the entire toggle set for defs, stamping every
// toggle's LastUpdated with the refresh time. The batch is validated first;
// a batch with any malformed definition is rejected wholesale with an error
// wrapping toggle.ErrInvalidToggleSet, and the prior snapshot stays active.
func (s *Store) ReplaceAll(ctx context.Context, defs []toggle.Toggle) error {
	if err := toggle.ValidateSet(defs); err != nil {
		s.log.WarnContext(ctx, "toggle set rejected",
			slog.Int("toggles", len(defs)),
			slog.String("error", err.Error()))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Read the clock under the lock so racing replaces commit with
	// timestamps in commit order.
	now := s.now()

	txn := s.db.Txn(true)
	if _, err := txn.DeleteAll(togglesTable, idIndex); err != nil {
		txn.Abort()
		return fmt.Errorf("clear toggle table: %w", err)
	}
	for _, def := range defs {
		t := def.Clone()
		t.LastUpdated = now
		if err := txn.Insert(togglesTable, t); err != nil {
			txn.Abort()
			return fmt.Errorf("insert toggle %q: %w", def.Name, err)
		}
	}
	txn.Commit()

	s.lastRefresh = now
	s.log.DebugContext(ctx, "toggle set replaced", slog.Int("toggles", len(defs)))
	return nil
}

// Watch returns a channel that receives a signal after each committed
// replace. Signals are coalesced: a slow consumer sees at least one signal
// for any burst of replaces, and re-reading the store on every signal always
// ends on the final state of the burst. The channel is closed when ctx is
// cancelled.
func (s *Store) Watch(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)

	ws, err := s.watchSet()
	if err != nil {
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		for {
			if err := ws.WatchCtx(ctx); err != nil {
				return
			}

			// Arm the next watch set before signalling so a replace landing
			// in between is still covered by the signal sent below.
			next, err := s.watchSet()
			if err != nil {
				return
			}

			select {
			case ch <- struct{}{}:
			default:
			}
			ws = next
		}
	}()

	return ch
}

// watchSet arms a watch set on the current table root.
func (s *Store) watchSet() (memdb.WatchSet, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(togglesTable, idIndex)
	if err != nil {
		return nil, err
	}

	ws := memdb.NewWatchSet()
	ws.Add(it.WatchCh())
	return ws, nil
}
