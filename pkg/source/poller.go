package source

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// DefaultPollSchedule fetches once a minute.
const DefaultPollSchedule = "@every 1m"

// Poller periodically invokes a fetch function and pushes the result to a
// handler. The fetch transport is the caller's; the poller owns only the
// schedule and the push. Fetch and push failures are logged and retried on
// the next tick, so a flaky remote never tears down the last good toggle set.
type Poller struct {
	fetch    FetchFunc
	handler  Handler
	spec     string
	id       uuid.UUID
	log      *slog.Logger
	running  atomic.Bool
	fetches  atomic.Int64
	failures atomic.Int64
}

// PollerOption is a functional option for configuring a Poller.
type PollerOption func(*Poller)

// WithSchedule sets the poll schedule. The expression uses the standard
// five-field cron syntax or a descriptor such as "@every 30s" or "@hourly".
func WithSchedule(spec string) PollerOption {
	return func(p *Poller) {
		if spec != "" {
			p.spec = spec
		}
	}
}

// WithPollerLogger sets the logger for the poller.
func WithPollerLogger(log *slog.Logger) PollerOption {
	return func(p *Poller) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPoller creates a poller that pushes fetched definitions to handler on
// the configured schedule. Each poller gets a unique id carried in its log
// records, so overlapping deployments can be told apart.
func NewPoller(fetch FetchFunc, handler Handler, opts ...PollerOption) (*Poller, error) {
	if fetch == nil {
		return nil, ErrNilFetch
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	p := &Poller{
		fetch:   fetch,
		handler: handler,
		spec:    DefaultPollSchedule,
		id:      uuid.New(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if _, err := cron.ParseStandard(p.spec); err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}

	return p, nil
}

// ID returns the poller's instance id.
func (p *Poller) ID() uuid.UUID {
	return p.id
}

// Stats reports how many syncs the poller has attempted and how many of them
// failed.
func (p *Poller) Stats() (fetches, failures int64) {
	return p.fetches.Load(), p.failures.Load()
}

// Sync fetches once and pushes the result to the handler. Fetch errors are
// wrapped in ErrFetchFailed; handler rejections are returned as-is.
func (p *Poller) Sync(ctx context.Context) error {
	p.fetches.Add(1)

	defs, err := p.fetch(ctx)
	if err != nil {
		p.failures.Add(1)
		return errors.Join(ErrFetchFailed, err)
	}

	if err := p.handler.OnToggleDefinitionsUpdated(ctx, defs); err != nil {
		p.failures.Add(1)
		return err
	}

	p.log.DebugContext(ctx, "toggle definitions fetched",
		slog.String("poller_id", p.id.String()),
		slog.Int("toggles", len(defs)))
	return nil
}

// Run syncs immediately, then keeps syncing on the schedule until ctx is
// cancelled. Individual sync failures are logged, never fatal. Returns
// ctx.Err() after cancellation, or ErrAlreadyRunning if the poller is
// already running.
func (p *Poller) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.running.Store(false)

	p.log.InfoContext(ctx, "toggle poller started",
		slog.String("poller_id", p.id.String()),
		slog.String("schedule", p.spec))

	// Immediate first sync so the handler never waits a full schedule
	// interval for its initial definitions.
	p.syncLogged(ctx)

	c := cron.New()
	if _, err := c.AddFunc(p.spec, func() { p.syncLogged(ctx) }); err != nil {
		// The schedule was already parsed in NewPoller.
		return errors.Join(ErrInvalidSchedule, err)
	}
	c.Start()

	<-ctx.Done()

	// Stop schedules no new runs; wait for an in-flight one to finish.
	<-c.Stop().Done()

	p.log.InfoContext(ctx, "toggle poller stopped",
		slog.String("poller_id", p.id.String()))
	return ctx.Err()
}

func (p *Poller) syncLogged(ctx context.Context) {
	if err := p.Sync(ctx); err != nil {
		p.log.ErrorContext(ctx, "toggle sync failed",
			slog.String("poller_id", p.id.String()),
			slog.String("error", err.Error()))
	}
}
