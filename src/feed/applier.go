package feed

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"market-book/src/market"
)

// Counters summarizes what an Applier has seen.
type Counters struct {
	Messages     int64 `json:"messages"`
	Applied      int64 `json:"applied"`
	Rejected     int64 `json:"rejected"`
	Unrecognized int64 `json:"unrecognized"`
}

// Applier serializes access to one market.Manager. Every feed source and
// every reader goes through it.
type Applier struct {
	mu     sync.Mutex
	market *market.Manager
	log    zerolog.Logger

	messages     atomic.Int64
	applied      atomic.Int64
	rejected     atomic.Int64
	unrecognized atomic.Int64
}

func NewApplier(m *market.Manager, log zerolog.Logger) *Applier {
	return &Applier{
		market: m,
		log:    log.With().Str("component", "feed").Logger(),
	}
}

// Apply runs one event against the market. Unknown events are counted and
// never fail. Engine errors are returned to the caller, who decides whether
// to skip or stop.
func (a *Applier) Apply(ev Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.apply(ev)
}

// ApplyAll applies events in order under a single lock and returns one error
// slot per event.
func (a *Applier) ApplyAll(events []Event) []error {
	a.mu.Lock()
	defer a.mu.Unlock()

	errs := make([]error, len(events))
	for i, ev := range events {
		errs[i] = a.apply(ev)
	}
	return errs
}

func (a *Applier) apply(ev Event) error {
	a.messages.Add(1)

	if u, ok := ev.(Unknown); ok {
		a.unrecognized.Add(1)
		a.log.Debug().Str("type", u.Type).Msg("Unrecognized feed message")
		return nil
	}

	if err := ev.Apply(a.market); err != nil {
		a.rejected.Add(1)
		a.log.Warn().Err(err).Str("type", ev.Kind()).Msg("Feed event rejected")
		return err
	}
	a.applied.Add(1)
	return nil
}

// View runs fn with exclusive access to the market. fn must not keep
// references to orders, levels or books after it returns.
func (a *Applier) View(fn func(m *market.Manager)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.market)
}

func (a *Applier) Counters() Counters {
	return Counters{
		Messages:     a.messages.Load(),
		Applied:      a.applied.Load(),
		Rejected:     a.rejected.Load(),
		Unrecognized: a.unrecognized.Load(),
	}
}
