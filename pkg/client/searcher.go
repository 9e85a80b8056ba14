package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	pkgerrors "github.com/sharehub-app/sharehub-backend/pkg/errors"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/sched"
	"github.com/sharehub-app/sharehub-backend/pkg/search"
)

type itemSearcher interface {
	SearchItems(ctx context.Context, filters search.Filters, viewer *geo.Point) (*ItemsPage, error)
}

// SearchResult is delivered to the searcher's callback once a request
// completes and is still the most recent one.
type SearchResult struct {
	Filters search.Filters
	Page    *ItemsPage
	Err     error
}

// Searcher turns a stream of filter changes into listing requests. Input is
// debounced with a trailing delay, and each dispatched request carries a
// sequence number: a response whose number is no longer the latest is
// dropped, so a slow early request can never overwrite a newer result.
type Searcher struct {
	api      itemSearcher
	debounce *sched.Debouncer
	deliver  func(SearchResult)
	seq      atomic.Uint64
	// deliverMu keeps the staleness check and the delivery atomic, so a
	// slow response can never land after a newer one was delivered.
	deliverMu sync.Mutex
}

// SearcherOption configures optional searcher behavior.
type SearcherOption func(*searcherConfig)

type searcherConfig struct {
	delay   time.Duration
	factory sched.TimerFactory
}

// WithDelay overrides the trailing debounce delay.
func WithDelay(delay time.Duration) SearcherOption {
	return func(cfg *searcherConfig) {
		if delay > 0 {
			cfg.delay = delay
		}
	}
}

// WithTimerFactory overrides the debounce timer source, for tests.
func WithTimerFactory(factory sched.TimerFactory) SearcherOption {
	return func(cfg *searcherConfig) {
		if factory != nil {
			cfg.factory = factory
		}
	}
}

// NewSearcher builds a live searcher delivering results to deliver.
func NewSearcher(api itemSearcher, deliver func(SearchResult), opts ...SearcherOption) (*Searcher, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "search client is required")
	}
	if deliver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "result callback is required")
	}

	cfg := searcherConfig{delay: sched.DefaultSearchDelay}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	debounceOpts := []sched.Option{}
	if cfg.factory != nil {
		debounceOpts = append(debounceOpts, sched.WithTimerFactory(cfg.factory))
	}

	return &Searcher{
		api:      api,
		debounce: sched.NewDebouncer(cfg.delay, debounceOpts...),
		deliver:  deliver,
	}, nil
}

// Search schedules a request for the given filters. Calls within the debounce
// window replace the pending one; only the last filter state of a burst is
// sent to the server.
func (s *Searcher) Search(ctx context.Context, filters search.Filters, viewer *geo.Point) {
	normalized := filters.Normalize()
	s.debounce.Trigger(func() {
		s.dispatch(ctx, normalized, viewer)
	})
}

// SearchNow bypasses the debounce window, for explicit submits such as
// pressing enter or changing a facet checkbox.
func (s *Searcher) SearchNow(ctx context.Context, filters search.Filters, viewer *geo.Point) {
	s.dispatch(ctx, filters.Normalize(), viewer)
}

func (s *Searcher) dispatch(ctx context.Context, filters search.Filters, viewer *geo.Point) {
	seq := s.seq.Add(1)
	page, err := s.api.SearchItems(ctx, filters, viewer)

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if s.seq.Load() != seq {
		// a newer request was dispatched while this one was in flight
		return
	}
	s.deliver(SearchResult{Filters: filters, Page: page, Err: err})
}

// Stop cancels any pending debounce fire.
func (s *Searcher) Stop() {
	s.debounce.Stop()
}

// Close tears the searcher down: the pending debounce is cancelled and
// responses still in flight are dropped instead of delivered.
func (s *Searcher) Close() {
	s.debounce.Stop()
	s.seq.Add(1)
}
