package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/sched"
	"github.com/sharehub-app/sharehub-backend/pkg/search"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := f.stopped
	f.stopped = true
	return !was
}

func (f *fakeTimer) fire() {
	if !f.stopped {
		f.stopped = true
		f.fn()
	}
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) factory(_ time.Duration, fn func()) sched.Timer {
	t := &fakeTimer{fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) last() *fakeTimer {
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

type recordingAPI struct {
	mu      sync.Mutex
	queries []string
}

func (a *recordingAPI) SearchItems(_ context.Context, filters search.Filters, _ *geo.Point) (*ItemsPage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queries = append(a.queries, filters.Query)
	return &ItemsPage{}, nil
}

func TestSearcherCollapsesTypingBurst(t *testing.T) {
	timers := &fakeScheduler{}
	api := &recordingAPI{}

	var results []SearchResult
	s, err := NewSearcher(api, func(r SearchResult) { results = append(results, r) },
		WithTimerFactory(timers.factory))
	if err != nil {
		t.Fatalf("new searcher: %v", err)
	}

	for _, text := range []string{"w", "wi", "win", "winter coat"} {
		filters := search.Default()
		filters.Query = text
		s.Search(context.Background(), filters, nil)
	}

	timers.last().fire()

	if len(api.queries) != 1 || api.queries[0] != "winter coat" {
		t.Fatalf("expected single request for final input, got %v", api.queries)
	}
	if len(results) != 1 || results[0].Filters.Query != "winter coat" {
		t.Fatalf("unexpected results %+v", results)
	}
}

type gatedAPI struct {
	calls   chan string
	release map[string]chan struct{}
}

func (a *gatedAPI) SearchItems(_ context.Context, filters search.Filters, _ *geo.Point) (*ItemsPage, error) {
	a.calls <- filters.Query
	<-a.release[filters.Query]
	return &ItemsPage{}, nil
}

func TestSearcherDropsStaleResponse(t *testing.T) {
	api := &gatedAPI{
		calls: make(chan string, 2),
		release: map[string]chan struct{}{
			"old": make(chan struct{}),
			"new": make(chan struct{}),
		},
	}

	var mu sync.Mutex
	var delivered []string
	s, err := NewSearcher(api, func(r SearchResult) {
		mu.Lock()
		delivered = append(delivered, r.Filters.Query)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("new searcher: %v", err)
	}

	var wg sync.WaitGroup
	run := func(query string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			filters := search.Default()
			filters.Query = query
			s.SearchNow(context.Background(), filters, nil)
		}()
		if got := <-api.calls; got != query {
			t.Errorf("expected call for %q, got %q", query, got)
		}
	}

	run("old")
	run("new")

	// The newer request finishes first; the older one returns afterwards
	// and must be discarded.
	close(api.release["new"])
	close(api.release["old"])
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 1 || delivered[0] != "new" {
		t.Fatalf("expected only the newest result, got %v", delivered)
	}
}

func TestSearcherNewestResultLandsLast(t *testing.T) {
	api := &gatedAPI{
		calls: make(chan string, 2),
		release: map[string]chan struct{}{
			"old": make(chan struct{}),
			"new": make(chan struct{}),
		},
	}
	deliverGate := map[string]chan struct{}{
		"old": make(chan struct{}),
		"new": make(chan struct{}),
	}
	entered := make(chan string, 2)

	var mu sync.Mutex
	var delivered []string
	s, err := NewSearcher(api, func(r SearchResult) {
		entered <- r.Filters.Query
		<-deliverGate[r.Filters.Query]
		mu.Lock()
		delivered = append(delivered, r.Filters.Query)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("new searcher: %v", err)
	}

	var wg sync.WaitGroup
	run := func(query string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			filters := search.Default()
			filters.Query = query
			s.SearchNow(context.Background(), filters, nil)
		}()
		<-api.calls
	}

	// The older request finishes its call and is mid-delivery when the
	// newer one is dispatched and completes.
	run("old")
	close(api.release["old"])
	if got := <-entered; got != "old" {
		t.Fatalf("expected the older delivery first, got %q", got)
	}
	run("new")
	close(api.release["new"])

	close(deliverGate["new"])
	close(deliverGate["old"])
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) == 0 || delivered[len(delivered)-1] != "new" {
		t.Fatalf("expected the newest result to land last, got %v", delivered)
	}
}

func TestSearcherCloseDropsInFlight(t *testing.T) {
	api := &gatedAPI{
		calls:   make(chan string, 1),
		release: map[string]chan struct{}{"coat": make(chan struct{})},
	}

	var mu sync.Mutex
	var delivered []string
	s, err := NewSearcher(api, func(r SearchResult) {
		mu.Lock()
		delivered = append(delivered, r.Filters.Query)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("new searcher: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		filters := search.Default()
		filters.Query = "coat"
		s.SearchNow(context.Background(), filters, nil)
	}()
	<-api.calls

	s.Close()
	close(api.release["coat"])
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 0 {
		t.Fatalf("expected no delivery after close, got %v", delivered)
	}
}

func TestNewSearcherValidatesDependencies(t *testing.T) {
	if _, err := NewSearcher(nil, func(SearchResult) {}); err == nil {
		t.Fatal("expected error for missing client")
	}
	if _, err := NewSearcher(&recordingAPI{}, nil); err == nil {
		t.Fatal("expected error for missing callback")
	}
}
