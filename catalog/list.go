package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Fetch identifies which list request, if any, is in flight
type Fetch int

const (
	// FetchNone means no request is in flight
	FetchNone Fetch = iota
	// FetchInitial is the first load of page 1
	FetchInitial
	// FetchRefresh reloads page 1 and replaces the items
	FetchRefresh
	// FetchNextPage appends the page after CurrentPage
	FetchNextPage
)

// String returns the string representation of a Fetch
func (f Fetch) String() string {
	switch f {
	case FetchNone:
		return "none"
	case FetchInitial:
		return "initial"
	case FetchRefresh:
		return "refresh"
	case FetchNextPage:
		return "next_page"
	default:
		return "unknown"
	}
}

// ListState is owned by a List and only handed out as a copy
type ListState struct {
	Items       []Item
	CurrentPage int
	TotalPages  int
	InFlight    Fetch
	LastErr     *Error
	// Loaded is set once an initial load or refresh has succeeded
	Loaded bool
}

// List accumulates catalog pages driven by start, refresh and
// scroll-to-bottom triggers
type List struct {
	src      PageSource
	resolver *Resolver
	logger   zerolog.Logger

	mu     sync.Mutex
	state  ListState
	seen   map[int64]struct{}
	gen    uint64
	cancel context.CancelFunc
	// failed is the entry point of the last failed request, for Retry
	failed Fetch
	subs   broadcaster[ListView]
}

// NewList creates a list engine. resolver may be nil when images are not
// needed.
func NewList(src PageSource, resolver *Resolver, logger zerolog.Logger) *List {
	return &List{
		src:      src,
		resolver: resolver,
		logger:   logger,
		seen:     make(map[int64]struct{}),
	}
}

// Resolver returns the image resolver shared by this list
func (l *List) Resolver() *Resolver {
	return l.resolver
}

// Start requests page 1. It is accepted only before anything has been
// accumulated and while nothing is in flight.
func (l *List) Start(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.InFlight != FetchNone || len(l.state.Items) > 0 {
		return false
	}

	l.begin(ctx, FetchInitial, 1)
	return true
}

// Refresh reloads page 1 from any state, superseding whatever is in flight.
// On success the accumulated items are replaced.
func (l *List) Refresh(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.begin(ctx, FetchRefresh, 1)
}

// ScrollToBottom requests the next page. Calls while a request is in flight
// or once the last page is reached are ignored and return false.
func (l *List) ScrollToBottom(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.scrollLocked(ctx)
}

// Retry re-invokes the entry point whose request failed last
func (l *List) Retry(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.LastErr == nil || l.state.InFlight != FetchNone {
		return false
	}

	switch l.failed {
	case FetchInitial:
		if len(l.state.Items) > 0 {
			return false
		}
		l.begin(ctx, FetchInitial, 1)
		return true
	case FetchRefresh:
		l.begin(ctx, FetchRefresh, 1)
		return true
	case FetchNextPage:
		return l.scrollLocked(ctx)
	default:
		return false
	}
}

// State returns a copy of the current state
func (l *List) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.snapshot()
}

// View returns the projection of the current state
func (l *List) View() ListView {
	return ProjectList(l.State())
}

// Subscribe returns a channel that always holds the most recent view, and a
// function that unsubscribes and closes it
func (l *List) Subscribe() (<-chan ListView, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, id := l.subs.add(ProjectList(l.snapshot()))
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.subs.remove(id)
		})
	}
}

func (l *List) scrollLocked(ctx context.Context) bool {
	if l.state.InFlight != FetchNone || l.state.CurrentPage >= l.state.TotalPages {
		return false
	}

	l.begin(ctx, FetchNextPage, l.state.CurrentPage+1)
	return true
}

// begin supersedes any in-flight request and fires a new one. l.mu is held.
func (l *List) begin(ctx context.Context, kind Fetch, page int) {
	if l.cancel != nil {
		l.cancel()
	}

	l.gen++
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state.InFlight = kind

	l.logger.Debug().
		Str("fetch", kind.String()).
		Int("page", page).
		Msg("Requesting catalog page")

	go l.fetch(fetchCtx, l.gen, kind, page)

	if kind != FetchNextPage && l.resolver != nil && l.resolver.Config() == nil {
		go l.loadImages(ctx)
	}

	l.publishLocked()
}

func (l *List) fetch(ctx context.Context, gen uint64, kind Fetch, page int) {
	result, err := l.src.FetchPage(ctx, page)
	if err == nil && result.Page != 0 && result.Page != page {
		err = &Error{
			Kind: KindDecode,
			Op:   "fetch page",
			Err:  fmt.Errorf("requested page %d, got page %d", page, result.Page),
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		l.logger.Debug().
			Str("fetch", kind.String()).
			Int("page", page).
			Msg("Discarding stale catalog page")
		return
	}

	l.cancel()
	l.cancel = nil
	l.state.InFlight = FetchNone

	if err != nil {
		l.state.LastErr = AsError("fetch page", err)
		l.failed = kind
		l.logger.Warn().
			Err(err).
			Str("fetch", kind.String()).
			Int("page", page).
			Msg("Failed to fetch catalog page")
		l.publishLocked()
		return
	}

	l.apply(kind, page, result)
	l.publishLocked()
}

// apply merges a successful page. l.mu is held.
func (l *List) apply(kind Fetch, page int, result Page) {
	if kind == FetchRefresh || kind == FetchInitial {
		// a fresh slice keeps published snapshots untouched
		l.state.Items = make([]Item, 0, len(result.Items))
		l.seen = make(map[int64]struct{}, len(result.Items))
		l.state.Loaded = true
	}

	var dropped int
	for _, item := range result.Items {
		if _, dup := l.seen[item.ID]; dup {
			dropped++
			continue
		}
		l.seen[item.ID] = struct{}{}
		l.state.Items = append(l.state.Items, item)
	}

	if result.Page != 0 {
		page = result.Page
	}
	l.state.CurrentPage = page
	l.state.TotalPages = max(result.TotalPages, page)
	l.state.LastErr = nil
	l.failed = FetchNone

	l.logger.Debug().
		Str("fetch", kind.String()).
		Int("page", l.state.CurrentPage).
		Int("total_pages", l.state.TotalPages).
		Int("received", len(result.Items)).
		Int("duplicates", dropped).
		Int("total", len(l.state.Items)).
		Msg("Applied catalog page")
}

func (l *List) loadImages(ctx context.Context) {
	if _, err := l.resolver.EnsureLoaded(ctx); err != nil {
		// items still render, just without images
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.publishLocked()
}

func (l *List) snapshot() ListState {
	s := l.state
	s.Items = slices.Clone(l.state.Items)
	return s
}

func (l *List) publishLocked() {
	l.subs.publish(ProjectList(l.snapshot()))
}
