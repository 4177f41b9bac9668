package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// DetailPhase is the state of a Detail machine
type DetailPhase int

const (
	// DetailIdle means Start has not been called
	DetailIdle DetailPhase = iota
	// DetailLoading means an item request is in flight
	DetailLoading
	// DetailLoaded means the requested item is available
	DetailLoaded
	// DetailFailed means the last item request failed
	DetailFailed
)

// String returns the string representation of a DetailPhase
func (p DetailPhase) String() string {
	switch p {
	case DetailIdle:
		return "idle"
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DetailState is owned by a Detail and only handed out as a copy
type DetailState struct {
	Item        *Item
	Phase       DetailPhase
	RequestedID int64
	LastErr     *Error
}

// Detail loads a single item. A later Start supersedes an earlier one and
// the earlier response is ignored when it arrives.
type Detail struct {
	src      ItemSource
	resolver *Resolver
	logger   zerolog.Logger

	mu     sync.Mutex
	state  DetailState
	gen    uint64
	cancel context.CancelFunc
	subs   broadcaster[DetailView]
}

// NewDetail creates a detail machine. resolver may be nil.
func NewDetail(src ItemSource, resolver *Resolver, logger zerolog.Logger) *Detail {
	return &Detail{
		src:      src,
		resolver: resolver,
		logger:   logger,
	}
}

// Start loads item id from any state
func (d *Detail) Start(ctx context.Context, id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	d.gen++
	fetchCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if d.state.RequestedID != id {
		d.state.Item = nil
	}
	d.state.RequestedID = id
	d.state.Phase = DetailLoading
	d.state.LastErr = nil

	d.logger.Debug().Int64("id", id).Msg("Requesting item")

	go d.fetch(fetchCtx, d.gen, id)

	if d.resolver != nil && d.resolver.Config() == nil {
		go d.loadImages(ctx, id)
	}

	d.publishLocked()
}

// State returns a copy of the current state
func (d *Detail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.snapshot()
}

// View returns the projection of the current state with the image resolved
func (d *Detail) View() DetailView {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.viewLocked()
}

// Subscribe returns a channel that always holds the most recent view, and a
// function that unsubscribes and closes it
func (d *Detail) Subscribe() (<-chan DetailView, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, id := d.subs.add(d.viewLocked())
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.subs.remove(id)
		})
	}
}

func (d *Detail) fetch(ctx context.Context, gen uint64, id int64) {
	item, err := d.src.FetchItem(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen || id != d.state.RequestedID {
		d.logger.Debug().
			Int64("id", id).
			Int64("current_id", d.state.RequestedID).
			Msg("Discarding stale item response")
		return
	}

	d.cancel()
	d.cancel = nil

	if err != nil {
		d.state.Phase = DetailFailed
		d.state.LastErr = AsError("fetch item", err)
		d.logger.Warn().Err(err).Int64("id", id).Msg("Failed to fetch item")
		d.publishLocked()
		return
	}

	d.state.Item = &item
	d.state.Phase = DetailLoaded
	d.publishLocked()
}

func (d *Detail) loadImages(ctx context.Context, id int64) {
	if _, err := d.resolver.EnsureLoaded(ctx); err != nil {
		d.logger.Debug().Int64("id", id).Msg("Showing item without image")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.publishLocked()
}

func (d *Detail) snapshot() DetailState {
	s := d.state
	if s.Item != nil {
		item := *s.Item
		s.Item = &item
	}
	return s
}

func (d *Detail) viewLocked() DetailView {
	v := ProjectDetail(d.snapshot())
	if v.Item != nil {
		v.ImageURL = d.resolver.ItemURL(*v.Item)
	}
	return v
}

func (d *Detail) publishLocked() {
	d.subs.publish(d.viewLocked())
}
