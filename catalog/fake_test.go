package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

type pageResult struct {
	page Page
	err  error
}

type pageCall struct {
	page  int
	reply chan pageResult
}

type itemResult struct {
	item Item
	err  error
}

type itemCall struct {
	id    int64
	reply chan itemResult
}

type configResult struct {
	cfg ImageConfig
	err error
}

type configCall struct {
	reply chan configResult
}

// fakeSource blocks every fetch until the test replies to the recorded call
type fakeSource struct {
	// ignoreCancel keeps superseded calls blocked until replied, so a test
	// can deliver a late response
	ignoreCancel bool

	mu          sync.Mutex
	pageCalls   []*pageCall
	itemCalls   []*itemCall
	configCalls []*configCall
}

func (f *fakeSource) FetchPage(ctx context.Context, page int) (Page, error) {
	call := &pageCall{page: page, reply: make(chan pageResult, 1)}
	f.mu.Lock()
	f.pageCalls = append(f.pageCalls, call)
	f.mu.Unlock()

	select {
	case r := <-call.reply:
		return r.page, r.err
	case <-f.done(ctx):
		return Page{}, ctx.Err()
	}
}

func (f *fakeSource) FetchItem(ctx context.Context, id int64) (Item, error) {
	call := &itemCall{id: id, reply: make(chan itemResult, 1)}
	f.mu.Lock()
	f.itemCalls = append(f.itemCalls, call)
	f.mu.Unlock()

	select {
	case r := <-call.reply:
		return r.item, r.err
	case <-f.done(ctx):
		return Item{}, ctx.Err()
	}
}

func (f *fakeSource) FetchImageConfig(ctx context.Context) (ImageConfig, error) {
	call := &configCall{reply: make(chan configResult, 1)}
	f.mu.Lock()
	f.configCalls = append(f.configCalls, call)
	f.mu.Unlock()

	select {
	case r := <-call.reply:
		return r.cfg, r.err
	case <-ctx.Done():
		return ImageConfig{}, ctx.Err()
	}
}

func (f *fakeSource) done(ctx context.Context) <-chan struct{} {
	if f.ignoreCancel {
		return nil
	}
	return ctx.Done()
}

func (f *fakeSource) pageCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pageCalls)
}

func (f *fakeSource) configCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.configCalls)
}

// waitPageCall returns the nth (1-based) FetchPage call once it was made
func (f *fakeSource) waitPageCall(t *testing.T, n int) *pageCall {
	t.Helper()
	require.Eventually(t, func() bool { return f.pageCallCount() >= n }, waitFor, time.Millisecond)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageCalls[n-1]
}

func (f *fakeSource) waitItemCall(t *testing.T, n int) *itemCall {
	t.Helper()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.itemCalls) >= n
	}, waitFor, time.Millisecond)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.itemCalls[n-1]
}

func (f *fakeSource) waitConfigCall(t *testing.T, n int) *configCall {
	t.Helper()
	require.Eventually(t, func() bool { return f.configCallCount() >= n }, waitFor, time.Millisecond)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configCalls[n-1]
}

func items(ids ...int64) []Item {
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, Item{ID: id, Title: "movie"})
	}
	return out
}

func ids(list []Item) []int64 {
	out := make([]int64, 0, len(list))
	for _, item := range list {
		out = append(out, item.ID)
	}
	return out
}

func page(n, total int, list ...int64) pageResult {
	return pageResult{page: Page{Items: items(list...), Page: n, TotalPages: total}}
}

func sixSizes() ImageConfig {
	return ImageConfig{
		BaseURL:     "http://image.tmdb.org/t/p/",
		PosterSizes: []string{"w92", "w154", "w185", "w342", "w500", "w780"},
	}
}
