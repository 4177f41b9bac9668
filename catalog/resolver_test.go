package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	six := sixSizes()
	two := ImageConfig{BaseURL: "http://img/", PosterSizes: []string{"w92", "w154"}}

	tests := []struct {
		name     string
		poster   string
		backdrop string
		cfg      *ImageConfig
		want     string
	}{
		{name: "index four of long ladder", poster: "/p.jpg", cfg: &six, want: "http://image.tmdb.org/t/p/w500/p.jpg"},
		{name: "short ladder falls back", poster: "/p.jpg", cfg: &two, want: "http://img/w500/p.jpg"},
		{name: "no sizes falls back", poster: "/p.jpg", cfg: &ImageConfig{BaseURL: "http://img/"}, want: "http://img/w500/p.jpg"},
		{name: "backdrop when poster empty", backdrop: "/b.jpg", cfg: &two, want: "http://img/w500/b.jpg"},
		{name: "poster wins over backdrop", poster: "/p.jpg", backdrop: "/b.jpg", cfg: &two, want: "http://img/w500/p.jpg"},
		{name: "no image", cfg: &six, want: ""},
		{name: "no config", poster: "/p.jpg", want: ""},
		{name: "empty base", poster: "/p.jpg", cfg: &ImageConfig{PosterSizes: six.PosterSizes}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.poster, tt.backdrop, tt.cfg))
		})
	}
}

func TestResolver_EnsureLoadedSharesInFlightFetch(t *testing.T) {
	src := &fakeSource{}
	r := NewResolver(src, zerolog.Nop())

	const callers = 10
	results := make([]*ImageConfig, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = r.EnsureLoaded(context.Background())
		}()
	}

	call := src.waitConfigCall(t, 1)
	// let every caller join the shared fetch before it resolves
	time.Sleep(20 * time.Millisecond)
	call.reply <- configResult{cfg: sixSizes()}
	wg.Wait()

	assert.Equal(t, 1, src.configCallCount())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Same(t, results[0], r.Config())

	cfg, err := r.EnsureLoaded(context.Background())
	require.NoError(t, err)
	assert.Same(t, results[0], cfg)
	assert.Equal(t, 1, src.configCallCount())
}

func TestResolver_FailureAllowsRetry(t *testing.T) {
	src := &fakeSource{}
	r := NewResolver(src, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := r.EnsureLoaded(context.Background())
		done <- err
	}()
	src.waitConfigCall(t, 1).reply <- configResult{err: errors.New("connection reset")}

	err := <-done
	require.Error(t, err)
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindNetwork, engineErr.Kind)
	assert.Nil(t, r.Config())

	go func() {
		_, err := r.EnsureLoaded(context.Background())
		done <- err
	}()
	src.waitConfigCall(t, 2).reply <- configResult{cfg: sixSizes()}

	require.NoError(t, <-done)
	assert.NotNil(t, r.Config())
	assert.Equal(t, 2, src.configCallCount())
}

func TestResolver_CanceledCallerDoesNotAbortSharedFetch(t *testing.T) {
	src := &fakeSource{}
	r := NewResolver(src, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	canceled := make(chan error, 1)
	go func() {
		_, err := r.EnsureLoaded(ctx)
		canceled <- err
	}()

	call := src.waitConfigCall(t, 1)
	cancel()

	err := <-canceled
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindCanceled, engineErr.Kind)

	call.reply <- configResult{cfg: sixSizes()}
	require.Eventually(t, func() bool { return r.Config() != nil }, waitFor, time.Millisecond)
	assert.Equal(t, 1, src.configCallCount())
}

func TestResolver_ItemURL(t *testing.T) {
	src := &fakeSource{}
	item := Item{ID: 1, PosterPath: "/p.jpg"}

	var nilResolver *Resolver
	assert.Empty(t, nilResolver.ItemURL(item))

	r := NewResolver(src, zerolog.Nop(), WithSecureImages(true))
	assert.Empty(t, r.ItemURL(item), "unloaded configuration resolves to no image")

	go func() { _, _ = r.EnsureLoaded(context.Background()) }()
	cfg := sixSizes()
	cfg.SecureBaseURL = "https://image.tmdb.org/t/p/"
	src.waitConfigCall(t, 1).reply <- configResult{cfg: cfg}
	require.Eventually(t, func() bool { return r.Config() != nil }, waitFor, time.Millisecond)

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", r.ItemURL(item))
	assert.Equal(t, "http://image.tmdb.org/t/p/", r.Config().BaseURL, "cached configuration is not rewritten")
}
