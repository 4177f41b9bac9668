package catalog

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// fallbackPosterSize is used when the server's size ladder is too short to
// contain the conventional medium-large entry at index 4
const fallbackPosterSize = "w500"

// posterSizeIndex is usually "w500" in the server ladder
const posterSizeIndex = 4

// Resolver fetches the image configuration at most once per process and
// resolves item image paths against it
type Resolver struct {
	src    ConfigSource
	logger zerolog.Logger
	secure bool

	group singleflight.Group
	cfg   atomic.Pointer[ImageConfig]
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithSecureImages prefers the HTTPS base URL when the server provides one
func WithSecureImages(secure bool) ResolverOption {
	return func(r *Resolver) {
		r.secure = secure
	}
}

// NewResolver creates a resolver backed by src
func NewResolver(src ConfigSource, logger zerolog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		src:    src,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureLoaded returns the cached configuration, fetching it first if needed.
// Concurrent callers share one in-flight fetch. A failed fetch leaves the
// resolver unloaded so the next call retries. A caller whose ctx ends early
// gets a canceled error while the shared fetch keeps running for the others.
func (r *Resolver) EnsureLoaded(ctx context.Context) (*ImageConfig, error) {
	if cfg := r.cfg.Load(); cfg != nil {
		return cfg, nil
	}

	ch := r.group.DoChan("configuration", func() (any, error) {
		if cfg := r.cfg.Load(); cfg != nil {
			return cfg, nil
		}

		fetched, err := r.src.FetchImageConfig(context.WithoutCancel(ctx))
		if err != nil {
			r.logger.Warn().Err(err).Msg("Failed to fetch image configuration")
			return nil, AsError("fetch image configuration", err)
		}

		cfg := fetched.clone()
		r.cfg.Store(&cfg)
		r.logger.Debug().
			Str("base_url", cfg.BaseURL).
			Int("poster_sizes", len(cfg.PosterSizes)).
			Msg("Loaded image configuration")
		return &cfg, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ImageConfig), nil
	case <-ctx.Done():
		return nil, AsError("fetch image configuration", ctx.Err())
	}
}

// Config returns the cached configuration or nil before the first success.
// The returned value is shared and must not be modified.
func (r *Resolver) Config() *ImageConfig {
	if r == nil {
		return nil
	}
	return r.cfg.Load()
}

// ItemURL resolves the item's image against the cached configuration. It
// returns "" when the item has no image or the configuration is not loaded.
func (r *Resolver) ItemURL(item Item) string {
	cfg := r.Config()
	if cfg != nil && r.secure && cfg.SecureBaseURL != "" {
		secure := *cfg
		secure.BaseURL = cfg.SecureBaseURL
		cfg = &secure
	}
	return ResolveURL(item.PosterPath, item.BackdropPath, cfg)
}

// ResolveURL builds the full image URL for an item. The poster wins over the
// backdrop. An empty result means "no image".
func ResolveURL(posterPath, backdropPath string, cfg *ImageConfig) string {
	path := posterPath
	if path == "" {
		path = backdropPath
	}
	if path == "" {
		return ""
	}

	if cfg == nil || cfg.BaseURL == "" {
		return ""
	}

	size := fallbackPosterSize
	if len(cfg.PosterSizes) > posterSizeIndex {
		size = cfg.PosterSizes[posterSizeIndex]
	}

	return cfg.BaseURL + size + path
}
