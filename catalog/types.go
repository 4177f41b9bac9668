package catalog

import (
	"context"
	"slices"
)

// ImageConfig is the server-provided image base URL and size ladders
type ImageConfig struct {
	BaseURL       string
	SecureBaseURL string
	PosterSizes   []string
	BackdropSizes []string
}

func (c ImageConfig) clone() ImageConfig {
	c.PosterSizes = slices.Clone(c.PosterSizes)
	c.BackdropSizes = slices.Clone(c.BackdropSizes)
	return c
}

// Genre is a named category attached to an item
type Genre struct {
	ID   int
	Name string
}

// Language is a spoken language attached to an item
type Language struct {
	Code string
	Name string
}

// Item is a single catalog entry. Empty strings and zero numbers mean the
// field was absent in the payload. RuntimeMinutes and SpokenLanguages are
// only populated by a detail fetch; list pages may carry Genres.
type Item struct {
	ID           int64
	Title        string
	PosterPath   string
	BackdropPath string
	Popularity   float64
	ReleaseDate  string
	VoteAverage  float64

	Overview        string
	RuntimeMinutes  int
	Genres          []Genre
	SpokenLanguages []Language
}

// Page is one fetched batch of items plus pagination metadata
type Page struct {
	Items        []Item
	Page         int
	TotalPages   int
	TotalResults int
}

// HasMore reports whether pages after this one exist
func (p Page) HasMore() bool {
	return p.Page < p.TotalPages
}

// PageSource fetches one page of the catalog
type PageSource interface {
	FetchPage(ctx context.Context, page int) (Page, error)
}

// ItemSource fetches a single item with its detail fields
type ItemSource interface {
	FetchItem(ctx context.Context, id int64) (Item, error)
}

// ConfigSource fetches the image configuration
type ConfigSource interface {
	FetchImageConfig(ctx context.Context) (ImageConfig, error)
}

// Source is the full transport contract consumed by the engine
type Source interface {
	PageSource
	ItemSource
	ConfigSource
}
