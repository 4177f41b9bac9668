package tmdb

import (
	"net/http"
	"time"
)

// Movie lists served under /movie/{list}
const (
	ListPopular    = "popular"
	ListTopRated   = "top_rated"
	ListNowPlaying = "now_playing"
	ListUpcoming   = "upcoming"
)

// DefaultBaseURL is the v3 API root
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	accessToken string
	language    string
	list        string
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:  DefaultBaseURL,
		timeout:  30 * time.Second,
		language: "en-US",
		list:     ListPopular,
	}
}

// WithBaseURL overrides the API root, mostly for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client. WithTimeout is ignored when set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithAccessToken authenticates with a v4 read access token.
func WithAccessToken(token string) Option {
	return func(o *clientOptions) {
		o.accessToken = token
	}
}

// WithLanguage sets the language of titles and overviews, e.g. "de-DE".
func WithLanguage(language string) Option {
	return func(o *clientOptions) {
		o.language = language
	}
}

// WithList selects which movie list FetchPage pages through.
func WithList(list string) Option {
	return func(o *clientOptions) {
		o.list = list
	}
}

// ValidList reports whether list names a supported movie list
func ValidList(list string) bool {
	switch list {
	case ListPopular, ListTopRated, ListNowPlaying, ListUpcoming:
		return true
	default:
		return false
	}
}
