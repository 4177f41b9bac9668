package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Images  ImagesConfig  `mapstructure:"images"`
	Display DisplayConfig `mapstructure:"display"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	Filters FilterConfig  `mapstructure:"filters"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	URL         string        `mapstructure:"url"`
	APIKey      string        `mapstructure:"api_key"`
	AccessToken string        `mapstructure:"access_token"`
	Language    string        `mapstructure:"language"`
	List        string        `mapstructure:"list"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// WebURL is prefixed to a movie id to open its page in a browser
	WebURL string `mapstructure:"web_url"`
}

// ImagesConfig controls image URL resolution
type ImagesConfig struct {
	Secure bool `mapstructure:"secure"`
}

// DisplayConfig controls formatting
type DisplayConfig struct {
	Language string `mapstructure:"language"`
}

// BrowseConfig controls the interactive browser
type BrowseConfig struct {
	// PrefetchThreshold is how many rows before the end the next page is requested
	PrefetchThreshold int `mapstructure:"prefetch_threshold"`
}

// FilterConfig maps filter names to expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
