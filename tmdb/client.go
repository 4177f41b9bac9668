package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/catalog"
)

var _ catalog.Source = (*Client)(nil)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 4 << 20

// Client represents a TMDB API client
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	language    string
	list        string
	httpClient  *http.Client
	logger      zerolog.Logger

	mu sync.RWMutex
	// genreCache maps genre ids to names per language
	genreCache map[string]map[int]string
}

// NewClient creates a new TMDB client. Either apiKey or WithAccessToken is
// required. No request is made until the first fetch.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if apiKey == "" && o.accessToken == "" {
		return nil, fmt.Errorf("%w: API key or access token is required", ErrInvalidConfig)
	}
	if o.baseURL == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(o.baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid URL %q: %v", ErrInvalidConfig, o.baseURL, err)
	}
	if !ValidList(o.list) {
		return nil, fmt.Errorf("%w: unknown movie list %q", ErrInvalidConfig, o.list)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:     strings.TrimSuffix(o.baseURL, "/"),
		apiKey:      apiKey,
		accessToken: o.accessToken,
		language:    o.language,
		list:        o.list,
		httpClient:  httpClient,
		logger:      logger,
		genreCache:  make(map[string]map[int]string),
	}, nil
}

// doRequest performs an authenticated GET and decodes a 200 response into v
func (c *Client) doRequest(ctx context.Context, op, endpoint string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.accessToken == "" {
		params.Set("api_key", c.apiKey)
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &catalog.Error{Kind: catalog.KindNetwork, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("page", params.Get("page")).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return catalog.AsError(op, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return catalog.AsError(op, fmt.Errorf("failed to read response body: %w", err))
	}
	if len(body) > maxResponseSize {
		return &catalog.Error{Kind: catalog.KindDecode, Op: op, Err: fmt.Errorf("response body exceeds %d bytes", maxResponseSize)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Code = errResp.StatusCode
			apiErr.Message = errResp.StatusMessage
		}
		return &catalog.Error{Kind: catalog.KindServer, Op: op, Err: apiErr}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &catalog.Error{Kind: catalog.KindDecode, Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return nil
}

// TestConnection verifies the API root is reachable and the credentials work
func (c *Client) TestConnection(ctx context.Context) error {
	var resp configurationResponse
	if err := c.doRequest(ctx, "test connection", "/configuration", nil, &resp); err != nil {
		return err
	}

	c.logger.Debug().Msg("Successfully connected to TMDB")
	return nil
}

// FetchPage retrieves one page of the configured movie list
func (c *Client) FetchPage(ctx context.Context, page int) (catalog.Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	c.setLanguage(params)

	var resp pageResponse
	if err := c.doRequest(ctx, "fetch page", "/movie/"+c.list, params, &resp); err != nil {
		return catalog.Page{}, err
	}

	c.logger.Debug().
		Int("page", resp.Page).
		Int("total_pages", resp.TotalPages).
		Int("count", len(resp.Results)).
		Msg("Retrieved movie page from TMDB")

	var names map[int]string
	if resp.hasGenres() {
		var err error
		if names, err = c.genreNames(ctx); err != nil {
			// the page still loads; genres keep their ids without names
			c.logger.Warn().Err(err).Msg("Failed to fetch genre names")
		}
	}

	return resp.toPage(names), nil
}

// genreNames returns the movie genre names for the client language, fetching
// them on first use
func (c *Client) genreNames(ctx context.Context) (map[int]string, error) {
	c.mu.RLock()
	names, ok := c.genreCache[c.language]
	c.mu.RUnlock()
	if ok {
		return names, nil
	}

	params := url.Values{}
	c.setLanguage(params)

	var resp genreListResponse
	if err := c.doRequest(ctx, "fetch genres", "/genre/movie/list", params, &resp); err != nil {
		return nil, err
	}

	names = make(map[int]string, len(resp.Genres))
	for _, g := range resp.Genres {
		names[g.ID] = g.Name
	}

	c.mu.Lock()
	c.genreCache[c.language] = names
	c.mu.Unlock()

	c.logger.Debug().Int("genres", len(names)).Msg("Cached TMDB genre names")
	return names, nil
}

// FetchItem retrieves the details of one movie
func (c *Client) FetchItem(ctx context.Context, id int64) (catalog.Item, error) {
	params := url.Values{}
	c.setLanguage(params)

	var resp movieDetails
	endpoint := "/movie/" + strconv.FormatInt(id, 10)
	if err := c.doRequest(ctx, "fetch item", endpoint, params, &resp); err != nil {
		return catalog.Item{}, err
	}

	return resp.toItem(), nil
}

// FetchImageConfig retrieves the image base URLs and size ladders
func (c *Client) FetchImageConfig(ctx context.Context) (catalog.ImageConfig, error) {
	var resp configurationResponse
	if err := c.doRequest(ctx, "fetch image configuration", "/configuration", nil, &resp); err != nil {
		return catalog.ImageConfig{}, err
	}

	return resp.toImageConfig(), nil
}

// List returns the movie list FetchPage pages through
func (c *Client) List() string {
	return c.list
}

func (c *Client) setLanguage(params url.Values) {
	if c.language != "" {
		params.Set("language", c.language)
	}
}
