package tmdb

import "github.com/s0up4200/marquee/catalog"

// movieResult is an entry of a movie list page
type movieResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Popularity   float64 `json:"popularity"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview"`
	GenreIDs     []int   `json:"genre_ids"`
}

// pageResponse is the envelope of /movie/{list}
type pageResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// genreListResponse is the response of /genre/movie/list
type genreListResponse struct {
	Genres []genre `json:"genres"`
}

type spokenLanguage struct {
	ISO639      string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// movieDetails is the response of /movie/{id}
type movieDetails struct {
	movieResult
	Runtime         *int             `json:"runtime"`
	Genres          []genre          `json:"genres"`
	SpokenLanguages []spokenLanguage `json:"spoken_languages"`
}

// configurationResponse is the response of /configuration
type configurationResponse struct {
	Images struct {
		BaseURL       string   `json:"base_url"`
		SecureBaseURL string   `json:"secure_base_url"`
		PosterSizes   []string `json:"poster_sizes"`
		BackdropSizes []string `json:"backdrop_sizes"`
	} `json:"images"`
}

// errorResponse is the body TMDB sends with non-200 responses
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (m movieResult) toItem() catalog.Item {
	return catalog.Item{
		ID:           m.ID,
		Title:        m.Title,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		Popularity:   m.Popularity,
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		Overview:     m.Overview,
	}
}

func (r pageResponse) hasGenres() bool {
	for _, m := range r.Results {
		if len(m.GenreIDs) > 0 {
			return true
		}
	}
	return false
}

// toPage converts the page. Genre ids are named through names; an id
// missing from names keeps an empty name.
func (r pageResponse) toPage(names map[int]string) catalog.Page {
	items := make([]catalog.Item, 0, len(r.Results))
	for _, m := range r.Results {
		item := m.toItem()
		for _, id := range m.GenreIDs {
			item.Genres = append(item.Genres, catalog.Genre{ID: id, Name: names[id]})
		}
		items = append(items, item)
	}
	return catalog.Page{
		Items:        items,
		Page:         r.Page,
		TotalPages:   r.TotalPages,
		TotalResults: r.TotalResults,
	}
}

func (d movieDetails) toItem() catalog.Item {
	item := d.movieResult.toItem()
	if d.Runtime != nil {
		item.RuntimeMinutes = *d.Runtime
	}

	for _, g := range d.Genres {
		item.Genres = append(item.Genres, catalog.Genre{ID: g.ID, Name: g.Name})
	}

	for _, l := range d.SpokenLanguages {
		name := l.Name
		if name == "" {
			name = l.EnglishName
		}
		item.SpokenLanguages = append(item.SpokenLanguages, catalog.Language{Code: l.ISO639, Name: name})
	}

	return item
}

func (c configurationResponse) toImageConfig() catalog.ImageConfig {
	return catalog.ImageConfig{
		BaseURL:       c.Images.BaseURL,
		SecureBaseURL: c.Images.SecureBaseURL,
		PosterSizes:   c.Images.PosterSizes,
		BackdropSizes: c.Images.BackdropSizes,
	}
}
