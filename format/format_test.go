package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/marquee/catalog"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		minutes  int
		expected string
	}{
		{name: "absent", lang: "en", minutes: 0, expected: "-"},
		{name: "negative", lang: "en", minutes: -5, expected: "-"},
		{name: "singular", lang: "en", minutes: 1, expected: "1 minute"},
		{name: "plural", lang: "en", minutes: 95, expected: "95 minutes"},
		{name: "regional english", lang: "en-GB", minutes: 1, expected: "1 minute"},
		{name: "german singular", lang: "de", minutes: 1, expected: "1 Minute"},
		{name: "german plural", lang: "de-AT", minutes: 120, expected: "120 Minuten"},
		{name: "unsupported falls back", lang: "ja", minutes: 2, expected: "2 minutes"},
		{name: "malformed falls back", lang: "!!", minutes: 1, expected: "1 minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.lang).Duration(tt.minutes))
		})
	}

	assert.Equal(t, "3 minutes", Duration(3))
}

func TestOverview(t *testing.T) {
	assert.Equal(t, "-", Overview(""))
	assert.Equal(t, "-", Overview("  \n"))
	assert.Equal(t, "A heist.", Overview("A heist."))
}

func TestJoinNames(t *testing.T) {
	tests := []struct {
		name     string
		genres   []catalog.Genre
		expected string
	}{
		{name: "nil", genres: nil, expected: "-"},
		{name: "single", genres: []catalog.Genre{{Name: "Drama"}}, expected: "Drama"},
		{
			name:     "keeps order",
			genres:   []catalog.Genre{{Name: "Crime"}, {Name: "Drama"}, {Name: "Action"}},
			expected: "Crime, Drama, Action",
		},
		{
			name:     "blank names skipped",
			genres:   []catalog.Genre{{Name: "Crime"}, {Name: ""}, {Name: " "}},
			expected: "Crime",
		},
		{name: "only blanks", genres: []catalog.Genre{{Name: ""}}, expected: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Genres(tt.genres))
		})
	}

	langs := []catalog.Language{{Code: "en", Name: "English"}, {Code: "fr", Name: "Français"}}
	assert.Equal(t, "English, Français", Languages(langs))
	assert.Equal(t, "-", Languages(nil))

	assert.Equal(t, "a, b", JoinNames([]string{"a", "b"}, func(s string) string { return s }))
}

func TestPopularity(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{value: 0, expected: "0"},
		{value: 7, expected: "7"},
		{value: 7.04, expected: "7"},
		{value: 7.25, expected: "7.3"},
		{value: 123.46, expected: "123.5"},
		{value: 0.31, expected: "0.3"},
		{value: -0.01, expected: "0"},
		{value: 2999.96, expected: "3000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Popularity(tt.value), "value %v", tt.value)
	}
}

func TestRelease(t *testing.T) {
	assert.Equal(t, "1995", Release("1995-12-15"))
	assert.Equal(t, "1995", Release("1995"))
	assert.Equal(t, "-", Release(""))
	assert.Equal(t, "-", Release("soon"))
	assert.Equal(t, "-", Release("95-12-15"))
}

func TestRating(t *testing.T) {
	assert.Equal(t, "-", Rating(0))
	assert.Equal(t, "7.9/10", Rating(7.93))
}
