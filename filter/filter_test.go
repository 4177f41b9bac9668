package filter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
)

func testItems() []catalog.Item {
	return []catalog.Item{
		{
			ID:          949,
			Title:       "Heat",
			PosterPath:  "/heat.jpg",
			Popularity:  41.2,
			VoteAverage: 7.9,
			ReleaseDate: "1995-12-15",
			Genres:      []catalog.Genre{{ID: 80, Name: "Crime"}},
		},
		{
			ID:          680,
			Title:       "Pulp Fiction",
			Popularity:  80.5,
			VoteAverage: 8.5,
			ReleaseDate: "1994-09-10",
		},
		{
			ID:          1,
			Title:       "Untitled Heat Sequel",
			Popularity:  3,
		},
	}
}

func TestCompile(t *testing.T) {
	compiler := NewExprCompiler()

	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `titleContains("heat")`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `titleContains("unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown field",
			expression: `Rating > 5`,
			wantErr:    true,
		},
		{
			name:       "not a boolean",
			expression: `Popularity + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Year >= 1990 and Popularity > 10 and HasPoster and hasGenre("crime")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				require.ErrorAs(t, err, &compErr)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestMatch(t *testing.T) {
	clock := func() time.Time { return time.Date(1996, 12, 15, 0, 0, 0, 0, time.UTC) }
	compiler := NewExprCompiler(WithClock(clock))
	heat := testItems()[0]
	untitled := testItems()[2]

	tests := []struct {
		name       string
		expression string
		item       catalog.Item
		expected   bool
	}{
		{name: "title helper", expression: `titleContains("HEAT")`, item: heat, expected: true},
		{name: "id", expression: `ID == 949`, item: heat, expected: true},
		{name: "year", expression: `Year == 1995`, item: heat, expected: true},
		{name: "missing year", expression: `Year == 0`, item: untitled, expected: true},
		{name: "poster", expression: `HasPoster`, item: untitled, expected: false},
		{name: "genre", expression: `hasGenre("crime")`, item: heat, expected: true},
		{name: "genre list", expression: `"Crime" in Genres`, item: heat, expected: true},
		{name: "released after", expression: `releasedAfter("1995-01-01")`, item: heat, expected: true},
		{name: "released before", expression: `releasedBefore("1995-01-01")`, item: heat, expected: false},
		{name: "no release date", expression: `releasedBefore("2100-01-01")`, item: untitled, expected: false},
		{name: "days since release", expression: `daysSinceRelease() == 366`, item: heat, expected: true},
		{name: "days without release", expression: `daysSinceRelease() < 0`, item: untitled, expected: true},
		{name: "string helper", expression: `startsWith(Title, "he") and lower(Title) == "heat"`, item: heat, expected: true},
		{name: "rating", expression: `VoteAverage >= 8`, item: heat, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Match(tt.item)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMatch_EvaluationError(t *testing.T) {
	f, err := NewExprCompiler().Compile(`Genres[3] == "Drama"`)
	require.NoError(t, err)

	_, err = f.Match(testItems()[0])
	require.Error(t, err)

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, int64(949), evalErr.ItemID)
	assert.Contains(t, err.Error(), "Heat")
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	items := testItems()

	f, err := NewExprCompiler().Compile(`titleContains("heat")`)
	require.NoError(t, err)

	matches, err := Apply(ctx, f, items)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(949), matches[0].ID)
	assert.Equal(t, int64(1), matches[1].ID)

	all, err := Apply(ctx, nil, items)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Apply(canceled, f, items)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`HasPoster`)
	require.NoError(t, err)
	again, err := compiler.Compile(` HasPoster `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`Year > 2000`)
	require.NoError(t, err)
	// touch HasPoster so Year > 2000 is the eviction candidate
	_, err = compiler.Compile(`HasPoster`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Popularity > 1`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	kept, err := compiler.Compile(`HasPoster`)
	require.NoError(t, err)
	assert.Same(t, first, kept)

	uncached := NewExprCompiler()
	_, err = uncached.Compile(`HasPoster`)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Size())
}

func TestNeedsDetails(t *testing.T) {
	compiler := NewExprCompiler()

	tests := []struct {
		expression string
		expected   bool
	}{
		{expression: `Runtime > 90`, expected: true},
		{expression: `hasGenre("Drama") or Runtime < 100`, expected: true},
		{expression: `hasGenre("Drama")`, expected: false},
		{expression: `len(Genres) > 0 and Year >= 2000`, expected: false},
		{expression: `titleContains("runtime")`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.NeedsDetails())
		})
	}
}
