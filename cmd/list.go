package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/config"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/format"
)

// adHocFilterSlots leaves cache room for --filter expressions
const adHocFilterSlots = 8

var (
	pages       int
	filterExpr  string
	preset      string
	showDetails bool
	showImages  bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List movies, optionally filtered",
	Long: `Load one or more pages of the configured movie list and print them.

Filters are expr expressions over ID, Title, Overview, Popularity, VoteAverage,
ReleaseDate, Year, HasPoster, HasBackdrop, Runtime and Genres, for example:

  marquee list --pages 3 --filter 'Year >= 2020 and hasGenre("Drama")'

Filters reading Runtime load every listed movie's details first.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&pages, "pages", "n", 1, "number of pages to load")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a named filter from config")
	listCmd.Flags().BoolVar(&showDetails, "details", false, "show id, popularity and rating")
	listCmd.Flags().BoolVar(&showImages, "images", false, "show poster URLs")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if pages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	var f filter.Filter
	if expr != "" {
		f, err = filterCompiler.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		logger.Info().Str("filter", expr).Msg("Filtering movies")
	}

	list := catalog.NewList(tmdbClient, resolver, logger)
	view, err := collectPages(ctx, list, pages)
	if err != nil {
		return fmt.Errorf("failed to load movies: %w", err)
	}

	candidates := view.Items
	if f != nil && f.NeedsDetails() {
		logger.Info().Int("movies", len(candidates)).Msg("Loading details for filter")
		if candidates, err = withDetails(ctx, candidates); err != nil {
			return fmt.Errorf("failed to load movie details: %w", err)
		}
	}

	items, err := filter.Apply(ctx, f, candidates)
	if err != nil {
		return err
	}

	if showImages {
		if _, err := resolver.EnsureLoaded(ctx); err != nil {
			logger.Warn().Err(err).Msg("Image URLs unavailable")
		}
	}

	logger.Debug().
		Int("pages", view.CurrentPage).
		Int("cached_filters", filterCompiler.Size()).
		Int("loaded", len(view.Items)).
		Int("matched", len(items)).
		Msg("Listing movies")

	console := format.NewConsoleFormatter(formatter, resolver)
	fmt.Print(console.FormatItemList(items, format.Options{
		ShowDetails: showDetails,
		ShowImages:  showImages,
	}))
	return nil
}

// withDetails replaces each list item with its fully loaded version
func withDetails(ctx context.Context, items []catalog.Item) ([]catalog.Item, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	views, errs := loadDetails(ctx, ids)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	detailed := make([]catalog.Item, len(views))
	for i, view := range views {
		detailed[i] = *view.Item
	}
	return detailed, nil
}

// compileFilters compiles every named filter once so bad presets fail at
// startup and --preset reuses the cached program
func compileFilters(named config.FilterConfig) (filter.CachingCompiler, error) {
	compiler := filter.NewExprCompiler(filter.WithCache(len(named) + adHocFilterSlots))

	for _, name := range slices.Sorted(maps.Keys(named)) {
		if _, err := compiler.Compile(named[name]); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", name, err)
		}
	}

	return compiler, nil
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expr, ok := cfg.Filters[preset]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("filter '%s' not found in config", preset)
	}

	return "", nil
}
