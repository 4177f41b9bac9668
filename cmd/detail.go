package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/format"
)

// maxConcurrentDetails bounds parallel item requests
const maxConcurrentDetails = 4

// detailCmd represents the detail command
var detailCmd = &cobra.Command{
	Use:   "detail ID...",
	Short: "Show details for one or more movies",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetail,
}

func runDetail(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid movie id: %s", arg)
		}
		ids = append(ids, id)
	}

	if _, err := resolver.EnsureLoaded(ctx); err != nil {
		logger.Warn().Err(err).Msg("Image URLs unavailable")
	}

	views, errs := loadDetails(ctx, ids)

	console := format.NewConsoleFormatter(formatter, resolver)
	for i, view := range views {
		if errs[i] != nil {
			continue
		}
		fmt.Print(console.FormatItemDetail(*view.Item))
	}

	return errors.Join(errs...)
}

// loadDetails runs one detail machine per id with bounded concurrency.
// Results are in id order; a failed id leaves its view empty and sets its
// error.
func loadDetails(ctx context.Context, ids []int64) ([]catalog.DetailView, []error) {
	views := make([]catalog.DetailView, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(maxConcurrentDetails)

	for i, id := range ids {
		g.Go(func() error {
			detail := catalog.NewDetail(tmdbClient, resolver, logger)
			view, err := awaitDetail(ctx, detail, id)
			if err != nil {
				logger.Warn().Err(err).Int64("id", id).Msg("Failed to load movie")
				errs[i] = fmt.Errorf("movie %d: %w", id, err)
				// keep loading the others
				return nil
			}
			views[i] = view
			return nil
		})
	}

	g.Wait()
	return views, errs
}
