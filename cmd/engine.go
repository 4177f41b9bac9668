package cmd

import (
	"context"
	"fmt"

	"github.com/s0up4200/marquee/catalog"
)

// collectPages drives the list headlessly until maxPages are loaded or the
// list is exhausted
func collectPages(ctx context.Context, list *catalog.List, maxPages int) (catalog.ListView, error) {
	views, unsubscribe := list.Subscribe()
	defer unsubscribe()

	if !list.Start(ctx) {
		return catalog.ListView{}, fmt.Errorf("list already started")
	}

	for {
		select {
		case <-ctx.Done():
			return catalog.ListView{}, ctx.Err()
		case view := <-views:
			switch {
			case view.Kind == catalog.ViewIdle, view.Kind == catalog.ViewLoadingFull, view.Paging:
				continue
			case view.Err != nil:
				return view, view.Err
			case view.CurrentPage >= maxPages || !view.HasMore:
				return view, nil
			}

			// a republished view of a page already in flight is a no-op here
			list.ScrollToBottom(ctx)
		}
	}
}

// awaitDetail loads one item and waits for the outcome
func awaitDetail(ctx context.Context, detail *catalog.Detail, id int64) (catalog.DetailView, error) {
	views, unsubscribe := detail.Subscribe()
	defer unsubscribe()

	detail.Start(ctx, id)

	for {
		select {
		case <-ctx.Done():
			return catalog.DetailView{}, ctx.Err()
		case view := <-views:
			if view.ID != id {
				continue
			}
			switch view.Kind {
			case catalog.ViewContent:
				return view, nil
			case catalog.ViewError:
				if view.Err == nil {
					return view, fmt.Errorf("failed to load movie %d", id)
				}
				return view, view.Err
			}
		}
	}
}
