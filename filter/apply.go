package filter

import (
	"context"

	"github.com/s0up4200/marquee/catalog"
)

// Apply returns the items matching f in their original order. It stops at
// the first evaluation error or when ctx is done.
func Apply(ctx context.Context, f Filter, items []catalog.Item) ([]catalog.Item, error) {
	if f == nil {
		return items, nil
	}

	matches := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, item)
		}
	}

	return matches, nil
}
