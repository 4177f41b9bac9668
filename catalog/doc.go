// Package catalog turns paginated movie-catalog responses into view states.
//
// It holds the presentation-state engine of marquee: the data model shared by
// every other package, the ImageConfig resolver, the list pagination engine,
// the single-item detail machine and the pure projections from machine state
// to the views a renderer is allowed to draw.
//
// # Components
//
//   - Resolver: fetches the image configuration once per process and maps a
//     poster/backdrop path to a full URL
//   - List: accumulates pages driven by Start, Refresh and ScrollToBottom
//   - Detail: loads one item, discarding responses for superseded ids
//   - ProjectList / ProjectDetail: stateless state → view mapping
//
// # Concurrency
//
// Every machine serialises its mutations under a single mutex. Network calls
// run on their own goroutines and carry a generation token; a response whose
// token is no longer current is dropped without surfacing an error. Observers
// call Subscribe and receive the latest view on a buffered channel that never
// blocks the machine, so a UI loop may call back into the machine at any time.
//
// # Usage
//
//	resolver := catalog.NewResolver(client, logger)
//	list := catalog.NewList(client, resolver, logger)
//	views, cancel := list.Subscribe()
//	defer cancel()
//
//	list.Start(ctx)
//	for v := range views {
//		if v.Kind == catalog.ViewContent {
//			render(v.Items)
//		}
//	}
package catalog
