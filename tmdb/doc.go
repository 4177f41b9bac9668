// Package tmdb provides a client for The Movie Database v3 API.
//
// The client implements catalog.Source, so it can back the list engine, the
// detail machine and the image resolver directly:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		"your-api-key",
//		logger,
//		tmdb.WithLanguage("de-DE"),
//		tmdb.WithList(tmdb.ListTopRated),
//		tmdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	list := catalog.NewList(client, catalog.NewResolver(client, logger), logger)
//	list.Start(ctx)
//
// # Authentication
//
// A v3 API key is sent as the api_key query parameter. A v4 read access
// token set with WithAccessToken is sent as a Bearer token instead and takes
// precedence over the key.
//
// # Error Handling
//
// Every error returned by a fetch is a *catalog.Error:
//
//   - KindNetwork: the request could not be sent or the body not read
//   - KindServer: a non-200 response, wrapping an *APIError
//   - KindDecode: the response body was not the expected JSON
//   - KindCanceled: the request context was canceled
//
// ErrUnauthorized and ErrNotFound match server errors with errors.Is:
//
//	if errors.Is(err, tmdb.ErrNotFound) {
//		// no movie with that id
//	}
package tmdb
