package ingest

import (
	"context"

	"github.com/agentic-research/restcli/internal/value"
)

// Fetcher retrieves the decoded response for a path relative to the backend
// base URL. Implementations block until the response is decoded.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (value.Value, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, path string) (value.Value, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) (value.Value, error) {
	return f(ctx, path)
}

// FetchError reports the request that aborted a resolve pass.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return "fetch " + e.Path + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }
