// Package datasource holds the contracts shared by source implementations.
package datasource

import (
	"context"
	"io"
)

// Fetcher opens the raw bytes behind a URL. The caller closes the reader.
type Fetcher interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}
