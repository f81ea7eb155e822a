// Package locator retrieves transcription result documents from wherever the
// job left them.
package locator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/infrastructure/transient"
	"audio-translator/pkg/errors"
)

// maxDocumentSize bounds how much of a result document is read into memory.
const maxDocumentSize = 64 << 20

// StorageFetcher reads result documents delivered into object storage.
type StorageFetcher struct {
	store repositories.ObjectStore
}

func NewStorageFetcher(store repositories.ObjectStore) *StorageFetcher {
	return &StorageFetcher{store: store}
}

func (f *StorageFetcher) Fetch(ctx context.Context, loc entities.ResultLocator) ([]byte, error) {
	if loc.Namespace == "" || loc.Key == "" {
		return nil, errors.ErrMalformedResult("storage locator needs a bucket and key", nil)
	}
	return f.store.Get(ctx, loc.Namespace, loc.Key)
}

// URIFetcher downloads result documents over HTTP(S).
type URIFetcher struct {
	client *http.Client
}

func NewURIFetcher(timeout time.Duration) *URIFetcher {
	return &URIFetcher{client: &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}}
}

func (f *URIFetcher) Fetch(ctx context.Context, loc entities.ResultLocator) ([]byte, error) {
	if loc.URI == "" {
		return nil, errors.ErrMalformedResult("uri locator has no URI", nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.URI, nil)
	if err != nil {
		return nil, errors.ErrMalformedResult("invalid result URI", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transient.Classify("fetch result document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if transient.RetryableStatus(resp.StatusCode) {
			return nil, errors.ErrTransientNetwork("fetch result document", statusErr)
		}
		return nil, fmt.Errorf("fetch result document: %w", statusErr)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, transient.Classify("read result document", err)
	}
	return data, nil
}

// Router dispatches on the locator kind.
type Router struct {
	Storage repositories.ResultFetcher
	URI     repositories.ResultFetcher
}

var _ repositories.ResultFetcher = (*Router)(nil)

func (r *Router) Fetch(ctx context.Context, loc entities.ResultLocator) ([]byte, error) {
	switch loc.Kind {
	case entities.LocatorStorage:
		if r.Storage != nil {
			return r.Storage.Fetch(ctx, loc)
		}
	case entities.LocatorURI:
		if r.URI != nil {
			return r.URI.Fetch(ctx, loc)
		}
	default:
		return nil, errors.ErrMalformedResult(fmt.Sprintf("unknown locator kind %q", loc.Kind), nil)
	}
	return nil, errors.ErrConfiguration(fmt.Sprintf("no fetcher for locator kind %q", loc.Kind))
}
