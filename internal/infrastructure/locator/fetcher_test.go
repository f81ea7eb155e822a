package locator

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/infrastructure/storage"
	"audio-translator/pkg/errors"
)

const document = `{"results":{"transcripts":[{"transcript":"Hello world"}]}}`

// TestURIFetcher verifies a 200 body is returned verbatim.
func TestURIFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(document))
	}))
	defer srv.Close()

	got, err := NewURIFetcher(time.Second).Fetch(context.Background(), entities.ResultLocator{Kind: entities.LocatorURI, URI: srv.URL})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != document {
		t.Fatalf("Fetch() = %q", got)
	}
}

// TestURIFetcherStatusErrors verifies 5xx is transient and 403 is not.
func TestURIFetcherStatusErrors(t *testing.T) {
	status := http.StatusServiceUnavailable
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	f := NewURIFetcher(time.Second)
	loc := entities.ResultLocator{Kind: entities.LocatorURI, URI: srv.URL}

	if _, err := f.Fetch(context.Background(), loc); !stderrors.Is(err, errors.KindTransientNetwork) {
		t.Fatalf("503 error = %v, want transient", err)
	}

	status = http.StatusForbidden
	_, err := f.Fetch(context.Background(), loc)
	if err == nil || stderrors.Is(err, errors.KindTransientNetwork) {
		t.Fatalf("403 error = %v, want non-transient", err)
	}
}

// TestURIFetcherUnreachable verifies connection failures are transient.
func TestURIFetcherUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewURIFetcher(time.Second).Fetch(context.Background(), entities.ResultLocator{Kind: entities.LocatorURI, URI: url})
	if !stderrors.Is(err, errors.KindTransientNetwork) {
		t.Fatalf("Fetch() error = %v, want transient", err)
	}
}

// TestURIFetcherUnsupportedScheme verifies client-side request failures are
// not reported as network errors.
func TestURIFetcherUnsupportedScheme(t *testing.T) {
	_, err := NewURIFetcher(time.Second).Fetch(context.Background(), entities.ResultLocator{Kind: entities.LocatorURI, URI: "ftp://bucket/key.json"})
	if err == nil {
		t.Fatal("Fetch() error = nil, want failure")
	}
	if stderrors.Is(err, errors.KindTransientNetwork) {
		t.Fatalf("Fetch() error = %v, want non-transient", err)
	}
}

// TestRouter verifies dispatch to the storage fetcher and unknown kinds.
func TestRouter(t *testing.T) {
	store := storage.NewLocalStorage(t.TempDir())
	if err := store.Put(context.Background(), "pixel-beta", "PixelLearn-1.json", []byte(document)); err != nil {
		t.Fatal(err)
	}
	r := &Router{Storage: NewStorageFetcher(store), URI: NewURIFetcher(time.Second)}

	got, err := r.Fetch(context.Background(), entities.ResultLocator{Kind: entities.LocatorStorage, Namespace: "pixel-beta", Key: "PixelLearn-1.json"})
	if err != nil || string(got) != document {
		t.Fatalf("Fetch() = %q, %v", got, err)
	}

	if _, err := r.Fetch(context.Background(), entities.ResultLocator{Kind: "ftp"}); !stderrors.Is(err, errors.KindMalformedResult) {
		t.Fatalf("unknown kind error = %v", err)
	}
	if _, err := (&Router{}).Fetch(context.Background(), entities.ResultLocator{Kind: entities.LocatorURI, URI: "http://x"}); !stderrors.Is(err, errors.KindConfiguration) {
		t.Fatalf("missing fetcher error = %v", err)
	}
}
