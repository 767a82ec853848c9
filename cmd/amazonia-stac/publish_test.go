package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stacclient "github.com/amazonia-pds/amazonia-stac/pkg/client"
)

func newTestPublisher(t *testing.T, handler http.HandlerFunc) *publisher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := stacclient.New(
		stacclient.WithBaseURL(server.URL),
		stacclient.WithHTTPClient(server.Client()),
		stacclient.WithRetryPolicy(nil),
	)
	require.NoError(t, err)
	return &publisher{client: client, verified: map[string]bool{}}
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPublishFileVerifiesCollection(t *testing.T) {
	var requests []string
	ph := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"type":"Collection","id":"AMAZONIA1-WFI"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	item := writeDoc(t, "item.json", `{"type":"Feature","collection":"AMAZONIA1-WFI"}`)
	require.NoError(t, ph.publishFile(context.Background(), item))

	// The target collection is confirmed before the item POST.
	assert.Equal(t, []string{
		"GET /collections/AMAZONIA1-WFI",
		"POST /collections/AMAZONIA1-WFI/items",
	}, requests)

	// A second item into the same collection skips the check.
	require.NoError(t, ph.publishFile(context.Background(), item))
	assert.Len(t, requests, 3)
	assert.Equal(t, "POST /collections/AMAZONIA1-WFI/items", requests[2])
}

func TestPublishFileMissingCollection(t *testing.T) {
	ph := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
	})

	item := writeDoc(t, "item.json", `{"type":"Feature","collection":"AMAZONIA1-WFI"}`)
	err := ph.publishFile(context.Background(), item)
	require.Error(t, err)
	assert.ErrorContains(t, err, "not on the service")
	var txErr *stacclient.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.True(t, txErr.NotFound())
}

func TestPublishFileCollectionSeedsVerification(t *testing.T) {
	var requests []string
	ph := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	})

	col := writeDoc(t, "collection.json", `{"type":"Collection","id":"AMAZONIA1-WFI"}`)
	item := writeDoc(t, "item.json", `{"type":"Feature","collection":"AMAZONIA1-WFI"}`)

	require.NoError(t, ph.publishFile(context.Background(), col))
	require.NoError(t, ph.publishFile(context.Background(), item))

	// Publishing the collection first makes the existence check redundant.
	assert.Equal(t, []string{
		"POST /collections",
		"POST /collections/AMAZONIA1-WFI/items",
	}, requests)
}

func TestPublishFileRejectsItemWithoutCollection(t *testing.T) {
	ph := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
	})

	item := writeDoc(t, "item.json", `{"type":"Feature"}`)
	err := ph.publishFile(context.Background(), item)
	assert.ErrorContains(t, err, "no collection")
}
