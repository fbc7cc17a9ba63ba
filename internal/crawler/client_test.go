
package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	client := NewHTTPClient("test", 0, nil)
	res, err := client.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch err: %v", err)
	}
	if res.URL != ts.URL || res.ContentType == "" || len(res.Body) == 0 {
		t.Fatal("unexpected empty values")
	}
	if res.DeclaredEncoding != DefaultEncoding {
		t.Fatalf("want default encoding, got %q", res.DeclaredEncoding)
	}
}

func TestFetchDeclaredCharset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer ts.Close()

	res, err := NewHTTPClient("test", 0, nil).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Equal(t, "utf-8", res.DeclaredEncoding)
}

func TestFetchCachedOnce(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><title>cached</title></html>"))
	}))
	defer ts.Close()

	client := NewHTTPClient("test", 0, NewCache(NewMemoryStore()))
	first, err := client.Fetch(context.Background(), ts.URL+"/ws/index.php?pid=1")
	require.NoError(t, err)
	require.False(t, first.FromCache)

	second, err := client.Fetch(context.Background(), ts.URL+"/ws/index.php?pid=1")
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, first.Body, second.Body)
	require.Equal(t, first.ContentType, second.ContentType)
	require.EqualValues(t, 1, hits.Load())

	_, err = client.Fetch(context.Background(), ts.URL+"/ws/index.php?pid=2")
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
}

func TestFetchStatusError(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewHTTPClient("test", 0, NewCache(NewMemoryStore()))
	for i := 0; i < 2; i++ {
		_, err := client.Fetch(context.Background(), ts.URL)
		var te *TransportError
		require.True(t, errors.As(err, &te))
		require.Equal(t, http.StatusNotFound, te.Status)
		require.Contains(t, err.Error(), ts.URL)
	}
	// failures are not cached
	require.EqualValues(t, 2, hits.Load())
}

func TestFetchNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := ts.URL
	ts.Close()

	_, err := NewHTTPClient("test", 0, nil).Fetch(context.Background(), addr)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Zero(t, te.Status)
	require.Error(t, te.Unwrap())
}

func TestRejectRelativeURL(t *testing.T) {
	client := NewHTTPClient("test", 0, nil)
	_, err := client.Fetch(context.Background(), "/ws/index.php?pid=1")
	if err == nil {
		t.Fatal("expected error for relative url")
	}
}
