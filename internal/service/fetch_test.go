package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageFetcher(t *testing.T) {
	t.Run("returns the document body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer srv.Close()

		body, err := NewPageFetcher(5 * time.Second).Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Contains(t, body, "hello")
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := NewPageFetcher(5 * time.Second).Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("whitespace-only body is ErrNoContent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("  \n\t "))
		}))
		defer srv.Close()

		_, err := NewPageFetcher(5 * time.Second).Fetch(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrNoContent)
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused from here on

		_, err := NewPageFetcher(time.Second).Fetch(context.Background(), srv.URL)
		assert.Error(t, err)
	})
}
