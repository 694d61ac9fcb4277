package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/awalczyk/qbank"
	qbankhttp "github.com/awalczyk/qbank/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageFetcher_FetchImages(t *testing.T) {
	t.Parallel()

	t.Run("downloads images with indexed filenames", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("image-bytes:" + r.URL.Path))
		}))
		defer srv.Close()

		dir := t.TempDir()
		fetcher := qbankhttp.NewImageFetcher(qbankhttp.WithHostRPS(1000))

		refs := []qbank.ImageRef{
			{URL: srv.URL + "/a.png", Title: "first"},
			{URL: srv.URL + "/b.jpeg"},
		}
		results := fetcher.FetchImages(context.Background(), refs, dir, "20251127_145033_uworld_1")

		require.Len(t, results, 2)

		assert.True(t, results[0].OK())
		assert.Equal(t, 0, results[0].Index)
		assert.Equal(t, "20251127_145033_uworld_1_img0.png", results[0].Filename)
		assert.Equal(t, "first", results[0].Title)

		assert.True(t, results[1].OK())
		assert.Equal(t, 1, results[1].Index)
		assert.Equal(t, "20251127_145033_uworld_1_img1.jpeg", results[1].Filename)

		data, err := os.ReadFile(filepath.Join(dir, results[0].Filename))
		require.NoError(t, err)
		assert.Equal(t, "image-bytes:/a.png", string(data))
	})

	t.Run("defaults extension to jpg when URL path has none", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("x"))
		}))
		defer srv.Close()

		fetcher := qbankhttp.NewImageFetcher(qbankhttp.WithHostRPS(1000))
		results := fetcher.FetchImages(context.Background(),
			[]qbank.ImageRef{{URL: srv.URL + "/image?id=42"}}, t.TempDir(), "base")

		require.Len(t, results, 1)
		assert.Equal(t, "base_img0.jpg", results[0].Filename)
	})

	t.Run("one failure does not abort the rest", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing.png" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte("x"))
		}))
		defer srv.Close()

		fetcher := qbankhttp.NewImageFetcher(qbankhttp.WithHostRPS(1000))
		refs := []qbank.ImageRef{
			{URL: srv.URL + "/missing.png"},
			{URL: srv.URL + "/ok.png"},
		}
		results := fetcher.FetchImages(context.Background(), refs, t.TempDir(), "base")

		require.Len(t, results, 2)
		assert.False(t, results[0].OK())
		assert.Contains(t, results[0].Error, "404")
		assert.True(t, results[1].OK())
	})

	t.Run("records error for blank URL", func(t *testing.T) {
		t.Parallel()

		fetcher := qbankhttp.NewImageFetcher()
		results := fetcher.FetchImages(context.Background(),
			[]qbank.ImageRef{{URL: "  "}}, t.TempDir(), "base")

		require.Len(t, results, 1)
		assert.False(t, results[0].OK())
		assert.Empty(t, results[0].Filename)
	})

	t.Run("returns empty results for no references", func(t *testing.T) {
		t.Parallel()

		fetcher := qbankhttp.NewImageFetcher()
		results := fetcher.FetchImages(context.Background(), nil, t.TempDir(), "base")
		assert.Empty(t, results)
	})
}
