// Package http provides the capture intake server and the HTTP-based
// image fetcher.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/awalczyk/qbank"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout is the default timeout for image requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultHostRPS is the default per-host request rate for image fetches.
const DefaultHostRPS = 4.0

// Ensure ImageFetcher implements qbank.ImageFetcher at compile time.
var _ qbank.ImageFetcher = (*ImageFetcher)(nil)

// ImageFetcher downloads capture images over HTTP. Downloads run
// sequentially in input order with a per-host token-bucket rate limit,
// and each image failure is recorded without aborting the rest.
type ImageFetcher struct {
	client  *http.Client
	timeout time.Duration
	rps     float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Option configures an ImageFetcher.
type Option func(*ImageFetcher)

// WithTimeout sets the timeout for each image request.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *ImageFetcher) {
		f.timeout = d
	}
}

// WithHostRPS sets the per-host requests-per-second limit.
func WithHostRPS(rps float64) Option {
	return func(f *ImageFetcher) {
		f.rps = rps
	}
}

// NewImageFetcher creates a new ImageFetcher.
func NewImageFetcher(opts ...Option) *ImageFetcher {
	f := &ImageFetcher{
		timeout:  DefaultFetchTimeout,
		rps:      DefaultHostRPS,
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// FetchImages downloads the referenced images into dir, naming each file
// <base>_img<N><ext> where N counts from 0 in input order. The result
// slice always has one entry per reference, in order.
func (f *ImageFetcher) FetchImages(ctx context.Context, refs []qbank.ImageRef, dir, base string) []qbank.ImageResult {
	results := make([]qbank.ImageResult, 0, len(refs))

	for i, ref := range refs {
		result := qbank.ImageResult{
			Index: i,
			URL:   ref.URL,
			Title: ref.Title,
			Type:  ref.Type,
		}

		filename := fmt.Sprintf("%s_img%d%s", base, i, extensionForURL(ref.URL))
		if err := f.fetchOne(ctx, ref.URL, filepath.Join(dir, filename)); err != nil {
			result.Error = err.Error()
		} else {
			result.Filename = filename
			result.LocalPath = filepath.Join(dir, filename)
		}

		results = append(results, result)
	}

	return results
}

func (f *ImageFetcher) fetchOne(ctx context.Context, rawURL, dest string) error {
	if strings.TrimSpace(rawURL) == "" {
		return qbank.Errorf(qbank.EINVALID, "empty image URL")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return qbank.Errorf(qbank.EINVALID, "invalid image URL: %v", err)
	}

	if err := f.wait(ctx, u.Host); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

// wait blocks until the per-host rate limit allows another request.
func (f *ImageFetcher) wait(ctx context.Context, host string) error {
	f.mu.Lock()
	limiter, ok := f.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(f.rps), 1)
		f.limiters[host] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}

// extensionForURL returns the lowercased file extension from the URL
// path, defaulting to .jpg when the path has none.
func extensionForURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" {
		return ".jpg"
	}
	return ext
}
