package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Fetcher issues HTTP requests against the document host.
// One Fetcher is shared by every stage of a run so that headers, the
// user agent, and connection pooling stay consistent.
//
// Design decision: We wrap *http.Client in a struct rather than passing
// the client around because:
//  1. Request decoration (User-Agent, Accept, per-filing headers) should
//     be applied uniformly
//  2. Connection pooling works better with a shared client
//  3. Easier to test with httptest servers
type Fetcher struct {
	// client is the underlying HTTP client.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxBodySize limits the bytes read from HTML page responses.
	// Binary downloads are streamed by the caller and are not capped here.
	maxBodySize int64

	// headers are extra headers added to every request, e.g. a per-filing
	// cookie or authorization header from the config file.
	headers map[string]string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = timeout
	}
}

// WithMaxBodySize sets the maximum HTML response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithHeaders sets extra headers added to every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// New creates a Fetcher with a 30-second timeout and a version-stamped
// user agent unless overridden by options.
//
// Design decision: Unlike scanners that need a pre-configured proxy
// client, we build the client internally: the document host is plain
// clearnet HTTP and the only knob that matters is the timeout.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 30 * time.Second},
		userAgent:   "exhibitfetch/1.1",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs a GET for an HTML page and returns the decoded body.
// Non-2xx statuses and transport failures are returned as *Error.
// The body is read through io.LimitReader to cap memory use.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, url, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", transportError(url, err)
	}
	return string(body), nil
}

// Probe performs a HEAD request and returns the remote Content-Length.
// It returns -1 when the header is absent or the probe fails; the caller
// treats an unknown size as "cannot skip, download normally".
func (f *Fetcher) Probe(ctx context.Context, url string) int64 {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return -1
	}
	f.decorate(req, "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return -1
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return -1
	}
	return resp.ContentLength
}

// Download performs a GET and returns the raw response body for streaming.
// The caller owns the returned ReadCloser and must close it.
func (f *Fetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := f.get(ctx, url, "application/pdf,*/*")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// get issues a decorated GET and maps failures to *Error.
// On a non-2xx status the body is drained and closed before returning.
func (f *Fetcher) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, transportError(url, err)
	}
	f.decorate(req, accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := resp.StatusCode
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // draining for connection reuse
		_ = resp.Body.Close()                                       //nolint:errcheck // already failing
		return nil, statusError(url, code)
	}
	return resp, nil
}

// decorate applies the shared headers to a request.
func (f *Fetcher) decorate(req *http.Request, accept string) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
}
