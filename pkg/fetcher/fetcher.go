package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xhad/formbot/internal/types"
)

var _ types.Fetcher = (*Fetcher)(nil)

// FetchError reports a failed document retrieval: the transport failed
// (StatusCode 0), the server answered with a non-2xx status, or the body
// was larger than the configured limit.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 && (e.StatusCode < 200 || e.StatusCode > 299) {
		return fmt.Sprintf("fetch %s: received status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// BasicAuth credentials attached to requests for the configured hosts.
type BasicAuth struct {
	Username string
	Password string
}

type FetcherConfig struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second
	UserAgent string
	AuthHosts []string
	Auth      BasicAuth
	// MaxBodyBytes is the largest body Fetch accepts. Zero means 32 MiB.
	MaxBodyBytes int64
}

type Fetcher struct {
	config  FetcherConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config FetcherConfig) *Fetcher {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // 2 requests per second by default
	}
	if config.UserAgent == "" {
		config.UserAgent = "formbot/1.0"
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = 32 << 20
	}

	return &Fetcher{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

func New() *Fetcher {
	return NewWithConfig(FetcherConfig{})
}

// Fetch returns the body of urlStr. Any transport failure, non-2xx status
// or body over MaxBodyBytes is reported as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	// Apply rate limiting
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: urlStr, Err: eris.Wrap(err, "fetcher: rate limit wait")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: eris.Wrap(err, "fetcher: build request")}
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	if f.needsAuth(req.URL) {
		req.SetBasicAuth(f.config.Auth.Username, f.config.Auth.Password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{URL: urlStr, StatusCode: 0, Err: eris.Wrap(err, "fetcher: read body")}
	}
	if int64(len(body)) > f.config.MaxBodyBytes {
		return nil, &FetchError{
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response body exceeds %d bytes", f.config.MaxBodyBytes),
		}
	}

	zap.L().Debug("fetched document",
		zap.String("url", urlStr),
		zap.Int("bytes", len(body)),
		zap.String("content_type", resp.Header.Get("Content-Type")),
	)

	return body, nil
}

// FetchHTML is Fetch with the body returned as text.
func (f *Fetcher) FetchHTML(ctx context.Context, urlStr string) (string, error) {
	body, err := f.Fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (f *Fetcher) needsAuth(u *url.URL) bool {
	if f.config.Auth.Username == "" && f.config.Auth.Password == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range f.config.AuthHosts {
		if strings.ToLower(h) == host {
			return true
		}
	}
	return false
}
