package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/corpix/uarand"
	"github.com/dtnitsch/stealth-fetch-mcp/models"
)

const maxRedirects = 10

// HTTPEngine is the plain HTTP path used by the basic tier. It does not run
// scripts.
type HTTPEngine struct {
	client    *http.Client
	userAgent string
	proxy     string
	maxBody   int64
}

type HTTPOption func(*HTTPEngine)

// WithUserAgent pins the User-Agent instead of picking a random one per request.
func WithUserAgent(ua string) HTTPOption {
	return func(e *HTTPEngine) { e.userAgent = ua }
}

// WithProxy routes requests through proxy unless the profile names its own.
func WithProxy(proxy string) HTTPOption {
	return func(e *HTTPEngine) { e.proxy = proxy }
}

func WithMaxBodyBytes(n int64) HTTPOption {
	return func(e *HTTPEngine) {
		if n > 0 {
			e.maxBody = n
		}
	}
}

// WithHTTPClient swaps the underlying client; tests use it with httptest.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(e *HTTPEngine) { e.client = c }
}

func NewHTTPEngine(opts ...HTTPOption) *HTTPEngine {
	e := &HTTPEngine{
		client:  &http.Client{CheckRedirect: limitRedirects},
		maxBody: models.DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HTTPEngine) Name() string {
	return "http"
}

func (e *HTTPEngine) Fetch(ctx context.Context, req *Request) (*models.Page, error) {
	if req.Profile.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Profile.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if req.Profile.StealthyHeaders {
		e.setStealthyHeaders(httpReq)
	} else if e.userAgent != "" {
		httpReq.Header.Set("User-Agent", e.userAgent)
	}

	client, err := e.clientFor(req.Profile)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > e.maxBody {
		return nil, fmt.Errorf("response body exceeds maximum size of %d bytes", e.maxBody)
	}

	return &models.Page{
		URL:        req.URL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
		Engine:     e.Name(),
	}, nil
}

// setStealthyHeaders makes the request look like a browser navigating from a
// search result.
func (e *HTTPEngine) setStealthyHeaders(r *http.Request) {
	ua := e.userAgent
	if ua == "" {
		ua = uarand.GetRandom()
	}
	r.Header.Set("User-Agent", ua)
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	r.Header.Set("Referer", SearchReferer(r.URL))
	r.Header.Set("Upgrade-Insecure-Requests", "1")
	r.Header.Set("Sec-Fetch-Dest", "document")
	r.Header.Set("Sec-Fetch-Mode", "navigate")
	r.Header.Set("Sec-Fetch-Site", "cross-site")
}

func (e *HTTPEngine) clientFor(p Profile) (*http.Client, error) {
	proxy := p.Proxy
	if proxy == "" {
		proxy = e.proxy
	}
	if proxy == "" {
		return e.client, nil
	}

	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", proxy, err)
	}
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("default transport is not an *http.Transport")
	}
	transport := base.Clone()
	transport.Proxy = http.ProxyURL(proxyURL)

	return &http.Client{
		Transport:     transport,
		CheckRedirect: limitRedirects,
		Timeout:       e.client.Timeout,
	}, nil
}

func limitRedirects(_ *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("too many redirects (>%d)", maxRedirects)
	}
	return nil
}

// SearchReferer builds a Google search URL for the site's name, e.g.
// https://www.google.com/search?q=example for https://www.example.com/page.
func SearchReferer(u *url.URL) string {
	host := strings.TrimPrefix(u.Hostname(), "www.")
	labels := strings.Split(host, ".")
	name := host
	if len(labels) >= 2 {
		name = labels[len(labels)-2]
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(name)
}

var _ Engine = (*HTTPEngine)(nil)
