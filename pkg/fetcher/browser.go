package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const (
	networkIdleQuiet = 500 * time.Millisecond
	humanizeStep     = 250 * time.Millisecond
)

// resource types dropped when a profile disables non-essential resources
var nonEssentialResources = []proto.NetworkResourceType{
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeMedia,
	proto.NetworkResourceTypeStylesheet,
	proto.NetworkResourceTypeTextTrack,
	proto.NetworkResourceTypeWebSocket,
	proto.NetworkResourceTypeManifest,
	proto.NetworkResourceTypePing,
	proto.NetworkResourceTypeCSPViolationReport,
}

// BrowserEngine renders pages in a fresh Chromium per request with the
// go-rod stealth patches applied. No browser outlives the call that
// launched it.
type BrowserEngine struct {
	bin    string
	proxy  string
	logger *slog.Logger
}

type BrowserOption func(*BrowserEngine)

// WithBrowserBin uses a specific Chromium binary instead of rod's lookup.
func WithBrowserBin(bin string) BrowserOption {
	return func(e *BrowserEngine) { e.bin = bin }
}

// WithBrowserProxy sets the proxy used when a profile does not name one.
func WithBrowserProxy(proxy string) BrowserOption {
	return func(e *BrowserEngine) { e.proxy = proxy }
}

func WithBrowserLogger(l *slog.Logger) BrowserOption {
	return func(e *BrowserEngine) { e.logger = l }
}

func NewBrowserEngine(opts ...BrowserOption) *BrowserEngine {
	e := &BrowserEngine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *BrowserEngine) Name() string {
	return "browser"
}

func (e *BrowserEngine) Fetch(ctx context.Context, req *Request) (*models.Page, error) {
	p := req.Profile
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	l := e.launcher(ctx, p)
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			e.logger.Debug("browser close failed", "error", err)
		}
	}()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("failed to open stealth page: %w", err)
	}

	if blocked := blockedResources(p); len(blocked) > 0 {
		router := page.HijackRequests()
		for _, rt := range blocked {
			if err := router.Add("*", rt, func(h *rod.Hijack) {
				h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			}); err != nil {
				return nil, fmt.Errorf("failed to block %s requests: %w", rt, err)
			}
		}
		go router.Run()
		defer func() { _ = router.Stop() }()
	}

	var waitIdle func()
	if p.NetworkIdle {
		waitIdle = page.WaitRequestIdle(networkIdleQuiet, nil, nil, nil)
	}

	if err := page.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load failed: %w", err)
	}
	if waitIdle != nil {
		waitIdle()
	}
	if p.Humanize > 0 {
		humanize(page, p.Humanize)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}

	finalURL := req.URL
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &models.Page{
		URL:      req.URL,
		FinalURL: finalURL,
		HTML:     html,
		Engine:   e.Name(),
	}, nil
}

func (e *BrowserEngine) launcher(ctx context.Context, p Profile) *launcher.Launcher {
	l := launcher.New().Context(ctx).Headless(p.Headless)
	if e.bin != "" {
		l = l.Bin(e.bin)
	}

	proxy := p.Proxy
	if proxy == "" {
		proxy = e.proxy
	}
	if proxy != "" {
		l = l.Proxy(proxy)
	}

	if p.BlockWebRTC {
		l = l.Set("force-webrtc-ip-handling-policy").
			Set("webrtc-ip-handling-policy", "disable_non_proxied_udp")
	}
	return l
}

// blockedResources lists the resource types a profile drops.
func blockedResources(p Profile) []proto.NetworkResourceType {
	var out []proto.NetworkResourceType
	if p.DisableResources {
		out = append(out, nonEssentialResources...)
	} else if p.BlockImages {
		out = append(out, proto.NetworkResourceTypeImage)
	}
	return out
}

// humanize wanders the cursor across the viewport for up to d.
func humanize(page *rod.Page, d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		to := proto.Point{X: 50 + rand.Float64()*1100, Y: 50 + rand.Float64()*600}
		if err := page.Mouse.MoveLinear(to, 5+rand.IntN(15)); err != nil {
			return
		}
		time.Sleep(humanizeStep)
	}
}

var _ Engine = (*BrowserEngine)(nil)
