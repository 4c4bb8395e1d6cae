package fetcher

import (
	"context"
	"errors"
	"testing"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
)

type fakeEngine struct {
	name  string
	calls []*Request
	html  string
	err   error
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Fetch(_ context.Context, req *Request) (*models.Page, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Page{URL: req.URL, HTML: f.html, Engine: f.name}, nil
}

func newTestSelector() (*Selector, *fakeEngine, *fakeEngine) {
	httpEngine := &fakeEngine{name: "http", html: "<p>http</p>"}
	browserEngine := &fakeEngine{name: "browser", html: "<p>browser</p>"}
	return &Selector{HTTP: httpEngine, Browser: browserEngine}, httpEngine, browserEngine
}

func TestSelectorForMode(t *testing.T) {
	tests := []struct {
		mode        models.Mode
		wantEngine  string
		wantProfile Profile
	}{
		{
			mode:        models.ModeBasic,
			wantEngine:  "http",
			wantProfile: Profile{StealthyHeaders: true},
		},
		{
			mode:        models.ModeStealth,
			wantEngine:  "browser",
			wantProfile: Profile{Headless: true, NetworkIdle: true},
		},
		{
			mode:        models.ModeMaxStealth,
			wantEngine:  "browser",
			wantProfile: Profile{Headless: true, NetworkIdle: true, BlockWebRTC: true},
		},
	}

	s, _, _ := newTestSelector()
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			strategy, err := s.ForMode(tt.mode)
			if err != nil {
				t.Fatalf("ForMode(%q) error = %v", tt.mode, err)
			}
			if strategy.Engine.Name() != tt.wantEngine {
				t.Errorf("engine = %q, want %q", strategy.Engine.Name(), tt.wantEngine)
			}
			if strategy.Profile != tt.wantProfile {
				t.Errorf("profile = %+v, want %+v", strategy.Profile, tt.wantProfile)
			}
		})
	}
}

func TestSelectorCoversEveryMode(t *testing.T) {
	s, _, _ := newTestSelector()
	for _, m := range models.Modes() {
		if _, err := s.ForMode(m); err != nil {
			t.Errorf("mode %q has no strategy: %v", m, err)
		}
	}
}

func TestSelectorUnknownMode(t *testing.T) {
	s, httpEngine, browserEngine := newTestSelector()

	_, err := s.Fetch(context.Background(), models.Mode("turbo"), "https://example.com")
	var modeErr *UnsupportedModeError
	if !errors.As(err, &modeErr) {
		t.Fatalf("error = %v, want *UnsupportedModeError", err)
	}
	if modeErr.Mode != "turbo" {
		t.Errorf("Mode = %q, want turbo", modeErr.Mode)
	}
	if len(httpEngine.calls)+len(browserEngine.calls) != 0 {
		t.Error("no engine should be called for an unknown mode")
	}
}

func TestSelectorFetch_SingleAttempt(t *testing.T) {
	s, httpEngine, _ := newTestSelector()
	httpEngine.err = errors.New("connection reset")

	_, err := s.Fetch(context.Background(), models.ModeBasic, "https://example.com")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.Engine != "http" || fetchErr.URL != "https://example.com" {
		t.Errorf("FetchError = %+v", fetchErr)
	}
	if len(httpEngine.calls) != 1 {
		t.Errorf("engine called %d times, want exactly 1", len(httpEngine.calls))
	}
}

func TestSelectorFetch_RoutesToEngine(t *testing.T) {
	s, httpEngine, browserEngine := newTestSelector()

	page, err := s.Fetch(context.Background(), models.ModeMaxStealth, "https://example.com")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.Engine != "browser" {
		t.Errorf("page.Engine = %q, want browser", page.Engine)
	}
	if len(httpEngine.calls) != 0 || len(browserEngine.calls) != 1 {
		t.Errorf("calls: http=%d browser=%d", len(httpEngine.calls), len(browserEngine.calls))
	}
	if !browserEngine.calls[0].Profile.BlockWebRTC {
		t.Error("max-stealth must block WebRTC")
	}
}
