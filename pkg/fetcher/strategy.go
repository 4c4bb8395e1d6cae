package fetcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
)

// Strategy is one fully resolved fetch: an engine and the profile it runs with.
type Strategy struct {
	Mode    models.Mode
	Engine  Engine
	Profile Profile
}

// Fetch performs the single engine call for url. Engine failures come back
// as *FetchError.
func (s Strategy) Fetch(ctx context.Context, url string) (*models.Page, error) {
	page, err := s.Engine.Fetch(ctx, &Request{URL: url, Profile: s.Profile})
	if err != nil {
		return nil, &FetchError{URL: url, Engine: s.Engine.Name(), Err: err}
	}
	return page, nil
}

// Selector maps evasion tiers onto engines.
type Selector struct {
	HTTP    Engine
	Browser Engine
	Logger  *slog.Logger
}

// ForMode returns the strategy for mode. Every models.Mode must have a case
// here; an unknown mode is an *UnsupportedModeError, never a fallback.
func (s *Selector) ForMode(mode models.Mode) (Strategy, error) {
	switch mode {
	case models.ModeBasic:
		return Strategy{Mode: mode, Engine: s.HTTP, Profile: Profile{
			StealthyHeaders: true,
		}}, nil
	case models.ModeStealth:
		return Strategy{Mode: mode, Engine: s.Browser, Profile: Profile{
			Headless:    true,
			NetworkIdle: true,
		}}, nil
	case models.ModeMaxStealth:
		return Strategy{Mode: mode, Engine: s.Browser, Profile: Profile{
			Headless:         true,
			NetworkIdle:      true,
			BlockWebRTC:      true,
			DisableResources: false,
			BlockImages:      false,
		}}, nil
	}
	return Strategy{}, &UnsupportedModeError{Mode: mode}
}

// Fetch resolves mode and runs it once against url.
func (s *Selector) Fetch(ctx context.Context, mode models.Mode, url string) (*models.Page, error) {
	strategy, err := s.ForMode(mode)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, strategy, url)
}

// Run executes an already resolved strategy and logs its outcome.
func (s *Selector) Run(ctx context.Context, strategy Strategy, url string) (*models.Page, error) {
	logger := s.logger()
	start := time.Now()
	logger.Debug("Fetching URL", "url", url, "mode", strategy.Mode, "engine", strategy.Engine.Name())

	page, err := strategy.Fetch(ctx, url)
	if err != nil {
		logger.Warn("Fetch failed", "url", url, "mode", strategy.Mode, "error", err, "took", time.Since(start))
		return nil, err
	}

	logger.Info("Fetched URL", "url", url, "mode", strategy.Mode, "engine", page.Engine,
		"status_code", page.StatusCode, "html_bytes", len(page.HTML), "took", time.Since(start))
	return page, nil
}

func (s *Selector) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
