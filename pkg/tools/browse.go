package tools

import (
	"context"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/fetcher"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/parser"
)

func (s *Service) handleQuickBrowse(ctx context.Context, args map[string]any) (string, error) {
	req, err := models.ParseQuickBrowseRequest(args)
	if err != nil {
		return "", err
	}
	return s.QuickBrowse(ctx, req)
}

func (s *Service) handleStealthyBrowse(ctx context.Context, args map[string]any) (string, error) {
	req, err := models.ParseStealthyBrowseRequest(args)
	if err != nil {
		return "", err
	}
	return s.StealthyBrowse(ctx, req)
}

// QuickBrowse fetches with the plain HTTP tier or a stealth browser and
// returns the page, or the elements matching req.Selector, as text or HTML.
func (s *Service) QuickBrowse(ctx context.Context, req *models.QuickBrowseRequest) (string, error) {
	strategy := s.quickStrategy(req)
	page, err := s.Fetcher.Run(ctx, strategy, req.URL)
	if err != nil {
		return "", err
	}

	var content string
	if req.Selector != "" {
		content, err = s.Normalizer.Select(ctx, page, parser.Selection{
			Selector:  req.Selector,
			Format:    req.Format,
			AutoSave:  req.AutoSave,
			AutoMatch: req.AutoMatch,
		})
	} else {
		content, err = s.Normalizer.Normalize(page, req.Format)
	}
	if err != nil {
		return "", err
	}
	return s.window(req.URL, content, req.Window), nil
}

func (s *Service) quickStrategy(req *models.QuickBrowseRequest) fetcher.Strategy {
	if req.BrowserType == models.BrowserStealth {
		return fetcher.Strategy{Mode: models.ModeStealth, Engine: s.Fetcher.Browser, Profile: fetcher.Profile{
			Headless:         req.Headless,
			NetworkIdle:      req.NetworkIdle,
			BlockWebRTC:      true,
			DisableResources: req.DisableResources,
			Proxy:            req.Proxy,
		}}
	}
	return fetcher.Strategy{Mode: models.ModeBasic, Engine: s.Fetcher.HTTP, Profile: fetcher.Profile{
		StealthyHeaders: true,
		Proxy:           req.Proxy,
	}}
}

// StealthyBrowse renders the page in a stealth browser configured by req and
// returns its visible text.
func (s *Service) StealthyBrowse(ctx context.Context, req *models.StealthyBrowseRequest) (string, error) {
	strategy := fetcher.Strategy{Mode: models.ModeMaxStealth, Engine: s.Fetcher.Browser, Profile: fetcher.Profile{
		Headless:         req.Headless,
		NetworkIdle:      req.NetworkIdle,
		BlockWebRTC:      req.BlockWebRTC,
		DisableResources: req.DisableResources,
		BlockImages:      req.BlockImages,
		Humanize:         req.Humanize,
		Timeout:          req.Timeout,
		Proxy:            req.Proxy,
	}}
	page, err := s.Fetcher.Run(ctx, strategy, req.URL)
	if err != nil {
		return "", err
	}
	content, err := s.Normalizer.Normalize(page, models.FormatText)
	if err != nil {
		return "", err
	}
	return s.window(req.URL, content, req.Window), nil
}
