package tools

import (
	"context"
	"log/slog"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/fetcher"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/paginate"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/parser"
)

// Service implements the operations on top of a fetch selector and a
// normalizer. It holds no per-call state.
type Service struct {
	Fetcher    *fetcher.Selector
	Normalizer *parser.Normalizer
	Logger     *slog.Logger
}

// Operations returns every operation the server exposes, in the order
// tools/list reports them.
func (s *Service) Operations() []Operation {
	return []Operation{
		{
			Descriptor: Descriptor{
				Name:        ScraplingFetchName,
				Description: ScraplingFetchDescription,
				InputSchema: ScraplingFetchSchema(),
			},
			Handler: s.handleFetch,
		},
		{
			Descriptor: Descriptor{
				Name:        QuickBrowseName,
				Description: QuickBrowseDescription,
				InputSchema: QuickBrowseSchema(),
			},
			Handler: s.handleQuickBrowse,
		},
		{
			Descriptor: Descriptor{
				Name:        StealthyBrowseName,
				Description: StealthyBrowseDescription,
				InputSchema: StealthyBrowseSchema(),
			},
			Handler: s.handleStealthyBrowse,
		},
	}
}

// NewRegistry builds the registry for s.
func (s *Service) NewRegistry() (*Registry, error) {
	return NewRegistry(s.Operations()...)
}

func (s *Service) handleFetch(ctx context.Context, args map[string]any) (string, error) {
	req, err := models.ParseFetchRequest(args)
	if err != nil {
		return "", err
	}
	return s.Fetch(ctx, req)
}

// Fetch retrieves req.URL with the tier named by req.Mode, normalizes it to
// req.Format and returns the requested window.
func (s *Service) Fetch(ctx context.Context, req *models.FetchRequest) (string, error) {
	page, err := s.Fetcher.Fetch(ctx, req.Mode, req.URL)
	if err != nil {
		return "", err
	}
	content, err := s.Normalizer.Normalize(page, req.Format)
	if err != nil {
		return "", err
	}
	return s.window(req.URL, content, req.Window), nil
}

func (s *Service) window(url, content string, w models.Window) string {
	out := paginate.Window(content, w.StartIndex, w.MaxLength)
	s.logger().Debug("Returning window", "url", url, "start_index", w.StartIndex,
		"max_length", w.MaxLength, "content_length", paginate.Len(content), "returned", paginate.Len(out))
	return out
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
