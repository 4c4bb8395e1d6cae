package parser

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/stealth-fetch-mcp/models"
	"golang.org/x/net/html"
)

// invisibleElements never contribute text to a page.
const invisibleElements = "script, style, noscript, template"

var invisibleTags = map[string]bool{"script": true, "style": true, "noscript": true, "template": true}

// Converter turns a fetched page's HTML into one string. Implementations must
// be pure: the same input always yields the same output.
type Converter interface {
	Convert(pageURL, html string, format models.Format) (string, error)
}

// ConversionError is returned when a page cannot be rendered in a format.
type ConversionError struct {
	Format models.Format
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert page to %s: %v", e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Parser is the default Converter built on goquery, go-readability and
// html-to-markdown.
type Parser struct {
	// Readability runs main-content extraction before markdown rendering.
	Readability bool
	Logger      *slog.Logger
}

func (p *Parser) Convert(pageURL, rawHTML string, format models.Format) (string, error) {
	var (
		out string
		err error
	)
	switch format {
	case models.FormatHTML:
		return rawHTML, nil
	case models.FormatMarkdown:
		out, err = p.markdown(pageURL, rawHTML)
	case models.FormatText:
		out, err = visibleText(rawHTML)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return "", &ConversionError{Format: format, Err: err}
	}
	return out, nil
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// visibleText returns the text a reader would see in the page body, one
// non-empty line per line.
func visibleText(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	return selectionText(root), nil
}

// selectionText is the visible text of s with every text node on its own
// line, so adjacent blocks never run together.
func selectionText(s *goquery.Selection) string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := normalizeLines(n.Data); text != "" {
				lines = append(lines, text)
			}
			return
		case html.ElementNode:
			if invisibleTags[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(lines, "\n")
}

// normalizeLines trims every line and drops the empty ones.
func normalizeLines(input string) string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), len(input)+1)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// normalizeText collapses input onto a single line.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

var _ Converter = (*Parser)(nil)
