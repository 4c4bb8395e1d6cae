package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dtnitsch/stealth-fetch-mcp/internal/common"
	"github.com/dtnitsch/stealth-fetch-mcp/models"
	"golang.org/x/net/html"
)

// MatchThreshold is the lowest similarity at which a stored element is
// considered found again.
const MatchThreshold = 0.6

// ElementStore persists fingerprints of selector matches per site.
type ElementStore interface {
	SaveElements(ctx context.Context, domain, selector string, elements []models.ElementFingerprint) error
	LoadElements(ctx context.Context, domain, selector string) ([]models.ElementFingerprint, error)
}

// Selection narrows a page to the elements matched by a CSS selector.
type Selection struct {
	Selector  string
	Format    models.Format // text or html
	AutoSave  bool
	AutoMatch bool
}

// Normalizer turns fetched pages into the single string a tool returns.
type Normalizer struct {
	Converter Converter
	Store     ElementStore // optional; needed for AutoSave/AutoMatch
	Logger    *slog.Logger
}

// Normalize renders the whole page in format.
func (n *Normalizer) Normalize(page *models.Page, format models.Format) (string, error) {
	return n.Converter.Convert(page.BaseURL(), page.HTML, format)
}

// Select renders the elements matched by sel.Selector, in document order,
// joined with newlines. With AutoMatch, elements that no longer match are
// relocated from the fingerprints stored by an earlier AutoSave.
func (n *Normalizer) Select(ctx context.Context, page *models.Page, sel Selection) (string, error) {
	matcher, err := cascadia.Compile(sel.Selector)
	if err != nil {
		return "", &ConversionError{Format: sel.Format, Err: fmt.Errorf("invalid selector %q: %w", sel.Selector, err)}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return "", &ConversionError{Format: sel.Format, Err: err}
	}

	domain := siteDomain(page.BaseURL())
	matches := doc.FindMatcher(matcher)

	if matches.Length() == 0 && sel.AutoMatch && n.Store != nil {
		stored, err := n.Store.LoadElements(ctx, domain, sel.Selector)
		if err != nil {
			return "", fmt.Errorf("failed to load stored elements: %w", err)
		}
		matches = Relocate(doc, stored)
		n.logger().Debug("Relocated elements", "domain", domain, "selector", sel.Selector,
			"stored", len(stored), "found", matches.Length())
	}

	if sel.AutoSave && matches.Length() > 0 && n.Store != nil {
		if err := n.Store.SaveElements(ctx, domain, sel.Selector, Fingerprints(matches)); err != nil {
			return "", fmt.Errorf("failed to save elements: %w", err)
		}
	}

	parts := make([]string, 0, matches.Length())
	var renderErr error
	matches.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if sel.Format == models.FormatHTML {
			h, err := goquery.OuterHtml(s)
			if err != nil {
				renderErr = err
				return false
			}
			parts = append(parts, h)
			return true
		}
		parts = append(parts, selectionText(s))
		return true
	})
	if renderErr != nil {
		return "", &ConversionError{Format: sel.Format, Err: renderErr}
	}
	return strings.Join(parts, "\n"), nil
}

func (n *Normalizer) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// Fingerprints describes every element in s.
func Fingerprints(s *goquery.Selection) []models.ElementFingerprint {
	out := make([]models.ElementFingerprint, 0, s.Length())
	s.Each(func(_ int, el *goquery.Selection) {
		out = append(out, fingerprint(el))
	})
	return out
}

func fingerprint(s *goquery.Selection) models.ElementFingerprint {
	text := normalizeText(selectionText(s))
	id, _ := s.Attr("id")
	class, _ := s.Attr("class")
	fp := models.ElementFingerprint{
		Tag:     goquery.NodeName(s),
		ID:      id,
		Classes: strings.Fields(class),
		Path:    nodePath(s.Get(0)),
		Text:    text,
	}
	if text != "" {
		fp.TextHash = common.ContentHash([]byte(text))
	}
	return fp
}

// Relocate finds, for each stored fingerprint, the most similar element of
// doc scoring at least MatchThreshold. Results are in document order and
// never repeat an element.
func Relocate(doc *goquery.Document, stored []models.ElementFingerprint) *goquery.Selection {
	candidates := doc.Find("body *")
	if candidates.Length() == 0 {
		candidates = doc.Find("*")
	}
	prints := Fingerprints(candidates)

	chosen := make(map[*html.Node]bool)
	for _, want := range stored {
		best, bestScore := -1, 0.0
		for i, got := range prints {
			if chosen[candidates.Get(i)] {
				continue
			}
			if score := Similarity(want, got); score >= MatchThreshold && score > bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			chosen[candidates.Get(best)] = true
		}
	}

	return candidates.FilterFunction(func(i int, _ *goquery.Selection) bool {
		return chosen[candidates.Get(i)]
	})
}

// Similarity scores how alike two elements are, from 0 to 1.
func Similarity(a, b models.ElementFingerprint) float64 {
	var score, total float64

	total++
	if a.Tag == b.Tag {
		score++
	}

	if a.ID != "" {
		total++
		if a.ID == b.ID {
			score++
		}
	}

	if len(a.Classes) > 0 {
		total++
		score += jaccard(a.Classes, b.Classes)
	}

	if a.Text != "" {
		total += 2
		if a.TextHash != "" && a.TextHash == b.TextHash {
			score += 2
		} else {
			score += 2 * jaccard(strings.Fields(strings.ToLower(a.Text)), strings.Fields(strings.ToLower(b.Text)))
		}
	}

	total++
	score += pathSimilarity(a.Path, b.Path)

	return score / total
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	var inter int
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, s := range b {
		if seen[s] {
			continue
		}
		seen[s] = true
		if set[s] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// pathSimilarity is the shared prefix of two ancestor paths relative to the
// longer one.
func pathSimilarity(a, b string) float64 {
	pa, pb := strings.Split(a, ">"), strings.Split(b, ">")
	n := max(len(pa), len(pb))
	var shared int
	for shared < len(pa) && shared < len(pb) && pa[shared] == pb[shared] {
		shared++
	}
	return float64(shared) / float64(n)
}

func nodePath(n *html.Node) string {
	var tags []string
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			tags = append(tags, p.Data)
		}
	}
	slices.Reverse(tags)
	return strings.Join(tags, ">")
}

func siteDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
