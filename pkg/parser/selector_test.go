package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/stealth-fetch-mcp/models"
)

type memoryStore struct {
	saved map[string][]models.ElementFingerprint
	saves int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saved: make(map[string][]models.ElementFingerprint)}
}

func (m *memoryStore) SaveElements(_ context.Context, domain, selector string, elements []models.ElementFingerprint) error {
	m.saves++
	m.saved[domain+"|"+selector] = elements
	return nil
}

func (m *memoryStore) LoadElements(_ context.Context, domain, selector string) ([]models.ElementFingerprint, error) {
	return m.saved[domain+"|"+selector], nil
}

const listPage = `<html><body>
<ul>
  <li class="item">First <script>ignored()</script></li>
  <li class="item">Second</li>
  <li class="other">Third</li>
  <li class="item">Fourth</li>
</ul>
</body></html>`

func TestNormalizerSelect(t *testing.T) {
	n := &Normalizer{Converter: &Parser{}}
	page := &models.Page{URL: "https://shop.example.com/", HTML: listPage}

	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{
			name: "text in document order",
			sel:  Selection{Selector: "li.item", Format: models.FormatText},
			want: "First\nSecond\nFourth",
		},
		{
			name: "outer html",
			sel:  Selection{Selector: "li.other", Format: models.FormatHTML},
			want: `<li class="other">Third</li>`,
		},
		{
			name: "no match",
			sel:  Selection{Selector: "table td", Format: models.FormatText},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Select(context.Background(), page, tt.sel)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Select() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizerSelect_MinifiedText(t *testing.T) {
	n := &Normalizer{Converter: &Parser{}}
	page := &models.Page{URL: "https://example.com/", HTML: `<html><body><div><h2>Title</h2><p>Para one.</p><p>Para two.</p></div></body></html>`}

	got, err := n.Select(context.Background(), page, Selection{Selector: "div", Format: models.FormatText})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if want := "Title\nPara one.\nPara two."; got != want {
		t.Errorf("Select() = %q, want %q", got, want)
	}
}

func TestNormalizerSelect_InvalidSelector(t *testing.T) {
	n := &Normalizer{Converter: &Parser{}}
	page := &models.Page{URL: "https://example.com/", HTML: listPage}

	_, err := n.Select(context.Background(), page, Selection{Selector: "li[", Format: models.FormatText})
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error = %v, want *ConversionError", err)
	}
}

func TestNormalizerSelect_AutoMatch(t *testing.T) {
	store := newMemoryStore()
	n := &Normalizer{Converter: &Parser{}, Store: store}
	ctx := context.Background()

	before := &models.Page{URL: "https://www.shop.example.com/p/1", HTML: `<html><body>
<h1>Shop</h1>
<div id="price" class="price">$10.99</div>
</body></html>`}

	got, err := n.Select(ctx, before, Selection{Selector: "#price", Format: models.FormatText, AutoSave: true})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got != "$10.99" {
		t.Fatalf("Select() = %q, want $10.99", got)
	}
	if store.saves != 1 || len(store.saved["shop.example.com|#price"]) != 1 {
		t.Fatalf("fingerprint not saved: %+v", store.saved)
	}

	// The id was renamed; the element is still recognisable.
	after := &models.Page{URL: "https://shop.example.com/p/1", HTML: `<html><body>
<h1>Shop</h1>
<p>Now on sale</p>
<div id="cost" class="price">$10.99</div>
</body></html>`}

	got, err = n.Select(ctx, after, Selection{Selector: "#price", Format: models.FormatText})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got != "" {
		t.Errorf("without auto_match, Select() = %q, want empty", got)
	}

	got, err = n.Select(ctx, after, Selection{Selector: "#price", Format: models.FormatHTML, AutoMatch: true})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got != `<div id="cost" class="price">$10.99</div>` {
		t.Errorf("auto_match Select() = %q", got)
	}
}

func TestRelocate_BelowThreshold(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><span>unrelated</span></body></html>`))
	if err != nil {
		t.Fatalf("NewDocumentFromReader() error = %v", err)
	}
	stored := []models.ElementFingerprint{{
		Tag: "div", ID: "price", Classes: []string{"price"}, Path: "html>body", Text: "$10.99",
	}}
	if got := Relocate(doc, stored); got.Length() != 0 {
		t.Errorf("Relocate() found %d elements, want 0", got.Length())
	}
}

func TestSimilarity(t *testing.T) {
	fp := models.ElementFingerprint{Tag: "div", ID: "a", Classes: []string{"x", "y"}, Path: "html>body", Text: "hello world"}

	if got := Similarity(fp, fp); got != 1 {
		t.Errorf("Similarity(fp, fp) = %v, want 1", got)
	}

	other := models.ElementFingerprint{Tag: "span", Path: "html>body>footer", Text: "goodbye"}
	if got := Similarity(fp, other); got >= MatchThreshold {
		t.Errorf("Similarity(unrelated) = %v, want < %v", got, MatchThreshold)
	}
}

func TestSiteDomain(t *testing.T) {
	tests := map[string]string{
		"https://www.Example.com/a":   "example.com",
		"http://shop.example.com:80/": "shop.example.com",
		"::bad":                       "",
	}
	for in, want := range tests {
		if got := siteDomain(in); got != want {
			t.Errorf("siteDomain(%q) = %q, want %q", in, got, want)
		}
	}
}
