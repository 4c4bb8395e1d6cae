package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dtnitsch/stealth-fetch-mcp/models"
)

const examplePage = `<!doctype html>
<html>
<head>
  <title>Example Domain</title>
  <style>body { color: red; }</style>
  <script>var tracking = "secret";</script>
</head>
<body>
  <div>
    <h1>Example Domain</h1>
    <!-- hidden note -->
    <p>This domain is for use in illustrative examples.</p>
    <p><a href="/more">More information...</a></p>
  </div>
  <script>document.write("injected")</script>
  <noscript>enable javascript</noscript>
</body>
</html>`

func TestParserConvert_Markdown(t *testing.T) {
	p := &Parser{}
	got, err := p.Convert("https://example.com/", examplePage, models.FormatMarkdown)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	for _, want := range []string{"# Example Domain", "This domain is for use in illustrative examples.", "https://example.com/more"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"secret", "injected", "color: red", "hidden note", "enable javascript"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("markdown should not contain %q:\n%s", unwanted, got)
		}
	}
}

func TestParserConvert_Deterministic(t *testing.T) {
	for _, readability := range []bool{false, true} {
		p := &Parser{Readability: readability}
		for _, format := range []models.Format{models.FormatHTML, models.FormatMarkdown, models.FormatText} {
			first, err := p.Convert("https://example.com/", examplePage, format)
			if err != nil {
				t.Fatalf("Convert(%s) error = %v", format, err)
			}
			second, err := p.Convert("https://example.com/", examplePage, format)
			if err != nil {
				t.Fatalf("Convert(%s) error = %v", format, err)
			}
			if first != second {
				t.Errorf("Convert(%s, readability=%v) is not deterministic", format, readability)
			}
		}
	}
}

func TestParserConvert_HTMLPassthrough(t *testing.T) {
	p := &Parser{}
	got, err := p.Convert("https://example.com/", examplePage, models.FormatHTML)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != examplePage {
		t.Error("html format must return the page unchanged")
	}
}

func TestParserConvert_Text(t *testing.T) {
	p := &Parser{}
	got, err := p.Convert("https://example.com/", examplePage, models.FormatText)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := "Example Domain\nThis domain is for use in illustrative examples.\nMore information..."
	if got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestParserConvert_TextMinified(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "adjacent blocks",
			html: `<html><head><title>Example Domain</title></head><body><div><h1>Example Domain</h1><p>This domain is for use in illustrative examples.</p><p><a href="/more">More</a></p></div></body></html>`,
			want: "Example Domain\nThis domain is for use in illustrative examples.\nMore",
		},
		{
			name: "scripts and styles between blocks",
			html: `<body><h2>Title</h2><script>var x = 1;</script><p>Para one.</p><style>p{}</style><p>Para two.</p></body>`,
			want: "Title\nPara one.\nPara two.",
		},
		{
			name: "no body",
			html: `<p>only</p><!-- note --><p>text</p>`,
			want: "only\ntext",
		},
	}

	p := &Parser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Convert("https://example.com/", tt.html, models.FormatText)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserConvert_UnknownFormat(t *testing.T) {
	p := &Parser{}
	_, err := p.Convert("https://example.com/", examplePage, models.Format("pdf"))
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error = %v, want *ConversionError", err)
	}
	if convErr.Format != "pdf" {
		t.Errorf("Format = %q, want pdf", convErr.Format)
	}
}

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"trims", "  a  \n\tb\t", "a\nb"},
		{"drops blank lines", "a\n\n   \n\nb", "a\nb"},
		{"windows newlines", "a\r\nb\r\n", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeLines(tt.input); got != tt.want {
				t.Errorf("normalizeLines(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	if got := normalizeText("  Hello \n\n  world\t! "); got != "Hello world !" {
		t.Errorf("normalizeText() = %q", got)
	}
}
