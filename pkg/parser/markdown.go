package parser

import (
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// nonContentElements are dropped before markdown rendering.
const nonContentElements = invisibleElements + ", iframe, svg, canvas"

func (p *Parser) markdown(pageURL, rawHTML string) (string, error) {
	simplified, err := simplify(rawHTML)
	if err != nil {
		return "", err
	}

	var opts []converter.ConvertOptionFunc
	u, err := url.Parse(pageURL)
	if err == nil && u.Host != "" {
		opts = append(opts, converter.WithDomain(u.Scheme+"://"+u.Host))
		if p.Readability {
			simplified = p.mainContent(u, simplified)
		}
	}

	md, err := htmltomarkdown.ConvertString(simplified, opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// mainContent narrows the page to its article body. Pages readability cannot
// make sense of are rendered whole.
func (p *Parser) mainContent(u *url.URL, simplified string) string {
	rp := readability.NewParser()
	article, err := rp.Parse(strings.NewReader(simplified), u)
	if err != nil {
		p.logger().Debug("readability failed, rendering full page", "url", u.String(), "error", err)
		return simplified
	}
	if strings.TrimSpace(article.Content) == "" {
		return simplified
	}
	if article.Title != "" && !strings.Contains(article.Content, "<h1") {
		return "<h1>" + html.EscapeString(normalizeText(article.Title)) + "</h1>" + article.Content
	}
	return article.Content
}

// simplify removes scripts, styles, embedded frames and comments.
func simplify(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}
	doc.Find(nonContentElements).Remove()
	removeComments(doc.Selection)
	return doc.Html()
}

func removeComments(s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if c.Get(0).Type == html.CommentNode {
			c.Remove()
			return
		}
		removeComments(c)
	})
}
