// Package extract reads a captured page's structured data (JSON-LD scripts,
// meta tags, DOM selectors) and produces best-effort, possibly-partial
// metadata. Extractors never fail on missing data: every field is optional
// and a human-readable fallback is always produced for the title.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// Page wraps a parsed snapshot of a rendered page plus its URL.
type Page struct {
	doc    *goquery.Document
	rawURL string
	url    *url.URL

	// cached visible text, built lazily
	text string
}

// NewPage parses raw HTML captured from a live tab. The URL may be anything
// the browser reports; an unparseable URL leaves URL-derived heuristics
// inert rather than failing the capture.
func NewPage(rawHTML, rawURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	p := &Page{doc: doc, rawURL: rawURL}
	if u, err := url.Parse(rawURL); err == nil {
		p.url = u
	}
	return p, nil
}

// URL returns the page URL as captured.
func (p *Page) URL() string {
	return p.rawURL
}

// Hostname returns the lowercased hostname, or "" when the URL is unusable.
func (p *Page) Hostname() string {
	if p.url == nil {
		return ""
	}
	return strings.ToLower(p.url.Hostname())
}

// Path returns the URL path, or "" when the URL is unusable.
func (p *Page) Path() string {
	if p.url == nil {
		return ""
	}
	return p.url.Path
}

// Find runs a CSS selector against the document.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// DocumentTitle returns the trimmed <title> text.
func (p *Page) DocumentTitle() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// Meta returns the content attribute of the first matching meta tag.
func (p *Page) Meta(attr, value string) string {
	sel := "meta[" + attr + `="` + value + `"]`
	return strings.TrimSpace(p.doc.Find(sel).First().AttrOr("content", ""))
}

// Text returns the page's visible text: body text with script and style
// subtrees skipped. Built once and cached.
func (p *Page) Text() string {
	if p.text != "" {
		return p.text
	}
	var b strings.Builder
	for _, node := range p.doc.Find("body").Nodes {
		visibleText(node, &b)
	}
	p.text = b.String()
	return p.text
}

func visibleText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			b.WriteString(t)
			b.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(c, b)
	}
}

// selectText walks a selector cascade in priority order and returns the
// first non-empty trimmed text, or "".
func selectText(p *Page, selectors []string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(p.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// lastText returns the trimmed text of the last element matching the
// selector, or "".
func lastText(p *Page, selector string) string {
	return strings.TrimSpace(p.Find(selector).Last().Text())
}

// Metadata is the loosely-typed intermediate a generic extraction produces.
// AuthorRaw deliberately stays untyped: structured markup yields strings,
// arrays, or objects, and source.NormalizeAuthorInput is the only place that
// polymorphism is resolved.
type Metadata struct {
	Title        string
	URL          string
	AuthorRaw    any
	PublishedRaw string
	Description  string
	SiteName     string
	Type         source.SourceType
}
