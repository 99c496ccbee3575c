package extract

import (
	"encoding/json"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// schemaTypeTable maps schema.org @type values to source categories.
var schemaTypeTable = map[string]source.SourceType{
	"Article":                     source.TypeWebpage,
	"NewsArticle":                 source.TypeWebpage,
	"BlogPosting":                 source.TypeWebpage,
	"Report":                      source.TypeDocument,
	"ScholarlyArticle":            source.TypeAcademic,
	"TechArticle":                 source.TypeWebpage,
	"Book":                        source.TypeDocument,
	"VideoObject":                 source.TypeVideo,
	"Movie":                       source.TypeVideo,
	"PodcastEpisode":              source.TypePodcast,
	"AudioObject":                 source.TypePodcast,
	"ImageObject":                 source.TypeImage,
	"Dataset":                     source.TypeSpreadsheet,
	"PresentationDigitalDocument": source.TypePresentation,
	"WebSite":                     source.TypeWebpage,
	"WebPage":                     source.TypeWebpage,
}

// localePathRegex matches bare locale path prefixes like /en, /en-US, /de/.
var localePathRegex = regexp.MustCompile(`^/[a-z]{2}(?:-[A-Za-z]{2})?/?$`)

// homeAliases are path segments that mark a site landing page.
var homeAliases = map[string]bool{
	"home": true, "index": true, "index.html": true, "index.htm": true,
	"welcome": true, "main": true, "start": true,
}

// Generic extracts bibliographic metadata from an arbitrary web page.
// Priority: JSON-LD structured markup, then Open Graph, then standard meta
// tags, then the document title. The title is always non-empty: it falls
// back through site name, URL filename, domain, and finally "Untitled".
func Generic(p *Page) Metadata {
	md := Metadata{URL: p.URL(), Type: source.TypeWebpage}

	ld := jsonLD(p)

	// Open Graph layer
	ogTitle := p.Meta("property", "og:title")
	ogSiteName := p.Meta("property", "og:site_name")
	ogDescription := p.Meta("property", "og:description")
	ogType := p.Meta("property", "og:type")

	// Standard meta layer
	metaAuthor := p.Meta("name", "author")
	metaDescription := p.Meta("name", "description")
	metaDate := p.Meta("name", "date")
	if metaDate == "" {
		metaDate = p.Meta("property", "article:published_time")
	}

	docTitle := p.DocumentTitle()

	// Title priority. On landing pages the site-level name wins over a
	// structured-markup headline: the markup there usually describes the
	// site, not the item being captured.
	siteLevel := firstNonEmpty(ogTitle, ogSiteName, docTitle)
	if isLandingPage(p) {
		md.Title = firstNonEmpty(siteLevel, ld.title)
	} else {
		md.Title = firstNonEmpty(ld.title, ogTitle, docTitle)
	}
	if md.Title == "" {
		md.Title = titleFallback(p)
	}

	if ld.author != nil {
		md.AuthorRaw = ld.author
	} else if metaAuthor != "" {
		md.AuthorRaw = metaAuthor
	}

	md.PublishedRaw = firstNonEmpty(ld.published, metaDate)
	md.Description = firstNonEmpty(ld.description, ogDescription, metaDescription)
	md.SiteName = ogSiteName

	if ld.sourceType != "" {
		md.Type = ld.sourceType
	} else if ogType == "video.movie" || ogType == "video.other" {
		md.Type = source.TypeVideo
	}

	return md
}

// ldResult is the subset of JSON-LD fields the generic extractor reads.
type ldResult struct {
	title       string
	author      any
	published   string
	description string
	sourceType  source.SourceType
}

// jsonLD scans application/ld+json script blocks and returns the first
// object that yields a usable headline or name. Malformed blocks are
// skipped silently; structured markup in the wild is frequently broken.
func jsonLD(p *Page) ldResult {
	var result ldResult

	p.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(sel.Text()), &raw); err != nil {
			return true // continue
		}
		for _, obj := range flattenLD(raw) {
			if r, ok := readLDObject(obj); ok {
				result = r
				return false // stop
			}
		}
		return true
	})

	return result
}

// flattenLD unwraps the top-level shapes JSON-LD blocks come in: a single
// object, an array of objects, or a @graph wrapper.
func flattenLD(raw any) []map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			var out []map[string]any
			for _, g := range graph {
				if m, ok := g.(map[string]any); ok {
					out = append(out, m)
				}
			}
			return out
		}
		return []map[string]any{v}
	case []any:
		var out []map[string]any
		for _, elem := range v {
			if m, ok := elem.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func readLDObject(obj map[string]any) (ldResult, bool) {
	var r ldResult

	if s, ok := obj["headline"].(string); ok && strings.TrimSpace(s) != "" {
		r.title = strings.TrimSpace(s)
	} else if s, ok := obj["name"].(string); ok && strings.TrimSpace(s) != "" {
		r.title = strings.TrimSpace(s)
	}
	if r.title == "" {
		return r, false
	}

	r.author = obj["author"]
	if s, ok := obj["datePublished"].(string); ok {
		r.published = strings.TrimSpace(s)
	}
	if s, ok := obj["description"].(string); ok {
		r.description = strings.TrimSpace(s)
	}
	if t, ok := obj["@type"].(string); ok {
		r.sourceType = schemaTypeTable[t]
	}

	return r, true
}

// isLandingPage reports whether the URL points at a site home rather than a
// content page: empty path, bare locale prefix, or a known home alias.
func isLandingPage(p *Page) bool {
	pth := p.Path()
	if pth == "" || pth == "/" {
		return true
	}
	if localePathRegex.MatchString(pth) {
		return true
	}
	segment := strings.ToLower(strings.Trim(pth, "/"))
	return homeAliases[segment]
}

// titleFallback derives a title when the page itself offers none:
// the URL filename, then the domain, then "Untitled".
func titleFallback(p *Page) string {
	if pth := p.Path(); pth != "" && pth != "/" {
		base := path.Base(pth)
		base = strings.TrimSuffix(base, path.Ext(base))
		base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
		if s := strings.TrimSpace(base); s != "" {
			return s
		}
	}
	if host := p.Hostname(); host != "" {
		return strings.TrimPrefix(host, "www.")
	}
	return "Untitled"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
