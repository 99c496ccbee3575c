package cite

import (
	"fmt"

	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// Quick produces an approximate citation straight from a source record,
// with no CSL item construction and no style definition. It is the
// degraded path for when the engine cannot run at all; any missing field
// is simply omitted and the function never fails.
func Quick(rec *source.Record, styleID string) string {
	if rec == nil {
		return ""
	}
	author := quickAuthor(rec)
	year := ""
	if d := rec.Metadata.Issued; d != nil && d.Year > 0 {
		year = fmt.Sprintf("%d", d.Year)
	}
	title := rec.Metadata.Title
	url := rec.Metadata.URL

	var segments []string
	switch styleID {
	case "mla":
		segments = []string{periodIf(author), quoteIf(title), periodIf(url)}
	case "chicago":
		segments = []string{periodIf(author), periodIf(year), quoteIf(title), periodIf(url)}
	case "ieee":
		segments = []string{commaIf(author), quoteIfComma(title), commaIf(year), periodIf(url)}
	case "harvard":
		segments = []string{author, parenIf(year), periodIf(title), periodIf(url)}
	default: // apa
		segments = []string{periodIf(author), parenIf(year) + dotIf(year), periodIf(title), url}
	}
	return joinSegments(segments...)
}

func quickAuthor(rec *source.Record) string {
	for _, a := range rec.Metadata.Authors {
		if a.Literal != "" {
			return a.Literal
		}
		if a.Family != "" {
			return a.Family
		}
	}
	return ""
}

func periodIf(s string) string {
	if s == "" {
		return ""
	}
	return period(s)
}

func quoteIf(s string) string {
	if s == "" {
		return ""
	}
	return `"` + period(s) + `"`
}

func quoteIfComma(s string) string {
	if s == "" {
		return ""
	}
	return `"` + s + `,"`
}

func commaIf(s string) string {
	if s == "" {
		return ""
	}
	return s + ","
}

func parenIf(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}

func dotIf(s string) string {
	if s == "" {
		return ""
	}
	return "."
}
