package source

import (
	"regexp"
	"strings"
	"time"
)

// orgKeywords marks author tokens that indicate an organization rather
// than a person. Compared case-insensitively after trimming punctuation.
var orgKeywords = map[string]bool{
	"corp": true, "corporation": true, "inc": true, "incorporated": true,
	"llc": true, "ltd": true, "limited": true, "co": true, "company": true,
	"gmbh": true, "foundation": true, "institute": true, "institution": true,
	"university": true, "college": true, "organization": true,
	"organisation": true, "association": true, "society": true,
	"press": true, "news": true, "media": true, "group": true,
	"agency": true, "bureau": true, "committee": true, "council": true,
	"department": true, "ministry": true, "lab": true, "labs": true,
	"team": true, "project": true,
}

// isOrganization reports whether any token marks the name as organizational.
func isOrganization(tokens []string) bool {
	for _, tok := range tokens {
		if orgKeywords[strings.ToLower(strings.Trim(tok, ".,"))] {
			return true
		}
	}
	return false
}

// ParseAuthor converts a free-form author string into the Author shape.
// Rules:
//  1. "Family, Given" → split once on the first comma.
//  2. Any token matching an organizational keyword → literal, whole string.
//  3. Two whitespace tokens → given family; three or more → last token is
//     the family name, the remainder joined as given.
//  4. Single token, or a comma form with an empty half → literal.
//
// Returns nil for an empty or whitespace-only string.
func ParseAuthor(raw string) *Author {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if idx := strings.Index(s, ","); idx >= 0 {
		family := strings.TrimSpace(s[:idx])
		given := strings.TrimSpace(s[idx+1:])
		if family == "" || given == "" || isOrganization(strings.Fields(s)) {
			return &Author{Literal: s}
		}
		return &Author{Family: family, Given: given}
	}

	tokens := strings.Fields(s)
	if isOrganization(tokens) {
		return &Author{Literal: s}
	}
	switch {
	case len(tokens) == 2:
		return &Author{Given: tokens[0], Family: tokens[1]}
	case len(tokens) >= 3:
		return &Author{
			Given:  strings.Join(tokens[:len(tokens)-1], " "),
			Family: tokens[len(tokens)-1],
		}
	default:
		return &Author{Literal: s}
	}
}

// NormalizeAuthorInput adapts whatever shape of author data an extractor or
// a previously-saved record produced into a clean Author slice. Accepted
// shapes: string, []string, Author, *Author, []Author, map with
// family/given/literal keys, and []any mixing any of the above (legacy
// records store authors loosely). Elements that yield neither family, given,
// nor literal are dropped. Normalizing already-normalized input returns the
// equivalent slice, so the adapter is safe to apply at every boundary.
func NormalizeAuthorInput(v any) []Author {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if a := ParseAuthor(val); a != nil {
			return []Author{*a}
		}
		return nil
	case Author:
		if a := canonicalAuthor(val); a != nil {
			return []Author{*a}
		}
		return nil
	case *Author:
		if val == nil {
			return nil
		}
		return NormalizeAuthorInput(*val)
	case []Author:
		out := make([]Author, 0, len(val))
		for _, a := range val {
			if c := canonicalAuthor(a); c != nil {
				out = append(out, *c)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []string:
		out := make([]Author, 0, len(val))
		for _, s := range val {
			if a := ParseAuthor(s); a != nil {
				out = append(out, *a)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case map[string]any:
		if a := authorFromMap(val); a != nil {
			return []Author{*a}
		}
		return nil
	case []any:
		out := make([]Author, 0, len(val))
		for _, elem := range val {
			out = append(out, NormalizeAuthorInput(elem)...)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

// canonicalAuthor enforces the exactly-one-representation rule. A structured
// name wins over a literal when both are present; an entirely empty author
// is dropped.
func canonicalAuthor(a Author) *Author {
	a.Family = strings.TrimSpace(a.Family)
	a.Given = strings.TrimSpace(a.Given)
	a.Literal = strings.TrimSpace(a.Literal)

	if a.Family != "" || a.Given != "" {
		a.Literal = ""
		return &a
	}
	if a.Literal != "" {
		return &Author{Literal: a.Literal}
	}
	return nil
}

// authorFromMap handles JSON-decoded author objects ({"name": ...} from
// structured markup, or CSL-shaped {"family": ..., "given": ...}).
func authorFromMap(m map[string]any) *Author {
	str := func(key string) string {
		if s, ok := m[key].(string); ok {
			return strings.TrimSpace(s)
		}
		return ""
	}

	a := Author{Family: str("family"), Given: str("given"), Literal: str("literal")}
	if c := canonicalAuthor(a); c != nil {
		return c
	}
	if name := str("name"); name != "" {
		return ParseAuthor(name)
	}
	return nil
}

// dateLayouts is the ordered cascade of layouts ParseDate attempts. Earlier
// entries are more specific; the first match wins.
var dateLayouts = []struct {
	layout   string
	hasMonth bool
	hasDay   bool
}{
	{time.RFC3339, true, true},
	{"2006-01-02T15:04:05", true, true},
	{"2006-01-02", true, true},
	{"2006/01/02", true, true},
	{time.RFC1123, true, true},
	{time.RFC1123Z, true, true},
	{time.RFC822, true, true},
	{"January 2, 2006", true, true},
	{"Jan 2, 2006", true, true},
	{"2 January 2006", true, true},
	{"02 Jan 2006", true, true},
	{"2006-01", true, false},
	{"January 2006", true, false},
	{"Jan 2006", true, false},
}

var bareYearRegex = regexp.MustCompile(`^\d{4}$`)

// ParseDate parses an arbitrary date-ish string into a Date triple. An
// unparseable string yields nil ("no date"), never a fabricated date.
func ParseDate(raw string) *Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, entry := range dateLayouts {
		t, err := time.Parse(entry.layout, s)
		if err != nil {
			continue
		}
		d := &Date{Year: t.Year()}
		if entry.hasMonth {
			d.Month = int(t.Month())
		}
		if entry.hasDay {
			d.Day = t.Day()
		}
		return d
	}

	if bareYearRegex.MatchString(s) {
		t, err := time.Parse("2006", s)
		if err == nil {
			return &Date{Year: t.Year()}
		}
	}

	return nil
}

// DateFromTime converts a concrete timestamp into a full Date triple.
func DateFromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
