package cite

import (
	"fmt"
	"strings"
)

// itemView is a read accessor over a cleaned CSL item map. All getters
// return zero values for absent fields; they never invent data.
type itemView struct {
	m map[string]any
}

func view(m map[string]any) itemView { return itemView{m: m} }

func (v itemView) str(key string) string {
	s, _ := v.m[key].(string)
	return s
}

// name is one author after map decoding.
type name struct {
	family, given, literal string
}

func (n name) surname() string {
	if n.literal != "" {
		return n.literal
	}
	return n.family
}

func (v itemView) names() []name {
	raw, _ := v.m["author"].([]any)
	out := make([]name, 0, len(raw))
	for _, elem := range raw {
		m, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		n := name{}
		n.family, _ = m["family"].(string)
		n.given, _ = m["given"].(string)
		n.literal, _ = m["literal"].(string)
		if n.family != "" || n.given != "" || n.literal != "" {
			out = append(out, n)
		}
	}
	return out
}

// date returns the year/month/day triple of a CSL date variable. Zero
// year means the date is absent.
func (v itemView) date(key string) (year, month, day int) {
	d, ok := v.m[key].(map[string]any)
	if !ok {
		return 0, 0, 0
	}
	outer, ok := d["date-parts"].([]any)
	if !ok || len(outer) == 0 {
		return 0, 0, 0
	}
	inner, ok := outer[0].([]any)
	if !ok {
		return 0, 0, 0
	}
	parts := [3]int{}
	for i := 0; i < len(inner) && i < 3; i++ {
		// JSON round-tripped numbers decode as float64.
		if f, ok := inner[i].(float64); ok {
			parts[i] = int(f)
		}
	}
	return parts[0], parts[1], parts[2]
}

// initials renders "Jane Quinn" as "J. Q.".
func initials(given string) string {
	fields := strings.Fields(given)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		r := []rune(f)
		parts = append(parts, strings.ToUpper(string(r[0]))+".")
	}
	return strings.Join(parts, " ")
}

// period appends a terminal period unless the segment already ends with
// closing punctuation.
func period(s string) string {
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '?', '!':
		return s
	}
	return s + "."
}

func joinSegments(segments ...string) string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

// renderFunc produces one bibliography entry and one in-text citation.
// position is the item's 1-based rank in the input list (numbered styles
// cite by it).
type renderFunc func(v itemView, position int) (bib, inText string)

var renderers = map[string]renderFunc{
	"apa":     renderAPA,
	"mla":     renderMLA,
	"chicago": renderChicago,
	"ieee":    renderIEEE,
	"harvard": renderHarvard,
}

// ---- APA ----

func apaAuthors(names []name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if n.literal != "" {
			parts[i] = n.literal
			continue
		}
		s := n.family
		if ini := initials(n.given); ini != "" {
			s += ", " + ini
		}
		parts[i] = s
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + ", & " + parts[1]
	default:
		if len(parts) > 20 {
			head := strings.Join(parts[:19], ", ")
			return head + ", ... " + parts[len(parts)-1]
		}
		return strings.Join(parts[:len(parts)-1], ", ") + ", & " + parts[len(parts)-1]
	}
}

func apaDate(year, month, day int) string {
	if year == 0 {
		return termNoDate
	}
	s := fmt.Sprintf("%d", year)
	if month > 0 {
		s += ", " + monthName(month, false)
		if day > 0 {
			s += fmt.Sprintf(" %d", day)
		}
	}
	return s
}

func inTextName(names []name, title string) string {
	if len(names) == 0 {
		if title != "" {
			return `"` + shortTitle(title) + `"`
		}
		return ""
	}
	switch len(names) {
	case 1:
		return names[0].surname()
	case 2:
		return names[0].surname() + " & " + names[1].surname()
	default:
		return names[0].surname() + " " + termEtAl
	}
}

// shortTitle truncates a title to its first four words for in-text use.
func shortTitle(title string) string {
	words := strings.Fields(title)
	if len(words) <= 4 {
		return title
	}
	return strings.Join(words[:4], " ") + "…"
}

func renderAPA(v itemView, _ int) (string, string) {
	names := v.names()
	year, month, day := v.date("issued")
	title := v.str("title")
	if genre := v.str("genre"); genre != "" {
		title += " [" + genre + "]"
	}

	segments := []string{
		period(apaAuthors(names)),
		"(" + apaDate(year, month, day) + ").",
		period(title),
		period(v.str("container-title")),
		period(v.str("publisher")),
	}
	if doi := v.str("DOI"); doi != "" {
		segments = append(segments, "https://doi.org/"+doi)
	} else if u := v.str("URL"); u != "" {
		segments = append(segments, u)
	}
	bib := joinSegments(segments...)

	yearStr := termNoDate
	if year > 0 {
		yearStr = fmt.Sprintf("%d", year)
	}
	subject := inTextName(names, v.str("title"))
	inText := "(" + yearStr + ")"
	if subject != "" {
		inText = "(" + subject + ", " + yearStr + ")"
	}
	return bib, inText
}

// ---- MLA ----

func mlaAuthors(names []name) string {
	full := func(n name) string {
		if n.literal != "" {
			return n.literal
		}
		return strings.TrimSpace(n.given + " " + n.family)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		n := names[0]
		if n.literal != "" {
			return n.literal
		}
		if n.given == "" {
			return n.family
		}
		return n.family + ", " + n.given
	case 2:
		return mlaAuthors(names[:1]) + ", " + termAnd + " " + full(names[1])
	default:
		return mlaAuthors(names[:1]) + ", " + termEtAl
	}
}

func mlaDate(year, month, day int) string {
	if year == 0 {
		return ""
	}
	switch {
	case day > 0 && month > 0:
		return fmt.Sprintf("%d %s %d", day, monthName(month, true), year)
	case month > 0:
		return fmt.Sprintf("%s %d", monthName(month, true), year)
	default:
		return fmt.Sprintf("%d", year)
	}
}

func renderMLA(v itemView, _ int) (string, string) {
	names := v.names()
	year, month, day := v.date("issued")

	tail := make([]string, 0, 3)
	if c := v.str("container-title"); c != "" {
		tail = append(tail, c)
	}
	if d := mlaDate(year, month, day); d != "" {
		tail = append(tail, d)
	}
	if u := v.str("URL"); u != "" {
		tail = append(tail, u)
	}

	segments := []string{
		period(mlaAuthors(names)),
		`"` + period(v.str("title")) + `"`,
	}
	if len(tail) > 0 {
		segments = append(segments, period(strings.Join(tail, ", ")))
	}
	bib := joinSegments(segments...)

	subject := inTextName(names, v.str("title"))
	subject = strings.ReplaceAll(subject, " & ", " "+termAnd+" ")
	inText := ""
	if subject != "" {
		inText = "(" + subject + ")"
	}
	return bib, inText
}

// ---- Chicago (author-date) ----

func renderChicago(v itemView, _ int) (string, string) {
	names := v.names()
	year, _, _ := v.date("issued")

	yearStr := termNoDate
	if year > 0 {
		yearStr = fmt.Sprintf("%d", year)
	}
	segments := []string{
		period(mlaAuthors(names)),
		yearStr + ".",
		`"` + period(v.str("title")) + `"`,
		period(v.str("container-title")),
		period(v.str("URL")),
	}
	bib := joinSegments(segments...)

	subject := inTextName(names, v.str("title"))
	subject = strings.ReplaceAll(subject, " & ", " "+termAnd+" ")
	inText := "(" + yearStr + ")"
	if subject != "" {
		inText = "(" + subject + " " + yearStr + ")"
	}
	return bib, inText
}

// ---- IEEE ----

func ieeeAuthors(names []name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if n.literal != "" {
			parts[i] = n.literal
			continue
		}
		s := n.family
		if ini := initials(n.given); ini != "" {
			s = ini + " " + n.family
		}
		parts[i] = s
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " " + termAnd + " " + parts[1]
	default:
		if len(parts) > 6 {
			return parts[0] + " " + termEtAl
		}
		return strings.Join(parts[:len(parts)-1], ", ") + ", " + termAnd + " " + parts[len(parts)-1]
	}
}

func renderIEEE(v itemView, position int) (string, string) {
	names := v.names()
	year, _, _ := v.date("issued")

	inner := []string{`"` + v.str("title") + `,"`}
	if a := ieeeAuthors(names); a != "" {
		inner = append([]string{a + ","}, inner...)
	}
	if c := v.str("container-title"); c != "" {
		inner = append(inner, c+",")
	}
	if year > 0 {
		inner = append(inner, fmt.Sprintf("%d.", year))
	} else {
		inner = append(inner, termNoDate)
	}
	body := joinSegments(inner...)
	if u := v.str("URL"); u != "" {
		body = joinSegments(body, "[Online]. "+termAvailable+": "+u)
	}
	bib := fmt.Sprintf("[%d] %s", position, body)
	return bib, fmt.Sprintf("[%d]", position)
}

// ---- Harvard ----

func harvardAuthors(names []name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if n.literal != "" {
			parts[i] = n.literal
			continue
		}
		s := n.family
		if ini := initials(n.given); ini != "" {
			s += ", " + ini
		}
		parts[i] = s
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		if len(parts) > 3 {
			return parts[0] + " " + termEtAl
		}
		return strings.Join(parts[:len(parts)-1], ", ") + " " + termAnd + " " + parts[len(parts)-1]
	}
}

func renderHarvard(v itemView, _ int) (string, string) {
	names := v.names()
	year, _, _ := v.date("issued")
	ay, am, ad := v.date("accessed")

	yearStr := termNoDate
	if year > 0 {
		yearStr = fmt.Sprintf("%d", year)
	}
	segments := []string{}
	if a := harvardAuthors(names); a != "" {
		segments = append(segments, a)
	}
	segments = append(segments, "("+yearStr+")", period(v.str("title")))
	if c := v.str("container-title"); c != "" {
		segments = append(segments, period(c))
	}
	if u := v.str("URL"); u != "" {
		avail := termAvailable + ": " + u
		if ay > 0 && am > 0 && ad > 0 {
			avail += fmt.Sprintf(" (%s: %d %s %d)", termAccessed, ad, monthName(am, false), ay)
		}
		segments = append(segments, period(avail))
	}
	bib := joinSegments(segments...)

	subject := inTextName(names, v.str("title"))
	subject = strings.ReplaceAll(subject, " & ", " "+termAnd+" ")
	inText := "(" + yearStr + ")"
	if subject != "" {
		inText = "(" + subject + ", " + yearStr + ")"
	}
	return bib, inText
}
