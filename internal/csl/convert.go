package csl

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// platformInfo carries the display name and vendor organization for a
// recognized capture platform.
type platformInfo struct {
	Display string
	Vendor  string
}

// aiPlatforms maps AI platform ids to their tool name and vendor. The vendor
// becomes the organizational author of software items.
var aiPlatforms = map[string]platformInfo{
	"chatgpt":    {Display: "ChatGPT", Vendor: "OpenAI"},
	"claude":     {Display: "Claude", Vendor: "Anthropic"},
	"gemini":     {Display: "Gemini", Vendor: "Google"},
	"notebooklm": {Display: "NotebookLM", Vendor: "Google"},
	"copilot":    {Display: "Copilot", Vendor: "Microsoft"},
	"perplexity": {Display: "Perplexity", Vendor: "Perplexity AI"},
}

// videoPlatforms maps video platform ids to container-title defaults.
var videoPlatforms = map[string]string{
	"youtube": "YouTube",
	"vimeo":   "Vimeo",
	"twitch":  "Twitch",
}

// genreByOutput maps tool output types to the genre string emitted on
// software items. Plain chat keeps the default genre.
var genreByOutput = map[source.OutputType]string{
	source.OutputAudioSummary: "AI-generated audio summary",
	source.OutputVideoSummary: "AI-generated video summary",
	source.OutputQuiz:         "AI-generated quiz",
	source.OutputFlashcards:   "AI-generated flashcards",
	source.OutputMindMap:      "AI-generated mind map",
	source.OutputReport:       "AI-generated report",
}

const defaultGenre = "Large language model"

// promptNoteMax bounds the quoted prompt carried in the CSL note field.
const promptNoteMax = 200

// FromSource converts a canonical source record into a CSL item. Pure:
// the record is not modified and no I/O occurs. The returned item has not
// yet been cleaned; callers pass it through Clean before rendering.
func FromSource(rec *source.Record) *Item {
	item := &Item{
		ID:       rec.ID,
		Title:    rec.Metadata.Title,
		URL:      rec.Metadata.URL,
		Abstract: rec.Metadata.Abstract,
	}
	if d := rec.Metadata.Issued; d != nil {
		item.Issued = NewDate(d.Year, d.Month, d.Day)
	}
	if d := rec.Metadata.Accessed; d != nil {
		item.Accessed = NewDate(d.Year, d.Month, d.Day)
	}

	switch rec.Type {
	case source.TypeAIConversation:
		convertAI(rec, item)
	case source.TypeVideo:
		convertVideo(rec, item)
	case source.TypePodcast:
		item.Type = TypeBroadcast
		item.ContainerTitle = rec.Metadata.ContainerTitle
		item.Publisher = rec.Metadata.Publisher
		fillAuthors(rec, item)
	case source.TypeImage:
		item.Type = TypeGraphic
		fillAuthors(rec, item)
	case source.TypeDocument, source.TypePDF, source.TypeAcademic,
		source.TypeSpreadsheet, source.TypePresentation:
		convertDocument(rec, item)
	default:
		item.Type = TypeWebpage
		item.ContainerTitle = rec.Metadata.ContainerTitle
		item.Publisher = rec.Metadata.Publisher
		fillAuthors(rec, item)
	}
	return item
}

// convertAI handles AI-conversation records: fixed organizational author,
// tool-name title, software type, and genre/note fields.
func convertAI(rec *source.Record, item *Item) {
	item.Type = TypeSoftware
	item.Genre = defaultGenre

	info, recognized := platformInfo{}, false
	if rec.Platform != nil {
		info, recognized = aiPlatforms[*rec.Platform]
	}
	if recognized {
		item.Author = []Name{{Literal: info.Vendor}}
	}

	display := info.Display
	if display == "" {
		display = "AI Assistant"
	}
	ai := rec.AI
	if ai == nil {
		item.Title = display
		return
	}

	if v := modelLabel(ai); v != "" {
		item.Title = fmt.Sprintf("%s (%s)", display, v)
		item.Version = v
	} else {
		item.Title = display
	}

	if tool := ai.Tool; tool != nil {
		if g, ok := genreByOutput[tool.OutputType]; ok {
			item.Genre = g
		}
		if t := toolTitle(tool, ai.ConversationTitle); t != "" {
			item.Title = t
		}
	}

	if ai.PromptText != "" {
		item.Note = "Prompt: " + source.Truncate(strings.TrimSpace(ai.PromptText), promptNoteMax)
	}
}

// modelLabel prefers the specific version string over the bare model name.
func modelLabel(ai *source.AIMetadata) string {
	if ai.ModelVersion != "" {
		return ai.ModelVersion
	}
	return ai.ModelName
}

// toolTitle composes the title for document/notebook-style outputs:
// "{Label} based on {up to 3 names} and N more", with the notebook title
// appended in brackets when it is distinct from the label.
func toolTitle(tool *source.ToolContext, notebookTitle string) string {
	if tool.Label == "" {
		return ""
	}
	title := tool.Label
	if tool.FromSources && len(tool.SourceNames) > 0 {
		names := tool.SourceNames
		shown := names
		if len(shown) > 3 {
			shown = shown[:3]
		}
		title += " based on " + joinNames(shown)
		if extra := tool.SourceCount - len(shown); extra > 0 {
			title += fmt.Sprintf(" and %d more", extra)
		}
	}
	if notebookTitle != "" && !strings.EqualFold(notebookTitle, tool.Label) {
		title += " [" + notebookTitle + "]"
	}
	return title
}

func joinNames(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// convertVideo handles video records: motion_picture type, platform
// container default, and a human-readable timestamp note when the URL
// carries a t= offset.
func convertVideo(rec *source.Record, item *Item) {
	item.Type = TypeMotionPicture
	item.ContainerTitle = rec.Metadata.ContainerTitle
	item.Publisher = rec.Metadata.Publisher
	if item.ContainerTitle == "" && rec.Platform != nil {
		item.ContainerTitle = videoPlatforms[*rec.Platform]
	}
	if ts := timestampNote(rec.Metadata.URL); ts != "" {
		item.Note = "Timestamp: " + ts
	}
	fillAuthors(rec, item)
}

// convertDocument handles document-family records with a type priority
// rule: journal article if DOI or volume data exists, book if a publisher
// exists, otherwise generic document.
func convertDocument(rec *source.Record, item *Item) {
	md := rec.Metadata
	item.DOI = md.DOI
	item.Publisher = md.Publisher
	item.ContainerTitle = md.ContainerTitle
	item.Volume = md.Volume
	item.Issue = md.Issue
	item.Page = md.Pages

	switch {
	case md.DOI != "" || md.Volume != "":
		item.Type = TypeArticleJournal
	case md.Publisher != "":
		item.Type = TypeBook
	default:
		item.Type = TypeDocument
	}
	fillAuthors(rec, item)
}

// fillAuthors copies the record's author list onto the item, applying the
// fallback chain when it is empty: container-title or publisher as a
// literal organization, then a literal derived from the URL's domain. A
// record with no derivable author gets an empty (omitted) author list,
// never a placeholder string.
func fillAuthors(rec *source.Record, item *Item) {
	for _, a := range rec.Metadata.Authors {
		if a.Empty() {
			continue
		}
		item.Author = append(item.Author, Name{
			Family:  a.Family,
			Given:   a.Given,
			Literal: a.Literal,
		})
	}
	if len(item.Author) > 0 {
		return
	}
	if org := firstNonEmpty(rec.Metadata.ContainerTitle, rec.Metadata.Publisher); org != "" {
		item.Author = []Name{{Literal: org}}
		return
	}
	if org := domainAuthor(rec.Metadata.URL); org != "" {
		item.Author = []Name{{Literal: org}}
	}
}

// domainAuthor derives an organizational author from a URL: strip www.,
// take the first DNS label, and title-case its hyphen-separated words
// ("www.example-site.com" -> "Example Site").
func domainAuthor(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return ""
	}
	words := strings.Split(label, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// timestampNote extracts a t= query parameter and renders it as M:SS or
// H:MM:SS. Both bare-seconds ("125") and HhMmSs ("1h2m5s") forms are
// accepted; anything unparseable yields "".
func timestampNote(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	t := u.Query().Get("t")
	if t == "" {
		return ""
	}
	secs, ok := parseOffset(t)
	if !ok || secs <= 0 {
		return ""
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

var offsetRegex = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s?)?$`)

func parseOffset(t string) (int, bool) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return 0, false
	}
	m := offsetRegex.FindStringSubmatch(t)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, false
	}
	total := 0
	for i, mult := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, false
		}
		total += n * mult
	}
	return total, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
