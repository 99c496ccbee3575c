package extract

import (
	"regexp"
	"strings"

	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// AIResult is the AI-specific metadata shape a chat-platform extraction
// produces. Every field may be absent; a nil result means the page does not
// belong to the platform (or, for Detect, is not an AI conversation at all).
type AIResult struct {
	Platform          string
	ModelName         string
	ModelVersion      string
	ConversationTitle string
	PromptText        string
	ResponseExcerpt   string
	ShareURL          string
	Tool              *source.ToolContext
}

// exchangePair is one selector strategy for locating the latest
// user/assistant exchange. Strategies are tried in order; the first pair
// yielding any match wins.
type exchangePair struct {
	user      string
	assistant string
}

// platformAdapter holds the per-platform selector lists. Implementations
// differ only in the concrete selectors, so all platforms share one
// extraction routine and one test harness.
type platformAdapter struct {
	name           string
	hosts          []string
	modelSelectors []string
	titleSelectors []string
	exchangePairs  []exchangePair
	shareMarker    string

	// extras runs after the shared extraction for platform-specific
	// signals (NotebookLM tool-output classification).
	extras func(p *Page, r *AIResult)
}

// adapters is the registry of dedicated platform extractors, in match order.
var adapters = []*platformAdapter{chatgptAdapter, claudeAdapter, geminiAdapter, notebookLMAdapter}

// AI runs the dedicated platform extractors against the page and returns
// the first applicable result, or nil when no dedicated extractor claims
// the page. Callers wanting heuristic detection of unknown chat UIs should
// fall through to Detect.
func AI(p *Page) *AIResult {
	for _, a := range adapters {
		if r := a.extract(p); r != nil {
			return r
		}
	}
	return nil
}

// extract runs the shared selector-cascade extraction. Returns nil when the
// hostname does not belong to the platform; never returns an error, absent
// fields stay empty.
func (a *platformAdapter) extract(p *Page) *AIResult {
	if !a.matchesHost(p.Hostname()) {
		return nil
	}

	r := &AIResult{Platform: a.name}

	// Model indicator: UI selectors first, then a regex scan of visible text.
	if indicator := selectText(p, a.modelSelectors); indicator != "" {
		r.ModelName, r.ModelVersion = MatchModel(indicator)
	}
	if r.ModelName == "" {
		r.ModelName, r.ModelVersion = MatchModel(p.Text())
	}

	r.ConversationTitle = selectText(p, a.titleSelectors)
	if r.ConversationTitle == "" {
		r.ConversationTitle = p.DocumentTitle()
	}

	for _, pair := range a.exchangePairs {
		prompt := lastText(p, pair.user)
		response := lastText(p, pair.assistant)
		if prompt != "" || response != "" {
			// Full text; the capture op applies the configured excerpt cap.
			r.PromptText = prompt
			r.ResponseExcerpt = response
			break
		}
	}

	if a.shareMarker != "" && strings.Contains(p.Path(), a.shareMarker) {
		r.ShareURL = p.URL()
	}

	if a.extras != nil {
		a.extras(p, r)
	}

	return r
}

func (a *platformAdapter) matchesHost(host string) bool {
	for _, h := range a.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// modelPattern pairs a version-bearing regex with the model family it
// identifies. Patterns are evaluated in priority order against page text;
// the first match wins. More specific (versioned) variants come before the
// bare family names.
type modelPattern struct {
	re   *regexp.Regexp
	name string
}

var modelPatterns = []modelPattern{
	{regexp.MustCompile(`(?i)\b(GPT-5(?:\.\d+)?(?:[ -](?:pro|mini|nano))?)\b`), "ChatGPT"},
	{regexp.MustCompile(`(?i)\b(GPT-4(?:\.\d+)?o?(?:[ -]mini)?)\b`), "ChatGPT"},
	{regexp.MustCompile(`(?i)\b(o[134](?:-mini|-pro)?)\b`), "ChatGPT"},
	{regexp.MustCompile(`(?i)\b(Claude (?:Opus|Sonnet|Haiku)(?: \d+(?:\.\d+)?)?)\b`), "Claude"},
	{regexp.MustCompile(`(?i)\b(Claude \d+(?:\.\d+)? ?(?:Opus|Sonnet|Haiku)?)\b`), "Claude"},
	{regexp.MustCompile(`(?i)\bClaude\b`), "Claude"},
	{regexp.MustCompile(`(?i)\b(Gemini \d+(?:\.\d+)? ?(?:Pro|Flash|Ultra|Nano)?)\b`), "Gemini"},
	{regexp.MustCompile(`(?i)\bGemini\b`), "Gemini"},
	{regexp.MustCompile(`(?i)\b(Llama ?\d+(?:\.\d+)?)\b`), "Llama"},
	{regexp.MustCompile(`(?i)\b(Mistral (?:Large|Medium|Small))\b`), "Mistral"},
	{regexp.MustCompile(`(?i)\b(Grok[ -]?\d+)\b`), "Grok"},
	{regexp.MustCompile(`(?i)\bDeepSeek(?:[ -][RV]\d+)?\b`), "DeepSeek"},
	{regexp.MustCompile(`(?i)\bChatGPT\b`), "ChatGPT"},
}

// MatchModel scans text for a known model-name family and returns the
// family name plus the specific version string when the pattern captured
// one. Both are "" when nothing matches.
func MatchModel(text string) (name, version string) {
	for _, mp := range modelPatterns {
		m := mp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return mp.name, normalizeVersion(m[1])
		}
		return mp.name, ""
	}
	return "", ""
}

// normalizeVersion collapses whitespace so UI text like "Claude  Sonnet 4"
// yields a stable version string.
func normalizeVersion(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
