package extract

import (
	"strings"
)

// Confidence grades how certain the heuristic detector is that a page is an
// AI conversation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Detection is the result of heuristic AI-chat detection on a page no
// dedicated extractor claimed.
type Detection struct {
	AIResult
	Confidence Confidence
}

// chatDOMPatterns are selectors commonly present in chat UIs.
var chatDOMPatterns = []string{
	`[data-message-author-role]`,
	`[class*="chat-message"]`,
	`[class*="conversation"]`,
	`[class*="message-bubble"]`,
	`textarea[placeholder*="Ask"]`,
	`textarea[placeholder*="Message"]`,
	`textarea[placeholder*="Send a message"]`,
	`[role="log"]`,
	`[class*="prompt"]`,
}

// chatURLPatterns are path/hostname fragments typical of chat products.
var chatURLPatterns = []string{
	"/chat", "/c/", "/conversation", "/thread", "/share/",
}

var chatHostPrefixes = []string{"chat.", "ai.", "assistant."}

// genericExchangePairs are the selector strategies the detector uses for
// the latest exchange on an unrecognized chat UI.
var genericExchangePairs = []exchangePair{
	{user: `[data-message-author-role="user"]`, assistant: `[data-message-author-role="assistant"]`},
	{user: `[class*="user-message"]`, assistant: `[class*="assistant-message"]`},
	{user: `[class*="human"]`, assistant: `[class*="bot"]`},
}

// Detect runs the generic unknown-platform AI detector. It only applies
// when no dedicated extractor claimed the page; callers should try AI
// first. Confidence is scored from DOM-pattern, URL-pattern, and
// model-name-pattern matches. At least one positive signal is required;
// otherwise the page is not an AI conversation and nil is returned.
func Detect(p *Page) *Detection {
	domHits := 0
	for _, sel := range chatDOMPatterns {
		if p.Find(sel).Length() > 0 {
			domHits++
		}
	}

	urlHits := 0
	lowerPath := strings.ToLower(p.Path())
	for _, pat := range chatURLPatterns {
		if strings.Contains(lowerPath, pat) {
			urlHits++
		}
	}
	host := p.Hostname()
	for _, prefix := range chatHostPrefixes {
		if strings.HasPrefix(host, prefix) {
			urlHits++
		}
	}

	modelName, modelVersion := MatchModel(p.Text())
	modelHits := 0
	if modelName != "" {
		modelHits = 1
	}

	if domHits == 0 && urlHits == 0 && modelHits == 0 {
		return nil
	}

	d := &Detection{
		AIResult: AIResult{
			Platform:     "unknown",
			ModelName:    modelName,
			ModelVersion: modelVersion,
		},
		Confidence: scoreConfidence(domHits, urlHits, modelHits),
	}

	d.ConversationTitle = p.DocumentTitle()

	for _, pair := range genericExchangePairs {
		prompt := lastText(p, pair.user)
		response := lastText(p, pair.assistant)
		if prompt != "" || response != "" {
			d.PromptText = prompt
			d.ResponseExcerpt = response
			break
		}
	}

	return d
}

// scoreConfidence grades the combined signal strength. Multiple DOM matches
// plus a model name is a near-certain chat page; a single isolated signal
// is only a hint.
func scoreConfidence(domHits, urlHits, modelHits int) Confidence {
	switch {
	case domHits >= 2 && modelHits > 0:
		return ConfidenceHigh
	case domHits >= 1 && (urlHits > 0 || modelHits > 0):
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
