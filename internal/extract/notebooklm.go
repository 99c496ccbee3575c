package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// notebookLMAdapter extracts from notebooklm.google.com. Beyond the shared
// chat extraction it classifies which tool output the page shows (audio
// summary, quiz, mind map, ...) and collects the user-supplied source
// documents feeding that output.
var notebookLMAdapter = &platformAdapter{
	name:  "notebooklm",
	hosts: []string{"notebooklm.google.com"},
	modelSelectors: []string{
		`.model-indicator`,
	},
	titleSelectors: []string{
		`[data-test-id="notebook-title"]`,
		`.notebook-title`,
		`editable-project-title input`,
	},
	exchangePairs: []exchangePair{
		{
			user:      `chat-message .from-user-container`,
			assistant: `chat-message .to-user-container`,
		},
		{
			user:      `.user-query`,
			assistant: `.response-container`,
		},
	},
	shareMarker: "/share/",
	extras:      notebookLMTool,
}

// outputRule classifies a tool output. Rules are evaluated in priority
// order; URL hints are checked before page-text keywords so a deep link to
// an artifact wins over leftover chat text.
type outputRule struct {
	output   source.OutputType
	label    string
	urlHints []string
	keywords []string
}

var outputRules = []outputRule{
	{
		output:   source.OutputAudioSummary,
		label:    "Audio Summary",
		urlHints: []string{"/audio"},
		keywords: []string{"audio overview", "deep dive conversation", "generating audio"},
	},
	{
		output:   source.OutputVideoSummary,
		label:    "Video Summary",
		urlHints: []string{"/video"},
		keywords: []string{"video overview"},
	},
	{
		output:   source.OutputMindMap,
		label:    "Mind Map",
		urlHints: []string{"/mindmap", "/mind-map"},
		keywords: []string{"mind map"},
	},
	{
		output:   source.OutputQuiz,
		label:    "Quiz",
		urlHints: []string{"/quiz"},
		keywords: []string{"quiz", "test your knowledge"},
	},
	{
		output:   source.OutputFlashcards,
		label:    "Flashcards",
		urlHints: []string{"/flashcards"},
		keywords: []string{"flashcards"},
	},
	{
		output:   source.OutputReport,
		label:    "Report",
		urlHints: []string{"/report", "/briefing"},
		keywords: []string{"briefing doc", "study guide", "report"},
	},
}

// sourceNameSelectors is the cascade for the source-document panel.
var sourceNameSelectors = []string{
	`.source-item .source-title`,
	`[data-test-id="source-name"]`,
	`.single-source-container .source-name`,
}

var durationRegex = regexp.MustCompile(`\b(\d{1,2}:\d{2}(?::\d{2})?)\b`)

// customizationHints are phrases NotebookLM shows when the user customized
// an output (length, focus, tone).
var customizationHints = []string{
	"shorter", "longer", "focus on", "for beginners", "in depth",
}

// notebookLMTool populates the ToolContext for a NotebookLM page.
func notebookLMTool(p *Page, r *AIResult) {
	text := strings.ToLower(p.Text())
	pth := strings.ToLower(p.Path())

	tool := &source.ToolContext{OutputType: source.OutputChat, Label: "Chat"}

	for _, rule := range outputRules {
		if matchesHint(pth, rule.urlHints) || matchesKeyword(text, rule.keywords) {
			tool.OutputType = rule.output
			tool.Label = rule.label
			break
		}
	}

	names := sourceNames(p)
	if len(names) > 0 {
		tool.FromSources = true
		tool.SourceCount = len(names)
		tool.SourceNames = names
	}

	if tool.OutputType == source.OutputAudioSummary || tool.OutputType == source.OutputVideoSummary {
		if m := durationRegex.FindString(p.Text()); m != "" {
			tool.Duration = m
		}
	}

	for _, hint := range customizationHints {
		if strings.Contains(text, "customized: "+hint) || strings.Contains(text, "customization: "+hint) {
			tool.Customization = hint
			break
		}
	}

	r.Tool = tool
}

func matchesHint(path string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(path, h) {
			return true
		}
	}
	return false
}

func matchesKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// sourceNames walks the selector cascade for the source panel and returns
// the distinct, trimmed document names found by the first matching strategy.
func sourceNames(p *Page) []string {
	for _, sel := range sourceNameSelectors {
		var names []string
		seen := make(map[string]bool)
		p.Find(sel).Each(func(_ int, s *goquery.Selection) {
			name := strings.TrimSpace(s.Text())
			if name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		})
		if len(names) > 0 {
			return names
		}
	}
	return nil
}
