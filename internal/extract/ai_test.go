package extract

import (
	"strings"
	"testing"

	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

func TestAI_ChatGPT(t *testing.T) {
	page := mustPage(t, `<html><head><title>Quantum computing basics - ChatGPT</title></head><body>
		<button data-testid="model-switcher-dropdown-button">GPT-5.1</button>
		<div data-message-author-role="user">What is a qubit?</div>
		<div data-message-author-role="assistant">A qubit is the quantum analogue of a bit.</div>
		<div data-message-author-role="user">Explain superposition simply.</div>
		<div data-message-author-role="assistant">Superposition means a qubit can hold both states at once.</div>
	</body></html>`, "https://chatgpt.com/c/abc123")

	r := AI(page)
	if r == nil {
		t.Fatal("AI returned nil for a ChatGPT page")
	}
	if r.Platform != "chatgpt" {
		t.Errorf("Platform = %q, want chatgpt", r.Platform)
	}
	if r.ModelName != "ChatGPT" || r.ModelVersion != "GPT-5.1" {
		t.Errorf("model = %q/%q, want ChatGPT/GPT-5.1", r.ModelName, r.ModelVersion)
	}
	// Most recent exchange wins
	if r.PromptText != "Explain superposition simply." {
		t.Errorf("PromptText = %q", r.PromptText)
	}
	if !strings.Contains(r.ResponseExcerpt, "both states at once") {
		t.Errorf("ResponseExcerpt = %q", r.ResponseExcerpt)
	}
	if r.ShareURL != "" {
		t.Errorf("ShareURL = %q, want empty for non-share path", r.ShareURL)
	}
}

func TestAI_ShareURLDetection(t *testing.T) {
	page := mustPage(t, `<html><body>
		<div data-message-author-role="user">hi</div>
	</body></html>`, "https://chatgpt.com/share/xyz789")

	r := AI(page)
	if r == nil {
		t.Fatal("AI returned nil")
	}
	if r.ShareURL != "https://chatgpt.com/share/xyz789" {
		t.Errorf("ShareURL = %q", r.ShareURL)
	}
}

func TestAI_WrongHostNotApplicable(t *testing.T) {
	page := mustPage(t, `<html><body>
		<div data-message-author-role="user">hi</div>
	</body></html>`, "https://example.com/c/abc")

	if r := AI(page); r != nil {
		t.Errorf("AI = %+v, want nil for unrecognized host", r)
	}
}

func TestAI_ModelRegexFallback(t *testing.T) {
	// No model-switcher UI; the model name only appears in page text.
	page := mustPage(t, `<html><body>
		<p>Response generated by Claude Sonnet 4.5.</p>
		<div data-testid="user-message">hello</div>
	</body></html>`, "https://claude.ai/chat/abc")

	r := AI(page)
	if r == nil {
		t.Fatal("AI returned nil")
	}
	if r.ModelName != "Claude" {
		t.Errorf("ModelName = %q, want Claude", r.ModelName)
	}
	if r.ModelVersion != "Claude Sonnet 4.5" {
		t.Errorf("ModelVersion = %q", r.ModelVersion)
	}
}

func TestAI_LongPromptKeptIntact(t *testing.T) {
	// Extraction returns the full text; capping is storage policy and
	// happens at capture time.
	long := strings.TrimSpace(strings.Repeat("lorem ipsum ", 100))
	page := mustPage(t, `<html><body>
		<div data-message-author-role="user">`+long+`</div>
	</body></html>`, "https://chatgpt.com/c/abc")

	r := AI(page)
	if r == nil {
		t.Fatal("AI returned nil")
	}
	if r.PromptText != long {
		t.Errorf("PromptText length = %d, want full %d-char prompt", len(r.PromptText), len(long))
	}
}

func TestMatchModel_Priority(t *testing.T) {
	tests := []struct {
		text        string
		wantName    string
		wantVersion string
	}{
		{"powered by GPT-5.1 today", "ChatGPT", "GPT-5.1"},
		{"GPT-4o mini is fast", "ChatGPT", "GPT-4o mini"},
		{"Claude Opus 4.6 thinking", "Claude", "Claude Opus 4.6"},
		{"running Gemini 2.5 Pro", "Gemini", "Gemini 2.5 Pro"},
		{"just Claude here", "Claude", ""},
		{"nothing to see", "", ""},
	}

	for _, tt := range tests {
		name, version := MatchModel(tt.text)
		if name != tt.wantName || version != tt.wantVersion {
			t.Errorf("MatchModel(%q) = %q/%q, want %q/%q",
				tt.text, name, version, tt.wantName, tt.wantVersion)
		}
	}
}

func TestAI_NotebookLMAudioSummary(t *testing.T) {
	page := mustPage(t, `<html><head><title>My Research Notebook</title></head><body>
		<div class="notebook-title">My Research Notebook</div>
		<div class="source-item"><span class="source-title">paper-one.pdf</span></div>
		<div class="source-item"><span class="source-title">lecture-notes.docx</span></div>
		<p>Audio Overview ready — 12:34</p>
	</body></html>`, "https://notebooklm.google.com/notebook/abc/audio")

	r := AI(page)
	if r == nil {
		t.Fatal("AI returned nil for NotebookLM page")
	}
	if r.Platform != "notebooklm" {
		t.Errorf("Platform = %q", r.Platform)
	}
	if r.Tool == nil {
		t.Fatal("Tool context missing")
	}
	if r.Tool.OutputType != source.OutputAudioSummary {
		t.Errorf("OutputType = %q, want audio-summary", r.Tool.OutputType)
	}
	if r.Tool.Label != "Audio Summary" {
		t.Errorf("Label = %q", r.Tool.Label)
	}
	if !r.Tool.FromSources || r.Tool.SourceCount != 2 {
		t.Errorf("sources = %v (count %d), want 2 from sources",
			r.Tool.SourceNames, r.Tool.SourceCount)
	}
	if r.Tool.Duration != "12:34" {
		t.Errorf("Duration = %q, want 12:34", r.Tool.Duration)
	}
}

func TestAI_NotebookLMDefaultsToChat(t *testing.T) {
	page := mustPage(t, `<html><body>
		<div class="notebook-title">Notes</div>
	</body></html>`, "https://notebooklm.google.com/notebook/abc")

	r := AI(page)
	if r == nil {
		t.Fatal("AI returned nil")
	}
	if r.Tool == nil || r.Tool.OutputType != source.OutputChat {
		t.Errorf("Tool = %+v, want chat default", r.Tool)
	}
}

func TestDetect_UnknownChatPlatform(t *testing.T) {
	page := mustPage(t, `<html><head><title>Chat - SomeAI</title></head><body>
		<div class="chat-message user-message">What is Go?</div>
		<div class="chat-message assistant-message">Go is a programming language. Powered by Llama 3.1.</div>
		<textarea placeholder="Ask anything"></textarea>
	</body></html>`, "https://someai.example.com/chat/42")

	d := Detect(page)
	if d == nil {
		t.Fatal("Detect returned nil for a chat-like page")
	}
	if d.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %q, want high", d.Confidence)
	}
	if d.ModelName != "Llama" || d.ModelVersion != "Llama 3.1" {
		t.Errorf("model = %q/%q", d.ModelName, d.ModelVersion)
	}
	if d.Platform != "unknown" {
		t.Errorf("Platform = %q", d.Platform)
	}
	if d.PromptText != "What is Go?" {
		t.Errorf("PromptText = %q", d.PromptText)
	}
}

func TestDetect_PlainPageIsNotAConversation(t *testing.T) {
	page := mustPage(t, `<html><head><title>Recipe</title></head><body>
		<article><p>Mix the flour and water.</p></article>
	</body></html>`, "https://cooking.example.com/recipes/bread")

	if d := Detect(page); d != nil {
		t.Errorf("Detect = %+v, want nil for a plain page", d)
	}
}
