package cite

import (
	"strings"
	"testing"

	"github.com/ericbqEtos/artefakt-extension/internal/csl"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

func articleItem() *csl.Item {
	return &csl.Item{
		ID:             "01POST",
		Type:           csl.TypeWebpage,
		Title:          "Understanding Soil",
		Author:         []csl.Name{{Family: "Doe", Given: "Jane"}},
		ContainerTitle: "Example Blog",
		URL:            "https://blog.example.com/soil",
		Issued:         csl.NewDate(2024, 3, 15),
		Accessed:       csl.NewDate(2026, 8, 30),
	}
}

func renderOne(t *testing.T, styleID string, item *csl.Item) (string, string) {
	t.Helper()
	render, ok := renderers[styleID]
	if !ok {
		t.Fatalf("no renderer for %s", styleID)
	}
	return render(view(item.Clean()), 1)
}

func TestRenderAPA(t *testing.T) {
	bib, inText := renderOne(t, "apa", articleItem())
	want := "Doe, J. (2024, March 15). Understanding Soil. Example Blog. https://blog.example.com/soil"
	if bib != want {
		t.Errorf("bib = %q\nwant  %q", bib, want)
	}
	if inText != "(Doe, 2024)" {
		t.Errorf("inText = %q", inText)
	}
}

func TestRenderAPA_SoftwareItem(t *testing.T) {
	item := &csl.Item{
		ID:       "01AI",
		Type:     csl.TypeSoftware,
		Title:    "ChatGPT (GPT-5.1)",
		Author:   []csl.Name{{Literal: "OpenAI"}},
		Genre:    "Large language model",
		URL:      "https://chatgpt.com/c/abc",
		Accessed: csl.NewDate(2026, 8, 30),
	}
	bib, inText := renderOne(t, "apa", item)
	want := "OpenAI. (n.d.). ChatGPT (GPT-5.1) [Large language model]. https://chatgpt.com/c/abc"
	if bib != want {
		t.Errorf("bib = %q\nwant  %q", bib, want)
	}
	if inText != "(OpenAI, n.d.)" {
		t.Errorf("inText = %q", inText)
	}
}

func TestRenderAPA_DOIPreferredOverURL(t *testing.T) {
	item := articleItem()
	item.DOI = "10.1000/xyz"
	bib, _ := renderOne(t, "apa", item)
	if want := "https://doi.org/10.1000/xyz"; !contains(bib, want) {
		t.Errorf("bib = %q, want DOI link", bib)
	}
	if contains(bib, "blog.example.com") {
		t.Errorf("bib = %q, URL should be dropped when a DOI exists", bib)
	}
}

func TestRenderAPA_NoAuthorUsesShortTitle(t *testing.T) {
	item := articleItem()
	item.Author = nil
	item.Title = "A Very Long Report About Everything"
	_, inText := renderOne(t, "apa", item)
	if inText != `("A Very Long Report…", 2024)` {
		t.Errorf("inText = %q", inText)
	}
}

func TestRenderMLA(t *testing.T) {
	bib, inText := renderOne(t, "mla", articleItem())
	want := `Doe, Jane. "Understanding Soil." Example Blog, 15 Mar. 2024, https://blog.example.com/soil.`
	if bib != want {
		t.Errorf("bib = %q\nwant  %q", bib, want)
	}
	if inText != "(Doe)" {
		t.Errorf("inText = %q", inText)
	}
}

func TestRenderMLA_TwoAuthors(t *testing.T) {
	item := articleItem()
	item.Author = append(item.Author, csl.Name{Family: "Smith", Given: "Al"})
	bib, inText := renderOne(t, "mla", item)
	if !contains(bib, "Doe, Jane, and Al Smith.") {
		t.Errorf("bib = %q", bib)
	}
	if inText != "(Doe and Smith)" {
		t.Errorf("inText = %q", inText)
	}
}

func TestRenderChicago(t *testing.T) {
	bib, inText := renderOne(t, "chicago", articleItem())
	want := `Doe, Jane. 2024. "Understanding Soil." Example Blog. https://blog.example.com/soil.`
	if bib != want {
		t.Errorf("bib = %q\nwant  %q", bib, want)
	}
	if inText != "(Doe 2024)" {
		t.Errorf("inText = %q", inText)
	}
}

func TestRenderIEEE(t *testing.T) {
	bib, inText := renderOne(t, "ieee", articleItem())
	want := `[1] J. Doe, "Understanding Soil," Example Blog, 2024. [Online]. Available at: https://blog.example.com/soil`
	if bib != want {
		t.Errorf("bib = %q\nwant  %q", bib, want)
	}
	if inText != "[1]" {
		t.Errorf("inText = %q", inText)
	}
}

func TestRenderHarvard(t *testing.T) {
	bib, inText := renderOne(t, "harvard", articleItem())
	want := "Doe, J. (2024) Understanding Soil. Example Blog. Available at: https://blog.example.com/soil (Accessed: 30 August 2026)."
	if bib != want {
		t.Errorf("bib = %q\nwant  %q", bib, want)
	}
	if inText != "(Doe, 2024)" {
		t.Errorf("inText = %q", inText)
	}
}

func TestQuick(t *testing.T) {
	rec := &source.Record{
		ID:   "01QUICK",
		Type: source.TypeWebpage,
		Metadata: source.Metadata{
			Title:   "Understanding Soil",
			URL:     "https://blog.example.com/soil",
			Authors: []source.Author{{Family: "Doe", Given: "Jane"}},
			Issued:  &source.Date{Year: 2024},
		},
	}
	for _, style := range StyleIDs() {
		got := Quick(rec, style)
		if got == "" {
			t.Errorf("%s: empty quick citation", style)
			continue
		}
		if !contains(got, "Understanding Soil") || !contains(got, "Doe") {
			t.Errorf("%s: quick citation = %q", style, got)
		}
	}
	if got := Quick(rec, "apa"); got != "Doe. (2024). Understanding Soil. https://blog.example.com/soil" {
		t.Errorf("apa quick = %q", got)
	}
}

func TestQuick_MissingFieldsOmitted(t *testing.T) {
	rec := &source.Record{
		ID:       "01BARE",
		Type:     source.TypeWebpage,
		Metadata: source.Metadata{Title: "Untitled"},
	}
	for _, style := range StyleIDs() {
		got := Quick(rec, style)
		if got == "" {
			t.Errorf("%s: quick citation should still include the title", style)
		}
	}
	if Quick(nil, "apa") != "" {
		t.Error("nil record must render empty, not panic")
	}
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }
