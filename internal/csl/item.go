// Package csl converts canonical source records into CSL-JSON items for
// the citation engine. Items are always cleaned before they leave this
// package: the downstream style processor renders literal placeholder text
// for any field that is present but empty, so absent data must be field
// omission, never a present-but-empty value.
package csl

import "encoding/json"

// Name is a CSL-JSON name variable: a personal family/given pair or an
// organizational literal, never both.
type Name struct {
	Family  string `json:"family,omitempty"`
	Given   string `json:"given,omitempty"`
	Literal string `json:"literal,omitempty"`
}

// Date is a CSL-JSON date variable. DateParts holds a single
// [year, month, day] triple; month and day are trimmed when absent.
type Date struct {
	DateParts [][]int `json:"date-parts"`
}

// NewDate builds a CSL date, dropping trailing zero parts.
func NewDate(year, month, day int) *Date {
	parts := []int{year}
	if month > 0 {
		parts = append(parts, month)
		if day > 0 {
			parts = append(parts, day)
		}
	}
	return &Date{DateParts: [][]int{parts}}
}

// Item is a CSL-JSON item. The field set is the subset this system emits;
// json tags follow the CSL-JSON vocabulary.
type Item struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title,omitempty"`
	Author         []Name `json:"author,omitempty"`
	ContainerTitle string `json:"container-title,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	Volume         string `json:"volume,omitempty"`
	Issue          string `json:"issue,omitempty"`
	Page           string `json:"page,omitempty"`
	DOI            string `json:"DOI,omitempty"`
	URL            string `json:"URL,omitempty"`
	Abstract       string `json:"abstract,omitempty"`
	Genre          string `json:"genre,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Version        string `json:"version,omitempty"`
	Note           string `json:"note,omitempty"`
	Issued         *Date  `json:"issued,omitempty"`
	Accessed       *Date  `json:"accessed,omitempty"`
}

// CSL item types this converter emits.
const (
	TypeWebpage        = "webpage"
	TypeArticleJournal = "article-journal"
	TypeBook           = "book"
	TypeSoftware       = "software"
	TypeMotionPicture  = "motion_picture"
	TypeBroadcast      = "broadcast"
	TypeGraphic        = "graphic"
	TypeDocument       = "document"
)

// Clean converts the item to its map form with every undefined, null,
// empty-string, empty-array, and empty-object property recursively
// stripped. This is a correctness requirement, not an optimization: the
// style processor will print the word "undefined" into rendered citations
// for any key present with an undefined value. Both the converter and the
// engine call sites apply it independently.
func (i *Item) Clean() map[string]any {
	data, err := json.Marshal(i)
	if err != nil {
		// Item is a plain struct of strings, slices, and ints; marshal
		// cannot fail on it.
		return map[string]any{"id": i.ID, "type": i.Type}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"id": i.ID, "type": i.Type}
	}
	cleaned, _ := cleanValue(m)
	out, ok := cleaned.(map[string]any)
	if !ok {
		return map[string]any{"id": i.ID, "type": i.Type}
	}
	return out
}

// CleanMap applies the same recursive stripping to an already-built map.
func CleanMap(m map[string]any) map[string]any {
	cleaned, keep := cleanValue(m)
	if !keep {
		return map[string]any{}
	}
	return cleaned.(map[string]any)
}

// cleanValue returns the cleaned value and whether it should be kept.
func cleanValue(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		return val, val != ""
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			if cleaned, keep := cleanValue(elem); keep {
				out[k] = cleaned
			}
		}
		return out, len(out) > 0
	case []any:
		out := make([]any, 0, len(val))
		for _, elem := range val {
			if cleaned, keep := cleanValue(elem); keep {
				out = append(out, cleaned)
			}
		}
		return out, len(out) > 0
	default:
		return val, true
	}
}
