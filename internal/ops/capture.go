package ops

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/ericbqEtos/artefakt-extension/internal/config"
	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
	"github.com/ericbqEtos/artefakt-extension/internal/extract"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// videoHosts maps hostnames to video platform ids.
var videoHosts = map[string]string{
	"youtube.com": "youtube",
	"youtu.be":    "youtube",
	"vimeo.com":   "vimeo",
	"twitch.tv":   "twitch",
}

// CaptureInput contains parameters for the Capture operation.
type CaptureInput struct {
	URL  string // required
	HTML string // page HTML at capture time; may be empty

	SessionID     string
	PredecessorID *string
	Selection     string
	TabTitle      string
	Method        source.CaptureMethod // default: manual

	Tags  []string
	Notes *string
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	ID       string            `json:"id"`
	Type     source.SourceType `json:"type"`
	Platform *string           `json:"platform,omitempty"`
	Title    string            `json:"title"`
}

// Capture extracts metadata from a page and persists it as a new source
// record. The duplicate-URL check runs before any extraction work; the
// store's unique index backstops it against a concurrent capture slipping
// through the pre-check.
func Capture(ctx context.Context, database *sql.DB, cfg *config.Config, input CaptureInput) (*CaptureOutput, error) {
	captureURL := strings.TrimSpace(input.URL)
	if captureURL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}
	parsed, err := url.Parse(captureURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, errors.NewUnsupportedPage(captureURL)
	}
	if input.Method == "" {
		input.Method = source.CaptureManual
	}

	existing, err := db.FindSourceByURL(database, captureURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewDuplicateURL(captureURL, existing.ID)
	}

	page, err := extract.NewPage(input.HTML, captureURL)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now()
	rec := assembleRecord(page, input, now)
	capExcerpts(rec, excerptLimit(cfg))

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	rec.ID = id
	rec.CreatedAt = now.Unix()
	rec.UpdatedAt = now.Unix()

	if err := db.InsertSource(database, rec); err != nil {
		if err == db.ErrUniqueConstraint {
			// A concurrent capture won the race between the pre-check and
			// this insert.
			if winner, ferr := db.FindSourceByURL(database, captureURL); ferr == nil && winner != nil {
				return nil, errors.NewDuplicateURL(captureURL, winner.ID)
			}
			return nil, errors.NewDuplicateURL(captureURL, "")
		}
		return nil, err
	}

	return &CaptureOutput{
		ID:       rec.ID,
		Type:     rec.Type,
		Platform: rec.Platform,
		Title:    rec.Metadata.Title,
	}, nil
}

// assembleRecord merges extractor output and capture context into a
// canonical record. The record always leaves with a non-empty title and
// an accessed date equal to the capture moment.
func assembleRecord(page *extract.Page, input CaptureInput, now time.Time) *source.Record {
	md := extract.Generic(page)
	accessed := source.DateFromTime(now)

	rec := &source.Record{
		Type: md.Type,
		Metadata: source.Metadata{
			Title:          md.Title,
			Authors:        source.NormalizeAuthorInput(md.AuthorRaw),
			URL:            page.URL(),
			ContainerTitle: md.SiteName,
			Abstract:       md.Description,
			Accessed:       &accessed,
		},
		Tags:  input.Tags,
		Notes: cleanOptionalString(input.Notes),
		Provenance: source.Provenance{
			SessionID:     input.SessionID,
			PredecessorID: cleanOptionalString(input.PredecessorID),
			Method:        input.Method,
			TabTitle:      firstNonEmpty(input.TabTitle, page.DocumentTitle()),
			TabURL:        page.URL(),
			Selection:     input.Selection,
		},
	}

	// Issued prefers page metadata; a record never carries "no date", so
	// the capture moment stands in when the page offers nothing.
	if d := source.ParseDate(md.PublishedRaw); d != nil {
		rec.Metadata.Issued = d
	} else {
		issued := source.DateFromTime(now)
		rec.Metadata.Issued = &issued
	}

	if platform, ok := videoHosts[strings.TrimPrefix(page.Hostname(), "www.")]; ok {
		rec.Type = source.TypeVideo
		rec.Platform = &platform
	}

	applyAI(page, rec)
	return rec
}

// applyAI overlays AI-conversation data when a platform extractor or the
// heuristic detector claims the page. Low-confidence detections are left
// as ordinary webpages.
func applyAI(page *extract.Page, rec *source.Record) {
	ai := extract.AI(page)
	if ai == nil {
		if det := extract.Detect(page); det != nil && det.Confidence != extract.ConfidenceLow {
			ai = &det.AIResult
		}
	}
	if ai == nil {
		return
	}

	rec.Type = source.TypeAIConversation
	platform := ai.Platform
	rec.Platform = &platform
	rec.AI = &source.AIMetadata{
		ModelName:         ai.ModelName,
		ModelVersion:      ai.ModelVersion,
		ConversationTitle: ai.ConversationTitle,
		PromptText:        ai.PromptText,
		ResponseExcerpt:   ai.ResponseExcerpt,
		ShareURL:          ai.ShareURL,
		Tool:              ai.Tool,
	}
	if ai.ConversationTitle != "" {
		rec.Metadata.Title = ai.ConversationTitle
	}
	if ai.ResponseExcerpt != "" {
		excerpt := ai.ResponseExcerpt
		rec.Excerpt = &excerpt
	}
	// AI chat pages carry no usable byline or publish date.
	rec.Metadata.Authors = nil
}

// excerptLimit resolves the stored-excerpt cap from config.
func excerptLimit(cfg *config.Config) int {
	if cfg != nil && cfg.ExcerptMaxChars > 0 {
		return cfg.ExcerptMaxChars
	}
	return config.DefaultConfig().ExcerptMaxChars
}

// capExcerpts applies the configured cap to the record's stored
// prompt/response excerpts. Extractors return full text.
func capExcerpts(rec *source.Record, limit int) {
	if rec.AI != nil {
		rec.AI.PromptText = source.Truncate(rec.AI.PromptText, limit)
		rec.AI.ResponseExcerpt = source.Truncate(rec.AI.ResponseExcerpt, limit)
	}
	if rec.Excerpt != nil {
		capped := source.Truncate(*rec.Excerpt, limit)
		rec.Excerpt = &capped
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
