package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// TrailInput contains parameters for the Trail operation.
type TrailInput struct {
	SessionID string
}

// TrailEntry is one step of a session's origin trail.
type TrailEntry struct {
	ID            string               `json:"id"`
	Type          source.SourceType    `json:"type"`
	Platform      *string              `json:"platform,omitempty"`
	Title         string               `json:"title"`
	URL           string               `json:"url,omitempty"`
	Method        source.CaptureMethod `json:"method,omitempty"`
	PredecessorID *string              `json:"predecessor_id,omitempty"`
	CapturedAt    int64                `json:"captured_at"`
	Deleted       bool                 `json:"deleted,omitempty"`
}

// TrailOutput contains the result of the Trail operation.
type TrailOutput struct {
	SessionID string       `json:"session_id"`
	Entries   []TrailEntry `json:"entries"`
}

// Trail returns a session's captures in chronological order, including
// soft-deleted records: the trail is the session's history, and deleting
// a source hides it from listings without rewriting what happened.
func Trail(ctx context.Context, database *sql.DB, input TrailInput) (*TrailOutput, error) {
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return nil, errors.NewInvalidRequest("session_id is required")
	}

	records, err := db.ListSessionSources(database, sessionID, true)
	if err != nil {
		return nil, err
	}

	out := &TrailOutput{SessionID: sessionID, Entries: make([]TrailEntry, 0, len(records))}
	for _, rec := range records {
		out.Entries = append(out.Entries, TrailEntry{
			ID:            rec.ID,
			Type:          rec.Type,
			Platform:      rec.Platform,
			Title:         rec.Metadata.Title,
			URL:           rec.Metadata.URL,
			Method:        rec.Provenance.Method,
			PredecessorID: rec.Provenance.PredecessorID,
			CapturedAt:    rec.CreatedAt,
			Deleted:       rec.Deleted(),
		})
	}
	return out, nil
}
