package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// UpdateInput contains parameters for the Update operation. Nil pointers
// leave a field unchanged; pointers to zero values clear it.
type UpdateInput struct {
	ID       string
	Notes    *string
	Excerpt  *string
	Tags     *[]string
	GroupIDs *[]string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	Source *source.Record `json:"source"`
}

// Update edits the user-owned fields of an active source. Bibliographic
// metadata and provenance are immutable after capture.
func Update(ctx context.Context, database *sql.DB, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if input.Notes == nil && input.Excerpt == nil && input.Tags == nil && input.GroupIDs == nil {
		return nil, errors.NewInvalidRequest("nothing to update")
	}

	rec, err := db.GetSourceByID(database, id, false)
	if err != nil {
		return nil, err
	}

	if input.Notes != nil {
		rec.Notes = cleanOptionalString(input.Notes)
	}
	if input.Excerpt != nil {
		rec.Excerpt = cleanOptionalString(input.Excerpt)
	}
	if input.Tags != nil {
		rec.Tags = *input.Tags
	}
	if input.GroupIDs != nil {
		rec.GroupIDs = *input.GroupIDs
	}

	if err := db.UpdateSource(database, rec); err != nil {
		return nil, err
	}
	return &UpdateOutput{Source: rec}, nil
}
