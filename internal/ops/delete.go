package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete soft-deletes a source. The record stays in the store with its
// provenance and capture time intact so the origin trail keeps its
// history; group memberships are dropped immediately.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.SoftDeleteSource(database, id); err != nil {
		return nil, err
	}
	return &DeleteOutput{Deleted: true, ID: id}, nil
}
