package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Source *source.Record `json:"source"`
}

// Fetch retrieves one source record by id.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	rec, err := db.GetSourceByID(database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	return &FetchOutput{Source: rec}, nil
}
