package ops

import (
	"context"
	"database/sql"

	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Sources    []source.Summary `json:"sources"`
	Pagination Pagination       `json:"pagination"`
}

// List returns source summaries ordered by most recent update.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	if input.Offset < 0 {
		return nil, errors.NewInvalidRequest("offset must not be negative")
	}
	limit := clampLimit(input.Limit)

	summaries, total, err := db.ListSources(database, limit, input.Offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Sources: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  input.Offset,
			HasMore: input.Offset+len(summaries) < total,
			Total:   total,
		},
	}, nil
}
