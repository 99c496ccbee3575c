package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
)

// DefaultPurgeDays is the retention window for soft-deleted sources.
const DefaultPurgeDays = 30

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	// OlderThanDays keeps soft-deleted sources newer than this many days.
	// Zero selects the default window.
	OlderThanDays int
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged int `json:"purged"`
}

// Purge permanently removes soft-deleted sources past the retention
// window. This is the only operation that destroys records.
func Purge(ctx context.Context, database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	days := input.OlderThanDays
	if days == 0 {
		days = DefaultPurgeDays
	}
	if days < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must not be negative")
	}

	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	n, err := db.PurgeSources(database, cutoff)
	if err != nil {
		return nil, err
	}
	return &PurgeOutput{Purged: n}, nil
}
