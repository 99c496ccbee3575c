// Package ops implements the application operations behind the CLI, the
// MCP tools, and the web UI. Each operation lives in its own file and
// follows the same shape: an Input struct, an Output struct, and a
// function taking (ctx, database, input).
package ops

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ericbqEtos/artefakt-extension/internal/cite"
	"github.com/ericbqEtos/artefakt-extension/internal/config"
	"github.com/ericbqEtos/artefakt-extension/internal/db"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	MaxCiteItems     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// StyleStore adapts the database to the citation engine's persistent
// style-cache interface.
type StyleStore struct {
	DB *sql.DB
}

func (s StyleStore) GetStyle(styleID string) (string, int64, error) {
	return db.GetStyle(s.DB, styleID)
}

func (s StyleStore) PutStyle(styleID, xml string, fetchedAt int64) error {
	return db.PutStyle(s.DB, styleID, xml, fetchedAt)
}

// NewEngine builds the citation engine wired to the database-backed style
// cache with the configured freshness window.
func NewEngine(database *sql.DB, cfg *config.Config) *cite.Engine {
	return cite.NewEngine(StyleStore{DB: database}, cite.Options{
		TTL: time.Duration(cfg.StyleCacheTTLDays) * 24 * time.Hour,
	})
}

func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	if *s == "" {
		return nil
	}
	return s
}
