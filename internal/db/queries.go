package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/ericbqEtos/artefakt-extension/internal/errors"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
// For the sources table this means a second active capture of the same URL.
var ErrUniqueConstraint = &errors.ArtefaktError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

const sourceColumns = `id, type, platform, title, url, authors_json, issued_json,
	accessed_json, doi, publisher, container_title, volume, issue, pages,
	abstract, ai_json, screenshot_json, notes, excerpt, tags_json,
	group_ids_json, session_id, predecessor_id, capture_method, tab_title,
	tab_url, selection, created_at, updated_at, deleted_at`

// InsertSource stores a new source record.
func InsertSource(db *sql.DB, r *source.Record) error {
	authorsJSON, err := toNullJSON(r.Metadata.Authors, len(r.Metadata.Authors) > 0)
	if err != nil {
		return errors.NewInternal(err)
	}
	issuedJSON, err := toNullJSON(r.Metadata.Issued, r.Metadata.Issued != nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	accessedJSON, err := toNullJSON(r.Metadata.Accessed, r.Metadata.Accessed != nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	aiJSON, err := toNullJSON(r.AI, r.AI != nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	shotJSON, err := toNullJSON(r.Screenshot, r.Screenshot != nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	tagsJSON, err := toNullJSON(r.Tags, len(r.Tags) > 0)
	if err != nil {
		return errors.NewInternal(err)
	}
	groupsJSON, err := toNullJSON(r.GroupIDs, len(r.GroupIDs) > 0)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO sources (` + sourceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = db.Exec(query,
		r.ID, string(r.Type), toNullString(r.Platform), r.Metadata.Title,
		emptyToNull(r.Metadata.URL), authorsJSON, issuedJSON, accessedJSON,
		emptyToNull(r.Metadata.DOI), emptyToNull(r.Metadata.Publisher),
		emptyToNull(r.Metadata.ContainerTitle), emptyToNull(r.Metadata.Volume),
		emptyToNull(r.Metadata.Issue), emptyToNull(r.Metadata.Pages),
		emptyToNull(r.Metadata.Abstract), aiJSON, shotJSON,
		toNullString(r.Notes), toNullString(r.Excerpt), tagsJSON, groupsJSON,
		emptyToNull(r.Provenance.SessionID), toNullString(r.Provenance.PredecessorID),
		emptyToNull(string(r.Provenance.Method)), emptyToNull(r.Provenance.TabTitle),
		emptyToNull(r.Provenance.TabURL), emptyToNull(r.Provenance.Selection),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetSourceByID retrieves a source by its ULID.
// If includeDeleted is false, soft-deleted sources are excluded.
func GetSourceByID(db *sql.DB, id string, includeDeleted bool) (*source.Record, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	r, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// FindSourceByURL retrieves the active (non-deleted) source captured for a
// URL. Returns (nil, nil) when no active source holds the URL; absence is
// the normal case on capture, not an error.
func FindSourceByURL(db *sql.DB, url string) (*source.Record, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE url = ? AND deleted_at IS NULL LIMIT 1`

	row := db.QueryRow(query, url)
	r, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// ListSources returns source summaries ordered by updated_at descending.
func ListSources(db *sql.DB, limit, offset int, includeDeleted bool) ([]source.Summary, int, error) {
	where := ""
	if !includeDeleted {
		where = " WHERE deleted_at IS NULL"
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM sources" + where).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, type, platform, title, url, session_id, tags_json,
			created_at, updated_at, deleted_at
		FROM sources` + where + `
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// ListSessionSources returns the full records of one session in capture
// order (created_at ascending). Soft-deleted records are included when
// includeDeleted is set; the origin trail wants them for provenance display.
func ListSessionSources(db *sql.DB, sessionID string, includeDeleted bool) ([]*source.Record, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE session_id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := db.Query(query, sessionID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []*source.Record
	for rows.Next() {
		r, err := scanSource(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return records, nil
}

// UpdateSource updates user-editable fields of an existing source.
// Sets updated_at to current timestamp.
// Does NOT change: id, type, metadata core, provenance, created_at.
func UpdateSource(db *sql.DB, r *source.Record) error {
	tagsJSON, err := toNullJSON(r.Tags, len(r.Tags) > 0)
	if err != nil {
		return errors.NewInternal(err)
	}
	groupsJSON, err := toNullJSON(r.GroupIDs, len(r.GroupIDs) > 0)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()

	query := `
		UPDATE sources
		SET notes = ?, excerpt = ?, tags_json = ?, group_ids_json = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query,
		toNullString(r.Notes), toNullString(r.Excerpt), tagsJSON, groupsJSON,
		now, r.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(r.ID)
	}

	r.UpdatedAt = now

	return nil
}

// SoftDeleteSource marks a source as deleted. Group membership is cleared;
// provenance and created_at are left untouched so the origin trail keeps
// its history.
func SoftDeleteSource(db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE sources
		SET deleted_at = ?, updated_at = ?, group_ids_json = NULL
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// PurgeSources permanently deletes soft-deleted sources older than the given
// cutoff (Unix seconds). Returns the number of rows removed.
func PurgeSources(db *sql.DB, cutoff int64) (int, error) {
	result, err := db.Exec(
		"DELETE FROM sources WHERE deleted_at IS NOT NULL AND deleted_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(rowsAffected), nil
}

// GetStyle retrieves a cached style definition. Returns ("", 0, nil) on a
// cache miss.
func GetStyle(db *sql.DB, styleID string) (string, int64, error) {
	var (
		xml       string
		fetchedAt int64
	)
	err := db.QueryRow(
		"SELECT xml, fetched_at FROM style_cache WHERE style_id = ?",
		styleID,
	).Scan(&xml, &fetchedAt)
	if err == sql.ErrNoRows {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, errors.NewInternal(err)
	}

	return xml, fetchedAt, nil
}

// PutStyle upserts a style definition into the persistent cache.
func PutStyle(db *sql.DB, styleID, xml string, fetchedAt int64) error {
	_, err := db.Exec(`
		INSERT INTO style_cache (style_id, xml, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(style_id) DO UPDATE SET xml = excluded.xml, fetched_at = excluded.fetched_at
	`, styleID, xml, fetchedAt)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSource scans a single row into a source.Record.
func scanSource(row rowScanner) (*source.Record, error) {
	var (
		r             source.Record
		typ           string
		platform      sql.NullString
		url           sql.NullString
		authorsJSON   sql.NullString
		issuedJSON    sql.NullString
		accessedJSON  sql.NullString
		doi           sql.NullString
		publisher     sql.NullString
		container     sql.NullString
		volume        sql.NullString
		issue         sql.NullString
		pages         sql.NullString
		abstract      sql.NullString
		aiJSON        sql.NullString
		shotJSON      sql.NullString
		notes         sql.NullString
		excerpt       sql.NullString
		tagsJSON      sql.NullString
		groupsJSON    sql.NullString
		sessionID     sql.NullString
		predecessorID sql.NullString
		method        sql.NullString
		tabTitle      sql.NullString
		tabURL        sql.NullString
		selection     sql.NullString
		deletedAt     sql.NullInt64
	)

	err := row.Scan(
		&r.ID, &typ, &platform, &r.Metadata.Title, &url, &authorsJSON,
		&issuedJSON, &accessedJSON, &doi, &publisher, &container, &volume,
		&issue, &pages, &abstract, &aiJSON, &shotJSON, &notes, &excerpt,
		&tagsJSON, &groupsJSON, &sessionID, &predecessorID, &method,
		&tabTitle, &tabURL, &selection, &r.CreatedAt, &r.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Type = source.SourceType(typ)
	r.Platform = fromNullString(platform)
	r.Metadata.URL = url.String
	r.Metadata.DOI = doi.String
	r.Metadata.Publisher = publisher.String
	r.Metadata.ContainerTitle = container.String
	r.Metadata.Volume = volume.String
	r.Metadata.Issue = issue.String
	r.Metadata.Pages = pages.String
	r.Metadata.Abstract = abstract.String
	r.Notes = fromNullString(notes)
	r.Excerpt = fromNullString(excerpt)
	r.Provenance.SessionID = sessionID.String
	r.Provenance.PredecessorID = fromNullString(predecessorID)
	r.Provenance.Method = source.CaptureMethod(method.String)
	r.Provenance.TabTitle = tabTitle.String
	r.Provenance.TabURL = tabURL.String
	r.Provenance.Selection = selection.String

	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Int64
	}

	if err := fromNullJSON(authorsJSON, &r.Metadata.Authors); err != nil {
		return nil, err
	}
	if err := fromNullJSON(issuedJSON, &r.Metadata.Issued); err != nil {
		return nil, err
	}
	if err := fromNullJSON(accessedJSON, &r.Metadata.Accessed); err != nil {
		return nil, err
	}
	if err := fromNullJSON(aiJSON, &r.AI); err != nil {
		return nil, err
	}
	if err := fromNullJSON(shotJSON, &r.Screenshot); err != nil {
		return nil, err
	}
	if err := fromNullJSON(tagsJSON, &r.Tags); err != nil {
		return nil, err
	}
	if err := fromNullJSON(groupsJSON, &r.GroupIDs); err != nil {
		return nil, err
	}

	return &r, nil
}

// scanSummaries scans listing rows into summaries.
func scanSummaries(rows *sql.Rows) ([]source.Summary, error) {
	var summaries []source.Summary
	for rows.Next() {
		var (
			s         source.Summary
			typ       string
			platform  sql.NullString
			url       sql.NullString
			sessionID sql.NullString
			tagsJSON  sql.NullString
			deletedAt sql.NullInt64
		)
		err := rows.Scan(&s.ID, &typ, &platform, &s.Title, &url, &sessionID,
			&tagsJSON, &s.CreatedAt, &s.UpdatedAt, &deletedAt)
		if err != nil {
			return nil, err
		}

		s.Type = source.SourceType(typ)
		s.Platform = fromNullString(platform)
		s.URL = url.String
		s.SessionID = sessionID.String
		s.Deleted = deletedAt.Valid
		if err := fromNullJSON(tagsJSON, &s.Tags); err != nil {
			return nil, err
		}

		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// toNullJSON marshals v when present is true, NULL otherwise.
func toNullJSON(v any, present bool) (sql.NullString, error) {
	if !present {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// fromNullJSON unmarshals a nullable JSON column into dest when present.
func fromNullJSON(ns sql.NullString, dest any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), dest)
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// emptyToNull converts an empty string to a NULL column value.
func emptyToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
