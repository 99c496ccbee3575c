package web

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/ericbqEtos/artefakt-extension/internal/cite"
	"github.com/ericbqEtos/artefakt-extension/internal/config"
	"github.com/ericbqEtos/artefakt-extension/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	engine   *cite.Engine
	renderer *Renderer
}

// HandleList handles GET /sources: list captured sources.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Sources",
			Version: h.renderer.version,
			Nav:     "sources",
		},
		Sources:    result.Sources,
		Pagination: result.Pagination,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleDetail handles GET /sources/{id}: source detail with notes and a
// citation preview in the selected style.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		ID:             id,
		IncludeDeleted: true,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	rec := result.Source

	style := r.URL.Query().Get("style")
	if style == "" {
		style = h.cfg.DefaultStyle
	}

	data := DetailPageData{
		PageData: PageData{
			Title:   rec.Metadata.Title,
			Version: h.renderer.version,
			Nav:     "sources",
		},
		Source: rec,
		Style:  style,
		Styles: cite.StyleIDs(),
	}
	if rec.Notes != nil {
		data.NotesHTML = renderMarkdown(*rec.Notes)
	}

	// Citation preview is best-effort; a deleted record or an engine
	// failure leaves the detail page without one.
	if !rec.Deleted() {
		citeOut, err := ops.Cite(r.Context(), h.db, h.engine, h.cfg, ops.CiteInput{
			IDs:   []string{rec.ID},
			Style: style,
		})
		if err == nil && len(citeOut.Citations) == 1 {
			data.Citation = &citeOut.Citations[0]
		}
	}

	h.renderer.renderPage(w, r, "detail", data)
}

// HandleTrail handles GET /trail: chronological origin trail of a session.
func (h *Handlers) HandleTrail(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	data := TrailPageData{
		PageData: PageData{
			Title:   "Origin Trail",
			Version: h.renderer.version,
			Nav:     "trail",
		},
		SessionID: sessionID,
	}

	if sessionID != "" {
		result, err := ops.Trail(r.Context(), h.db, ops.TrailInput{SessionID: sessionID})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Entries = result.Entries
	}

	h.renderer.renderPage(w, r, "trail", data)
}

// HandleDelete handles DELETE /sources/{id}: soft-delete a source.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// htmx removes the row client-side; plain clients get JSON.
	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// parseIntParam parses a query parameter as an int with a fallback default.
func parseIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// parseBoolParam parses a query parameter as a bool (absent = false).
func parseBoolParam(r *http.Request, name string) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return b
}
