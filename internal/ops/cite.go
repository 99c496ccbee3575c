package ops

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/ericbqEtos/artefakt-extension/internal/cite"
	"github.com/ericbqEtos/artefakt-extension/internal/config"
	"github.com/ericbqEtos/artefakt-extension/internal/csl"
	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
	"github.com/ericbqEtos/artefakt-extension/internal/source"
)

// CiteInput contains parameters for the Cite operation. Either IDs or
// SessionID selects the records; IDs wins when both are set.
type CiteInput struct {
	IDs       []string
	SessionID string
	Style     string // default: config default style
}

// Citation is one record's rendered outputs.
type Citation struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Bibliography string `json:"bibliography"`
	InText       string `json:"in_text"`
}

// CiteOutput contains the result of the Cite operation.
type CiteOutput struct {
	Style       string     `json:"style"`
	Approximate bool       `json:"approximate,omitempty"`
	Citations   []Citation `json:"citations"`
}

// Cite renders bibliography and in-text citations for the selected
// records. When the style engine cannot run at all, each record falls
// back to an approximate template citation rather than failing.
func Cite(ctx context.Context, database *sql.DB, engine *cite.Engine, cfg *config.Config, input CiteInput) (*CiteOutput, error) {
	styleID := input.Style
	if styleID == "" {
		styleID = cfg.DefaultStyle
	}
	if !cite.ValidStyle(styleID) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown citation style %q", styleID))
	}
	if len(input.IDs) > MaxCiteItems {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("at most %d items per call", MaxCiteItems))
	}

	records, err := citeRecords(database, input)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewInvalidRequest("no sources to cite")
	}

	items := make([]*csl.Item, len(records))
	titles := make(map[string]string, len(records))
	for i, rec := range records {
		items[i] = csl.FromSource(rec)
		titles[rec.ID] = rec.Metadata.Title
	}

	result, err := engine.Generate(ctx, styleID, items)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		// Engine-level failure: degrade to the template path per record.
		log.Printf("citation engine failed, using quick citations: %v", err)
		out := &CiteOutput{Style: styleID, Approximate: true}
		for _, rec := range records {
			out.Citations = append(out.Citations, Citation{
				ID:           rec.ID,
				Title:        rec.Metadata.Title,
				Bibliography: cite.Quick(rec, styleID),
			})
		}
		return out, nil
	}

	out := &CiteOutput{Style: styleID, Approximate: result.Approximate}
	for _, entry := range result.Entries {
		out.Citations = append(out.Citations, Citation{
			ID:           entry.ID,
			Title:        titles[entry.ID],
			Bibliography: entry.Bibliography,
			InText:       entry.InText,
		})
	}
	return out, nil
}

func citeRecords(database *sql.DB, input CiteInput) ([]*source.Record, error) {
	if len(input.IDs) > 0 {
		records := make([]*source.Record, 0, len(input.IDs))
		for _, id := range input.IDs {
			rec, err := db.GetSourceByID(database, id, false)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		return records, nil
	}
	if input.SessionID == "" {
		return nil, errors.NewInvalidRequest("must specify ids or session_id")
	}
	return db.ListSessionSources(database, input.SessionID, false)
}
