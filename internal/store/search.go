package store

import (
	"context"
	"database/sql"

	"github.com/rcliao/prompt-canvas/internal/model"
)

// SearchParams holds parameters for searching canvases.
type SearchParams struct {
	Query string
	Limit int
}

// SearchResult is a matching canvas and, when the match came from a
// drawing, that drawing's description.
type SearchResult struct {
	model.CanvasSummary
	MatchDrawing string `json:"match_drawing,omitempty"`
}

// Search finds canvases whose title or any drawing description contains the
// query substring, newest first.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	like := "%" + p.Query + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title,
		       CASE WHEN c.title LIKE ? THEN NULL ELSE d.description END
		FROM canvases c
		LEFT JOIN drawings d ON d.canvas_id = c.id
		WHERE c.title LIKE ? OR d.description LIKE ?
		ORDER BY c.id DESC, d.seq`, like, like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []SearchResult{}
	seen := map[int64]bool{}
	for rows.Next() {
		var r SearchResult
		var match sql.NullString
		if err := rows.Scan(&r.ID, &r.Title, &match); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		r.MatchDrawing = match.String
		results = append(results, r)
		if len(results) == limit {
			break
		}
	}

	return results, rows.Err()
}
