package store

import (
	"context"
	"fmt"

	"github.com/rcliao/prompt-canvas/internal/model"
)

// ExportAll returns every canvas with its drawings, oldest first.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.Canvas, error) {
	summaries, err := s.ListCanvases(ctx)
	if err != nil {
		return nil, err
	}

	canvases := make([]model.Canvas, 0, len(summaries))
	for _, cs := range summaries {
		c, err := s.LoadCanvas(ctx, cs.ID)
		if err != nil {
			return nil, fmt.Errorf("export canvas %d: %w", cs.ID, err)
		}
		canvases = append(canvases, *c)
	}
	return canvases, nil
}

// Import saves each canvas as a new canvas. Ids in the input are ignored.
// It stops at the first failure and reports how many were imported.
func (s *SQLiteStore) Import(ctx context.Context, canvases []model.Canvas) (int, error) {
	imported := 0
	for _, c := range canvases {
		if _, err := s.SaveCanvas(ctx, c.Title, c.Drawings); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
