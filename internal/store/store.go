// Package store provides the canvas storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/prompt-canvas/internal/model"
)

var (
	// ErrNotFound is returned when a canvas id does not exist.
	ErrNotFound = errors.New("canvas not found")
	// ErrUnknownShapeType is returned when saving a shape whose type is not in shape_types.
	ErrUnknownShapeType = errors.New("unknown shape type")
)

// Store defines the canvas storage interface.
type Store interface {
	// ListCanvases returns every persisted canvas in creation order.
	ListCanvases(ctx context.Context) ([]model.CanvasSummary, error)

	// LoadCanvas returns a canvas with its drawings and shapes in insertion order.
	LoadCanvas(ctx context.Context, id int64) (*model.Canvas, error)

	// SaveCanvas persists a new canvas and returns its assigned identity.
	SaveCanvas(ctx context.Context, title string, drawings []model.Drawing) (*model.SavedCanvas, error)

	// ShapeKinds returns the shape type names known to storage.
	ShapeKinds(ctx context.Context) ([]string, error)

	// Close closes the store.
	Close() error
}
