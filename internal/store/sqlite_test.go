package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rcliao/prompt-canvas/internal/model"
)

var testKinds = []string{"Rectangle", "Square", "Circle", "Ellipse", "Line", "Triangle"}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"), testKinds...)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func houseDrawings() []model.Drawing {
	return []model.Drawing{
		{
			Description: "a house",
			Shapes: []model.Shape{
				{Type: "Square", X: 100, Y: 200, Width: 120, Height: 120, Color: "#aa5500"},
				{Type: "Triangle", X: 90, Y: 140, Width: 140, Height: 60, Color: "#880000"},
			},
		},
		{
			Description: "a sun",
			Shapes: []model.Shape{
				{Type: "Circle", X: 520.5, Y: 60, Width: 50, Height: 50, Color: "#ffcc00"},
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	saved, err := s.SaveCanvas(ctx, "my house", houseDrawings())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID <= 0 {
		t.Errorf("expected positive id, got %d", saved.ID)
	}
	if saved.Name != "my house" {
		t.Errorf("expected name 'my house', got %q", saved.Name)
	}

	got, err := s.LoadCanvas(ctx, saved.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Title != "my house" {
		t.Errorf("expected title 'my house', got %q", got.Title)
	}
	if !reflect.DeepEqual(got.Drawings, houseDrawings()) {
		t.Errorf("drawings mismatch:\n got %+v\nwant %+v", got.Drawings, houseDrawings())
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestSaveKeepsEmptyDrawings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	saved, err := s.SaveCanvas(ctx, "sparse", []model.Drawing{
		{Description: "refused", Shapes: nil},
		{Description: "a line", Shapes: []model.Shape{{Type: "Line", X: 1, Y: 2, Width: 3, Height: 4, Color: "#000"}}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := s.LoadCanvas(ctx, saved.ID)
	if len(got.Drawings) != 2 {
		t.Fatalf("expected 2 drawings, got %d", len(got.Drawings))
	}
	if got.Drawings[0].Description != "refused" || len(got.Drawings[0].Shapes) != 0 {
		t.Errorf("expected empty first drawing, got %+v", got.Drawings[0])
	}
	if len(got.Drawings[1].Shapes) != 1 {
		t.Errorf("expected 1 shape in second drawing, got %d", len(got.Drawings[1].Shapes))
	}
}

func TestSaveUnknownShapeType(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.SaveCanvas(ctx, "bad", []model.Drawing{
		{Description: "star", Shapes: []model.Shape{{Type: "Star"}}},
	})
	if !errors.Is(err, ErrUnknownShapeType) {
		t.Fatalf("expected ErrUnknownShapeType, got %v", err)
	}

	// the failed save must not leave a canvas behind
	list, _ := s.ListCanvases(ctx)
	if len(list) != 0 {
		t.Errorf("expected no canvases, got %d", len(list))
	}
}

func TestLoadNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadCanvas(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMissingTypeIsUnknown(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	saved, _ := s.SaveCanvas(ctx, "lines", []model.Drawing{
		{Description: "a line", Shapes: []model.Shape{{Type: "Line", Color: "#000"}}},
	})
	if _, err := s.db.Exec(`DELETE FROM shape_types WHERE name = 'Line'`); err != nil {
		t.Fatalf("delete type: %v", err)
	}

	got, err := s.LoadCanvas(ctx, saved.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Drawings[0].Shapes[0].Type != "Unknown" {
		t.Errorf("expected 'Unknown', got %q", got.Drawings[0].Shapes[0].Type)
	}
}

func TestListCanvases(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	list, err := s.ListCanvases(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", list)
	}

	a, _ := s.SaveCanvas(ctx, "first", nil)
	b, _ := s.SaveCanvas(ctx, "second", nil)

	list, _ = s.ListCanvases(ctx)
	want := []model.CanvasSummary{{ID: a.ID, Title: "first"}, {ID: b.ID, Title: "second"}}
	if !reflect.DeepEqual(list, want) {
		t.Errorf("expected %+v, got %+v", want, list)
	}
}

func TestShapeKindsSeededOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := NewSQLiteStore(path, testKinds...)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path, "Square", "Hexagon")
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()

	kinds, err := s.ShapeKinds(context.Background())
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	want := append(append([]string{}, testKinds...), "Hexagon")
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("expected %v, got %v", want, kinds)
	}
}

func TestDeleteCanvas(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	saved, _ := s.SaveCanvas(ctx, "my house", houseDrawings())
	if err := s.DeleteCanvas(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.LoadCanvas(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	var shapes int
	s.db.QueryRow(`SELECT COUNT(*) FROM shapes`).Scan(&shapes)
	if shapes != 0 {
		t.Errorf("expected shapes to cascade, %d left", shapes)
	}

	if err := s.DeleteCanvas(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}
