package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rcliao/prompt-canvas/internal/model"
)

func TestSearch_Basic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	house, _ := s.SaveCanvas(ctx, "my house", houseDrawings())
	park, _ := s.SaveCanvas(ctx, "park", []model.Drawing{{Description: "a tree by the house"}})
	s.SaveCanvas(ctx, "ocean", []model.Drawing{{Description: "a boat"}})

	results, err := s.Search(ctx, SearchParams{Query: "house"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// newest first
	if results[0].ID != park.ID || results[1].ID != house.ID {
		t.Errorf("unexpected order: %+v", results)
	}
	if results[0].MatchDrawing != "a tree by the house" {
		t.Errorf("expected drawing match, got %q", results[0].MatchDrawing)
	}
	if results[1].MatchDrawing != "" {
		t.Errorf("title match should not report a drawing, got %q", results[1].MatchDrawing)
	}

	results, err = s.Search(ctx, SearchParams{Query: "javascript"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestSearch_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.SaveCanvas(ctx, "sketch", nil)
	}

	results, err := s.Search(ctx, SearchParams{Query: "sketch", Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3, got %d", len(results))
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := NewSQLiteStore(dbPath, testKinds...)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	s.SaveCanvas(ctx, "my house", houseDrawings())
	s.SaveCanvas(ctx, "empty", nil)

	stats, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Canvases != 2 {
		t.Fatalf("expected 2 canvases, got %d", stats.Canvases)
	}
	if stats.Drawings != 2 || stats.Shapes != 3 {
		t.Fatalf("expected 2 drawings and 3 shapes, got %d and %d", stats.Drawings, stats.Shapes)
	}
	if len(stats.Kinds) != 3 {
		t.Fatalf("expected 3 kinds in use, got %+v", stats.Kinds)
	}
	if stats.DBSizeBytes == 0 {
		t.Fatal("expected non-zero db size")
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	s1, _ := NewSQLiteStore(filepath.Join(dir, "src.db"), testKinds...)
	defer s1.Close()
	ctx := context.Background()

	s1.SaveCanvas(ctx, "my house", houseDrawings())
	s1.SaveCanvas(ctx, "empty", nil)

	exported, err := s1.ExportAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(exported))
	}

	s2, _ := NewSQLiteStore(filepath.Join(dir, "dst.db"), testKinds...)
	defer s2.Close()

	n, err := s2.Import(ctx, exported)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}

	list, _ := s2.ListCanvases(ctx)
	got, _ := s2.LoadCanvas(ctx, list[0].ID)
	if got.Title != "my house" || !reflect.DeepEqual(got.Drawings, houseDrawings()) {
		t.Errorf("imported canvas mismatch: %+v", got)
	}
}

func TestImportStopsOnUnknownKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Import(ctx, []model.Canvas{
		{Title: "ok"},
		{Title: "bad", Drawings: []model.Drawing{{Description: "x", Shapes: []model.Shape{{Type: "Star"}}}}},
		{Title: "never"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 1 {
		t.Fatalf("expected 1 imported before failure, got %d", n)
	}
}
