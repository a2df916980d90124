package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/prompt-canvas/internal/model"
)

// unknownType is reported for shapes whose type row no longer exists.
const unknownType = "Unknown"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path and
// makes sure every name in kinds has a shape_types row.
func NewSQLiteStore(dbPath string, kinds ...string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.seedKinds(kinds); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed shape types: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shape_types (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS canvases (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS drawings (
		id           TEXT PRIMARY KEY,
		canvas_id    INTEGER NOT NULL REFERENCES canvases(id) ON DELETE CASCADE,
		seq          INTEGER NOT NULL,
		description  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_drawings_canvas ON drawings(canvas_id, seq);

	CREATE TABLE IF NOT EXISTS shapes (
		id          TEXT PRIMARY KEY,
		drawing_id  TEXT NOT NULL REFERENCES drawings(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		type_id     INTEGER REFERENCES shape_types(id) ON DELETE SET NULL,
		x           REAL NOT NULL,
		y           REAL NOT NULL,
		width       REAL NOT NULL,
		height      REAL NOT NULL,
		color       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_shapes_drawing ON shapes(drawing_id, seq);
	CREATE INDEX IF NOT EXISTS idx_shapes_type ON shapes(type_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) seedKinds(kinds []string) error {
	for _, k := range kinds {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO shape_types (name) VALUES (?)`, k); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ShapeKinds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM shape_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) ListCanvases(ctx context.Context) ([]model.CanvasSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM canvases ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	canvases := []model.CanvasSummary{}
	for rows.Next() {
		var c model.CanvasSummary
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		canvases = append(canvases, c)
	}
	return canvases, rows.Err()
}

func (s *SQLiteStore) LoadCanvas(ctx context.Context, id int64) (*model.Canvas, error) {
	c := &model.Canvas{ID: id, Drawings: []model.Drawing{}}

	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT title, created_at FROM canvases WHERE id = ?`, id).Scan(&c.Title, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.description,
		       s.id, COALESCE(t.name, ?), s.x, s.y, s.width, s.height, s.color
		FROM drawings d
		LEFT JOIN shapes s ON s.drawing_id = d.id
		LEFT JOIN shape_types t ON t.id = s.type_id
		WHERE d.canvas_id = ?
		ORDER BY d.seq, s.seq`, unknownType, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lastDrawing := ""
	for rows.Next() {
		var drawingID, description string
		var shapeID sql.NullString
		var sh shapeRow
		if err := rows.Scan(&drawingID, &description,
			&shapeID, &sh.typ, &sh.x, &sh.y, &sh.width, &sh.height, &sh.color); err != nil {
			return nil, err
		}
		if drawingID != lastDrawing {
			c.Drawings = append(c.Drawings, model.Drawing{Description: description, Shapes: []model.Shape{}})
			lastDrawing = drawingID
		}
		if !shapeID.Valid {
			continue
		}
		d := &c.Drawings[len(c.Drawings)-1]
		d.Shapes = append(d.Shapes, sh.shape())
	}
	return c, rows.Err()
}

func (s *SQLiteStore) SaveCanvas(ctx context.Context, title string, drawings []model.Drawing) (*model.SavedCanvas, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	typeIDs, err := loadTypeIDs(ctx, tx)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO canvases (title, created_at) VALUES (?, ?)`,
		title, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert canvas: %w", err)
	}
	canvasID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for i, d := range drawings {
		drawingID := s.newID()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO drawings (id, canvas_id, seq, description) VALUES (?, ?, ?, ?)`,
			drawingID, canvasID, i, d.Description)
		if err != nil {
			return nil, fmt.Errorf("insert drawing: %w", err)
		}

		for j, sh := range d.Shapes {
			typeID, ok := typeIDs[sh.Type]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownShapeType, sh.Type)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO shapes (id, drawing_id, seq, type_id, x, y, width, height, color)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.newID(), drawingID, j, typeID, sh.X, sh.Y, sh.Width, sh.Height, sh.Color)
			if err != nil {
				return nil, fmt.Errorf("insert shape: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.SavedCanvas{ID: canvasID, Name: title}, nil
}

// DeleteCanvas removes a canvas with its drawings and shapes.
func (s *SQLiteStore) DeleteCanvas(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM canvases WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadTypeIDs(ctx context.Context, q queryer) (map[string]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name FROM shape_types`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := map[string]int64{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

// shapeRow holds the nullable shape columns of a drawings/shapes join.
type shapeRow struct {
	typ    string
	x      sql.NullFloat64
	y      sql.NullFloat64
	width  sql.NullFloat64
	height sql.NullFloat64
	color  sql.NullString
}

func (r shapeRow) shape() model.Shape {
	return model.Shape{
		Type:   r.typ,
		X:      r.x.Float64,
		Y:      r.y.Float64,
		Width:  r.width.Float64,
		Height: r.height.Float64,
		Color:  r.color.String,
	}
}
