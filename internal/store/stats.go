package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string      `json:"db_path"`
	DBSizeBytes int64       `json:"db_size_bytes"`
	Canvases    int         `json:"canvases"`
	Drawings    int         `json:"drawings"`
	Shapes      int         `json:"shapes"`
	Kinds       []KindStats `json:"kinds"`
}

// KindStats holds per-shape-type counts.
type KindStats struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM canvases`).Scan(&st.Canvases)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drawings`).Scan(&st.Drawings)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shapes`).Scan(&st.Shapes)

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(t.name, ?), COUNT(*) AS cnt
		FROM shapes s LEFT JOIN shape_types t ON t.id = s.type_id
		GROUP BY t.name ORDER BY cnt DESC, t.name`, unknownType)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var k KindStats
		rows.Scan(&k.Kind, &k.Count)
		st.Kinds = append(st.Kinds, k)
	}

	return st, nil
}
