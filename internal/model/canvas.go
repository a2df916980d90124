// Package model defines the core drawing data types.
package model

import "time"

// Shape is one primitive figure. How X, Y, Width and Height are read
// depends on Type; see package catalog.
type Shape struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
}

// Drawing is the set of shapes produced by one prompt.
type Drawing struct {
	Description string  `json:"description"`
	Shapes      []Shape `json:"shapes"`
}

// Canvas is a persisted canvas with its drawings in insertion order.
type Canvas struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title,omitempty"`
	Drawings  []Drawing `json:"drawings"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CanvasSummary is a list entry returned by storage.
type CanvasSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// SavedCanvas is the identity storage assigns on save.
type SavedCanvas struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Message senders in the chat log.
const (
	FromUser = "user"
	FromBot  = "bot"
)

// Message is one chat log line.
type Message struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// CloneDrawings returns a copy of ds whose shape slices are not shared with ds.
func CloneDrawings(ds []Drawing) []Drawing {
	if ds == nil {
		return nil
	}
	out := make([]Drawing, len(ds))
	for i, d := range ds {
		out[i] = Drawing{Description: d.Description, Shapes: append([]Shape(nil), d.Shapes...)}
	}
	return out
}
