// Package session is the client-side canvas state machine: the list of
// canvases, the active one, its undo/redo history and the chat log.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/prompt-canvas/internal/model"
)

var (
	ErrBusy         = errors.New("another edit is in progress")
	ErrLoading      = errors.New("canvas is not loaded")
	ErrReadOnly     = errors.New("saved canvases are read-only")
	ErrNoSuchCanvas = errors.New("no such canvas")
	ErrStale        = errors.New("active canvas changed before the result arrived")
	ErrEmptyName    = errors.New("canvas name is empty")
	ErrEmptyPrompt  = errors.New("prompt is empty")
)

// Chat log texts.
const (
	MsgDrawingAdded = "Drawing added successfully!"
	MsgDrawingFail  = "Error communicating with the server"
)

// UnsavedName is the title of a fresh unsaved canvas.
const UnsavedName = "new canvas"

// State is the lifecycle of one canvas entry.
type State int

const (
	Unsaved  State = iota // editable, no identity
	Unloaded              // persisted, drawings not fetched
	Loading               // persisted, fetch in flight
	Loaded                // persisted, drawings present
)

func (s State) String() string {
	switch s {
	case Unsaved:
		return "unsaved"
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Entry is one canvas in the session. Entries are values; the session
// replaces them rather than editing them in place.
type Entry struct {
	Key      string // session-local identity, stable across state changes
	ID       int64  // storage id, 0 while unsaved
	Name     string
	State    State
	Drawings []model.Drawing
}

// Generator produces shapes for a prompt given the drawings already on the canvas.
type Generator interface {
	Generate(ctx context.Context, prompt string, existing []model.Drawing) ([]model.Shape, error)
}

// Storage persists canvases.
type Storage interface {
	ListCanvases(ctx context.Context) ([]model.CanvasSummary, error)
	LoadCanvas(ctx context.Context, id int64) (*model.Canvas, error)
	SaveCanvas(ctx context.Context, title string, drawings []model.Drawing) (*model.SavedCanvas, error)
}

// Session owns all canvas state for one user. It is safe for concurrent use;
// model and storage calls run without holding the lock.
type Session struct {
	gen    Generator
	store  Storage
	logger *zap.Logger

	mu       sync.Mutex
	canvases []Entry // replaced, never mutated
	active   int
	history  History
	messages []model.Message
	epoch    uint64 // bumped whenever the active canvas changes
	busy     bool
}

// New returns a session holding a single unsaved canvas.
func New(gen Generator, store Storage, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		gen:      gen,
		store:    store,
		logger:   logger,
		canvases: []Entry{newUnsaved()},
	}
}

func newUnsaved() Entry {
	return Entry{Key: ulid.Make().String(), Name: UnsavedName, State: Unsaved, Drawings: []model.Drawing{}}
}

// Bootstrap appends every persisted canvas, unloaded, after the unsaved
// canvases already in the session. On failure the list is left as it was.
func (s *Session) Bootstrap(ctx context.Context) error {
	list, err := s.store.ListCanvases(ctx)
	if err != nil {
		s.logger.Warn("list canvases failed", zap.Error(err))
		return fmt.Errorf("list canvases: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	activeKey := s.canvases[s.active].Key
	next := make([]Entry, 0, len(list)+1)
	for _, e := range s.canvases {
		if e.State == Unsaved {
			next = append(next, e)
		}
	}
	for _, c := range list {
		next = append(next, Entry{Key: ulid.Make().String(), ID: c.ID, Name: c.Title, State: Unloaded})
	}
	s.canvases = next
	if i := s.indexOf(activeKey); i >= 0 {
		s.active = i
	} else {
		s.activate(0)
	}
	return nil
}

// Canvases returns the current canvas list. The slice and the drawings it
// holds must not be modified.
func (s *Session) Canvases() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvases
}

// Active returns the index and entry of the active canvas.
func (s *Session) Active() (int, Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.canvases[s.active]
}

// Messages returns a copy of the chat log.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// HistoryLen returns the undo and redo depths for the active canvas.
func (s *Session) HistoryLen() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// Busy reports whether a generation or save is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Select makes canvases[idx] active, dropping history and the chat log. When
// the canvas is persisted and not yet loaded a fetch starts; the returned
// channel yields its result once and is then closed. Otherwise the channel is
// already closed.
func (s *Session) Select(ctx context.Context, idx int) (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.canvases) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchCanvas, idx)
	}
	s.activate(idx)

	done := make(chan error, 1)
	e := s.canvases[idx]
	if e.State != Unloaded {
		close(done)
		return done, nil
	}

	e.State = Loading
	s.replace(idx, e)

	go func() {
		c, err := s.store.LoadCanvas(ctx, e.ID)
		s.finishLoad(e.Key, c, err)
		done <- err
		close(done)
	}()
	return done, nil
}

// finishLoad applies a load result to the entry it was started for, active or not.
func (s *Session) finishLoad(key string, c *model.Canvas, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(key)
	if idx < 0 || s.canvases[idx].State != Loading {
		return
	}
	e := s.canvases[idx]
	if err != nil {
		s.logger.Warn("load canvas failed", zap.Int64("canvas_id", e.ID), zap.Error(err))
		e.State = Unloaded
		s.replace(idx, e)
		return
	}

	e.State = Loaded
	e.Drawings = c.Drawings
	if e.Drawings == nil {
		e.Drawings = []model.Drawing{}
	}
	if c.Title != "" {
		e.Name = c.Title
	}
	s.replace(idx, e)
}

// AddDrawing generates shapes for prompt and appends them to the active
// canvas as one drawing. The undo snapshot is committed only when generation
// succeeds. If the active canvas changed while the model was working the
// result is discarded with ErrStale.
func (s *Session) AddDrawing(ctx context.Context, prompt string) (model.Drawing, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return model.Drawing{}, ErrEmptyPrompt
	}

	s.mu.Lock()
	if err := s.checkEditable(); err != nil {
		s.mu.Unlock()
		return model.Drawing{}, err
	}
	s.busy = true
	epoch := s.epoch
	target := s.canvases[s.active]
	s.messages = append(s.messages, model.Message{From: model.FromUser, Text: prompt})
	s.mu.Unlock()

	shapes, err := s.gen.Generate(ctx, prompt, target.Drawings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if s.epoch != epoch || s.canvases[s.active].Key != target.Key {
		s.logger.Debug("discarding generation for inactive canvas", zap.String("prompt", prompt))
		return model.Drawing{}, ErrStale
	}
	if err != nil {
		s.messages = append(s.messages, model.Message{From: model.FromBot, Text: MsgDrawingFail})
		return model.Drawing{}, err
	}

	if shapes == nil {
		shapes = []model.Shape{}
	}
	d := model.Drawing{Description: prompt, Shapes: shapes}
	s.history.Push(target.Drawings)
	s.setDrawings(appendDrawing(target.Drawings, d))
	s.messages = append(s.messages, model.Message{From: model.FromBot, Text: MsgDrawingAdded})
	return d, nil
}

// Clear empties the active canvas as one undoable edit.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditable(); err != nil {
		return err
	}
	cur := s.canvases[s.active].Drawings
	s.history.Push(cur)
	s.setDrawings([]model.Drawing{})
	return nil
}

// Undo restores the previous drawing sequence. It is a no-op with nothing to undo.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditable(); err != nil {
		return err
	}
	if prev, ok := s.history.Undo(s.canvases[s.active].Drawings); ok {
		s.setDrawings(prev)
	}
	return nil
}

// Redo reapplies the most recently undone sequence. It is a no-op with nothing to redo.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditable(); err != nil {
		return err
	}
	if next, ok := s.history.Redo(s.canvases[s.active].Drawings); ok {
		s.setDrawings(next)
	}
	return nil
}

// Save persists the active unsaved canvas under name. On success the entry
// becomes a loaded persisted canvas and a fresh unsaved canvas is appended.
// If the saved canvas was still active the fresh one becomes active with
// empty history and chat log. On failure nothing changes.
func (s *Session) Save(ctx context.Context, name string) (*model.SavedCanvas, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	if err := s.checkEditable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.busy = true
	target := s.canvases[s.active]
	s.mu.Unlock()

	saved, err := s.store.SaveCanvas(ctx, name, target.Drawings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		return nil, fmt.Errorf("save canvas: %w", err)
	}

	idx := s.indexOf(target.Key)
	persisted := Entry{Key: target.Key, ID: saved.ID, Name: saved.Name, State: Loaded, Drawings: target.Drawings}
	next := slices.Clone(s.canvases)
	if idx >= 0 {
		next[idx] = persisted
	} else {
		next = append(next, persisted)
	}
	next = append(next, newUnsaved())
	s.canvases = next

	if s.canvases[s.active].Key == target.Key {
		s.activate(len(next) - 1)
	}
	return saved, nil
}

// checkEditable reports why the active canvas cannot be edited right now.
func (s *Session) checkEditable() error {
	switch s.canvases[s.active].State {
	case Unloaded, Loading:
		return ErrLoading
	case Loaded:
		return ErrReadOnly
	}
	if s.busy {
		return ErrBusy
	}
	return nil
}

// activate switches the active canvas and resets canvas-scoped state.
func (s *Session) activate(idx int) {
	s.active = idx
	s.history.Reset()
	s.messages = nil
	s.epoch++
}

func (s *Session) setDrawings(ds []model.Drawing) {
	e := s.canvases[s.active]
	e.Drawings = ds
	s.replace(s.active, e)
}

// replace swaps in a new canvas list with entry idx set to e.
func (s *Session) replace(idx int, e Entry) {
	next := slices.Clone(s.canvases)
	next[idx] = e
	s.canvases = next
}

func (s *Session) indexOf(key string) int {
	return slices.IndexFunc(s.canvases, func(e Entry) bool { return e.Key == key })
}

// appendDrawing returns a new sequence; ds is left untouched.
func appendDrawing(ds []model.Drawing, d model.Drawing) []model.Drawing {
	next := make([]model.Drawing, len(ds), len(ds)+1)
	copy(next, ds)
	return append(next, d)
}
