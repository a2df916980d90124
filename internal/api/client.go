package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/prompt-canvas/internal/generate"
	"github.com/rcliao/prompt-canvas/internal/model"
	"github.com/rcliao/prompt-canvas/internal/store"
)

const maxResponseBody = 10 << 20

// Client calls a remote drawings API. It satisfies both session.Generator
// and session.Storage.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Generate asks the server for shapes. Network failures and 502 responses
// wrap generate.ErrTransport; 422 wraps generate.ErrMalformed.
func (c *Client) Generate(ctx context.Context, prompt string, existing []model.Drawing) ([]model.Shape, error) {
	if existing == nil {
		existing = []model.Drawing{}
	}
	var shapes []model.Shape
	err := c.do(ctx, http.MethodPost, "/api/drawings/add-draw",
		addDrawRequest{Prompt: prompt, ExistingDrawings: existing}, &shapes)
	if err != nil {
		return nil, err
	}
	return shapes, nil
}

func (c *Client) ListCanvases(ctx context.Context) ([]model.CanvasSummary, error) {
	var list []model.CanvasSummary
	if err := c.do(ctx, http.MethodGet, "/api/drawings/all-canvases", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) LoadCanvas(ctx context.Context, id int64) (*model.Canvas, error) {
	var canvas model.Canvas
	if err := c.do(ctx, http.MethodGet, "/api/drawings/"+strconv.FormatInt(id, 10), nil, &canvas); err != nil {
		return nil, err
	}
	return &canvas, nil
}

func (c *Client) SaveCanvas(ctx context.Context, title string, drawings []model.Drawing) (*model.SavedCanvas, error) {
	var saved model.SavedCanvas
	err := c.do(ctx, http.MethodPost, "/api/drawings/save-canvas",
		saveCanvasRequest{Title: title, Drawings: drawings}, &saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", generate.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", generate.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return mapStatus(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus turns an error response back into the sentinel the server mapped it from.
func mapStatus(status int, body []byte) error {
	var e errorResponse
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	detail := fmt.Sprintf("API error %d: %s", status, msg)

	switch status {
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", generate.ErrMalformed, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", store.ErrNotFound, detail)
	case http.StatusBadRequest:
		if strings.Contains(msg, store.ErrUnknownShapeType.Error()) {
			return fmt.Errorf("%w: %s", store.ErrUnknownShapeType, detail)
		}
		return fmt.Errorf("%s", detail)
	}
	if status >= 500 {
		return fmt.Errorf("%w: %s", generate.ErrTransport, detail)
	}
	return fmt.Errorf("%s", detail)
}
