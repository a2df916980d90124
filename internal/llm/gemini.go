// Package llm is the HTTP client for the generateContent model endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rcliao/prompt-canvas/internal/config"
	"github.com/rcliao/prompt-canvas/internal/tracing"
)

const maxResponseBody = 10 << 20

// ErrStatus is returned when the endpoint answers with a non-2xx status.
var ErrStatus = errors.New("model endpoint error")

// Client sends single-turn prompts to a generateContent endpoint.
type Client struct {
	apiURL  string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
	logger  *zap.Logger
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// New creates a client from cfg. RequestsPerMinute of 0 disables rate limiting.
func New(cfg config.LLMConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute)/60.0, 1)
	}
	if cfg.CircuitBreaker.Enabled {
		c.breaker = newBreaker(cfg.CircuitBreaker, logger)
	}
	return c
}

// Complete sends instruction as one user turn and returns the text of the
// first part of the first candidate. A reply without candidates yields "".
func (c *Client) Complete(ctx context.Context, instruction string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "llm.complete",
		trace.WithAttributes(tracing.IntAttr("llm.instruction_bytes", len(instruction))),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			tracing.RecordError(span, err)
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var (
		text string
		err  error
	)
	if c.breaker != nil {
		text, err = c.breaker.Execute(func() (string, error) {
			return c.complete(ctx, instruction)
		})
	} else {
		text, err = c.complete(ctx, instruction)
	}
	if err != nil {
		tracing.RecordError(span, err)
		return "", err
	}
	tracing.SetOK(span)
	return text, nil
}

func (c *Client) complete(ctx context.Context, instruction string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: instruction}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint, err := c.endpoint()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("model endpoint error", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: status %d: %s", ErrStatus, resp.StatusCode, respBody)
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// endpoint appends the API key as the "key" query parameter.
func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	if c.apiKey != "" {
		q := u.Query()
		q.Set("key", c.apiKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
