// Package generate turns a user prompt into validated shapes: it composes the
// model instruction, calls the model, pulls the JSON array out of the reply
// and keeps only shapes of known kinds.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rcliao/prompt-canvas/internal/catalog"
	"github.com/rcliao/prompt-canvas/internal/metrics"
	"github.com/rcliao/prompt-canvas/internal/model"
	"github.com/rcliao/prompt-canvas/internal/tracing"
)

// Generation failures. Callers classify with errors.Is.
var (
	ErrTransport = errors.New("model call failed")
	ErrMalformed = errors.New("malformed model response")
)

// Model sends one instruction to the generative model and returns its raw text reply.
type Model interface {
	Complete(ctx context.Context, instruction string) (string, error)
}

// Pipeline runs compose, model call, extract, parse and filter for one prompt.
type Pipeline struct {
	model   Model
	catalog *catalog.Catalog
	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics records generation outcomes on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pipeline) { p.metrics = c }
}

// NewPipeline creates a pipeline over m that accepts the kinds in cat.
func NewPipeline(m Model, cat *catalog.Catalog, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{model: m, catalog: cat, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Catalog returns the kinds this pipeline accepts.
func (p *Pipeline) Catalog() *catalog.Catalog { return p.catalog }

// Generate returns the shapes for prompt given the drawings already on the
// canvas. An empty result is not an error. Failures wrap ErrTransport or
// ErrMalformed.
func (p *Pipeline) Generate(ctx context.Context, prompt string, existing []model.Drawing) ([]model.Shape, error) {
	ctx, span := tracing.StartSpan(ctx, "generate.shapes",
		trace.WithAttributes(
			tracing.IntAttr("canvas.drawings", len(existing)),
		),
	)
	defer span.End()
	start := time.Now()

	instruction := Compose(prompt, existing, p.catalog)

	reply, err := p.model.Complete(ctx, instruction)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrTransport, err)
		tracing.RecordError(span, err)
		p.metrics.ObserveGeneration(metrics.OutcomeTransport, time.Since(start), 0, 0)
		p.logger.Warn("generation failed", zap.String("prompt", prompt), zap.Error(err))
		return nil, err
	}

	cands, err := ParseCandidates(ExtractJSONArray(reply))
	if err != nil {
		tracing.RecordError(span, err)
		p.metrics.ObserveGeneration(metrics.OutcomeMalformed, time.Since(start), 0, 0)
		p.logger.Warn("generation failed", zap.String("prompt", prompt), zap.Error(err))
		return nil, err
	}

	shapes, dropped := Filter(cands, p.catalog)
	if dropped > 0 {
		p.logger.Debug("dropped shapes of unknown kind",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(shapes)),
		)
	}

	span.SetAttributes(
		tracing.IntAttr("shapes.kept", len(shapes)),
		tracing.IntAttr("shapes.dropped", dropped),
	)
	tracing.SetOK(span)
	p.metrics.ObserveGeneration(metrics.OutcomeOK, time.Since(start), len(shapes), dropped)
	return shapes, nil
}
