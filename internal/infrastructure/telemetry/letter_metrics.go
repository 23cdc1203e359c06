package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LetterMetrics records letter workflow instruments
type LetterMetrics struct {
	issued         metric.Int64Counter
	transitions    metric.Int64Counter
	aiRequests     metric.Int64Counter
	aiDuration     metric.Float64Histogram
	artifactLookup metric.Int64Counter
	renderDuration metric.Float64Histogram
}

// NewLetterMetrics creates the letter instruments on meter
func NewLetterMetrics(meter metric.Meter) (*LetterMetrics, error) {
	m := &LetterMetrics{}
	var err error
	if m.issued, err = meter.Int64Counter("desa.letters.issued",
		metric.WithDescription("Letter numbers assigned"), metric.WithUnit("{letter}")); err != nil {
		return nil, fmt.Errorf("create issued counter: %w", err)
	}
	if m.transitions, err = meter.Int64Counter("desa.letters.transitions",
		metric.WithDescription("Letter workflow transitions"), metric.WithUnit("{transition}")); err != nil {
		return nil, fmt.Errorf("create transitions counter: %w", err)
	}
	if m.aiRequests, err = meter.Int64Counter("desa.ai.requests",
		metric.WithDescription("Generative model calls"), metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("create ai counter: %w", err)
	}
	if m.aiDuration, err = meter.Float64Histogram("desa.ai.duration",
		metric.WithDescription("Generative model call latency"), metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("create ai histogram: %w", err)
	}
	if m.artifactLookup, err = meter.Int64Counter("desa.artifacts.lookups",
		metric.WithDescription("Artifact cache lookups by result"), metric.WithUnit("{lookup}")); err != nil {
		return nil, fmt.Errorf("create artifact counter: %w", err)
	}
	if m.renderDuration, err = meter.Float64Histogram("desa.artifacts.render_duration",
		metric.WithDescription("Artifact render latency"), metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("create render histogram: %w", err)
	}
	return m, nil
}

// LetterIssued counts an assigned number
func (m *LetterMetrics) LetterIssued(ctx context.Context, letterType string) {
	m.issued.Add(ctx, 1, metric.WithAttributes(attribute.String("letter_type", letterType)))
}

// Transition counts a workflow transition
func (m *LetterMetrics) Transition(ctx context.Context, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", to)))
}

// AIRequest records one model call. outcome is ok, error, quota or skipped.
func (m *LetterMetrics) AIRequest(ctx context.Context, operation, outcome string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	m.aiRequests.Add(ctx, 1, attrs)
	if d > 0 {
		m.aiDuration.Record(ctx, float64(d.Microseconds())/1000, attrs)
	}
}

// ArtifactLookup counts a cache hit or miss for an artifact kind
func (m *LetterMetrics) ArtifactLookup(ctx context.Context, kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.artifactLookup.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", result),
	))
}

// ArtifactRendered records how long a render took
func (m *LetterMetrics) ArtifactRendered(ctx context.Context, kind string, d time.Duration) {
	m.renderDuration.Record(ctx, float64(d.Microseconds())/1000,
		metric.WithAttributes(attribute.String("kind", kind)))
}
