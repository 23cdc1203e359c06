package letter

import (
	"context"
	"time"
)

// Metrics records letter workflow instruments. telemetry.LetterMetrics implements it.
type Metrics interface {
	LetterIssued(ctx context.Context, letterType string)
	Transition(ctx context.Context, to string)
	AIRequest(ctx context.Context, operation, outcome string, d time.Duration)
	ArtifactLookup(ctx context.Context, kind string, hit bool)
	ArtifactRendered(ctx context.Context, kind string, d time.Duration)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) LetterIssued(context.Context, string)                     {}
func (NopMetrics) Transition(context.Context, string)                       {}
func (NopMetrics) AIRequest(context.Context, string, string, time.Duration) {}
func (NopMetrics) ArtifactLookup(context.Context, string, bool)             {}
func (NopMetrics) ArtifactRendered(context.Context, string, time.Duration)  {}

var _ Metrics = NopMetrics{}
