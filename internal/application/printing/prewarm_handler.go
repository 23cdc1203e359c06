package printing

import (
	"context"
	"time"

	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

// PrewarmHandler renders artifacts in the background once a letter becomes
// printable, so the first download is served from storage.
type PrewarmHandler struct {
	artifacts *ArtifactService
	processed shared.IdempotencyStore
	logger    *zap.Logger
}

// prewarmDedupeTTL bounds how long a delivered event id is remembered
const prewarmDedupeTTL = 24 * time.Hour

// NewPrewarmHandler creates a new PrewarmHandler. processed may be nil, in which
// case redelivered events render again.
func NewPrewarmHandler(artifacts *ArtifactService, processed shared.IdempotencyStore, logger *zap.Logger) *PrewarmHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrewarmHandler{artifacts: artifacts, processed: processed, logger: logger}
}

// EventTypes returns the event types this handler processes
func (h *PrewarmHandler) EventTypes() []string {
	return []string{letter.EventTypeLetterStatusChanged, letter.EventTypeLetterSigned}
}

// Background reports that the handler runs off the request path
func (h *PrewarmHandler) Background() bool { return true }

// Handle renders the artifacts of approved, completed and freshly signed letters
func (h *PrewarmHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *letter.LetterStatusChangedEvent:
		if e.To != letter.StatusApproved && e.To != letter.StatusCompleted {
			return nil
		}
	case *letter.LetterSignedEvent:
	default:
		return nil
	}

	if h.processed != nil {
		fresh, err := h.processed.MarkProcessed(ctx, "prewarm:"+event.EventID().String(), prewarmDedupeTTL)
		if err != nil {
			h.logger.Warn("Prewarm dedupe check failed", zap.Error(err))
		} else if !fresh {
			return nil
		}
	}

	if err := h.artifacts.Prewarm(ctx, event.TenantID(), event.AggregateID()); err != nil {
		h.logger.Warn("Artifact prewarm failed",
			zap.String("letter_id", event.AggregateID().String()),
			zap.Error(err))
		return err
	}
	return nil
}
