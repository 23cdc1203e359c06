package printing

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactFile is a rendered artifact ready to be served
type ArtifactFile struct {
	Data        []byte
	ContentType string
	FileName    string
	Hash        string
	// Cached is false when this call rendered the artifact
	Cached bool
}

// ArtifactURLResponse is a presigned download URL for an artifact
type ArtifactURLResponse struct {
	LetterID  uuid.UUID `json:"letter_id"`
	Kind      string    `json:"kind"`
	Hash      string    `json:"hash"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SweepResult summarizes one stale artifact sweep
type SweepResult struct {
	Scanned int `json:"scanned"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
