package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON decodes the block between the first '{' and the last '}' into out.
// Models often wrap JSON in prose or code fences.
func extractJSON(text string, out any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return fmt.Errorf("%w: no JSON object in response", ErrBadResponse)
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// normalizeScore maps 0..100 percentages onto 0..1
func normalizeScore(s float64) float64 {
	if s > 1 {
		s /= 100
	}
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// nonEmpty drops blank entries
func nonEmpty(items []string) []string {
	out := items[:0:0]
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
