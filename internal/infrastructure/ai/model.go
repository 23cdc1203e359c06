// Package ai wraps the generative model used to validate, improve, draft and
// summarize letters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pulosarok/desa/internal/infrastructure/config"
	"google.golang.org/genai"
)

// Model produces a text completion for a prompt
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiModel calls the Gemini API through the genai SDK
type GeminiModel struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiModel creates a Gemini client for cfg
func NewGeminiModel(ctx context.Context, cfg *config.AIConfig) (*GeminiModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai.api_key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	gc := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: genai.NewContentFromText(
			"Anda adalah asisten administrasi pemerintahan desa di Indonesia. "+
				"Selalu jawab dalam bahasa Indonesia baku dan hanya dengan satu objek JSON.",
			genai.RoleUser),
	}
	if cfg.Temperature > 0 {
		gc.Temperature = genai.Ptr(float32(cfg.Temperature))
	}
	if cfg.MaxOutputTokens > 0 {
		gc.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}
	return &GeminiModel{client: client, model: model, config: gc}, nil
}

// Name returns the model identifier
func (m *GeminiModel) Name() string {
	return m.model
}

// Generate sends prompt and returns the response text
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), m.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}
