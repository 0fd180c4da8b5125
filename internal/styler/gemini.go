package styler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	coreconfig "github.com/aestyle/namestyler/core/config"
)

// Provider performs one completion against the generative backend using
// exactly one credential.
type Provider interface {
	Complete(ctx context.Context, prompt, credential string) (string, error)
}

// GeminiProvider implements Provider with the Gemini SDK. A fresh client is
// built per call because the credential varies with the rotation.
type GeminiProvider struct {
	cfg coreconfig.GeminiConfig
}

// NewGeminiProvider configures a provider from the gemini config section.
func NewGeminiProvider(cfg coreconfig.GeminiConfig) *GeminiProvider {
	return &GeminiProvider{cfg: cfg}
}

// Complete sends the prompt and returns the raw response text.
// Quota and rate-limit rejections are wrapped in *QuotaError.
func (p *GeminiProvider) Complete(ctx context.Context, prompt, credential string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(credential))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.cfg.Model)
	model.SetTemperature(p.cfg.Temperature)
	model.SetTopP(p.cfg.TopP)
	model.SetMaxOutputTokens(p.cfg.MaxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if isQuotaRejection(err) {
			return "", &QuotaError{Err: err}
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	return responseText(resp), nil
}

// isQuotaRejection classifies the provider error as rate-limit or quota
// exhaustion, the only class of failure the rotation recovers from.
func isQuotaRejection(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 {
			return true
		}
		if apiErr.Code == 403 && strings.Contains(strings.ToLower(apiErr.Message), "quota") {
			return true
		}
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429")
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
