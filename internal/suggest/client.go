package suggest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/aarushkx/speak-free/internal/config"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("suggestions provider not configured")

// Generator produces raw model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// safety categories blocked at medium severity and above.
var harmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

const apiVersion = "v1beta"

// GeminiClient generates suggestions through the Gemini API SDK.
type GeminiClient struct {
	cfg    config.SuggestionsConfig
	models *genai.Models
}

// NewGeminiClient builds the SDK client. Without an API key the client is
// returned unconfigured and every Generate call fails with ErrNotConfigured.
func NewGeminiClient(ctx context.Context, cfg config.SuggestionsConfig) (*GeminiClient, error) {
	c := &GeminiClient{cfg: cfg}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout()},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.models = client.Models
	return c, nil
}

func (c *GeminiClient) generateConfig() *genai.GenerateContentConfig {
	safety := make([]*genai.SafetySetting, 0, len(harmCategories))
	for _, category := range harmCategories {
		safety = append(safety, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return &genai.GenerateContentConfig{
		SafetySettings:  safety,
		MaxOutputTokens: int32(c.cfg.MaxTokens),
		Temperature:     genai.Ptr(float32(c.cfg.Temperature)),
	}
}

// Generate sends prompt and returns the text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.models == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), c.generateConfig())
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("generate content: no candidates returned")
	}
	return resp.Text(), nil
}

// Split breaks model output on Separator, trimming items and dropping empty ones.
func Split(text string) []string {
	raw := strings.Split(text, Separator)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
