package factcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/newscheck/internal/config"
)

// StructuringClient converts unstructured analysis text into the canonical
// analysis fields.
type StructuringClient interface {
	StructureAnalysis(ctx context.Context, claim, analysis string) (*Structured, error)
}

// GeminiClient implements StructuringClient using the Gemini generateContent
// REST API with JSON output requested.
//
// No explicit request deadline is set here; requests are bounded only by the
// caller's context. Known gap, kept deliberately.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGeminiClient creates a GeminiClient from config.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{},
	}
}

// StructureAnalysis asks the structuring model for a JSON rendition of the
// analysis and coerces the response field-by-field. All invocation and
// parsing failures come back as a single descriptive structuring error.
func (g *GeminiClient) StructureAnalysis(ctx context.Context, claim, analysis string) (*Structured, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrNoCredential)
	}

	text, err := g.generate(ctx, BuildStructuringPrompt(claim, analysis))
	if err != nil {
		return nil, fmt.Errorf("structuring model: %w", err)
	}

	structured, err := decodeStructured(text, claim)
	if err != nil {
		return nil, fmt.Errorf("structuring model: %w", err)
	}
	return structured, nil
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var genResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	text := genResp.text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: structuring model %s", ErrEmptyCompletion, g.model)
	}
	return text, nil
}

// --- Gemini request/response types ---

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (r geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

var _ StructuringClient = (*GeminiClient)(nil)
