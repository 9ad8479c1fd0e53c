package factcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/newscheck/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultEvidenceModel = "sonar"
	evidenceTemperature  = 0.2
)

// EvidenceClient gathers unstructured fact-check analysis text for a claim.
type EvidenceClient interface {
	GatherEvidence(ctx context.Context, claim string) (string, error)
}

// PerplexityClient implements EvidenceClient against Perplexity's
// OpenAI-compatible chat-completions API.
type PerplexityClient struct {
	client *openai.Client
	cfg    config.PerplexityConfig
}

// NewPerplexityClient creates a PerplexityClient from config.
func NewPerplexityClient(cfg config.PerplexityConfig) *PerplexityClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	return &PerplexityClient{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}
}

// GatherEvidence walks the candidate model list in order. A 400 rejecting the
// model identifier advances to the next candidate; any other failure is
// terminal. The first successful non-empty completion wins.
func (p *PerplexityClient) GatherEvidence(ctx context.Context, claim string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: PERPLEXITY_API_KEY is not set", ErrNoCredential)
	}

	system, user := BuildEvidencePrompt(claim)

	var lastErr error
	for _, model := range p.candidateModels() {
		text, err := p.complete(ctx, model, system, user)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if errors.Is(err, ErrEmptyCompletion) || !modelRejected(err) {
			break
		}
	}

	return "", describeEvidenceFailure(lastErr)
}

func (p *PerplexityClient) complete(ctx context.Context, model, system, user string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: evidenceTemperature,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: evidence model %s", ErrEmptyCompletion, model)
	}
	return resp.Choices[0].Message.Content, nil
}

// candidateModels returns the ordered model identifiers to try: the
// operator-configured override (comma-separated), or the single default.
func (p *PerplexityClient) candidateModels() []string {
	if p.cfg.Model == "" {
		return []string{defaultEvidenceModel}
	}
	var models []string
	for _, m := range strings.Split(p.cfg.Model, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		return []string{defaultEvidenceModel}
	}
	return models
}

// modelRejected reports whether err is the retryable invalid-model rejection
// (HTTP 400 with an invalid_model error type) rather than a terminal failure.
func modelRejected(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.HTTPStatusCode != 400 {
		return false
	}
	return strings.Contains(apiErr.Type, "invalid_model") ||
		strings.Contains(fmt.Sprint(apiErr.Code), "invalid_model")
}

func describeEvidenceFailure(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("evidence model error %d: %s; set PERPLEXITY_MODEL to a permitted model per https://docs.perplexity.ai/getting-started/models",
			apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("evidence model request failed: %w", err)
}

var _ EvidenceClient = (*PerplexityClient)(nil)
