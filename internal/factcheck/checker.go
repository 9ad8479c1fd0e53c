// Package factcheck implements the claim-verification pipeline: article
// extraction for URL claims, the two-stage external model invocation, result
// assembly, caching, and best-effort persistence.
package factcheck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/newscheck/internal/cache"
	"github.com/kiranshivaraju/newscheck/internal/scrape"
	"github.com/kiranshivaraju/newscheck/internal/store"
	"github.com/kiranshivaraju/newscheck/pkg/models"
)

const cacheTTL = 24 * time.Hour

// ArticleExtractor resolves a URL claim into page content.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (*scrape.Article, error)
}

// Checker orchestrates one verification run per call. It holds no mutable
// state; concurrent calls share only the injected cache and store. Two
// concurrent requests for the same claim may both miss the cache and invoke
// the models redundantly — accepted, results are independently valid.
type Checker struct {
	evidence    EvidenceClient
	structuring StructuringClient
	extractor   ArticleExtractor
	store       store.Store
	cache       cache.Cache
}

// NewChecker creates a Checker with injected collaborators.
func NewChecker(evidence EvidenceClient, structuring StructuringClient, extractor ArticleExtractor, st store.Store, ca cache.Cache) *Checker {
	return &Checker{
		evidence:    evidence,
		structuring: structuring,
		extractor:   extractor,
		store:       st,
		cache:       ca,
	}
}

// Check verifies a claim. URL claims are resolved to article content first;
// the cache key is the content hash of the exact text handed to the evidence
// model, so a cache hit returns the stored result verbatim (original id and
// checkedAt included). Persistence is best-effort; the cache is written only
// after a fully successful run.
func (c *Checker) Check(ctx context.Context, claim, userID string) (*models.ClaimAnalysis, error) {
	pipelineText := c.resolveInput(ctx, claim)
	key := cache.ClaimKey(contentHash(pipelineText))

	if cached, ok := c.cachedResult(ctx, key); ok {
		return cached, nil
	}

	evidenceText, err := c.evidence.GatherEvidence(ctx, pipelineText)
	if err != nil {
		return nil, fmt.Errorf("gathering evidence: %w", err)
	}

	structured, err := c.structuring.StructureAnalysis(ctx, pipelineText, evidenceText)
	if err != nil {
		return nil, fmt.Errorf("structuring analysis: %w", err)
	}
	if len(structured.DefaultedFields) > 0 {
		slog.Warn("structuring output fields defaulted", "fields", structured.DefaultedFields)
	}

	result := &models.ClaimAnalysis{
		ID:            uuid.New(),
		OriginalClaim: claim,
		CleanedClaim:  structured.CleanedClaim,
		Verdict:       structured.Verdict,
		Confidence:    structured.Confidence,
		Summary:       structured.Summary,
		Sources:       structured.Sources,
		CheckedAt:     time.Now().UTC(),
	}

	// Persistence must never fail the response.
	if err := c.store.CreateCheck(ctx, userID, result); err != nil {
		slog.Warn("failed to persist check", "check_id", result.ID, "error", err)
	}

	c.writeCache(ctx, key, result)

	return result, nil
}

// resolveInput rewrites a well-formed http/https URL claim into a synthesized
// instruction embedding the extracted article. Extraction failure or a
// non-URL claim passes the original text through unchanged.
func (c *Checker) resolveInput(ctx context.Context, claim string) string {
	u, err := url.Parse(claim)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return claim
	}

	article, err := c.extractor.Extract(ctx, claim)
	if err != nil {
		slog.Warn("article extraction failed", "url", claim, "error", err)
		return claim
	}
	return articlePrompt(claim, article.Title, article.Text)
}

func (c *Checker) cachedResult(ctx context.Context, key string) (*models.ClaimAnalysis, bool) {
	data, found, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache lookup failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var result models.ClaimAnalysis
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &result, true
}

func (c *Checker) writeCache(ctx context.Context, key string, result *models.ClaimAnalysis) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, cacheTTL); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// contentHash is the stable digest of the pipeline input text.
func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
