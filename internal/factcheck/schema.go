package factcheck

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kiranshivaraju/newscheck/pkg/models"
)

const fallbackSummary = "Unable to summarize the claim with high confidence."

// Structured is the model-produced fragment of a ClaimAnalysis, together with
// the names of fields that had to be replaced by defaults. Every field is
// validated independently, so one bad field never discards the rest.
type Structured struct {
	CleanedClaim string
	Verdict      models.Verdict
	Confidence   int
	Summary      string
	Sources      []models.Source

	DefaultedFields []string
}

var (
	trailingQuestionRe = regexp.MustCompile(`\?+$`)
	trailingBangRe     = regexp.MustCompile(`!+$`)
	multiSpaceRe       = regexp.MustCompile(`\s+`)
)

// CleanClaim normalizes a claim for display: whitespace collapses to single
// spaces, trailing runs of "?" collapse to one, and trailing "!" runs are
// dropped. Punctuation stripping can expose another trailing run (as in
// "a??!!" or "a ?? !"), so the rules are applied to a fixpoint; cleaning an
// already-clean claim changes nothing.
func CleanClaim(text string) string {
	s := multiSpaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	for {
		next := trailingQuestionRe.ReplaceAllString(s, "?")
		next = trailingBangRe.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == s {
			return s
		}
		s = next
	}
}

// decodeStructured parses the structuring model's raw text into a Structured
// fragment. Parsing is attempted directly after stripping code fences, then
// against the first {...last } substring. claim supplies the cleanedClaim
// default.
func decodeStructured(raw, claim string) (*Structured, error) {
	obj, err := parseJSONFlexible(raw)
	if err != nil {
		return nil, err
	}

	s := &Structured{}

	if v, ok := asString(obj["cleanedClaim"]); ok && v != "" {
		s.CleanedClaim = v
	} else {
		s.CleanedClaim = CleanClaim(claim)
		s.DefaultedFields = append(s.DefaultedFields, "cleanedClaim")
	}

	if v, ok := asString(obj["verdict"]); ok && models.ParseVerdict(v) == models.Verdict(v) {
		s.Verdict = models.Verdict(v)
	} else {
		s.Verdict = models.VerdictUnverified
		s.DefaultedFields = append(s.DefaultedFields, "verdict")
	}

	if v, ok := asIntNumber(obj["confidence"]); ok {
		s.Confidence = clamp(v, 0, 100)
	} else {
		s.Confidence = 50
		s.DefaultedFields = append(s.DefaultedFields, "confidence")
	}

	if v, ok := asString(obj["summary"]); ok && v != "" {
		s.Summary = v
	} else {
		s.Summary = fallbackSummary
		s.DefaultedFields = append(s.DefaultedFields, "summary")
	}

	rawSources, ok := obj["sources"].([]any)
	if !ok {
		if obj["sources"] != nil {
			s.DefaultedFields = append(s.DefaultedFields, "sources")
		}
		rawSources = nil
	}
	s.Sources = make([]models.Source, 0, len(rawSources))
	for _, rs := range rawSources {
		fields, ok := rs.(map[string]any)
		if !ok {
			continue
		}
		s.Sources = append(s.Sources, coerceSource(fields))
	}

	return s, nil
}

// coerceSource applies per-field defaults to one source entry.
func coerceSource(fields map[string]any) models.Source {
	src := models.Source{
		Title:            stringOr(fields["title"], "Source"),
		Source:           stringOr(fields["source"], "Unknown"),
		URL:              stringOr(fields["url"], ""),
		PublishedAt:      stringOr(fields["publishedAt"], time.Now().UTC().Format("2006-01-02")),
		Snippet:          stringOr(fields["snippet"], ""),
		ReliabilityScore: 60,
	}
	if n, ok := asInt(fields["reliabilityScore"]); ok {
		src.ReliabilityScore = clamp(n, 0, 100)
	}
	return src
}

// parseJSONFlexible strips surrounding markdown code fences, then decodes;
// on failure it retries against the first-{ to last-} substring.
func parseJSONFlexible(raw string) (map[string]any, error) {
	cleaned := stripCodeFences(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil {
		return obj, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, ErrMalformedOutput
}

var codeFenceOpenRe = regexp.MustCompile("(?m)^```[a-zA-Z]*\n")

func stripCodeFences(raw string) string {
	s := codeFenceOpenRe.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asIntNumber accepts only JSON numbers with integral values. Confidence uses
// this stricter reading; a string-typed confidence counts as absent.
func asIntNumber(v any) (int, bool) {
	n, ok := v.(float64)
	if !ok || math.Trunc(n) != n || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return int(n), true
}

// asInt additionally accepts numeric strings, matching the looser coercion
// applied to source reliability scores.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return asIntNumber(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.Trunc(f) != f {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

// stringOr stringifies v, falling back to def when v is absent or empty.
func stringOr(v any, def string) string {
	switch s := v.(type) {
	case nil:
		return def
	case string:
		if s == "" {
			return def
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
