// Package models contains shared data models used across the NewsCheck codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the closed set of fact-check outcomes.
type Verdict string

const (
	VerdictTrue       Verdict = "true"
	VerdictFalse      Verdict = "false"
	VerdictPartial    Verdict = "partial"
	VerdictUnverified Verdict = "unverified"
)

// ParseVerdict maps a raw string to a Verdict. Anything outside the four
// known values collapses to VerdictUnverified.
func ParseVerdict(s string) Verdict {
	switch Verdict(s) {
	case VerdictTrue, VerdictFalse, VerdictPartial, VerdictUnverified:
		return Verdict(s)
	default:
		return VerdictUnverified
	}
}

// Source is a single piece of supporting evidence attached to a check.
type Source struct {
	Title            string `db:"title"             json:"title"`
	Source           string `db:"source"            json:"source"`
	URL              string `db:"url"               json:"url"`
	PublishedAt      string `db:"published_at"      json:"publishedAt"`
	Snippet          string `db:"snippet"           json:"snippet"`
	ReliabilityScore int    `db:"reliability_score" json:"reliabilityScore"`
}

// ClaimAnalysis is the canonical result of one verification run.
// Immutable once assembled; sources is never nil.
type ClaimAnalysis struct {
	ID            uuid.UUID `db:"id"             json:"id"`
	OriginalClaim string    `db:"original_claim" json:"originalClaim"`
	CleanedClaim  string    `db:"cleaned_claim"  json:"cleanedClaim"`
	Verdict       Verdict   `db:"verdict"        json:"verdict"`
	Confidence    int       `db:"confidence"     json:"confidence"`
	Summary       string    `db:"summary"        json:"summary"`
	Sources       []Source  `db:"-"              json:"sources"`
	CheckedAt     time.Time `db:"checked_at"     json:"checkedAt"`
}

// HistoryItem is a persisted check as returned by the history API.
// CreatedAt is when the row was written, distinct from CheckedAt which is
// when verification completed.
type HistoryItem struct {
	ClaimAnalysis
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}
