package factcheck

import "fmt"

// Prompt builders are pure functions over claim and analysis text.

const evidenceSystemPrompt = `You are NewsCheck, a professional fact-checking assistant. ` +
	`Your job is to investigate the claim using current, reputable sources and provide a concise, ` +
	`well-evidenced analysis with citations. Prefer authoritative outlets, scientific/official sources, ` +
	`and well-established fact-checkers. Avoid speculation.`

// BuildEvidencePrompt returns the system and user messages for the
// evidence-gathering model.
func BuildEvidencePrompt(claim string) (system, user string) {
	user = fmt.Sprintf(`Fact-check the following claim.

Claim:
"""
%s
"""

Instructions:
- Search current, reputable sources.
- Provide a concise assessment.
- List 5-8 top sources with titles and URLs and short snippets with dates.
- Include a brief rationale.
- Keep output readable. DO NOT fabricate links.`, claim)

	return evidenceSystemPrompt, user
}

// BuildStructuringPrompt returns the single prompt instructing the
// structuring model to emit only a JSON object with the analysis fields.
func BuildStructuringPrompt(claim, analysis string) string {
	return fmt.Sprintf(`You are a JSON formatter. Transform the following fact-check analysis into EXACT JSON with this shape:

{
  "cleanedClaim": string,
  "verdict": "true" | "false" | "partial" | "unverified",
  "confidence": integer,
  "summary": string,
  "sources": [
    { "title": string, "source": string, "url": string, "publishedAt": string, "snippet": string, "reliabilityScore": integer }
  ]
}

Rules:
- Output ONLY valid JSON. No markdown.
- cleanedClaim: cleaned version of the original claim.
- verdict: one of "true" | "false" | "partial" | "unverified".
- confidence: integer 0-100 reflecting certainty.
- summary: 2-4 sentences summarizing findings.
- sources: derive 4-8 items by extracting real URLs from the analysis below; include a human-readable source name, title, short snippet and ISO date if present. reliabilityScore: 0-100 (higher for authoritative sources).
- If URLs are missing, keep sources empty array.

Original Claim:
%s

Analysis:
%s`, claim, analysis)
}

// articlePrompt synthesizes the pipeline input for a URL claim from the
// extracted article.
func articlePrompt(url, title, text string) string {
	return fmt.Sprintf("Fact-check the main assertions in this article and summarize truthfully.\nURL: %s\nTITLE: %s\nCONTENT: %s",
		url, title, text)
}
