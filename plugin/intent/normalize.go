package intent

import "strings"

// Normalize produces the canonical comparison form of an utterance: trimmed
// of surrounding whitespace and case-folded. Internal whitespace runs are
// preserved because multi-word patterns depend on them. Idempotent.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Utterance carries both the raw text (for echoing and original-case
// parameter extraction) and its normalized comparison form.
type Utterance struct {
	Raw        string
	Normalized string
}

// NewUtterance derives the normalized form from raw. Raw keeps its original
// casing but is trimmed so that pattern offsets line up with the normalized
// text when extractors re-run a pattern against it.
func NewUtterance(raw string) Utterance {
	return Utterance{
		Raw:        strings.TrimSpace(raw),
		Normalized: Normalize(raw),
	}
}
