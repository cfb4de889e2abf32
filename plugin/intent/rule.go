package intent

import (
	"regexp"
	"strings"
)

// Extractor pulls named parameters out of a matched utterance. It receives
// the pattern that fired and its submatches against the normalized text.
// Returning nil declines the match and resolution continues with the next
// rule, which preserves the original cascade for rules whose trigger is
// broader than their extraction pattern.
type Extractor func(u Utterance, pattern *regexp.Regexp, m []string) map[string]string

// Rule pairs trigger patterns with an action. Patterns are alternatives
// tried in declared sub-order; the first that matches supplies the capture.
// Guard, when set, vetoes the rule if it matches the same normalized text —
// this is how decoy words ("bedtime" for a time rule) are excluded without a
// global disambiguating grammar.
type Rule struct {
	Action   ActionID
	Patterns []*regexp.Regexp
	Guard    *regexp.Regexp
	Extract  Extractor
}

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + expr)
}

// rawCapture re-runs pattern against the raw (original-case) text and
// returns capture group idx, falling back to the normalized submatch.
// All patterns are case-insensitive and raw is trimmed like the normalized
// form, so the same pattern fires on both.
func rawCapture(u Utterance, pattern *regexp.Regexp, m []string, idx int) string {
	if rm := pattern.FindStringSubmatch(u.Raw); rm != nil && idx < len(rm) {
		return strings.TrimSpace(rm[idx])
	}
	if idx < len(m) {
		return strings.TrimSpace(m[idx])
	}
	return ""
}

// queryExtractor extracts a single free-text parameter, preserving the
// user's original casing.
func queryExtractor(key string, idx int) Extractor {
	return func(u Utterance, pattern *regexp.Regexp, m []string) map[string]string {
		return map[string]string{key: rawCapture(u, pattern, m, idx)}
	}
}

// wholeTextExtractor uses the entire raw utterance as the parameter.
func wholeTextExtractor(key string) Extractor {
	return func(u Utterance, _ *regexp.Regexp, _ []string) map[string]string {
		return map[string]string{key: u.Raw}
	}
}

var trailingQualifier = regexp.MustCompile(`(?i)\s*(app|application|program|software)$`)

// extractOpenTarget captures the name from the generic open rule and strips
// a trailing qualifier word. Names are normalized to lower case: category
// membership and the website table are keyed on the folded form.
func extractOpenTarget(_ Utterance, _ *regexp.Regexp, m []string) map[string]string {
	name := strings.TrimSpace(m[1])
	name = strings.TrimSpace(trailingQualifier.ReplaceAllString(name, ""))
	return map[string]string{"name": name}
}

// extractSiteName captures a website name from explicit browse phrasings.
// No qualifier stripping here: "go to youtube" carries the name verbatim.
func extractSiteName(_ Utterance, _ *regexp.Regexp, m []string) map[string]string {
	return map[string]string{"name": strings.TrimSpace(m[1])}
}

// extractDaypart distinguishes the afternoon and evening greetings.
func extractDaypart(u Utterance, _ *regexp.Regexp, _ []string) map[string]string {
	if strings.Contains(u.Normalized, "afternoon") {
		return map[string]string{"daypart": "Afternoon"}
	}
	return map[string]string{"daypart": "Evening"}
}

var wikipediaWord = regexp.MustCompile(`(?i)wikipedia`)

// extractWikipediaRemainder handles bare "wikipedia" phrasings by deleting
// the first occurrence of the word and searching for what is left.
func extractWikipediaRemainder(u Utterance, _ *regexp.Regexp, _ []string) map[string]string {
	loc := wikipediaWord.FindStringIndex(u.Raw)
	q := u.Raw
	if loc != nil {
		q = u.Raw[:loc[0]] + u.Raw[loc[1]:]
	}
	return map[string]string{"query": strings.TrimSpace(q)}
}

var weatherPlace = re(`weather\s+(?:in\s+|of\s+)?(.+)`)

// extractWeatherPlace captures an optional location; a bare "weather"
// utterance yields an empty place.
func extractWeatherPlace(u Utterance, _ *regexp.Regexp, _ []string) map[string]string {
	if m := weatherPlace.FindStringSubmatch(u.Raw); m != nil {
		return map[string]string{"place": strings.TrimSpace(m[1])}
	}
	return map[string]string{"place": ""}
}

var imagePrompt = re(`(?:generate|create|draw|make)\s+(?:an?\s+)?(?:image\s+(?:of\s+)?)?(.+)`)

// extractImagePrompt declines the match when the prompt pattern does not
// fire, letting later rules (and ultimately the mode fallback) handle it.
func extractImagePrompt(u Utterance, _ *regexp.Regexp, _ []string) map[string]string {
	m := imagePrompt.FindStringSubmatch(u.Raw)
	if m == nil {
		return nil
	}
	return map[string]string{"prompt": strings.TrimSpace(m[1])}
}
