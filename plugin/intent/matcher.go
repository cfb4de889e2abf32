package intent

import (
	"log/slog"
	"regexp"
)

// Matcher evaluates the rule table against utterances. The table and the
// category index are fixed at construction and never mutated, so a Matcher
// is safe for reuse across utterances.
type Matcher struct {
	rules []Rule
	index *CategoryIndex
}

// NewMatcher builds a matcher over the default rule table and category index.
func NewMatcher() *Matcher {
	return &Matcher{rules: DefaultRules(), index: NewCategoryIndex()}
}

// NewMatcherWithRules builds a matcher over a custom table. Used by tests
// that probe ordering behavior.
func NewMatcherWithRules(rules []Rule, index *CategoryIndex) *Matcher {
	if index == nil {
		index = NewCategoryIndex()
	}
	return &Matcher{rules: rules, index: index}
}

// Index exposes the category index for dispatch-side URL resolution.
func (m *Matcher) Index() *CategoryIndex { return m.index }

// Resolve walks the table in declared order and returns the first rule that
// matches the normalized utterance and is not vetoed by its guard. Generic
// open matches whose name belongs to the web-only category are re-routed to
// open_website before the result is returned. Deterministic: same table,
// same utterance, same result.
func (m *Matcher) Resolve(u Utterance) MatchResult {
	for i := range m.rules {
		rule := &m.rules[i]
		pattern, sub := matchAlternatives(rule.Patterns, u.Normalized)
		if pattern == nil {
			continue
		}
		if rule.Guard != nil && rule.Guard.MatchString(u.Normalized) {
			continue
		}
		params := map[string]string{}
		if rule.Extract != nil {
			params = rule.Extract(u, pattern, sub)
			if params == nil {
				// Extractor declined; the trigger was broader than the
				// extraction pattern. Fall through to later rules.
				continue
			}
		}
		action := rule.Action
		if action == ActionOpenApp && m.index.IsWebsite(params["name"]) {
			action = ActionOpenWebsite
		}
		slog.Debug("intent resolved",
			"action", action,
			"rule", i,
			"input_len", len(u.Normalized))
		return MatchResult{Matched: true, Action: action, Params: params}
	}
	return MatchResult{}
}

// Fallback produces the Mode-dependent action for an unmatched utterance.
// It is total: every utterance ends up with exactly one action.
func (m *Matcher) Fallback(u Utterance, s Settings) MatchResult {
	if s.Mode == NormalMode {
		return MatchResult{
			Matched: true,
			Action:  ActionNormalSearch,
			Params:  map[string]string{"query": u.Raw, "engine": string(s.Engine)},
		}
	}
	return MatchResult{
		Matched: true,
		Action:  ActionChat,
		Params:  map[string]string{"message": u.Raw, "model": s.Model},
	}
}

// Route resolves an utterance and applies the fallback when no rule fires.
func (m *Matcher) Route(u Utterance, s Settings) MatchResult {
	if r := m.Resolve(u); r.Matched {
		return r
	}
	return m.Fallback(u, s)
}

// matchAlternatives tries each alternative in sub-order and returns the
// first that matches, with its submatches.
func matchAlternatives(patterns []*regexp.Regexp, text string) (*regexp.Regexp, []string) {
	for _, p := range patterns {
		if sub := p.FindStringSubmatch(text); sub != nil {
			return p, sub
		}
	}
	return nil, nil
}
