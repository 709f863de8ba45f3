package reverse_proxy

import (
	"fmt"
	"net/url"

	"github.com/eagraf/porch/core/rules"
)

// RuleSet is an ordered route rule table. Rules are evaluated in declaration
// order and the first match wins. The set is assembled once at startup and
// never mutated afterwards, so request handlers can read it without locking.
type RuleSet struct {
	handlers []RuleHandler
	ids      map[string]struct{}
}

// NewRuleSet validates the rule table and builds a handler for every rule.
// Exactly one fallback rule with matcher "/" must be present.
func NewRuleSet(set []rules.Rule, baseFilePath string, errorPages *ErrorPages) (*RuleSet, error) {
	if err := rules.ValidateSet(set); err != nil {
		return nil, err
	}
	rs := &RuleSet{
		ids: make(map[string]struct{}, len(set)),
	}
	for _, rule := range set {
		handler, err := handlerFromRule(rule, baseFilePath, errorPages)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		if err := rs.add(handler); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

func (rs *RuleSet) add(handler RuleHandler) error {
	id := handler.Rule().ID
	if _, ok := rs.ids[id]; ok {
		return fmt.Errorf("rule with id %s is already present", id)
	}
	rs.ids[id] = struct{}{}
	rs.handlers = append(rs.handlers, handler)
	return nil
}

// Match returns the first rule handler matching the URL, or nil when none does.
func (rs *RuleSet) Match(url *url.URL) RuleHandler {
	for _, handler := range rs.handlers {
		if handler.Match(url) {
			return handler
		}
	}
	return nil
}

// Rules returns the rule table in evaluation order.
func (rs *RuleSet) Rules() []rules.Rule {
	out := make([]rules.Rule, 0, len(rs.handlers))
	for _, handler := range rs.handlers {
		out = append(out, handler.Rule())
	}
	return out
}

func (rs *RuleSet) Len() int {
	return len(rs.handlers)
}
