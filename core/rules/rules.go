package rules

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Type = string

const (
	// TypeFileServer serves files from a directory subtree.
	TypeFileServer Type = "file"
	// TypeProxy forwards matched requests to an upstream address.
	TypeProxy Type = "proxy"
)

// Rule matches a URL path prefix to a target of the given type.
// There are two types of rules currently:
//  1. File server: serves files from a given directory (useful for serving static sites)
//  2. Proxy: forwards requests to an upstream address (useful for exposing backend APIs)
//
// The matcher field represents the path prefix that the rule should match.
// The semantics of the target field change depending on the type. For file servers, it
// represents the path to the directory to serve files from. For proxies, it represents
// the upstream address to forward to.
type Rule struct {
	ID      string `json:"id"      yaml:"id"      mapstructure:"id"`
	Type    Type   `json:"type"    yaml:"type"    mapstructure:"type"`
	Matcher string `json:"matcher" yaml:"matcher" mapstructure:"matcher"`
	Target  string `json:"target"  yaml:"target"  mapstructure:"target"`

	// Proxy-only options. PreserveHost keeps the client's Host header on the
	// forwarded request instead of rewriting it to the upstream's host.
	PreserveHost          bool          `json:"preserve_host,omitempty"           yaml:"preserve_host"           mapstructure:"preserve_host"`
	DialTimeout           time.Duration `json:"dial_timeout,omitempty"            yaml:"dial_timeout"            mapstructure:"dial_timeout"`
	ResponseHeaderTimeout time.Duration `json:"response_header_timeout,omitempty" yaml:"response_header_timeout" mapstructure:"response_header_timeout"`
}

// prefix is the matcher without any trailing slashes. Matching against the
// trimmed form makes "/app" and "/app/" equivalent, so both shapes work the
// way operators expect.
func (r *Rule) prefix() string {
	p := strings.TrimRight(r.Matcher, "/")
	if p == "" {
		return "/"
	}
	return p
}

// Match reports whether the rule's matcher is a prefix of path. Prefixes only
// match at path segment boundaries, so a matcher of "/app" matches "/app" and
// "/app/index.html" but not "/apple". The fallback matcher "/" matches everything.
func (r *Rule) Match(path string) bool {
	prefix := r.prefix()
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := strings.TrimPrefix(path, prefix)
	return rest == "" || strings.HasPrefix(rest, "/")
}

// StripPrefix removes the rule's matcher from the front of path. The result
// always keeps a leading slash so it can be resolved by the rule's target.
func (r *Rule) StripPrefix(path string) string {
	prefix := r.prefix()
	if prefix == "/" {
		return path
	}
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" {
		return "/"
	}
	return rest
}

// IsFallback reports whether this is the catch-all rule.
func (r *Rule) IsFallback() bool {
	return r.prefix() == "/"
}

func (r *Rule) Validate() error {
	if r.ID == "" {
		return errors.New("rule is missing an id")
	}
	if r.Type != TypeFileServer && r.Type != TypeProxy {
		return fmt.Errorf("rule type %q is not supported", r.Type)
	}
	if !strings.HasPrefix(r.Matcher, "/") {
		return fmt.Errorf("rule matcher %q must start with a slash", r.Matcher)
	}
	if r.Target == "" {
		return errors.New("rule is missing a target")
	}
	return nil
}

// ValidateSet checks the invariants that hold across a whole rule table:
// every rule is individually valid, ids are unique, and exactly one fallback
// rule with matcher "/" exists. Rules are evaluated in declaration order, so
// the caller is responsible for putting the fallback last if it should only
// catch otherwise unmatched requests.
func ValidateSet(set []Rule) error {
	seen := make(map[string]struct{}, len(set))
	fallbacks := 0
	for i := range set {
		r := &set[i]
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("rule with id %s is already present", r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.IsFallback() {
			fallbacks++
		}
	}
	if fallbacks == 0 {
		return errors.New(`rule set needs a fallback rule with matcher "/"`)
	}
	if fallbacks > 1 {
		return fmt.Errorf("rule set has %d fallback rules, want exactly one", fallbacks)
	}
	return nil
}
