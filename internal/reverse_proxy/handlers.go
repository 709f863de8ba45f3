package reverse_proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/eagraf/porch/core/rules"
)

// RuleHandler pairs a rule's matching logic with the handler that serves it.
type RuleHandler interface {
	Match(url *url.URL) bool
	Handler() http.Handler
	Rule() rules.Rule
}

// handlerFromRule finds the correct rule handler type for a rule. Relative
// file server targets are resolved against baseFilePath.
func handlerFromRule(rule rules.Rule, baseFilePath string, errorPages *ErrorPages) (RuleHandler, error) {
	switch rule.Type {
	case rules.TypeFileServer:
		root := rule.Target
		if !filepath.IsAbs(root) && baseFilePath != "" {
			root = filepath.Join(baseFilePath, root)
		}
		return &FileServerRule{rule: rule, root: root}, nil
	case rules.TypeProxy:
		return newProxyRule(rule, errorPages)
	default:
		return nil, fmt.Errorf("rule type %s is not supported", rule.Type)
	}
}
