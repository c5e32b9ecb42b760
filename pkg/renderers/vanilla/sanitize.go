package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	snippetPolicyOnce sync.Once
	snippetPolicy     *bluemonday.Policy
)

// sanitizeSnippets cleans recommendation HTML and drops entries that end up
// empty.
func sanitizeSnippets(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	policy := snippetSanitizer()
	out := make([]string, 0, len(raw))
	for _, snippet := range raw {
		trimmed := strings.TrimSpace(snippet)
		if trimmed == "" {
			continue
		}
		cleaned := strings.TrimSpace(policy.Sanitize(trimmed))
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

func snippetSanitizer() *bluemonday.Policy {
	snippetPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		snippetPolicy = policy
	})
	return snippetPolicy
}
