package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy *bluemonday.Policy
	initOnce    sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Formatting elements mail clients render consistently.
		// No attributes, no links, no images.
		emailPolicy = bluemonday.NewPolicy()
		emailPolicy.AllowElements(
			"h1", "h2", "h3",
			"p", "br", "hr",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"blockquote", "code", "pre",
		)
	})
}

// EmailPolicy returns the allow-list used for outbound email bodies.
// The returned policy is shared and must not be modified.
func EmailPolicy() *bluemonday.Policy {
	initPolicies()
	return emailPolicy
}

// SanitizeEmailHTML removes every element and attribute outside EmailPolicy.
// Text content is kept and re-escaped.
func SanitizeEmailHTML(s string) string {
	return EmailPolicy().Sanitize(s)
}
