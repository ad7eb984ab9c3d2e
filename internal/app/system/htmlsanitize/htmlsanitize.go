// Package htmlsanitize cleans user-submitted text before it is stored.
//
// Feed captions, comments and direct messages are plain text: every tag is
// stripped. Notices and long descriptions may carry light formatting and go
// through the UGC policy instead.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	strict *bluemonday.Policy
	rich   *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	once.Do(func() {
		strict = bluemonday.StrictPolicy()

		rich = bluemonday.UGCPolicy()
		rich.AllowElements("u", "s", "mark", "sub", "sup")
		rich.RequireNoFollowOnLinks(true)
		rich.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return strict, rich
}

// Text strips all markup and trims the result. Entities produced by the
// sanitizer are decoded so the stored value reads as typed.
func Text(s string) string {
	if s == "" {
		return ""
	}
	p, _ := policies()
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
}

// Rich keeps safe formatting and removes scripts, handlers and frames.
func Rich(s string) string {
	if s == "" {
		return ""
	}
	_, p := policies()
	return strings.TrimSpace(p.Sanitize(s))
}

// IsPlainText reports whether s has nothing that looks like a tag.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
