// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package render

import (
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	embedSrc   = regexp.MustCompile(`^https://(www\.youtube\.com/embed/[\w-]{11}|player\.vimeo\.com/video/\d+)$`)
	allowToken = regexp.MustCompile(`^(([\p{L}\p{N}_-]+)(; )?)+$`)
)

// Sanitizer filters rendered HTML before it is served.
//
// The policy is bluemonday's UGC policy plus class attributes (for the style
// and highlighting classes) and iframes whose src is a YouTube or Vimeo player.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer with the article policy.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()

	p.AllowElements("iframe")
	p.AllowAttrs("src").Matching(embedSrc).OnElements("iframe")
	p.AllowAttrs("frameborder").Matching(bluemonday.Integer).OnElements("iframe")
	p.AllowAttrs("allow").Matching(allowToken).OnElements("iframe")
	p.AllowAttrs("allowfullscreen").OnElements("iframe")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^(lazy|eager)$`)).OnElements("img")

	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{policy: p}
}

// Sanitize returns fragment with everything outside the policy removed.
func (s *Sanitizer) Sanitize(fragment template.HTML) template.HTML {
	return template.HTML(s.policy.Sanitize(string(fragment)))
}
