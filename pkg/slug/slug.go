// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs for articles.
//
// [From] derives a slug from a talk title ("Go at Scale" → "go-at-scale").
// [Sanitize] cleans what an editor typed into the slug field as they type it:
// lowercase, with anything outside [a-z0-9-] dropped rather than replaced.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Lowercases.
// 3. Replaces every run of other characters with a hyphen.
// 4. Collapses and trims hyphens.
func From(s string) string {
	result := stripAccents(s)
	result = strings.ToLower(result)

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Sanitize lowercases s and drops every character outside [a-z0-9-].
//
// Unlike [From] it never inserts hyphens, so typing "My Talk" yields
// "mytalk". Accents are stripped first so "Café" keeps its e.
func Sanitize(s string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(stripAccents(s)), "")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)
	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
