// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"fmt"
	"strings"

	"github.com/taibuivan/confkb/internal/platform/apperr"
)

// Validate reports structural problems: missing or duplicate ids and
// out-of-range enum values. Unsupported blocks are accepted as stored.
func (c ArticleContent) Validate() []apperr.FieldError {
	var errs []apperr.FieldError
	seen := make(map[string]int, len(c.Blocks))

	for i, b := range c.Blocks {
		field := fmt.Sprintf("content.blocks[%d]", i)

		if b == nil {
			errs = append(errs, apperr.FieldError{Field: field, Message: "Block is empty"})
			continue
		}

		id := b.BlockID()
		if strings.TrimSpace(id) == "" {
			errs = append(errs, apperr.FieldError{Field: field + ".id", Message: "Block id is required"})
		} else if first, dup := seen[id]; dup {
			errs = append(errs, apperr.FieldError{
				Field:   field + ".id",
				Message: fmt.Sprintf("Duplicate block id %q (also used by block %d)", id, first),
			})
		} else {
			seen[id] = i
		}

		for _, msg := range Match[[]string](b, checker{}) {
			errs = append(errs, apperr.FieldError{Field: field, Message: msg})
		}
	}

	return errs
}

type checker struct{}

func (checker) Heading(b Heading) []string {
	if b.Level < 1 || b.Level > 3 {
		return []string{"Heading level must be 1, 2 or 3"}
	}
	return styleErrors(b.Content)
}

func (checker) Paragraph(b Paragraph) []string { return styleErrors(b.Content) }
func (checker) Code(Code) []string { return nil }

func (checker) List(b List) []string {
	var out []string
	if !b.ListType.IsValid() {
		out = append(out, "List type must be bullet, numbered or checkbox")
	}
	for _, item := range b.Items {
		out = append(out, styleErrors(item)...)
	}
	return out
}

func (checker) Callout(b Callout) []string {
	if !b.Variant.IsValid() {
		return []string{"Callout variant must be info, warning, error or success"}
	}
	return styleErrors(b.Content)
}

func (checker) Image(Image) []string { return nil }

func (checker) Video(b Video) []string {
	if !b.Platform.IsValid() {
		return []string{"Video platform must be youtube or vimeo"}
	}
	return nil
}

func (checker) Unsupported(Unsupported) []string { return nil }

func styleErrors(r RichText) []string {
	for _, s := range r.SegmentList() {
		if s.Styles == nil {
			continue
		}
		if !s.Styles.Color.IsValid() || !s.Styles.BackgroundColor.IsValid() {
			return []string{"Text color must be a palette color"}
		}
	}
	return nil
}
