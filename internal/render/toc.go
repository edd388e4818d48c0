// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package render

import (
	"strings"

	"github.com/taibuivan/confkb/internal/content"
)

// TocItem is one table-of-contents entry. ID is the heading block id, which
// is also the HTML anchor produced by [Block].
type TocItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// TableOfContents lists the headings of blocks in document order.
// Headings with no visible text are skipped.
func TableOfContents(blocks []content.Block) []TocItem {
	items := []TocItem{}
	for _, b := range blocks {
		heading, ok := b.(content.Heading)
		if !ok {
			continue
		}
		text := strings.TrimSpace(heading.Content.Text())
		if text == "" {
			continue
		}
		items = append(items, TocItem{ID: heading.ID, Text: text, Level: heading.Level})
	}
	return items
}
