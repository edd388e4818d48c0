// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package editor holds the in-memory draft of one article while it is being
written, and the session glue that saves it through the admin API.

A [Document] is an immutable value: every transition returns a new Document
with a bumped Version. [Store] owns the current Document and serialises
access to it; [Session] connects a Store to an autosave scheduler and a
[Backend].
*/
package editor

import (
	"slices"
	"time"

	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/pkg/slice"
	"github.com/taibuivan/confkb/pkg/slug"
)

// # Document

// Document is one version of the draft.
//
// Article carries the metadata only; its Content is always nil. The block
// list lives in Blocks and is composed back in by [Document.Content].
type Document struct {
	Article *article.Article
	Blocks  []content.Block
	Version uint64
	Dirty   bool
}

// Loaded reports whether the document has an article.
func (d Document) Loaded() bool {
	return d.Article != nil
}

// IndexOf returns the position of the block with id, or -1.
func (d Document) IndexOf(id string) int {
	return slices.IndexFunc(d.Blocks, func(b content.Block) bool { return b.BlockID() == id })
}

// Content returns a deep copy of the block list as stored content.
func (d Document) Content() content.ArticleContent {
	return content.ArticleContent{Blocks: content.CloneAll(d.Blocks)}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	d.Article = d.Article.Clone()
	d.Blocks = content.CloneAll(d.Blocks)
	return d
}

// # Transitions

// newDocument starts a fresh, unsaved article dated now with one empty paragraph.
func newDocument(version uint64, now time.Time, firstID string) Document {
	return Document{
		Article: &article.Article{
			Year: now.Year(),
			Date: now.Format(time.DateOnly),
			Tags: []string{},
		},
		Blocks:  []content.Block{content.Paragraph{ID: firstID}},
		Version: version,
	}
}

// loadedDocument mirrors a fetched article. A missing or empty block list
// becomes a single empty paragraph so the draft always has a block.
func loadedDocument(version uint64, a *article.Article, fallbackID string) Document {
	meta := a.Clone()
	meta.Date = article.NormalizeDate(meta.Date)

	var blocks []content.Block
	if meta.Content != nil {
		blocks = meta.Content.Blocks
	}
	meta.Content = nil

	if len(blocks) == 0 {
		blocks = []content.Block{content.Paragraph{ID: fallbackID}}
	}
	return Document{Article: meta, Blocks: blocks, Version: version}
}

// touch returns a copy of d ready to be modified: a private block slice,
// the next version and the dirty mark.
func (d Document) touch() Document {
	d.Blocks = slices.Clone(d.Blocks)
	d.Version++
	d.Dirty = true
	return d
}

// withMetadata merges patch into the article. Slugs are reduced to the slug
// alphabet, tags are trimmed with empties dropped and content is ignored.
func (d Document) withMetadata(patch article.Patch) (Document, bool) {
	if !d.Loaded() {
		return d, false
	}

	patch.Content = nil
	if patch.Slug != nil {
		cleaned := slug.Sanitize(*patch.Slug)
		patch.Slug = &cleaned
	}
	if patch.Tags != nil {
		cleaned := slice.CleanStrings(*patch.Tags)
		patch.Tags = &cleaned
	}
	if patch.Date != nil {
		cleaned := article.NormalizeDate(*patch.Date)
		patch.Date = &cleaned
	}
	if patch.IsEmpty() {
		return d, false
	}

	next := d.touch()
	next.Article = d.Article.Clone()
	patch.Apply(next.Article)
	return next, true
}

// withBlockAfter inserts b right after afterID, or at the end.
func (d Document) withBlockAfter(afterID string, b content.Block) Document {
	next := d.touch()
	at := len(next.Blocks)
	if afterID != "" {
		if i := d.IndexOf(afterID); i >= 0 {
			at = i + 1
		}
	}
	next.Blocks = slices.Insert(next.Blocks, at, b)
	return next
}

func (d Document) withBlockPatched(id string, patch content.BlockPatch) (Document, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, false
	}
	next := d.touch()
	next.Blocks[i] = patch.Apply(d.Blocks[i])
	return next, true
}

func (d Document) withBlockReplaced(id string, b content.Block) (Document, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, false
	}
	next := d.touch()
	next.Blocks[i] = b
	return next, true
}

// withBlockDeleted refuses to remove the last block.
func (d Document) withBlockDeleted(id string) (Document, bool) {
	i := d.IndexOf(id)
	if i < 0 || len(d.Blocks) <= 1 {
		return d, false
	}
	next := d.touch()
	next.Blocks = slices.Delete(next.Blocks, i, i+1)
	return next, true
}

func (d Document) withBlockDuplicated(id, newID string) (Document, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return d, false
	}
	next := d.touch()
	next.Blocks = slices.Insert(next.Blocks, i+1, content.WithID(d.Blocks[i], newID))
	return next, true
}

/*
withBlockMoved moves fromID to the position toID held before the move.

The target index is taken before removal, so [A,B,C] move(A,C) gives
[B,C,A] and move(C,A) gives [C,A,B].
*/
func (d Document) withBlockMoved(fromID, toID string) (Document, bool) {
	if fromID == toID {
		return d, false
	}
	from, to := d.IndexOf(fromID), d.IndexOf(toID)
	if from < 0 || to < 0 {
		return d, false
	}

	next := d.touch()
	moved := next.Blocks[from]
	next.Blocks = slices.Delete(next.Blocks, from, from+1)
	next.Blocks = slices.Insert(next.Blocks, min(to, len(next.Blocks)), moved)
	return next, true
}

// withBlocks replaces the whole list. An empty list becomes one empty paragraph.
func (d Document) withBlocks(blocks []content.Block, fallbackID string) Document {
	next := d.touch()
	next.Blocks = content.CloneAll(blocks)
	if len(next.Blocks) == 0 {
		next.Blocks = []content.Block{content.Paragraph{ID: fallbackID}}
	}
	return next
}
