// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"sync"
	"time"

	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/pkg/uuid"
)

// # Options

// Option configures a [Store].
type Option func(*Store)

// WithIDGenerator replaces the UUIDv7 block id generator.
func WithIDGenerator(newID func() string) Option {
	return func(store *Store) {
		store.newID = newID
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(store *Store) {
		store.now = now
	}
}

// WithChangeHook registers fn to run after every edit that marks the draft
// dirty. It is called without the store lock held.
func WithChangeHook(fn func()) Option {
	return func(store *Store) {
		store.onChange = fn
	}
}

// # Store

/*
Store owns the current [Document] of one editing client.

Edits are applied as Document transitions under a mutex, since the autosave
flush reads the draft from the timer goroutine. Every edit that changes the
draft marks it dirty and calls the change hook.
*/
type Store struct {
	mu        sync.Mutex
	doc       Document
	saving    bool
	lastSaved time.Time

	newID    func() string
	now      func() time.Time
	onChange func()
}

// NewStore returns an empty store with no article loaded.
func NewStore(opts ...Option) *Store {
	store := &Store{
		newID: uuid.New,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// # Lifecycle

// CreateNewArticle starts a fresh unsaved draft (id 0) dated today with a
// single empty paragraph. Clears dirty and last-saved. The change hook is
// not called.
func (store *Store) CreateNewArticle() {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.doc = newDocument(store.doc.Version+1, store.now(), store.newID())
	store.lastSaved = time.Time{}
}

// LoadArticle replaces the draft with a fetched article. A date carrying a
// time part is cut to the date. Clears dirty; last-saved becomes the
// article's update time. The change hook is not called.
func (store *Store) LoadArticle(a *article.Article) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.doc = loadedDocument(store.doc.Version+1, a, store.newID())
	store.lastSaved = a.UpdatedAt
}

// # Metadata

// UpdateMetadata merges the non-nil fields of patch into the article.
// No-op when no article is loaded. Blocks are edited through the block
// operations, so patch.Content is ignored.
func (store *Store) UpdateMetadata(patch article.Patch) {
	store.apply(func(d Document) (Document, bool) {
		return d.withMetadata(patch)
	})
}

// # Block Operations

// AddBlock inserts a default block of kind after afterID, or at the end
// when afterID is empty or unknown, and returns its id.
func (store *Store) AddBlock(afterID string, kind content.BlockType) (string, error) {
	id := store.newID()
	block, err := content.NewBlock(kind, id)
	if err != nil {
		return "", err
	}

	store.apply(func(d Document) (Document, bool) {
		return d.withBlockAfter(afterID, block), true
	})
	return id, nil
}

// UpdateBlock merges the fields of patch that apply to the block's variant.
// The variant never changes. Reports whether the block was found.
func (store *Store) UpdateBlock(id string, patch content.BlockPatch) bool {
	return store.apply(func(d Document) (Document, bool) {
		return d.withBlockPatched(id, patch)
	})
}

// ReplaceBlock swaps the block for a default block of another kind at the
// same position. The replacement gets a new id, returned with ok=false when
// id is unknown.
func (store *Store) ReplaceBlock(id string, kind content.BlockType) (newID string, ok bool, err error) {
	newID = store.newID()
	block, err := content.NewBlock(kind, newID)
	if err != nil {
		return "", false, err
	}

	ok = store.apply(func(d Document) (Document, bool) {
		return d.withBlockReplaced(id, block)
	})
	if !ok {
		return "", false, nil
	}
	return newID, true, nil
}

// DeleteBlock removes a block unless it is the only one left.
func (store *Store) DeleteBlock(id string) bool {
	return store.apply(func(d Document) (Document, bool) {
		return d.withBlockDeleted(id)
	})
}

// DuplicateBlock inserts a deep copy with a fresh id right after the original.
func (store *Store) DuplicateBlock(id string) (string, bool) {
	newID := store.newID()
	ok := store.apply(func(d Document) (Document, bool) {
		return d.withBlockDuplicated(id, newID)
	})
	if !ok {
		return "", false
	}
	return newID, true
}

// MoveBlock moves fromID to the index toID occupies before the move.
// No-op when the ids are equal or either is unknown.
func (store *Store) MoveBlock(fromID, toID string) bool {
	return store.apply(func(d Document) (Document, bool) {
		return d.withBlockMoved(fromID, toID)
	})
}

// ReplaceBlocks swaps in a whole block list, as when importing a file.
func (store *Store) ReplaceBlocks(blocks []content.Block) {
	fallbackID := store.newID()
	store.apply(func(d Document) (Document, bool) {
		return d.withBlocks(blocks, fallbackID), true
	})
}

// # Accessors

// Content returns a deep copy of the current blocks.
func (store *Store) Content() content.ArticleContent {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.doc.Content()
}

// Snapshot returns a deep copy of the current document.
func (store *Store) Snapshot() Document {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.doc.Clone()
}

// Dirty reports unsaved edits.
func (store *Store) Dirty() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.doc.Dirty
}

// Saving reports whether a save is in progress.
func (store *Store) Saving() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.saving
}

// LastSaved returns the time of the last successful save, zero if none.
func (store *Store) LastSaved() time.Time {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.lastSaved
}

// # Save Bookkeeping

// beginSave snapshots a stored, dirty draft and marks it saving.
// ok is false when there is nothing the autosave may write.
func (store *Store) beginSave() (Document, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if !store.doc.Loaded() || !store.doc.Dirty || store.doc.Article.IsNew() {
		return Document{}, false
	}
	store.saving = true
	return store.doc.Clone(), true
}

// beginCreate snapshots an unsaved (id 0) draft and marks it saving.
func (store *Store) beginCreate() (Document, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if !store.doc.Loaded() || !store.doc.Article.IsNew() {
		return Document{}, false
	}
	store.saving = true
	return store.doc.Clone(), true
}

// finishSave ends a save of the given version. On success the draft is
// clean again only if nothing was edited since the snapshot was taken.
func (store *Store) finishSave(version uint64, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.saving = false
	if err != nil {
		return
	}
	store.lastSaved = store.now()
	if store.doc.Version == version {
		store.doc.Dirty = false
	}
}

// assignID records the id returned by the first create. The draft version
// is kept so a concurrent finishSave still matches.
func (store *Store) assignID(id int64) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.doc.Loaded() && store.doc.Article.IsNew() {
		meta := store.doc.Article.Clone()
		meta.ID = id
		store.doc.Article = meta
	}
}

func (store *Store) apply(transition func(Document) (Document, bool)) bool {
	store.mu.Lock()
	next, changed := transition(store.doc)
	if changed {
		store.doc = next
	}
	hook := store.onChange
	store.mu.Unlock()

	if changed && hook != nil {
		hook()
	}
	return changed
}
