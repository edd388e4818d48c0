// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/autosave"
)

var (
	// ErrNoArticle is returned when saving before a draft was created or loaded.
	ErrNoArticle = errors.New("editor: no article loaded")

	// ErrNoToken is returned when an explicit operation needs a credential.
	ErrNoToken = errors.New("editor: not authenticated")
)

// # Collaborators

// Backend is the admin article API as seen by the editor.
type Backend interface {
	CreateArticle(ctx context.Context, token string, a *article.Article) (int64, error)
	UpdateArticle(ctx context.Context, token string, id int64, patch article.Patch) (*article.Article, error)
	GetArticle(ctx context.Context, token string, id int64) (*article.Article, error)
}

// TokenSource supplies the bearer credential. ok is false when signed out.
type TokenSource interface {
	Token() (token string, ok bool)
}

// StaticToken is a fixed credential. The empty string means signed out.
type StaticToken string

// Token implements [TokenSource].
func (t StaticToken) Token() (string, bool) {
	return string(t), t != ""
}

// # Session

// SessionOptions tunes a [Session]. The zero value is usable.
type SessionOptions struct {
	Store    []Option
	Autosave []autosave.Option
	Logger   *slog.Logger
}

/*
Session ties a [Store] to the autosave scheduler and the admin API.

Every edit re-arms the debounce timer. When it fires, the whole draft is sent
as a partial update covering every field. A draft that was never stored
(id 0) is not autosaved: [Session.SaveNow] creates it first.
*/
type Session struct {
	store     *Store
	scheduler *autosave.Scheduler
	backend   Backend
	tokens    TokenSource
	logger    *slog.Logger

	createMu sync.Mutex
}

// NewSession wires a new store, scheduler and backend together.
func NewSession(backend Backend, tokens TokenSource, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	session := &Session{
		backend: backend,
		tokens:  tokens,
		logger:  logger,
	}

	schedulerOpts := append([]autosave.Option{autosave.WithLogger(logger)}, opts.Autosave...)
	session.scheduler = autosave.New(session.flush, schedulerOpts...)

	storeOpts := append(append([]Option{}, opts.Store...), WithChangeHook(session.scheduler.MarkDirty))
	session.store = NewStore(storeOpts...)

	return session
}

// Store returns the draft being edited.
func (session *Session) Store() *Store {
	return session.store
}

// New starts an empty unsaved draft.
func (session *Session) New() {
	session.store.CreateNewArticle()
}

// Open loads article id from the backend into the store.
func (session *Session) Open(ctx context.Context, id int64) error {
	token, ok := session.tokens.Token()
	if !ok {
		return ErrNoToken
	}

	a, err := session.backend.GetArticle(ctx, token, id)
	if err != nil {
		return fmt.Errorf("editor: open article %d: %w", id, err)
	}

	session.store.LoadArticle(a)
	return nil
}

/*
SaveNow saves immediately.

Description: an unsaved draft is created through the backend and takes the
returned id, after which autosave applies to it. A stored draft is flushed
at once through the scheduler, cancelling the pending timer.

Returns:
  - error: ErrNoArticle, ErrNoToken or the backend failure
*/
func (session *Session) SaveNow(ctx context.Context) error {
	doc := session.store.Snapshot()
	if !doc.Loaded() {
		return ErrNoArticle
	}
	if _, ok := session.tokens.Token(); !ok {
		return ErrNoToken
	}
	if doc.Article.IsNew() {
		return session.create(ctx)
	}
	return session.scheduler.FlushNow(ctx)
}

// Close saves outstanding edits of a stored draft, then stops the timer and
// waits for any in-flight flush.
func (session *Session) Close(ctx context.Context) error {
	var err error
	if session.store.Dirty() {
		err = session.scheduler.FlushNow(ctx)
	}
	session.scheduler.Close()
	return err
}

// # Internals

func (session *Session) create(ctx context.Context) error {
	session.createMu.Lock()
	defer session.createMu.Unlock()

	token, ok := session.tokens.Token()
	if !ok {
		return ErrNoToken
	}

	doc, ok := session.store.beginCreate()
	if !ok {
		// Created by a concurrent SaveNow.
		return session.scheduler.FlushNow(ctx)
	}

	draft := doc.Article.Clone()
	body := doc.Content()
	draft.Content = &body

	id, err := session.backend.CreateArticle(ctx, token, draft)
	if err != nil {
		session.store.finishSave(doc.Version, err)
		return fmt.Errorf("editor: create article: %w", err)
	}

	session.store.assignID(id)
	session.store.finishSave(doc.Version, nil)
	session.logger.InfoContext(ctx, "editor_article_created", slog.Int64("article_id", id))

	// Edits made while the create was in flight are now eligible for autosave.
	if session.store.Dirty() {
		session.scheduler.MarkDirty()
	}
	return nil
}

// flush is the scheduler callback. It is a no-op without a token, without
// a stored dirty draft, or while the draft still has id 0.
func (session *Session) flush(ctx context.Context) error {
	token, ok := session.tokens.Token()
	if !ok {
		return nil
	}

	doc, ok := session.store.beginSave()
	if !ok {
		return nil
	}

	patch := article.FullPatch(doc.Article)
	body := doc.Content()
	patch.Content = &body

	_, err := session.backend.UpdateArticle(ctx, token, doc.Article.ID, patch)
	session.store.finishSave(doc.Version, err)
	if err != nil {
		return fmt.Errorf("editor: save article %d: %w", doc.Article.ID, err)
	}

	session.logger.DebugContext(ctx, "editor_article_saved",
		slog.Int64("article_id", doc.Article.ID),
		slog.Uint64("version", doc.Version),
	)
	return nil
}
