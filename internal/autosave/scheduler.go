// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package autosave debounces edits into background flushes.

Every [Scheduler.MarkDirty] restarts a single timer. When the timer fires the
flush runs; a fire that lands while a flush is still running sets one pending
slot, and exactly one more flush runs after the current one completes.
Two flushes never overlap.

Usage:

	s := autosave.New(session.flush, autosave.WithLogger(logger))
	defer s.Close()

	s.MarkDirty() // after every edit
*/
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDelay is the quiet period after the last edit before a flush.
const DefaultDelay = 2 * time.Second

// FlushFunc persists the current state. It is never called concurrently.
type FlushFunc func(ctx context.Context) error

// Timer is the handle returned by an [AfterFunc].
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d. [time.AfterFunc] is the default.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// # Options

// Option configures a [Scheduler].
type Option func(*Scheduler)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithAfterFunc replaces the timer source. Tests use it to fire timers by hand.
func WithAfterFunc(after AfterFunc) Option {
	return func(s *Scheduler) {
		if after != nil {
			s.after = after
		}
	}
}

// WithLogger sets the logger used for failed flushes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// # Scheduler

// Scheduler owns one debounce timer, an in-flight flag and a single-slot
// pending flag. It is safe for concurrent use.
type Scheduler struct {
	flush  FlushFunc
	delay  time.Duration
	after  AfterFunc
	logger *slog.Logger

	mu   sync.Mutex
	idle *sync.Cond // signalled when inFlight drops to false

	timer      Timer
	generation uint64 // invalidates fires of replaced timers
	inFlight   bool
	pending    bool
	closed     bool
}

// New creates a Scheduler that calls flush after each debounce window.
func New(flush FlushFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		flush:  flush,
		delay:  DefaultDelay,
		after:  realAfterFunc,
		logger: slog.Default(),
	}
	s.idle = sync.NewCond(&s.mu)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the configured debounce window.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// MarkDirty cancels any pending timer and starts a new one.
// Calls after [Scheduler.Close] are ignored.
func (s *Scheduler) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.stopTimerLocked()
	generation := s.generation
	s.timer = s.after(s.delay, func() { s.fire(generation) })
}

// FlushNow cancels the timer, waits for any in-flight flush, then flushes
// synchronously and returns its error. A pending follow-up is absorbed by
// this flush.
func (s *Scheduler) FlushNow(ctx context.Context) error {
	s.mu.Lock()
	s.stopTimerLocked()
	for s.inFlight {
		s.idle.Wait()
	}
	s.inFlight = true
	s.pending = false
	s.mu.Unlock()

	err := s.flush(ctx)

	s.mu.Lock()
	s.inFlight = false
	s.idle.Broadcast()
	s.mu.Unlock()

	return err
}

// Close stops the timer and waits for the in-flight flush to finish.
// A pending follow-up is dropped.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pending = false
	s.stopTimerLocked()
	for s.inFlight {
		s.idle.Wait()
	}
}

// # Internals

// fire runs on the timer goroutine.
func (s *Scheduler) fire(generation uint64) {
	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	if s.inFlight {
		s.pending = true
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	s.drain()
}

// drain flushes until no follow-up is pending. Caller has set inFlight.
func (s *Scheduler) drain() {
	for {
		if err := s.flush(context.Background()); err != nil {
			s.logger.Warn("autosave_flush_failed", slog.Any("error", err))
		}

		s.mu.Lock()
		if !s.pending || s.closed {
			s.pending = false
			s.inFlight = false
			s.idle.Broadcast()
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.mu.Unlock()
	}
}

func (s *Scheduler) stopTimerLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
