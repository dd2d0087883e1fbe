/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package store is the single gate every project mutation passes through.
// Apply captures whole-project snapshot pairs, which makes undo/redo a pure
// stack exchange: no per-edit inverse operations, no stale references, no
// undo registration scattered across call sites.
//
// The store is single-writer by contract. Apply, Undo, Redo and Replace
// must be called from one controller context; there is no internal locking
// because concurrent mutation is a caller error, not a condition the store
// detects. Exports read an already-captured snapshot and never call back in.
package store

import (
	"log/slog"

	"goshotdesigner/internal/domain"
	applog "goshotdesigner/internal/log"
)

// Transform produces the next project value from the current one. It must
// be pure: a function only of the snapshot it receives, with no reliance on
// outside mutable state, so that stored snapshot pairs replay exactly. The
// store hands it a private clone and never re-runs it.
type Transform func(domain.Project) domain.Project

// Entry is one undoable step: the full snapshots on either side of a
// transform plus a host-facing label ("Undo <label>"). The label carries no
// other semantics.
type Entry struct {
	Before domain.Project
	After  domain.Project
	Label  string
}

// Listener observes state changes; it receives a clone of the new snapshot
// after every apply, undo, redo and replace. Mutating the clone does not
// touch store state.
type Listener func(domain.Project)

// Store holds the current project snapshot and its undo/redo history.
// History lives in memory only and is unbounded; it resets on Replace.
type Store struct {
	current   domain.Project
	undo      []Entry
	redo      []Entry
	listeners []Listener
	log       *slog.Logger
}

// New creates a store owning a clone of the given project.
func New(p domain.Project) *Store {
	return &Store{current: p.Clone(), log: applog.WithComponent("store")}
}

// Current returns a clone of the current snapshot.
func (s *Store) Current() domain.Project { return s.current.Clone() }

// Subscribe registers a listener for state changes. Listeners run
// synchronously on the mutating call, in registration order.
func (s *Store) Subscribe(fn Listener) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// Apply runs transform against the current snapshot. A structurally equal
// result is a no-op: no history entry, no notification, so UI bindings
// re-firing unchanged values cannot pollute the undo stack. Otherwise the
// (before, after, label) pair is pushed, the redo stack clears, and
// listeners fire. Reports whether the project changed.
func (s *Store) Apply(label string, transform Transform) bool {
	before := s.current
	after := transform(before.Clone())
	if after.Equal(before) {
		return false
	}
	s.undo = append(s.undo, Entry{Before: before, After: after, Label: label})
	s.redo = nil
	s.current = after
	s.log.Debug("apply", slog.String("label", label), slog.Int("undo_depth", len(s.undo)))
	s.notify()
	return true
}

// Undo steps back one entry. An empty stack is a silent no-op (false).
func (s *Store) Undo() bool {
	n := len(s.undo)
	if n == 0 {
		return false
	}
	e := s.undo[n-1]
	s.undo = s.undo[:n-1]
	s.redo = append(s.redo, e)
	s.current = e.Before
	s.log.Debug("undo", slog.String("label", e.Label), slog.Int("undo_depth", len(s.undo)))
	s.notify()
	return true
}

// Redo reinstates the most recently undone entry, restoring its exact
// after-snapshot. An empty stack is a silent no-op (false).
func (s *Store) Redo() bool {
	n := len(s.redo)
	if n == 0 {
		return false
	}
	e := s.redo[n-1]
	s.redo = s.redo[:n-1]
	s.undo = append(s.undo, e)
	s.current = e.After
	s.log.Debug("redo", slog.String("label", e.Label), slog.Int("undo_depth", len(s.undo)))
	s.notify()
	return true
}

// Replace swaps in a freshly loaded project and clears both stacks. It
// notifies listeners but records no history entry.
func (s *Store) Replace(p domain.Project) {
	s.current = p.Clone()
	s.undo = nil
	s.redo = nil
	s.log.Debug("replace", slog.String("project", p.ID))
	s.notify()
}

// CanUndo reports whether an undo step exists.
func (s *Store) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo step exists.
func (s *Store) CanRedo() bool { return len(s.redo) > 0 }

// UndoLabel names the step Undo would revert.
func (s *Store) UndoLabel() (string, bool) {
	if n := len(s.undo); n > 0 {
		return s.undo[n-1].Label, true
	}
	return "", false
}

// RedoLabel names the step Redo would reinstate.
func (s *Store) RedoLabel() (string, bool) {
	if n := len(s.redo); n > 0 {
		return s.redo[n-1].Label, true
	}
	return "", false
}

// Depths returns the undo and redo stack sizes.
func (s *Store) Depths() (int, int) { return len(s.undo), len(s.redo) }

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn(s.current.Clone())
	}
}
