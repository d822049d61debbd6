package undo

import (
	"errors"

	"github.com/google/uuid"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/grapheme"
	"github.com/zjrosen/splice/internal/log"
	"github.com/zjrosen/splice/internal/textrange"
)

// ErrSessionClosed is returned by edits made through a closed session.
var ErrSessionClosed = errors.New("undo session closed")

// Session is a buffer decorator that registers the inverse of every insert,
// delete and replace made through it with a Manager. Reads and selection
// calls go straight to the wrapped buffer.
//
// Close must be called when the session is done, typically with defer, so
// the manager never runs an inverse against a buffer nobody owns any more.
type Session struct {
	buffer.Buffer

	manager          *Manager
	id               uuid.UUID
	restoreSelection bool
	closed           bool
}

var _ buffer.Buffer = (*Session)(nil)

// NewSession wraps buf, registering inverses with manager.
func NewSession(buf buffer.Buffer, manager *Manager) *Session {
	s := &Session{
		Buffer:  buf,
		manager: manager,
		id:      uuid.New(),
	}
	log.Debug(log.CatUndo, "Session opened", "session", s.id)
	return s
}

// ID identifies the session's entries in the manager.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Manager returns the manager the session registers with.
func (s *Session) Manager() *Manager {
	return s.manager
}

// Insert inserts content at location and registers its deletion.
func (s *Session) Insert(content string, location int) error {
	if s.closed {
		return ErrSessionClosed
	}

	sel := s.Buffer.Selection()
	if err := s.Buffer.Insert(content, location); err != nil {
		return err
	}

	inserted := textrange.New(location, grapheme.UTF16Length(content))
	s.register(sel, func() error {
		return s.Delete(inserted)
	})
	return nil
}

// Delete removes the text in r and registers its re-insertion.
func (s *Session) Delete(r textrange.Range) error {
	if s.closed {
		return ErrSessionClosed
	}

	content, err := s.Buffer.Content(r)
	if err != nil {
		return err
	}
	sel := s.Buffer.Selection()
	if err := s.Buffer.Delete(r); err != nil {
		return err
	}

	s.register(sel, func() error {
		return s.Insert(content, r.Location)
	})
	return nil
}

// Replace replaces the text in r and registers the replacement back.
func (s *Session) Replace(r textrange.Range, content string) error {
	if s.closed {
		return ErrSessionClosed
	}

	previous, err := s.Buffer.Content(r)
	if err != nil {
		return err
	}
	sel := s.Buffer.Selection()
	if err := s.Buffer.Replace(r, content); err != nil {
		return err
	}

	replaced := textrange.New(r.Location, grapheme.UTF16Length(content))
	s.register(sel, func() error {
		return s.Replace(replaced, previous)
	})
	return nil
}

// register records inverse. When selection restoration is on, a selection
// restore is recorded first so that it runs after the inverse.
func (s *Session) register(sel textrange.Range, inverse Action) {
	if s.restoreSelection {
		s.manager.Register(s.id, func() error {
			return s.Buffer.Select(sel)
		})
	}
	s.manager.Register(s.id, inverse)
}

// Grouping runs body inside one undo group named action. With
// restoreSelection, undoing the group also restores the selection each edit
// found. The group is closed on every exit path.
func (s *Session) Grouping(action string, restoreSelection bool, body func() error) (err error) {
	if s.closed {
		return ErrSessionClosed
	}

	s.manager.BeginGroup()
	if action != "" {
		s.manager.SetActionName(action)
	}

	prev := s.restoreSelection
	s.restoreSelection = restoreSelection

	defer func() {
		s.restoreSelection = prev
		if endErr := s.manager.EndGroup(); err == nil {
			err = endErr
		}
	}()

	return body()
}

// Atomically runs body in a selection-restoring group. If body fails, every
// edit it made is reverted before the error is returned, and nothing is left
// on the undo stack for it.
func (s *Session) Atomically(action string, body func() error) error {
	return s.Grouping(action, true, func() error {
		err := body()
		if err == nil {
			return nil
		}

		log.Warn(log.CatUndo, "Reverting failed group", "action", action, "error", err)
		if revertErr := s.manager.RevertOpenGroup(); revertErr != nil {
			return errors.Join(err, revertErr)
		}
		return err
	})
}

// Undo undoes the most recent group.
func (s *Session) Undo() error {
	return s.manager.Undo()
}

// Redo redoes the most recently undone group.
func (s *Session) Redo() error {
	return s.manager.Redo()
}

// Close removes every entry the session registered. Calling it again does
// nothing.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.manager.RemoveAll(s.id)
	log.Debug(log.CatUndo, "Session closed", "session", s.id)
	return nil
}
