// Package undo records inverse actions in nested groups and replays them one
// group at a time.
//
// A Manager holds two stacks of closed groups. Actions registered while
// undoing form the redo group, and actions registered while redoing form the
// next undo group, so every undo can be redone and vice versa.
//
// Groups nest: a group ended inside another merges into it, so only closed
// top-level groups reach the stacks. Undo and Redo refuse to run while any
// group is open.
//
// A Session (see session.go) decorates a buffer and registers the inverse of
// every edit made through it.
package undo

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/splice/internal/log"
)

// Common errors for undo operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrGroupOpen     = errors.New("undo group still open")
	ErrNoOpenGroup   = errors.New("no undo group open")
)

// DefaultMaxLevels is the number of undo groups kept when none is configured.
const DefaultMaxLevels = 100

// Action is a registered inverse.
type Action func() error

type entry struct {
	target uuid.UUID
	action Action
}

type group struct {
	name      string
	entries   []entry
	timestamp time.Time
}

type mode uint8

const (
	modeNormal mode = iota
	modeUndoing
	modeRedoing
	modeReverting
)

// Manager is a grouped undo stack. It is not safe for concurrent use.
type Manager struct {
	undoStack []*group
	redoStack []*group
	open      []*group

	mode      mode
	maxLevels int
}

// NewManager creates a manager keeping at most maxLevels undo groups.
// Zero means unlimited; a negative value selects DefaultMaxLevels.
func NewManager(maxLevels int) *Manager {
	if maxLevels < 0 {
		maxLevels = DefaultMaxLevels
	}
	return &Manager{maxLevels: maxLevels}
}

// BeginGroup opens a group. Groups nest.
func (m *Manager) BeginGroup() {
	m.open = append(m.open, &group{timestamp: time.Now()})
}

// EndGroup closes the innermost open group. A nested group is merged into
// its parent; a top-level group with entries is pushed onto the undo stack,
// or the redo stack while undoing.
func (m *Manager) EndGroup() error {
	if len(m.open) == 0 {
		return ErrNoOpenGroup
	}

	g := m.open[len(m.open)-1]
	m.open = m.open[:len(m.open)-1]

	if len(m.open) > 0 {
		parent := m.open[len(m.open)-1]
		parent.entries = append(parent.entries, g.entries...)
		if parent.name == "" {
			parent.name = g.name
		}
		return nil
	}

	m.push(g)
	return nil
}

// GroupingLevel returns the number of open groups.
func (m *Manager) GroupingLevel() int {
	return len(m.open)
}

// SetActionName names the outermost open group. The name is reported by
// UndoActionName and RedoActionName and survives undo and redo.
func (m *Manager) SetActionName(name string) {
	if len(m.open) == 0 {
		return
	}
	m.open[0].name = name
}

// Register records action as the inverse of something target just did.
// Outside any group the action becomes a group of its own.
// Nothing is recorded while an open group is being reverted.
func (m *Manager) Register(target uuid.UUID, action Action) {
	if m.mode == modeReverting {
		return
	}

	e := entry{target: target, action: action}
	if len(m.open) > 0 {
		g := m.open[len(m.open)-1]
		g.entries = append(g.entries, e)
		return
	}

	m.push(&group{entries: []entry{e}, timestamp: time.Now()})
}

// push places a closed top-level group on the stack matching the mode.
func (m *Manager) push(g *group) {
	if len(g.entries) == 0 {
		return
	}

	switch m.mode {
	case modeUndoing:
		m.redoStack = append(m.redoStack, g)
	case modeRedoing:
		m.undoStack = append(m.undoStack, g)
		m.trim()
	default:
		m.undoStack = append(m.undoStack, g)
		m.redoStack = nil
		m.trim()
	}
}

func (m *Manager) trim() {
	if m.maxLevels > 0 && len(m.undoStack) > m.maxLevels {
		excess := len(m.undoStack) - m.maxLevels
		m.undoStack = m.undoStack[excess:]
		log.Debug(log.CatUndo, "Dropped oldest undo groups", "count", excess)
	}
}

// Undo runs the most recent undo group's actions in reverse order.
func (m *Manager) Undo() error {
	if len(m.open) > 0 {
		return ErrGroupOpen
	}
	if len(m.undoStack) == 0 {
		return ErrNothingToUndo
	}

	g := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]

	if err := m.replay(g, modeUndoing); err != nil {
		return fmt.Errorf("undo %q: %w", g.name, err)
	}
	log.Debug(log.CatUndo, "Undid group", "name", g.name, "actions", len(g.entries))
	return nil
}

// Redo runs the most recent redo group's actions in reverse order.
func (m *Manager) Redo() error {
	if len(m.open) > 0 {
		return ErrGroupOpen
	}
	if len(m.redoStack) == 0 {
		return ErrNothingToRedo
	}

	g := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]

	if err := m.replay(g, modeRedoing); err != nil {
		return fmt.Errorf("redo %q: %w", g.name, err)
	}
	log.Debug(log.CatUndo, "Redid group", "name", g.name, "actions", len(g.entries))
	return nil
}

// replay runs g's entries in reverse inside a new group carrying g's name,
// which collects the inverses they register.
func (m *Manager) replay(g *group, md mode) error {
	m.mode = md
	m.BeginGroup()
	m.SetActionName(g.name)
	defer func() {
		_ = m.EndGroup()
		m.mode = modeNormal
	}()

	for i := len(g.entries) - 1; i >= 0; i-- {
		if err := g.entries[i].action(); err != nil {
			log.ErrorErr(log.CatUndo, "Undo action failed", err, "group", g.name, "index", i)
			return err
		}
	}
	return nil
}

// RevertOpenGroup runs the innermost open group's actions in reverse without
// recording their inverses, leaving the group open and empty.
func (m *Manager) RevertOpenGroup() error {
	if len(m.open) == 0 {
		return ErrNoOpenGroup
	}

	g := m.open[len(m.open)-1]
	entries := g.entries
	g.entries = nil

	prev := m.mode
	m.mode = modeReverting
	defer func() { m.mode = prev }()

	for i := len(entries) - 1; i >= 0; i-- {
		if err := entries[i].action(); err != nil {
			return fmt.Errorf("revert %q: %w", g.name, err)
		}
	}
	log.Debug(log.CatUndo, "Reverted open group", "name", g.name, "actions", len(entries))
	return nil
}

// RemoveAll drops every entry registered by target, in closed and open
// groups alike. Groups left empty disappear from the stacks.
func (m *Manager) RemoveAll(target uuid.UUID) {
	m.undoStack = removeTarget(m.undoStack, target)
	m.redoStack = removeTarget(m.redoStack, target)
	for _, g := range m.open {
		g.entries = filterEntries(g.entries, target)
	}
}

func removeTarget(stack []*group, target uuid.UUID) []*group {
	kept := stack[:0]
	for _, g := range stack {
		g.entries = filterEntries(g.entries, target)
		if len(g.entries) > 0 {
			kept = append(kept, g)
		}
	}
	return kept
}

func filterEntries(entries []entry, target uuid.UUID) []entry {
	kept := entries[:0]
	for _, e := range entries {
		if e.target != target {
			kept = append(kept, e)
		}
	}
	return kept
}

// RemoveAllActions clears both stacks. Open groups are kept.
func (m *Manager) RemoveAllActions() {
	m.undoStack = nil
	m.redoStack = nil
}

func (m *Manager) CanUndo() bool { return len(m.open) == 0 && len(m.undoStack) > 0 }
func (m *Manager) CanRedo() bool { return len(m.open) == 0 && len(m.redoStack) > 0 }

// UndoCount returns the number of undo groups.
func (m *Manager) UndoCount() int { return len(m.undoStack) }

// RedoCount returns the number of redo groups.
func (m *Manager) RedoCount() int { return len(m.redoStack) }

// IsUndoing reports whether an undo is running.
func (m *Manager) IsUndoing() bool { return m.mode == modeUndoing }

// IsRedoing reports whether a redo is running.
func (m *Manager) IsRedoing() bool { return m.mode == modeRedoing }

// UndoActionName returns the name of the group Undo would run.
func (m *Manager) UndoActionName() string {
	if len(m.undoStack) == 0 {
		return ""
	}
	return m.undoStack[len(m.undoStack)-1].name
}

// RedoActionName returns the name of the group Redo would run.
func (m *Manager) RedoActionName() string {
	if len(m.redoStack) == 0 {
		return ""
	}
	return m.redoStack[len(m.redoStack)-1].name
}

// MaxLevels returns the undo group limit; zero means unlimited.
func (m *Manager) MaxLevels() int {
	return m.maxLevels
}

// SetMaxLevels changes the limit, dropping the oldest groups if needed.
func (m *Manager) SetMaxLevels(n int) {
	if n < 0 {
		n = DefaultMaxLevels
	}
	m.maxLevels = n
	m.trim()
}
