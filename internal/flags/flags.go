// Package flags holds boolean feature switches read from the "flags" config
// section. Unknown flags are off.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/splice/internal/log"
)

// Flag names.
const (
	// FlagStepSpans opens a span for every modification step, not just the
	// command and its undo group.
	FlagStepSpans = "step-spans"

	// FlagRestoreSelection makes undo restore the selection of every command,
	// not only --atomic ones.
	FlagRestoreSelection = "restore-selection"
)

// Known lists every flag splice reads.
var Known = []string{FlagStepSpans, FlagRestoreSelection}

// Registry is a read-only snapshot of flag state. A nil *Registry has every
// flag off.
type Registry struct {
	flags map[string]bool
}

// New copies flags into a Registry and warns about names splice does not read.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)

	if unknown := r.Unknown(); len(unknown) > 0 {
		log.Warn(log.CatConfig, "Ignoring unknown feature flags", "flags", unknown)
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "flags", r.flags)
	return r
}

// Enabled reports whether the named flag is on.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of the configured flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Unknown returns the configured names missing from Known, sorted.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	var unknown []string
	for name := range r.flags {
		if !slices.Contains(Known, name) {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return unknown
}
