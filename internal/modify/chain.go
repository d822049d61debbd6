// Package modify runs chains of steps against one affected range inside a
// single host-approved modification.
//
//	record, err := modify.Run(buf, buf.Selection(),
//	    modify.SelectWord(),
//	    modify.Wrap("**", "**"),
//	)
//
// After every step the chain folds the step's pending length deltas into the
// affected range, so the next step sees the range as it is now.
package modify

import (
	"fmt"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/change"
	"github.com/zjrosen/splice/internal/log"
	"github.com/zjrosen/splice/internal/textrange"
)

// Step is one operation in a chain. It returns the length deltas it caused;
// steps that do not edit return an empty record.
type Step func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error)

// Run asks buf for permission to modify r and runs steps in order.
//
// The returned record holds every delta the steps produced. On failure it
// holds the deltas of the steps that ran, and the error names the failing
// step while keeping its cause.
func Run(buf buffer.Buffer, r textrange.Range, steps ...Step) (*change.Record, error) {
	combined := &change.Record{}

	err := buf.Modifying(r, func() error {
		affected := NewAffectedRange(r)

		for i, step := range steps {
			record, err := step(buf, affected)
			if record != nil {
				affected.SetLength(affected.Length() + record.Consume())
				combined.Merge(record)
			}
			if err != nil {
				log.ErrorErr(log.CatModify, "Modification step failed", err,
					"step", i+1, "affected", affected)
				return fmt.Errorf("modify step %d: %w", i+1, err)
			}
		}

		log.Debug(log.CatModify, "Modification chain finished",
			"range", r, "affected", affected, "delta", combined.Total())
		return nil
	})

	return combined, err
}

// Nested runs steps as a sub-chain with its own affected range, seeded from
// the current one. Its net delta widens the enclosing range.
func Nested(steps ...Step) Step {
	return func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error) {
		inner, err := Run(buf, affected.Value(), steps...)
		return change.New(inner.Total()), err
	}
}
