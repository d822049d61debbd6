package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/splice/internal/change"
	"github.com/zjrosen/splice/internal/edit"
	"github.com/zjrosen/splice/internal/flags"
	"github.com/zjrosen/splice/internal/markup"
	"github.com/zjrosen/splice/internal/modify"
	"github.com/zjrosen/splice/internal/scoped"
	"github.com/zjrosen/splice/internal/textrange"
	"github.com/zjrosen/splice/internal/tracing"
	"github.com/zjrosen/splice/internal/undo"
)

// editFunc edits the session's buffer. Commands that only move the
// selection return a nil record.
type editFunc func(ctx context.Context, s *undo.Session) (*change.Record, error)

// edit parses fixture, runs body in one undo group and prints the result.
// The result is printed even when body fails so a partial edit is visible.
func (o *options) edit(cmd *cobra.Command, fixture, action string, body editFunc) error {
	return o.run(cmd, func(ctx context.Context) error {
		buf, err := markup.Parse(fixture)
		if err != nil {
			return err
		}
		before, err := markup.Format(buf)
		if err != nil {
			return err
		}

		session := undo.NewSession(buf, undo.NewManager(o.cfg.Undo.MaxLevels))
		defer session.Close()

		var record *change.Record
		editErr := tracing.Group(ctx, o.tracer, session, action, o.groupMode(), func(ctx context.Context) error {
			var err error
			record, err = body(ctx, session)
			return err
		})

		after, err := markup.Format(buf)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, after)
		if record != nil && editErr == nil {
			fmt.Fprintf(out, "delta: %+d\n", record.Total())
		}
		if o.diff {
			if d := markup.DiffFunc(before, after, o.styles.Removed, o.styles.Added); d != "" {
				fmt.Fprintln(out, "diff:", d)
			} else {
				fmt.Fprintln(out, "diff: no changes")
			}
		}
		if editErr != nil {
			return editErr
		}

		if o.undo {
			return o.undoRedo(ctx, cmd, session)
		}
		return nil
	})
}

// undoRedo undoes the command's group and redoes it, printing both states.
func (o *options) undoRedo(ctx context.Context, cmd *cobra.Command, session *undo.Session) error {
	out := cmd.OutOrStdout()
	if !session.Manager().CanUndo() {
		fmt.Fprintln(out, "undo: nothing to undo")
		return nil
	}

	if err := tracing.Undo(ctx, o.tracer, session); err != nil {
		return err
	}
	undone, err := markup.Format(session)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "undo:", undone)

	if err := tracing.Redo(ctx, o.tracer, session); err != nil {
		return err
	}
	redone, err := markup.Format(session)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "redo:", redone)
	return nil
}

func (o *options) groupMode() tracing.GroupMode {
	switch {
	case o.atomic:
		return tracing.GroupAtomic
	case o.flags.Enabled(flags.FlagRestoreSelection):
		return tracing.GroupRestoreSelection
	default:
		return tracing.GroupPlain
	}
}

// chain runs steps over the selection. Each step gets its own span when
// step-spans is enabled.
func (o *options) chain(ctx context.Context, s *undo.Session, steps ...modify.Step) (*change.Record, error) {
	if o.flags.Enabled(flags.FlagStepSpans) {
		steps = tracing.Steps(ctx, o.tracer, steps...)
	}
	return modify.Run(s, s.Selection(), steps...)
}

func newWordCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "word <fixture>",
		Short: "Select the word range around the selection",
		Example: `  splice word 'Welcome, fel«low travel»ler'
  splice word 'left  ‸  right'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.edit(cmd, args[0], "Select Word", func(ctx context.Context, s *undo.Session) (*change.Record, error) {
				_, err := opts.chain(ctx, s, modify.SelectWordWith(opts.finder))
				return nil, err
			})
		},
	}
}

func newLineCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "line <fixture>",
		Short: "Select the line range around the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.edit(cmd, args[0], "Select Line", func(ctx context.Context, s *undo.Session) (*change.Record, error) {
				_, err := opts.chain(ctx, s, modify.SelectLine())
				return nil, err
			})
		},
	}
}

func newWrapCmd(opts *options) *cobra.Command {
	var prefix, suffix string

	cmd := &cobra.Command{
		Use:     "wrap <fixture>",
		Short:   "Wrap the word range around the selection",
		Example: `  splice wrap 'Welcome, fel«low travel»ler, to these barren lands!' --prefix '**' --suffix '**'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("suffix") {
				suffix = prefix
			}
			return opts.edit(cmd, args[0], "Wrap", func(ctx context.Context, s *undo.Session) (*change.Record, error) {
				return opts.chain(ctx, s, modify.SelectWordWith(opts.finder), modify.Wrap(prefix, suffix))
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "**", "text inserted before the word")
	cmd.Flags().StringVar(&suffix, "suffix", "", "text inserted after the word (default: the prefix)")
	return cmd
}

func newInsertCmd(opts *options) *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:     "insert <fixture>",
		Short:   "Apply a set of insertions",
		Example: `  splice insert 'Hello‸' --at 5:', World' --at 0:'>> '`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := edit.NewBuilder()
			for _, spec := range specs {
				loc, text, err := parseSpec(spec)
				if err != nil {
					return fmt.Errorf("--at %q: %w", spec, err)
				}
				b.Insert(loc, text)
			}
			set, err := b.Build()
			if err != nil {
				return err
			}
			return opts.edit(cmd, args[0], "Insert", func(ctx context.Context, s *undo.Session) (*change.Record, error) {
				return opts.apply(ctx, s, set)
			})
		},
	}

	cmd.Flags().StringArrayVar(&specs, "at", nil, "LOCATION:TEXT insertion, repeatable")
	cmd.Flags().StringVar(&opts.within, "within", "", "LOCATION:LENGTH window the insertions must stay inside")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:     "delete <fixture>",
		Short:   "Apply a set of deletions",
		Example: `  splice delete 'Hello, World!‸' --range 1:7`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := edit.NewBuilder()
			for _, spec := range specs {
				r, err := parseRange(spec)
				if err != nil {
					return fmt.Errorf("--range %q: %w", spec, err)
				}
				b.Delete(r)
			}
			set, err := b.Build()
			if err != nil {
				return err
			}
			return opts.edit(cmd, args[0], "Delete", func(ctx context.Context, s *undo.Session) (*change.Record, error) {
				return opts.apply(ctx, s, set)
			})
		},
	}

	cmd.Flags().StringArrayVar(&specs, "range", nil, "LOCATION:LENGTH deletion, repeatable")
	cmd.Flags().StringVar(&opts.within, "within", "", "LOCATION:LENGTH window the deletions must stay inside")
	_ = cmd.MarkFlagRequired("range")
	return cmd
}

// apply applies set to the session, or to a window over it with --within.
func (o *options) apply(ctx context.Context, s *undo.Session, set *edit.Set) (*change.Record, error) {
	if o.within == "" {
		return tracing.ApplySet(ctx, o.tracer, set, s)
	}

	window, err := parseRange(o.within)
	if err != nil {
		return nil, fmt.Errorf("--within %q: %w", o.within, err)
	}
	var record *change.Record
	err = scoped.Within(s, window, func(w *scoped.Window) error {
		var err error
		record, err = tracing.ApplySet(ctx, o.tracer, set, w)
		return err
	})
	return record, err
}

// parseRange parses "LOC:LEN".
func parseRange(spec string) (textrange.Range, error) {
	loc, length, err := parseSpec(spec)
	if err != nil {
		return textrange.Range{}, err
	}
	n, err := strconv.Atoi(length)
	if err != nil || n < 0 {
		return textrange.Range{}, fmt.Errorf("length must be a non-negative integer")
	}
	return textrange.New(loc, n), nil
}

// parseSpec splits "LOC:REST" at the first colon.
func parseSpec(spec string) (int, string, error) {
	head, rest, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, "", fmt.Errorf("expected LOCATION:VALUE")
	}
	loc, err := strconv.Atoi(head)
	if err != nil || loc < 0 {
		return 0, "", fmt.Errorf("location must be a non-negative integer")
	}
	return loc, rest, nil
}
