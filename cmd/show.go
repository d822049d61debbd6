package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/grapheme"
	"github.com/zjrosen/splice/internal/markup"
	"github.com/zjrosen/splice/internal/textrange"
)

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <fixture>",
		Short: "Print the selected line with the selection underlined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(context.Context) error {
				buf, err := markup.Parse(args[0])
				if err != nil {
					return err
				}
				line, marks, err := underline(buf)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, line)
				fmt.Fprintln(out, opts.styles.Marks(marks))
				fmt.Fprintf(out, "selection: %s\n", buf.Selection())
				return nil
			})
		},
	}
}

// underline returns the line holding the start of the selection and a marker
// line beneath it: "^" at the selection start followed by "~" across the
// rest of the selection on that line. Columns are display cells, so wide
// characters take two.
func underline(buf buffer.Buffer) (string, string, error) {
	sel := buf.Selection()

	lr, err := buf.LineRange(textrange.Point(sel.Location))
	if err != nil {
		return "", "", err
	}
	line, err := buf.Content(lr)
	if err != nil {
		return "", "", err
	}
	line = strings.TrimSuffix(line, "\n")

	prefix, err := buf.Content(textrange.Between(lr.Location, sel.Location))
	if err != nil {
		return "", "", err
	}

	lineEnd := lr.Location + grapheme.UTF16Length(line)
	selected, err := buf.Content(textrange.Between(sel.Location, min(sel.EndLocation(), lineEnd)))
	if err != nil {
		return "", "", err
	}

	width := runewidth.StringWidth(selected)
	marks := strings.Repeat(" ", runewidth.StringWidth(prefix)) + "^"
	if width > 1 {
		marks += strings.Repeat("~", width-1)
	}
	return line, marks, nil
}
