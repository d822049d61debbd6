package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color modes accepted by --color.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

var (
	removedColor = lipgloss.Color("9")
	addedColor   = lipgloss.Color("10")
	marksColor   = lipgloss.Color("11")
)

// styles paints command output. Without a color profile every method
// returns its input unchanged.
type styles struct {
	plain   bool
	removed lipgloss.Style
	added   lipgloss.Style
	marks   lipgloss.Style
}

func newStyles(w io.Writer, mode string) (*styles, error) {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case colorAuto, "":
	case colorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case colorNever:
		r.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("--color must be %q, %q or %q, got %q", colorAuto, colorAlways, colorNever, mode)
	}

	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &styles{
		plain:   r.ColorProfile() == termenv.Ascii,
		removed: base.Foreground(removedColor).Strikethrough(true),
		added:   base.Foreground(addedColor),
		marks:   base.Foreground(marksColor),
	}, nil
}

// Removed paints text a diff removed.
func (s *styles) Removed(text string) string {
	if s.plain {
		return "[-" + text + "-]"
	}
	return paint(s.removed, text)
}

// Added paints text a diff added.
func (s *styles) Added(text string) string {
	if s.plain {
		return "{+" + text + "+}"
	}
	return paint(s.added, text)
}

// Marks paints the underline drawn by show.
func (s *styles) Marks(text string) string {
	if s.plain {
		return text
	}
	return paint(s.marks, text)
}

// paint renders each line on its own so multi-line text is not padded to a
// common width.
func paint(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
