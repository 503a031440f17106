package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	colorBanner  = color.New(color.FgCyan, color.Bold).SprintFunc()
	colorInfo    = color.New(color.FgBlue).SprintFunc()
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorFatal   = color.New(color.FgRed).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
	colorMuted   = color.New(color.FgHiBlack).SprintFunc()
	colorAccent  = color.New(color.FgHiBlue).SprintFunc()
)

// palette applies styles only when the output is a terminal.
type palette struct {
	useColor bool
}

func newPalette(w io.Writer) palette {
	return palette{useColor: writerIsTerminal(w)}
}

func (p palette) paint(style func(...interface{}) string, s string) string {
	if !p.useColor {
		return s
	}
	return style(s)
}

func (p palette) banner(s string) string  { return p.paint(colorBanner, s) }
func (p palette) info(s string) string    { return p.paint(colorInfo, s) }
func (p palette) success(s string) string { return p.paint(colorSuccess, s) }
func (p palette) warn(s string) string    { return p.paint(colorWarn, s) }
func (p palette) fatal(s string) string   { return p.paint(colorFatal, s) }
func (p palette) bold(s string) string    { return p.paint(colorBold, s) }
func (p palette) muted(s string) string   { return p.paint(colorMuted, s) }
func (p palette) accent(s string) string  { return p.paint(colorAccent, s) }

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth reports the column count of w, or 0 when unknown.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
