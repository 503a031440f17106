package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/avail-project/create-liquid-apps/internal/selection"
)

// prompter asks line-oriented questions. Answers are read one line at a
// time so piped input works the same as a terminal.
type prompter struct {
	in    *bufio.Reader
	out   io.Writer
	pal   palette
	width int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		in:    bufio.NewReader(in),
		out:   out,
		pal:   newPalette(out),
		width: terminalWidth(out),
	}
}

func (p *prompter) readLine() (string, bool, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	eof := errors.Is(err, io.EOF)
	if eof {
		fmt.Fprintln(p.out)
	}
	return strings.TrimSpace(line), eof, nil
}

func (p *prompter) question(message string) string {
	return fmt.Sprintf("%s %s", p.pal.accent("?"), p.pal.bold(message))
}

// input asks a free-form question. An empty answer selects def.
func (p *prompter) input(message, def string) (string, error) {
	fmt.Fprintf(p.out, "%s %s ", p.question(message), p.pal.muted("("+def+")"))
	line, _, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// selectOne lists choices and returns the chosen value. Answers may be the
// entry number or its value; an empty answer selects def, or the first
// enabled entry when def is not offered. Disabled entries are shown but
// cannot be picked.
func (p *prompter) selectOne(message string, choices []selection.Choice, def string) (string, error) {
	enabled := make([]selection.Choice, 0, len(choices))
	for _, c := range choices {
		if !c.Disabled {
			enabled = append(enabled, c)
		}
	}
	if len(enabled) == 0 {
		return "", fmt.Errorf("no selectable options for %q", message)
	}
	defIdx := 0
	for i, c := range enabled {
		if c.Value == def {
			defIdx = i
			break
		}
	}

	fmt.Fprintln(p.out, p.question(message))
	fmt.Fprint(p.out, p.renderChoices(choices))
	for {
		fmt.Fprintf(p.out, "  Select 1-%d %s ", len(enabled), p.pal.muted(fmt.Sprintf("(%d)", defIdx+1)))
		line, eof, err := p.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return enabled[defIdx].Value, nil
		}
		if c, ok := pickChoice(enabled, line); ok {
			return c.Value, nil
		}
		fmt.Fprintln(p.out, p.pal.warn(fmt.Sprintf("  %q is not one of the options.", line)))
		if eof {
			return "", fmt.Errorf("no valid answer for %q", message)
		}
	}
}

func (p *prompter) renderChoices(choices []selection.Choice) string {
	nameWidth := 0
	for _, c := range choices {
		if w := runewidth.StringWidth(c.Name); w > nameWidth {
			nameWidth = w
		}
	}

	var b strings.Builder
	n := 0
	for _, c := range choices {
		marker := "-"
		if !c.Disabled {
			n++
			marker = strconv.Itoa(n)
		}
		line := fmt.Sprintf("  %s) %s  %s", marker, runewidth.FillRight(c.Name, nameWidth), c.Description)
		line = strings.TrimRight(line, " ")
		if p.width > 0 {
			line = runewidth.Truncate(line, p.width-1, "…")
		}
		if c.Disabled {
			line = p.pal.muted(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func pickChoice(choices []selection.Choice, answer string) (selection.Choice, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1], true
		}
		return selection.Choice{}, false
	}
	for _, c := range choices {
		if strings.EqualFold(c.Value, answer) {
			return c, true
		}
	}
	return selection.Choice{}, false
}
