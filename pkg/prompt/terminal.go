package prompt

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true)
	rejectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Terminal is the readline-backed prompter used by the CLI.
type Terminal struct {
	rl  *readline.Instance
	out io.Writer
}

// NewTerminal opens a readline instance on the process terminal.
func NewTerminal() (*Terminal, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return &Terminal{rl: rl, out: os.Stdout}, nil
}

// Line renders the prompt text and reads one line. Interrupt or end of
// input while a value is still required maps to ErrClosed.
func (t *Terminal) Line(text string) (string, error) {
	fmt.Fprintln(t.out, promptStyle.Render(text))
	line, err := t.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", fmt.Errorf("read response: %w", ErrClosed)
		}
		return "", fmt.Errorf("read response: %w", err)
	}
	return line, nil
}

// Reject reports why the previous response was not accepted.
func (t *Terminal) Reject(reason string) {
	fmt.Fprintln(t.out, rejectStyle.Render("  ✗ "+reason))
}

// Close releases the terminal.
func (t *Terminal) Close() error {
	return t.rl.Close()
}
