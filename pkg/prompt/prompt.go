// Package prompt defines the synchronous interactive surface used to
// resolve placeholder parameters, with a readline-backed terminal
// implementation and a scripted one for tests.
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrClosed indicates the interactive surface became unusable while a
// value was still required (e.g. end of the input stream). It is fatal to
// a resolution run; no partial task list is produced.
var ErrClosed = errors.New("interaction channel closed")

// Prompter is the synchronous request/response surface: render a prompt,
// read back a line. Reject reports why the previous response was not
// accepted before the same prompt is repeated.
type Prompter interface {
	Line(text string) (string, error)
	Reject(reason string)
}

// maxOptionWidth bounds the rendered width of one alternative so long
// literals don't wrap the option list.
const maxOptionWidth = 72

// Choose renders text plus the 1-based numbered options, reads a line and
// parses it as an index. Unparsable or out-of-range responses are
// rejected and the same prompt repeats; the returned index is 0-based.
func Choose(p Prompter, text string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("choose: no options")
	}

	var sb strings.Builder
	sb.WriteString(text)
	for i, opt := range options {
		fmt.Fprintf(&sb, "\n  %d) %s", i+1, runewidth.Truncate(opt, maxOptionWidth, "…"))
	}
	rendered := sb.String()

	for {
		line, err := p.Line(rendered)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			p.Reject(fmt.Sprintf("%q is not a number", strings.TrimSpace(line)))
			continue
		}
		if n < 1 || n > len(options) {
			p.Reject(fmt.Sprintf("choose a number between 1 and %d", len(options)))
			continue
		}
		return n - 1, nil
	}
}
