package prompt

import "fmt"

// Script is a prompter driven by a fixed response sequence, used to
// exercise resolution in tests without a real terminal. It records every
// prompt and rejection it sees; running out of responses behaves like a
// closed channel.
type Script struct {
	Responses []string

	next       int
	Prompts    []string
	Rejections []string
}

// NewScript creates a scripted prompter that will answer the given
// responses in order.
func NewScript(responses ...string) *Script {
	return &Script{Responses: responses}
}

// Line records the prompt and returns the next scripted response.
func (s *Script) Line(text string) (string, error) {
	s.Prompts = append(s.Prompts, text)
	if s.next >= len(s.Responses) {
		return "", fmt.Errorf("script exhausted after %d responses: %w", len(s.Responses), ErrClosed)
	}
	line := s.Responses[s.next]
	s.next++
	return line, nil
}

// Reject records the rejection reason.
func (s *Script) Reject(reason string) {
	s.Rejections = append(s.Rejections, reason)
}

// Exchanges reports how many prompts were answered or attempted.
func (s *Script) Exchanges() int {
	return len(s.Prompts)
}
