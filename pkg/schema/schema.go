// Package schema defines the Go types for task-list documents and
// provides strict multi-format parsing (YAML, TOML, JSON).
package schema

import (
	"fmt"
	"strings"
)

// Strategy governs how multiple matching variants of a task entry combine.
type Strategy string

const (
	// StrategyFirst stops at the first matching variant.
	StrategyFirst Strategy = "first"
	// StrategyMerge applies every matching variant in order, later
	// matches overriding earlier ones on identical top-level keys.
	StrategyMerge Strategy = "merge"
)

// ParseStrategy normalizes a strategy tag. The empty string defaults to
// StrategyFirst; anything else unknown is a configuration error.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", string(StrategyFirst):
		return StrategyFirst, nil
	case string(StrategyMerge):
		return StrategyMerge, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %q or %q)", s, StrategyFirst, StrategyMerge)
	}
}

// TaskList is the top-level document: an ordered sequence of task entries.
// Order is significant — it is the execution order handed to the
// automation engine.
type TaskList struct {
	Tasks []TaskEntry
}

// TaskEntry is one configured unit of automation work with possible
// conditional variants. Type identifies which capability of the automation
// engine the entry invokes; the resolver treats it as an opaque label.
type TaskEntry struct {
	Type     string
	Strategy Strategy
	Params   map[string]Value // base parameters, may be nil
	Variants []Variant
}

// Variant is an alternative parameter set for a task entry, gated by an
// optional condition. A nil Condition always matches, acting as a default
// case; authors conventionally order it last, though the engine only
// honors "first in list order".
type Variant struct {
	Condition Condition
	Params    map[string]Value
}
