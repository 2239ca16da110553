package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tactcli/tact/pkg/prompt"
	"github.com/tactcli/tact/pkg/schema"
)

// ValueResolver walks a resolved parameter mapping and replaces every
// Input/Select placeholder with a concrete literal obtained through the
// interactive surface. Resolved literals pass through opaquely; no
// domain-specific shape checking happens here.
type ValueResolver struct {
	Prompter prompt.Prompter
}

// Resolve produces a fully concrete mapping from a parameter mapping that
// may contain placeholders at any depth. Keys are visited in sorted order
// so prompts appear in a stable sequence.
func (r *ValueResolver) Resolve(params map[string]schema.Value) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for _, k := range sortedKeys(params) {
		v, err := r.resolveValue(k, params[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (r *ValueResolver) resolveValue(key string, value schema.Value) (any, error) {
	switch v := value.(type) {
	case *schema.Literal:
		return v.Val, nil

	case *schema.Sequence:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			resolved, err := r.resolveValue(fmt.Sprintf("%s[%d]", key, i), item)
			if err != nil {
				return nil, err
			}
			items[i] = resolved
		}
		return items, nil

	case *schema.Mapping:
		entries := make(map[string]any, len(v.Entries))
		for _, k := range sortedKeys(v.Entries) {
			resolved, err := r.resolveValue(key+"."+k, v.Entries[k])
			if err != nil {
				return nil, err
			}
			entries[k] = resolved
		}
		return entries, nil

	case *schema.Input:
		return r.askInput(key, v)

	case *schema.Select:
		return r.askSelect(key, v)

	default:
		return nil, fmt.Errorf("parameter %q: unknown value type %T", key, value)
	}
}

// askInput prompts for a free-form line. An empty response substitutes
// the default when present; without a default the same prompt repeats
// until a non-empty response arrives.
func (r *ValueResolver) askInput(key string, in *schema.Input) (any, error) {
	text := in.Description
	if text == "" {
		text = fmt.Sprintf("Enter a value for %q", key)
	}
	for {
		line, err := r.Prompter.Line(text)
		if err != nil {
			return nil, fmt.Errorf("resolve input %q: %w", key, err)
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		if in.Default != nil {
			return in.Default, nil
		}
		r.Prompter.Reject(fmt.Sprintf("a value for %q is required", key))
	}
}

// askSelect prompts for a 1-based index into the alternatives and
// substitutes the literal at that index.
func (r *ValueResolver) askSelect(key string, sel *schema.Select) (any, error) {
	if len(sel.Alternatives) == 0 {
		return nil, fmt.Errorf("parameter %q: select has no alternatives", key)
	}
	text := sel.Description
	if text == "" {
		text = fmt.Sprintf("Choose a value for %q", key)
	}
	labels := make([]string, len(sel.Alternatives))
	for i, alt := range sel.Alternatives {
		labels[i] = formatLiteral(alt)
	}
	idx, err := prompt.Choose(r.Prompter, text, labels)
	if err != nil {
		return nil, fmt.Errorf("resolve select %q: %w", key, err)
	}
	return sel.Alternatives[idx], nil
}

// formatLiteral renders an alternative for display.
func formatLiteral(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
