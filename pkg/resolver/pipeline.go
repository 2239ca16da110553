package resolver

import (
	"fmt"

	"github.com/tactcli/tact/pkg/prompt"
	"github.com/tactcli/tact/pkg/schema"
)

// ResolvedTask is a task entry reduced to a concrete type tag and a fully
// literal parameter mapping, ready for dispatch to the automation engine.
type ResolvedTask struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// ResolveAll resolves every entry in list order against a single captured
// moment. Entries whose no variant matches are omitted; the relative
// order of the rest is preserved. Entries are resolved strictly in
// sequence so interactive prompts never interleave. Any interaction
// failure aborts the whole run — a partially configured automation run is
// unsafe to dispatch.
func ResolveAll(list *schema.TaskList, m Moment, p prompt.Prompter) ([]ResolvedTask, error) {
	values := &ValueResolver{Prompter: p}
	resolved := make([]ResolvedTask, 0, len(list.Tasks))

	for i := range list.Tasks {
		entry := &list.Tasks[i]

		params, ok, err := SelectVariant(entry, m)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i, entry.Type, err)
		}
		if !ok {
			continue
		}

		concrete, err := values.Resolve(params)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i, entry.Type, err)
		}
		resolved = append(resolved, ResolvedTask{Type: entry.Type, Params: concrete})
	}

	return resolved, nil
}
