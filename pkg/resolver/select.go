package resolver

import (
	"fmt"

	"github.com/tactcli/tact/pkg/schema"
)

// SelectVariant applies the entry's strategy to its variants at the
// captured moment and returns the merged parameter mapping. The boolean
// is false when no variant matched, in which case the entry is skipped
// entirely (base parameters alone are not dispatched). An entry with no
// variants always resolves with just its base parameters.
func SelectVariant(entry *schema.TaskEntry, m Moment) (map[string]schema.Value, bool, error) {
	strategy := entry.Strategy
	if strategy == "" {
		strategy = schema.StrategyFirst
	}
	if strategy != schema.StrategyFirst && strategy != schema.StrategyMerge {
		return nil, false, fmt.Errorf("unknown strategy %q", entry.Strategy)
	}
	if len(entry.Variants) == 0 {
		return cloneParams(entry.Params), true, nil
	}

	merged := cloneParams(entry.Params)
	matched := false

	for i := range entry.Variants {
		variant := &entry.Variants[i]

		ok := true
		if variant.Condition != nil {
			var err error
			ok, err = Evaluate(variant.Condition, m)
			if err != nil {
				return nil, false, fmt.Errorf("variant %d: %w", i, err)
			}
		}
		if !ok {
			continue
		}

		matched = true
		// Shallow override: variant keys replace base (or earlier-match)
		// keys at the top level; nested containers are replaced wholesale.
		for k, v := range variant.Params {
			merged[k] = v
		}

		if strategy == schema.StrategyFirst {
			return merged, true, nil
		}
		// StrategyMerge keeps scanning; later matches override earlier ones.
	}

	if !matched {
		return nil, false, nil
	}
	return merged, true, nil
}

func cloneParams(params map[string]schema.Value) map[string]schema.Value {
	merged := make(map[string]schema.Value, len(params))
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
