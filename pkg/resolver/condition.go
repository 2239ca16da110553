package resolver

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/tactcli/tact/pkg/schema"
)

// Evaluate reports whether a condition matches the captured moment. It is
// total and side-effect-free; the only error source is an expr program
// failing at run time, which is surfaced as a configuration problem.
func Evaluate(cond schema.Condition, m Moment) (bool, error) {
	switch c := cond.(type) {
	case *schema.TimeCondition:
		return matchClock(c, m.TimeOfDay), nil

	case *schema.DateTimeCondition:
		// Bounds are inclusive on both ends; a nil bound is unbounded.
		if c.Start != nil && m.Now.Before(*c.Start) {
			return false, nil
		}
		if c.End != nil && m.Now.After(*c.End) {
			return false, nil
		}
		return true, nil

	case *schema.WeekdayCondition:
		for _, d := range c.Days {
			if d == m.Weekday {
				return true, nil
			}
		}
		return false, nil

	case *schema.CombinedCondition:
		// Logical AND; the empty conjunction is vacuously true.
		for _, sub := range c.All {
			ok, err := Evaluate(sub, m)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case *schema.ExprCondition:
		output, err := expr.Run(c.Program, schema.ExprScope(m.Now))
		if err != nil {
			return false, fmt.Errorf("eval condition %q: %w", c.Source, err)
		}
		result, ok := output.(bool)
		if !ok {
			return false, fmt.Errorf("condition %q did not return bool (got %T: %v)", c.Source, output, output)
		}
		return result, nil

	default:
		return false, fmt.Errorf("unknown condition type %T", cond)
	}
}

// matchClock tests a time-of-day window. Start == End is a zero-width
// interval and never matches; End < Start wraps past midnight.
func matchClock(c *schema.TimeCondition, t schema.ClockTime) bool {
	switch {
	case c.Start == c.End:
		return false
	case c.Start < c.End:
		return t >= c.Start && t < c.End
	default:
		return t >= c.Start || t < c.End
	}
}
