package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr/vm"
)

// Condition is a boolean predicate over the current time, date or weekday
// used to gate variants. It is a closed union: TimeCondition,
// DateTimeCondition, WeekdayCondition, CombinedCondition, ExprCondition.
type Condition interface {
	fmt.Stringer
	isCondition()
}

// ClockTime is a time of day, stored as seconds since midnight.
type ClockTime int

// ClockAt extracts the time of day from an absolute timestamp.
func ClockAt(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// ParseClockTime parses "HH:MM:SS" or "HH:MM" into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q (want HH:MM or HH:MM:SS)", s)
	}
	fields := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q (want HH:MM or HH:MM:SS)", s)
		}
		fields[i] = n
	}
	h, m, sec := fields[0], fields[1], fields[2]
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return ClockTime(h*3600 + m*60 + sec), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)/60%60, int(c)%60)
}

// TimeCondition matches when the current time of day falls in [Start, End).
// If End < Start the interval wraps past midnight. Start == End is a
// zero-width interval and never matches.
type TimeCondition struct {
	Start ClockTime
	End   ClockTime
}

func (*TimeCondition) isCondition() {}

func (c *TimeCondition) String() string {
	return fmt.Sprintf("time %s..%s", c.Start, c.End)
}

// DateTimeCondition matches when the current absolute time is within
// [Start, End], inclusive on both ends. A nil bound is unbounded.
type DateTimeCondition struct {
	Start *time.Time
	End   *time.Time
}

func (*DateTimeCondition) isCondition() {}

func (c *DateTimeCondition) String() string {
	format := func(t *time.Time) string {
		if t == nil {
			return "*"
		}
		return t.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("datetime %s..%s", format(c.Start), format(c.End))
}

// WeekdayCondition matches when the current weekday is a member of Days.
type WeekdayCondition struct {
	Days []time.Weekday
}

func (*WeekdayCondition) isCondition() {}

func (c *WeekdayCondition) String() string {
	names := make([]string, len(c.Days))
	for i, d := range c.Days {
		names[i] = strings.ToLower(d.String()[:3])
	}
	return "weekday " + strings.Join(names, ",")
}

// CombinedCondition matches iff every sub-condition matches. An empty
// list matches unconditionally.
type CombinedCondition struct {
	All []Condition
}

func (*CombinedCondition) isCondition() {}

func (c *CombinedCondition) String() string {
	parts := make([]string, len(c.All))
	for i, sub := range c.All {
		parts[i] = sub.String()
	}
	return "all(" + strings.Join(parts, "; ") + ")"
}

// ExprCondition matches when a boolean expression over the captured time
// context evaluates to true. The program is compiled at load time; a
// compile failure is a configuration error.
type ExprCondition struct {
	Source  string
	Program *vm.Program
}

func (*ExprCondition) isCondition() {}

func (c *ExprCondition) String() string {
	return "expr(" + c.Source + ")"
}

// ExprScope builds the identifier environment available to expr
// conditions, derived from a single captured timestamp. Conditions are
// compiled and evaluated against this same shape so unknown identifiers
// fail at load time.
func ExprScope(now time.Time) map[string]any {
	return map[string]any{
		"hour":    now.Hour(),
		"minute":  now.Minute(),
		"second":  now.Second(),
		"day":     now.Day(),
		"month":   int(now.Month()),
		"year":    now.Year(),
		"weekday": strings.ToLower(now.Weekday().String()),
		"unix":    now.Unix(),
	}
}

// weekdayNames maps the accepted spellings (full name or three-letter
// abbreviation, case-insensitive) to weekdays.
var weekdayNames = map[string]time.Weekday{}

func init() {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		weekdayNames[name] = d
		weekdayNames[name[:3]] = d
	}
}

// ParseWeekday parses a weekday name such as "Monday" or "mon".
func ParseWeekday(s string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	valid := make([]string, 0, len(weekdayNames))
	for name := range weekdayNames {
		if len(name) == 3 {
			valid = append(valid, name)
		}
	}
	sort.Strings(valid)
	return 0, fmt.Errorf("unknown weekday %q (want one of %s)", s, strings.Join(valid, ", "))
}
