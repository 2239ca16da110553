package schema

import (
	"fmt"
	"sort"
	"time"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
)

// datetimeLayouts are the accepted spellings of an absolute timestamp.
// Layouts without a zone are interpreted in local time.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// builder accumulates location-tagged configuration errors while the wire
// document is turned into the typed model.
type builder struct {
	errs []*ValidationError
}

func (b *builder) errorf(path, format string, args ...any) {
	b.errs = append(b.errs, &ValidationError{
		Phase:    "domain",
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: "error",
	})
}

func (b *builder) warnf(path, format string, args ...any) {
	b.errs = append(b.errs, &ValidationError{
		Phase:    "domain",
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
		Severity: "warning",
	})
}

// checkKeys rejects keys outside the allowed set, so a misspelled field in
// a condition or placeholder is an error instead of silently ignored.
func (b *builder) checkKeys(path string, m map[string]any, allowed ...string) {
	var unknown []string
	for k := range m {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		b.errorf(path+"."+k, "unknown field %q", k)
	}
}

// Build turns a decoded wire document into the typed task-list model,
// constructing the condition and parameter unions and collecting every
// configuration error with its location. The returned model is only
// usable when no error-severity entries are present.
func Build(doc *TaskListDoc) (*TaskList, []*ValidationError) {
	b := &builder{}
	list := &TaskList{Tasks: make([]TaskEntry, 0, len(doc.Tasks))}

	for i, entryDoc := range doc.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		entry := TaskEntry{Type: entryDoc.Type}

		if entryDoc.Type == "" {
			b.errorf(path+".type", "task type must not be empty")
		}

		strategy, err := ParseStrategy(entryDoc.Strategy)
		if err != nil {
			b.errorf(path+".strategy", "%v", err)
		}
		entry.Strategy = strategy

		if entryDoc.Params != nil {
			entry.Params = b.buildParams(path+".params", entryDoc.Params)
		}

		for j, variantDoc := range entryDoc.Variants {
			vpath := fmt.Sprintf("%s.variants[%d]", path, j)
			variant := Variant{}
			if variantDoc.Condition != nil {
				variant.Condition = b.buildCondition(vpath+".condition", variantDoc.Condition)
			} else if strategy == StrategyFirst && j < len(entryDoc.Variants)-1 {
				b.warnf(vpath, "variant without condition always matches; later variants are unreachable under strategy %q", StrategyFirst)
			}
			variant.Params = b.buildParams(vpath+".params", variantDoc.Params)
			entry.Variants = append(entry.Variants, variant)
		}

		list.Tasks = append(list.Tasks, entry)
	}

	return list, b.errs
}

func (b *builder) buildParams(path string, raw map[string]any) map[string]Value {
	params := make(map[string]Value, len(raw))
	for k, v := range raw {
		params[k] = b.buildValue(fmt.Sprintf("%s.%s", path, k), v)
	}
	return params
}

// buildValue constructs the Value union for one parameter. A mapping is a
// placeholder when it carries an "input" or "select" key; any other
// mapping, sequence or scalar is a literal container recursed into
// structurally, so placeholders may appear at any depth.
func (b *builder) buildValue(path string, raw any) Value {
	switch v := raw.(type) {
	case map[string]any:
		if _, ok := v["input"]; ok {
			return b.buildInput(path, v)
		}
		if _, ok := v["select"]; ok {
			return b.buildSelect(path, v)
		}
		entries := make(map[string]Value, len(v))
		for k, item := range v {
			entries[k] = b.buildValue(fmt.Sprintf("%s.%s", path, k), item)
		}
		return &Mapping{Entries: entries}
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = b.buildValue(fmt.Sprintf("%s[%d]", path, i), item)
		}
		return &Sequence{Items: items}
	default:
		return &Literal{Val: raw}
	}
}

func (b *builder) buildInput(path string, m map[string]any) Value {
	b.checkKeys(path, m, "input")
	input := &Input{}
	switch spec := m["input"].(type) {
	case nil:
	case bool:
		if !spec {
			b.errorf(path+".input", "input must be true or a mapping, got false")
		}
	case map[string]any:
		b.checkKeys(path+".input", spec, "default", "description")
		input.Default = spec["default"]
		input.Description = b.stringField(path+".input.description", spec, "description")
	default:
		b.errorf(path+".input", "input must be true or a mapping, got %T", spec)
	}
	return input
}

func (b *builder) buildSelect(path string, m map[string]any) Value {
	b.checkKeys(path, m, "select", "description")
	sel := &Select{
		Description: b.stringField(path+".description", m, "description"),
	}
	alts, ok := m["select"].([]any)
	if !ok {
		b.errorf(path+".select", "select must be a sequence of alternatives, got %T", m["select"])
		return sel
	}
	if len(alts) == 0 {
		b.errorf(path+".select", "select alternatives must not be empty")
		return sel
	}
	sel.Alternatives = alts
	return sel
}

// stringField reads an optional string field, reporting a type error when
// it holds anything else.
func (b *builder) stringField(path string, m map[string]any, key string) string {
	raw, ok := m[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		b.errorf(path, "%s must be a string, got %T", key, raw)
		return ""
	}
	return s
}

// buildCondition constructs the Condition union from its tagged wire form.
func (b *builder) buildCondition(path string, m map[string]any) Condition {
	typ, ok := m["type"].(string)
	if !ok {
		b.errorf(path+".type", "condition requires a string type tag")
		return nil
	}

	switch typ {
	case "time":
		b.checkKeys(path, m, "type", "start", "end")
		cond := &TimeCondition{}
		if raw, ok := m["start"]; ok {
			cond.Start = b.clockField(path+".start", raw)
		}
		raw, ok := m["end"]
		if !ok {
			// No documented default exists for a missing end bound, so it
			// is rejected rather than guessed.
			b.errorf(path+".end", "time condition requires an end bound")
			return cond
		}
		cond.End = b.clockField(path+".end", raw)
		if cond.Start == cond.End {
			b.warnf(path, "time condition with start == end never matches")
		}
		return cond

	case "datetime":
		b.checkKeys(path, m, "type", "start", "end")
		cond := &DateTimeCondition{}
		if raw, ok := m["start"]; ok && raw != nil {
			cond.Start = b.datetimeField(path+".start", raw)
		}
		if raw, ok := m["end"]; ok && raw != nil {
			cond.End = b.datetimeField(path+".end", raw)
		}
		if cond.Start != nil && cond.End != nil && cond.Start.After(*cond.End) {
			b.warnf(path, "datetime condition with start after end never matches")
		}
		return cond

	case "weekday":
		b.checkKeys(path, m, "type", "days")
		cond := &WeekdayCondition{}
		days, ok := m["days"].([]any)
		if !ok {
			b.errorf(path+".days", "weekday condition requires a sequence of days, got %T", m["days"])
			return cond
		}
		for i, raw := range days {
			name, ok := raw.(string)
			if !ok {
				b.errorf(fmt.Sprintf("%s.days[%d]", path, i), "weekday must be a string, got %T", raw)
				continue
			}
			day, err := ParseWeekday(name)
			if err != nil {
				b.errorf(fmt.Sprintf("%s.days[%d]", path, i), "%v", err)
				continue
			}
			cond.Days = append(cond.Days, day)
		}
		return cond

	case "combined":
		b.checkKeys(path, m, "type", "conditions")
		cond := &CombinedCondition{}
		if m["conditions"] == nil {
			return cond // empty conjunction, vacuously true
		}
		subs, ok := m["conditions"].([]any)
		if !ok {
			b.errorf(path+".conditions", "combined condition requires a sequence of conditions, got %T", m["conditions"])
			return cond
		}
		for i, raw := range subs {
			subMap, ok := raw.(map[string]any)
			if !ok {
				b.errorf(fmt.Sprintf("%s.conditions[%d]", path, i), "condition must be a mapping, got %T", raw)
				continue
			}
			if sub := b.buildCondition(fmt.Sprintf("%s.conditions[%d]", path, i), subMap); sub != nil {
				cond.All = append(cond.All, sub)
			}
		}
		return cond

	case "expr":
		b.checkKeys(path, m, "type", "source")
		source, ok := m["source"].(string)
		if !ok || source == "" {
			b.errorf(path+".source", "expr condition requires a non-empty source string")
			return nil
		}
		program, err := expr.Compile(source, expr.Env(ExprScope(time.Time{})), expr.AsBool())
		if err != nil {
			b.errorf(path+".source", "compile condition %q: %v", source, err)
			return nil
		}
		return &ExprCondition{Source: source, Program: program}

	default:
		b.errorf(path+".type", "unknown condition type %q (want time, datetime, weekday, combined or expr)", typ)
		return nil
	}
}

func (b *builder) clockField(path string, raw any) ClockTime {
	s, ok := raw.(string)
	if !ok {
		b.errorf(path, "time of day must be a string, got %T", raw)
		return 0
	}
	c, err := ParseClockTime(s)
	if err != nil {
		b.errorf(path, "%v", err)
		return 0
	}
	return c
}

// datetimeField accepts both string timestamps and the native datetime
// values TOML decodes into.
func (b *builder) datetimeField(path string, raw any) *time.Time {
	switch v := raw.(type) {
	case time.Time:
		return &v
	case toml.LocalDateTime:
		t := v.AsTime(time.Local)
		return &t
	case toml.LocalDate:
		t := v.AsTime(time.Local)
		return &t
	case string:
		for _, layout := range datetimeLayouts {
			if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
				return &t
			}
		}
		b.errorf(path, "invalid timestamp %q (want RFC3339 or 2006-01-02 15:04:05)", v)
		return nil
	default:
		b.errorf(path, "timestamp must be a string or datetime, got %T", raw)
		return nil
	}
}
