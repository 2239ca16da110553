package schema

import (
	"strings"
	"testing"
)

// buildFromYAML decodes a YAML snippet and runs the domain build,
// returning the collected validation errors.
func buildFromYAML(t *testing.T, doc string) (*TaskList, []*ValidationError) {
	t.Helper()
	raw, err := decodeRaw([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("decodeRaw error: %v", err)
	}
	parsed, err := decodeDoc(raw)
	if err != nil {
		t.Fatalf("decodeDoc error: %v", err)
	}
	return Build(parsed)
}

// errorAt returns the first error-severity entry whose path contains frag.
func errorAt(errs []*ValidationError, frag string) *ValidationError {
	for _, e := range errs {
		if e.Severity != "warning" && strings.Contains(e.Path, frag) {
			return e
		}
	}
	return nil
}

func TestBuildUnknownStrategy(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    strategy: sometimes
`)
	e := errorAt(errs, "tasks[0].strategy")
	if e == nil {
		t.Fatalf("expected error at tasks[0].strategy, got %v", errs)
	}
	if !strings.Contains(e.Message, "sometimes") {
		t.Errorf("error should name the bad tag: %s", e.Message)
	}
}

func TestBuildEmptySelect(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    params:
      stage:
        select: []
`)
	if errorAt(errs, "tasks[0].params.stage.select") == nil {
		t.Fatalf("expected error for empty select alternatives, got %v", errs)
	}
}

func TestBuildTimeConditionRequiresEnd(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - condition:
          type: time
          start: "18:00:00"
        params: {}
`)
	if errorAt(errs, "condition.end") == nil {
		t.Fatalf("expected error for missing end bound, got %v", errs)
	}
}

func TestBuildTimeConditionBadBound(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - condition:
          type: time
          start: "18 o'clock"
          end: "20:00:00"
        params: {}
`)
	if errorAt(errs, "condition.start") == nil {
		t.Fatalf("expected error for unparsable start bound, got %v", errs)
	}
}

func TestBuildUnknownConditionType(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - condition:
          type: moonphase
        params: {}
`)
	e := errorAt(errs, "condition.type")
	if e == nil || !strings.Contains(e.Message, "moonphase") {
		t.Fatalf("expected unknown condition type error, got %v", errs)
	}
}

func TestBuildUnknownConditionField(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - condition:
          type: weekday
          days: [mon]
          extra: true
        params: {}
`)
	if errorAt(errs, "condition.extra") == nil {
		t.Fatalf("expected unknown field error, got %v", errs)
	}
}

func TestBuildBadWeekday(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - condition:
          type: weekday
          days: [mon, funday]
        params: {}
`)
	if errorAt(errs, "days[1]") == nil {
		t.Fatalf("expected error for bad weekday name, got %v", errs)
	}
}

func TestBuildExprCompileError(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - condition:
          type: expr
          source: "hour >="
        params: {}
`)
	if errorAt(errs, "condition.source") == nil {
		t.Fatalf("expected compile error, got %v", errs)
	}
}

func TestBuildExprUnknownIdentifier(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - condition:
          type: expr
          source: "stamina > 10"
        params: {}
`)
	if errorAt(errs, "condition.source") == nil {
		t.Fatalf("expected unknown identifier to fail at load time, got %v", errs)
	}
}

func TestBuildUnreachableVariantWarning(t *testing.T) {
	_, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - params:
          stage: "1-7"
      - condition:
          type: weekday
          days: [sat]
        params:
          stage: "CE-6"
`)
	var warning *ValidationError
	for _, e := range errs {
		if e.Severity == "warning" {
			warning = e
		}
	}
	if warning == nil {
		t.Fatalf("expected unreachable-variant warning, got %v", errs)
	}
	if HasErrors(errs) {
		t.Errorf("warning must not make the document invalid: %v", errs)
	}
}

func TestBuildInputForms(t *testing.T) {
	list, errs := buildFromYAML(t, `
tasks:
  - type: fight
    params:
      bare:
        input:
      full:
        input:
          default: "1-7"
          description: "Stage to run"
`)
	if HasErrors(errs) {
		t.Fatalf("unexpected errors: %v", errs)
	}
	bare, ok := list.Tasks[0].Params["bare"].(*Input)
	if !ok || bare.Default != nil || bare.Description != "" {
		t.Errorf("bare input = %+v", list.Tasks[0].Params["bare"])
	}
	full, ok := list.Tasks[0].Params["full"].(*Input)
	if !ok {
		t.Fatalf("full param is %T, want *Input", list.Tasks[0].Params["full"])
	}
	if full.Default != "1-7" || full.Description != "Stage to run" {
		t.Errorf("full input = %+v", full)
	}
}

func TestBuildNestedPlaceholders(t *testing.T) {
	list, errs := buildFromYAML(t, `
tasks:
  - type: fight
    params:
      plan:
        stages:
          - "1-7"
          - select: ["CE-6", "AP-5"]
`)
	if HasErrors(errs) {
		t.Fatalf("unexpected errors: %v", errs)
	}
	plan, ok := list.Tasks[0].Params["plan"].(*Mapping)
	if !ok {
		t.Fatalf("plan is %T, want *Mapping", list.Tasks[0].Params["plan"])
	}
	stages, ok := plan.Entries["stages"].(*Sequence)
	if !ok {
		t.Fatalf("stages is %T, want *Sequence", plan.Entries["stages"])
	}
	if _, ok := stages.Items[0].(*Literal); !ok {
		t.Errorf("stages[0] is %T, want *Literal", stages.Items[0])
	}
	if _, ok := stages.Items[1].(*Select); !ok {
		t.Errorf("stages[1] is %T, want *Select", stages.Items[1])
	}
}

func TestBuildEmptyCombined(t *testing.T) {
	list, errs := buildFromYAML(t, `
tasks:
  - type: fight
    variants:
      - condition:
          type: combined
        params: {}
`)
	if HasErrors(errs) {
		t.Fatalf("unexpected errors: %v", errs)
	}
	combined, ok := list.Tasks[0].Variants[0].Condition.(*CombinedCondition)
	if !ok || len(combined.All) != 0 {
		t.Fatalf("condition = %#v, want empty combined", list.Tasks[0].Variants[0].Condition)
	}
}
