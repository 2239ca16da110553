package resolver

import (
	"errors"
	"strings"
	"testing"

	"github.com/tactcli/tact/pkg/prompt"
	"github.com/tactcli/tact/pkg/schema"
)

func TestResolveInputDefaultOnEmpty(t *testing.T) {
	script := prompt.NewScript("")
	r := &ValueResolver{Prompter: script}
	out, err := r.Resolve(map[string]schema.Value{
		"stage": &schema.Input{Default: "1-7", Description: "Stage to run"},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if out["stage"] != "1-7" {
		t.Errorf("stage = %v, want 1-7", out["stage"])
	}
	if script.Exchanges() != 1 {
		t.Errorf("exchanges = %d, want 1", script.Exchanges())
	}
}

func TestResolveInputRepromptsWithoutDefault(t *testing.T) {
	script := prompt.NewScript("", "", "SL-7")
	r := &ValueResolver{Prompter: script}
	out, err := r.Resolve(map[string]schema.Value{
		"server": &schema.Input{},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if out["server"] != "SL-7" {
		t.Errorf("server = %v, want SL-7", out["server"])
	}
	if script.Exchanges() != 3 {
		t.Errorf("exchanges = %d, want 3 (two rejected empties)", script.Exchanges())
	}
	if len(script.Rejections) != 2 {
		t.Errorf("rejections = %d, want 2", len(script.Rejections))
	}
	// The same prompt must repeat verbatim after a rejection.
	if script.Prompts[0] != script.Prompts[1] || script.Prompts[1] != script.Prompts[2] {
		t.Errorf("prompts differ across retries: %q", script.Prompts)
	}
}

func TestResolveSelectValidIndex(t *testing.T) {
	script := prompt.NewScript("2")
	r := &ValueResolver{Prompter: script}
	out, err := r.Resolve(map[string]schema.Value{
		"server": &schema.Select{Alternatives: []any{"SL-6", "SL-7", "SL-8"}},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if out["server"] != "SL-7" {
		t.Errorf("server = %v, want SL-7 (1-based index 2)", out["server"])
	}
}

func TestResolveSelectRejectsBadResponses(t *testing.T) {
	script := prompt.NewScript("9", "x", "2")
	r := &ValueResolver{Prompter: script}
	out, err := r.Resolve(map[string]schema.Value{
		"server": &schema.Select{Alternatives: []any{"SL-6", "SL-7", "SL-8"}},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if out["server"] != "SL-7" {
		t.Errorf("server = %v, want SL-7", out["server"])
	}
	if len(script.Rejections) != 2 {
		t.Fatalf("rejections = %v, want 2", script.Rejections)
	}
	if !strings.Contains(script.Rejections[0], "between 1 and 3") {
		t.Errorf("out-of-range rejection = %q", script.Rejections[0])
	}
	if !strings.Contains(script.Rejections[1], "not a number") {
		t.Errorf("unparsable rejection = %q", script.Rejections[1])
	}
}

func TestResolveSelectRendersAlternatives(t *testing.T) {
	script := prompt.NewScript("1")
	r := &ValueResolver{Prompter: script}
	_, err := r.Resolve(map[string]schema.Value{
		"server": &schema.Select{Alternatives: []any{"SL-6", "SL-7"}, Description: "Pick a server"},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	rendered := script.Prompts[0]
	for _, frag := range []string{"Pick a server", "1) SL-6", "2) SL-7"} {
		if !strings.Contains(rendered, frag) {
			t.Errorf("prompt missing %q:\n%s", frag, rendered)
		}
	}
}

func TestResolveLiteralsNeedNoExchanges(t *testing.T) {
	script := prompt.NewScript()
	r := &ValueResolver{Prompter: script}
	params := map[string]schema.Value{
		"client": &schema.Literal{Val: "Official"},
		"plan": &schema.Mapping{Entries: map[string]schema.Value{
			"stages": &schema.Sequence{Items: []schema.Value{
				&schema.Literal{Val: "1-7"},
				&schema.Literal{Val: "CE-6"},
			}},
		}},
	}
	out, err := r.Resolve(params)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if script.Exchanges() != 0 {
		t.Errorf("literal-only resolution used %d exchanges, want 0", script.Exchanges())
	}
	plan := out["plan"].(map[string]any)
	stages := plan["stages"].([]any)
	if stages[0] != "1-7" || stages[1] != "CE-6" {
		t.Errorf("stages = %v", stages)
	}
}

func TestResolveNestedPlaceholder(t *testing.T) {
	script := prompt.NewScript("2")
	r := &ValueResolver{Prompter: script}
	params := map[string]schema.Value{
		"plan": &schema.Mapping{Entries: map[string]schema.Value{
			"stage": &schema.Select{Alternatives: []any{"CE-6", "AP-5"}},
		}},
	}
	out, err := r.Resolve(params)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	plan := out["plan"].(map[string]any)
	if plan["stage"] != "AP-5" {
		t.Errorf("plan.stage = %v, want AP-5", plan["stage"])
	}
}

func TestResolveChannelClosure(t *testing.T) {
	script := prompt.NewScript() // no responses: first prompt fails
	r := &ValueResolver{Prompter: script}
	_, err := r.Resolve(map[string]schema.Value{
		"server": &schema.Input{},
	})
	if err == nil {
		t.Fatal("expected error when the channel closes mid-prompt")
	}
	if !errors.Is(err, prompt.ErrClosed) {
		t.Errorf("error should wrap ErrClosed: %v", err)
	}
}
