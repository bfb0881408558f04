// Traces: FR-301
package template

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompile_ExtractsPlaceholdersInOrder(t *testing.T) {
	tpl, err := Compile("Summarize {{title}} using {{body}} and {{title}}")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	wantAll := []string{"title", "body", "title"}
	if !reflect.DeepEqual(tpl.Placeholders(), wantAll) {
		t.Errorf("Placeholders() = %v, want %v", tpl.Placeholders(), wantAll)
	}

	wantColumns := []string{"title", "body"}
	if !reflect.DeepEqual(tpl.Columns(), wantColumns) {
		t.Errorf("Columns() = %v, want %v", tpl.Columns(), wantColumns)
	}
}

func TestCompile_WhitespaceIsPartOfTheName(t *testing.T) {
	tpl, err := Compile("{{ text }}")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if got := tpl.Columns(); len(got) != 1 || got[0] != " text " {
		t.Errorf("Columns() = %v, want [\" text \"]", got)
	}
}

func TestCompile_QuadBracesEscapeLiterals(t *testing.T) {
	tpl, err := Compile("{{{{literal}}}} {{x}}")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	if got := tpl.Compiled(); got != "{{literal}} {x}" {
		t.Errorf("Compiled() = %q, want %q", got, "{{literal}} {x}")
	}
	if got := tpl.Columns(); len(got) != 1 || got[0] != "x" {
		t.Errorf("Columns() = %v, want [\"x\"]", got)
	}

	out, err := tpl.Format(map[string]string{"x": "hi"})
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if out != "{literal} hi" {
		t.Errorf("Format() = %q, want %q", out, "{literal} hi")
	}
}

func TestFormat_SubstitutesEveryOccurrence(t *testing.T) {
	tpl, err := Compile("{{a}} and {{a}}")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	out, err := tpl.Format(map[string]string{"a": "x"})
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if out != "x and x" {
		t.Errorf("Format() = %q, want %q", out, "x and x")
	}
}

func TestFormat_UnmatchedBraceIsFatal(t *testing.T) {
	cases := []string{
		"broken {{a}",  // compiles to "broken {a}" with no extracted placeholder
		"broken }",     // lone closing brace survives compilation
		"trailing {oh", // lone opening brace, never closed
	}

	for _, raw := range cases {
		tpl, err := Compile(raw)
		if err != nil {
			t.Fatalf("Compile(%q) returned error: %v", raw, err)
		}
		if _, err := tpl.Format(map[string]string{}); err == nil {
			t.Errorf("Format on %q succeeded, want brace/field error", raw)
		}
	}
}

func TestBuildPrompts_ExcludesAllMissingRows(t *testing.T) {
	tpl, err := Compile("Translate: {{text}}")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	rows := []Row{
		{"text": "hello"},
		{"text": nil},
		{"text": "bye"},
	}

	prompts, excluded, err := BuildPrompts(tpl, rows)
	if err != nil {
		t.Fatalf("BuildPrompts returned error: %v", err)
	}

	if !reflect.DeepEqual(excluded, []int{1}) {
		t.Errorf("excluded = %v, want [1]", excluded)
	}
	want := []string{"Translate: hello", "Translate: bye"}
	if !reflect.DeepEqual(prompts, want) {
		t.Errorf("prompts = %v, want %v", prompts, want)
	}
}

func TestBuildPrompts_PartiallyMissingRowKeepsEmptyString(t *testing.T) {
	tpl, err := Compile("{{a}}|{{b}}")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	prompts, excluded, err := BuildPrompts(tpl, []Row{{"a": "x"}})
	if err != nil {
		t.Fatalf("BuildPrompts returned error: %v", err)
	}
	if len(excluded) != 0 {
		t.Errorf("excluded = %v, want none", excluded)
	}
	if len(prompts) != 1 || prompts[0] != "x|" {
		t.Errorf("prompts = %v, want [\"x|\"]", prompts)
	}
}

func TestBuildPrompts_NonStringValuesAreStringified(t *testing.T) {
	tpl, err := Compile("count: {{n}}")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	prompts, _, err := BuildPrompts(tpl, []Row{{"n": 42}})
	if err != nil {
		t.Fatalf("BuildPrompts returned error: %v", err)
	}
	if prompts[0] != "count: 42" {
		t.Errorf("prompts[0] = %q, want %q", prompts[0], "count: 42")
	}
}

func TestBuildPrompts_FormatFailureAbortsBatch(t *testing.T) {
	tpl, err := Compile("broken {{a}")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	_, _, err = BuildPrompts(tpl, []Row{{"a": "x"}})
	if err == nil {
		t.Fatal("BuildPrompts succeeded on malformed template, want error")
	}
	if !errors.Is(err, ErrMissingField) && !errors.Is(err, ErrUnmatchedBrace) {
		t.Errorf("error = %v, want brace/field error", err)
	}
}
