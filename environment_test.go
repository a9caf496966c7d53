package weave

import (
	"bytes"
	"errors"
	"testing"
)

func TestAddTemplateSurfacesParseErrors(t *testing.T) {
	env := NewEnvironment()
	if err := env.AddTemplate("bad", "{% if x %}"); err == nil {
		t.Fatalf("expected parse error for unterminated if")
	}
}

func TestExtendsResolvesThroughLoader(t *testing.T) {
	env := NewEnvironment()
	sources := map[string]string{
		"base.html":  "<{% block body %}base{% endblock %}>",
		"child.html": `{% extends "base.html" %}{% block body %}child{% endblock %}`,
	}
	env.SetLoader(func(name string) (string, error) {
		src, ok := sources[name]
		if !ok {
			return "", errors.New("not found")
		}
		return src, nil
	})

	tmpl, err := env.GetTemplate("child.html")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "<child>" {
		t.Fatalf("got %q", out)
	}
}

func TestIncludeIgnoreMissing(t *testing.T) {
	env := NewEnvironment()
	env.AddTemplate("t", `<{% include "missing.html" ignore missing %}>`)
	tmpl, _ := env.GetTemplate("t")
	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "<>" {
		t.Fatalf("got %q", out)
	}
}

func TestTemplateFromStringNotCached(t *testing.T) {
	env := NewEnvironment()
	tmpl, err := env.TemplateFromString("{{ 1 + 1 }}")
	if err != nil {
		t.Fatalf("TemplateFromString: %v", err)
	}
	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "2" {
		t.Fatalf("got %q", out)
	}
	if _, err := env.GetTemplate("<string>"); err == nil {
		t.Fatalf("expected uncached ad-hoc template to not be retrievable by name")
	}
}

func TestAddGlobalVisibleAcrossTemplates(t *testing.T) {
	env := NewEnvironment()
	env.AddGlobal("site", FromString("weave"))
	env.AddTemplate("a", "{{ site }}")
	env.AddTemplate("b", "<{{ site }}>")

	ta, _ := env.GetTemplate("a")
	if out, _ := ta.Render(nil); out != "weave" {
		t.Fatalf("got %q", out)
	}
	tb, _ := env.GetTemplate("b")
	if out, _ := tb.Render(nil); out != "<weave>" {
		t.Fatalf("got %q", out)
	}
}

func TestStrictUndefinedVariableErrors(t *testing.T) {
	env := NewEnvironment()
	env.AddTemplate("t", "{{ missing }}")
	tmpl, _ := env.GetTemplate("t")
	_, err := tmpl.Render(nil)
	if err == nil {
		t.Fatalf("expected error under default (strict) mode")
	}
	var werr *Error
	if !errors.As(err, &werr) || werr.Kind != ErrUndefinedVariable {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}
}

func TestGracefulUndefinedVariableEchoesSpan(t *testing.T) {
	env := NewEnvironment()
	env.SetGraceful(true)
	env.AddTemplate("t", "X={{ missing }}")
	tmpl, _ := env.GetTemplate("t")
	var buf bytes.Buffer
	res, err := tmpl.RenderTo(&buf, nil)
	if err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if buf.String() != "X={{ missing }}" {
		t.Fatalf("got %q", buf.String())
	}
	if len(res.Errors) != 1 || res.Errors[0].Kind != ErrUndefinedVariable {
		t.Fatalf("expected one ErrUndefinedVariable record, got %v", res.Errors)
	}
}

func TestGracefulModeCollectsErrors(t *testing.T) {
	env := NewEnvironment()
	env.SetGraceful(true)
	env.AddTemplate("t", "before {{ 1 / 0 }} after")
	tmpl, _ := env.GetTemplate("t")
	res, err := tmpl.RenderTo(discardWriter{}, nil)
	if err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if len(res.Errors) == 0 {
		t.Fatalf("expected at least one recorded error")
	}
	if res.Errors[0].Kind != ErrDivisionByZero {
		t.Fatalf("got %v", res.Errors[0].Kind)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestInstrumentationCallbackFiresOnRender(t *testing.T) {
	env := NewEnvironment()
	var events []InstrumentationEventKind
	env.SetInstrumentationCallback(func(ev InstrumentationEvent) {
		events = append(events, ev.Event)
	})
	env.AddTemplate("t", "{% for x in items %}{{ x }}{% endfor %}")
	tmpl, _ := env.GetTemplate("t")
	if _, err := tmpl.Render(map[string]any{"items": []any{1, 2}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(events) == 0 || events[0] != EventRenderStart {
		t.Fatalf("expected render start as first event, got %v", events)
	}
	var sawIteration bool
	for _, e := range events {
		if e == EventForLoopIteration {
			sawIteration = true
		}
	}
	if !sawIteration {
		t.Fatalf("expected a for-loop iteration event, got %v", events)
	}
}

func TestAddFunctionWithInplaceUsesFastPath(t *testing.T) {
	env := NewEnvironment()
	var usedInplace bool
	env.SetInstrumentationCallback(func(ev InstrumentationEvent) {
		if ev.Event == EventInplaceOptUsed {
			usedInplace = true
		}
	})
	env.AddFunctionWithInplace("push", 2,
		func(args []Value) (Value, error) {
			arr, _ := args[0].AsArray()
			return FromArray(append(append([]Value(nil), arr...), args[1])), nil
		},
		func(target *Value, args []Value) (bool, string) {
			arr, ok := target.AsArray()
			if !ok {
				return false, "not an array"
			}
			*target = FromArray(append(arr, args[0]))
			return true, "appended in place"
		},
	)
	env.AddTemplate("t", "{% set items = push(items, 3) %}{{ items|length }}")
	tmpl, _ := env.GetTemplate("t")
	out, err := tmpl.Render(map[string]any{"items": []any{1, 2}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "3" {
		t.Fatalf("got %q", out)
	}
	if !usedInplace {
		t.Fatalf("expected the in-place fast path to fire")
	}
}
