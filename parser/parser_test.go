package parser

import (
	"testing"

	"github.com/weavetpl/weave/lexer"
	"github.com/weavetpl/weave/registry"
)

func testConfig() Config {
	reg := registry.New()
	reg.Register("upper", 1, registry.Entry{Op: registry.OpUpper})
	reg.Register("join", 2, registry.Entry{Op: registry.OpJoin})
	return Config{
		Syntax:     lexer.DefaultSyntax(),
		Whitespace: lexer.DefaultWhitespace(),
		Registry:   reg,
	}
}

func TestParseTextOnly(t *testing.T) {
	tmpl, err := Parse("t", "hello world", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tmpl.Root.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(tmpl.Root.Statements))
	}
	text, ok := tmpl.Root.Statements[0].(*Text)
	if !ok || text.Content != "hello world" {
		t.Fatalf("expected Text(hello world), got %#v", tmpl.Root.Statements[0])
	}
}

func TestParseExpressionOutput(t *testing.T) {
	tmpl, err := Parse("t", "{{ 1 + 2 }}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el, ok := tmpl.Root.Statements[0].(*ExpressionList)
	if !ok {
		t.Fatalf("expected ExpressionList, got %#v", tmpl.Root.Statements[0])
	}
	fn, ok := el.Root.(*Function)
	if !ok || fn.Op != registry.OpAdd {
		t.Fatalf("expected add Function, got %#v", el.Root)
	}
}

func TestParsePrecedence(t *testing.T) {
	// "1 + 2 * 3" must parse as 1 + (2 * 3).
	tmpl, err := Parse("t", "{{ 1 + 2 * 3 }}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := tmpl.Root.Statements[0].(*ExpressionList)
	add := el.Root.(*Function)
	if add.Op != registry.OpAdd {
		t.Fatalf("expected top-level add, got %v", add.Op)
	}
	mul, ok := add.Args[1].(*Function)
	if !ok || mul.Op != registry.OpMul {
		t.Fatalf("expected right operand to be multiply, got %#v", add.Args[1])
	}
}

func TestParsePowRightAssociative(t *testing.T) {
	// "2 ^ 3 ^ 2" must parse as 2 ^ (3 ^ 2).
	tmpl, err := Parse("t", "{{ 2 ^ 3 ^ 2 }}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := tmpl.Root.Statements[0].(*ExpressionList)
	outer := el.Root.(*Function)
	if outer.Op != registry.OpPow {
		t.Fatalf("expected top-level pow, got %v", outer.Op)
	}
	inner, ok := outer.Args[1].(*Function)
	if !ok || inner.Op != registry.OpPow {
		t.Fatalf("expected right operand to be nested pow, got %#v", outer.Args[1])
	}
}

func TestParseDottedIdentIsSingleDataNode(t *testing.T) {
	tmpl, err := Parse("t", "{{ user.profile.name }}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := tmpl.Root.Statements[0].(*ExpressionList)
	data, ok := el.Root.(*Data)
	if !ok {
		t.Fatalf("expected a single Data node, got %#v", el.Root)
	}
	if data.Name != "user.profile.name" || data.Pointer != "/user/profile/name" {
		t.Fatalf("unexpected data node %#v", data)
	}
}

func TestParsePipeFilterDesugarsToCall(t *testing.T) {
	tmpl, err := Parse("t", "{{ name | upper }}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := tmpl.Root.Statements[0].(*ExpressionList)
	fn, ok := el.Root.(*Function)
	if !ok || fn.Op != registry.OpUpper || len(fn.Args) != 1 {
		t.Fatalf("expected upper(name), got %#v", el.Root)
	}
	if _, ok := fn.Args[0].(*Data); !ok {
		t.Fatalf("expected subject to be the piped Data node, got %#v", fn.Args[0])
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "{% if a %}A{% elif b %}B{% else %}C{% endif %}"
	tmpl, err := Parse("t", src, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := tmpl.Root.Statements[0].(*If)
	if !ok {
		t.Fatalf("expected If, got %#v", tmpl.Root.Statements[0])
	}
	nested, ok := top.FalseBranch.(*If)
	if !ok {
		t.Fatalf("expected elif to produce a nested If, got %#v", top.FalseBranch)
	}
	if _, ok := nested.FalseBranch.(*Block); !ok {
		t.Fatalf("expected else branch to be a Block, got %#v", nested.FalseBranch)
	}
}

func TestParseForArray(t *testing.T) {
	tmpl, err := Parse("t", "{% for x in items %}{{ x }}{% endfor %}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loop, ok := tmpl.Root.Statements[0].(*ForArray)
	if !ok || loop.ValueName != "x" {
		t.Fatalf("expected ForArray(x), got %#v", tmpl.Root.Statements[0])
	}
}

func TestParseForObject(t *testing.T) {
	tmpl, err := Parse("t", "{% for k, v in items %}{{ k }}{% endfor %}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loop, ok := tmpl.Root.Statements[0].(*ForObject)
	if !ok || loop.KeyName != "k" || loop.ValueName != "v" {
		t.Fatalf("expected ForObject(k, v), got %#v", tmpl.Root.Statements[0])
	}
}

func TestParseBlockRegistersChain(t *testing.T) {
	tmpl, err := Parse("t", "{% block body %}hi{% endblock %}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chain, ok := tmpl.Blocks["body"]
	if !ok || len(chain) != 1 {
		t.Fatalf("expected one registered block named 'body', got %#v", tmpl.Blocks)
	}
}

func TestParseSet(t *testing.T) {
	tmpl, err := Parse("t", "{% set x = 1 + 2 %}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set, ok := tmpl.Root.Statements[0].(*Set)
	if !ok || set.Key != "x" {
		t.Fatalf("expected Set(x), got %#v", tmpl.Root.Statements[0])
	}
}

func TestParseRawBypassesExpressions(t *testing.T) {
	tmpl, err := Parse("t", "{% raw %}{{ not parsed }}{% endraw %}", testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, ok := tmpl.Root.Statements[0].(*Raw)
	if !ok || raw.Content != "{{ not parsed }}" {
		t.Fatalf("expected Raw content preserved verbatim, got %#v", tmpl.Root.Statements[0])
	}
}

func TestParseUnknownFunctionStrictError(t *testing.T) {
	cfg := testConfig()
	cfg.Graceful = false
	if _, err := Parse("t", "{{ totally_unknown(1) }}", cfg); err == nil {
		t.Fatalf("expected strict mode to reject an unknown function at parse time")
	}
}

func TestParseUnknownFunctionGracefulIsOpNone(t *testing.T) {
	cfg := testConfig()
	cfg.Graceful = true
	tmpl, err := Parse("t", "{{ totally_unknown(1) }}", cfg)
	if err != nil {
		t.Fatalf("unexpected error in graceful mode: %v", err)
	}
	el := tmpl.Root.Statements[0].(*ExpressionList)
	fn, ok := el.Root.(*Function)
	if !ok || fn.Op != registry.OpNone {
		t.Fatalf("expected OpNone placeholder, got %#v", el.Root)
	}
}

func TestParseExtendsSplicesParentBlocks(t *testing.T) {
	cfg := testConfig()
	parentSrc := "before{% block body %}parent body{% endblock %}after"
	cfg.Load = func(name string) (*Template, error) {
		if name != "base.txt" {
			t.Fatalf("unexpected load of %q", name)
		}
		return Parse("base.txt", parentSrc, cfg)
	}

	childSrc := `{% extends "base.txt" %}{% block body %}child body{% endblock %}`
	tmpl, err := Parse("child.txt", childSrc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chain, ok := tmpl.Blocks["body"]
	if !ok || len(chain) != 2 {
		t.Fatalf("expected a 2-deep override chain for 'body', got %#v", tmpl.Blocks["body"])
	}
	if text := chain[0].Body.Statements[0].(*Text).Content; text != "child body" {
		t.Fatalf("expected most-derived body first, got %q", text)
	}
	if text := chain[1].Body.Statements[0].(*Text).Content; text != "parent body" {
		t.Fatalf("expected parent body as the ancestor tail, got %q", text)
	}
	// Root comes from the parent layout, not the child's own top-level text.
	if _, ok := tmpl.Root.Statements[0].(*Text); !ok {
		t.Fatalf("expected root to be the parent's statement sequence")
	}
}
