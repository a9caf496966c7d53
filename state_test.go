package weave

import "testing"

func render(t *testing.T, source string, ctx map[string]any) string {
	t.Helper()
	env := NewEnvironment()
	env.AddTemplate("t", source)
	tmpl, err := env.GetTemplate("t")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	out, err := tmpl.Render(ctx)
	if err != nil {
		t.Fatalf("Render(%q): %v", source, err)
	}
	return out
}

func TestIfElse(t *testing.T) {
	cases := []struct {
		cond any
		want string
	}{
		{true, "yes"},
		{false, "no"},
	}
	for _, c := range cases {
		got := render(t, "{% if flag %}yes{% else %}no{% endif %}", map[string]any{"flag": c.cond})
		if got != c.want {
			t.Fatalf("flag=%v: got %q want %q", c.cond, got, c.want)
		}
	}
}

func TestForArrayWithLoopVar(t *testing.T) {
	out := render(t, "{% for x in items %}{{ loop.index }}:{{ x }}{% if not loop.is_last %},{% endif %}{% endfor %}",
		map[string]any{"items": []any{"a", "b", "c"}})
	if out != "0:a,1:b,2:c" {
		t.Fatalf("got %q", out)
	}
}

func TestForArrayElse(t *testing.T) {
	out := render(t, "{% for x in items %}{{ x }}{% else %}empty{% endfor %}", map[string]any{"items": []any{}})
	if out != "empty" {
		t.Fatalf("got %q", out)
	}
}

func TestForObjectIteratesSortedKeys(t *testing.T) {
	out := render(t, "{% for k, v in obj %}{{ k }}={{ v }};{% endfor %}",
		map[string]any{"obj": map[string]any{"b": 2, "a": 1}})
	if out != "a=1;b=2;" {
		t.Fatalf("got %q", out)
	}
}

func TestNestedLoopParentAccess(t *testing.T) {
	out := render(t, "{% for x in outer %}{% for y in inner %}{{ loop.parent.index }}.{{ loop.index }} {% endfor %}{% endfor %}",
		map[string]any{"outer": []any{"a", "b"}, "inner": []any{1, 2}})
	if out != "0.0 0.1 1.0 1.1 " {
		t.Fatalf("got %q", out)
	}
}

func TestBlockInheritanceAndSuper(t *testing.T) {
	env := NewEnvironment()
	env.AddTemplate("base", "[{% block greeting %}hello{% endblock %}]")
	env.AddTemplate("mid", `{% extends "base" %}{% block greeting %}{{ super() }}, mid{% endblock %}`)
	env.AddTemplate("child", `{% extends "mid" %}{% block greeting %}{{ super() }}, child{% endblock %}`)

	tmpl, err := env.GetTemplate("child")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "[hello, mid, child]" {
		t.Fatalf("got %q", out)
	}
}

func TestSuperExplicitLevelMatchesBareCall(t *testing.T) {
	env := NewEnvironment()
	env.AddTemplate("base", "[{% block greeting %}hello{% endblock %}]")
	env.AddTemplate("mid", `{% extends "base" %}{% block greeting %}{{ super() }}, mid{% endblock %}`)
	env.AddTemplate("child", `{% extends "mid" %}{% block greeting %}{{ super(1) }}, child{% endblock %}`)

	tmpl, err := env.GetTemplate("child")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	out, err := tmpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "[hello, mid, child]" {
		t.Fatalf("got %q", out)
	}
}

func TestSetStatement(t *testing.T) {
	out := render(t, "{% set total = a + b %}{{ total }}", map[string]any{"a": 2, "b": 3})
	if out != "5" {
		t.Fatalf("got %q", out)
	}
}

func TestArithmeticAndComparison(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"{{ 1 + 2 * 3 }}", "7"},
		{"{{ (1 + 2) * 3 }}", "9"},
		{"{{ 2 ^ 3 }}", "8"},
		{"{{ 7 % 2 }}", "1"},
		{"{{ 1 < 2 and 2 < 3 }}", "true"},
		{"{{ 1 > 2 or 2 < 3 }}", "true"},
	}
	for _, c := range cases {
		if got := render(t, c.expr, nil); got != c.want {
			t.Fatalf("%s: got %q want %q", c.expr, got, c.want)
		}
	}
}

func TestNoShortCircuitEvaluatesBothOperands(t *testing.T) {
	env := NewEnvironment()
	calls := 0
	env.AddFunction("mark", 1, func(args []Value) (Value, error) {
		calls++
		return args[0], nil
	})
	env.AddTemplate("t", "{{ false and mark(true) }}")
	tmpl, _ := env.GetTemplate("t")
	if _, err := tmpl.Render(nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected mark() to be called once despite short-circuitable 'and', got %d calls", calls)
	}
}

func TestBuiltinFilters(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{`{{ "hi"|upper }}`, "HI"},
		{`{{ "HI"|lower }}`, "hi"},
		{`{{ "hi there"|capitalize }}`, "Hi there"},
		{`{{ [3,1,2]|sort }}`, "[1, 2, 3]"},
		{`{{ [1,2,3]|length }}`, "3"},
		{`{{ [1,2,3]|join(",") }}`, "1,2,3"},
		{`{{ range(3) }}`, "[0, 1, 2]"},
	}
	for _, c := range cases {
		if got := render(t, c.expr, nil); got != c.want {
			t.Fatalf("%s: got %q want %q", c.expr, got, c.want)
		}
	}
}

func TestDivisionByZeroError(t *testing.T) {
	env := NewEnvironment()
	env.AddTemplate("t", "{{ 1 / 0 }}")
	tmpl, _ := env.GetTemplate("t")
	_, err := tmpl.Render(nil)
	if err == nil {
		t.Fatalf("expected division by zero error")
	}
	werr, ok := err.(*Error)
	if !ok || werr.Kind != ErrDivisionByZero {
		t.Fatalf("got %v", err)
	}
}

func TestSuperOutsideBlockErrors(t *testing.T) {
	env := NewEnvironment()
	env.AddTemplate("t", "{{ super() }}")
	tmpl, _ := env.GetTemplate("t")
	_, err := tmpl.Render(nil)
	if err == nil {
		t.Fatalf("expected error calling super() outside a block")
	}
	werr, ok := err.(*Error)
	if !ok || werr.Kind != ErrSuperOutsideBlock {
		t.Fatalf("got %v", err)
	}
}

func TestUnknownFunctionSuggestsClosestName(t *testing.T) {
	env := NewEnvironment()
	env.SetGraceful(true)
	env.AddTemplate("t", "{{ uppr(name) }}")
	tmpl, _ := env.GetTemplate("t")
	res, err := tmpl.RenderTo(discardWriter{}, map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if len(res.Errors) == 0 {
		t.Fatalf("expected a recorded unknown-function error")
	}
	if res.Errors[0].Suggestion != "upper" {
		t.Fatalf("got suggestion %q", res.Errors[0].Suggestion)
	}
}
