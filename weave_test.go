package weave

import "testing"

func TestQuickStartRender(t *testing.T) {
	env := NewEnvironment()
	if err := env.AddTemplate("hello", "Hello {{ name }}!"); err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}
	tmpl, err := env.GetTemplate("hello")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	out, err := tmpl.Render(map[string]any{"name": "World"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hello World!" {
		t.Fatalf("got %q", out)
	}
}

func TestEscapeHTML(t *testing.T) {
	in := `<a href="x">'&'</a>`
	got := EscapeHTML(in)
	want := `&lt;a href=&quot;x&quot;&gt;&#x27;&amp;&#x27;&lt;/a&gt;`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got != EscapeHTML(in) {
		t.Fatalf("escape not deterministic across calls")
	}
	// forward slash is deliberately left alone
	if EscapeHTML("a/b") != "a/b" {
		t.Fatalf("expected slash to pass through unescaped")
	}
}

func TestAutoEscapeByExtension(t *testing.T) {
	env := NewEnvironment()
	env.AddTemplate("page.html", "{{ body }}")
	tmpl, _ := env.GetTemplate("page.html")
	out, err := tmpl.Render(map[string]any{"body": "<b>hi</b>"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "&lt;b&gt;hi&lt;/b&gt;" {
		t.Fatalf("got %q", out)
	}
}

func TestCustomFunctionAsFilter(t *testing.T) {
	env := NewEnvironment()
	env.AddFunction("shout", 1, func(args []Value) (Value, error) {
		s, _ := args[0].AsString()
		out := ""
		for _, r := range s {
			out += string(r)
		}
		return FromString(out + "!"), nil
	})
	env.AddTemplate("t", "{{ name|shout }}")
	tmpl, _ := env.GetTemplate("t")
	out, err := tmpl.Render(map[string]any{"name": "hi"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "hi!" {
		t.Fatalf("got %q", out)
	}
}
