// Package weave provides an inja-compatible text template engine for Go.
//
// Weave compiles templates once and renders them against plain Go
// values or a [value.Value] tree, with the same expression, statement
// and filter surface as the inja C++ engine: variables, conditionals,
// loops, filters, template inheritance and includes.
//
// # Quick Start
//
//	env := weave.NewEnvironment()
//	env.AddTemplate("hello", "Hello {{ name }}!")
//	tmpl, _ := env.GetTemplate("hello")
//	result, _ := tmpl.Render(map[string]any{"name": "World"})
//	fmt.Println(result) // Output: Hello World!
//
// # Template Syntax
//
// Key syntax elements:
//   - Variables: {{ variable }}
//   - Blocks: {% if condition %}...{% endif %}
//   - Comments: {# comment #}
//   - Filters: {{ value | filter }}
//   - Inheritance: {% extends "base.html" %}, {% block name %}...{% endblock %}
//
// # Environment Configuration
//
// The Environment is the central configuration object:
//
//	env := weave.NewEnvironment()
//	env.AddTemplate("base.html", baseTemplate)
//	env.SetAutoEscapeFunc(func(name string) weave.AutoEscape {
//	    if strings.HasSuffix(name, ".html") {
//	        return weave.AutoEscapeHTML
//	    }
//	    return weave.AutoEscapeNone
//	})
//
// # Custom Functions and Filters
//
// A single registry serves both call syntax and filter syntax: any
// function registered with arity >= 1 can also be used as a filter.
//
//	env.AddFunction("shout", 1, func(args []weave.Value) (weave.Value, error) {
//	    s, _ := args[0].AsString()
//	    return weave.FromString(strings.ToUpper(s)), nil
//	})
//	// In template: {{ name | shout }} or {{ shout(name) }}
//
// # Error Handling
//
// Template errors carry a kind, category and source position:
//
//	tmpl, err := env.GetTemplate("example.html")
//	if err != nil {
//	    if e, ok := err.(*weave.Error); ok {
//	        fmt.Printf("%s error in %s: %s\n", e.Kind, e.Name, e.Message)
//	    }
//	}
//
// In graceful mode (Environment.SetGraceful), render errors are
// collected into RenderResult.Errors instead of aborting the render.
//
// # Value System
//
// The Value type represents a dynamically typed template value:
//
//	str := weave.FromString("hello")
//	num := weave.FromInt(42)
//	arr := weave.FromArray([]weave.Value{str, num})
//
//	if str.Kind() == weave.KindString {
//	    if s, ok := str.AsString(); ok {
//	        fmt.Println(s)
//	    }
//	}
//
// # See Also
//
//   - environment.go: Environment and Template configuration
//   - defaults.go: inja-compatible builtin operators and filters
//   - filters.go: the wider text/color/markup filter set
//   - value package: the dynamic value system
package weave

import (
	"github.com/weavetpl/weave/value"
)

// Value is a dynamically typed value in the template engine.
type Value = value.Value

// Kind describes the type of a Value.
type Kind = value.Kind

// Value kinds.
const (
	KindNull   = value.KindNull
	KindBool   = value.KindBool
	KindInt    = value.KindInt
	KindUint   = value.KindUint
	KindFloat  = value.KindFloat
	KindString = value.KindString
	KindArray  = value.KindArray
	KindObject = value.KindObject
)

// Value constructors.
var (
	Null       = value.Null
	FromBool   = value.FromBool
	FromInt    = value.FromInt
	FromUint   = value.FromUint
	FromFloat  = value.FromFloat
	FromString = value.FromString
	FromArray  = value.FromArray
	FromObject = value.FromObject
	FromAny    = value.FromAny
)
