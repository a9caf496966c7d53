package weave

import (
	"fmt"

	"github.com/expr-lang/expr"
	"go.starlark.net/starlark"

	"github.com/weavetpl/weave/value"
)

// AddExprFunction registers a function whose body is an expr-lang
// expression evaluated against its positional arguments, bound to the
// names in argNames in order. This lets a host expose small ad-hoc
// computations (a pricing rule, a feature-flag check) as template
// functions without writing Go.
func (env *Environment) AddExprFunction(name string, argNames []string, source string) error {
	program, err := expr.Compile(source)
	if err != nil {
		return NewError(ErrConfiguration, fmt.Sprintf("expr function %q: %v", name, err))
	}
	env.AddFunction(name, len(argNames), func(args []value.Value) (value.Value, error) {
		bindings := make(map[string]any, len(argNames))
		for i, n := range argNames {
			bindings[n] = args[i].ToAny()
		}
		out, err := expr.Run(program, bindings)
		if err != nil {
			return value.Null(), err
		}
		return value.FromAny(out), nil
	})
	return nil
}

// AddStarlarkFunction registers a function backed by a Starlark script.
// The script's global `args` list holds the call arguments (converted
// from Value), and the call's result is read from a global named
// result. This mirrors the conversion strategy used to bridge Starlark
// into a JSON-like template value space.
func (env *Environment) AddStarlarkFunction(name string, arity int, script string) {
	env.AddFunction(name, arity, func(args []value.Value) (value.Value, error) {
		items := make([]starlark.Value, len(args))
		for i, a := range args {
			items[i] = valueToStarlark(a)
		}
		thread := &starlark.Thread{Name: "weave:" + name}
		globals, err := starlark.ExecFile(thread, name+".star", script, starlark.StringDict{
			"args": starlark.NewList(items),
		})
		if err != nil {
			return value.Null(), err
		}
		result, ok := globals["result"]
		if !ok {
			return value.Null(), nil
		}
		return starlarkToValue(result), nil
	})
}

func valueToStarlark(v value.Value) starlark.Value {
	switch v.Kind() {
	case value.KindNull:
		return starlark.None
	case value.KindBool:
		b, _ := v.AsBool()
		return starlark.Bool(b)
	case value.KindInt:
		i, _ := v.AsInt()
		return starlark.MakeInt64(i)
	case value.KindUint:
		i, _ := v.AsInt()
		return starlark.MakeInt64(i)
	case value.KindFloat:
		f, _ := v.AsFloat()
		return starlark.Float(f)
	case value.KindString:
		s, _ := v.AsString()
		return starlark.String(s)
	case value.KindArray:
		arr, _ := v.AsArray()
		items := make([]starlark.Value, len(arr))
		for i, item := range arr {
			items[i] = valueToStarlark(item)
		}
		return starlark.NewList(items)
	case value.KindObject:
		obj, _ := v.AsObject()
		dict := starlark.NewDict(obj.Len())
		for _, k := range obj.Keys() {
			item, _ := obj.Get(k)
			dict.SetKey(starlark.String(k), valueToStarlark(item))
		}
		return dict
	default:
		return starlark.None
	}
}

func starlarkToValue(v starlark.Value) value.Value {
	switch t := v.(type) {
	case starlark.NoneType:
		return value.Null()
	case starlark.Bool:
		return value.FromBool(bool(t))
	case starlark.Int:
		if i, ok := t.Int64(); ok {
			return value.FromInt(i)
		}
		return value.FromString(t.String())
	case starlark.Float:
		return value.FromFloat(float64(t))
	case starlark.String:
		return value.FromString(string(t))
	case *starlark.List:
		items := make([]value.Value, t.Len())
		for i := 0; i < t.Len(); i++ {
			items[i] = starlarkToValue(t.Index(i))
		}
		return value.FromArray(items)
	case *starlark.Dict:
		obj := value.NewObject()
		for _, item := range t.Items() {
			key := item[0].(starlark.String)
			obj.Set(string(key), starlarkToValue(item[1]))
		}
		return value.FromObject(obj)
	default:
		return value.FromString(v.String())
	}
}
