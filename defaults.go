package weave

import (
	"github.com/weavetpl/weave/registry"
	"github.com/weavetpl/weave/value"
)

// registerBuiltins wires every operator/builtin the renderer dispatches
// directly by OperationID (state.go's evalBuiltin switch) into the
// registry under its call-syntax name and arity, so the parser can
// resolve `name(...)`/`| name` into the matching Function node. Apart
// from "array" (a variadic callback that builds array literals), none of
// these carry a Call: the renderer already knows how to execute the Op
// without going through a host callback.
func registerBuiltins(reg *registry.Registry) {
	reg.Register("exists", 1, registry.Entry{Op: registry.OpExists})
	reg.Register("exists_in_object", 2, registry.Entry{Op: registry.OpExistsInObject})
	reg.Register("default", 2, registry.Entry{Op: registry.OpDefault})
	reg.Register("at", 2, registry.Entry{Op: registry.OpAt})

	reg.Register("capitalize", 1, registry.Entry{Op: registry.OpCapitalize})
	reg.Register("divisible_by", 2, registry.Entry{Op: registry.OpDivisibleBy})
	reg.Register("even", 1, registry.Entry{Op: registry.OpEven})
	reg.Register("odd", 1, registry.Entry{Op: registry.OpOdd})
	reg.Register("first", 1, registry.Entry{Op: registry.OpFirst})
	reg.Register("last", 1, registry.Entry{Op: registry.OpLast})
	reg.Register("float", 1, registry.Entry{Op: registry.OpFloat})
	reg.Register("int", 1, registry.Entry{Op: registry.OpInt})
	reg.Register("is_array", 1, registry.Entry{Op: registry.OpIsArray})
	reg.Register("is_boolean", 1, registry.Entry{Op: registry.OpIsBoolean})
	reg.Register("is_float", 1, registry.Entry{Op: registry.OpIsFloat})
	reg.Register("is_integer", 1, registry.Entry{Op: registry.OpIsInteger})
	reg.Register("is_number", 1, registry.Entry{Op: registry.OpIsNumber})
	reg.Register("is_object", 1, registry.Entry{Op: registry.OpIsObject})
	reg.Register("is_string", 1, registry.Entry{Op: registry.OpIsString})
	reg.Register("length", 1, registry.Entry{Op: registry.OpLength})
	reg.Register("lower", 1, registry.Entry{Op: registry.OpLower})
	reg.Register("upper", 1, registry.Entry{Op: registry.OpUpper})
	reg.Register("max", -1, registry.Entry{Op: registry.OpMax})
	reg.Register("min", -1, registry.Entry{Op: registry.OpMin})
	reg.Register("range", 1, registry.Entry{Op: registry.OpRange})
	reg.Register("range", 2, registry.Entry{Op: registry.OpRange})
	reg.Register("range", 3, registry.Entry{Op: registry.OpRange})
	reg.Register("replace", 3, registry.Entry{Op: registry.OpReplace})
	reg.Register("round", 1, registry.Entry{Op: registry.OpRound})
	reg.Register("round", 2, registry.Entry{Op: registry.OpRound})
	reg.Register("sort", 1, registry.Entry{Op: registry.OpSort})
	reg.Register("join", 2, registry.Entry{Op: registry.OpJoin})

	reg.Register("array", -1, registry.Entry{Op: registry.OpCallback, Call: buildArray})
}

func buildArray(args []value.Value) (value.Value, error) {
	items := append([]value.Value(nil), args...)
	return value.FromArray(items), nil
}
