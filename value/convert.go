package value

import (
	"fmt"
	"reflect"
	"sort"
)

// FromAny converts an arbitrary Go value into a Value using reflection.
// Maps become objects (keys sorted for determinism when the source map
// has no inherent order), slices/arrays become arrays, structs become
// objects keyed by the field's `json` tag text when set and by field name
// otherwise, and numeric kinds map onto Int/Uint/Float
// by their underlying Go representation.
func FromAny(v any) Value {
	if v == nil {
		return Null()
	}
	if val, ok := v.(Value); ok {
		return val
	}
	rv := reflect.ValueOf(v)
	return fromReflect(rv)
}

func fromReflect(rv reflect.Value) Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null()
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Bool:
		return FromBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return FromFloat(rv.Float())
	case reflect.String:
		return FromString(rv.String())
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		items := make([]Value, n)
		for i := 0; i < n; i++ {
			items[i] = fromReflect(rv.Index(i))
		}
		return FromArray(items)
	case reflect.Map:
		obj := NewObject()
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			obj.Set(fmt.Sprint(k.Interface()), fromReflect(rv.MapIndex(k)))
		}
		return FromObject(obj)
	case reflect.Struct:
		obj := NewObject()
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Tag.Get("json")
			if name == "" {
				name = field.Name
			}
			obj.Set(name, fromReflect(rv.Field(i)))
		}
		return FromObject(obj)
	}
	return Null()
}

// ToAny converts a Value into plain Go data (map[string]any, []any,
// string, bool, int64/uint64/float64, nil) suitable for encoding/json or
// gopkg.in/yaml.v3 marshalling.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, k := range v.obj.Keys() {
			val, _ := v.obj.Get(k)
			out[k] = val.ToAny()
		}
		return out
	}
	return nil
}
