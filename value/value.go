// Package value implements the dynamic, JSON-like value algebra that
// templates are rendered against: a discriminated variant over null,
// boolean, signed/unsigned integer, float, string, array and object,
// with insertion order preserved on objects and slash-delimited pointer
// lookup into nested containers.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the discriminant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindUint:
		return "unsigned"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Object is an ordered string->Value mapping; insertion order is
// preserved for iteration and dumping.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty, insertion-ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set assigns key to v, appending key to the iteration order on first use.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value at key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.keys)
}

// Clone returns a shallow copy with an independent key order slice and map.
func (o *Object) Clone() *Object {
	clone := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]Value, len(o.values)),
	}
	for k, v := range o.values {
		clone.values[k] = v
	}
	return clone
}

// Value is an immutable, dynamically typed template value.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// FromBool wraps a bool.
func FromBool(b bool) Value { return Value{kind: KindBool, b: b} }

// FromInt wraps a signed integer.
func FromInt(i int64) Value { return Value{kind: KindInt, i: i} }

// FromUint wraps an unsigned integer.
func FromUint(u uint64) Value { return Value{kind: KindUint, u: u} }

// FromFloat wraps a float64.
func FromFloat(f float64) Value { return Value{kind: KindFloat, f: f} }

// FromString wraps a UTF-8 string.
func FromString(s string) Value { return Value{kind: KindString, s: s} }

// FromArray wraps an ordered sequence of values. The slice is not copied;
// callers must not mutate it afterwards.
func FromArray(items []Value) Value { return Value{kind: KindArray, arr: items} }

// FromObject wraps an ordered mapping.
func FromObject(o *Object) Value { return Value{kind: KindObject, obj: o} }

// Kind returns the discriminant.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsObject() bool { return v.kind == KindObject }
func (v Value) IsString() bool { return v.kind == KindString }

// IsNumber reports whether the value is one of the three numeric kinds.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindUint || v.kind == KindFloat
}

// AsBool returns the boolean payload, or false, ok=false if not a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// AsInt returns the value coerced to int64, if it is any numeric kind.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindUint:
		return int64(v.u), true
	case KindFloat:
		return int64(v.f), true
	}
	return 0, false
}

// AsFloat returns the value coerced to float64, if it is any numeric kind.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindUint:
		return float64(v.u), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// AsString returns the string payload, if it is a string.
func (v Value) AsString() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

// AsArray returns the array payload, if it is an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind == KindArray {
		return v.arr, true
	}
	return nil, false
}

// AsObject returns the object payload, if it is an object.
func (v Value) AsObject() (*Object, bool) {
	if v.kind == KindObject {
		return v.obj, true
	}
	return nil, false
}

// Len returns the number of elements for strings (in runes), arrays and
// objects; it returns 0, false for other kinds.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindString:
		return len([]rune(v.s)), true
	case KindArray:
		return len(v.arr), true
	case KindObject:
		return v.obj.Len(), true
	}
	return 0, false
}

// Truthy implements the engine's truthiness rules: booleans as themselves,
// numbers truthy iff non-zero, null always false, strings/arrays/objects
// truthy iff non-empty.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindUint:
		return v.u != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return v.obj.Len() > 0
	}
	return false
}

// Pointer resolves a slash-delimited path (e.g. "/user/profile/name")
// against nested arrays/objects. It returns the zero Value and false if
// any segment is missing or the container kind does not support it.
func (v Value) Pointer(pointer string) (Value, bool) {
	cur := v
	if pointer == "" || pointer == "/" {
		return cur, true
	}
	segs := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for _, seg := range segs {
		switch cur.kind {
		case KindObject:
			val, ok := cur.obj.Get(seg)
			if !ok {
				return Value{}, false
			}
			cur = val
		case KindArray:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.arr) {
				return Value{}, false
			}
			cur = cur.arr[idx]
		default:
			return Value{}, false
		}
	}
	return cur, true
}

// DotToPointer converts a dotted identifier path ("user.profile.name") to
// the engine's slash-delimited pointer form ("/user/profile/name").
func DotToPointer(dotted string) string {
	if dotted == "" {
		return "/"
	}
	return "/" + strings.ReplaceAll(dotted, ".", "/")
}

// Dump renders a compact, deterministic textual form used by the `join`
// filter's non-string elements, the callback cache's argument key, and
// debug output. Strings are unquoted; containers render JSON-ish.
func (v Value) Dump() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.reprOrDump()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		parts := make([]string, 0, v.obj.Len())
		for _, k := range v.obj.Keys() {
			val, _ := v.obj.Get(k)
			parts = append(parts, fmt.Sprintf("%q: %s", k, val.reprOrDump()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

// reprOrDump quotes strings, matching how container dumps distinguish a
// string element from a bare one at the top level.
func (v Value) reprOrDump() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	return v.Dump()
}

// String is the unadorned textual form used for expression output:
// strings pass through unescaped, everything else is its Dump().
func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	return v.Dump()
}

// Equal implements value equality: null only equals null, numeric kinds
// compare numerically across Int/Uint/Float, strings compare byte-wise,
// arrays/objects compare element-wise.
func (v Value) Equal(other Value) bool {
	if v.kind == KindNull || other.kind == KindNull {
		return v.kind == KindNull && other.kind == KindNull
	}
	if v.IsNumber() && other.IsNumber() {
		f1, _ := v.AsFloat()
		f2, _ := other.AsFloat()
		return f1 == f2
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		for _, k := range v.obj.Keys() {
			a, _ := v.obj.Get(k)
			b, ok := other.obj.Get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders values for `sort` and the relational operators. Numeric
// kinds compare numerically; strings compare lexicographically; arrays
// compare element-wise. ok is false when the two values are not
// order-comparable (e.g. an object against a string).
func (v Value) Compare(other Value) (result int, ok bool) {
	if v.IsNumber() && other.IsNumber() {
		f1, _ := v.AsFloat()
		f2, _ := other.AsFloat()
		switch {
		case f1 < f2:
			return -1, true
		case f1 > f2:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.kind == KindString && other.kind == KindString {
		return strings.Compare(v.s, other.s), true
	}
	if v.kind == KindBool && other.kind == KindBool {
		switch {
		case v.b == other.b:
			return 0, true
		case !v.b:
			return -1, true
		default:
			return 1, true
		}
	}
	if v.kind == KindArray && other.kind == KindArray {
		n := len(v.arr)
		if len(other.arr) < n {
			n = len(other.arr)
		}
		for i := 0; i < n; i++ {
			if c, ok := v.arr[i].Compare(other.arr[i]); ok && c != 0 {
				return c, true
			}
		}
		switch {
		case len(v.arr) < len(other.arr):
			return -1, true
		case len(v.arr) > len(other.arr):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// Contains implements the `in` operator: substring search for strings,
// linear equality search for arrays, key existence for objects.
func (v Value) Contains(needle Value) bool {
	switch v.kind {
	case KindString:
		if s, ok := needle.AsString(); ok {
			return strings.Contains(v.s, s)
		}
	case KindArray:
		for _, item := range v.arr {
			if item.Equal(needle) {
				return true
			}
		}
	case KindObject:
		if s, ok := needle.AsString(); ok {
			_, exists := v.obj.Get(s)
			return exists
		}
	}
	return false
}

// SortedArrayCopy returns a new array sorted ascending by Compare; values
// that are not mutually comparable keep their relative order (stable sort).
func SortedArrayCopy(items []Value) []Value {
	out := append([]Value(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		c, ok := out[i].Compare(out[j])
		return ok && c < 0
	})
	return out
}
