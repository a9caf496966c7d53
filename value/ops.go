package value

import (
	"fmt"
	"math"
)

// bothInt reports whether both operands are stored as KindInt, which
// governs the integer-vs-float preference for arithmetic (§4.3).
func bothInt(a, b Value) bool {
	return a.kind == KindInt && b.kind == KindInt
}

// Neg implements unary minus.
func (v Value) Neg() (Value, error) {
	switch v.kind {
	case KindInt:
		return FromInt(-v.i), nil
	case KindUint:
		return FromInt(-int64(v.u)), nil
	case KindFloat:
		return FromFloat(-v.f), nil
	}
	return Value{}, fmt.Errorf("cannot negate %s", v.kind)
}

// Add implements `+`: string concatenation if both operands are strings,
// integer addition if both are integers, otherwise float addition.
func (v Value) Add(other Value) (Value, error) {
	if s1, ok := v.AsString(); ok {
		if s2, ok := other.AsString(); ok {
			return FromString(s1 + s2), nil
		}
	}
	if v.IsNumber() && other.IsNumber() {
		if bothInt(v, other) {
			return FromInt(v.i + other.i), nil
		}
		f1, _ := v.AsFloat()
		f2, _ := other.AsFloat()
		return FromFloat(f1 + f2), nil
	}
	return Value{}, fmt.Errorf("cannot add %s and %s", v.kind, other.kind)
}

// Sub implements `-` with the same integer/float preference as Add.
func (v Value) Sub(other Value) (Value, error) {
	if v.IsNumber() && other.IsNumber() {
		if bothInt(v, other) {
			return FromInt(v.i - other.i), nil
		}
		f1, _ := v.AsFloat()
		f2, _ := other.AsFloat()
		return FromFloat(f1 - f2), nil
	}
	return Value{}, fmt.Errorf("cannot subtract %s from %s", other.kind, v.kind)
}

// Mul implements `*` with the same integer/float preference as Add.
func (v Value) Mul(other Value) (Value, error) {
	if v.IsNumber() && other.IsNumber() {
		if bothInt(v, other) {
			return FromInt(v.i * other.i), nil
		}
		f1, _ := v.AsFloat()
		f2, _ := other.AsFloat()
		return FromFloat(f1 * f2), nil
	}
	return Value{}, fmt.Errorf("cannot multiply %s and %s", v.kind, other.kind)
}

// Div implements `/`: always yields a float, and errors on division by zero.
func (v Value) Div(other Value) (Value, error) {
	f1, ok1 := v.AsFloat()
	f2, ok2 := other.AsFloat()
	if !ok1 || !ok2 {
		return Value{}, fmt.Errorf("cannot divide %s by %s", v.kind, other.kind)
	}
	if f2 == 0 {
		return Value{}, fmt.Errorf("division by zero")
	}
	return FromFloat(f1 / f2), nil
}

// Mod implements `%`: integer modulo.
func (v Value) Mod(other Value) (Value, error) {
	i1, ok1 := v.AsInt()
	i2, ok2 := other.AsInt()
	if !ok1 || !ok2 {
		return Value{}, fmt.Errorf("cannot modulo %s by %s", v.kind, other.kind)
	}
	if i2 == 0 {
		return Value{}, fmt.Errorf("modulo by zero")
	}
	return FromInt(i1 % i2), nil
}

// Pow implements `^`: integer result when both operands are integers and
// the exponent is non-negative and the result fits exactly, float otherwise.
func (v Value) Pow(other Value) (Value, error) {
	f1, ok1 := v.AsFloat()
	f2, ok2 := other.AsFloat()
	if !ok1 || !ok2 {
		return Value{}, fmt.Errorf("cannot raise %s to %s", v.kind, other.kind)
	}
	result := math.Pow(f1, f2)
	if bothInt(v, other) && other.i >= 0 && result == math.Trunc(result) &&
		result <= math.MaxInt64 && result >= math.MinInt64 {
		return FromInt(int64(result)), nil
	}
	return FromFloat(result), nil
}

// Concat stringifies both operands and joins them, independent of the
// numeric/string coercion rules that govern `+`.
func (v Value) Concat(other Value) Value {
	return FromString(v.String() + other.String())
}
