package lframe

import (
	"fmt"
	"math"
)

type arithOp int

const (
	opAdd arithOp = iota
	opSubtract
	opMultiply
	opDivide
	opMod
	opPow
)

func (op arithOp) String() string {
	return [...]string{"add", "subtract", "multiply", "divide", "mod", "pow"}[op]
}

// Add returns v + other. other may be a *Vector or a scalar.
//
// Between two Vectors, the result is labeled by the sorted union of both indexes,
// even when both indexes are already equal. A label missing from either side,
// or holding nil on either side, yields nil. A scalar is applied to every value and the index is kept.
//
// Integers stay integers (int if both operands are int, int64 otherwise); any float operand yields float64.
// Two strings are concatenated.
func (v *Vector) Add(other interface{}) (*Vector, error) {
	return v.arithmetic(opAdd, other, false)
}

// AddSkipNil is Add, except that a missing or absent value on one side counts as zero.
// The result is nil only where both sides are missing.
func (v *Vector) AddSkipNil(other interface{}) (*Vector, error) {
	return v.arithmetic(opAdd, other, true)
}

// Subtract returns v - other, aligned as in Add.
func (v *Vector) Subtract(other interface{}) (*Vector, error) {
	return v.arithmetic(opSubtract, other, false)
}

// Multiply returns v * other, aligned as in Add.
func (v *Vector) Multiply(other interface{}) (*Vector, error) {
	return v.arithmetic(opMultiply, other, false)
}

// Divide returns v / other, aligned as in Add.
// Integer division truncates, and integer division by zero is an error.
func (v *Vector) Divide(other interface{}) (*Vector, error) {
	return v.arithmetic(opDivide, other, false)
}

// Mod returns v % other, aligned as in Add.
func (v *Vector) Mod(other interface{}) (*Vector, error) {
	return v.arithmetic(opMod, other, false)
}

// Pow returns v ** other, aligned as in Add.
func (v *Vector) Pow(other interface{}) (*Vector, error) {
	return v.arithmetic(opPow, other, false)
}

func (v *Vector) arithmetic(op arithOp, other interface{}, skipNil bool) (*Vector, error) {
	o, ok := other.(*Vector)
	if !ok {
		if isSlice(other) {
			return nil, fmt.Errorf("%v: operand must be a *Vector or a scalar, not %T: %w", op, other, ErrType)
		}
		values := make([]interface{}, v.Len())
		for i, val := range v.values.slice {
			ret, err := applyOp(op, val, other, skipNil)
			if err != nil {
				return nil, fmt.Errorf("%v: position %d: %w", op, i, err)
			}
			values[i] = ret
		}
		return newVector(values, v.index, v.values.name, v.cfg), nil
	}
	var index Indexer
	var lvals, rvals []interface{}
	if v.index.Equal(o.index) {
		// same labels in the same order: sort once and permute both sides
		var order []int
		index, order = v.index.Sort(true)
		lvals, _ = subsetValues(v.values.slice, order)
		rvals, _ = subsetValues(o.values.slice, order)
	} else {
		var err error
		index, err = SortedUnion(v.index, o.index)
		if err != nil {
			return nil, fmt.Errorf("%v: aligning: %w", op, err)
		}
		lvals, rvals = v.reindex(index).values.slice, o.reindex(index).values.slice
	}
	values := make([]interface{}, index.Len())
	for i := range values {
		ret, err := applyOp(op, lvals[i], rvals[i], skipNil)
		if err != nil {
			label, _ := index.At(i)
			return nil, fmt.Errorf("%v: label %v: %w", op, label, err)
		}
		values[i] = ret
	}
	return newVector(values, index, v.values.name, v.cfg), nil
}

// applyOp applies op to one pair of values.
func applyOp(op arithOp, a, b interface{}, skipNil bool) (interface{}, error) {
	if skipNil {
		switch {
		case isMissing(a) && isMissing(b):
			return nil, nil
		case isMissing(a):
			return applyOp(op, zeroLike(b), b, false)
		case isMissing(b):
			return applyOp(op, a, zeroLike(a), false)
		}
	}
	if a == nil || b == nil {
		return nil, nil
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok && op == opAdd {
			return as + bs, nil
		}
		return nil, fmt.Errorf("%v (%T) and %v (%T): %w", a, a, b, b, ErrType)
	}
	if !isNumber(a) || !isNumber(b) {
		return nil, fmt.Errorf("%v (%T) and %v (%T): %w", a, a, b, b, ErrType)
	}
	ai, aok := asInt64(a)
	bi, bok := asInt64(b)
	if aok && bok && isInteger(a) && isInteger(b) {
		ret, isInt, err := intOp(op, ai, bi)
		if err != nil {
			return nil, err
		}
		if !isInt {
			return ret, nil
		}
		_, aInt := a.(int)
		_, bInt := b.(int)
		if aInt && bInt {
			return int(ret.(int64)), nil
		}
		return ret, nil
	}
	af, _ := toFloat(a)
	bf, _ := toFloat(b)
	return floatOp(op, af, bf), nil
}

// intOp returns an int64, or a float64 for a negative exponent.
func intOp(op arithOp, a, b int64) (interface{}, bool, error) {
	switch op {
	case opAdd:
		return a + b, true, nil
	case opSubtract:
		return a - b, true, nil
	case opMultiply:
		return a * b, true, nil
	case opDivide:
		if b == 0 {
			return nil, false, fmt.Errorf("integer division by zero: %w", ErrArithmetic)
		}
		return a / b, true, nil
	case opMod:
		if b == 0 {
			return nil, false, fmt.Errorf("integer modulo by zero: %w", ErrArithmetic)
		}
		return a % b, true, nil
	case opPow:
		if b < 0 {
			return math.Pow(float64(a), float64(b)), false, nil
		}
		ret := int64(1)
		for ; b > 0; b-- {
			ret *= a
		}
		return ret, true, nil
	}
	return nil, false, fmt.Errorf("unknown operation %d: %w", op, ErrArgument)
}

func floatOp(op arithOp, a, b float64) float64 {
	switch op {
	case opAdd:
		return a + b
	case opSubtract:
		return a - b
	case opMultiply:
		return a * b
	case opDivide:
		return a / b
	case opMod:
		return math.Mod(a, b)
	}
	return math.Pow(a, b)
}

// zeroLike returns the additive identity for the kind of v.
func zeroLike(v interface{}) interface{} {
	switch v.(type) {
	case string:
		return ""
	case int:
		return 0
	case float32, float64:
		return 0.0
	}
	if isInteger(v) {
		return int64(0)
	}
	return 0
}
