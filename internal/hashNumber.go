package internal

import (
	"math"
	"strconv"
)

type hashNumber float64

var numberBinaryOperations = map[operator]func(x, y hashNumber) interface{}{
	opAdd: func(x, y hashNumber) interface{} {
		return x + y
	},
	opSub: func(x, y hashNumber) interface{} {
		return x - y
	},
	opMul: func(x, y hashNumber) interface{} {
		return x * y
	},
	opDiv: func(x, y hashNumber) interface{} {
		return x / y
	},
	opMod: func(x, y hashNumber) interface{} {
		return hashNumber(math.Mod(float64(x), float64(y)))
	},
	opPow: func(x, y hashNumber) interface{} {
		return hashNumber(math.Pow(float64(x), float64(y)))
	},
	opLt: func(x, y hashNumber) interface{} {
		return hashBool(x < y)
	},
	opLte: func(x, y hashNumber) interface{} {
		return hashBool(x <= y)
	},
	opGt: func(x, y hashNumber) interface{} {
		return hashBool(x > y)
	},
	opGte: func(x, y hashNumber) interface{} {
		return hashBool(x >= y)
	},
}

func (n hashNumber) getOperator(op operator) (operatorApply, error) {
	if apply, ok := numberBinaryOperations[op]; ok {
		return func(arguments ...interface{}) (interface{}, error) {
			y, ok := arguments[0].(hashNumber)
			if !ok {
				return nil, mismatch(op, n, arguments[0])
			}
			return apply(n, y), nil
		}, nil
	}
	if op == opNeg {
		return func(arguments ...interface{}) (interface{}, error) {
			return -n, nil
		}, nil
	}
	return nil, errUndefinedOp
}

// isInt reports whether n holds an integral value
func (n hashNumber) isInt() bool {
	return float64(n) == math.Trunc(float64(n)) && !math.IsInf(float64(n), 0)
}

func (n hashNumber) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
