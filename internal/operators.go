package internal

import (
	"fmt"
	"strconv"
)

type operator string

const (
	opAdd operator = "+"
	opSub operator = "-"
	opDiv operator = "/"
	opMul operator = "*"
	opMod operator = "%"
	opPow operator = "^"
	opNeg operator = "neg"
	opEq  operator = "==="
	opNeq operator = "!=="
	opLt  operator = "<"
	opLte operator = "<="
	opGt  operator = ">"
	opGte operator = ">="

	// loose equality compares textual renderings
	opLooseEq  operator = "=="
	opLooseNeq operator = "!="
)

type operatorApply func(arguments ...interface{}) (interface{}, error)

type hashValue interface {
	getOperator(op operator) (operatorApply, error)
}

func mismatch(op operator, left, right interface{}) error {
	return fmt.Errorf("%w: %s %s %s", errUndefinedOp, typeName(left), op, typeName(right))
}

// operateBinary is shared by infix operators and the logic builtins
func operateBinary(op operator, left, right interface{}) (interface{}, error) {
	switch op {
	case opEq:
		return hashBool(strictEquals(left, right)), nil
	case opNeq:
		return hashBool(!strictEquals(left, right)), nil
	case opLooseEq:
		return hashBool(printObj(left) == printObj(right)), nil
	case opLooseNeq:
		return hashBool(printObj(left) != printObj(right)), nil
	}
	leftVal, ok := left.(hashValue)
	if !ok {
		return nil, mismatch(op, left, right)
	}
	apply, err := leftVal.getOperator(op)
	if err != nil {
		return nil, mismatch(op, left, right)
	}
	return apply(right)
}

func operateUnary(op operator, value interface{}) (interface{}, error) {
	val, ok := value.(hashValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", errUndefinedOp, op, typeName(value))
	}
	apply, err := val.getOperator(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s", errUndefinedOp, op, typeName(value))
	}
	return apply()
}

// strictEquals compares scalars by value and everything else by identity
func strictEquals(left, right interface{}) bool {
	switch l := left.(type) {
	case nil:
		return right == nil
	case hashNumber:
		r, ok := right.(hashNumber)
		return ok && l == r
	case hashString:
		r, ok := right.(hashString)
		return ok && l == r
	case hashBool:
		r, ok := right.(hashBool)
		return ok && l == r
	}
	return left == right
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case hashBool:
		return bool(v)
	case hashNumber:
		return v != 0
	case hashString:
		return v != ""
	}
	return true
}

// logicAnd and logicOr evaluate every operand, they back both the
// and/or keywords and the #and/#or builtins
func logicAnd(values ...interface{}) hashBool {
	result := true
	for _, v := range values {
		result = truthy(v) && result
	}
	return hashBool(result)
}

func logicOr(values ...interface{}) hashBool {
	result := false
	for _, v := range values {
		result = truthy(v) || result
	}
	return hashBool(result)
}

func typeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case hashNumber:
		return "number"
	case hashString:
		return "string"
	case hashBool:
		return "bool"
	case *hashArray:
		return "array"
	case *hashFunction:
		return "function"
	case *nativeFn:
		return "builtin"
	case *hashClass:
		return "class"
	case *hashObject:
		return "instance"
	case *hashHandle:
		return "handle"
	}
	return fmt.Sprintf("%T", value)
}

// printObj returns the textual value used by io#println and templates
func printObj(value interface{}) string {
	if value == nil {
		return "null"
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", value)
}

// reprObj quotes strings, used for array elements
func reprObj(value interface{}) string {
	if s, ok := value.(hashString); ok {
		return strconv.Quote(string(s))
	}
	return printObj(value)
}
