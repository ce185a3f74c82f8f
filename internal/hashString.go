package internal

type hashString string

var stringBinaryOperations = map[operator]func(x, y hashString) interface{}{
	opAdd: func(x, y hashString) interface{} {
		return x + y
	},
	opLt: func(x, y hashString) interface{} {
		return hashBool(x < y)
	},
	opLte: func(x, y hashString) interface{} {
		return hashBool(x <= y)
	},
	opGt: func(x, y hashString) interface{} {
		return hashBool(x > y)
	},
	opGte: func(x, y hashString) interface{} {
		return hashBool(x >= y)
	},
}

func (s hashString) getOperator(op operator) (operatorApply, error) {
	if apply, ok := stringBinaryOperations[op]; ok {
		return func(arguments ...interface{}) (interface{}, error) {
			y, ok := arguments[0].(hashString)
			if !ok {
				return nil, mismatch(op, s, arguments[0])
			}
			return apply(s, y), nil
		}, nil
	}
	return nil, errUndefinedOp
}

func (s hashString) String() string {
	return string(s)
}
