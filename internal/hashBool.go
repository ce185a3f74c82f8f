package internal

type hashBool bool

func (b hashBool) getOperator(op operator) (operatorApply, error) {
	return nil, errUndefinedOp
}

func (b hashBool) String() string {
	if b {
		return "true"
	}
	return "false"
}
