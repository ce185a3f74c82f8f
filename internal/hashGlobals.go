package internal

import (
	"fmt"
	"sort"
	"strings"
)

type builtinTable map[string]*nativeFn

func (t builtinTable) define(name string, minArgs, maxArgs int, callFn func(exec *exec, arguments []interface{}) (interface{}, error)) {
	t[name] = &nativeFn{
		name:    name,
		minArgs: minArgs,
		maxArgs: maxArgs,
		callFn:  callFn,
	}
}

// defineBuiltins builds the ns#name dispatch table
func defineBuiltins() builtinTable {
	t := builtinTable{}
	defineIo(t)
	defineStrings(t)
	defineArrays(t)
	defineMath(t)
	defineRng(t)
	defineTime(t)
	defineNet(t)
	defineFs(t)
	defineThread(t)
	defineClass(t)
	defineLogic(t)
	return t
}

func argString(name string, arguments []interface{}, i int) (string, error) {
	s, ok := arguments[i].(hashString)
	if !ok {
		return "", fmt.Errorf("%w: %s argument %d is %s", errExpectedString, name, i+1, typeName(arguments[i]))
	}
	return string(s), nil
}

func argNumber(name string, arguments []interface{}, i int) (float64, error) {
	n, ok := arguments[i].(hashNumber)
	if !ok {
		return 0, fmt.Errorf("%w: %s argument %d is %s", errExpectedNumber, name, i+1, typeName(arguments[i]))
	}
	return float64(n), nil
}

// maxSafeInteger is the largest integer a number holds exactly
const maxSafeInteger = 1 << 53

func argInt(name string, arguments []interface{}, i int) (int, error) {
	n, ok := arguments[i].(hashNumber)
	if !ok || !n.isInt() {
		return 0, fmt.Errorf("%w: %s argument %d is %s", errExpectedInteger, name, i+1, printObj(arguments[i]))
	}
	if n > maxSafeInteger || n < -maxSafeInteger {
		return 0, fmt.Errorf("%w: %s argument %d is %s", errIntegerOutOfRange, name, i+1, n)
	}
	return int(n), nil
}

func argArray(name string, arguments []interface{}, i int) (*hashArray, error) {
	a, ok := arguments[i].(*hashArray)
	if !ok {
		return nil, fmt.Errorf("%w: %s argument %d is %s", errExpectedArray, name, i+1, typeName(arguments[i]))
	}
	return a, nil
}

func defineIo(t builtinTable) {
	t.define("io#println", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		_, err := exec.runtime.printer.Println(printObj(arguments[0]))
		return nil, err
	})

	t.define("io#inspect", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		_, err := exec.runtime.printer.Println(inspect(arguments[0]))
		return nil, err
	})
}

// inspect renders a value tagged with its kind
func inspect(value interface{}) string {
	switch v := value.(type) {
	case hashString:
		return fmt.Sprintf("string %q", string(v))
	case *hashFunction:
		return "function " + v.signature()
	case *hashObject:
		fields := make([]string, 0)
		for _, name := range v.env.names() {
			if _, isMethod := v.methods[name]; !isMethod {
				fields = append(fields, name)
			}
		}
		sort.Strings(fields)
		return fmt.Sprintf(
			"instance %s {fields: %s; methods: %s}",
			v.class.name(),
			strings.Join(fields, ", "),
			strings.Join(v.order, ", "),
		)
	case nil:
		return "null"
	}
	return typeName(value) + " " + printObj(value)
}

func defineClass(t builtinTable) {
	t.define("class#get", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		obj, ok := arguments[0].(*hashObject)
		if !ok {
			return nil, fmt.Errorf("%w: class#get argument 1 is %s", errExpectedInstance, typeName(arguments[0]))
		}
		name, err := argString("class#get", arguments, 1)
		if err != nil {
			return nil, err
		}
		value, ok := obj.field(name)
		if !ok {
			return nil, fmt.Errorf("%w '%s' on %s", errUndefinedField, name, obj)
		}
		return value, nil
	})
}

func defineLogic(t builtinTable) {
	binary := func(name string, op operator) {
		t.define(name, 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
			return operateBinary(op, arguments[0], arguments[1])
		})
	}
	binary("#eq", opEq)
	binary("#lt", opLt)
	binary("#gt", opGt)

	t.define("#and", 2, -1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		return logicAnd(arguments...), nil
	})
	t.define("#or", 2, -1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		return logicOr(arguments...), nil
	})
}
