package internal

import (
	"fmt"
)

func defineArrays(t builtinTable) {
	t.define("array#len", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		a, err := argArray("array#len", arguments, 0)
		if err != nil {
			return nil, err
		}
		return hashNumber(a.len()), nil
	})

	t.define("array#get", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		i, err := argInt("array#get", arguments, 1)
		if err != nil {
			return nil, err
		}
		// Strings are indexed by character
		if s, isStr := arguments[0].(hashString); isStr {
			runes := []rune(string(s))
			if i < 0 || i >= len(runes) {
				return nil, fmt.Errorf("%w: array#get index %d of length %d", errIndexOutOfRange, i, len(runes))
			}
			return hashString(runes[i]), nil
		}
		a, err := argArray("array#get", arguments, 0)
		if err != nil {
			return nil, err
		}
		value, ok := a.get(i)
		if !ok {
			return nil, fmt.Errorf("%w: array#get index %d of length %d", errIndexOutOfRange, i, a.len())
		}
		return value, nil
	})

	t.define("array#set", 3, 3, func(exec *exec, arguments []interface{}) (interface{}, error) {
		a, err := argArray("array#set", arguments, 0)
		if err != nil {
			return nil, err
		}
		i, err := argInt("array#set", arguments, 1)
		if err != nil {
			return nil, err
		}
		if i < 0 {
			return nil, fmt.Errorf("%w: array#set index %d", errIndexOutOfRange, i)
		}
		if !a.set(i, arguments[2], exec.runtime.config.Runtime.MaxArrayGrowth) {
			return nil, fmt.Errorf("%w: array#set index %d of length %d", errIndexOutOfRange, i, a.len())
		}
		return nil, nil
	})

	t.define("array#push", 2, -1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		a, err := argArray("array#push", arguments, 0)
		if err != nil {
			return nil, err
		}
		a.push(arguments[1:]...)
		return a, nil
	})

	t.define("array#pop", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		a, err := argArray("array#pop", arguments, 0)
		if err != nil {
			return nil, err
		}
		return a.pop(), nil
	})

	t.define("array#clone", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		a, err := argArray("array#clone", arguments, 0)
		if err != nil {
			return nil, err
		}
		return newArray(a.snapshot()), nil
	})

	t.define("array#concat", 2, -1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		elements := make([]interface{}, 0)
		for i := range arguments {
			a, err := argArray("array#concat", arguments, i)
			if err != nil {
				return nil, err
			}
			elements = append(elements, a.snapshot()...)
		}
		return newArray(elements), nil
	})

	t.define("array#contains", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		a, err := argArray("array#contains", arguments, 0)
		if err != nil {
			return nil, err
		}
		for _, el := range a.snapshot() {
			if strictEquals(el, arguments[1]) {
				return hashBool(true), nil
			}
		}
		return hashBool(false), nil
	})
}
