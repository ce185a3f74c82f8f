package internal

import (
	"fmt"
	"strings"
)

type hashCallable interface {
	call(exec *exec, arguments []interface{}) (interface{}, error)
}

type hashFunction struct {
	name    string
	params  []*token
	body    []stmt
	closure *env

	// receiver is the instance whose constructor declared this method
	receiver *hashObject
}

type nativeFn struct {
	name    string
	minArgs int
	maxArgs int // -1 means variadic
	callFn  func(exec *exec, arguments []interface{}) (interface{}, error)
}

func (n *nativeFn) arity() string {
	switch {
	case n.maxArgs < 0:
		return fmt.Sprintf("at least %d", n.minArgs)
	case n.minArgs == n.maxArgs:
		return fmt.Sprintf("%d", n.minArgs)
	}
	return fmt.Sprintf("%d to %d", n.minArgs, n.maxArgs)
}

func (n *nativeFn) call(exec *exec, arguments []interface{}) (interface{}, error) {
	if len(arguments) < n.minArgs || (n.maxArgs >= 0 && len(arguments) > n.maxArgs) {
		return nil, fmt.Errorf(
			"%w: %s expects %s, got %d",
			errInvalidNumberArguments,
			n.name,
			n.arity(),
			len(arguments),
		)
	}
	return n.callFn(exec, arguments)
}

func (n *nativeFn) String() string {
	return fmt.Sprintf("<builtin %s>", n.name)
}

// takesSelf reports whether calls through the receiver pass the
// instance as first argument
func (f *hashFunction) takesSelf() bool {
	return f.receiver != nil && len(f.params) > 0 && f.params[0].lexeme == "self"
}

func (f *hashFunction) call(exec *exec, arguments []interface{}) (interface{}, error) {
	if f.takesSelf() {
		arguments = append([]interface{}{f.receiver}, arguments...)
	}

	if len(arguments) > len(f.params) {
		return nil, fmt.Errorf(
			"%w: %s expects %d, got %d",
			errWrongArity,
			f,
			len(f.params),
			len(arguments),
		)
	}

	env := newEnv(f.closure)
	for i, param := range f.params {
		// Missing arguments are null
		var value interface{}
		if i < len(arguments) {
			value = arguments[i]
		}
		env.define(param.lexeme, value)
	}

	if result, ok := exec.executeBlock(f.body, env).(*returnValue); ok {
		return result.value, nil
	}
	return nil, nil
}

func (f *hashFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.name)
}

func (f *hashFunction) signature() string {
	names := make([]string, len(f.params))
	for i, p := range f.params {
		names[i] = p.lexeme
	}
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(names, ", "))
}
