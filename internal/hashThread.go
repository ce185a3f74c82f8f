package internal

import "fmt"

func defineThread(t builtinTable) {
	// thread#launch starts fn on a new unit and returns right away
	t.define("thread#launch", 1, -1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		fn, ok := arguments[0].(hashCallable)
		if !ok {
			return nil, fmt.Errorf("%w: thread#launch argument 1 is %s", errExpectedFunction, typeName(arguments[0]))
		}
		exec.runtime.launch(exec, fn, arguments[1:])
		return nil, nil
	})
}
