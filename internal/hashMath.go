package internal

import (
	"fmt"
	"math"
	"time"
)

func defineMath(t builtinTable) {
	unary := func(name string, apply func(float64) float64) {
		t.define(name, 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
			n, err := argNumber(name, arguments, 0)
			if err != nil {
				return nil, err
			}
			return hashNumber(apply(n)), nil
		})
	}
	unary("math#round", math.Round)
	unary("math#floor", math.Floor)

	t.define("math#sqrt", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		n, err := argNumber("math#sqrt", arguments, 0)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", errNegativeSqrt, hashNumber(n))
		}
		return hashNumber(math.Sqrt(n)), nil
	})

	// math#eval evaluates a numeric expression in an empty scope
	t.define("math#eval", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		source, err := argString("math#eval", arguments, 0)
		if err != nil {
			return nil, err
		}
		line := 0
		if exec.site != nil {
			line = exec.site.line
		}
		parsed, err := exec.runtime.parseInline(source, line)
		if err != nil {
			return nil, err
		}

		previous := exec.env
		defer func() {
			exec.env = previous
		}()
		exec.env = newEnv(nil)

		result := parsed.accept(exec)
		if _, ok := result.(hashNumber); !ok {
			return nil, fmt.Errorf("%w: math#eval of %q is %s", errExpectedNumber, source, typeName(result))
		}
		return result, nil
	})
}

func defineRng(t builtinTable) {
	t.define("rng#rand", 0, 0, func(exec *exec, arguments []interface{}) (interface{}, error) {
		return hashNumber(exec.runtime.random()), nil
	})

	t.define("rng#rand_range", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		min, err := argNumber("rng#rand_range", arguments, 0)
		if err != nil {
			return nil, err
		}
		max, err := argNumber("rng#rand_range", arguments, 1)
		if err != nil {
			return nil, err
		}
		return hashNumber(exec.runtime.random()*(max-min) + min), nil
	})
}

func defineTime(t builtinTable) {
	t.define("time#now", 0, 0, func(exec *exec, arguments []interface{}) (interface{}, error) {
		return hashNumber(float64(time.Now().UnixNano()) / float64(time.Second)), nil
	})

	t.define("time#sleep", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		seconds, err := argNumber("time#sleep", arguments, 0)
		if err != nil {
			return nil, err
		}
		if seconds > 0 {
			time.Sleep(time.Duration(seconds * float64(time.Second)))
		}
		return nil, nil
	})
}
