package internal

import (
	"fmt"
	"sync"
)

// env is one scope of bindings. Environments captured by closures are
// shared between execution units so every access goes through mu.
type env struct {
	mu sync.RWMutex

	enclosing *env
	values    map[string]interface{}
	consts    map[string]struct{}

	// captured is set once a closure or an instance holds this scope,
	// it then outlives the block that created it
	captured bool

	// owner is set on the scope created by new, fn declarations made
	// directly in it become methods of the instance
	owner *hashObject
}

func newEnv(enclosing *env) *env {
	return &env{
		enclosing: enclosing,
		values:    make(map[string]interface{}),
	}
}

func (e *env) get(name string) (interface{}, bool) {
	for current := e; current != nil; current = current.enclosing {
		if value, ok := current.getLocal(name); ok {
			return value, true
		}
	}
	return nil, false
}

func (e *env) getLocal(name string) (interface{}, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	value, ok := e.values[name]
	return value, ok
}

func (e *env) define(name string, value interface{}) {
	e.mu.Lock()
	e.values[name] = value
	delete(e.consts, name)
	e.mu.Unlock()
	e.adopt(value)
}

// declare binds name in this scope like let does. A constant of the
// same scope cannot be declared again.
func (e *env) declare(name string, value interface{}, constant bool) error {
	e.mu.Lock()
	if _, isConst := e.consts[name]; isConst {
		e.mu.Unlock()
		return fmt.Errorf("%w '%s'", errAssignConstant, name)
	}
	e.values[name] = value
	if constant {
		if e.consts == nil {
			e.consts = make(map[string]struct{})
		}
		e.consts[name] = struct{}{}
	}
	e.mu.Unlock()
	e.adopt(value)
	return nil
}

// assign sets the nearest existing binding, found is false if there is none
func (e *env) assign(name string, value interface{}) (found bool, err error) {
	_, _, found, err = e.update(name, func(interface{}) (interface{}, error) {
		return value, nil
	})
	return found, err
}

// update replaces the nearest binding of name with apply(old) while
// holding the scope lock, so concurrent read-modify-write sequences
// on a shared binding do not lose updates
func (e *env) update(name string, apply func(old interface{}) (interface{}, error)) (old, value interface{}, found bool, err error) {
	for current := e; current != nil; current = current.enclosing {
		current.mu.Lock()
		if prev, ok := current.values[name]; ok {
			if _, isConst := current.consts[name]; isConst {
				current.mu.Unlock()
				return prev, prev, true, fmt.Errorf("%w '%s'", errAssignConstant, name)
			}
			value, err = apply(prev)
			if err == nil {
				current.values[name] = value
			}
			current.mu.Unlock()
			if err == nil {
				current.adopt(value)
			}
			return prev, value, true, err
		}
		current.mu.Unlock()
	}
	return nil, nil, false, nil
}

// capture marks e and every enclosing scope as captured. Connections
// already bound there are kept until their unit ends.
func (e *env) capture() {
	for current := e; current != nil; current = current.enclosing {
		current.mu.Lock()
		if current.captured {
			current.mu.Unlock()
			return
		}
		current.captured = true
		values := make([]interface{}, 0, len(current.values))
		for _, value := range current.values {
			values = append(values, value)
		}
		current.mu.Unlock()

		for _, value := range values {
			retain(value)
		}
	}
}

func (e *env) isCaptured() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.captured
}

// adopt records that value is now bound in e
func (e *env) adopt(value interface{}) {
	h, ok := value.(*hashHandle)
	if !ok || h.kind != handleConnection {
		return
	}
	if e.isCaptured() {
		h.retain()
		return
	}
	h.widen(e)
}

// encloses reports whether inner is e or one of its descendants
func (e *env) encloses(inner *env) bool {
	for current := inner; current != nil; current = current.enclosing {
		if current == e {
			return true
		}
	}
	return false
}

// names returns the bindings defined in this scope
func (e *env) names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	return names
}
