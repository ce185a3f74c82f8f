package internal

import (
	"strings"
	"sync"
)

// hashArray is shared by reference between scopes and execution units.
// Readers take the read lock, mutations take the write lock.
type hashArray struct {
	mu       sync.RWMutex
	elements []interface{}
}

func newArray(elements []interface{}) *hashArray {
	if elements == nil {
		elements = make([]interface{}, 0)
	}
	for _, el := range elements {
		retain(el)
	}
	return &hashArray{elements: elements}
}

func (a *hashArray) len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.elements)
}

func (a *hashArray) get(i int) (interface{}, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if i < 0 || i >= len(a.elements) {
		return nil, false
	}
	return a.elements[i], true
}

// set stores value at i, growing the array with null when needed.
// It fails if that takes more than limit new elements.
func (a *hashArray) set(i int, value interface{}, limit int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n := len(a.elements); i >= n {
		if i-n >= limit {
			return false
		}
		grown := make([]interface{}, i+1)
		copy(grown, a.elements)
		a.elements = grown
	}
	retain(value)
	a.elements[i] = value
	return true
}

func (a *hashArray) push(values ...interface{}) {
	for _, value := range values {
		retain(value)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.elements = append(a.elements, values...)
}

func (a *hashArray) pop() interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.elements) == 0 {
		return nil
	}
	last := a.elements[len(a.elements)-1]
	a.elements = a.elements[:len(a.elements)-1]
	return last
}

// snapshot copies the elements so they can be walked without the lock
func (a *hashArray) snapshot() []interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]interface{}, len(a.elements))
	copy(out, a.elements)
	return out
}

func (a *hashArray) getOperator(op operator) (operatorApply, error) {
	if op == opAdd {
		return func(arguments ...interface{}) (interface{}, error) {
			other, ok := arguments[0].(*hashArray)
			if !ok {
				return nil, mismatch(op, a, arguments[0])
			}
			return newArray(append(a.snapshot(), other.snapshot()...)), nil
		}, nil
	}
	return nil, errUndefinedOp
}

func (a *hashArray) String() string {
	elements := a.snapshot()
	out := make([]string, len(elements))
	for i, el := range elements {
		if el == interface{}(a) {
			out[i] = "[...]"
			continue
		}
		out[i] = reprObj(el)
	}
	return "[" + strings.Join(out, ", ") + "]"
}
