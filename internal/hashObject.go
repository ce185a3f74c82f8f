package internal

import "fmt"

// hashObject is a class instance: the scope its constructor ran in plus
// the methods that scope declared, in declaration order
type hashObject struct {
	class   *hashClass
	env     *env
	methods map[string]*hashFunction
	order   []string
}

func (o *hashObject) expose(fn *hashFunction) {
	if _, ok := o.methods[fn.name]; !ok {
		o.order = append(o.order, fn.name)
	}
	o.methods[fn.name] = fn
}

func (o *hashObject) method(name string) (*hashFunction, bool) {
	fn, ok := o.methods[name]
	return fn, ok
}

// field reads the constructor scope directly, bypassing the methods
func (o *hashObject) field(name string) (interface{}, bool) {
	return o.env.getLocal(name)
}

func (o *hashObject) String() string {
	return fmt.Sprintf("<instance %s>", o.class.name())
}
