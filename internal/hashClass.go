package internal

import "fmt"

type hashClass struct {
	declaration *classStmt
	closure     *env
}

func (c *hashClass) name() string {
	return c.declaration.name.lexeme
}

// instantiate runs the class body once in a fresh scope that is a child
// of the scope where the class was declared
func (c *hashClass) instantiate(exec *exec, arguments []interface{}) (*hashObject, error) {
	params := c.declaration.params
	if len(arguments) > len(params) {
		return nil, fmt.Errorf(
			"%w: %s expects %d, got %d",
			errWrongArity,
			c,
			len(params),
			len(arguments),
		)
	}

	obj := &hashObject{
		class:   c,
		methods: make(map[string]*hashFunction),
	}
	obj.env = newEnv(c.closure)
	obj.env.owner = obj
	obj.env.capture()

	for i, param := range params {
		var value interface{}
		if i < len(arguments) {
			value = arguments[i]
		}
		obj.env.define(param.lexeme, value)
	}

	exec.executeBlock(c.declaration.body, obj.env)

	return obj, nil
}

func (c *hashClass) String() string {
	return fmt.Sprintf("<class %s>", c.name())
}
