package internal

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type returnValue struct {
	value interface{}
}

type breakValue struct{}

type exec struct {
	runtime *Runtime
	state   *interpreterState
	unit    *unit

	globals *env
	env     *env

	// site is the call being evaluated, used to locate errors raised
	// by builtins on behalf of their caller
	site *token

	// last holds the value of the last top level expression statement
	last interface{}

	// including holds the modules being included, innermost last
	including []string
}

func (e *exec) interpret() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(r)
			ok = false
		}
	}()
	for _, s := range e.state.stmts {
		s.accept(e)
		if _, isExpr := s.(*exprStmt); !isExpr {
			e.last = nil
		}
	}
	return true
}

// invoke calls fn as the entry point of a launched unit
func (e *exec) invoke(fn hashCallable, arguments []interface{}) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(r)
			ok = false
		}
	}()
	e.call(fn, arguments, e.site)
	return true
}

// fail reports the error that aborted the unit
func (e *exec) fail(r interface{}) {
	runErr, isRunErr := r.(*RuntimeError)
	if !isRunErr {
		line := 0
		if e.site != nil {
			line = e.site.line
		}
		runErr = &RuntimeError{
			Err:  fmt.Errorf("%w: %v", errInternal, r),
			Line: line,
		}
	}
	e.state.printRuntimeError(runErr)
	e.unit.log.WithFields(logrus.Fields{
		"kind": runErr.Kind().String(),
		"line": runErr.Line,
	}).WithError(runErr.Err).Error("execution unit failed")
}

func (e *exec) runtimeErr(err error, tk *token) {
	var runErr *RuntimeError
	if errors.As(err, &runErr) {
		panic(runErr)
	}
	if tk == nil {
		tk = &token{}
	}
	panic(&RuntimeError{
		Err:    err,
		Line:   tk.line,
		Lexeme: tk.lexeme,
	})
}

func (e *exec) visitExprStmt(stmt *exprStmt) R {
	e.last = stmt.expression.accept(e)
	return nil
}

func (e *exec) visitLetStmt(stmt *letStmt) R {
	var val interface{}
	if stmt.initializer != nil {
		val = stmt.initializer.accept(e)
	}
	if err := e.env.declare(stmt.name.lexeme, val, stmt.constant); err != nil {
		e.runtimeErr(err, stmt.name)
	}
	return nil
}

func (e *exec) visitBlockStmt(stmt *blockStmt) R {
	return e.executeBlock(stmt.stmts, newEnv(e.env))
}

func (e *exec) executeBlock(stmts []stmt, env *env) R {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = env
	for _, s := range stmts {
		val := s.accept(e)
		switch val.(type) {
		case *returnValue, *breakValue:
			e.unit.release(env, previous, val)
			return val
		}
	}
	e.unit.release(env, previous, nil)
	return nil
}

func (e *exec) visitLoopStmt(stmt *loopStmt) R {
	for {
		val := e.executeBlock(stmt.body, newEnv(e.env))
		switch val.(type) {
		case *returnValue:
			return val
		case *breakValue:
			return nil
		}
	}
}

func (e *exec) visitReturnStmt(stmt *returnStmt) R {
	result := &returnValue{}
	if stmt.value != nil {
		result.value = stmt.value.accept(e)
	}
	return result
}

func (e *exec) visitBreakStmt(stmt *breakStmt) R {
	return &breakValue{}
}

func (e *exec) visitIfStmt(stmt *ifStmt) R {
	if truthy(stmt.condition.accept(e)) {
		return e.executeBlock(stmt.thenBranch, newEnv(e.env))
	}
	if stmt.elseBranch != nil {
		return e.executeBlock(stmt.elseBranch, newEnv(e.env))
	}
	return nil
}

func (e *exec) visitFnStmt(stmt *fnStmt) R {
	fn := &hashFunction{
		name:    stmt.name.lexeme,
		params:  stmt.params,
		body:    stmt.body,
		closure: e.env,
	}
	e.env.capture()
	if err := e.env.declare(stmt.name.lexeme, fn, false); err != nil {
		e.runtimeErr(err, stmt.name)
	}
	if owner := e.env.owner; owner != nil {
		fn.receiver = owner
		owner.expose(fn)
	}
	return nil
}

func (e *exec) visitClassStmt(stmt *classStmt) R {
	class := &hashClass{
		declaration: stmt,
		closure:     e.env,
	}
	if err := e.env.declare(stmt.name.lexeme, class, false); err != nil {
		e.runtimeErr(err, stmt.name)
	}
	return nil
}

func (e *exec) visitIncludeStmt(stmt *includeStmt) R {
	mod, err := e.runtime.module(stmt.dir, string(stmt.path.literal.(hashString)))
	if err != nil {
		e.runtimeErr(err, stmt.keyword)
	}
	for _, path := range e.including {
		if path == mod.absPath {
			e.runtimeErr(fmt.Errorf("%w '%s'", errIncludeCycle, mod.absPath), stmt.keyword)
		}
	}

	e.including = append(e.including, mod.absPath)
	defer func() {
		e.including = e.including[:len(e.including)-1]
	}()
	for _, s := range mod.stmts {
		s.accept(e)
	}
	return nil
}

// visitImportStmt binds the module as a class whose body is the
// module, its functions are reached with Name::fn()
func (e *exec) visitImportStmt(stmt *importStmt) R {
	mod, err := e.runtime.module(stmt.dir, string(stmt.path.literal.(hashString)))
	if err != nil {
		e.runtimeErr(err, stmt.keyword)
	}
	class := &hashClass{
		declaration: &classStmt{
			name: stmt.name,
			body: mod.stmts,
		},
		closure: e.env,
	}
	if err := e.env.declare(stmt.name.lexeme, class, true); err != nil {
		e.runtimeErr(err, stmt.name)
	}
	return nil
}

func (e *exec) visitArrayExpr(expr *arrayExpr) R {
	elements := make([]interface{}, len(expr.elements))
	for i, el := range expr.elements {
		elements[i] = el.accept(e)
	}
	return newArray(elements)
}

var compoundOperators = map[tokenType]operator{
	tkPlusEqual:  opAdd,
	tkMinusEqual: opSub,
	tkStarEqual:  opMul,
	tkSlashEqual: opDiv,
}

func (e *exec) visitAssignExpr(expr *assignExpr) R {
	value := expr.value.accept(e)

	op, isCompound := compoundOperators[expr.operator.token]
	if !isCompound {
		found, err := e.env.assign(expr.name.lexeme, value)
		if !found {
			e.runtimeErr(fmt.Errorf("%w '%s'", errUndefinedVar, expr.name.lexeme), expr.name)
		}
		if err != nil {
			e.runtimeErr(err, expr.operator)
		}
		return value
	}

	_, result, found, err := e.env.update(expr.name.lexeme, func(old interface{}) (interface{}, error) {
		return operateBinary(op, old, value)
	})
	if !found {
		e.runtimeErr(fmt.Errorf("%w '%s'", errUndefinedVar, expr.name.lexeme), expr.name)
	}
	if err != nil {
		e.runtimeErr(err, expr.operator)
	}
	return result
}

var binaryOperators = map[tokenType]operator{
	tkEqualEqual:      opLooseEq,
	tkBangEqual:       opLooseNeq,
	tkEqualEqualEqual: opEq,
	tkBangEqualEqual:  opNeq,
	tkGreater:         opGt,
	tkGreaterEqual:    opGte,
	tkLess:            opLt,
	tkLessEqual:       opLte,
	tkPlus:            opAdd,
	tkMinus:           opSub,
	tkSlash:           opDiv,
	tkMod:             opMod,
	tkStar:            opMul,
	tkPower:           opPow,
}

func (e *exec) visitBinaryExpr(expr *binaryExpr) R {
	left := expr.left.accept(e)
	right := expr.right.accept(e)
	op, ok := binaryOperators[expr.operator.token]
	if !ok {
		e.runtimeErr(errUndefinedOp, expr.operator)
	}
	value, err := operateBinary(op, left, right)
	if err != nil {
		e.runtimeErr(err, expr.operator)
	}
	return value
}

func (e *exec) evaluateArguments(exprs []expr) []interface{} {
	arguments := make([]interface{}, len(exprs))
	for i := range exprs {
		arguments[i] = exprs[i].accept(e)
	}
	return arguments
}

func (e *exec) visitCallExpr(expr *callExpr) R {
	callee := expr.callee.accept(e)
	arguments := e.evaluateArguments(expr.arguments)

	if _, isClass := callee.(*hashClass); isClass {
		e.runtimeErr(errClassNotCallable, expr.paren)
	}
	fn, isFn := callee.(hashCallable)
	if !isFn {
		e.runtimeErr(fmt.Errorf("%w, got %s", errOnlyFunction, typeName(callee)), expr.paren)
	}

	return e.call(fn, arguments, expr.paren)
}

func (e *exec) call(fn hashCallable, arguments []interface{}, site *token) interface{} {
	previous := e.site
	defer func() {
		e.site = previous
	}()
	e.site = site

	result, err := fn.call(e, arguments)
	if err != nil {
		e.runtimeErr(err, site)
	}
	return result
}

func (e *exec) visitBuiltinExpr(expr *builtinExpr) R {
	fn, ok := e.runtime.builtins[expr.name.lexeme]
	if !ok {
		e.runtimeErr(fmt.Errorf("%w '%s'", errUnknownBuiltin, expr.name.lexeme), expr.name)
	}
	return fn
}

func (e *exec) visitInlineExpr(expr *inlineExpr) R {
	arguments := e.evaluateArguments(expr.arguments)
	if len(arguments) == 0 {
		e.runtimeErr(fmt.Errorf("%w: #= expects at least 1, got 0", errInvalidNumberArguments), expr.keyword)
	}
	template, ok := arguments[0].(hashString)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w: #= argument 1 is %s", errExpectedString, typeName(arguments[0])), expr.keyword)
	}

	inline, err := e.runtime.parseInline(formatTemplate(string(template), arguments[1:]), expr.keyword.line)
	if err != nil {
		e.runtimeErr(err, expr.keyword)
	}
	return inline.accept(e)
}

func (e *exec) visitGetExpr(expr *getExpr) R {
	object := expr.object.accept(e)
	obj, ok := object.(*hashObject)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w, got %s", errExpectedObject, typeName(object)), expr.name)
	}
	method, ok := obj.method(expr.name.lexeme)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w '%s' on %s", errUndefinedField, expr.name.lexeme, obj), expr.name)
	}
	return method
}

func (e *exec) visitNewExpr(expr *newExpr) R {
	value, ok := e.env.get(expr.class.lexeme)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w '%s'", errUndefinedVar, expr.class.lexeme), expr.class)
	}
	class, ok := value.(*hashClass)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w, got %s", errExpectedClass, typeName(value)), expr.class)
	}

	arguments := e.evaluateArguments(expr.arguments)

	previous := e.site
	defer func() {
		e.site = previous
	}()
	e.site = expr.keyword

	obj, err := class.instantiate(e, arguments)
	if err != nil {
		e.runtimeErr(err, expr.keyword)
	}
	return obj
}

func (e *exec) visitGroupingExpr(expr *groupingExpr) R {
	return expr.expression.accept(e)
}

func (e *exec) visitLiteralExpr(expr *literalExpr) R {
	return expr.value
}

func (e *exec) visitLogicalExpr(expr *logicalExpr) R {
	left := expr.left.accept(e)
	right := expr.right.accept(e)

	if expr.operator.token == tkOr {
		return logicOr(left, right)
	}
	return logicAnd(left, right)
}

func (e *exec) visitUnaryExpr(expr *unaryExpr) R {
	value := expr.right.accept(e)
	if expr.operator.token == tkNot {
		return !hashBool(truthy(value))
	}
	result, err := operateUnary(opNeg, value)
	if err != nil {
		e.runtimeErr(err, expr.operator)
	}
	return result
}

func (e *exec) visitPostfixExpr(expr *postfixExpr) R {
	op := opAdd
	if expr.operator.token == tkMinusMinus {
		op = opSub
	}
	old, _, found, err := e.env.update(expr.name.lexeme, func(old interface{}) (interface{}, error) {
		return operateBinary(op, old, hashNumber(1))
	})
	if !found {
		e.runtimeErr(fmt.Errorf("%w '%s'", errUndefinedVar, expr.name.lexeme), expr.name)
	}
	if err != nil {
		e.runtimeErr(err, expr.operator)
	}
	return old
}

func (e *exec) visitVariableExpr(expr *variableExpr) R {
	value, ok := e.env.get(expr.name.lexeme)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w '%s'", errUndefinedVar, expr.name.lexeme), expr.name)
	}
	return value
}

func (e *exec) visitFunctionExpr(expr *functionExpr) R {
	e.env.capture()
	return &hashFunction{
		name:    "lambda",
		params:  expr.params,
		body:    expr.body,
		closure: e.env,
	}
}

// visitStaticExpr runs the class body in a fresh instance and returns
// the named function bound to it
func (e *exec) visitStaticExpr(expr *staticExpr) R {
	value, ok := e.env.get(expr.class.lexeme)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w '%s'", errUndefinedVar, expr.class.lexeme), expr.class)
	}
	class, ok := value.(*hashClass)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w, got %s", errExpectedClass, typeName(value)), expr.class)
	}

	previous := e.site
	defer func() {
		e.site = previous
	}()
	e.site = expr.name

	obj, err := class.instantiate(e, nil)
	if err != nil {
		e.runtimeErr(err, expr.name)
	}
	method, ok := obj.method(expr.name.lexeme)
	if !ok {
		e.runtimeErr(fmt.Errorf("%w '%s' on %s", errUndefinedField, expr.name.lexeme, class), expr.name)
	}
	return method
}
