package internal

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the runtime can report
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	UnboundNameError
	UnknownBuiltinError
	BuiltinArgumentError
	UnknownFieldError
	TypeMismatchError
	BreakOutsideLoopError
	ArityError
	IOError
	InternalError
	ConstantAssignmentError
)

var kindNames = map[ErrorKind]string{
	SyntaxError:             "SyntaxError",
	UnboundNameError:        "UnboundNameError",
	UnknownBuiltinError:     "UnknownBuiltinError",
	BuiltinArgumentError:    "BuiltinArgumentError",
	UnknownFieldError:       "UnknownFieldError",
	TypeMismatchError:       "TypeMismatchError",
	BreakOutsideLoopError:   "BreakOutsideLoopError",
	ArityError:              "ArityError",
	IOError:                 "IOError",
	InternalError:           "InternalError",
	ConstantAssignmentError: "ConstantAssignmentError",
}

func (k ErrorKind) String() string {
	return kindNames[k]
}

type kindedError struct {
	kind ErrorKind
	msg  string
}

func (e *kindedError) Error() string {
	return e.msg
}

func newError(kind ErrorKind, msg string) error {
	return &kindedError{kind: kind, msg: msg}
}

// KindOf returns the kind of err. Errors coming from the operating
// system (sockets, timers) are reported as IOError.
func KindOf(err error) ErrorKind {
	var ke *kindedError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return IOError
}

// RuntimeError is fatal to the execution unit that raised it
type RuntimeError struct {
	Err    error
	Line   int
	Lexeme string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", KindOf(e.Err), e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Kind returns the error kind
func (e *RuntimeError) Kind() ErrorKind {
	return KindOf(e.Err)
}

// ParseError is reported before the program starts running
type ParseError struct {
	Err    error
	Line   int
	Lexeme string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", KindOf(e.Err), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Lexer errors
var errIllegalChar = newError(SyntaxError, "Illegal character")
var errWrongBang = newError(SyntaxError, "'!' cannot be used here")
var errUnclosedString = newError(SyntaxError, "Closing \" was expected")
var errInvalidNumber = newError(SyntaxError, "Invalid number literal")

// Parser errors
var errUnclosedParen = newError(SyntaxError, "Expect ')' after expression")
var errUnclosedBracket = newError(SyntaxError, "Expected ']' at end of array")
var errExpectedProp = newError(SyntaxError, "Expected property name after '.'")
var errUndefinedExpr = newError(SyntaxError, "Undefined expression")
var errMaxArguments = newError(SyntaxError, "Max number of arguments is 255")
var errMaxParameters = newError(SyntaxError, "Max number of parameters is 255")
var errExpectedIdentifier = newError(SyntaxError, "Expected variable name")
var errExpectedNewline = newError(SyntaxError, "Expected new line")
var errExpectedOpeningCurlyBrace = newError(SyntaxError, "Expected '{' to open block")
var errExpectedClosingCurlyBrace = newError(SyntaxError, "Expected '}' to close block")
var errExpectedFunctionName = newError(SyntaxError, "Expected function name")
var errExpectedFunctionParam = newError(SyntaxError, "Expected function parameter")
var errExpectedClassName = newError(SyntaxError, "Expected class name")
var errExpectedParen = newError(SyntaxError, "Expected '('")
var errInvalidAssignment = newError(SyntaxError, "Invalid assignment target")
var errInvalidIncrement = newError(SyntaxError, "Only variables can be incremented or decremented")
var errReturnOutsideFunction = newError(SyntaxError, "'return' is only allowed inside functions")
var errUninitializedConstant = newError(SyntaxError, "Constants must be initialized")
var errExpectedModulePath = newError(SyntaxError, "Expected module path string")
var errExpectedAs = newError(SyntaxError, "Expected 'as' after import path")
var errOnlyAllowedInsideLoop = newError(BreakOutsideLoopError, "'break' is only allowed inside loops")

// Runtime errors
var errUndefinedVar = newError(UnboundNameError, "Undefined variable")
var errUnknownBuiltin = newError(UnknownBuiltinError, "Unknown builtin")
var errUndefinedField = newError(UnknownFieldError, "Undefined field")
var errUndefinedOp = newError(TypeMismatchError, "Operation not defined")
var errOnlyFunction = newError(TypeMismatchError, "Can only call functions")
var errClassNotCallable = newError(TypeMismatchError, "Classes are instantiated with 'new'")
var errExpectedClass = newError(TypeMismatchError, "Only classes can be instantiated")
var errExpectedObject = newError(TypeMismatchError, "Only instances have methods")
var errWrongArity = newError(ArityError, "Too many arguments")
var errClosedHandle = newError(IOError, "Handle is closed")
var errAssignConstant = newError(ConstantAssignmentError, "Cannot assign to constant")
var errModuleRead = newError(IOError, "Cannot read module")
var errModuleSyntax = newError(SyntaxError, "Module has syntax errors")
var errIncludeCycle = newError(SyntaxError, "Module includes itself")
var errInternal = newError(InternalError, "Internal error")

// Builtin argument errors
var errInvalidNumberArguments = newError(BuiltinArgumentError, "Invalid number of arguments")
var errExpectedString = newError(BuiltinArgumentError, "Expected string")
var errExpectedNumber = newError(BuiltinArgumentError, "Expected number")
var errExpectedInteger = newError(BuiltinArgumentError, "Expected integer")
var errIntegerOutOfRange = newError(BuiltinArgumentError, "Integer out of range")
var errExpectedArray = newError(BuiltinArgumentError, "Expected array")
var errExpectedFunction = newError(BuiltinArgumentError, "Expected function")
var errExpectedInstance = newError(BuiltinArgumentError, "Expected instance")
var errExpectedListener = newError(BuiltinArgumentError, "Expected tcp listener")
var errExpectedConnection = newError(BuiltinArgumentError, "Expected tcp connection")
var errExpectedHandle = newError(BuiltinArgumentError, "Expected handle")
var errIndexOutOfRange = newError(BuiltinArgumentError, "Index out of range")
var errInvalidRange = newError(BuiltinArgumentError, "End must not be lower than start")
var errNegativeSqrt = newError(BuiltinArgumentError, "Cannot take square root of a negative number")
var errExpectedExpression = newError(BuiltinArgumentError, "Expected a single expression")
